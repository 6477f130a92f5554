package scanerr

import (
	"errors"
	"testing"
)

func TestFatalKinds(t *testing.T) {
	cases := []struct {
		kind  Kind
		fatal bool
	}{
		{KindFileRead, false},
		{KindPatternCompilation, true},
		{KindConfiguration, true},
		{KindResource, false},
		{KindTimeout, false},
	}

	for _, c := range cases {
		e := New(c.kind, "", errors.New("boom"))
		if e.Fatal() != c.fatal {
			t.Errorf("%s: expected Fatal()=%v, got %v", c.kind, c.fatal, e.Fatal())
		}
	}
}

func TestErrorMessageIncludesPath(t *testing.T) {
	e := New(KindFileRead, "/repo/config.env", errors.New("permission denied"))
	msg := e.Error()
	if msg == "" {
		t.Fatal("expected non-empty error message")
	}
	if !errors.Is(e, e.Err) {
		t.Error("expected Unwrap to expose the underlying error")
	}
}

func TestErrorMessageWithoutPath(t *testing.T) {
	e := New(KindConfiguration, "", errors.New("conflicting include/exclude globs"))
	if e.Path != "" {
		t.Fatal("expected empty path")
	}
	if e.Error() == "" {
		t.Fatal("expected non-empty message")
	}
}
