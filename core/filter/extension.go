package filter

// defaultBinaryExtensions are always rejected regardless of configuration:
// archives, images, compiled code, and other media that cannot contain
// meaningfully scannable secrets as text.
var defaultBinaryExtensions = map[string]bool{
	"zip": true, "tar": true, "gz": true, "bz2": true, "xz": true, "7z": true, "rar": true,
	"jar": true, "war": true, "ear": true,
	"png": true, "jpg": true, "jpeg": true, "gif": true, "bmp": true, "ico": true, "webp": true,
	"mp3": true, "mp4": true, "avi": true, "mov": true, "wav": true, "flac": true,
	"so": true, "dll": true, "dylib": true, "exe": true, "bin": true, "class": true, "o": true, "a": true,
	"pdf": true, "woff": true, "woff2": true, "ttf": true, "eot": true,
	"db": true, "sqlite": true, "sqlite3": true,
}

// ExtensionFilter includes a file iff its normalized extension is in the
// include set (when non-empty) and not in the exclude set, and is never one
// of the default binary extensions.
type ExtensionFilter struct {
	Include  map[string]bool // empty means "all extensions allowed"
	Exclude  map[string]bool
	priority int
}

// NewExtensionFilter builds an ExtensionFilter from include/exclude slices.
func NewExtensionFilter(include, exclude []string, priority int) *ExtensionFilter {
	f := &ExtensionFilter{
		Include:  toSet(include),
		Exclude:  toSet(exclude),
		priority: priority,
	}
	return f
}

func toSet(exts []string) map[string]bool {
	if len(exts) == 0 {
		return nil
	}
	s := make(map[string]bool, len(exts))
	for _, e := range exts {
		s[e] = true
	}
	return s
}

// IncludesFile implements Filter.
func (f *ExtensionFilter) IncludesFile(meta Metadata) bool {
	if defaultBinaryExtensions[meta.Extension] {
		return false
	}
	if f.Exclude[meta.Extension] {
		return false
	}
	if len(f.Include) > 0 && !f.Include[meta.Extension] {
		return false
	}
	return true
}

// IncludesLine implements Filter; the extension filter never rejects a line.
func (f *ExtensionFilter) IncludesLine(_ string, _ int, _ string) bool {
	return true
}

// Priority implements Filter.
func (f *ExtensionFilter) Priority() int {
	return f.priority
}

// Describe implements Filter.
func (f *ExtensionFilter) Describe() string {
	return "extension filter"
}
