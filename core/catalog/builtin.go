package catalog

import "github.com/leakguard/leakguard/core/findings"

// builtinDefs is the compact table from which the built-in Catalog is
// built. Patterns are grouped by provider the way a maintainer encountering
// a new leaked-credential format in the wild would append to the table.
var builtinDefs = []Rule{
	// -----------------------------------------------------------------
	// Cloud providers
	// -----------------------------------------------------------------
	{
		ID:          "LG-AWS-001",
		Description: "AWS Access Key ID",
		Pattern:     `\b((?:A3T[A-Z0-9]|AKIA|ASIA|ABIA|ACCA)[A-Z2-7]{16})\b`,
		SecretType:  findings.TypeAccessToken,
		Severity:    findings.SeverityHigh,
		Confidence:  0.9,
		Keywords:    []string{"akia", "asia", "abia", "acca"},
	},
	{
		ID:          "LG-AWS-002",
		Description: "AWS Secret Access Key",
		Pattern:     `(?i)aws_secret_access_key\s*[=:]\s*['"]?[A-Za-z0-9/+=]{40}['"]?`,
		SecretType:  findings.TypeAPIKey,
		Severity:    findings.SeverityCritical,
		Confidence:  0.85,
		Keywords:    []string{"aws_secret_access_key"},
	},
	{
		ID:          "LG-GCP-001",
		Description: "GCP API Key",
		Pattern:     `AIza[0-9A-Za-z\-_]{35}`,
		SecretType:  findings.TypeAPIKey,
		Severity:    findings.SeverityHigh,
		Confidence:  0.9,
		Keywords:    []string{"aiza"},
	},
	{
		ID:          "LG-GCP-002",
		Description: "GCP Service Account JSON",
		Pattern:     `(?i)"type"\s*:\s*"service_account"`,
		SecretType:  findings.TypeCertificate,
		Severity:    findings.SeverityCritical,
		Confidence:  0.95,
		Keywords:    []string{"service_account"},
	},
	{
		ID:          "LG-AZURE-001",
		Description: "Azure AD Client Secret",
		Pattern:     `(?i)(client_secret|client-secret)\s*[=:]\s*['"][0-9a-zA-Z~._\-]{34,}['"]`,
		SecretType:  findings.TypeAPIKey,
		Severity:    findings.SeverityHigh,
		Confidence:  0.75,
		Keywords:    []string{"client_secret", "client-secret"},
	},
	{
		ID:          "LG-AZURE-002",
		Description: "Azure Storage Account Key",
		Pattern:     `(?i)AccountKey=[A-Za-z0-9+/=]{80,}`,
		SecretType:  findings.TypeAPIKey,
		Severity:    findings.SeverityCritical,
		Confidence:  0.85,
		Keywords:    []string{"accountkey"},
	},

	// -----------------------------------------------------------------
	// Source control and CI
	// -----------------------------------------------------------------
	{
		ID:          "LG-GH-001",
		Description: "GitHub Personal Access Token",
		Pattern:     `gh[pso]_[A-Za-z0-9_]{36,}`,
		SecretType:  findings.TypeAccessToken,
		Severity:    findings.SeverityHigh,
		Confidence:  0.9,
		Keywords:    []string{"ghp_", "ghs_", "gho_"},
	},
	{
		ID:          "LG-GH-002",
		Description: "GitHub Fine-Grained Personal Access Token",
		Pattern:     `github_pat_[A-Za-z0-9_]{82}`,
		SecretType:  findings.TypeAccessToken,
		Severity:    findings.SeverityHigh,
		Confidence:  0.95,
		Keywords:    []string{"github_pat_"},
	},
	{
		ID:          "LG-GH-003",
		Description: "GitHub App User-to-Server Token",
		Pattern:     `ghu_[A-Za-z0-9_]{36,}`,
		SecretType:  findings.TypeAccessToken,
		Severity:    findings.SeverityHigh,
		Confidence:  0.9,
		Keywords:    []string{"ghu_"},
	},

	// -----------------------------------------------------------------
	// Payments and messaging
	// -----------------------------------------------------------------
	{
		ID:          "LG-STRIPE-001",
		Description: "Stripe Live Secret Key",
		Pattern:     `sk_live_[a-zA-Z0-9]{24,}`,
		SecretType:  findings.TypeAPIKey,
		Severity:    findings.SeverityCritical,
		Confidence:  0.95,
		Keywords:    []string{"sk_live_"},
	},
	{
		ID:          "LG-STRIPE-002",
		Description: "Stripe Test Secret Key",
		Pattern:     `sk_test_[a-zA-Z0-9]{24,}`,
		SecretType:  findings.TypeAPIKey,
		Severity:    findings.SeverityMedium,
		Confidence:  0.9,
		Keywords:    []string{"sk_test_"},
	},
	{
		ID:          "LG-STRIPE-003",
		Description: "Stripe Restricted Key",
		Pattern:     `rk_live_[a-zA-Z0-9]{24,}`,
		SecretType:  findings.TypeAPIKey,
		Severity:    findings.SeverityHigh,
		Confidence:  0.9,
		Keywords:    []string{"rk_live_"},
	},
	{
		ID:          "LG-SLACK-001",
		Description: "Slack Token",
		Pattern:     `xox[baprs]-[A-Za-z0-9-]{10,}`,
		SecretType:  findings.TypeAccessToken,
		Severity:    findings.SeverityHigh,
		Confidence:  0.85,
		Keywords:    []string{"xoxb-", "xoxp-", "xoxa-", "xoxr-", "xoxs-"},
	},
	{
		ID:          "LG-SLACK-002",
		Description: "Slack Incoming Webhook URL",
		Pattern:     `https://hooks\.slack\.com/services/T[A-Za-z0-9]{8,}/B[A-Za-z0-9]{8,}/[A-Za-z0-9]{20,}`,
		SecretType:  findings.TypeAccessToken,
		Severity:    findings.SeverityMedium,
		Confidence:  0.9,
		Keywords:    []string{"hooks.slack.com"},
	},

	// -----------------------------------------------------------------
	// Private keys and certificates
	// -----------------------------------------------------------------
	{
		ID:          "LG-PEM-001",
		Description: "PEM-encoded Private Key",
		Pattern:     `-----BEGIN (RSA |EC |DSA |OPENSSH |PGP |ENCRYPTED )?PRIVATE KEY-----`,
		SecretType:  findings.TypePrivateKey,
		Severity:    findings.SeverityCritical,
		Confidence:  0.97,
		Keywords:    []string{"private key"},
	},

	// -----------------------------------------------------------------
	// Tokens
	// -----------------------------------------------------------------
	{
		ID:          "LG-JWT-001",
		Description: "JSON Web Token",
		Pattern:     `eyJ[A-Za-z0-9_-]{10,}\.eyJ[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}`,
		SecretType:  findings.TypeJWT,
		Severity:    findings.SeverityMedium,
		Confidence:  0.7,
		Keywords:    []string{"eyj"},
	},

	// -----------------------------------------------------------------
	// Database connection strings with embedded credentials
	// -----------------------------------------------------------------
	{
		ID:          "LG-DB-001",
		Description: "Generic SQL connection string with embedded credentials",
		Pattern:     `(?i)(mysql|postgres(?:ql)?|mssql|sqlserver|oracle|mariadb|jdbc:[a-z]+)://[^:\s]+:[^@\s]+@[^\s'"]+`,
		SecretType:  findings.TypeDatabaseURL,
		Severity:    findings.SeverityHigh,
		Confidence:  0.85,
		Keywords:    []string{"://"},
	},
	{
		ID:          "LG-DB-002",
		Description: "MongoDB connection string with embedded credentials",
		Pattern:     `mongodb(\+srv)?://[^:\s]+:[^@\s]+@[^\s'"]+`,
		SecretType:  findings.TypeDatabaseURL,
		Severity:    findings.SeverityHigh,
		Confidence:  0.85,
		Keywords:    []string{"mongodb://", "mongodb+srv://"},
	},
	{
		ID:          "LG-DB-003",
		Description: "Redis connection string with embedded credentials",
		Pattern:     `rediss?://[^:\s]+:[^@\s]+@[^\s'"]+`,
		SecretType:  findings.TypeDatabaseURL,
		Severity:    findings.SeverityHigh,
		Confidence:  0.8,
		Keywords:    []string{"redis://", "rediss://"},
	},

	// -----------------------------------------------------------------
	// Generic patterns
	// -----------------------------------------------------------------
	{
		ID:          "LG-GEN-001",
		Description: "Generic hard-coded password assignment",
		Pattern:     `(?i)(password|passwd|pwd)\s*[=:]\s*['"][^'"\s]{8,}['"]`,
		SecretType:  findings.TypePassword,
		Severity:    findings.SeverityMedium,
		Confidence:  0.5,
		Keywords:    []string{"password", "passwd", "pwd"},
	},
	{
		ID:          "LG-GEN-002",
		Description: "Generic API key assignment",
		Pattern:     `(?i)(api[_-]?key|apikey)\s*[=:]\s*['"][A-Za-z0-9_\-]{16,}['"]`,
		SecretType:  findings.TypeAPIKey,
		Severity:    findings.SeverityMedium,
		Confidence:  0.55,
		Keywords:    []string{"api_key", "apikey"},
	},
}

// Builtin returns a freshly constructed Catalog containing every built-in
// rule. Each call produces independent Rule values so compiled regexp
// caches are never shared across catalogs.
func Builtin() *Catalog {
	c := New()
	for _, def := range builtinDefs {
		r := def
		c.Add(r)
	}
	return c
}
