// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Account Credentials - these keys identify the Streamz account used for the login handshake.
const (
	CredentialsUsername   = "credentials.username"
	CredentialsPassword   = "credentials.password"
	CredentialsUseKeyring = "credentials.use_keyring"
	CredentialsProvider   = "credentials.provider"
)

// Profile Selection - these keys select the account profile applied to authenticated calls.
const (
	ProfileSelector = "profile.selector"
	ProfileProducts = "profile.products"
)

// Network Behaviour - these keys tune the HTTP layer used for every backend exchange.
const (
	NetworkTimeout     = "network.timeout"
	NetworkTLSSpoofing = "network.tls_spoofing"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern terminal output behaviour.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
