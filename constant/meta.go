// Package constant defines immutable application-level identifiers and service contracts.
package constant

const (
	// Streamz is the canonical application identifier used for filesystem paths and CLI branding.
	Streamz = "streamz"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// ClientID is the fixed Auth0 client identifier of the Streamz website,
	// sent during the credential exchange of the login handshake.
	ClientID = "WWl9F97L9m56SrPcTmC2hYkCCKcmxevS"

	// APIKey is the fixed key required by the video-player configuration service.
	APIKey = "zs06SrhsKN2fEQvDdTMDR2t6wYwfceQu5HAmGa0p"

	// PopcornSDKVersion is the player SDK version header value expected by the
	// video-player configuration service.
	PopcornSDKVersion = "4"

	// BrowserUserAgent is the User-Agent string used for the web login handshake.
	BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// PlayerUserAgent is the User-Agent string expected by the video-player
	// configuration and heartbeat endpoints.
	PlayerUserAgent = "Dalvik/2.1.0 (Linux; U; Android 6.0.1; MotoG3 Build/MPIS24.107-55-2-17)"
)
