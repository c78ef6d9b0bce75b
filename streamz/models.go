// Package streamz implements the Streamz authentication and stream-resolution APIs.
package streamz

// Profile represents an account profile as reported by the backend.
// Profiles are fetched per session and never persisted.
type Profile struct {
	// Backend identifier of the profile.
	ID string `json:"id"`
	// Product the profile belongs to (e.g. "STREAMZ", "STREAMZ_KIDS").
	Product string `json:"product"`
	// Display name.
	Name string `json:"name"`
	// Self-reported gender, may be empty.
	Gender string `json:"gender"`
	// Birthdate in backend format, may be empty.
	BirthDate string `json:"birthDate"`
	// Gradient colors used by the service to render the profile avatar.
	ColorStart string `json:"colorStart"`
	ColorEnd   string `json:"colorEnd"`
}

// String returns the display name for presentation.
func (p *Profile) String() string {
	return p.Name
}

// Subtitle is one subtitle track offered alongside a stream.
type Subtitle struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ResolvedStream is the playable result of a stream resolution.
// It is created once per GetStream call and must not be cached: player
// tokens and manifest URLs are short-lived, so every playback attempt
// re-resolves.
type ResolvedStream struct {
	// Program title and id, only set for episodes.
	Program   string
	ProgramID string
	// Episode or movie title.
	Title string
	// Duration in seconds as reported by the backend, passed through unmodified.
	Duration float64
	// Manifest URL of the selected adaptive variant.
	URL string
	// Widevine license endpoint, empty when the variant carries no DRM.
	LicenseURL string
	// Subtitle tracks offered with the stream.
	Subtitles []Subtitle
}
