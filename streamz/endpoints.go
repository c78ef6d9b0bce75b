package streamz

// Endpoints groups the base URLs of the services involved in authentication
// and stream resolution. Constructed values default to production; tests
// point them at a fake backend.
type Endpoints struct {
	// Account hosts the login entry page that seeds the cookie chain.
	Account string
	// Login is the identity service receiving the credential exchange.
	Login string
	// Web is the site handling the login confirmation and callback.
	Web string
	// API is the content API (profiles, stream tokens).
	API string
	// Player is the video-player configuration and heartbeat service.
	Player string
}

// DefaultEndpoints returns the production service endpoints.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Account: "https://account.streamz.be",
		Login:   "https://login.streamz.be",
		Web:     "https://www.streamz.be",
		API:     "https://lfvp-api.dpgmedia.net",
		Player:  "https://videoplayer-service.api.persgroep.cloud",
	}
}
