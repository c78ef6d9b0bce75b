package streamz

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/streamz-cli/streamz/constant"
	"github.com/streamz-cli/streamz/log"
	"github.com/streamz-cli/streamz/network"
	"github.com/streamz-cli/streamz/util"
)

// Login providers supported by the identity service.
const (
	LoginStreamz = "streamz"
	LoginTelenet = "telenet"
)

// DefaultProducts is the product filter applied when listing profiles
// without an explicit filter.
const DefaultProducts = "STREAMZ,STREAMZ_KIDS"

// sessionCookie is the cookie carrying the session token after the login callback.
const sessionCookie = "lfvp_auth"

// The confirmation page embeds the callback form fields in its markup.
// Scraping them is an inherently fragile contract with the backend; it is
// confined to webLogin so markup changes never reach callers.
var (
	statePattern = regexp.MustCompile(`name="state" value="(?P<value>[^"]+)`)
	codePattern  = regexp.MustCompile(`name="code" value="(?P<value>[^"]+)`)
)

// Auth owns the session with the Streamz identity service: it loads and
// persists the token cache, executes the login handshake when the cached
// token is absent or invalid, and exposes profile listing.
//
// Credentials are immutable for the lifetime of an Auth; construct a new
// instance to change them. Independent instances may be used concurrently,
// each with its own cookie session.
type Auth struct {
	username string
	password string
	provider string

	tokenPath string
	endpoints Endpoints
	client    *http.Client

	account *AccountStorage
}

// NewAuth initialises a session manager for the given credentials.
//
// The cached token is loaded best-effort from tokenPath. If the cache was
// written for different credentials it is discarded immediately, before any
// network traffic. The profile selector is formatted as "profileId:product";
// missing parts are applied as empty, not treated as an error.
//
// No login is performed here: callers (and the stream resolver) invoke
// Login when they need a valid token.
func NewAuth(username, password, provider, profileSelector, tokenPath string) (*Auth, error) {
	if username == "" || password == "" {
		return nil, ErrNoCredentials
	}

	a := &Auth{
		username:  username,
		password:  password,
		provider:  provider,
		tokenPath: tokenPath,
		endpoints: DefaultEndpoints(),
		client:    network.NewSession(),
	}

	a.account = loadAccount(tokenPath)

	if err := a.checkCredentialsChange(); err != nil {
		return nil, err
	}

	a.applyProfile(profileSelector)

	return a, nil
}

// checkCredentialsChange discards the cached token when the supplied
// credentials no longer match the fingerprint it was issued for.
func (a *Auth) checkCredentialsChange() error {
	newHash := Fingerprint(a.username, a.password)
	if a.account.Hash != newHash {
		log.Debug("credentials have changed, clearing tokens")
		a.account.Hash = newHash
		return a.Logout()
	}
	return nil
}

// applyProfile parses a "profileId:product" selector onto the in-memory state.
func (a *Auth) applyProfile(selector string) {
	if selector == "" {
		return
	}

	parts := strings.SplitN(selector, ":", 2)
	a.account.Profile = parts[0]
	if len(parts) > 1 {
		a.account.Product = parts[1]
	} else {
		a.account.Product = ""
	}
}

// Tokens returns the in-memory session state.
func (a *Auth) Tokens() *AccountStorage {
	return a.account
}

// Login ensures a valid session token and returns the session state.
// With force set, or when the cached token is absent, expired or malformed,
// the full web handshake is executed and the result persisted; otherwise the
// cached token is returned unchanged and no network traffic occurs.
//
// The handshake is single-shot: no step is retried internally. Callers
// wanting resilience retry the whole Login call.
func (a *Auth) Login(force bool) (*AccountStorage, error) {
	if force || !a.account.IsValidToken() {
		if err := a.webLogin(); err != nil {
			return nil, err
		}
	}

	return a.account, nil
}

// Logout clears the session token and persists the cleared state, so a
// crash mid-logout cannot resurrect stale credentials.
func (a *Auth) Logout() error {
	a.account.JWTToken = ""
	return saveAccount(a.tokenPath, a.account)
}

// Profiles returns the account profiles for the given comma-separated
// product filter, in backend response order. An empty filter defaults to
// DefaultProducts.
func (a *Auth) Profiles(products string) ([]Profile, error) {
	if products == "" {
		products = DefaultProducts
	}

	req, err := http.NewRequest(http.MethodGet, a.endpoints.API+"/profiles?products="+url.QueryEscape(products), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.account.JWTToken)

	resp, err := network.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{Status: resp.StatusCode, URL: req.URL.String()}
	}

	var records []struct {
		ID        string `json:"id"`
		Product   string `json:"product"`
		Name      string `json:"name"`
		Gender    string `json:"gender"`
		BirthDate string `json:"birthDate"`
		Color     struct {
			Start string `json:"start"`
			End   string `json:"end"`
		} `json:"color"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, err
	}

	profiles := make([]Profile, 0, len(records))
	for _, record := range records {
		profiles = append(profiles, Profile{
			ID:         record.ID,
			Product:    record.Product,
			Name:       record.Name,
			Gender:     record.Gender,
			BirthDate:  record.BirthDate,
			ColorStart: record.Color.Start,
			ColorEnd:   record.Color.End,
		})
	}

	return profiles, nil
}

// webLogin executes the scrape-based login handshake and persists the
// resulting token. Sequential by nature: every step depends on cookies or
// fields produced by the previous one.
func (a *Auth) webLogin() error {
	// Start the login flow to establish cookies.
	if err := a.browse(a.endpoints.Account + "/login"); err != nil {
		return err
	}

	// Send login credentials to the identity service.
	if err := a.authenticate(); err != nil {
		return err
	}

	// Fetch the confirmation page and scrape the callback form fields.
	state, code, err := a.confirmationFields()
	if err != nil {
		return err
	}

	// Complete the callback; the session token arrives as a cookie.
	token, err := a.callback(state, code)
	if err != nil {
		return err
	}

	a.account.JWTToken = token
	return saveAccount(a.tokenPath, a.account)
}

// browse fetches a page for its cookie side effects only.
func (a *Auth) browse(pageURL string) error {
	req, err := http.NewRequest(http.MethodGet, pageURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", constant.BrowserUserAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer util.Ignore(resp.Body.Close)
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return &HTTPError{Status: resp.StatusCode, URL: pageURL}
	}

	return nil
}

// authenticate submits the credentials with the fixed client identifier.
func (a *Auth) authenticate() error {
	form := url.Values{
		"client_id":       {constant.ClientID},
		"username":        {a.username},
		"password":        {a.password},
		"realm":           {"Username-Password-Authentication"},
		"credential_type": {"http://auth0.com/oauth/grant-type/password-realm"},
	}

	req, err := http.NewRequest(http.MethodPost, a.endpoints.Login+"/co/authenticate", strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", constant.BrowserUserAgent)
	req.Header.Set("Origin", a.endpoints.Account)
	req.Header.Set("Referer", a.endpoints.Account)

	resp, err := a.client.Do(req)
	if err != nil {
		return err
	}
	defer util.Ignore(resp.Body.Close)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrInvalidCredentials

	case resp.StatusCode == http.StatusForbidden:
		var body struct {
			Code     string `json:"code"`
			Provider string `json:"provider"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return &HTTPError{Status: resp.StatusCode, URL: req.URL.String()}
		}
		if body.Code == "no_subscription" {
			provider := body.Provider
			if provider == "" {
				provider = a.provider
			}
			return &SubscriptionError{Provider: provider}
		}
		return &LoginError{Code: body.Code}

	case resp.StatusCode >= http.StatusMultipleChoices:
		return &HTTPError{Status: resp.StatusCode, URL: req.URL.String()}
	}

	return nil
}

// confirmationFields scrapes the state and code form fields embedded in the
// login confirmation page.
func (a *Auth) confirmationFields() (state, code string, err error) {
	req, err := http.NewRequest(http.MethodGet, a.endpoints.Web+"/streamz/aanmelden", nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("User-Agent", constant.BrowserUserAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer util.Ignore(resp.Body.Close)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", err
	}

	state = util.ReGroups(statePattern, string(body))["value"]
	if state == "" {
		return "", "", &ProtocolError{Field: "state"}
	}

	code = util.ReGroups(codePattern, string(body))["value"]
	if code == "" {
		return "", "", &ProtocolError{Field: "code"}
	}

	return state, code, nil
}

// callback posts the scraped fields and extracts the session token cookie.
func (a *Auth) callback(state, code string) (string, error) {
	form := url.Values{
		"state": {state},
		"code":  {code},
	}

	callbackURL := a.endpoints.Web + "/streamz/login-callback"
	req, err := http.NewRequest(http.MethodPost, callbackURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", constant.BrowserUserAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", err
	}
	defer util.Ignore(resp.Body.Close)
	_, _ = io.Copy(io.Discard, resp.Body)

	if token := cookieValue(resp.Cookies(), sessionCookie); token != "" {
		return token, nil
	}

	// The cookie may have been set on an earlier redirect hop; consult the jar.
	if a.client.Jar != nil {
		if target, parseErr := url.Parse(callbackURL); parseErr == nil {
			if token := cookieValue(a.client.Jar.Cookies(target), sessionCookie); token != "" {
				return token, nil
			}
		}
	}

	return "", &ProtocolError{Field: sessionCookie}
}

func cookieValue(cookies []*http.Cookie, name string) string {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}
