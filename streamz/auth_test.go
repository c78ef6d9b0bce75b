package streamz

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/streamz-cli/streamz/filesystem"
)

// errorAs is a typed wrapper over errors.As for readability in assertions.
func errorAs[T error](err error, target *T) bool {
	return errors.As(err, target)
}

// testEndpoints points every service at the same fake backend.
func testEndpoints(baseURL string) Endpoints {
	return Endpoints{
		Account: baseURL,
		Login:   baseURL,
		Web:     baseURL,
		API:     baseURL,
		Player:  baseURL,
	}
}

// fakeIdentity is a configurable fake of the login handshake backend.
type fakeIdentity struct {
	authenticateHits   int
	authenticateStatus int
	authenticateBody   string

	confirmationBody string
	sessionToken     string
	omitCookie       bool
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{
		authenticateStatus: http.StatusOK,
		confirmationBody: `<form method="post">
			<input type="hidden" name="state" value="state-1">
			<input type="hidden" name="code" value="code-1">
		</form>`,
		sessionToken: makeJWT(map[string]any{"exp": time.Now().Add(time.Hour).Unix()}),
	}
}

func (f *fakeIdentity) server() *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>login</html>")
	})

	mux.HandleFunc("/co/authenticate", func(w http.ResponseWriter, r *http.Request) {
		f.authenticateHits++
		w.WriteHeader(f.authenticateStatus)
		fmt.Fprint(w, f.authenticateBody)
	})

	mux.HandleFunc("/streamz/aanmelden", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, f.confirmationBody)
	})

	mux.HandleFunc("/streamz/login-callback", func(w http.ResponseWriter, r *http.Request) {
		if !f.omitCookie {
			http.SetCookie(w, &http.Cookie{Name: "lfvp_auth", Value: f.sessionToken})
		}
		w.WriteHeader(http.StatusOK)
	})

	return httptest.NewServer(mux)
}

func newTestAuth(t *testing.T, username, password, selector, tokenPath, baseURL string) *Auth {
	t.Helper()

	auth, err := NewAuth(username, password, LoginStreamz, selector, tokenPath)
	if err != nil {
		t.Fatalf("NewAuth: %v", err)
	}
	auth.endpoints = testEndpoints(baseURL)
	return auth
}

func TestNewAuth(t *testing.T) {
	Convey("NewAuth", t, func() {
		filesystem.SetMemMapFs()
		path := "/config/streamz/auth-tokens.json"

		Convey("Should require credentials", func() {
			_, err := NewAuth("", "", LoginStreamz, "", path)
			So(err, ShouldEqual, ErrNoCredentials)

			_, err = NewAuth("user@example.com", "", LoginStreamz, "", path)
			So(err, ShouldEqual, ErrNoCredentials)
		})

		Convey("Should discard a cached token issued for other credentials", func() {
			stale := &AccountStorage{
				JWTToken: makeJWT(map[string]any{"exp": time.Now().Add(time.Hour).Unix()}),
				Hash:     Fingerprint("old@example.com", "oldpass"),
			}
			So(saveAccount(path, stale), ShouldBeNil)

			auth, err := NewAuth("new@example.com", "newpass", LoginStreamz, "", path)
			So(err, ShouldBeNil)

			// No token before any login call, and the cleared state is persisted.
			So(auth.Tokens().JWTToken, ShouldBeEmpty)
			So(loadAccount(path).JWTToken, ShouldBeEmpty)
			So(auth.Tokens().Hash, ShouldEqual, Fingerprint("new@example.com", "newpass"))
		})

		Convey("Should keep a cached token issued for the same credentials", func() {
			token := makeJWT(map[string]any{"exp": time.Now().Add(time.Hour).Unix()})
			cached := &AccountStorage{
				JWTToken: token,
				Hash:     Fingerprint("user@example.com", "hunter2"),
			}
			So(saveAccount(path, cached), ShouldBeNil)

			auth, err := NewAuth("user@example.com", "hunter2", LoginStreamz, "", path)
			So(err, ShouldBeNil)
			So(auth.Tokens().JWTToken, ShouldEqual, token)
		})

		Convey("Profile selector", func() {
			Convey("Should apply profile and product", func() {
				auth, err := NewAuth("user@example.com", "hunter2", LoginStreamz, "p1:STREAMZ_KIDS", path)
				So(err, ShouldBeNil)
				So(auth.Tokens().Profile, ShouldEqual, "p1")
				So(auth.Tokens().Product, ShouldEqual, "STREAMZ_KIDS")
			})

			Convey("Should tolerate a missing product part", func() {
				auth, err := NewAuth("user@example.com", "hunter2", LoginStreamz, "p1", path)
				So(err, ShouldBeNil)
				So(auth.Tokens().Profile, ShouldEqual, "p1")
				So(auth.Tokens().Product, ShouldBeEmpty)
			})
		})
	})
}

func TestLogin(t *testing.T) {
	Convey("Login", t, func() {
		filesystem.SetMemMapFs()
		path := "/config/streamz/auth-tokens.json"

		Convey("Should perform the handshake and persist the token", func() {
			identity := newFakeIdentity()
			srv := identity.server()
			defer srv.Close()

			auth := newTestAuth(t, "user@example.com", "hunter2", "", path, srv.URL)

			account, err := auth.Login(false)
			So(err, ShouldBeNil)
			So(account.JWTToken, ShouldEqual, identity.sessionToken)
			So(identity.authenticateHits, ShouldEqual, 1)

			// Persisted for the next invocation.
			So(loadAccount(path).JWTToken, ShouldEqual, identity.sessionToken)
		})

		Convey("Should not repeat the handshake while the token is valid", func() {
			identity := newFakeIdentity()
			srv := identity.server()
			defer srv.Close()

			auth := newTestAuth(t, "user@example.com", "hunter2", "", path, srv.URL)

			first, err := auth.Login(false)
			So(err, ShouldBeNil)

			second, err := auth.Login(false)
			So(err, ShouldBeNil)
			So(second.JWTToken, ShouldEqual, first.JWTToken)
			So(identity.authenticateHits, ShouldEqual, 1)
		})

		Convey("Should repeat the handshake when forced", func() {
			identity := newFakeIdentity()
			srv := identity.server()
			defer srv.Close()

			auth := newTestAuth(t, "user@example.com", "hunter2", "", path, srv.URL)

			_, err := auth.Login(false)
			So(err, ShouldBeNil)

			_, err = auth.Login(true)
			So(err, ShouldBeNil)
			So(identity.authenticateHits, ShouldEqual, 2)
		})

		Convey("Should surface rejected credentials", func() {
			identity := newFakeIdentity()
			identity.authenticateStatus = http.StatusUnauthorized
			srv := identity.server()
			defer srv.Close()

			auth := newTestAuth(t, "user@example.com", "wrong", "", path, srv.URL)

			_, err := auth.Login(false)
			So(err, ShouldEqual, ErrInvalidCredentials)
		})

		Convey("Should surface a missing subscription with its provider", func() {
			identity := newFakeIdentity()
			identity.authenticateStatus = http.StatusForbidden
			identity.authenticateBody = `{"code":"no_subscription","provider":"telenet"}`
			srv := identity.server()
			defer srv.Close()

			auth := newTestAuth(t, "user@example.com", "hunter2", "", path, srv.URL)

			_, err := auth.Login(false)
			var subscription *SubscriptionError
			So(err, ShouldNotBeNil)
			So(errorAs(err, &subscription), ShouldBeTrue)
			So(subscription.Provider, ShouldEqual, "telenet")
		})

		Convey("Should surface unknown backend login codes", func() {
			identity := newFakeIdentity()
			identity.authenticateStatus = http.StatusForbidden
			identity.authenticateBody = `{"code":"account_locked"}`
			srv := identity.server()
			defer srv.Close()

			auth := newTestAuth(t, "user@example.com", "hunter2", "", path, srv.URL)

			_, err := auth.Login(false)
			var loginErr *LoginError
			So(errorAs(err, &loginErr), ShouldBeTrue)
			So(loginErr.Code, ShouldEqual, "account_locked")
		})

		Convey("Should report which confirmation field is missing", func() {
			identity := newFakeIdentity()
			identity.confirmationBody = `<form><input type="hidden" name="code" value="code-1"></form>`
			srv := identity.server()
			defer srv.Close()

			auth := newTestAuth(t, "user@example.com", "hunter2", "", path, srv.URL)

			_, err := auth.Login(false)
			var protocol *ProtocolError
			So(errorAs(err, &protocol), ShouldBeTrue)
			So(protocol.Field, ShouldEqual, "state")
		})

		Convey("Should fail when the session cookie never arrives", func() {
			identity := newFakeIdentity()
			identity.omitCookie = true
			srv := identity.server()
			defer srv.Close()

			auth := newTestAuth(t, "user@example.com", "hunter2", "", path, srv.URL)

			_, err := auth.Login(false)
			var protocol *ProtocolError
			So(errorAs(err, &protocol), ShouldBeTrue)
			So(protocol.Field, ShouldEqual, "lfvp_auth")
		})
	})
}

func TestLogout(t *testing.T) {
	Convey("Logout", t, func() {
		filesystem.SetMemMapFs()
		path := "/config/streamz/auth-tokens.json"

		So(saveAccount(path, &AccountStorage{
			JWTToken: makeJWT(map[string]any{"exp": time.Now().Add(time.Hour).Unix()}),
			Hash:     Fingerprint("user@example.com", "hunter2"),
		}), ShouldBeNil)

		auth, err := NewAuth("user@example.com", "hunter2", LoginStreamz, "", path)
		So(err, ShouldBeNil)
		So(auth.Tokens().JWTToken, ShouldNotBeEmpty)

		So(auth.Logout(), ShouldBeNil)
		So(auth.Tokens().JWTToken, ShouldBeEmpty)
		So(loadAccount(path).JWTToken, ShouldBeEmpty)
	})
}

func TestProfiles(t *testing.T) {
	Convey("Profiles", t, func() {
		filesystem.SetMemMapFs()
		path := "/config/streamz/auth-tokens.json"

		mux := http.NewServeMux()
		var requestedProducts string
		mux.HandleFunc("/profiles", func(w http.ResponseWriter, r *http.Request) {
			requestedProducts = r.URL.Query().Get("products")
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `[
				{"id":"p2","product":"STREAMZ","name":"Second","gender":"f","birthDate":"2001-01-01","color":{"start":"#111111","end":"#222222"}},
				{"id":"p1","product":"STREAMZ_KIDS","name":"First","color":{"start":"#333333","end":"#444444"}}
			]`)
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		auth := newTestAuth(t, "user@example.com", "hunter2", "", path, srv.URL)

		profiles, err := auth.Profiles("")
		So(err, ShouldBeNil)
		So(requestedProducts, ShouldEqual, DefaultProducts)

		// Backend response order is preserved, not re-sorted.
		So(profiles, ShouldHaveLength, 2)
		So(profiles[0].ID, ShouldEqual, "p2")
		So(profiles[0].Name, ShouldEqual, "Second")
		So(profiles[0].ColorStart, ShouldEqual, "#111111")
		So(profiles[0].ColorEnd, ShouldEqual, "#222222")
		So(profiles[1].ID, ShouldEqual, "p1")
		So(profiles[1].Product, ShouldEqual, "STREAMZ_KIDS")
	})
}
