package streamz

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/streamz-cli/streamz/filesystem"
)

func init() {
	// Use in-memory filesystem for tests to avoid touching real token files
	filesystem.SetMemMapFs()
}

// makeJWT builds an unsigned-but-well-formed token for validity checks.
func makeJWT(claims map[string]any) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString(lo.Must(json.Marshal(claims)))
	return header + "." + payload + ".signature"
}

func TestFingerprint(t *testing.T) {
	Convey("Fingerprint", t, func() {
		Convey("Should be deterministic across calls", func() {
			So(Fingerprint("user@example.com", "hunter2"), ShouldEqual, Fingerprint("user@example.com", "hunter2"))
		})

		Convey("Should change when either input changes", func() {
			base := Fingerprint("user@example.com", "hunter2")
			So(Fingerprint("other@example.com", "hunter2"), ShouldNotEqual, base)
			So(Fingerprint("user@example.com", "hunter3"), ShouldNotEqual, base)
		})

		Convey("Should be order-sensitive on the pairing", func() {
			So(Fingerprint("a", "b"), ShouldNotEqual, Fingerprint("b", "a"))
		})
	})
}

func TestIsValidToken(t *testing.T) {
	Convey("IsValidToken", t, func() {
		Convey("Should reject an empty token", func() {
			account := &AccountStorage{}
			So(account.IsValidToken(), ShouldBeFalse)
		})

		Convey("Should reject a malformed token without panicking", func() {
			account := &AccountStorage{JWTToken: "not-a-jwt"}
			So(account.IsValidToken(), ShouldBeFalse)
		})

		Convey("Should reject a token without an expiry claim", func() {
			account := &AccountStorage{JWTToken: makeJWT(map[string]any{"sub": "x"})}
			So(account.IsValidToken(), ShouldBeFalse)
		})

		Convey("Should reject an expired token", func() {
			account := &AccountStorage{JWTToken: makeJWT(map[string]any{
				"exp": time.Now().Add(-time.Hour).Unix(),
			})}
			So(account.IsValidToken(), ShouldBeFalse)
		})

		Convey("Should accept a token with a future expiry", func() {
			account := &AccountStorage{JWTToken: makeJWT(map[string]any{
				"exp": time.Now().Add(time.Hour).Unix(),
			})}
			So(account.IsValidToken(), ShouldBeTrue)
		})
	})
}

func TestAccountPersistence(t *testing.T) {
	Convey("Account persistence", t, func() {
		filesystem.SetMemMapFs()
		path := "/config/streamz/auth-tokens.json"

		Convey("Load should treat a missing file as empty state", func() {
			account := loadAccount(path)
			So(account, ShouldNotBeNil)
			So(account.JWTToken, ShouldBeEmpty)
		})

		Convey("Load should treat a corrupt file as empty state", func() {
			lo.Must0(filesystem.API().MkdirAll("/config/streamz", 0o755))
			lo.Must0(filesystem.API().WriteFile(path, []byte("{invalid"), 0o600))

			account := loadAccount(path)
			So(account.JWTToken, ShouldBeEmpty)
			So(account.Hash, ShouldBeEmpty)
		})

		Convey("Load should default absent fields instead of failing", func() {
			lo.Must0(filesystem.API().MkdirAll("/config/streamz", 0o755))
			lo.Must0(filesystem.API().WriteFile(path, []byte(`{"jwt_token":"tok"}`), 0o600))

			account := loadAccount(path)
			So(account.JWTToken, ShouldEqual, "tok")
			So(account.Profile, ShouldBeEmpty)
			So(account.Product, ShouldBeEmpty)
		})

		Convey("Save should round-trip and create the containing directory", func() {
			account := &AccountStorage{
				JWTToken: "tok",
				Profile:  "p1",
				Product:  "STREAMZ",
				Hash:     "abc",
			}
			So(saveAccount(path, account), ShouldBeNil)

			loaded := loadAccount(path)
			So(loaded, ShouldResemble, account)
		})

		Convey("Save should write 2-space indented JSON", func() {
			So(saveAccount(path, &AccountStorage{JWTToken: "tok"}), ShouldBeNil)

			data := lo.Must(filesystem.API().ReadFile(path))
			So(strings.Contains(string(data), "\n  \"jwt_token\""), ShouldBeTrue)
		})

		Convey("Save should not leave a temporary file behind", func() {
			So(saveAccount(path, &AccountStorage{JWTToken: "tok"}), ShouldBeNil)

			exists := lo.Must(filesystem.API().Exists(path + ".tmp"))
			So(exists, ShouldBeFalse)
		})
	})
}
