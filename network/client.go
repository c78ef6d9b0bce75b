// Package network provides pre-configured HTTP clients for backend communication.
package network

import (
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/streamz-cli/streamz/key"
)

// Client is the shared HTTP client used for stateless API requests.
// It is configured with increased concurrency limits and timeouts suited to
// short sequential exchanges against the content backend.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: newTransport(),
}

// NewSession returns an HTTP client with an isolated cookie jar.
// The login handshake is a chain of requests that only works when cookies
// established by earlier steps are replayed on later ones, and concurrent
// sessions must not share a jar.
func NewSession() *http.Client {
	jar := lo.Must(cookiejar.New(nil))

	transport := http.RoundTripper(newTransport())
	if viper.GetBool(key.NetworkTLSSpoofing) {
		transport = Spoofed()
	}

	return &http.Client{
		Jar:       jar,
		Timeout:   Timeout(),
		Transport: transport,
	}
}

// Timeout returns the configured HTTP timeout.
func Timeout() time.Duration {
	seconds := viper.GetInt(key.NetworkTimeout)
	if seconds <= 0 {
		return time.Minute
	}
	return time.Duration(seconds) * time.Second
}

// newTransport initializes a tuned http.Transport with optimized pool and timeout parameters.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 30 * time.Second
	return t
}
