// Package network provides pre-configured HTTP clients for backend communication.
package network

import (
	"context"
	"crypto/tls"
	"net"
	"net/http"
	"sync"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

// The identity service fronts its login pages with anti-bot challenges that
// reject the standard Go TLS Client Hello. This transport emulates Chrome's
// fingerprint (HelloChrome_120) and negotiates h2 with an HTTP/1.1 fallback,
// so the handshake looks like prevalent browser traffic.

const dialTimeout = 30 * time.Second

// Spoofed returns a RoundTripper that performs requests with a Chrome TLS
// fingerprint. HTTP/2 is attempted first; servers that only speak HTTP/1.1
// are retried transparently on the fallback transport.
func Spoofed() http.RoundTripper {
	return spoofedTransport{}
}

type spoofedTransport struct{}

func (spoofedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := getH2Transport().RoundTrip(req)
	if err == nil {
		return resp, nil
	}

	// Reset the body before retrying on HTTP/1.1.
	if req.GetBody != nil {
		body, bodyErr := req.GetBody()
		if bodyErr != nil {
			return nil, err
		}
		req.Body = body
	} else if req.Body != nil {
		return nil, err
	}

	return h1Transport.RoundTrip(req)
}

// h2Transport is a shared HTTP/2 transport for servers that negotiate h2.
var (
	h2Transport     *http2.Transport
	h2TransportOnce sync.Once
)

func getH2Transport() *http2.Transport {
	h2TransportOnce.Do(func() {
		h2Transport = &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialTLS(ctx, network, addr, nil)
			},
		}
	})
	return h2Transport
}

// h1Transport is a shared HTTP/1.1 transport for servers that negotiate http/1.1.
var h1Transport = &http.Transport{
	DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
		return dialTLS(ctx, network, addr, []string{"http/1.1"})
	},
}

// dialTLS creates a TLS connection mimicking Chrome 120's fingerprint.
// With nil protos it advertises both h2 and http/1.1 (natural Chrome behaviour).
func dialTLS(ctx context.Context, network, addr string, protos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protos,
	}, utls.HelloChrome_120)

	if err := tlsConn.Handshake(); err != nil {
		conn.Close()
		return nil, err
	}

	return tlsConn, nil
}
