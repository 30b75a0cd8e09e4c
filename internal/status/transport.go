package status

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"golang.org/x/net/http2"
)

// NewHTTP2Client builds an HTTP client that speaks HTTP/2 to the status
// endpoint. https URLs negotiate h2 over TLS; http URLs use cleartext h2c
// with prior knowledge, so the server must support it.
func NewHTTP2Client(endpoint string) (*http.Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing status url: %w", err)
	}

	switch u.Scheme {
	case "https":
		t := &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
		}
		if err := http2.ConfigureTransport(t); err != nil {
			return nil, fmt.Errorf("configuring http2: %w", err)
		}
		return &http.Client{Transport: t}, nil

	case "http":
		t := &http2.Transport{
			AllowHTTP: true,
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				var d net.Dialer
				return d.DialContext(ctx, network, addr)
			},
		}
		return &http.Client{Transport: t}, nil

	default:
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
}
