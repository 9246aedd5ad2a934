package llm

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	xproxy "golang.org/x/net/proxy"
)

// ResolveProxy decides the outbound proxy for one client. An explicit
// setting always wins: "", "false" and "-" disable proxying outright,
// anything else must parse as a proxy URL. With no explicit setting the
// HTTPS_PROXY and ALL_PROXY environment variables are consulted in that
// order. A nil result means connect directly.
func ResolveProxy(explicit *string) (*url.URL, error) {
	var value string
	if explicit != nil {
		switch *explicit {
		case "", "false", "-":
			return nil, nil
		}
		value = *explicit
	} else {
		for _, env := range []string{"HTTPS_PROXY", "ALL_PROXY"} {
			if v := os.Getenv(env); v != "" {
				value = v
				break
			}
		}
		if value == "" {
			return nil, nil
		}
	}
	return parseProxyURL(value)
}

func parseProxyURL(value string) (*url.URL, error) {
	u, err := url.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy %q: %w", value, err)
	}
	switch u.Scheme {
	case "http", "https", "socks5", "socks5h":
	default:
		return nil, fmt.Errorf("invalid proxy %q: unsupported scheme %q", value, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid proxy %q: missing host", value)
	}
	return u, nil
}

// newHTTPClient builds the http.Client a backend hands to its SDK, honoring
// the resolved proxy and the entry's connect timeout.
func newHTTPClient(proxy *url.URL, timeout time.Duration) (*http.Client, error) {
	dialer := &net.Dialer{Timeout: timeout}
	transport := &http.Transport{
		DialContext:       dialer.DialContext,
		ForceAttemptHTTP2: true,
	}

	switch {
	case proxy == nil:
		// direct
	case proxy.Scheme == "socks5" || proxy.Scheme == "socks5h":
		var auth *xproxy.Auth
		if user := proxy.User; user != nil {
			password, _ := user.Password()
			auth = &xproxy.Auth{User: user.Username(), Password: password}
		}
		socks, err := xproxy.SOCKS5("tcp", proxy.Host, auth, dialer)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy %q: %w", proxy, err)
		}
		ctxDialer, ok := socks.(xproxy.ContextDialer)
		if !ok {
			return nil, fmt.Errorf("invalid proxy %q: dialer lacks context support", proxy)
		}
		transport.DialContext = ctxDialer.DialContext
	default:
		transport.Proxy = http.ProxyURL(proxy)
	}

	return &http.Client{Transport: transport}, nil
}
