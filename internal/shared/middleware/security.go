package middleware

import (
	"net"
	"net/http"
	"strings"
)

const hstsValue = "max-age=31536000; includeSubDomains"

// HSTS tells browsers to use HTTPS for a year, subdomains included.
func HSTS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Strict-Transport-Security", hstsValue)
		next.ServeHTTP(w, r)
	})
}

// SecureCookies forces Secure and HttpOnly on every cookie the handler sets,
// and SameSite=Strict where the handler chose no SameSite mode.
func SecureCookies(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(&cookieHardener{ResponseWriter: w}, r)
	})
}

type cookieHardener struct {
	http.ResponseWriter
	done bool
}

func (h *cookieHardener) Write(b []byte) (int, error) {
	h.WriteHeader(http.StatusOK)
	return h.ResponseWriter.Write(b)
}

func (h *cookieHardener) WriteHeader(statusCode int) {
	if h.done {
		return
	}
	h.done = true

	header := h.ResponseWriter.Header()
	raw := header.Values("Set-Cookie")
	if len(raw) > 0 {
		header.Del("Set-Cookie")
		for _, line := range raw {
			header.Add("Set-Cookie", hardenCookie(line))
		}
	}

	h.ResponseWriter.WriteHeader(statusCode)
}

// hardenCookie rewrites a Set-Cookie line with secure attributes. Lines that do
// not parse are passed through unchanged.
func hardenCookie(line string) string {
	c, err := http.ParseSetCookie(line)
	if err != nil {
		return line
	}

	c.Secure = true
	c.HttpOnly = true
	if c.SameSite == http.SameSiteDefaultMode {
		c.SameSite = http.SameSiteStrictMode
	}

	return c.String()
}

// IsHostAllowed validates a host against the allowed hosts list, comparing
// full host:port values first and then bare hostnames. IPv6 literals may be
// bracketed or not. An empty list allows every host.
func IsHostAllowed(host string, allowedHosts []string) bool {
	if len(allowedHosts) == 0 {
		return true
	}

	host = strings.ToLower(strings.TrimSpace(host))
	hostname := stripPort(host)

	for _, allowed := range allowedHosts {
		allowed = strings.ToLower(strings.TrimSpace(allowed))
		if host == allowed || hostname == stripPort(allowed) {
			return true
		}
	}

	return false
}

func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
}
