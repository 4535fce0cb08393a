package ratelimit

import (
	"net/http"
	"strings"
)

// ClientKey derives the best available client identity from request
// headers: x-real-ip, else the first hop of x-forwarded-for, else a
// shared "unknown" bucket. Unidentifiable clients throttling each other
// inside that bucket is a deliberate trade-off: it fails closed for
// traffic that strips identifying headers.
func ClientKey(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("x-real-ip")); ip != "" {
		return ip
	}
	if fwd := r.Header.Get("x-forwarded-for"); fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if first != "" {
			return first
		}
	}
	return "unknown"
}
