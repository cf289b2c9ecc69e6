// Package clientinfo derives who is calling from an inbound HTTP request:
// the originating address used as a throttling key, and a coarse
// device/browser/os classification of the user agent.
package clientinfo

import (
	"net"
	"net/http"
	"strings"

	"github.com/mssola/useragent"
)

// Unknown is used for any attribute that cannot be derived.
const Unknown = "unknown"

// ClientIP returns the originating address of r. With trustForwarded set the
// first X-Forwarded-For hop wins, then X-Real-Ip; otherwise, and as a last
// resort, the socket peer host. Never returns "".
func ClientIP(r *http.Request, trustForwarded bool) string {
	if trustForwarded {
		if header := r.Header.Get("X-Forwarded-For"); header != "" {
			// <client>, <proxy1>, <proxy2>
			first := strings.TrimSpace(strings.SplitN(header, ",", 2)[0])
			if first != "" {
				return first
			}
		}
		if header := strings.TrimSpace(r.Header.Get("X-Real-Ip")); header != "" {
			return header
		}
	}

	if r.RemoteAddr != "" {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err == nil && host != "" {
			return host
		}
		return r.RemoteAddr
	}
	return Unknown
}

type Agent struct {
	Device  string `json:"device"`
	Browser string `json:"browser"`
	OS      string `json:"os"`
}

// ParseUserAgent classifies ua. Device is one of desktop, mobile, tablet or
// bot; an empty ua yields Unknown for every field.
func ParseUserAgent(ua string) Agent {
	if strings.TrimSpace(ua) == "" {
		return Agent{Device: Unknown, Browser: Unknown, OS: Unknown}
	}
	parsed := useragent.New(ua)

	device := "desktop"
	lower := strings.ToLower(ua)
	switch {
	case parsed.Bot():
		device = "bot"
	case strings.Contains(lower, "ipad") || strings.Contains(lower, "tablet"):
		device = "tablet"
	case parsed.Mobile():
		device = "mobile"
	}

	browser, _ := parsed.Browser()
	if browser == "" {
		browser = Unknown
	}
	os := parsed.OSInfo().Name
	if os == "" {
		os = parsed.OS()
	}
	if os == "" {
		os = Unknown
	}

	return Agent{Device: device, Browser: browser, OS: os}
}
