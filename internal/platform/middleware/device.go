package middleware

import (
	"net/http"
	"strings"

	"github.com/mssola/useragent"

	"mentorgate/pkg/requestcontext"
)

// Device derives a human-readable device label ("Chrome on Linux") from the
// User-Agent header and injects it into the request context. Verification
// attempts log it so operators can spot scripted completion attempts.
func Device(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		label := parseUserAgent(r.UserAgent())
		ctx := requestcontext.WithDevice(r.Context(), label)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func parseUserAgent(userAgentString string) string {
	if userAgentString == "" {
		return "unknown"
	}

	ua := useragent.New(userAgentString)
	browser, _ := ua.Browser()
	os := ua.OS()

	browser = strings.TrimSpace(browser)
	os = strings.TrimSpace(os)
	switch {
	case browser == "" && os == "":
		return "unknown"
	case os == "":
		return browser
	case browser == "":
		return os
	default:
		return browser + " on " + os
	}
}
