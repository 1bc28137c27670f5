package chi

import (
	"net/http"
	"regexp"
	"slices"

	"github.com/go-chi/cors"
)

var (
	extensionOrigin = regexp.MustCompile(`^chrome-extension://.*`)
	localhostOrigin = regexp.MustCompile(`^http://localhost(:\d+)?$`)
)

const shopifyAdminOrigin = "https://admin.shopify.com"

// originAllowed accepts browser extensions, local development, the Shopify admin
// and any extra configured origin.
func originAllowed(origin string, extra []string) bool {
	return extensionOrigin.MatchString(origin) ||
		localhostOrigin.MatchString(origin) ||
		origin == shopifyAdminOrigin ||
		slices.Contains(extra, origin)
}

// corsMiddleware applies the origin allow-list. Requests without an Origin header
// are not cross-origin and pass untouched.
func corsMiddleware(extra []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			return originAllowed(origin, extra)
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
