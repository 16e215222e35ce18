package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GinAdapter converts an http.Handler middleware into a gin.HandlerFunc so the
// storefront sub-app can share the limiters defined in this package.
func GinAdapter(mw func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Request = r.WithContext(r.Context())
			c.Next()
		})
		handler := mw(next)
		handler.ServeHTTP(c.Writer, c.Request)
	}
}
