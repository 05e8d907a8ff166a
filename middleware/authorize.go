package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	ProtectedPrefix = "/dashboard"
	HomePath        = "/dashboard"
	LoginPath       = "/login"
)

type Outcome int

const (
	Allow Outcome = iota
	Deny
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	case Redirect:
		return "redirect"
	}
	return "unknown"
}

// Decision is the result of Authorize. Location is set for Redirect only.
type Decision struct {
	Outcome  Outcome
	Location string
}

// Authorize decides whether a request for path may proceed. Protected
// views need a session; everything else is public-only, so signed-in
// users are sent home instead.
func Authorize(isAuthenticated bool, path string) Decision {
	if IsProtected(path) {
		if isAuthenticated {
			return Decision{Outcome: Allow}
		}
		return Decision{Outcome: Deny}
	}
	if isAuthenticated {
		return Decision{Outcome: Redirect, Location: HomePath}
	}
	return Decision{Outcome: Allow}
}

// IsProtected reports whether path is /dashboard or below it.
func IsProtected(path string) bool {
	return path == ProtectedPrefix || strings.HasPrefix(path, ProtectedPrefix+"/")
}

// guardExempt lists requests the guard never sees: API calls, static
// files and images.
func guardExempt(path string) bool {
	return strings.HasPrefix(path, "/api/") ||
		strings.HasPrefix(path, "/static/") ||
		strings.HasSuffix(path, ".png")
}

// Guard applies Authorize to every non-exempt request. It must run after
// Session. Denied requests go to the login page with a callback.
func Guard() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if guardExempt(path) {
			c.Next()
			return
		}

		_, authenticated := c.Get(ContextUserID)
		decision := Authorize(authenticated, path)

		switch decision.Outcome {
		case Deny:
			c.Redirect(http.StatusFound, LoginPath+"?callbackUrl="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
		case Redirect:
			c.Redirect(http.StatusFound, decision.Location)
			c.Abort()
		default:
			c.Next()
		}
	}
}
