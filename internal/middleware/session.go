package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
)

const sessionCookie = "sid"

// Session assigns every visitor an opaque session id carried in a
// cookie, and stores it in the request context as "session_id". The id
// keys the cart and checkout state; no identity is attached to it.
func Session(cookieTTLSeconds int, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(sessionCookie)
		if err != nil || sid == "" {
			sid = newSessionID()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, sid, cookieTTLSeconds, "/", "", secure, true)
		}
		c.Set("session_id", sid)
		c.Next()
	}
}

func newSessionID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
