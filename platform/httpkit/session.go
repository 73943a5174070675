package httpkit

import (
	"github.com/gin-gonic/gin"

	"portfolio_backend/platform/i18n"
)

// HeaderSessionID carries the widget's anonymous session identifier.
const HeaderSessionID = "X-Session-ID"

// SessionKey resolves a stable per-visitor key for history and chat state.
// Authenticated users are keyed by user ID so history follows them across
// devices; anonymous visitors by the widget session header, falling back to
// client IP.
func SessionKey(c *gin.Context) string {
	if id := GetIdentity(c); id.IsAuthenticated() {
		return "user:" + id.UserID().String()
	}
	if v := c.GetHeader(HeaderSessionID); v != "" {
		return "anon:" + v
	}
	return "ip:" + c.ClientIP()
}

// Language resolves the display language for a request: explicit ?lang=
// first, then the Accept-Language header, then the configured default.
func Language(c *gin.Context, fallback string) i18n.Lang {
	if v := c.Query("lang"); v != "" {
		return i18n.Normalize(v)
	}
	if accept := c.GetHeader("Accept-Language"); len(accept) >= 2 {
		if accept[:2] == "ar" {
			return i18n.Arabic
		}
		if accept[:2] == "en" {
			return i18n.English
		}
	}
	return i18n.Normalize(fallback)
}
