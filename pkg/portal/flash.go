package portal

import "github.com/gin-gonic/gin"

// flashCookie carries a one-shot notification across the redirect back to
// the login view. The redirect flow spans two independent requests (the
// browser context may be fully reloaded in between), so the message has to
// travel through the client rather than in-memory state.
const flashCookie = "portal_notice"

func setFlash(c *gin.Context, message string) {
	c.SetCookie(flashCookie, message, 60, "/", "", false, true)
}

func popFlash(c *gin.Context) (string, bool) {
	message, err := c.Cookie(flashCookie)
	if err != nil || message == "" {
		return "", false
	}
	// Expire it; the notification shows exactly once.
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)
	return message, true
}
