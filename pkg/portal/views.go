package portal

import (
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alpaca-ads/multiauth-portal/pkg/gateway"
	"github.com/alpaca-ads/multiauth-portal/pkg/session"
)

const pageStyle = `
* { margin: 0; padding: 0; box-sizing: border-box; }
body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    background: #f4f5f7;
    min-height: 100vh;
    display: flex;
    align-items: center;
    justify-content: center;
    color: #1f2430;
}
.card {
    background: #fff;
    border: 1px solid #e3e6ea;
    border-radius: 8px;
    padding: 2rem;
    width: 100%;
    max-width: 420px;
    margin: 1rem;
}
.card h1 { font-size: 1.4rem; margin-bottom: 1rem; }
.notice { color: #c0392b; margin-bottom: 1rem; }
.field { margin-bottom: 1rem; }
.field label { display: block; font-size: 0.85rem; margin-bottom: 0.25rem; }
.field input { width: 100%; padding: 0.5rem; border: 1px solid #cdd2d8; border-radius: 4px; }
button, .provider {
    display: block;
    width: 100%;
    padding: 0.6rem;
    margin-bottom: 0.5rem;
    border-radius: 4px;
    border: 1px solid #cdd2d8;
    background: #fff;
    text-align: center;
    text-decoration: none;
    color: #1f2430;
    cursor: pointer;
}
button[type=submit] { background: #2d6cdf; border-color: #2d6cdf; color: #fff; }
.provider img { vertical-align: middle; margin-right: 0.4rem; }
dl dt { font-weight: 600; margin-top: 0.75rem; }
dl dd { margin-left: 0; color: #4c5565; }
`

func setSecurityHeaders(c *gin.Context) {
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("X-Frame-Options", "DENY")
	c.Header("Referrer-Policy", "no-referrer")
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate")
}

func renderHTML(c *gin.Context, status int, body string) {
	setSecurityHeaders(c)
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(status, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Multiauth Portal</title>
<style>%s</style>
</head>
<body>
%s
</body>
</html>`, pageStyle, body)
}

// renderLoginPage renders the anonymous entry view: the credential form plus
// the third-party provider buttons.
func renderLoginPage(c *gin.Context, status int, notice string) {
	var noticeHTML string
	if notice != "" {
		noticeHTML = fmt.Sprintf(`<p class="notice">%s</p>`, html.EscapeString(notice))
	}
	body := fmt.Sprintf(`<div class="card">
<h1>Sign in</h1>
%s<form method="post" action="/login">
<div class="field"><label for="username">Username</label>
<input id="username" name="username" autocomplete="username"></div>
<div class="field"><label for="password">Password</label>
<input id="password" name="password" type="password" autocomplete="current-password"></div>
<button type="submit">Sign in</button>
</form>
<a class="provider" href="/auth/google"><img src="/assets/google.svg" alt=""> Sign in with Google</a>
<a class="provider" href="/auth/github"><img src="/assets/github.svg" alt=""> Sign in with GitHub</a>
</div>`, noticeHTML)
	renderHTML(c, status, body)
}

// renderProfilePage renders the protected profile view. The provider label
// comes from the route and only names the session source; it grants nothing.
func renderProfilePage(c *gin.Context, provider session.Provider, profile *gateway.UserProfile, notice string) {
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="card">
<h1>Profile</h1>
<p>Signed in via %s</p>`, html.EscapeString(provider.DisplayName()))
	if notice != "" {
		fmt.Fprintf(&b, `<p class="notice">%s</p>`, html.EscapeString(notice))
	}
	if profile != nil {
		fmt.Fprintf(&b, "<dl>")
		fmt.Fprintf(&b, "<dt>ID</dt><dd>%s</dd>", html.EscapeString(profile.ID))
		fmt.Fprintf(&b, "<dt>Username</dt><dd>%s</dd>", html.EscapeString(profile.Username))
		fmt.Fprintf(&b, "<dt>Name</dt><dd>%s</dd>", html.EscapeString(profile.Name))
		if len(profile.Authorities) > 0 {
			authorities := make([]string, 0, len(profile.Authorities))
			for _, a := range profile.Authorities {
				authorities = append(authorities, html.EscapeString(a.Authority))
			}
			fmt.Fprintf(&b, "<dt>Authorities</dt><dd>%s</dd>", strings.Join(authorities, ", "))
		}
		fmt.Fprintf(&b, "</dl>")
	}
	fmt.Fprintf(&b, `<form method="post" action="/logout"><button type="submit">Sign out</button></form>
</div>`)
	renderHTML(c, http.StatusOK, b.String())
}
