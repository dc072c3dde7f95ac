package auth

import (
	"net/http"
	"time"
)

// AccessCookie carries the access token of the held session.
const AccessCookie = "accessToken"

// SessionCookie stores token until expires. It is scoped to the whole
// site so both the API and the pages see it.
func SessionCookie(token string, expires time.Time) *http.Cookie {
	ck := baseCookie()
	ck.Value = token
	ck.Expires = expires
	return ck
}

// ClearSessionCookie expires the access cookie in the browser.
func ClearSessionCookie() *http.Cookie {
	ck := baseCookie()
	ck.Expires = time.Unix(0, 0)
	ck.MaxAge = -1
	return ck
}

func baseCookie() *http.Cookie {
	return &http.Cookie{
		Name:     AccessCookie,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}
