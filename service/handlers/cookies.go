package handlers

import (
	"net"
	"net/http"
	"time"

	"github.com/pitabwire/util"
)

// Cookie names shared between the bootstrap middleware and the login
// handlers.
const (
	CookieMemberID = "ck_mb_id"
	CookieAutoKey  = "ck_auto"
	CookieVisitIP  = "ck_visit_ip"
)

const (
	ageOneDay      = 24 * time.Hour
	autoLoginAge   = 30 * ageOneDay
	visitCookieAge = ageOneDay
)

func setCookie(w http.ResponseWriter, name, value, domain string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:   name,
		Value:  value,
		Path:   "/",
		Domain: domain,
		MaxAge: int(maxAge / time.Second),
	})
}

func clearCookie(w http.ResponseWriter, name, domain string) {
	http.SetCookie(w, &http.Cookie{
		Name:   name,
		Value:  "",
		Path:   "/",
		Domain: domain,
		MaxAge: -1,
	})
}

func cookieValue(r *http.Request, name string) string {
	cookie, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// ClientIP resolves the caller's IP, with any port suffix stripped.
func ClientIP(r *http.Request) string {
	ip := util.GetIP(r)
	if host, _, err := net.SplitHostPort(ip); err == nil {
		return host
	}
	return ip
}
