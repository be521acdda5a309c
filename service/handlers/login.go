package handlers

import (
	"html/template"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/pitabwire/util"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/gnuboard/goboard/service/session"
)

var loginTmpl = template.Must(template.New("login").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Login</title></head>
<body>
<h1>Login</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/bbs/login">
  {{.CSRFField}}
  <input type="hidden" name="url" value="{{.URL}}">
  <label>ID <input type="text" name="mb_id" maxlength="20"></label>
  <label>Password <input type="password" name="mb_password"></label>
  <label><input type="checkbox" name="auto_login" value="1"> stay signed in</label>
  <button type="submit">Sign in</button>
</form>
</body>
</html>`))

// ShowLoginEndpoint renders the login form.
func (s *BoardServer) ShowLoginEndpoint(w http.ResponseWriter, r *http.Request) error {
	return loginTmpl.Execute(w, map[string]any{
		"Error":     "",
		"URL":       r.URL.Query().Get("url"),
		"CSRFField": csrf.TemplateField(r),
	})
}

// SubmitLoginEndpoint validates credentials and establishes the session.
// Checking the auto-login box issues the remembered-id/signature cookie pair
// unless the account is the super admin.
func (s *BoardServer) SubmitLoginEndpoint(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	log := util.Log(ctx).WithField("endpoint", "SubmitLoginEndpoint")

	deps := s.Deps()
	if deps == nil {
		RenderAlert(w, NewAlert(installRedirectMessage, "/install", http.StatusBadRequest))
		return nil
	}

	memberID := SanitizeMemberID(r.PostFormValue("mb_id"))
	password := r.PostFormValue("mb_password")

	renderFailure := func(message string) error {
		return loginTmpl.Execute(w, map[string]any{
			"Error":     message,
			"URL":       r.PostFormValue("url"),
			"CSRFField": csrf.TemplateField(r),
		})
	}

	member, err := deps.Members.GetByMemberID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return renderFailure("Member ID or password is incorrect.")
		}
		return err
	}

	if err = s.hasher.Compare(ctx, []byte(member.PasswordHash), []byte(password)); err != nil {
		log.WithField("member_id", memberID).Info("password mismatch")
		return renderFailure("Member ID or password is incorrect.")
	}

	siteCfg := SiteConfigFromContext(ctx)
	if !IsActivated(member) {
		return renderFailure("This account has been deactivated.")
	}
	if !IsSuperAdmin(siteCfg, memberID) && !IsEmailCertified(siteCfg, member) {
		return renderFailure("Email certification is required before logging in.")
	}

	sess := session.FromContext(ctx)
	sess.SetMemberID(member.MemberID)

	if r.PostFormValue("auto_login") == "1" && !IsSuperAdmin(siteCfg, memberID) {
		key := AutoLoginKey(s.settings.SessionSecretKey, member, ClientIP(r), r.UserAgent())
		setCookie(w, CookieMemberID, member.MemberID, s.settings.CookieDomain, autoLoginAge)
		setCookie(w, CookieAutoKey, key, s.settings.CookieDomain, autoLoginAge)
	}

	redirect := r.PostFormValue("url")
	if redirect == "" || redirect[0] != '/' {
		redirect = "/"
	}
	http.Redirect(w, r, redirect, http.StatusSeeOther)
	return nil
}

// LogoutEndpoint drops the session and both auto-login cookies.
func (s *BoardServer) LogoutEndpoint(w http.ResponseWriter, r *http.Request) error {
	sess := session.FromContext(r.Context())
	sess.Clear()

	clearCookie(w, CookieAutoKey, s.settings.CookieDomain)
	clearCookie(w, CookieMemberID, s.settings.CookieDomain)

	http.Redirect(w, r, "/", http.StatusSeeOther)
	return nil
}
