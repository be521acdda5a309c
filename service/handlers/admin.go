package handlers

import (
	"html/template"
	"net/http"
)

var adminTmpl = template.Must(template.New("admin").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Admin</title></head>
<body>
<h1>{{.Title}} administration</h1>
<p>Theme: {{.Theme}}</p>
<p>Admin: {{.Admin}} &lt;{{.AdminEmail}}&gt;</p>
<p>Login point: {{.LoginPoint}}</p>
</body>
</html>`))

// AdminIndexEndpoint is the admin console landing page. Only the super admin
// gets in; everyone else is bounced home.
func (s *BoardServer) AdminIndexEndpoint(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	if !SuperAdminFromContext(ctx) {
		RenderAlert(w, NewAlert("Administrator access only.", "/", http.StatusForbidden))
		return nil
	}

	siteCfg := SiteConfigFromContext(ctx)
	return adminTmpl.Execute(w, map[string]any{
		"Title":      siteCfg.Title,
		"Theme":      s.settings.AdminTheme,
		"Admin":      siteCfg.Admin,
		"AdminEmail": siteCfg.AdminEmail,
		"LoginPoint": siteCfg.LoginPoint,
	})
}
