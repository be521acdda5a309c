package handlers

import (
	"html/template"
	"net/http"
)

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{if .MemberID}}
<p>Welcome back, {{.MemberID}}. <a href="/bbs/logout">Logout</a></p>
{{else}}
<p><a href="/bbs/login">Login</a></p>
{{end}}
<ul>
{{range .Boards}}<li>{{.Subject}} ({{.BoardTable}})</li>{{end}}
</ul>
</body>
</html>`))

// IndexEndpoint renders the landing page with the board list.
func (s *BoardServer) IndexEndpoint(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	siteCfg := SiteConfigFromContext(ctx)
	title := "goboard"
	if siteCfg != nil && siteCfg.Title != "" {
		title = siteCfg.Title
	}

	memberID := ""
	if member := LoginMemberFromContext(ctx); member != nil {
		memberID = member.MemberID
	}

	payload := map[string]any{
		"Title":    title,
		"MemberID": memberID,
	}
	if deps := s.Deps(); deps != nil {
		boards, err := deps.Boards.List(ctx)
		if err == nil {
			payload["Boards"] = boards
		}
	}

	return indexTmpl.Execute(w, payload)
}
