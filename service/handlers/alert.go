package handlers

import (
	"html/template"
	"net/http"
)

// AlertError is a user-facing failure: a message, the page to send the user
// to, and the HTTP status. It is rendered, never propagated as a process
// fault.
type AlertError struct {
	Message string
	URL     string
	Code    int
}

func (e *AlertError) Error() string {
	return e.Message
}

// NewAlert builds an AlertError redirecting to url with the given status.
func NewAlert(message, url string, code int) *AlertError {
	if url == "" {
		url = "/"
	}
	if code == 0 {
		code = http.StatusBadRequest
	}
	return &AlertError{Message: message, URL: url, Code: code}
}

var alertTmpl = template.Must(template.New("alert").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Message}}</title></head>
<body>
<script>
alert({{.Message}});
document.location.href = {{.URL}};
</script>
<noscript><p>{{.Message}}</p><a href="{{.URL}}">continue</a></noscript>
</body>
</html>`))

// RenderAlert writes the alert page for the given error.
func RenderAlert(w http.ResponseWriter, alert *AlertError) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(alert.Code)
	_ = alertTmpl.Execute(w, alert)
}
