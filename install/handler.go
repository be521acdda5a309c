package install

import (
	"fmt"
	"html/template"
	"net/http"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/pitabwire/util"

	"github.com/gnuboard/goboard/config"
	"github.com/gnuboard/goboard/database"
	"github.com/gnuboard/goboard/service/handlers"
	"github.com/gnuboard/goboard/service/session"
	"github.com/gnuboard/goboard/utils"
)

// formTTL bounds how long a validated form waits for its process stream.
const formTTL = 60 * time.Second

var installTmpl = template.Must(template.New("install").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Version}} installation</title></head>
<body>
<h1>{{.Version}} installation</h1>
<p>Go {{.GoVersion}}</p>
<form method="post" action="/install">
  <input type="hidden" name="token" value="{{.Token}}">
  <fieldset><legend>Database</legend>
    <label>Engine (postgresql, mysql, sqlite) <input name="db_engine"></label>
    <label>Host <input name="db_host"></label>
    <label>Port <input name="db_port" value="3306"></label>
    <label>User <input name="db_user"></label>
    <label>Password <input name="db_password" type="password"></label>
    <label>Name <input name="db_name"></label>
    <label>Table prefix <input name="db_table_prefix" value="g6_"></label>
    <label><input type="checkbox" name="reinstall" value="1"> drop existing tables</label>
  </fieldset>
  <fieldset><legend>Administrator</legend>
    <label>ID <input name="admin_id"></label>
    <label>Name <input name="admin_name"></label>
    <label>Password <input name="admin_password" type="password"></label>
    <label>Email <input name="admin_email"></label>
  </fieldset>
  <button type="submit">Install</button>
</form>
</body>
</html>`))

var resultTmpl = template.Must(template.New("result").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Installing</title></head>
<body>
<h1>Installing…</h1>
<ul id="progress"></ul>
<script>
const source = new EventSource("/install/process?token={{.Token}}");
source.onmessage = function (event) {
  const item = document.createElement("li");
  item.textContent = event.data;
  document.getElementById("progress").appendChild(item);
  if (event.data.startsWith("[success]") || event.data.startsWith("[error]")) {
    source.close();
  }
};
</script>
</body>
</html>`))

// Handler serves the installer pages and the progress stream.
type Handler struct {
	sessions  *session.Manager
	installer *Installer

	mu       sync.Mutex
	form     *Form
	formTime time.Time
}

// NewHandler builds the installer HTTP surface.
func NewHandler(sessions *session.Manager, installer *Installer) *Handler {
	return &Handler{sessions: sessions, installer: installer}
}

// Router returns the /install route tree.
func (h *Handler) Router() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/install", h.showForm).Methods("GET")
	router.HandleFunc("/install", h.submit).Methods("POST")
	router.HandleFunc("/install/process", h.process).Methods("GET")
	return router
}

// validateInstall refuses to run once the environment store exists.
func validateInstall(w http.ResponseWriter) bool {
	if config.Installed() {
		handlers.RenderAlert(w, handlers.NewAlert(
			"The system is already installed. Remove the environment store to reinstall.",
			"/", http.StatusBadRequest))
		return false
	}
	return true
}

func (h *Handler) showForm(w http.ResponseWriter, r *http.Request) {
	if !validateInstall(w) {
		return
	}

	token, err := utils.GenerateToken(32)
	if err != nil {
		handlers.RenderAlert(w, handlers.NewAlert("Could not issue installation token.", "/", http.StatusInternalServerError))
		return
	}

	sess := h.sessions.Load(r)
	sess.SetToken(token)
	if err = h.sessions.Save(w, sess); err != nil {
		handlers.RenderAlert(w, handlers.NewAlert("Could not persist installation token.", "/", http.StatusInternalServerError))
		return
	}

	_ = installTmpl.Execute(w, map[string]any{
		"Version":   Version,
		"GoVersion": runtime.Version(),
		"Token":     token,
	})
}

// validToken compares the presented token with the session token issued by
// the form page.
func (h *Handler) validToken(r *http.Request, presented string) bool {
	sess := h.sessions.Load(r)
	return presented != "" && presented == sess.Token()
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	if !validateInstall(w) {
		return
	}
	if !h.validToken(r, r.PostFormValue("token")) {
		handlers.RenderAlert(w, handlers.NewAlert("Invalid installation token.", "/install", http.StatusBadRequest))
		return
	}

	port, _ := strconv.Atoi(r.PostFormValue("db_port"))
	form := &Form{
		DBEngine:      r.PostFormValue("db_engine"),
		DBHost:        r.PostFormValue("db_host"),
		DBPort:        port,
		DBUser:        r.PostFormValue("db_user"),
		DBPassword:    r.PostFormValue("db_password"),
		DBName:        r.PostFormValue("db_name"),
		DBTablePrefix: r.PostFormValue("db_table_prefix"),
		AdminID:       handlers.SanitizeMemberID(r.PostFormValue("admin_id")),
		AdminName:     r.PostFormValue("admin_name"),
		AdminPassword: r.PostFormValue("admin_password"),
		AdminEmail:    r.PostFormValue("admin_email"),
		Reinstall:     r.PostFormValue("reinstall") == "1",
	}
	if form.DBTablePrefix == "" {
		form.DBTablePrefix = "g6_"
	}

	if err := h.prepare(r, form); err != nil {
		// Revert to the uninitialized state before reporting.
		_ = config.RemoveEnvStore()
		handlers.RenderAlert(w, handlers.NewAlert(
			fmt.Sprintf("Installation failed. %v", err), "/install", http.StatusBadRequest))
		return
	}

	_ = resultTmpl.Execute(w, map[string]any{"Token": r.PostFormValue("token")})
}

// prepare validates the engine, persists the environment store with a fresh
// session secret, proves the database is reachable and caches the form for
// the process stream.
func (h *Handler) prepare(r *http.Request, form *Form) error {
	if !database.SupportedEngine(form.DBEngine) {
		return fmt.Errorf("please select a supported database engine")
	}

	sessionSecret, err := utils.GenerateToken(50)
	if err != nil {
		return err
	}

	err = config.WriteEnvStore(map[string]string{
		"DB_ENGINE":          form.DBEngine,
		"DB_HOST":            form.DBHost,
		"DB_PORT":            strconv.Itoa(form.DBPort),
		"DB_USER":            form.DBUser,
		"DB_PASSWORD":        form.DBPassword,
		"DB_NAME":            form.DBName,
		"DB_TABLE_PREFIX":    form.DBTablePrefix,
		"SESSION_SECRET_KEY": sessionSecret,
	})
	if err != nil {
		return err
	}

	db, err := database.Connect(form.settings())
	if err != nil {
		return err
	}
	if err = database.Ping(db); err != nil {
		return err
	}

	h.mu.Lock()
	h.form = form
	h.formTime = time.Now()
	h.mu.Unlock()
	return nil
}

// takeForm hands out the cached form exactly once, within its TTL.
func (h *Handler) takeForm() *Form {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.form == nil || time.Since(h.formTime) > formTTL {
		return nil
	}
	form := h.form
	h.form = nil
	return form
}

// process streams the installation milestones as server-sent events.
func (h *Handler) process(w http.ResponseWriter, r *http.Request) {
	if !h.validToken(r, r.URL.Query().Get("token")) {
		http.Error(w, "invalid installation token", http.StatusBadRequest)
		return
	}

	form := h.takeForm()
	if form == nil {
		http.Error(w, "no pending installation", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	log := util.Log(r.Context())
	for event := range h.installer.Run(r.Context(), form) {
		if _, err := fmt.Fprintf(w, "data: %s\n\n", event); err != nil {
			log.WithError(err).Warn("installer stream client went away")
			return
		}
		flusher.Flush()
	}
}
