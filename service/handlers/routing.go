package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pitabwire/util"
)

// addHandler registers an error-returning handler: failures are logged and
// surfaced as an alert page.
func (s *BoardServer) addHandler(router *mux.Router,
	f func(w http.ResponseWriter, r *http.Request) error, path string, name string, method string) {

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}

		log := util.Log(r.Context()).
			WithField("handler", name).
			WithField("path", path)

		if alert, ok := err.(*AlertError); ok {
			log.WithError(err).Info("handler raised alert")
			RenderAlert(w, alert)
			return
		}

		log.WithError(err).Error("handler failed")
		RenderAlert(w, NewAlert("An unexpected error occurred.", "/", http.StatusInternalServerError))
	})

	router.Path(path).
		Name(name).
		Handler(handler).
		Methods(method)
}

// SetupRouter wires the board routes. The installer tree is mounted
// separately, outside both this router's middleware and the csrf layer.
func (s *BoardServer) SetupRouter() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)

	// Static file mounts. The data directory also serves uploads.
	router.PathPrefix("/static/").
		Handler(http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	router.PathPrefix("/data/").
		Handler(http.StripPrefix("/data/", http.FileServer(http.Dir("data"))))

	s.addHandler(router, s.IndexEndpoint, "/", "IndexEndpoint", "GET")
	s.addHandler(router, s.GenerateTokenEndpoint, "/generate_token", "GenerateTokenEndpoint", "POST")
	s.addHandler(router, s.DeviceChangeEndpoint, "/device/change/{device}", "DeviceChangeEndpoint", "GET")
	s.addHandler(router, s.ShowLoginEndpoint, "/bbs/login", "ShowLoginEndpoint", "GET")
	s.addHandler(router, s.SubmitLoginEndpoint, "/bbs/login", "SubmitLoginEndpoint", "POST")
	s.addHandler(router, s.LogoutEndpoint, "/bbs/logout", "LogoutEndpoint", "GET")
	s.addHandler(router, s.AdminIndexEndpoint, "/admin", "AdminIndexEndpoint", "GET")

	router.Use(s.BootstrapMiddleware)

	return router
}
