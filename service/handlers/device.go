package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/gnuboard/goboard/service/session"
)

// DeviceChangeEndpoint forces the pc/mobile rendering choice and sends the
// caller back where they came from. Responsive sites ignore the choice.
func (s *BoardServer) DeviceChangeEndpoint(w http.ResponseWriter, r *http.Request) error {
	device := mux.Vars(r)["device"]

	if (device == "pc" || device == "mobile") && !s.settings.IsResponsive {
		sess := session.FromContext(r.Context())
		sess.SetIsMobile(device == "mobile")
	}

	referer := r.Header.Get("Referer")
	if referer == "" {
		referer = "/"
	}
	http.Redirect(w, r, referer, http.StatusSeeOther)
	return nil
}
