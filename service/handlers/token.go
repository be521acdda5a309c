package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gnuboard/goboard/service/session"
	"github.com/gnuboard/goboard/utils"
)

// GenerateTokenEndpoint issues a fresh session token. The token is kept in
// the session so form submissions can be validated against it later.
func (s *BoardServer) GenerateTokenEndpoint(w http.ResponseWriter, r *http.Request) error {
	sess := session.FromContext(r.Context())

	token, err := utils.GenerateToken(32)
	if err != nil {
		return err
	}
	sess.SetToken(token)

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"token":   token,
	})
}
