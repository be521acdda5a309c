package handlers

import (
	"regexp"
	"strings"

	"github.com/gnuboard/goboard/models"
	"github.com/gnuboard/goboard/utils"
)

var memberIDPattern = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// SanitizeMemberID strips everything outside [A-Za-z0-9_] and truncates to
// 20 characters. Applied to remembered ids arriving in cookies before any
// lookup.
func SanitizeMemberID(raw string) string {
	cleaned := memberIDPattern.ReplaceAllString(raw, "")
	if len(cleaned) > 20 {
		cleaned = cleaned[:20]
	}
	return cleaned
}

// IsSuperAdmin reports whether memberID is the configured super admin.
func IsSuperAdmin(siteCfg *models.Config, memberID string) bool {
	if siteCfg == nil || memberID == "" {
		return false
	}
	return strings.EqualFold(siteCfg.Admin, memberID)
}

// IsActivated reports whether the member account is usable: present, not
// left, not intercepted.
func IsActivated(m *models.Member) bool {
	if m == nil {
		return false
	}
	return m.LeaveDate == "" && m.InterceptDate == ""
}

// IsEmailCertified reports whether the member passed email certification.
// Sites that do not require certification treat everyone as certified.
func IsEmailCertified(siteCfg *models.Config, m *models.Member) bool {
	if m == nil {
		return false
	}
	if siteCfg != nil && !siteCfg.UseEmailCertify {
		return true
	}
	return !m.EmailCertify.IsZero()
}

// AutoLoginKey computes the server-side auto-login signature for a member:
// an HMAC over the member's identity and join timestamp plus the caller's IP
// and user agent, keyed by the session secret. The value in the ck_auto
// cookie must match this exactly.
func AutoLoginKey(secret string, m *models.Member, clientIP, userAgent string) string {
	payload := m.MemberID + "|" +
		m.CreatedAt.UTC().Format("2006-01-02 15:04:05") + "|" +
		clientIP + "|" +
		userAgent
	return utils.SignWithSecret(secret, payload)
}
