package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/pitabwire/util"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/gnuboard/goboard/models"
	"github.com/gnuboard/goboard/service/ipaccess"
	"github.com/gnuboard/goboard/service/session"
)

const installRedirectMessage = "DB table or configuration information does not exist. Please proceed with the installation."

// shouldRunMiddleware excludes the installer and static mounts from the
// bootstrap flow.
func shouldRunMiddleware(path string) bool {
	for _, prefix := range []string{"/install", "/static/", "/data/"} {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	return path != "/favicon.ico"
}

// BootstrapMiddleware establishes the caller's identity and enforces IP
// policy before the route handler runs, and persists session and visit side
// effects after it.
func (s *BoardServer) BootstrapMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !shouldRunMiddleware(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		log := util.Log(ctx)

		deps := s.Deps()
		if deps == nil {
			RenderAlert(w, NewAlert(installRedirectMessage, "/install", http.StatusBadRequest))
			return
		}

		// Singleton configuration. A missing table or row is terminal for
		// this request only: the caller is sent to the installer.
		siteCfg, err := deps.Configs.Get(ctx)
		if err != nil {
			RenderAlert(w, NewAlert(installRedirectMessage, "/install", http.StatusBadRequest))
			return
		}

		sess := s.sessions.Load(r)
		cookieMemberID := cookieValue(r, CookieMemberID)
		currentIP := ClientIP(r)
		userAgent := r.UserAgent()
		now := time.Now()

		var member *models.Member
		isAutoLogin := false
		autoKey := ""

		if id := sess.MemberID(); id != "" {
			member, err = deps.Members.GetByMemberID(ctx, id)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				s.failIdentity(w, r, sess, err)
				return
			}
			// Stale session: the member vanished or was deactivated.
			if !IsActivated(member) {
				sess.Clear()
				member = nil
			}
		} else if cookieMemberID != "" {
			rememberedID := SanitizeMemberID(cookieMemberID)
			candidate, lookupErr := deps.Members.GetByMemberID(ctx, rememberedID)
			if lookupErr != nil && !errors.Is(lookupErr, gorm.ErrRecordNotFound) {
				s.failIdentity(w, r, sess, lookupErr)
				return
			}

			// The super admin never auto-logs-in, for security reasons.
			if !IsSuperAdmin(siteCfg, rememberedID) &&
				IsEmailCertified(siteCfg, candidate) &&
				IsActivated(candidate) {
				autoKey = AutoLoginKey(s.settings.SessionSecretKey, candidate, currentIP, userAgent)
				presented := cookieValue(r, CookieAutoKey)
				if subtle.ConstantTimeCompare([]byte(presented), []byte(autoKey)) == 1 {
					sess.SetMemberID(candidate.MemberID)
					member = candidate
					isAutoLogin = true
				}
			}
		}

		if member != nil {
			today := now.Format("2006-01-02")
			if member.TodayLogin.Format("2006-01-02") != today {
				// First login today. Two concurrent requests can both pass
				// this check before either commits; the duplicate award is a
				// tolerated race, not a guarantee.
				err = deps.Points.Award(ctx, member.MemberID, siteCfg.LoginPoint,
					today+" first login", "@login", member.MemberID, today)
				if err != nil {
					log.WithError(err).WithField("member_id", member.MemberID).
						Error("could not award login point")
				}
				if err = deps.Members.UpdateLoginStamp(ctx, member, now, currentIP); err != nil {
					log.WithError(err).WithField("member_id", member.MemberID).
						Error("could not update login stamp")
				}
			}
		}

		memberID := ""
		if member != nil {
			memberID = member.MemberID
		}
		superAdmin := IsSuperAdmin(siteCfg, memberID)

		// IP policy runs after identity so super admin status is known.
		if !superAdmin {
			if !ipaccess.Allowed(ipaccess.Parse(siteCfg.PossibleIP), currentIP) {
				http.Error(w, "Access is not allowed from this IP.", http.StatusForbidden)
				return
			}
			if ipaccess.Blocked(ipaccess.Parse(siteCfg.InterceptIP), currentIP) {
				http.Error(w, "Access is blocked from this IP.", http.StatusForbidden)
				return
			}
		}

		visitCookie := cookieValue(r, CookieVisitIP)

		ww := newDeferredWriter(w)
		ww.Before(func(rw http.ResponseWriter) {
			if sess.Dirty() {
				if saveErr := s.sessions.Save(rw, sess); saveErr != nil {
					log.WithError(saveErr).Error("could not save session cookie")
				}
			}
			// Still checking the session guards against refreshing the
			// cookies right after a logout in the same request.
			if isAutoLogin && sess.MemberID() != "" {
				setCookie(rw, CookieMemberID, cookieMemberID, s.settings.CookieDomain, autoLoginAge)
				setCookie(rw, CookieAutoKey, autoKey, s.settings.CookieDomain, autoLoginAge)
			}
			if visitCookie != currentIP {
				setCookie(rw, CookieVisitIP, currentIP, s.settings.CookieDomain, visitCookieAge)
			}
		})

		ctx = session.ToContext(ctx, sess)
		ctx = withRequestState(ctx, siteCfg, member, superAdmin)

		next.ServeHTTP(ww, r.WithContext(ctx))
		ww.Finish()

		if visitCookie != currentIP {
			visit := &models.Visit{
				IP:        currentIP,
				Time:      now,
				Referer:   r.Referer(),
				UserAgent: userAgent,
			}
			if err = deps.Visits.Record(ctx, visit); err != nil {
				log.WithError(err).Error("could not record visit")
			}
		}
	})
}

// failIdentity recovers from an identity-resolution fault: both auto-login
// cookies and the session are cleared, then the alert is rendered. The fault
// detail goes to the log only, never to the page.
func (s *BoardServer) failIdentity(w http.ResponseWriter, r *http.Request, sess *session.Session, err error) {
	util.Log(r.Context()).WithError(err).Error("could not resolve member information")
	clearCookie(w, CookieAutoKey, s.settings.CookieDomain)
	clearCookie(w, CookieMemberID, s.settings.CookieDomain)
	sess.Clear()
	_ = s.sessions.Save(w, sess)
	RenderAlert(w, NewAlert("Unable to resolve member information.", "/", http.StatusBadRequest))
}
