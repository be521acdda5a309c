package handlers

import (
	"context"

	"github.com/gnuboard/goboard/models"
)

type contextKey string

const (
	ctxKeySiteConfig  = contextKey("goboard/siteConfig")
	ctxKeyLoginMember = contextKey("goboard/loginMember")
	ctxKeySuperAdmin  = contextKey("goboard/superAdmin")
)

func withRequestState(ctx context.Context, siteCfg *models.Config, member *models.Member, superAdmin bool) context.Context {
	ctx = context.WithValue(ctx, ctxKeySiteConfig, siteCfg)
	if member != nil {
		ctx = context.WithValue(ctx, ctxKeyLoginMember, member)
	}
	return context.WithValue(ctx, ctxKeySuperAdmin, superAdmin)
}

// SiteConfigFromContext returns the configuration row the bootstrap
// middleware fetched for this request, nil when the middleware did not run.
func SiteConfigFromContext(ctx context.Context) *models.Config {
	cfg, _ := ctx.Value(ctxKeySiteConfig).(*models.Config)
	return cfg
}

// LoginMemberFromContext returns the authenticated member, nil for anonymous
// callers.
func LoginMemberFromContext(ctx context.Context) *models.Member {
	m, _ := ctx.Value(ctxKeyLoginMember).(*models.Member)
	return m
}

// SuperAdminFromContext reports whether the caller is the super admin.
func SuperAdminFromContext(ctx context.Context) bool {
	super, _ := ctx.Value(ctxKeySuperAdmin).(bool)
	return super
}
