package middleware

import "context"

type contextKey string

const (
	ctxShopperID contextKey = "shopper_id"
	ctxIsAdmin   contextKey = "is_admin"
	ctxToken     contextKey = "bearer_token"
)

// WithShopperID seeds the context the way Auth does, for handlers and
// tests that bypass the middleware.
func WithShopperID(ctx context.Context, shopperID string) context.Context {
	return context.WithValue(ctx, ctxShopperID, shopperID)
}

func WithIsAdmin(ctx context.Context, isAdmin bool) context.Context {
	return context.WithValue(ctx, ctxIsAdmin, isAdmin)
}

func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxToken, token)
}

func ShopperIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxShopperID).(string); ok {
		return v
	}
	return ""
}

func IsAdminFromContext(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	if v, ok := ctx.Value(ctxIsAdmin).(bool); ok {
		return v
	}
	return false
}

// TokenFromContext returns the raw bearer token so the shop API client can
// forward it on the shopper's behalf.
func TokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxToken).(string); ok {
		return v
	}
	return ""
}
