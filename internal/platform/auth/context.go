package auth

import "context"

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	UserRoleKey contextKey = "user_role"
)

// WithIdentity returns a copy of ctx carrying the caller's id and role.
func WithIdentity(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, UserRoleKey, role)
}

// UserIDFromContext returns the caller id attached by Identify, or "".
func UserIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(UserIDKey).(string)
	return v
}

// RoleFromContext returns the caller role attached by Identify, or "".
func RoleFromContext(ctx context.Context) string {
	v, _ := ctx.Value(UserRoleKey).(string)
	return v
}
