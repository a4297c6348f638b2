package api

import "context"

// Identity is the authenticated caller attached to the request context by the
// auth middleware. It carries just enough for authorization decisions;
// handlers needing the full user row go back to the user repository.
type Identity struct {
	ID       string
	Email    string
	FullName string
	Role     string
}

func (i *Identity) IsAdmin() bool { return i != nil && i.Role == "admin" }

type ctxKey string

const ctxKeyIdentity ctxKey = "identity"

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, id)
}

func IdentityFromContext(ctx context.Context) *Identity {
	v := ctx.Value(ctxKeyIdentity)
	if v == nil {
		return nil
	}
	id, _ := v.(*Identity)
	return id
}
