package auth

import "context"

// Capability is the coarse access level a route demands. Role strings stay at
// the identity boundary; handlers and services only ever see capabilities.
type Capability int

const (
	Standard Capability = iota
	Privileged
)

type Identity struct {
	UserID string
	Role   string
}

// Can is the capability predicate gating route dispatch.
func (i Identity) Can(c Capability) bool {
	switch c {
	case Standard:
		return i.UserID != ""
	case Privileged:
		return i.Role == "admin"
	default:
		return false
	}
}

type ctxKey string

const identityKey ctxKey = "identity"

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}
