package authority

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

type contextKey struct{}

// WithIdentity returns a context in which the caller may act on behalf of
// the given identities.
func WithIdentity(ctx context.Context, identities ...string) context.Context {
	granted := make(map[string]struct{}, len(identities))
	for _, identity := range IdentitiesFrom(ctx) {
		granted[identity] = struct{}{}
	}

	for _, identity := range identities {
		if identity != "" {
			granted[identity] = struct{}{}
		}
	}

	return context.WithValue(ctx, contextKey{}, granted)
}

// IdentitiesFrom lists the identities granted in ctx.
func IdentitiesFrom(ctx context.Context) []string {
	granted, _ := ctx.Value(contextKey{}).(map[string]struct{})

	identities := make([]string, 0, len(granted))
	for identity := range granted {
		identities = append(identities, identity)
	}

	return identities
}

type Authorizer interface {
	RequireAuthority(ctx context.Context, identity string) error
	HasAuthority(ctx context.Context, identity string) bool
}

type contextAuthorizer struct{}

// NewContextAuthorizer checks authority against identities stored with WithIdentity.
func NewContextAuthorizer() Authorizer {
	return &contextAuthorizer{}
}

func (that *contextAuthorizer) RequireAuthority(ctx context.Context, identity string) error {
	if !that.HasAuthority(ctx, identity) {
		return fmt.Errorf("%w: missing authority of %s", apperror.ErrUnauthorized, identity)
	}

	return nil
}

func (that *contextAuthorizer) HasAuthority(ctx context.Context, identity string) bool {
	granted, _ := ctx.Value(contextKey{}).(map[string]struct{})

	_, ok := granted[identity]

	return ok
}
