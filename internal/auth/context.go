// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import "context"

type identityKey struct{}

// WithIdentity returns a context carrying the verified identity.
func WithIdentity(ctx context.Context, ident *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, ident)
}

// IdentityFrom returns the verified identity from the context, or nil
// if the request was not authenticated.
func IdentityFrom(ctx context.Context) *Identity {
	if ident, ok := ctx.Value(identityKey{}).(*Identity); ok {
		return ident
	}
	return nil
}
