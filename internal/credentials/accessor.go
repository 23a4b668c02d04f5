// Package credentials reads an existing bearer token from a passive,
// read-only key/value store. Nothing in this package ever writes a token.
package credentials

import (
	"context"
	"errors"
	"strings"
)

const (
	DefaultPrimaryKey  = "access_token"
	DefaultFallbackKey = "token"
)

// Store is a read-only key lookup. Absent and empty values are equivalent.
type Store interface {
	Lookup(ctx context.Context, key string) (string, bool)
}

// Accessor resolves the token under a primary key, falling back to a
// secondary key.
type Accessor struct {
	store    Store
	primary  string
	fallback string
}

// NewAccessor returns an Accessor over store. Empty keys take the defaults.
func NewAccessor(store Store, primary, fallback string) (*Accessor, error) {
	if store == nil {
		return nil, errors.New("credentials: store must not be nil")
	}
	primary = strings.TrimSpace(primary)
	if primary == "" {
		primary = DefaultPrimaryKey
	}
	fallback = strings.TrimSpace(fallback)
	if fallback == "" {
		fallback = DefaultFallbackKey
	}
	return &Accessor{store: store, primary: primary, fallback: fallback}, nil
}

// Token returns the bearer token, or false when neither key holds one.
func (a *Accessor) Token(ctx context.Context) (string, bool) {
	if v, ok := a.store.Lookup(ctx, a.primary); ok && v != "" {
		return v, true
	}
	if v, ok := a.store.Lookup(ctx, a.fallback); ok && v != "" {
		return v, true
	}
	return "", false
}
