package mocks

import (
	"context"
	"tablebook/infras/otel"
)

type noopOtel struct{}

// NewOtel returns an otel.Otel whose scopes record nothing.
func NewOtel() otel.Otel {
	return noopOtel{}
}

func (noopOtel) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, NewScope()
}
