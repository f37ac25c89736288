package gardener

import "context"

type ctxKey string

const gardenerContextKey ctxKey = "verdant.gardener"

func WithGardener(ctx context.Context, g Gardener) context.Context {
	return context.WithValue(ctx, gardenerContextKey, g)
}

func FromContext(ctx context.Context) (Gardener, bool) {
	v := ctx.Value(gardenerContextKey)
	g, ok := v.(Gardener)
	return g, ok
}
