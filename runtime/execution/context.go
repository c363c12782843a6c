package execution

import (
	"context"
	"reflect"
)

// ContextValue returns the value of the provided type from the context
func ContextValue[T any](ctx context.Context) T {
	key := KeyOf[T]()
	if value := ctx.Value(key); value != nil {
		return value.(T)
	}
	var t T
	return t
}

// WithValue stores the supplied value in the context under its own type.
func WithValue[T any](ctx context.Context, value T) context.Context {
	return context.WithValue(ctx, KeyOf[T](), value)
}

// KeyOf returns the reflect.Type of the provided type
func KeyOf[T any]() reflect.Type {
	var a T
	return reflect.TypeOf(a)
}
