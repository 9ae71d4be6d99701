package services

import "context"

// Service is a single use case. Decorators such as authentication and
// rate limiting wrap a Service and return a Service of the same shape.
type Service[T any, S any] interface {
	Run(ctx context.Context, input T) (S, error)
}

type ServiceFunc[T any, S any] func(ctx context.Context, input T) (S, error)

func (f ServiceFunc[T, S]) Run(ctx context.Context, input T) (S, error) {
	return f(ctx, input)
}
