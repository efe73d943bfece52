// Package upload delivers a file path to whatever native file picker the form opened.
package upload

import (
	"context"
	"errors"
)

// ErrNoPath is returned when an empty path is delivered.
var ErrNoPath = errors.New("no file path to deliver")

// Deliverer supplies a file path to an open file picker.
type Deliverer interface {
	Deliver(ctx context.Context, path string) error
}

// Func adapts a function to a Deliverer.
type Func func(ctx context.Context, path string) error

func (f Func) Deliver(ctx context.Context, path string) error {
	return f(ctx, path)
}

// Nop accepts every path and does nothing with it.
var Nop Deliverer = Func(func(context.Context, string) error { return nil })
