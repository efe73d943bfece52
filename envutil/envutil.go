// Package envutil reads typed configuration from environment variables.
package envutil

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/amp-labs/easyapply/envtypes"
)

var (
	ErrNotAFile       = errors.New("path is not a regular file")
	ErrBadSlogLevel   = errors.New("unknown log level")
	ErrNegativeNumber = errors.New("value must not be negative")
	ErrNotPositive    = errors.New("value must be positive")
)

// get returns a Reader for the given key, preferring a context override.
func get(ctx context.Context, key string) Reader[string] {
	if val, ok := getEnvOverride(ctx, key); ok {
		return Reader[string]{key: key, present: true, value: val}
	}

	val, ok := os.LookupEnv(key)

	return Reader[string]{
		key:     key,
		present: ok,
		value:   val,
	}
}

func apply[T any](rdr Reader[T], opts []Option[T]) Reader[T] {
	for _, opt := range opts {
		rdr = opt(rdr)
	}

	return rdr
}

// String returns a Reader for the given environment variable key.
func String(ctx context.Context, key string, opts ...Option[string]) Reader[string] {
	return apply(get(ctx, key), opts)
}

func Bool(ctx context.Context, key string, opts ...Option[bool]) Reader[bool] {
	return apply(Map(get(ctx, key), func(s string) (bool, error) {
		return strconv.ParseBool(strings.TrimSpace(s))
	}), opts)
}

func Int(ctx context.Context, key string, opts ...Option[int]) Reader[int] {
	return apply(Map(get(ctx, key), func(s string) (int, error) {
		return strconv.Atoi(strings.TrimSpace(s))
	}), opts)
}

func Float64(ctx context.Context, key string, opts ...Option[float64]) Reader[float64] {
	return apply(Map(get(ctx, key), func(s string) (float64, error) {
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	}), opts)
}

// Duration accepts Go duration syntax ("4.1s", "500ms"); a bare number is read as seconds.
func Duration(ctx context.Context, key string, opts ...Option[time.Duration]) Reader[time.Duration] {
	return apply(Map(get(ctx, key), parseDuration), opts)
}

// HostAndPort reads a "host:port" address. A blank value is the zero address.
func HostAndPort(ctx context.Context, key string, opts ...Option[envtypes.HostPort]) Reader[envtypes.HostPort] {
	return apply(Map(get(ctx, key), func(s string) (envtypes.HostPort, error) {
		s = strings.TrimSpace(s)
		if s == "" {
			return envtypes.HostPort{}, nil
		}

		return envtypes.ParseHostPort(s)
	}), opts)
}

// SlogLevel returns a Reader for the given environment variable key.
func SlogLevel(ctx context.Context, key string, opts ...Option[slog.Level]) Reader[slog.Level] {
	return apply(Map(get(ctx, key), parseSlogLevel), opts)
}

// FilePath returns a Reader for a path that must name an existing regular file.
func FilePath(ctx context.Context, key string, opts ...Option[string]) Reader[string] {
	return apply(Map(get(ctx, key), func(path string) (string, error) {
		info, err := os.Stat(path)
		if err != nil {
			return path, err
		}

		if !info.Mode().IsRegular() {
			return path, fmt.Errorf("%w: %s", ErrNotAFile, path)
		}

		return path, nil
	}), opts)
}

// NonNegative is a validation for numeric readers.
func NonNegative[T int | float64 | time.Duration](v T) error {
	if v < 0 {
		return fmt.Errorf("%w: %v", ErrNegativeNumber, v)
	}

	return nil
}

// Positive rejects zero as well as negative values.
func Positive[T int | float64 | time.Duration](v T) error {
	if v <= 0 {
		return fmt.Errorf("%w: %v", ErrNotPositive, v)
	}

	return nil
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}

	return time.ParseDuration(s)
}

func parseSlogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrBadSlogLevel, s)
	}
}
