package model

import (
	"github.com/pkg/errors"
)

// ErrKwargType is returned by the Kwargs getters when a value has an unexpected type.
var ErrKwargType = errors.New("unexpected kwarg type")

// Series is one column of a table.
type Series []float64

// Kwargs are named arguments bound to a step and passed on every invocation.
type Kwargs map[string]any

// Float returns the value stored under key as a float64, or def when the key is absent.
// Integer values are converted.
func (kw Kwargs) Float(key string, def float64) (float64, error) {
	raw, ok := kw[key]
	if !ok {
		return def, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, errors.Wrapf(ErrKwargType, "%s: want float, got %T", key, raw)
	}
}

// Int returns the value stored under key as an int, or def when the key is absent.
func (kw Kwargs) Int(key string, def int) (int, error) {
	raw, ok := kw[key]
	if !ok {
		return def, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	default:
		return 0, errors.Wrapf(ErrKwargType, "%s: want int, got %T", key, raw)
	}
}

// Bool returns the value stored under key as a bool, or def when the key is absent.
func (kw Kwargs) Bool(key string, def bool) (bool, error) {
	raw, ok := kw[key]
	if !ok {
		return def, nil
	}
	v, ok := raw.(bool)
	if !ok {
		return false, errors.Wrapf(ErrKwargType, "%s: want bool, got %T", key, raw)
	}

	return v, nil
}

// String returns the value stored under key as a string, or def when the key is absent.
func (kw Kwargs) String(key, def string) (string, error) {
	raw, ok := kw[key]
	if !ok {
		return def, nil
	}
	v, ok := raw.(string)
	if !ok {
		return "", errors.Wrapf(ErrKwargType, "%s: want string, got %T", key, raw)
	}

	return v, nil
}

// Clone returns a shallow copy of kw. A nil Kwargs clones to an empty one.
func (kw Kwargs) Clone() Kwargs {
	out := make(Kwargs, len(kw))
	for k, v := range kw {
		out[k] = v
	}

	return out
}

// DistributionFunc produces the base series of a column.
type DistributionFunc func(size int, kw Kwargs) (Series, error)

// TransformFunc replaces the running series of a column.
type TransformFunc func(in Series, kw Kwargs) (Series, error)

// Step is a function together with the kwargs it is always invoked with.
type Step[F any] struct {
	Fn     F
	Kwargs Kwargs
}

// Bare creates a step without kwargs.
func Bare[F any](fn F) Step[F] {
	return Step[F]{Fn: fn, Kwargs: Kwargs{}}
}

// Bound creates a step invoked with kw.
func Bound[F any](fn F, kw Kwargs) Step[F] {
	return Step[F]{Fn: fn, Kwargs: kw.Clone()}
}

// Distribution is a shorthand returning a pointer to a distribution step, as expected by ColumnConfig.
func Distribution(fn DistributionFunc, kw Kwargs) *Step[DistributionFunc] {
	step := Bound(fn, kw)

	return &step
}

// NamedStep is a transform step identified by name within a column.
type NamedStep struct {
	Name string
	Step Step[TransformFunc]
}

// Transform creates a named transform step. kw may be nil.
func Transform(name string, fn TransformFunc, kw Kwargs) NamedStep {
	return NamedStep{Name: name, Step: Bound(fn, kw)}
}
