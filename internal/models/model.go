// Package models holds derivative functions for compartment epidemics and
// reference equations with known solutions.
package models

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/corona/internal/dynamo"
)

// Model is a system the CLI can run by name.
type Model interface {
	dynamo.System
	dynamo.Dimensioned
	dynamo.Labeled
	dynamo.Configurable
	DefaultState() dynamo.State
}

type param struct {
	value *float64
	// strict excludes zero from the allowed range.
	strict bool
	// fraction caps the value at 1.
	fraction bool
}

type params map[string]param

func rate(v *float64) param     { return param{value: v} }
func positive(v *float64) param { return param{value: v, strict: true} }
func fraction(v *float64) param { return param{value: v, fraction: true} }

func (p params) values() map[string]float64 {
	out := make(map[string]float64, len(p))
	for name, v := range p {
		out[name] = *v.value
	}
	return out
}

func (p params) set(name string, value float64) error {
	spec, ok := p[name]
	if !ok {
		return fmt.Errorf("%w: %q (have %v)", dynamo.ErrUnknownParam, name, p.names())
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 ||
		(spec.strict && value == 0) || (spec.fraction && value > 1) {
		return fmt.Errorf("%w: %s=%g", dynamo.ErrParameterBounds, name, value)
	}
	*spec.value = value
	return nil
}

func (p params) names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func checkDim(x dynamo.State, n int) error {
	if len(x) != n {
		return fmt.Errorf("%w: got %d compartments, want %d", dynamo.ErrDimensionMismatch, len(x), n)
	}
	return nil
}
