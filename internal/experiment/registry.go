package experiment

import (
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/san-kum/corona/internal/models"
)

// maxSuggestDistance bounds how far a typo may be from a registered name
// before no suggestion is offered.
const maxSuggestDistance = 3

type Registry struct {
	models map[string]func() models.Model
}

func NewRegistry() *Registry {
	r := &Registry{models: make(map[string]func() models.Model)}

	r.models["sir"] = func() models.Model { return models.NewSIR() }
	r.models["seir"] = func() models.Model { return models.NewSEIR() }
	r.models["seihrf"] = func() models.Model { return models.NewSEIHRF() }
	r.models["decay"] = func() models.Model { return models.NewDecay() }
	r.models["growth"] = func() models.Model { return models.NewGrowth() }
	r.models["oscillator"] = func() models.Model { return models.NewOscillator() }
	r.models["constant"] = func() models.Model { return models.NewConstant() }

	return r
}

// Register adds or replaces a model constructor.
func (r *Registry) Register(name string, fn func() models.Model) {
	r.models[name] = fn
}

// GetModel returns a fresh instance with default parameters.
func (r *Registry) GetModel(name string) (models.Model, error) {
	fn, ok := r.models[name]
	if !ok {
		if s := r.Suggest(name); s != "" {
			return nil, fmt.Errorf("unknown model: %s (did you mean %q?)", name, s)
		}
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Suggest returns the registered name closest to name, or "" if none is close.
// Ties go to the candidate whose length is nearest to name, then to the first
// name alphabetically.
func (r *Registry) Suggest(name string) string {
	best, bestDist, bestLen := "", maxSuggestDistance+1, 0
	for _, candidate := range r.ListModels() {
		d := levenshtein.ComputeDistance(name, candidate)
		lenDiff := absInt(len(candidate) - len(name))
		if d < bestDist || (d == bestDist && lenDiff < bestLen) {
			best, bestDist, bestLen = candidate, d, lenDiff
		}
	}
	return best
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
