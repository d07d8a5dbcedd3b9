package doe

import (
	"math"
	"strings"
)

// RawParameter is one parameter declaration as read from an input file.
type RawParameter struct {
	Name      string  `json:"name" yaml:"name"`
	Min       float64 `json:"min" yaml:"min"`
	Max       float64 `json:"max" yaml:"max"`
	Increment float64 `json:"increment" yaml:"increment"`
	Kind      string  `json:"kind" yaml:"kind"`
}

// ParameterSpec is a validated parameter declaration.
type ParameterSpec struct {
	Name      string
	Min       float64
	Max       float64
	Increment float64
	Kind      Kind
}

// Registry holds the validated parameters in declaration order.
type Registry struct {
	params []ParameterSpec
	byName map[string]int
}

// NewRegistry validates raw declarations and returns a registry. Every
// problem is reported as an ErrConfiguration naming the parameter.
func NewRegistry(raw []RawParameter) (*Registry, error) {
	if len(raw) == 0 {
		return nil, configErrorf("no parameters declared")
	}
	reg := &Registry{
		params: make([]ParameterSpec, 0, len(raw)),
		byName: make(map[string]int, len(raw)),
	}
	for i, r := range raw {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			return nil, configErrorf("parameter %d has an empty name", i+1)
		}
		if _, dup := reg.byName[name]; dup {
			return nil, configErrorf("parameter %q declared more than once", name)
		}
		kind, ok := ParseKind(r.Kind)
		if !ok {
			return nil, configErrorf("parameter %q has unknown kind %q", name, r.Kind)
		}
		p := ParameterSpec{Name: name, Min: r.Min, Max: r.Max, Increment: r.Increment, Kind: kind}
		if err := p.validate(); err != nil {
			return nil, err
		}
		reg.byName[name] = len(reg.params)
		reg.params = append(reg.params, p)
	}
	return reg, nil
}

func (p ParameterSpec) validate() error {
	for _, v := range []float64{p.Min, p.Max, p.Increment} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return configErrorf("parameter %q has a non-finite bound or increment", p.Name)
		}
	}
	if p.Min > p.Max {
		return configErrorf("parameter %q: min %g exceeds max %g", p.Name, p.Min, p.Max)
	}
	if p.Kind == KindFixed {
		return nil
	}
	if p.Increment <= 0 {
		return configErrorf("parameter %q: increment must be positive, got %g", p.Name, p.Increment)
	}
	if p.Kind == KindFactPower {
		if p.Min <= 0 {
			return configErrorf("parameter %q: FactPower needs a positive min, got %g", p.Name, p.Min)
		}
		if p.Increment <= 1 {
			return configErrorf("parameter %q: FactPower needs an increment above 1, got %g", p.Name, p.Increment)
		}
	}
	return nil
}

// Len returns the number of parameters.
func (r *Registry) Len() int { return len(r.params) }

// Params returns the parameters in declaration order. The slice must not be modified.
func (r *Registry) Params() []ParameterSpec { return r.params }

// Lookup returns the parameter with the given name.
func (r *Registry) Lookup(name string) (ParameterSpec, bool) {
	i, ok := r.byName[name]
	if !ok {
		return ParameterSpec{}, false
	}
	return r.params[i], true
}

// ByKind returns the parameters matching any of the given kinds, in declaration order.
func (r *Registry) ByKind(kinds ...Kind) []ParameterSpec {
	var out []ParameterSpec
	for _, p := range r.params {
		for _, k := range kinds {
			if p.Kind == k {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Count returns how many parameters have the given kind.
func (r *Registry) Count(kind Kind) int {
	n := 0
	for _, p := range r.params {
		if p.Kind == kind {
			n++
		}
	}
	return n
}

// Header returns the column labels: idLabel followed by the parameter names.
func (r *Registry) Header(idLabel string) []string {
	h := make([]string, 0, len(r.params)+1)
	h = append(h, idLabel)
	for _, p := range r.params {
		h = append(h, p.Name)
	}
	return h
}
