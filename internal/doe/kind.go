// Package doe builds Design-of-Experiments configuration tables (design point
// matrices) from a list of parameter declarations. Each parameter is sampled
// by a Latin hypercube, swept factorially, held fixed or drawn at random, and
// the per-parameter generators are combined into one table of configurations
// with contiguous ConfigIDs.
package doe

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/stat/distuv"
)

// Kind selects how a parameter's values are generated.
type Kind int

const (
	KindLHD Kind = iota + 1
	KindFactorial
	KindFactPower
	KindFixed
	KindRandom
)

// String returns the name used in parameter definition files.
func (k Kind) String() string {
	switch k {
	case KindLHD:
		return "LHD"
	case KindFactorial:
		return "Factorial"
	case KindFactPower:
		return "FactPower"
	case KindFixed:
		return "Fixed"
	case KindRandom:
		return "Random"
	default:
		return "Unknown"
	}
}

// IsFactorial reports whether the kind contributes an axis to the factorial table.
func (k Kind) IsFactorial() bool {
	return k == KindFactorial || k == KindFactPower
}

// ParseKind maps a kind string to a Kind. "Fact" is accepted as a legacy
// alias of "Factorial". Matching is exact after trimming whitespace.
func ParseKind(s string) (Kind, bool) {
	switch strings.TrimSpace(s) {
	case "LHD":
		return KindLHD, true
	case "Factorial", "Fact":
		return KindFactorial, true
	case "FactPower":
		return KindFactPower, true
	case "Fixed":
		return KindFixed, true
	case "Random":
		return KindRandom, true
	}
	return 0, false
}

// rowContext is what a column resolver may read while one output row is filled.
type rowContext struct {
	lhd  []float64
	fact []float64
}

// columnResolver produces the value of one parameter column for one output row.
type columnResolver interface {
	resolve(rc rowContext) float64
}

type lhdColumn struct{ index int }

func (c lhdColumn) resolve(rc rowContext) float64 { return rc.lhd[c.index] }

type factorialColumn struct{ index int }

func (c factorialColumn) resolve(rc rowContext) float64 { return rc.fact[c.index] }

type fixedColumn struct{ value float64 }

func (c fixedColumn) resolve(rowContext) float64 { return c.value }

// randomColumn draws a fresh value for every row it is asked to resolve. The
// draw is min + round(U*span*inc)/inc, so the reachable range is
// [min, min + round(span*inc)/inc]. That upper end equals max only when inc
// is 1; span 3 with inc 0.5 can reach min+4.
type randomColumn struct {
	param ParameterSpec
	unit  *distuv.Uniform
}

func (c randomColumn) resolve(rowContext) float64 {
	span := c.param.Max - c.param.Min
	return c.param.Min + math.Round(c.unit.Rand()*span*c.param.Increment)/c.param.Increment
}

// newResolvers builds one resolver per registry column. LHD and factorial
// columns get independent cursors in declaration order.
func newResolvers(reg *Registry, unit *distuv.Uniform) ([]columnResolver, error) {
	out := make([]columnResolver, 0, reg.Len())
	var lhdCursor, factCursor int
	for _, p := range reg.Params() {
		switch p.Kind {
		case KindLHD:
			out = append(out, lhdColumn{index: lhdCursor})
			lhdCursor++
		case KindFactorial, KindFactPower:
			out = append(out, factorialColumn{index: factCursor})
			factCursor++
		case KindFixed:
			out = append(out, fixedColumn{value: p.Min})
		case KindRandom:
			out = append(out, randomColumn{param: p, unit: unit})
		default:
			return nil, configErrorf("parameter %q has unknown kind %q", p.Name, p.Kind)
		}
	}
	return out, nil
}
