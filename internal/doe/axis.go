package doe

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxCleanDecimals is the deepest decimal place values are rounded to when
// removing binary representation noise such as 0.21000000000000002.
const maxCleanDecimals = 15

// stepSlack is the fraction of one increment a generated value may overshoot
// max by and still count as max.
const stepSlack = 1e-6

// FactorialAxis is the ordered value sequence of one Factorial or FactPower parameter.
type FactorialAxis struct {
	Parameter ParameterSpec
	Values    []float64
}

// boundaryTolerance is the slack allowed when comparing a generated value
// against max. It never exceeds a millionth of the step that produced the
// value, so an overshooting grid point cannot pass for max.
func boundaryTolerance(max, step float64) float64 {
	return math.Min(1e-9*math.Max(1, math.Abs(max)), stepSlack*math.Abs(step))
}

// decimalPlaces counts the digits after the decimal point in the shortest
// representation of v. It returns -1 for values needing exponent notation
// beyond what float64 can hold exactly.
func decimalPlaces(v float64) int {
	s := strconv.FormatFloat(math.Abs(v), 'f', -1, 64)
	i := strings.IndexByte(s, '.')
	if i < 0 {
		return 0
	}
	return len(s) - i - 1
}

// roundDecimals rounds v to d decimal places. It leaves v untouched when d is
// out of range or when v*10^d cannot be held exactly in a float64.
func roundDecimals(v float64, d int) float64 {
	if d < 0 || d > maxCleanDecimals {
		return v
	}
	scale := math.Pow10(d)
	if math.Abs(v)*scale >= 1<<53 {
		return v
	}
	c := math.Round(v*scale) / scale
	if math.IsInf(c, 0) || math.IsNaN(c) {
		return v
	}
	return c
}

// clamp bounds v to [p.Min, p.Max].
func clamp(v float64, p ParameterSpec) float64 {
	return math.Min(math.Max(v, p.Min), p.Max)
}

// NewFactorialAxis enumerates the values of a Factorial or FactPower
// parameter. Values are min + k*increment (Factorial) or min * increment^k
// (FactPower) for k = 0, 1, ... while they do not exceed max. The returned
// warnings flag axes that stop short of max or collapse to one value.
func NewFactorialAxis(p ParameterSpec) (FactorialAxis, []Warning, error) {
	var (
		values []float64
		err    error
	)
	switch p.Kind {
	case KindFactorial:
		values, err = linearAxis(p)
	case KindFactPower:
		values, err = powerAxis(p)
	default:
		return FactorialAxis{}, nil, configErrorf("parameter %q of kind %s is not factorial", p.Name, p.Kind)
	}
	if err != nil {
		return FactorialAxis{}, nil, err
	}
	if len(values) == 0 {
		// Only reachable when min itself lies above max, which validation rejects.
		return FactorialAxis{}, nil, configErrorf("parameter %q produces no values", p.Name)
	}

	var warnings []Warning
	last := values[len(values)-1]
	if len(values) == 1 {
		warnings = append(warnings, Warning{
			Kind:      DegenerateAxis,
			Parameter: p.Name,
			Message:   fmt.Sprintf("axis resolves to the single value %g", last),
		})
	}
	if last < p.Max {
		warnings = append(warnings, Warning{
			Kind:      NumericBoundary,
			Parameter: p.Name,
			Message:   fmt.Sprintf("increment %g does not reach max %g; last value is %g", p.Increment, p.Max, last),
		})
	}
	return FactorialAxis{Parameter: p, Values: values}, warnings, nil
}

// linearAxis sizes the axis from the step count before allocating it, so a
// huge range is rejected without enumerating it.
func linearAxis(p ParameterSpec) ([]float64, error) {
	steps := (p.Max - p.Min) / p.Increment
	if steps+1 > maxDesignRows {
		return nil, configErrorf("parameter %q expands to more than %d values", p.Name, maxDesignRows)
	}
	n := int(math.Floor(steps+stepSlack)) + 1
	tol := boundaryTolerance(p.Max, p.Increment)
	d := max(decimalPlaces(p.Min), decimalPlaces(p.Increment))

	values := make([]float64, 0, n)
	for k := 0; k < n; k++ {
		v := p.Min + float64(k)*p.Increment
		if math.Abs(v-p.Max) <= tol {
			v = p.Max
		}
		v = clamp(roundDecimals(v, d), p)
		if k > 0 && v <= values[k-1] {
			return nil, configErrorf("parameter %q increment %g is below float resolution at %g", p.Name, p.Increment, v)
		}
		values = append(values, v)
	}
	return values, nil
}

// powerAxis walks the geometric sequence; its length is logarithmic in the
// range so it is enumerated directly.
func powerAxis(p ParameterSpec) ([]float64, error) {
	dMin, dInc := decimalPlaces(p.Min), decimalPlaces(p.Increment)
	var values []float64
	for k := 0; ; k++ {
		v := p.Min * math.Pow(p.Increment, float64(k))
		step := v - v/p.Increment
		tol := boundaryTolerance(p.Max, step)
		if math.IsInf(v, 0) || v > p.Max+tol {
			break
		}
		if math.Abs(v-p.Max) <= tol {
			v = p.Max
		}
		if len(values) >= maxDesignRows {
			return nil, configErrorf("parameter %q expands to more than %d values", p.Name, maxDesignRows)
		}
		v = clamp(roundDecimals(v, dMin+k*dInc), p)
		if k > 0 && v <= values[k-1] {
			return nil, configErrorf("parameter %q increment %g is below float resolution at %g", p.Name, p.Increment, v)
		}
		values = append(values, v)
	}
	return values, nil
}
