package doe

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrConfiguration marks every fatal input problem. Test with errors.Is.
var ErrConfiguration = errors.New("doe: configuration error")

// configErrorf builds an error marked as ErrConfiguration.
func configErrorf(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ErrConfiguration)
}

// WarningKind classifies a non-fatal observation made while building a design.
type WarningKind int

const (
	// NumericBoundary means a factorial axis stops short of its declared max.
	NumericBoundary WarningKind = iota + 1
	// DegenerateAxis means a factorial axis resolved to a single value.
	DegenerateAxis
)

func (k WarningKind) String() string {
	switch k {
	case NumericBoundary:
		return "numeric-boundary"
	case DegenerateAxis:
		return "degenerate-axis"
	default:
		return fmt.Sprintf("warning(%d)", int(k))
	}
}

// Warning is surfaced to the operator but never blocks output.
type Warning struct {
	Kind      WarningKind
	Parameter string
	Message   string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s: %s", w.Kind, w.Parameter, w.Message)
}
