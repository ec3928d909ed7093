package css

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrUnresolvedLength is returned for values that cannot be turned into a
// pixel length: keywords such as "auto", unsupported units, or garbage.
// Layout always absorbs it.
var ErrUnresolvedLength = errors.New("css: unresolved length")

// Unit of a parsed length.
type Unit int

const (
	UnitPx Unit = iota
	UnitPercent
)

// Length is a parsed px or percentage value. Bare numbers are px.
type Length struct {
	Value float64
	Unit  Unit
}

// ParseLength parses "12px", "12", "-3.5px" or "50%".
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("%w: empty value", ErrUnresolvedLength)
	}

	unit := UnitPx
	switch {
	case strings.HasSuffix(v, "%"):
		unit = UnitPercent
		v = strings.TrimSuffix(v, "%")
	case strings.HasSuffix(v, "px"):
		v = strings.TrimSuffix(v, "px")
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Length{}, fmt.Errorf("%w: %q", ErrUnresolvedLength, value)
	}
	return Length{Value: f, Unit: unit}, nil
}

// Resolve converts the length to pixels. Percentages are taken of base.
func (l Length) Resolve(base float64) float64 {
	if l.Unit == UnitPercent {
		return base * l.Value / 100
	}
	return l.Value
}

func (l Length) String() string {
	s := strconv.FormatFloat(l.Value, 'f', -1, 64)
	if l.Unit == UnitPercent {
		return s + "%"
	}
	return s + "px"
}
