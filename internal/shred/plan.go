package shred

import (
	"github.com/cockroachdb/errors"
)

// FillMode determines the byte content written during a pass.
type FillMode string

const (
	FillRandom FillMode = "random"
	FillZero   FillMode = "zero"
)

// ParseFillMode checks a fill mode name.
func ParseFillMode(mode string) (FillMode, error) {
	m := FillMode(mode)
	switch m {
	case FillRandom, FillZero:
		return m, nil
	default:
		return "", errors.Newf("unsupported fill mode: %s", mode)
	}
}

// Pass describes one full traversal of a file.
type Pass struct {
	Mode FillMode
	// Final marks the appended zero pass.
	Final bool
}

// NewPlan returns passes random-fill passes, followed by one zero-fill pass
// when zero is set. Zero passes is a valid, empty plan.
func NewPlan(passes int, zero bool) []Pass {
	if passes < 0 {
		passes = 0
	}
	plan := make([]Pass, 0, passes+1)
	for i := 0; i < passes; i++ {
		plan = append(plan, Pass{Mode: FillRandom})
	}
	if zero {
		plan = append(plan, Pass{Mode: FillZero, Final: true})
	}
	return plan
}
