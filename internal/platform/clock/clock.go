// Copyright (c) 2026 Vizit. All rights reserved.
// Author: dev@vizit.app

// Package clock abstracts the wall-clock so that expiry math is testable.
//
// # Why not time.Now directly?
//
// Token and reset-ticket expiry decisions are scattered across the identity
// flows. Injecting a [Clock] capability lets tests pin time deterministically
// instead of sleeping or tolerating flaky comparisons.
package clock

import "time"

// Clock is the minimal time source consumed by the identity core.
type Clock interface {
	// Now returns the current wall-clock time.
	Now() time.Time
}

// System returns a [Clock] backed by [time.Now].
func System() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Func adapts a plain function to the [Clock] interface.
//
// # Example
//
//	clk := clock.Func(func() time.Time { return fixed })
type Func func() time.Time

// Now implements [Clock].
func (f Func) Now() time.Time { return f() }
