// spline.go - Natural cubic spline interpolation for the FC to cutoff frequency mapping

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package sidfilter

import (
	"errors"
	"fmt"
)

var (
	ErrTooFewPoints   = errors.New("at least two interpolation points required")
	ErrUnsortedPoints = errors.New("interpolation points not sorted by x")
	ErrDomain         = errors.New("interpolation points do not span the target range")
)

// PointPlotter receives one interpolated value per integer x. Scaling,
// quantization and storage belong to the plotter.
type PointPlotter interface {
	Plot(x int, y float64)
}

// PlotterFunc adapts a function to PointPlotter.
type PlotterFunc func(x int, y float64)

func (f PlotterFunc) Plot(x int, y float64) { f(x, y) }

// validatePoints checks that points can be interpolated over [xMin, xMax]
// without extrapolation.
func validatePoints(points []FCPoint, xMin, xMax int) error {
	if len(points) < 2 {
		return fmt.Errorf("%w: got %d", ErrTooFewPoints, len(points))
	}
	for i := 1; i < len(points); i++ {
		if points[i].FC < points[i-1].FC {
			return fmt.Errorf("%w: point %d (x=%d) follows x=%d",
				ErrUnsortedPoints, i, points[i].FC, points[i-1].FC)
		}
	}
	first, last := points[0].FC, points[len(points)-1].FC
	if first != xMin || last != xMax {
		return fmt.Errorf("%w: points cover [%d, %d], want [%d, %d]",
			ErrDomain, first, last, xMin, xMax)
	}
	return nil
}

// Interpolate fits natural cubic splines through points and plots every
// integer x in [xMin, xMax] exactly once, in ascending order.
//
// A point whose x repeats the previous point's x starts a new spline run, so
// a repeated x is a hard edge rather than a vertical tangent. Each run has
// f'' = 0 at both of its ends. Runs own the half-open range [first, last);
// the final run also plots xMax.
//
// Nothing is plotted when the points are rejected.
func Interpolate(points []FCPoint, xMin, xMax int, plot PointPlotter) error {
	var s spline
	return s.interpolate(points, xMin, xMax, plot)
}

// spline keeps the solver scratch space so repeated rebuilds reuse it.
type spline struct {
	m  []float64 // second derivatives at the knots of the current run
	cp []float64 // forward sweep coefficients
	dp []float64
}

func (s *spline) interpolate(points []FCPoint, xMin, xMax int, plot PointPlotter) error {
	if err := validatePoints(points, xMin, xMax); err != nil {
		return err
	}

	start := 0
	for i := 1; i <= len(points); i++ {
		if i < len(points) && points[i].FC != points[i-1].FC {
			continue
		}
		s.plotRun(points[start:i], i == len(points), plot)
		start = i
	}
	return nil
}

func (s *spline) plotRun(run []FCPoint, final bool, plot PointPlotter) {
	n := len(run)
	end := run[n-1].FC
	if !final {
		end--
	}
	if n == 1 {
		if final {
			plot.Plot(run[0].FC, float64(run[0].Hz))
		}
		return
	}

	m := s.solve(run)
	k := 0
	for x := run[0].FC; x <= end; x++ {
		for k < n-2 && x >= run[k+1].FC {
			k++
		}
		plot.Plot(x, evalSegment(run[k], run[k+1], m[k], m[k+1], x))
	}
}

// solve returns the knot second derivatives of the natural spline through
// run (strictly increasing x) using the Thomas algorithm.
func (s *spline) solve(run []FCPoint) []float64 {
	n := len(run)
	if cap(s.m) < n {
		s.m = make([]float64, n)
		s.cp = make([]float64, n)
		s.dp = make([]float64, n)
	}
	m, cp, dp := s.m[:n], s.cp[:n], s.dp[:n]
	m[0], m[n-1] = 0, 0

	for i := 1; i < n-1; i++ {
		h0 := float64(run[i].FC - run[i-1].FC)
		h1 := float64(run[i+1].FC - run[i].FC)
		r := 6 * (float64(run[i+1].Hz-run[i].Hz)/h1 - float64(run[i].Hz-run[i-1].Hz)/h0)
		b := 2 * (h0 + h1)
		if i > 1 {
			b -= h0 * cp[i-1]
			r -= h0 * dp[i-1]
		}
		cp[i] = h1 / b
		dp[i] = r / b
	}
	for i := n - 2; i >= 1; i-- {
		m[i] = dp[i] - cp[i]*m[i+1]
	}
	return m
}

// evalSegment evaluates the cubic between knots a and b at x. Knots return
// their measured value exactly.
func evalSegment(a, b FCPoint, ma, mb float64, x int) float64 {
	switch x {
	case a.FC:
		return float64(a.Hz)
	case b.FC:
		return float64(b.Hz)
	}
	h := float64(b.FC - a.FC)
	t0 := float64(x - a.FC)
	t1 := float64(b.FC - x)
	return (ma*t1*t1*t1+mb*t0*t0*t0)/(6*h) +
		(float64(a.Hz)/h-ma*h/6)*t1 +
		(float64(b.Hz)/h-mb*h/6)*t0
}
