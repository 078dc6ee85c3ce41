// spline_test.go - Unit tests for natural cubic spline interpolation

package sidfilter

import (
	"errors"
	"math"
	"testing"
)

// plotRecorder captures every plotted point in call order.
type plotRecorder struct {
	xs []int
	ys map[int]float64
}

func newPlotRecorder() *plotRecorder {
	return &plotRecorder{ys: make(map[int]float64)}
}

func (r *plotRecorder) Plot(x int, y float64) {
	r.xs = append(r.xs, x)
	r.ys[x] = y
}

func TestSpline_EveryXPlottedOnce(t *testing.T) {
	for _, model := range []ChipModel{SID_MODEL_6581, SID_MODEL_8580} {
		points, err := FCPoints(model)
		if err != nil {
			t.Fatalf("FCPoints(%v): %v", model, err)
		}
		rec := newPlotRecorder()
		if err := Interpolate(points, 0, SID_FC_MAX, rec); err != nil {
			t.Fatalf("Interpolate(%v): %v", model, err)
		}
		if len(rec.xs) != SID_FC_COUNT {
			t.Fatalf("%v: plotted %d values, want %d", model, len(rec.xs), SID_FC_COUNT)
		}
		for i, x := range rec.xs {
			if x != i {
				t.Fatalf("%v: plot %d was x=%d, want ascending x=%d", model, i, x, i)
			}
			if y := rec.ys[x]; math.IsNaN(y) || math.IsInf(y, 0) {
				t.Fatalf("%v: x=%d produced %v", model, x, y)
			}
		}
	}
}

func TestSpline_CollinearPointsStayLinear(t *testing.T) {
	points := []FCPoint{{0, 0}, {10, 100}, {20, 200}, {40, 400}}
	rec := newPlotRecorder()
	if err := Interpolate(points, 0, 40, rec); err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	for x := 0; x <= 40; x++ {
		want := float64(10 * x)
		if got := rec.ys[x]; math.Abs(got-want) > 1e-9 {
			t.Errorf("x=%d: got %f, want %f", x, got, want)
		}
	}
}

func TestSpline_NaturalBoundary(t *testing.T) {
	// Single interior knot: M1 = 6*(-10-10)/(2*20) = -3, so
	// S(5) = -3*125/60 + (10 + 5)*5 = 68.75.
	points := []FCPoint{{0, 0}, {10, 100}, {20, 0}}
	rec := newPlotRecorder()
	if err := Interpolate(points, 0, 20, rec); err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	for _, x := range []int{5, 15} {
		if got := rec.ys[x]; math.Abs(got-68.75) > 1e-9 {
			t.Errorf("x=%d: got %f, want 68.75", x, got)
		}
	}
	if rec.ys[10] != 100 {
		t.Errorf("knot x=10: got %f, want 100", rec.ys[10])
	}
}

func TestSpline_RepeatedXIsHardEdge(t *testing.T) {
	points := []FCPoint{{0, 0}, {5, 10}, {5, 20}, {10, 30}}
	rec := newPlotRecorder()
	if err := Interpolate(points, 0, 10, rec); err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	if len(rec.xs) != 11 {
		t.Fatalf("plotted %d values, want 11", len(rec.xs))
	}
	if got := rec.ys[4]; math.Abs(got-8) > 1e-9 {
		t.Errorf("x=4: got %f, want 8 (line towards the first x=5 point)", got)
	}
	if got := rec.ys[5]; got != 20 {
		t.Errorf("x=5: got %f, want 20 (second x=5 point starts the next run)", got)
	}
	if got := rec.ys[10]; got != 30 {
		t.Errorf("x=10: got %f, want 30", got)
	}
}

func TestSpline_TripleRepeatedX(t *testing.T) {
	points := []FCPoint{{0, 0}, {5, 10}, {5, 50}, {5, 20}, {10, 30}}
	rec := newPlotRecorder()
	if err := Interpolate(points, 0, 10, rec); err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	if len(rec.xs) != 11 {
		t.Fatalf("plotted %d values, want 11", len(rec.xs))
	}
	if got := rec.ys[5]; got != 20 {
		t.Errorf("x=5: got %f, want 20", got)
	}
}

func TestSpline_RepeatedFinalX(t *testing.T) {
	points := []FCPoint{{0, 0}, {10, 100}, {10, 50}}
	rec := newPlotRecorder()
	if err := Interpolate(points, 0, 10, rec); err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	if len(rec.xs) != 11 {
		t.Fatalf("plotted %d values, want 11", len(rec.xs))
	}
	if got := rec.ys[10]; got != 50 {
		t.Errorf("x=10: got %f, want 50", got)
	}
}

func TestSpline_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		points []FCPoint
		want   error
	}{
		{"empty", nil, ErrTooFewPoints},
		{"single", []FCPoint{{0, 100}}, ErrTooFewPoints},
		{"unsorted", []FCPoint{{0, 0}, {20, 5}, {10, 5}, {30, 0}}, ErrUnsortedPoints},
		{"starts late", []FCPoint{{1, 0}, {30, 0}}, ErrDomain},
		{"ends early", []FCPoint{{0, 0}, {29, 0}}, ErrDomain},
		{"overshoots", []FCPoint{{0, 0}, {31, 0}}, ErrDomain},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			err := Interpolate(tc.points, 0, 30, PlotterFunc(func(int, float64) { calls++ }))
			if !errors.Is(err, tc.want) {
				t.Fatalf("got error %v, want %v", err, tc.want)
			}
			if calls != 0 {
				t.Errorf("plotted %d values before failing", calls)
			}
		})
	}
}

func TestSpline_ScratchReuse(t *testing.T) {
	var s spline
	long := []FCPoint{{0, 0}, {10, 50}, {20, 80}, {30, 90}, {40, 100}}
	short := []FCPoint{{0, 0}, {20, 40}, {40, 100}}

	first := newPlotRecorder()
	if err := s.interpolate(short, 0, 40, first); err != nil {
		t.Fatal(err)
	}
	if err := s.interpolate(long, 0, 40, newPlotRecorder()); err != nil {
		t.Fatal(err)
	}
	second := newPlotRecorder()
	if err := s.interpolate(short, 0, 40, second); err != nil {
		t.Fatal(err)
	}
	for x := 0; x <= 40; x++ {
		if first.ys[x] != second.ys[x] {
			t.Errorf("x=%d: %f after reuse, want %f", x, second.ys[x], first.ys[x])
		}
	}
}
