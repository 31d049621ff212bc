package estimate

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCalculate(t *testing.T) {
	t.Parallel()

	t.Run("default sizing", func(t *testing.T) {
		t.Parallel()
		e, err := Calculate(DefaultParams())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		wantCurrent := Breakdown{DailyCounts: 91250, SessionHistory: 50000, CurrentSessions: 1000}
		if diff := cmp.Diff(wantCurrent, e.Current); diff != "" {
			t.Errorf("current mismatch (-want +got):\n%s", diff)
		}
		wantOptimized := Breakdown{DailyCounts: 7500, SessionHistory: 20000, CurrentSessions: 1000}
		if diff := cmp.Diff(wantOptimized, e.Optimized); diff != "" {
			t.Errorf("optimized mismatch (-want +got):\n%s", diff)
		}

		if len(e.Growth) != 5 {
			t.Fatalf("expected 5 growth points, got %d", len(e.Growth))
		}
		if e.Growth[0].Bytes != e.Current.Total() {
			t.Errorf("first year should equal the current total")
		}
		if e.Growth[4].Bytes != 5*91250+51000 {
			t.Errorf("unexpected 5 year total %d", e.Growth[4].Bytes)
		}
		if e.ExceedsFreeTier {
			t.Error("default sizing fits the free tier")
		}
		if got := e.Current.TotalMiB(); math.Abs(got-0.1357) > 0.001 {
			t.Errorf("unexpected total %.4f MiB", got)
		}
	})

	t.Run("large deployments exceed the free tier", func(t *testing.T) {
		t.Parallel()
		p := DefaultParams()
		p.Seats = 100000
		e, err := Calculate(p)
		if err != nil {
			t.Fatal(err)
		}
		if !e.ExceedsFreeTier {
			t.Errorf("expected %d bytes to exceed the free tier", e.Current.Total())
		}
		if e.Current.FreeTierPercent() <= 100 {
			t.Errorf("expected more than 100%%, got %.2f", e.Current.FreeTierPercent())
		}
	})

	t.Run("invalid params", func(t *testing.T) {
		t.Parallel()
		p := DefaultParams()
		p.BytesPerSession = 0
		if _, err := Calculate(p); !errors.Is(err, ErrInvalidParams) {
			t.Errorf("expected ErrInvalidParams, got %v", err)
		}
	})
}
