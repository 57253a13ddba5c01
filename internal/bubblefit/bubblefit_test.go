package bubblefit

import "testing"

func TestFitPicksLargestFittingTier(t *testing.T) {
	f := New(nil)

	// 3 bubbles at the large height need 102; give them room.
	got := f.Fit(3, 120)
	if got.Tier != TierLarge || got.Visible != 3 || got.More != 0 {
		t.Fatalf("unexpected layout: %+v", got)
	}

	// 90 is too tight for large (102) but fits medium (78).
	got = f.Fit(3, 90)
	if got.Tier != TierMedium || got.Visible != 3 || got.More != 0 {
		t.Fatalf("unexpected layout: %+v", got)
	}
}

func TestFitOverflowTruncatesAtSmallestTier(t *testing.T) {
	f := New(nil)

	// 10 bubbles in 80 units: even tiny needs 150, so truncate. At the
	// tiny height of 15, five elements fit; one is the marker.
	got := f.Fit(10, 80)
	if got.Tier != TierTiny {
		t.Fatalf("expected tiny tier, got %s", got.Tier)
	}
	if got.Visible != 4 {
		t.Fatalf("expected 4 visible, got %d", got.Visible)
	}
	if got.More != 6 {
		t.Fatalf("expected 6 folded, got %d", got.More)
	}
}

func TestFitConfiguredTierList(t *testing.T) {
	// Restricting the presets to large and medium makes medium the
	// overflow tier: 8 bubbles in 160 units show 5 plus a "+3" marker.
	f := New(nil, TierLarge, TierMedium)

	got := f.Fit(8, 160)
	if got.Tier != TierMedium {
		t.Fatalf("expected medium tier, got %s", got.Tier)
	}
	if got.Visible != 5 || got.More != 3 {
		t.Fatalf("unexpected layout: %+v", got)
	}
}

func TestFitZeroCount(t *testing.T) {
	got := New(nil).Fit(0, 100)
	if got.Visible != 0 || got.More != 0 {
		t.Fatalf("unexpected layout for empty cell: %+v", got)
	}
}

func TestFitToleranceAbsorbsJitter(t *testing.T) {
	// 3 large bubbles measure 102; 101.8 is within the jitter tolerance.
	got := New(nil).Fit(3, 101.8)
	if got.Tier != TierLarge || got.Visible != 3 {
		t.Fatalf("unexpected layout: %+v", got)
	}
}

func TestFitCustomMeasurer(t *testing.T) {
	rows := func(tier Tier, count int) float64 {
		if tier == TierLarge {
			return float64(count * 2)
		}
		return float64(count)
	}
	f := New(rows, TierLarge, TierMedium)

	got := f.Fit(3, 6)
	if got.Tier != TierLarge || got.Visible != 3 {
		t.Fatalf("unexpected layout: %+v", got)
	}

	got = f.Fit(3, 3)
	if got.Tier != TierMedium || got.Visible != 3 {
		t.Fatalf("unexpected layout: %+v", got)
	}

	got = f.Fit(5, 3)
	if got.Tier != TierMedium || got.Visible != 2 || got.More != 3 {
		t.Fatalf("unexpected layout: %+v", got)
	}
}
