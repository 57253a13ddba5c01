// Package bubblefit decides how a day cell's note bubbles are rendered:
// the largest preset size tier at which every bubble fits the available
// height, or the smallest tier with a truncated list and a "+N more" marker.
package bubblefit

// Tier is one of the discrete bubble-rendering size presets, ordered largest
// to smallest.
type Tier string

const (
	TierLarge  Tier = "large"
	TierMedium Tier = "medium"
	TierSmall  Tier = "small"
	TierTiny   Tier = "tiny"
)

// DefaultTiers is the standard preset order, largest first.
func DefaultTiers() []Tier {
	return []Tier{TierLarge, TierMedium, TierSmall, TierTiny}
}

// defaultHeights is the per-bubble rendered height of each tier, including
// the inter-bubble gap.
var defaultHeights = map[Tier]float64{
	TierLarge:  34,
	TierMedium: 26,
	TierSmall:  20,
	TierTiny:   15,
}

// Measurer reports the rendered height of count bubbles at the given tier.
// Rendering backends supply their own; DefaultMeasure is a deterministic
// table-based stand-in for layouts that cannot be measured live.
type Measurer func(tier Tier, count int) float64

// DefaultMeasure measures with the built-in height table.
func DefaultMeasure(tier Tier, count int) float64 {
	return defaultHeights[tier] * float64(count)
}

// Layout is the fit decision for one day cell: the chosen tier, how many real
// bubbles to render, and how many are folded into the "+N more" marker.
// More of zero means no marker.
type Layout struct {
	Tier    Tier
	Visible int
	More    int
}

// Tolerance absorbs sub-pixel rendering jitter when comparing measured
// heights against the available space.
const Tolerance = 0.5

// Fitter selects layouts against a configured preset list.
type Fitter struct {
	tiers   []Tier
	measure Measurer
}

// New creates a Fitter. A nil measurer uses DefaultMeasure; an empty tier
// list uses DefaultTiers.
func New(measure Measurer, tiers ...Tier) *Fitter {
	if measure == nil {
		measure = DefaultMeasure
	}
	if len(tiers) == 0 {
		tiers = DefaultTiers()
	}
	return &Fitter{tiers: tiers, measure: measure}
}

// Fit decides the layout for count bubbles in the given available height.
// Tiers are tried largest to smallest for a full fit; when none holds every
// bubble, the smallest tier is used and the list truncated, reserving one
// bubble's worth of space for the marker.
func (f *Fitter) Fit(count int, available float64) Layout {
	smallest := f.tiers[len(f.tiers)-1]
	if count <= 0 {
		return Layout{Tier: smallest}
	}

	for _, tier := range f.tiers {
		if f.measure(tier, count) <= available+Tolerance {
			return Layout{Tier: tier, Visible: count}
		}
	}

	// Overflow: how many elements (bubbles plus the marker) fit at the
	// smallest tier.
	elems := 0
	for f.measure(smallest, elems+1) <= available+Tolerance {
		elems++
	}

	visible := elems - 1
	if visible < 0 {
		visible = 0
	}
	return Layout{Tier: smallest, Visible: visible, More: count - visible}
}
