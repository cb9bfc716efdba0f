package dropship

import (
	"sort"

	"github.com/shopspring/decimal"
)

// MarkupTier is one percentage-over-cost band. The tier applies to net costs
// up to and including MaxNet; a zero MaxNet marks the open-ended band above
// every bounded tier.
type MarkupTier struct {
	MaxNet  decimal.Decimal
	Percent decimal.Decimal
}

// MarkupPolicy derives a storefront price from a distributor net cost using
// fixed percentage bands. Markup percentages are strictly positive, so the
// computed price is always at least the net cost.
type MarkupPolicy struct {
	tiers []MarkupTier
}

// NewMarkupPolicy creates a policy from the given tiers, sorted ascending by
// MaxNet with the open-ended tier (zero MaxNet) last. At least one tier is
// expected.
func NewMarkupPolicy(tiers []MarkupTier) MarkupPolicy {
	sorted := make([]MarkupTier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].MaxNet.IsZero() || sorted[j].MaxNet.IsZero() {
			return sorted[j].MaxNet.IsZero() && !sorted[i].MaxNet.IsZero()
		}
		return sorted[i].MaxNet.LessThan(sorted[j].MaxNet)
	})
	return MarkupPolicy{tiers: sorted}
}

// DefaultMarkupPolicy returns the standard dropship bands:
// 30% up to 24.99, 25% up to 50.00, 20% above.
func DefaultMarkupPolicy() MarkupPolicy {
	return NewMarkupPolicy([]MarkupTier{
		{MaxNet: decimal.NewFromFloat(24.99), Percent: decimal.NewFromInt(30)},
		{MaxNet: decimal.NewFromFloat(50.00), Percent: decimal.NewFromInt(25)},
		{MaxNet: decimal.Decimal{}, Percent: decimal.NewFromInt(20)},
	})
}

var (
	oneHundred = decimal.NewFromInt(100)
	one        = decimal.NewFromInt(1)
)

// Percent returns the markup percentage applied to the given net cost. Costs
// above every bounded tier fall through to the open-ended tier.
func (p MarkupPolicy) Percent(net decimal.Decimal) decimal.Decimal {
	if len(p.tiers) == 0 {
		return decimal.Zero
	}
	for _, t := range p.tiers {
		if !t.MaxNet.IsZero() && net.LessThanOrEqual(t.MaxNet) {
			return t.Percent
		}
	}
	return p.tiers[len(p.tiers)-1].Percent
}

// Price computes the storefront price for a net cost: net multiplied by one
// plus the tier percentage, rounded up to the next cent.
func (p MarkupPolicy) Price(net decimal.Decimal) decimal.Decimal {
	factor := one.Add(p.Percent(net).Div(oneHundred))
	return net.Mul(factor).Mul(oneHundred).Ceil().Div(oneHundred)
}

// CompareAtPrice formats the distributor retail price as the two-decimal
// compare-at value shown next to the computed price.
func CompareAtPrice(retail decimal.Decimal) string {
	return retail.StringFixed(2)
}
