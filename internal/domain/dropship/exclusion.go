package dropship

import "strings"

// ExclusionPolicy decides which distributor items are never listed on the
// storefront. The reserved suffix marks non-sellable accessory variants and
// is checked unconditionally; the line and class denylists exclude whole
// product categories.
type ExclusionPolicy struct {
	ReservedSuffix string
	Lines          map[string]struct{}
	Classes        map[string]struct{}
}

// DefaultExclusionPolicy returns the standing category policy: wellness and
// miscellaneous product lines plus the cosmetic, skincare and haircare class
// codes, with the "-A" accessory suffix.
func DefaultExclusionPolicy() ExclusionPolicy {
	lines := []string{"WELL", "MISC"}
	classes := []string{
		"FGDLDY", "FGDUNX", "FGDMEN", "FGDCHD",
		"MINLDY", "MINUNX", "MINMEN",
		"VLSLDY", "VLSUNX", "VLSMEN",
		"BDDLDY", "BTDLDY", "BDDUNX", "BTDUNX",
		"SHVDMN", "BDDMEN", "BTDMEN", "BTDCHD",
		"BDUODLDY", "DUODMEN",
		"STDLDY", "STDUNX", "STDMEN", "STDCHD",
		"MSDLDY", "MSDUNX", "MSDMEN",
		"DUOSKIN", "SETDSKIN", "SETDMAKE",
		"DDCHD", "SKIND", "SKINDMEN", "MAKED", "HAIRD", "HAIRDMEN",
	}
	return NewExclusionPolicy("-A", lines, classes)
}

// NewExclusionPolicy builds a policy from a suffix and denylist slices.
func NewExclusionPolicy(suffix string, lines, classes []string) ExclusionPolicy {
	p := ExclusionPolicy{
		ReservedSuffix: suffix,
		Lines:          make(map[string]struct{}, len(lines)),
		Classes:        make(map[string]struct{}, len(classes)),
	}
	for _, l := range lines {
		p.Lines[l] = struct{}{}
	}
	for _, c := range classes {
		p.Classes[c] = struct{}{}
	}
	return p
}

// ReservedVariant reports whether the item code carries the reserved
// non-sellable suffix. Applies regardless of classification.
func (p ExclusionPolicy) ReservedVariant(item string) bool {
	return p.ReservedSuffix != "" && strings.HasSuffix(item, p.ReservedSuffix)
}

// Excluded reports whether a distributor item must be skipped: reserved
// suffix first, then line/class denylist membership.
func (p ExclusionPolicy) Excluded(item, productLine, productClass string) bool {
	if p.ReservedVariant(item) {
		return true
	}
	if _, ok := p.Lines[productLine]; ok {
		return true
	}
	if _, ok := p.Classes[productClass]; ok {
		return true
	}
	return false
}
