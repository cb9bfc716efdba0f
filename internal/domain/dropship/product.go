package dropship

import "github.com/shopspring/decimal"

// ---------------------------------------------------------------------------
// Distributor catalog model
// ---------------------------------------------------------------------------

// DistributorProduct is one item of the distributor's live inventory feed.
// The Item code is the SKU used to join against storefront variants.
type DistributorProduct struct {
	Item         string
	Desc         string
	Desc2        string
	Desc3        string
	UPC          string
	Size         string
	Designer     string
	Fragrance    string
	Product      string
	ProductLine  string
	ProductClass string
	Weight       decimal.Decimal
	Net          decimal.Decimal
	Retail       decimal.Decimal
	Available    int
	ImageURL     string
}

// ---------------------------------------------------------------------------
// Storefront catalog model
// ---------------------------------------------------------------------------

// Storefront product lifecycle statuses.
const (
	ProductStatusActive   = "active"
	ProductStatusDraft    = "draft"
	ProductStatusArchived = "archived"
)

// Variant is one sellable variant of a storefront product.
type Variant struct {
	SKU               string
	Price             decimal.Decimal
	CompareAtPrice    decimal.Decimal
	InventoryQuantity int
	Barcode           string
	Weight            decimal.Decimal
}

// StorefrontProduct is a storefront listing with its variants.
type StorefrontProduct struct {
	ID       int64
	Status   string
	Variants []Variant
}

// Archived returns true if the listing is archived; archived listings are
// never updated by reconciliation.
func (p *StorefrontProduct) Archived() bool {
	return p.Status == ProductStatusArchived
}

// PrimaryVariant returns the first variant, which carries the listing's SKU
// and stock for single-variant dropship listings.
func (p *StorefrontProduct) PrimaryVariant() (Variant, bool) {
	if len(p.Variants) == 0 {
		return Variant{}, false
	}
	return p.Variants[0], true
}

// ProductListing is the full descriptive content used when creating a new
// storefront listing from a distributor item.
type ProductListing struct {
	Title       string
	BodyHTML    string
	Vendor      string
	ProductType string
	Tags        []string
	ImageURL    string
	Variant     Variant
}

// ProductUpdate carries the variant-only fields pushed to an existing
// listing. Title, description and tags are left untouched on update.
type ProductUpdate struct {
	ProductID int64
	Variant   Variant
}

// ---------------------------------------------------------------------------
// SKU sets
// ---------------------------------------------------------------------------

// SKUSet is a set of SKU codes, rebuilt fresh on every run and never
// persisted.
type SKUSet map[string]struct{}

// NewSKUSet builds a set from the given codes, skipping empties.
func NewSKUSet(codes ...string) SKUSet {
	s := make(SKUSet, len(codes))
	for _, c := range codes {
		if c != "" {
			s[c] = struct{}{}
		}
	}
	return s
}

// Add inserts a code unless it is empty.
func (s SKUSet) Add(code string) {
	if code != "" {
		s[code] = struct{}{}
	}
}

// Has reports membership.
func (s SKUSet) Has(code string) bool {
	_, ok := s[code]
	return ok
}
