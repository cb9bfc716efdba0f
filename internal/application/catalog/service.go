// Package catalog reconciles the distributor's live catalog into storefront
// listings: creating, updating, drafting and marking products sold out.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dropsync/backend/internal/domain/dropship"
)

// DefaultSweepThreshold is the minimum distributor catalog size for the
// sold-out sweep to run. A listing below it is treated as a suspect partial
// fetch; sweeping on one would zero stock for every SKU the fetch missed.
const DefaultSweepThreshold = 2000

// vendor recorded on listings created from the distributor feed.
const vendor = "Cosmopolitan"

// Service drives one catalog reconciliation run. It holds no state between
// runs; both SKU sets are rebuilt from the remote systems every time.
type Service struct {
	storefront     dropship.StorefrontGateway
	distributor    dropship.DistributorGateway
	logger         *zap.Logger
	markup         dropship.MarkupPolicy
	exclusion      dropship.ExclusionPolicy
	sweepThreshold int
}

// NewService creates a catalog reconciliation service. A non-positive sweep
// threshold falls back to the default.
func NewService(
	storefront dropship.StorefrontGateway,
	distributor dropship.DistributorGateway,
	logger *zap.Logger,
	markup dropship.MarkupPolicy,
	exclusion dropship.ExclusionPolicy,
	sweepThreshold int,
) *Service {
	if sweepThreshold <= 0 {
		sweepThreshold = DefaultSweepThreshold
	}
	return &Service{
		storefront:     storefront,
		distributor:    distributor,
		logger:         logger,
		markup:         markup,
		exclusion:      exclusion,
		sweepThreshold: sweepThreshold,
	}
}

// RunReport summarizes one catalog reconciliation run.
type RunReport struct {
	ID        string
	Processed int
	Created   int
	Updated   int
	Drafted   int
	SoldOut   int
	Skipped   int
}

// SyncCatalog reconciles every distributor item into the storefront, then
// runs the sold-out sweep when the distributor listing is large enough to be
// trusted as complete. Either initial full listing failing is fatal; no
// catalog work happens on a partial view.
func (s *Service) SyncCatalog(ctx context.Context) (*RunReport, error) {
	distProducts, err := s.distributor.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: distributor listing: %w", err)
	}
	sfProducts, err := s.storefront.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog: storefront listing: %w", err)
	}

	distSKUs := dropship.NewSKUSet()
	for _, p := range distProducts {
		distSKUs.Add(p.Item)
	}
	sfSKUs := dropship.NewSKUSet()
	for _, p := range sfProducts {
		for _, v := range p.Variants {
			sfSKUs.Add(v.SKU)
		}
	}

	report := &RunReport{ID: uuid.New().String()}
	s.logger.Info("Catalog reconciliation started",
		zap.String("run_id", report.ID),
		zap.Int("distributor_items", len(distProducts)),
		zap.Int("storefront_products", len(sfProducts)),
	)

	for _, item := range distProducts {
		report.Processed++
		if err := s.reconcileItem(ctx, item, distSKUs, sfSKUs, report); err != nil {
			s.logger.Error("Catalog item failed", zap.String("item", item.Item), zap.Error(err))
			report.Skipped++
		}
	}

	if len(distProducts) > s.sweepThreshold {
		s.sweepSoldOut(ctx, sfProducts, distSKUs, report)
	} else {
		s.logger.Info("Skipping sold-out sweep below threshold",
			zap.Int("distributor_items", len(distProducts)),
			zap.Int("threshold", s.sweepThreshold),
		)
	}

	s.logger.Info("Catalog reconciliation finished",
		zap.String("run_id", report.ID),
		zap.Int("processed", report.Processed),
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("drafted", report.Drafted),
		zap.Int("sold_out", report.SoldOut),
		zap.Int("skipped", report.Skipped),
	)
	return report, nil
}

// reconcileItem applies exactly one of update, draft, create or skip to one
// distributor item.
func (s *Service) reconcileItem(
	ctx context.Context,
	item dropship.DistributorProduct,
	distSKUs, sfSKUs dropship.SKUSet,
	report *RunReport,
) error {
	if s.exclusion.ReservedVariant(item.Item) {
		report.Skipped++
		return nil
	}

	detail, err := s.distributor.GetProductDetail(ctx, item.Item)
	if err != nil {
		return err
	}
	if detail == nil {
		s.logger.Warn("No detail for item, skipping", zap.String("item", item.Item))
		report.Skipped++
		return nil
	}
	if s.exclusion.Excluded(detail.Item, detail.ProductLine, detail.ProductClass) {
		report.Skipped++
		return nil
	}

	existing, err := s.storefront.FindVariantBySKU(ctx, detail.Item)
	if err != nil {
		return err
	}

	available := detail.Available
	if available < 0 {
		available = 0
	}

	switch {
	case existing != nil && stockDiffers(existing, available) && !existing.Archived():
		update := dropship.ProductUpdate{
			ProductID: existing.ID,
			Variant:   s.newVariant(detail, available),
		}
		if err := s.storefront.UpdateProduct(ctx, update); err != nil {
			return err
		}
		report.Updated++

	case !distSKUs.Has(detail.Item):
		// Stale-listing guard: an item that vanished from the active set
		// between the listing and the detail fetch is drafted, not updated.
		if existing == nil {
			report.Skipped++
			return nil
		}
		if err := s.storefront.SetProductStatus(ctx, existing.ID, dropship.ProductStatusDraft); err != nil {
			return err
		}
		report.Drafted++

	case !sfSKUs.Has(detail.Item):
		listing := s.newListing(detail, available)
		if err := s.storefront.CreateProduct(ctx, listing); err != nil {
			return err
		}
		report.Created++

	default:
		report.Skipped++
	}
	return nil
}

// sweepSoldOut zeroes the stock of every in-stock storefront product whose
// SKU the distributor no longer carries, preserving the other variant fields.
func (s *Service) sweepSoldOut(
	ctx context.Context,
	sfProducts []dropship.StorefrontProduct,
	distSKUs dropship.SKUSet,
	report *RunReport,
) {
	for _, product := range sfProducts {
		variant, ok := product.PrimaryVariant()
		if !ok || variant.InventoryQuantity <= 0 || distSKUs.Has(variant.SKU) {
			continue
		}

		variant.InventoryQuantity = 0
		update := dropship.ProductUpdate{ProductID: product.ID, Variant: variant}
		if err := s.storefront.UpdateProduct(ctx, update); err != nil {
			s.logger.Error("Sold-out sweep update failed",
				zap.Int64("product_id", product.ID),
				zap.String("sku", variant.SKU),
				zap.Error(err),
			)
			continue
		}
		s.logger.Info("Marked product sold out",
			zap.Int64("product_id", product.ID),
			zap.String("sku", variant.SKU),
		)
		report.SoldOut++
	}
}

func stockDiffers(product *dropship.StorefrontProduct, available int) bool {
	variant, ok := product.PrimaryVariant()
	if !ok {
		return false
	}
	return variant.InventoryQuantity != available
}

// newVariant builds the variant fields pushed on both create and update.
// Price is recomputed from the live net cost on every push.
func (s *Service) newVariant(detail *dropship.DistributorProduct, available int) dropship.Variant {
	return dropship.Variant{
		SKU:               detail.Item,
		Price:             s.markup.Price(detail.Net),
		CompareAtPrice:    detail.Retail,
		InventoryQuantity: available,
		Barcode:           detail.UPC,
		Weight:            detail.Weight,
	}
}

// newListing builds the full descriptive content for a new listing.
func (s *Service) newListing(detail *dropship.DistributorProduct, available int) dropship.ProductListing {
	var body strings.Builder
	body.WriteString("<strong>Description:</strong> " + detail.Desc)
	if detail.Desc2 != "" {
		body.WriteString("\n" + detail.Desc2)
	}
	if detail.Desc3 != "" {
		body.WriteString("\n" + detail.Desc3)
	}
	body.WriteString("<br>\n<strong>UPC:</strong> " + detail.UPC)
	body.WriteString("<br>\n<strong>Size:</strong> " + detail.Size)
	body.WriteString("<br>\n<strong>Designer:</strong> " + detail.Designer)
	body.WriteString("<br>\n<strong>Fragrance:</strong> " + detail.Fragrance)

	return dropship.ProductListing{
		Title:       detail.Desc,
		BodyHTML:    body.String(),
		Vendor:      vendor,
		ProductType: detail.Product,
		Tags:        listingTags(detail),
		ImageURL:    detail.ImageURL,
		Variant:     s.newVariant(detail, available),
	}
}

func listingTags(detail *dropship.DistributorProduct) []string {
	tags := make([]string, 0, 4)
	if detail.ProductLine != "" {
		tags = append(tags, "ProductLine_"+detail.ProductLine)
	} else {
		tags = append(tags, "Unclassified")
	}
	if detail.ProductClass != "" {
		tags = append(tags, "ProductClass_"+detail.ProductClass)
	} else {
		tags = append(tags, "Unclassified")
	}
	tags = append(tags, "Designer_"+detail.Designer)
	if detail.Fragrance != "" {
		tags = append(tags, "Fragrance_"+detail.Fragrance)
	} else {
		tags = append(tags, "No Fragrance")
	}
	return tags
}
