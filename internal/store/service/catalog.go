package service

import (
	"errors"

	"github.com/fixthevuln/backend/internal/store/domain"
)

var (
	ErrUnknownProduct = errors.New("unknown_product")
	ErrUnknownVariant = errors.New("unknown_variant")
)

// PricedItem is a server-derived line item: the only way user input becomes
// a price.
type PricedItem struct {
	Name       string
	UnitAmount int64 // minor currency units
}

// CatalogService maps client-supplied (productId, variant) pairs to
// authoritative prices and display names. It is the single trust boundary
// between the client's cart and money: every code path that prices anything
// must go through PriceLineItem, and anything outside the static catalog
// fails closed.
type CatalogService struct{}

// PriceLineItem returns the authoritative price and display name for a
// product or career path in the given variant.
func (s *CatalogService) PriceLineItem(productID string, variant domain.Variant) (PricedItem, error) {
	if _, ok := domain.ParseVariant(string(variant)); !ok {
		return PricedItem{}, ErrUnknownVariant
	}

	if domain.IsCareerPathID(productID) {
		return s.priceCareerPath(productID, variant)
	}

	p, ok := domain.Products[productID]
	if !ok {
		return PricedItem{}, ErrUnknownProduct
	}

	price, ok := domain.PlannerPrices[variant]
	if !ok {
		return PricedItem{}, ErrUnknownVariant
	}

	return PricedItem{
		Name:       p.Name + " Study Planner" + variantLabel(variant),
		UnitAmount: price,
	}, nil
}

// priceCareerPath prices a bundle by its constituent count: distinct tiers
// for one-format vs all-format purchases.
func (s *CatalogService) priceCareerPath(pathID string, variant domain.Variant) (PricedItem, error) {
	cp, ok := domain.CareerPaths[pathID]
	if !ok {
		return PricedItem{}, ErrUnknownProduct
	}

	tiers := domain.CareerPathSinglePrices
	if variant == domain.VariantBundle {
		tiers = domain.CareerPathBundlePrices
	}

	price, ok := tiers[len(cp.Certs)]
	if !ok {
		// A path whose size has no tier is a catalog defect; still fail
		// closed rather than guess.
		return PricedItem{}, ErrUnknownProduct
	}

	return PricedItem{
		Name:       cp.Name + variantLabel(variant),
		UnitAmount: price,
	}, nil
}

func variantLabel(v domain.Variant) string {
	switch v {
	case domain.VariantADHD:
		return " (ADHD-Friendly)"
	case domain.VariantDark:
		return " (Dark Mode)"
	case domain.VariantADHDDark:
		return " (ADHD-Friendly, Dark Mode)"
	case domain.VariantBundle:
		return " (All Formats)"
	default:
		return ""
	}
}
