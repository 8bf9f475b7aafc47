package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Variant is one of the fixed output formats a planner is sold in.
type Variant string

const (
	VariantStandard Variant = "standard"
	VariantADHD     Variant = "adhd"
	VariantDark     Variant = "dark"
	VariantADHDDark Variant = "adhd_dark"
	// VariantBundle is the all-formats zip of a single certification, and
	// also the all-formats form of a career path purchase.
	VariantBundle Variant = "bundle"
)

// ParseVariant validates a client-supplied variant label. Anything outside
// the fixed enumeration fails closed.
func ParseVariant(s string) (Variant, bool) {
	switch Variant(s) {
	case VariantStandard, VariantADHD, VariantDark, VariantADHDDark, VariantBundle:
		return Variant(s), true
	}
	return "", false
}

// MaxCartItems caps a checkout request to bound request size.
const MaxCartItems = 20

// CartItem is a client-supplied (productId, variant) pair. The product id may
// be a certification id or a cp:-prefixed career path id. Prices are never
// taken from the client.
type CartItem struct {
	ProductID string `json:"productId"`
	Variant   Variant `json:"variant"`
}

// String renders the compact id:variant form used in session metadata.
func (c CartItem) String() string {
	return c.ProductID + ":" + string(c.Variant)
}

var ErrBadItemEncoding = errors.New("domain: bad item encoding")

// EncodeItems renders cart items as the compact "id:variant,id:variant"
// string stored in the payment session's metadata. The raw (pre-expansion)
// cart is what gets stored; expansion happens at verify/fulfillment time.
func EncodeItems(items []CartItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, it.String())
	}
	return strings.Join(parts, ",")
}

// DecodeItems parses the compact metadata form back into cart items.
// Career path ids contain a colon themselves (cp:xxx:variant), so the variant
// is split off the last colon.
func DecodeItems(encoded string) ([]CartItem, error) {
	if strings.TrimSpace(encoded) == "" {
		return nil, ErrBadItemEncoding
	}

	var items []CartItem
	for _, part := range strings.Split(encoded, ",") {
		i := strings.LastIndex(part, ":")
		if i <= 0 || i == len(part)-1 {
			return nil, fmt.Errorf("%w: %q", ErrBadItemEncoding, part)
		}
		v, ok := ParseVariant(part[i+1:])
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrBadItemEncoding, part)
		}
		items = append(items, CartItem{ProductID: part[:i], Variant: v})
	}
	return items, nil
}

// PurchasedItem is one fulfillable unit after career path expansion. For
// items that came from a career path, CareerPathID/Name record the grouping
// for the fulfillment email.
type PurchasedItem struct {
	CertID         string
	Variant        Variant
	CareerPathID   string
	CareerPathName string
}

// ExpandItems expands raw cart items into per-certification purchased items.
// Career paths expand to one entry per constituent; plain items map 1:1.
// Unknown ids are skipped rather than failing fulfillment of the rest: the
// cart was validated at checkout, so a mismatch here means the catalog
// changed between purchase and verification.
func ExpandItems(raw []CartItem) []PurchasedItem {
	var out []PurchasedItem
	for _, it := range raw {
		if IsCareerPathID(it.ProductID) {
			cp, ok := CareerPaths[it.ProductID]
			if !ok {
				continue
			}
			for _, certID := range cp.Certs {
				out = append(out, PurchasedItem{
					CertID:         certID,
					Variant:        it.Variant,
					CareerPathID:   cp.ID,
					CareerPathName: cp.Name,
				})
			}
			continue
		}

		if _, ok := Products[it.ProductID]; !ok {
			continue
		}
		out = append(out, PurchasedItem{CertID: it.ProductID, Variant: it.Variant})
	}
	return out
}

// Filename derives the canonical download filename for a purchased item.
// The bundle variant is a zip of every format; the others are single PDFs
// with a variant suffix.
func (p PurchasedItem) Filename() string {
	if p.Variant == VariantBundle {
		return p.CertID + "_bundle.zip"
	}

	name := p.CertID + "_study_planner"
	switch p.Variant {
	case VariantADHD:
		name += "_adhd"
	case VariantDark:
		name += "_dark"
	case VariantADHDDark:
		name += "_adhd_dark"
	}
	return name + ".pdf"
}
