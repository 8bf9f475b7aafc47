package domain

// Prices are integer minor currency units (USD cents). All pricing is derived
// server-side from these tables; nothing the client sends is ever priced.

// PlannerPrices maps a single-certification variant to its unit price.
var PlannerPrices = map[Variant]int64{
	VariantStandard: 999,
	VariantADHD:     999,
	VariantDark:     999,
	VariantADHDDark: 1299,
	VariantBundle:   1699, // all four formats zipped
}

// CareerPathSinglePrices maps a career path's constituent count to the price
// of the path in one format.
var CareerPathSinglePrices = map[int]int64{
	2: 1699,
	3: 2299,
	4: 2799,
	5: 3299,
}

// CareerPathBundlePrices maps a career path's constituent count to the price
// of the path with every format included.
var CareerPathBundlePrices = map[int]int64{
	2: 2799,
	3: 3799,
	4: 4699,
	5: 5499,
}
