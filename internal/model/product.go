package model

import "fmt"

// ProductType is the advertising format an analysis runs against.
type ProductType string

const (
	// ProductTypeProducts is Sponsored Products.
	ProductTypeProducts ProductType = "products"
	// ProductTypeBrands is Sponsored Brands.
	ProductTypeBrands ProductType = "brands"
	// ProductTypeDisplay is Sponsored Display.
	ProductTypeDisplay ProductType = "display"
)

// ProductTypes lists every product type in tab order.
var ProductTypes = []ProductType{
	ProductTypeProducts,
	ProductTypeBrands,
	ProductTypeDisplay,
}

// ParseProductType validates a product type name.
func ParseProductType(s string) (ProductType, error) {
	for _, pt := range ProductTypes {
		if string(pt) == s {
			return pt, nil
		}
	}
	return "", fmt.Errorf("unknown product type %q (want products, brands or display)", s)
}

// Label returns the human-readable name of the product type.
func (p ProductType) Label() string {
	switch p {
	case ProductTypeProducts:
		return "Sponsored Products"
	case ProductTypeBrands:
		return "Sponsored Brands"
	case ProductTypeDisplay:
		return "Sponsored Display"
	default:
		return string(p)
	}
}

// SearchFileLabel names the first required upload.
func (p ProductType) SearchFileLabel() string {
	if p == ProductTypeDisplay {
		return "Matched Target File"
	}
	return "Search Terms File"
}

// TargetingFileLabel names the second required upload.
func (p ProductType) TargetingFileLabel() string {
	if p == ProductTypeDisplay {
		return "Targeting File"
	}
	return "Targeting File / Keyword File"
}

// TermField is the identifying field of a row for this product type.
func (p ProductType) TermField() string {
	if p == ProductTypeDisplay {
		return FieldMatchedTarget
	}
	return FieldSearchTerm
}

// SpendField is the cost field of a row for this product type.
func (p ProductType) SpendField() string {
	if p == ProductTypeDisplay {
		return FieldTotalAdvertiserCost
	}
	return FieldSpend
}

// FixedThreshold reports whether the positive-order threshold is pinned to 1.
func (p ProductType) FixedThreshold() bool {
	return p == ProductTypeDisplay
}

// ArtifactName is the file name used when saving the server-rendered export.
func (p ProductType) ArtifactName() string {
	return fmt.Sprintf("%s_Targeting_Results.xlsx", p)
}

// Column describes one rendered column of a result table.
type Column struct {
	Field   string
	Title   string
	Width   int
	Numeric bool
}

// Columns returns the table columns for the product type.
func (p ProductType) Columns() []Column {
	term := "Search Term"
	spend := "Spend"
	if p == ProductTypeDisplay {
		term = "Matched Target"
		spend = "Advertiser Cost"
	}
	return []Column{
		{Field: p.TermField(), Title: term, Width: 28},
		{Field: FieldCampaign, Title: "Campaign", Width: 20},
		{Field: FieldAdGroup, Title: "Ad Group", Width: 18},
		{Field: FieldMatchType, Title: "Match Type", Width: 10},
		{Field: FieldOrders, Title: "Orders", Width: 7, Numeric: true},
		{Field: FieldSales, Title: "Sales", Width: 9, Numeric: true},
		{Field: p.SpendField(), Title: spend, Width: 9, Numeric: true},
		{Field: FieldACOS, Title: "ACOS", Width: 7, Numeric: true},
		{Field: FieldImpressions, Title: "Impressions", Width: 11, Numeric: true},
		{Field: FieldClicks, Title: "Clicks", Width: 7, Numeric: true},
	}
}
