package model

// Row field keys as sent by the classification service.
const (
	FieldSearchTerm          = "customer search term"
	FieldMatchedTarget       = "matched target"
	FieldCampaign            = "campaign name"
	FieldAdGroup             = "ad group name"
	FieldMatchType           = "match type"
	FieldOrders              = "14 day total orders (#)"
	FieldSales               = "14 day total sales"
	FieldSpend               = "spend"
	FieldTotalAdvertiserCost = "total advertiser cost"
	FieldACOS                = "acos"
	FieldImpressions         = "impressions"
	FieldClicks              = "clicks"
)

// Row is one classified keyword: a mapping from field name to value.
// Rows are treated as immutable once decoded.
type Row map[string]Value

// Get returns the value stored under field, or null when the field is absent.
func (r Row) Get(field string) Value {
	if r == nil {
		return Null()
	}
	return r[field]
}

// ACOS returns the row's advertising cost of sale and whether it was computed.
func (r Row) ACOS() (float64, bool) {
	return r.Get(FieldACOS).Float()
}
