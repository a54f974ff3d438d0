package summary

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"vendoretl/internal/errs"
	"vendoretl/internal/schema"
)

// Columns is the column set of an enriched row, in output order.
var Columns = append(append([]string{}, QueryColumns...),
	"GrossProfit",
	"ProfitMargin",
	"StockTurnover",
	"SalesToPurchaseRatio",
)

// missingText is what a NULL text field becomes once missing values are
// filled with zero.
const missingText = "0"

// Row is a finalized summary row. Every numeric field is finite.
type Row struct {
	VendorNumber  int64
	VendorName    string
	Brand         string
	Description   string
	PurchasePrice float64
	ActualPrice   float64
	Volume        float64

	TotalPurchaseQuantity float64
	TotalPurchaseDollars  float64
	TotalSalesQuantity    float64
	TotalSalesDollars     float64
	TotalSalesPrice       float64
	TotalExciseTax        float64
	FreightCost           float64

	GrossProfit          float64
	ProfitMargin         float64
	StockTurnover        float64
	SalesToPurchaseRatio float64
}

// Values returns the row's fields in Columns order.
func (r Row) Values() []any {
	return []any{
		r.VendorNumber, r.VendorName, r.Brand, r.Description,
		r.PurchasePrice, r.ActualPrice, r.Volume,
		r.TotalPurchaseQuantity, r.TotalPurchaseDollars,
		r.TotalSalesQuantity, r.TotalSalesDollars, r.TotalSalesPrice, r.TotalExciseTax,
		r.FreightCost,
		r.GrossProfit, r.ProfitMargin, r.StockTurnover, r.SalesToPurchaseRatio,
	}
}

// Schema returns the typed column set of an enriched row.
func Schema() []schema.Column {
	cols := make([]schema.Column, len(Columns))
	for i, name := range Columns {
		kind := schema.KindReal
		switch name {
		case "VendorNumber":
			kind = schema.KindInteger
		case "VendorName", "Brand", "Description":
			kind = schema.KindText
		}
		cols[i] = schema.Column{Name: name, Kind: kind}
	}
	return cols
}

// Enrich turns query rows into finalized summary rows. The input is not
// modified and the output has the same length. Steps run in a fixed order:
//
//  1. Volume is coerced to float.
//  2. Missing values become zero.
//  3. VendorName and Description are trimmed.
//  4. GrossProfit = TotalSalesDollars - TotalPurchaseDollars.
//  5. ProfitMargin = GrossProfit / TotalSalesDollars * 100.
//  6. StockTurnover = TotalSalesQuantity / TotalPurchaseQuantity.
//  7. SalesToPurchaseRatio = TotalSalesDollars / TotalPurchaseDollars.
//  8. Infinite ratios become zero.
//  9. Undefined (NaN) ratios become zero.
//
// Only an unparseable Volume is an error (KindData).
func Enrich(in []RawRow) ([]Row, error) {
	out := make([]Row, len(in))
	for i, raw := range in {
		vol, err := coerceVolume(raw.Volume)
		if err != nil {
			return nil, errs.Wrap(errs.KindData, err, fmt.Sprintf("row %d: Volume", i+1))
		}

		r := Row{
			VendorNumber:          intOrZero(raw.VendorNumber),
			VendorName:            strings.TrimSpace(textOrZero(raw.VendorName)),
			Brand:                 textOrZero(raw.Brand),
			Description:           strings.TrimSpace(textOrZero(raw.Description)),
			PurchasePrice:         floatOrZero(raw.PurchasePrice),
			ActualPrice:           floatOrZero(raw.ActualPrice),
			Volume:                floatOrZero(vol),
			TotalPurchaseQuantity: floatOrZero(raw.TotalPurchaseQuantity),
			TotalPurchaseDollars:  floatOrZero(raw.TotalPurchaseDollars),
			TotalSalesQuantity:    floatOrZero(raw.TotalSalesQuantity),
			TotalSalesDollars:     floatOrZero(raw.TotalSalesDollars),
			TotalSalesPrice:       floatOrZero(raw.TotalSalesPrice),
			TotalExciseTax:        floatOrZero(raw.TotalExciseTax),
			FreightCost:           floatOrZero(raw.FreightCost),
		}

		r.GrossProfit = grossProfit(r.TotalSalesDollars, r.TotalPurchaseDollars)
		r.ProfitMargin = finite(divide(r.GrossProfit, r.TotalSalesDollars) * 100)
		r.StockTurnover = finite(divide(r.TotalSalesQuantity, r.TotalPurchaseQuantity))
		r.SalesToPurchaseRatio = finite(divide(r.TotalSalesDollars, r.TotalPurchaseDollars))
		r.GrossProfit = finite(r.GrossProfit)
		out[i] = r
	}
	return out, nil
}

// grossProfit subtracts in decimal so cent amounts do not pick up binary
// rounding noise.
func grossProfit(sales, purchases float64) float64 {
	if !isFinite(sales) || !isFinite(purchases) {
		return sales - purchases
	}
	f, _ := decimal.NewFromFloat(sales).Sub(decimal.NewFromFloat(purchases)).Float64()
	return f
}

// divide follows IEEE semantics: x/0 is ±Inf and 0/0 is NaN.
func divide(num, den float64) float64 {
	return num / den
}

func finite(f float64) float64 {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return f
}

func isFinite(f float64) bool { return !math.IsInf(f, 0) && !math.IsNaN(f) }

// coerceVolume converts a Volume cell to a float. nil and missing markers stay
// missing; text may carry surrounding space and thousands separators.
func coerceVolume(v any) (*float64, error) {
	var f float64
	switch x := v.(type) {
	case nil:
		return nil, nil
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int64:
		f = float64(x)
	case int:
		f = float64(x)
	case string:
		s := strings.TrimSpace(x)
		if schema.IsMissing(s) {
			return nil, nil
		}
		p, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
		if err != nil {
			return nil, fmt.Errorf("cannot convert %q to float", x)
		}
		f = p
	default:
		return nil, fmt.Errorf("cannot convert %T to float", v)
	}
	if math.IsNaN(f) {
		return nil, nil
	}
	return &f, nil
}

func floatOrZero(p *float64) float64 {
	if p == nil || math.IsNaN(*p) {
		return 0
	}
	return *p
}

func intOrZero(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

func textOrZero(p *string) string {
	if p == nil {
		return missingText
	}
	return *p
}
