// Package summary derives the vendor sales-and-purchasing summary from the
// ingested base tables: one aggregation query, an enrichment pass computing
// the derived ratios, and sinks that persist the result.
package summary

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"vendoretl/internal/errs"
	"vendoretl/internal/storage"
)

// Base tables read by the query.
const (
	TablePurchases      = "purchases"
	TablePurchasePrices = "purchase_prices"
	TableSales          = "sales"
	TableVendorInvoice  = "vendor_invoice"
)

// QueryColumns is the column order of the aggregation result.
var QueryColumns = []string{
	"VendorNumber",
	"VendorName",
	"Brand",
	"Description",
	"PurchasePrice",
	"ActualPrice",
	"Volume",
	"TotalPurchaseQuantity",
	"TotalPurchaseDollars",
	"TotalSalesQuantity",
	"TotalSalesDollars",
	"TotalSalesPrice",
	"TotalExciseTax",
	"FreightCost",
}

// RawRow is one row of the aggregation before enrichment. Brand is an opaque
// product key and is carried as text whatever its column type. Pointer fields are
// nil where the store returned NULL, which is the case for every sales field
// without a matching sales group and for FreightCost without freight records.
type RawRow struct {
	VendorNumber  *int64
	VendorName    *string
	Brand         *string
	Description   *string
	PurchasePrice *float64
	ActualPrice   *float64
	// Volume is kept as returned; it may arrive as text.
	Volume any

	TotalPurchaseQuantity *float64
	TotalPurchaseDollars  *float64
	TotalSalesQuantity    *float64
	TotalSalesDollars     *float64
	TotalSalesPrice       *float64
	TotalExciseTax        *float64
	FreightCost           *float64
}

// BuildQuery renders the aggregation with identifiers quoted by quote.
//
// Three groupings are built independently: freight per vendor, purchases per
// vendor/brand/price joined to the price list (only positive purchase prices),
// and sales per vendor/brand. Purchases drive the result; sales and freight
// are left-joined. Rows are ordered by purchase dollars, largest first, with
// vendor, brand, price and description as tie-breaks.
func BuildQuery(quote func(string) string) string {
	q := quote
	col := func(alias, name string) string { return alias + "." + q(name) }

	purchaseKeys := []string{
		col("p", "VendorNumber"),
		col("p", "VendorName"),
		col("p", "Brand"),
		col("p", "Description"),
		col("p", "PurchasePrice"),
		col("pp", "Price"),
		col("pp", "Volume"),
	}

	var b strings.Builder
	fmt.Fprintf(&b, "WITH %s AS (\n", q("FreightSummary"))
	fmt.Fprintf(&b, "    SELECT %s, SUM(%s) AS %s\n", q("VendorNumber"), q("Freight"), q("FreightCost"))
	fmt.Fprintf(&b, "    FROM %s\n", q(TableVendorInvoice))
	fmt.Fprintf(&b, "    GROUP BY %s\n", q("VendorNumber"))
	fmt.Fprintf(&b, "),\n%s AS (\n", q("PurchaseSummary"))
	fmt.Fprintf(&b, "    SELECT %s, %s, %s, %s, %s,\n", purchaseKeys[0], purchaseKeys[1], purchaseKeys[2], purchaseKeys[3], purchaseKeys[4])
	fmt.Fprintf(&b, "        %s AS %s, %s,\n", purchaseKeys[5], q("ActualPrice"), purchaseKeys[6])
	fmt.Fprintf(&b, "        SUM(%s) AS %s,\n", col("p", "Quantity"), q("TotalPurchaseQuantity"))
	fmt.Fprintf(&b, "        SUM(%s) AS %s\n", col("p", "Dollars"), q("TotalPurchaseDollars"))
	fmt.Fprintf(&b, "    FROM %s AS p\n", q(TablePurchases))
	fmt.Fprintf(&b, "    JOIN %s AS pp ON %s = %s\n", q(TablePurchasePrices), col("p", "Brand"), col("pp", "Brand"))
	fmt.Fprintf(&b, "    WHERE %s > 0\n", col("p", "PurchasePrice"))
	fmt.Fprintf(&b, "    GROUP BY %s\n", strings.Join(purchaseKeys, ", "))
	fmt.Fprintf(&b, "),\n%s AS (\n", q("SalesSummary"))
	fmt.Fprintf(&b, "    SELECT %s, %s,\n", q("VendorNo"), q("Brand"))
	fmt.Fprintf(&b, "        SUM(%s) AS %s,\n", q("SalesQuantity"), q("TotalSalesQuantity"))
	fmt.Fprintf(&b, "        SUM(%s) AS %s,\n", q("SalesDollars"), q("TotalSalesDollars"))
	fmt.Fprintf(&b, "        SUM(%s) AS %s,\n", q("SalesPrice"), q("TotalSalesPrice"))
	fmt.Fprintf(&b, "        SUM(%s) AS %s\n", q("ExciseTax"), q("TotalExciseTax"))
	fmt.Fprintf(&b, "    FROM %s\n", q(TableSales))
	fmt.Fprintf(&b, "    GROUP BY %s, %s\n", q("VendorNo"), q("Brand"))
	b.WriteString(")\nSELECT\n")

	selects := make([]string, 0, len(QueryColumns))
	for _, c := range QueryColumns {
		switch c {
		case "TotalSalesQuantity", "TotalSalesDollars", "TotalSalesPrice", "TotalExciseTax":
			selects = append(selects, col("ss", c))
		case "FreightCost":
			selects = append(selects, col("fs", c))
		default:
			selects = append(selects, col("ps", c))
		}
	}
	fmt.Fprintf(&b, "    %s\n", strings.Join(selects, ",\n    "))
	fmt.Fprintf(&b, "FROM %s AS ps\n", q("PurchaseSummary"))
	fmt.Fprintf(&b, "LEFT JOIN %s AS ss\n    ON %s = %s AND %s = %s\n", q("SalesSummary"),
		col("ps", "VendorNumber"), col("ss", "VendorNo"), col("ps", "Brand"), col("ss", "Brand"))
	fmt.Fprintf(&b, "LEFT JOIN %s AS fs\n    ON %s = %s\n", q("FreightSummary"),
		col("ps", "VendorNumber"), col("fs", "VendorNumber"))
	fmt.Fprintf(&b, "ORDER BY %s DESC, %s, %s, %s, %s",
		col("ps", "TotalPurchaseDollars"), col("ps", "VendorNumber"), col("ps", "Brand"),
		col("ps", "PurchasePrice"), col("ps", "Description"))
	return b.String()
}

// Query runs the aggregation against repo. It only reads.
func Query(ctx context.Context, repo storage.Repository) ([]RawRow, error) {
	rs, err := repo.Query(ctx, BuildQuery(repo.QuoteIdent))
	if err != nil {
		return nil, errs.Wrap(errs.KindQuery, err, "vendor summary")
	}
	rows, err := scanRows(rs)
	if err != nil {
		return nil, errs.Wrap(errs.KindQuery, err, "vendor summary")
	}
	return rows, nil
}

func scanRows(rs *storage.ResultSet) ([]RawRow, error) {
	idx := make(map[string]int, len(QueryColumns))
	for _, c := range QueryColumns {
		i := rs.Index(c)
		if i < 0 {
			return nil, fmt.Errorf("result has no column %q", c)
		}
		idx[c] = i
	}

	out := make([]RawRow, 0, rs.Len())
	for n, rec := range rs.Rows {
		var (
			r   RawRow
			err error
		)
		get := func(c string) any { return rec[idx[c]] }
		num := func(c string) *float64 {
			if err != nil {
				return nil
			}
			var v *float64
			v, err = nullFloat(get(c))
			if err != nil {
				err = fmt.Errorf("row %d %s: %w", n+1, c, err)
			}
			return v
		}
		integer := func(c string) *int64 {
			if err != nil {
				return nil
			}
			var v *int64
			v, err = nullInt(get(c))
			if err != nil {
				err = fmt.Errorf("row %d %s: %w", n+1, c, err)
			}
			return v
		}

		r.VendorNumber = integer("VendorNumber")
		r.VendorName = nullString(get("VendorName"))
		r.Brand = nullString(get("Brand"))
		r.Description = nullString(get("Description"))
		r.PurchasePrice = num("PurchasePrice")
		r.ActualPrice = num("ActualPrice")
		r.Volume = get("Volume")
		r.TotalPurchaseQuantity = num("TotalPurchaseQuantity")
		r.TotalPurchaseDollars = num("TotalPurchaseDollars")
		r.TotalSalesQuantity = num("TotalSalesQuantity")
		r.TotalSalesDollars = num("TotalSalesDollars")
		r.TotalSalesPrice = num("TotalSalesPrice")
		r.TotalExciseTax = num("TotalExciseTax")
		r.FreightCost = num("FreightCost")
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func nullFloat(v any) (*float64, error) {
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
		p, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil, fmt.Errorf("not numeric: %q", x)
		}
		f = p
	default:
		return nil, fmt.Errorf("unexpected type %T", v)
	}
	return &f, nil
}

func nullInt(v any) (*int64, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case int64:
		return &x, nil
	case int:
		n := int64(x)
		return &n, nil
	case float64:
		if x != math.Trunc(x) {
			return nil, fmt.Errorf("not an integer: %v", x)
		}
		n := int64(x)
		return &n, nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("not an integer: %q", x)
		}
		return &n, nil
	default:
		return nil, fmt.Errorf("unexpected type %T", v)
	}
}

func nullString(v any) *string {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		return &x
	default:
		s := fmt.Sprint(x)
		return &s
	}
}
