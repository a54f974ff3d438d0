package summary

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"vendoretl/internal/schema"
	"vendoretl/internal/storage"
	"vendoretl/internal/storage/sqlite"
)

func newRepo(t *testing.T) storage.Repository {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "inventory.db")
	r, closeFn, err := sqlite.NewRepository(context.Background(), sqlite.Config{DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(closeFn)
	return r
}

func seed(t *testing.T, repo storage.Repository, table string, cols []schema.Column, rows [][]any) {
	t.Helper()
	_, err := storage.LoadChunks(context.Background(), repo, table, storage.NewSliceSource(cols, rows, 2),
		storage.LoadOptions{NominalChunkSize: 2, WriteBatchSize: 2})
	require.NoError(t, err)
}

func col(name string, kind schema.Kind) schema.Column { return schema.Column{Name: name, Kind: kind} }

// seedInventory loads a small dataset:
//
//	vendor 400 brand V: 300 purchase dollars, sold
//	vendor 100 brand X: 50 purchase dollars over two rows, never sold, 2.00 freight
//	vendor 200 brand Y: 50 purchase dollars, sold over two rows, no freight
//	vendor 300 brands Z and W: zero and negative purchase price, with sales and freight
//	vendor 500 brand U: no price list entry
func seedInventory(t *testing.T, repo storage.Repository) {
	t.Helper()
	const (
		I = schema.KindInteger
		R = schema.KindReal
		T = schema.KindText
	)
	seed(t, repo, TablePurchases, []schema.Column{
		col("VendorNumber", I), col("VendorName", T), col("Brand", T), col("Description", T),
		col("PurchasePrice", R), col("Quantity", I), col("Dollars", R),
	}, [][]any{
		{int64(100), "ACME SPIRITS   ", "X", "Vodka", 5.0, int64(4), 20.0},
		{int64(100), "ACME SPIRITS   ", "X", "Vodka", 5.0, int64(6), 30.0},
		{int64(200), "GLOBEX", "Y", "Gin", 10.0, int64(5), 50.0},
		{int64(300), "INITECH", "Z", "Rum", 0.0, int64(9), 0.0},
		{int64(300), "INITECH", "W", "Rye", -1.0, int64(9), -9.0},
		{int64(400), "HOOLI", "V", "Wine", 3.0, int64(100), 300.0},
		{int64(500), "UMBRELLA", "U", "Mead", 2.0, int64(1), 2.0},
	})
	seed(t, repo, TablePurchasePrices, []schema.Column{
		col("Brand", T), col("Price", R), col("Volume", T),
	}, [][]any{
		{"X", 7.99, "750"},
		{"Y", 15.0, "1,000"},
		{"Z", 4.0, "750"},
		{"W", 4.0, "750"},
		{"V", 6.0, nil},
	})
	seed(t, repo, TableSales, []schema.Column{
		col("VendorNo", I), col("Brand", T), col("SalesQuantity", I),
		col("SalesDollars", R), col("SalesPrice", R), col("ExciseTax", R),
	}, [][]any{
		{int64(200), "Y", int64(1), 15.0, 15.0, 0.5},
		{int64(200), "Y", int64(2), 30.0, 15.0, 1.0},
		{int64(300), "Z", int64(5), 25.0, 5.0, 0.1},
		{int64(400), "V", int64(50), 450.0, 9.0, 2.0},
	})
	seed(t, repo, TableVendorInvoice, []schema.Column{
		col("VendorNumber", I), col("Freight", R),
	}, [][]any{
		{int64(100), 1.5},
		{int64(100), 0.5},
		{int64(300), 8.0},
		{int64(400), 12.0},
	})
}
