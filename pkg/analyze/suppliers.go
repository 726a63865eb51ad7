package analyze

import (
	"strconv"

	"github.com/ekremc/gosegment/pkg/store"
)

// Supplier features: catalogue breadth, volume shipped, typical sale
// price, and average customer reach per supplied product.
var supplierFeatures = []string{
	"supplied_products_count",
	"total_sales_quantity",
	"average_sale_price",
	"average_customer_count",
}

const minSupplierRecords = 5

func extractSuppliers(recs []store.Supplier) (*dataset, error) {
	ds := newDataset(supplierFeatures, minSupplierRecords)
	for _, r := range recs {
		id := strconv.FormatInt(r.ID, 10)
		row, missing := nullRow(supplierFeatures, r.ProductCount, r.TotalSalesQty, r.AvgSalePrice, r.AvgCustomerCount)
		if missing != "" {
			ds.exclude(id, missing)
			continue
		}
		ds.add(id, "", row)
	}
	return ds.finish()
}
