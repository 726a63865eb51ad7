package analyze

import (
	"strconv"

	"github.com/ekremc/gosegment/pkg/store"
)

// Product features: typical sale price, overall and per-order quantity,
// and the breadth of the customer base buying the product.
var productFeatures = []string{
	"average_sale_price",
	"total_quantity_sold",
	"average_quantity_per_order",
	"unique_customers",
}

const minProductRecords = 5

func extractProducts(recs []store.Product) (*dataset, error) {
	ds := newDataset(productFeatures, minProductRecords)
	for _, r := range recs {
		id := strconv.FormatInt(r.ID, 10)
		row, missing := nullRow(productFeatures, r.AvgSalePrice, r.TotalQuantity, r.AvgQuantity, r.UniqueCustomers)
		if missing != "" {
			ds.exclude(id, missing)
			continue
		}
		ds.add(id, r.Name, row)
	}
	return ds.finish()
}
