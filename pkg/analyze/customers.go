package analyze

import "github.com/ekremc/gosegment/pkg/store"

// Customer features: how often a customer buys, how much they have spent
// in total, and how large a typical order is.
var customerFeatures = []string{"total_orders", "total_spends", "avg_order_value"}

// minCustomerRecords is the smallest customer set worth clustering.
const minCustomerRecords = 5

func extractCustomers(recs []store.Customer) (*dataset, error) {
	ds := newDataset(customerFeatures, minCustomerRecords)
	for _, r := range recs {
		row, missing := nullRow(customerFeatures, r.TotalOrders, r.TotalSpend, r.AvgOrderValue)
		if missing != "" {
			ds.exclude(r.ID, missing)
			continue
		}
		ds.add(r.ID, r.CompanyName, row)
	}
	return ds.finish()
}
