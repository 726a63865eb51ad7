package analyze

import "github.com/ekremc/gosegment/pkg/store"

// Country features: order volume, average basket value and average
// quantity of products per order for each customer country.
var countryFeatures = []string{"total_orders", "average_order_amount", "products_per_order"}

const minCountryRecords = 5

func extractCountries(recs []store.Country) (*dataset, error) {
	ds := newDataset(countryFeatures, minCountryRecords)
	for _, r := range recs {
		row, missing := nullRow(countryFeatures, r.TotalOrders, r.AvgOrderAmount, r.ProductsPerOrder)
		if missing != "" {
			ds.exclude(r.Name, missing)
			continue
		}
		ds.add(r.Name, "", row)
	}
	return ds.finish()
}
