// Package store provides read access to the transactional database that
// the clustering analyses run over.
package store

import (
	"context"
	"database/sql"
)

// Customer aggregates one customer's ordering behavior. Aggregate fields
// are nullable because a JOIN can legitimately produce no rows to fold.
type Customer struct {
	ID            string
	CompanyName   string
	TotalOrders   sql.NullFloat64
	TotalSpend    sql.NullFloat64
	AvgOrderValue sql.NullFloat64
}

// Product aggregates one product's sales performance.
type Product struct {
	ID              int64
	Name            string
	AvgSalePrice    sql.NullFloat64
	TotalQuantity   sql.NullFloat64
	AvgQuantity     sql.NullFloat64
	UniqueCustomers sql.NullFloat64
}

// Supplier aggregates one supplier's delivery footprint.
type Supplier struct {
	ID               int64
	ProductCount     sql.NullFloat64
	TotalSalesQty    sql.NullFloat64
	AvgSalePrice     sql.NullFloat64
	AvgCustomerCount sql.NullFloat64
}

// Country aggregates sales activity per customer country.
type Country struct {
	Name             string
	TotalOrders      sql.NullFloat64
	AvgOrderAmount   sql.NullFloat64
	ProductsPerOrder sql.NullFloat64
}

// Source produces, for each analysis domain, an ordered sequence of
// records. Row order is stable across calls on an unchanged database;
// clustering results depend on it.
type Source interface {
	Customers(ctx context.Context) ([]Customer, error)
	Products(ctx context.Context) ([]Product, error)
	Suppliers(ctx context.Context) ([]Supplier, error)
	Countries(ctx context.Context) ([]Country, error)

	// Close releases the underlying connection.
	Close() error
}
