package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLite implements Source over a Northwind-style SQLite database with
// customers, orders, order_details, products and suppliers tables.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens the database at path and verifies the connection.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: ping database: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle, mainly for test fixtures.
func (s *SQLite) DB() *sql.DB {
	return s.db
}

const customersQuery = `
SELECT
    c.customer_id,
    c.company_name,
    COUNT(o.order_id) AS total_orders,
    SUM(od.unit_price * od.quantity * (1 - od.discount)) AS total_spends,
    AVG(od.unit_price * od.quantity) AS avg_order_value
FROM customers c
INNER JOIN orders o ON c.customer_id = o.customer_id
INNER JOIN order_details od ON o.order_id = od.order_id
GROUP BY c.customer_id, c.company_name
HAVING COUNT(o.order_id) > 0
ORDER BY c.customer_id`

// Customers returns per-customer order aggregates, ordered by customer id.
func (s *SQLite) Customers(ctx context.Context) ([]Customer, error) {
	rows, err := s.db.QueryContext(ctx, customersQuery)
	if err != nil {
		return nil, fmt.Errorf("store: query customers: %w", err)
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.CompanyName, &c.TotalOrders, &c.TotalSpend, &c.AvgOrderValue); err != nil {
			return nil, fmt.Errorf("store: scan customer: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate customers: %w", err)
	}
	return out, nil
}

const productsQuery = `
SELECT
    p.product_id,
    p.product_name,
    AVG(od.unit_price) AS average_sale_price,
    SUM(od.quantity) AS total_quantity_sold,
    AVG(od.quantity) AS average_quantity_per_order,
    COUNT(DISTINCT o.customer_id) AS unique_customers
FROM products p
JOIN order_details od ON p.product_id = od.product_id
JOIN orders o ON od.order_id = o.order_id
GROUP BY p.product_id, p.product_name
ORDER BY p.product_id`

// Products returns per-product sales aggregates, ordered by product id.
func (s *SQLite) Products(ctx context.Context) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx, productsQuery)
	if err != nil {
		return nil, fmt.Errorf("store: query products: %w", err)
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.AvgSalePrice, &p.TotalQuantity, &p.AvgQuantity, &p.UniqueCustomers); err != nil {
			return nil, fmt.Errorf("store: scan product: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate products: %w", err)
	}
	return out, nil
}

const suppliersQuery = `
SELECT
    s.supplier_id,
    COUNT(p.product_id) AS supplied_products_count,
    SUM(od.quantity) AS total_sales_quantity,
    AVG(od.unit_price) AS average_sale_price,
    AVG(sub.customer_count) AS average_customer_count
FROM suppliers s
INNER JOIN products p ON p.supplier_id = s.supplier_id
INNER JOIN order_details od ON p.product_id = od.product_id
INNER JOIN orders o ON o.order_id = od.order_id
INNER JOIN (
    SELECT
        p.product_id,
        COUNT(o.customer_id) AS customer_count
    FROM products p
    INNER JOIN order_details od ON p.product_id = od.product_id
    INNER JOIN orders o ON od.order_id = o.order_id
    GROUP BY p.product_id
) sub ON p.product_id = sub.product_id
GROUP BY s.supplier_id
HAVING COUNT(p.product_id) > 0
ORDER BY s.supplier_id`

// Suppliers returns per-supplier sales aggregates, ordered by supplier id.
func (s *SQLite) Suppliers(ctx context.Context) ([]Supplier, error) {
	rows, err := s.db.QueryContext(ctx, suppliersQuery)
	if err != nil {
		return nil, fmt.Errorf("store: query suppliers: %w", err)
	}
	defer rows.Close()

	var out []Supplier
	for rows.Next() {
		var sp Supplier
		if err := rows.Scan(&sp.ID, &sp.ProductCount, &sp.TotalSalesQty, &sp.AvgSalePrice, &sp.AvgCustomerCount); err != nil {
			return nil, fmt.Errorf("store: scan supplier: %w", err)
		}
		out = append(out, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate suppliers: %w", err)
	}
	return out, nil
}

const countriesQuery = `
SELECT
    c.country,
    COUNT(o.order_id) AS total_orders,
    AVG(sub.order_amount) AS average_order_amount,
    AVG(sub.product_quantity) AS products_per_order
FROM customers c
JOIN orders o ON c.customer_id = o.customer_id
JOIN (
    SELECT
        od.order_id,
        SUM(od.unit_price * od.quantity) AS order_amount,
        SUM(od.quantity) AS product_quantity
    FROM order_details od
    GROUP BY od.order_id
) sub ON o.order_id = sub.order_id
GROUP BY c.country
HAVING COUNT(o.order_id) > 0
ORDER BY c.country`

// Countries returns per-country sales aggregates, ordered by country name.
func (s *SQLite) Countries(ctx context.Context) ([]Country, error) {
	rows, err := s.db.QueryContext(ctx, countriesQuery)
	if err != nil {
		return nil, fmt.Errorf("store: query countries: %w", err)
	}
	defer rows.Close()

	var out []Country
	for rows.Next() {
		var c Country
		if err := rows.Scan(&c.Name, &c.TotalOrders, &c.AvgOrderAmount, &c.ProductsPerOrder); err != nil {
			return nil, fmt.Errorf("store: scan country: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate countries: %w", err)
	}
	return out, nil
}
