// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package store

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const seedDDL = `
CREATE TABLE IF NOT EXISTS customers (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	city TEXT NOT NULL,
	signup_date DATE NOT NULL
);
CREATE TABLE IF NOT EXISTS products (
	id VARCHAR(32) PRIMARY KEY,
	name TEXT NOT NULL,
	category TEXT NOT NULL,
	price DECIMAL NOT NULL,
	stock INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS orders (
	id INTEGER PRIMARY KEY,
	customer_id INTEGER NOT NULL REFERENCES customers(id),
	product_id VARCHAR(32) NOT NULL REFERENCES products(id),
	quantity INTEGER NOT NULL,
	order_date DATE NOT NULL,
	total DECIMAL NOT NULL
);
CREATE TABLE IF NOT EXISTS sales (
	id INTEGER PRIMARY KEY,
	order_id INTEGER NOT NULL REFERENCES orders(id),
	revenue DECIMAL NOT NULL,
	profit_margin DECIMAL NOT NULL,
	sales_date DATE NOT NULL
);`

type seedCustomer struct {
	name, email, city, signup string
}

type seedProduct struct {
	id, name, category string
	price              float64
	stock              int
}

var seedCustomers = []seedCustomer{
	{"Alice Hartmann", "alice@example.com", "Berlin", "2024-01-15"},
	{"Bruno Costa", "bruno@example.com", "Lisbon", "2024-02-03"},
	{"Chen Wei", "chen@example.com", "Singapore", "2024-02-20"},
	{"Dana Whitfield", "dana@example.com", "London", "2024-03-08"},
	{"Elena Petrova", "elena@example.com", "Berlin", "2024-04-12"},
	{"Farid Haddad", "farid@example.com", "Dubai", "2024-05-01"},
	{"Grace Okafor", "grace@example.com", "London", "2024-06-18"},
	{"Hiro Tanaka", "hiro@example.com", "Tokyo", "2024-07-22"},
	{"Ingrid Larsen", "ingrid@example.com", "Oslo", "2024-08-09"},
	{"Jamal Reed", "jamal@example.com", "London", "2024-09-14"},
}

var seedProducts = []seedProduct{
	{"SKU-1001", "Ceramic Mug Set", "Kitchen & Dining", 24.50, 120},
	{"SKU-1002", "Scented Candle Trio", "Lighting & Candles", 18.00, 200},
	{"SKU-1003", "Canvas Tote Bag", "Bags & Accessories", 15.75, 85},
	{"SKU-1004", "Fairy Light String", "Christmas & Seasonal", 12.99, 340},
	{"SKU-1005", "Cake Tin Set", "Baking & Kitchen", 32.00, 60},
	{"SKU-1006", "Garden Lantern", "Garden & Outdoor", 27.40, 45},
	{"SKU-1007", "Wall Clock", "Home Decor", 41.00, 30},
	{"SKU-1008", "Wooden Puzzle", "Toys & Games", 19.95, 150},
	{"SKU-1009", "Linen Cushion Cover", "Textiles & Fabrics", 22.25, 95},
	{"SKU-1010", "Gift Wrap Assortment", "Gifts & Romance", 9.99, 400},
	{"SKU-1011", "Storage Basket", "General Merchandise", 14.50, 110},
	{"SKU-1012", "Herb Planter Kit", "Garden & Outdoor", 26.80, 70},
}

// Seed creates the retail schema and fills it with deterministic sample
// data. Safe to call on an empty database only; existing rows make the
// inserts fail on primary keys.
func (s *Store) Seed(ctx context.Context) error {
	// One statement per Exec; the mysql driver rejects multi-statement
	// strings unless the DSN opts in.
	for _, stmt := range strings.Split(seedDDL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, c := range seedCustomers {
		if _, err := tx.ExecContext(ctx,
			s.bind("INSERT INTO customers (id, name, email, city, signup_date) VALUES (?, ?, ?, ?, ?)"),
			i+1, c.name, c.email, c.city, c.signup); err != nil {
			return fmt.Errorf("failed to seed customers: %w", err)
		}
	}
	for _, p := range seedProducts {
		if _, err := tx.ExecContext(ctx,
			s.bind("INSERT INTO products (id, name, category, price, stock) VALUES (?, ?, ?, ?, ?)"),
			p.id, p.name, p.category, p.price, p.stock); err != nil {
			return fmt.Errorf("failed to seed products: %w", err)
		}
	}

	// Orders spread across six months with a fixed rotation of customers
	// and products, so counts and revenue are stable run to run.
	months := []string{"2025-01", "2025-02", "2025-03", "2025-04", "2025-05", "2025-06"}
	orderID := 0
	for mi, month := range months {
		perMonth := 8 + mi // mild upward trend
		for j := 0; j < perMonth; j++ {
			orderID++
			customer := (orderID*3)%len(seedCustomers) + 1
			product := seedProducts[(orderID*5)%len(seedProducts)]
			quantity := orderID%4 + 1
			day := j%27 + 1
			total := float64(quantity) * product.price
			date := fmt.Sprintf("%s-%02d", month, day)

			if _, err := tx.ExecContext(ctx,
				s.bind("INSERT INTO orders (id, customer_id, product_id, quantity, order_date, total) VALUES (?, ?, ?, ?, ?, ?)"),
				orderID, customer, product.id, quantity, date, total); err != nil {
				return fmt.Errorf("failed to seed orders: %w", err)
			}
			margin := 0.2 + float64(orderID%5)*0.05
			if _, err := tx.ExecContext(ctx,
				s.bind("INSERT INTO sales (id, order_id, revenue, profit_margin, sales_date) VALUES (?, ?, ?, ?, ?)"),
				orderID, orderID, total, margin, date); err != nil {
				return fmt.Errorf("failed to seed sales: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	s.logger.Info("database seeded",
		zap.Int("customers", len(seedCustomers)),
		zap.Int("products", len(seedProducts)),
		zap.Int("orders", orderID))
	return nil
}
