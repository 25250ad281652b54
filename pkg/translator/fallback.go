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
package translator

import "strings"

const (
	fallbackProducts = `SELECT p.name, p.category, p.price, p.stock
FROM products p
ORDER BY p.name
LIMIT 20;`

	fallbackCustomers = `SELECT c.name, c.email, c.city, c.signup_date
FROM customers c
ORDER BY c.signup_date DESC
LIMIT 20;`

	fallbackOrders = `SELECT o.id, c.name as customer_name, p.name as product_name,
       o.quantity, o.total, o.order_date
FROM orders o
JOIN customers c ON o.customer_id = c.id
JOIN products p ON o.product_id = p.id
ORDER BY o.order_date DESC
LIMIT 20;`

	fallbackOverview = `SELECT 'Total Revenue' as metric, SUM(total) as value FROM orders
UNION ALL
SELECT 'Total Orders' as metric, COUNT(*) as value FROM orders
UNION ALL
SELECT 'Total Customers' as metric, COUNT(*) as value FROM customers
UNION ALL
SELECT 'Total Products' as metric, COUNT(*) as value FROM products;`
)

// fallbackQuery picks a broad keyword query so every question yields some
// result. The overview union is the final catch-all.
func fallbackQuery(question string) string {
	lower := strings.ToLower(question)
	switch {
	case strings.Contains(lower, "product"):
		return fallbackProducts
	case strings.Contains(lower, "customer"):
		return fallbackCustomers
	case strings.Contains(lower, "order"):
		return fallbackOrders
	default:
		return fallbackOverview
	}
}
