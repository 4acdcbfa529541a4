package domain

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "Pending"
	OrderStatusProcessing     OrderStatus = "Processing"
	OrderStatusPacked         OrderStatus = "Packed"
	OrderStatusShipped        OrderStatus = "Shipped"
	OrderStatusOutForDelivery OrderStatus = "Out for Delivery"
	OrderStatusDelivered      OrderStatus = "Delivered"
	OrderStatusCancelled      OrderStatus = "Cancelled"
	OrderStatusReturned       OrderStatus = "Returned"
)

// terminalOrderStatuses are the statuses after which an order no longer moves.
var terminalOrderStatuses = []OrderStatus{
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusReturned,
}

// Product is the summary of a catalog product joined onto order items.
type Product struct {
	ID    string  `json:"id" gorm:"primaryKey"`
	Name  string  `json:"name"`
	Brand string  `json:"brand"`
	Price float64 `json:"price"`
}

type OrderItem struct {
	ID        string   `json:"id" gorm:"primaryKey"`
	OrderID   string   `json:"order_id" gorm:"index"`
	ProductID string   `json:"product_id"`
	Quantity  int      `json:"quantity"`
	UnitPrice float64  `json:"unit_price"`
	Product   *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

type Order struct {
	ID               string      `json:"id" gorm:"primaryKey"`
	OrderNumber      string      `json:"order_number" gorm:"uniqueIndex"`
	UserID           string      `json:"user_id" gorm:"index"`
	Status           OrderStatus `json:"status" gorm:"index"`
	Items            []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	Total            float64     `json:"total"`
	Currency         string      `json:"currency"`
	PlacedAt         time.Time   `json:"placed_at" gorm:"index"`
	ExpectedDelivery *time.Time  `json:"expected_delivery,omitempty"`
	DeliveredAt      *time.Time  `json:"delivered_at,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// StatusIs compares statuses ignoring case and "_"/"-" separators so that
// "out_for_delivery" and "Out for Delivery" are the same status.
func (o *Order) StatusIs(status OrderStatus) bool {
	return normalizeStatus(string(o.Status)) == normalizeStatus(string(status))
}

// IsTerminal is true for delivered, cancelled and returned orders.
func (o *Order) IsTerminal() bool {
	for _, s := range terminalOrderStatuses {
		if o.StatusIs(s) {
			return true
		}
	}
	return false
}

// ItemCount sums quantities across all order lines.
func (o *Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		if item.Quantity > 0 {
			count += item.Quantity
		}
	}
	return count
}

// ProductNames lists the distinct product names in line order.
func (o *Order) ProductNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, item := range o.Items {
		if item.Product == nil || item.Product.Name == "" || seen[item.Product.Name] {
			continue
		}
		seen[item.Product.Name] = true
		names = append(names, item.Product.Name)
	}
	return names
}

func normalizeStatus(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
