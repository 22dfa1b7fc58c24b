package models

import "time"

// Order statuses managed by fulfillment.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Delivery-block status before an order is linked to a delivery company.
const (
	DeliveryStatusUnlinked     = "unlinked"
	DeliveryStatusUnlinkedText = "في انتظار الربط بشركة توصيل"
)

var orderStatusText = map[string]string{
	OrderStatusPending:    "قيد المراجعة",
	OrderStatusProcessing: "قيد التجهيز",
	OrderStatusShipped:    "تم الشحن",
	OrderStatusDelivered:  "تم التوصيل",
	OrderStatusCancelled:  "ملغي",
}

// ValidOrderStatus reports whether status is one of the managed statuses.
func ValidOrderStatus(status string) bool {
	_, ok := orderStatusText[status]
	return ok
}

// OrderStatusText returns the Arabic display text for a status, or the
// status itself when no translation exists.
func OrderStatusText(status string) string {
	if text, ok := orderStatusText[status]; ok {
		return text
	}
	return status
}

// OrderOption is one selected product option (color or size) on an order
// item, encoded the way the delivery integration expects it.
type OrderOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// OrderItem is a frozen snapshot of a cart line at submission time.
type OrderItem struct {
	ProductID      string        `json:"productId"`
	Name           string        `json:"name"`
	ImageURL       string        `json:"imageUrl"`
	WholesalePrice int           `json:"wholesalePrice"`
	SellingPrice   int           `json:"sellingPrice"`
	Quantity       int           `json:"quantity"`
	Options        []OrderOption `json:"options,omitempty"`
}

// Customer is the destination block of an order. Phone numbers are stored
// without the +964 prefix, as the delivery company expects them.
type Customer struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Phone2   string `json:"phone2,omitempty"`
	CityID   string `json:"cityId"`
	CityName string `json:"cityName"`
	Area     string `json:"regionName"`
	Landmark string `json:"location,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// DeliveryInfo is the delivery block of an order: the fee charged plus the
// fulfillment-link status, which starts as unlinked.
type DeliveryInfo struct {
	Status     string `json:"status"`
	StatusText string `json:"statusText"`
	Fee        int    `json:"deliveryFee"`
}

// Pricing is the computed pricing snapshot of an order.
// Invariants: Profit == SellingTotal - WholesaleTotal and
// FinalTotal == SellingTotal + DeliveryFee - Discount.
type Pricing struct {
	WholesaleTotal int `json:"wholesaleTotal"`
	SellingTotal   int `json:"sellingTotal"`
	Profit         int `json:"profit"`
	DeliveryFee    int `json:"deliveryFee"`
	Discount       int `json:"discount"`
	FinalTotal     int `json:"finalTotal"`
}

// Discount records the coupon applied to an order, if any.
type Discount struct {
	Code   string `json:"code"`
	Amount int    `json:"amount"`
}

// Order is the immutable submission record. Items, customer and pricing are
// frozen at creation; only Status/StatusText change afterwards.
type Order struct {
	ID          string       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderNumber int          `json:"orderNumber" gorm:"uniqueIndex"`
	TraderID    string       `json:"traderId" gorm:"index;type:varchar(36)"`
	Items       []OrderItem  `json:"items" gorm:"serializer:json"`
	Customer    Customer     `json:"customer" gorm:"serializer:json"`
	Delivery    DeliveryInfo `json:"delivery" gorm:"serializer:json"`
	Pricing     Pricing      `json:"pricing" gorm:"embedded;embeddedPrefix:pricing_"`
	Discount    *Discount    `json:"discount,omitempty" gorm:"serializer:json"`
	Status      string       `json:"status" gorm:"index;type:varchar(20)"`
	StatusText  string       `json:"statusAr" gorm:"type:varchar(100)"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// ShippingData is the customer/destination form state collected before an
// order is submitted. It lives only for the active session.
type ShippingData struct {
	CustomerName string `json:"customerName"`
	Phone1       string `json:"phone1"`
	Phone2       string `json:"phone2,omitempty"`
	CityID       string `json:"cityId"`
	Area         string `json:"area"`
	Landmark     string `json:"landmark,omitempty"`
	Notes        string `json:"notes,omitempty"`
}
