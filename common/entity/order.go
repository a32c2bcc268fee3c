package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Order persisted order row. Lines and status history are embedded as JSON documents
// since they have no identity of their own.
type Order struct {
	ID           int64  `gorm:"column:id;primaryKey;autoIncrement"`
	OrderID      string `gorm:"column:order_id;type:varchar(32);not null;uniqueIndex:uk_order_id"`
	CustomerName string `gorm:"column:customer_name;type:varchar(255)"`

	Items           datatypes.JSON `gorm:"column:items;type:json;not null"`
	DeliveryAddress string         `gorm:"column:delivery_address;type:varchar(512);not null"`
	Phone           string         `gorm:"column:phone;type:varchar(16);not null"`
	DeliverySlot    string         `gorm:"column:delivery_slot;type:varchar(16);not null;index:idx_slot_created"`

	Status        string         `gorm:"column:status;type:varchar(32);not null;default:'pending';index:idx_status_created"`
	StatusHistory datatypes.JSON `gorm:"column:status_history;type:json;not null"`

	PaymentMethod  string  `gorm:"column:payment_method;type:varchar(32);not null;default:'cod'"`
	TotalAmount    float64 `gorm:"column:total_amount;type:decimal(12,2);not null"`
	DeliveryCharge float64 `gorm:"column:delivery_charge;type:decimal(12,2);not null;default:0"`
	Revision       int64   `gorm:"column:revision;not null;default:0"`

	CreatedAt time.Time `gorm:"column:created_at;not null;index:idx_slot_created;index:idx_status_created;index:idx_created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName table name
func (Order) TableName() string {
	return "orders"
}
