package models

import "time"

// CartSlot is the single named slot holding a shopper's serialized cart.
// Payload is the JSON-encoded ordered line item list; SchemaVersion guards
// against loading a layout this build does not understand.
type CartSlot struct {
	ShopperID     string    `gorm:"column:shopper_id;primaryKey"`
	SchemaVersion int       `gorm:"column:schema_version;not null"`
	Payload       []byte    `gorm:"column:payload;not null"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the slot table name.
func (CartSlot) TableName() string {
	return "cart_slots"
}
