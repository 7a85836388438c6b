package models

import "time"

// SessionSlot stores the authenticated identity and saved addresses for a
// shopper, separate from the cart slot.
type SessionSlot struct {
	ShopperID     string    `gorm:"column:shopper_id;primaryKey"`
	SchemaVersion int       `gorm:"column:schema_version;not null"`
	Payload       []byte    `gorm:"column:payload;not null"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the slot table name.
func (SessionSlot) TableName() string {
	return "session_slots"
}
