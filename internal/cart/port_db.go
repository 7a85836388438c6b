package cart

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kiranalabs/storefront/pkg/db/models"
)

// dbPort persists the cart slot in the cart_slots table, one row per
// shopper, upserted on every save.
type dbPort struct {
	conn *gorm.DB
}

// NewDBPort builds a Port backed by the relational slot table.
func NewDBPort(conn *gorm.DB) Port {
	return &dbPort{conn: conn}
}

func (p *dbPort) Load(ctx context.Context, shopperID string) ([]byte, bool, error) {
	var slot models.CartSlot
	err := p.conn.WithContext(ctx).
		Where("shopper_id = ?", shopperID).
		First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading cart slot: %w", err)
	}
	if slot.SchemaVersion != slotSchemaVersion {
		return nil, false, nil
	}
	return slot.Payload, true, nil
}

func (p *dbPort) Save(ctx context.Context, shopperID string, payload []byte) error {
	slot := models.CartSlot{
		ShopperID:     shopperID,
		SchemaVersion: slotSchemaVersion,
		Payload:       payload,
	}
	err := p.conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "shopper_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"schema_version", "payload", "updated_at"}),
		}).
		Create(&slot).Error
	if err != nil {
		return fmt.Errorf("saving cart slot: %w", err)
	}
	return nil
}

func (p *dbPort) Clear(ctx context.Context, shopperID string) error {
	err := p.conn.WithContext(ctx).
		Where("shopper_id = ?", shopperID).
		Delete(&models.CartSlot{}).Error
	if err != nil {
		return fmt.Errorf("clearing cart slot: %w", err)
	}
	return nil
}
