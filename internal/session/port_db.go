package session

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kiranalabs/storefront/pkg/db/models"
)

type dbPort struct {
	conn *gorm.DB
}

// NewDBPort builds a Port backed by the session_slots table.
func NewDBPort(conn *gorm.DB) Port {
	return &dbPort{conn: conn}
}

func (p *dbPort) Load(ctx context.Context, shopperID string) ([]byte, bool, error) {
	var slot models.SessionSlot
	err := p.conn.WithContext(ctx).
		Where("shopper_id = ?", shopperID).
		First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading session slot: %w", err)
	}
	if slot.SchemaVersion != slotSchemaVersion {
		return nil, false, nil
	}
	return slot.Payload, true, nil
}

func (p *dbPort) Save(ctx context.Context, shopperID string, payload []byte) error {
	slot := models.SessionSlot{
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
		return fmt.Errorf("saving session slot: %w", err)
	}
	return nil
}

func (p *dbPort) Clear(ctx context.Context, shopperID string) error {
	err := p.conn.WithContext(ctx).
		Where("shopper_id = ?", shopperID).
		Delete(&models.SessionSlot{}).Error
	if err != nil {
		return fmt.Errorf("clearing session slot: %w", err)
	}
	return nil
}
