package shipping

import (
	"time"

	"github.com/mydfacylita/backend/internal/domain/shared"
)

// Settings holds the durable shipping configuration the quote flow reads:
// whether the carrier integration is enabled and which CEP packages ship
// from. Stored as a singleton row.
type Settings struct {
	shared.BaseAggregateRoot
	CorreiosEnabled bool   `gorm:"not null;default:false"`
	OriginCEP       string `gorm:"type:varchar(8);not null"`
}

// TableName returns the table name for GORM
func (Settings) TableName() string {
	return "shipping_settings"
}

// NewSettings creates shipping settings with a validated origin CEP
func NewSettings(originCEP string, correiosEnabled bool) (*Settings, error) {
	cep, err := ParseCEP(originCEP)
	if err != nil {
		return nil, err
	}
	return &Settings{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CorreiosEnabled:   correiosEnabled,
		OriginCEP:         cep.String(),
	}, nil
}

// Update replaces the settings values
func (s *Settings) Update(originCEP string, correiosEnabled bool) error {
	cep, err := ParseCEP(originCEP)
	if err != nil {
		return err
	}
	s.OriginCEP = cep.String()
	s.CorreiosEnabled = correiosEnabled
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

// Origin returns the origin CEP as a typed value
func (s *Settings) Origin() CEP {
	return CEP(s.OriginCEP)
}
