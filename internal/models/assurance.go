package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Assurance struct {
	ID            uint            `gorm:"primaryKey"`
	TypeAssurance string          `gorm:"size:100;not null"`
	DateDebut     time.Time       `gorm:"type:date;not null"`
	DateFin       time.Time       `gorm:"type:date;not null"`
	Montant       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ClientID      uint            `gorm:"index;not null"`
	Client        Client          `gorm:"constraint:OnDelete:CASCADE"`
	BrancheID     uint            `gorm:"index;not null"`
	Branche       Branche         `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (a Assurance) DisplayName() string {
	return a.TypeAssurance + " pour " + a.Client.DisplayName()
}
