package models

import "time"

type Client struct {
	ID              uint      `gorm:"primaryKey"`
	Nom             string    `gorm:"size:100;not null"`
	Prenom          string    `gorm:"size:100;not null"`
	Adresse         string    `gorm:"not null"`
	Email           string    `gorm:"size:254;not null"`
	Telephone       string    `gorm:"size:20;not null"`
	BrancheID       uint      `gorm:"index;not null"`
	Branche         Branche   `gorm:"constraint:OnDelete:CASCADE"`
	DateInscription time.Time `gorm:"type:date;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (c Client) DisplayName() string {
	return c.Nom + " " + c.Prenom
}
