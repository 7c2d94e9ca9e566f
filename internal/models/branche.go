package models

import "time"

type Branche struct {
	ID        uint   `gorm:"primaryKey"`
	Nom       string `gorm:"size:100;not null"`
	Ville     string `gorm:"size:100;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b Branche) DisplayName() string {
	return b.Nom
}
