package models

import "time"

type Role string

const (
	RoleSuperAdmin  Role = "SuperAdmin"
	RoleBranchAdmin Role = "BranchAdmin"
	RoleAgent       Role = "Agent"
)

// Roles liste les rôles dans l'ordre d'affichage des formulaires.
func Roles() []Role {
	return []Role{RoleSuperAdmin, RoleBranchAdmin, RoleAgent}
}

func ValidRole(r Role) bool {
	switch r {
	case RoleSuperAdmin, RoleBranchAdmin, RoleAgent:
		return true
	}
	return false
}

type Utilisateur struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:150;uniqueIndex;not null"`
	Email        string `gorm:"size:254;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Role         Role   `gorm:"size:20;not null;default:Agent"`
	BrancheID    *uint
	Branche      *Branche  `gorm:"constraint:OnDelete:SET NULL"`
	IsStaff      bool      `gorm:"not null;default:false"`
	IsActive     bool      `gorm:"not null;default:true"`
	DateJoined   time.Time `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Les trois prédicats sont volontairement indépendants : aucun rôle
// n'en "contient" un autre.
func (u Utilisateur) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

func (u Utilisateur) IsBranchAdmin() bool {
	return u.Role == RoleBranchAdmin
}

func (u Utilisateur) IsAgent() bool {
	return u.Role == RoleAgent
}

func (u Utilisateur) DisplayName() string {
	return u.Username + " (" + string(u.Role) + ")"
}
