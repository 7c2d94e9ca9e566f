package database

import (
	"gestion-assurance/internal/config"
	"gestion-assurance/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config, log *zap.Logger) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatal("connexion à la base impossible", zap.Error(err))
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("échec de la migration", zap.Error(err))
	}

	log.Info("base de données connectée, migration terminée")
}

// Migrate applique le schéma. Les politiques de suppression sont portées
// par les contraintes déclarées sur chaque relation : CASCADE pour les
// clients et assurances d'une branche, SET NULL pour les utilisateurs.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Branche{},
		&models.Client{},
		&models.Assurance{},
		&models.Utilisateur{},
	)
}
