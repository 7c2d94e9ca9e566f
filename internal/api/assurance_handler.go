package api

import (
	"gestion-assurance/internal/database"
	"gestion-assurance/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type AssuranceResponse struct {
	ID            uint   `json:"id"`
	TypeAssurance string `json:"type_assurance"`
	DateDebut     string `json:"date_debut"`
	DateFin       string `json:"date_fin"`
	Montant       string `json:"montant"` // décimal à deux chiffres, sérialisé en chaîne
	Client        uint   `json:"client"`
	Branche       uint   `json:"branche"`
}

type CreateAssuranceRequest struct {
	TypeAssurance string          `json:"type_assurance"`
	DateDebut     string          `json:"date_debut"`
	DateFin       string          `json:"date_fin"`
	Montant       decimal.Decimal `json:"montant"`
	Client        uint            `json:"client"`
	Branche       uint            `json:"branche"`
}

type UpdateAssuranceRequest struct {
	TypeAssurance *string          `json:"type_assurance"`
	DateDebut     *string          `json:"date_debut"`
	DateFin       *string          `json:"date_fin"`
	Montant       *decimal.Decimal `json:"montant"`
	Client        *uint            `json:"client"`
	Branche       *uint            `json:"branche"`
}

func assuranceResponse(a models.Assurance) AssuranceResponse {
	return AssuranceResponse{
		ID:            a.ID,
		TypeAssurance: a.TypeAssurance,
		DateDebut:     a.DateDebut.Format("2006-01-02"),
		DateFin:       a.DateFin.Format("2006-01-02"),
		Montant:       a.Montant.StringFixed(2),
		Client:        a.ClientID,
		Branche:       a.BrancheID,
	}
}

func ListAssurancesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var assurances []models.Assurance
		if err := database.DB.Order("id").Find(&assurances).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Assurances illisibles")
		}

		res := make([]AssuranceResponse, 0, len(assurances))
		for _, a := range assurances {
			res = append(res, assuranceResponse(a))
		}
		return c.JSON(res)
	}
}

func CreateAssuranceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateAssuranceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if body.TypeAssurance == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Le type d'assurance est obligatoire")
		}

		debut, err := parseDate(body.DateDebut)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date_debut doit être au format AAAA-MM-JJ")
		}
		fin, err := parseDate(body.DateFin)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date_fin doit être au format AAAA-MM-JJ")
		}

		var client models.Client
		if err := database.DB.First(&client, body.Client).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Client inexistant")
		}
		var branche models.Branche
		if err := database.DB.First(&branche, body.Branche).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Branche inexistante")
		}

		assurance := models.Assurance{
			TypeAssurance: body.TypeAssurance,
			DateDebut:     debut,
			DateFin:       fin,
			Montant:       body.Montant.Round(2),
			ClientID:      client.ID,
			BrancheID:     branche.ID,
		}
		if err := database.DB.Create(&assurance).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Assurance non créée")
		}

		return c.Status(fiber.StatusCreated).JSON(assuranceResponse(assurance))
	}
}

func GetAssuranceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var assurance models.Assurance
		if err := database.DB.First(&assurance, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Assurance introuvable")
		}
		return c.JSON(assuranceResponse(assurance))
	}
}

func UpdateAssuranceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var assurance models.Assurance
		if err := database.DB.First(&assurance, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Assurance introuvable")
		}

		var body UpdateAssuranceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if body.TypeAssurance != nil {
			if *body.TypeAssurance == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Le type d'assurance ne peut pas être vide")
			}
			assurance.TypeAssurance = *body.TypeAssurance
		}
		if body.DateDebut != nil {
			debut, err := parseDate(*body.DateDebut)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date_debut doit être au format AAAA-MM-JJ")
			}
			assurance.DateDebut = debut
		}
		if body.DateFin != nil {
			fin, err := parseDate(*body.DateFin)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date_fin doit être au format AAAA-MM-JJ")
			}
			assurance.DateFin = fin
		}
		if body.Montant != nil {
			assurance.Montant = body.Montant.Round(2)
		}
		if body.Client != nil {
			var client models.Client
			if err := database.DB.First(&client, *body.Client).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Client inexistant")
			}
			assurance.ClientID = client.ID
		}
		if body.Branche != nil {
			var branche models.Branche
			if err := database.DB.First(&branche, *body.Branche).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Branche inexistante")
			}
			assurance.BrancheID = branche.ID
		}

		if err := database.DB.Save(&assurance).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Assurance non mise à jour")
		}
		return c.JSON(assuranceResponse(assurance))
	}
}

func DeleteAssuranceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var assurance models.Assurance
		if err := database.DB.First(&assurance, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Assurance introuvable")
		}
		if err := database.DB.Delete(&assurance).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Assurance non supprimée")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
