package api

import (
	"strings"

	"gestion-assurance/internal/database"
	"gestion-assurance/internal/models"

	"github.com/gofiber/fiber/v2"
)

type BrancheResponse struct {
	ID    uint   `json:"id"`
	Nom   string `json:"nom"`
	Ville string `json:"ville"`
}

type CreateBrancheRequest struct {
	Nom   string `json:"nom"`
	Ville string `json:"ville"`
}

type UpdateBrancheRequest struct {
	Nom   *string `json:"nom"`
	Ville *string `json:"ville"`
}

func brancheResponse(b models.Branche) BrancheResponse {
	return BrancheResponse{ID: b.ID, Nom: b.Nom, Ville: b.Ville}
}

func ListBranchesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var branches []models.Branche
		if err := database.DB.Order("id").Find(&branches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Branches illisibles")
		}

		res := make([]BrancheResponse, 0, len(branches))
		for _, b := range branches {
			res = append(res, brancheResponse(b))
		}
		return c.JSON(res)
	}
}

func CreateBrancheHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateBrancheRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		body.Nom = strings.TrimSpace(body.Nom)
		body.Ville = strings.TrimSpace(body.Ville)
		if body.Nom == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Le nom de la branche est obligatoire")
		}
		if body.Ville == "" {
			return fiber.NewError(fiber.StatusBadRequest, "La ville est obligatoire")
		}

		branche := models.Branche{Nom: body.Nom, Ville: body.Ville}
		if err := database.DB.Create(&branche).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Branche non créée")
		}

		return c.Status(fiber.StatusCreated).JSON(brancheResponse(branche))
	}
}

func GetBrancheHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var branche models.Branche
		if err := database.DB.First(&branche, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Branche introuvable")
		}
		return c.JSON(brancheResponse(branche))
	}
}

func UpdateBrancheHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var branche models.Branche
		if err := database.DB.First(&branche, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Branche introuvable")
		}

		var body UpdateBrancheRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if body.Nom != nil {
			nom := strings.TrimSpace(*body.Nom)
			if nom == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Le nom de la branche ne peut pas être vide")
			}
			branche.Nom = nom
		}
		if body.Ville != nil {
			branche.Ville = strings.TrimSpace(*body.Ville)
		}

		if err := database.DB.Save(&branche).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Branche non mise à jour")
		}
		return c.JSON(brancheResponse(branche))
	}
}

// La suppression d'une branche entraîne en cascade celle de ses clients
// et assurances ; les utilisateurs rattachés sont simplement détachés.
func DeleteBrancheHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var branche models.Branche
		if err := database.DB.First(&branche, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Branche introuvable")
		}
		if err := database.DB.Delete(&branche).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Branche non supprimée")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
