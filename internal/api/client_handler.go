package api

import (
	"strings"
	"time"

	"gestion-assurance/internal/database"
	"gestion-assurance/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ClientResponse struct {
	ID              uint   `json:"id"`
	Nom             string `json:"nom"`
	Prenom          string `json:"prenom"`
	Adresse         string `json:"adresse"`
	Email           string `json:"email"`
	Telephone       string `json:"telephone"`
	Branche         uint   `json:"branche"`
	DateInscription string `json:"date_inscription"`
}

type CreateClientRequest struct {
	Nom             string `json:"nom"`
	Prenom          string `json:"prenom"`
	Adresse         string `json:"adresse"`
	Email           string `json:"email"`
	Telephone       string `json:"telephone"`
	Branche         uint   `json:"branche"`
	DateInscription string `json:"date_inscription"`
}

type UpdateClientRequest struct {
	Nom             *string `json:"nom"`
	Prenom          *string `json:"prenom"`
	Adresse         *string `json:"adresse"`
	Email           *string `json:"email"`
	Telephone       *string `json:"telephone"`
	Branche         *uint   `json:"branche"`
	DateInscription *string `json:"date_inscription"`
}

func clientResponse(c models.Client) ClientResponse {
	return ClientResponse{
		ID:              c.ID,
		Nom:             c.Nom,
		Prenom:          c.Prenom,
		Adresse:         c.Adresse,
		Email:           c.Email,
		Telephone:       c.Telephone,
		Branche:         c.BrancheID,
		DateInscription: c.DateInscription.Format("2006-01-02"),
	}
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(s))
}

func ListClientsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var clients []models.Client
		if err := database.DB.Order("id").Find(&clients).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Clients illisibles")
		}

		res := make([]ClientResponse, 0, len(clients))
		for _, cl := range clients {
			res = append(res, clientResponse(cl))
		}
		return c.JSON(res)
	}
}

func CreateClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateClientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		body.Nom = strings.TrimSpace(body.Nom)
		body.Prenom = strings.TrimSpace(body.Prenom)
		body.Adresse = strings.TrimSpace(body.Adresse)
		body.Email = strings.TrimSpace(body.Email)
		body.Telephone = strings.TrimSpace(body.Telephone)

		if body.Nom == "" || body.Prenom == "" || body.Adresse == "" || body.Email == "" || body.Telephone == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Tous les champs du client sont obligatoires")
		}

		date, err := parseDate(body.DateInscription)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date_inscription doit être au format AAAA-MM-JJ")
		}

		var branche models.Branche
		if err := database.DB.First(&branche, body.Branche).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Branche inexistante")
		}

		client := models.Client{
			Nom:             body.Nom,
			Prenom:          body.Prenom,
			Adresse:         body.Adresse,
			Email:           body.Email,
			Telephone:       body.Telephone,
			BrancheID:       branche.ID,
			DateInscription: date,
		}
		if err := database.DB.Create(&client).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Client non créé")
		}

		return c.Status(fiber.StatusCreated).JSON(clientResponse(client))
	}
}

func GetClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var client models.Client
		if err := database.DB.First(&client, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Client introuvable")
		}
		return c.JSON(clientResponse(client))
	}
}

// UpdateClientHandler sert PUT comme PATCH : les champs absents du corps
// sont laissés tels quels.
func UpdateClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var client models.Client
		if err := database.DB.First(&client, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Client introuvable")
		}

		var body UpdateClientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corps de requête invalide")
		}

		if body.Nom != nil {
			nom := strings.TrimSpace(*body.Nom)
			if nom == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Le nom ne peut pas être vide")
			}
			client.Nom = nom
		}
		if body.Prenom != nil {
			prenom := strings.TrimSpace(*body.Prenom)
			if prenom == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Le prénom ne peut pas être vide")
			}
			client.Prenom = prenom
		}
		if body.Adresse != nil {
			client.Adresse = strings.TrimSpace(*body.Adresse)
		}
		if body.Email != nil {
			client.Email = strings.TrimSpace(*body.Email)
		}
		if body.Telephone != nil {
			client.Telephone = strings.TrimSpace(*body.Telephone)
		}
		if body.Branche != nil {
			var branche models.Branche
			if err := database.DB.First(&branche, *body.Branche).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Branche inexistante")
			}
			client.BrancheID = branche.ID
		}
		if body.DateInscription != nil {
			date, err := parseDate(*body.DateInscription)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "date_inscription doit être au format AAAA-MM-JJ")
			}
			client.DateInscription = date
		}

		if err := database.DB.Save(&client).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Client non mis à jour")
		}
		return c.JSON(clientResponse(client))
	}
}

func DeleteClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var client models.Client
		if err := database.DB.First(&client, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Client introuvable")
		}
		if err := database.DB.Delete(&client).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Client non supprimé")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
