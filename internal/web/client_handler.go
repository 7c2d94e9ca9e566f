package web

import (
	"strconv"
	"strings"
	"time"

	"gestion-assurance/internal/database"
	"gestion-assurance/internal/models"

	"github.com/gofiber/fiber/v2"
)

type clientRow struct {
	ID              uint
	Nom             string
	Prenom          string
	Adresse         string
	Email           string
	Telephone       string
	Branche         string
	DateInscription string
}

func clientRowFrom(cl models.Client) clientRow {
	return clientRow{
		ID:              cl.ID,
		Nom:             cl.Nom,
		Prenom:          cl.Prenom,
		Adresse:         cl.Adresse,
		Email:           cl.Email,
		Telephone:       cl.Telephone,
		Branche:         cl.Branche.Nom,
		DateInscription: cl.DateInscription.Format("2006-01-02"),
	}
}

func ClientListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var total int64
		if err := database.DB.Model(&models.Client{}).Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Clients illisibles")
		}
		pagination := newPagination(pageParam(c), total)

		var clients []models.Client
		if err := database.DB.Preload("Branche").Order("id").
			Limit(pageSize).Offset(pagination.Offset()).
			Find(&clients).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Clients illisibles")
		}

		rows := make([]clientRow, 0, len(clients))
		for _, cl := range clients {
			rows = append(rows, clientRowFrom(cl))
		}

		return render(c, "client_list", fiber.Map{
			"Clients":    rows,
			"Pagination": pagination,
		})
	}
}

type clientForm struct {
	Nom             string
	Prenom          string
	Adresse         string
	Email           string
	Telephone       string
	Branche         string
	DateInscription string
}

func readClientForm(c *fiber.Ctx) clientForm {
	return clientForm{
		Nom:             strings.TrimSpace(c.FormValue("nom")),
		Prenom:          strings.TrimSpace(c.FormValue("prenom")),
		Adresse:         strings.TrimSpace(c.FormValue("adresse")),
		Email:           strings.TrimSpace(c.FormValue("email")),
		Telephone:       strings.TrimSpace(c.FormValue("telephone")),
		Branche:         c.FormValue("branche"),
		DateInscription: c.FormValue("date_inscription"),
	}
}

func clientFormOf(cl models.Client) clientForm {
	return clientForm{
		Nom:             cl.Nom,
		Prenom:          cl.Prenom,
		Adresse:         cl.Adresse,
		Email:           cl.Email,
		Telephone:       cl.Telephone,
		Branche:         strconv.FormatUint(uint64(cl.BrancheID), 10),
		DateInscription: cl.DateInscription.Format("2006-01-02"),
	}
}

// apply valide le formulaire et reporte les valeurs sur le modèle.
func (f clientForm) apply(cl *models.Client) map[string]string {
	errs := map[string]string{}
	if f.Nom == "" {
		errs["Nom"] = "Le nom est obligatoire."
	}
	if f.Prenom == "" {
		errs["Prenom"] = "Le prénom est obligatoire."
	}
	if f.Adresse == "" {
		errs["Adresse"] = "L'adresse est obligatoire."
	}
	if f.Email == "" {
		errs["Email"] = "L'email est obligatoire."
	}
	if f.Telephone == "" {
		errs["Telephone"] = "Le téléphone est obligatoire."
	}

	var date time.Time
	if f.DateInscription == "" {
		errs["DateInscription"] = "La date d'inscription est obligatoire."
	} else {
		var err error
		date, err = time.Parse("2006-01-02", f.DateInscription)
		if err != nil {
			errs["DateInscription"] = "Date invalide (format AAAA-MM-JJ)."
		}
	}

	var branche models.Branche
	if f.Branche == "" {
		errs["Branche"] = "La branche est obligatoire."
	} else if id, err := strconv.ParseUint(f.Branche, 10, 32); err != nil {
		errs["Branche"] = "Branche invalide."
	} else if err := database.DB.First(&branche, uint(id)).Error; err != nil {
		errs["Branche"] = "Branche inexistante."
	}

	if len(errs) > 0 {
		return errs
	}

	cl.Nom = f.Nom
	cl.Prenom = f.Prenom
	cl.Adresse = f.Adresse
	cl.Email = f.Email
	cl.Telephone = f.Telephone
	cl.BrancheID = branche.ID
	cl.DateInscription = date
	return nil
}

func renderClientForm(c *fiber.Ctx, form clientForm, errs map[string]string, title string) error {
	var branches []models.Branche
	if err := database.DB.Order("nom").Find(&branches).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Branches illisibles")
	}
	return render(c, "client_form", fiber.Map{
		"Title":    title,
		"Form":     form,
		"Errors":   errs,
		"Branches": branches,
	})
}

func ClientCreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost {
			return renderClientForm(c, clientForm{}, nil, "Ajouter un client")
		}

		form := readClientForm(c)
		var client models.Client
		if errs := form.apply(&client); errs != nil {
			return renderClientForm(c, form, errs, "Ajouter un client")
		}
		if err := database.DB.Create(&client).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Client non créé")
		}
		return c.Redirect("/clients/")
	}
}

func ClientEditHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var client models.Client
		if err := database.DB.First(&client, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Client introuvable")
		}

		if c.Method() != fiber.MethodPost {
			return renderClientForm(c, clientFormOf(client), nil, "Modifier le client")
		}

		form := readClientForm(c)
		if errs := form.apply(&client); errs != nil {
			return renderClientForm(c, form, errs, "Modifier le client")
		}
		if err := database.DB.Save(&client).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Client non mis à jour")
		}
		return c.Redirect("/clients/")
	}
}

func ClientDeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var client models.Client
		if err := database.DB.Preload("Branche").First(&client, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Client introuvable")
		}

		if c.Method() != fiber.MethodPost {
			return render(c, "confirm_delete", fiber.Map{
				"Title":  "Supprimer le client",
				"Objet":  client.DisplayName(),
				"Retour": "/clients/",
			})
		}

		if err := database.DB.Delete(&client).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Client non supprimé")
		}
		return c.Redirect("/clients/")
	}
}
