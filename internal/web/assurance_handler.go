package web

import (
	"strconv"
	"strings"
	"time"

	"gestion-assurance/internal/database"
	"gestion-assurance/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type assuranceRow struct {
	ID            uint
	TypeAssurance string
	DateDebut     string
	DateFin       string
	Montant       string
	Client        string
	Branche       string
}

func AssuranceListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var total int64
		if err := database.DB.Model(&models.Assurance{}).Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Assurances illisibles")
		}
		pagination := newPagination(pageParam(c), total)

		var assurances []models.Assurance
		if err := database.DB.Preload("Client").Preload("Branche").Order("id").
			Limit(pageSize).Offset(pagination.Offset()).
			Find(&assurances).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Assurances illisibles")
		}

		rows := make([]assuranceRow, 0, len(assurances))
		for _, a := range assurances {
			rows = append(rows, assuranceRow{
				ID:            a.ID,
				TypeAssurance: a.TypeAssurance,
				DateDebut:     a.DateDebut.Format("2006-01-02"),
				DateFin:       a.DateFin.Format("2006-01-02"),
				Montant:       a.Montant.StringFixed(2),
				Client:        a.Client.DisplayName(),
				Branche:       a.Branche.Nom,
			})
		}

		return render(c, "assurance_list", fiber.Map{
			"Assurances": rows,
			"Pagination": pagination,
		})
	}
}

type assuranceForm struct {
	TypeAssurance string
	DateDebut     string
	DateFin       string
	Montant       string
	Client        string
	Branche       string
}

func readAssuranceForm(c *fiber.Ctx) assuranceForm {
	return assuranceForm{
		TypeAssurance: strings.TrimSpace(c.FormValue("type_assurance")),
		DateDebut:     c.FormValue("date_debut"),
		DateFin:       c.FormValue("date_fin"),
		Montant:       strings.TrimSpace(c.FormValue("montant")),
		Client:        c.FormValue("client"),
		Branche:       c.FormValue("branche"),
	}
}

func assuranceFormOf(a models.Assurance) assuranceForm {
	return assuranceForm{
		TypeAssurance: a.TypeAssurance,
		DateDebut:     a.DateDebut.Format("2006-01-02"),
		DateFin:       a.DateFin.Format("2006-01-02"),
		Montant:       a.Montant.StringFixed(2),
		Client:        strconv.FormatUint(uint64(a.ClientID), 10),
		Branche:       strconv.FormatUint(uint64(a.BrancheID), 10),
	}
}

// La cohérence date_fin >= date_debut n'est volontairement pas vérifiée,
// comme dans le reste du système.
func (f assuranceForm) apply(a *models.Assurance) map[string]string {
	errs := map[string]string{}
	if f.TypeAssurance == "" {
		errs["TypeAssurance"] = "Le type d'assurance est obligatoire."
	}

	var debut, fin time.Time
	var err error
	if f.DateDebut == "" {
		errs["DateDebut"] = "La date de début est obligatoire."
	} else if debut, err = time.Parse("2006-01-02", f.DateDebut); err != nil {
		errs["DateDebut"] = "Date invalide (format AAAA-MM-JJ)."
	}
	if f.DateFin == "" {
		errs["DateFin"] = "La date de fin est obligatoire."
	} else if fin, err = time.Parse("2006-01-02", f.DateFin); err != nil {
		errs["DateFin"] = "Date invalide (format AAAA-MM-JJ)."
	}

	var montant decimal.Decimal
	if f.Montant == "" {
		errs["Montant"] = "Le montant est obligatoire."
	} else if montant, err = decimal.NewFromString(f.Montant); err != nil {
		errs["Montant"] = "Montant invalide."
	}

	var client models.Client
	if f.Client == "" {
		errs["Client"] = "Le client est obligatoire."
	} else if id, convErr := strconv.ParseUint(f.Client, 10, 32); convErr != nil {
		errs["Client"] = "Client invalide."
	} else if err := database.DB.First(&client, uint(id)).Error; err != nil {
		errs["Client"] = "Client inexistant."
	}

	var branche models.Branche
	if f.Branche == "" {
		errs["Branche"] = "La branche est obligatoire."
	} else if id, convErr := strconv.ParseUint(f.Branche, 10, 32); convErr != nil {
		errs["Branche"] = "Branche invalide."
	} else if err := database.DB.First(&branche, uint(id)).Error; err != nil {
		errs["Branche"] = "Branche inexistante."
	}

	if len(errs) > 0 {
		return errs
	}

	a.TypeAssurance = f.TypeAssurance
	a.DateDebut = debut
	a.DateFin = fin
	a.Montant = montant.Round(2)
	a.ClientID = client.ID
	a.BrancheID = branche.ID
	return nil
}

func renderAssuranceForm(c *fiber.Ctx, form assuranceForm, errs map[string]string, title string) error {
	var clients []models.Client
	if err := database.DB.Order("nom").Find(&clients).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Clients illisibles")
	}
	var branches []models.Branche
	if err := database.DB.Order("nom").Find(&branches).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Branches illisibles")
	}
	return render(c, "assurance_form", fiber.Map{
		"Title":    title,
		"Form":     form,
		"Errors":   errs,
		"Clients":  clients,
		"Branches": branches,
	})
}

func AssuranceCreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost {
			return renderAssuranceForm(c, assuranceForm{}, nil, "Ajouter une assurance")
		}

		form := readAssuranceForm(c)
		var assurance models.Assurance
		if errs := form.apply(&assurance); errs != nil {
			return renderAssuranceForm(c, form, errs, "Ajouter une assurance")
		}
		if err := database.DB.Create(&assurance).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Assurance non créée")
		}
		return c.Redirect("/assurances/")
	}
}

func AssuranceEditHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var assurance models.Assurance
		if err := database.DB.First(&assurance, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Assurance introuvable")
		}

		if c.Method() != fiber.MethodPost {
			return renderAssuranceForm(c, assuranceFormOf(assurance), nil, "Modifier l'assurance")
		}

		form := readAssuranceForm(c)
		if errs := form.apply(&assurance); errs != nil {
			return renderAssuranceForm(c, form, errs, "Modifier l'assurance")
		}
		if err := database.DB.Save(&assurance).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Assurance non mise à jour")
		}
		return c.Redirect("/assurances/")
	}
}

func AssuranceDeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var assurance models.Assurance
		if err := database.DB.Preload("Client").First(&assurance, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Assurance introuvable")
		}

		if c.Method() != fiber.MethodPost {
			return render(c, "confirm_delete", fiber.Map{
				"Title":  "Supprimer l'assurance",
				"Objet":  assurance.DisplayName(),
				"Retour": "/assurances/",
			})
		}

		if err := database.DB.Delete(&assurance).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Assurance non supprimée")
		}
		return c.Redirect("/assurances/")
	}
}
