package web

import (
	"strings"

	"gestion-assurance/internal/database"
	"gestion-assurance/internal/models"

	"github.com/gofiber/fiber/v2"
)

func BrancheListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var total int64
		if err := database.DB.Model(&models.Branche{}).Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Branches illisibles")
		}
		pagination := newPagination(pageParam(c), total)

		var branches []models.Branche
		if err := database.DB.Order("id").
			Limit(pageSize).Offset(pagination.Offset()).
			Find(&branches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Branches illisibles")
		}

		return render(c, "branche_list", fiber.Map{
			"Branches":   branches,
			"Pagination": pagination,
		})
	}
}

type brancheForm struct {
	Nom   string
	Ville string
}

func (f brancheForm) validate() map[string]string {
	errs := map[string]string{}
	if f.Nom == "" {
		errs["Nom"] = "Le nom est obligatoire."
	}
	if f.Ville == "" {
		errs["Ville"] = "La ville est obligatoire."
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func renderBrancheForm(c *fiber.Ctx, form brancheForm, errs map[string]string, title string) error {
	return render(c, "branche_form", fiber.Map{
		"Title":  title,
		"Form":   form,
		"Errors": errs,
	})
}

func BrancheCreateHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost {
			return renderBrancheForm(c, brancheForm{}, nil, "Ajouter une branche")
		}

		form := brancheForm{
			Nom:   strings.TrimSpace(c.FormValue("nom")),
			Ville: strings.TrimSpace(c.FormValue("ville")),
		}
		if errs := form.validate(); errs != nil {
			return renderBrancheForm(c, form, errs, "Ajouter une branche")
		}

		branche := models.Branche{Nom: form.Nom, Ville: form.Ville}
		if err := database.DB.Create(&branche).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Branche non créée")
		}
		return c.Redirect("/branches/")
	}
}

func BrancheEditHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var branche models.Branche
		if err := database.DB.First(&branche, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Branche introuvable")
		}

		if c.Method() != fiber.MethodPost {
			form := brancheForm{Nom: branche.Nom, Ville: branche.Ville}
			return renderBrancheForm(c, form, nil, "Modifier la branche")
		}

		form := brancheForm{
			Nom:   strings.TrimSpace(c.FormValue("nom")),
			Ville: strings.TrimSpace(c.FormValue("ville")),
		}
		if errs := form.validate(); errs != nil {
			return renderBrancheForm(c, form, errs, "Modifier la branche")
		}

		branche.Nom = form.Nom
		branche.Ville = form.Ville
		if err := database.DB.Save(&branche).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Branche non mise à jour")
		}
		return c.Redirect("/branches/")
	}
}

// La confirmation rappelle que la suppression emporte les clients et
// assurances de la branche.
func BrancheDeleteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var branche models.Branche
		if err := database.DB.First(&branche, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Branche introuvable")
		}

		if c.Method() != fiber.MethodPost {
			return render(c, "confirm_delete", fiber.Map{
				"Title":         "Supprimer la branche",
				"Objet":         branche.Nom,
				"Retour":        "/branches/",
				"Avertissement": "Les clients et assurances de cette branche seront également supprimés.",
			})
		}

		if err := database.DB.Delete(&branche).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Branche non supprimée")
		}
		return c.Redirect("/branches/")
	}
}
