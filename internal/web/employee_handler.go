package web

import (
	"strconv"
	"strings"
	"time"

	"gestion-assurance/internal/auth"
	"gestion-assurance/internal/database"
	"gestion-assurance/internal/models"

	"github.com/gofiber/fiber/v2"
)

type employeeRow struct {
	ID         uint
	Username   string
	Email      string
	Role       string
	Branche    string
	DateJoined string
	Actif      bool
}

func EmployeeListHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var users []models.Utilisateur
		if err := database.DB.Preload("Branche").Order("username").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Employés illisibles")
		}

		rows := make([]employeeRow, 0, len(users))
		for _, u := range users {
			row := employeeRow{
				ID:         u.ID,
				Username:   u.Username,
				Email:      u.Email,
				Role:       string(u.Role),
				Branche:    "—",
				DateJoined: u.DateJoined.Format("2006-01-02"),
				Actif:      u.IsActive,
			}
			if u.Branche != nil {
				row.Branche = u.Branche.Nom
			}
			rows = append(rows, row)
		}

		return render(c, "employee_list", fiber.Map{"Employees": rows})
	}
}

type employeeForm struct {
	Username  string
	Email     string
	Password1 string
	Password2 string
	Role      string
	Branche   string // id de branche, vide = aucune
}

func (f *employeeForm) validate() map[string]string {
	errs := map[string]string{}
	if f.Username == "" {
		errs["Username"] = "Le nom d'utilisateur est obligatoire."
	}
	if f.Email == "" {
		errs["Email"] = "L'email est obligatoire."
	}
	if f.Password1 == "" {
		errs["Password1"] = "Le mot de passe est obligatoire."
	}
	if f.Password2 == "" {
		errs["Password2"] = "La confirmation du mot de passe est obligatoire."
	} else if f.Password1 != "" && f.Password1 != f.Password2 {
		errs["Password2"] = "Les deux mots de passe ne correspondent pas."
	}
	if !models.ValidRole(models.Role(f.Role)) {
		errs["Role"] = "Rôle invalide."
	}
	return errs
}

// EmployeeAddHandler crée un compte employé. Réservé aux administrateurs
// par le middleware ; le rôle et la branche sont repris tels quels du
// formulaire avant l'enregistrement.
func EmployeeAddHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var branches []models.Branche
		if err := database.DB.Order("nom").Find(&branches).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Branches illisibles")
		}

		bind := fiber.Map{"Roles": models.Roles(), "Branches": branches}

		if c.Method() != fiber.MethodPost {
			bind["Form"] = employeeForm{Role: string(models.RoleAgent)}
			bind["Errors"] = map[string]string{}
			return render(c, "add_employee", bind)
		}

		form := employeeForm{
			Username:  strings.TrimSpace(c.FormValue("username")),
			Email:     strings.TrimSpace(c.FormValue("email")),
			Password1: c.FormValue("password1"),
			Password2: c.FormValue("password2"),
			Role:      c.FormValue("role"),
			Branche:   c.FormValue("branch"),
		}
		errs := form.validate()

		var brancheID *uint
		if form.Branche != "" {
			id, err := strconv.ParseUint(form.Branche, 10, 32)
			if err != nil {
				errs["Branche"] = "Branche invalide."
			} else {
				var branche models.Branche
				if err := database.DB.First(&branche, uint(id)).Error; err != nil {
					errs["Branche"] = "Branche inexistante."
				} else {
					brancheID = &branche.ID
				}
			}
		}

		if len(errs) == 0 {
			var count int64
			database.DB.Model(&models.Utilisateur{}).Where("username = ?", form.Username).Count(&count)
			if count > 0 {
				errs["Username"] = "Ce nom d'utilisateur est déjà pris."
			}
		}

		if len(errs) > 0 {
			bind["Form"] = form
			bind["Errors"] = errs
			bind["FormError"] = "Veuillez corriger les erreurs ci-dessous."
			return render(c, "add_employee", bind)
		}

		hash, err := auth.HashPassword(form.Password1)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Mot de passe non enregistrable")
		}

		user := models.Utilisateur{
			Username:     form.Username,
			Email:        form.Email,
			PasswordHash: hash,
			Role:         models.Role(form.Role),
			BrancheID:    brancheID,
			IsActive:     true,
			DateJoined:   time.Now(),
		}
		if err := database.DB.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Employé non créé")
		}

		sess := auth.Session(c)
		auth.AddFlash(sess, "success", "Employé "+user.Username+" créé avec succès !")
		if err := sess.Save(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Session indisponible")
		}
		return c.Redirect("/employees/")
	}
}
