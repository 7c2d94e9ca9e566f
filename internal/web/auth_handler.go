package web

import (
	"strings"

	"gestion-assurance/internal/auth"
	"gestion-assurance/internal/database"
	"gestion-assurance/internal/models"

	"github.com/gofiber/fiber/v2"
)

// HomeHandler affiche le tableau de bord, ou renvoie les anonymes vers
// la page de connexion.
func HomeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if auth.CurrentUser(c) == nil {
			return c.Redirect("/login/")
		}
		return render(c, "home", fiber.Map{})
	}
}

// LoginHandler gère l'affichage du formulaire (GET) et la connexion
// elle-même (POST). Un utilisateur déjà connecté est renvoyé à l'accueil.
func LoginHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if auth.CurrentUser(c) != nil {
			return c.Redirect("/")
		}

		if c.Method() != fiber.MethodPost {
			return render(c, "login", fiber.Map{"Username": "", "Next": c.Query("next")})
		}

		username := strings.TrimSpace(c.FormValue("username"))
		password := c.FormValue("password")

		var user models.Utilisateur
		err := database.DB.First(&user, "username = ?", username).Error
		if err != nil || !user.IsActive || !auth.CheckPassword(user.PasswordHash, password) {
			return render(c, "login", fiber.Map{
				"Error":    "Nom d'utilisateur ou mot de passe incorrect.",
				"Username": username,
				"Next":     c.Query("next"),
			})
		}

		sess := auth.Session(c)
		sess.Set("user_id", user.ID)
		auth.AddFlash(sess, "success", "Bienvenue "+user.Username+" !")
		if err := sess.Save(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Session indisponible")
		}

		next := c.Query("next", "/")
		if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
			next = "/"
		}
		return c.Redirect(next)
	}
}

// LogoutHandler détruit la session puis renvoie vers la connexion.
func LogoutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := auth.Session(c)
		if err := sess.Destroy(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Session indisponible")
		}

		// Nouvelle session anonyme, uniquement pour porter le message.
		fresh, err := auth.Store.Get(c)
		if err != nil {
			return c.Redirect("/login/")
		}
		auth.AddFlash(fresh, "info", "Vous avez été déconnecté avec succès.")
		if err := fresh.Save(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Session indisponible")
		}
		return c.Redirect("/login/")
	}
}
