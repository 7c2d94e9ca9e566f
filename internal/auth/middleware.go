package auth

import (
	"gestion-assurance/internal/database"
	"gestion-assurance/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CurrentUserMiddleware ouvre la session et résout l'utilisateur courant.
// L'utilisateur est porté par le contexte de la requête (Locals), jamais
// par un état global.
func CurrentUserMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := Store.Get(c)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Session indisponible")
		}
		c.Locals(CtxSessionKey, sess)

		if userID, ok := sess.Get(sessionUserIDKey).(uint); ok {
			var user models.Utilisateur
			if err := database.DB.Preload("Branche").First(&user, userID).Error; err == nil && user.IsActive {
				c.Locals(CtxUserKey, &user)
			}
		}

		return c.Next()
	}
}

// CurrentUser renvoie l'utilisateur connecté, ou nil pour une requête anonyme.
func CurrentUser(c *fiber.Ctx) *models.Utilisateur {
	user, _ := c.Locals(CtxUserKey).(*models.Utilisateur)
	return user
}

// RequireAuth redirige les anonymes vers la page de connexion, en
// conservant l'URL demandée dans le paramètre next.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) == nil {
			return c.Redirect("/login/?next=" + c.Path())
		}
		return c.Next()
	}
}

// RequireAdmin réserve la gestion des employés aux SuperAdmin et
// BranchAdmin. Jamais de 403 côté web : redirection douce avec message.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.Redirect("/login/?next=" + c.Path())
		}
		if !(user.IsSuperAdmin() || user.IsBranchAdmin()) {
			sess := Session(c)
			AddFlash(sess, "error", "Vous n'avez pas les permissions nécessaires.")
			if err := sess.Save(); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Session indisponible")
			}
			return c.Redirect("/")
		}
		return c.Next()
	}
}
