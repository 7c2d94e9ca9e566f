package server

import (
	"strings"

	"gestion-assurance/internal/api"
	"gestion-assurance/internal/auth"
	"gestion-assurance/internal/web"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// New assemble l'application : API JSON d'abord (hors session), puis
// l'interface web derrière le middleware de session.
func New(log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		Views: web.NewEngine(),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Erreur interne du serveur"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			} else {
				log.Error("erreur inattendue", zap.Error(err), zap.String("path", c.Path()))
			}
			if strings.HasPrefix(c.Path(), "/api") {
				return c.Status(code).JSON(fiber.Map{"error": message})
			}
			return c.Status(code).SendString(message)
		},
	})

	apiGroup := app.Group("/api")

	apiGroup.Get("/clients/", api.ListClientsHandler())
	apiGroup.Post("/clients/", api.CreateClientHandler())
	apiGroup.Get("/clients/:id/", api.GetClientHandler())
	apiGroup.Put("/clients/:id/", api.UpdateClientHandler())
	apiGroup.Patch("/clients/:id/", api.UpdateClientHandler())
	apiGroup.Delete("/clients/:id/", api.DeleteClientHandler())

	apiGroup.Get("/assurances/", api.ListAssurancesHandler())
	apiGroup.Post("/assurances/", api.CreateAssuranceHandler())
	apiGroup.Get("/assurances/:id/", api.GetAssuranceHandler())
	apiGroup.Put("/assurances/:id/", api.UpdateAssuranceHandler())
	apiGroup.Patch("/assurances/:id/", api.UpdateAssuranceHandler())
	apiGroup.Delete("/assurances/:id/", api.DeleteAssuranceHandler())

	apiGroup.Get("/branches/", api.ListBranchesHandler())
	apiGroup.Post("/branches/", api.CreateBrancheHandler())
	apiGroup.Get("/branches/:id/", api.GetBrancheHandler())
	apiGroup.Put("/branches/:id/", api.UpdateBrancheHandler())
	apiGroup.Patch("/branches/:id/", api.UpdateBrancheHandler())
	apiGroup.Delete("/branches/:id/", api.DeleteBrancheHandler())

	app.Use(auth.CurrentUserMiddleware())

	app.Get("/", web.HomeHandler())
	app.Get("/login/", web.LoginHandler())
	app.Post("/login/", web.LoginHandler())
	app.Get("/logout/", auth.RequireAuth(), web.LogoutHandler())

	// Gestion des employés, réservée aux administrateurs.
	app.Get("/employees/", auth.RequireAdmin(), web.EmployeeListHandler())
	app.Get("/employees/add/", auth.RequireAdmin(), web.EmployeeAddHandler())
	app.Post("/employees/add/", auth.RequireAdmin(), web.EmployeeAddHandler())

	clients := app.Group("/clients", auth.RequireAuth())
	clients.Get("/", web.ClientListHandler())
	clients.Get("/export/", web.ClientExportHandler())
	clients.Get("/add/", web.ClientCreateHandler())
	clients.Post("/add/", web.ClientCreateHandler())
	clients.Get("/:id/edit/", web.ClientEditHandler())
	clients.Post("/:id/edit/", web.ClientEditHandler())
	clients.Get("/:id/delete/", web.ClientDeleteHandler())
	clients.Post("/:id/delete/", web.ClientDeleteHandler())

	assurances := app.Group("/assurances", auth.RequireAuth())
	assurances.Get("/", web.AssuranceListHandler())
	assurances.Get("/add/", web.AssuranceCreateHandler())
	assurances.Post("/add/", web.AssuranceCreateHandler())
	assurances.Get("/:id/edit/", web.AssuranceEditHandler())
	assurances.Post("/:id/edit/", web.AssuranceEditHandler())
	assurances.Get("/:id/delete/", web.AssuranceDeleteHandler())
	assurances.Post("/:id/delete/", web.AssuranceDeleteHandler())

	branches := app.Group("/branches", auth.RequireAuth())
	branches.Get("/", web.BrancheListHandler())
	branches.Get("/add/", web.BrancheCreateHandler())
	branches.Post("/add/", web.BrancheCreateHandler())
	branches.Get("/:id/edit/", web.BrancheEditHandler())
	branches.Post("/:id/edit/", web.BrancheEditHandler())
	branches.Get("/:id/delete/", web.BrancheDeleteHandler())
	branches.Post("/:id/delete/", web.BrancheDeleteHandler())

	return app
}
