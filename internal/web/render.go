package web

import (
	"embed"
	"io/fs"
	"net/http"
	"strconv"

	"gestion-assurance/internal/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
)

//go:embed templates
var templatesFS embed.FS

// NewEngine construit le moteur de vues à partir des templates embarqués.
func NewEngine() *html.Engine {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}
	return html.NewFileSystem(http.FS(sub), ".html")
}

func flashClass(level string) string {
	switch level {
	case "success":
		return "success"
	case "error":
		return "danger"
	default:
		return "info"
	}
}

// render affiche une page dans la mise en page commune, en y injectant
// l'utilisateur courant et l'éventuel message flash. La session est
// sauvegardée ici : les handlers qui passent par render ne doivent pas
// appeler Save eux-mêmes.
func render(c *fiber.Ctx, name string, bind fiber.Map) error {
	if bind == nil {
		bind = fiber.Map{}
	}
	if sess := auth.Session(c); sess != nil {
		if f := auth.PopFlash(sess); f != nil {
			bind["Flash"] = f
			bind["FlashClass"] = flashClass(f.Level)
		}
		if err := sess.Save(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Session indisponible")
		}
	}
	bind["User"] = auth.CurrentUser(c)
	return c.Render(name, bind, "layouts/main")
}

const pageSize = 10

type Pagination struct {
	Page     int
	Pages    int
	Total    int64
	HasPrev  bool
	HasNext  bool
	PrevPage int
	NextPage int
}

func pageParam(c *fiber.Ctx) int {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

func newPagination(page int, total int64) Pagination {
	pages := int((total + pageSize - 1) / pageSize)
	if pages < 1 {
		pages = 1
	}
	if page > pages {
		page = pages
	}
	return Pagination{
		Page:     page,
		Pages:    pages,
		Total:    total,
		HasPrev:  page > 1,
		HasNext:  page < pages,
		PrevPage: page - 1,
		NextPage: page + 1,
	}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * pageSize
}
