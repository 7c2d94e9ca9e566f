package web

import (
	"fmt"

	"gestion-assurance/internal/database"
	"gestion-assurance/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// ClientExportHandler produit un classeur Excel de tous les clients,
// pour les besoins de reporting du back-office.
func ClientExportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var clients []models.Client
		if err := database.DB.Preload("Branche").Order("id").Find(&clients).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Clients illisibles")
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := "Clients"
		f.SetSheetName("Sheet1", sheet)

		headers := []string{"ID", "Nom", "Prénom", "Adresse", "Email", "Téléphone", "Branche", "Date d'inscription"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		for row, cl := range clients {
			values := []interface{}{
				cl.ID, cl.Nom, cl.Prenom, cl.Adresse, cl.Email, cl.Telephone,
				cl.Branche.Nom, cl.DateInscription.Format("2006-01-02"),
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				f.SetCellValue(sheet, cell, v)
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Export impossible")
		}

		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", "clients.xlsx"))
		return c.Send(buf.Bytes())
	}
}
