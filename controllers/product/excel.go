package productcontroller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/food-delivery-api/apperr"
	"github.com/junaidrashid-git/food-delivery-api/logger"
	"github.com/junaidrashid-git/food-delivery-api/models"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// ImportProductsFromExcel upserts products from a sheet laid out like the
// export. Rows with an existing ID update that product; the rest are created.
// Rows that fail validation are counted as skipped.
func ImportProductsFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			apperr.Respond(c, apperr.Invalid("Excel file is required"), "")
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			apperr.Respond(c, err, "Failed to open Excel file")
			return
		}
		defer file.Close()

		xlFile, err := xlsx.OpenReaderAt(file, excelFileHeader.Size)
		if err != nil {
			apperr.Respond(c, apperr.Invalid("Failed to parse Excel file"), "")
			return
		}

		if len(xlFile.Sheets) == 0 || xlFile.Sheets[0].MaxRow < 2 {
			apperr.Respond(c, apperr.Invalid("Excel file is empty or missing header row"), "")
			return
		}

		sheet := xlFile.Sheets[0]
		createdCount, updatedCount, skippedCount := 0, 0, 0

		for i := 1; i < sheet.MaxRow; i++ {
			row := sheet.Rows[i]
			if row == nil || len(row.Cells) < 8 {
				skippedCount++
				continue
			}

			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			created, err := upsertRow(db, get)
			switch {
			case err != nil:
				if !apperr.IsValidation(err) {
					logger.Log.WithError(err).WithField("row", i+1).Warn("product import row failed")
				}
				skippedCount++
			case created:
				createdCount++
			default:
				updatedCount++
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message":      "Import completed",
			"createdCount": createdCount,
			"updatedCount": updatedCount,
			"skippedCount": skippedCount,
		})
	}
}

func upsertRow(db *gorm.DB, get func(int) string) (bool, error) {
	form := productForm{
		Name:        get(1),
		Description: get(3),
		Price:       get(4),
		ImageURL:    get(5),
		IsActive:    get(6),
		CategoryID:  get(7),
	}
	if err := apperr.Validate(form); err != nil {
		return false, err
	}

	created := false
	err := db.Transaction(func(tx *gorm.DB) error {
		product := models.Product{IsActive: true}
		if id := get(0); id != "" {
			err := tx.First(&product, "id = ?", id).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		created = product.ID == ""

		oldName := product.Name
		if err := form.apply(tx, &product); err != nil {
			return err
		}
		if created || product.Name != oldName {
			slug, err := uniqueSlug(tx, &models.Product{}, product.Name, product.ID)
			if err != nil {
				return err
			}
			product.Slug = slug
		}
		if created {
			return tx.Create(&product).Error
		}
		return tx.Save(&product).Error
	})
	return created, err
}
