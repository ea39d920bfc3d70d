package export

import (
	"fmt"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"zerosugar/explorer/internal/domain"
)

// Sheet is the worksheet holding the product rows.
const Sheet = "Sheet1"

var header = []interface{}{"ID", "이름", "카테고리", "대체당", "이미지"}

// ImageFunc resolves the image column; nil writes the raw API path.
type ImageFunc func(*string) string

// Products writes the given products as an xlsx workbook. Category ids are
// resolved against categories; unknown ids leave the cell empty.
func Products(w io.Writer, products []domain.Product, categories []domain.Category, image ImageFunc) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Warnf("⚠️ Failed to close workbook: %v", err)
		}
	}()

	sw, err := f.NewStreamWriter(Sheet)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, p := range products {
		categoryName := ""
		if c, ok := domain.FindCategory(categories, p.CategoryID); ok {
			categoryName = c.Name
		}

		row := []interface{}{
			p.ID,
			p.Name,
			categoryName,
			strings.Join(p.Sweeteners, ", "),
			imageCell(p.ImageURL, image),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write row for product %d: %w", p.ID, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush workbook: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	log.Debugf("Exported %d products", len(products))
	return nil
}

func imageCell(u *string, image ImageFunc) string {
	if image != nil {
		return image(u)
	}
	if u == nil {
		return ""
	}
	return *u
}
