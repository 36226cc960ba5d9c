package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/types"
)

// Export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// Export is a rendered shopping list ready to be served as a download.
type Export struct {
	Content     []byte
	ContentType string
	Filename    string
}

// CartIngredient is one raw (name, unit, amount) row pulled from the
// recipes in a user's shopping cart.
type CartIngredient struct {
	Name            string
	MeasurementUnit string
	Amount          int
}

// ShoppingListService aggregates the ingredients of every recipe in a
// user's cart and renders the result. Exporting never mutates the cart.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

func (s *ShoppingListService) Export(ctx context.Context, userID uuid.UUID, format string) (*Export, error) {
	rows, err := s.cartIngredients(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := AggregateIngredients(rows)

	switch format {
	case FormatPDF:
		content, err := RenderPDF(items)
		if err != nil {
			return nil, err
		}
		return &Export{Content: content, ContentType: "application/pdf", Filename: "shopping_list.pdf"}, nil
	case FormatCSV, "":
		content, err := RenderCSV(items)
		if err != nil {
			return nil, err
		}
		return &Export{Content: content, ContentType: "text/csv; charset=utf-8", Filename: "shopping_list.csv"}, nil
	default:
		return nil, validationErr("format", "must be csv or pdf")
	}
}

// cartIngredients flattens the ingredient rows of every recipe in the cart,
// ordered by when the recipe was added so aggregation output is stable.
func (s *ShoppingListService) cartIngredients(ctx context.Context, userID uuid.UUID) ([]CartIngredient, error) {
	var rows []CartIngredient
	err := s.db.WithContext(ctx).
		Table("shopping_carts").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, recipe_ingredients.amount AS amount").
		Joins("JOIN recipes ON recipes.id = shopping_carts.recipe_id AND recipes.deleted_at IS NULL").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_carts.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("shopping_carts.user_id = ?", userID).
		Order("shopping_carts.created_at, ingredients.name").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type aggregationKey struct {
	name string
	unit string
}

// AggregateIngredients sums amounts per (name, measurement unit) pair,
// preserving first-seen order. Keying by unit as well as name keeps
// same-named ingredients measured differently on separate lines.
func AggregateIngredients(rows []CartIngredient) []types.ShoppingListItem {
	totals := make(map[aggregationKey]int, len(rows))
	var order []aggregationKey

	for _, row := range rows {
		key := aggregationKey{name: row.Name, unit: row.MeasurementUnit}
		if _, seen := totals[key]; !seen {
			order = append(order, key)
		}
		totals[key] += row.Amount
	}

	items := make([]types.ShoppingListItem, len(order))
	for i, key := range order {
		items[i] = types.ShoppingListItem{
			Name:            key.name,
			MeasurementUnit: key.unit,
			Amount:          totals[key],
		}
	}
	return items
}

// RenderCSV writes one "· name (unit) - amount" line per item.
func RenderCSV(items []types.ShoppingListItem) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	for _, item := range items {
		line := fmt.Sprintf("· %s (%s) - %d", item.Name, item.MeasurementUnit, item.Amount)
		if err := writer.Write([]string{line}); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderPDF produces a one-column document with the same lines as the CSV
// export. Pages break automatically for long lists.
func RenderPDF(items []types.ShoppingListItem) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	translate := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, translate("Shopping list"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 12)
	for _, item := range items {
		line := fmt.Sprintf("· %s (%s) - %d", item.Name, item.MeasurementUnit, item.Amount)
		pdf.CellFormat(0, 8, translate(line), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
