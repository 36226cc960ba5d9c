package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"gorm.io/gorm/clause"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/models"
)

const batchSize = 500

func main() {
	ingredientsPath := flag.String("ingredients", "data/ingredients.csv", "CSV file with name,measurement_unit rows")
	tagsPath := flag.String("tags", "", "optional CSV file with name,color,slug rows")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	ingredients, err := readIngredients(*ingredientsPath)
	if err != nil {
		log.Fatalf("failed to read ingredients: %v", err)
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(ingredients, batchSize).Error; err != nil {
		log.Fatalf("failed to seed ingredients: %v", err)
	}
	log.Printf("seeded %d ingredients", len(ingredients))

	if *tagsPath != "" {
		tags, err := readTags(*tagsPath)
		if err != nil {
			log.Fatalf("failed to read tags: %v", err)
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).
			CreateInBatches(tags, batchSize).Error; err != nil {
			log.Fatalf("failed to seed tags: %v", err)
		}
		log.Printf("seeded %d tags", len(tags))
	}
}

func readIngredients(path string) ([]models.Ingredient, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	ingredients := make([]models.Ingredient, 0, len(rows))
	for i, row := range rows {
		if len(row) < 2 || row[0] == "" || row[1] == "" {
			return nil, fmt.Errorf("row %d: expected name,measurement_unit", i+1)
		}
		ingredients = append(ingredients, models.Ingredient{
			Name:            row[0],
			MeasurementUnit: row[1],
		})
	}
	return ingredients, nil
}

func readTags(path string) ([]models.Tag, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	tags := make([]models.Tag, 0, len(rows))
	for i, row := range rows {
		if len(row) < 3 || row[0] == "" || row[2] == "" {
			return nil, fmt.Errorf("row %d: expected name,color,slug", i+1)
		}
		tags = append(tags, models.Tag{
			Name:  row[0],
			Color: row[1],
			Slug:  row[2],
		})
	}
	return tags, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
