package filewatch

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aguxez/nutrilog/models"
)

var expectedHeader = []string{
	"Date", "Meal", "Food Item", "Calories (kcal)", "Protein (g)", "Carbs (g)", "Fat (g)",
}

// ParseFoodLogs reads food log rows from a CSV file.
func ParseFoodLogs(path string) ([]models.NewFoodLog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening food log file: %w", err)
	}
	defer f.Close()

	return ReadFoodLogs(f)
}

// ReadFoodLogs parses CSV food log rows. An empty Date column leaves the date
// to the store (today); dates may be written as 2006-01-02 or 1/2/2006.
func ReadFoodLogs(r io.Reader) ([]models.NewFoodLog, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) != len(expectedHeader) {
		return nil, fmt.Errorf("invalid header length: expected %d columns, got %d", len(expectedHeader), len(header))
	}
	for i, h := range header {
		if strings.TrimSpace(h) != expectedHeader[i] {
			return nil, fmt.Errorf("invalid header: expected %s at position %d, got %s", expectedHeader[i], i, h)
		}
	}

	var entries []models.NewFoodLog
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading record: %w", err)
		}

		entry, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

func parseRow(record []string) (models.NewFoodLog, error) {
	date, err := parseDate(record[0])
	if err != nil {
		return models.NewFoodLog{}, err
	}

	var nums [4]float64
	for i := range nums {
		raw := strings.TrimSpace(record[3+i])
		if raw == "" {
			continue
		}
		nums[i], err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return models.NewFoodLog{}, fmt.Errorf("parsing %s %q: %w", expectedHeader[3+i], raw, err)
		}
	}

	item := strings.TrimSpace(record[2])
	if item == "" {
		return models.NewFoodLog{}, fmt.Errorf("missing food item")
	}

	return models.NewFoodLog{
		Date:     date,
		Meal:     models.MealCategory(strings.ToLower(strings.TrimSpace(record[1]))),
		FoodItem: item,
		Calories: nums[0],
		Protein:  nums[1],
		Carbs:    nums[2],
		Fats:     nums[3],
	}, nil
}

func parseDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	for _, layout := range []string{models.DateLayout, "1/2/2006"} {
		if d, err := time.Parse(layout, raw); err == nil {
			return d.Format(models.DateLayout), nil
		}
	}
	return "", fmt.Errorf("parsing date %s", raw)
}
