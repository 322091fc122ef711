package models

// Totals is the nutrient sum over a set of food log entries.
type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// Add returns t plus the nutrients of a single entry.
func (t Totals) Add(e FoodLogEntry) Totals {
	return Totals{
		Calories: t.Calories + e.Calories.Float(),
		Protein:  t.Protein + e.Protein.Float(),
		Carbs:    t.Carbs + e.Carbs.Float(),
		Fats:     t.Fats + e.Fats.Float(),
	}
}

// SumLogs folds entries into their element-wise total. Empty input yields the
// zero Totals.
func SumLogs(entries []FoodLogEntry) Totals {
	var total Totals
	for _, e := range entries {
		total = total.Add(e)
	}
	return total
}
