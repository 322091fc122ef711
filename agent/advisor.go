// Package agent asks an LLM for short dietary advice based on the day's food
// log and the user's intake targets.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/memory"
	"github.com/tmc/langchaingo/prompts"

	"github.com/aguxez/nutrilog/models"
)

// FoodLogSource provides the day's logged food.
type FoodLogSource interface {
	Today() string
	TodayLogs() []models.FoodLogEntry
	TodayTotal() models.Totals
}

// StatsSource provides the user's intake targets.
type StatsSource interface {
	UserStats(ctx context.Context) *models.UserStats
}

// Advice is the parsed model answer.
type Advice struct {
	Summary     string   `json:"summary"`
	Suggestions []string `json:"suggestions"`
}

// Markdown renders the advice for display.
func (a Advice) Markdown() string {
	var b strings.Builder
	b.WriteString("## Advice\n\n")
	b.WriteString(a.Summary)
	b.WriteString("\n")
	if len(a.Suggestions) > 0 {
		b.WriteString("\n")
		for _, s := range a.Suggestions {
			b.WriteString("- ")
			b.WriteString(s)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Advisor keeps a short window of previous exchanges so follow-up requests
// don't repeat the same suggestions.
type Advisor struct {
	chain        *chains.LLMChain
	bufferMemory *memory.ConversationWindowBuffer
	foods        FoodLogSource
	users        StatsSource
	log          logrus.FieldLogger
}

type Option func(*Advisor)

func WithLogger(log logrus.FieldLogger) Option {
	return func(a *Advisor) { a.log = log }
}

const promptTemplate = `
	You are a personal nutritionist reviewing what someone ate today.
	Consider the following context:

	{{.CombinedInput}}

	Compare the totals with the target calories. Point out what is missing for the
	rest of the day and keep suggestions concrete (foods and rough portions in grams).
	Avoid repeating suggestions already present in the history.

	Stick to this JSON format for the output.

	{
		"summary": string, // Two or three sentences in markdown
		"suggestions": [string] // At most five short suggestions
	}
	`

func NewAdvisor(llm llms.Model, foods FoodLogSource, users StatsSource, opts ...Option) *Advisor {
	a := &Advisor{
		chain: chains.NewLLMChain(
			llm,
			prompts.NewPromptTemplate(promptTemplate, []string{"CombinedInput"}),
		),
		bufferMemory: memory.NewConversationWindowBuffer(5),
		foods:        foods,
		users:        users,
		log:          logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.WithField("component", "advisor")
	return a
}

// Advise asks the model about today's intake.
func (a *Advisor) Advise(ctx context.Context) (Advice, error) {
	history, err := a.bufferMemory.LoadMemoryVariables(ctx, map[string]any{})
	if err != nil {
		return Advice{}, fmt.Errorf("loading memory variables: %w", err)
	}

	input := map[string]any{
		"CombinedInput": a.describeDay(ctx, history["history"]),
	}

	result, err := chains.Call(ctx, a.chain, input)
	if err != nil {
		return Advice{}, fmt.Errorf("calling chain: %w", err)
	}

	if err := a.bufferMemory.SaveContext(ctx, input, result); err != nil {
		a.log.WithError(err).Warn("saving advisor memory")
	}

	text, _ := result["text"].(string)
	text = stripFences(text)
	if text == "" {
		return Advice{}, errors.New("empty advisor response")
	}

	var advice Advice
	if err := json.Unmarshal([]byte(text), &advice); err != nil {
		return Advice{}, fmt.Errorf("unmarshalling response: %w", err)
	}
	return advice, nil
}

func (a *Advisor) describeDay(ctx context.Context, history any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Date: %s\n", a.foods.Today())

	b.WriteString("Foods:\n")
	logs := a.foods.TodayLogs()
	if len(logs) == 0 {
		b.WriteString("- nothing logged yet\n")
	}
	for _, l := range logs {
		fmt.Fprintf(&b, "- [%s] %s: %.0f kcal, %.1fg protein, %.1fg carbs, %.1fg fat\n",
			l.Meal, l.FoodItem, l.Calories, l.Protein, l.Carbs, l.Fats)
	}

	t := a.foods.TodayTotal()
	fmt.Fprintf(&b, "Totals: %.0f kcal, %.1fg protein, %.1fg carbs, %.1fg fat\n",
		t.Calories, t.Protein, t.Carbs, t.Fats)

	if stats := a.users.UserStats(ctx); stats != nil {
		fmt.Fprintf(&b, "Targets: %.0f kcal, BMI %.1f, weight %.1fkg\n",
			stats.TargetCalories, stats.BMI, stats.Weight)
	} else {
		b.WriteString("Targets: unknown\n")
	}

	fmt.Fprintf(&b, "History: %v", history)
	return b.String()
}

func stripFences(s string) string {
	s = strings.ReplaceAll(s, "\n", "")
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
