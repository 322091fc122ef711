package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"

	"github.com/aguxez/nutrilog/models"
	"github.com/aguxez/nutrilog/router"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	tabStyle      = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	activeTab     = tabStyle.Foreground(lipgloss.Color("230")).Background(lipgloss.Color("62"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle      = lipgloss.NewStyle().Padding(1, 2)
)

const foodColumn = 24

func (m Model) View() string {
	header := m.headerView()
	footer := m.footerView()

	var body string
	if m.mode != modeNone {
		body = boxStyle.Render(m.formView())
	} else if m.showAdvice {
		m.viewport.Height = max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
		body = m.viewport.View()
	} else {
		body = boxStyle.Render(m.routeView())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m Model) routeView() string {
	switch m.route.Name {
	case router.Login:
		return m.loginView()
	case router.Dashboard:
		return m.dashboardView()
	case router.Profile:
		return m.profileView()
	case router.Settings:
		return m.settingsView()
	case router.NotFound:
		return "Page not found.\n\n" + statusStyle.Render("press 1 for the dashboard")
	}
	return ""
}

var formTitles = map[formMode]string{
	modeSettings: "Edit settings",
	modeAddFood:  "Add food",
	modeHealth:   "Log health",
	modeRegister: "Sign up",
}

func (m Model) formView() string {
	title := formTitles[m.mode]
	if m.mode == modeAddFood || m.mode == modeHealth {
		title += ", " + m.viewDay()
	}
	return titleStyle.Render(title) + "\n\n" +
		m.form.view() + "\n" +
		statusStyle.Render("tab to switch fields, enter to save, esc to cancel")
}

func (m Model) headerView() string {
	tabs := []string{titleStyle.Render("nutrilog")}
	for _, t := range []struct{ name, label string }{
		{router.Dashboard, "1 Dashboard"},
		{router.Profile, "2 Profile"},
		{router.Settings, "3 Settings"},
	} {
		style := tabStyle
		if m.route.Name == t.name {
			style = activeTab
		}
		tabs = append(tabs, style.Render(t.label))
	}

	if info := m.users.UserInfo(); info != nil {
		tabs = append(tabs, statusStyle.Render("  "+info.Username))
	}
	return lipgloss.NewStyle().PaddingLeft(1).Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

func (m Model) footerView() string {
	var lines []string
	switch {
	case m.pending > 0:
		lines = append(lines, m.spinner.View()+" loading")
	case m.err != nil:
		lines = append(lines, errorStyle.Render(m.err.Error()))
	case m.status != "":
		lines = append(lines, statusStyle.Render(m.status))
	}
	lines = append(lines, m.help.View(m.keys))
	return lipgloss.NewStyle().PaddingLeft(2).MarginTop(1).Render(strings.Join(lines, "\n"))
}

func (m Model) loginView() string {
	return titleStyle.Render("Log in") + "\n\n" +
		m.login.view() + "\n" +
		statusStyle.Render("tab to switch fields, enter to log in, ctrl+r to sign up, esc to quit")
}

func (m Model) dashboardView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.dayLabel()))
	b.WriteString("\n\n")

	logs := m.logs()
	if len(logs) == 0 {
		b.WriteString(statusStyle.Render("No food logged. Press n to add an entry."))
		b.WriteString("\n")
	}
	for i, l := range logs {
		row := fmt.Sprintf("%-9s %-*s %6s kcal  P %s  C %s  F %s",
			l.Meal,
			foodColumn, truncate.StringWithTail(l.FoodItem, foodColumn, "…"),
			formatNumber(l.Calories),
			grams(l.Protein), grams(l.Carbs), grams(l.Fats),
		)
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + row))
		} else {
			b.WriteString("  " + row)
		}
		b.WriteString("\n")
	}

	total := models.SumLogs(logs)
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Total "))
	fmt.Fprintf(&b, "%s kcal", formatNumber(models.Number(total.Calories)))
	if m.stats != nil && m.stats.TargetCalories > 0 {
		fmt.Fprintf(&b, " of %s", formatNumber(m.stats.TargetCalories))
	}
	fmt.Fprintf(&b, "  P %s  C %s  F %s",
		grams(models.Number(total.Protein)), grams(models.Number(total.Carbs)), grams(models.Number(total.Fats)))
	if m.advice != "" {
		b.WriteString("\n\n")
		b.WriteString(statusStyle.Render("press a to ask the advisor again"))
	}
	return b.String()
}

func (m Model) dayLabel() string {
	today := m.foods.Today()
	if m.day == "" {
		return "Today, " + today
	}
	d, err := time.Parse(models.DateLayout, m.day)
	t, terr := time.Parse(models.DateLayout, today)
	if err != nil || terr != nil {
		return m.day
	}
	return fmt.Sprintf("%s (%s)", d.Format("Mon 2 Jan 2006"), humanize.RelTime(d, t, "ago", "from now"))
}

func (m Model) profileView() string {
	session := m.users.Snapshot()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Profile"))
	b.WriteString("\n\n")

	if session.Loading {
		b.WriteString(statusStyle.Render("loading profile…"))
		b.WriteString("\n")
	}
	if session.Error != "" {
		b.WriteString(errorStyle.Render(session.Error))
		b.WriteString("\n")
	}
	if p := session.UserData; p != nil {
		field(&b, "Name", p.Name)
		field(&b, "Email", p.Email)
		field(&b, "Age", humanize.Comma(int64(p.Age)))
		field(&b, "Height", humanize.FormatFloat("#,###.#", p.Height)+" cm")
		field(&b, "Weight", humanize.FormatFloat("#,###.#", p.Weight)+" kg")
		field(&b, "Preferences", strings.Join(p.DietaryPreferences, ", "))
		field(&b, "Goals", strings.Join(p.HealthGoals, ", "))
	}

	if s := m.stats; s != nil {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Intake"))
		b.WriteString("\n\n")
		field(&b, "Target", formatNumber(s.TargetCalories)+" kcal")
		field(&b, "BMI", humanize.FormatFloat("#.#", float64(s.BMI)))
		field(&b, "Weight", humanize.FormatFloat("#,###.#", float64(s.Weight))+" kg")
	}
	return b.String()
}

func (m Model) settingsView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Settings"))
	b.WriteString("\n\n")

	info := m.users.UserInfo()
	if info == nil {
		b.WriteString(statusStyle.Render("Account details unavailable."))
		return b.String()
	}
	field(&b, "User", info.Username)
	field(&b, "Email", info.Email)
	field(&b, "Name", info.Name)
	field(&b, "Gender", info.Gender)
	field(&b, "Weight", humanize.FormatFloat("#,###.#", float64(info.Weight))+" kg")
	field(&b, "Height", humanize.FormatFloat("#,###.#", float64(info.Height))+" cm")
	field(&b, "Work", string(info.LaborIntensity))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render("press e to edit"))
	return b.String()
}

func field(b *strings.Builder, label, value string) {
	b.WriteString(labelStyle.Render(fmt.Sprintf("%-12s", label)))
	b.WriteString(value)
	b.WriteString("\n")
}

func formatNumber(n models.Number) string {
	return humanize.FormatFloat("#,###.", float64(n))
}

func grams(n models.Number) string {
	return humanize.FormatFloat("#,###.#", float64(n)) + "g"
}
