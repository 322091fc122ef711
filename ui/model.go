// Package ui is the terminal shell: it renders the current route and runs
// store actions as bubbletea commands.
package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	"github.com/aguxez/nutrilog/agent"
	"github.com/aguxez/nutrilog/models"
	"github.com/aguxez/nutrilog/router"
	"github.com/aguxez/nutrilog/store"
)

// Advisor produces dietary advice for the current day.
type Advisor interface {
	Advise(ctx context.Context) (agent.Advice, error)
}

type Options struct {
	Router *router.Router
	Users  *store.UserStore
	Foods  *store.FoodLogStore
	// Advisor is optional; the advisor key reports it as disabled when nil.
	Advisor Advisor
	Log     logrus.FieldLogger
}

type Model struct {
	ctx     context.Context
	router  *router.Router
	users   *store.UserStore
	foods   *store.FoodLogStore
	advisor Advisor
	log     logrus.FieldLogger

	route    router.Route
	day      string // dashboard date; empty means today
	selected int
	pending  int
	status   string
	err      error
	stats    *models.UserStats

	login form
	// form is the editor open over the route when mode is not modeNone.
	form form
	mode formMode

	advice     string
	showAdvice bool

	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model
	keys     keyMap
	width    int
	height   int
}

func New(ctx context.Context, opts Options) Model {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		ctx:      ctx,
		router:   opts.Router,
		users:    opts.Users,
		foods:    opts.Foods,
		advisor:  opts.Advisor,
		log:      log.WithField("component", "ui"),
		login:    newLoginForm(""),
		spinner:  s,
		viewport: viewport.New(0, 0),
		help:     help.New(),
		keys:     keys,
	}
}

// Route is the route currently shown.
func (m Model) Route() router.Route {
	return m.route
}

func (m Model) Init() tea.Cmd {
	return navigate("/")
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if m.pending == 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case navigateMsg:
		cmd := m.enter(m.router.Navigate(msg.path))
		return m, cmd

	case SessionChangedMsg:
		m.foods.Reset()
		m.stats = nil
		m.advice = ""
		cmd := m.enter(m.router.Navigate(m.route.Path))
		return m, cmd

	case ImportedMsg:
		if msg.Err != nil {
			m.err = msg.Err
		}
		m.status = "imported " + cast.ToString(msg.Added) + " food log(s)"
		return m, nil

	case loginMsg:
		m.done()
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.login = newLoginForm("")
		m.status = "welcome back"
		cmd := m.enter(m.router.Push(router.Dashboard))
		return m, cmd

	case logsMsg:
		m.done()
		if msg.stats != nil {
			m.stats = msg.stats
		}
		if n := len(m.logs()); m.selected >= n {
			m.selected = max(n-1, 0)
		}
		return m, nil

	case deletedMsg:
		m.done()
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.status = "entry deleted"
		if n := len(m.logs()); m.selected >= n {
			m.selected = max(n-1, 0)
		}
		return m, nil

	case profileMsg:
		m.done()
		m.stats = msg.stats
		if msg.err != nil {
			m.err = msg.err
		}
		return m, nil

	case userInfoMsg:
		m.done()
		return m, nil

	case updatedMsg:
		m.done()
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.mode = modeNone
		m.status = "settings saved"
		return m, nil

	case addedMsg:
		m.done()
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.mode = modeNone
		m.status = "food logged"
		return m, nil

	case healthMsg:
		m.done()
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.mode = modeNone
		m.status = "health log saved"
		return m, nil

	case registeredMsg:
		m.done()
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.mode = modeNone
		m.login = newLoginForm(msg.username)
		m.login.move(1)
		m.status = "account created, log in to continue"
		return m, nil

	case adviceMsg:
		m.done()
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		out, err := m.renderMarkdown(msg.advice.Markdown())
		if err != nil {
			m.err = err
			return m, nil
		}
		m.advice = out
		m.showAdvice = true
		m.viewport.SetContent(out)
		m.viewport.GotoTop()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	switch {
	case m.mode != modeNone:
		return m.updateForm(msg)
	case m.route.Name == router.Login:
		return m.updateLogin(msg)
	case m.showAdvice:
		return m.updateAdvice(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Dashboard):
		cmd := m.enter(m.router.Push(router.Dashboard))
		return m, cmd
	case key.Matches(msg, m.keys.Profile):
		cmd := m.enter(m.router.Push(router.Profile))
		return m, cmd
	case key.Matches(msg, m.keys.Settings):
		cmd := m.enter(m.router.Push(router.Settings))
		return m, cmd
	case key.Matches(msg, m.keys.Back):
		cmd := m.enter(m.router.Back())
		return m, cmd
	case key.Matches(msg, m.keys.Logout):
		m.users.Logout()
		m.foods.Reset()
		m.stats = nil
		m.advice = ""
		m.status = "logged out"
		cmd := m.enter(m.router.Navigate(m.route.Path))
		return m, cmd
	case key.Matches(msg, m.keys.Refresh):
		m.err = nil
		cmd := m.load()
		return m, cmd
	}

	switch m.route.Name {
	case router.Dashboard:
		return m.updateDashboard(msg)
	case router.Settings:
		if key.Matches(msg, m.keys.Edit) {
			m.open(modeSettings, m.settingsForm())
		}
	}
	return m, nil
}

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.PrevDay):
		m.day = m.shiftDay(-1)
		m.selected = 0
		cmd := m.load()
		return m, cmd
	case key.Matches(msg, m.keys.NextDay):
		if m.day == "" {
			return m, nil
		}
		m.day = m.shiftDay(1)
		m.selected = 0
		cmd := m.load()
		return m, cmd
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.logs())-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.AddFood):
		m.open(modeAddFood, newFoodForm())
	case key.Matches(msg, m.keys.Health):
		m.open(modeHealth, newHealthForm())
	case key.Matches(msg, m.keys.Delete):
		logs := m.logs()
		if len(logs) == 0 {
			return m, nil
		}
		id := string(logs[m.selected].ID)
		cmd := m.start(deleteLogCmd(m.ctx, m.foods, id, m.viewDay()))
		return m, cmd
	case key.Matches(msg, m.keys.Advise):
		if m.advisor == nil {
			m.status = "advisor disabled: set NUTRILOG_ADVISOR_TOKEN to enable it"
			return m, nil
		}
		m.status = "asking the advisor"
		cmd := m.start(adviseCmd(m.ctx, m.advisor))
		return m, cmd
	}
	return m, nil
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Register) {
		m.open(modeRegister, newRegisterForm())
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyTab, tea.KeyDown:
		m.login.move(1)
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.login.move(-1)
		return m, nil
	case tea.KeyEnter:
		values := m.login.values()
		if values[0] == "" || values[1] == "" {
			m.err = errors.New("username and password are required")
			return m, nil
		}
		m.err = nil
		cmd := m.start(loginCmd(m.ctx, m.users, values[0], values[1]))
		return m, cmd
	}
	cmd := m.login.update(msg)
	return m, cmd
}

// updateForm drives the open editor. Esc closes it; enter validates the values
// and starts the matching store call.
func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeNone
		m.err = nil
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		m.form.move(1)
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.form.move(-1)
		return m, nil
	case tea.KeyEnter:
		cmd, err := m.submit()
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		cmd = m.start(cmd)
		return m, cmd
	}
	cmd := m.form.update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Cmd, error) {
	values := m.form.values()
	switch m.mode {
	case modeSettings:
		req, err := updateRequest(values)
		if err != nil {
			return nil, err
		}
		return updateUserCmd(m.ctx, m.users, req), nil
	case modeAddFood:
		entry, err := foodEntry(values, m.day)
		if err != nil {
			return nil, err
		}
		return addFoodCmd(m.ctx, m.foods, entry), nil
	case modeHealth:
		entry, err := healthEntry(values, m.day)
		if err != nil {
			return nil, err
		}
		return addHealthCmd(m.ctx, m.foods, entry), nil
	case modeRegister:
		req, err := registerRequest(values)
		if err != nil {
			return nil, err
		}
		return registerCmd(m.ctx, m.users, req), nil
	}
	return nil, errors.New("no form open")
}

func (m Model) updateAdvice(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		m.showAdvice = false
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// enter makes route current and starts loading what its view needs.
func (m *Model) enter(route router.Route, err error) tea.Cmd {
	if err != nil {
		m.log.WithError(err).Error("navigation failed")
		m.err = err
		return nil
	}

	if route.Path != m.route.Path {
		m.err = nil
		m.day = ""
		m.selected = 0
	}
	m.route = route
	m.mode = modeNone
	m.showAdvice = false

	if route.Name == router.Login {
		m.login = newLoginForm("")
		return nil
	}
	return m.load()
}

func (m *Model) load() tea.Cmd {
	switch m.route.Name {
	case router.Dashboard:
		return m.start(fetchLogs(m.ctx, m.foods, m.users, m.viewDay(), m.stats == nil))
	case router.Profile:
		return m.start(fetchProfile(m.ctx, m.users))
	case router.Settings:
		return m.start(fetchUserInfo(m.ctx, m.users))
	}
	return nil
}

func (m *Model) open(mode formMode, f form) {
	m.mode = mode
	m.form = f
	m.err = nil
}

func (m *Model) start(cmd tea.Cmd) tea.Cmd {
	m.pending++
	return tea.Batch(m.spinner.Tick, cmd)
}

func (m *Model) done() {
	if m.pending > 0 {
		m.pending--
	}
}

func (m Model) viewDay() string {
	if m.day == "" {
		return m.foods.Today()
	}
	return m.day
}

// shiftDay moves the dashboard date by delta days. Reaching today returns the
// empty marker so the view follows the live "today" list.
func (m Model) shiftDay(delta int) string {
	today := m.foods.Today()
	d, err := time.Parse(models.DateLayout, m.viewDay())
	if err != nil {
		return ""
	}
	next := d.AddDate(0, 0, delta).Format(models.DateLayout)
	if next >= today {
		return ""
	}
	return next
}

func (m Model) logs() []models.FoodLogEntry {
	if m.day == "" {
		return m.foods.TodayLogs()
	}
	logs, _ := m.foods.HistoryLogs(m.day)
	return logs
}

func (m Model) settingsForm() form {
	info := m.users.UserInfo()
	if info == nil {
		return newSettingsForm("", "", "")
	}
	return newSettingsForm(info.Name, cast.ToString(float64(info.Weight)), cast.ToString(float64(info.Height)))
}

func (m Model) renderMarkdown(md string) (string, error) {
	if m.width > 4 {
		md = wordwrap.String(md, m.width-4)
	}
	return glamour.Render(indent.String(md, 2), "dark")
}
