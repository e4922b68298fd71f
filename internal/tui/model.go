// Package tui is the full-screen Sahur/İftar countdown.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/smokyabdulrahman/ezan-vakti/internal/api"
	"github.com/smokyabdulrahman/ezan-vakti/internal/countdown"
	"github.com/smokyabdulrahman/ezan-vakti/internal/loader"
	"github.com/smokyabdulrahman/ezan-vakti/internal/prayer"
	"github.com/smokyabdulrahman/ezan-vakti/internal/selection"
)

// User-visible strings.
const (
	titleText       = "Ezan Vakti"
	pickerTitle     = "Şehir Seçiniz"
	locateOption    = "Konumumu Kullan"
	loadingText     = "Vakitler yükleniyor..."
	locatingText    = "Konum aranıyor..."
	errorLabel      = "Hata"
	msgTimesFailed  = "Vakitler alınamadı."
	msgStartFailed  = "Sistem başlatılırken bir hata oluştu."
	msgNoCitySaved  = "Şehir kaydedilemedi."
	msgCitiesFailed = "Şehir listesi alınamadı."
	locateValue     = "locate"
	pickerMaxHeight = 12
)

// Source is satisfied by *loader.Loader.
type Source interface {
	Cities(ctx context.Context) ([]api.City, error)
	LoadTimes(ctx context.Context, cityID string) (api.MonthlyTable, error)
}

// Selector is satisfied by *selection.Selector.
type Selector interface {
	Remembered() (string, bool)
	NeedsOnboarding() bool
	Choose(cityID string) error
	Detect(ctx context.Context) selection.Result
}

type citiesMsg struct {
	cities []api.City
	err    error
}

type loadedMsg struct {
	gen   uint64
	table api.MonthlyTable
	err   error
}

type tickMsg struct {
	gen uint64
	at  time.Time
}

type locatedMsg struct {
	gen uint64
	res selection.Result
}

// Model is the root Bubble Tea model.
type Model struct {
	ctx  context.Context
	src  Source
	sel  Selector
	ctrl *countdown.Controller

	startCity string
	locating  bool
	locateGen uint64

	cities []api.City

	picking bool
	form    *huh.Form
	choice  *string

	notice string
	fatal  string

	spinner  spinner.Model
	progress progress.Model
	help     help.Model
	width    int
}

// New decides the first screen: the remembered city, the onboarding picker,
// or straight to geolocation.
func New(ctx context.Context, src Source, sel Selector) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	m := Model{
		ctx:      ctx,
		src:      src,
		sel:      sel,
		ctrl:     countdown.NewController(),
		choice:   new(string),
		spinner:  s,
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		help:     help.New(),
	}

	if id, ok := sel.Remembered(); ok {
		m.startCity = id
	} else if sel.NeedsOnboarding() {
		m.picking = true
	} else {
		m.locating = true
		m.locateGen = 1
		m.notice = locatingText
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.fetchCities()}
	switch {
	case m.startCity != "":
		cmds = append(cmds, m.beginLoad(m.startCity))
	case m.locating:
		cmds = append(cmds, m.locate())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.progress.Width = min(max(msg.Width-12, 10), 60)
		return m, nil

	case citiesMsg:
		return m.onCities(msg)

	case loadedMsg:
		timerGen, ok := m.ctrl.Finish(msg.gen, msg.table, msg.err)
		if !ok {
			if msg.err != nil && m.ctrl.Frame().Status == countdown.StatusFailed {
				log.Error().Err(msg.err).Str("city", m.ctrl.CityID()).Msg("Error fetching prayer times")
			}
			return m, nil
		}
		return m, firstTick(timerGen)

	case tickMsg:
		_, action := m.ctrl.Tick(msg.gen, msg.at)
		switch action {
		case countdown.ActionContinue:
			return m, nextTick(msg.gen)
		case countdown.ActionReload:
			log.Debug().Str("city", m.ctrl.CityID()).Msg("boundary reached, reloading")
			return m, m.beginLoad(m.ctrl.CityID())
		}
		return m, nil

	case locatedMsg:
		if msg.gen != m.locateGen || !m.locating {
			log.Debug().Str("city", msg.res.CityID).Msg("dropping superseded location")
			return m, nil
		}
		m.locating = false
		m.fatal = ""
		m.notice = msg.res.Outcome.Message()
		if err := m.sel.Choose(msg.res.CityID); err != nil {
			log.Error().Err(err).Msg("could not store located city")
			m.notice = msgNoCitySaved
		}
		return m, m.beginLoad(msg.res.CityID)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.picking && m.form != nil {
			return m.updatePicker(msg)
		}
		return m.handleKey(msg)
	}

	if m.picking && m.form != nil {
		return m.updatePicker(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.ctrl.Stop()
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, keys.Change):
		m.picking = true
		m.notice = ""
		if len(m.cities) > 0 {
			cmd := m.openPicker()
			return m, cmd
		}
		return m, m.fetchCities()
	case key.Matches(msg, keys.Reload):
		if id := m.ctrl.CityID(); id != "" {
			m.notice = ""
			m.fatal = ""
			return m, m.beginLoad(id)
		}
		if m.fatal != "" {
			m.fatal = ""
			m.picking = true
			return m, m.fetchCities()
		}
	}
	return m, nil
}

func (m Model) onCities(msg citiesMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.Error().Err(msg.err).Msg("Error fetching cities")
		if m.picking && m.form == nil {
			m.picking = false
			// With a city already counting the picker failure is not fatal.
			if m.ctrl.CityID() != "" {
				m.notice = msgCitiesFailed
			} else {
				m.fatal = msgStartFailed
			}
		}
		return m, nil
	}

	m.cities = msg.cities
	m.fatal = ""
	if m.picking && m.form == nil {
		cmd := m.openPicker()
		return m, cmd
	}
	return m, nil
}

func (m *Model) openPicker() tea.Cmd {
	options := make([]huh.Option[string], 0, len(m.cities)+1)
	options = append(options, huh.NewOption(locateOption, locateValue))
	for _, c := range m.cities {
		options = append(options, huh.NewOption(c.SehirAdi, c.SehirID))
	}

	*m.choice = m.ctrl.CityID()
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(pickerTitle).
				Options(options...).
				Height(pickerMaxHeight).
				Value(m.choice),
		),
	).WithShowHelp(true)
	m.picking = true
	return m.form.Init()
}

func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "ctrl+c":
			m.ctrl.Stop()
			return m, tea.Quit
		case "esc":
			// Only cancellable once there is something to go back to.
			if m.ctrl.CityID() != "" {
				m.picking = false
				m.form = nil
				return m, nil
			}
		}
	}
	if m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.picking = false
	m.form = nil
	m.fatal = ""
	m.locateGen++
	choice := *m.choice
	if choice == locateValue {
		m.locating = true
		m.notice = locatingText
		return m, m.locate()
	}

	m.locating = false
	m.notice = ""
	if err := m.sel.Choose(choice); err != nil {
		log.Error().Err(err).Str("city", choice).Msg("could not store city")
		m.notice = msgNoCitySaved
	}
	return m, m.beginLoad(choice)
}

// beginLoad supersedes any load in flight; its result is tagged with the new
// generation so a late answer for an older city is dropped.
func (m Model) beginLoad(cityID string) tea.Cmd {
	load := m.ctrl.Begin(cityID)
	src, ctx := m.src, m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		table, err := src.LoadTimes(ctx, load.CityID)
		return loadedMsg{gen: load.Gen, table: table, err: err}
	})
}

func (m Model) fetchCities() tea.Cmd {
	src, ctx := m.src, m.ctx
	return func() tea.Msg {
		cities, err := src.Cities(ctx)
		return citiesMsg{cities: cities, err: err}
	}
}

// locate answers with the current locateGen; a manual choice made meanwhile
// bumps it and the answer is dropped unstored.
func (m Model) locate() tea.Cmd {
	sel, ctx, gen := m.sel, m.ctx, m.locateGen
	return func() tea.Msg {
		return locatedMsg{gen: gen, res: sel.Detect(ctx)}
	}
}

func firstTick(gen uint64) tea.Cmd {
	return func() tea.Msg { return tickMsg{gen: gen, at: time.Now()} }
}

func nextTick(gen uint64) tea.Cmd {
	return tea.Tick(countdown.Interval, func(t time.Time) tea.Msg {
		return tickMsg{gen: gen, at: t}
	})
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(titleText))
	if name := m.cityName(); name != "" {
		b.WriteString("  " + cityStyle.Render(name))
	}
	b.WriteString("\n\n")

	switch {
	case m.picking && m.form != nil:
		b.WriteString(m.form.View())
	case m.picking || m.locating:
		b.WriteString(m.spinner.View() + " " + mutedStyle.Render(m.pendingText()))
	case m.fatal != "":
		b.WriteString(errorStyle.Render(errorLabel) + "\n" + m.fatal)
	default:
		b.WriteString(m.countdownView())
	}

	if m.notice != "" && !m.locating {
		b.WriteString("\n\n" + mutedStyle.Render(m.notice))
	}

	body := panelStyle.Render(b.String())
	if m.picking && m.form != nil {
		return body
	}
	return body + "\n" + footerStyle.Render(m.help.View(keys))
}

func (m Model) pendingText() string {
	if m.locating {
		return locatingText
	}
	return "Şehirler yükleniyor..."
}

func (m Model) countdownView() string {
	f := m.ctrl.Frame()
	switch f.Status {
	case countdown.StatusLoading, countdown.StatusIdle:
		return m.spinner.View() + " " + mutedStyle.Render(loadingText)
	case countdown.StatusFailed:
		return errorStyle.Render(errorLabel) + "\n" + errorMessage(f.Err)
	case countdown.StatusNoData:
		return mutedStyle.Render(prayer.LabelNoData)
	}

	bd := f.Boundary
	label := iftarLabelStyle
	if bd.Phase != prayer.PhaseFasting {
		label = sahurLabelStyle
	}

	lines := []string{
		label.Render(bd.Label),
		clockStyle.Render(prayer.FormatClock(bd.Remaining)),
		"",
		m.progress.ViewAs(bd.Progress),
	}
	if info := bd.InfoText(); info != "" {
		lines = append(lines, "", mutedStyle.Render(info))
	}
	if f.Today.MiladiTarihUzun != "" {
		lines = append(lines, mutedStyle.Render(f.Today.MiladiTarihUzun))
	}
	return strings.Join(lines, "\n")
}

func (m Model) cityName() string {
	id := m.ctrl.CityID()
	if id == "" {
		return ""
	}
	if c, ok := loader.FindCity(m.cities, id); ok {
		return c.SehirAdi
	}
	return fmt.Sprintf("#%s", id)
}

// errorMessage distinguishes a broken setup (unknown country, no district)
// from a failed fetch.
func errorMessage(err error) string {
	var le *loader.LookupError
	if errors.As(err, &le) {
		return msgStartFailed
	}
	return msgTimesFailed
}
