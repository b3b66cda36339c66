package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	btable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/ivoronin/s3bmon/internal/config"
	"github.com/ivoronin/s3bmon/internal/filter"
	"github.com/ivoronin/s3bmon/internal/model"
	"github.com/ivoronin/s3bmon/internal/provider"
	"github.com/ivoronin/s3bmon/internal/table"
)

type tickMsg time.Time

type jobsMsg struct {
	accountID string
	jobs      []model.Job
}

type errMsg struct {
	err error
}

type detailMsg struct {
	jobID string
	raw   map[string]any
}

// detailState is the job-details modal: loading until the describe call
// lands, then a scrollable dump of the raw record.
type detailState struct {
	jobID    string
	loading  bool
	viewport viewport.Model
}

// App is the main application model. It owns the UI state and the fetch
// cycle: at most one fetch is in flight at a time, competing triggers are
// dropped, and results come back as messages on the UI loop.
type App struct {
	cfg    *config.Config
	client provider.Client
	logger zerolog.Logger

	keys    KeyMap
	help    help.Model
	widget  btable.Model
	surface *tableSurface
	recon   *table.Reconciler
	input   textinput.Model

	jobs      []model.Job
	engine    filter.Engine
	accountID string

	fetching  bool
	filtering bool
	alert     string
	detail    *detailState

	width  int
	height int

	now func() time.Time
}

// NewApp creates the application model.
func NewApp(cfg *config.Config, client provider.Client, logger zerolog.Logger) *App {
	columns := []btable.Column{
		{Title: table.Titles[table.ColJobID], Width: 8},
		{Title: table.Titles[table.ColDescription], Width: 24},
		{Title: table.Titles[table.ColStatus], Width: 10},
		{Title: table.Titles[table.ColCreationTime], Width: 14},
		{Title: table.Titles[table.ColTotal], Width: 8},
		{Title: table.Titles[table.ColSuccessPct], Width: 7},
		{Title: table.Titles[table.ColFailurePct], Width: 7},
		{Title: table.Titles[table.ColTasksPerHour], Width: 8},
		{Title: table.Titles[table.ColElapsedHours], Width: 7},
		{Title: table.Titles[table.ColETA], Width: 14},
	}

	widget := btable.New(
		btable.WithColumns(columns),
		btable.WithFocused(true),
		btable.WithHeight(20),
	)
	styles := btable.DefaultStyles()
	styles.Header = tableHeaderStyle
	styles.Selected = tableSelectedStyle
	widget.SetStyles(styles)

	input := textinput.New()
	input.Placeholder = "description filter"
	input.Prompt = "/"
	input.PromptStyle = filterPromptStyle
	input.CharLimit = 64

	app := &App{
		cfg:    cfg,
		client: client,
		logger: logger,
		keys:   keys,
		help:   help.New(),
		widget: widget,
		input:  input,
		now:    func() time.Time { return time.Now().UTC() },
	}
	app.surface = newTableSurface(&app.widget)
	app.recon = table.NewReconciler(app.surface)
	return app
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.startFetch(), a.tickCmd())
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.widget.SetHeight(max(msg.Height-6, 3))
		if a.detail != nil {
			a.detail.viewport.Width = max(msg.Width-6, 20)
			a.detail.viewport.Height = max(msg.Height-8, 5)
		}
		return a, nil

	case tickMsg:
		var cmd tea.Cmd
		if a.alert == "" {
			cmd = a.startFetch()
		}
		return a, tea.Batch(cmd, a.tickCmd())

	case jobsMsg:
		a.fetching = false
		a.accountID = msg.accountID
		a.jobs = msg.jobs
		a.recompute()
		a.logger.Info().Str("account_id", msg.accountID).Int("jobs", len(msg.jobs)).Msg("jobs refreshed")
		return a, nil

	case errMsg:
		a.fetching = false
		a.detail = nil
		a.alert = msg.err.Error()
		a.logger.Error().Err(msg.err).Msg("fetch failed")
		return a, nil

	case detailMsg:
		if a.detail == nil || a.detail.jobID != msg.jobID {
			// Selection changed while the describe call was in flight.
			return a, nil
		}
		content, err := json.MarshalIndent(msg.raw, "", "  ")
		if err != nil {
			content = []byte(fmt.Sprintf("%v", msg.raw))
		}
		a.detail.loading = false
		a.detail.viewport = viewport.New(max(a.width-6, 20), max(a.height-8, 5))
		a.detail.viewport.SetContent(string(content))
		return a, nil
	}

	return a, nil
}

// handleKeyPress handles keyboard input
func (a *App) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The alert modal blocks everything except quitting.
	if a.alert != "" {
		if key.Matches(msg, a.keys.Quit) {
			return a, tea.Quit
		}
		return a, nil
	}

	if a.detail != nil {
		return a.handleDetailKey(msg)
	}

	if a.filtering {
		return a.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Refresh):
		return a, a.startFetch()

	case key.Matches(msg, a.keys.ToggleActive):
		// Pure view-state change, never a fetch.
		a.engine.ActiveOnly = !a.engine.ActiveOnly
		a.recompute()
		return a, nil

	case key.Matches(msg, a.keys.Filter):
		a.filtering = true
		a.input.SetValue(a.engine.Text)
		a.input.Focus()
		a.widget.Blur()
		return a, textinput.Blink

	case key.Matches(msg, a.keys.Select):
		jobID := a.surface.keyAt(a.widget.Cursor())
		if jobID == "" {
			return a, nil
		}
		a.detail = &detailState{jobID: jobID, loading: true}
		return a, a.fetchDetailCmd(jobID)
	}

	var cmd tea.Cmd
	a.widget, cmd = a.widget.Update(msg)
	return a, cmd
}

func (a *App) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "enter":
		a.filtering = false
		a.input.Blur()
		a.widget.Focus()
		a.engine.Text = a.input.Value()
		a.recompute()
		return a, nil
	case "esc":
		a.filtering = false
		a.input.Blur()
		a.widget.Focus()
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Back):
		a.detail = nil
		return a, nil
	}

	var cmd tea.Cmd
	a.detail.viewport, cmd = a.detail.viewport.Update(msg)
	return a, cmd
}

// startFetch enters the Fetching state. A trigger observed while a fetch is
// already in flight is dropped, not queued.
func (a *App) startFetch() tea.Cmd {
	if a.fetching {
		return nil
	}
	a.fetching = true
	return a.fetchJobsCmd()
}

// recompute re-runs the filter and reconciliation pipeline against the jobs
// already held. Called on every state change: jobs replaced, filter changed,
// active-only toggled.
func (a *App) recompute() {
	visible := a.engine.Apply(a.jobs)
	a.recon.Apply(table.BuildRows(visible, a.now()))
}

func (a *App) tickCmd() tea.Cmd {
	return tea.Tick(a.cfg.RefreshInterval(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a *App) fetchJobsCmd() tea.Cmd {
	client := a.client
	return func() tea.Msg {
		ctx := context.Background()
		accountID, err := client.AccountID(ctx)
		if err != nil {
			return errMsg{err}
		}
		jobs, err := client.ListJobs(ctx, accountID)
		if err != nil {
			return errMsg{err}
		}
		return jobsMsg{accountID: accountID, jobs: jobs}
	}
}

func (a *App) fetchDetailCmd(jobID string) tea.Cmd {
	client := a.client
	accountID := a.accountID
	return func() tea.Msg {
		ctx := context.Background()
		if accountID == "" {
			id, err := client.AccountID(ctx)
			if err != nil {
				return errMsg{err}
			}
			accountID = id
		}
		raw, err := client.DescribeJob(ctx, accountID, jobID)
		if err != nil {
			return errMsg{err}
		}
		return detailMsg{jobID: jobID, raw: raw}
	}
}

// View implements tea.Model
func (a *App) View() string {
	if a.alert != "" {
		return a.renderAlert()
	}
	if a.detail != nil {
		return a.renderDetail()
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("S3 Batch Operations Monitor"))
	b.WriteString("  ")
	if a.accountID != "" {
		b.WriteString(subtitleStyle.Render("Account ID: " + a.accountID))
	}
	if a.fetching {
		b.WriteString("  ")
		b.WriteString(loadingStyle.Render("Refreshing..."))
	}
	if a.engine.ActiveOnly {
		b.WriteString("  ")
		b.WriteString(subtitleStyle.Render("[active only]"))
	}
	b.WriteString("\n\n")

	b.WriteString(a.widget.View())
	b.WriteString("\n")

	if a.filtering {
		b.WriteString(a.input.View())
	} else if a.engine.Text != "" {
		b.WriteString(subtitleStyle.Render("filter: " + a.engine.Text))
	}

	b.WriteString(helpStyle.Render("\n" + a.help.View(a.keys)))

	return b.String()
}

func (a *App) renderAlert() string {
	content := a.alert + "\n\n" + subtitleStyle.Render("[q] Quit")
	box := alertBoxStyle.Render(content)
	if a.width == 0 || a.height == 0 {
		return box
	}
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box)
}

func (a *App) renderDetail() string {
	title := titleStyle.Render("Job Details")
	subtitle := subtitleStyle.Render("Job ID: " + a.detail.jobID)

	body := "Loading..."
	if !a.detail.loading {
		body = a.detail.viewport.View()
	}

	content := title + "\n" + subtitle + "\n\n" + detailBoxStyle.Render(body) +
		helpStyle.Render("\n[esc] Back to list  [q] Quit")
	if a.width == 0 || a.height == 0 {
		return content
	}
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
