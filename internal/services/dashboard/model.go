// Package dashboard is the terminal front end: it routes between the home
// page and the three panels and renders whatever state they hold.
package dashboard

import (
	"errors"
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/LeonardoBeccarini/smartagri/internal/logging"
	"github.com/LeonardoBeccarini/smartagri/internal/model"
	simulator "github.com/LeonardoBeccarini/smartagri/internal/sensor-simulator"
	"github.com/LeonardoBeccarini/smartagri/internal/services/analytics"
	"github.com/LeonardoBeccarini/smartagri/internal/services/detection"
	"github.com/LeonardoBeccarini/smartagri/internal/services/router"
)

// feedMsg and diagnosisMsg wake the UI up after a background change.
type (
	feedMsg      model.FeedUpdate
	diagnosisMsg model.DiagnosisCompleted
)

// Deps are the panels the dashboard drives.
type Deps struct {
	Router     *router.Router
	Feed       *simulator.SensorSimulator
	Classifier *detection.Classifier
	Analytics  *analytics.Panel
	Logger     *slog.Logger
}

type Model struct {
	router     *router.Router
	feed       *simulator.SensorSimulator
	classifier *detection.Classifier
	analytics  *analytics.Panel
	logger     *slog.Logger

	events  chan tea.Msg
	input   textinput.Model
	spinner spinner.Model

	width    int
	notice   string
	err      error
	lastFeed *model.FeedUpdate
	quitting bool
}

// New wires the panels together. The feed runs only while the monitoring
// view is on screen.
func New(d Deps) *Model {
	if d.Router == nil {
		d.Router = router.New(d.Logger)
	}
	if d.Feed == nil {
		d.Feed = simulator.NewSensorSimulator(simulator.DefaultConfig(), nil, nil)
	}
	if d.Classifier == nil {
		d.Classifier = detection.NewClassifier(detection.Config{Delay: detection.DefaultDelay}, nil, nil)
	}
	if d.Analytics == nil {
		d.Analytics = analytics.NewPanel(nil)
	}
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}

	in := textinput.New()
	in.Placeholder = "path/to/leaf.jpg"
	in.Prompt = "image> "
	in.CharLimit = 4096

	m := &Model{
		router:     d.Router,
		feed:       d.Feed,
		classifier: d.Classifier,
		analytics:  d.Analytics,
		logger:     d.Logger.With("module", "dashboard"),
		events:     make(chan tea.Msg, 16),
		input:      in,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
	}

	m.router.OnEnter(router.ViewMonitoring, func(_, _ router.View) { m.feed.Start() })
	m.router.OnLeave(router.ViewMonitoring, func(_, _ router.View) {
		m.feed.Stop()
		m.lastFeed = nil
	})
	m.feed.OnUpdate(func(u model.FeedUpdate) { m.post(feedMsg(u)) })
	m.classifier.OnComplete(func(ev model.DiagnosisCompleted) { m.post(diagnosisMsg(ev)) })
	return m
}

// post hands msg to the UI loop without blocking the caller. The views read
// their state from the panels, so a dropped wake-up only delays a redraw.
func (m *Model) post(msg tea.Msg) {
	select {
	case m.events <- msg:
	default:
		m.logger.Debug("ui event dropped")
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg { return <-m.events }
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForEvent(), m.spinner.Tick)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case feedMsg:
		u := model.FeedUpdate(msg)
		if m.feed.Running() {
			m.lastFeed = &u
		}
		return m, m.waitForEvent()

	case diagnosisMsg:
		m.notice = detection.Notice(msg.Result)
		m.err = nil
		return m, m.waitForEvent()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.input.Focused() {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		// leaving monitoring stops the feed
		m.router.Back()
		return m, tea.Quit
	case "1":
		m.show(router.ViewDetection)
	case "2":
		m.show(router.ViewMonitoring)
	case "3":
		m.show(router.ViewAnalytics)
	case "b", "esc":
		m.router.Back()
		m.notice, m.err = "", nil
	default:
		m.updatePanelKeys(msg.String())
	}
	return m, nil
}

func (m *Model) show(v router.View) {
	if err := m.router.Select(v); err != nil {
		m.err = err
		return
	}
	m.notice, m.err = "", nil
}

func (m *Model) updatePanelKeys(key string) {
	switch m.router.Current() {
	case router.ViewMonitoring:
		if key == "r" && m.feed.Refresh() {
			m.notice = "Refreshing sensor data..."
		}
	case router.ViewDetection:
		switch key {
		case "o":
			m.input.SetValue("")
			m.input.Focus()
		case "a":
			if _, ok := m.classifier.Image(); !ok {
				m.err = detection.ErrNoImage
				return
			}
			if _, ok := m.classifier.Analyze(); ok {
				m.notice, m.err = "", nil
			}
		}
	case router.ViewAnalytics:
		switch key {
		case "t":
			m.analytics.CycleTimeRange()
		case "tab":
			m.analytics.CycleTab()
		}
	}
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		path := m.input.Value()
		m.input.Blur()
		m.selectImage(path)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) selectImage(path string) {
	name, data, err := detection.ReadImageFile(path)
	if err == nil {
		_, err = m.classifier.SelectImage(name, data)
	}
	switch {
	case errors.Is(err, detection.ErrNotImage):
		m.notice, m.err = "", errors.New("please select an image file")
	case err != nil:
		m.notice, m.err = "", err
	default:
		m.notice, m.err = "Image selected: "+name, nil
	}
}
