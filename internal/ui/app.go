package ui

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"webiq/internal/chat"
	"webiq/internal/particles"
	"webiq/internal/session"
	"webiq/internal/ui/textutil"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
)

// Field IDs for focus rotation.
const (
	FieldURL      = "url"
	FieldQuestion = "question"
)

// Bot messages shown by the app.
const (
	MsgEnterURL     = "Enter at least one URL"
	MsgRestoring    = "Restoring previous chatbot session..."
	MsgWaiting      = "Waiting for chatbot to finish initialization..."
	MsgReady        = "Chatbot is ready! You can start asking questions."
	MsgDisconnected = "WebSocket disconnected. Use Reset to start over."
	MsgSocketError  = "WebSocket error. Check the log."
)

const (
	particleRows = 4
	minChatRows  = 3
)

// Options configures a Model.
type Options struct {
	Lifecycle     Lifecycle
	Dial          DialFunc
	Particles     bool
	ParticleCount int
	Rand          *rand.Rand // nil = time-seeded
}

// Model is the root Bubble Tea model: particle banner, transcript, URL and
// question inputs, status line and help bar.
type Model struct {
	lifecycle Lifecycle
	dial      DialFunc
	keys      KeyMap

	transcript *Transcript
	viewport   viewport.Model
	urlInput   textinput.Model
	question   textinput.Model
	spinner    spinner.Model
	help       help.Model
	focus      *FocusManager
	field      *particles.Field

	urlEnabled      bool
	questionEnabled bool
	busy            bool
	status          string

	// epoch increments on reset; messages from older epochs are dropped.
	epoch     int
	ctx       context.Context
	cancel    context.CancelFunc
	sessionID string
	socket    Socket
	restoring bool

	width  int
	height int
}

// Compile-time interface compliance check
var _ tea.Model = (*Model)(nil)

// NewModel creates the app. If a session is cached, Init restores it.
func NewModel(opts Options) *Model {
	urlInput := textinput.New()
	urlInput.Prompt = "URL  › "
	urlInput.Placeholder = "https://example.com, https://example.org"

	question := textinput.New()
	question.Prompt = "Ask  › "
	question.Placeholder = "Ask a question about the scraped pages"

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = Styles.Status

	m := &Model{
		lifecycle:  opts.Lifecycle,
		dial:       opts.Dial,
		keys:       DefaultKeyMap(),
		transcript: NewTranscript(),
		viewport:   viewport.New(80, 10),
		urlInput:   urlInput,
		question:   question,
		spinner:    sp,
		help:       help.New(),
		urlEnabled: true,
		width:      80,
		height:     24,
	}
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.focus = &FocusManager{
		Current: FieldURL,
		Order:   []string{FieldURL, FieldQuestion},
		Enabled: m.fieldEnabled,
		OnChange: func(from, to string) {
			m.applyFocus(to)
		},
	}
	m.applyFocus(FieldURL)

	if opts.Particles && opts.ParticleCount > 0 {
		rng := opts.Rand
		if rng == nil {
			rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		m.field = particles.New(opts.ParticleCount, float64(m.width), particleRows, rng)
	}

	if m.lifecycle != nil {
		id, err := m.lifecycle.Cached()
		if err != nil {
			log.Warn().Err(err).Msg("could not read cached session")
		}
		if id != "" {
			m.sessionID = id
			m.restoring = true
			m.urlEnabled = false
			m.transcript.Bot(MsgRestoring)
		}
	}
	m.layout()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick}
	if m.field != nil {
		cmds = append(cmds, particleTickCmd())
	}
	if m.restoring {
		cmds = append(cmds, m.restoreCmd())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case particleTickMsg:
		if m.field == nil {
			return m, nil
		}
		m.field.Step()
		return m, particleTickCmd()

	case lifecycleMsg:
		if msg.epoch != m.epoch {
			return m, nil
		}
		m.handleProgress(msg.event)
		return m, msg.next

	case sessionDoneMsg:
		if msg.epoch != m.epoch {
			return m, nil
		}
		return m.handleSessionDone(msg)

	case socketOpenMsg:
		if msg.epoch != m.epoch {
			_ = msg.socket.Close()
			return m, nil
		}
		return m.handleSocketOpen(msg.socket)

	case socketFailedMsg:
		if msg.epoch != m.epoch {
			return m, nil
		}
		log.Error().Err(msg.err).Str("session_id", m.sessionID).Msg("chat socket dial failed")
		m.transcript.HideLoading()
		m.transcript.Bot(MsgSocketError)
		m.transcript.Bot(MsgDisconnected)
		m.busy = false
		m.setStatus("")
		m.refresh()
		return m, nil

	case socketEventMsg:
		if msg.epoch != m.epoch || msg.socket != m.socket {
			return m, nil
		}
		return m.handleSocketEvent(msg.event)

	case sendFailedMsg:
		if msg.epoch != m.epoch {
			return m, nil
		}
		m.transcript.HideLoading()
		m.transcript.Bot("Error: " + msg.err.Error())
		m.refresh()
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdown()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Reset):
		m.reset()
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		if msg.String() == "shift+tab" {
			m.focus.Prev()
		} else {
			m.focus.Next()
		}
		return m, nil
	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case key.Matches(msg, m.keys.Submit):
		switch m.focus.Current {
		case FieldURL:
			return m, m.startScrape()
		case FieldQuestion:
			return m, m.sendQuestion()
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case m.focus.Current == FieldURL && m.urlEnabled:
		m.urlInput, cmd = m.urlInput.Update(msg)
	case m.focus.Current == FieldQuestion && m.questionEnabled:
		m.question, cmd = m.question.Update(msg)
	}
	return m, cmd
}

// startScrape submits the URL field.
func (m *Model) startScrape() tea.Cmd {
	if !m.urlEnabled || m.lifecycle == nil {
		return nil
	}
	urls := session.ParseURLs(m.urlInput.Value())
	if len(urls) == 0 {
		m.transcript.Bot(MsgEnterURL)
		m.refresh()
		return nil
	}

	m.urlEnabled = false
	m.busy = true
	m.setStatus("Starting session…")
	log.Info().Strs("urls", urls).Msg("scrape submitted")

	ctx, lc := m.ctx, m.lifecycle
	return lifecycleCmd(ctx, m.epoch, false, func(progress session.ProgressFunc) (string, error) {
		return lc.Start(ctx, urls, progress)
	})
}

func (m *Model) restoreCmd() tea.Cmd {
	m.busy = true
	m.setStatus("Restoring session…")
	ctx, lc := m.ctx, m.lifecycle
	return lifecycleCmd(ctx, m.epoch, true, func(progress session.ProgressFunc) (string, error) {
		return lc.Restore(ctx, progress)
	})
}

func (m *Model) handleProgress(ev session.Event) {
	if ev.SessionID != "" {
		m.sessionID = ev.SessionID
	}
	switch ev.Stage {
	case session.StageCreating:
		m.setStatus("Creating session…")
	case session.StageScraping:
		m.setStatus("Scraping pages…")
	case session.StageWaiting:
		m.transcript.Bot(MsgWaiting)
		m.transcript.ShowLoading()
		m.setStatus("Indexing…")
	case session.StagePending:
		m.setStatus(fmt.Sprintf("Indexing… (check %d)", ev.Attempt))
	case session.StageReady:
		m.transcript.HideLoading()
		m.transcript.Bot(MsgReady)
		m.setStatus("Connecting…")
	}
	m.refresh()
}

func (m *Model) handleSessionDone(msg sessionDoneMsg) (tea.Model, tea.Cmd) {
	m.restoring = false
	if msg.sessionID != "" {
		m.sessionID = msg.sessionID
	}
	if msg.err != nil {
		log.Error().Err(msg.err).Str("session_id", msg.sessionID).Msg("failed to initialize chatbot")
		m.busy = false
		m.transcript.HideLoading()
		m.transcript.Bot("Failed to initialize chatbot: " + msg.err.Error())
		m.urlEnabled = true
		m.focus.SetFocus(FieldURL)
		m.setStatus("")
		m.refresh()
		return m, nil
	}
	if m.dial == nil {
		m.busy = false
		return m, nil
	}
	return m, dialCmd(m.ctx, m.dial, m.epoch, m.sessionID)
}

func (m *Model) handleSocketOpen(sock Socket) (tea.Model, tea.Cmd) {
	m.socket = sock
	m.busy = false
	m.questionEnabled = true
	m.focus.SetFocus(FieldQuestion)
	m.setStatus("Connected")
	log.Info().Str("session_id", m.sessionID).Msg("chat ready")
	return m, listenSocketCmd(m.epoch, sock)
}

func (m *Model) handleSocketEvent(ev chat.Event) (tea.Model, tea.Cmd) {
	m.transcript.HideLoading()
	switch ev.Kind {
	case chat.EventText:
		m.transcript.Bot(ev.Text)
	case chat.EventError:
		m.transcript.Bot("Error: " + ev.Text)
	case chat.EventSkipped:
		// Nothing to show; the reply still ends the loading bubble.
	case chat.EventClosed:
		if ev.Err != nil {
			m.transcript.Bot(MsgSocketError)
		}
		m.transcript.Bot(MsgDisconnected)
		m.socket = nil
		m.busy = false
		m.questionEnabled = false
		m.question.Reset()
		m.focus.SetFocus(FieldURL)
		m.setStatus("Disconnected")
		m.refresh()
		return m, nil
	}
	m.busy = false
	m.refresh()
	return m, listenSocketCmd(m.epoch, m.socket)
}

// sendQuestion submits the question field.
func (m *Model) sendQuestion() tea.Cmd {
	q := strings.TrimSpace(m.question.Value())
	if q == "" || !m.questionEnabled || m.socket == nil {
		return nil
	}
	m.transcript.Add(RoleUser, q)
	m.question.Reset()
	m.transcript.ShowLoading()
	m.busy = true
	m.refresh()
	return sendCmd(m.epoch, m.socket, q)
}

// reset closes the socket, cancels pending work and forgets the session.
func (m *Model) reset() {
	m.cancel()
	if m.socket != nil {
		_ = m.socket.Close()
	}
	m.socket = nil
	m.epoch++
	m.ctx, m.cancel = context.WithCancel(context.Background())

	m.transcript = NewTranscript()
	m.urlInput.Reset()
	m.urlEnabled = true
	m.question.Reset()
	m.questionEnabled = false
	m.busy = false
	m.restoring = false
	m.sessionID = ""
	m.focus.SetFocus(FieldURL)
	m.applyFocus(FieldURL)
	m.setStatus("")

	if m.lifecycle != nil {
		if err := m.lifecycle.Reset(); err != nil {
			log.Error().Err(err).Msg("failed to clear session cache")
		}
	}
	m.refresh()
}

func (m *Model) shutdown() {
	m.cancel()
	if m.socket != nil {
		_ = m.socket.Close()
		m.socket = nil
	}
}

func (m *Model) fieldEnabled(id string) bool {
	switch id {
	case FieldURL:
		return m.urlEnabled
	case FieldQuestion:
		return m.questionEnabled
	}
	return false
}

func (m *Model) applyFocus(id string) {
	if id == FieldURL {
		m.urlInput.Focus()
		m.question.Blur()
	} else {
		m.question.Focus()
		m.urlInput.Blur()
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
}

// layout sizes the widgets for the current window.
func (m *Model) layout() {
	banner := 0
	if m.field != nil {
		banner = particleRows
		m.field.Resize(float64(m.width), particleRows)
	}
	// title + chat border (2) + two inputs + status + help
	chrome := 1 + 2 + 2 + 1 + 1
	rows := m.height - banner - chrome
	if rows < minChatRows {
		rows = minChatRows
	}
	m.viewport.Width = m.width - 4
	m.viewport.Height = rows
	m.urlInput.Width = m.width - 12
	m.question.Width = m.width - 12
	m.help.Width = m.width
	m.refresh()
}

// refresh re-renders the transcript and keeps the newest message visible.
func (m *Model) refresh() {
	m.viewport.SetContent(m.transcript.Render(m.viewport.Width))
	m.viewport.GotoBottom()
}

// View implements tea.Model.
func (m *Model) View() string {
	var sections []string
	if m.field != nil {
		sections = append(sections, Styles.Particles.Render(m.field.Render(m.width, particleRows)))
	}
	sections = append(sections,
		Styles.Title.Render("WebIQ")+" "+Styles.Hint.Render(textutil.Truncate(m.sessionLabel(), m.width-6)),
		Styles.Chat.Render(m.viewport.View()),
		m.fieldView(FieldURL, m.urlInput.View(), m.urlEnabled),
		m.fieldView(FieldQuestion, m.question.View(), m.questionEnabled),
		m.statusView(),
		m.help.View(m.keys),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) sessionLabel() string {
	if m.sessionID == "" {
		return "no session"
	}
	return "session " + m.sessionID
}

func (m *Model) fieldView(id, view string, enabled bool) string {
	switch {
	case !enabled:
		return Styles.FieldOff.Render(view)
	case m.focus.Current == id:
		return Styles.FieldFocus.Render(view)
	default:
		return Styles.Field.Render(view)
	}
}

func (m *Model) statusView() string {
	if m.status == "" {
		return ""
	}
	if m.busy {
		return m.spinner.View() + " " + Styles.Status.Render(m.status)
	}
	return Styles.Status.Render(m.status)
}
