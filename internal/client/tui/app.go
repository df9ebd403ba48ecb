package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/ghsync/internal/client"
	"github.com/muurk/ghsync/internal/protocol"
)

// phase tracks where the session is in the protocol.
type phase int

const (
	phaseLogin phase = iota
	phaseCommands
	phaseClosed
)

// Messages from the network round trips
type loginAcceptedMsg struct{ resp string }
type loginRejectedMsg struct{ resp string }
type responseMsg struct{ resp string }
type terminatedMsg struct{ ack string }
type errMsg struct{ err error }

// Model is the bubbletea model for the interactive client session.
type Model struct {
	client *client.Client

	phase      phase
	transcript string
	viewport   viewport.Model
	input      textinput.Model
	busy       bool
	err        error

	width  int
	height int
	ready  bool
}

// NewModel creates the session model for an already-dialed client.
func NewModel(c *client.Client) Model {
	ti := textinput.New()
	ti.Placeholder = "GitHub login"
	ti.CharLimit = 120
	ti.Focus()

	return Model{
		client: c,
		phase:  phaseLogin,
		input:  ti,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := msg.Height - 6 // banner, input, hints
		if vpHeight < 3 {
			vpHeight = 3
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.viewport.SetContent(m.transcript)
		m.viewport.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			_ = m.client.Close()
			return m, tea.Quit
		case tea.KeyEnter:
			if m.busy || m.phase == phaseClosed {
				return m, nil
			}
			line := strings.TrimSpace(m.input.Value())
			if line == "" {
				return m, nil
			}
			m.input.Reset()
			m.appendSent(line)
			m.busy = true
			return m, m.roundTrip(line)
		}

	case loginAcceptedMsg:
		m.busy = false
		m.phase = phaseCommands
		m.appendStyled(AcceptedStyle, "login accepted")
		m.appendResponse(msg.resp)
		m.input.Placeholder = "command (/help)"
		return m, nil

	case loginRejectedMsg:
		m.busy = false
		m.appendStyled(ErrorStyle, msg.resp)
		return m, nil

	case responseMsg:
		m.busy = false
		m.appendResponse(msg.resp)
		return m, nil

	case terminatedMsg:
		m.busy = false
		m.phase = phaseClosed
		m.appendResponse(msg.ack)
		return m, tea.Quit

	case errMsg:
		m.busy = false
		m.err = msg.err
		m.appendStyled(ErrorStyle, msg.err.Error())
		m.phase = phaseClosed
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// roundTrip performs the network exchange for one input line.
func (m Model) roundTrip(line string) tea.Cmd {
	c := m.client
	if m.phase == phaseLogin {
		if protocol.IsTerminate(line) {
			return func() tea.Msg {
				ack, err := c.Terminate()
				if err != nil {
					return errMsg{err}
				}
				return terminatedMsg{ack}
			}
		}
		return func() tea.Msg {
			resp, err := c.Login(line)
			if errors.Is(err, client.ErrLoginRejected) {
				return loginRejectedMsg{resp}
			}
			if err != nil {
				return errMsg{err}
			}
			return loginAcceptedMsg{resp}
		}
	}

	if protocol.IsTerminate(line) {
		return func() tea.Msg {
			ack, err := c.Terminate()
			if err != nil {
				return errMsg{err}
			}
			return terminatedMsg{ack}
		}
	}
	return func() tea.Msg {
		resp, err := c.Send(line)
		if err != nil {
			return errMsg{err}
		}
		return responseMsg{resp}
	}
}

func (m *Model) appendSent(line string) {
	m.transcript += SentStyle.Render("> "+line) + "\n"
	m.syncViewport()
}

func (m *Model) appendResponse(resp string) {
	m.transcript += ResponseStyle.Render(strings.TrimRight(resp, "\n")) + "\n"
	m.syncViewport()
}

func (m *Model) appendStyled(style lipgloss.Style, text string) {
	m.transcript += style.Render(strings.TrimRight(text, "\n")) + "\n"
	m.syncViewport()
}

func (m *Model) syncViewport() {
	if m.ready {
		m.viewport.SetContent(m.transcript)
		m.viewport.GotoBottom()
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "connecting..."
	}

	banner := TitleStyle.Render("ghsync") + " " + AddrStyle.Render(m.client.RemoteAddr())

	var state string
	switch {
	case m.busy:
		state = HintStyle.Render("waiting for server...")
	case m.phase == phaseLogin:
		state = HintStyle.Render("enter your GitHub login · bye to quit · esc to abort")
	case m.phase == phaseCommands:
		state = HintStyle.Render("/help for commands · bye to quit · esc to abort")
	default:
		state = HintStyle.Render("session closed")
	}

	return fmt.Sprintf("%s\n%s\n%s\n%s\n", banner, m.viewport.View(), m.input.View(), state)
}

// Run dials nothing itself; it drives an interactive session over an
// existing client connection and blocks until the session ends. A network
// error that ended the session is returned after the terminal is restored.
func Run(c *client.Client) error {
	p := tea.NewProgram(NewModel(c), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.err != nil {
		return m.err
	}
	return nil
}
