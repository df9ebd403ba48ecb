package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestModelStartsInLoginPhase(t *testing.T) {
	m := NewModel(nil)
	if m.phase != phaseLogin {
		t.Errorf("initial phase = %v, want phaseLogin", m.phase)
	}
	if m.input.Placeholder != "GitHub login" {
		t.Errorf("initial placeholder = %q", m.input.Placeholder)
	}
}

func TestModelBecomesReadyOnWindowSize(t *testing.T) {
	m := NewModel(nil)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	if !m.ready {
		t.Error("model should be ready after WindowSizeMsg")
	}
	if m.viewport.Width != 80 {
		t.Errorf("viewport.Width = %d, want 80", m.viewport.Width)
	}
}

func TestModelLoginAcceptedSwitchesPhase(t *testing.T) {
	m := NewModel(nil)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	updated, _ = m.Update(loginAcceptedMsg{resp: "User: alice - Alice"})
	m = updated.(Model)

	if m.phase != phaseCommands {
		t.Errorf("phase after accepted login = %v, want phaseCommands", m.phase)
	}
	if !strings.Contains(m.transcript, "User: alice") {
		t.Errorf("transcript missing login response:\n%s", m.transcript)
	}
	if m.input.Placeholder != "command (/help)" {
		t.Errorf("placeholder after login = %q", m.input.Placeholder)
	}
}

func TestModelLoginRejectedStaysInLoginPhase(t *testing.T) {
	m := NewModel(nil)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	updated, _ = m.Update(loginRejectedMsg{resp: "ERROR_LOGIN unknown user"})
	m = updated.(Model)

	if m.phase != phaseLogin {
		t.Errorf("phase after rejected login = %v, want phaseLogin", m.phase)
	}
	if !strings.Contains(m.transcript, "ERROR_LOGIN") {
		t.Errorf("transcript missing rejection:\n%s", m.transcript)
	}
}

func TestModelTerminatedQuits(t *testing.T) {
	m := NewModel(nil)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)

	updated, cmd := m.Update(terminatedMsg{ack: "bye"})
	m = updated.(Model)

	if m.phase != phaseClosed {
		t.Errorf("phase after terminate = %v, want phaseClosed", m.phase)
	}
	if cmd == nil {
		t.Fatal("terminate should produce a quit command")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("terminate command = %v, want tea.Quit", msg)
	}
}
