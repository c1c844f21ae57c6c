package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cwbudde/algo-sonar/ranging"
)

func TestSparkline(t *testing.T) {
	tests := []struct {
		name    string
		history []ranging.Distance
		width   int
		want    string
	}{
		{"empty", nil, 10, ""},
		{"scaled", []ranging.Distance{ranging.At(0), ranging.At(1), ranging.At(2)}, 10, "▁▅█"},
		{"gap", []ranging.Distance{ranging.At(1), ranging.Absent, ranging.At(1)}, 10, "█ █"},
		{"truncated", []ranging.Distance{ranging.At(5), ranging.At(1), ranging.At(2)}, 2, "▅█"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sparkline(tt.history, tt.width); got != tt.want {
				t.Fatalf("Sparkline() = %q, want %q", got, tt.want)
			}
		})
	}
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()

	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}

	return out
}

func TestModelTracksResults(t *testing.T) {
	m := New(Info{Source: "simulated", SampleRate: 48000, Config: ranging.DefaultConfig()}, nil)

	if !strings.Contains(m.View(), "waiting") {
		t.Fatalf("initial view = %q", m.View())
	}

	m = update(t, m, ResultMsg{Seq: 1, Raw: ranging.At(1.715), Smoothed: ranging.At(1.715), Confidence: 0.98})
	m = update(t, m, ResultMsg{Seq: 2})

	if m.cycles != 2 || m.hits != 1 {
		t.Fatalf("cycles=%d hits=%d, want 2 and 1", m.cycles, m.hits)
	}
	if len(m.history) != 2 {
		t.Fatalf("history len = %d", len(m.history))
	}
	if !strings.Contains(m.View(), "no echo") {
		t.Fatal("view does not show the miss")
	}

	m = update(t, m, ResultMsg{Seq: 3, Raw: ranging.At(1.715), Smoothed: ranging.At(1.715)})
	if !strings.Contains(m.View(), "1.72 m") {
		t.Fatalf("view does not show the distance:\n%s", m.View())
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if m.cycles != 0 || len(m.history) != 0 {
		t.Fatal("reset did not clear the history")
	}
}

func TestModelShowsMicLevel(t *testing.T) {
	m := New(Info{}, nil)
	m = update(t, m, ResultMsg{Seq: 1, MicRMS: 0.1, MicDB: -20, MicPeak: 0.25})

	if !strings.Contains(m.View(), "-20.0 dBFS (peak 0.25)") {
		t.Fatalf("view does not show the mic level:\n%s", m.View())
	}
}

func TestModelHistoryBounded(t *testing.T) {
	m := New(Info{}, nil)
	for i := range historyLen + 10 {
		m = update(t, m, ResultMsg{Seq: uint64(i + 1)})
	}
	if len(m.history) != historyLen {
		t.Fatalf("history len = %d, want %d", len(m.history), historyLen)
	}
}

func TestModelQuitStopsOnce(t *testing.T) {
	calls := 0
	m := New(Info{}, func() { calls++ })

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("quit command is not tea.Quit")
	}

	_, _ = next.(Model).Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if calls != 1 {
		t.Fatalf("stop called %d times, want 1", calls)
	}
}

func TestModelShowsError(t *testing.T) {
	m := New(Info{}, nil)
	m = update(t, m, DoneMsg{Err: errors.New("device lost")})
	if !strings.Contains(m.View(), "device lost") {
		t.Fatalf("view = %q", m.View())
	}
}
