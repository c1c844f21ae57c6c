// Package tui renders a live terminal dashboard of scan results.
package tui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/cwbudde/algo-sonar/dsp/core"
	"github.com/cwbudde/algo-sonar/ranging"
)

// historyLen is the number of cycles kept for the sparkline.
const historyLen = 60

// ResultMsg delivers one scan result to the model.
type ResultMsg ranging.RangeSample

// DoneMsg reports that the result stream ended.
type DoneMsg struct {
	Err error
}

// Info describes the session shown in the header.
type Info struct {
	Source     string
	SessionID  string
	SampleRate float64
	Config     ranging.Config
}

// Model is the Bubble Tea model of the dashboard.
type Model struct {
	width int

	info Info
	stop func()

	last    ranging.RangeSample
	have    bool
	history []ranging.Distance
	hits    int
	cycles  int

	done bool
	err  error
}

// New returns a dashboard. stop is called once when the user quits.
func New(info Info, stop func()) Model {
	return Model{
		info: info,
		stop: stop,
	}
}

// Forward sends every result to p and then a DoneMsg carrying errFn's value.
// It blocks until results is closed.
func Forward(p *tea.Program, results <-chan ranging.RangeSample, errFn func() error) {
	for r := range results {
		p.Send(ResultMsg(r))
	}

	var err error
	if errFn != nil {
		err = errFn()
	}

	p.Send(DoneMsg{Err: err})
}

// Init implements tea.Model. The model waits for results pushed by Forward.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "Q", "esc", "ctrl+c":
			if m.stop != nil {
				m.stop()
				m.stop = nil
			}
			return m, tea.Quit
		case "r", "R":
			m.history = nil
			m.hits, m.cycles = 0, 0
		}
		return m, nil

	case ResultMsg:
		r := ranging.RangeSample(msg)
		m.last = r
		m.have = true
		m.cycles++
		if r.Detected() {
			m.hits++
		}

		m.history = append(m.history, r.Smoothed)
		if len(m.history) > historyLen {
			m.history = m.history[len(m.history)-historyLen:]
		}
		return m, nil

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	header := fmt.Sprintf("sonar  %s  %s  %.0f-%.0f Hz",
		m.info.Source,
		humanize.SIWithDigits(m.info.SampleRate, 1, "Hz"),
		m.info.Config.StartFreq, m.info.Config.EndFreq)
	b.WriteString(styleTitle.Render(header))
	b.WriteString("\n")

	b.WriteString(stylePanel.Render(m.body()))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(styleError.Render("scan ended: " + m.err.Error()))
		b.WriteString("\n")
	case m.done:
		b.WriteString(styleLabel.Render("scan ended"))
		b.WriteString("\n")
	}

	b.WriteString(styleHelp.Render("q quit  r reset"))

	return b.String()
}

func (m Model) body() string {
	if !m.have {
		return styleLabel.Render("waiting for first echo...")
	}

	var distance string
	if m.last.Smoothed.Valid {
		distance = styleDistance.Render(m.last.Smoothed.String())
	} else {
		distance = styleMiss.Render("no echo")
	}

	rate := 0.0
	if m.cycles > 0 {
		rate = float64(m.hits) / float64(m.cycles)
	}

	rows := []string{
		distance,
		row("raw", m.last.Raw.String()),
		row("confidence", fmt.Sprintf("%.2f %s", m.last.Confidence, meter(m.last.Confidence, 20))),
		row("mic", fmt.Sprintf("%.1f dBFS (peak %.2f)", m.last.MicDB, m.last.MicPeak)),
		row("band", fmt.Sprintf("%.1f dB", m.last.BandPowerDB)),
		row("cycles", fmt.Sprintf("%s (%.0f%% hits)", humanize.Comma(int64(m.cycles)), 100*rate)),
		row("history", styleSpark.Render(Sparkline(m.history, m.sparkWidth()))),
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) sparkWidth() int {
	if m.width <= 20 {
		return historyLen
	}

	return min(historyLen, m.width-20)
}

func row(label, value string) string {
	return styleLabel.Render(fmt.Sprintf("%-11s", label)) + styleValue.Render(value)
}

// meter draws a horizontal bar for v in [0, 1].
func meter(v float64, width int) string {
	n := int(math.Round(core.Clamp(v, 0, 1) * float64(width)))
	return strings.Repeat("█", n) + strings.Repeat("░", width-n)
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Sparkline renders the last width distances scaled to the largest one.
// Absent entries are drawn as spaces.
func Sparkline(history []ranging.Distance, width int) string {
	if width <= 0 || len(history) == 0 {
		return ""
	}

	if len(history) > width {
		history = history[len(history)-width:]
	}

	top := 0.0
	for _, d := range history {
		if d.Valid {
			top = math.Max(top, d.Meters)
		}
	}

	out := make([]rune, len(history))
	for i, d := range history {
		if !d.Valid {
			out[i] = ' '
			continue
		}

		idx := len(sparkRunes) - 1
		if top > 0 {
			idx = int(math.Round(d.Meters / top * float64(len(sparkRunes)-1)))
		}
		out[i] = sparkRunes[idx]
	}

	return string(out)
}
