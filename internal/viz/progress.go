package viz

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/orbitgif/internal/physics"
	"github.com/san-kum/orbitgif/internal/sim"
)

const (
	previewWidth  = 40
	previewHeight = 14
	driftHistory  = 60
)

// StepMsg reports simulation progress to the Progress view.
type StepMsg struct {
	Step      int
	Time      float64
	Recording bool
	Drift     float64
	Bodies    []physics.Body
}

// DoneMsg ends the view.
type DoneMsg struct {
	Err error
}

// Progress is a Bubble Tea model showing a running render. Pressing q or
// ctrl+c calls cancel and waits for the DoneMsg that follows.
type Progress struct {
	title      string
	pre, total int
	cancel     context.CancelFunc
	accent     string

	step      int
	t         float64
	recording bool
	drift     []float64
	bodies    []physics.Body
	started   time.Time
	elapsed   time.Duration
	stopping  bool
	done      bool
	err       error
}

// NewProgress expects pre warm-up steps followed by total recorded steps.
func NewProgress(title string, pre, total int, cancel context.CancelFunc, theme Theme) Progress {
	return Progress{
		title:   title,
		pre:     pre,
		total:   total,
		cancel:  cancel,
		accent:  string(theme.Accent),
		step:    -1,
		started: time.Now(),
	}
}

func (m Progress) Init() tea.Cmd { return nil }

func (m Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if !m.stopping && m.cancel != nil {
				m.cancel()
			}
			m.stopping = true
		}
	case StepMsg:
		m.step = msg.Step
		m.t = msg.Time
		m.recording = msg.Recording
		m.bodies = msg.Bodies
		m.drift = append(m.drift, msg.Drift)
		if len(m.drift) > driftHistory {
			m.drift = m.drift[len(m.drift)-driftHistory:]
		}
		m.elapsed = time.Since(m.started)
	case DoneMsg:
		m.done = true
		m.err = msg.Err
		m.elapsed = time.Since(m.started)
		return m, tea.Quit
	}
	return m, nil
}

// Err is the error carried by DoneMsg.
func (m Progress) Err() error { return m.err }

func (m Progress) fraction() float64 {
	all := m.pre + m.total
	if all == 0 {
		return 1
	}
	return float64(m.step+1) / float64(all)
}

func (m Progress) View() string {
	var s strings.Builder

	accent := m.accent
	if accent == "" {
		accent = "#00ffff"
	}
	s.WriteString(GradientText(strings.ToUpper(m.title), accent, "#ffffff") + "\n\n")

	phase := WarningStyle.Render("warm-up")
	if m.recording {
		phase = SuccessStyle.Render("recording")
	}
	switch {
	case m.done && m.err != nil:
		phase = ErrorStyle.Render("failed")
	case m.done:
		phase = SuccessStyle.Render("done")
	case m.stopping:
		phase = WarningStyle.Render("stopping")
	}

	s.WriteString(ProgressBar(m.fraction(), 30) + fmt.Sprintf(" %3.0f%%\n", 100*m.fraction()))
	s.WriteString(KV("phase", phase) + "\n")
	s.WriteString(KV("step", fmt.Sprintf("%d/%d", m.step+1, m.pre+m.total)) + "\n")
	s.WriteString(KV("frames", fmt.Sprintf("%d/%d", m.frames(), m.total)) + "\n")
	s.WriteString(KV("sim time", fmt.Sprintf("%.3f", m.t)) + "\n")
	s.WriteString(KV("elapsed", m.elapsed.Round(time.Millisecond)) + "\n")
	if len(m.drift) > 0 {
		s.WriteString(KV("energy drift", fmt.Sprintf("%.2e", m.drift[len(m.drift)-1])) + "\n")
		s.WriteString(LabelStyle.Render("") + SparklineChart(m.drift, 30) + "\n")
	}

	if len(m.bodies) > 0 {
		s.WriteString("\n" + PanelStyle.Render(strings.TrimRight(m.preview(), "\n")) + "\n")
	}
	if m.err != nil {
		s.WriteString(ErrorStyle.Render(m.err.Error()) + "\n")
	}
	if !m.done {
		s.WriteString(KeyHint.Render("q: stop") + "\n")
	}
	return s.String()
}

func (m Progress) frames() int {
	return max(0, min(m.step+1-m.pre, m.total))
}

// preview draws every body's trail and current position.
func (m Progress) preview() string {
	c := NewCanvas(previewWidth, previewHeight)
	var pts []physics.Vec2
	for _, b := range m.bodies {
		pts = append(pts, b.Trail().Points()...)
		pts = append(pts, b.Position)
	}
	w, h := c.Dots()
	vp := Fit(pts, w, h)
	for _, b := range m.bodies {
		c.DrawPath(vp, append(b.Trail().Points(), b.Position))
		c.DrawDot(vp, b.Position)
	}
	return c.String()
}

// ProgressObserver forwards simulation snapshots to a running Progress
// program at most once per interval; the initial and final steps are
// always sent.
type ProgressObserver struct {
	send     func(tea.Msg)
	g        float64
	last     int
	interval time.Duration
	sentAt   time.Time
	e0       float64
}

// NewProgressObserver sends to send, usually (*tea.Program).Send. last is
// the index of the final step.
func NewProgressObserver(send func(tea.Msg), g float64, last int, interval time.Duration) *ProgressObserver {
	return &ProgressObserver{send: send, g: g, last: last, interval: interval}
}

var _ sim.Observer = (*ProgressObserver)(nil)

func (o *ProgressObserver) OnStep(s sim.Snapshot) {
	e := physics.Energy(s.Bodies, o.g)
	if s.Step < 0 {
		o.e0 = e
	}

	now := time.Now()
	if s.Step >= 0 && s.Step != o.last && now.Sub(o.sentAt) < o.interval {
		return
	}
	o.sentAt = now

	drift := 0.0
	if o.e0 != 0 {
		drift = math.Abs(e-o.e0) / math.Abs(o.e0)
	}
	o.send(StepMsg{
		Step:      s.Step,
		Time:      s.Time,
		Recording: s.Recording,
		Drift:     drift,
		Bodies:    s.Bodies,
	})
}
