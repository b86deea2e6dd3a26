package sim

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"craneguard/internal/alert"
	"craneguard/internal/collision"
	"craneguard/internal/config"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// Controller is the part of the simulator the TUI can drive.
type Controller interface {
	StopAll()
	SetSpeedMultiplier(float64) float64
	SpeedMultiplier() float64
	ApplyScenario(string) bool
}

// logMsg carries a log line for the event viewport.
type logMsg struct{ line string }

// snapshotMsg carries the latest snapshot.
type snapshotMsg struct{ Snapshot }

// adminMsg reports admin server status.
type adminMsg struct{ active bool }

type setControllerMsg struct{ ctrl Controller }

const (
	maxLogLines         = 1000
	maxSectionHeightPct = 0.3
	speedStep           = 0.5
)

// TUIWriter renders snapshots using a bubbletea TUI.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
// Quitting the TUI interrupts the process.
func NewTUIWriter(cfg *config.SiteConfig) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	p := tea.NewProgram(newTUIModel(cfg), tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// WriteSnapshot implements SnapshotSink.
func (w *TUIWriter) WriteSnapshot(s Snapshot) error {
	for _, e := range s.Transitions {
		w.program.Send(logMsg{line: transitionLine(e)})
	}
	w.program.Send(snapshotMsg{s})
	return nil
}

func transitionLine(e EventState) string {
	to := lipgloss.NewStyle().Foreground(lipgloss.Color(alert.DefaultColors[e.ToLevel])).Render(e.ToLevel.String())
	return fmt.Sprintf("%s[%s]%s %s<->%s %s -> %s dist=%.2fm",
		colorGray, e.Timestamp.Format(time.TimeOnly), colorReset,
		e.CraneA, e.CraneB, e.FromLevel, to, e.Distance)
}

// Write implements io.Writer so log output is shown in the event viewport.
func (w *TUIWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		w.program.Send(logMsg{line: line})
	}
	return len(p), nil
}

// SetAdminStatus updates the admin server indicator.
func (w *TUIWriter) SetAdminStatus(active bool) {
	w.program.Send(adminMsg{active: active})
}

// SetController lets the TUI key bindings drive ctrl.
func (w *TUIWriter) SetController(ctrl Controller) {
	w.program.Send(setControllerMsg{ctrl: ctrl})
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type tuiModel struct {
	cfg            *config.SiteConfig
	table          table.Model
	vp             viewport.Model
	alertVP        viewport.Model
	logs           []string
	alerts         []AlertState
	sim            SimulationState
	highest        collision.Level
	admin          bool
	wrap           bool
	autoscroll     bool
	help           bool
	header         string
	headerHeight   int
	height         int
	ctrl           Controller
	scenarioInput  textinput.Model
	scenarioDialog bool
	notice         string
}

func newTUIModel(cfg *config.SiteConfig) tuiModel {
	if cfg == nil {
		cfg = config.Default()
	}
	cols := []table.Column{
		{Title: "Crane", Width: 8},
		{Title: "Name", Width: 12},
		{Title: "Slew", Width: 7},
		{Title: "Luff", Width: 6},
		{Title: "Slew°/s", Width: 8},
		{Title: "Radius", Width: 7},
		{Title: "Active", Width: 6},
		{Title: "Alert", Width: 8},
	}
	t := table.New(table.WithColumns(cols), table.WithHeight(len(cfg.Cranes)+1))
	return tuiModel{
		cfg:        cfg,
		table:      t,
		vp:         viewport.New(0, 0),
		alertVP:    viewport.New(0, 0),
		autoscroll: true,
	}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(msg.Width * 2 / 3)
		m.vp.Width = msg.Width
		m.alertVP.Width = msg.Width
		m.height = msg.Height
		m.header = m.renderHeader()
		m.headerHeight = lipgloss.Height(m.header)
		m.updateViewportHeight()
		m.refreshViewport()
		m.refreshAlerts()
	case tea.KeyMsg:
		if m.scenarioDialog {
			switch msg.Type {
			case tea.KeyEnter:
				id := strings.TrimSpace(m.scenarioInput.Value())
				if m.ctrl != nil && id != "" {
					if m.ctrl.ApplyScenario(id) {
						m.notice = "scenario " + id + " applied"
					} else {
						m.notice = "unknown scenario " + id
					}
				}
				m.scenarioDialog = false
				m.updateViewportHeight()
			case tea.KeyEsc:
				m.scenarioDialog = false
				m.updateViewportHeight()
			default:
				var cmd tea.Cmd
				m.scenarioInput, cmd = m.scenarioInput.Update(msg)
				return m, cmd
			}
			return m, nil
		}
		if m.help {
			switch msg.String() {
			case "?", "h", "esc":
				m.help = false
				m.updateViewportHeight()
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
			return m, nil
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
			}
			return m, nil
		case "x":
			if m.ctrl != nil {
				m.ctrl.StopAll()
				m.notice = "all cranes stopped"
			}
			return m, nil
		case "+", "=":
			if m.ctrl != nil {
				applied := m.ctrl.SetSpeedMultiplier(m.ctrl.SpeedMultiplier() + speedStep)
				m.notice = fmt.Sprintf("speed x%.1f", applied)
			}
			return m, nil
		case "-":
			if m.ctrl != nil {
				applied := m.ctrl.SetSpeedMultiplier(m.ctrl.SpeedMultiplier() - speedStep)
				m.notice = fmt.Sprintf("speed x%.1f", applied)
			}
			return m, nil
		case "c":
			m.scenarioInput = textinput.New()
			m.scenarioInput.Placeholder = "scenario id"
			m.scenarioInput.SetValue(m.sim.ActiveScenario)
			m.scenarioInput.CursorEnd()
			m.scenarioInput.Focus()
			m.scenarioDialog = true
			m.updateViewportHeight()
			return m, nil
		case "h", "?":
			m.help = !m.help
			m.updateViewportHeight()
			return m, nil
		}
		if !m.autoscroll {
			switch msg.String() {
			case "j", "down":
				m.vp.LineDown(1)
			case "k", "up":
				m.vp.LineUp(1)
			case "pgdown", "ctrl+n":
				m.vp.LineDown(10)
			case "pgup", "ctrl+p":
				m.vp.LineUp(10)
			default:
				var cmd tea.Cmd
				m.vp, cmd = m.vp.Update(msg)
				return m, cmd
			}
			return m, nil
		}
		return m, nil
	case logMsg:
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		m.refreshViewport()
	case snapshotMsg:
		m.sim = msg.Simulation
		m.highest = msg.Status.HighestAlert
		m.alerts = msg.Alerts
		m.table.SetRows(craneRows(msg.Snapshot))
		m.table.SetHeight(len(msg.Cranes) + 1)
		m.header = m.renderHeader()
		m.headerHeight = lipgloss.Height(m.header)
		m.updateViewportHeight()
		m.refreshAlerts()
	case adminMsg:
		m.admin = msg.active
	case setControllerMsg:
		m.ctrl = msg.ctrl
	}
	return m, nil
}

func craneRows(s Snapshot) []table.Row {
	rows := make([]table.Row, 0, len(s.Cranes))
	for _, c := range s.Cranes {
		active := "yes"
		if !c.IsActive {
			active = "no"
		}
		rows = append(rows, table.Row{
			c.ID,
			c.Name,
			strconv.FormatFloat(c.SlewAngle, 'f', 1, 64),
			strconv.FormatFloat(c.LuffingAngle, 'f', 1, 64),
			strconv.FormatFloat(c.SlewSpeed, 'f', 2, 64),
			strconv.FormatFloat(c.WorkingRadius, 'f', 1, 64),
			active,
			s.Status.CraneAlerts[c.ID].String(),
		})
	}
	return rows
}

func (m *tuiModel) updateViewportHeight() {
	bottomHeight := lipgloss.Height(m.renderBottom())

	alertLines := len(m.alerts)
	if alertLines == 0 {
		alertLines = 1
	}
	if limit := m.maxSectionLines(); alertLines > limit {
		alertLines = limit
	}
	m.alertVP.Height = alertLines

	h := m.height - m.headerHeight - bottomHeight - m.alertVP.Height - 5
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshViewport() {
	var lines []string
	for _, l := range m.logs {
		if m.wrap {
			lines = append(lines, wordwrap.String(l, m.vp.Width))
		} else {
			lines = append(lines, l)
		}
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshAlerts() {
	content := "none"
	if len(m.alerts) > 0 {
		lines := make([]string, 0, len(m.alerts))
		for _, a := range m.alerts {
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(a.Color))
			lines = append(lines, style.Render(a.Message))
		}
		content = strings.Join(lines, "\n")
	}
	m.alertVP.SetContent(content)
}

func (m tuiModel) maxSectionLines() int {
	h := int(float64(m.height) * maxSectionHeightPct)
	if h < 1 {
		h = 1
	}
	return h
}

func (m tuiModel) View() string {
	if m.help {
		return m.renderHelp()
	}
	divider := strings.Repeat("─", m.vp.Width)
	sections := []string{
		m.header,
		divider,
		"Alerts:",
		m.alertVP.View(),
		divider,
		"Transitions:",
		m.vp.View(),
		divider,
	}
	if m.scenarioDialog {
		sections = append(sections, "Apply scenario: "+m.scenarioInput.View())
	}
	sections = append(sections, m.renderBottom())
	return strings.Join(sections, "\n")
}

func (m tuiModel) renderHeader() string {
	tableView := m.table.View()
	sep := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("│")
	return lipgloss.JoinHorizontal(lipgloss.Top, tableView, sep, renderSitePanel(m.cfg, m.sim))
}

func renderSitePanel(cfg *config.SiteConfig, sim SimulationState) string {
	var b strings.Builder
	b.WriteString("Site\n")
	fmt.Fprintf(&b, "├─ id       %s\n", sim.SiteID)
	fmt.Fprintf(&b, "├─ scenario %s\n", sim.ActiveScenario)
	fmt.Fprintf(&b, "├─ danger   %.0fm / %.0fs\n", cfg.Alerts.Danger.DistanceM, cfg.Alerts.Danger.TimeToCollisionS)
	fmt.Fprintf(&b, "├─ warning  %.0fm / %.0fs\n", cfg.Alerts.Warning.DistanceM, cfg.Alerts.Warning.TimeToCollisionS)
	fmt.Fprintf(&b, "├─ caution  %.0fm / %.0fs\n", cfg.Alerts.Caution.DistanceM, cfg.Alerts.Caution.TimeToCollisionS)
	fmt.Fprintf(&b, "└─ horizon  %.0fs @ %.1fs", cfg.Prediction.HorizonS, cfg.Prediction.StepS)
	return b.String()
}

func indicator(on bool) string {
	c := lipgloss.Color("9")
	if on {
		c = lipgloss.Color("10")
	}
	return lipgloss.NewStyle().Foreground(c).Render("●")
}

func (m tuiModel) renderBottom() string {
	highest := lipgloss.NewStyle().Foreground(lipgloss.Color(alert.DefaultColors[m.highest])).Render(m.highest.String())
	state := fmt.Sprintf("%sSTATE%s tick=%d %sspeed=x%.1f%s running=%t highest=%s",
		colorBlue, colorReset,
		m.sim.TickCount,
		colorCyan, m.sim.SpeedMultiplier, colorReset,
		m.sim.IsRunning, highest)
	line := fmt.Sprintf("%s | Admin %s | Wrap %s | Scroll %s", state, indicator(m.admin), indicator(m.wrap), indicator(m.autoscroll))
	if m.notice != "" {
		line += " | " + m.notice
	}
	return line
}

func (m tuiModel) renderHelp() string {
	lines := []string{
		"Key Bindings:",
		" q  quit",
		" w  toggle wrap for transition log",
		" s  toggle auto-scroll",
		" x  stop all cranes",
		" +  increase speed multiplier",
		" -  decrease speed multiplier",
		" c  apply scenario",
		" h/? toggle this help view",
		"",
		"When auto-scroll is disabled:",
		" j/k or ↑/↓  scroll one line",
		" pgup/pgdown scroll ten lines",
	}
	return strings.Join(lines, "\n")
}
