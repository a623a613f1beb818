package main

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kass/go-geo-fence/pkg/workload"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Interactive walk through the batch filters",
	Long: `Generate random points around Chengdu and run the polygon, circle, line and
curve filters over them with live progress. Prints plain text when stdout is not
a terminal.`,
	RunE: runDemo,
}

var (
	demoPoints int
	demoRuns   int
)

func init() {
	demoCmd.Flags().IntVarP(&demoPoints, "points", "n", 1000000, "Number of random points")
	demoCmd.Flags().IntVar(&demoRuns, "runs", 20, "Runs per scenario")
}

type stage int

const (
	stageGenerating stage = iota
	stageFiltering
	stageDone
)

type model struct {
	stage           stage
	spinner         spinner.Model
	progress        progress.Model
	progressPercent float64

	points   int
	genTime  time.Duration
	current  string
	results  []workload.Result
	err      error
	messages []string
}

type progressMsg float64
type generatedMsg struct {
	points   int
	duration time.Duration
}
type scenarioMsg string
type resultMsg workload.Result
type doneMsg struct{}
type errMsg struct{ err error }
type messageMsg string

func initialModel() model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF79C6"))

	return model{
		stage:    stageGenerating,
		spinner:  s,
		progress: progress.New(progress.WithDefaultGradient()),
	}
}

func (m model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = max(msg.Width-10, 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		return m, cmd

	case progressMsg:
		m.progressPercent = float64(msg)
		return m, m.progress.SetPercent(float64(msg))

	case generatedMsg:
		m.points = msg.points
		m.genTime = msg.duration
		m.stage = stageFiltering
		return m, nil

	case scenarioMsg:
		m.current = string(msg)
		m.progressPercent = 0
		return m, m.progress.SetPercent(0)

	case resultMsg:
		m.results = append(m.results, workload.Result(msg))
		return m, nil

	case messageMsg:
		m.messages = append(m.messages, string(msg))
		if len(m.messages) > 5 {
			m.messages = m.messages[1:]
		}
		return m, nil

	case errMsg:
		m.err = msg.err
		m.stage = stageDone
		return m, nil

	case doneMsg:
		m.stage = stageDone
		return m, nil
	}

	return m, nil
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Go Geofence Demo"))
	b.WriteString("\n\n")

	switch m.stage {
	case stageGenerating:
		b.WriteString(subtitleStyle.Render("Generating Points"))
		b.WriteString("\n\n")
		b.WriteString(m.spinner.View() + fmt.Sprintf(" Generating %d random points...\n", demoPoints))

	case stageFiltering:
		b.WriteString(renderGenerated(m.points, m.genTime))
		for _, r := range m.results {
			b.WriteString(renderResult(r))
		}
		b.WriteString("\n")
		b.WriteString(m.spinner.View() + fmt.Sprintf(" Filtering with the %s scenario (%d runs)...\n\n", m.current, demoRuns))
		b.WriteString(m.progress.ViewAs(m.progressPercent))

	case stageDone:
		if m.err != nil {
			b.WriteString(errorStyle.Render("Demo failed: " + m.err.Error()))
			break
		}
		b.WriteString(renderSummary(m.points, m.genTime, m.results))
	}

	if len(m.messages) > 0 {
		b.WriteString("\n\n")
		b.WriteString(dimStyle.Render("Recent activity:"))
		b.WriteString("\n")
		for _, msg := range m.messages {
			b.WriteString(dimStyle.Render("• " + msg))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("Press 'q' to quit"))

	return b.String()
}

func renderGenerated(points int, d time.Duration) string {
	return successStyle.Render(fmt.Sprintf("✓ Generated %s points in %s\n",
		statStyle.Render(fmt.Sprintf("%d", points)), statStyle.Render(d.Round(time.Millisecond).String())))
}

func renderResult(r workload.Result) string {
	return successStyle.Render(fmt.Sprintf("✓ %-8s %s avg, %s matched, %s points/sec\n",
		r.Kind,
		statStyle.Render(r.AvgDuration.Round(time.Microsecond).String()),
		statStyle.Render(fmt.Sprintf("%d", r.Matched)),
		statStyle.Render(fmt.Sprintf("%.0f", r.PointsPerSec))))
}

func renderSummary(points int, genTime time.Duration, results []workload.Result) string {
	var body strings.Builder
	body.WriteString(infoStyle.Render("Performance Summary:\n\n"))
	body.WriteString(fmt.Sprintf("Points: %s (generated in %s)\n",
		statStyle.Render(fmt.Sprintf("%d", points)), statStyle.Render(genTime.Round(time.Millisecond).String())))
	body.WriteString(fmt.Sprintf("Workers: %s on %d CPU cores\n\n",
		statStyle.Render(fmt.Sprintf("%d", cfg.Batch.Workers)), runtime.NumCPU()))
	for _, r := range results {
		body.WriteString(renderResult(r))
	}
	return subtitleStyle.Render("Demo Complete!") + "\n" + boxStyle.Render(body.String())
}

func runDemo(cmd *cobra.Command, args []string) error {
	if !colorEnabled {
		return executeDemo(plainSink(cmd.OutOrStdout()))
	}

	p := tea.NewProgram(initialModel())
	go func() {
		if err := executeDemo(p.Send); err != nil {
			p.Send(errMsg{err})
			return
		}
		p.Send(doneMsg{})
	}()

	_, err := p.Run()
	return err
}

// executeDemo generates the points and measures every scenario, reporting
// through send
func executeDemo(send func(tea.Msg)) error {
	box, err := workload.DefaultArea.Box()
	if err != nil {
		return err
	}

	start := time.Now()
	points := workload.RandomPoints(demoPoints, box, time.Now().UnixNano())
	send(generatedMsg{points: len(points), duration: time.Since(start)})

	scenarios, err := workload.Scenarios(workload.DefaultArea, cfg.Batch.Options()...)
	if err != nil {
		return err
	}

	for _, s := range scenarios {
		send(scenarioMsg(s.Kind))
		res, err := workload.Measure(s, points, demoRuns, func(done int) {
			send(progressMsg(float64(done) / float64(demoRuns)))
		})
		if err != nil {
			return err
		}
		send(resultMsg(res))
		send(messageMsg(fmt.Sprintf("%s kept %d of %d points", s.Kind, res.Matched, len(points))))
	}
	return nil
}

// plainSink prints demo progress as plain lines
func plainSink(w io.Writer) func(tea.Msg) {
	return func(msg tea.Msg) {
		switch msg := msg.(type) {
		case generatedMsg:
			fmt.Fprintf(w, "Generated %d points in %s\n", msg.points, msg.duration.Round(time.Millisecond))
		case scenarioMsg:
			fmt.Fprintf(w, "Running %s scenario (%d runs)\n", string(msg), demoRuns)
		case resultMsg:
			r := workload.Result(msg)
			fmt.Fprintf(w, "  avg %s, min %s, max %s, matched %d, %.0f points/sec\n",
				r.AvgDuration.Round(time.Microsecond), r.MinDuration.Round(time.Microsecond),
				r.MaxDuration.Round(time.Microsecond), r.Matched, r.PointsPerSec)
		}
	}
}
