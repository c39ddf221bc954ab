package controller

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	m "leela.dev/pkg/leela/internal/model"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	statusStyle = lipgloss.NewStyle().Faint(true)
)

// TUI implements UI using Bubble Tea: a live progress bar during the run,
// the same tables as PlainUI afterwards.
type TUI struct {
	output  io.Writer
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI writing to output.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the progress display in the background.
func (t *TUI) Start(ctx context.Context, total int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.program = tea.NewProgram(newRunModel(total), tea.WithOutput(t.output))
	t.done = make(chan struct{})

	go func() {
		defer close(t.done)

		_, _ = t.program.Run()
	}()

	return nil
}

// Progress forwards a snapshot to the progress display. Non-blocking.
func (t *TUI) Progress(ctx context.Context, p m.RunProgress) {
	if ctx.Err() != nil || t.program == nil {
		return
	}

	t.program.Send(progressMsg(p))
}

// DisplayEstimation prints the per-file mutant count table.
func (t *TUI) DisplayEstimation(ctx context.Context, mutants []m.Mutant) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(t.output, "\n%s", renderEstimationTable(mutants))

	return err
}

// DisplayReport shuts the progress display down and prints the report.
func (t *TUI) DisplayReport(ctx context.Context, report m.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.stop()

	if _, err := fmt.Fprintf(t.output, "\n%s", renderReportTable(report)); err != nil {
		return err
	}

	if survivors := renderSurvivors(report); survivors != "" {
		if _, err := fmt.Fprintf(t.output, "\nUndetected mutants:\n%s", survivors); err != nil {
			return err
		}
	}

	for _, unit := range report.FailedUnits {
		if _, err := fmt.Fprintf(t.output, "skipped (parse failure): %s\n", unit); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(t.output, "\nMutation score: %.2f%% (%s)\n",
		report.Score*100, report.WallTime.Round(time.Millisecond))

	return err
}

// Close releases the terminal.
func (t *TUI) Close(_ context.Context) {
	t.stop()
}

func (t *TUI) stop() {
	if t.program == nil {
		return
	}

	t.program.Send(quitMsg{})
	<-t.done
	t.program = nil
}

type progressMsg m.RunProgress

type quitMsg struct{}

// runModel is the Bubble Tea model for the live run progress bar.
type runModel struct {
	bar      progress.Model
	snapshot m.RunProgress
	total    int
	width    int
}

func newRunModel(total int) runModel {
	return runModel{
		bar:   progress.New(progress.WithDefaultGradient()),
		total: total,
	}
}

func (rm runModel) Init() tea.Cmd {
	return nil
}

func (rm runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rm.width = msg.Width

		barWidth := msg.Width - 4
		if barWidth > 0 {
			rm.bar.Width = barWidth
		}

		return rm, nil

	case progressMsg:
		rm.snapshot = m.RunProgress(msg)

		return rm, rm.bar.SetPercent(rm.percent())

	case progress.FrameMsg:
		updated, cmd := rm.bar.Update(msg)
		if bar, ok := updated.(progress.Model); ok {
			rm.bar = bar
		}

		return rm, cmd

	case quitMsg:
		return rm, tea.Quit

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return rm, tea.Quit
		}
	}

	return rm, nil
}

func (rm runModel) percent() float64 {
	if rm.total == 0 {
		return 1.0
	}

	return float64(rm.snapshot.Done) / float64(rm.total)
}

func (rm runModel) View() string {
	counts := rm.snapshot.Counts

	return fmt.Sprintf("%s\n  %s\n  %s\n",
		titleStyle.Render("Leela - mutation testing"),
		rm.bar.View(),
		statusStyle.Render(fmt.Sprintf("%d/%d · killed %d · survived %d · timeout %d · error %d · pruned %d",
			rm.snapshot.Done, rm.total,
			counts.Killed, counts.Survived, counts.Timeout, counts.Error, counts.Pruned)),
	)
}
