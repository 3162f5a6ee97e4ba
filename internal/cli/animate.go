package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/chordial/chordial/pkg/anim"
	"github.com/chordial/chordial/pkg/config"
	"github.com/chordial/chordial/pkg/graph"
	"github.com/chordial/chordial/pkg/render/chord"
	"github.com/chordial/chordial/pkg/render/chord/sink"
)

// framePollInterval is how often the TUI polls the sequencer for a new
// reveal index. It must undercut the fastest step delay so no frame is
// skipped.
const framePollInterval = 50 * time.Millisecond

// Transport styles
var (
	animBarStyle    = lipgloss.NewStyle().Foreground(colorCyan)
	animPlayStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	animIdleStyle   = lipgloss.NewStyle().Foreground(colorGray)
	animDoneStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	animPausedStyle = lipgloss.NewStyle().Foreground(colorYellow)
)

// animateCommand creates the animate command for interactive reveal playback.
func (c *CLI) animateCommand() *cobra.Command {
	var output string
	style := &styleFlags{}

	cmd := &cobra.Command{
		Use:   "animate [dataset.json]",
		Short: "Play the chord reveal animation with transport controls",
		Long: `Play the chord reveal animation in an interactive terminal session.

Ribbons appear one at a time at the pace set by animation_speed. Every
frame is written to the output SVG, so pointing an auto-reloading viewer
at the file shows the animation as it plays.

Controls: space play/pause, left/right step, r reset, q quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := style.resolve(cmd)
			if err != nil {
				return err
			}
			return c.runAnimate(cmd.Context(), args[0], cfg, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "frame output file (default: <input>.svg)")
	style.register(cmd)

	return cmd
}

// runAnimate builds the scene, then hands control to the transport TUI.
func (c *CLI) runAnimate(ctx context.Context, input string, cfg config.Config, output string) error {
	d, err := graph.ReadDatasetFile(input)
	if err != nil {
		return fmt.Errorf("load dataset %s: %w", input, err)
	}

	cfg.Animate = true
	diagram := chord.New(d, chord.WithConfig(cfg))
	defer diagram.Close()

	scene, err := diagram.Redraw()
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}
	if len(scene.Ribbons) == 0 {
		printWarning("Nothing to animate: dataset has no chords")
		return nil
	}

	outputPath := output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".svg"
	}

	seq := anim.NewSequencer(len(scene.Ribbons), cfg)
	defer seq.Close()

	m := newAnimateModel(diagram, seq, outputPath)
	if err := m.writeFrame(); err != nil {
		return fmt.Errorf("write frame %s: %w", outputPath, err)
	}

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithOutput(os.Stderr))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run animation: %w", err)
	}

	printSuccess("Animation session ended")
	printFile(outputPath)
	return nil
}

// =============================================================================
// AnimateModel - Transport TUI
// =============================================================================

// frameTickMsg drives the render poll while the TUI is on screen.
type frameTickMsg time.Time

func frameTick() tea.Cmd {
	return tea.Tick(framePollInterval, func(t time.Time) tea.Msg {
		return frameTickMsg(t)
	})
}

// animateModel is the bubbletea model for the animate command. The
// sequencer owns the reveal index; the model polls it on a tick, writes
// a frame whenever the index moved, and draws the transport state.
type animateModel struct {
	diagram *chord.Diagram
	seq     *anim.Sequencer
	output  string

	written  int // reveal index of the last frame written
	writeErr error
	width    int
}

// newAnimateModel creates a transport model over a rendered diagram.
func newAnimateModel(diagram *chord.Diagram, seq *anim.Sequencer, output string) animateModel {
	return animateModel{
		diagram: diagram,
		seq:     seq,
		output:  output,
		width:   60,
	}
}

func (m animateModel) Init() tea.Cmd {
	return frameTick()
}

func (m animateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "space":
			if m.seq.State() == anim.Playing {
				m.seq.Pause()
			} else {
				m.seq.Play()
			}
		case "right", "l":
			m.seq.StepForward()
		case "left", "h":
			m.seq.StepBack()
		case "r":
			m.seq.Reset()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case frameTickMsg:
		if m.seq.Index() != m.written {
			if err := m.writeFrame(); err != nil && m.writeErr == nil {
				m.writeErr = err
			}
		}
		return m, frameTick()
	}
	return m, nil
}

func (m animateModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Chord Reveal"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("space play/pause  ←/→ step  r reset  q quit"))
	b.WriteString("\n\n")

	idx, total := m.seq.Index(), m.seq.Total()
	state := m.seq.State()

	b.WriteString("  " + m.progressBar(idx, total))
	b.WriteString("\n\n")
	b.WriteString("  " + stateStyle(state).Render(state.String()))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %d/%d ribbons", idx, total)))
	if m.writeErr != nil {
		b.WriteString("\n  " + StyleWarning.Render("write error: "+m.writeErr.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(StyleDim.Render("  frames " + iconArrow + " " + m.output))
	b.WriteString("\n")

	return b.String()
}

// writeFrame renders the scene with the current reveal count and writes
// it to the output file.
func (m *animateModel) writeFrame() error {
	idx := m.seq.Index()
	scene := m.diagram.Scene()

	svg := sink.RenderSVG(scene,
		sink.WithBackground(scene.Config.Background),
		sink.WithReveal(idx),
		sink.WithDecorations(m.diagram.Renderer()),
	)
	if err := os.WriteFile(m.output, svg, 0o644); err != nil {
		return err
	}
	m.written = idx
	return nil
}

// progressBar renders a filled/empty bar sized to the terminal width.
func (m animateModel) progressBar(idx, total int) string {
	width := m.width - 10
	if width > 48 {
		width = 48
	}
	if width < 10 {
		width = 10
	}

	filled := 0
	if total > 0 {
		filled = idx * width / total
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return animBarStyle.Render(bar)
}

func stateStyle(s anim.State) lipgloss.Style {
	switch s {
	case anim.Playing:
		return animPlayStyle
	case anim.Paused:
		return animPausedStyle
	case anim.Complete:
		return animDoneStyle
	default:
		return animIdleStyle
	}
}
