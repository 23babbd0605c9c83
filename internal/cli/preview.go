package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/cruderly/wallie/pkg/i18n"
	"github.com/cruderly/wallie/pkg/reveal"
)

// Preview styles
var (
	previewBeforeStyle  = lipgloss.NewStyle().Foreground(colorGray).Background(lipgloss.Color("236"))
	previewAfterStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("16")).Background(lipgloss.Color("209"))
	previewDividerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorWhite).Background(lipgloss.Color("236"))
)

const (
	previewHeaderLines = 3 // title, hint, blank line
	previewMinRows     = 4
	previewFooterLines = 2
)

func (c *CLI) previewCommand() *cobra.Command {
	var locale string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Try the before/after slider in the terminal",
		Long: `Run the before/after slider of the home page in the terminal.

Drag with the left mouse button to move the divider. The slider keeps its
position as a percentage when the terminal is resized. Press q to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := i18n.Parse(locale)
			if err != nil {
				return err
			}
			catalog, err := i18n.Embedded()
			if err != nil {
				return err
			}

			m := newPreviewModel(catalog.For(l))
			defer m.Close()

			p := tea.NewProgram(m,
				tea.WithContext(cmd.Context()),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
			)
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("preview: %w", err)
			}
			loggerFromContext(cmd.Context()).Debug("preview closed", "position", m.state.PositionPercent())
			return nil
		},
	}

	cmd.Flags().StringVarP(&locale, "locale", "l", string(i18n.Default), "locale of the labels (sr, en, ru)")

	return cmd
}

// =============================================================================
// previewModel - the slider as a bubbletea program
// =============================================================================

// previewModel hosts a reveal.Controller. The terminal width is the slider
// container; mouse presses inside the picture start a drag, and motion and
// releases anywhere continue or end it.
type previewModel struct {
	dict      i18n.Dict
	container reveal.Dispatcher
	global    reveal.Dispatcher
	ctrl      *reveal.Controller
	state     reveal.State
	width     int
	height    int
}

func newPreviewModel(dict i18n.Dict) *previewModel {
	m := &previewModel{dict: dict}
	m.ctrl = reveal.Mount(previewHost{m}, func(s reveal.State) { m.state = s })
	return m
}

// previewHost adapts the model to reveal.Host.
type previewHost struct{ m *previewModel }

func (h previewHost) Container() reveal.EventTarget { return &h.m.container }
func (h previewHost) Global() reveal.EventTarget    { return &h.m.global }
func (h previewHost) Measure() reveal.Bounds {
	return reveal.Bounds{Left: 0, Width: float64(h.m.width)}
}

// Close releases the controller's listeners.
func (m *previewModel) Close() { m.ctrl.Close() }

func (m *previewModel) Init() tea.Cmd {
	return nil
}

func (m *previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.global.Dispatch(reveal.EventResize, reveal.Input{})
	case tea.MouseMsg:
		// Pointer at the middle of the cell.
		in := reveal.Input{X: float64(msg.X) + 0.5}
		switch msg.Action {
		case tea.MouseActionPress:
			if msg.Button == tea.MouseButtonLeft && m.inPicture(msg.Y) {
				m.container.Dispatch(reveal.EventMouseDown, in)
			}
		case tea.MouseActionMotion:
			m.global.Dispatch(reveal.EventMouseMove, in)
		case tea.MouseActionRelease:
			m.global.Dispatch(reveal.EventMouseUp, in)
		}
	}
	return m, nil
}

func (m *previewModel) rows() int {
	return max(m.height-previewHeaderLines-previewFooterLines, previewMinRows)
}

func (m *previewModel) inPicture(y int) bool {
	return y >= previewHeaderLines && y < previewHeaderLines+m.rows()
}

// dividerColumn is the cell the divider is drawn in, or -1 before the first
// window size message.
func (m *previewModel) dividerColumn() int {
	if m.width == 0 {
		return -1
	}
	col := int(m.state.DividerOffset())
	return min(col, m.width-1)
}

func (m *previewModel) View() string {
	if m.width == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render(m.dict.T("slider.title")))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(m.dict.T("slider.hint") + " · q"))
	b.WriteString("\n\n")

	div := m.dividerColumn()
	after := labelRow(m.dict.T("slider.after_alt"), div)
	before := labelRow(m.dict.T("slider.before_alt"), m.width-div-1)
	mid := m.rows() / 2
	for row := 0; row < m.rows(); row++ {
		left, right := strings.Repeat(" ", div), strings.Repeat(" ", m.width-div-1)
		if row == mid {
			left, right = after, before
		}
		b.WriteString(previewAfterStyle.Render(left))
		b.WriteString(previewDividerStyle.Render("┃"))
		b.WriteString(previewBeforeStyle.Render(right))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	status := m.state.PositionPercent()
	if m.state.Dragging {
		status += " · " + m.state.Modality.String()
	}
	b.WriteString(StyleDim.Render("clip-path: " + m.state.ClipInset() + "  " + status))
	return b.String()
}

// labelRow centers label in width cells, truncating it if it does not fit.
func labelRow(label string, width int) string {
	if width <= 0 {
		return ""
	}
	label = runewidth.Truncate(label, width, "")
	pad := width - runewidth.StringWidth(label)
	return strings.Repeat(" ", pad/2) + label + strings.Repeat(" ", pad-pad/2)
}
