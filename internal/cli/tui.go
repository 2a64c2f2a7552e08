package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/docmark/pkg/cache"
	"github.com/matzehuels/docmark/pkg/pipeline"
	"github.com/matzehuels/docmark/pkg/preview"
)

// Viewer styles
var (
	viewerHeaderStyle = lipgloss.NewStyle().Foreground(colorGray)
	viewerDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	viewerErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// chromeLines is the number of lines taken by the header and footer.
const chromeLines = 4

// =============================================================================
// Messages
// =============================================================================

type tickMsg time.Time

// fileMsg carries a fresh read of the watched file.
type fileMsg struct {
	text string
	hash string
}

// renderedMsg reports that an update finished; the session may have
// discarded it in favour of a newer generation.
type renderedMsg struct {
	generation uint64
}

// errMsg reports a failed read or render.
type errMsg struct {
	err    error
	render bool
}

// =============================================================================
// ViewerModel - live terminal preview
// =============================================================================

// ViewerModel is the bubbletea model behind `docmark view`. It polls a file,
// feeds every change to a preview session and shows the latest published
// text rendering.
type ViewerModel struct {
	Path     string
	Interval time.Duration

	ctx     context.Context
	session *preview.Session
	read    func(path string) (string, error)

	hash       string
	lines      []string
	generation uint64
	pending    int
	err        error

	offset int
	height int
}

// NewViewerModel creates a viewer for path rendering through session.
func NewViewerModel(ctx context.Context, path string, session *preview.Session, read func(string) (string, error), interval time.Duration) ViewerModel {
	return ViewerModel{
		Path:     path,
		Interval: interval,
		ctx:      ctx,
		session:  session,
		read:     read,
		height:   20,
	}
}

func (m ViewerModel) Init() tea.Cmd {
	return tea.Batch(m.readFile(), m.tick())
}

func (m ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.scroll(-1)
		case "down", "j":
			m.scroll(1)
		case "pgup", "b":
			m.scroll(-m.height)
		case "pgdown", " ", "f":
			m.scroll(m.height)
		case "home", "g":
			m.offset = 0
		case "end", "G":
			m.scroll(len(m.lines))
		case "r":
			m.hash = ""
			return m, m.readFile()
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-chromeLines, 3)
		m.scroll(0)
	case tickMsg:
		return m, tea.Batch(m.readFile(), m.tick())
	case fileMsg:
		if msg.hash == m.hash {
			return m, nil
		}
		m.hash = msg.hash
		m.pending++
		return m, m.render(msg.text)
	case renderedMsg:
		m.pending--
		m.err = nil
		m.show(m.session.Latest())
	case errMsg:
		if msg.render {
			m.pending--
		}
		m.err = msg.err
	}
	return m, nil
}

func (m ViewerModel) View() string {
	var b strings.Builder

	status := fmt.Sprintf("%s · %s · generation %d", m.session.Options().Grammar, m.Path, m.generation)
	if m.pending > 0 {
		status += " · rendering"
	}
	b.WriteString(StyleTitle.Render("docmark view"))
	b.WriteString(" ")
	b.WriteString(viewerHeaderStyle.Render(status))
	b.WriteString("\n\n")

	end := min(m.offset+m.height, len(m.lines))
	for _, line := range m.lines[m.offset:end] {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(viewerErrorStyle.Render(m.err.Error()))
	} else {
		b.WriteString(viewerDimStyle.Render(fmt.Sprintf("↑/↓ scroll  r reload  q quit  [%d/%d]", min(end, len(m.lines)), len(m.lines))))
	}
	return b.String()
}

// show replaces the visible document with snap.
func (m *ViewerModel) show(snap preview.Snapshot) {
	if snap.Result == nil {
		return
	}
	m.generation = snap.Generation
	m.lines = strings.Split(strings.TrimRight(string(snap.Result.Artifacts[pipeline.FormatText]), "\n"), "\n")
	m.scroll(0)
}

func (m *ViewerModel) scroll(delta int) {
	m.offset += delta
	if limit := len(m.lines) - m.height; m.offset > limit {
		m.offset = limit
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// =============================================================================
// Commands
// =============================================================================

func (m ViewerModel) tick() tea.Cmd {
	return tea.Tick(m.Interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m ViewerModel) readFile() tea.Cmd {
	path, read := m.Path, m.read
	return func() tea.Msg {
		text, err := read(path)
		if err != nil {
			return errMsg{err: err}
		}
		return fileMsg{text: text, hash: cache.Hash([]byte(text))}
	}
}

func (m ViewerModel) render(text string) tea.Cmd {
	ctx, session := m.ctx, m.session
	return func() tea.Msg {
		gen, err := session.Update(ctx, text)
		if err != nil {
			return errMsg{err: err, render: true}
		}
		return renderedMsg{generation: gen}
	}
}
