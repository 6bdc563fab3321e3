// Package tui provides an interactive terminal search interface built on
// bubbletea. It is a single search view: type a query, press enter, and
// navigate the ranked chunks.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/walnut-labs/walnut/internal/core/domain"
	"github.com/walnut-labs/walnut/internal/core/ports/driving"
)

// maxSnippet caps how many runes of a chunk are shown per result row.
const maxSnippet = 200

// App is the bubbletea model for the search TUI.
type App struct {
	styles *Styles
	input  textinput.Model
	search driving.SearchService
	ctx    context.Context

	results  []domain.SearchResult
	selected int
	err      error

	searching bool
	width     int
	height    int
}

// NewApp creates the TUI model.
func NewApp(search driving.SearchService) (*App, error) {
	if search == nil {
		return nil, fmt.Errorf("tui: search service is required")
	}

	input := textinput.New()
	input.Placeholder = "Search your documents..."
	input.Focus()
	input.CharLimit = 256

	return &App{
		styles: DefaultStyles(),
		input:  input,
		search: search,
		ctx:    context.Background(),
		width:  80,
		height: 24,
	}, nil
}

// WithContext sets the context used for searches.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case searchCompleted:
		a.searching = false
		a.err = nil
		a.results = msg.results
		a.selected = 0
		return a, nil

	case searchFailed:
		a.searching = false
		a.err = msg.err
		a.results = nil
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// handleKey processes keyboard input.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return a, tea.Quit

	case "enter":
		query := strings.TrimSpace(a.input.Value())
		if query == "" || a.searching {
			return a, nil
		}
		a.searching = true
		return a, a.runSearch(query)

	case "up", "ctrl+k":
		if a.selected > 0 {
			a.selected--
		}
		return a, nil

	case "down", "ctrl+j":
		if a.selected < len(a.results)-1 {
			a.selected++
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// runSearch performs the search off the update loop.
func (a *App) runSearch(query string) tea.Cmd {
	return func() tea.Msg {
		results, err := a.search.Search(a.ctx, query, domain.SearchOptions{})
		if err != nil {
			return searchFailed{err: err}
		}
		return searchCompleted{results: results}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder

	b.WriteString(a.styles.Title.Render("Walnut Search"))
	b.WriteString("\n\n")
	b.WriteString(a.styles.Prompt.Render(a.input.View()))
	b.WriteString("\n\n")

	switch {
	case a.err != nil:
		b.WriteString(a.styles.Error.Render("Error: " + a.err.Error()))
		b.WriteString("\n")
	case a.searching:
		b.WriteString(a.styles.Meta.Render("Searching..."))
		b.WriteString("\n")
	case len(a.results) == 0:
		b.WriteString(a.styles.Meta.Render("No results yet."))
		b.WriteString("\n")
	default:
		for i, r := range a.results {
			line := fmt.Sprintf("%s  %s", r.DocumentName, a.styles.Meta.Render(
				fmt.Sprintf("(chunk %d, distance %.4f)", r.ChunkIndex, r.Distance)))
			if i == a.selected {
				b.WriteString(a.styles.Selected.Render("> " + line))
			} else {
				b.WriteString(a.styles.Result.Render(line))
			}
			b.WriteString("\n")
			if i == a.selected {
				b.WriteString(a.styles.Result.Render(trimSnippet(r.Text)))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString(a.styles.Help.Render("enter search - up/down navigate - esc quit"))
	return b.String()
}

// trimSnippet shortens chunk text for display.
func trimSnippet(text string) string {
	runes := []rune(text)
	if len(runes) <= maxSnippet {
		return text
	}
	return string(runes[:maxSnippet]) + "..."
}
