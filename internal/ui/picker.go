package ui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/pombredanne/pycense/internal/errors"
	"github.com/pombredanne/pycense/internal/models"
)

// RenderFunc renders a license the way the picker previews it.
type RenderFunc func(license models.License) (string, error)

// KeyMap defines the picker's keybindings
type KeyMap struct {
	Choose key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to show in the mini help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Choose, k.Quit}
}

// FullHelp returns keybindings to show in the full help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Choose, k.Quit}}
}

var keys = KeyMap{
	Choose: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "render"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q/esc", "quit"),
	),
}

// Picker lists licenses next to a live preview of the selected one.
type Picker struct {
	list     list.Model
	preview  viewport.Model
	help     help.Model
	render   RenderFunc
	errors   *apperrors.TUIErrorHandler
	selected string
	choice   *models.License
	quitting bool
}

// NewPicker builds a picker over licenses. render is called for the
// preview whenever the selection changes.
func NewPicker(licenses []*models.License, render RenderFunc) Picker {
	items := make([]list.Item, len(licenses))
	for i, l := range licenses {
		items[i] = *l
	}

	l := list.New(items, list.NewDefaultDelegate(), 40, 20) // resized on first WindowSizeMsg
	l.Title = "Licenses"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)

	p := Picker{
		list:    l,
		preview: viewport.New(40, 20),
		help:    help.New(),
		render:  render,
		errors:  apperrors.NewTUIErrorHandler(true),
	}
	p.refreshPreview()
	return p
}

// Choice returns the license picked with enter, or nil if the user quit.
func (p Picker) Choice() *models.License {
	return p.choice
}

func (p Picker) Init() tea.Cmd {
	return nil
}

func (p Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		listWidth := msg.Width / 3
		helpHeight := 1
		p.list.SetSize(listWidth, msg.Height-helpHeight)
		frameW, frameH := StylePane.GetFrameSize()
		p.preview.Width = msg.Width - listWidth - frameW
		p.preview.Height = msg.Height - helpHeight - frameH
		return p, nil

	case tea.KeyMsg:
		if p.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, keys.Quit):
			p.quitting = true
			return p, tea.Quit
		case key.Matches(msg, keys.Choose):
			if item, ok := p.list.SelectedItem().(models.License); ok {
				p.choice = &item
			}
			return p, tea.Quit
		}
	}

	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	p.refreshPreview()
	return p, cmd
}

func (p *Picker) refreshPreview() {
	item, ok := p.list.SelectedItem().(models.License)
	if !ok {
		p.selected = ""
		p.preview.SetContent(StyleTextMuted.Render("No licenses"))
		return
	}
	if item.ID == p.selected {
		return
	}
	p.selected = item.ID

	rendered, err := p.render(item)
	if err != nil {
		rendered = p.errors.GetErrorStyle(err).Render(p.errors.FormatError(err))
	}
	p.preview.SetContent(rendered)
	p.preview.GotoTop()
}

func (p Picker) View() string {
	if p.quitting || p.choice != nil {
		return ""
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, p.list.View(), StylePane.Render(p.preview.View()))
	return lipgloss.JoinVertical(lipgloss.Left, body, p.help.View(keys))
}

// RunPicker shows the picker and returns the chosen license, or nil when
// the user quits without choosing.
func RunPicker(licenses []*models.License, render RenderFunc, opts ...tea.ProgramOption) (*models.License, error) {
	final, err := tea.NewProgram(NewPicker(licenses, render), opts...).Run()
	if err != nil {
		return nil, err
	}
	return final.(Picker).Choice(), nil
}
