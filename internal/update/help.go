package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/todo/internal/config"
	"github.com/sandeepkv93/todo/internal/views"
)

type keyMap struct {
	Quit       key.Binding
	Add        key.Binding
	Edit       key.Binding
	Category   key.Binding
	Reminder   key.Binding
	Complete   key.Binding
	Delete     key.Binding
	Filter     key.Binding
	SwitchView key.Binding
	Command    key.Binding
	Detail     key.Binding
	Help       key.Binding
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	k = config.Default().Keys.Merge(k)
	bind := func(raw, desc string) key.Binding {
		keys := config.Keys(raw)
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(strings.Join(keys, "/"), desc))
	}
	return keyMap{
		Quit:       bind(k.Quit, "quit"),
		Add:        bind(k.Add, "add"),
		Edit:       bind(k.Edit, "edit"),
		Category:   bind(k.Category, "category"),
		Reminder:   bind(k.Reminder, "reminder"),
		Complete:   bind(k.Complete, "complete"),
		Delete:     bind(k.Delete, "delete"),
		Filter:     bind(k.Filter, "filter"),
		SwitchView: bind(k.SwitchView, "current/completed"),
		Command:    bind(k.Command, "goto/command"),
		Detail:     bind(k.Detail, "details"),
		Help:       bind(k.Help, "help"),
		Up:         bind(k.Up, "up"),
		Down:       bind(k.Down, "down"),
		Top:        bind(k.Top, "first"),
		Bottom:     bind(k.Bottom, "last"),
		PageUp:     bind(k.PageUp, "page up"),
		PageDown:   bind(k.PageDown, "page down"),
		Confirm:    bind(k.Confirm, "confirm"),
		Cancel:     bind(k.Cancel, "cancel"),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Complete, k.Delete, k.Reminder, k.Filter, k.SwitchView, k.Command, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.Edit, k.Category, k.Reminder, k.Complete, k.Delete, k.Detail},
		{k.Up, k.Down, k.Top, k.Bottom, k.PageUp, k.PageDown},
		{k.Filter, k.SwitchView, k.Command, k.Help, k.Quit},
	}
}

const commandHelp = `
## Commands

Type ` + "`:`" + ` then one of:

| Command | Effect |
|---|---|
| ` + "`12`" + ` or ` + "`goto 12`" + ` | select item 12 of the unfiltered list |
| ` + "`add <text>`" + ` | add a task |
| ` + "`edit <text>`" + ` | replace the selected task's text |
| ` + "`category [name]`" + ` | set or clear the selected task's category |
| ` + "`remind <when> [every <interval>] [-- <message>]`" + ` | set a reminder, e.g. ` + "`2h`" + `, ` + "`90m every 1d -- stretch`" + `; blank clears |
| ` + "`filter <name>`" + `, ` + "`filter all`" + `, ` + "`filter none`" + ` | change the category filter |
| ` + "`view current`" + `, ` + "`view completed`" + ` | switch list |

Reminder times are clamped to between 1 hour and 7 days.
`

func (m Model) renderHelpView() string {
	var b strings.Builder
	b.WriteString("## Keys\n\n| Key | Action |\n|---|---|\n")
	for _, group := range m.keys.FullHelp() {
		for _, kb := range group {
			h := kb.Help()
			fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
		}
	}
	b.WriteString(commandHelp)
	return views.RenderMarkdown(b.String(), m.listWidth())
}
