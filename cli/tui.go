package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fahmaliyi/ciphervault/vault"
)

type model struct {
	session   *vault.Session
	cfg       Settings
	entries   []vault.Entry
	cursor    int
	state     string // "table", "showEntry", "addEntry"
	search    textinput.Model
	searching bool
	inputs    []textinput.Model
	selected  *vault.Entry
	reveal    bool
	msg       string
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Underline(true)
	msgStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("57")).Foreground(lipgloss.Color("0"))
)

type clearStatusMsg struct{}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearStatusMsg{} })
}

// RunTUI starts the interactive dashboard. The session is locked when the
// program exits.
func RunTUI(s *vault.Session, cfg Settings) {
	search := textinput.New()
	search.Placeholder = "Search"
	search.Prompt = "/ "

	m := model{
		session: s,
		cfg:     cfg,
		entries: s.List(),
		state:   "table",
		search:  search,
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		fmt.Println("Error starting TUI:", err)
	}
	s.Lock()
}

// --- Tea Model interface ---

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(clearStatusMsg); ok {
		m.msg = ""
		return m, nil
	}

	switch m.state {
	case "table":
		return updateTable(m, msg)
	case "showEntry":
		return updateShowEntry(m, msg)
	case "addEntry":
		return updateAddEntry(m, msg)
	default:
		return m, nil
	}
}

func (m model) View() string {
	switch m.state {
	case "table":
		return viewTable(m)
	case "showEntry":
		return viewShowEntry(m)
	case "addEntry":
		return viewAddEntry(m)
	default:
		return "Unknown state"
	}
}

// refresh reloads the visible entries, applying the search filter.
func (m *model) refresh() {
	query := strings.ToLower(strings.TrimSpace(m.search.Value()))
	if query == "" {
		m.entries = m.session.List()
	} else {
		m.entries = m.session.Find(func(e vault.Entry) bool {
			return strings.Contains(strings.ToLower(e.Name), query) ||
				strings.Contains(strings.ToLower(e.Username), query)
		})
	}
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// --- Table ---

func updateTable(m model, msg tea.Msg) (model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.searching {
		switch keyMsg.String() {
		case "enter", "esc":
			m.searching = false
			m.search.Blur()
			if keyMsg.String() == "esc" {
				m.search.SetValue("")
			}
			m.refresh()
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			m.refresh()
			return m, cmd
		}
		return m, nil
	}

	switch keyMsg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/":
		m.searching = true
		m.search.Focus()
	case "j", "down":
		if m.cursor < len(m.entries)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if len(m.entries) > 0 {
			m.selected = &m.entries[m.cursor]
			m.reveal = false
			m.state = "showEntry"
		}
	case "a":
		m.inputs = newAddInputs()
		m.state = "addEntry"
	case "d":
		if len(m.entries) > 0 {
			if err := m.session.Delete(m.entries[m.cursor].Name); err != nil {
				m.msg = "Error: " + err.Error()
			} else {
				m.msg = "Entry deleted"
			}
			m.refresh()
			return m, clearStatusAfter(3 * time.Second)
		}
	case "c":
		if len(m.entries) > 0 {
			copyWithTimeout(m.entries[m.cursor].Password)
			m.msg = "Password copied! (clears in 30s)"
			return m, clearStatusAfter(3 * time.Second)
		}
	}
	return m, nil
}

func viewTable(m model) string {
	s := titleStyle.Render("CipherVault") + "\n\n"
	if m.searching || m.search.Value() != "" {
		s += m.search.View() + "\n\n"
	}
	if len(m.entries) == 0 {
		s += "No entries\n"
	}
	for i, e := range m.entries {
		line := fmt.Sprintf("%-24s  %-24s", e.Name, e.Username)
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		s += line + "\n"
	}
	if m.msg != "" {
		s += "\n" + msgStyle.Render(m.msg)
	}
	s += "\nCommands: j/k=move, enter=show, /=search, a=add, d=delete, c=copy, q=quit"
	return s
}

// --- Show Entry ---

func updateShowEntry(m model, msg tea.Msg) (model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "esc", "q":
		m.state = "table"
		m.selected = nil
		m.reveal = false
	case "v":
		m.reveal = !m.reveal
	case "c":
		copyWithTimeout(m.selected.Password)
		m.msg = "Password copied! (clears in 30s)"
		return m, clearStatusAfter(3 * time.Second)
	}
	return m, nil
}

func viewShowEntry(m model) string {
	e := m.selected
	password := "********"
	if m.reveal {
		password = e.Password
	}
	_, label := PasswordStrength(e.Password)

	s := titleStyle.Render(e.Name) + "\n\n"
	s += fmt.Sprintf("Username: %s\nPassword: %s\nStrength: %s\nNotes: %s\n",
		e.Username, password, label, e.Notes)
	if m.msg != "" {
		s += "\n" + msgStyle.Render(m.msg)
	}
	s += "\nPress 'v' to reveal/hide, 'c' to copy, Esc to return"
	return s
}

// --- Add Entry ---

func newAddInputs() []textinput.Model {
	labels := []string{"Account", "Username", "Password", "Notes"}
	inputs := make([]textinput.Model, len(labels))
	for i, label := range labels {
		ti := textinput.New()
		ti.Placeholder = label
		inputs[i] = ti
	}
	inputs[2].EchoMode = textinput.EchoPassword
	inputs[0].Focus()
	return inputs
}

func updateAddEntry(m model, msg tea.Msg) (model, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey {
		switch keyMsg.String() {
		case "esc":
			m.state = "table"
			return m, nil
		case "tab", "down":
			m.focusNext(false)
			return m, nil
		case "shift+tab", "up":
			m.focusNext(true)
			return m, nil
		case "ctrl+g":
			// fill the password field with a generated suggestion
			if pw, err := GeneratePassword(16); err == nil {
				m.inputs[2].SetValue(pw)
			}
			return m, nil
		case "enter":
			if m.inputs[0].Value() != "" && m.inputs[2].Value() != "" {
				m = saveAddEntry(m)
				return m, clearStatusAfter(3 * time.Second)
			}
			m.focusNext(false)
			return m, nil
		}
	}

	var cmd tea.Cmd
	for i := range m.inputs {
		if m.inputs[i].Focused() {
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			break
		}
	}
	return m, cmd
}

func (m *model) focusNext(backward bool) {
	n := len(m.inputs)
	for i := 0; i < n; i++ {
		if m.inputs[i].Focused() {
			m.inputs[i].Blur()
			if backward {
				m.inputs[(i-1+n)%n].Focus()
			} else {
				m.inputs[(i+1)%n].Focus()
			}
			return
		}
	}
	m.inputs[0].Focus()
}

func saveAddEntry(m model) model {
	e := vault.Entry{
		Name:     m.inputs[0].Value(),
		Username: m.inputs[1].Value(),
		Password: m.inputs[2].Value(),
		Notes:    m.inputs[3].Value(),
	}
	if err := m.session.Add(e); err != nil {
		m.msg = "Error: " + err.Error()
		return m
	}

	_, label := PasswordStrength(e.Password)
	m.msg = fmt.Sprintf("%s added! Password strength: %s", e.Name, label)
	if !m.cfg.MeetsPolicy(e.Password) {
		m.msg += " (below configured policy)"
	}
	m.state = "table"
	m.refresh()
	return m
}

func viewAddEntry(m model) string {
	s := titleStyle.Render("Add New Entry") + "\n\n"
	for _, ti := range m.inputs {
		s += fmt.Sprintf("%-8s %s\n", ti.Placeholder+":", ti.View())
	}

	if pw := m.inputs[2].Value(); pw != "" {
		_, label := PasswordStrength(pw)
		line := "Strength: " + label
		if label == "Weak" {
			line = warnStyle.Render(line)
		}
		s += "\n" + line + "\n"
	}
	if m.msg != "" {
		s += "\n" + warnStyle.Render(m.msg)
	}
	s += "\nEnter=save, Tab=next field, Ctrl+G=generate password, Esc=cancel"
	return s
}

func copyWithTimeout(secret string) {
	if err := clipboard.WriteAll(secret); err != nil {
		return
	}
	time.AfterFunc(30*time.Second, func() {
		clipboard.WriteAll("")
	})
}
