// Package entry implements the customer entry form TUI.
package entry

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/smileynet/custdesk/internal/customer"
)

// Field indexes in focus order. The contact method selector comes last.
const (
	fieldName = iota
	fieldBirthday
	fieldEmail
	fieldPhone
	fieldAddress
	fieldContact
	fieldCount
)

var labels = [fieldCount]string{
	fieldName:     "Name:",
	fieldBirthday: "Birthday (YYYY-MM-DD):",
	fieldEmail:    "Email:",
	fieldPhone:    "Phone Number:",
	fieldAddress:  "Address:",
	fieldContact:  "Preferred Contact:",
}

// SubmitResultMsg carries the outcome of one submit.
type SubmitResultMsg struct {
	Outcome customer.Outcome
}

// Model is the Bubble Tea model for the entry form.
// All field values live in the text inputs and the contact index; Form()
// snapshots them into a customer.Form for each submit.
type Model struct {
	ctx        context.Context
	inserter   customer.Inserter
	inputs     [fieldContact]textinput.Model
	contact    int
	focus      int
	submitting bool
	spinner    spinner.Model
	last       *customer.Outcome
	help       help.Model
	keys       keyMap
	width      int
}

// NewModel creates an empty form that saves through ins.
func NewModel(ctx context.Context, ins customer.Inserter) Model {
	m := Model{
		ctx:      ctx,
		inserter: ins,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:     help.New(),
		keys:     KeyMap(),
	}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Width = 50
		// No limit: SetValue would otherwise truncate a retained value.
		ti.CharLimit = 0
		m.inputs[i] = ti
	}
	m.inputs[fieldBirthday].Placeholder = "YYYY-MM-DD"
	m = m.setForm(customer.NewForm())
	m.inputs[fieldName].Focus()
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Form returns the current field values.
func (m Model) Form() customer.Form {
	return customer.Form{
		Name:          m.inputs[fieldName].Value(),
		Birthday:      m.inputs[fieldBirthday].Value(),
		Email:         m.inputs[fieldEmail].Value(),
		Phone:         m.inputs[fieldPhone].Value(),
		Address:       m.inputs[fieldAddress].Value(),
		ContactMethod: string(customer.ContactMethods()[m.contact]),
	}
}

// setForm loads f into the inputs. An unknown contact method falls back to
// the default selection.
func (m Model) setForm(f customer.Form) Model {
	m.inputs[fieldName].SetValue(f.Name)
	m.inputs[fieldBirthday].SetValue(f.Birthday)
	m.inputs[fieldEmail].SetValue(f.Email)
	m.inputs[fieldPhone].SetValue(f.Phone)
	m.inputs[fieldAddress].SetValue(f.Address)

	m.contact = 0
	if cm, err := customer.ParseContactMethod(f.ContactMethod); err == nil {
		for i, c := range customer.ContactMethods() {
			if c == cm {
				m.contact = i
			}
		}
	}
	return m
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case SubmitResultMsg:
		return m.applyOutcome(msg.Outcome), nil

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+c":
		return m, tea.Quit
	}

	// The form is blocked while a submit is in flight.
	if m.submitting {
		return m, nil
	}

	switch msg.String() {
	case "enter":
		return m.submit()
	case "ctrl+r":
		m = m.setForm(customer.NewForm())
		m.last = nil
		cmd := m.setFocus(fieldName)
		return m, cmd
	case "tab", "down":
		cmd := m.setFocus((m.focus + 1) % fieldCount)
		return m, cmd
	case "shift+tab", "up":
		cmd := m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		return m, cmd
	}

	if m.focus == fieldContact {
		n := len(customer.ContactMethods())
		switch msg.String() {
		case "right", "l", " ":
			m.contact = (m.contact + 1) % n
		case "left", "h":
			m.contact = (m.contact + n - 1) % n
		}
		return m, nil
	}

	return m.updateFocused(msg)
}

// updateFocused forwards msg to the focused text input.
func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.focus == fieldContact {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// setFocus moves focus to field i. It mutates the inputs in place, so it is
// called on the Model value being returned from Update.
func (m *Model) setFocus(i int) tea.Cmd {
	m.focus = i
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == i {
			cmd = m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
	return cmd
}

// submit snapshots the form and runs validate-and-insert as a command.
func (m Model) submit() (tea.Model, tea.Cmd) {
	m.submitting = true
	form := m.Form()
	ctx, ins := m.ctx, m.inserter
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		return SubmitResultMsg{Outcome: customer.Submit(ctx, ins, form)}
	})
}

// applyOutcome loads the form returned by Submit and records the banner.
func (m Model) applyOutcome(out customer.Outcome) Model {
	m.submitting = false
	m.last = &out
	m = m.setForm(out.Form)
	if out.State == customer.StateSucceeded {
		m.setFocus(fieldName)
	}
	return m
}

// Last returns the most recent submit outcome, or nil.
func (m Model) Last() *customer.Outcome {
	return m.last
}

// View renders the form, status banner and help bar.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle().Render(Title))
	b.WriteString("\n")

	for i := 0; i < fieldContact; i++ {
		b.WriteString(labelStyle(m.focus == i).Render(labels[i]))
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	b.WriteString(labelStyle(m.focus == fieldContact).Render(labels[fieldContact]))
	opts := make([]string, 0, len(customer.ContactMethods()))
	for i, cm := range customer.ContactMethods() {
		opts = append(opts, optionStyle(i == m.contact).Render(string(cm)))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, opts...))
	b.WriteString("\n\n")

	b.WriteString(m.status())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) status() string {
	if m.submitting {
		return m.spinner.View() + " Saving..."
	}
	if m.last == nil {
		return "Press enter to submit customer data."
	}
	switch m.last.State {
	case customer.StateSucceeded:
		return successStyle().Render(m.last.Message)
	case customer.StateRejected:
		return errorStyle().Render("Validation Error: " + validationMessage(m.last.Err))
	default:
		return errorStyle().Render("Database Error: " + m.last.Err.Error())
	}
}

// validationMessage returns the user-facing text of a validation error.
func validationMessage(err error) string {
	var verr *customer.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	return err.Error()
}
