// Package tui is a terminal front end for the directory wizard.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"directoryEngine/internal/models"
	"directoryEngine/internal/wizard"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SubmitTimeout bounds a single create call.
const SubmitTimeout = 10 * time.Second

type submitResultMsg struct {
	dir *models.Directory
	err error
}

// Model drives a wizard.Wizard from the keyboard. Text fields are edited
// in place. Bool and select fields are changed with space and the arrow
// keys.
type Model struct {
	wiz        *wizard.Wizard
	sub        wizard.Submitter
	view       wizard.View
	inputs     []textinput.Model
	focused    int
	progress   progress.Model
	help       help.Model
	keys       keyMap
	err        error
	created    *models.Directory
	submitting bool
	quitting   bool
	width      int
}

// NewModel starts at the first slide of wiz. Finished wizards are handed
// to sub.
func NewModel(wiz *wizard.Wizard, sub wizard.Submitter) *Model {
	m := &Model{
		wiz: wiz,
		sub: sub,
		progress: progress.New(
			progress.WithSolidFill("#00aadd"),
			progress.WithoutPercentage(),
		),
		help: help.New(),
		keys: defaultKeys,
	}
	m.load()
	return m
}

// Created returns the directory made by the last successful submit.
func (m *Model) Created() *models.Directory {
	return m.created
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// load rebuilds the inputs from the wizard's current slide.
func (m *Model) load() {
	m.view = m.wiz.View()
	m.inputs = make([]textinput.Model, len(m.view.Fields))
	for i, f := range m.view.Fields {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 2000
		ti.SetValue(f.Value)
		if f.Type == wizard.TypeList && len(f.Options) > 0 {
			ti.Placeholder = strings.Join(f.Options, ",")
		}
		m.inputs[i] = ti
	}
	if m.focused >= len(m.inputs) {
		m.focused = len(m.inputs) - 1
	}
	if m.focused < 0 {
		m.focused = 0
	}
	m.focusInput()
}

func (m *Model) focusInput() {
	for i := range m.inputs {
		if i == m.focused {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
}

// commit writes edited inputs back to the wizard.
func (m *Model) commit() error {
	for i, f := range m.view.Fields {
		value := m.inputs[i].Value()
		if value == f.Value {
			continue
		}
		if err := m.wiz.Set(f.Key, value); err != nil {
			return err
		}
	}
	return nil
}

func (m *Model) currentField() (wizard.FieldView, bool) {
	if m.focused < 0 || m.focused >= len(m.view.Fields) {
		return wizard.FieldView{}, false
	}
	return m.view.Fields[m.focused], true
}

// setFocused stores a value for the focused field right away since it
// can change which fields the slide shows.
func (m *Model) setFocused(value string) {
	f, _ := m.currentField()
	if err := m.commit(); err != nil {
		m.err = err
		return
	}
	if err := m.wiz.Set(f.Key, value); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.load()
}

func (m *Model) move(step func() int) {
	if err := m.commit(); err != nil {
		m.err = err
		return
	}
	m.err = nil
	step()
	m.focused = 0
	m.load()
}

func (m *Model) submit() tea.Cmd {
	wiz, sub := m.wiz, m.sub
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), SubmitTimeout)
		defer cancel()
		dir, err := wiz.Submit(ctx, sub)
		return submitResultMsg{dir: dir, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(msg.Width-4, 60)
		m.help.Width = msg.Width
		return m, nil

	case submitResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = msg.err
			m.load()
			return m, nil
		}
		m.err = nil
		m.created = msg.dir
		m.focused = 0
		m.load()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}
	if m.submitting {
		return m, nil
	}
	if m.created != nil {
		if msg.Type == tea.KeyEnter {
			m.created = nil
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}

	field, hasField := m.currentField()
	switch {
	case key.Matches(msg, m.keys.Next):
		m.move(m.wiz.Next)
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		m.move(m.wiz.Prev)
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		if !m.view.Last {
			m.err = fmt.Errorf("finish the remaining slides before creating the directory")
			return m, nil
		}
		if err := m.commit(); err != nil {
			m.err = err
			return m, nil
		}
		m.submitting = true
		return m, m.submit()
	case key.Matches(msg, m.keys.Down):
		if len(m.inputs) > 0 {
			m.focused = (m.focused + 1) % len(m.inputs)
			m.focusInput()
		}
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if len(m.inputs) > 0 {
			m.focused = (m.focused - 1 + len(m.inputs)) % len(m.inputs)
			m.focusInput()
		}
		return m, nil
	}

	if !hasField {
		return m, nil
	}
	switch field.Type {
	case wizard.TypeBool:
		if key.Matches(msg, m.keys.Toggle) {
			m.setFocused(fmt.Sprint(field.Value != "true"))
		}
		return m, nil
	case wizard.TypeSelect:
		if key.Matches(msg, m.keys.Left) {
			m.setFocused(cycle(field.Options, field.Value, -1))
		} else if key.Matches(msg, m.keys.Right) {
			m.setFocused(cycle(field.Options, field.Value, 1))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

// cycle steps through options from the current value, wrapping at both
// ends.
func cycle(options []string, current string, step int) string {
	if len(options) == 0 {
		return current
	}
	idx := 0
	for i, o := range options {
		if o == current {
			idx = i
			break
		}
	}
	idx = (idx + step + len(options)) % len(options)
	return options[idx]
}

func (m *Model) View() string {
	if m.quitting {
		if m.created != nil {
			return successStyle.Render(fmt.Sprintf("Created directory %q", m.created.DirectoryName)) + "\n"
		}
		return ""
	}

	var b strings.Builder
	if m.created != nil {
		b.WriteString(successStyle.Render(fmt.Sprintf("Created directory %q (%s)", m.created.DirectoryName, m.created.ID)))
		b.WriteString("\n\nPress enter to create another, any other key to quit.\n")
		return b.String()
	}

	v := m.view
	b.WriteString(titleStyle.Render(v.Slide.Title))
	b.WriteString("\n")
	if v.Slide.Subtitle != "" {
		b.WriteString(subtitleStyle.Render(v.Slide.Subtitle))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("Step %d of %d\n", v.Index+1, v.Total))
	b.WriteString(m.progress.ViewAs(float64(v.Index+1) / float64(v.Total)))
	b.WriteString("\n")

	var form strings.Builder
	for i, f := range v.Fields {
		label := labelStyle
		if i == m.focused {
			label = focusedLabelStyle
		}
		form.WriteString(label.Render(f.Label))
		form.WriteString("\n")
		switch f.Type {
		case wizard.TypeBool:
			box := "[ ]"
			if f.Value == "true" {
				box = "[x]"
			}
			form.WriteString(choiceStyle.Render(box))
		case wizard.TypeSelect:
			form.WriteString(choiceStyle.Render("< " + f.Value + " >"))
		default:
			form.WriteString(m.inputs[i].View())
		}
		form.WriteString("\n\n")
	}
	if v.Code != nil {
		form.WriteString(m.codeSummary(*v.Code))
	}
	if form.Len() > 0 {
		b.WriteString(formStyle.Render(strings.TrimRight(form.String(), "\n")))
		b.WriteString("\n")
	}

	for _, e := range v.Errors {
		b.WriteString(warningStyle.Render(e))
		b.WriteString("\n")
	}
	if m.submitting {
		b.WriteString("Creating directory...\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) codeSummary(code models.GeneratedCode) string {
	status := successStyle.Render("code is valid")
	if !code.IsValid {
		status = warningStyle.Render("code is incomplete")
	}
	lines := lipgloss.JoinVertical(lipgloss.Left,
		fmt.Sprintf("Header code: %d bytes", len(code.HeaderCode)),
		fmt.Sprintf("Footer code: %d bytes", len(code.FooterCode)),
		status,
	)
	return codeStyle.Render(lines) + "\n"
}
