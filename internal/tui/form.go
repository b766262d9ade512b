// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// field is one labelled input of a form.
type field struct {
	label string
	input textinput.Model
}

// submitFunc receives the field values in order.
type submitFunc func(ctx context.Context, values []string) error

// form is a modal stack of text inputs. Enter on the last field submits;
// the form closes once the submission succeeds.
type form struct {
	title  string
	fields []field
	focus  int
	submit submitFunc
}

// formField describes an input: its label, placeholder and initial value.
type formField struct {
	Label       string
	Placeholder string
	Value       string
}

func newForm(title string, specs []formField, submit submitFunc) *form {
	f := &form{title: title, submit: submit}
	for _, spec := range specs {
		in := textinput.New()
		in.Placeholder = spec.Placeholder
		in.CharLimit = 4096
		in.Width = 48
		in.SetValue(spec.Value)
		f.fields = append(f.fields, field{label: spec.Label, input: in})
	}
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}

func (f *form) values() []string {
	out := make([]string, len(f.fields))
	for i, fl := range f.fields {
		out[i] = fl.input.Value()
	}
	return out
}

func (f *form) move(delta int) {
	if len(f.fields) == 0 {
		return
	}
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	f.fields[f.focus].input.Focus()
}

// formAction is what the app does after a key reaches the form.
type formAction int

const (
	formEditing formAction = iota
	formSubmit
	formCancel
)

func (f *form) update(msg tea.KeyMsg) (formAction, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return formCancel, nil
	case "ctrl+s":
		return formSubmit, nil
	case "enter":
		if len(f.fields) == 0 || f.focus == len(f.fields)-1 {
			return formSubmit, nil
		}
		f.move(1)
		return formEditing, nil
	case "tab", "down":
		f.move(1)
		return formEditing, nil
	case "shift+tab", "up":
		f.move(-1)
		return formEditing, nil
	}
	if len(f.fields) == 0 {
		return formEditing, nil
	}
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return formEditing, cmd
}

func (f *form) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(f.title))
	b.WriteString("\n")
	for i, fl := range f.fields {
		label := labelStyle.Render(fl.label)
		if i == f.focus {
			label = selectedStyle.Render(fl.label)
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(fl.input.View())
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("tab next · enter submit on last field · ctrl+s submit · esc cancel"))
	return boxStyle.Render(b.String())
}
