package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rgehrsitz/taxsplit/internal/config"
	"github.com/shopspring/decimal"
)

// form is a column of amount inputs with one focused field.
type form struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func newForm(labels ...string) *form {
	f := &form{labels: labels}
	for i := range labels {
		ti := textinput.New()
		ti.Placeholder = "0"
		ti.Prompt = ""
		ti.CharLimit = 14
		ti.Width = 16
		if i == 0 {
			ti.Focus()
		}
		f.inputs = append(f.inputs, ti)
	}
	return f
}

// move shifts focus by delta, wrapping at either end.
func (f *form) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// values parses every field. Blank fields are zero and thousands separators are ignored.
func (f *form) values() ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, len(f.inputs))
	for i, in := range f.inputs {
		d, err := config.ParseAmount(strings.ToLower(f.labels[i]), strings.ReplaceAll(in.Value(), ",", ""))
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}

func (f *form) view() string {
	var b strings.Builder
	for i, in := range f.inputs {
		marker := "  "
		if i == f.focus {
			marker = FocusStyle.Render("▸ ")
		}
		fmt.Fprintf(&b, "%s%s %s\n", marker, LabelStyle.Render(fmt.Sprintf("%-16s", f.labels[i])), in.View())
	}
	return b.String()
}

// isAmountInput reports whether every rune can appear in an amount.
func isAmountInput(runes []rune) bool {
	for _, r := range runes {
		if (r < '0' || r > '9') && r != '.' && r != ',' {
			return false
		}
	}
	return len(runes) > 0
}
