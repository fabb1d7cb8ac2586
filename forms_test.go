package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeInto(form *modalForm, text string) {
	for _, r := range text {
		_, _, _ = form.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestModalFormSubmitOnLastField(t *testing.T) {
	form := newModalForm("Teste", []formField{
		textField("Nome", "", "", true),
		textField("Empresa", "", "", false),
	})

	typeInto(form, "ACME")
	_, done, cancelled := form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, done, "enter on a middle field only advances")
	assert.False(t, cancelled)

	_, done, _ = form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, done)
	assert.Equal(t, "ACME", form.field(0).value())
}

func TestModalFormRequiresMandatoryFields(t *testing.T) {
	form := newModalForm("Teste", []formField{
		textField("Nome", "", "", true),
	})

	_, done, _ := form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, done)
	assert.Equal(t, "Preencha os campos obrigatórios.", form.errMsg)

	typeInto(form, "ACME")
	_, done, _ = form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, done)
}

func TestModalFormEscapeCancels(t *testing.T) {
	form := newModalForm("Teste", []formField{textField("Nome", "", "", true)})
	_, done, cancelled := form.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, done)
	assert.True(t, cancelled)
}

func TestSelectFieldCycles(t *testing.T) {
	form := newModalForm("Teste", []formField{
		selectField("Etapa", []string{"A", "B", "C"}, "B"),
	})
	require.Equal(t, "B", form.field(0).value())

	_, _, _ = form.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "C", form.field(0).value())

	_, _, _ = form.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, "A", form.field(0).value(), "cycling wraps")

	_, _, _ = form.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, "C", form.field(0).value())
}

func TestNumericFieldParsing(t *testing.T) {
	form := newModalForm("Teste", []formField{
		numberField("Valor", "", "", true),
	})

	typeInto(form, "1500,75")
	assert.Equal(t, 1500.75, form.field(0).floatValue(), "comma decimals are accepted")

	_, done, _ := form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, done)
}

func TestNumericFieldRejectsGarbage(t *testing.T) {
	form := newModalForm("Teste", []formField{
		numberField("Valor", "", "", true),
	})
	typeInto(form, "abc")
	_, done, _ := form.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, done)
	assert.NotEmpty(t, form.errMsg)
}
