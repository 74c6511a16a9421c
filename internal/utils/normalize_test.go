package utils

import (
	"testing"
)

func TestFold(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Saúde", "saude"},
		{"Educação", "educacao"},
		{"Família", "familia"},
		{"LICENÇAS", "licencas"},
		{"Emergência 2026", "emergencia 2026"},
		{"Cidade", "cidade"},
		{"", ""},
	}

	for _, test := range tests {
		result := Fold(test.input)
		if result != test.expected {
			t.Errorf("Fold(%q) = %q; expected %q", test.input, result, test.expected)
		}
	}
}

func TestRemoveAccentsPreservaCaixa(t *testing.T) {
	if got := RemoveAccents("Ônibus São João"); got != "Onibus Sao Joao" {
		t.Errorf("RemoveAccents = %q", got)
	}
}
