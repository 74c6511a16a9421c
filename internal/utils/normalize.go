package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RemoveAccents remove diacríticos preservando as letras base.
// Exemplo: "Educação" -> "Educacao"
func RemoveAccents(s string) string {
	if s == "" {
		return s
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	normalized, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return normalized
}

// Fold normaliza texto para comparação: sem acentos e em minúsculas.
// Exemplo: "Saúde Pública" -> "saude publica"
func Fold(s string) string {
	return strings.ToLower(RemoveAccents(s))
}
