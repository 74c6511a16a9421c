package utils

import (
	"strings"
	"testing"
)

func TestArticleSlug(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		id       string
		expected string
	}{
		{
			name:     "título simples",
			title:    "Vacinação contra a gripe",
			id:       "8f14e45fceea167a",
			expected: "vacinacao-contra-a-gripe-8f14e45f",
		},
		{
			name:     "pontuação e ordinais",
			title:    "2ª fase das obras: o que muda?",
			id:       "c9f0f895",
			expected: "2-fase-das-obras-o-que-muda-c9f0f895",
		},
		{
			name:     "título vazio usa só o ID",
			title:    "",
			id:       "abc",
			expected: "abc",
		},
		{
			name:     "sem ID não gera slug",
			title:    "Carnaval",
			id:       "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ArticleSlug(tt.title, tt.id); got != tt.expected {
				t.Errorf("ArticleSlug(%q, %q) = %q; expected %q", tt.title, tt.id, got, tt.expected)
			}
		})
	}
}

func TestArticleSlugTituloLongo(t *testing.T) {
	title := strings.Repeat("palavra ", 20)
	got := ArticleSlug(title, "12345678")

	base := strings.TrimSuffix(got, "-12345678")
	if len(base) > MaxSlugBaseLength {
		t.Errorf("base do slug com %d caracteres; máximo %d", len(base), MaxSlugBaseLength)
	}
	if strings.HasSuffix(base, "-") || strings.HasSuffix(base, "palavr") {
		t.Errorf("slug cortado no meio de palavra: %q", got)
	}
}
