package utils

import (
	"regexp"
	"strings"
)

const (
	MaxSlugBaseLength = 50
	ShortIDLength     = 8
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// ArticleSlug gera o slug de um artigo a partir do título e do ID.
// Formato: {titulo-em-kebab-case}-{id curto}
// Exemplo: "Vacinação contra a gripe" + "8f14e45fceea167a" -> "vacinacao-contra-a-gripe-8f14e45f"
func ArticleSlug(title, id string) string {
	if id == "" {
		return ""
	}

	base := slugify(title)
	shortID := truncateID(id)

	if base == "" {
		return shortID
	}
	return base + "-" + shortID
}

// slugify converte texto para kebab-case ASCII, cortando em fronteira de palavra
func slugify(text string) string {
	slug := nonSlugChars.ReplaceAllString(Fold(text), "-")
	slug = strings.Trim(slug, "-")

	if len(slug) > MaxSlugBaseLength {
		slug = slug[:MaxSlugBaseLength]
		if lastHyphen := strings.LastIndex(slug, "-"); lastHyphen > 0 {
			slug = slug[:lastHyphen]
		}
	}

	return slug
}

func truncateID(id string) string {
	if len(id) > ShortIDLength {
		return id[:ShortIDLength]
	}
	return id
}
