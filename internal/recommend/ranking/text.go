package ranking

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/prefeitura-rio/app-related-articles/internal/utils"
)

// PlainText remove a formatação markdown de um texto.
// Resumos de artigos são escritos em markdown; links e ênfases não devem virar tokens.
func PlainText(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	doc := markdown.Parse([]byte(text), nil)

	var buf bytes.Buffer
	extractText(doc, &buf)

	return strings.TrimSpace(buf.String())
}

// extractText percorre a AST acumulando apenas o texto visível
func extractText(node ast.Node, buf *bytes.Buffer) {
	switch n := node.(type) {
	case *ast.Text:
		buf.Write(n.Literal)
		return
	case *ast.Code:
		buf.Write(n.Literal)
		return
	case *ast.CodeBlock:
		buf.WriteString(" ")
		return
	case *ast.Hardbreak, *ast.Softbreak:
		buf.WriteString(" ")
		return
	case *ast.HTMLBlock, *ast.HTMLSpan:
		return
	}

	container := node.AsContainer()
	if container == nil {
		return
	}

	for _, child := range container.Children {
		extractText(child, buf)
	}

	switch node.(type) {
	case *ast.Paragraph, *ast.Heading, *ast.ListItem, *ast.BlockQuote:
		buf.WriteString(" ")
	}
}

// Tokenize normaliza o texto (minúsculas, sem acentos) e devolve o conjunto de tokens
// significativos, sem stopwords e sem tokens de um caractere.
func Tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	if text == "" {
		return tokens
	}

	normalized := utils.Fold(text)
	fields := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	for _, field := range fields {
		if len([]rune(field)) < 2 || isStopword(field) {
			continue
		}
		tokens[field] = struct{}{}
	}

	return tokens
}

// stopwords em português e inglês, já sem acentos
var stopwords = map[string]bool{
	// pt
	"de": true, "da": true, "do": true, "das": true, "dos": true, "em": true,
	"na": true, "no": true, "nas": true, "nos": true, "para": true, "por": true,
	"com": true, "um": true, "uma": true, "os": true, "as": true, "ao": true,
	"aos": true, "que": true, "se": true, "ou": true, "mas": true, "como": true,
	"sao": true, "foi": true, "ser": true, "sobre": true, "entre": true, "sem": true,
	"mais": true, "seu": true, "sua": true, "esse": true, "essa": true, "este": true,
	// en
	"the": true, "an": true, "and": true, "or": true, "of": true, "to": true,
	"in": true, "on": true, "for": true, "with": true, "is": true, "are": true,
	"be": true, "by": true, "at": true, "it": true, "its": true, "this": true,
	"that": true, "from": true, "how": true, "what": true, "why": true, "your": true,
}

func isStopword(word string) bool {
	return stopwords[word]
}
