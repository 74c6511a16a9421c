package ranking

import (
	"math"
	"sort"
	"strings"

	"github.com/prefeitura-rio/app-related-articles/internal/models"
)

// Pesos do score híbrido. Somam exatamente 1.0.
const (
	CategoryWeight = 0.40
	TagWeight      = 0.30
	ContentWeight  = 0.30
)

// ScoreResult contém os sinais individuais e o score final de um candidato
type ScoreResult struct {
	CategoryMatch     float64
	TagOverlap        float64
	ContentSimilarity float64
	FinalScore        float64
}

// Scorer calcula o score híbrido de candidatos em relação a um artigo fonte.
// Os atributos do fonte são pré-processados na construção; depois disso o Scorer
// é somente leitura e pode ser usado por várias goroutines.
type Scorer struct {
	source       models.Article
	sourceTags   map[string]struct{}
	sourceTokens map[string]struct{}
}

// NewScorer cria um scorer para o artigo fonte
func NewScorer(source models.Article) *Scorer {
	return &Scorer{
		source:       source,
		sourceTags:   tagSet(source.Tags),
		sourceTokens: Tokenize(contentText(source)),
	}
}

// Calculate calcula os três sinais e o score final para um candidato
func (s *Scorer) Calculate(candidate models.Article) *ScoreResult {
	result := &ScoreResult{
		CategoryMatch:     categoryMatch(s.source.CategoryID, candidate.CategoryID),
		TagOverlap:        jaccard(s.sourceTags, tagSet(candidate.Tags)),
		ContentSimilarity: jaccard(s.sourceTokens, Tokenize(contentText(candidate))),
	}

	score := CategoryWeight*result.CategoryMatch +
		TagWeight*result.TagOverlap +
		ContentWeight*result.ContentSimilarity
	result.FinalScore = clamp01(score)

	return result
}

// Rank pontua o pool e o ordena por score decrescente; empates são resolvidos por
// view count decrescente e depois por ID, para que a ordem seja reprodutível.
func (s *Scorer) Rank(pool []models.Article) []models.ScoredCandidate {
	ranked := make([]models.ScoredCandidate, 0, len(pool))
	for _, candidate := range pool {
		if candidate.ID == s.source.ID {
			continue
		}
		ranked = append(ranked, models.ScoredCandidate{
			Article: candidate,
			Score:   s.Calculate(candidate).FinalScore,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return less(ranked[i], ranked[j])
	})

	return ranked
}

// Score calcula o score híbrido de um candidato em relação ao fonte
func Score(source, candidate models.Article) float64 {
	return NewScorer(source).Calculate(candidate).FinalScore
}

// Rank ordena o pool de candidatos em relação ao fonte
func Rank(source models.Article, pool []models.Article) []models.ScoredCandidate {
	return NewScorer(source).Rank(pool)
}

// CategoryMatch retorna 1.0 quando as categorias coincidem e 0.0 caso contrário
func CategoryMatch(source, candidate models.Article) float64 {
	return categoryMatch(source.CategoryID, candidate.CategoryID)
}

// TagOverlap retorna o índice de Jaccard entre as tags; 0.0 se o fonte não tem tags
func TagOverlap(source, candidate models.Article) float64 {
	return jaccard(tagSet(source.Tags), tagSet(candidate.Tags))
}

// ContentSimilarity retorna a sobreposição de tokens de título + resumo; 0.0 se algum texto for vazio
func ContentSimilarity(source, candidate models.Article) float64 {
	return jaccard(Tokenize(contentText(source)), Tokenize(contentText(candidate)))
}

func less(a, b models.ScoredCandidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Article.ViewCount != b.Article.ViewCount {
		return a.Article.ViewCount > b.Article.ViewCount
	}
	return a.Article.ID < b.Article.ID
}

func categoryMatch(source, candidate string) float64 {
	if source == "" || candidate == "" {
		return 0.0
	}
	if source == candidate {
		return 1.0
	}
	return 0.0
}

// jaccard calcula |a ∩ b| / |a ∪ b|. Conjunto a vazio resulta em 0.0.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	intersection := 0
	for token := range a {
		if _, ok := b[token]; ok {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0.0
	}

	return float64(intersection) / float64(union)
}

func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		set[tag] = struct{}{}
	}
	return set
}

func contentText(a models.Article) string {
	return a.Title + " " + PlainText(a.Summary)
}

func clamp01(v float64) float64 {
	return math.Max(0.0, math.Min(1.0, v))
}
