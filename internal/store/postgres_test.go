package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/prefeitura-rio/app-related-articles/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pgNow     = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	pgColumns = []string{"id", "category_id", "title", "summary", "slug", "status", "published_at", "view_count", "tags"}
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return &PostgresStore{pool: mock}, mock
}

func publishedAt(offset time.Duration) *time.Time {
	ts := pgNow.Add(offset)
	return &ts
}

func TestPostgresGetArticle(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`FROM articles a`).
		WithArgs("a1").
		WillReturnRows(pgxmock.NewRows(pgColumns).
			AddRow("a1", "saude", "Vacinação", "resumo", "vacinacao", "Published", publishedAt(-time.Hour), int64(42), []string{"vacina", " ", "vacina", "sus"}))

	article, err := s.GetArticle(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "a1", article.ID)
	assert.Equal(t, models.ArticleStatusPublished, article.Status, "status é normalizado")
	assert.Equal(t, []string{"vacina", "sus"}, article.Tags, "tags vazias e duplicadas são removidas")
	assert.Equal(t, int64(42), article.ViewCount)
	assert.True(t, article.IsEligible(pgNow))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetArticleErros(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "inexistente",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM articles a`).WithArgs("x").WillReturnRows(pgxmock.NewRows(pgColumns))
			},
			wantErr: ErrNotFound,
		},
		{
			name: "registro inválido",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`FROM articles a`).WithArgs("x").
					WillReturnRows(pgxmock.NewRows(pgColumns).
						AddRow("x", "", "", "", "", "published", publishedAt(-time.Hour), int64(0), []string{}))
			},
			wantErr: ErrInvalidArticle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mock := newMockStore(t)
			tt.setup(mock)

			_, err := s.GetArticle(context.Background(), "x")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPostgresFindCandidates(t *testing.T) {
	s, mock := newMockStore(t)
	source := models.Article{ID: "src", CategoryID: "saude", Tags: []string{"vacina"}}

	mock.ExpectQuery(`a.id <> \$2`).
		WithArgs(pgNow, "src", "saude", []string{"vacina"}, 50).
		WillReturnRows(pgxmock.NewRows(pgColumns).
			AddRow("c1", "saude", "Campanha", "", "", "published", publishedAt(-time.Hour), int64(90), []string{}).
			AddRow("c2", "saude", "Agendado", "", "", "published", publishedAt(time.Hour), int64(80), []string{"vacina"}).
			AddRow("src", "saude", "Fonte", "", "", "published", publishedAt(-time.Hour), int64(70), []string{"vacina"}).
			AddRow("c3", "outra", "Postos", "", "", "published", publishedAt(-2*time.Hour), int64(10), []string{"vacina"}))

	articles, err := s.FindCandidates(context.Background(), source, pgNow, 50)
	require.NoError(t, err)

	got := make([]string, 0, len(articles))
	for _, a := range articles {
		got = append(got, a.ID)
	}
	assert.Equal(t, []string{"c1", "c3"}, got, "agendados e o fonte são descartados na fronteira")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindPopular(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`NOT \(a.id = ANY\(\$2\)\)`).
		WithArgs(pgNow, []string{"src"}, 6).
		WillReturnRows(pgxmock.NewRows(pgColumns).
			AddRow("p1", "cultura", "Carnaval", "", "", "published", publishedAt(-time.Hour), int64(1000), []string{}))

	articles, err := s.FindPopular(context.Background(), []string{"src"}, pgNow, 3)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "p1", articles[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindPopularDescartaInvalidosSemFicarAbaixoDoLimite(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`NOT \(a.id = ANY\(\$2\)\)`).
		WithArgs(pgNow, []string{"src"}, 6).
		WillReturnRows(pgxmock.NewRows(pgColumns).
			AddRow("p0", "cultura", "", "", "", "published", publishedAt(-time.Hour), int64(5000), []string{}).
			AddRow("p1", "cultura", "Carnaval", "", "", "published", publishedAt(-time.Hour), int64(1000), []string{}).
			AddRow("p2", "saude", "Vacinação", "", "", "published", publishedAt(-time.Hour), int64(900), []string{}).
			AddRow("p3", "obras", "Asfalto", "", "", "published", publishedAt(-time.Hour), int64(800), []string{}).
			AddRow("p4", "obras", "Calçadas", "", "", "published", publishedAt(-time.Hour), int64(700), []string{}))

	articles, err := s.FindPopular(context.Background(), []string{"src"}, pgNow, 3)
	require.NoError(t, err)
	require.Len(t, articles, 3)
	assert.Equal(t, "p1", articles[0].ID)
	assert.Equal(t, "p3", articles[2].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindPopularFalha(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`FROM articles a`).
		WithArgs(pgNow, []string{}, 6).
		WillReturnError(errors.New("connection reset by peer"))

	_, err := s.FindPopular(context.Background(), nil, pgNow, 3)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestPostgresListArticles(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`a.id > \$1`).
		WithArgs("", 2).
		WillReturnRows(pgxmock.NewRows(pgColumns).
			AddRow("a1", "saude", "Um", "", "", "draft", (*time.Time)(nil), int64(0), []string{}).
			AddRow("a2", "saude", "Dois", "", "", "published", publishedAt(-time.Hour), int64(5), []string{"x"}))

	articles, err := s.ListArticles(context.Background(), "", 2)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Nil(t, articles[0].PublishedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
