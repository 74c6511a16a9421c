package recommend

import "errors"

var (
	// ErrArticleNotFound indica que o artigo fonte não existe ou não está publicado
	ErrArticleNotFound = errors.New("artigo não encontrado")

	// ErrStoreUnavailable indica falha de infraestrutura no store; a requisição pode ser repetida
	ErrStoreUnavailable = errors.New("store de artigos indisponível")
)
