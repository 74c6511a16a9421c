package schemas

import (
	"github.com/typesense/typesense-go/v3/typesense/api"
)

// ArticlesV1 retorna o schema baseline da collection de artigos
func ArticlesV1() *SchemaDefinition {
	return &SchemaDefinition{
		Version:      "v1",
		SortingField: "view_count",
		Fields: []api.Field{
			{Name: "id", Type: "string", Optional: BoolPtr(true)},
			{Name: "category_id", Type: "string", Facet: BoolPtr(true)},
			{Name: "tags", Type: "string[]", Facet: BoolPtr(true)},
			{Name: "title", Type: "string", Facet: BoolPtr(false)},
			{Name: "summary", Type: "string", Facet: BoolPtr(false), Optional: BoolPtr(true)},
			{Name: "slug", Type: "string", Facet: BoolPtr(false), Optional: BoolPtr(true)},
			{Name: "status", Type: "string", Facet: BoolPtr(true)},
			{Name: "published_at", Type: "int64", Facet: BoolPtr(false)},
			{Name: "view_count", Type: "int64", Facet: BoolPtr(false)},
		},
	}
}
