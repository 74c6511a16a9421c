package schemas

import (
	"fmt"
	"sort"
	"sync"

	"github.com/typesense/typesense-go/v3/typesense/api"
)

// SchemaDefinition define o schema de uma collection Typesense
type SchemaDefinition struct {
	Version      string
	Fields       []api.Field
	SortingField string
}

// CollectionSchema monta o schema de criação para a collection informada
func (d *SchemaDefinition) CollectionSchema(name string) *api.CollectionSchema {
	fields := make([]api.Field, len(d.Fields))
	copy(fields, d.Fields)

	schema := &api.CollectionSchema{
		Name:   name,
		Fields: fields,
	}
	if d.SortingField != "" {
		schema.DefaultSortingField = StringPtr(d.SortingField)
	}
	return schema
}

// Registry mantém o registro de schemas versionados
type Registry struct {
	mu             sync.RWMutex
	schemas        map[string]*SchemaDefinition
	currentVersion string
}

// NewRegistry cria um novo registro já com os schemas de artigos
func NewRegistry() *Registry {
	r := &Registry{
		schemas: make(map[string]*SchemaDefinition),
	}

	r.Register(ArticlesV1())

	return r
}

// Register registra um novo schema; a maior versão vira a atual
func (r *Registry) Register(schema *SchemaDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.schemas[schema.Version] = schema

	if r.currentVersion == "" || schema.Version > r.currentVersion {
		r.currentVersion = schema.Version
	}
}

// GetSchema retorna um schema por versão
func (r *Registry) GetSchema(version string) (*SchemaDefinition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, exists := r.schemas[version]
	if !exists {
		return nil, fmt.Errorf("schema versão '%s' não encontrado", version)
	}

	return schema, nil
}

// Current retorna o schema da versão atual
func (r *Registry) Current() *SchemaDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.schemas[r.currentVersion]
}

// ListVersions retorna as versões registradas em ordem
func (r *Registry) ListVersions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions := make([]string, 0, len(r.schemas))
	for version := range r.schemas {
		versions = append(versions, version)
	}
	sort.Strings(versions)

	return versions
}

// StringPtr retorna um ponteiro para string
func StringPtr(s string) *string {
	return &s
}

// BoolPtr retorna um ponteiro para bool
func BoolPtr(b bool) *bool {
	return &b
}
