// Package catalog is the static registry of AI providers and their models.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/feiaaa1/mindstream/internal/domain/entity"
	domainErrors "github.com/feiaaa1/mindstream/internal/domain/errors"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type catalogFile struct {
	Providers []providerEntry `yaml:"providers"`
}

type providerEntry struct {
	ID             string       `yaml:"id"`
	Name           string       `yaml:"name"`
	Description    string       `yaml:"description"`
	IsFree         bool         `yaml:"is_free"`
	SupportsSpeech bool         `yaml:"supports_speech"`
	SupportsText   bool         `yaml:"supports_text"`
	APIKeyRequired bool         `yaml:"api_key_required"`
	Website        string       `yaml:"website"`
	Models         []modelEntry `yaml:"models"`
}

type modelEntry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Type        string `yaml:"type"`
	MaxTokens   int    `yaml:"max_tokens"`
	CostPer1k   string `yaml:"cost_per_1k"`
}

// Registry answers provider and model lookups over an immutable catalog.
// All methods return copies, so callers cannot mutate the catalog.
type Registry struct {
	providers []entity.Provider
	byID      map[string]int
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// Default returns the registry built from the embedded catalog.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultRegistry, defaultErr = Parse(defaultCatalog)
	})
	return defaultRegistry, defaultErr
}

// MustDefault is Default that panics on a broken embedded catalog.
func MustDefault() *Registry {
	r, err := Default()
	if err != nil {
		panic(err)
	}
	return r
}

// Parse builds a registry from catalog YAML and validates it.
func Parse(data []byte) (*Registry, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal catalog yaml: %w", err)
	}

	return build(file.Providers)
}

// build validates the entries and assembles a registry.
func build(entries []providerEntry) (*Registry, error) {
	r := &Registry{
		providers: make([]entity.Provider, 0, len(entries)),
		byID:      make(map[string]int, len(entries)),
	}

	for i, entry := range entries {
		if entry.ID == "" {
			return nil, fmt.Errorf("providers[%d]: id is required", i)
		}
		if _, dup := r.byID[entry.ID]; dup {
			return nil, fmt.Errorf("providers[%d]: duplicate provider id %q", i, entry.ID)
		}

		p := entity.Provider{
			ID:             entry.ID,
			Name:           entry.Name,
			Description:    entry.Description,
			IsFree:         entry.IsFree,
			SupportsSpeech: entry.SupportsSpeech,
			SupportsText:   entry.SupportsText,
			APIKeyRequired: entry.APIKeyRequired,
			Website:        entry.Website,
			Models:         make([]entity.Model, 0, len(entry.Models)),
		}

		seen := make(map[string]struct{}, len(entry.Models))
		for j, me := range entry.Models {
			m, err := toModel(p, me)
			if err != nil {
				return nil, fmt.Errorf("providers[%d].models[%d]: %w", i, j, err)
			}
			if _, dup := seen[m.ID]; dup {
				return nil, fmt.Errorf("providers[%d].models[%d]: duplicate model id %q", i, j, m.ID)
			}
			seen[m.ID] = struct{}{}
			p.Models = append(p.Models, m)
		}

		r.byID[p.ID] = len(r.providers)
		r.providers = append(r.providers, p)
	}

	return r, nil
}

func toModel(p entity.Provider, me modelEntry) (entity.Model, error) {
	if me.ID == "" {
		return entity.Model{}, fmt.Errorf("id is required")
	}

	m := entity.Model{
		ID:          me.ID,
		Name:        me.Name,
		Description: me.Description,
		Type:        entity.ModelType(me.Type),
		MaxTokens:   me.MaxTokens,
	}

	switch m.Type {
	case entity.ModelTypeSpeech:
		if !p.SupportsSpeech {
			return entity.Model{}, fmt.Errorf("speech model %q on provider %q without speech support", m.ID, p.ID)
		}
	case entity.ModelTypeText:
		if !p.SupportsText {
			return entity.Model{}, fmt.Errorf("text model %q on provider %q without text support", m.ID, p.ID)
		}
	default:
		return entity.Model{}, fmt.Errorf("model %q has unknown type %q", m.ID, me.Type)
	}

	if me.CostPer1k != "" {
		cost, err := decimal.NewFromString(me.CostPer1k)
		if err != nil {
			return entity.Model{}, fmt.Errorf("model %q cost_per_1k: %w", m.ID, err)
		}
		if cost.IsNegative() {
			return entity.Model{}, fmt.Errorf("model %q cost_per_1k must not be negative", m.ID)
		}
		m.CostPer1k = &cost
	}

	return m, nil
}

// ListProviders returns every provider in catalog order.
func (r *Registry) ListProviders() []entity.Provider {
	out := make([]entity.Provider, 0, len(r.providers))
	for _, p := range r.providers {
		out = append(out, clone(p))
	}
	return out
}

// ProviderByID returns the provider with the given id.
func (r *Registry) ProviderByID(id string) (entity.Provider, bool) {
	i, ok := r.byID[id]
	if !ok {
		return entity.Provider{}, false
	}
	return clone(r.providers[i]), true
}

// ModelByID returns a model of the given provider.
func (r *Registry) ModelByID(providerID, modelID string) (entity.Model, bool) {
	i, ok := r.byID[providerID]
	if !ok {
		return entity.Model{}, false
	}
	m, ok := r.providers[i].Model(modelID)
	if !ok {
		return entity.Model{}, false
	}
	return cloneModel(m), true
}

// ListByCapability filters providers, keeping catalog order.
// An unknown capability matches nothing.
func (r *Registry) ListByCapability(c entity.Capability) []entity.Provider {
	out := make([]entity.Provider, 0)
	for _, p := range r.providers {
		if p.Supports(c) {
			out = append(out, clone(p))
		}
	}
	return out
}

func clone(p entity.Provider) entity.Provider {
	models := make([]entity.Model, len(p.Models))
	for i, m := range p.Models {
		models[i] = cloneModel(m)
	}
	p.Models = models
	return p
}

func cloneModel(m entity.Model) entity.Model {
	if m.CostPer1k != nil {
		cost := *m.CostPer1k
		m.CostPer1k = &cost
	}
	return m
}

// Resolve looks up a provider/model pair and checks it can serve the given
// model type. Unknown ids come back as UnknownProviderError, a pair that
// cannot serve want as UnsupportedCapabilityError.
func (r *Registry) Resolve(providerID, modelID string, want entity.ModelType) (entity.Provider, entity.Model, error) {
	p, ok := r.ProviderByID(providerID)
	if !ok {
		return entity.Provider{}, entity.Model{}, &domainErrors.UnknownProviderError{ProviderID: providerID}
	}

	m, ok := p.Model(modelID)
	if !ok {
		return entity.Provider{}, entity.Model{}, &domainErrors.UnknownProviderError{ProviderID: providerID, ModelID: modelID}
	}

	supported := p.SupportsText
	if want == entity.ModelTypeSpeech {
		supported = p.SupportsSpeech
	}
	if !supported || m.Type != want {
		return entity.Provider{}, entity.Model{}, &domainErrors.UnsupportedCapabilityError{
			ProviderID: providerID,
			Capability: string(want),
		}
	}
	return p, m, nil
}
