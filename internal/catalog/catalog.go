// Package catalog provides the static daily quest catalog. The catalog is
// loaded from disk once at process start and treated as immutable afterwards.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/polarisfn/Polaris_Go/internal/domain"
)

// Source exposes a read-only view of the quest catalog.
type Source interface {
	Quests() []domain.QuestTemplate
}

type fileSource struct {
	quests []domain.QuestTemplate
}

// LoadFile reads the quest catalog JSON and returns an immutable Source.
func LoadFile(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	return Parse(data)
}

// Parse decodes a catalog document. Entries with an empty templateId are
// rejected; objective maps may be empty.
func Parse(data []byte) (Source, error) {
	var quests []domain.QuestTemplate
	if err := json.Unmarshal(data, &quests); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	for i, q := range quests {
		if q.TemplateID == "" {
			return nil, fmt.Errorf("%w: entry %d has empty templateId", domain.ErrCatalogUnavailable, i)
		}
	}

	return &fileSource{quests: quests}, nil
}

// Quests returns a copy of the catalog in load order. Callers may mutate the
// returned slice freely.
func (s *fileSource) Quests() []domain.QuestTemplate {
	out := make([]domain.QuestTemplate, len(s.quests))
	copy(out, s.quests)
	return out
}

// Static wraps an in-memory template list as a Source, for tests and tools.
func Static(quests []domain.QuestTemplate) Source {
	return &fileSource{quests: quests}
}
