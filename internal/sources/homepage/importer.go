package homepage

import (
	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

// Store is what the importer needs from the bookmark store.
type Store interface {
	All() domain.Collection
	Create(name, url, description string) domain.Bookmark
}

// ImportResult summarizes an import.
type ImportResult struct {
	Added     []domain.Bookmark `json:"added"`
	Duplicate int               `json:"duplicate"`
	Invalid   int               `json:"invalid"`
}

// Importer adds Homepage entries to the store.
type Importer struct {
	store  Store
	mapper *Mapper
	logger logger.Logger
}

func NewImporter(store Store, log logger.Logger) *Importer {
	return &Importer{store: store, mapper: NewMapper(), logger: log}
}

// Import parses data and creates a bookmark for every url not yet present.
func (i *Importer) Import(data []byte) (ImportResult, error) {
	entries, err := Parse(data)
	if err != nil {
		return ImportResult{}, err
	}
	return i.ImportEntries(entries), nil
}

// ImportEntries creates a bookmark for every valid entry whose url is new.
func (i *Importer) ImportEntries(entries []Entry) ImportResult {
	forms, skipped := i.mapper.Map(entries)
	res := ImportResult{Added: []domain.Bookmark{}, Invalid: len(skipped)}

	known := make(map[string]bool)
	for _, b := range i.store.All() {
		known[b.URL] = true
	}

	for _, f := range forms {
		if known[f.URL] {
			res.Duplicate++
			continue
		}
		known[f.URL] = true
		res.Added = append(res.Added, i.store.Create(f.Name, f.URL, f.Description))
	}

	i.logger.Info("imported homepage bookmarks",
		logger.Int("added", len(res.Added)),
		logger.Int("duplicate", res.Duplicate),
		logger.Int("invalid", res.Invalid))
	return res
}
