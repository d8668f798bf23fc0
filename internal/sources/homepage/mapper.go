package homepage

import (
	"strings"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

// Mapper converts Homepage entries to bookmark form data
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// Map validates every entry as if it had been typed into the bookmark form.
// Entries without a name or href are returned in skipped.
func (m *Mapper) Map(entries []Entry) (forms []domain.FormData, skipped []Entry) {
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			name = e.Abbr
		}

		data, err := domain.FormData{
			Name:        name,
			URL:         e.Href,
			Description: describe(e),
		}.Validate()
		if err != nil {
			skipped = append(skipped, e)
			continue
		}
		forms = append(forms, data)
	}
	return forms, skipped
}

// describe keeps the entry's own description, falling back to its group.
func describe(e Entry) string {
	if d := strings.TrimSpace(e.Description); d != "" {
		return d
	}
	return e.Group
}
