// Package table projects the bookmark collection into display rows:
// filter by search term, sort by a column, render one cell per column.
package table

import "github.com/MrSnakeDoc/bookmarks/internal/domain"

// Column keys.
const (
	KeyName        = "name"
	KeyURL         = "url"
	KeyDescription = "description"
	KeyActions     = "actions"
)

const DefaultEmptyMessage = `No bookmarks found. Click "Add bookmark" to create your first bookmark.`

// Column describes one table column.
type Column struct {
	Key   string
	Label string
	Class string
	// Value extracts the cell text. Columns without a Value (actions)
	// sort as empty and are never searched.
	Value func(b domain.Bookmark) string
	// Link makes the cell a hyperlink to the bookmark URL.
	Link bool
}

// Config is the static shape of the table.
type Config struct {
	Columns       []Column
	SearchColumns []int
	EmptyMessage  string
}

// DefaultConfig returns the bookmark table: Name, URL, Description, Actions,
// searchable on the first three.
func DefaultConfig() Config {
	return Config{
		Columns: []Column{
			{Key: KeyName, Label: "Name", Link: true, Value: func(b domain.Bookmark) string { return b.Name }},
			{Key: KeyURL, Label: "URL", Class: "url-link", Link: true, Value: func(b domain.Bookmark) string { return b.URL }},
			{Key: KeyDescription, Label: "Description", Value: func(b domain.Bookmark) string { return b.Description }},
			{Key: KeyActions, Label: "Actions", Class: "actions-column"},
		},
		SearchColumns: []int{0, 1, 2},
		EmptyMessage:  DefaultEmptyMessage,
	}
}

// ColumnIndex returns the index of the column with the given key, or -1.
func (c Config) ColumnIndex(key string) int {
	for i, col := range c.Columns {
		if col.Key == key {
			return i
		}
	}
	return -1
}

func (c Config) value(col int, b domain.Bookmark) string {
	if col < 0 || col >= len(c.Columns) || c.Columns[col].Value == nil {
		return ""
	}
	return c.Columns[col].Value(b)
}
