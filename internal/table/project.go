package table

import (
	"sort"
	"strings"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

// Order is a sort direction.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// State is what the user controls: sort column, direction and search term.
type State struct {
	SortColumn int    `json:"sort_column"`
	Order      Order  `json:"order"`
	Search     string `json:"search"`
}

// DefaultState sorts by the first column, ascending, without a filter.
func DefaultState() State {
	return State{SortColumn: 0, Order: Asc}
}

// ToggleSort selects col. Reselecting the current column flips the direction,
// a new column starts ascending.
func (s State) ToggleSort(col int) State {
	if s.SortColumn == col {
		if s.Order == Asc {
			s.Order = Desc
		} else {
			s.Order = Asc
		}
		return s
	}
	s.SortColumn = col
	s.Order = Asc
	return s
}

// Actions carries what the edit and delete controls need.
type Actions struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Cell is one rendered table cell.
type Cell struct {
	Column  string   `json:"column"`
	Class   string   `json:"class,omitempty"`
	Text    string   `json:"text,omitempty"`
	Href    string   `json:"href,omitempty"`
	Actions *Actions `json:"actions,omitempty"`
}

// Row is one display row. An Empty row carries only Message.
type Row struct {
	ID      string `json:"id,omitempty"`
	Cells   []Cell `json:"cells,omitempty"`
	Empty   bool   `json:"empty,omitempty"`
	Message string `json:"message,omitempty"`
}

// Filter keeps the records where any searchable column contains term,
// case-insensitively. An empty term keeps everything.
func Filter(cfg Config, records domain.Collection, term string) domain.Collection {
	if term == "" {
		return records.Clone()
	}
	needle := strings.ToLower(term)
	out := domain.Collection{}
	for _, b := range records {
		for _, col := range cfg.SearchColumns {
			if strings.Contains(strings.ToLower(cfg.value(col, b)), needle) {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

// Sort orders records in place by the state's column, case-folded.
// Ties keep their relative order.
func Sort(cfg Config, records domain.Collection, st State) {
	type keyed struct {
		key string
		b   domain.Bookmark
	}
	items := make([]keyed, len(records))
	for i, b := range records {
		items[i] = keyed{key: strings.ToLower(cfg.value(st.SortColumn, b)), b: b}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if st.Order == Desc {
			return items[i].key > items[j].key
		}
		return items[i].key < items[j].key
	})
	for i := range items {
		records[i] = items[i].b
	}
}

// Project derives display rows from records without touching them.
func Project(cfg Config, records domain.Collection, st State) []Row {
	filtered := Filter(cfg, records, st.Search)
	Sort(cfg, filtered, st)

	if len(filtered) == 0 {
		return []Row{{Empty: true, Message: cfg.EmptyMessage}}
	}

	rows := make([]Row, 0, len(filtered))
	for _, b := range filtered {
		rows = append(rows, renderRow(cfg, b))
	}
	return rows
}

func renderRow(cfg Config, b domain.Bookmark) Row {
	cells := make([]Cell, 0, len(cfg.Columns))
	for i, col := range cfg.Columns {
		cell := Cell{Column: col.Key, Class: col.Class}
		switch {
		case col.Key == KeyActions:
			cell.Actions = &Actions{ID: b.ID, Name: b.Name}
		default:
			cell.Text = cfg.value(i, b)
			if col.Link {
				cell.Href = b.URL
			}
		}
		cells = append(cells, cell)
	}
	return Row{ID: b.ID, Cells: cells}
}
