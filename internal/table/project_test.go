package table

import (
	"testing"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

func names(rows []Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.Empty {
			out = append(out, "<empty>")
			continue
		}
		out = append(out, r.Cells[0].Text)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sample() domain.Collection {
	return domain.Collection{
		{ID: "1", Name: "Docs", URL: "https://docs.internal", Description: "team wiki"},
		{ID: "2", Name: "docs.example", URL: "https://docs.example"},
		{ID: "3", Name: "Example", URL: "https://example.com", Description: "landing page"},
	}
}

func TestProjectSearch(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"empty term keeps all in sort order", "", []string{"Docs", "docs.example", "Example"}},
		{"case-insensitive substring", "Doc", []string{"Docs", "docs.example"}},
		{"matches description", "WIKI", []string{"Docs"}},
		{"matches url", "example.com", []string{"Example"}},
		{"no match renders empty row", "nothing-here", []string{"<empty>"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := DefaultState()
			st.Search = tt.search
			got := names(Project(cfg, sample(), st))
			if !equal(got, tt.want) {
				t.Errorf("Project() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProjectEmptyRowMessage(t *testing.T) {
	rows := Project(DefaultConfig(), domain.Collection{}, DefaultState())
	if len(rows) != 1 || !rows[0].Empty {
		t.Fatalf("Project() on empty data = %+v", rows)
	}
	if rows[0].Message != DefaultEmptyMessage {
		t.Errorf("Message = %q", rows[0].Message)
	}
}

func TestProjectDoesNotMutateInput(t *testing.T) {
	in := domain.Collection{{ID: "b", Name: "b"}, {ID: "a", Name: "a"}}
	Project(DefaultConfig(), in, DefaultState())
	if in[0].ID != "b" {
		t.Error("Project() must not reorder its input")
	}
}

func TestSortStableAndDirection(t *testing.T) {
	cfg := DefaultConfig()
	in := domain.Collection{
		{ID: "1", Name: "beta", Description: "x"},
		{ID: "2", Name: "Alpha", Description: "x"},
		{ID: "3", Name: "alpha", Description: "x"},
	}

	asc := names(Project(cfg, in, State{SortColumn: 0, Order: Asc}))
	if !equal(asc, []string{"Alpha", "alpha", "beta"}) {
		t.Errorf("asc = %v", asc)
	}

	desc := names(Project(cfg, in, State{SortColumn: 0, Order: Desc}))
	if !equal(desc, []string{"beta", "Alpha", "alpha"}) {
		t.Errorf("desc = %v", desc)
	}

	// all descriptions tie, so storage order is kept
	byDesc := names(Project(cfg, in, State{SortColumn: 2, Order: Asc}))
	if !equal(byDesc, []string{"beta", "Alpha", "alpha"}) {
		t.Errorf("tie order = %v", byDesc)
	}
}

func TestToggleSort(t *testing.T) {
	st := DefaultState()

	st = st.ToggleSort(0)
	if st.SortColumn != 0 || st.Order != Desc {
		t.Errorf("same column should flip to desc, got %+v", st)
	}
	st = st.ToggleSort(0)
	if st.Order != Asc {
		t.Errorf("same column twice should flip back to asc, got %+v", st)
	}
	st = st.ToggleSort(0).ToggleSort(1)
	if st.SortColumn != 1 || st.Order != Asc {
		t.Errorf("new column should reset to asc, got %+v", st)
	}
}

func TestRenderRowCells(t *testing.T) {
	rows := Project(DefaultConfig(), domain.Collection{{ID: "x", Name: "Docs", URL: "https://docs"}}, DefaultState())
	cells := rows[0].Cells
	if len(cells) != 4 {
		t.Fatalf("cells = %d, want one per column", len(cells))
	}
	if cells[0].Href != "https://docs" || cells[1].Href != "https://docs" {
		t.Errorf("name and url cells should link to the bookmark: %+v", cells[:2])
	}
	if cells[2].Href != "" {
		t.Error("description should not be a link")
	}
	a := cells[3].Actions
	if a == nil || a.ID != "x" || a.Name != "Docs" {
		t.Errorf("actions cell = %+v", cells[3])
	}
}
