package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/table"
)

// Execute implements the go-flags Commander interface for ListCommand.
func (c *ListCommand) Execute(args []string) error {
	s, err := openSession(context.Background(), c.globals)
	if err != nil {
		return err
	}
	defer s.close()

	return c.executeWithRecords(s.store.All(), os.Stdout)
}

// state builds the table state from the flags.
func (c *ListCommand) state(cfg table.Config) (table.State, error) {
	st := table.DefaultState()
	st.Search = c.Search

	col := cfg.ColumnIndex(c.Sort)
	if col < 0 || cfg.Columns[col].Value == nil {
		return st, fmt.Errorf("invalid --sort %q: use name, url or description", c.Sort)
	}
	st.SortColumn = col
	if c.Desc {
		st.Order = table.Desc
	}
	return st, nil
}

// executeWithRecords renders records through the table engine (used by tests).
func (c *ListCommand) executeWithRecords(records domain.Collection, out io.Writer) error {
	cfg := table.DefaultConfig()
	st, err := c.state(cfg)
	if err != nil {
		return err
	}

	matched := table.Filter(cfg, records, st.Search)
	table.Sort(cfg, matched, st)

	if c.globals.JSON {
		return printJSON(out, matched)
	}

	if len(matched) == 0 {
		if len(records) == 0 {
			fmt.Fprintln(out, cfg.EmptyMessage)
		} else {
			fmt.Fprintf(out, "No bookmarks match %q.\n", st.Search)
		}
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tURL\tDESCRIPTION")
	for _, b := range matched {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", b.ID, b.Name, b.URL, b.Description)
	}
	return tw.Flush()
}
