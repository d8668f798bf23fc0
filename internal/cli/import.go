package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/MrSnakeDoc/bookmarks/internal/host"
	"github.com/MrSnakeDoc/bookmarks/internal/sources/homepage"
)

// Execute implements the go-flags Commander interface for ImportCommand.
func (c *ImportCommand) Execute(args []string) error {
	ctx := context.Background()
	s, err := openSession(ctx, c.globals)
	if err != nil {
		return err
	}
	defer s.close()

	return c.executeWithSession(ctx, s, os.Stdout)
}

func (c *ImportCommand) executeWithSession(ctx context.Context, s *session, out io.Writer) error {
	loader := homepage.NewLoader(c.Args.Path, host.NewLocalFiles(host.NewLocalCommands()))
	entries, err := loader.Load(ctx)
	if err != nil {
		return err
	}

	res := homepage.NewImporter(s.store, s.log).ImportEntries(entries)
	if len(res.Added) > 0 {
		if err := s.saved(); err != nil {
			return err
		}
	}

	if c.globals.JSON {
		return printJSON(out, res)
	}
	fmt.Fprintf(out, "Imported %d bookmarks (%d already present, %d invalid)\n",
		len(res.Added), res.Duplicate, res.Invalid)
	for _, b := range res.Added {
		fmt.Fprintf(out, "  + %s  %s\n", b.Name, b.URL)
	}
	return nil
}
