package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/MrSnakeDoc/bookmarks/internal/apperror"
	"github.com/MrSnakeDoc/bookmarks/internal/dispatch"
	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

// Execute implements the go-flags Commander interface for AddCommand.
func (c *AddCommand) Execute(args []string) error {
	ctx := context.Background()
	s, err := openSession(ctx, c.globals)
	if err != nil {
		return err
	}
	defer s.close()

	return c.executeWithSession(ctx, s, os.Stdout)
}

func (c *AddCommand) executeWithSession(ctx context.Context, s *session, out io.Writer) error {
	var form dispatch.Form = dispatch.StaticForm{Data: domain.FormData{
		Name:        c.Name,
		URL:         c.URL,
		Description: c.Description,
	}}
	if c.Name == "" && c.URL == "" {
		form = dispatch.NewPrompt(c.in, out)
	}

	d := dispatch.New(s.store, form, dispatch.Answer(false), s.log)
	res, err := d.Dispatch(ctx, dispatch.Request{Action: dispatch.Add})
	if err != nil {
		return err
	}
	if err := s.saved(); err != nil {
		return err
	}
	return report(out, c.globals.JSON, res, "Added")
}

// Execute implements the go-flags Commander interface for EditCommand.
func (c *EditCommand) Execute(args []string) error {
	ctx := context.Background()
	s, err := openSession(ctx, c.globals)
	if err != nil {
		return err
	}
	defer s.close()

	return c.executeWithSession(ctx, s, os.Stdout)
}

func (c *EditCommand) executeWithSession(ctx context.Context, s *session, out io.Writer) error {
	var form dispatch.Form
	switch {
	case c.Interactive:
		form = dispatch.NewPrompt(c.in, out)
	case c.Name == "" && c.URL == "" && c.Description == "":
		return fmt.Errorf("nothing to change: pass --name, --url, --description or --interactive")
	default:
		form = dispatch.StaticForm{
			Data:    domain.FormData{Name: c.Name, URL: c.URL, Description: c.Description},
			Partial: true,
		}
	}

	d := dispatch.New(s.store, form, dispatch.Answer(false), s.log)
	res, err := d.Dispatch(ctx, dispatch.Request{Action: dispatch.Edit, ID: c.Args.ID})
	if err != nil {
		return err
	}
	if err := s.saved(); err != nil {
		return err
	}
	return report(out, c.globals.JSON, res, "Updated")
}

// Execute implements the go-flags Commander interface for DeleteCommand.
func (c *DeleteCommand) Execute(args []string) error {
	ctx := context.Background()
	s, err := openSession(ctx, c.globals)
	if err != nil {
		return err
	}
	defer s.close()

	return c.executeWithSession(ctx, s, os.Stdout)
}

func (c *DeleteCommand) executeWithSession(ctx context.Context, s *session, out io.Writer) error {
	var confirm dispatch.Confirmer = dispatch.Answer(true)
	if !c.Yes {
		confirm = dispatch.NewPrompt(c.in, out)
	}

	d := dispatch.New(s.store, dispatch.StaticForm{}, confirm, s.log)
	res, err := d.Dispatch(ctx, dispatch.Request{Action: dispatch.Delete, ID: c.Args.ID})
	if errors.Is(err, apperror.ErrDeclined) {
		return report(out, c.globals.JSON, res, "")
	}
	if err != nil {
		return err
	}
	if err := s.saved(); err != nil {
		return err
	}
	return report(out, c.globals.JSON, res, "Deleted")
}

// report prints the outcome of a dispatched action.
func report(out io.Writer, asJSON bool, res dispatch.Result, verb string) error {
	if asJSON {
		return printJSON(out, res)
	}
	if res.Canceled {
		fmt.Fprintln(out, "Canceled.")
		return nil
	}
	fmt.Fprintf(out, "%s %s (%s)\n", verb, res.Bookmark.Name, res.Bookmark.ID)
	return nil
}
