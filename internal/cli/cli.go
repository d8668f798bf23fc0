// Package cli is the command line front-end: it serves the panel and edits
// the bookmarks file directly.
package cli

import (
	"errors"
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Serve  *ServeCommand
	List   *ListCommand
	Add    *AddCommand
	Edit   *EditCommand
	Delete *DeleteCommand
	Import *ImportCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "bookmarks"
	parser.LongDescription = "Manage the bookmarks shown in the server panel, stored in a single JSON file."

	cmds := &commands{
		Serve:  &ServeCommand{globals: &globals, version: version},
		List:   &ListCommand{globals: &globals, version: version},
		Add:    &AddCommand{globals: &globals, version: version, in: os.Stdin},
		Edit:   &EditCommand{globals: &globals, version: version, in: os.Stdin},
		Delete: &DeleteCommand{globals: &globals, version: version, in: os.Stdin},
		Import: &ImportCommand{globals: &globals, version: version},
	}

	mustAdd(parser, "serve", "Serve the bookmarks panel", "Serve the bookmarks panel and JSON API over HTTP.", cmds.Serve)
	mustAdd(parser, "list", "List bookmarks", "List bookmarks, optionally filtered and sorted.", cmds.List)
	mustAdd(parser, "add", "Add a bookmark", "Add a bookmark. Fields not given as flags are prompted for.", cmds.Add)
	mustAdd(parser, "edit", "Edit a bookmark", "Edit the bookmark with the given id.", cmds.Edit)
	mustAdd(parser, "delete", "Delete a bookmark", "Delete the bookmark with the given id after confirmation.", cmds.Delete)
	mustAdd(parser, "import", "Import Homepage bookmarks", "Import a Homepage bookmarks.yaml or services.yaml. Known urls are skipped.", cmds.Import)

	return parser, &globals, cmds
}

func mustAdd(p *goflags.Parser, name, short, long string, data interface{}) {
	if _, err := p.AddCommand(name, short, long, data); err != nil {
		panic(fmt.Sprintf("register %s command: %v", name, err))
	}
}

// Run is the main entry point using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// go-flags requires a subcommand, but --version is valid without one.
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Println(version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		var flagsErr *goflags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == goflags.ErrHelp {
			return nil
		}
		return err
	}
	return nil
}
