package cli

import "io"

// GlobalFlags holds flags available to all subcommands.
type GlobalFlags struct {
	Config  string `long:"config" description:"Path to a yaml config file" default:""`
	File    string `long:"file" short:"f" description:"Bookmarks JSON file (overrides BOOKMARKS_FILE)"`
	JSON    bool   `long:"json" description:"Output in JSON format"`
	Verbose bool   `long:"verbose" short:"v" description:"Log at debug level"`
	Version bool   `long:"version" description:"Show version and exit"`
}

// ServeCommand runs the HTTP panel.
type ServeCommand struct {
	Listen string `long:"listen" description:"Listen address (overrides BOOKMARKS_LISTEN_PORT)"`

	globals *GlobalFlags
	version string
}

// ListCommand prints the bookmarks through the table engine.
type ListCommand struct {
	Search string `long:"search" short:"s" description:"Only bookmarks whose name, url or description contains this text"`
	Sort   string `long:"sort" description:"Sort column: name | url | description" default:"name"`
	Desc   bool   `long:"desc" description:"Sort descending"`

	globals *GlobalFlags
	version string
}

// AddCommand creates a bookmark. Missing fields are prompted for.
type AddCommand struct {
	Name        string `long:"name" description:"Display name"`
	URL         string `long:"url" description:"Address (https:// is added unless it starts with http:// or https://)"`
	Description string `long:"description" description:"Optional description"`

	globals *GlobalFlags
	version string
	in      io.Reader
}

// EditCommand updates a bookmark. Omitted fields keep their value.
type EditCommand struct {
	Name        string `long:"name" description:"New display name"`
	URL         string `long:"url" description:"New address"`
	Description string `long:"description" description:"New description"`
	Interactive bool   `long:"interactive" short:"i" description:"Prompt for every field"`
	Args        struct {
		ID string `positional-arg-name:"id" required:"yes"`
	} `positional-args:"yes"`

	globals *GlobalFlags
	version string
	in      io.Reader
}

// DeleteCommand removes a bookmark after confirmation.
type DeleteCommand struct {
	Yes  bool `long:"yes" short:"y" description:"Do not ask for confirmation"`
	Args struct {
		ID string `positional-arg-name:"id" required:"yes"`
	} `positional-args:"yes"`

	globals *GlobalFlags
	version string
	in      io.Reader
}

// ImportCommand adds the entries of a Homepage bookmarks.yaml or services.yaml.
type ImportCommand struct {
	Args struct {
		Path string `positional-arg-name:"path" required:"yes"`
	} `positional-args:"yes"`

	globals *GlobalFlags
	version string
}
