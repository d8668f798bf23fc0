package homepage

import (
	"context"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/bookmarks/internal/host"
)

var templateVar = regexp.MustCompile(`\{\{[^}]+\}\}`)

// Loader handles loading and parsing of a Homepage bookmarks.yaml or services.yaml
type Loader struct {
	filePath string
	files    host.Files
}

// NewLoader creates a new Homepage loader
func NewLoader(filePath string, files host.Files) *Loader {
	return &Loader{
		filePath: filePath,
		files:    files,
	}
}

// Load reads and parses the file
func (l *Loader) Load(ctx context.Context) ([]Entry, error) {
	data, err := l.files.Read(ctx, l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read homepage file: %w", err)
	}
	return Parse(data)
}

// Parse decodes either Homepage layout into flat entries, group by group.
func Parse(data []byte) ([]Entry, error) {
	// Strip Homepage template variables ({{HOMEPAGE_VAR_...}})
	data = stripTemplateVariables(data)

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse homepage yaml: %w", err)
	}

	var entries []Entry
	for _, group := range doc {
		for groupName, items := range group {
			for _, item := range items {
				for name, node := range item {
					e, ok, err := decodeItem(groupName, name, &node)
					if err != nil {
						return nil, fmt.Errorf("item %q in %q: %w", name, groupName, err)
					}
					if ok {
						entries = append(entries, e)
					}
				}
			}
		}
	}
	return entries, nil
}

func decodeItem(group, name string, node *yaml.Node) (Entry, bool, error) {
	e := Entry{Group: group, Name: name}

	switch node.Kind {
	case yaml.SequenceNode:
		// bookmarks.yaml: each bookmark has a list with a single entry
		var list []BookmarkEntry
		if err := node.Decode(&list); err != nil {
			return Entry{}, false, err
		}
		if len(list) == 0 {
			return Entry{}, false, nil
		}
		e.Abbr = list[0].Abbr
		e.Href = list[0].Href
		e.Description = list[0].Description
	case yaml.MappingNode:
		var props ServiceProps
		if err := node.Decode(&props); err != nil {
			return Entry{}, false, err
		}
		e.Href = props.Href
		e.Description = props.Description
	default:
		return Entry{}, false, nil
	}
	return e, true, nil
}

// stripTemplateVariables removes Homepage template variables from YAML
// Example: {{HOMEPAGE_VAR_ADGUARD_USER}} -> ""
func stripTemplateVariables(data []byte) []byte {
	return templateVar.ReplaceAll(data, []byte(`""`))
}
