package homepage

import "gopkg.in/yaml.v3"

// Document is the shared shape of Homepage's bookmarks.yaml and services.yaml:
// a list of groups, each a list of named items. The item node is a sequence
// in bookmarks.yaml and a mapping in services.yaml.
type Document []map[string][]map[string]yaml.Node

// BookmarkEntry is one item of bookmarks.yaml.
// The YAML structure is: - Group: [ - Name: [{ icon, abbr, href, description }] ]
type BookmarkEntry struct {
	Icon        string `yaml:"icon"`
	Abbr        string `yaml:"abbr"`
	Href        string `yaml:"href"`
	Description string `yaml:"description,omitempty"`
}

// ServiceProps is one item of services.yaml.
// The YAML structure is: - Group: [ - Name: { href, icon, description, ... } ]
type ServiceProps struct {
	Href        string                 `yaml:"href"`
	Icon        string                 `yaml:"icon,omitempty"`
	Description string                 `yaml:"description,omitempty"`
	Target      string                 `yaml:"target,omitempty"`
	Ping        string                 `yaml:"ping,omitempty"`
	SiteMonitor string                 `yaml:"siteMonitor,omitempty"`
	Widget      map[string]interface{} `yaml:"widget,omitempty"`
}

// Entry is a Homepage item flattened out of its group.
type Entry struct {
	Group       string
	Name        string
	Abbr        string
	Href        string
	Description string
}
