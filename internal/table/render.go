package table

import (
	"bytes"
	"html/template"
	"io"
)

const LoadingMessage = "Loading bookmarks..."

var tableTemplate = template.Must(template.New("table").Parse(`<table id="bookmarks-table">
<thead><tr>
{{- range $i, $c := .Columns}}
<th{{with $c.Class}} class="{{.}}"{{end}}>
{{- if eq $c.Key "actions"}}{{$c.Label}}{{else -}}
<button class="sort-button" data-column="{{$c.Key}}">{{$c.Label}}<span class="sort-indicator{{if eq $i $.State.SortColumn}} {{$.State.Order}}{{end}}"></span></button>
{{- end}}</th>
{{- end}}
</tr></thead>
<tbody{{if .Loading}} class="loading"{{end}}>
{{- if .Loading}}
<tr class="loading-row"><td colspan="{{len .Columns}}" class="loading-cell">{{.LoadingMessage}}</td></tr>
{{- else}}{{range .Rows}}
{{- if .Empty}}
<tr class="empty-row"><td colspan="{{len $.Columns}}">{{.Message}}</td></tr>
{{- else}}
<tr data-id="{{.ID}}">
{{- range .Cells}}<td{{with .Class}} class="{{.}}"{{end}}>
{{- if .Actions}}<div class="table-action-buttons">
<button class="table-action-btn primary" data-action="edit" data-id="{{.Actions.ID}}">Edit</button>
<button class="table-action-btn danger" data-action="delete" data-id="{{.Actions.ID}}" data-name="{{.Actions.Name}}">Delete</button>
</div>
{{- else if .Href}}<a href="{{.Href}}" target="_blank" rel="noopener noreferrer">{{.Text}}</a>
{{- else}}{{.Text}}{{end -}}
</td>{{end}}
</tr>
{{- end}}{{end}}{{end}}
</tbody>
</table>`))

type tableData struct {
	Columns        []Column
	State          State
	Rows           []Row
	Loading        bool
	LoadingMessage string
}

// Render writes the table as HTML. Every value is escaped by html/template.
func Render(w io.Writer, cfg Config, st State, rows []Row, loading bool) error {
	return tableTemplate.Execute(w, tableData{
		Columns:        cfg.Columns,
		State:          st,
		Rows:           rows,
		Loading:        loading,
		LoadingMessage: LoadingMessage,
	})
}

// HTML renders the view's current table.
func (v *View) HTML() (template.HTML, error) {
	var buf bytes.Buffer
	if err := Render(&buf, v.cfg, v.State(), v.Rows(), !v.Loaded()); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil // #nosec G203 -- produced by html/template
}
