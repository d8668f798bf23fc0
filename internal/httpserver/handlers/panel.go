package handlers

import (
	"html/template"
	"net/http"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/notify"
)

// The page only wires buttons to the JSON API; every state change goes
// through the server and the table fragment is fetched again afterwards.
var panelTemplate = template.Must(template.New("panel").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Bookmarks</title>
<style>
body{font-family:sans-serif;margin:1.5rem}
.banner{padding:.5rem 1rem;margin-bottom:1rem;border-radius:4px}
.banner.success{background:#e6f4ea}.banner.error{background:#fce8e6}.banner.info{background:#e8f0fe}
.toolbar{display:flex;gap:.5rem;margin-bottom:1rem}
table{border-collapse:collapse;width:100%}th,td{text-align:left;padding:.4rem;border-bottom:1px solid #ddd}
.sort-button{background:none;border:0;font-weight:bold;cursor:pointer}
.sort-indicator.asc::after{content:" \25B2"}.sort-indicator.desc::after{content:" \25BC"}
dialog label{display:block;margin:.5rem 0}.field-error{color:#c5221f;font-size:.85em}
</style>
</head>
<body>
<h1>Bookmarks</h1>
<div id="notification" class="banner{{with .Notification}} {{.Kind}}{{end}}"{{if not .Notification}} hidden{{end}}>{{with .Notification}}{{.Message}}{{end}}</div>
<div class="toolbar">
<input id="bookmarks-search" type="search" placeholder="Search bookmarks..." value="{{.Search}}" autocomplete="off">
<button id="add-bookmark-btn" type="button">Add bookmark</button>
</div>
<div id="bookmarks-table-container">{{.Table}}</div>
<dialog id="bookmark-dialog">
<form id="bookmark-form" method="dialog">
<h2 id="bookmark-form-title">Add bookmark</h2>
<input type="hidden" name="id">
<label>Name <input name="name" required></label><span class="field-error" data-field="name"></span>
<label>URL <input name="url" required></label><span class="field-error" data-field="url"></span>
<label>Description <textarea name="description"></textarea></label>
<button type="submit" value="save">Save</button>
<button type="button" value="cancel" data-close>Cancel</button>
</form>
</dialog>
<script>
(function(){
'use strict';
const $ = (id) => document.getElementById(id);
const dialog = $('bookmark-dialog'), form = $('bookmark-form');
const f = (n) => form.elements[n];
let timer;

async function api(method, url, body) {
  const res = await fetch(url, {method, headers: {'Content-Type': 'application/json'}, body: body && JSON.stringify(body)});
  const data = res.status === 204 ? null : await res.json();
  if (!res.ok) { throw data; }
  return data;
}
async function refresh() {
  const res = await fetch('/api/table?format=html');
  $('bookmarks-table-container').innerHTML = await res.text();
  const n = await api('GET', '/api/notifications');
  const el = $('notification');
  el.hidden = !n.visible;
  if (n.visible) { el.className = 'banner ' + n.notification.type; el.textContent = n.notification.message; }
  clearTimeout(timer);
  if (n.visible) { timer = setTimeout(refresh, 4000); }
}
function openForm(b) {
  form.reset();
  form.querySelectorAll('.field-error').forEach((e) => e.textContent = '');
  $('bookmark-form-title').textContent = b ? 'Edit bookmark' : 'Add bookmark';
  f('id').value = b ? b.id : '';
  if (b) { f('name').value = b.name; f('url').value = b.url; f('description').value = b.description; }
  dialog.showModal();
}
const actions = {
  async edit(ds) { openForm(await api('GET', '/api/bookmarks/' + encodeURIComponent(ds.id))); },
  async delete(ds) {
    if (!confirm('Are you sure you want to delete the bookmark "' + ds.name + '"?')) { return; }
    await api('DELETE', '/api/bookmarks/' + encodeURIComponent(ds.id) + '?confirm=true');
    setTimeout(refresh, 300);
  },
};
document.addEventListener('click', async (e) => {
  const sort = e.target.closest('.sort-button');
  if (sort) { await api('POST', '/api/table/sort', {key: sort.dataset.column}); return refresh(); }
  const el = e.target.closest('[data-action]');
  if (el && actions[el.dataset.action]) { e.preventDefault(); actions[el.dataset.action](el.dataset).catch(console.error); }
  if (e.target.matches('[data-close]')) { dialog.close(); }
});
$('add-bookmark-btn').addEventListener('click', () => openForm(null));
form.addEventListener('submit', async (e) => {
  e.preventDefault();
  const body = {name: f('name').value, url: f('url').value, description: f('description').value};
  try {
    if (f('id').value) { await api('PUT', '/api/bookmarks/' + encodeURIComponent(f('id').value), body); }
    else { await api('POST', '/api/bookmarks', body); }
    dialog.close();
    setTimeout(refresh, 300);
  } catch (err) {
    const fields = (err && err.fields) || {};
    form.querySelectorAll('.field-error').forEach((s) => s.textContent = fields[s.dataset.field] || '');
  }
});
const search = $('bookmarks-search');
search.addEventListener('input', async () => {
  await api('POST', '/api/table/search', {term: search.value});
  clearTimeout(timer);
  timer = setTimeout(refresh, {{.DebounceMillis}} + 50);
});
search.addEventListener('keydown', (e) => {
  if (e.key === 'Escape' && search.value) { search.value = ''; search.dispatchEvent(new Event('input')); }
});
if ({{.Loading}}) { setTimeout(refresh, 500); }
})();
</script>
</body>
</html>
`))

type panelData struct {
	Notification   *notify.Notification
	Search         string
	Table          template.HTML
	Loading        bool
	DebounceMillis int64
}

// Panel serves the bookmarks page.
func Panel(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tbl, err := d.View.HTML()
		if err != nil {
			writeError(w, err, d.Logger)
			return
		}

		data := panelData{
			Search:         d.View.State().Search,
			Table:          tbl,
			Loading:        !d.View.Loaded(),
			DebounceMillis: d.SearchDebounce.Milliseconds(),
		}
		if n, ok := d.Banner.Current(); ok {
			data.Notification = &n
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if err := panelTemplate.Execute(w, data); err != nil {
			d.Logger.Error("failed to render panel", logger.Error(err))
		}
	}
}
