package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bookmarks/internal/bookmarks"
	"github.com/MrSnakeDoc/bookmarks/internal/config"
	"github.com/MrSnakeDoc/bookmarks/internal/dispatch"
	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/host"
	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/deps"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
	"github.com/MrSnakeDoc/bookmarks/internal/notify"
	"github.com/MrSnakeDoc/bookmarks/internal/scheduler"
	"github.com/MrSnakeDoc/bookmarks/internal/sources/homepage"
	"github.com/MrSnakeDoc/bookmarks/internal/storage"
	"github.com/MrSnakeDoc/bookmarks/internal/table"
)

const seed = `[
  {"id": "bookmark-1", "name": "Grafana", "url": "https://grafana.lan", "description": "dashboards", "created": "2024-01-01T00:00:00.000Z"},
  {"id": "bookmark-2", "name": "adguard", "url": "http://adguard.lan", "description": "", "created": "2024-01-02T00:00:00.000Z"}
]`

type harness struct {
	t         *testing.T
	handler   http.Handler
	file      string
	store     *bookmarks.Store
	view      *table.View
	persister *scheduler.Persister
	loader    *scheduler.Loader
	trigger   chan struct{}
}

func newHarness(t *testing.T, content string) *harness {
	t.Helper()
	h := newUnloadedHarness(t, content)
	require.NoError(t, h.loader.Load(context.Background()))
	return h
}

// newUnloadedHarness serves the API before the first load has run.
func newUnloadedHarness(t *testing.T, content string) *harness {
	t.Helper()
	log := logger.Nop()

	file := filepath.Join(t.TempDir(), "bookmarks.json")
	if content != "" {
		require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	}

	cmds := host.NewLocalCommands()
	gw := storage.NewFileGateway(file, host.NewLocalFiles(cmds), cmds)
	banner := notify.NewBanner(notify.DefaultTTL, log)

	persister := scheduler.NewPersister(gw, banner, nil, log)
	require.NoError(t, persister.Start(context.Background()))
	t.Cleanup(persister.Stop)

	store := bookmarks.NewStore(persister)
	view := table.NewView(table.DefaultConfig(), 10*time.Millisecond)
	t.Cleanup(view.Close)
	store.Subscribe(view.SetData)

	trigger := make(chan struct{}, 1)
	loader := scheduler.NewLoader(gw, store, persister, banner, log, trigger)

	cfg := &config.Config{
		ListenPort:         ":0",
		RequestTimeout:     5 * time.Second,
		RateLimitBurst:     1000,
		RateLimitPerMinute: 1000,
	}
	d := deps.Deps{
		Logger:         log,
		StartTime:      time.Now(),
		Version:        "test",
		File:           file,
		Store:          store,
		View:           view,
		SearchDebounce: 10 * time.Millisecond,
		Dispatcher:     dispatch.New(store, dispatch.StaticForm{}, dispatch.Answer(false), log),
		Banner:         banner,
		Loader:         loader,
		Persister:      persister,
		Importer:       homepage.NewImporter(store, log),
		ReloadTrigger:  trigger,
	}

	return &harness{
		t:         t,
		handler:   NewRouter(cfg, log, d),
		file:      file,
		store:     store,
		view:      view,
		persister: persister,
		loader:    loader,
		trigger:   trigger,
	}
}

func (h *harness) do(method, path, body string) *httptest.ResponseRecorder {
	h.t.Helper()
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" && strings.HasPrefix(strings.TrimSpace(body), "{") {
		r.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, r)
	return rec
}

func (h *harness) onDisk() domain.Collection {
	h.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(h.t, h.persister.Flush(ctx))

	data, err := os.ReadFile(h.file)
	require.NoError(h.t, err)
	var c domain.Collection
	require.NoError(h.t, json.Unmarshal(data, &c))
	return c
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestListBookmarksKeepsStorageOrder(t *testing.T) {
	h := newHarness(t, seed)

	rec := h.do(http.MethodGet, "/api/bookmarks", "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[domain.Collection](t, rec)
	require.Len(t, got, 2)
	assert.Equal(t, "Grafana", got[0].Name)
	assert.Equal(t, "adguard", got[1].Name)
}

func TestCreateBookmark(t *testing.T) {
	h := newHarness(t, "")

	rec := h.do(http.MethodPost, "/api/bookmarks", `{"name":"  Jellyfin ","url":"jellyfin.lan","description":"media"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	b := decode[domain.Bookmark](t, rec)
	assert.Equal(t, "Jellyfin", b.Name)
	assert.Equal(t, "https://jellyfin.lan", b.URL)
	assert.True(t, strings.HasPrefix(b.ID, domain.IDPrefix))
	assert.Empty(t, b.Updated)

	disk := h.onDisk()
	require.Len(t, disk, 1)
	assert.Equal(t, b, disk[0])
}

func TestCreateBookmarkFromForm(t *testing.T) {
	h := newHarness(t, "")

	r := httptest.NewRequest(http.MethodPost, "/api/bookmarks", strings.NewReader("name=NAS&url=http%3A%2F%2Fnas.lan"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, r)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "http://nas.lan", decode[domain.Bookmark](t, rec).URL)
}

func TestCreateBookmarkValidation(t *testing.T) {
	h := newHarness(t, "")

	rec := h.do(http.MethodPost, "/api/bookmarks", `{"name":"   ","url":""}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decode[map[string]any](t, rec)
	assert.Equal(t, "validation_error", resp["error"])
	fields, ok := resp["fields"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, domain.FieldName)
	assert.Contains(t, fields, domain.FieldURL)
	assert.Zero(t, h.store.Len())
}

func TestUpdateBookmark(t *testing.T) {
	h := newHarness(t, seed)

	rec := h.do(http.MethodPut, "/api/bookmarks/bookmark-2", `{"name":"AdGuard Home","url":"http://adguard.lan","description":"dns"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	b := decode[domain.Bookmark](t, rec)
	assert.Equal(t, "AdGuard Home", b.Name)
	assert.Equal(t, "2024-01-02T00:00:00.000Z", b.Created)
	assert.NotEmpty(t, b.Updated)

	disk := h.onDisk()
	require.Len(t, disk, 2)
	assert.Equal(t, "AdGuard Home", disk[1].Name)
}

func TestUpdatePartialKeepsFields(t *testing.T) {
	h := newHarness(t, seed)

	rec := h.do(http.MethodPut, "/api/bookmarks/bookmark-1?partial=true", `{"description":"metrics"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	b := decode[domain.Bookmark](t, rec)
	assert.Equal(t, "Grafana", b.Name)
	assert.Equal(t, "metrics", b.Description)
}

func TestUpdateMissingBookmark(t *testing.T) {
	h := newHarness(t, seed)

	rec := h.do(http.MethodPut, "/api/bookmarks/bookmark-404", `{"name":"x","url":"x.lan"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode[map[string]any](t, rec)["error"])
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	h := newHarness(t, seed)

	rec := h.do(http.MethodDelete, "/api/bookmarks/bookmark-1", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 2, h.store.Len())

	rec = h.do(http.MethodDelete, "/api/bookmarks/bookmark-1?confirm=true", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, h.store.Len())

	disk := h.onDisk()
	require.Len(t, disk, 1)
	assert.Equal(t, "bookmark-2", disk[0].ID)
}

func TestTableSearchAndSort(t *testing.T) {
	h := newHarness(t, seed)

	type tableResp struct {
		State table.State `json:"state"`
		Rows  []table.Row `json:"rows"`
	}

	// Name is the default sort column, so selecting it again flips the order.
	resp := decode[tableResp](t, h.do(http.MethodPost, "/api/table/sort", `{"key":"name"}`))
	assert.Equal(t, table.Desc, resp.State.Order)
	require.Len(t, resp.Rows, 2)
	assert.Equal(t, "bookmark-1", resp.Rows[0].ID)

	resp = decode[tableResp](t, h.do(http.MethodPost, "/api/table/sort", `{"column":0}`))
	assert.Equal(t, table.Asc, resp.State.Order)
	assert.Equal(t, "bookmark-2", resp.Rows[0].ID, "case-insensitive: adguard < Grafana")

	rec := h.do(http.MethodPost, "/api/table/sort", `{"key":"url"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp = decode[tableResp](t, rec)
	assert.Equal(t, 1, resp.State.SortColumn)
	assert.Equal(t, table.Asc, resp.State.Order)

	rec = h.do(http.MethodPost, "/api/table/search", `{"term":"GRAF","immediate":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decode[tableResp](t, rec)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "bookmark-1", resp.Rows[0].ID)

	rec = h.do(http.MethodPost, "/api/table/search", `{"term":"nothing-matches"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	h.view.FlushSearch()

	resp = decode[tableResp](t, h.do(http.MethodGet, "/api/table", ""))
	require.Len(t, resp.Rows, 1)
	assert.True(t, resp.Rows[0].Empty)
	assert.Equal(t, table.DefaultEmptyMessage, resp.Rows[0].Message)

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPost, "/api/table/sort", `{"key":"nope"}`).Code)
	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPost, "/api/table/sort", `{"column":9}`).Code)
}

func TestPanelEscapesContent(t *testing.T) {
	h := newHarness(t, "")
	h.store.Create(`<script>alert(1)</script>`, "https://x.lan", "")

	rec := h.do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Add bookmark")
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestNotificationsAfterSave(t *testing.T) {
	h := newHarness(t, "")
	h.do(http.MethodPost, "/api/bookmarks", `{"name":"a","url":"a.lan"}`)
	h.onDisk()

	type notifResp struct {
		Visible      bool                 `json:"visible"`
		Notification *notify.Notification `json:"notification"`
	}
	resp := decode[notifResp](t, h.do(http.MethodGet, "/api/notifications", ""))
	require.True(t, resp.Visible)
	assert.Equal(t, notify.Success, resp.Notification.Kind)
	assert.Equal(t, scheduler.MsgSaved, resp.Notification.Message)
}

func TestImportHomepage(t *testing.T) {
	h := newHarness(t, seed)

	body := `- Monitoring:
    - Grafana:
        - href: https://grafana.lan
    - Prometheus:
        - abbr: PR
          href: https://prometheus.lan
`
	rec := h.do(http.MethodPost, "/api/import", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[homepage.ImportResult](t, rec)
	assert.Len(t, res.Added, 1)
	assert.Equal(t, 1, res.Duplicate)
	assert.Equal(t, 3, h.store.Len())
}

func TestReloadTrigger(t *testing.T) {
	h := newHarness(t, seed)

	assert.Equal(t, http.StatusAccepted, h.do(http.MethodPost, "/api/reload", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, h.do(http.MethodPost, "/api/reload", "").Code)
	<-h.trigger
}

func TestProbes(t *testing.T) {
	h := newHarness(t, seed)

	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/healthz", "").Code)

	rec := h.do(http.MethodGet, "/readyz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]any](t, rec)["ready"])

	rec = h.do(http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", status["mode"])
}

func TestMirrorDisabled(t *testing.T) {
	h := newHarness(t, seed)
	rec := h.do(http.MethodGet, "/api/mirror/bookmarks", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "mirror_disabled")
}

func TestNamedActions(t *testing.T) {
	h := newHarness(t, seed)

	rec := h.do(http.MethodPost, "/api/actions/add", `{"name":"Proxmox","url":"pve.lan:8006"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	added := decode[dispatch.Result](t, rec)
	assert.Equal(t, "https://pve.lan:8006", added.Bookmark.URL)

	rec = h.do(http.MethodPost, "/api/actions/edit", `{"id":"`+added.Bookmark.ID+`","description":"hypervisor","partial":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Proxmox", decode[dispatch.Result](t, rec).Bookmark.Name)

	rec = h.do(http.MethodPost, "/api/actions/delete", `{"id":"bookmark-1"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(http.MethodPost, "/api/actions/delete", `{"id":"bookmark-1","confirm":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, h.do(http.MethodPost, "/api/actions/rename", `{}`).Code)

	disk := h.onDisk()
	require.Len(t, disk, 2)
	assert.Equal(t, "bookmark-2", disk[0].ID)
	assert.Equal(t, "hypervisor", disk[1].Description)
}

func TestMutationsWaitForFirstLoad(t *testing.T) {
	h := newUnloadedHarness(t, seed)

	for _, req := range []struct{ method, path, body string }{
		{http.MethodPost, "/api/bookmarks", `{"name":"C","url":"c.lan"}`},
		{http.MethodPut, "/api/bookmarks/bookmark-1", `{"name":"x","url":"x.lan"}`},
		{http.MethodDelete, "/api/bookmarks/bookmark-1?confirm=true", ""},
		{http.MethodPost, "/api/actions/add", `{"name":"C","url":"c.lan"}`},
		{http.MethodPost, "/api/import", "- G:\n    - C:\n        - href: https://c.lan\n"},
	} {
		rec := h.do(req.method, req.path, req.body)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, req.method+" "+req.path)
		assert.Equal(t, "loading", decode[map[string]any](t, rec)["error"])
	}
	assert.Zero(t, h.store.Len())

	data, err := os.ReadFile(h.file)
	require.NoError(t, err)
	assert.JSONEq(t, seed, string(data), "the file must be untouched")

	require.NoError(t, h.loader.Load(context.Background()))
	rec := h.do(http.MethodPost, "/api/bookmarks", `{"name":"C","url":"c.lan"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Len(t, h.onDisk(), 3)
}

func TestReloadKeepsPendingSave(t *testing.T) {
	h := newHarness(t, seed)

	rec := h.do(http.MethodPost, "/api/bookmarks", `{"name":"C","url":"c.lan"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// Reload straight away, whatever state the save is in.
	require.NoError(t, h.loader.Load(context.Background()))
	assert.Equal(t, 3, h.store.Len())

	require.Equal(t, http.StatusOK, h.do(http.MethodDelete, "/api/bookmarks/bookmark-1?confirm=true", "").Code)
	disk := h.onDisk()
	require.Len(t, disk, 2)
	assert.Equal(t, "bookmark-2", disk[0].ID)
	assert.Equal(t, "C", disk[1].Name)
}
