// Package storage persists the bookmark collection to a single JSON file on the
// managed host.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"path/filepath"

	"github.com/MrSnakeDoc/bookmarks/internal/apperror"
	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/host"
)

// DefaultPath is where the panel keeps its bookmarks.
const DefaultPath = "/etc/cockpit/bookmarks.json"

// Gateway reads and writes the whole collection.
type Gateway interface {
	// Load never returns a nil collection. A missing file is not an error;
	// malformed content wraps apperror.ErrParse, other failures apperror.ErrRead.
	Load(ctx context.Context) (domain.Collection, error)
	// Save overwrites the backing file with the full collection.
	// Failures wrap apperror.ErrWrite.
	Save(ctx context.Context, c domain.Collection) error
	Path() string
}

// FileGateway is the Gateway backed by host capabilities.
type FileGateway struct {
	path  string
	files host.Files
	cmds  host.Commands
}

// NewFileGateway creates a gateway for the file at path.
func NewFileGateway(path string, files host.Files, cmds host.Commands) *FileGateway {
	if path == "" {
		path = DefaultPath
	}
	return &FileGateway{
		path:  path,
		files: files,
		cmds:  cmds,
	}
}

func (g *FileGateway) Path() string { return g.path }

func (g *FileGateway) Load(ctx context.Context) (domain.Collection, error) {
	data, err := g.files.Read(ctx, g.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Collection{}, nil
		}
		return domain.Collection{}, apperror.ReadFailed(g.path, err)
	}

	return decode(g.path, data)
}

func decode(path string, data []byte) (domain.Collection, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return domain.Collection{}, nil
	}

	var c domain.Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return domain.Collection{}, apperror.ParseFailed(path, err)
	}
	if c == nil {
		c = domain.Collection{}
	}
	return c, nil
}

func (g *FileGateway) Save(ctx context.Context, c domain.Collection) error {
	data, err := Encode(c)
	if err != nil {
		return apperror.WriteFailed(g.path, err)
	}

	dir := filepath.Dir(g.path)
	if _, err := g.cmds.Run(ctx, []string{"mkdir", "-p", dir}, host.Try); err != nil {
		return apperror.WriteFailed(dir, err)
	}

	if err := g.files.Replace(ctx, g.path, data, host.Try); err != nil {
		return apperror.WriteFailed(g.path, err)
	}
	return nil
}

// Encode serializes c as two-space indented JSON. A nil collection encodes as [].
func Encode(c domain.Collection) ([]byte, error) {
	if c == nil {
		c = domain.Collection{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
