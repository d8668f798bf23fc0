package host

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/utils"
)

// LocalCommands runs programs through os/exec, elevating with `sudo -n`
// when a privilege is requested and the process is not root.
type LocalCommands struct {
	Geteuid  func() int
	LookPath func(string) (string, error)
}

// NewLocalCommands returns a LocalCommands bound to the real process identity.
func NewLocalCommands() *LocalCommands {
	return &LocalCommands{Geteuid: os.Geteuid, LookPath: exec.LookPath}
}

func (c *LocalCommands) Run(ctx context.Context, argv []string, priv Privilege) ([]byte, error) {
	return c.RunWithInput(ctx, argv, nil, priv)
}

func (c *LocalCommands) RunWithInput(ctx context.Context, argv []string, input []byte, priv Privilege) ([]byte, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty command")
	}

	elevated, ok := c.elevate(argv, priv)
	switch {
	case !ok && priv == Require:
		return nil, fmt.Errorf("cannot elevate %q: sudo not available", argv[0])
	case !ok:
		return run(ctx, argv, input)
	}

	out, err := run(ctx, elevated, input)
	if err != nil && priv == Try {
		// elevation refused: retry with our own rights
		return run(ctx, argv, input)
	}
	return out, err
}

// elevate returns the argv to use and whether an elevated form exists.
// Already privileged processes run argv as-is.
func (c *LocalCommands) elevate(argv []string, priv Privilege) ([]string, bool) {
	if priv == None || c.Geteuid() == 0 {
		return argv, true
	}
	if _, err := c.LookPath("sudo"); err != nil {
		return nil, false
	}
	return append([]string{"sudo", "-n", "--"}, argv...), true
}

func run(ctx context.Context, argv []string, input []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if input != nil {
		cmd.Stdin = bytes.NewReader(input)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return out, fmt.Errorf("%s: %w: %s", argv[0], err, msg)
		}
		return out, fmt.Errorf("%s: %w", argv[0], err)
	}
	return out, nil
}

// LocalFiles reads and replaces files on the local filesystem.
type LocalFiles struct {
	// Commands performs the privileged fallback when a direct write is refused.
	// May be nil, in which case no fallback is attempted.
	Commands Commands
	Mode     fs.FileMode
}

// NewLocalFiles returns LocalFiles writing files with mode 0644.
func NewLocalFiles(cmds Commands) *LocalFiles {
	return &LocalFiles{Commands: cmds, Mode: 0o644}
}

func (f *LocalFiles) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

func (f *LocalFiles) Replace(ctx context.Context, path string, data []byte, priv Privilege) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := f.replaceDirect(path, data)
	if err == nil || !errors.Is(err, fs.ErrPermission) || priv == None || f.Commands == nil {
		return err
	}
	return f.replacePrivileged(ctx, path, data, priv)
}

// replaceDirect writes a sibling temp file and renames it over path.
func (f *LocalFiles) replaceDirect(path string, data []byte) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		utils.Close(tmp)
		return err
	}
	if err = tmp.Sync(); err != nil {
		utils.Close(tmp)
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, f.Mode); err != nil {
		return err
	}
	err = os.Rename(tmpName, path)
	return err
}

// replacePrivileged stages the content with tee and moves it into place.
func (f *LocalFiles) replacePrivileged(ctx context.Context, path string, data []byte, priv Privilege) error {
	tmpName := path + ".tmp-" + strconv.FormatInt(time.Now().UnixNano(), 36)

	if _, err := f.Commands.RunWithInput(ctx, []string{"tee", tmpName}, data, priv); err != nil {
		return fmt.Errorf("privileged write: %w", err)
	}
	if _, err := f.Commands.Run(ctx, []string{"chmod", fmt.Sprintf("%o", f.Mode.Perm()), tmpName}, priv); err != nil {
		_, _ = f.Commands.Run(ctx, []string{"rm", "-f", tmpName}, priv)
		return fmt.Errorf("privileged chmod: %w", err)
	}
	if _, err := f.Commands.Run(ctx, []string{"mv", "-f", tmpName, path}, priv); err != nil {
		_, _ = f.Commands.Run(ctx, []string{"rm", "-f", tmpName}, priv)
		return fmt.Errorf("privileged rename: %w", err)
	}
	return nil
}
