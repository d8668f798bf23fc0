package dispatch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/MrSnakeDoc/bookmarks/internal/domain"
)

// StaticForm submits data that was collected elsewhere (an HTTP body, CLI flags).
type StaticForm struct {
	Data domain.FormData
	// Partial keeps the existing value for every empty field when editing.
	Partial bool
}

func (f StaticForm) Fill(_ context.Context, _ Action, existing *domain.Bookmark) (domain.FormData, bool, error) {
	data := f.Data
	if f.Partial && existing != nil {
		prev := domain.FormFrom(*existing)
		if strings.TrimSpace(data.Name) == "" {
			data.Name = prev.Name
		}
		if strings.TrimSpace(data.URL) == "" {
			data.URL = prev.URL
		}
		if data.Description == "" {
			data.Description = prev.Description
		}
	}
	clean, err := data.Validate()
	if err != nil {
		return domain.FormData{}, false, err
	}
	return clean, true, nil
}

// Answer is a fixed confirmation reply.
type Answer bool

func (a Answer) Confirm(context.Context, string) (bool, error) { return bool(a), nil }

// Prompt asks questions on a terminal.
type Prompt struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewReader(in), out: out}
}

func (p *Prompt) readLine(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(p.out, label)
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("aborted: no input received")
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Confirm asks message and accepts y or yes.
func (p *Prompt) Confirm(ctx context.Context, message string) (bool, error) {
	answer, err := p.readLine(ctx, message+" [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Fill asks for each field. When editing, an empty answer keeps the current value.
// Invalid input is asked again until it validates.
func (p *Prompt) Fill(ctx context.Context, _ Action, existing *domain.Bookmark) (domain.FormData, bool, error) {
	var prev domain.FormData
	if existing != nil {
		prev = domain.FormFrom(*existing)
	}

	ask := func(label, current string) (string, error) {
		if current != "" {
			label = fmt.Sprintf("%s [%s]", label, current)
		}
		v, err := p.readLine(ctx, label+": ")
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(v) == "" {
			return current, nil
		}
		return v, nil
	}

	for {
		var data domain.FormData
		var err error
		if data.Name, err = ask("Name", prev.Name); err != nil {
			return domain.FormData{}, false, err
		}
		if data.URL, err = ask("URL", prev.URL); err != nil {
			return domain.FormData{}, false, err
		}
		if data.Description, err = ask("Description", prev.Description); err != nil {
			return domain.FormData{}, false, err
		}

		clean, err := data.Validate()
		if err == nil {
			return clean, true, nil
		}
		fe, ok := domain.AsFieldErrors(err)
		if !ok {
			return domain.FormData{}, false, err
		}
		for _, e := range fe {
			fmt.Fprintf(p.out, "  %s\n", e.Message)
		}
		prev = data
	}
}
