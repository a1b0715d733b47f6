package ops

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/clickr/internal/errors"
	"github.com/hpungsan/clickr/internal/profile"
)

// Sheet formats.
const (
	SheetMarkdown = "markdown"
	SheetHTML     = "html"
)

// SheetInput contains parameters for the Sheet operation.
type SheetInput struct {
	Name    string
	Profile json.RawMessage
	Format  string // markdown (default) or html
}

// SheetOutput contains the result of the Sheet operation.
type SheetOutput struct {
	Name    string `json:"name"`
	Format  string `json:"format"`
	Content string `json:"content"`
}

// Sheet renders a human-readable cheat sheet of every layer and rule.
func Sheet(database *sql.DB, input SheetInput) (*SheetOutput, error) {
	format := input.Format
	if format == "" {
		format = SheetMarkdown
	}
	if format != SheetMarkdown && format != SheetHTML {
		return nil, errors.NewInvalidRequest("format must be one of: markdown, html")
	}

	p, err := resolve(database, input.Name, input.Profile)
	if err != nil {
		return nil, err
	}

	content := SheetMarkdownFor(p)
	if format == SheetHTML {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(content), &buf); err != nil {
			return nil, errors.NewInternal(fmt.Errorf("render sheet: %w", err))
		}
		content = buf.String()
	}
	return &SheetOutput{Name: p.Name, Format: format, Content: content}, nil
}

// SheetMarkdownFor describes p as markdown, one numbered list per layer.
func SheetMarkdownFor(p *profile.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escapeMarkdown(p.Name))
	fmt.Fprintf(&b, "%s, %d layers\n", p.OS, p.LayerCount())
	for _, l := range p.Layers() {
		fmt.Fprintf(&b, "\n## Layer %d: %s\n\n", l.Number, escapeMarkdown(l.Name))
		if len(l.Remappings) == 0 {
			b.WriteString("_No rules._\n")
			continue
		}
		for i, m := range l.Remappings {
			fmt.Fprintf(&b, "%d. %s\n", i+1, escapeMarkdown(m.Describe()))
		}
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", `*`, `\*`, `_`, `\_`, `[`, `\[`, `]`, `\]`,
	`<`, `\<`, `>`, `\>`, `#`, `\#`, `|`, `\|`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
