// Package clip converts between pasted text and task items.
package clip

import (
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"tasklist-cli/internal/model"
)

type Item struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

var (
	parserInstance goldmark.Markdown
	parserOnce     sync.Once
)

func getParser() goldmark.Markdown {
	parserOnce.Do(func() {
		parserInstance = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return parserInstance
}

// Parse extracts task items from markdown or plain text. Every list item (at any depth)
// becomes one item, GFM checkboxes set Completed, and each line of a plain paragraph
// becomes its own item. Headings and code blocks are ignored.
func Parse(input string) []Item {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	source := []byte(strings.ReplaceAll(input, "\r\n", "\n"))
	doc := getParser().Parser().Parse(text.NewReader(source))

	var out []Item
	collect(doc, source, &out)
	return out
}

func collect(parent ast.Node, source []byte, out *[]Item) {
	for node := parent.FirstChild(); node != nil; node = node.NextSibling() {
		switch node.Kind() {
		case ast.KindList, ast.KindBlockquote:
			collect(node, source, out)

		case ast.KindListItem:
			first := true
			for block := node.FirstChild(); block != nil; block = block.NextSibling() {
				switch block.Kind() {
				case ast.KindParagraph, ast.KindTextBlock:
					if !first {
						continue
					}
					first = false
					lines, checked := inlineLines(block, source)
					if t := strings.Join(lines, " "); t != "" {
						*out = append(*out, Item{Text: t, Completed: checked})
					}
				case ast.KindList:
					collect(block, source, out)
				}
			}

		case ast.KindParagraph, ast.KindTextBlock:
			lines, _ := inlineLines(node, source)
			for _, l := range lines {
				if it, ok := plainLine(l); ok {
					*out = append(*out, it)
				}
			}
		}
	}
}

// inlineLines renders a block's inline content as plain text, split at line breaks.
func inlineLines(block ast.Node, source []byte) ([]string, bool) {
	var (
		lines   []string
		cur     strings.Builder
		checked bool
	)
	flush := func() {
		if l := strings.TrimSpace(cur.String()); l != "" {
			lines = append(lines, l)
		}
		cur.Reset()
	}
	_ = ast.Walk(block, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := node.(type) {
		case *extast.TaskCheckBox:
			checked = n.IsChecked
		case *ast.Text:
			cur.Write(n.Segment.Value(source))
			if n.SoftLineBreak() || n.HardLineBreak() {
				flush()
			}
		case *ast.String:
			cur.Write(n.Value)
		case *ast.AutoLink:
			cur.Write(n.Label(source))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	flush()
	return lines, checked
}

var bulletGlyphs = []string{"•", "◦", "▪", "‣", "–"}

// plainLine handles lines that markdown doesn't treat as list items, such as "• milk"
// or "[x] done".
func plainLine(l string) (Item, bool) {
	l = strings.TrimSpace(l)
	for _, g := range bulletGlyphs {
		if strings.HasPrefix(l, g) {
			l = strings.TrimSpace(strings.TrimPrefix(l, g))
			break
		}
	}
	it := Item{Text: l}
	switch {
	case strings.HasPrefix(strings.ToLower(l), "[x] "):
		it = Item{Text: strings.TrimSpace(l[4:]), Completed: true}
	case strings.HasPrefix(l, "[ ] "):
		it.Text = strings.TrimSpace(l[4:])
	}
	return it, it.Text != ""
}

// Markdown renders tasks as a GFM checklist under a heading. The output parses back
// into the same items with Parse.
func Markdown(title string, tasks []*model.Task) string {
	var b strings.Builder
	if title = strings.TrimSpace(title); title != "" {
		b.WriteString("# ")
		b.WriteString(title)
		b.WriteString("\n\n")
	}
	for _, t := range tasks {
		if t == nil {
			continue
		}
		if t.Completed {
			b.WriteString("- [x] ")
		} else {
			b.WriteString("- [ ] ")
		}
		b.WriteString(strings.Join(strings.Fields(t.Text), " "))
		b.WriteString("\n")
	}
	return b.String()
}
