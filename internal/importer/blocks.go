package importer

import (
	"context"
	"regexp"
	"strings"

	"github.com/jomei/notionapi"
)

var blankRuns = regexp.MustCompile(`\n{3,}`)

func plain(rt []notionapi.RichText) string {
	var sb strings.Builder
	for _, t := range rt {
		sb.WriteString(t.PlainText)
	}
	return strings.TrimSpace(sb.String())
}

// blockLine renders one block. ok is false for block types that are skipped.
func blockLine(b notionapi.Block) (line string, ok bool) {
	switch b := b.(type) {
	case *notionapi.Heading1Block:
		return "# " + plain(b.Heading1.RichText), true
	case *notionapi.Heading2Block:
		return "## " + plain(b.Heading2.RichText), true
	case *notionapi.Heading3Block:
		return "### " + plain(b.Heading3.RichText), true
	case *notionapi.ParagraphBlock:
		return plain(b.Paragraph.RichText), true
	case *notionapi.BulletedListItemBlock:
		return "- " + plain(b.BulletedListItem.RichText), true
	case *notionapi.NumberedListItemBlock:
		return "1. " + plain(b.NumberedListItem.RichText), true
	case *notionapi.QuoteBlock:
		return "> " + plain(b.Quote.RichText), true
	case *notionapi.CalloutBlock:
		return "> " + plain(b.Callout.RichText), true
	case *notionapi.CodeBlock:
		return "```" + b.Code.Language + "\n" + plain(b.Code.RichText) + "\n```", true
	case *notionapi.DividerBlock:
		return "---", true
	case *notionapi.ToDoBlock:
		return "- [ ] " + plain(b.ToDo.RichText), true
	case *notionapi.ToggleBlock:
		text := plain(b.Toggle.RichText)
		if text == "" {
			return "", true
		}
		return "**" + text + "**", true
	}
	return "", false
}

// PageMarkdown walks a page's blocks depth-first and renders them as
// markdown.
func (c *NotionClient) PageMarkdown(ctx context.Context, pageID string) (string, error) {
	var lines []string
	var walk func(id string) error
	walk = func(id string) error {
		blocks, err := c.Children(ctx, id)
		if err != nil {
			return err
		}
		for _, b := range blocks {
			if line, ok := blockLine(b); ok {
				lines = append(lines, line)
			}
			if b.GetHasChildren() {
				if err := walk(string(b.GetID())); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(pageID); err != nil {
		return "", err
	}
	return joinLines(lines), nil
}

func joinLines(lines []string) string {
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t\r\n")
	}
	out := blankRuns.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(out)
}
