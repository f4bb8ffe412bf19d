package deskkit

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// HistoryMarkdown renders the journal summaries as a markdown document.
func HistoryMarkdown(summaries []SessionSummary) string {
	var b strings.Builder
	b.WriteString("# Rename history\n\n")
	if len(summaries) == 0 {
		b.WriteString("No rename sessions recorded.\n")
		return b.String()
	}

	b.WriteString("| # | When | Directory | Prefix | Files |\n")
	b.WriteString("|---|------|-----------|--------|-------|\n")
	for _, s := range summaries {
		fmt.Fprintf(&b, "| %d | %s | `%s` | `%s` | %d |\n",
			s.Index, s.Timestamp.Format(time.DateTime), escapeCell(s.Directory), escapeCell(s.Prefix), s.Count)
	}
	return b.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "`", "'")
}

// HistoryHTML renders the same report as a standalone HTML page.
func HistoryHTML(summaries []SessionSummary) ([]byte, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(HistoryMarkdown(summaries)), &body); err != nil {
		return nil, fmt.Errorf("render history: %w", err)
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Rename history</title>\n</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}
