package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/tealeg/xlsx"
	"github.com/yuin/goldmark"
	mdast "github.com/yuin/goldmark/ast"
	mdtext "github.com/yuin/goldmark/text"
)

// Supported reports whether files with the given extension (lowercase,
// with leading dot) are picked up by the ingestion scan. Anything else is
// skipped silently.
func Supported(ext string) bool {
	switch ext {
	case ".pdf", ".doc", ".docx", ".txt", ".md", ".xlsx":
		return true
	}
	return false
}

// Parse extracts plain text from a document file. Panics inside the
// third-party readers are converted to errors so one bad file can never
// abort a whole ingestion run.
func Parse(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parser: %s: %v", filepath.Base(path), r)
		}
	}()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".pdf":
		return parsePDF(path)
	case ".doc", ".docx":
		// legacy .doc binaries fail inside the reader and get skipped
		return parseDOCX(path)
	case ".txt":
		return parseText(path)
	case ".md":
		return parseMarkdown(path)
	case ".xlsx":
		return parseXLSX(path)
	default:
		return "", fmt.Errorf("parser: unsupported file format: %s", ext)
	}
}

// parsePDF concatenates per-page extracted text in page order. Pages that
// yield no extractable text contribute nothing; that is not an error.
func parsePDF(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return "", err
	}

	var text strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text.WriteString(pageText)
	}
	return text.String(), nil
}

// parseDOCX emits paragraph texts in document order, one paragraph per
// line. The docx library hands back the raw document.xml, so paragraphs
// are recovered by splitting on the closing paragraph tag and pulling the
// <w:t> runs out of each.
func parseDOCX(path string) (string, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", err
	}
	defer r.Close()

	content := r.Editable().GetContent()
	var text strings.Builder
	for _, para := range strings.Split(content, "</w:p>") {
		line := extractTextRuns(para)
		if strings.TrimSpace(line) == "" {
			continue
		}
		text.WriteString(line)
		text.WriteString("\n")
	}
	return text.String(), nil
}

// extractTextRuns pulls the text out of every <w:t> element in an XML
// fragment. The open tag may carry attributes (xml:space="preserve").
func extractTextRuns(xmlContent string) string {
	var text strings.Builder
	s := xmlContent
	for {
		i := strings.Index(s, "<w:t")
		if i < 0 {
			break
		}
		rest := s[i+len("<w:t"):]
		// reject <w:tbl>, <w:tc> and friends
		if len(rest) == 0 || (rest[0] != '>' && rest[0] != ' ' && rest[0] != '/') {
			s = rest
			continue
		}
		j := strings.Index(rest, ">")
		if j < 0 {
			break
		}
		rest = rest[j+1:]
		k := strings.Index(rest, "</w:t>")
		if k < 0 {
			break
		}
		text.WriteString(rest[:k])
		s = rest[k+len("</w:t>"):]
	}
	return text.String()
}

func parseText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// parseMarkdown walks the goldmark AST and collects the text segments,
// one line per block, dropping markup.
func parseMarkdown(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	md := goldmark.New()
	root := md.Parser().Parse(mdtext.NewReader(data))

	var text strings.Builder
	err = mdast.Walk(root, func(n mdast.Node, entering bool) (mdast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*mdast.Text); ok {
				text.Write(t.Segment.Value(data))
				if t.SoftLineBreak() || t.HardLineBreak() {
					text.WriteString("\n")
				}
			}
			return mdast.WalkContinue, nil
		}
		if n.Type() == mdast.TypeBlock {
			text.WriteString("\n")
		}
		return mdast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}
	return text.String(), nil
}

// parseXLSX flattens every sheet to tab-separated rows.
func parseXLSX(path string) (string, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return "", err
	}

	var text strings.Builder
	for _, sheet := range f.Sheets {
		text.WriteString(sheet.Name)
		text.WriteString("\n")
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				text.WriteString(cell.String())
				text.WriteString("\t")
			}
			text.WriteString("\n")
		}
	}
	return text.String(), nil
}
