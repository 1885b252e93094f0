package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupported(t *testing.T) {
	for _, ext := range []string{".pdf", ".doc", ".docx", ".txt", ".md", ".xlsx"} {
		assert.True(t, Supported(ext), ext)
	}
	for _, ext := range []string{".png", ".exe", ".pptx", ".ods", "", "pdf"} {
		assert.False(t, Supported(ext), ext)
	}
}

func TestParseUnsupportedExtension(t *testing.T) {
	_, err := Parse("notes.png")
	assert.Error(t, err)
}

func TestParseText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("kalıtım ve çok biçimlilik"), 0o644))

	text, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "kalıtım ve çok biçimlilik", text)
}

func TestParseMarkdownStripsMarkup(t *testing.T) {
	src := "# Sınıflar\n\nBir sınıf *durum* ve **davranış** tanımlar.\n\n- kapsülleme\n- kalıtım\n"
	path := filepath.Join(t.TempDir(), "ders.md")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	text, err := Parse(path)
	require.NoError(t, err)
	assert.Contains(t, text, "Sınıflar")
	assert.Contains(t, text, "Bir sınıf durum ve davranış tanımlar.")
	assert.Contains(t, text, "kapsülleme")
	assert.NotContains(t, text, "#")
	assert.NotContains(t, text, "*")
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "yok.txt"))
	assert.Error(t, err)
}

func TestParseCorruptPDF(t *testing.T) {
	// a parse failure must surface as an error, never a panic
	path := filepath.Join(t.TempDir(), "bozuk.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf at all"), 0o644))

	_, err := Parse(path)
	assert.Error(t, err)
}

func TestExtractTextRuns(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want string
	}{
		{
			"plain runs",
			`<w:r><w:t>Merhaba</w:t></w:r>`,
			"Merhaba",
		},
		{
			"preserved whitespace attribute",
			`<w:r><w:t>Merhaba</w:t></w:r><w:r><w:t xml:space="preserve"> dünya</w:t></w:r>`,
			"Merhaba dünya",
		},
		{
			"table tags are not text runs",
			`<w:tbl><w:tr><w:tc><w:t>hücre</w:t></w:tc></w:tr></w:tbl>`,
			"hücre",
		},
		{
			"no runs",
			`<w:pPr><w:jc w:val="center"/></w:pPr>`,
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractTextRuns(tt.xml))
		})
	}
}
