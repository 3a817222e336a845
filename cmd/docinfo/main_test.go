package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/faxreceipt/pkg/fields"
)

func TestPlaceholders(t *testing.T) {
	got := placeholders(fields.DocumentInfo{
		CourtName:       "東京地方裁判所",
		PlaintiffName:   "株式会社鈴木商事",
		PlaintiffOthers: "外2名",
	})
	assert.Equal(t, map[string]string{
		"{{courtName}}":          "東京地方裁判所",
		"{{courtFax}}":           "",
		"{{caseNumber}}":         "",
		"{{caseName}}":           "",
		"{{plaintiffName}}":      "株式会社鈴木商事 外2名",
		"{{defendantName}}":      "",
		"{{plaintiffLawyer}}":    "",
		"{{plaintiffLawyerFax}}": "",
	}, got)
}

func TestCapPages(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, capPages([]string{"a", "b", "c"}, 2))
	assert.Equal(t, []string{"a"}, capPages([]string{"a"}, 3))
	assert.Len(t, capPages([]string{"a", "b"}, 0), 2)
}

func TestRunFromText(t *testing.T) {
	dir := t.TempDir()
	textPath := filepath.Join(dir, "filing.txt")
	jsonPath := filepath.Join(dir, "fields.json")
	require.NoError(t, os.WriteFile(textPath, []byte("東京地方裁判所 御中\n令和6年(ワ)第1234号 損害賠償請求事件\n"), 0o600))

	require.NoError(t, run(context.Background(), options{textPath: textPath, jsonPath: jsonPath, ocr: "none"}))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"courtName": "東京地方裁判所"`)

	err = run(context.Background(), options{textPath: textPath, jsonPath: jsonPath})
	assert.ErrorContains(t, err, "already exists")
}

func TestRunValidatesInputs(t *testing.T) {
	assert.ErrorContains(t, run(context.Background(), options{}), "exactly one")
	assert.ErrorContains(t, run(context.Background(), options{textPath: "a", templatePath: "t.docx"}), "together")
}
