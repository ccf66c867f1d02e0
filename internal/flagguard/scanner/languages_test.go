package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguageForFile(t *testing.T) {
	cases := map[string]Language{
		"app/handlers.py":     LanguagePython,
		"app/handlers.pyw":    LanguagePython,
		"web/index.js":        LanguageJavaScript,
		"web/component.jsx":   LanguageJavaScript,
		"web/component.tsx":   LanguageTypeScript,
		"web/types.ts":        LanguageTypeScript,
		"README.md":           "",
		"nested/dir/no/ext":   "",
	}
	for path, want := range cases {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, want, languageForFile(path))
		})
	}
}

func TestSupportedExtensions(t *testing.T) {
	exts := SupportedExtensions()
	assert.Contains(t, exts, ".py")
	assert.Contains(t, exts, ".ts")
	assert.Contains(t, exts, ".js")
}
