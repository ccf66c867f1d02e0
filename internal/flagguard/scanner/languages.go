package scanner

import (
	"path/filepath"
	"strings"
)

// Language identifies one of the source languages the scanner can
// extract flag check sites from.
type Language string

const (
	LanguagePython     Language = "python"
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
)

// languageConfig mirrors the reference's LanguageConfig dataclass: per
// language, the extensions it owns and the function/method names that
// count as a flag check.
type languageConfig struct {
	extensions   []string
	flagFuncs    map[string]struct{}
	flagMethods  map[string]struct{}
}

var pythonFlagFunctions = toSet(
	"is_enabled", "is_feature_enabled", "feature_enabled",
	"variation", "get_flag", "has_feature", "check_feature",
	"is_on", "is_active", "get_feature_flag",
)

var pythonFlagMethods = toSet(
	"is_enabled", "is_feature_enabled", "variation",
	"get_variation", "evaluate", "is_on", "get",
	"is_active", "feature_value", "get_flag",
)

var jsFlagMethods = toSet(
	"isEnabled", "isFeatureEnabled", "variation",
	"getVariation", "evaluate", "isOn", "get",
	"isActive", "hasFeature", "getFlag",
)

var languageRegistry = map[Language]languageConfig{
	LanguagePython: {
		extensions:  []string{".py", ".pyw"},
		flagFuncs:   pythonFlagFunctions,
		flagMethods: pythonFlagMethods,
	},
	LanguageJavaScript: {
		extensions:  []string{".js", ".jsx", ".mjs", ".cjs"},
		flagFuncs:   map[string]struct{}{},
		flagMethods: jsFlagMethods,
	},
	LanguageTypeScript: {
		extensions:  []string{".ts", ".tsx", ".mts", ".cts"},
		flagFuncs:   map[string]struct{}{},
		flagMethods: jsFlagMethods,
	},
}

// languageForFile determines the scanner's language for a file from its
// extension, or "" if the extension is unsupported.
func languageForFile(path string) Language {
	ext := strings.ToLower(filepath.Ext(path))
	for lang, cfg := range languageRegistry {
		for _, e := range cfg.extensions {
			if e == ext {
				return lang
			}
		}
	}
	return ""
}

// SupportedExtensions returns every extension the scanner will walk
// into, across all registered languages.
func SupportedExtensions() []string {
	var out []string
	for _, cfg := range languageRegistry {
		out = append(out, cfg.extensions...)
	}
	return out
}

func toSet(names ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[n] = struct{}{}
	}
	return out
}
