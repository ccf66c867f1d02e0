// Package parsers turns raw config documents into a flagguard.FlagSet.
// Each dialect is a closed-registry implementation of Parser, selected
// either explicitly or by Detect, mirroring the teacher's pattern of
// keying pluggable services by a tag (RelayArchiveService by backend
// name) rather than open-world interface discovery.
package parsers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/flagguardhq/flagguard/internal/flagguard"
)

// Dialect identifies which config format a document is written in.
type Dialect string

const (
	DialectLaunchDarkly Dialect = "launchdarkly"
	DialectUnleash      Dialect = "unleash"
	DialectGeneric       Dialect = "generic"
)

// Parser turns the bytes of a single config document into a FlagSet.
type Parser interface {
	Parse(content []byte) (flagguard.FlagSet, error)
}

// registry is the closed set of supported dialects. New dialects are
// added here, never discovered dynamically.
var registry = map[Dialect]func() Parser{
	DialectLaunchDarkly: func() Parser { return &LaunchDarklyParser{} },
	DialectUnleash:      func() Parser { return &UnleashParser{} },
	DialectGeneric:      func() Parser { return &GenericParser{} },
}

// For returns the Parser registered for a dialect.
func For(d Dialect) (Parser, error) {
	factory, ok := registry[d]
	if !ok {
		return nil, fmt.Errorf("parsers: unknown dialect %q", d)
	}
	return factory(), nil
}

// Detect sniffs a dialect from document content: look for Unleash's
// YAML document marker or
// top-level "features:" key first, then LaunchDarkly's "flags" object
// whose values carry "variations" arrays, and fall back to the generic
// dialect.
func Detect(content []byte) Dialect {
	trimmed := strings.TrimSpace(string(content))

	if strings.HasPrefix(trimmed, "---") || strings.HasPrefix(trimmed, "features:") || strings.Contains(trimmed, "\nfeatures:") {
		return DialectUnleash
	}
	var ld struct {
		Flags map[string]any `json:"flags"`
	}
	if json.Unmarshal([]byte(trimmed), &ld) == nil {
		for _, v := range ld.Flags {
			if m, ok := v.(map[string]any); ok {
				if _, ok := m["variations"].([]any); ok {
					return DialectLaunchDarkly
				}
			}
		}
	}
	return DialectGeneric
}

// ParseAuto strips a leading UTF-8 byte-order mark, detects the dialect
// and parses in one step, the Go equivalent of the reference's
// parse_config(path, "auto").
func ParseAuto(content []byte) (flagguard.FlagSet, error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	p, err := For(Detect(content))
	if err != nil {
		return flagguard.FlagSet{}, err
	}
	return p.Parse(content)
}
