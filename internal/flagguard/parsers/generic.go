package parsers

import (
	"encoding/json"
	"fmt"

	"github.com/flagguardhq/flagguard/internal/flagguard"
)

// GenericParser reads the universal JSON shape:
//
//	{"flags": [{"name": "...", "enabled": true, "type": "boolean", "dependencies": [...]}]}
//
// grounded on the reference's generic.py. It also accepts a bare array
// of flag objects or an object-keyed map of flags (LaunchDarkly-style),
// matching the reference's leniency.
type GenericParser struct{}

func (p *GenericParser) Parse(content []byte) (flagguard.FlagSet, error) {
	var raw any
	if err := json.Unmarshal(content, &raw); err != nil {
		return flagguard.FlagSet{}, &flagguard.ParseError{Source: "generic", Reason: "invalid JSON", Err: err}
	}

	flagsData, err := extractFlagsData(raw)
	if err != nil {
		return flagguard.FlagSet{}, err
	}

	flags := make([]flagguard.Flag, 0, len(flagsData))
	for _, fd := range flagsData {
		f, err := p.parseFlag(fd)
		if err != nil {
			return flagguard.FlagSet{}, err
		}
		flags = append(flags, f)
	}
	return flagguard.NewFlagSet(flags)
}

func extractFlagsData(raw any) ([]map[string]any, error) {
	switch v := raw.(type) {
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if m := asMap(item); m != nil {
				out = append(out, m)
			}
		}
		return out, nil
	case map[string]any:
		flagsRaw, ok := v["flags"]
		if !ok {
			return nil, nil
		}
		switch fv := flagsRaw.(type) {
		case []any:
			out := make([]map[string]any, 0, len(fv))
			for _, item := range fv {
				if m := asMap(item); m != nil {
					out = append(out, m)
				}
			}
			return out, nil
		case map[string]any:
			out := make([]map[string]any, 0, len(fv))
			for name, item := range fv {
				m := asMap(item)
				if m == nil {
					m = map[string]any{}
				}
				merged := make(map[string]any, len(m)+1)
				for k, val := range m {
					merged[k] = val
				}
				merged["name"] = name
				out = append(out, merged)
			}
			return out, nil
		default:
			return nil, nil
		}
	default:
		return nil, &flagguard.ParseError{Source: "generic", Reason: "expected a JSON object or array"}
	}
}

func (p *GenericParser) parseFlag(data map[string]any) (flagguard.Flag, error) {
	name := getString(data, "name", "key")
	if name == "" {
		return flagguard.Flag{}, &flagguard.ParseError{Source: "generic", Reason: "flag missing required 'name' field"}
	}

	flagType := flagTypeFromString(getString(data, "type"))
	enabled := getBool(data, true, "enabled", "on")

	var variations []flagguard.Variation
	if raw := asSlice(data["variations"]); len(raw) > 0 {
		variations = make([]flagguard.Variation, 0, len(raw))
		for i, item := range raw {
			if m := asMap(item); m != nil {
				vname := getString(m, "name")
				if vname == "" {
					vname = fmt.Sprintf("var_%d", i)
				}
				val, ok := m["value"]
				if !ok {
					val = m
				}
				variations = append(variations, flagguard.Variation{Name: vname, Value: val})
			} else {
				variations = append(variations, flagguard.Variation{Name: fmt.Sprintf("%v", item), Value: item})
			}
		}
	} else {
		variations = defaultBooleanVariations()
	}

	defaultName := getString(data, "default")
	if defaultName == "" && len(variations) > 0 {
		defaultName = variations[0].Name
	}

	deps := toStringSlice(data["dependencies"])
	if len(deps) == 0 {
		deps = toStringSlice(data["requires"])
	}

	return flagguard.NewFlag(name, flagType, enabled, variations,
		flagguard.WithDefault(defaultName),
		flagguard.WithDependencies(deps),
		flagguard.WithDescription(getString(data, "description")),
		flagguard.WithTags(toStringSlice(data["tags"])),
	)
}

func flagTypeFromString(s string) flagguard.FlagType {
	switch s {
	case "bool", "boolean", "":
		return flagguard.FlagTypeBoolean
	case "string", "str":
		return flagguard.FlagTypeString
	case "number", "int", "float":
		return flagguard.FlagTypeNumber
	case "json", "object":
		return flagguard.FlagTypeJSON
	default:
		return flagguard.FlagTypeBoolean
	}
}
