package parsers

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/flagguardhq/flagguard/internal/flagguard"
)

// UnleashParser reads Unleash's "features" document, in either YAML or
// JSON (YAML is attempted first since it is a superset of JSON),
// grounded on the reference's unleash.py.
type UnleashParser struct{}

func (p *UnleashParser) Parse(content []byte) (flagguard.FlagSet, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(content, &doc); err != nil {
		if jsonErr := json.Unmarshal(content, &doc); jsonErr != nil {
			return flagguard.FlagSet{}, &flagguard.ParseError{Source: "unleash", Reason: "failed to parse as YAML or JSON", Err: err}
		}
	}
	if doc == nil {
		return flagguard.NewFlagSet(nil)
	}

	featuresRaw, ok := doc["features"]
	if !ok {
		return flagguard.NewFlagSet(nil)
	}
	features := asSlice(featuresRaw)
	if features == nil && featuresRaw != nil {
		return flagguard.FlagSet{}, &flagguard.ParseError{Source: "unleash", Reason: "expected 'features' to be an array"}
	}

	flags := make([]flagguard.Flag, 0, len(features))
	for _, raw := range features {
		m := toStringKeyedMap(raw)
		if m == nil {
			continue
		}
		f, err := p.parseFeature(m)
		if err != nil {
			return flagguard.FlagSet{}, err
		}
		flags = append(flags, f)
	}
	return flagguard.NewFlagSet(flags)
}

func (p *UnleashParser) parseFeature(data map[string]any) (flagguard.Flag, error) {
	name := getString(data, "name")
	if name == "" {
		return flagguard.Flag{}, &flagguard.ParseError{Source: "unleash", Reason: "feature missing required 'name' field"}
	}
	enabled := getBool(data, true, "enabled")

	variantsRaw := asSlice(data["variants"])
	variations := parseUnleashVariants(variantsRaw)
	if len(variations) == 0 {
		variations = defaultBooleanVariations()
	}

	flagType := flagguard.FlagTypeBoolean
	if len(variantsRaw) > 0 {
		if first := toStringKeyedMap(variantsRaw[0]); first != nil {
			if payload := toStringKeyedMap(first["payload"]); payload != nil {
				switch getString(payload, "type") {
				case "string":
					flagType = flagguard.FlagTypeString
				case "number":
					flagType = flagguard.FlagTypeNumber
				case "json":
					flagType = flagguard.FlagTypeJSON
				}
			}
		}
	}

	rules := parseUnleashStrategies(asSlice(data["strategies"]))

	var tags []string
	for _, t := range asSlice(data["tags"]) {
		if m := toStringKeyedMap(t); m != nil {
			tags = append(tags, getString(m, "value"))
		} else {
			tags = append(tags, fmt.Sprintf("%v", t))
		}
	}

	return flagguard.NewFlag(name, flagType, enabled, variations,
		flagguard.WithDefault(variations[0].Name),
		flagguard.WithRules(rules),
		flagguard.WithDescription(getString(data, "description")),
		flagguard.WithTags(tags),
	)
}

func parseUnleashVariants(variants []any) []flagguard.Variation {
	out := make([]flagguard.Variation, 0, len(variants))
	for _, raw := range variants {
		m := toStringKeyedMap(raw)
		if m == nil {
			continue
		}
		name := getString(m, "name")
		value := any(name)
		if payload := toStringKeyedMap(m["payload"]); payload != nil {
			if v, ok := payload["value"]; ok {
				value = v
			}
		}
		out = append(out, flagguard.Variation{Name: name, Value: value})
	}
	return out
}

func parseUnleashStrategies(strategies []any) []flagguard.TargetingRule {
	out := make([]flagguard.TargetingRule, 0, len(strategies))
	for i, raw := range strategies {
		m := toStringKeyedMap(raw)
		if m == nil {
			continue
		}
		name := getString(m, "name")
		if name == "" {
			name = fmt.Sprintf("strategy_%d", i)
		}
		parameters := toStringKeyedMap(m["parameters"])
		if parameters == nil {
			parameters = map[string]any{}
		}

		var conditions []map[string]any
		switch name {
		case "userWithId":
			if ids := getString(parameters, "userIds"); ids != "" {
				conditions = append(conditions, map[string]any{
					"attribute": "userId",
					"op":        "in",
					"values":    strings.Split(ids, ","),
				})
			}
		case "gradualRollout":
			pct := numberOf(parameters["percentage"], 100)
			conditions = append(conditions, map[string]any{
				"attribute": "rollout",
				"op":        "percentage",
				"values":    []float64{pct},
			})
		}

		for _, c := range asSlice(m["constraints"]) {
			cm := toStringKeyedMap(c)
			if cm == nil {
				continue
			}
			conditions = append(conditions, map[string]any{
				"attribute": getString(cm, "contextName"),
				"op":        getString(cm, "operator"),
				"values":    cm["values"],
			})
		}

		out = append(out, flagguard.TargetingRule{
			Name:              fmt.Sprintf("%s_%d", name, i),
			Conditions:        conditions,
			Variation:         "on",
			RolloutPercentage: numberOf(parameters["percentage"], 100),
		})
	}
	return out
}

// toStringKeyedMap normalizes both encoding/json's map[string]any and
// yaml.v3's map[string]any (gopkg.in/yaml.v3 decodes mappings as
// map[string]any directly, unlike yaml.v2's map[any]any) into a single
// shape the rest of this package works with.
func toStringKeyedMap(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprintf("%v", k)] = val
		}
		return out
	default:
		return nil
	}
}
