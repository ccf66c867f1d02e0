package parsers

import (
	"encoding/json"
	"fmt"

	"github.com/flagguardhq/flagguard/internal/flagguard"
)

// LaunchDarklyParser reads the LaunchDarkly JSON export format:
// an object-keyed "flags" map with "variations", "prerequisites",
// "rules" and "fallthrough", grounded on the reference's
// launchdarkly.py.
type LaunchDarklyParser struct{}

func (p *LaunchDarklyParser) Parse(content []byte) (flagguard.FlagSet, error) {
	var doc struct {
		Flags map[string]map[string]any `json:"flags"`
	}
	if err := json.Unmarshal(content, &doc); err != nil {
		return flagguard.FlagSet{}, &flagguard.ParseError{Source: "launchdarkly", Reason: "invalid JSON", Err: err}
	}

	flags := make([]flagguard.Flag, 0, len(doc.Flags))
	for key, data := range doc.Flags {
		f, err := p.parseFlag(key, data)
		if err != nil {
			return flagguard.FlagSet{}, err
		}
		flags = append(flags, f)
	}
	return flagguard.NewFlagSet(flags)
}

func (p *LaunchDarklyParser) parseFlag(key string, data map[string]any) (flagguard.Flag, error) {
	name := getString(data, "key")
	if name == "" {
		name = key
	}

	variationsRaw := asSlice(data["variations"])
	if variationsRaw == nil {
		variationsRaw = []any{true, false}
	}
	flagType := detectLDType(variationsRaw)
	variations := parseLDVariations(variationsRaw)

	var deps []string
	for _, item := range asSlice(data["prerequisites"]) {
		if m := asMap(item); m != nil {
			if k := getString(m, "key"); k != "" {
				deps = append(deps, k)
			}
		}
	}

	rules := parseLDRules(asSlice(data["rules"]))

	enabled := getBool(data, true, "on")

	defaultIdx := 0
	if fallthrough_ := asMap(data["fallthrough"]); fallthrough_ != nil {
		defaultIdx = int(numberOf(fallthrough_["variation"], 0))
	}
	defaultName := ""
	if defaultIdx >= 0 && defaultIdx < len(variations) {
		defaultName = variations[defaultIdx].Name
	}

	return flagguard.NewFlag(name, flagType, enabled, variations,
		flagguard.WithDefault(defaultName),
		flagguard.WithRules(rules),
		flagguard.WithDependencies(deps),
		flagguard.WithDescription(getString(data, "description")),
		flagguard.WithTags(toStringSlice(data["tags"])),
	)
}

func detectLDType(variations []any) flagguard.FlagType {
	if len(variations) == 0 {
		return flagguard.FlagTypeBoolean
	}
	switch variations[0].(type) {
	case bool:
		return flagguard.FlagTypeBoolean
	case string:
		return flagguard.FlagTypeString
	case float64, int:
		return flagguard.FlagTypeNumber
	default:
		return flagguard.FlagTypeJSON
	}
}

func parseLDVariations(variations []any) []flagguard.Variation {
	out := make([]flagguard.Variation, 0, len(variations))
	for i, v := range variations {
		var name string
		if b, ok := v.(bool); ok {
			if b {
				name = "on"
			} else {
				name = "off"
			}
		} else {
			name = fmt.Sprintf("variation_%d", i)
		}
		out = append(out, flagguard.Variation{Name: name, Value: v})
	}
	return out
}

func parseLDRules(rules []any) []flagguard.TargetingRule {
	out := make([]flagguard.TargetingRule, 0, len(rules))
	for i, raw := range rules {
		m := asMap(raw)
		if m == nil {
			continue
		}
		conditions := make([]map[string]any, 0)
		for _, c := range asSlice(m["clauses"]) {
			if cm := asMap(c); cm != nil {
				conditions = append(conditions, cm)
			}
		}
		variationIdx := int(numberOf(m["variation"], 0))

		percentage := 100.0
		if rollout := asMap(m["rollout"]); rollout != nil {
			if variations := asSlice(rollout["variations"]); len(variations) > 0 {
				if first := asMap(variations[0]); first != nil {
					percentage = numberOf(first["weight"], 100000) / 1000
				}
			}
		}

		id := getString(m, "id")
		if id == "" {
			id = fmt.Sprintf("rule_%d", i)
		}

		out = append(out, flagguard.TargetingRule{
			Name:              id,
			Conditions:        conditions,
			Variation:         fmt.Sprintf("variation_%d", variationIdx),
			RolloutPercentage: percentage,
		})
	}
	return out
}
