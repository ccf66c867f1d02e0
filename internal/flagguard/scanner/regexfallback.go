package scanner

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/flagguardhq/flagguard/internal/flagguard"
)

// regexRule is one flag-checking call pattern the regex fallback
// recognizes, grounded on the reference's FLAG_PATTERNS lists.
type regexRule struct {
	pattern *regexp.Regexp
}

func compileRules(patterns []string) []regexRule {
	rules := make([]regexRule, len(patterns))
	for i, p := range patterns {
		rules[i] = regexRule{pattern: regexp.MustCompile(p)}
	}
	return rules
}

var pythonRegexRules = compileRules([]string{
	`is_enabled\s*\(\s*['"]([^'"]+)['"]\s*\)`,
	`is_feature_enabled\s*\(\s*['"]([^'"]+)['"]\s*\)`,
	`feature_enabled\s*\(\s*['"]([^'"]+)['"]\s*\)`,
	`variation\s*\(\s*['"]([^'"]+)['"]\s*`,
	`get_flag\s*\(\s*['"]([^'"]+)['"]\s*\)`,
	`has_feature\s*\(\s*['"]([^'"]+)['"]\s*\)`,
	`check_feature\s*\(\s*['"]([^'"]+)['"]\s*\)`,
	`flags\s*\[\s*['"]([^'"]+)['"]\s*\]`,
	`feature_flags\.([a-zA-Z_][a-zA-Z0-9_]*)`,
})

var jsRegexRules = compileRules([]string{
	"isEnabled\\s*\\(\\s*['\"`]([^'\"`]+)['\"`]\\s*\\)",
	"isFeatureEnabled\\s*\\(\\s*['\"`]([^'\"`]+)['\"`]\\s*\\)",
	"useFlag\\s*\\(\\s*['\"`]([^'\"`]+)['\"`]\\s*\\)",
	"useFeature\\s*\\(\\s*['\"`]([^'\"`]+)['\"`]\\s*\\)",
	"variation\\s*\\(\\s*['\"`]([^'\"`]+)['\"`]\\s*",
	"getFlag\\s*\\(\\s*['\"`]([^'\"`]+)['\"`]\\s*\\)",
	"hasFeature\\s*\\(\\s*['\"`]([^'\"`]+)['\"`]\\s*\\)",
	"checkFeature\\s*\\(\\s*['\"`]([^'\"`]+)['\"`]\\s*\\)",
	"flags\\s*\\[\\s*['\"`]([^'\"`]+)['\"`]\\s*\\]",
	"client\\.variation\\s*\\(\\s*['\"`]([^'\"`]+)['\"`]\\s*",
	"ldClient\\.variation\\s*\\(\\s*['\"`]([^'\"`]+)['\"`]\\s*",
})

var pyDefPattern = regexp.MustCompile(`^def\s+(\w+)\s*\(`)

var jsFunctionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^function\s+(\w+)\s*\(`),
	regexp.MustCompile(`^const\s+(\w+)\s*=\s*(?:async\s+)?(?:function|\([^)]*\)\s*=>|\w+\s*=>)`),
	regexp.MustCompile(`^let\s+(\w+)\s*=\s*(?:async\s+)?(?:function|\([^)]*\)\s*=>)`),
	regexp.MustCompile(`^(\w+)\s*:\s*(?:async\s+)?function\s*\(`),
	regexp.MustCompile(`^(?:async\s+)?(\w+)\s*\([^)]*\)\s*\{`),
}

// extractWithRegex scans content line by line, matching every rule.
// This is the fallback path used when the tree-sitter parse fails; its
// sites carry CheckKindRegex and the extractor adds an
// ExtractionWarning (spec Open Question #1): polarity and enclosing function are
// resolved by nearby syntax, not by actual AST ancestry.
func extractWithRegex(path string, content []byte, rules []regexRule, findFunc func(lines []string, current int) string) []flagguard.CheckSite {
	lines := strings.Split(string(content), "\n")
	var sites []flagguard.CheckSite

	for lineIdx, line := range lines {
		lineNum := lineIdx + 1
		// Several rules can match one call ("variation(" inside "client.variation("):
		// keep one site per quoted argument, at the widest match's column.
		siteForArg := make(map[int]int)
		for _, rule := range rules {
			matches := rule.pattern.FindAllStringSubmatchIndex(line, -1)
			for _, m := range matches {
				if len(m) < 4 {
					continue
				}
				flagName := line[m[2]:m[3]]
				col := m[0]
				if idx, dup := siteForArg[m[2]]; dup {
					if col < sites[idx].Column {
						sites[idx].Column = col
						sites[idx].Polarity = flagguard.PolarityPositive
						if isNegated(line, col) {
							sites[idx].Polarity = flagguard.PolarityNegative
						}
					}
					continue
				}
				siteForArg[m[2]] = len(sites)
				negated := isNegated(line, col)
				fn := findFunc(lines, lineIdx)

				polarity := flagguard.PolarityPositive
				if negated {
					polarity = flagguard.PolarityNegative
				}

				sites = append(sites, flagguard.CheckSite{
					Flag:              flagName,
					File:              path,
					Line:              lineNum,
					Column:            col,
					Polarity:          polarity,
					Kind:              flagguard.CheckKindRegex,
					EnclosingFunction:  fn,
					Snippet:           strings.TrimSpace(line),
				})
			}
		}
	}
	return sites
}

func isNegated(line string, matchStart int) bool {
	prefix := strings.TrimRight(line[:matchStart], " \t")
	return strings.HasSuffix(prefix, "not") || strings.HasSuffix(prefix, "!")
}

func findContainingFunctionPython(lines []string, currentLine int) string {
	for i := currentLine; i >= 0; i-- {
		line := strings.TrimLeft(lines[i], " \t")
		if strings.HasPrefix(line, "def ") {
			if m := pyDefPattern.FindStringSubmatch(line); m != nil {
				return m[1]
			}
		} else if strings.HasPrefix(line, "class ") {
			break
		}
	}
	return ""
}

func findContainingFunctionJS(lines []string, currentLine int) string {
	limit := currentLine - 100
	if limit < -1 {
		limit = -1
	}
	for i := currentLine; i > limit; i-- {
		line := strings.TrimLeft(lines[i], " \t")
		for _, pattern := range jsFunctionPatterns {
			if m := pattern.FindStringSubmatch(line); m != nil {
				return m[1]
			}
		}
		if strings.HasPrefix(line, "class ") {
			break
		}
	}
	return ""
}

func warningForFallback(path string, line int, reason string) flagguard.ExtractionWarning {
	return flagguard.ExtractionWarning{File: path, Line: line, Message: fmt.Sprintf("regex fallback used: %s", reason)}
}
