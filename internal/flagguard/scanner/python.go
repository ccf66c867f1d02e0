package scanner

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/flagguardhq/flagguard/internal/flagguard"
)

// pythonExtractor resolves check sites via tree-sitter AST ancestry
// when the file parses cleanly, falling back to line-oriented regex
// matching otherwise — grounded on the reference's python.py, with the
// tree-sitter parser wiring grounded on theRebelliousNerd-codenerd's
// PythonCodeParser/TreeSitterParser.
type pythonExtractor struct{}

func (e *pythonExtractor) Extract(path string, content []byte) ([]flagguard.CheckSite, []flagguard.ExtractionWarning) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil || tree == nil {
		warn := warningForFallback(path, 0, "tree-sitter parse failed")
		return extractWithRegex(path, content, pythonRegexRules, findContainingFunctionPython), []flagguard.ExtractionWarning{warn}
	}
	defer tree.Close()

	var sites []flagguard.CheckSite
	walkPython(tree.RootNode(), path, content, pythonContext{}, &sites)
	return sites, nil
}

type pythonContext struct {
	function string
	class    string
}

func walkPython(node *sitter.Node, path string, content []byte, ctx pythonContext, sites *[]flagguard.CheckSite) {
	switch node.Type() {
	case "function_definition":
		if name := node.ChildByFieldName("name"); name != nil {
			ctx.function = nodeText(name, content)
		}
	case "class_definition":
		if name := node.ChildByFieldName("name"); name != nil {
			ctx.class = nodeText(name, content)
		}
	case "call":
		if site, ok := pythonCallSite(node, path, content, ctx); ok {
			*sites = append(*sites, site)
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		walkPython(node.Child(i), path, content, ctx, sites)
	}
}

func pythonCallSite(node *sitter.Node, path string, content []byte, ctx pythonContext) (flagguard.CheckSite, bool) {
	funcNode := node.ChildByFieldName("function")
	if funcNode == nil {
		return flagguard.CheckSite{}, false
	}
	funcText := nodeText(funcNode, content)
	parts := strings.Split(funcText, ".")
	funcName := parts[len(parts)-1]

	if _, ok := pythonFlagFunctions[funcName]; !ok {
		if _, ok2 := pythonFlagMethods[funcName]; !ok2 {
			return flagguard.CheckSite{}, false
		}
	}

	argsNode := node.ChildByFieldName("arguments")
	if argsNode == nil {
		return flagguard.CheckSite{}, false
	}

	for i := 0; i < int(argsNode.ChildCount()); i++ {
		child := argsNode.Child(i)
		if child.Type() != "string" {
			continue
		}
		flagName := strings.Trim(nodeText(child, content), "'\"")

		lines := strings.Split(string(content), "\n")
		row := int(node.StartPoint().Row)
		lineContent := ""
		if row < len(lines) {
			lineContent = lines[row]
		}

		polarity := pythonPolarity(node)
		variationCompared := ""
		if cmp, ok := pythonVariationComparison(node, content); ok {
			polarity = flagguard.PolarityValue
			variationCompared = cmp
		}

		return flagguard.CheckSite{
			Flag:              flagName,
			File:              path,
			Line:              row + 1,
			Column:            int(node.StartPoint().Column),
			EndLine:           int(node.EndPoint().Row) + 1,
			EndColumn:         int(node.EndPoint().Column),
			Polarity:          polarity,
			Kind:              flagguard.CheckKindAST,
			Construct:         pythonConstruct(node),
			EnclosingFunction: ctx.function,
			EnclosingClass:    ctx.class,
			VariationCompared: variationCompared,
			Snippet:           strings.TrimSpace(lineContent),
		}, true
	}

	return flagguard.CheckSite{}, false
}

// isPythonDecisionNode bounds the ancestor walk both pythonPolarity and
// pythonConstruct perform: a node type here ends the walk upward,
// either because it classifies the enclosing construct or because
// going further up would attribute a negation to an unrelated
// expression (spec §9 Open Question #1).
func isPythonDecisionNode(t string) bool {
	switch t {
	case "if_statement", "conditional_expression", "while_statement",
		"assert_statement", "match_statement", "assignment", "expression_statement":
		return true
	}
	return false
}

// nearestPythonDecision walks node's ancestors, counting boolean-not
// operators, until it reaches the nearest boolean-decision node (or the
// root). It returns that node (nil if none was found) and how many
// not_operator ancestors were crossed to reach it.
func nearestPythonDecision(node *sitter.Node) (*sitter.Node, int) {
	negations := 0
	parent := node.Parent()
	for parent != nil {
		if isPythonDecisionNode(parent.Type()) {
			return parent, negations
		}
		if parent.Type() == "not_operator" {
			negations++
		}
		parent = parent.Parent()
	}
	return nil, negations
}

// pythonPolarity counts boolean-not ancestors up to the nearest
// boolean-decision node rather than stopping at the first one found:
// `not not is_enabled(...)` cancels back to positive, and a
// not_operator outside the enclosing decision node is not mistaken for
// negating the check (spec §9 Open Question #1).
func pythonPolarity(node *sitter.Node) flagguard.CheckPolarity {
	_, negations := nearestPythonDecision(node)
	if negations%2 == 1 {
		return flagguard.PolarityNegative
	}
	return flagguard.PolarityPositive
}

// pythonConstruct classifies the nearest enclosing syntactic construct
// (spec §3/§4.C): if, ternary, match, or assignment when one of those
// directly encloses the check, else a bare expression.
func pythonConstruct(node *sitter.Node) flagguard.CheckConstruct {
	decision, _ := nearestPythonDecision(node)
	if decision == nil {
		return flagguard.ConstructExpression
	}
	switch decision.Type() {
	case "if_statement":
		return flagguard.ConstructIf
	case "conditional_expression":
		return flagguard.ConstructTernary
	case "match_statement":
		return flagguard.ConstructMatch
	case "assignment":
		return flagguard.ConstructAssignment
	default:
		return flagguard.ConstructExpression
	}
}

// pythonVariationComparison reports whether node (a flag-check call) is
// compared directly against a literal, e.g. `variation("flag") ==
// "treatment"` — the value-comparison shape spec §3's PolarityValue
// models, distinct from a boolean on/off check.
func pythonVariationComparison(node *sitter.Node, content []byte) (string, bool) {
	parent := node.Parent()
	if parent == nil || parent.Type() != "comparison_operator" {
		return "", false
	}
	for i := 0; i < int(parent.ChildCount()); i++ {
		child := parent.Child(i)
		if child == node {
			continue
		}
		switch child.Type() {
		case "string", "integer", "float", "true", "false", "none":
			return strings.Trim(nodeText(child, content), "'\""), true
		}
	}
	return "", false
}

func nodeText(n *sitter.Node, content []byte) string {
	return string(content[n.StartByte():n.EndByte()])
}
