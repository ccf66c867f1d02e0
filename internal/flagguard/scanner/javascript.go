package scanner

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/flagguardhq/flagguard/internal/flagguard"
)

// jsExtractor handles both JavaScript and TypeScript: the reference's
// javascript.py never grew a tree-sitter path and stayed regex-only, so
// this extractor goes one step further using the same tree-sitter
// grammars theRebelliousNerd-codenerd wires in ast_treesitter.go,
// falling back to the reference's regex patterns on parse failure.
type jsExtractor struct {
	dialect Language
}

func (e *jsExtractor) Extract(path string, content []byte) ([]flagguard.CheckSite, []flagguard.ExtractionWarning) {
	parser := sitter.NewParser()
	defer parser.Close()
	if e.dialect == LanguageTypeScript {
		parser.SetLanguage(typescript.GetLanguage())
	} else {
		parser.SetLanguage(javascript.GetLanguage())
	}

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil || tree == nil {
		warn := warningForFallback(path, 0, "tree-sitter parse failed")
		return extractWithRegex(path, content, jsRegexRules, findContainingFunctionJS), []flagguard.ExtractionWarning{warn}
	}
	defer tree.Close()

	var sites []flagguard.CheckSite
	walkJS(tree.RootNode(), path, content, jsContext{}, &sites)
	return sites, nil
}

type jsContext struct {
	function string
	class    string
}

func walkJS(node *sitter.Node, path string, content []byte, ctx jsContext, sites *[]flagguard.CheckSite) {
	switch node.Type() {
	case "function_declaration", "method_definition":
		if name := node.ChildByFieldName("name"); name != nil {
			ctx.function = nodeText(name, content)
		}
	case "class_declaration":
		if name := node.ChildByFieldName("name"); name != nil {
			ctx.class = nodeText(name, content)
		}
	case "call_expression":
		if site, ok := jsCallSite(node, path, content, ctx); ok {
			*sites = append(*sites, site)
		}
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		walkJS(node.Child(i), path, content, ctx, sites)
	}
}

func jsCallSite(node *sitter.Node, path string, content []byte, ctx jsContext) (flagguard.CheckSite, bool) {
	funcNode := node.ChildByFieldName("function")
	if funcNode == nil {
		return flagguard.CheckSite{}, false
	}
	funcText := nodeText(funcNode, content)
	parts := strings.Split(funcText, ".")
	methodName := parts[len(parts)-1]

	if _, ok := jsFlagMethods[methodName]; !ok {
		return flagguard.CheckSite{}, false
	}

	argsNode := node.ChildByFieldName("arguments")
	if argsNode == nil {
		return flagguard.CheckSite{}, false
	}

	for i := 0; i < int(argsNode.NamedChildCount()); i++ {
		child := argsNode.NamedChild(i)
		if child.Type() != "string" {
			continue
		}
		flagName := strings.Trim(nodeText(child, content), "'\"`")

		lines := strings.Split(string(content), "\n")
		row := int(node.StartPoint().Row)
		lineContent := ""
		if row < len(lines) {
			lineContent = lines[row]
		}

		polarity := jsPolarity(node)
		variationCompared := ""
		if cmp, ok := jsVariationComparison(node, content); ok {
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
			Construct:         jsConstruct(node),
			EnclosingFunction: ctx.function,
			EnclosingClass:    ctx.class,
			VariationCompared: variationCompared,
			Snippet:           strings.TrimSpace(lineContent),
		}, true
	}

	return flagguard.CheckSite{}, false
}

// isJSDecisionNode mirrors isPythonDecisionNode for the JS/TS grammars:
// a node type here ends the ancestor walk jsPolarity and jsConstruct
// perform.
func isJSDecisionNode(t string) bool {
	switch t {
	case "if_statement", "ternary_expression", "switch_statement",
		"assignment_expression", "variable_declarator", "expression_statement":
		return true
	}
	return false
}

// nearestJSDecision walks node's ancestors, counting `!` unary
// negations, until it reaches the nearest boolean-decision node (or the
// root).
func nearestJSDecision(node *sitter.Node) (*sitter.Node, int) {
	negations := 0
	parent := node.Parent()
	for parent != nil {
		if isJSDecisionNode(parent.Type()) {
			return parent, negations
		}
		if parent.Type() == "unary_expression" {
			if op := parent.Child(0); op != nil && op.Type() == "!" {
				negations++
			}
		}
		parent = parent.Parent()
	}
	return nil, negations
}

// jsPolarity counts `!` ancestors up to the nearest boolean-decision
// node rather than stopping at the first one found, so `!!isEnabled(...)`
// cancels back to positive (spec §9 Open Question #1).
func jsPolarity(node *sitter.Node) flagguard.CheckPolarity {
	_, negations := nearestJSDecision(node)
	if negations%2 == 1 {
		return flagguard.PolarityNegative
	}
	return flagguard.PolarityPositive
}

// jsConstruct classifies the nearest enclosing syntactic construct
// (spec §3/§4.C).
func jsConstruct(node *sitter.Node) flagguard.CheckConstruct {
	decision, _ := nearestJSDecision(node)
	if decision == nil {
		return flagguard.ConstructExpression
	}
	switch decision.Type() {
	case "if_statement":
		return flagguard.ConstructIf
	case "ternary_expression":
		return flagguard.ConstructTernary
	case "switch_statement":
		return flagguard.ConstructSwitch
	case "assignment_expression", "variable_declarator":
		return flagguard.ConstructAssignment
	default:
		return flagguard.ConstructExpression
	}
}

// jsVariationComparison mirrors pythonVariationComparison for the
// JS/TS equality operators.
func jsVariationComparison(node *sitter.Node, content []byte) (string, bool) {
	parent := node.Parent()
	if parent == nil || parent.Type() != "binary_expression" {
		return "", false
	}
	isEquality := false
	for i := 0; i < int(parent.ChildCount()); i++ {
		switch parent.Child(i).Type() {
		case "==", "===", "!=", "!==":
			isEquality = true
		}
	}
	if !isEquality {
		return "", false
	}
	for i := 0; i < int(parent.ChildCount()); i++ {
		child := parent.Child(i)
		if child == node {
			continue
		}
		switch child.Type() {
		case "string", "number", "true", "false", "null", "template_string":
			return strings.Trim(nodeText(child, content), "'\"`"), true
		}
	}
	return "", false
}
