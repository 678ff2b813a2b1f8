// Package syntax provides lightweight syntax checking for fenced code
// blocks embedded in generated course material.
package syntax

import (
	"bytes"
	"encoding/json"
	"fmt"
	"go/parser"
	"go/token"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/course-validator/internal/types"
)

// codeBlock is one fenced block extracted from markdown content.
type codeBlock struct {
	language string
	code     string
}

// Check extracts all fenced code blocks from content and validates each
// against language-specific rules. A malformed block is recorded and
// scanning continues; absence of code is not a defect.
func Check(content string) *types.SyntaxReport {
	blocks := extractCodeBlocks(content)

	report := &types.SyntaxReport{
		HasCode:       len(blocks) > 0,
		BlocksChecked: len(blocks),
		AllValid:      true,
	}

	for _, block := range blocks {
		result := types.CodeBlockResult{
			Language: block.language,
			IsValid:  true,
		}
		if err := checkBlock(block.language, block.code); err != nil {
			result.IsValid = false
			result.Error = err.Error()
			report.InvalidBlocks++
			report.AllValid = false
		} else {
			report.ValidBlocks++
		}
		report.Details = append(report.Details, result)
	}

	return report
}

// extractCodeBlocks walks the markdown AST and collects fenced code
// blocks in order of appearance. Blocks without an info string default
// to language "text".
func extractCodeBlocks(content string) []codeBlock {
	source := []byte(content)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var blocks []codeBlock
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fenced, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		language := "text"
		if lang := fenced.Language(source); len(lang) > 0 {
			language = strings.ToLower(string(lang))
		}

		var buf bytes.Buffer
		lines := fenced.Lines()
		for i := 0; i < lines.Len(); i++ {
			segment := lines.At(i)
			buf.Write(segment.Value(source))
		}

		blocks = append(blocks, codeBlock{language: language, code: buf.String()})
		return ast.WalkContinue, nil
	})

	return blocks
}

// checkBlock dispatches to a language-specific check. Languages with a
// cheap real parser get one; the rest get bracket/indentation
// heuristics or no rules at all.
func checkBlock(language, code string) error {
	switch language {
	case "go", "golang":
		return checkGo(code)
	case "json":
		return checkJSON(code)
	case "yaml", "yml":
		return checkYAML(code)
	case "python", "py":
		return checkPython(code)
	case "javascript", "js", "typescript", "ts", "java", "c", "cpp", "c++", "csharp", "rust":
		return checkBrackets(code)
	default:
		// No syntax rules for prose, shell transcripts, etc.
		return nil
	}
}

// checkGo parses the block with go/parser. Snippets without a package
// clause are wrapped so that both full files and fragments parse.
func checkGo(code string) error {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return fmt.Errorf("empty code block")
	}

	candidates := []string{code}
	if !strings.HasPrefix(trimmed, "package ") {
		candidates = append(candidates,
			"package snippet\n"+code,
			"package snippet\nfunc _() {\n"+code+"\n}",
		)
	}

	var firstErr error
	for _, candidate := range candidates {
		fset := token.NewFileSet()
		_, err := parser.ParseFile(fset, "block.go", candidate, 0)
		if err == nil {
			return nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	return fmt.Errorf("go parse error: %v", firstErr)
}

func checkJSON(code string) error {
	var v any
	if err := json.Unmarshal([]byte(code), &v); err != nil {
		return fmt.Errorf("invalid JSON: %v", err)
	}
	return nil
}

func checkYAML(code string) error {
	var v any
	if err := yaml.Unmarshal([]byte(code), &v); err != nil {
		return fmt.Errorf("invalid YAML: %v", err)
	}
	return nil
}

// checkPython applies two heuristics: brackets must balance, and a line
// opening a suite (ending in ":") must be followed by a more deeply
// indented statement.
func checkPython(code string) error {
	if err := checkBrackets(code); err != nil {
		return err
	}

	lines := strings.Split(code, "\n")
	for i, line := range lines {
		stripped := stripLineComment(line, "#")
		trimmed := strings.TrimSpace(stripped)
		if trimmed == "" || !strings.HasSuffix(trimmed, ":") {
			continue
		}

		indent := indentWidth(line)
		next := nextStatement(lines, i+1)
		if next == "" {
			return fmt.Errorf("line %d: block opened with %q has no body", i+1, trimmed)
		}
		if indentWidth(next) <= indent {
			return fmt.Errorf("line %d: expected indented block after %q", i+1, trimmed)
		}
	}

	return nil
}

// nextStatement returns the next non-blank, non-comment line, or "".
func nextStatement(lines []string, from int) string {
	for i := from; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return lines[i]
	}
	return ""
}

func indentWidth(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += 4
		default:
			return width
		}
	}
	return width
}

func stripLineComment(line, marker string) string {
	inSingle, inDouble := false, false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\'':
			if !inDouble {
				inSingle = !inSingle
			}
		case '"':
			if !inSingle {
				inDouble = !inDouble
			}
		}
		if !inSingle && !inDouble && strings.HasPrefix(line[i:], marker) {
			return line[:i]
		}
	}
	return line
}

// checkBrackets verifies that (), [] and {} nest correctly, ignoring
// bracket characters inside string literals and line comments.
func checkBrackets(code string) error {
	var stack []byte
	pairs := map[byte]byte{')': '(', ']': '[', '}': '{'}

	inSingle, inDouble := false, false
	line := 1
	for i := 0; i < len(code); i++ {
		c := code[i]

		if c == '\n' {
			line++
			inSingle, inDouble = false, false
			continue
		}
		if c == '\\' && (inSingle || inDouble) {
			i++ // skip escaped character
			continue
		}
		if c == '\'' && !inDouble {
			inSingle = !inSingle
			continue
		}
		if c == '"' && !inSingle {
			inDouble = !inDouble
			continue
		}
		if inSingle || inDouble {
			continue
		}
		// Skip line comments (// and #)
		if c == '#' || (c == '/' && i+1 < len(code) && code[i+1] == '/') {
			for i < len(code) && code[i] != '\n' {
				i++
			}
			line++
			continue
		}

		switch c {
		case '(', '[', '{':
			stack = append(stack, c)
		case ')', ']', '}':
			if len(stack) == 0 {
				return fmt.Errorf("line %d: unmatched %q", line, string(c))
			}
			top := stack[len(stack)-1]
			if top != pairs[c] {
				return fmt.Errorf("line %d: expected closing for %q, found %q", line, string(top), string(c))
			}
			stack = stack[:len(stack)-1]
		}
	}

	if len(stack) > 0 {
		return fmt.Errorf("unclosed %q", string(stack[len(stack)-1]))
	}
	return nil
}
