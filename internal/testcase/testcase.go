// Package testcase extracts semantic check scenarios from Markdown files.
//
// A scenario starts at a heading "Test: <name>" and holds exactly one `ast`
// fence with the module in s-expression form, one `expect` fence listing the
// diagnostic codes the checks must report (in order, whitespace separated,
// `#` starts a comment), and optionally a `config` fence with thrush.yaml
// settings for that scenario. Prose and unlabelled fences are ignored.
package testcase

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FenceType is the info string of a code fence a scenario understands
type FenceType string

const (
	FenceAST    FenceType = "ast"
	FenceExpect FenceType = "expect"
	FenceConfig FenceType = "config"
)

// TestCase is one scenario
type TestCase struct {
	Name   string   // heading text after "Test: "
	Line   int      // line of the heading
	Input  string   // content of the ast fence
	Expect []string // codes from the expect fence; nil for none
	Config string   // content of the config fence, empty when absent

	hasExpect bool
}

// ExtractTestCases parses a Markdown document and returns its scenarios in
// document order.
func ExtractTestCases(markdown string) ([]TestCase, error) {
	source := []byte(markdown)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var cases []TestCase
	var current *TestCase

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := extractText(n, source)
			if !strings.HasPrefix(heading, "Test: ") {
				return ast.WalkContinue, nil
			}
			if current != nil {
				if err := validate(current); err != nil {
					return ast.WalkStop, err
				}
				cases = append(cases, *current)
			}
			current = &TestCase{
				Name: strings.TrimSpace(strings.TrimPrefix(heading, "Test: ")),
				Line: lineOf(n, source),
			}

		case *ast.FencedCodeBlock:
			lang := FenceType(n.Language(source))
			if lang == "" {
				return ast.WalkContinue, nil
			}
			line := lineOf(n, source)
			if !isKnownFence(lang) {
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language '%s'", line, lang)
			}
			if current == nil {
				return ast.WalkStop, fmt.Errorf("line %d: %s fence found outside of a test case", line, lang)
			}
			if err := current.addFence(lang, extractContent(n, source), line); err != nil {
				return ast.WalkStop, err
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking markdown: %w", err)
	}

	if current != nil {
		if err := validate(current); err != nil {
			return nil, err
		}
		cases = append(cases, *current)
	}
	return cases, nil
}

func (tc *TestCase) addFence(lang FenceType, content string, line int) error {
	switch lang {
	case FenceAST:
		if tc.Input != "" {
			return fmt.Errorf("line %d: multiple ast fences in test '%s'", line, tc.Name)
		}
		tc.Input = strings.TrimRight(content, "\n")
	case FenceExpect:
		if tc.hasExpect {
			return fmt.Errorf("line %d: multiple expect fences in test '%s'", line, tc.Name)
		}
		tc.hasExpect = true
		tc.Expect = parseCodes(content)
	case FenceConfig:
		if tc.Config != "" {
			return fmt.Errorf("line %d: multiple config fences in test '%s'", line, tc.Name)
		}
		tc.Config = content
	}
	return nil
}

// parseCodes reads whitespace separated codes, skipping # comments
func parseCodes(content string) []string {
	var codes []string
	for _, line := range strings.Split(content, "\n") {
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		codes = append(codes, strings.Fields(line)...)
	}
	return codes
}

func isKnownFence(lang FenceType) bool {
	return lang == FenceAST || lang == FenceExpect || lang == FenceConfig
}

func validate(tc *TestCase) error {
	if tc.Input == "" {
		return fmt.Errorf("test '%s' has no ast fence", tc.Name)
	}
	if !tc.hasExpect {
		return fmt.Errorf("test '%s' has no expect fence", tc.Name)
	}
	return nil
}

func extractText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func extractContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	for i := 0; i < block.Lines().Len(); i++ {
		line := block.Lines().At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

// lineOf returns the 1-based line a block node starts on. Headings and
// fences carry the segment of their first content line.
func lineOf(node ast.Node, source []byte) int {
	start := 0
	switch {
	case node.Lines().Len() > 0:
		start = node.Lines().At(0).Start
	case node.FirstChild() != nil:
		if t, ok := node.FirstChild().(*ast.Text); ok {
			start = t.Segment.Start
		}
	}
	return bytes.Count(source[:min(start, len(source))], []byte("\n")) + 1
}
