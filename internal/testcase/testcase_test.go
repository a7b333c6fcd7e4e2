package testcase

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestExtractTestCases(t *testing.T) {
	md := "# Calls\n" +
		"\n" +
		"Some prose that is ignored.\n" +
		"\n" +
		"## Test: arity mismatch\n" +
		"\n" +
		"```ast\n" +
		"(fn f () void (block))\n" +
		"```\n" +
		"\n" +
		"```expect\n" +
		"T0004 # arity\n" +
		"T0005\n" +
		"```\n" +
		"\n" +
		"## Test: clean\n" +
		"\n" +
		"```config\n" +
		"strict: false\n" +
		"```\n" +
		"\n" +
		"```ast\n" +
		"(fn g () void (block))\n" +
		"```\n" +
		"\n" +
		"```expect\n" +
		"```\n" +
		"\n" +
		"```\n" +
		"an unlabelled block\n" +
		"```\n"

	cases, err := ExtractTestCases(md)
	be.Err(t, err, nil)
	be.Equal(t, len(cases), 2)

	be.Equal(t, cases[0].Name, "arity mismatch")
	be.Equal(t, cases[0].Line, 5)
	be.Equal(t, cases[0].Input, "(fn f () void (block))")
	be.Equal(t, cases[0].Expect, []string{"T0004", "T0005"})
	be.Equal(t, cases[0].Config, "")

	be.Equal(t, cases[1].Name, "clean")
	be.Equal(t, cases[1].Expect, []string(nil))
	be.Equal(t, cases[1].Config, "strict: false\n")
}

func TestExtractTestCasesErrors(t *testing.T) {
	tests := []struct {
		name string
		md   string
		want string
	}{
		{
			"fence outside a test",
			"```ast\n(fn f () void (block))\n```\n",
			"outside of a test case",
		},
		{
			"unknown fence",
			"## Test: x\n\n```rust\nfn main() {}\n```\n",
			"unknown fence language 'rust'",
		},
		{
			"missing ast",
			"## Test: x\n\n```expect\n```\n",
			"test 'x' has no ast fence",
		},
		{
			"missing expect",
			"## Test: x\n\n```ast\n(fn f () void (block))\n```\n",
			"test 'x' has no expect fence",
		},
		{
			"two ast fences",
			"## Test: x\n\n```ast\n(a)\n```\n\n```ast\n(b)\n```\n",
			"multiple ast fences in test 'x'",
		},
		{
			"previous test incomplete",
			"## Test: x\n\n```ast\n(a)\n```\n\n## Test: y\n",
			"test 'x' has no expect fence",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractTestCases(tt.md)
			be.Err(t, err, tt.want)
		})
	}
}

func TestParseCodes(t *testing.T) {
	be.Equal(t, parseCodes("R0001 T0001\n# comment only\n  C0004  # trailing\n"), []string{"R0001", "T0001", "C0004"})
	be.Equal(t, parseCodes(""), []string(nil))
}
