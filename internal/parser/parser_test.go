package parser

import (
	"strings"
	"testing"

	"github.com/quill-lang/quill/internal/ast"
)

func parse(t *testing.T, source string) ast.Node {
	t.Helper()
	node, err := Parse(source, "test")
	if err != nil {
		t.Fatalf("Parse(%q): %v", source, err)
	}
	return node
}

func TestParseCanonicalText(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"1", "1"},
		{"1.5", "1.5"},
		{"1.0", "1.0"}, // floats keep their float-ness through rendering
		{"2e9", "2e+09"},
		{`"a\nb"`, `"a\nb"`},
		{"true", "true"},
		{"null", "null"},
		{"x", "x"},
		{"{}", "{}"},
		{"{ 1 , 2 , 3 }", "{1,2,3}"},
		{"{1,{2,3}}", "{1,{2,3}}"},
		{"{-1,2}", "{-1,2}"},
		{"{-2.5}", "{-2.5}"},
		{"1+2*3", "(1+(2*3))"},
		{"(1+2)*3", "((1+2)*3)"},
		{"1-2-3", "((1-2)-3)"},
		{"1+2==4-1", "((1+2)==(4-1))"},
		{"1<2 == 3<4", "((1<2)==(3<4))"},
		{"-x", "(0-x)"},
		{"max(a, 1+2)", "max(a,(1+2))"},
		{"f()", "f()"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			node := parse(t, tt.source)
			if got := node.String(); got != tt.want {
				t.Errorf("canonical text = %q, want %q", got, tt.want)
			}
		})
	}
}

// Canonical text must re-parse to a tree with the same canonical text, so
// rendering is a fixed point after one round.
func TestCanonicalTextRoundTrips(t *testing.T) {
	sources := []string{
		"{1,2,3}",
		"{1,{2,x},\"s\"}",
		"{-1,2.5,true,null}",
		"1+2*3<=4",
		"f(x,{1,2},g())",
		"-y%3",
	}

	for _, source := range sources {
		canonical := parse(t, source).String()
		again := parse(t, canonical).String()
		if canonical != again {
			t.Errorf("%q: canonical %q re-parses to %q", source, canonical, again)
		}
	}
}

func TestParseNodeShapes(t *testing.T) {
	if _, ok := parse(t, "{1,x}").(*ast.ListNode); !ok {
		t.Error("{1,x} should parse to a list node")
	}
	if _, ok := parse(t, "x").(*ast.VariableRef); !ok {
		t.Error("x should parse to a variable reference")
	}
	if _, ok := parse(t, "f(1)").(*ast.CallExpr); !ok {
		t.Error("f(1) should parse to a call")
	}
	if _, ok := parse(t, "1+2").(*ast.BinaryExpr); !ok {
		t.Error("1+2 should parse to a binary expression")
	}

	// Grouping leaves no node behind.
	if _, ok := parse(t, "(x)").(*ast.VariableRef); !ok {
		t.Error("(x) should parse to a bare variable reference")
	}

	list := parse(t, "{1,x,f()}").(*ast.ListNode)
	if len(list.Children()) != 3 {
		t.Errorf("got %d children, want 3", len(list.Children()))
	}
}

// A minus directly before a numeric literal folds into the literal instead of
// building a subtraction, so negative elements keep a list constant.
func TestNegativeLiteralsFoldIntoConstants(t *testing.T) {
	list := parse(t, "{-1,-2.5}").(*ast.ListNode)
	if !list.IsConstant() {
		t.Fatal("{-1,-2.5} should be constant")
	}

	folded := list.ConstantValue()
	if got := folded.At(0).Raw().(int64); got != -1 {
		t.Errorf("element 0 = %d, want -1", got)
	}
	if got := folded.At(1).Raw().(float64); got != -2.5 {
		t.Errorf("element 1 = %g, want -2.5", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		substr string
	}{
		{"empty input", "", "expected expression"},
		{"unclosed list", "{1,2", "expected '}'"},
		{"unclosed paren", "(1+2", "expected ')'"},
		{"unclosed call", "f(1,2", "expected ')'"},
		{"trailing tokens", "1 2", "after expression"},
		{"dangling comma", "{1,}", "expected expression"},
		{"dangling operator", "1+", "expected expression"},
		{"lone rbrace", "}", "expected expression"},
		{"huge int", "99999999999999999999", "out of range"},
		{"lexical error", "1 @ 2", "unexpected character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.source, "test")
			if err == nil {
				t.Fatalf("Parse(%q) should fail", tt.source)
			}
			if !strings.Contains(err.Error(), tt.substr) {
				t.Errorf("error %q should mention %q", err, tt.substr)
			}
		})
	}
}

func TestParseErrorCarriesPosition(t *testing.T) {
	_, err := Parse("{1,\n 2", "test")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.HasPrefix(err.Error(), "test:2:") {
		t.Errorf("error %q should point at line 2 of file test", err)
	}
}
