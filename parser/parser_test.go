/*
 * EL - Expression Language
 *
 * Copyright 2020 Peter Wall. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package parser

import (
	"fmt"
	"testing"
)

/*
TestRuntimeProvider provides runtime components for a parse tree.
*/
type TestRuntimeProvider struct {
}

/*
Runtime returns a runtime component for a given ASTNode.
*/
func (trp *TestRuntimeProvider) Runtime(node *ASTNode) Runtime {
	return &TestRuntime{}
}

/*
TestRuntime provides the runtime for an ASTNode.
*/
type TestRuntime struct {
}

/*
Validate this runtime component and all its child components.
*/
func (tr *TestRuntime) Validate() error {
	return nil
}

/*
Eval evaluate this runtime component.
*/
func (tr *TestRuntime) Eval() (interface{}, error) {
	return nil, nil
}

/*
parseTest parses an input and checks the produced AST against an expected dump.
*/
func parseTest(t *testing.T, input string, expectedOutput string) {

	res, err := ParseWithRuntime("mytest", input, &TestRuntimeProvider{})
	if err != nil || fmt.Sprint(res) != expectedOutput {
		t.Error("Unexpected parser output:\n", res, "expected was:\n",
			expectedOutput, "Error:", err)
	}
}

/*
parseErrorTest parses an input and checks for an expected error.
*/
func parseErrorTest(t *testing.T, input string, expectedError string) {

	if _, err := Parse("mytest", input); err == nil || err.Error() != expectedError {
		t.Errorf("Unexpected parser error for %q: %v", input, err)
	}
}

func TestSimpleExpressionParsing(t *testing.T) {

	parseTest(t, "42", `
number: "42"
`[1:])

	parseTest(t, `"hello"`, `
string: "hello"
`[1:])

	parseTest(t, "true", `
true
`[1:])

	// Test operator precedence

	parseTest(t, "2 + 3 * 4", `
plus
  number: "2"
  times
    number: "3"
    number: "4"
`[1:])

	parseTest(t, "(2 + 3) * 4", `
times
  plus
    number: "2"
    number: "3"
  number: "4"
`[1:])

	// Left associative operators of the same binding

	parseTest(t, "10 - 4 - 3", `
minus
  minus
    number: "10"
    number: "4"
  number: "3"
`[1:])

	// Test prefix operators

	parseTest(t, "--5", `
minus
  minus
    number: "5"
`[1:])

	parseTest(t, "not a and b", `
and
  not
    identifier: "a"
  identifier: "b"
`[1:])

	parseTest(t, "!a == (b or c)", `
==
  not
    identifier: "a"
  or
    identifier: "b"
    identifier: "c"
`[1:])
}

func TestBooleanExpressionParsing(t *testing.T) {

	// Or binds weaker than and

	parseTest(t, "a || b && c", `
or
  identifier: "a"
  and
    identifier: "b"
    identifier: "c"
`[1:])

	// Comparisons bind stronger than boolean operators

	parseTest(t, "x > 1 and y <= 2 or z != null", `
or
  and
    >
      identifier: "x"
      number: "1"
    <=
      identifier: "y"
      number: "2"
  !=
    identifier: "z"
    null
`[1:])

	// Keyword synonyms produce the same tree as the symbols

	parseTest(t, "a eq b or c ge d", `
or
  ==
    identifier: "a"
    identifier: "b"
  >=
    identifier: "c"
    identifier: "d"
`[1:])
}

func TestAccessParsing(t *testing.T) {

	// Dot access is equivalent to index access with a string

	parseTest(t, "a.b", `
access
  identifier: "a"
  string: "b"
`[1:])

	parseTest(t, `a["b"]`, `
access
  identifier: "a"
  string: "b"
`[1:])

	// Access chains are left associative

	parseTest(t, "a.b[c].d", `
access
  access
    access
      identifier: "a"
      string: "b"
    identifier: "c"
  string: "d"
`[1:])

	// Index expressions can be arbitrary expressions

	parseTest(t, "list[i + 1]", `
access
  identifier: "list"
  plus
    identifier: "i"
    number: "1"
`[1:])

	parseErrorTest(t, "a.5",
		"Parse error in mytest: Unexpected term (5) (Line:1 Pos:3)")

	parseErrorTest(t, "a[1",
		"Parse error in mytest: Unexpected end (Line:1 Pos:4)")
}

func TestFunctionCallParsing(t *testing.T) {

	parseTest(t, "foo()", `
funccall: "foo"
`[1:])

	parseTest(t, "max(1, 2 * 3, x)", `
funccall: "max"
  number: "1"
  times
    number: "2"
    number: "3"
  identifier: "x"
`[1:])

	// Namespaced function names are assembled from identifier ':' identifier

	parseTest(t, `fn:length("abc")`, `
funccall: "fn:length"
  string: "abc"
`[1:])

	parseTest(t, "fn:contains(s, t) && a", `
and
  funccall: "fn:contains"
    identifier: "s"
    identifier: "t"
  identifier: "a"
`[1:])

	// Calls can only be applied to a function name

	parseErrorTest(t, "1(2)",
		"Parse error in mytest: Unexpected term (Function call needs a function name) (Line:1 Pos:2)")

	parseErrorTest(t, "foo(1,",
		"Parse error in mytest: Unexpected end")
}

func TestTernaryParsing(t *testing.T) {

	parseTest(t, "a ? b : c", `
ternary
  identifier: "a"
  identifier: "b"
  identifier: "c"
`[1:])

	// The ternary operator is right associative

	parseTest(t, "a ? b : c ? d : e", `
ternary
  identifier: "a"
  identifier: "b"
  ternary
    identifier: "c"
    identifier: "d"
    identifier: "e"
`[1:])

	// The ternary operator binds weaker than boolean operators

	parseTest(t, `x > 1 && y < 2 ? "both" : "not both"`, `
ternary
  and
    >
      identifier: "x"
      number: "1"
    <
      identifier: "y"
      number: "2"
  string: "both"
  string: "not both"
`[1:])

	// A colon after an identifier followed by identifier '(' always forms
	// a namespaced function call - parenthesize the else branch to get a
	// call there

	parseErrorTest(t, "a ? b : c(1)",
		"Parse error in mytest: Unexpected end (Line:1 Pos:13)")

	parseTest(t, "a ? b : (c(1))", `
ternary
  identifier: "a"
  identifier: "b"
  funccall: "c"
    number: "1"
`[1:])

	parseErrorTest(t, "a ? b",
		"Parse error in mytest: Unexpected end (Line:1 Pos:6)")
}

func TestParsingErrors(t *testing.T) {

	// Lexer errors are passed through

	parseErrorTest(t, `"bl\*a"`,
		"Parse error in mytest: Lexical error (invalid syntax while parsing escape sequences) (Line:1 Pos:1)")

	// Incomplete expressions

	parseErrorTest(t, "a *",
		"Parse error in mytest: Unexpected end")

	parseErrorTest(t, "(1 + 2",
		"Parse error in mytest: Unexpected end (Line:1 Pos:7)")

	// The whole input must be consumed

	parseErrorTest(t, "1 2",
		"Parse error in mytest: Unexpected term (2) (Line:1 Pos:3)")

	// Operators need terms

	parseErrorTest(t, "* 5",
		"Parse error in mytest: Term cannot start an expression (*) (Line:1 Pos:1)")

	parseErrorTest(t, "1 + + 2",
		"Parse error in mytest: Term cannot start an expression (+) (Line:1 Pos:5)")

	// The equality operators must not be chained

	parseErrorTest(t, "a == b == c",
		"Parse error in mytest: Unexpected term (==) (Line:1 Pos:8)")

	parseErrorTest(t, "a != b == c",
		"Parse error in mytest: Unexpected term (==) (Line:1 Pos:8)")
}
