/*
 * EL - Expression Language
 *
 * Copyright 2020 Peter Wall. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package interpreter

import (
	"fmt"
	"math"
	"testing"

	"github.com/pwall567/el-sub002/parser"
)

/*
evalExp evaluates an expression against a given resolver.
*/
func evalExp(input string, res Resolver) (interface{}, error) {

	ast, err := parser.ParseWithRuntime("mytest", input, NewRuntimeProvider("mytest"))
	if err != nil {
		return nil, err
	}

	if err := ast.Runtime.Validate(); err != nil {
		return nil, err
	}

	if res == nil {
		res = NullResolver()
	}

	return ast.Runtime.(ExprRuntime).ExprEval(res)
}

/*
evalTest evaluates an expression and checks the result.
*/
func evalTest(t *testing.T, input string, res Resolver, expected interface{}) {

	result, err := evalExp(input, res)
	if err != nil || result != expected {
		t.Errorf("Unexpected result for %v: %v (%T) Error: %v",
			input, result, result, err)
	}
}

/*
evalErrorTest evaluates an expression and checks for an expected error.
*/
func evalErrorTest(t *testing.T, input string, res Resolver, expectedError string) {

	if _, err := evalExp(input, res); err == nil || err.Error() != expectedError {
		t.Errorf("Unexpected error for %v: %v", input, err)
	}
}

func TestArithmetics(t *testing.T) {

	evalTest(t, "1 + 2", nil, int64(3))
	evalTest(t, "1 + 2.5", nil, float64(3.5))
	evalTest(t, "10 - 4 - 3", nil, int64(3))
	evalTest(t, "6 * 7", nil, int64(42))
	evalTest(t, "2 * 1.5", nil, float64(3))

	// Division always produces a float

	evalTest(t, "7 / 2", nil, float64(3.5))
	evalTest(t, "6 / 2", nil, float64(3))
	evalTest(t, "1 / 0", nil, math.Inf(1))

	// Modulo keeps integers where possible

	evalTest(t, "7 % 3", nil, int64(1))
	evalTest(t, "7.5 % 2", nil, float64(1.5))

	if res, err := evalExp("7 % 0", nil); err != nil || !math.IsNaN(res.(float64)) {
		t.Error("Unexpected result:", res, err)
		return
	}

	// Unary minus

	evalTest(t, "-5", nil, int64(-5))
	evalTest(t, "--5", nil, int64(5))
	evalTest(t, "-'2.5'", nil, float64(-2.5))

	// Numeric strings are coerced

	evalTest(t, "'1' + 2", nil, int64(3))
	evalTest(t, "'3' * '4'", nil, int64(12))

	// Null counts as zero

	evalTest(t, "1 + null", nil, int64(1))

	evalErrorTest(t, "1 - 'apple'", nil,
		`EL error in mytest: Cannot coerce value of operand (Not a number: "apple") (Line:1 Pos:5)`)
}

func TestConcatenation(t *testing.T) {

	// Numeric addition is tried first - concatenation needs a string
	// operand which does not spell a number

	evalTest(t, "'foo' + 'bar'", nil, "foobar")
	evalTest(t, "'a' + 1", nil, "a1")
	evalTest(t, "1.5 + 'b'", nil, "1.5b")
	evalTest(t, "'x' + null", nil, "x")
	evalTest(t, "'' + true", nil, "true")

	evalErrorTest(t, "1 + true", nil,
		"EL error in mytest: Cannot coerce value of operand (Not a number: true) (Line:1 Pos:5)")
}

func TestBooleanOperations(t *testing.T) {

	evalTest(t, "true && true", nil, true)
	evalTest(t, "true && false", nil, false)
	evalTest(t, "false || true", nil, true)
	evalTest(t, "false || false", nil, false)
	evalTest(t, "!true", nil, false)
	evalTest(t, "not false", nil, true)

	// Numbers and boolean literal strings are coerced

	evalTest(t, "1 && 'true'", nil, true)
	evalTest(t, "0 || false", nil, false)
	evalTest(t, "null || true", nil, true)

	evalErrorTest(t, "true && 'banana'", nil,
		`EL error in mytest: Cannot coerce value of operand (Not a boolean: "banana") (Line:1 Pos:9)`)
}

func TestShortCircuit(t *testing.T) {

	var calls []string

	res := NewMapResolver(nil, map[string]Function{
		"probe": func(args []interface{}) (interface{}, error) {
			calls = append(calls, fmt.Sprint(args[0]))
			return args[1], nil
		},
	})

	// The right subtree must not be visited when the result is decided

	evalTest(t, "false && probe('a', true)", res, false)
	evalTest(t, "true || probe('b', false)", res, true)

	if len(calls) != 0 {
		t.Error("Unexpected probe calls:", calls)
		return
	}

	evalTest(t, "true && probe('c', true)", res, true)
	evalTest(t, "false || probe('d', true)", res, true)

	if fmt.Sprint(calls) != "[c d]" {
		t.Error("Unexpected probe calls:", calls)
		return
	}
}

func TestComparisons(t *testing.T) {

	evalTest(t, "2 > 1", nil, true)
	evalTest(t, "1 >= 1", nil, true)
	evalTest(t, "2 < 1", nil, false)
	evalTest(t, "1 <= 0", nil, false)

	// Numeric comparison is tried before string comparison

	evalTest(t, "'10' > 9", nil, true)
	evalTest(t, "'abc' lt 'abd'", nil, true)
	evalTest(t, "2 gt 1.5", nil, true)

	evalErrorTest(t, "1 < 'abc'", nil,
		`EL error in mytest: Cannot coerce value of operand (Not comparable: 1 and "abc") (Line:1 Pos:3)`)
}

func TestEquality(t *testing.T) {

	evalTest(t, "1 == 1.0", nil, true)
	evalTest(t, "'1' == 1", nil, true)
	evalTest(t, "1 != 2", nil, true)
	evalTest(t, "'foo' eq 'foo'", nil, true)
	evalTest(t, "'foo' ne 'bar'", nil, true)
	evalTest(t, "true == 'true'", nil, true)
	evalTest(t, "null == null", nil, true)
	evalTest(t, "null == 0", nil, false)

	// An undefined variable evaluates to null

	evalTest(t, "undefinedVar == null", nil, true)

	evalErrorTest(t, "true == 'banana'", nil,
		`EL error in mytest: Cannot coerce value of operand (Not a boolean: "banana") (Line:1 Pos:6)`)
}

func TestTernary(t *testing.T) {

	evalTest(t, "true ? 1 : 2", nil, int64(1))
	evalTest(t, "false ? 1 : 2", nil, int64(2))
	evalTest(t, "1 < 2 ? 'yes' : 'no'", nil, "yes")

	// Only the selected branch is evaluated

	res := NewMapResolver(nil, map[string]Function{
		"boom": func(args []interface{}) (interface{}, error) {
			return nil, fmt.Errorf("should not be called")
		},
	})

	evalTest(t, "true ? 42 : (boom())", res, int64(42))

	evalErrorTest(t, "'banana' ? 1 : 2", nil,
		`EL error in mytest: Cannot coerce value of operand (Not a boolean: "banana") (Line:1 Pos:1)`)
}

func TestVariables(t *testing.T) {

	res := NewMapResolver(map[string]interface{}{
		"x":    10,
		"name": "Fred",
	}, nil)

	evalTest(t, "x * 2", res, int64(20))
	evalTest(t, "name + '!'", res, "Fred!")

	// Unknown variables resolve to null

	evalTest(t, "unknown", res, nil)
	evalTest(t, "unknown == null", res, true)

	// Resolver errors abort the evaluation

	evalErrorTest(t, "x", &errResolver{},
		"EL error in mytest: Resolver reported an error (no vars today) (Line:1 Pos:1)")
}

/*
errResolver is a resolver which fails every lookup.
*/
type errResolver struct{}

func (errResolver) ResolveVariable(name string) (interface{}, bool, error) {
	return nil, false, fmt.Errorf("no vars today")
}

func (errResolver) ResolveFunction(prefix string, name string) (Function, bool, error) {
	return nil, false, fmt.Errorf("no funcs today")
}

/*
testObject is a host object which exposes named attributes.
*/
type testObject struct {
	attrs map[string]interface{}
}

func (to *testObject) Attr(name string) (interface{}, bool) {
	v, ok := to.attrs[name]
	return v, ok
}

func TestMemberAccess(t *testing.T) {

	res := NewMapResolver(map[string]interface{}{
		"user": map[string]interface{}{
			"name": "Fred",
			"age":  42,
			"tags": []interface{}{"a", "b", "c"},
		},
		"obj":    &testObject{map[string]interface{}{"color": "red"}},
		"word":   "hello",
		"number": 42,
	}, nil)

	// Dot and index access are equivalent

	evalTest(t, "user.name", res, "Fred")
	evalTest(t, "user['name']", res, "Fred")
	evalTest(t, "user.age * 2", res, int64(84))

	// List access

	evalTest(t, "user.tags[1]", res, "b")
	evalTest(t, "user.tags[1 + 1]", res, "c")
	evalTest(t, "user.tags[99]", res, nil)
	evalTest(t, "user.tags[-1]", res, nil)

	// String access yields a single character string

	evalTest(t, "word[1]", res, "e")
	evalTest(t, "word[99]", res, nil)

	// Host objects expose named attributes

	evalTest(t, "obj.color", res, "red")
	evalTest(t, "obj.shape", res, nil)

	// Missing members and access on null yield null

	evalTest(t, "user.email", res, nil)
	evalTest(t, "missing.name", res, nil)
	evalTest(t, "user.email.domain", res, nil)

	// Access on a non-null scalar is an error

	evalErrorTest(t, "number.name", res,
		"EL error in mytest: Invalid member access "+
			`(Cannot access member "name" of 42) (Line:1 Pos:7)`)

	// A non numeric list index is an error

	evalErrorTest(t, "user.tags['x']", res,
		`EL error in mytest: Cannot coerce value of operand (Not a number: "x") (Line:1 Pos:11)`)
}

func TestFunctionCalls(t *testing.T) {

	var order []string

	res := NewMapResolver(map[string]interface{}{
		"x": 3,
	}, map[string]Function{
		"add": func(args []interface{}) (interface{}, error) {
			var sum int64
			for _, a := range args {
				sum += a.(int64)
			}
			return sum, nil
		},
		"note": func(args []interface{}) (interface{}, error) {
			order = append(order, fmt.Sprint(args[0]))
			return args[0], nil
		},
		"str:twice": func(args []interface{}) (interface{}, error) {
			s := fmt.Sprint(args[0])
			return s + s, nil
		},
		"fail": func(args []interface{}) (interface{}, error) {
			return nil, fmt.Errorf("kaboom")
		},
	})

	evalTest(t, "add(1, 2, x)", res, int64(6))
	evalTest(t, "add()", res, int64(0))

	// Namespaced functions are looked up with their prefix

	evalTest(t, "str:twice('ab')", res, "abab")

	// Arguments are evaluated left to right

	evalTest(t, "add(note(1), note(2), note(3))", res, int64(6))

	if fmt.Sprint(order) != "[1 2 3]" {
		t.Error("Unexpected evaluation order:", order)
		return
	}

	// Unknown functions are always an error

	evalErrorTest(t, "nosuch(1)", res,
		"EL error in mytest: Unknown function (nosuch) (Line:1 Pos:1)")

	evalErrorTest(t, "ns:nosuch(1)", res,
		"EL error in mytest: Unknown function (ns:nosuch) (Line:1 Pos:1)")

	// Function errors are wrapped

	evalErrorTest(t, "fail(1)", res,
		"EL error in mytest: Function call failed (fail - kaboom) (Line:1 Pos:1)")

	// Resolver errors abort the evaluation

	evalErrorTest(t, "add(1)", &errResolver{},
		"EL error in mytest: Resolver reported an error (no funcs today) (Line:1 Pos:1)")
}

func TestInvalidConstruct(t *testing.T) {

	// Nodes which are no part of a valid expression AST report an error
	// during validation

	rtp := NewRuntimeProvider("mytest")

	node := &parser.ASTNode{Name: parser.NodeCOMMA, Token: &parser.LexToken{}}
	node.Runtime = rtp.Runtime(node)

	if err := node.Runtime.Validate(); err == nil ||
		err.Error() != "EL error in mytest: Invalid construct (comma)" {
		t.Error("Unexpected validate result:", err)
		return
	}

	if _, err := node.Runtime.Eval(); err == nil ||
		err.Error() != "EL error in mytest: Invalid construct (comma)" {
		t.Error("Unexpected eval result:", err)
		return
	}
}
