/*
 * EL - Expression Language
 *
 * Copyright 2020 Peter Wall. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package el

import (
	"fmt"
	"testing"

	"github.com/pwall567/el-sub002/interpreter"
	"github.com/pwall567/el-sub002/stdlib"
)

func TestParseExpression(t *testing.T) {

	exp, err := ParseExpression("mytest", "1 + 2 * 3")
	if err != nil {
		t.Error(err)
		return
	}

	if res, err := exp.Eval(nil); err != nil || res != int64(7) {
		t.Error("Unexpected result:", res, err)
		return
	}

	// The string representation is the normalized expression

	if exp.String() != "1 + 2 * 3" {
		t.Error("Unexpected string representation:", exp.String())
		return
	}

	if fmt.Sprint(exp.AST()) != `
plus
  number: "1"
  times
    number: "2"
    number: "3"
`[1:] {
		t.Error("Unexpected AST:", exp.AST())
		return
	}

	// Parsed expressions are cached - the same instance is returned

	exp2, err := ParseExpression("mytest", "1 + 2 * 3")
	if err != nil || exp2 != exp {
		t.Error("Unexpected cache result:", exp2, err)
		return
	}

	// Parse errors are returned as is

	if _, err := ParseExpression("mytest", "1 +"); err == nil ||
		err.Error() != "Parse error in mytest: Unexpected end" {
		t.Error("Unexpected parse result:", err)
		return
	}
}

func TestEvalExpression(t *testing.T) {

	vars := map[string]interface{}{
		"user": map[string]interface{}{
			"name": "Fred",
			"age":  42,
		},
	}

	res, err := EvalExpression("mytest", "user.age >= 18 ? user.name : 'minor'",
		stdlib.NewResolver(vars))
	if err != nil || res != "Fred" {
		t.Error("Unexpected result:", res, err)
		return
	}

	res, err = EvalExpression("mytest", "fn:toUpperCase(user.name)",
		stdlib.NewResolver(vars))
	if err != nil || res != "FRED" {
		t.Error("Unexpected result:", res, err)
		return
	}

	// An expression can be evaluated against different resolvers

	exp, err := ParseExpression("mytest", "x * 2")
	if err != nil {
		t.Error(err)
		return
	}

	for i, expected := range []interface{}{int64(0), int64(2), int64(4)} {

		res, err := exp.Eval(interpreter.NewMapResolver(
			map[string]interface{}{"x": i}, nil))

		if err != nil || res != expected {
			t.Error("Unexpected result:", res, err)
			return
		}
	}
}

func TestConcurrentEval(t *testing.T) {

	exp, err := ParseExpression("mytest", "x * x")
	if err != nil {
		t.Error(err)
		return
	}

	done := make(chan error)

	for i := 0; i < 10; i++ {
		go func(i int) {
			res, err := exp.Eval(interpreter.NewMapResolver(
				map[string]interface{}{"x": i}, nil))

			if err == nil && res != int64(i*i) {
				err = fmt.Errorf("Unexpected result: %v", res)
			}

			done <- err
		}(i)
	}

	for i := 0; i < 10; i++ {
		if err := <-done; err != nil {
			t.Error(err)
			return
		}
	}
}
