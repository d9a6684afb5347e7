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
	"math"

	"github.com/pwall567/el-sub002/parser"
)

/*
Abstract runtime for expression components
*/
type exprItemRuntime struct {
	rtp     *elRuntimeProvider
	astNode *parser.ASTNode
}

/*
Validate this node and all its child nodes.
*/
func (rt *exprItemRuntime) Validate() error {

	for _, child := range rt.astNode.Children {
		if err := child.Runtime.Validate(); err != nil {
			return err
		}
	}

	return nil
}

/*
Eval evaluate this runtime component.
*/
func (rt *exprItemRuntime) Eval() (interface{}, error) {
	return nil, rt.rtp.newRuntimeError(ErrInvalidConstruct, rt.astNode.Name, rt.astNode)
}

/*
child returns the expression runtime of a child node.
*/
func (rt *exprItemRuntime) child(i int) ExprRuntime {
	return rt.astNode.Children[i].Runtime.(ExprRuntime)
}

/*
binaryOperands evaluates both child components from left to right.
*/
func (rt *exprItemRuntime) binaryOperands(res Resolver) (interface{}, interface{}, error) {

	res1, err := rt.child(0).ExprEval(res)
	if err != nil {
		return nil, nil, err
	}

	res2, err := rt.child(1).ExprEval(res)
	if err != nil {
		return nil, nil, err
	}

	return res1, res2, nil
}

/*
numOp executes an operation on two number values. The integer operation is
used when both operands coerce to integers - if it is not given the
operands are always coerced towards floats.
*/
func (rt *exprItemRuntime) numOp(res Resolver, intOp func(int64, int64) interface{},
	floatOp func(float64, float64) interface{}) (interface{}, error) {

	res1, res2, err := rt.binaryOperands(res)
	if err != nil {
		return nil, err
	}

	num1, cerr := toNumber(res1)
	if cerr != nil {
		return nil, rt.rtp.newRuntimeError(ErrTypeCoercion, cerr.Error(),
			rt.astNode.Children[0])
	}

	num2, cerr := toNumber(res2)
	if cerr != nil {
		return nil, rt.rtp.newRuntimeError(ErrTypeCoercion, cerr.Error(),
			rt.astNode.Children[1])
	}

	i1, ok1 := num1.(int64)
	i2, ok2 := num2.(int64)

	if intOp != nil && ok1 && ok2 {
		return intOp(i1, i2), nil
	}

	f1, _ := toFloat(num1)
	f2, _ := toFloat(num2)

	return floatOp(f1, f2), nil
}

/*
cmpOp executes an ordering comparison on two values.
*/
func (rt *exprItemRuntime) cmpOp(res Resolver, op func(int) bool) (interface{}, error) {

	res1, res2, err := rt.binaryOperands(res)
	if err != nil {
		return nil, err
	}

	c, cerr := compareVals(res1, res2)
	if cerr != nil {
		return nil, rt.rtp.newRuntimeError(ErrTypeCoercion, cerr.Error(), rt.astNode)
	}

	return op(c), nil
}

/*
boolOp executes an operation on two boolean values. Can optionally try a
short circuit operation.
*/
func (rt *exprItemRuntime) boolOp(res Resolver, op func(bool, bool) interface{},
	scop func(bool) interface{}) (interface{}, error) {

	res1, err := rt.child(0).ExprEval(res)
	if err != nil {
		return nil, err
	}

	b1, cerr := toBool(res1)
	if cerr != nil {
		return nil, rt.rtp.newRuntimeError(ErrTypeCoercion, cerr.Error(),
			rt.astNode.Children[0])
	}

	if len(rt.astNode.Children) == 1 {

		// Special case for "not" operation

		return op(b1, false), nil
	}

	// Try short circuit - the right subtree is only visited when its value
	// can still affect the result

	if scop != nil {
		if ret := scop(b1); ret != nil {
			return ret, nil
		}
	}

	res2, err := rt.child(1).ExprEval(res)
	if err != nil {
		return nil, err
	}

	b2, cerr := toBool(res2)
	if cerr != nil {
		return nil, rt.rtp.newRuntimeError(ErrTypeCoercion, cerr.Error(),
			rt.astNode.Children[1])
	}

	return op(b1, b2), nil
}

// Boolean operator runtimes
// =========================

/*
And runtime
*/
type andRuntime struct {
	*exprItemRuntime
}

/*
andRuntimeInst returns a new runtime component instance.
*/
func andRuntimeInst(rtp *elRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &andRuntime{&exprItemRuntime{rtp, node}}
}

/*
ExprEval evaluates this expression component.
*/
func (rt *andRuntime) ExprEval(res Resolver) (interface{}, error) {
	return rt.boolOp(res, func(b1 bool, b2 bool) interface{} { return b1 && b2 },
		func(b1 bool) interface{} {
			if !b1 {
				return false
			}
			return nil
		})
}

/*
Or runtime
*/
type orRuntime struct {
	*exprItemRuntime
}

/*
orRuntimeInst returns a new runtime component instance.
*/
func orRuntimeInst(rtp *elRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &orRuntime{&exprItemRuntime{rtp, node}}
}

/*
ExprEval evaluates this expression component.
*/
func (rt *orRuntime) ExprEval(res Resolver) (interface{}, error) {
	return rt.boolOp(res, func(b1 bool, b2 bool) interface{} { return b1 || b2 },
		func(b1 bool) interface{} {
			if b1 {
				return true
			}
			return nil
		})
}

/*
Not runtime
*/
type notRuntime struct {
	*exprItemRuntime
}

/*
notRuntimeInst returns a new runtime component instance.
*/
func notRuntimeInst(rtp *elRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &notRuntime{&exprItemRuntime{rtp, node}}
}

/*
ExprEval evaluates this expression component.
*/
func (rt *notRuntime) ExprEval(res Resolver) (interface{}, error) {
	return rt.boolOp(res, func(b1 bool, b2 bool) interface{} { return !b1 }, nil)
}

// Comparison runtimes
// ===================

/*
Equal runtime
*/
type equalRuntime struct {
	*exprItemRuntime
}

/*
equalRuntimeInst returns a new runtime component instance.
*/
func equalRuntimeInst(rtp *elRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &equalRuntime{&exprItemRuntime{rtp, node}}
}

/*
ExprEval evaluates this expression component.
*/
func (rt *equalRuntime) ExprEval(res Resolver) (interface{}, error) {

	res1, res2, err := rt.binaryOperands(res)
	if err != nil {
		return nil, err
	}

	eq, cerr := equalVals(res1, res2)
	if cerr != nil {
		return nil, rt.rtp.newRuntimeError(ErrTypeCoercion, cerr.Error(), rt.astNode)
	}

	return eq, nil
}

/*
Not equal runtime
*/
type notEqualRuntime struct {
	*exprItemRuntime
}

/*
notEqualRuntimeInst returns a new runtime component instance.
*/
func notEqualRuntimeInst(rtp *elRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &notEqualRuntime{&exprItemRuntime{rtp, node}}
}

/*
ExprEval evaluates this expression component.
*/
func (rt *notEqualRuntime) ExprEval(res Resolver) (interface{}, error) {

	res1, res2, err := rt.binaryOperands(res)
	if err != nil {
		return nil, err
	}

	eq, cerr := equalVals(res1, res2)
	if cerr != nil {
		return nil, rt.rtp.newRuntimeError(ErrTypeCoercion, cerr.Error(), rt.astNode)
	}

	return !eq, nil
}

/*
Less than runtime
*/
type lessThanRuntime struct {
	*exprItemRuntime
}

/*
lessThanRuntimeInst returns a new runtime component instance.
*/
func lessThanRuntimeInst(rtp *elRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &lessThanRuntime{&exprItemRuntime{rtp, node}}
}

/*
ExprEval evaluates this expression component.
*/
func (rt *lessThanRuntime) ExprEval(res Resolver) (interface{}, error) {
	return rt.cmpOp(res, func(c int) bool { return c < 0 })
}

/*
Less than equals runtime
*/
type lessThanEqualsRuntime struct {
	*exprItemRuntime
}

/*
lessThanEqualsRuntimeInst returns a new runtime component instance.
*/
func lessThanEqualsRuntimeInst(rtp *elRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &lessThanEqualsRuntime{&exprItemRuntime{rtp, node}}
}

/*
ExprEval evaluates this expression component.
*/
func (rt *lessThanEqualsRuntime) ExprEval(res Resolver) (interface{}, error) {
	return rt.cmpOp(res, func(c int) bool { return c <= 0 })
}

/*
Greater than runtime
*/
type greaterThanRuntime struct {
	*exprItemRuntime
}

/*
greaterThanRuntimeInst returns a new runtime component instance.
*/
func greaterThanRuntimeInst(rtp *elRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &greaterThanRuntime{&exprItemRuntime{rtp, node}}
}

/*
ExprEval evaluates this expression component.
*/
func (rt *greaterThanRuntime) ExprEval(res Resolver) (interface{}, error) {
	return rt.cmpOp(res, func(c int) bool { return c > 0 })
}

/*
Greater than equals runtime
*/
type greaterThanEqualsRuntime struct {
	*exprItemRuntime
}

/*
greaterThanEqualsRuntimeInst returns a new runtime component instance.
*/
func greaterThanEqualsRuntimeInst(rtp *elRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &greaterThanEqualsRuntime{&exprItemRuntime{rtp, node}}
}

/*
ExprEval evaluates this expression component.
*/
func (rt *greaterThanEqualsRuntime) ExprEval(res Resolver) (interface{}, error) {
	return rt.cmpOp(res, func(c int) bool { return c >= 0 })
}

// Arithmetic runtimes
// ===================

/*
Plus runtime
*/
type plusRuntime struct {
	*exprItemRuntime
}

/*
plusRuntimeInst returns a new runtime component instance.
*/
func plusRuntimeInst(rtp *elRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &plusRuntime{&exprItemRuntime{rtp, node}}
}

/*
ExprEval evaluates this expression component. Numeric addition is tried
first - string concatenation is the fallback when an operand is a string
which does not spell a number.
*/
func (rt *plusRuntime) ExprEval(res Resolver) (interface{}, error) {

	res1, res2, err := rt.binaryOperands(res)
	if err != nil {
		return nil, err
	}

	num1, err1 := toNumber(res1)
	num2, err2 := toNumber(res2)

	if err1 == nil && err2 == nil {

		i1, ok1 := num1.(int64)
		i2, ok2 := num2.(int64)

		if ok1 && ok2 {
			return i1 + i2, nil
		}

		f1, _ := toFloat(num1)
		f2, _ := toFloat(num2)

		return f1 + f2, nil
	}

	// Concatenation fallback - at least one operand must be a string

	_, isString1 := res1.(string)
	_, isString2 := res2.(string)

	if isString1 || isString2 {
		return toConcatString(res1) + toConcatString(res2), nil
	}

	if err1 != nil {
		return nil, rt.rtp.newRuntimeError(ErrTypeCoercion, err1.Error(),
			rt.astNode.Children[0])
	}

	return nil, rt.rtp.newRuntimeError(ErrTypeCoercion, err2.Error(),
		rt.astNode.Children[1])
}

/*
Minus runtime - used for unary negation and subtraction.
*/
type minusRuntime struct {
	*exprItemRuntime
}

/*
minusRuntimeInst returns a new runtime component instance.
*/
func minusRuntimeInst(rtp *elRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &minusRuntime{&exprItemRuntime{rtp, node}}
}

/*
ExprEval evaluates this expression component.
*/
func (rt *minusRuntime) ExprEval(res Resolver) (interface{}, error) {

	if len(rt.astNode.Children) == 1 {

		// Special case for unary negation

		res1, err := rt.child(0).ExprEval(res)
		if err != nil {
			return nil, err
		}

		num, cerr := toNumber(res1)
		if cerr != nil {
			return nil, rt.rtp.newRuntimeError(ErrTypeCoercion, cerr.Error(),
				rt.astNode.Children[0])
		}

		if i, ok := num.(int64); ok {
			return -i, nil
		}

		return -num.(float64), nil
	}

	return rt.numOp(res, func(i1 int64, i2 int64) interface{} { return i1 - i2 },
		func(f1 float64, f2 float64) interface{} { return f1 - f2 })
}

/*
Times runtime
*/
type timesRuntime struct {
	*exprItemRuntime
}

/*
timesRuntimeInst returns a new runtime component instance.
*/
func timesRuntimeInst(rtp *elRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &timesRuntime{&exprItemRuntime{rtp, node}}
}

/*
ExprEval evaluates this expression component.
*/
func (rt *timesRuntime) ExprEval(res Resolver) (interface{}, error) {
	return rt.numOp(res, func(i1 int64, i2 int64) interface{} { return i1 * i2 },
		func(f1 float64, f2 float64) interface{} { return f1 * f2 })
}

/*
Div runtime - division always coerces towards floats.
*/
type divRuntime struct {
	*exprItemRuntime
}

/*
divRuntimeInst returns a new runtime component instance.
*/
func divRuntimeInst(rtp *elRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &divRuntime{&exprItemRuntime{rtp, node}}
}

/*
ExprEval evaluates this expression component.
*/
func (rt *divRuntime) ExprEval(res Resolver) (interface{}, error) {
	return rt.numOp(res, nil,
		func(f1 float64, f2 float64) interface{} { return f1 / f2 })
}

/*
Mod runtime
*/
type modRuntime struct {
	*exprItemRuntime
}

/*
modRuntimeInst returns a new runtime component instance.
*/
func modRuntimeInst(rtp *elRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &modRuntime{&exprItemRuntime{rtp, node}}
}

/*
ExprEval evaluates this expression component.
*/
func (rt *modRuntime) ExprEval(res Resolver) (interface{}, error) {
	return rt.numOp(res, func(i1 int64, i2 int64) interface{} {
		if i2 == 0 {
			return math.NaN()
		}
		return i1 % i2
	}, func(f1 float64, f2 float64) interface{} { return math.Mod(f1, f2) })
}
