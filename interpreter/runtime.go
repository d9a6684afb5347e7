/*
 * EL - Expression Language
 *
 * Copyright 2020 Peter Wall. All rights reserved.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

/*
Package interpreter contains the EL expression interpreter.
*/
package interpreter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pwall567/el-sub002/parser"
)

/*
ExprRuntime is the runtime component of an expression AST node. Expressions
are evaluated against a per-call resolver - the runtime components
themselves are stateless which makes a decorated AST safe for concurrent
evaluation as long as each caller supplies its own resolver.
*/
type ExprRuntime interface {
	parser.Runtime

	/*
	   ExprEval evaluates this expression component against a given resolver.
	*/
	ExprEval(res Resolver) (interface{}, error)
}

// General runtime provider
// ========================

/*
elRuntimeProvider defines the expression interpreter.
*/
type elRuntimeProvider struct {
	name string // Name to identify the input
}

/*
NewRuntimeProvider creates a new runtime provider which decorates expression
ASTs with runtime components.
*/
func NewRuntimeProvider(name string) parser.RuntimeProvider {
	return &elRuntimeProvider{name}
}

/*
Runtime map for expression AST nodes
*/
var runtimeProviderMap = map[string]func(*elRuntimeProvider, *parser.ASTNode) parser.Runtime{
	parser.NodeNUMBER:     valueRuntimeInst,
	parser.NodeSTRING:     valueRuntimeInst,
	parser.NodeTRUE:       valueRuntimeInst,
	parser.NodeFALSE:      valueRuntimeInst,
	parser.NodeNULL:       valueRuntimeInst,
	parser.NodeIDENTIFIER: identifierRuntimeInst,

	parser.NodeAND: andRuntimeInst,
	parser.NodeOR:  orRuntimeInst,
	parser.NodeNOT: notRuntimeInst,

	parser.NodeEQ:  equalRuntimeInst,
	parser.NodeNEQ: notEqualRuntimeInst,
	parser.NodeGT:  greaterThanRuntimeInst,
	parser.NodeGEQ: greaterThanEqualsRuntimeInst,
	parser.NodeLT:  lessThanRuntimeInst,
	parser.NodeLEQ: lessThanEqualsRuntimeInst,

	parser.NodePLUS:  plusRuntimeInst,
	parser.NodeMINUS: minusRuntimeInst,
	parser.NodeTIMES: timesRuntimeInst,
	parser.NodeDIV:   divRuntimeInst,
	parser.NodeMOD:   modRuntimeInst,

	parser.NodeTERNARY:  ternaryRuntimeInst,
	parser.NodeACCESS:   accessRuntimeInst,
	parser.NodeFUNCCALL: funcCallRuntimeInst,
}

/*
Runtime returns a runtime component for a given ASTNode.
*/
func (rtp *elRuntimeProvider) Runtime(node *parser.ASTNode) parser.Runtime {
	if pinst, ok := runtimeProviderMap[node.Name]; ok {
		return pinst(rtp, node)
	}

	return invalidRuntimeInst(rtp, node)
}

// Invalid runtime
// ===============

/*
Special runtime for nodes which must not appear in a valid expression AST.
*/
type invalidRuntime struct {
	*exprItemRuntime
}

/*
invalidRuntimeInst returns a new runtime component instance.
*/
func invalidRuntimeInst(rtp *elRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &invalidRuntime{&exprItemRuntime{rtp, node}}
}

/*
Validate this node and all its child nodes.
*/
func (rt *invalidRuntime) Validate() error {
	return rt.rtp.newRuntimeError(ErrInvalidConstruct, rt.astNode.Name, rt.astNode)
}

/*
ExprEval evaluates this expression component.
*/
func (rt *invalidRuntime) ExprEval(res Resolver) (interface{}, error) {
	return nil, rt.rtp.newRuntimeError(ErrInvalidConstruct, rt.astNode.Name, rt.astNode)
}

// Value runtime
// =============

/*
Runtime for literal values
*/
type valueRuntime struct {
	*exprItemRuntime
}

/*
valueRuntimeInst returns a new runtime component instance.
*/
func valueRuntimeInst(rtp *elRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &valueRuntime{&exprItemRuntime{rtp, node}}
}

/*
ExprEval evaluates this expression component.
*/
func (rt *valueRuntime) ExprEval(res Resolver) (interface{}, error) {

	switch rt.astNode.Name {

	case parser.NodeTRUE:
		return true, nil

	case parser.NodeFALSE:
		return false, nil

	case parser.NodeNULL:
		return nil, nil

	case parser.NodeSTRING:
		return rt.astNode.Token.Val, nil
	}

	// Number literal - an integer literal which overflows int64 is
	// converted to a float

	if rt.astNode.Token.ID == parser.TokenINT {
		if i, err := strconv.ParseInt(rt.astNode.Token.Val, 10, 64); err == nil {
			return i, nil
		}
	}

	f, err := strconv.ParseFloat(rt.astNode.Token.Val, 64)
	if err != nil {
		return nil, rt.rtp.newRuntimeError(ErrTypeCoercion,
			fmt.Sprintf("Not a number: %v", rt.astNode.Token.Val), rt.astNode)
	}

	return f, nil
}

// Identifier runtime
// ==================

/*
Runtime for variable references
*/
type identifierRuntime struct {
	*exprItemRuntime
}

/*
identifierRuntimeInst returns a new runtime component instance.
*/
func identifierRuntimeInst(rtp *elRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &identifierRuntime{&exprItemRuntime{rtp, node}}
}

/*
ExprEval evaluates this expression component. An unknown variable evaluates
to null - only an error which the resolver itself reports aborts the
evaluation.
*/
func (rt *identifierRuntime) ExprEval(res Resolver) (interface{}, error) {

	v, ok, err := res.ResolveVariable(rt.astNode.Token.Val)

	if err != nil {
		return nil, rt.rtp.newRuntimeError(ErrResolver, err.Error(), rt.astNode)
	}

	if !ok {
		return nil, nil
	}

	return NormalizeValue(v), nil
}

// Ternary runtime
// ===============

/*
Runtime for the conditional operator
*/
type ternaryRuntime struct {
	*exprItemRuntime
}

/*
ternaryRuntimeInst returns a new runtime component instance.
*/
func ternaryRuntimeInst(rtp *elRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &ternaryRuntime{&exprItemRuntime{rtp, node}}
}

/*
ExprEval evaluates this expression component. Only the selected branch
subtree is visited.
*/
func (rt *ternaryRuntime) ExprEval(res Resolver) (interface{}, error) {

	cond, err := rt.child(0).ExprEval(res)
	if err != nil {
		return nil, err
	}

	condBool, cerr := toBool(cond)
	if cerr != nil {
		return nil, rt.rtp.newRuntimeError(ErrTypeCoercion, cerr.Error(),
			rt.astNode.Children[0])
	}

	if condBool {
		return rt.child(1).ExprEval(res)
	}

	return rt.child(2).ExprEval(res)
}

// Access runtime
// ==============

/*
Runtime for member and index access
*/
type accessRuntime struct {
	*exprItemRuntime
}

/*
accessRuntimeInst returns a new runtime component instance.
*/
func accessRuntimeInst(rtp *elRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &accessRuntime{&exprItemRuntime{rtp, node}}
}

/*
ExprEval evaluates this expression component. Member access on null yields
null while access on a non-null scalar is an error. A missing member or an
out of range index yields null.
*/
func (rt *accessRuntime) ExprEval(res Resolver) (interface{}, error) {

	base, err := rt.child(0).ExprEval(res)
	if err != nil {
		return nil, err
	}

	if base == nil {
		return nil, nil
	}

	member, err := rt.child(1).ExprEval(res)
	if err != nil {
		return nil, err
	}

	switch b := base.(type) {

	case map[string]interface{}:
		return NormalizeValue(b[fmt.Sprint(member)]), nil

	case Object:
		v, ok := b.Attr(fmt.Sprint(member))
		if !ok {
			return nil, nil
		}
		return NormalizeValue(v), nil

	case []interface{}:
		idx, cerr := rt.memberIndex(member)
		if cerr != nil {
			return nil, cerr
		}

		if idx < 0 || idx >= int64(len(b)) {
			return nil, nil
		}

		return NormalizeValue(b[idx]), nil

	case string:
		idx, cerr := rt.memberIndex(member)
		if cerr != nil {
			return nil, cerr
		}

		runes := []rune(b)

		if idx < 0 || idx >= int64(len(runes)) {
			return nil, nil
		}

		return string(runes[idx]), nil
	}

	return nil, rt.rtp.newRuntimeError(ErrInvalidAccess,
		fmt.Sprintf("Cannot access member %v of %v",
			toDisplayString(member), toDisplayString(base)), rt.astNode)
}

/*
memberIndex converts a member value into an index number.
*/
func (rt *accessRuntime) memberIndex(member interface{}) (int64, error) {

	num, err := toNumber(member)
	if err != nil {
		return 0, rt.rtp.newRuntimeError(ErrTypeCoercion, err.Error(),
			rt.astNode.Children[1])
	}

	if i, ok := num.(int64); ok {
		return i, nil
	}

	return int64(num.(float64)), nil
}

// Function call runtime
// =====================

/*
Runtime for function calls
*/
type funcCallRuntime struct {
	*exprItemRuntime
}

/*
funcCallRuntimeInst returns a new runtime component instance.
*/
func funcCallRuntimeInst(rtp *elRuntimeProvider, node *parser.ASTNode) parser.Runtime {
	return &funcCallRuntime{&exprItemRuntime{rtp, node}}
}

/*
ExprEval evaluates this expression component. Arguments are evaluated left
to right before the function is invoked. Unlike variables an unknown
function name is always an error.
*/
func (rt *funcCallRuntime) ExprEval(res Resolver) (interface{}, error) {

	fullName := rt.astNode.Token.Val

	prefix := ""
	name := fullName

	if i := strings.IndexByte(fullName, ':'); i >= 0 {
		prefix = fullName[:i]
		name = fullName[i+1:]
	}

	f, ok, err := res.ResolveFunction(prefix, name)

	if err != nil {
		return nil, rt.rtp.newRuntimeError(ErrResolver, err.Error(), rt.astNode)
	}

	if !ok {
		return nil, rt.rtp.newRuntimeError(ErrUnknownFunction, fullName, rt.astNode)
	}

	args := make([]interface{}, len(rt.astNode.Children))

	for i := range rt.astNode.Children {
		if args[i], err = rt.child(i).ExprEval(res); err != nil {
			return nil, err
		}
	}

	ret, ferr := f(args)
	if ferr != nil {
		return nil, rt.rtp.newRuntimeError(ErrFunctionInvocation,
			fmt.Sprintf("%v - %v", fullName, ferr), rt.astNode)
	}

	return NormalizeValue(ret), nil
}
