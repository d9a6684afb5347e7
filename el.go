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
Package el contains an embeddable expression language. An expression is
parsed once into an immutable syntax tree which can then be evaluated many
times against different variable resolvers.

Example expression:

	user.age >= 18 && fn:startsWith(user.name, "A")

Example usage:

	exp, err := el.ParseExpression("myexp", "price * (1 + taxRate)")
	if err == nil {
		res, err := exp.Eval(stdlib.NewResolver(vars))
		...
	}
*/
package el

import (
	"github.com/krotik/common/datautil"

	"github.com/pwall567/el-sub002/interpreter"
	"github.com/pwall567/el-sub002/parser"
)

/*
ExpressionCacheMaxSize is the maximum size of the expression cache. A
size of 0 means unlimited.
*/
var ExpressionCacheMaxSize uint64

/*
ExpressionCacheMaxAge is the maximum age of a cache entry in seconds. An
age of 0 means unlimited.
*/
var ExpressionCacheMaxAge int64

/*
expressionCache caches parsed expressions. Expressions are immutable
after parsing so cached entries can be shared between callers. The cache
is created on first use so the max size and age can be set beforehand.
*/
var expressionCache *datautil.MapCache

/*
Expression is a parsed expression which is ready for evaluation. It is
immutable and safe for concurrent use.
*/
type Expression struct {
	ast *parser.ASTNode
}

/*
ParseExpression parses an expression and returns it ready for evaluation.
The name is used in error messages to identify the input source.
*/
func ParseExpression(name string, input string) (*Expression, error) {

	if expressionCache == nil {
		expressionCache = datautil.NewMapCache(ExpressionCacheMaxSize,
			ExpressionCacheMaxAge)
	}

	cacheKey := name + "\x00" + input

	if entry, ok := expressionCache.Get(cacheKey); ok {
		return entry.(*Expression), nil
	}

	ast, err := parser.ParseWithRuntime(name, input, interpreter.NewRuntimeProvider(name))
	if err != nil {
		return nil, err
	}

	if err := ast.Runtime.Validate(); err != nil {
		return nil, err
	}

	exp := &Expression{ast}

	expressionCache.Put(cacheKey, exp)

	return exp, nil
}

/*
Eval evaluates the expression against the given resolver. A nil resolver
resolves no variables and no functions.
*/
func (e *Expression) Eval(res interpreter.Resolver) (interface{}, error) {
	if res == nil {
		res = interpreter.NullResolver()
	}

	return e.ast.Runtime.(interpreter.ExprRuntime).ExprEval(res)
}

/*
AST returns the root node of the parsed expression.
*/
func (e *Expression) AST() *parser.ASTNode {
	return e.ast
}

/*
String returns a normalized text representation of the expression.
*/
func (e *Expression) String() string {
	ret, err := parser.PrettyPrint(e.ast)
	if err != nil {
		return e.ast.Token.Val
	}
	return ret
}

/*
EvalExpression parses and evaluates an expression in one call.
*/
func EvalExpression(name string, input string, res interpreter.Resolver) (interface{}, error) {

	exp, err := ParseExpression(name, input)
	if err != nil {
		return nil, err
	}

	return exp.Eval(res)
}
