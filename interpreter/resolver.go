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

/*
Function is a callable which can be invoked from an expression. Arguments
are passed fully evaluated and in declaration order.
*/
type Function func(args []interface{}) (interface{}, error)

/*
Resolver maps variable and function names to runtime values and callables.
A Resolver is supplied per evaluation call - the interpreter holds no
reference to it beyond the duration of one evaluation.

ResolveVariable returns the value of a given variable. The boolean return
indicates if the variable is known - an unknown variable evaluates to null
and is not an error. An error return aborts the evaluation.

ResolveFunction returns the callable for a given function name with an
optional namespace prefix (empty string if the call site has no prefix).
Unlike variables an unknown function always aborts the evaluation.
*/
type Resolver interface {
	ResolveVariable(name string) (interface{}, bool, error)

	ResolveFunction(prefix string, name string) (Function, bool, error)
}

/*
Object is implemented by host objects which expose named attributes to
member access expressions.
*/
type Object interface {

	/*
	   Attr returns the value of a given attribute and if the attribute exists.
	*/
	Attr(name string) (interface{}, bool)
}

/*
MapResolver is a simple Resolver implementation backed by maps. Functions
are keyed by "name" or "prefix:name".
*/
type MapResolver struct {
	Vars  map[string]interface{}
	Funcs map[string]Function
}

/*
NewMapResolver creates a new MapResolver instance. Both maps may be nil.
*/
func NewMapResolver(vars map[string]interface{}, funcs map[string]Function) *MapResolver {
	return &MapResolver{vars, funcs}
}

/*
ResolveVariable returns the value of a given variable.
*/
func (mr *MapResolver) ResolveVariable(name string) (interface{}, bool, error) {
	v, ok := mr.Vars[name]
	return v, ok, nil
}

/*
ResolveFunction returns the callable for a given function name.
*/
func (mr *MapResolver) ResolveFunction(prefix string, name string) (Function, bool, error) {
	if prefix != "" {
		name = prefix + ":" + name
	}

	f, ok := mr.Funcs[name]
	return f, ok, nil
}

/*
nullResolver is used when an expression is evaluated without a caller
supplied resolver. It resolves no variables and no functions.
*/
type nullResolver struct{}

func (nullResolver) ResolveVariable(name string) (interface{}, bool, error) {
	return nil, false, nil
}

func (nullResolver) ResolveFunction(prefix string, name string) (Function, bool, error) {
	return nil, false, nil
}

/*
NullResolver returns a resolver which resolves no variables and no
functions.
*/
func NullResolver() Resolver {
	return nullResolver{}
}
