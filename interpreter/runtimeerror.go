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
	"errors"
	"fmt"

	"github.com/pwall567/el-sub002/parser"
)

/*
newRuntimeError creates a new RuntimeError object.
*/
func (rtp *elRuntimeProvider) newRuntimeError(t error, d string, node *parser.ASTNode) error {
	return &RuntimeError{rtp.name, t, d, node, node.Token.Lline, node.Token.Lpos}
}

/*
RuntimeError is a runtime related error.
*/
type RuntimeError struct {
	Source string          // Name of the source which was given to the parser
	Type   error           // Error type (to be used for equal checks)
	Detail string          // Details of this error
	Node   *parser.ASTNode // AST Node where the error occurred
	Line   int             // Line of the error
	Pos    int             // Position of the error
}

/*
Error returns a human-readable string representation of this error.
*/
func (re *RuntimeError) Error() string {
	ret := fmt.Sprintf("EL error in %s: %v (%v)", re.Source, re.Type, re.Detail)

	if re.Line != 0 {
		return fmt.Sprintf("%s (Line:%d Pos:%d)", ret, re.Line, re.Pos)
	}

	return ret
}

/*
Runtime related error types
*/
var (
	ErrTypeCoercion       = errors.New("Cannot coerce value of operand")
	ErrInvalidAccess      = errors.New("Invalid member access")
	ErrUnknownFunction    = errors.New("Unknown function")
	ErrFunctionInvocation = errors.New("Function call failed")
	ErrInvalidConstruct   = errors.New("Invalid construct")
	ErrResolver           = errors.New("Resolver reported an error")
)
