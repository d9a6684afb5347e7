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
Package parser contains the EL parser.

Lexer

Lex() is a lexer function to convert a given expression into a list of tokens.

Based on a talk by Rob Pike: Lexical Scanning in Go

https://www.youtube.com/watch?v=HxaD_trXwRE

Parser

Parse() is a parser which produces a parse tree from a given set of lexer tokens.

Based on an article by Douglas Crockford: Top Down Operator Precedence

http://crockford.com/javascript/tdop/tdop.html

which is based on the ideas of Vaughan Pratt and his paper: Top Down Operator Precedence

http://portal.acm.org/citation.cfm?id=512931
https://tdop.github.io/

ParseWithRuntime() parses a given input and decorates the resulting parse tree
with runtime components which can be used to evaluate the parsed expression.
*/
package parser

/*
LexTokenID represents a unique lexer token ID
*/
type LexTokenID int

/*
Available lexer token types
*/
const (
	TokenError LexTokenID = iota // Lexing error token with a message as val
	TokenEOF                     // End-of-input token

	TokenSTRING     // String literal
	TokenINT        // Integer literal
	TokenFLOAT      // Floating point literal
	TokenIDENTIFIER // Identifier

	TOKENodeSYMBOLS // Used to separate symbols from other tokens in this list

	TokenGEQ
	TokenLEQ
	TokenNEQ
	TokenEQ
	TokenGT
	TokenLT
	TokenAND
	TokenOR
	TokenNOT
	TokenLPAREN
	TokenRPAREN
	TokenLBRACK
	TokenRBRACK
	TokenCOMMA
	TokenDOT
	TokenCOLON
	TokenQUESTION
	TokenPLUS
	TokenMINUS
	TokenTIMES
	TokenDIV
	TokenMOD

	TOKENodeKEYWORDS // Used to separate keywords from other tokens in this list

	TokenTRUE
	TokenFALSE
	TokenNULL
)

/*
Available parser AST node types
*/
const (
	NodeEOF = "EOF"

	NodeNUMBER     = "number"
	NodeSTRING     = "string"
	NodeIDENTIFIER = "identifier"

	NodeTRUE  = "true"
	NodeFALSE = "false"
	NodeNULL  = "null"

	// Boolean operations

	NodeOR  = "or"
	NodeAND = "and"
	NodeNOT = "not"

	NodeGEQ = ">="
	NodeLEQ = "<="
	NodeNEQ = "!="
	NodeEQ  = "=="
	NodeGT  = ">"
	NodeLT  = "<"

	// Arithmetic expressions

	NodePLUS  = "plus"
	NodeMINUS = "minus"
	NodeTIMES = "times"
	NodeDIV   = "div"
	NodeMOD   = "mod"

	// Composite constructs

	NodeTERNARY  = "ternary"
	NodeACCESS   = "access"
	NodeFUNCCALL = "funccall"

	// Brackets and separators - only used during parsing

	NodeLPAREN = "("
	NodeRPAREN = ")"
	NodeLBRACK = "["
	NodeRBRACK = "]"
	NodeCOMMA  = "comma"
	NodeCOLON  = ":"
)

/*
Binding powers of operators - the lowest binding power is used for
terms which can never start or continue an expression on their own.
*/
const (
	bindingTernary        = 5
	bindingOr             = 10
	bindingAnd            = 15
	bindingEquality       = 20
	bindingRelational     = 25
	bindingAdditive       = 30
	bindingMultiplicative = 35
	bindingUnary          = 40
	bindingPostfix        = 45
)
