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

import "fmt"

/*
Map of AST nodes corresponding to lexer tokens. The map determines how a given
sequence of lexer tokens are organized into an AST.
*/
var astNodeMap map[LexTokenID]*ASTNode

func init() {
	astNodeMap = map[LexTokenID]*ASTNode{
		TokenEOF: {NodeEOF, nil, nil, nil, 0, nil, nil},

		// Value tokens

		TokenSTRING:     {NodeSTRING, nil, nil, nil, 0, ndTerm, nil},
		TokenINT:        {NodeNUMBER, nil, nil, nil, 0, ndTerm, nil},
		TokenFLOAT:      {NodeNUMBER, nil, nil, nil, 0, ndTerm, nil},
		TokenIDENTIFIER: {NodeIDENTIFIER, nil, nil, nil, 0, ndIdentifier, nil},
		TokenTRUE:       {NodeTRUE, nil, nil, nil, 0, ndTerm, nil},
		TokenFALSE:      {NodeFALSE, nil, nil, nil, 0, ndTerm, nil},
		TokenNULL:       {NodeNULL, nil, nil, nil, 0, ndTerm, nil},

		// Composite constructs

		TokenQUESTION: {NodeTERNARY, nil, nil, nil, bindingTernary, nil, ldTernary},
		TokenLPAREN:   {NodeFUNCCALL, nil, nil, nil, bindingPostfix, ndInner, ldCall},
		TokenLBRACK:   {NodeACCESS, nil, nil, nil, bindingPostfix, nil, ldAccessIndex},
		TokenDOT:      {NodeACCESS, nil, nil, nil, bindingPostfix, nil, ldAccessDot},

		// Boolean operations

		TokenOR:  {NodeOR, nil, nil, nil, bindingOr, nil, ldInfix},
		TokenAND: {NodeAND, nil, nil, nil, bindingAnd, nil, ldInfix},
		TokenNOT: {NodeNOT, nil, nil, nil, 0, ndPrefix, nil},

		TokenEQ:  {NodeEQ, nil, nil, nil, bindingEquality, nil, ldInfixNonAssoc},
		TokenNEQ: {NodeNEQ, nil, nil, nil, bindingEquality, nil, ldInfixNonAssoc},
		TokenGEQ: {NodeGEQ, nil, nil, nil, bindingRelational, nil, ldInfix},
		TokenLEQ: {NodeLEQ, nil, nil, nil, bindingRelational, nil, ldInfix},
		TokenGT:  {NodeGT, nil, nil, nil, bindingRelational, nil, ldInfix},
		TokenLT:  {NodeLT, nil, nil, nil, bindingRelational, nil, ldInfix},

		// Arithmetic expressions

		TokenPLUS:  {NodePLUS, nil, nil, nil, bindingAdditive, nil, ldInfix},
		TokenMINUS: {NodeMINUS, nil, nil, nil, bindingAdditive, ndPrefix, ldInfix},
		TokenTIMES: {NodeTIMES, nil, nil, nil, bindingMultiplicative, nil, ldInfix},
		TokenDIV:   {NodeDIV, nil, nil, nil, bindingMultiplicative, nil, ldInfix},
		TokenMOD:   {NodeMOD, nil, nil, nil, bindingMultiplicative, nil, ldInfix},

		// Separators - these terminate an expression and are consumed by
		// the denotation function of an opening construct

		TokenRPAREN: {NodeRPAREN, nil, nil, nil, 0, nil, nil},
		TokenRBRACK: {NodeRBRACK, nil, nil, nil, 0, nil, nil},
		TokenCOMMA:  {NodeCOMMA, nil, nil, nil, 0, nil, nil},
		TokenCOLON:  {NodeCOLON, nil, nil, nil, 0, nil, nil},
	}
}

// Parser
// ======

/*
Parser data structure
*/
type parser struct {
	name   string          // Name to identify the input
	node   *ASTNode        // Current ast node
	tokens *LABuffer       // Buffer which is connected to the channel which contains lex tokens
	rp     RuntimeProvider // Runtime provider which creates runtime components
}

/*
Parse parses a given input string and returns an AST.
*/
func Parse(name string, input string) (*ASTNode, error) {
	return ParseWithRuntime(name, input, nil)
}

/*
ParseWithRuntime parses a given input string and returns an AST decorated with
runtime components.
*/
func ParseWithRuntime(name string, input string, rp RuntimeProvider) (*ASTNode, error) {

	p := &parser{name, nil, NewLABuffer(Lex(name, input), 3), rp}

	node, err := p.next()
	if err != nil {
		return nil, err
	}

	p.node = node

	ret, err := p.run(0)
	if err != nil {
		return nil, err
	}

	// The whole input must be consumed - anything left over is an error

	if p.node != nil && p.node.Token.ID != TokenEOF {
		token := *p.node.Token
		return nil, p.newParserError(ErrUnexpectedToken, token.Val, token)
	}

	return ret, nil
}

/*
run is the main parser function.
*/
func (p *parser) run(rightBinding int) (*ASTNode, error) {
	var err error

	n := p.node

	p.node, err = p.next()
	if err != nil {
		return nil, err
	}

	// Start of the expression - the current token must start a term

	if n.nullDenotation == nil {
		return nil, p.newParserError(ErrImpossibleNullDenotation,
			n.Token.String(), *n.Token)
	}

	left, err := n.nullDenotation(p, n)
	if err != nil {
		return nil, err
	}

	// Collect left denotations as long as the left binding power is greater
	// than the initial right one

	for rightBinding < p.node.binding {

		n = p.node

		if n.leftDenotation == nil {
			return nil, p.newParserError(ErrImpossibleLeftDenotation,
				n.Token.String(), *n.Token)
		}

		p.node, err = p.next()
		if err != nil {
			return nil, err
		}

		left, err = n.leftDenotation(p, n, left)
		if err != nil {
			return nil, err
		}
	}

	return left, nil
}

/*
next retrieves the next lexer token and creates a new AST node for it.
*/
func (p *parser) next() (*ASTNode, error) {

	token, more := p.tokens.Next()

	if !more {

		// Unexpected end of input - the position is not reported since
		// the input as a whole is incomplete

		return nil, p.newParserError(ErrUnexpectedEnd, token.Val, token)

	} else if token.ID == TokenError {
		return nil, p.newParserError(ErrLexicalError, token.Val, token)
	}

	node, ok := astNodeMap[token.ID]
	if !ok {
		return nil, p.newParserError(ErrUnknownToken,
			fmt.Sprintf("id:%v (%v)", token.ID, token), token)
	}

	return node.instance(p, &token), nil
}

/*
skipToken skips over a given token.
*/
func (p *parser) skipToken(ids ...LexTokenID) error {
	var err error

	canSkip := func(id LexTokenID) bool {
		for _, i := range ids {
			if i == id {
				return true
			}
		}
		return false
	}

	if !canSkip(p.node.Token.ID) {

		if p.node.Token.ID == TokenEOF {
			return p.newParserError(ErrUnexpectedEnd, "", *p.node.Token)
		}

		return p.newParserError(ErrUnexpectedToken, p.node.Token.Val, *p.node.Token)
	}

	p.node, err = p.next()

	return err
}

// Null denotation functions
// =========================

/*
ndTerm is used for terminals.
*/
func ndTerm(p *parser, self *ASTNode) (*ASTNode, error) {
	return self, nil
}

/*
ndIdentifier is used for identifiers. A namespaced function name is assembled
here from identifier ':' identifier directly followed by a call bracket - in
any other context the colon belongs to a surrounding ternary operator.
*/
func ndIdentifier(p *parser, self *ASTNode) (*ASTNode, error) {

	if p.node.Token.ID == TokenCOLON {

		if n, ok := p.tokens.Peek(0); ok && n.ID == TokenIDENTIFIER {

			if b, ok := p.tokens.Peek(1); ok && b.ID == TokenLPAREN {
				var err error

				name, _ := p.tokens.Next()
				self.Token.Val += ":" + name.Val

				// Overwrite the colon node with the call bracket

				if p.node, err = p.next(); err != nil {
					return nil, err
				}
			}
		}
	}

	return self, nil
}

/*
ndPrefix is used for prefix operators.
*/
func ndPrefix(p *parser, self *ASTNode) (*ASTNode, error) {

	right, err := p.run(bindingUnary)
	if err != nil {
		return nil, err
	}

	self.Children = append(self.Children, right)

	return self, nil
}

/*
ndInner is used for parenthesized inner expressions.
*/
func ndInner(p *parser, self *ASTNode) (*ASTNode, error) {

	ret, err := p.run(0)
	if err != nil {
		return nil, err
	}

	return ret, p.skipToken(TokenRPAREN)
}

// Left denotation functions
// =========================

/*
ldInfix is used for binary operators.
*/
func ldInfix(p *parser, self *ASTNode, left *ASTNode) (*ASTNode, error) {

	right, err := p.run(self.binding)
	if err != nil {
		return nil, err
	}

	self.Children = append(self.Children, left, right)

	return self, nil
}

/*
ldInfixNonAssoc is used for binary operators which must not be chained
with operators of the same binding power.
*/
func ldInfixNonAssoc(p *parser, self *ASTNode, left *ASTNode) (*ASTNode, error) {

	right, err := p.run(self.binding)
	if err != nil {
		return nil, err
	}

	self.Children = append(self.Children, left, right)

	if p.node.binding == self.binding {
		return nil, p.newParserError(ErrUnexpectedToken,
			p.node.Token.Val, *p.node.Token)
	}

	return self, nil
}

/*
ldTernary is used for the ternary conditional operator.
*/
func ldTernary(p *parser, self *ASTNode, left *ASTNode) (*ASTNode, error) {

	self.Children = append(self.Children, left)

	thenExpr, err := p.run(0)
	if err != nil {
		return nil, err
	}

	self.Children = append(self.Children, thenExpr)

	if err := p.skipToken(TokenCOLON); err != nil {
		return nil, err
	}

	// Right associative - a following ternary is swallowed by the else branch

	elseExpr, err := p.run(bindingTernary - 1)
	if err != nil {
		return nil, err
	}

	self.Children = append(self.Children, elseExpr)

	return self, nil
}

/*
ldCall is used for function calls. Calls can only be applied to a plain
function name, not to arbitrary expressions.
*/
func ldCall(p *parser, self *ASTNode, left *ASTNode) (*ASTNode, error) {

	if left.Name != NodeIDENTIFIER {
		return nil, p.newParserError(ErrUnexpectedToken,
			"Function call needs a function name", *self.Token)
	}

	// The call node carries the function name token

	self.Token = left.Token

	if p.node.Token.ID != TokenRPAREN {

		for {
			arg, err := p.run(0)
			if err != nil {
				return nil, err
			}

			self.Children = append(self.Children, arg)

			if p.node.Token.ID != TokenCOMMA {
				break
			}

			if err := p.skipToken(TokenCOMMA); err != nil {
				return nil, err
			}
		}
	}

	return self, p.skipToken(TokenRPAREN)
}

/*
ldAccessDot is used for member access with the dot operator. The member
name is stored as a string literal child - a.b is equivalent to a["b"].
*/
func ldAccessDot(p *parser, self *ASTNode, left *ASTNode) (*ASTNode, error) {

	if p.node.Token.ID == TokenEOF {
		return nil, p.newParserError(ErrUnexpectedEnd, "", *p.node.Token)
	}

	if p.node.Token.ID != TokenIDENTIFIER {
		return nil, p.newParserError(ErrUnexpectedToken,
			p.node.Token.Val, *p.node.Token)
	}

	memberToken := *p.node.Token
	memberToken.ID = TokenSTRING

	member := astNodeMap[TokenSTRING].instance(p, &memberToken)

	var err error
	if p.node, err = p.next(); err != nil {
		return nil, err
	}

	self.Children = append(self.Children, left, member)

	return self, nil
}

/*
ldAccessIndex is used for member access with the index operator.
*/
func ldAccessIndex(p *parser, self *ASTNode, left *ASTNode) (*ASTNode, error) {

	member, err := p.run(0)
	if err != nil {
		return nil, err
	}

	self.Children = append(self.Children, left, member)

	return self, p.skipToken(TokenRBRACK)
}
