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
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

/*
LexToken represents a token which is returned by the lexer.
*/
type LexToken struct {
	ID    LexTokenID // Token kind
	Pos   int        // Starting position (in bytes)
	Val   string     // Token value
	Lline int        // Line in the input this token appears
	Lpos  int        // Position in the input line this token appears
}

/*
PosString returns the position of this token in the original input as a string.
*/
func (t LexToken) PosString() string {
	return fmt.Sprintf("Line %v, Pos %v", t.Lline, t.Lpos)
}

/*
String returns a string representation of a token.
*/
func (t LexToken) String() string {

	switch {

	case t.ID == TokenEOF:
		return "EOF"

	case t.ID == TokenError:
		return fmt.Sprintf("Error: %s (%s)", t.Val, t.PosString())

	case t.ID == TokenSTRING:
		return fmt.Sprintf("%q", t.Val)

	case t.ID > TOKENodeSYMBOLS && t.ID < TOKENodeKEYWORDS:
		return fmt.Sprintf("%s", t.Val)

	case t.ID > TOKENodeKEYWORDS:
		return fmt.Sprintf("<%s>", strings.ToLower(t.Val))

	case len(t.Val) > 10:

		// Special case for very long values

		return fmt.Sprintf("%.10q...", t.Val)
	}

	return fmt.Sprintf("%q", t.Val)
}

/*
Map of keywords which are reserved words and never emitted as identifiers.
Most of them are the keyword spellings of operator symbols.
*/
var keywordMap = map[string]LexTokenID{
	"and":   TokenAND,
	"or":    TokenOR,
	"not":   TokenNOT,
	"eq":    TokenEQ,
	"ne":    TokenNEQ,
	"lt":    TokenLT,
	"gt":    TokenGT,
	"le":    TokenLEQ,
	"ge":    TokenGEQ,
	"div":   TokenDIV,
	"mod":   TokenMOD,
	"true":  TokenTRUE,
	"false": TokenFALSE,
	"null":  TokenNULL,
}

/*
Special symbols which will always be unique - two character symbols
must be tried before their one character prefixes
*/
var symbolMap = map[string]LexTokenID{
	">=": TokenGEQ,
	"<=": TokenLEQ,
	"!=": TokenNEQ,
	"==": TokenEQ,
	"&&": TokenAND,
	"||": TokenOR,
	">":  TokenGT,
	"<":  TokenLT,
	"!":  TokenNOT,
	"(":  TokenLPAREN,
	")":  TokenRPAREN,
	"[":  TokenLBRACK,
	"]":  TokenRBRACK,
	",":  TokenCOMMA,
	".":  TokenDOT,
	":":  TokenCOLON,
	"?":  TokenQUESTION,
	"+":  TokenPLUS,
	"-":  TokenMINUS,
	"*":  TokenTIMES,
	"/":  TokenDIV,
	"%":  TokenMOD,
}

// Lexer
// =====

/*
RuneEOF is a special rune which represents the end of the input
*/
const RuneEOF = -1

/*
Function which represents the current state of the lexer and returns the next state
*/
type lexFunc func(*lexer) lexFunc

/*
Lexer data structure
*/
type lexer struct {
	name   string        // Name to identify the input
	input  string        // Input string of the lexer
	pos    int           // Current rune pointer
	line   int           // Current line pointer
	lastnl int           // Last newline position
	width  int           // Width of last rune
	start  int           // Start position of the current token
	tokens chan LexToken // Channel for lexer output
}

/*
Lex lexes a given input. Returns a channel which contains tokens.
*/
func Lex(name string, input string) chan LexToken {
	l := &lexer{name, input, 0, 0, 0, 0, 0, make(chan LexToken)}
	go l.run()
	return l.tokens
}

/*
LexToList lexes a given input. Returns a list of tokens.
*/
func LexToList(name string, input string) []LexToken {
	var tokens []LexToken

	for t := range Lex(name, input) {
		tokens = append(tokens, t)
	}

	return tokens
}

/*
Main loop of the lexer.
*/
func (l *lexer) run() {

	if skipWhiteSpace(l) {
		for state := lexToken; state != nil; {
			state = state(l)

			if state != nil && !skipWhiteSpace(l) {
				break
			}
		}
	}

	close(l.tokens)
}

/*
next returns the next rune in the input and advances the current rune pointer
if the peek flag is not set. If the peek flag is set then the rune pointer
is not advanced.
*/
func (l *lexer) next(peek bool) rune {

	// Check if we reached the end

	if int(l.pos) >= len(l.input) {
		return RuneEOF
	}

	// Decode the next rune

	r, w := utf8.DecodeRuneInString(l.input[l.pos:])

	if !peek {
		l.width = w
		l.pos += l.width
	}

	return r
}

/*
backup sets the pointer one rune back. Can only be called once per next call.
*/
func (l *lexer) backup() {
	if l.width == -1 {
		panic("Can only backup once per next call")
	}

	l.pos -= l.width
	l.width = -1
}

/*
startNew starts a new token.
*/
func (l *lexer) startNew() {
	l.start = l.pos
}

/*
emitToken passes a token back to the client.
*/
func (l *lexer) emitToken(t LexTokenID) {
	if t == TokenEOF {
		l.emitTokenAndValue(t, "")
		return
	}

	if l.tokens != nil {
		l.tokens <- LexToken{t, l.start, l.input[l.start:l.pos],
			l.line + 1, l.start - l.lastnl + 1}
	}
}

/*
emitTokenAndValue passes a token with a given value back to the client.
*/
func (l *lexer) emitTokenAndValue(t LexTokenID, val string) {
	if l.tokens != nil {
		l.tokens <- LexToken{t, l.start, val, l.line + 1, l.start - l.lastnl + 1}
	}
}

/*
emitError passes an error token back to the client.
*/
func (l *lexer) emitError(msg string) {
	if l.tokens != nil {
		l.tokens <- LexToken{TokenError, l.start, msg, l.line + 1, l.start - l.lastnl + 1}
	}
}

// State functions
// ===============

/*
lexToken is the main entry function for the lexer.
*/
func lexToken(l *lexer) lexFunc {
	l.startNew()

	r := l.next(true)

	if r == '"' || r == '\'' {
		return lexString
	}

	if unicode.IsDigit(r) {
		return lexNumber
	}

	if unicode.IsLetter(r) || r == '_' {
		return lexIdentifier
	}

	return lexSymbol
}

/*
lexSymbol lexes an operator or separator symbol. Two character symbols
are tried before one character symbols.
*/
func lexSymbol(l *lexer) lexFunc {
	r := l.next(false)
	nr := l.next(true)

	if token, ok := symbolMap[string(r)+string(nr)]; ok {
		l.next(false)
		l.emitToken(token)
		return lexToken
	}

	if token, ok := symbolMap[string(r)]; ok {
		l.emitToken(token)
		return lexToken
	}

	l.emitError(fmt.Sprintf("Cannot parse character '%v'", string(r)))
	return nil
}

/*
lexIdentifier lexes an identifier or a keyword. Keywords are reserved
words - they are never emitted as plain identifiers.
*/
func lexIdentifier(l *lexer) lexFunc {
	r := l.next(false)

	for unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
		r = l.next(false)
	}

	if r != RuneEOF {
		l.backup()
	}

	if token, ok := keywordMap[l.input[l.start:l.pos]]; ok {
		l.emitToken(token)
	} else {
		l.emitToken(TokenIDENTIFIER)
	}

	return lexToken
}

/*
lexNumber lexes an integer or floating point number.

Valid shapes are 123, 123.456, 123.456e[+-]789 - any other character
directly following the number is an error.
*/
func lexNumber(l *lexer) lexFunc {
	isFloat := false

	r := l.next(false)
	for unicode.IsDigit(r) {
		r = l.next(false)
	}

	// Check for a fraction part

	if r == '.' && unicode.IsDigit(l.next(true)) {
		isFloat = true

		r = l.next(false)
		for unicode.IsDigit(r) {
			r = l.next(false)
		}
	}

	// Check for an exponent part

	if r == 'e' || r == 'E' {
		isFloat = true

		r = l.next(false)
		if r == '+' || r == '-' {
			r = l.next(false)
		}

		if !unicode.IsDigit(r) {
			l.emitError(fmt.Sprintf("Invalid number %v", l.input[l.start:l.pos]))
			return nil
		}

		for unicode.IsDigit(r) {
			r = l.next(false)
		}
	}

	if r != RuneEOF {
		l.backup()
	}

	// A number must not run into an identifier

	if n := l.next(true); unicode.IsLetter(n) || n == '_' {
		l.emitError(fmt.Sprintf("Invalid number %v%v", l.input[l.start:l.pos], string(n)))
		return nil
	}

	if isFloat {
		l.emitToken(TokenFLOAT)
	} else {
		l.emitToken(TokenINT)
	}

	return lexToken
}

/*
lexString lexes a string literal which is quoted with single or double
quotes. Escape sequences are interpreted right away.
*/
func lexString(l *lexer) lexFunc {
	quote := l.next(false)

	r := l.next(false)
	rprev := ' '
	lLine := l.line
	lLastnl := l.lastnl

	for r != quote || rprev == '\\' {

		if r == '\n' {
			lLine++
			lLastnl = l.pos
		}

		if r == RuneEOF {
			l.emitError("Unexpected end while reading string value (unclosed quotes)")
			return nil
		}

		if rprev == '\\' && r == '\\' {

			// Escaped backslashes do not escape what follows them

			rprev = ' '
		} else {
			rprev = r
		}

		r = l.next(false)
	}

	val := l.input[l.start+1 : l.pos-1]

	// Interpret escape sequences right away

	if quote == '\'' {

		// Escape double quotes in a single quoted string

		val = strings.Replace(val, "\\'", "'", -1)
		val = strings.Replace(val, "\"", "\\\"", -1)
	}

	s, err := strconv.Unquote("\"" + val + "\"")
	if err != nil {
		l.emitError(err.Error() + " while parsing escape sequences")
		return nil
	}

	l.emitTokenAndValue(TokenSTRING, s)

	// Set newline

	l.line = lLine
	l.lastnl = lLastnl

	return lexToken
}

// Helper functions
// ================

/*
skipWhiteSpace skips any number of whitespace characters. Returns false if
the lexer reaches EOF while skipping whitespaces.
*/
func skipWhiteSpace(l *lexer) bool {
	r := l.next(false)

	for unicode.IsSpace(r) {
		if r == '\n' {
			l.line++
			l.lastnl = l.pos
		}
		r = l.next(false)
	}

	if r == RuneEOF {
		l.startNew()
		l.emitToken(TokenEOF)
		return false
	}

	l.backup()
	return true
}
