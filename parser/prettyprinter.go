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
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"text/template"

	"github.com/krotik/common/errorutil"
)

/*
Map of pretty printer templates for AST nodes

There is special treatment for NodeNUMBER, NodeSTRING, NodeIDENTIFIER,
NodeACCESS, NodeFUNCCALL and NodeTERNARY.
*/
var prettyPrinterMap = map[string]*template.Template{
	NodeTRUE:  template.Must(template.New(NodeTRUE).Parse("true")),
	NodeFALSE: template.Must(template.New(NodeFALSE).Parse("false")),
	NodeNULL:  template.Must(template.New(NodeNULL).Parse("null")),

	// Boolean operations

	NodeNOT + "_1": template.Must(template.New(NodeNOT).Parse("!{{.c1}}")),
	NodeAND + "_2": template.Must(template.New(NodeAND).Parse("{{.c1}} && {{.c2}}")),
	NodeOR + "_2":  template.Must(template.New(NodeOR).Parse("{{.c1}} || {{.c2}}")),

	NodeGEQ + "_2": template.Must(template.New(NodeGEQ).Parse("{{.c1}} >= {{.c2}}")),
	NodeLEQ + "_2": template.Must(template.New(NodeLEQ).Parse("{{.c1}} <= {{.c2}}")),
	NodeNEQ + "_2": template.Must(template.New(NodeNEQ).Parse("{{.c1}} != {{.c2}}")),
	NodeEQ + "_2":  template.Must(template.New(NodeEQ).Parse("{{.c1}} == {{.c2}}")),
	NodeGT + "_2":  template.Must(template.New(NodeGT).Parse("{{.c1}} > {{.c2}}")),
	NodeLT + "_2":  template.Must(template.New(NodeLT).Parse("{{.c1}} < {{.c2}}")),

	// Arithmetic expressions

	NodePLUS + "_2":  template.Must(template.New(NodePLUS).Parse("{{.c1}} + {{.c2}}")),
	NodeMINUS + "_1": template.Must(template.New(NodeMINUS).Parse("-{{.c1}}")),
	NodeMINUS + "_2": template.Must(template.New(NodeMINUS).Parse("{{.c1}} - {{.c2}}")),
	NodeTIMES + "_2": template.Must(template.New(NodeTIMES).Parse("{{.c1}} * {{.c2}}")),
	NodeDIV + "_2":   template.Must(template.New(NodeDIV).Parse("{{.c1}} / {{.c2}}")),
	NodeMOD + "_2":   template.Must(template.New(NodeMOD).Parse("{{.c1}} % {{.c2}}")),
}

/*
Map of nodes where the precedence might have changed because of parentheses
*/
var bracketPrecedenceMap = map[string]bool{
	NodePLUS:    true,
	NodeMINUS:   true,
	NodeTIMES:   true,
	NodeDIV:     true,
	NodeMOD:     true,
	NodeAND:     true,
	NodeOR:      true,
	NodeGEQ:     true,
	NodeLEQ:     true,
	NodeNEQ:     true,
	NodeEQ:      true,
	NodeGT:      true,
	NodeLT:      true,
	NodeTERNARY: true,
}

/*
PrettyPrint produces a pretty printed expression from a given AST.
*/
func PrettyPrint(ast *ASTNode) (string, error) {
	var visit func(ast *ASTNode) (string, error)

	// Determine the effective binding power of a node - a minus or not
	// with a single child is a prefix operator

	effBinding := func(ast *ASTNode) int {
		if len(ast.Children) == 1 && (ast.Name == NodeMINUS || ast.Name == NodeNOT) {
			return bindingUnary
		}
		return ast.binding
	}

	visit = func(ast *ASTNode) (string, error) {
		var buf bytes.Buffer

		// Handle value nodes which don't have children

		if ast.Name == NodeNUMBER || ast.Name == NodeIDENTIFIER {
			return ast.Token.Val, nil

		} else if ast.Name == NodeSTRING {
			return strconv.Quote(ast.Token.Val), nil
		}

		// Handle special composite cases

		if ast.Name == NodeACCESS {

			base, err := visit(ast.Children[0])
			if err != nil {
				return "", err
			}

			if _, ok := bracketPrecedenceMap[ast.Children[0].Name]; ok {
				base = fmt.Sprintf("(%v)", base)
			}

			member := ast.Children[1]

			if member.Name == NodeSTRING {
				if isIdent, _ := regexp.MatchString(
					"^[a-zA-Z_][a-zA-Z0-9_]*$", member.Token.Val); isIdent {
					return fmt.Sprintf("%v.%v", base, member.Token.Val), nil
				}
			}

			index, err := visit(member)
			if err != nil {
				return "", err
			}

			return fmt.Sprintf("%v[%v]", base, index), nil

		} else if ast.Name == NodeFUNCCALL {

			buf.WriteString(ast.Token.Val)
			buf.WriteString("(")

			for i, child := range ast.Children {
				arg, err := visit(child)
				if err != nil {
					return "", err
				}

				buf.WriteString(arg)
				if i < len(ast.Children)-1 {
					buf.WriteString(", ")
				}
			}

			buf.WriteString(")")

			return buf.String(), nil

		} else if ast.Name == NodeTERNARY {

			cond, err := visit(ast.Children[0])
			if err != nil {
				return "", err
			}

			if ast.Children[0].Name == NodeTERNARY {
				cond = fmt.Sprintf("(%v)", cond)
			}

			thenExpr, err := visit(ast.Children[1])
			if err != nil {
				return "", err
			}

			elseExpr, err := visit(ast.Children[2])
			if err != nil {
				return "", err
			}

			return fmt.Sprintf("%v ? %v : %v", cond, thenExpr, elseExpr), nil
		}

		// Pretty print the children and restore parentheses where the
		// precedence was overridden

		var children map[string]string
		tempKey := ast.Name

		if len(ast.Children) > 0 {
			children = make(map[string]string)

			for i, child := range ast.Children {
				res, err := visit(child)
				if err != nil {
					return "", err
				}

				if _, ok := bracketPrecedenceMap[child.Name]; ok &&
					effBinding(ast) > effBinding(child) {
					res = fmt.Sprintf("(%v)", res)
				}

				children[fmt.Sprint("c", i+1)] = res
			}

			tempKey += fmt.Sprint("_", len(children))
		}

		// Retrieve the template

		temp, ok := prettyPrinterMap[tempKey]
		if !ok {
			return "", fmt.Errorf("Could not find template for %v (tempkey: %v)",
				ast.Name, tempKey)
		}

		// Use the children as parameters for the template

		errorutil.AssertOk(temp.Execute(&buf, children))

		return buf.String(), nil
	}

	return visit(ast)
}
