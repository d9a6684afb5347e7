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
Package stdlib contains the default function library for expressions.

The functions mirror the usual string and number helpers found in template
languages. They are registered under the "fn" prefix but can also be called
without a prefix.
*/
package stdlib

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pwall567/el-sub002/interpreter"
)

/*
funcMap contains the inbuilt functions
*/
var funcMap = map[string]interpreter.Function{
	"contains":           containsFunc,
	"containsIgnoreCase": containsIgnoreCaseFunc,
	"startsWith":         startsWithFunc,
	"endsWith":           endsWithFunc,
	"indexOf":            indexOfFunc,
	"length":             lengthFunc,
	"toUpperCase":        toUpperCaseFunc,
	"toLowerCase":        toLowerCaseFunc,
	"trim":               trimFunc,
	"substring":          substringFunc,
	"join":               joinFunc,
	"round":              roundFunc,
	"floor":              floorFunc,
	"ceil":               ceilFunc,
	"abs":                absFunc,
}

/*
Prefix is the namespace under which the inbuilt functions are registered.
*/
const Prefix = "fn"

/*
libResolver resolves variables from a map and functions from the
inbuilt function library.
*/
type libResolver struct {
	vars map[string]interface{}
}

/*
NewResolver returns a resolver which looks up variables in the given map
and provides the inbuilt function library.
*/
func NewResolver(vars map[string]interface{}) interpreter.Resolver {
	return &libResolver{vars}
}

/*
ResolveVariable looks up a top-level variable.
*/
func (lr *libResolver) ResolveVariable(name string) (interface{}, bool, error) {
	v, ok := lr.vars[name]
	return v, ok, nil
}

/*
ResolveFunction looks up a function by prefix and name.
*/
func (lr *libResolver) ResolveFunction(prefix string, name string) (interpreter.Function, bool, error) {

	if prefix != "" && prefix != Prefix {
		return nil, false, nil
	}

	f, ok := funcMap[name]

	return f, ok, nil
}

// Function implementations
// ========================

func argString(args []interface{}, i int) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("Missing argument %v", i+1)
	}
	if args[i] == nil {
		return "", nil
	}
	if s, ok := args[i].(string); ok {
		return s, nil
	}
	return fmt.Sprint(args[i]), nil
}

func argInt(args []interface{}, i int) (int64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("Missing argument %v", i+1)
	}
	switch v := args[i].(type) {
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("Not a number: %v", v)
		}
		return n, nil
	}
	return 0, fmt.Errorf("Not a number: %v", args[i])
}

func argFloat(args []interface{}, i int) (float64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("Missing argument %v", i+1)
	}
	switch v := args[i].(type) {
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("Not a number: %v", v)
		}
		return f, nil
	}
	return 0, fmt.Errorf("Not a number: %v", args[i])
}

func containsFunc(args []interface{}) (interface{}, error) {
	s1, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	s2, err := argString(args, 1)
	if err != nil {
		return nil, err
	}
	return strings.Contains(s1, s2), nil
}

func containsIgnoreCaseFunc(args []interface{}) (interface{}, error) {
	s1, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	s2, err := argString(args, 1)
	if err != nil {
		return nil, err
	}
	return strings.Contains(strings.ToLower(s1), strings.ToLower(s2)), nil
}

func startsWithFunc(args []interface{}) (interface{}, error) {
	s1, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	s2, err := argString(args, 1)
	if err != nil {
		return nil, err
	}
	return strings.HasPrefix(s1, s2), nil
}

func endsWithFunc(args []interface{}) (interface{}, error) {
	s1, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	s2, err := argString(args, 1)
	if err != nil {
		return nil, err
	}
	return strings.HasSuffix(s1, s2), nil
}

func indexOfFunc(args []interface{}) (interface{}, error) {
	s1, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	s2, err := argString(args, 1)
	if err != nil {
		return nil, err
	}
	return int64(strings.Index(s1, s2)), nil
}

func lengthFunc(args []interface{}) (interface{}, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("Missing argument 1")
	}
	switch v := args[0].(type) {
	case nil:
		return int64(0), nil
	case string:
		return int64(len([]rune(v))), nil
	case []interface{}:
		return int64(len(v)), nil
	case map[string]interface{}:
		return int64(len(v)), nil
	}
	return nil, fmt.Errorf("Cannot determine length of: %v", args[0])
}

func toUpperCaseFunc(args []interface{}) (interface{}, error) {
	s, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	return strings.ToUpper(s), nil
}

func toLowerCaseFunc(args []interface{}) (interface{}, error) {
	s, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	return strings.ToLower(s), nil
}

func trimFunc(args []interface{}) (interface{}, error) {
	s, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	return strings.TrimSpace(s), nil
}

func substringFunc(args []interface{}) (interface{}, error) {
	s, err := argString(args, 0)
	if err != nil {
		return nil, err
	}
	begin, err := argInt(args, 1)
	if err != nil {
		return nil, err
	}

	runes := []rune(s)
	end := int64(len(runes))

	if len(args) > 2 {
		if end, err = argInt(args, 2); err != nil {
			return nil, err
		}
	}

	if begin < 0 || end > int64(len(runes)) || begin > end {
		return nil, fmt.Errorf("Substring range [%v, %v) out of bounds", begin, end)
	}

	return string(runes[begin:end]), nil
}

func joinFunc(args []interface{}) (interface{}, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("Missing argument 1")
	}

	list, ok := args[0].([]interface{})
	if !ok {
		return nil, fmt.Errorf("Not a list: %v", args[0])
	}

	sep := ", "
	if len(args) > 1 {
		var err error
		if sep, err = argString(args, 1); err != nil {
			return nil, err
		}
	}

	items := make([]string, len(list))
	for i := range list {
		items[i], _ = argString(list, i)
	}

	return strings.Join(items, sep), nil
}

func roundFunc(args []interface{}) (interface{}, error) {
	f, err := argFloat(args, 0)
	if err != nil {
		return nil, err
	}
	return int64(math.Round(f)), nil
}

func floorFunc(args []interface{}) (interface{}, error) {
	f, err := argFloat(args, 0)
	if err != nil {
		return nil, err
	}
	return int64(math.Floor(f)), nil
}

func ceilFunc(args []interface{}) (interface{}, error) {
	f, err := argFloat(args, 0)
	if err != nil {
		return nil, err
	}
	return int64(math.Ceil(f)), nil
}

func absFunc(args []interface{}) (interface{}, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("Missing argument 1")
	}
	if i, ok := args[0].(int64); ok {
		if i < 0 {
			return -i, nil
		}
		return i, nil
	}
	f, err := argFloat(args, 0)
	if err != nil {
		return nil, err
	}
	return math.Abs(f), nil
}
