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
	"fmt"
	"strconv"
	"strings"
)

/*
NormalizeValue folds all Go number types of a given host value into int64 or
float64. Booleans, strings and nil pass through unchanged - any other value
is treated as an opaque host object.
*/
func NormalizeValue(v interface{}) interface{} {

	switch n := v.(type) {

	case int:
		return int64(n)
	case int8:
		return int64(n)
	case int16:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint:
		return int64(n)
	case uint8:
		return int64(n)
	case uint16:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return int64(n)
	case float32:
		return float64(n)
	}

	return v
}

/*
toNumber converts a given normalized value into a number (int64 or float64).
Null converts to the integer zero. Strings are parsed - an integer shape
takes precedence over a float shape.
*/
func toNumber(v interface{}) (interface{}, error) {

	switch n := v.(type) {

	case nil:
		return int64(0), nil

	case int64:
		return n, nil

	case float64:
		return n, nil

	case string:
		s := strings.TrimSpace(n)

		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}

		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f, nil
		}
	}

	return nil, fmt.Errorf("Not a number: %v", toDisplayString(v))
}

/*
toFloat converts a given normalized value into a float64.
*/
func toFloat(v interface{}) (float64, error) {

	num, err := toNumber(v)
	if err != nil {
		return 0, err
	}

	if i, ok := num.(int64); ok {
		return float64(i), nil
	}

	return num.(float64), nil
}

/*
toBool converts a given normalized value into a boolean. Null is false,
numbers are true when not zero and strings must spell a boolean literal.
*/
func toBool(v interface{}) (bool, error) {

	switch n := v.(type) {

	case nil:
		return false, nil

	case bool:
		return n, nil

	case int64:
		return n != 0, nil

	case float64:
		return n != 0, nil

	case string:
		if strings.EqualFold(n, "true") {
			return true, nil
		}
		if strings.EqualFold(n, "false") {
			return false, nil
		}
	}

	return false, fmt.Errorf("Not a boolean: %v", toDisplayString(v))
}

/*
equalVals compares two normalized values. Null equals only null. If either
side is a boolean the other side is coerced to a boolean, then a numeric
comparison is attempted and finally the rendered values are compared.
*/
func equalVals(a interface{}, b interface{}) (bool, error) {

	if a == nil || b == nil {
		return a == nil && b == nil, nil
	}

	if ab, ok := a.(bool); ok {
		bb, err := toBool(b)
		if err != nil {
			return false, err
		}
		return ab == bb, nil
	}

	if bb, ok := b.(bool); ok {
		ab, err := toBool(a)
		if err != nil {
			return false, err
		}
		return ab == bb, nil
	}

	na, erra := toNumber(a)
	nb, errb := toNumber(b)

	if erra == nil && errb == nil {
		return numEqual(na, nb), nil
	}

	return fmt.Sprint(a) == fmt.Sprint(b), nil
}

/*
numEqual compares two numbers produced by toNumber.
*/
func numEqual(a interface{}, b interface{}) bool {

	ia, aInt := a.(int64)
	ib, bInt := b.(int64)

	if aInt && bInt {
		return ia == ib
	}

	fa, _ := toFloat(a)
	fb, _ := toFloat(b)

	return fa == fb
}

/*
compareVals compares two normalized values for ordering. Both sides must
coerce to a common comparable type - numbers are tried first, then string
lexicographic comparison.
*/
func compareVals(a interface{}, b interface{}) (int, error) {

	na, erra := toNumber(a)
	nb, errb := toNumber(b)

	if erra == nil && errb == nil {

		ia, aInt := na.(int64)
		ib, bInt := nb.(int64)

		if aInt && bInt {
			switch {
			case ia < ib:
				return -1, nil
			case ia > ib:
				return 1, nil
			}
			return 0, nil
		}

		fa, _ := toFloat(na)
		fb, _ := toFloat(nb)

		switch {
		case fa < fb:
			return -1, nil
		case fa > fb:
			return 1, nil
		}
		return 0, nil
	}

	sa, aString := a.(string)
	sb, bString := b.(string)

	if aString && bString {
		return strings.Compare(sa, sb), nil
	}

	return 0, fmt.Errorf("Not comparable: %v and %v",
		toDisplayString(a), toDisplayString(b))
}

/*
toConcatString renders a given normalized value for string concatenation.
Null renders as the empty string.
*/
func toConcatString(v interface{}) string {

	if v == nil {
		return ""
	}

	return fmt.Sprint(v)
}

/*
toDisplayString renders a given value for error messages.
*/
func toDisplayString(v interface{}) string {

	if v == nil {
		return "null"
	}

	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}

	return fmt.Sprint(v)
}
