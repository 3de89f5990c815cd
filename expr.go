/*
Copyright © 2024 the gridtools authors.
This file is part of gridtools.

gridtools is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

gridtools is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with gridtools.  If not, see <http://www.gnu.org/licenses/>.
*/

package gridtools

import (
	"fmt"
	"math"

	"github.com/Knetic/govaluate"
)

// exprFunctions are available in coordinate expressions.
var exprFunctions = map[string]govaluate.ExpressionFunction{
	"sqrt": unaryFunc("sqrt", math.Sqrt),
	"sin":  unaryFunc("sin", math.Sin),
	"cos":  unaryFunc("cos", math.Cos),
	"abs":  unaryFunc("abs", math.Abs),
	"rad":  unaryFunc("rad", func(d float64) float64 { return d * math.Pi / 180 }),
}

func unaryFunc(name string, f func(float64) float64) govaluate.ExpressionFunction {
	return func(arg ...interface{}) (interface{}, error) {
		if len(arg) != 1 {
			return nil, fmt.Errorf("gridtools: got %d arguments for function '%s', but needs 1", len(arg), name)
		}
		v, ok := arg[0].(float64)
		if !ok {
			return nil, fmt.Errorf("gridtools: function '%s' needs a number, got %T", name, arg[0])
		}
		return f(v), nil
	}
}

// ExpressionTransform returns a CoordFunc computing new coordinates from
// the expressions xExpr and yExpr in the variables x and y, for example
// "x*cos(rad(30)) - y*sin(rad(30))". An empty expression leaves that
// coordinate unchanged.
func ExpressionTransform(xExpr, yExpr string) (CoordFunc, error) {
	ex, err := parseCoordExpr("x", xExpr)
	if err != nil {
		return nil, err
	}
	ey, err := parseCoordExpr("y", yExpr)
	if err != nil {
		return nil, err
	}
	return func(x, y float64) (float64, float64, error) {
		params := map[string]interface{}{"x": x, "y": y}
		xo, err := evalCoord(ex, params, x)
		if err != nil {
			return 0, 0, err
		}
		yo, err := evalCoord(ey, params, y)
		if err != nil {
			return 0, 0, err
		}
		return xo, yo, nil
	}, nil
}

func parseCoordExpr(arg, expr string) (*govaluate.EvaluableExpression, error) {
	if expr == "" {
		return nil, nil
	}
	e, err := govaluate.NewEvaluableExpressionWithFunctions(expr, exprFunctions)
	if err != nil {
		return nil, valueErrorf(arg+" expression", "%v", err)
	}
	for _, v := range e.Vars() {
		if v != "x" && v != "y" {
			return nil, valueErrorf(arg+" expression", "unknown variable %q", v)
		}
	}
	return e, nil
}

func evalCoord(e *govaluate.EvaluableExpression, params map[string]interface{}, orig float64) (float64, error) {
	if e == nil {
		return orig, nil
	}
	r, err := e.Evaluate(params)
	if err != nil {
		return 0, fmt.Errorf("gridtools: evaluating %s: %w", e.String(), err)
	}
	v, ok := r.(float64)
	if !ok {
		return 0, fmt.Errorf("gridtools: expression %s gave %T, not a number", e.String(), r)
	}
	return v, nil
}
