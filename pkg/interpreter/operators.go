package interpreter

import (
	"math"
	"math/big"

	"giulio/interpreter-go/pkg/ast"
	"giulio/interpreter-go/pkg/runtime"
	"giulio/interpreter-go/pkg/token"
)

func (i *Interpreter) evaluatePrefix(expr *ast.PrefixExpression, env *runtime.Environment) (runtime.Value, error) {
	right, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case token.BANG:
		b, ok := right.(*runtime.BooleanValue)
		if !ok {
			return nil, runtime.NewError(runtime.TypeMismatch, "operator ! expects Boolean, got %s", right.Kind())
		}
		return runtime.Boolean(!b.Value), nil
	case token.MINUS:
		switch right := right.(type) {
		case *runtime.IntegerValue:
			if right.Value == math.MinInt64 {
				return &runtime.BigIntegerValue{Value: new(big.Int).Neg(big.NewInt(right.Value))}, nil
			}
			return &runtime.IntegerValue{Value: -right.Value}, nil
		case *runtime.BigIntegerValue:
			return runtime.NormalizeBig(new(big.Int).Neg(right.Value)), nil
		default:
			return nil, runtime.NewError(runtime.TypeMismatch, "operator - expects Integer, got %s", right.Kind())
		}
	case token.PLUS:
		switch right.(type) {
		case *runtime.IntegerValue, *runtime.BigIntegerValue:
			return right, nil
		default:
			return nil, runtime.NewError(runtime.TypeMismatch, "operator + expects Integer, got %s", right.Kind())
		}
	default:
		return nil, runtime.NewError(runtime.InvalidOperation, "unknown prefix operator %s", expr.Operator)
	}
}

// evaluateInfix evaluates both operands eagerly; && and || do not
// short-circuit.
func (i *Interpreter) evaluateInfix(expr *ast.InfixExpression, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator {
	case token.AND, token.OR:
		lb, lok := left.(*runtime.BooleanValue)
		rb, rok := right.(*runtime.BooleanValue)
		if !lok || !rok {
			return nil, runtime.NewError(runtime.TypeMismatch, "operator %s expects Boolean operands, got %s and %s", expr.Operator, left.Kind(), right.Kind())
		}
		if expr.Operator == token.AND {
			return runtime.Boolean(lb.Value && rb.Value), nil
		}
		return runtime.Boolean(lb.Value || rb.Value), nil

	case token.EQ:
		return runtime.Boolean(valuesEqual(left, right)), nil
	case token.NOT_EQ:
		return runtime.Boolean(!valuesEqual(left, right)), nil

	case token.LT, token.GT, token.LT_EQ, token.GT_EQ:
		return compareValues(expr.Operator, left, right)

	case token.PLUS:
		if ls, ok := left.(*runtime.StringValue); ok {
			if rs, ok := right.(*runtime.StringValue); ok {
				return &runtime.StringValue{Value: ls.Value + rs.Value}, nil
			}
		}
		return integerArithmetic(expr.Operator, left, right)
	case token.MINUS, token.ASTERISK, token.SLASH, token.PERCENT:
		return integerArithmetic(expr.Operator, left, right)

	default:
		return nil, runtime.NewError(runtime.InvalidOperation, "unknown operator %s", expr.Operator)
	}
}

// integerArithmetic widens both operands to big integers, applies the
// operator, and narrows the result back when it fits.
func integerArithmetic(op token.Type, left, right runtime.Value) (runtime.Value, error) {
	l, lok := runtime.AsBig(left)
	r, rok := runtime.AsBig(right)
	if !lok || !rok {
		return nil, runtime.NewError(runtime.TypeMismatch, "operator %s expects Integer operands, got %s and %s", op, left.Kind(), right.Kind())
	}
	result := new(big.Int)
	switch op {
	case token.PLUS:
		result.Add(l, r)
	case token.MINUS:
		result.Sub(l, r)
	case token.ASTERISK:
		result.Mul(l, r)
	case token.SLASH:
		if r.Sign() == 0 {
			return nil, runtime.NewError(runtime.DivisionByZero, "division by zero")
		}
		result.Quo(l, r)
	case token.PERCENT:
		if r.Sign() == 0 {
			return nil, runtime.NewError(runtime.ModuloByZero, "modulo by zero")
		}
		result.Rem(l, r)
	}
	return runtime.NormalizeBig(result), nil
}

func compareValues(op token.Type, left, right runtime.Value) (runtime.Value, error) {
	if ls, ok := left.(*runtime.StringValue); ok {
		if rs, ok := right.(*runtime.StringValue); ok {
			return runtime.Boolean(orderingHolds(op, compareStrings(ls.Value, rs.Value))), nil
		}
	}
	l, lok := runtime.AsBig(left)
	r, rok := runtime.AsBig(right)
	if !lok || !rok {
		return nil, runtime.NewError(runtime.TypeMismatch, "operator %s cannot compare %s and %s", op, left.Kind(), right.Kind())
	}
	return runtime.Boolean(orderingHolds(op, l.Cmp(r))), nil
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func orderingHolds(op token.Type, cmp int) bool {
	switch op {
	case token.LT:
		return cmp < 0
	case token.GT:
		return cmp > 0
	case token.LT_EQ:
		return cmp <= 0
	default:
		return cmp >= 0
	}
}

// valuesEqual implements structural equality. Arrays and hash maps
// compare element-wise; instances compare by storage identity.
func valuesEqual(left, right runtime.Value) bool {
	if l, lok := runtime.AsBig(left); lok {
		if r, rok := runtime.AsBig(right); rok {
			return l.Cmp(r) == 0
		}
		return false
	}
	switch left := left.(type) {
	case *runtime.NullValue:
		_, ok := right.(*runtime.NullValue)
		return ok
	case *runtime.BooleanValue:
		r, ok := right.(*runtime.BooleanValue)
		return ok && left.Value == r.Value
	case *runtime.StringValue:
		r, ok := right.(*runtime.StringValue)
		return ok && left.Value == r.Value
	case *runtime.ArrayValue:
		r, ok := right.(*runtime.ArrayValue)
		if !ok || len(left.Elements) != len(r.Elements) {
			return false
		}
		for i := range left.Elements {
			if !valuesEqual(left.Elements[i], r.Elements[i]) {
				return false
			}
		}
		return true
	case *runtime.HashMapValue:
		r, ok := right.(*runtime.HashMapValue)
		if !ok || len(left.Pairs) != len(r.Pairs) {
			return false
		}
		for key, entry := range left.Pairs {
			other, ok := r.Pairs[key]
			if !ok || !valuesEqual(entry.Value, other.Value) {
				return false
			}
		}
		return true
	case *runtime.InstanceValue:
		r, ok := right.(*runtime.InstanceValue)
		return ok && left == r
	case *runtime.FunctionValue:
		r, ok := right.(*runtime.FunctionValue)
		return ok && left == r
	case *runtime.BuiltinValue:
		r, ok := right.(*runtime.BuiltinValue)
		return ok && left == r
	default:
		return left == right
	}
}
