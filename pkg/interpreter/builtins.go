package interpreter

import (
	"math/big"
	"strings"

	"giulio/interpreter-go/pkg/runtime"
)

// registerBuiltins installs the free builtin functions in the global
// scope.
func (i *Interpreter) registerBuiltins() {
	register := func(name string, min, max int, impl runtime.BuiltinImpl) {
		i.global.Define(name, &runtime.BuiltinValue{Name: name, MinArity: min, MaxArity: max, Impl: impl})
	}

	register("print", 0, -1, func(args []runtime.Value) (runtime.Value, error) {
		i.write(args, false)
		return runtime.Null, nil
	})
	register("println", 0, -1, func(args []runtime.Value) (runtime.Value, error) {
		i.write(args, true)
		return runtime.Null, nil
	})
	register("input", 0, 1, func(args []runtime.Value) (runtime.Value, error) {
		if len(args) == 1 {
			prompt, ok := args[0].(*runtime.StringValue)
			if !ok {
				return nil, runtime.NewError(runtime.TypeMismatch, "input: prompt must be String, got %s", args[0].Kind())
			}
			i.stdout.Write([]byte(prompt.Value))
		}
		line, err := i.stdin.ReadString('\n')
		if err != nil && line == "" {
			return &runtime.StringValue{}, nil
		}
		return &runtime.StringValue{Value: strings.TrimRight(line, "\r\n")}, nil
	})
	register("type", 1, 1, func(args []runtime.Value) (runtime.Value, error) {
		return &runtime.StringValue{Value: args[0].Kind().String()}, nil
	})
	register("len", 1, 1, func(args []runtime.Value) (runtime.Value, error) {
		return valueLength(args[0])
	})
	register("is_empty", 1, 1, func(args []runtime.Value) (runtime.Value, error) {
		length, err := valueLength(args[0])
		if err != nil {
			return nil, err
		}
		return runtime.Boolean(length.(*runtime.IntegerValue).Value == 0), nil
	})
	register("head", 1, 1, func(args []runtime.Value) (runtime.Value, error) {
		arr, err := wantArray("head", args[0])
		if err != nil {
			return nil, err
		}
		if len(arr.Elements) == 0 {
			return runtime.Null, nil
		}
		return arr.Elements[0], nil
	})
	register("tail", 1, 1, func(args []runtime.Value) (runtime.Value, error) {
		arr, err := wantArray("tail", args[0])
		if err != nil {
			return nil, err
		}
		if len(arr.Elements) == 0 {
			return &runtime.ArrayValue{}, nil
		}
		rest := make([]runtime.Value, len(arr.Elements)-1)
		copy(rest, arr.Elements[1:])
		return &runtime.ArrayValue{Elements: rest}, nil
	})
	register("cons", 2, 2, func(args []runtime.Value) (runtime.Value, error) {
		arr, err := wantArray("cons", args[1])
		if err != nil {
			return nil, err
		}
		elements := make([]runtime.Value, 0, len(arr.Elements)+1)
		elements = append(elements, args[0])
		elements = append(elements, arr.Elements...)
		return &runtime.ArrayValue{Elements: elements}, nil
	})
	register("push", 2, 2, func(args []runtime.Value) (runtime.Value, error) {
		arr, err := wantArray("push", args[0])
		if err != nil {
			return nil, err
		}
		arr.Elements = append(arr.Elements, args[1])
		return arr, nil
	})
	register("pow", 2, 2, builtinPow)
	register("abs", 1, 1, builtinAbs)
	register("min", 2, 2, func(args []runtime.Value) (runtime.Value, error) {
		return pickExtreme("min", args[0], args[1], -1)
	})
	register("max", 2, 2, func(args []runtime.Value) (runtime.Value, error) {
		return pickExtreme("max", args[0], args[1], 1)
	})
	register("split", 2, 2, func(args []runtime.Value) (runtime.Value, error) {
		str, err := wantString("split", args[0])
		if err != nil {
			return nil, err
		}
		sep, err := wantString("split", args[1])
		if err != nil {
			return nil, err
		}
		return splitString(str.Value, sep.Value), nil
	})
	register("replace", 3, 3, func(args []runtime.Value) (runtime.Value, error) {
		str, err := wantString("replace", args[0])
		if err != nil {
			return nil, err
		}
		old, err := wantString("replace", args[1])
		if err != nil {
			return nil, err
		}
		repl, err := wantString("replace", args[2])
		if err != nil {
			return nil, err
		}
		return &runtime.StringValue{Value: strings.ReplaceAll(str.Value, old.Value, repl.Value)}, nil
	})
	register("trim", 1, 1, func(args []runtime.Value) (runtime.Value, error) {
		str, err := wantString("trim", args[0])
		if err != nil {
			return nil, err
		}
		return &runtime.StringValue{Value: strings.TrimSpace(str.Value)}, nil
	})
	register("contains", 2, 2, func(args []runtime.Value) (runtime.Value, error) {
		switch target := args[0].(type) {
		case *runtime.StringValue:
			sub, err := wantString("contains", args[1])
			if err != nil {
				return nil, err
			}
			return runtime.Boolean(strings.Contains(target.Value, sub.Value)), nil
		case *runtime.ArrayValue:
			for _, elem := range target.Elements {
				if valuesEqual(elem, args[1]) {
					return runtime.True, nil
				}
			}
			return runtime.False, nil
		default:
			return nil, runtime.NewError(runtime.TypeMismatch, "contains expects String or Array, got %s", args[0].Kind())
		}
	})
	register("slice", 2, 3, builtinSlice)
	register("keys", 1, 1, func(args []runtime.Value) (runtime.Value, error) {
		hash, err := wantHash("keys", args[0])
		if err != nil {
			return nil, err
		}
		return hashKeys(hash), nil
	})
	register("values", 1, 1, func(args []runtime.Value) (runtime.Value, error) {
		hash, err := wantHash("values", args[0])
		if err != nil {
			return nil, err
		}
		return hashValues(hash), nil
	})
	register("clear", 1, 1, func(args []runtime.Value) (runtime.Value, error) {
		hash, err := wantHash("clear", args[0])
		if err != nil {
			return nil, err
		}
		hash.Clear()
		return runtime.Null, nil
	})
}

// write renders arguments back to back with no separator.
func (i *Interpreter) write(args []runtime.Value, newline bool) {
	var sb strings.Builder
	for _, arg := range args {
		sb.WriteString(Inspect(arg))
	}
	if newline {
		sb.WriteByte('\n')
	}
	i.stdout.Write([]byte(sb.String()))
}

func valueLength(v runtime.Value) (runtime.Value, error) {
	switch v := v.(type) {
	case *runtime.StringValue:
		return &runtime.IntegerValue{Value: int64(len([]rune(v.Value)))}, nil
	case *runtime.ArrayValue:
		return &runtime.IntegerValue{Value: int64(len(v.Elements))}, nil
	case *runtime.HashMapValue:
		return &runtime.IntegerValue{Value: int64(len(v.Pairs))}, nil
	default:
		return nil, runtime.NewError(runtime.TypeMismatch, "len expects String, Array, or HashMap, got %s", v.Kind())
	}
}

func builtinPow(args []runtime.Value) (runtime.Value, error) {
	base, bok := runtime.AsBig(args[0])
	exp, eok := runtime.AsBig(args[1])
	if !bok || !eok {
		return nil, runtime.NewError(runtime.TypeMismatch, "pow expects Integer arguments")
	}
	if exp.Sign() < 0 {
		return nil, runtime.NewError(runtime.InvalidOperation, "pow: negative exponent")
	}
	return runtime.NormalizeBig(new(big.Int).Exp(base, exp, nil)), nil
}

func builtinAbs(args []runtime.Value) (runtime.Value, error) {
	n, ok := runtime.AsBig(args[0])
	if !ok {
		return nil, runtime.NewError(runtime.TypeMismatch, "abs expects Integer, got %s", args[0].Kind())
	}
	return runtime.NormalizeBig(new(big.Int).Abs(n)), nil
}

func pickExtreme(name string, a, b runtime.Value, wantSign int) (runtime.Value, error) {
	l, lok := runtime.AsBig(a)
	r, rok := runtime.AsBig(b)
	if !lok || !rok {
		return nil, runtime.NewError(runtime.TypeMismatch, "%s expects Integer arguments", name)
	}
	if l.Cmp(r) == wantSign {
		return a, nil
	}
	return b, nil
}

// builtinSlice clamps bounds to the valid range instead of erroring.
func builtinSlice(args []runtime.Value) (runtime.Value, error) {
	start, ok := args[1].(*runtime.IntegerValue)
	if !ok {
		return nil, runtime.NewError(runtime.TypeMismatch, "slice: start must be Integer, got %s", args[1].Kind())
	}
	var endGiven bool
	var end int64
	if len(args) == 3 {
		e, ok := args[2].(*runtime.IntegerValue)
		if !ok {
			return nil, runtime.NewError(runtime.TypeMismatch, "slice: end must be Integer, got %s", args[2].Kind())
		}
		endGiven, end = true, e.Value
	}
	clamp := func(length int64) (int64, int64) {
		lo, hi := start.Value, length
		if endGiven {
			hi = end
		}
		if lo < 0 {
			lo = 0
		}
		if hi < 0 {
			hi = 0
		}
		if hi > length {
			hi = length
		}
		if lo > hi {
			lo = hi
		}
		return lo, hi
	}
	switch target := args[0].(type) {
	case *runtime.StringValue:
		runes := []rune(target.Value)
		lo, hi := clamp(int64(len(runes)))
		return &runtime.StringValue{Value: string(runes[lo:hi])}, nil
	case *runtime.ArrayValue:
		lo, hi := clamp(int64(len(target.Elements)))
		out := make([]runtime.Value, hi-lo)
		copy(out, target.Elements[lo:hi])
		return &runtime.ArrayValue{Elements: out}, nil
	default:
		return nil, runtime.NewError(runtime.TypeMismatch, "slice expects String or Array, got %s", args[0].Kind())
	}
}

func parseBig(s string) (runtime.Value, bool) {
	wide, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, false
	}
	return runtime.NormalizeBig(wide), true
}

func splitString(s, sep string) *runtime.ArrayValue {
	var parts []string
	if sep == "" {
		for _, ch := range s {
			parts = append(parts, string(ch))
		}
	} else {
		parts = strings.Split(s, sep)
	}
	elements := make([]runtime.Value, 0, len(parts))
	for _, part := range parts {
		elements = append(elements, &runtime.StringValue{Value: part})
	}
	return &runtime.ArrayValue{Elements: elements}
}

func hashKeys(hash *runtime.HashMapValue) *runtime.ArrayValue {
	elements := make([]runtime.Value, 0, len(hash.Order))
	for _, key := range hash.Order {
		elements = append(elements, hash.Pairs[key].Key)
	}
	return &runtime.ArrayValue{Elements: elements}
}

func hashValues(hash *runtime.HashMapValue) *runtime.ArrayValue {
	elements := make([]runtime.Value, 0, len(hash.Order))
	for _, key := range hash.Order {
		elements = append(elements, hash.Pairs[key].Value)
	}
	return &runtime.ArrayValue{Elements: elements}
}

func wantArray(name string, v runtime.Value) (*runtime.ArrayValue, error) {
	arr, ok := v.(*runtime.ArrayValue)
	if !ok {
		return nil, runtime.NewError(runtime.TypeMismatch, "%s expects Array, got %s", name, v.Kind())
	}
	return arr, nil
}

func wantString(name string, v runtime.Value) (*runtime.StringValue, error) {
	str, ok := v.(*runtime.StringValue)
	if !ok {
		return nil, runtime.NewError(runtime.TypeMismatch, "%s expects String, got %s", name, v.Kind())
	}
	return str, nil
}

func wantHash(name string, v runtime.Value) (*runtime.HashMapValue, error) {
	hash, ok := v.(*runtime.HashMapValue)
	if !ok {
		return nil, runtime.NewError(runtime.TypeMismatch, "%s expects HashMap, got %s", name, v.Kind())
	}
	return hash, nil
}
