package interpreter

import (
	"strconv"
	"strings"

	"giulio/interpreter-go/pkg/runtime"
)

// callValueMethod dispatches methods carried by primitive values:
// strings, arrays, hash maps, and integers.
func (i *Interpreter) callValueMethod(receiver runtime.Value, name string, args []runtime.Value) (runtime.Value, error) {
	switch receiver := receiver.(type) {
	case *runtime.StringValue:
		return i.callStringMethod(receiver, name, args)
	case *runtime.ArrayValue:
		return i.callArrayMethod(receiver, name, args)
	case *runtime.HashMapValue:
		return i.callHashMethod(receiver, name, args)
	case *runtime.IntegerValue, *runtime.BigIntegerValue:
		return i.callIntegerMethod(receiver, name, args)
	default:
		return nil, runtime.NewError(runtime.UndefinedMember, "%s has no method '%s'", receiver.Kind(), name)
	}
}

func methodArity(name string, args []runtime.Value, want int) error {
	if len(args) != want {
		return runtime.NewError(runtime.WrongArgumentCount, "%s expects %d arguments, got %d", name, want, len(args))
	}
	return nil
}

func (i *Interpreter) callStringMethod(s *runtime.StringValue, name string, args []runtime.Value) (runtime.Value, error) {
	switch name {
	case "len":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}
		return &runtime.IntegerValue{Value: int64(len([]rune(s.Value)))}, nil
	case "is_empty":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}
		return runtime.Boolean(s.Value == ""), nil
	case "starts_with":
		if err := methodArity(name, args, 1); err != nil {
			return nil, err
		}
		prefix, err := wantString(name, args[0])
		if err != nil {
			return nil, err
		}
		return runtime.Boolean(strings.HasPrefix(s.Value, prefix.Value)), nil
	case "ends_with":
		if err := methodArity(name, args, 1); err != nil {
			return nil, err
		}
		suffix, err := wantString(name, args[0])
		if err != nil {
			return nil, err
		}
		return runtime.Boolean(strings.HasSuffix(s.Value, suffix.Value)), nil
	case "contains":
		if err := methodArity(name, args, 1); err != nil {
			return nil, err
		}
		sub, err := wantString(name, args[0])
		if err != nil {
			return nil, err
		}
		return runtime.Boolean(strings.Contains(s.Value, sub.Value)), nil
	case "replace":
		if err := methodArity(name, args, 2); err != nil {
			return nil, err
		}
		old, err := wantString(name, args[0])
		if err != nil {
			return nil, err
		}
		repl, err := wantString(name, args[1])
		if err != nil {
			return nil, err
		}
		return &runtime.StringValue{Value: strings.ReplaceAll(s.Value, old.Value, repl.Value)}, nil
	case "split":
		if err := methodArity(name, args, 1); err != nil {
			return nil, err
		}
		sep, err := wantString(name, args[0])
		if err != nil {
			return nil, err
		}
		return splitString(s.Value, sep.Value), nil
	case "trim":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}
		return &runtime.StringValue{Value: strings.TrimSpace(s.Value)}, nil
	case "to_upper":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}
		return &runtime.StringValue{Value: strings.ToUpper(s.Value)}, nil
	case "to_lower":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}
		return &runtime.StringValue{Value: strings.ToLower(s.Value)}, nil
	case "to_int":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}
		trimmed := strings.TrimSpace(s.Value)
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return &runtime.IntegerValue{Value: n}, nil
		}
		if wide, ok := parseBig(trimmed); ok {
			return wide, nil
		}
		return nil, runtime.NewError(runtime.TypeMismatch, "to_int: %q is not an integer", s.Value)
	default:
		return nil, runtime.NewError(runtime.UndefinedMember, "String has no method '%s'", name)
	}
}

func (i *Interpreter) callArrayMethod(arr *runtime.ArrayValue, name string, args []runtime.Value) (runtime.Value, error) {
	switch name {
	case "len":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}
		return &runtime.IntegerValue{Value: int64(len(arr.Elements))}, nil
	case "is_empty":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}
		return runtime.Boolean(len(arr.Elements) == 0), nil
	case "head":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}
		if len(arr.Elements) == 0 {
			return runtime.Null, nil
		}
		return arr.Elements[0], nil
	case "tail":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}
		if len(arr.Elements) == 0 {
			return &runtime.ArrayValue{}, nil
		}
		rest := make([]runtime.Value, len(arr.Elements)-1)
		copy(rest, arr.Elements[1:])
		return &runtime.ArrayValue{Elements: rest}, nil
	case "push":
		if err := methodArity(name, args, 1); err != nil {
			return nil, err
		}
		arr.Elements = append(arr.Elements, args[0])
		return arr, nil
	case "pop":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}
		if len(arr.Elements) == 0 {
			return runtime.Null, nil
		}
		last := arr.Elements[len(arr.Elements)-1]
		arr.Elements = arr.Elements[:len(arr.Elements)-1]
		return last, nil
	case "contains":
		if err := methodArity(name, args, 1); err != nil {
			return nil, err
		}
		for _, elem := range arr.Elements {
			if valuesEqual(elem, args[0]) {
				return runtime.True, nil
			}
		}
		return runtime.False, nil
	case "join":
		if err := methodArity(name, args, 1); err != nil {
			return nil, err
		}
		sep, err := wantString(name, args[0])
		if err != nil {
			return nil, err
		}
		parts := make([]string, 0, len(arr.Elements))
		for _, elem := range arr.Elements {
			parts = append(parts, Inspect(elem))
		}
		return &runtime.StringValue{Value: strings.Join(parts, sep.Value)}, nil
	case "reverse":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}
		out := make([]runtime.Value, len(arr.Elements))
		for idx, elem := range arr.Elements {
			out[len(out)-1-idx] = elem
		}
		return &runtime.ArrayValue{Elements: out}, nil
	default:
		return nil, runtime.NewError(runtime.UndefinedMember, "Array has no method '%s'", name)
	}
}

func (i *Interpreter) callHashMethod(hash *runtime.HashMapValue, name string, args []runtime.Value) (runtime.Value, error) {
	keyFor := func(v runtime.Value) (runtime.HashKey, error) {
		key, ok := runtime.KeyFor(v)
		if !ok {
			return runtime.HashKey{}, runtime.NewError(runtime.NotHashable, "%s is not hashable", v.Kind())
		}
		return key, nil
	}
	switch name {
	case "len":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}
		return &runtime.IntegerValue{Value: int64(len(hash.Pairs))}, nil
	case "is_empty":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}
		return runtime.Boolean(len(hash.Pairs) == 0), nil
	case "get":
		if err := methodArity(name, args, 1); err != nil {
			return nil, err
		}
		key, err := keyFor(args[0])
		if err != nil {
			return nil, err
		}
		if entry, ok := hash.Pairs[key]; ok {
			return entry.Value, nil
		}
		return runtime.Null, nil
	case "set":
		if err := methodArity(name, args, 2); err != nil {
			return nil, err
		}
		key, err := keyFor(args[0])
		if err != nil {
			return nil, err
		}
		hash.Set(key, runtime.HashEntry{Key: args[0], Value: args[1]})
		return runtime.Null, nil
	case "remove":
		if err := methodArity(name, args, 1); err != nil {
			return nil, err
		}
		key, err := keyFor(args[0])
		if err != nil {
			return nil, err
		}
		var removed runtime.Value = runtime.Null
		if entry, ok := hash.Pairs[key]; ok {
			removed = entry.Value
		}
		hash.Delete(key)
		return removed, nil
	case "has":
		if err := methodArity(name, args, 1); err != nil {
			return nil, err
		}
		key, err := keyFor(args[0])
		if err != nil {
			return nil, err
		}
		_, ok := hash.Pairs[key]
		return runtime.Boolean(ok), nil
	case "keys":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}
		return hashKeys(hash), nil
	case "values":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}
		return hashValues(hash), nil
	case "clear":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}
		hash.Clear()
		return runtime.Null, nil
	default:
		// A function stored under a string key is callable through the
		// dot too, matching the dot read.
		if key, ok := runtime.KeyFor(&runtime.StringValue{Value: name}); ok {
			if entry, found := hash.Pairs[key]; found {
				return i.apply(entry.Value, args)
			}
		}
		return nil, runtime.NewError(runtime.UndefinedMember, "HashMap has no method '%s'", name)
	}
}

func (i *Interpreter) callIntegerMethod(n runtime.Value, name string, args []runtime.Value) (runtime.Value, error) {
	switch name {
	case "to_string":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}
		return &runtime.StringValue{Value: Inspect(n)}, nil
	case "pow":
		if err := methodArity(name, args, 1); err != nil {
			return nil, err
		}
		return builtinPow([]runtime.Value{n, args[0]})
	case "abs":
		if err := methodArity(name, args, 0); err != nil {
			return nil, err
		}
		return builtinAbs([]runtime.Value{n})
	case "min":
		if err := methodArity(name, args, 1); err != nil {
			return nil, err
		}
		return pickExtreme(name, n, args[0], -1)
	case "max":
		if err := methodArity(name, args, 1); err != nil {
			return nil, err
		}
		return pickExtreme(name, n, args[0], 1)
	default:
		return nil, runtime.NewError(runtime.UndefinedMember, "Integer has no method '%s'", name)
	}
}
