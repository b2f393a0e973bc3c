package interpreter

import (
	"bytes"
	"encoding/json"
	"math/big"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"giulio/interpreter-go/pkg/runtime"
)

// loadStdModule builds one of the host-implemented std.* modules.
func (i *Interpreter) loadStdModule(name string) (*runtime.ModuleValue, error) {
	var exports map[string]runtime.Value
	switch name {
	case "std.string":
		exports = stdStringExports()
	case "std.math":
		exports = stdMathExports()
	case "std.time":
		exports = stdTimeExports()
	case "std.io":
		exports = stdIOExports()
	case "std.json":
		exports = stdJSONExports()
	case "std.env":
		exports = i.stdEnvExports()
	default:
		return nil, runtime.NewError(runtime.ModuleNotFound, "module %s not found", name)
	}
	return &runtime.ModuleValue{Name: name, Exports: exports}, nil
}

func builtin(name string, min, max int, impl runtime.BuiltinImpl) *runtime.BuiltinValue {
	return &runtime.BuiltinValue{Name: name, MinArity: min, MaxArity: max, Impl: impl}
}

func stdStringExports() map[string]runtime.Value {
	return map[string]runtime.Value{
		"join": builtin("join", 2, 2, func(args []runtime.Value) (runtime.Value, error) {
			arr, err := wantArray("join", args[0])
			if err != nil {
				return nil, err
			}
			sep, err := wantString("join", args[1])
			if err != nil {
				return nil, err
			}
			parts := make([]string, 0, len(arr.Elements))
			for _, elem := range arr.Elements {
				parts = append(parts, Inspect(elem))
			}
			return &runtime.StringValue{Value: strings.Join(parts, sep.Value)}, nil
		}),
		"reverse": builtin("reverse", 1, 1, func(args []runtime.Value) (runtime.Value, error) {
			str, err := wantString("reverse", args[0])
			if err != nil {
				return nil, err
			}
			runes := []rune(str.Value)
			for a, b := 0, len(runes)-1; a < b; a, b = a+1, b-1 {
				runes[a], runes[b] = runes[b], runes[a]
			}
			return &runtime.StringValue{Value: string(runes)}, nil
		}),
		"repeat": builtin("repeat", 2, 2, func(args []runtime.Value) (runtime.Value, error) {
			str, err := wantString("repeat", args[0])
			if err != nil {
				return nil, err
			}
			count, ok := args[1].(*runtime.IntegerValue)
			if !ok || count.Value < 0 {
				return nil, runtime.NewError(runtime.TypeMismatch, "repeat: count must be a non-negative Integer")
			}
			return &runtime.StringValue{Value: strings.Repeat(str.Value, int(count.Value))}, nil
		}),
	}
}

func stdMathExports() map[string]runtime.Value {
	return map[string]runtime.Value{
		"abs": builtin("abs", 1, 1, builtinAbs),
		"pow": builtin("pow", 2, 2, builtinPow),
		"min": builtin("min", 2, 2, func(args []runtime.Value) (runtime.Value, error) {
			return pickExtreme("min", args[0], args[1], -1)
		}),
		"max": builtin("max", 2, 2, func(args []runtime.Value) (runtime.Value, error) {
			return pickExtreme("max", args[0], args[1], 1)
		}),
		"sqrt": builtin("sqrt", 1, 1, func(args []runtime.Value) (runtime.Value, error) {
			n, ok := runtime.AsBig(args[0])
			if !ok {
				return nil, runtime.NewError(runtime.TypeMismatch, "sqrt expects Integer, got %s", args[0].Kind())
			}
			if n.Sign() < 0 {
				return nil, runtime.NewError(runtime.InvalidOperation, "sqrt: negative argument")
			}
			return runtime.NormalizeBig(new(big.Int).Sqrt(n)), nil
		}),
		"clamp": builtin("clamp", 3, 3, func(args []runtime.Value) (runtime.Value, error) {
			n, nok := runtime.AsBig(args[0])
			lo, lok := runtime.AsBig(args[1])
			hi, hok := runtime.AsBig(args[2])
			if !nok || !lok || !hok {
				return nil, runtime.NewError(runtime.TypeMismatch, "clamp expects Integer arguments")
			}
			if lo.Cmp(hi) > 0 {
				return nil, runtime.NewError(runtime.InvalidOperation, "clamp: lower bound above upper bound")
			}
			if n.Cmp(lo) < 0 {
				return args[1], nil
			}
			if n.Cmp(hi) > 0 {
				return args[2], nil
			}
			return args[0], nil
		}),
		"random": builtin("random", 2, 2, func(args []runtime.Value) (runtime.Value, error) {
			lo, lok := args[0].(*runtime.IntegerValue)
			hi, hok := args[1].(*runtime.IntegerValue)
			if !lok || !hok {
				return nil, runtime.NewError(runtime.TypeMismatch, "random expects Integer bounds")
			}
			if lo.Value > hi.Value {
				return nil, runtime.NewError(runtime.InvalidOperation, "random: empty range")
			}
			span := hi.Value - lo.Value + 1
			return &runtime.IntegerValue{Value: lo.Value + rand.Int63n(span)}, nil
		}),
	}
}

func stdTimeExports() map[string]runtime.Value {
	return map[string]runtime.Value{
		"now": builtin("now", 0, 0, func(args []runtime.Value) (runtime.Value, error) {
			return &runtime.IntegerValue{Value: time.Now().UnixMilli()}, nil
		}),
		"sleep": builtin("sleep", 1, 1, func(args []runtime.Value) (runtime.Value, error) {
			ms, ok := args[0].(*runtime.IntegerValue)
			if !ok || ms.Value < 0 {
				return nil, runtime.NewError(runtime.TypeMismatch, "sleep expects a non-negative Integer of milliseconds")
			}
			time.Sleep(time.Duration(ms.Value) * time.Millisecond)
			return runtime.Null, nil
		}),
	}
}

func stdIOExports() map[string]runtime.Value {
	wantPath := func(name string, v runtime.Value) (string, error) {
		str, err := wantString(name, v)
		if err != nil {
			return "", err
		}
		return str.Value, nil
	}
	return map[string]runtime.Value{
		"read_file": builtin("read_file", 1, 1, func(args []runtime.Value) (runtime.Value, error) {
			path, err := wantPath("read_file", args[0])
			if err != nil {
				return nil, err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, runtime.NewError(runtime.InvalidOperation, "read_file: %v", err)
			}
			return &runtime.StringValue{Value: string(data)}, nil
		}),
		"write_file": builtin("write_file", 2, 2, func(args []runtime.Value) (runtime.Value, error) {
			path, err := wantPath("write_file", args[0])
			if err != nil {
				return nil, err
			}
			content, err := wantString("write_file", args[1])
			if err != nil {
				return nil, err
			}
			if err := os.WriteFile(path, []byte(content.Value), 0o644); err != nil {
				return nil, runtime.NewError(runtime.InvalidOperation, "write_file: %v", err)
			}
			return runtime.Null, nil
		}),
		"append_file": builtin("append_file", 2, 2, func(args []runtime.Value) (runtime.Value, error) {
			path, err := wantPath("append_file", args[0])
			if err != nil {
				return nil, err
			}
			content, err := wantString("append_file", args[1])
			if err != nil {
				return nil, err
			}
			f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
			if err != nil {
				return nil, runtime.NewError(runtime.InvalidOperation, "append_file: %v", err)
			}
			defer f.Close()
			if _, err := f.WriteString(content.Value); err != nil {
				return nil, runtime.NewError(runtime.InvalidOperation, "append_file: %v", err)
			}
			return runtime.Null, nil
		}),
		"exists": builtin("exists", 1, 1, func(args []runtime.Value) (runtime.Value, error) {
			path, err := wantPath("exists", args[0])
			if err != nil {
				return nil, err
			}
			_, statErr := os.Stat(path)
			return runtime.Boolean(statErr == nil), nil
		}),
		"is_file": builtin("is_file", 1, 1, func(args []runtime.Value) (runtime.Value, error) {
			path, err := wantPath("is_file", args[0])
			if err != nil {
				return nil, err
			}
			info, statErr := os.Stat(path)
			return runtime.Boolean(statErr == nil && !info.IsDir()), nil
		}),
		"is_dir": builtin("is_dir", 1, 1, func(args []runtime.Value) (runtime.Value, error) {
			path, err := wantPath("is_dir", args[0])
			if err != nil {
				return nil, err
			}
			info, statErr := os.Stat(path)
			return runtime.Boolean(statErr == nil && info.IsDir()), nil
		}),
		"list_dir": builtin("list_dir", 1, 1, func(args []runtime.Value) (runtime.Value, error) {
			path, err := wantPath("list_dir", args[0])
			if err != nil {
				return nil, err
			}
			entries, readErr := os.ReadDir(path)
			if readErr != nil {
				return nil, runtime.NewError(runtime.InvalidOperation, "list_dir: %v", readErr)
			}
			names := make([]runtime.Value, 0, len(entries))
			for _, entry := range entries {
				names = append(names, &runtime.StringValue{Value: entry.Name()})
			}
			return &runtime.ArrayValue{Elements: names}, nil
		}),
		"create_dir": builtin("create_dir", 1, 1, func(args []runtime.Value) (runtime.Value, error) {
			path, err := wantPath("create_dir", args[0])
			if err != nil {
				return nil, err
			}
			if err := os.MkdirAll(path, 0o755); err != nil {
				return nil, runtime.NewError(runtime.InvalidOperation, "create_dir: %v", err)
			}
			return runtime.Null, nil
		}),
		"delete_file": builtin("delete_file", 1, 1, func(args []runtime.Value) (runtime.Value, error) {
			path, err := wantPath("delete_file", args[0])
			if err != nil {
				return nil, err
			}
			if err := os.Remove(path); err != nil {
				return nil, runtime.NewError(runtime.InvalidOperation, "delete_file: %v", err)
			}
			return runtime.Null, nil
		}),
		"delete_dir": builtin("delete_dir", 1, 1, func(args []runtime.Value) (runtime.Value, error) {
			path, err := wantPath("delete_dir", args[0])
			if err != nil {
				return nil, err
			}
			if err := os.RemoveAll(path); err != nil {
				return nil, runtime.NewError(runtime.InvalidOperation, "delete_dir: %v", err)
			}
			return runtime.Null, nil
		}),
	}
}

func stdJSONExports() map[string]runtime.Value {
	return map[string]runtime.Value{
		"serialize": builtin("serialize", 1, 1, func(args []runtime.Value) (runtime.Value, error) {
			encoded, err := valueToJSON(args[0])
			if err != nil {
				return nil, err
			}
			data, marshalErr := json.Marshal(encoded)
			if marshalErr != nil {
				return nil, runtime.NewError(runtime.InvalidOperation, "serialize: %v", marshalErr)
			}
			return &runtime.StringValue{Value: string(data)}, nil
		}),
		"deserialize": builtin("deserialize", 1, 1, func(args []runtime.Value) (runtime.Value, error) {
			str, err := wantString("deserialize", args[0])
			if err != nil {
				return nil, err
			}
			dec := json.NewDecoder(bytes.NewReader([]byte(str.Value)))
			dec.UseNumber()
			var raw any
			if err := dec.Decode(&raw); err != nil {
				return nil, runtime.NewError(runtime.InvalidOperation, "deserialize: %v", err)
			}
			return jsonToValue(raw)
		}),
	}
}

func (i *Interpreter) stdEnvExports() map[string]runtime.Value {
	return map[string]runtime.Value{
		"args": builtin("args", 0, 0, func(args []runtime.Value) (runtime.Value, error) {
			elements := make([]runtime.Value, 0, len(i.ProgramArgs))
			for _, arg := range i.ProgramArgs {
				elements = append(elements, &runtime.StringValue{Value: arg})
			}
			return &runtime.ArrayValue{Elements: elements}, nil
		}),
		"get": builtin("get", 1, 1, func(args []runtime.Value) (runtime.Value, error) {
			name, err := wantString("get", args[0])
			if err != nil {
				return nil, err
			}
			value, ok := os.LookupEnv(name.Value)
			if !ok {
				return runtime.Null, nil
			}
			return &runtime.StringValue{Value: value}, nil
		}),
	}
}

// valueToJSON lowers a runtime value to the plain Go shapes
// encoding/json understands. Hash map keys become strings.
func valueToJSON(v runtime.Value) (any, error) {
	switch v := v.(type) {
	case *runtime.NullValue:
		return nil, nil
	case *runtime.BooleanValue:
		return v.Value, nil
	case *runtime.IntegerValue:
		return v.Value, nil
	case *runtime.BigIntegerValue:
		return json.RawMessage(v.Value.String()), nil
	case *runtime.StringValue:
		return v.Value, nil
	case *runtime.ArrayValue:
		out := make([]any, 0, len(v.Elements))
		for _, elem := range v.Elements {
			encoded, err := valueToJSON(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, encoded)
		}
		return out, nil
	case *runtime.HashMapValue:
		out := make(map[string]any, len(v.Pairs))
		for _, key := range v.Order {
			entry := v.Pairs[key]
			encoded, err := valueToJSON(entry.Value)
			if err != nil {
				return nil, err
			}
			out[Inspect(entry.Key)] = encoded
		}
		return out, nil
	case *runtime.InstanceValue:
		out := make(map[string]any, len(v.Fields))
		for _, name := range v.Def.FieldOrder {
			encoded, err := valueToJSON(v.Fields[name])
			if err != nil {
				return nil, err
			}
			out[name] = encoded
		}
		return out, nil
	default:
		return nil, runtime.NewError(runtime.InvalidOperation, "serialize: cannot serialize %s", v.Kind())
	}
}

func jsonToValue(raw any) (runtime.Value, error) {
	switch raw := raw.(type) {
	case nil:
		return runtime.Null, nil
	case bool:
		return runtime.Boolean(raw), nil
	case string:
		return &runtime.StringValue{Value: raw}, nil
	case json.Number:
		if n, err := raw.Int64(); err == nil {
			return &runtime.IntegerValue{Value: n}, nil
		}
		if wide, ok := parseBig(raw.String()); ok {
			return wide, nil
		}
		return nil, runtime.NewError(runtime.TypeMismatch, "deserialize: non-integer number %s", raw.String())
	case []any:
		elements := make([]runtime.Value, 0, len(raw))
		for _, elem := range raw {
			value, err := jsonToValue(elem)
			if err != nil {
				return nil, err
			}
			elements = append(elements, value)
		}
		return &runtime.ArrayValue{Elements: elements}, nil
	case map[string]any:
		hash := runtime.NewHashMap()
		for _, key := range sortedKeys(raw) {
			value, err := jsonToValue(raw[key])
			if err != nil {
				return nil, err
			}
			hashKey, _ := runtime.KeyFor(&runtime.StringValue{Value: key})
			hash.Set(hashKey, runtime.HashEntry{Key: &runtime.StringValue{Value: key}, Value: value})
		}
		return hash, nil
	default:
		return nil, runtime.NewError(runtime.InvalidOperation, "deserialize: unsupported value")
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
