package interpreter

import (
	"strconv"
	"strings"

	"giulio/interpreter-go/pkg/runtime"
)

// Inspect renders a value the way print and the REPL display it.
// Strings render bare; quoting only happens inside composites.
func Inspect(v runtime.Value) string {
	switch v := v.(type) {
	case *runtime.NullValue:
		return "null"
	case *runtime.BooleanValue:
		if v.Value {
			return "true"
		}
		return "false"
	case *runtime.IntegerValue:
		return strconv.FormatInt(v.Value, 10)
	case *runtime.BigIntegerValue:
		return v.Value.String()
	case *runtime.StringValue:
		return v.Value
	case *runtime.ArrayValue:
		parts := make([]string, 0, len(v.Elements))
		for _, elem := range v.Elements {
			parts = append(parts, inspectNested(elem))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *runtime.HashMapValue:
		parts := make([]string, 0, len(v.Order))
		for _, key := range v.Order {
			entry := v.Pairs[key]
			parts = append(parts, inspectNested(entry.Key)+" : "+inspectNested(entry.Value))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *runtime.FunctionValue:
		return "[function]"
	case *runtime.BuiltinValue:
		return "[built-in function: " + v.Name + "]"
	case *runtime.StructDefValue:
		return "[struct " + v.Name + "]"
	case *runtime.InstanceValue:
		parts := make([]string, 0, len(v.Def.FieldOrder))
		for _, name := range v.Def.FieldOrder {
			parts = append(parts, name+": "+inspectNested(v.Fields[name]))
		}
		return v.Def.Name + " { " + strings.Join(parts, ", ") + " }"
	case *runtime.ModuleValue:
		return "[module " + v.Name + "]"
	default:
		return "unknown"
	}
}

// inspectNested quotes strings so composite output stays unambiguous.
func inspectNested(v runtime.Value) string {
	if s, ok := v.(*runtime.StringValue); ok {
		return "\"" + s.Value + "\""
	}
	return Inspect(v)
}
