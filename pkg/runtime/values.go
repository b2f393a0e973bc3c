// Package runtime defines the value model and lexical environments the
// evaluator operates on.
package runtime

import (
	"math/big"

	"giulio/interpreter-go/pkg/ast"
)

// Kind identifies the dynamic type of a value.
type Kind int

const (
	KindNull Kind = iota
	KindBoolean
	KindInteger
	KindBigInteger
	KindString
	KindArray
	KindHashMap
	KindFunction
	KindBuiltin
	KindStructDef
	KindInstance
	KindModule
)

var kindNames = map[Kind]string{
	KindNull:       "Null",
	KindBoolean:    "Boolean",
	KindInteger:    "Integer",
	KindBigInteger: "BigInteger",
	KindString:     "String",
	KindArray:      "Array",
	KindHashMap:    "HashMap",
	KindFunction:   "Function",
	KindBuiltin:    "Builtin",
	KindStructDef:  "StructDef",
	KindInstance:   "Instance",
	KindModule:     "Module",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Value is implemented by every runtime value.
type Value interface {
	Kind() Kind
}

// NullValue is the single null value.
type NullValue struct{}

// BooleanValue wraps a bool.
type BooleanValue struct {
	Value bool
}

// IntegerValue is a 64-bit integer. Arithmetic that overflows promotes
// to BigIntegerValue.
type IntegerValue struct {
	Value int64
}

// BigIntegerValue is an arbitrary-precision integer. Its magnitude is
// always outside the 64-bit range; NormalizeBig maintains that.
type BigIntegerValue struct {
	Value *big.Int
}

// StringValue wraps an immutable string.
type StringValue struct {
	Value string
}

// ArrayValue is a mutable element sequence. Bindings share the same
// storage, so mutation through one alias is visible through all.
type ArrayValue struct {
	Elements []Value
}

// HashMapValue maps hashable keys to values. Order records insertion
// order so key listings and printing stay deterministic.
type HashMapValue struct {
	Pairs map[HashKey]HashEntry
	Order []HashKey
}

// HashEntry keeps the original key value alongside the stored value.
type HashEntry struct {
	Key   Value
	Value Value
}

// FunctionValue is a user-defined function closing over its
// definition environment. Name is empty for anonymous literals.
type FunctionValue struct {
	Name    string
	Params  []string
	Body    *ast.Block
	Closure *Environment
}

// BuiltinImpl is the Go implementation behind a builtin function.
type BuiltinImpl func(args []Value) (Value, error)

// BuiltinValue is a function implemented by the host. MaxArity below
// zero means variadic.
type BuiltinValue struct {
	Name     string
	MinArity int
	MaxArity int
	Impl     BuiltinImpl
}

// StructDefValue is a struct declaration: field defaults in declaration
// order plus a method table. Defaults are evaluated once, when the
// declaration runs.
type StructDefValue struct {
	Name       string
	FieldOrder []string
	Defaults   map[string]Value
	Methods    map[string]*FunctionValue
}

// InstanceValue is a struct instance. Instances compare by identity:
// two references are equal only when they share this storage.
type InstanceValue struct {
	Def    *StructDefValue
	Fields map[string]Value
}

// ModuleValue is a loaded module's export table.
type ModuleValue struct {
	Name    string
	Exports map[string]Value
}

func (*NullValue) Kind() Kind       { return KindNull }
func (*BooleanValue) Kind() Kind    { return KindBoolean }
func (*IntegerValue) Kind() Kind    { return KindInteger }
func (*BigIntegerValue) Kind() Kind { return KindBigInteger }
func (*StringValue) Kind() Kind     { return KindString }
func (*ArrayValue) Kind() Kind      { return KindArray }
func (*HashMapValue) Kind() Kind    { return KindHashMap }
func (*FunctionValue) Kind() Kind   { return KindFunction }
func (*BuiltinValue) Kind() Kind    { return KindBuiltin }
func (*StructDefValue) Kind() Kind  { return KindStructDef }
func (*InstanceValue) Kind() Kind   { return KindInstance }
func (*ModuleValue) Kind() Kind     { return KindModule }

// Shared immutable singletons.
var (
	Null  = &NullValue{}
	True  = &BooleanValue{Value: true}
	False = &BooleanValue{Value: false}
)

// Boolean returns the shared value for b.
func Boolean(b bool) *BooleanValue {
	if b {
		return True
	}
	return False
}

// NewHashMap builds an empty hash map.
func NewHashMap() *HashMapValue {
	return &HashMapValue{Pairs: make(map[HashKey]HashEntry)}
}

// Set inserts or replaces an entry, preserving first-insertion order.
func (h *HashMapValue) Set(key HashKey, entry HashEntry) {
	if _, ok := h.Pairs[key]; !ok {
		h.Order = append(h.Order, key)
	}
	h.Pairs[key] = entry
}

// Delete removes an entry and its order slot.
func (h *HashMapValue) Delete(key HashKey) {
	if _, ok := h.Pairs[key]; !ok {
		return
	}
	delete(h.Pairs, key)
	for i, k := range h.Order {
		if k == key {
			h.Order = append(h.Order[:i], h.Order[i+1:]...)
			break
		}
	}
}

// Clear drops every entry.
func (h *HashMapValue) Clear() {
	h.Pairs = make(map[HashKey]HashEntry)
	h.Order = nil
}

// HashKey is the comparable form of a hashable value.
type HashKey struct {
	Kind Kind
	Bool bool
	Int  int64
	Str  string
}

// KeyFor converts a value to its hash key. Only booleans, integers,
// and strings are hashable.
func KeyFor(v Value) (HashKey, bool) {
	switch v := v.(type) {
	case *BooleanValue:
		return HashKey{Kind: KindBoolean, Bool: v.Value}, true
	case *IntegerValue:
		return HashKey{Kind: KindInteger, Int: v.Value}, true
	case *StringValue:
		return HashKey{Kind: KindString, Str: v.Value}, true
	default:
		return HashKey{}, false
	}
}

// NormalizeBig returns the narrowest integer value for n: an
// IntegerValue when n fits in 64 bits, otherwise a BigIntegerValue.
func NormalizeBig(n *big.Int) Value {
	if n.IsInt64() {
		return &IntegerValue{Value: n.Int64()}
	}
	return &BigIntegerValue{Value: n}
}

// AsBig widens an integer value to *big.Int. The second result is
// false for non-integer values.
func AsBig(v Value) (*big.Int, bool) {
	switch v := v.(type) {
	case *IntegerValue:
		return big.NewInt(v.Value), true
	case *BigIntegerValue:
		return v.Value, true
	default:
		return nil, false
	}
}
