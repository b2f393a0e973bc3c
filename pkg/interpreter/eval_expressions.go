package interpreter

import (
	"giulio/interpreter-go/pkg/ast"
	"giulio/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateExpression(expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch expr := expr.(type) {
	case *ast.Identifier:
		return env.Get(expr.Name)

	case *ast.IntegerLiteral:
		return &runtime.IntegerValue{Value: expr.Value}, nil

	case *ast.BigIntegerLiteral:
		return &runtime.BigIntegerValue{Value: expr.Value}, nil

	case *ast.StringLiteral:
		return &runtime.StringValue{Value: expr.Value}, nil

	case *ast.BooleanLiteral:
		return runtime.Boolean(expr.Value), nil

	case *ast.NullLiteral:
		return runtime.Null, nil

	case *ast.ThisExpression:
		this, err := env.Get("this")
		if err != nil {
			return nil, runtime.NewError(runtime.InvalidOperation, "'this' outside of a method")
		}
		return this, nil

	case *ast.PrefixExpression:
		return i.evaluatePrefix(expr, env)

	case *ast.InfixExpression:
		return i.evaluateInfix(expr, env)

	case *ast.IfExpression:
		return i.evaluateIf(expr, env)

	case *ast.WhileExpression:
		return i.evaluateWhile(expr, env)

	case *ast.ForInExpression:
		return i.evaluateForIn(expr, env)

	case *ast.ForExpression:
		return i.evaluateFor(expr, env)

	case *ast.FunctionLiteral:
		return &runtime.FunctionValue{
			Params:  expr.Params,
			Body:    expr.Body,
			Closure: env,
		}, nil

	case *ast.CallExpression:
		return i.evaluateCall(expr, env)

	case *ast.IndexExpression:
		return i.evaluateIndex(expr, env)

	case *ast.MemberExpression:
		return i.evaluateMember(expr, env)

	case *ast.ArrayLiteral:
		elements := make([]runtime.Value, 0, len(expr.Elements))
		for _, elem := range expr.Elements {
			value, err := i.evaluateExpression(elem, env)
			if err != nil {
				return nil, err
			}
			elements = append(elements, value)
		}
		return &runtime.ArrayValue{Elements: elements}, nil

	case *ast.HashMapLiteral:
		hash := runtime.NewHashMap()
		for _, pair := range expr.Pairs {
			key, err := i.evaluateExpression(pair.Key, env)
			if err != nil {
				return nil, err
			}
			hashKey, ok := runtime.KeyFor(key)
			if !ok {
				return nil, runtime.NewError(runtime.NotHashable, "%s is not hashable", key.Kind())
			}
			value, err := i.evaluateExpression(pair.Value, env)
			if err != nil {
				return nil, err
			}
			hash.Set(hashKey, runtime.HashEntry{Key: key, Value: value})
		}
		return hash, nil

	case *ast.StructLiteral:
		return i.evaluateStructLiteral(expr, env)

	default:
		return nil, runtime.NewError(runtime.InvalidOperation, "unsupported expression %s", expr.NodeType())
	}
}

func (i *Interpreter) condition(expr ast.Expression, env *runtime.Environment) (bool, error) {
	value, err := i.evaluateExpression(expr, env)
	if err != nil {
		return false, err
	}
	b, ok := value.(*runtime.BooleanValue)
	if !ok {
		return false, runtime.NewError(runtime.TypeMismatch, "condition must be Boolean, got %s", value.Kind())
	}
	return b.Value, nil
}

func (i *Interpreter) evaluateIf(expr *ast.IfExpression, env *runtime.Environment) (runtime.Value, error) {
	cond, err := i.condition(expr.Condition, env)
	if err != nil {
		return nil, err
	}
	if cond {
		return i.evaluateBlock(expr.Consequence, env.Extend())
	}
	if expr.Alternative != nil {
		return i.evaluateBlock(expr.Alternative, env.Extend())
	}
	return runtime.Null, nil
}

func (i *Interpreter) evaluateWhile(expr *ast.WhileExpression, env *runtime.Environment) (runtime.Value, error) {
	for {
		cond, err := i.condition(expr.Condition, env)
		if err != nil {
			return nil, err
		}
		if !cond {
			return runtime.Null, nil
		}
		if _, err := i.evaluateBlock(expr.Body, env.Extend()); err != nil {
			switch err.(type) {
			case breakSignal:
				return runtime.Null, nil
			case continueSignal:
				continue
			default:
				return nil, err
			}
		}
	}
}

func (i *Interpreter) evaluateForIn(expr *ast.ForInExpression, env *runtime.Environment) (runtime.Value, error) {
	iterable, err := i.evaluateExpression(expr.Iterable, env)
	if err != nil {
		return nil, err
	}
	runBody := func(elem runtime.Value) (stop bool, err error) {
		scope := env.Extend()
		scope.Define(expr.Ident, elem)
		if _, err := i.evaluateBlock(expr.Body, scope); err != nil {
			switch err.(type) {
			case breakSignal:
				return true, nil
			case continueSignal:
				return false, nil
			default:
				return false, err
			}
		}
		return false, nil
	}
	switch iterable := iterable.(type) {
	case *runtime.ArrayValue:
		for _, elem := range iterable.Elements {
			stop, err := runBody(elem)
			if err != nil {
				return nil, err
			}
			if stop {
				break
			}
		}
		return runtime.Null, nil
	case *runtime.StringValue:
		for _, ch := range iterable.Value {
			stop, err := runBody(&runtime.StringValue{Value: string(ch)})
			if err != nil {
				return nil, err
			}
			if stop {
				break
			}
		}
		return runtime.Null, nil
	default:
		return nil, runtime.NewError(runtime.TypeMismatch, "cannot iterate over %s", iterable.Kind())
	}
}

func (i *Interpreter) evaluateFor(expr *ast.ForExpression, env *runtime.Environment) (runtime.Value, error) {
	scope := env.Extend()
	if expr.Init != nil {
		if _, err := i.evaluateStatement(expr.Init, scope); err != nil {
			return nil, err
		}
	}
	for {
		if expr.Condition != nil {
			cond, err := i.condition(expr.Condition, scope)
			if err != nil {
				return nil, err
			}
			if !cond {
				return runtime.Null, nil
			}
		}
		if _, err := i.evaluateBlock(expr.Body, scope.Extend()); err != nil {
			switch err.(type) {
			case breakSignal:
				return runtime.Null, nil
			case continueSignal:
			default:
				return nil, err
			}
		}
		if expr.Update != nil {
			if _, err := i.evaluateStatement(expr.Update, scope); err != nil {
				return nil, err
			}
		}
	}
}

// evaluateCall dispatches plain calls, instance and value methods, and
// module member calls.
func (i *Interpreter) evaluateCall(expr *ast.CallExpression, env *runtime.Environment) (runtime.Value, error) {
	if member, ok := expr.Callee.(*ast.MemberExpression); ok {
		return i.evaluateMethodCall(member, expr.Arguments, env)
	}
	callee, err := i.evaluateExpression(expr.Callee, env)
	if err != nil {
		return nil, err
	}
	args, err := i.evaluateArguments(expr.Arguments, env)
	if err != nil {
		return nil, err
	}
	return i.apply(callee, args)
}

func (i *Interpreter) evaluateArguments(exprs []ast.Expression, env *runtime.Environment) ([]runtime.Value, error) {
	args := make([]runtime.Value, 0, len(exprs))
	for _, expr := range exprs {
		value, err := i.evaluateExpression(expr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, value)
	}
	return args, nil
}

// apply invokes a callable value with already-evaluated arguments.
func (i *Interpreter) apply(callee runtime.Value, args []runtime.Value) (runtime.Value, error) {
	switch callee := callee.(type) {
	case *runtime.FunctionValue:
		return i.callFunction(callee, args, nil)
	case *runtime.BuiltinValue:
		return i.callBuiltin(callee, args)
	default:
		return nil, runtime.NewError(runtime.NotCallable, "%s is not callable", callee.Kind())
	}
}

// callFunction binds parameters in a child of the closure environment.
// A non-nil receiver is bound as 'this'.
func (i *Interpreter) callFunction(fn *runtime.FunctionValue, args []runtime.Value, receiver runtime.Value) (runtime.Value, error) {
	if len(args) != len(fn.Params) {
		name := fn.Name
		if name == "" {
			name = "function"
		}
		return nil, runtime.NewError(runtime.WrongArgumentCount, "%s expects %d arguments, got %d", name, len(fn.Params), len(args))
	}
	scope := fn.Closure.Extend()
	if receiver != nil {
		scope.Define("this", receiver)
	}
	for idx, param := range fn.Params {
		scope.Define(param, args[idx])
	}
	result, err := i.evaluateBlock(fn.Body, scope)
	if err != nil {
		if ret, ok := err.(returnSignal); ok {
			return ret.value, nil
		}
		return nil, err
	}
	return result, nil
}

func (i *Interpreter) callBuiltin(builtin *runtime.BuiltinValue, args []runtime.Value) (runtime.Value, error) {
	if len(args) < builtin.MinArity || (builtin.MaxArity >= 0 && len(args) > builtin.MaxArity) {
		return nil, runtime.NewError(runtime.WrongArgumentCount, "%s: wrong number of arguments (%d)", builtin.Name, len(args))
	}
	return builtin.Impl(args)
}

func (i *Interpreter) evaluateIndex(expr *ast.IndexExpression, env *runtime.Environment) (runtime.Value, error) {
	target, err := i.evaluateExpression(expr.Target, env)
	if err != nil {
		return nil, err
	}
	index, err := i.evaluateExpression(expr.Index, env)
	if err != nil {
		return nil, err
	}
	switch target := target.(type) {
	case *runtime.ArrayValue:
		idx, ok := index.(*runtime.IntegerValue)
		if !ok {
			return nil, runtime.NewError(runtime.TypeMismatch, "array index must be Integer, got %s", index.Kind())
		}
		if idx.Value < 0 || idx.Value >= int64(len(target.Elements)) {
			return nil, runtime.NewError(runtime.IndexOutOfBounds, "index %d out of bounds for array of length %d", idx.Value, len(target.Elements))
		}
		return target.Elements[idx.Value], nil
	case *runtime.StringValue:
		idx, ok := index.(*runtime.IntegerValue)
		if !ok {
			return nil, runtime.NewError(runtime.TypeMismatch, "string index must be Integer, got %s", index.Kind())
		}
		runes := []rune(target.Value)
		if idx.Value < 0 || idx.Value >= int64(len(runes)) {
			return nil, runtime.NewError(runtime.IndexOutOfBounds, "index %d out of bounds for string of length %d", idx.Value, len(runes))
		}
		return &runtime.StringValue{Value: string(runes[idx.Value])}, nil
	case *runtime.HashMapValue:
		key, ok := runtime.KeyFor(index)
		if !ok {
			return nil, runtime.NewError(runtime.NotHashable, "%s is not hashable", index.Kind())
		}
		entry, ok := target.Pairs[key]
		if !ok {
			return nil, runtime.NewError(runtime.MissingKey, "key %s not found", Inspect(index))
		}
		return entry.Value, nil
	default:
		return nil, runtime.NewError(runtime.NotIndexable, "cannot index %s", target.Kind())
	}
}

// evaluateMember reads a field, a module export, or a hash map string
// key. Bare method references are returned unbound only for modules;
// value methods require a call.
func (i *Interpreter) evaluateMember(expr *ast.MemberExpression, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluateExpression(expr.Object, env)
	if err != nil {
		return nil, err
	}
	switch object := object.(type) {
	case *runtime.InstanceValue:
		if value, ok := object.Fields[expr.Field]; ok {
			return value, nil
		}
		if _, ok := object.Def.Methods[expr.Field]; ok {
			return nil, runtime.NewError(runtime.InvalidOperation, "method '%s' must be called", expr.Field)
		}
		return nil, runtime.NewError(runtime.UndefinedMember, "%s has no field '%s'", object.Def.Name, expr.Field)
	case *runtime.ModuleValue:
		if value, ok := object.Exports[expr.Field]; ok {
			return value, nil
		}
		return nil, runtime.NewError(runtime.UndefinedMember, "module %s has no export '%s'", object.Name, expr.Field)
	case *runtime.HashMapValue:
		key, _ := runtime.KeyFor(&runtime.StringValue{Value: expr.Field})
		entry, ok := object.Pairs[key]
		if !ok {
			return nil, runtime.NewError(runtime.MissingKey, "key %q not found", expr.Field)
		}
		return entry.Value, nil
	default:
		return nil, runtime.NewError(runtime.UndefinedMember, "%s has no member '%s'", object.Kind(), expr.Field)
	}
}

func (i *Interpreter) evaluateMethodCall(member *ast.MemberExpression, argExprs []ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluateExpression(member.Object, env)
	if err != nil {
		return nil, err
	}
	args, err := i.evaluateArguments(argExprs, env)
	if err != nil {
		return nil, err
	}
	switch object := object.(type) {
	case *runtime.InstanceValue:
		if method, ok := object.Def.Methods[member.Field]; ok {
			return i.callFunction(method, args, object)
		}
		// A field holding a function is callable through the dot too.
		if value, ok := object.Fields[member.Field]; ok {
			return i.apply(value, args)
		}
		return nil, runtime.NewError(runtime.UndefinedMember, "%s has no method '%s'", object.Def.Name, member.Field)
	case *runtime.ModuleValue:
		value, ok := object.Exports[member.Field]
		if !ok {
			return nil, runtime.NewError(runtime.UndefinedMember, "module %s has no export '%s'", object.Name, member.Field)
		}
		return i.apply(value, args)
	default:
		return i.callValueMethod(object, member.Field, args)
	}
}

func (i *Interpreter) evaluateStructLiteral(expr *ast.StructLiteral, env *runtime.Environment) (runtime.Value, error) {
	binding, err := env.Get(expr.Name)
	if err != nil {
		return nil, err
	}
	def, ok := binding.(*runtime.StructDefValue)
	if !ok {
		return nil, runtime.NewError(runtime.TypeMismatch, "%s is not a struct", expr.Name)
	}
	instance := &runtime.InstanceValue{
		Def:    def,
		Fields: make(map[string]runtime.Value, len(def.FieldOrder)),
	}
	for _, name := range def.FieldOrder {
		instance.Fields[name] = def.Defaults[name]
	}
	for _, field := range expr.Fields {
		if _, ok := instance.Fields[field.Name]; !ok {
			return nil, runtime.NewError(runtime.UndefinedMember, "%s has no field '%s'", def.Name, field.Name)
		}
		value, err := i.evaluateExpression(field.Value, env)
		if err != nil {
			return nil, err
		}
		instance.Fields[field.Name] = value
	}
	return instance, nil
}
