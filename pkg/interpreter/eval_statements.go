package interpreter

import (
	"giulio/interpreter-go/pkg/ast"
	"giulio/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluateStatement(stmt ast.Statement, env *runtime.Environment) (runtime.Value, error) {
	switch stmt := stmt.(type) {
	case *ast.LetStatement:
		value, err := i.evaluateExpression(stmt.Value, env)
		if err != nil {
			return nil, err
		}
		env.Define(stmt.Name, value)
		return runtime.Null, nil

	case *ast.AssignStatement:
		value, err := i.evaluateExpression(stmt.Value, env)
		if err != nil {
			return nil, err
		}
		if err := env.Assign(stmt.Name, value); err != nil {
			return nil, err
		}
		return runtime.Null, nil

	case *ast.MemberAssignStatement:
		return i.evaluateMemberAssign(stmt, env)

	case *ast.IndexAssignStatement:
		return i.evaluateIndexAssign(stmt, env)

	case *ast.FunctionStatement:
		fn := &runtime.FunctionValue{
			Name:    stmt.Name,
			Params:  stmt.Params,
			Body:    stmt.Body,
			Closure: env,
		}
		env.Define(stmt.Name, fn)
		return runtime.Null, nil

	case *ast.ReturnStatement:
		var value runtime.Value = runtime.Null
		if stmt.Value != nil {
			var err error
			value, err = i.evaluateExpression(stmt.Value, env)
			if err != nil {
				return nil, err
			}
		}
		return nil, returnSignal{value: value}

	case *ast.StructStatement:
		return i.evaluateStructStatement(stmt, env)

	case *ast.ImportStatement:
		return i.evaluateImport(stmt, env)

	case *ast.BreakStatement:
		return nil, breakSignal{}

	case *ast.ContinueStatement:
		return nil, continueSignal{}

	case *ast.ExpressionStatement:
		return i.evaluateExpression(stmt.Expr, env)

	default:
		return nil, runtime.NewError(runtime.InvalidOperation, "unsupported statement %s", stmt.NodeType())
	}
}

func (i *Interpreter) evaluateBlock(block *ast.Block, env *runtime.Environment) (runtime.Value, error) {
	var result runtime.Value = runtime.Null
	for _, stmt := range block.Statements {
		var err error
		result, err = i.evaluateStatement(stmt, env)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (i *Interpreter) evaluateStructStatement(stmt *ast.StructStatement, env *runtime.Environment) (runtime.Value, error) {
	def := &runtime.StructDefValue{
		Name:     stmt.Name,
		Defaults: make(map[string]runtime.Value, len(stmt.Fields)),
		Methods:  make(map[string]*runtime.FunctionValue, len(stmt.Methods)),
	}
	for _, field := range stmt.Fields {
		value, err := i.evaluateExpression(field.Value, env)
		if err != nil {
			return nil, err
		}
		def.FieldOrder = append(def.FieldOrder, field.Name)
		def.Defaults[field.Name] = value
	}
	for _, method := range stmt.Methods {
		def.Methods[method.Name] = &runtime.FunctionValue{
			Name:    method.Name,
			Params:  method.Function.Params,
			Body:    method.Function.Body,
			Closure: env,
		}
	}
	env.Define(stmt.Name, def)
	return runtime.Null, nil
}

// evaluateMemberAssign writes through instance fields and hash map
// string keys. The write mutates shared storage, so every alias of the
// object observes it.
func (i *Interpreter) evaluateMemberAssign(stmt *ast.MemberAssignStatement, env *runtime.Environment) (runtime.Value, error) {
	object, err := i.evaluateExpression(stmt.Object, env)
	if err != nil {
		return nil, err
	}
	value, err := i.evaluateExpression(stmt.Value, env)
	if err != nil {
		return nil, err
	}
	switch object := object.(type) {
	case *runtime.InstanceValue:
		if _, ok := object.Fields[stmt.Field]; !ok {
			return nil, runtime.NewError(runtime.UndefinedMember, "%s has no field '%s'", object.Def.Name, stmt.Field)
		}
		object.Fields[stmt.Field] = value
		return runtime.Null, nil
	case *runtime.HashMapValue:
		key, _ := runtime.KeyFor(&runtime.StringValue{Value: stmt.Field})
		object.Set(key, runtime.HashEntry{Key: &runtime.StringValue{Value: stmt.Field}, Value: value})
		return runtime.Null, nil
	default:
		return nil, runtime.NewError(runtime.TypeMismatch, "cannot assign member '%s' on %s", stmt.Field, object.Kind())
	}
}

func (i *Interpreter) evaluateIndexAssign(stmt *ast.IndexAssignStatement, env *runtime.Environment) (runtime.Value, error) {
	target, err := i.evaluateExpression(stmt.Target, env)
	if err != nil {
		return nil, err
	}
	index, err := i.evaluateExpression(stmt.Index, env)
	if err != nil {
		return nil, err
	}
	value, err := i.evaluateExpression(stmt.Value, env)
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
		target.Elements[idx.Value] = value
		return runtime.Null, nil
	case *runtime.HashMapValue:
		key, ok := runtime.KeyFor(index)
		if !ok {
			return nil, runtime.NewError(runtime.NotHashable, "%s is not hashable", index.Kind())
		}
		target.Set(key, runtime.HashEntry{Key: index, Value: value})
		return runtime.Null, nil
	default:
		return nil, runtime.NewError(runtime.NotIndexable, "cannot index-assign into %s", target.Kind())
	}
}
