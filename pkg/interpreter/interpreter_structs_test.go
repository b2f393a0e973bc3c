package interpreter

import (
	"testing"

	"giulio/interpreter-go/pkg/runtime"
)

const personSource = `
	struct Person {
		name: "unknown",
		age: 0,
		greet: fn() {
			return "Hello, I'm " + this.name;
		},
		birthday: fn() {
			this.age = this.age + 1;
			return this.age;
		}
	}
`

func TestStructDefaultsAndOverrides(t *testing.T) {
	_, out := evalSource(t, personSource+`
		let p = Person { name: "John" };
		println(p.name);
		println(p.age);
	`)
	if out != "John\n0\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestMethodBindsThis(t *testing.T) {
	_, out := evalSource(t, personSource+`
		let p = Person { name: "John", age: 30 };
		println(p.greet());
	`)
	if out != "Hello, I'm John\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestMethodMutationVisibleThroughAliases(t *testing.T) {
	result, _ := evalSource(t, personSource+`
		let p = Person { age: 30 };
		let q = p;
		q.birthday();
		p.age;
	`)
	wantInt(t, result, 31)
}

func TestFieldAssignmentMutatesSharedStorage(t *testing.T) {
	_, out := evalSource(t, personSource+`
		let p = Person {};
		let q = p;
		q.name = "Ada";
		println(p.name);
	`)
	if out != "Ada\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestUnknownLiteralFieldIsAnError(t *testing.T) {
	evalError(t, personSource+`Person { email: "x" };`, runtime.UndefinedMember)
}

func TestUnknownFieldAssignIsAnError(t *testing.T) {
	evalError(t, personSource+`
		let p = Person {};
		p.email = "x";
	`, runtime.UndefinedMember)
}

func TestInstanceEqualityIsIdentity(t *testing.T) {
	result, _ := evalSource(t, personSource+`
		let p = Person { name: "a" };
		let q = Person { name: "a" };
		let r = p;
		[p == q, p == r];
	`)
	arr := result.(*runtime.ArrayValue)
	if arr.Elements[0] != runtime.False || arr.Elements[1] != runtime.True {
		t.Fatalf("instances must compare by identity, got %#v", arr.Elements)
	}
}

func TestMethodsSeeDefinitionScopeNotCallScope(t *testing.T) {
	_, out := evalSource(t, `
		let suffix = "!";
		struct Shouter {
			word: "hey",
			shout: fn() {
				return this.word + suffix;
			}
		}
		fn elsewhere() {
			let suffix = "???";
			let s = Shouter {};
			return s.shout();
		}
		println(elsewhere());
	`)
	if out != "hey!\n" {
		t.Fatalf("method closed over the wrong scope: %q", out)
	}
}

func TestStructInspectForm(t *testing.T) {
	result, _ := evalSource(t, personSource+`Person { name: "Ada", age: 1 };`)
	rendered := Inspect(result)
	if rendered != `Person { name: "Ada", age: 1 }` {
		t.Fatalf("unexpected rendering %q", rendered)
	}
}

func TestDefaultsCapturedAtDeclaration(t *testing.T) {
	result, _ := evalSource(t, `
		let n = 1;
		struct S {
			x: n
		}
		n = 2;
		let s = S {};
		s.x;
	`)
	wantInt(t, result, 1)
}

func TestDefaultsUsableOutsideDefiningScope(t *testing.T) {
	result, _ := evalSource(t, `
		fn make_def() {
			let hidden = 7;
			struct T {
				x: hidden
			}
			return T;
		}
		let T = make_def();
		let t = T {};
		t.x;
	`)
	wantInt(t, result, 7)
}

func TestFunctionValuedFieldIsCallable(t *testing.T) {
	result, _ := evalSource(t, `
		struct Box {
			op: null
		}
		let b = Box { op: fn(x) { return x * 2; } };
		b.op(21);
	`)
	wantInt(t, result, 42)
}
