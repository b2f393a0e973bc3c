package interpreter

import (
	"testing"

	"giulio/interpreter-go/pkg/runtime"
)

func TestPrintConcatenatesWithoutSeparator(t *testing.T) {
	_, out := evalSource(t, `print("a", 1, true, null);`)
	if out != "a1truenull" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestPrintlnRendersComposites(t *testing.T) {
	_, out := evalSource(t, `println([1, "two", [3]]);`)
	if out != "[1, \"two\", [3]]\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestLenMatchesMethodForm(t *testing.T) {
	result, _ := evalSource(t, `len("héllo") == "héllo".len();`)
	if result != runtime.True {
		t.Fatalf("len and .len must agree")
	}
	result, _ = evalSource(t, `len("héllo");`)
	wantInt(t, result, 5)
}

func TestTypeBuiltin(t *testing.T) {
	cases := map[string]string{
		`type(1);`:         "Integer",
		`type("s");`:       "String",
		`type(true);`:      "Boolean",
		`type(null);`:      "Null",
		`type([1]);`:       "Array",
		`type({});`:        "HashMap",
		`type(fn(x) { });`: "Function",
		`type(len);`:       "Builtin",
	}
	for source, want := range cases {
		result, _ := evalSource(t, source)
		if result.(*runtime.StringValue).Value != want {
			t.Fatalf("%s: expected %s, got %#v", source, want, result)
		}
	}
}

func TestHeadTailConsAreNonDestructive(t *testing.T) {
	_, out := evalSource(t, `
		let a = [1, 2, 3];
		println(head(a));
		println(tail(a));
		println(cons(0, a));
		println(a);
	`)
	if out != "1\n[2, 3]\n[0, 1, 2, 3]\n[1, 2, 3]\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestPushMutatesSharedArray(t *testing.T) {
	_, out := evalSource(t, `
		let a = [1];
		let b = a;
		push(a, 2);
		b.push(3);
		println(a);
	`)
	if out != "[1, 2, 3]\n" {
		t.Fatalf("push must mutate shared storage, got %q", out)
	}
}

func TestSliceClampsBounds(t *testing.T) {
	_, out := evalSource(t, `
		println(slice([1, 2, 3, 4], 1, 3));
		println(slice("hello", 1, 99));
		println(slice([1, 2], 5));
	`)
	if out != "[2, 3]\nello\n[]\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSliceClampsNegativeBounds(t *testing.T) {
	_, out := evalSource(t, `
		println(slice("abc", 0, -5));
		println(slice("abc", -2, 2));
		println(slice([1, 2, 3], -4, -1));
	`)
	if out != "\nab\n[]\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestStringBuiltins(t *testing.T) {
	_, out := evalSource(t, `
		println(split("a,b,c", ","));
		println(replace("aaa", "a", "b"));
		println(trim("  x  "));
		println(contains("hello", "ell"));
		println(contains([1, 2], 3));
	`)
	if out != "[\"a\", \"b\", \"c\"]\nbbb\nx\ntrue\nfalse\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestStringMethods(t *testing.T) {
	_, out := evalSource(t, `
		println("  Ada  ".trim().to_upper());
		println("hello".starts_with("he"));
		println("42".to_int() + 1);
	`)
	if out != "ADA\ntrue\n43\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestHashBuiltinsAndMethods(t *testing.T) {
	_, out := evalSource(t, `
		let h = {"b": 2, "a": 1};
		println(keys(h));
		println(values(h));
		h.set("c", 3);
		println(h.get("c"));
		println(h.remove("a"));
		println(h.has("a"));
		println(h.get("missing"));
		println(len(h));
	`)
	if out != "[\"b\", \"a\"]\n[2, 1]\n3\n1\nfalse\nnull\n2\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestIntegerMethods(t *testing.T) {
	_, out := evalSource(t, `
		println(5.pow(3));
		println(0 - 4);
		println(7.min(3).max(5));
	`)
	if out != "125\n-4\n5\n" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestArityErrors(t *testing.T) {
	evalError(t, "len();", runtime.WrongArgumentCount)
	evalError(t, "len(1, 2);", runtime.WrongArgumentCount)
	evalError(t, `"x".len(1);`, runtime.WrongArgumentCount)
}

func TestJoinAndReverseMethods(t *testing.T) {
	_, out := evalSource(t, `
		println([1, 2, 3].join("-"));
		println([1, 2, 3].reverse());
	`)
	if out != "1-2-3\n[3, 2, 1]\n" {
		t.Fatalf("unexpected output %q", out)
	}
}
