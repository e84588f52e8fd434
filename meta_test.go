package basilisp

import (
	"testing"
)

func wantInt(t *testing.T, in *Interner, m Meta, v int64) {
	t.Helper()
	if !m.IsInt() {
		t.Fatalf("want int meta, got %s : %s", in.FormatMeta(m), typeName(m.Type()))
	}
	if m.AsInt() != v {
		t.Fatalf("want %d, got %d", v, m.AsInt())
	}
}

func wantFloat(t *testing.T, in *Interner, m Meta, v float64) {
	t.Helper()
	if !m.IsFloat() {
		t.Fatalf("want float meta, got %s : %s", in.FormatMeta(m), typeName(m.Type()))
	}
	if m.AsFloat() != v {
		t.Fatalf("want %v, got %v", v, m.AsFloat())
	}
}

func wantBool(t *testing.T, in *Interner, m Meta, v bool) {
	t.Helper()
	if !m.IsBool() {
		t.Fatalf("want bool meta, got %s : %s", in.FormatMeta(m), typeName(m.Type()))
	}
	if m.AsBool() != v {
		t.Fatalf("want %v, got %v", v, m.AsBool())
	}
}

func Test_Meta_Arithmetic(t *testing.T) {
	in := NewInterner()

	wantInt(t, in, in.Add(IntMeta(in.Int, 1), IntMeta(in.Int, 2)), 3)
	wantInt(t, in, in.Sub(IntMeta(in.Int, 1), IntMeta(in.Int, 2)), -1)
	wantInt(t, in, in.Mul(IntMeta(in.Int, 6), IntMeta(in.Int, 7)), 42)
	wantInt(t, in, in.Div(IntMeta(in.Int, 7), IntMeta(in.Int, 2)), 3)
	wantInt(t, in, in.Mod(IntMeta(in.Int, 7), IntMeta(in.Int, 3)), 1)

	// mixed operands promote to float
	wantFloat(t, in, in.Add(FloatMeta(in.Float, 1), IntMeta(in.Int, 2)), 3)
	wantFloat(t, in, in.Add(IntMeta(in.Int, 2), FloatMeta(in.Float, 1)), 3)
	wantFloat(t, in, in.Div(FloatMeta(in.Float, 1), FloatMeta(in.Float, 2)), 0.5)

	// float mod is floored
	wantFloat(t, in, in.Mod(FloatMeta(in.Float, -7.5), FloatMeta(in.Float, 2)), 0.5)

	// string + concatenates; other string arithmetic is absent
	s := in.Add(StringMeta(in.String, "ab"), StringMeta(in.String, "c"))
	if !s.IsString() || s.AsString() != "abc" {
		t.Fatalf("string add: got %#v", s)
	}
	if in.Sub(StringMeta(in.String, "ab"), StringMeta(in.String, "c")).OK() {
		t.Fatal("string sub should be absent")
	}

	// absent operands poison
	if in.Add(Meta{}, IntMeta(in.Int, 1)).OK() {
		t.Fatal("absent lhs should yield absent")
	}

	// incompatible operands have no join
	if in.Add(IntMeta(in.Int, 1), BoolMeta(in.Bool, true)).OK() {
		t.Fatal("int + bool should be absent")
	}

	// integer division by zero is absent, not a crash
	if in.Div(IntMeta(in.Int, 1), IntMeta(in.Int, 0)).OK() {
		t.Fatal("int division by zero should be absent")
	}
}

func Test_Meta_Truncation(t *testing.T) {
	in := NewInterner()
	i8 := in.NumberType(1, false)
	i16 := in.NumberType(2, false)

	if got := Trunc(300, i8); got != 44 {
		t.Fatalf("Trunc(300, i8) = %d", got)
	}
	if got := Trunc(-1, i8); got != -1 {
		t.Fatalf("Trunc(-1, i8) = %d", got)
	}
	if got := Trunc(0x12345, i16); got != 0x2345 {
		t.Fatalf("Trunc(0x12345, i16) = %#x", got)
	}
	if got := Trunc(1<<40, in.Int); got != 1<<40 {
		t.Fatalf("Trunc(1<<40, i64) = %d", got)
	}

	// arithmetic on narrow types operates at 64 bits and truncates the result
	m := in.Add(IntMeta(i8, 200), IntMeta(i8, 100))
	wantInt(t, in, m, 44)
	if m.Type() != i8 {
		t.Fatalf("result type = %s", m.Type())
	}
}

func Test_Meta_RuntimePropagation(t *testing.T) {
	in := NewInterner()
	rtInt := in.RuntimeType(in.Int)
	unbound := RuntimeMeta(rtInt, nil)

	if !unbound.Unbound() {
		t.Fatal("placeholder not recognized as unbound")
	}

	ops := []func(l, r Meta) Meta{in.Add, in.Sub, in.Mul, in.Div, in.Mod}
	for i, op := range ops {
		m := op(unbound, IntMeta(in.Int, 1))
		if !m.Unbound() || m.Type() != rtInt {
			t.Fatalf("op %d: want unbound (runtime i64), got %s : %s",
				i, in.FormatMeta(m), typeName(m.Type()))
		}
		m = op(IntMeta(in.Int, 1), unbound)
		if !m.Unbound() || m.Type() != rtInt {
			t.Fatalf("op %d (flipped): want unbound (runtime i64)", i)
		}
	}
}

func Test_Meta_Compare(t *testing.T) {
	in := NewInterner()

	wantBool(t, in, in.Less(IntMeta(in.Int, 1), IntMeta(in.Int, 2)), true)
	wantBool(t, in, in.Less(IntMeta(in.Int, 2), IntMeta(in.Int, 2)), false)
	wantBool(t, in, in.LessEqual(IntMeta(in.Int, 2), IntMeta(in.Int, 2)), true)
	wantBool(t, in, in.Greater(FloatMeta(in.Float, 2.5), IntMeta(in.Int, 2)), true)
	wantBool(t, in, in.GreaterEqual(IntMeta(in.Int, 1), IntMeta(in.Int, 2)), false)

	// strings compare lexicographically
	wantBool(t, in, in.Less(StringMeta(in.String, "ab"), StringMeta(in.String, "b")), true)

	wantBool(t, in, in.Equal(IntMeta(in.Int, 3), IntMeta(in.Int, 3)), true)
	wantBool(t, in, in.Inequal(IntMeta(in.Int, 3), IntMeta(in.Int, 4)), true)

	// equality is type identity first
	wantBool(t, in, in.Equal(IntMeta(in.Int, 3), FloatMeta(in.Float, 3)), false)

	if in.Less(IntMeta(in.Int, 1), BoolMeta(in.Bool, true)).OK() {
		t.Fatal("int < bool should be absent")
	}
}

func Test_Meta_Logic(t *testing.T) {
	in := NewInterner()
	tr := BoolMeta(in.Bool, true)
	fa := BoolMeta(in.Bool, false)

	wantBool(t, in, in.And(tr, fa), false)
	wantBool(t, in, in.Or(tr, fa), true)
	wantBool(t, in, in.Xor(tr, tr), false)
	wantBool(t, in, in.Xor(tr, fa), true)
	wantBool(t, in, in.Not(fa), true)

	// logic is defined only on bool
	if in.And(IntMeta(in.Int, 1), tr).OK() {
		t.Fatal("and on int should be absent")
	}
	if in.Not(IntMeta(in.Int, 1)).OK() {
		t.Fatal("not on int should be absent")
	}
}

func Test_Meta_Cast(t *testing.T) {
	in := NewInterner()

	m := in.Cast(IntMeta(in.Int, 3), in.Float)
	wantFloat(t, in, m, 3)
	m = in.Cast(FloatMeta(in.Float, 3.9), in.Int)
	wantInt(t, in, m, 3)

	// only explicit conversions cast
	if in.Cast(StringMeta(in.String, "x"), in.Int).OK() {
		t.Fatal("string→int cast should be absent")
	}

	// union and intersect meta ops are unimplemented and return absent
	if in.Union(IntMeta(in.Int, 1), IntMeta(in.Int, 2)).OK() {
		t.Fatal("union should be absent")
	}
	if in.Intersect(IntMeta(in.Int, 1), IntMeta(in.Int, 2)).OK() {
		t.Fatal("intersect should be absent")
	}
}

func Test_Meta_CopySharesClone(t *testing.T) {
	in := NewInterner()

	arr := ArrayMeta(in.SizedArrayType(in.Int, 2),
		NewMetaArray([]Meta{IntMeta(in.Int, 1), IntMeta(in.Int, 2)}))

	// value copies alias the payload
	cp := arr
	if cp.AsArray() != arr.AsArray() {
		t.Fatal("copy should share the array payload")
	}

	// clones do not, but stay structurally equal
	cl := arr.Clone()
	if cl.AsArray() == arr.AsArray() {
		t.Fatal("clone should not share the array payload")
	}
	if !cl.Equal(arr) {
		t.Fatal("clone should be structurally equal")
	}

	s := StringMeta(in.String, "hi")
	if s.Clone().AsString() != "hi" {
		t.Fatal("string clone lost its content")
	}
}

func Test_Meta_EqualityAndHash(t *testing.T) {
	in := NewInterner()

	a := ArrayMeta(in.SizedArrayType(in.Int, 2),
		NewMetaArray([]Meta{IntMeta(in.Int, 1), IntMeta(in.Int, 2)}))
	b := ArrayMeta(in.SizedArrayType(in.Int, 2),
		NewMetaArray([]Meta{IntMeta(in.Int, 1), IntMeta(in.Int, 2)}))
	c := ArrayMeta(in.SizedArrayType(in.Int, 2),
		NewMetaArray([]Meta{IntMeta(in.Int, 1), IntMeta(in.Int, 3)}))

	if !a.Equal(b) {
		t.Fatal("equal arrays not equal")
	}
	if a.Equal(c) {
		t.Fatal("unequal arrays equal")
	}
	if a.Hash() != b.Hash() {
		t.Fatal("equal arrays hash differently")
	}

	// symbols compare by id
	x1 := SymbolMeta(in.Symbol, in.SymbolID("x"))
	x2 := SymbolMeta(in.Symbol, in.SymbolID("x"))
	y := SymbolMeta(in.Symbol, in.SymbolID("y"))
	if !x1.Equal(x2) || x1.Equal(y) {
		t.Fatal("symbol equality broken")
	}

	// absent equals absent
	if !(Meta{}).Equal(Meta{}) {
		t.Fatal("absent should equal absent")
	}
}

func Test_Meta_IntersectMembers(t *testing.T) {
	in := NewInterner()
	xt := in.IntersectType([]*Type{in.Int, in.String})
	x := IntersectMeta(xt, NewMetaIntersect([]Meta{
		IntMeta(in.Int, 7),
		StringMeta(in.String, "seven"),
	}))

	// the member count is the number of real members
	if x.AsIntersect().Len() != 2 {
		t.Fatalf("intersect len = %d", x.AsIntersect().Len())
	}
	wantInt(t, in, x.AsIntersect().As(in.Int), 7)
	if got := x.AsIntersect().As(in.String).AsString(); got != "seven" {
		t.Fatalf("intersect string member = %q", got)
	}
	if x.AsIntersect().As(in.Float).OK() {
		t.Fatal("missing member should be absent")
	}
	if got := in.FormatMeta(x); got != "(& 7 seven)" {
		t.Fatalf("intersect format = %q", got)
	}
}

func Test_Meta_Format(t *testing.T) {
	in := NewInterner()

	cases := []struct {
		m    Meta
		want string
	}{
		{Meta{}, "<undefined>"},
		{NewMeta(in.Void), "()"},
		{IntMeta(in.Int, 42), "42"},
		{FloatMeta(in.Float, 3), "3.0"},
		{FloatMeta(in.Float, 2.5), "2.5"},
		{CharMeta(in.Char, 'q'), "q"},
		{BoolMeta(in.Bool, true), "true"},
		{StringMeta(in.String, "hi"), "hi"},
		{SymbolMeta(in.Symbol, in.SymbolID("sym")), "sym"},
		{TypeMeta(in.Type, in.Int), "i64"},
		{RuntimeMeta(in.RuntimeType(in.Int), nil), "<unknown>"},
	}
	for _, c := range cases {
		if got := in.FormatMeta(c.m); got != c.want {
			t.Fatalf("format: want %q, got %q", c.want, got)
		}
	}

	arr := ArrayMeta(in.SizedArrayType(in.Int, 3), NewMetaArray([]Meta{
		IntMeta(in.Int, 1), IntMeta(in.Int, 2), IntMeta(in.Int, 3),
	}))
	if got := in.FormatMeta(arr); got != "[1 2 3]" {
		t.Fatalf("array format = %q", got)
	}
}

func Test_Meta_Assign(t *testing.T) {
	in := NewInterner()
	dst := IntMeta(in.Int, 1)
	Assign(&dst, StringMeta(in.String, "now a string"))
	if !dst.IsString() || dst.AsString() != "now a string" {
		t.Fatal("assign did not replace the value")
	}
}
