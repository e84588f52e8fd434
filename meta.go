// meta.go: the tagged compile-time value.
//
// A Meta is a non-owning *Type tag plus a payload selected by the type's kind
// (and, for numbers, the floating flag). Scalars live inline; strings, arrays,
// sum inhabitants, intersect members, and functions live behind shared
// pointers, so copying a Meta aliases the payload and Clone is the only deep
// copy. The zero Meta is "absent": it reports no type, converts to false, and
// doubles as the error signal throughout the evaluator.
//
// The arithmetic, comparison, and cast operations live here as Interner
// methods because they consult Join and the built-in type identities. All of
// them return absent rather than failing loudly; callers report.
package basilisp

import (
	"math"
)

type Meta struct {
	typ *Type
	i   int64   // integer, symbol id
	f   float64 // float
	c   rune    // char
	b   bool    // bool
	t   *Type   // type value
	// data holds the shared payload for string/array/sum/intersect/function
	// kinds and the runtime Node (nil = unbound placeholder).
	data any
}

// Constructors. The type tag is taken on faith; the evaluator only builds
// metas whose payload matches the tag's kind.

func NewMeta(typ *Type) Meta               { return Meta{typ: typ} }
func IntMeta(typ *Type, v int64) Meta      { return Meta{typ: typ, i: v} }
func FloatMeta(typ *Type, v float64) Meta  { return Meta{typ: typ, f: v} }
func CharMeta(typ *Type, v rune) Meta      { return Meta{typ: typ, c: v} }
func BoolMeta(typ *Type, v bool) Meta      { return Meta{typ: typ, b: v} }
func TypeMeta(typ *Type, v *Type) Meta     { return Meta{typ: typ, t: v} }
func SymbolMeta(typ *Type, id int64) Meta  { return Meta{typ: typ, i: id} }

func StringMeta(typ *Type, s string) Meta {
	return Meta{typ: typ, data: &MetaString{s: s}}
}

func ArrayMeta(typ *Type, a *MetaArray) Meta         { return Meta{typ: typ, data: a} }
func UnionMeta(typ *Type, u *MetaUnion) Meta         { return Meta{typ: typ, data: u} }
func IntersectMeta(typ *Type, x *MetaIntersect) Meta { return Meta{typ: typ, data: x} }
func FunctionMeta(typ *Type, f *MetaFunction) Meta   { return Meta{typ: typ, data: f} }

// RuntimeMeta tags a deferred value. A nil node is the unbound placeholder
// marking a lambda argument slot.
func RuntimeMeta(typ *Type, n Node) Meta {
	if n == nil {
		return Meta{typ: typ}
	}
	return Meta{typ: typ, data: n}
}

// OK reports whether the meta carries a value at all.
func (m Meta) OK() bool {
	return m.typ != nil
}

func (m Meta) Type() *Type {
	return m.typ
}

func (m Meta) isNamed(name string) bool {
	return m.typ != nil && m.typ.kind == KindNamed && m.typ.name == name
}

func (m Meta) IsVoid() bool   { return m.isNamed("void") }
func (m Meta) IsChar() bool   { return m.isNamed("char") }
func (m Meta) IsType() bool   { return m.isNamed("type") }
func (m Meta) IsBool() bool   { return m.isNamed("bool") }
func (m Meta) IsSymbol() bool { return m.isNamed("symbol") }
func (m Meta) IsString() bool { return m.isNamed("string") }

func (m Meta) IsInt() bool {
	return m.typ != nil && m.typ.kind == KindNumber && !m.typ.floating
}

func (m Meta) IsFloat() bool {
	return m.typ != nil && m.typ.kind == KindNumber && m.typ.floating
}

func (m Meta) IsArray() bool     { return m.typ != nil && m.typ.kind == KindArray }
func (m Meta) IsUnion() bool     { return m.typ != nil && m.typ.kind == KindSum }
func (m Meta) IsIntersect() bool { return m.typ != nil && m.typ.kind == KindIntersect }
func (m Meta) IsFunction() bool  { return m.typ != nil && m.typ.kind == KindFunction }
func (m Meta) IsRuntime() bool   { return m.typ != nil && m.typ.kind == KindRuntime }

func (m Meta) AsInt() int64      { return m.i }
func (m Meta) AsFloat() float64  { return m.f }
func (m Meta) AsChar() rune      { return m.c }
func (m Meta) AsBool() bool      { return m.b }
func (m Meta) AsType() *Type     { return m.t }
func (m Meta) AsSymbol() int64   { return m.i }

func (m Meta) AsString() string {
	return m.data.(*MetaString).s
}

func (m Meta) AsArray() *MetaArray         { return m.data.(*MetaArray) }
func (m Meta) AsUnion() *MetaUnion         { return m.data.(*MetaUnion) }
func (m Meta) AsIntersect() *MetaIntersect { return m.data.(*MetaIntersect) }
func (m Meta) AsFunction() *MetaFunction   { return m.data.(*MetaFunction) }

// AsRuntime returns the deferred node, or nil for the unbound placeholder.
func (m Meta) AsRuntime() Node {
	if n, ok := m.data.(Node); ok {
		return n
	}
	return nil
}

// Unbound reports whether m is the unbound runtime placeholder: the sole
// signal identifying a lambda argument slot.
func (m Meta) Unbound() bool {
	return m.IsRuntime() && m.data == nil
}

// Clone deep-copies shared payloads; inline payloads copy trivially.
func (m Meta) Clone() Meta {
	switch {
	case m.IsString():
		return StringMeta(m.typ, m.AsString())
	case m.IsArray():
		vals := make([]Meta, m.AsArray().Len())
		for i := range vals {
			vals[i] = m.AsArray().At(i).Clone()
		}
		return ArrayMeta(m.typ, NewMetaArray(vals))
	case m.IsUnion():
		return UnionMeta(m.typ, NewMetaUnion(m.AsUnion().Value()))
	case m.IsIntersect():
		vals := make([]Meta, m.AsIntersect().Len())
		for i := range vals {
			vals[i] = m.AsIntersect().vals[i].Clone()
		}
		return IntersectMeta(m.typ, NewMetaIntersect(vals))
	case m.IsFunction():
		f := m.AsFunction()
		clone := &MetaFunction{fn: f.fn, builtin: f.builtin, args: append([]int(nil), f.args...)}
		if f.local != nil {
			clone.local = f.local.Fork()
		}
		return FunctionMeta(m.typ, clone)
	}
	return m
}

// Equal is structural: type identity first, then payload equality. Functions
// compare by body-node identity, runtime values by node identity.
func (m Meta) Equal(o Meta) bool {
	if m.typ != o.typ {
		return false
	}
	if m.typ == nil {
		return true
	}
	switch {
	case m.IsVoid():
		return true
	case m.IsInt():
		return m.i == o.i
	case m.IsFloat():
		return m.f == o.f
	case m.IsChar():
		return m.c == o.c
	case m.IsType():
		return m.t == o.t
	case m.IsBool():
		return m.b == o.b
	case m.IsSymbol():
		return m.i == o.i
	case m.IsString():
		return m.AsString() == o.AsString()
	case m.IsArray():
		a, b := m.AsArray(), o.AsArray()
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !a.At(i).Equal(b.At(i)) {
				return false
			}
		}
		return true
	case m.IsUnion():
		return m.AsUnion().Value().Equal(o.AsUnion().Value())
	case m.IsIntersect():
		for _, t := range m.typ.members {
			if !m.AsIntersect().As(t).Equal(o.AsIntersect().As(t)) {
				return false
			}
		}
		return true
	case m.IsFunction():
		return m.AsFunction().fn == o.AsFunction().fn
	case m.IsRuntime():
		return m.data == o.data
	}
	return true
}

// Hash mixes the type's mangle with the payload. Aggregates XOR their
// members' hashes.
func (m Meta) Hash() uint64 {
	if m.typ == nil {
		return hashString("<undefined>")
	}
	h := hashString(m.typ.Mangle())
	switch {
	case m.IsVoid():
	case m.IsInt(), m.IsSymbol():
		h ^= hashUint(uint64(m.i))
	case m.IsFloat():
		h ^= hashUint(math.Float64bits(m.f))
	case m.IsChar():
		h ^= hashUint(uint64(m.c))
	case m.IsType():
		h ^= hashString(m.t.Mangle())
	case m.IsBool():
		if m.b {
			h ^= hashUint(1)
		}
	case m.IsString():
		h ^= hashString(m.AsString())
	case m.IsArray():
		for i := 0; i < m.AsArray().Len(); i++ {
			h ^= m.AsArray().At(i).Hash()
		}
	case m.IsUnion():
		h ^= m.AsUnion().Value().Hash()
	case m.IsIntersect():
		for _, v := range m.AsIntersect().vals {
			h ^= v.Hash()
		}
	}
	return h
}

const (
	fnvOffset = 14695981039346656037
	fnvPrime  = 1099511628211
)

func hashString(s string) uint64 {
	h := uint64(fnvOffset)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= fnvPrime
	}
	return h
}

func hashUint(v uint64) uint64 {
	h := uint64(fnvOffset)
	for i := 0; i < 8; i++ {
		h ^= v >> (8 * i) & 0xff
		h *= fnvPrime
	}
	return h
}

// --- shared payloads --------------------------------------------------------

type MetaString struct {
	s string
}

func (s *MetaString) Str() string { return s.s }

type MetaArray struct {
	vals []Meta
}

func NewMetaArray(vals []Meta) *MetaArray {
	return &MetaArray{vals: vals}
}

func (a *MetaArray) Len() int         { return len(a.vals) }
func (a *MetaArray) At(i int) Meta    { return a.vals[i] }
func (a *MetaArray) Values() []Meta   { return a.vals }

// MetaUnion holds the single inhabitant of a sum-typed value.
type MetaUnion struct {
	real Meta
}

func NewMetaUnion(v Meta) *MetaUnion {
	return &MetaUnion{real: v}
}

func (u *MetaUnion) Value() Meta { return u.real }

func (u *MetaUnion) Is(in *Interner, t *Type) bool {
	return in.Explicitly(u.real.typ, t)
}

// MetaIntersect holds one value per member type of an intersect-typed value.
type MetaIntersect struct {
	vals []Meta
}

func NewMetaIntersect(vals []Meta) *MetaIntersect {
	return &MetaIntersect{vals: vals}
}

// Len is the number of real members.
func (x *MetaIntersect) Len() int { return len(x.vals) }

// As selects the member with the given type, or absent when there is none.
func (x *MetaIntersect) As(t *Type) Meta {
	for _, v := range x.vals {
		if v.typ == t {
			return v
		}
	}
	return Meta{}
}

// MetaFunction is either a built-in macro or a user closure: a body node,
// the indices of the argument slots in the captured local environment, and
// that environment.
type MetaFunction struct {
	fn      Node
	builtin Builtin
	args    []int
	local   *Env
}

func NewMetaFunction(fn Node, args []int, local *Env) *MetaFunction {
	return &MetaFunction{fn: fn, args: args, local: local}
}

func BuiltinFunction(b Builtin) *MetaFunction {
	return &MetaFunction{builtin: b}
}

func (f *MetaFunction) Function() Node   { return f.fn }
func (f *MetaFunction) Builtin() Builtin { return f.builtin }
func (f *MetaFunction) Local() *Env      { return f.local }

// Arg returns the i-th argument slot of the captured environment.
func (f *MetaFunction) Arg(i int) *Entry {
	return f.local.Entry(f.args[i])
}

// --- operations -------------------------------------------------------------

// Trunc reduces a 64-bit result to the destination type's width, keeping the
// type's signedness.
func Trunc(n int64, dst *Type) int64 {
	switch dst.size {
	case 1:
		return int64(int8(n))
	case 2:
		return int64(int16(n))
	case 4:
		return int64(int32(n))
	}
	return n
}

func toFloat(m Meta) float64 {
	switch {
	case m.IsFloat():
		return m.f
	case m.IsInt():
		return float64(m.i)
	}
	return 0
}

func toInt(m Meta) int64 {
	switch {
	case m.IsInt():
		return m.i
	case m.IsFloat():
		return int64(m.f)
	}
	return 0
}

// numericDst joins the operand types and handles the deferred case: when the
// joined type is runtime and either operand is the unbound placeholder, the
// result is a fresh unbound placeholder of the joined type.
func (in *Interner) numericDst(l, r Meta) (dst *Type, deferred Meta, ok bool) {
	if !l.OK() || !r.OK() {
		return nil, Meta{}, false
	}
	dst = in.Join(l.typ, r.typ)
	if dst == nil {
		return nil, Meta{}, false
	}
	if dst.kind == KindRuntime && (l.Unbound() || r.Unbound()) {
		return dst, RuntimeMeta(dst, nil), true
	}
	return dst, Meta{}, true
}

func (in *Interner) Add(l, r Meta) Meta {
	dst, deferred, ok := in.numericDst(l, r)
	if !ok {
		return Meta{}
	}
	if deferred.OK() {
		return deferred
	}
	switch {
	case dst.kind == KindNumber && dst.floating:
		return FloatMeta(dst, toFloat(l)+toFloat(r))
	case dst.kind == KindNumber:
		return IntMeta(dst, Trunc(toInt(l)+toInt(r), dst))
	case dst == in.String:
		return StringMeta(dst, l.AsString()+r.AsString())
	}
	return Meta{}
}

func (in *Interner) Sub(l, r Meta) Meta {
	dst, deferred, ok := in.numericDst(l, r)
	if !ok {
		return Meta{}
	}
	if deferred.OK() {
		return deferred
	}
	switch {
	case dst.kind == KindNumber && dst.floating:
		return FloatMeta(dst, toFloat(l)-toFloat(r))
	case dst.kind == KindNumber:
		return IntMeta(dst, Trunc(toInt(l)-toInt(r), dst))
	}
	return Meta{}
}

func (in *Interner) Mul(l, r Meta) Meta {
	dst, deferred, ok := in.numericDst(l, r)
	if !ok {
		return Meta{}
	}
	if deferred.OK() {
		return deferred
	}
	switch {
	case dst.kind == KindNumber && dst.floating:
		return FloatMeta(dst, toFloat(l)*toFloat(r))
	case dst.kind == KindNumber:
		return IntMeta(dst, Trunc(toInt(l)*toInt(r), dst))
	}
	return Meta{}
}

func (in *Interner) Div(l, r Meta) Meta {
	dst, deferred, ok := in.numericDst(l, r)
	if !ok {
		return Meta{}
	}
	if deferred.OK() {
		return deferred
	}
	switch {
	case dst.kind == KindNumber && dst.floating:
		return FloatMeta(dst, toFloat(l)/toFloat(r))
	case dst.kind == KindNumber:
		if toInt(r) == 0 {
			return Meta{}
		}
		return IntMeta(dst, Trunc(toInt(l)/toInt(r), dst))
	}
	return Meta{}
}

// Mod on floats is floored: l − r·floor(l/r).
func (in *Interner) Mod(l, r Meta) Meta {
	dst, deferred, ok := in.numericDst(l, r)
	if !ok {
		return Meta{}
	}
	if deferred.OK() {
		return deferred
	}
	switch {
	case dst.kind == KindNumber && dst.floating:
		lf, rf := toFloat(l), toFloat(r)
		return FloatMeta(dst, lf-rf*math.Floor(lf/rf))
	case dst.kind == KindNumber:
		if toInt(r) == 0 {
			return Meta{}
		}
		return IntMeta(dst, Trunc(toInt(l)%toInt(r), dst))
	}
	return Meta{}
}

func (in *Interner) And(l, r Meta) Meta {
	if !l.IsBool() || !r.IsBool() {
		return Meta{}
	}
	return BoolMeta(in.Bool, l.b && r.b)
}

func (in *Interner) Or(l, r Meta) Meta {
	if !l.IsBool() || !r.IsBool() {
		return Meta{}
	}
	return BoolMeta(in.Bool, l.b || r.b)
}

func (in *Interner) Xor(l, r Meta) Meta {
	if !l.IsBool() || !r.IsBool() {
		return Meta{}
	}
	return BoolMeta(in.Bool, l.b != r.b)
}

func (in *Interner) Not(m Meta) Meta {
	if !m.IsBool() {
		return Meta{}
	}
	return BoolMeta(in.Bool, !m.b)
}

func (in *Interner) Equal(l, r Meta) Meta {
	if !l.OK() || !r.OK() {
		return Meta{}
	}
	return BoolMeta(in.Bool, l.Equal(r))
}

func (in *Interner) Inequal(l, r Meta) Meta {
	if !l.OK() || !r.OK() {
		return Meta{}
	}
	return BoolMeta(in.Bool, !l.Equal(r))
}

// compare implements the four ordering operations: numeric through Join,
// lexicographic on strings.
func (in *Interner) compare(l, r Meta, lt, eq bool) Meta {
	if !l.OK() || !r.OK() {
		return Meta{}
	}
	dst := in.Join(l.typ, r.typ)
	if dst == nil {
		return Meta{}
	}
	var c int
	switch {
	case dst.kind == KindNumber && dst.floating:
		lf, rf := toFloat(l), toFloat(r)
		c = cmpFloat(lf, rf)
	case dst.kind == KindNumber:
		li, ri := toInt(l), toInt(r)
		c = cmpInt(li, ri)
	case dst == in.String:
		ls, rs := l.AsString(), r.AsString()
		c = cmpString(ls, rs)
	default:
		return Meta{}
	}
	if lt {
		return BoolMeta(in.Bool, c < 0 || (eq && c == 0))
	}
	return BoolMeta(in.Bool, c > 0 || (eq && c == 0))
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (in *Interner) Less(l, r Meta) Meta         { return in.compare(l, r, true, false) }
func (in *Interner) LessEqual(l, r Meta) Meta    { return in.compare(l, r, true, true) }
func (in *Interner) Greater(l, r Meta) Meta      { return in.compare(l, r, false, false) }
func (in *Interner) GreaterEqual(l, r Meta) Meta { return in.compare(l, r, false, true) }

// Union and Intersect are unimplemented meta operations; they return absent.
func (in *Interner) Union(l, r Meta) Meta     { return Meta{} }
func (in *Interner) Intersect(l, r Meta) Meta { return Meta{} }

// Assign replaces dst with a value copy of src.
func Assign(dst *Meta, src Meta) {
	*dst = src
}

// Cast converts m to dst when the conversion is explicit. Only numeric
// conversions carry a value change; anything else is absent.
func (in *Interner) Cast(m Meta, dst *Type) Meta {
	if !m.OK() || dst == nil {
		return Meta{}
	}
	if !in.Explicitly(m.typ, dst) {
		return Meta{}
	}
	switch {
	case dst.kind == KindNumber && dst.floating:
		return FloatMeta(dst, toFloat(m))
	case dst.kind == KindNumber:
		return IntMeta(dst, Trunc(toInt(m), dst))
	}
	return Meta{}
}
