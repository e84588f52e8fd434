// types.go: the type lattice.
//
// Every value carries a *Type drawn from nine kinds. Types are hash-consed:
// each is interned under its mangle string (see Mangle), so semantically equal
// types are pointer-equal and all references are non-owning. Conversion is
// split into implicit compatibility (assignment, argument passing) and
// explicit casts; Join computes the common type driving binary-op promotion.
package basilisp

import (
	"strconv"
	"strings"
)

type Kind uint8

const (
	KindType Kind = iota
	KindNumber
	KindFunction
	KindMacro
	KindArray
	KindSum
	KindIntersect
	KindNamed
	KindRuntime
)

// Type is one interned node of the lattice. Which fields are meaningful
// depends on the kind; the zero fields of other kinds are never read.
// Instances are built only through the Interner constructors, which is what
// keeps pointer equality equivalent to semantic equality.
type Type struct {
	kind Kind
	size int // byte width

	floating bool // KindNumber

	args []*Type // KindFunction, KindMacro
	ret  *Type   // KindFunction, KindMacro

	elem  *Type // KindArray
	count int64 // KindArray; -1 = unsized

	members []*Type // KindSum, KindIntersect; sorted by mangle

	name  string // KindNamed
	inner *Type  // KindNamed, KindRuntime
}

func (t *Type) Kind() Kind       { return t.kind }
func (t *Type) Size() int        { return t.size }
func (t *Type) Floating() bool   { return t.floating }
func (t *Type) Args() []*Type    { return t.args }
func (t *Type) Ret() *Type       { return t.ret }
func (t *Type) Elem() *Type      { return t.elem }
func (t *Type) Count() int64     { return t.count }
func (t *Type) Members() []*Type { return t.members }
func (t *Type) Name() string     { return t.name }
func (t *Type) Inner() *Type     { return t.inner }

// Mangle is the canonical encoding used as the intern key.
func (t *Type) Mangle() string {
	switch t.kind {
	case KindType:
		return "@" + strconv.Itoa(t.size*8)
	case KindNumber:
		if t.floating {
			return "F" + strconv.Itoa(t.size*8)
		}
		return "I" + strconv.Itoa(t.size*8)
	case KindFunction:
		return "L" + t.ret.Mangle() + "(" + mangleList(t.args) + ")"
	case KindMacro:
		return "M" + t.ret.Mangle() + "(" + mangleList(t.args) + ")"
	case KindArray:
		count := ""
		if t.count > -1 {
			count = strconv.FormatInt(t.count, 10)
		}
		return "A" + t.elem.Mangle() + "[" + count + "]"
	case KindSum:
		return "|(" + mangleList(t.members) + ")"
	case KindIntersect:
		return "&(" + mangleList(t.members) + ")"
	case KindNamed:
		return "N" + t.name + t.inner.Mangle()
	case KindRuntime:
		return "?" + t.inner.Mangle()
	}
	return ""
}

func mangleList(ts []*Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.Mangle()
	}
	return strings.Join(parts, ",")
}

func containsType(ts []*Type, t *Type) bool {
	for _, m := range ts {
		if m == t {
			return true
		}
	}
	return false
}

// Implicitly reports whether a value of type a can appear where b is
// expected without a cast.
func (in *Interner) Implicitly(a, b *Type) bool {
	if a == nil || b == nil {
		return false
	}
	switch a.kind {
	case KindNumber:
		return in.baseImplicitly(a, b) ||
			(b.kind == KindNumber && b.floating == a.floating)
	case KindArray:
		return in.baseImplicitly(a, b) ||
			(b.kind == KindArray && b.count == -1 && b.elem == a.elem)
	case KindIntersect:
		return in.baseImplicitly(a, b) || containsType(a.members, b)
	case KindRuntime:
		// runtime is transparent for compatibility
		return in.Implicitly(a.inner, b)
	}
	return in.baseImplicitly(a, b)
}

// baseImplicitly holds the rules shared by every kind: identity, the Any top
// type, a runtime-wrapped target, and sum membership.
func (in *Interner) baseImplicitly(a, b *Type) bool {
	if a == b || b == in.Any {
		return true
	}
	if b.kind == KindRuntime && in.Implicitly(a, b.inner) {
		return true
	}
	if b.kind == KindSum && containsType(b.members, a) {
		return true
	}
	return false
}

// Explicitly reports whether a value of type a can be cast to b. Everything
// implicit is explicit; numbers additionally cast freely between int and
// float, a sum or intersect casts to any of its members, and a named type
// casts through its inner type.
func (in *Interner) Explicitly(a, b *Type) bool {
	if a == nil || b == nil {
		return false
	}
	switch a.kind {
	case KindNumber:
		return in.Implicitly(a, b) || b.kind == KindNumber
	case KindSum:
		return in.Implicitly(a, b) || containsType(a.members, b)
	case KindIntersect:
		return in.Implicitly(a, b) || containsType(a.members, b)
	case KindNamed:
		return in.Implicitly(a, b) || in.Explicitly(a.inner, b)
	case KindRuntime:
		return in.Explicitly(a.inner, b)
	}
	return in.Implicitly(a, b)
}

// Join computes the common type for a binary operation, or nil when the
// operands are incompatible. A runtime-typed side wins when the other side
// converts into it; mixed int/float pairs promote to the floating side.
func (in *Interner) Join(a, b *Type) *Type {
	if a == in.Undefined || b == in.Undefined {
		return in.Undefined
	}
	if a == b {
		return a
	}
	if b.kind == KindRuntime && in.Implicitly(a, b) {
		return b
	}
	if a.kind == KindRuntime && in.Implicitly(b, a) {
		return a
	}
	if in.Implicitly(a, b) {
		return b
	}
	if in.Implicitly(b, a) {
		return a
	}
	if a.kind == KindNumber && b.kind == KindNumber && a.floating != b.floating {
		if a.floating {
			return a
		}
		return b
	}
	if in.Explicitly(a, b) {
		return b
	}
	if in.Explicitly(b, a) {
		return a
	}
	return nil
}
