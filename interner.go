// interner.go: the process-wide tables behind types and symbols, owned by one
// Interp. Every type constructor funnels through intern, which returns the
// existing instance when an equal type was built before; symbol names map to
// dense 64-bit ids assigned on first mention. Neither table is safe for
// concurrent mutation; the evaluator is single-threaded by design.
package basilisp

import "sort"

type Interner struct {
	types map[string]*Type

	symbolIDs   map[string]int64
	symbolNames []string

	// Built-in interned types. The named ones wrap a bare Type of the
	// stated width.
	Int       *Type // i64
	Float     *Type // f64
	String    *Type
	Char      *Type
	Symbol    *Type
	Any       *Type
	Void      *Type
	Type      *Type
	Bool      *Type
	Undefined *Type
}

func NewInterner() *Interner {
	in := &Interner{
		types:     map[string]*Type{},
		symbolIDs: map[string]int64{},
	}
	in.Int = in.NumberType(8, false)
	in.Float = in.NumberType(8, true)
	in.String = in.NamedType("string", in.BareType(8))
	in.Char = in.NamedType("char", in.BareType(4))
	in.Symbol = in.NamedType("symbol", in.BareType(4))
	in.Any = in.NamedType("any", in.BareType(0))
	in.Void = in.NamedType("void", in.BareType(0))
	in.Type = in.NamedType("type", in.BareType(4))
	in.Bool = in.NamedType("bool", in.BareType(1))
	in.Undefined = in.NamedType("undefined", in.BareType(0))
	return in
}

// intern returns the canonical instance for t's mangle, registering t if it
// is the first with that key.
func (in *Interner) intern(t *Type) *Type {
	key := t.Mangle()
	if have, ok := in.types[key]; ok {
		return have
	}
	in.types[key] = t
	return t
}

// BareType is an unadorned type of the given byte width (the TYPE kind).
func (in *Interner) BareType(size int) *Type {
	return in.intern(&Type{kind: KindType, size: size})
}

func (in *Interner) NumberType(size int, floating bool) *Type {
	return in.intern(&Type{kind: KindNumber, size: size, floating: floating})
}

func (in *Interner) FunctionType(args []*Type, ret *Type) *Type {
	return in.intern(&Type{kind: KindFunction, size: 8, args: args, ret: ret})
}

func (in *Interner) MacroType(args []*Type, ret *Type) *Type {
	return in.intern(&Type{kind: KindMacro, size: 0, args: args, ret: ret})
}

// ArrayType is the unsized array of elem.
func (in *Interner) ArrayType(elem *Type) *Type {
	return in.intern(&Type{kind: KindArray, size: 8, elem: elem, count: -1})
}

func (in *Interner) SizedArrayType(elem *Type, count int64) *Type {
	return in.intern(&Type{kind: KindArray, size: elem.size * int(count), elem: elem, count: count})
}

// SumType interns the sum of the given member set. Members are deduplicated
// and ordered by mangle so the intern key is canonical.
func (in *Interner) SumType(members []*Type) *Type {
	members = canonMembers(members)
	size := 0
	for _, m := range members {
		size += m.size
	}
	return in.intern(&Type{kind: KindSum, size: size, members: members})
}

// IntersectType interns the intersection of the given member set; its width
// is the widest member's.
func (in *Interner) IntersectType(members []*Type) *Type {
	members = canonMembers(members)
	size := 0
	for _, m := range members {
		if m.size > size {
			size = m.size
		}
	}
	return in.intern(&Type{kind: KindIntersect, size: size, members: members})
}

func (in *Interner) NamedType(name string, inner *Type) *Type {
	return in.intern(&Type{kind: KindNamed, size: inner.size, name: name, inner: inner})
}

func (in *Interner) RuntimeType(inner *Type) *Type {
	return in.intern(&Type{kind: KindRuntime, size: inner.size, inner: inner})
}

func canonMembers(members []*Type) []*Type {
	seen := map[*Type]bool{}
	out := make([]*Type, 0, len(members))
	for _, m := range members {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Mangle() < out[j].Mangle() })
	return out
}

// NumTypes reports how many distinct types have been interned.
func (in *Interner) NumTypes() int {
	return len(in.types)
}

// SymbolID returns the id for name, assigning the next id on first mention.
func (in *Interner) SymbolID(name string) int64 {
	if id, ok := in.symbolIDs[name]; ok {
		return id
	}
	id := int64(len(in.symbolNames))
	in.symbolIDs[name] = id
	in.symbolNames = append(in.symbolNames, name)
	return id
}

// SymbolName returns the name for id, or "" when id was never assigned.
func (in *Interner) SymbolName(id int64) string {
	if id < 0 || id >= int64(len(in.symbolNames)) {
		return ""
	}
	return in.symbolNames[id]
}
