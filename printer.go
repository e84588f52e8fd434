// printer.go: pretty-printing for types, metas, and terms.
//
// Types print without any table access; metas need the Interner for symbol
// names, so their formatter lives on it.
package basilisp

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// String renders a type the way the REPL shows it: numbers as iN/fN,
// functions as (function A B -> R), arrays as (E [N]), sums and intersects as
// (union …)/(intersect …), named types as their name, runtime as (runtime T).
func (t *Type) String() string {
	switch t.kind {
	case KindType:
		return "@" + strconv.Itoa(t.size*8)
	case KindNumber:
		if t.floating {
			return "f" + strconv.Itoa(t.size*8)
		}
		return "i" + strconv.Itoa(t.size*8)
	case KindFunction:
		return "(function " + typeList(t.args, " ") + " -> " + t.ret.String() + ")"
	case KindMacro:
		return "(macro " + typeList(t.args, " ") + " -> " + t.ret.String() + ")"
	case KindArray:
		count := ""
		if t.count > -1 {
			count = strconv.FormatInt(t.count, 10)
		}
		return "(" + t.elem.String() + " [" + count + "])"
	case KindSum:
		return "(union" + prefixedTypeList(t.members) + ")"
	case KindIntersect:
		return "(intersect" + prefixedTypeList(t.members) + ")"
	case KindNamed:
		return t.name
	case KindRuntime:
		return "(runtime " + t.inner.String() + ")"
	}
	return "<type>"
}

func typeList(ts []*Type, sep string) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, sep)
}

func prefixedTypeList(ts []*Type) string {
	var b strings.Builder
	for _, t := range ts {
		b.WriteString(" ")
		b.WriteString(t.String())
	}
	return b.String()
}

// typeName formats a type for an error message, tolerating the absent case.
func typeName(t *Type) string {
	if t == nil {
		return "<undefined>"
	}
	return t.String()
}

// formatFloat appends ".0" when the shortest form has neither a decimal point
// nor an exponent, so whole floats stay visually distinct from ints. Inf and
// NaN print as-is.
func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// FormatMeta renders a meta value: literals as themselves, strings unquoted,
// arrays as [e0 e1 …], intersects as (& v0 v1 …), functions as <function>,
// unbound runtime as <unknown>, absent as <undefined>, void as ().
func (in *Interner) FormatMeta(m Meta) string {
	switch {
	case !m.OK():
		return "<undefined>"
	case m.IsVoid():
		return "()"
	case m.IsInt():
		return strconv.FormatInt(m.AsInt(), 10)
	case m.IsFloat():
		return formatFloat(m.AsFloat())
	case m.IsChar():
		return string(m.AsChar())
	case m.IsType():
		return m.AsType().String()
	case m.IsBool():
		return strconv.FormatBool(m.AsBool())
	case m.IsSymbol():
		return in.SymbolName(m.AsSymbol())
	case m.IsString():
		return m.AsString()
	case m.IsArray():
		var b strings.Builder
		b.WriteString("[")
		for i := 0; i < m.AsArray().Len(); i++ {
			if i != 0 {
				b.WriteString(" ")
			}
			b.WriteString(in.FormatMeta(m.AsArray().At(i)))
		}
		b.WriteString("]")
		return b.String()
	case m.IsUnion():
		return in.FormatMeta(m.AsUnion().Value())
	case m.IsIntersect():
		var b strings.Builder
		b.WriteString("(&")
		for _, t := range m.Type().Members() {
			b.WriteString(" ")
			b.WriteString(in.FormatMeta(m.AsIntersect().As(t)))
		}
		b.WriteString(")")
		return b.String()
	case m.IsFunction():
		return "<function>"
	case m.IsRuntime():
		return "<unknown>"
	}
	return "<undefined>"
}

// Term formatting reproduces the surface syntax, escaping string and char
// literals.

func (t *IntTerm) String() string {
	return strconv.FormatInt(t.Value, 10)
}

func (t *FloatTerm) String() string {
	return formatFloat(t.Value)
}

func (t *CharTerm) String() string {
	return "'" + escapeText(string(t.Value)) + "'"
}

func (t *StringTerm) String() string {
	return "\"" + escapeText(t.Value) + "\""
}

func (t *VariableTerm) String() string {
	return t.Name
}

func (t *BlockTerm) String() string {
	parts := make([]string, len(t.Terms))
	for i, child := range t.Terms {
		parts[i] = child.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func escapeText(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString("\\\"")
		case '\'':
			b.WriteString("\\'")
		case '\\':
			b.WriteString("\\\\")
		case '\n':
			b.WriteString("\\n")
		case '\t':
			b.WriteString("\\t")
		case '\r':
			b.WriteString("\\r")
		case 0:
			b.WriteString("\\0")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// String renders a token for debug output.
func (t Token) String() string {
	return fmt.Sprintf("[%d: %s]", t.Kind, t.Text)
}
