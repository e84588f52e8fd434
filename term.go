// term.go: the surface AST produced by the parser.
//
// A Term supports two operations. Quote reifies it as a Meta: atoms become
// their literal values, variables become symbols, blocks become arrays. Eval
// elaborates it into a typed Node; for a block this means evaluating the head
// term to decide what the block is: a typed declaration, a built-in macro
// invocation, or a call.
package basilisp

// pos is the (line, column) every Term and Node carries, 1-based.
type pos struct {
	line, column int
}

func (p pos) Line() int   { return p.line }
func (p pos) Column() int { return p.column }

func at(line, column int) pos {
	return pos{line: line, column: column}
}

type Term interface {
	Line() int
	Column() int
	// Eval elaborates the term into a typed Node, or nil after reporting.
	Eval(ip *Interp, env *Env) Node
	// Quote reifies the term as a compile-time value.
	Quote(in *Interner) Meta
	String() string
}

type IntTerm struct {
	pos
	Value int64
}

func (t *IntTerm) Eval(ip *Interp, env *Env) Node {
	return &IntNode{pos: t.pos, Value: t.Value}
}

func (t *IntTerm) Quote(in *Interner) Meta {
	return IntMeta(in.Int, t.Value)
}

type FloatTerm struct {
	pos
	Value float64
}

func (t *FloatTerm) Eval(ip *Interp, env *Env) Node {
	return &FloatNode{pos: t.pos, Value: t.Value}
}

func (t *FloatTerm) Quote(in *Interner) Meta {
	return FloatMeta(in.Float, t.Value)
}

type CharTerm struct {
	pos
	Value rune
}

func (t *CharTerm) Eval(ip *Interp, env *Env) Node {
	return &CharNode{pos: t.pos, Value: t.Value}
}

func (t *CharTerm) Quote(in *Interner) Meta {
	return CharMeta(in.Char, t.Value)
}

type StringTerm struct {
	pos
	Value string
}

func (t *StringTerm) Eval(ip *Interp, env *Env) Node {
	return &StringNode{pos: t.pos, Value: t.Value}
}

func (t *StringTerm) Quote(in *Interner) Meta {
	return StringMeta(in.String, t.Value)
}

type VariableTerm struct {
	pos
	Name string
}

func (t *VariableTerm) Eval(ip *Interp, env *Env) Node {
	return &VariableNode{pos: t.pos, Name: t.Name}
}

func (t *VariableTerm) Quote(in *Interner) Meta {
	return SymbolMeta(in.Symbol, in.SymbolID(t.Name))
}

type BlockTerm struct {
	pos
	Terms []Term
}

// Eval elaborates the block by evaluating its head speculatively and
// dispatching on the result: a type runs the declaration macro, a built-in
// function runs itself, any other function becomes a Call node.
func (t *BlockTerm) Eval(ip *Interp, env *Env) Node {
	if len(t.Terms) == 0 {
		ip.errs.Reportf(PhaseType, t.line, t.column,
			"First term in block is not a type or function.")
		return nil
	}
	head := t.Terms[0].Eval(ip, env)
	if head == nil {
		return nil
	}
	m := head.Eval(ip, env)
	switch {
	case !m.OK():
		// the head already reported why it has no value
		return nil
	case m.IsType():
		return builtinDeclare(ip, env, head, t)
	case m.IsFunction() && m.AsFunction().Builtin() != nil:
		return m.AsFunction().Builtin()(ip, env, head, t)
	case m.IsFunction():
		return builtinCall(ip, env, head, t)
	}
	ip.errs.Reportf(PhaseType, t.Terms[0].Line(), t.Terms[0].Column(),
		"First term in block is not a type or function.")
	return nil
}

// Quote reifies the block as an array of its children's quotes. The element
// type is the unique member type if the children are homogeneous, else the
// sum of all member types.
func (t *BlockTerm) Quote(in *Interner) Meta {
	metas := make([]Meta, len(t.Terms))
	var types []*Type
	seen := map[*Type]bool{}
	for i, child := range t.Terms {
		metas[i] = child.Quote(in)
		if typ := metas[i].Type(); !seen[typ] {
			seen[typ] = true
			types = append(types, typ)
		}
	}
	var elem *Type
	if len(types) == 1 {
		elem = types[0]
	} else {
		elem = in.SumType(types)
	}
	return ArrayMeta(in.SizedArrayType(elem, int64(len(metas))), NewMetaArray(metas))
}
