// node.go: the typed AST.
//
// Nodes are produced by elaboration (term.go, builtin.go) and evaluate to
// Metas. The same node may be evaluated any number of times: a Lambda
// materializes its local environment on first evaluation and mints a fresh
// function value (with a forked environment) on every evaluation, which is
// what gives each capture its own argument slots.
package basilisp

type Node interface {
	Line() int
	Column() int
	Eval(ip *Interp, env *Env) Meta
}

type IntNode struct {
	pos
	Value int64
}

func (n *IntNode) Eval(ip *Interp, env *Env) Meta {
	return IntMeta(ip.in.Int, n.Value)
}

type FloatNode struct {
	pos
	Value float64
}

func (n *FloatNode) Eval(ip *Interp, env *Env) Meta {
	return FloatMeta(ip.in.Float, n.Value)
}

type StringNode struct {
	pos
	Value string
}

func (n *StringNode) Eval(ip *Interp, env *Env) Meta {
	return StringMeta(ip.in.String, n.Value)
}

type CharNode struct {
	pos
	Value rune
}

func (n *CharNode) Eval(ip *Interp, env *Env) Meta {
	return CharMeta(ip.in.Char, n.Value)
}

type BoolNode struct {
	pos
	Value bool
}

func (n *BoolNode) Eval(ip *Interp, env *Env) Meta {
	return BoolMeta(ip.in.Bool, n.Value)
}

type VariableNode struct {
	pos
	Name string
}

func (n *VariableNode) Eval(ip *Interp, env *Env) Meta {
	if entry := env.Lookup(n.Name); entry != nil {
		return entry.Meta
	}
	ip.errs.Reportf(PhaseType, n.line, n.column, "Undefined variable '%s'.", n.Name)
	return Meta{}
}

// ConstantNode wraps an already-computed Meta.
type ConstantNode struct {
	pos
	Value Meta
}

func (n *ConstantNode) Eval(ip *Interp, env *Env) Meta {
	return n.Value
}

// QuoteNode defers a term; evaluating it reifies the term.
type QuoteNode struct {
	pos
	Term Term
}

func (n *QuoteNode) Eval(ip *Interp, env *Env) Meta {
	return n.Term.Quote(ip.in)
}

// DefineNode binds one or more names. TypeNode and Init are each optional,
// but not both: a definition with no initializer binds the unbound runtime
// placeholder of the declared type, which is how lambda argument slots come
// to exist.
type DefineNode struct {
	pos
	TypeNode Node
	Names    []string
	Init     Node
}

func (n *DefineNode) Eval(ip *Interp, env *Env) Meta {
	var initval Meta
	if n.Init != nil {
		initval = n.Init.Eval(ip, env)
	}
	var typ *Type
	switch {
	case n.TypeNode != nil:
		tv := n.TypeNode.Eval(ip, env)
		if !tv.IsType() {
			ip.errs.Reportf(PhaseType, n.TypeNode.Line(), n.TypeNode.Column(),
				"Could not resolve definition type - expected '%s' but found '%s'.",
				ip.in.Type, typeName(tv.Type()))
			return Meta{}
		}
		typ = tv.AsType()
	case initval.OK():
		typ = initval.Type()
	default:
		ip.errs.Reportf(PhaseType, n.line, n.column,
			"Neither an explicit type nor initializer were provided in definition.")
		return Meta{}
	}
	if initval.OK() && !ip.in.Implicitly(initval.Type(), typ) {
		ip.errs.Reportf(PhaseType, n.Init.Line(), n.Init.Column(),
			"Could not convert initial value of type '%s' to definition type '%s'.",
			initval.Type(), typ)
		return Meta{}
	}
	if !initval.OK() {
		initval = RuntimeMeta(ip.in.RuntimeType(typ), nil)
	}
	for _, name := range n.Names {
		env.Enter(name, initval)
	}
	return initval
}

// DoNode evaluates its body in order and yields the last result.
type DoNode struct {
	pos
	Body []Node
}

func (n *DoNode) Eval(ip *Interp, env *Env) Meta {
	var m Meta
	for _, child := range n.Body {
		m = child.Eval(ip, env)
	}
	return m
}

// LambdaNode owns a lazily-created local environment. Argument declarations
// evaluate in it once, leaving unbound runtime slots at the head of its entry
// order; every evaluation then reads those slots back as the argument types,
// resolves the return type (declared or inferred from the body), and returns
// a function value over a fork of the local environment.
type LambdaNode struct {
	pos
	TypeNode Node // optional return type
	Args     []Node
	Body     Node

	local *Env
}

func (n *LambdaNode) Eval(ip *Interp, env *Env) Meta {
	if n.local == nil {
		n.local = NewEnv(env)
		for _, arg := range n.Args {
			if arg != nil {
				arg.Eval(ip, n.local)
			}
		}
	}

	var args []*Type
	for i := 0; i < n.local.Len(); i++ {
		m := n.local.Entry(i).Meta
		if !m.Unbound() {
			break
		}
		// erase the runtime attribute
		args = append(args, m.Type().Inner())
	}

	var ret *Type
	if n.TypeNode != nil {
		tv := n.TypeNode.Eval(ip, env)
		if !tv.IsType() {
			ip.errs.Reportf(PhaseType, n.TypeNode.Line(), n.TypeNode.Column(),
				"Could not resolve return type - expected '%s' but found '%s'.",
				ip.in.Type, typeName(tv.Type()))
			return Meta{}
		}
		ret = tv.AsType()
	} else {
		// speculative: infer from the body without leaking its errors
		ip.errs.Catch()
		m := n.Body.Eval(ip, n.local)
		if !m.OK() {
			ip.errs.Discard()
			ip.errs.Reportf(PhaseType, n.Body.Line(), n.Body.Column(),
				"Could not infer return type from function body.")
			return Meta{}
		}
		ip.errs.Release()
		ret = m.Type()
	}
	if ret.Kind() == KindRuntime {
		ret = ret.Inner()
	}

	valenv := n.local.Fork()
	valenv.SetParent(env)
	var valargs []int
	for i := 0; i < valenv.Len(); i++ {
		if !valenv.Entry(i).Meta.Unbound() {
			break
		}
		valargs = append(valargs, i)
	}

	return FunctionMeta(ip.in.FunctionType(args, ret),
		NewMetaFunction(n.Body, valargs, valenv))
}

// CallNode applies a function value: arguments evaluate in the caller's
// environment, are checked against the declared argument types, and are
// written into the callee's slots before the body runs in the captured
// environment.
type CallNode struct {
	pos
	Func Node
	Args []Node
}

func (n *CallNode) Eval(ip *Interp, env *Env) Meta {
	m := n.Func.Eval(ip, env)
	if !m.OK() {
		return Meta{}
	}
	if !m.IsFunction() || m.AsFunction().Function() == nil {
		ip.errs.Reportf(PhaseType, n.Func.Line(), n.Func.Column(),
			"Could not resolve function to be called.")
		return Meta{}
	}
	f := m.AsFunction()
	ft := m.Type()

	if len(ft.Args()) != len(n.Args) {
		ip.errs.Reportf(PhaseType, n.line, n.column,
			"Incorrect number of arguments: expected %d, found %d.",
			len(ft.Args()), len(n.Args))
		return Meta{}
	}

	for i, argNode := range n.Args {
		am := argNode.Eval(ip, env)
		if !am.OK() {
			return Meta{}
		}
		if !ip.in.Implicitly(am.Type(), ft.Args()[i]) {
			ip.errs.Reportf(PhaseType, argNode.Line(), argNode.Column(),
				"Incorrect argument type: expected '%s', but found '%s'.",
				ft.Args()[i], am.Type())
			return Meta{}
		}
		f.Arg(i).Meta = am
	}
	return f.Function().Eval(ip, f.Local())
}

// Arithmetic nodes fold their parameters left to right with the meta op.
// Unary '-' negates (0 − x) and unary '/' inverts (1 / x), int or float
// depending on the operand.

// intOperand reports whether m is an integer, looking through a runtime
// wrapper so a deferred int operand keeps the int path.
func intOperand(m Meta) bool {
	t := m.Type()
	if t != nil && t.Kind() == KindRuntime {
		t = t.Inner()
	}
	return t != nil && t.Kind() == KindNumber && !t.Floating()
}

type AddNode struct {
	pos
	Params []Node
}

func (n *AddNode) Eval(ip *Interp, env *Env) Meta {
	m := n.Params[0].Eval(ip, env)
	for _, p := range n.Params[1:] {
		m = ip.in.Add(m, p.Eval(ip, env))
	}
	return m
}

type SubNode struct {
	pos
	Params []Node
}

func (n *SubNode) Eval(ip *Interp, env *Env) Meta {
	m := n.Params[0].Eval(ip, env)
	if len(n.Params) == 1 {
		if intOperand(m) {
			return ip.in.Sub(IntMeta(ip.in.Int, 0), m)
		}
		return ip.in.Sub(FloatMeta(ip.in.Float, 0), m)
	}
	for _, p := range n.Params[1:] {
		m = ip.in.Sub(m, p.Eval(ip, env))
	}
	return m
}

type MulNode struct {
	pos
	Params []Node
}

func (n *MulNode) Eval(ip *Interp, env *Env) Meta {
	m := n.Params[0].Eval(ip, env)
	for _, p := range n.Params[1:] {
		m = ip.in.Mul(m, p.Eval(ip, env))
	}
	return m
}

type DivNode struct {
	pos
	Params []Node
}

func (n *DivNode) Eval(ip *Interp, env *Env) Meta {
	m := n.Params[0].Eval(ip, env)
	if len(n.Params) == 1 {
		if intOperand(m) {
			return ip.in.Div(IntMeta(ip.in.Int, 1), m)
		}
		return ip.in.Div(FloatMeta(ip.in.Float, 1), m)
	}
	for _, p := range n.Params[1:] {
		m = ip.in.Div(m, p.Eval(ip, env))
	}
	return m
}

type ModNode struct {
	pos
	Params []Node
}

func (n *ModNode) Eval(ip *Interp, env *Env) Meta {
	m := n.Params[0].Eval(ip, env)
	for _, p := range n.Params[1:] {
		m = ip.in.Mod(m, p.Eval(ip, env))
	}
	return m
}
