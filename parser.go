// parser.go: token stream → surface Terms.
//
// Atoms map straight to their terms. `( … )` parses to a block of its
// contents; `[ … ]` parses to a block headed by a synthetic `array` variable;
// `:X` parses to a block invoking `quote` on X.
package basilisp

// ParseAll parses terms until the view is exhausted. Failed terms are
// reported and skipped.
func (ip *Interp) ParseAll(view *TokenView) []Term {
	var terms []Term
	for view.Peek().OK() {
		if t := ip.parseTerm(view); t != nil {
			terms = append(terms, t)
		}
	}
	return terms
}

func (ip *Interp) parseTerm(view *TokenView) Term {
	t := view.Peek()
	switch t.Kind {
	case TINT:
		view.Read()
		return &IntTerm{pos: at(t.Line, t.Column), Value: parseInt(t.Text)}
	case TFLOAT:
		view.Read()
		return &FloatTerm{pos: at(t.Line, t.Column), Value: parseFloat(t.Text)}
	case TSTRING:
		view.Read()
		return &StringTerm{pos: at(t.Line, t.Column), Value: t.Text}
	case TCHAR:
		view.Read()
		return &CharTerm{pos: at(t.Line, t.Column), Value: []rune(t.Text)[0]}
	case TIDENT:
		view.Read()
		return &VariableTerm{pos: at(t.Line, t.Column), Name: t.Text}
	case TQUOTE:
		view.Read()
		if !view.Peek().OK() {
			ip.errs.Reportf(PhaseParse, t.Line, t.Column, "Expected term after quote.")
			return nil
		}
		quoted := ip.parseTerm(view)
		if quoted == nil {
			return nil
		}
		return &BlockTerm{
			pos: at(t.Line, t.Column),
			Terms: []Term{
				&VariableTerm{pos: at(t.Line, t.Column), Name: "quote"},
				quoted,
			},
		}
	case TLPAREN:
		return ip.parseBlock(view)
	case TLBRACK:
		return ip.parseArray(view)
	}
	ip.errs.Reportf(PhaseParse, t.Line, t.Column, "Unexpected token '%s'.", t.Text)
	view.Read()
	return nil
}

func (ip *Interp) parseBlock(view *TokenView) Term {
	open := view.Read()
	var contents []Term
	for view.Peek().Kind != TRPAREN {
		if !view.Peek().OK() {
			ip.errs.Reportf(PhaseParse, open.Line, open.Column, "Unexpected end of file.")
			return nil
		}
		if t := ip.parseTerm(view); t != nil {
			contents = append(contents, t)
		}
	}
	view.Read()
	return &BlockTerm{pos: at(open.Line, open.Column), Terms: contents}
}

func (ip *Interp) parseArray(view *TokenView) Term {
	open := view.Read()
	contents := []Term{
		&VariableTerm{pos: at(open.Line, open.Column), Name: "array"},
	}
	for view.Peek().Kind != TRBRACK {
		if !view.Peek().OK() {
			ip.errs.Reportf(PhaseParse, open.Line, open.Column, "Unexpected end of file.")
			return nil
		}
		if t := ip.parseTerm(view); t != nil {
			contents = append(contents, t)
		}
	}
	view.Read()
	return &BlockTerm{pos: at(open.Line, open.Column), Terms: contents}
}
