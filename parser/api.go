package parser

import "io"

// ParseString parses kale source into its sequence of top-level forms
// without driving lowering. Semicolons between forms are skipped. Unlike
// the session driver this does not recover: the first failure aborts.
func ParseString(src string) ([]Form, error) {
	return ParseStringWith(src, DefaultPrecedence())
}

// ParseStringWith is ParseString with a caller-supplied precedence table.
func ParseStringWith(src string, prec *Precedence) ([]Form, error) {
	p, err := New(src, prec)
	if err != nil {
		return nil, err
	}
	var forms []Form
	for {
		switch tok := p.Current(); {
		case tok.Type == TokenEOF:
			return forms, nil
		case tok.Type == TokenChar && tok.Char == ';':
			if err := p.Advance(); err != nil {
				return nil, err
			}
		case tok.Type == TokenDef:
			fn, err := p.ParseDefinition()
			if err != nil {
				return nil, err
			}
			forms = append(forms, fn)
		case tok.Type == TokenExtern:
			proto, err := p.ParseExtern()
			if err != nil {
				return nil, err
			}
			forms = append(forms, proto)
		default:
			fn, err := p.ParseTopLevelExpr()
			if err != nil {
				return nil, err
			}
			forms = append(forms, fn)
		}
	}
}

// ParseReader consumes kale source from an io.Reader and parses it.
func ParseReader(r io.Reader) ([]Form, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseString(string(data))
}
