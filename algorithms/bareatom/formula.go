package bareatom

// Chemical formula parsing. Symbols are checked for shape only
// ([A-Z][a-z]?); whether an element exists is the reference table's concern,
// so "C6H6Xx2" parses here and fails at lookup time.

// ElementCount is one entry of a parsed formula's composition multiset.
type ElementCount struct {
	Symbol string
	Count  int
}

// ParseFormula parses a chemical formula such as "C6H6", "Ca(OH)2" or
// "CH3[CH2]4CH3" into its composition, ordered by first appearance.
// Nested () and [] groups with integer multiplicities are supported.
func ParseFormula(formula string) ([]ElementCount, error) {
	if formula == "" {
		return nil, &ParseError{Formula: formula, Offset: 0, Msg: "empty formula"}
	}

	p := &formulaParser{formula: formula}
	comp, err := p.parseGroup()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.formula) {
		// parseGroup stops at an unmatched closing bracket
		return nil, &ParseError{Formula: formula, Offset: p.pos, Msg: "unbalanced closing bracket"}
	}
	if len(comp) == 0 {
		return nil, &ParseError{Formula: formula, Offset: 0, Msg: "no elements"}
	}
	return comp, nil
}

type formulaParser struct {
	formula string
	pos     int
}

// parseGroup parses until the end of input or a closing bracket.
func (p *formulaParser) parseGroup() ([]ElementCount, error) {
	var order []string
	counts := make(map[string]int)

	add := func(comp []ElementCount, mult int) {
		for _, ec := range comp {
			if _, seen := counts[ec.Symbol]; !seen {
				order = append(order, ec.Symbol)
			}
			counts[ec.Symbol] += ec.Count * mult
		}
	}

	for p.pos < len(p.formula) {
		c := p.formula[p.pos]
		switch {
		case c == '(' || c == '[':
			open := c
			openPos := p.pos
			p.pos++
			inner, err := p.parseGroup()
			if err != nil {
				return nil, err
			}
			if p.pos >= len(p.formula) {
				return nil, &ParseError{Formula: p.formula, Offset: openPos, Msg: "unbalanced opening bracket"}
			}
			closing := p.formula[p.pos]
			if (open == '(' && closing != ')') || (open == '[' && closing != ']') {
				return nil, &ParseError{Formula: p.formula, Offset: p.pos, Msg: "mismatched bracket"}
			}
			if len(inner) == 0 {
				return nil, &ParseError{Formula: p.formula, Offset: openPos, Msg: "empty group"}
			}
			p.pos++
			add(inner, p.parseCount())

		case c == ')' || c == ']':
			// Caller decides whether this is balanced
			goto done

		case c >= 'A' && c <= 'Z':
			start := p.pos
			p.pos++
			if p.pos < len(p.formula) && p.formula[p.pos] >= 'a' && p.formula[p.pos] <= 'z' {
				p.pos++
			}
			symbol := p.formula[start:p.pos]
			add([]ElementCount{{Symbol: symbol, Count: 1}}, p.parseCount())

		case c >= '0' && c <= '9':
			return nil, &ParseError{Formula: p.formula, Offset: p.pos, Msg: "count without preceding element or group"}

		default:
			return nil, &ParseError{Formula: p.formula, Offset: p.pos, Msg: "unexpected character"}
		}
	}

done:
	comp := make([]ElementCount, 0, len(order))
	for _, sym := range order {
		comp = append(comp, ElementCount{Symbol: sym, Count: counts[sym]})
	}
	return comp, nil
}

// parseCount consumes an optional integer multiplicity, defaulting to 1.
func (p *formulaParser) parseCount() int {
	start := p.pos
	for p.pos < len(p.formula) && p.formula[p.pos] >= '0' && p.formula[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return 1
	}
	n := 0
	for _, d := range p.formula[start:p.pos] {
		n = n*10 + int(d-'0')
	}
	return n
}
