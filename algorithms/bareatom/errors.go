package bareatom

import "fmt"

// ParseError reports a malformed chemical formula. Offset is the byte
// position of the offending fragment.
type ParseError struct {
	Formula string
	Offset  int
	Msg     string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("bareatom: invalid formula %q at offset %d: %s", e.Formula, e.Offset, e.Msg)
}

// UnknownElementError reports a syntactically valid element symbol with no
// entry in the reference table.
type UnknownElementError struct {
	Symbol string
}

func (e *UnknownElementError) Error() string {
	return fmt.Sprintf("bareatom: unknown element %q", e.Symbol)
}
