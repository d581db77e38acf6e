package parser

import (
	"strings"

	"github.com/robinvdvleuten/sie/ast"
)

// objects resolves the object list of r into references, creating
// placeholder dimensions and object stubs as needed. An absent list is
// reported and yields nil; "{}" yields an empty, non-nil slice. The error
// is only returned when the parse must stop.
func (p *Parser) objects(r *Record) ([]ast.ObjectRef, error) {
	raw, ok := r.ObjectList()
	if !ok {
		return nil, p.report(&MissingObjectError{Pos: r.Pos, Tag: r.Tag})
	}

	inner := strings.TrimPrefix(raw, "{")
	inner = strings.TrimSuffix(inner, "}")
	items, _ := splitFields(inner)

	refs := make([]ast.ObjectRef, 0, len(items)/2)
	for i := 0; i+1 < len(items); i += 2 {
		dim, num := items[i], items[i+1]
		p.doc.ResolveObject(dim, num)
		refs = append(refs, ast.ObjectRef{Dimension: dim, Number: num})
	}

	if len(items)%2 == 1 {
		dangling := items[len(items)-1]
		p.doc.ResolveDimension(dangling)
		if err := p.report(&MissingObjectError{Pos: r.Pos, Tag: r.Tag, Dimension: dangling}); err != nil {
			return refs, err
		}
	}
	return refs, nil
}
