package ast

import "strconv"

// UnresolvedName is the name given to placeholder dimensions.
const UnresolvedName = "unresolved"

// defaultDimensions are the reserved dimension slots 1-19.
var defaultDimensions = map[int]string{
	1:  "Resultatenhet",
	2:  "Kostnadsbärare",
	6:  "Projekt",
	7:  "Anställd",
	8:  "Kund",
	9:  "Leverantör",
	10: "Faktura",
}

func registerDefaultDimensions(d *Document) {
	for i := 1; i <= 19; i++ {
		name, ok := defaultDimensions[i]
		if !ok {
			name = "Reserverat"
		}
		dim := &Dimension{
			Number:  strconv.Itoa(i),
			Name:    name,
			Default: true,
			Objects: NewTable[Object](),
		}
		if i == 2 {
			dim.Parent = "1"
		}
		d.Dimensions.Put(dim.Number, dim)
	}
}

// Account returns the account with the given number.
func (d *Document) Account(number string) (*Account, bool) {
	return d.Accounts.Get(number)
}

// EnsureAccount returns the account with the given number, creating a stub
// holding only the number if it does not exist yet.
func (d *Document) EnsureAccount(number string) *Account {
	if a, ok := d.Accounts.Get(number); ok {
		return a
	}
	a := &Account{Number: number}
	d.Accounts.Put(number, a)
	return a
}

// Dimension looks up a defined dimension or a placeholder.
func (d *Document) Dimension(number string) (*Dimension, bool) {
	if dim, ok := d.Dimensions.Get(number); ok {
		return dim, true
	}
	return d.Unresolved.Get(number)
}

// ResolveDimension returns the dimension with the given number, creating a
// placeholder if it is neither defined nor already pending.
func (d *Document) ResolveDimension(number string) *Dimension {
	if dim, ok := d.Dimension(number); ok {
		return dim
	}
	dim := &Dimension{
		Number:  number,
		Name:    UnresolvedName,
		Objects: NewTable[Object](),
	}
	d.Unresolved.Put(number, dim)
	return dim
}

// DefineDimension records a dimension definition. A pending placeholder is
// promoted and keeps its objects; a reserved slot loses its default flag.
// A non-empty parent declares a sub-dimension.
func (d *Document) DefineDimension(number, name, parent string) *Dimension {
	dim, ok := d.Dimensions.Get(number)
	if !ok {
		if pending, found := d.Unresolved.Get(number); found {
			dim = pending
			d.Unresolved.Delete(number)
		} else {
			dim = &Dimension{Number: number, Objects: NewTable[Object]()}
		}
		d.Dimensions.Put(number, dim)
	}
	dim.Name = name
	dim.Parent = parent
	dim.Default = false
	return dim
}

// ResolveObject returns the analysis object, creating the dimension
// placeholder and an object stub as needed.
func (d *Document) ResolveObject(dimension, number string) *Object {
	dim := d.ResolveDimension(dimension)
	if obj, ok := dim.Objects.Get(number); ok {
		return obj
	}
	obj := &Object{Dimension: dimension, Number: number}
	dim.Objects.Put(number, obj)
	return obj
}

// Object returns the analysis object a reference points at.
func (d *Document) Object(ref ObjectRef) (*Object, bool) {
	dim, ok := d.Dimension(ref.Dimension)
	if !ok {
		return nil, false
	}
	return dim.Objects.Get(ref.Number)
}
