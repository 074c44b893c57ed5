// Package tss parses TSS stylesheets into an ordered value tree and emits
// values back as JavaScript literals.
package tss

// Value is a TSS value. The set of implementations is closed: String,
// Number, Bool, Null, Expr, *Object and Array.
type Value interface {
	isValue()
}

// String is a quoted string literal, stored unescaped.
type String string

// Number is a numeric literal, stored as written.
type Number string

// Bool is true or false.
type Bool bool

// Null is the null literal.
type Null struct{}

// Expr is a raw JavaScript expression such as Ti.UI.SIZE or L('title').
type Expr string

// Array is an ordered list of values.
type Array []Value

// Property is one name/value pair of an Object.
type Property struct {
	Name  string
	Value Value
}

// Object is an ordered list of properties with unique names.
type Object struct {
	Props []Property
}

func (String) isValue()  {}
func (Number) isValue()  {}
func (Bool) isValue()    {}
func (Null) isValue()    {}
func (Expr) isValue()    {}
func (Array) isValue()   {}
func (*Object) isValue() {}

// NewObject builds an object from properties. Later duplicates replace
// earlier ones in place.
func NewObject(props ...Property) *Object {
	o := &Object{}
	for _, p := range props {
		o.Set(p.Name, p.Value)
	}
	return o
}

// Len returns the number of properties.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.Props)
}

// Get returns the value of the named property.
func (o *Object) Get(name string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	for _, p := range o.Props {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// Set replaces the named property in place, or appends it.
func (o *Object) Set(name string, v Value) {
	for i := range o.Props {
		if o.Props[i].Name == name {
			o.Props[i].Value = v
			return
		}
	}
	o.Props = append(o.Props, Property{Name: name, Value: v})
}

// Delete removes the named property.
func (o *Object) Delete(name string) {
	for i := range o.Props {
		if o.Props[i].Name == name {
			o.Props = append(o.Props[:i:i], o.Props[i+1:]...)
			return
		}
	}
}

// Clone returns a deep copy of o.
func (o *Object) Clone() *Object {
	if o == nil {
		return nil
	}
	c := &Object{Props: make([]Property, len(o.Props))}
	for i, p := range o.Props {
		c.Props[i] = Property{Name: p.Name, Value: CloneValue(p.Value)}
	}
	return c
}

// CloneValue returns a deep copy of v.
func CloneValue(v Value) Value {
	switch t := v.(type) {
	case *Object:
		return t.Clone()
	case Array:
		c := make(Array, len(t))
		for i, e := range t {
			c[i] = CloneValue(e)
		}
		return c
	default:
		return v
	}
}

// Merge returns a new object holding o's properties overlaid with src's.
// Properties present in both take src's value, except that two objects are
// merged recursively. Properties new in src are appended in src's order.
// Neither input is modified.
func (o *Object) Merge(src *Object) *Object {
	out := o.Clone()
	if out == nil {
		out = &Object{}
	}
	for _, p := range src.propsOrNil() {
		if cur, ok := out.Get(p.Name); ok {
			curObj, curIsObj := cur.(*Object)
			srcObj, srcIsObj := p.Value.(*Object)
			if curIsObj && srcIsObj {
				out.Set(p.Name, curObj.Merge(srcObj))
				continue
			}
		}
		out.Set(p.Name, CloneValue(p.Value))
	}
	return out
}

func (o *Object) propsOrNil() []Property {
	if o == nil {
		return nil
	}
	return o.Props
}
