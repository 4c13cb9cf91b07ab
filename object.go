package soap

import (
	"encoding/base64"
	"fmt"
)

// Declared property types. The wire format only distinguishes composite
// values and byte blobs from plain text, so the set is deliberately small.
const (
	// TypeString marks a text property.
	TypeString = "string"

	// TypeBytes marks a binary property, encoded as base64 on the wire.
	TypeBytes = "base64Binary"

	// TypeObject marks a nested composite property.
	TypeObject = "struct"
)

// PropertyInfo is a single (name, value, declared type) entry of an Object.
// Value is one of string, []byte, Primitive, *Object, or nil.
type PropertyInfo struct {
	Name  string
	Value any
	Type  string
}

// Primitive is a leaf value decoded from a text-only element.
type Primitive struct {
	Namespace string
	Name      string
	Value     string
}

func (p Primitive) String() string {
	return p.Value
}

// Object is an ordered property bag: the generic payload type of a decoded
// body, and the synthetic wrapper built for multipart responses. Properties
// keep insertion order and are addressable by index or by name.
type Object struct {
	Namespace string
	Name      string

	properties []PropertyInfo
}

// NewObject creates an empty Object with the given qualified name.
func NewObject(namespace, name string) *Object {
	return &Object{Namespace: namespace, Name: name}
}

// AddProperty appends a property, inferring the declared type from the
// value. It returns the Object so calls can be chained.
func (o *Object) AddProperty(name string, value any) *Object {
	return o.AddPropertyInfo(PropertyInfo{Name: name, Value: value, Type: declaredType(value)})
}

// AddPropertyInfo appends a fully specified property.
func (o *Object) AddPropertyInfo(info PropertyInfo) *Object {
	o.properties = append(o.properties, info)
	return o
}

// PropertyCount returns the number of properties.
func (o *Object) PropertyCount() int {
	return len(o.properties)
}

// Property returns the value of the property at index. It panics if index
// is out of range, mirroring slice access.
func (o *Object) Property(index int) any {
	return o.properties[index].Value
}

// PropertyInfo returns the descriptor of the property at index.
func (o *Object) PropertyInfo(index int) PropertyInfo {
	return o.properties[index]
}

// PropertyByName returns the value of the first property with the given
// name, and whether one was found.
func (o *Object) PropertyByName(name string) (any, bool) {
	for _, p := range o.properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// Equal reports whether two Objects hold the same properties in the same
// order. Leaf values compare by their text form, so a string written out
// and the Primitive it decodes back into are considered equal.
func (o *Object) Equal(other *Object) bool {
	if other == nil || len(o.properties) != len(other.properties) {
		return false
	}
	for i, p := range o.properties {
		q := other.properties[i]
		if p.Name != q.Name {
			return false
		}
		po, pIsObject := p.Value.(*Object)
		qo, qIsObject := q.Value.(*Object)
		if pIsObject != qIsObject {
			return false
		}
		if pIsObject {
			if !po.Equal(qo) {
				return false
			}
			continue
		}
		if valueText(p.Value) != valueText(q.Value) {
			return false
		}
	}
	return true
}

func (o *Object) String() string {
	return fmt.Sprintf("%s{%s}", o.Name, propertyNames(o.properties))
}

func propertyNames(props []PropertyInfo) string {
	s := ""
	for i, p := range props {
		if i > 0 {
			s += ","
		}
		s += p.Name
	}
	return s
}

// valueText renders a leaf value the way the codec writes it.
func valueText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return base64.StdEncoding.EncodeToString(t)
	case Primitive:
		return t.Value
	default:
		return fmt.Sprint(t)
	}
}

func declaredType(v any) string {
	switch v.(type) {
	case []byte:
		return TypeBytes
	case *Object:
		return TypeObject
	default:
		return TypeString
	}
}
