// Package schema holds the parsed API description the generator consumes:
// a graph of schema nodes plus the operations that reference them.
package schema

// Kind represents the kind of a schema node
type Kind string

const (
	KindAny     Kind = "any"
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindInteger Kind = "integer"
	KindBoolean Kind = "boolean"
	// KindFile is the wire kind for uploads and binary payloads
	KindFile   Kind = "file"
	KindEnum   Kind = "enum"
	KindArray  Kind = "array"
	KindMap    Kind = "map"
	KindObject Kind = "object"
	KindUnion  Kind = "union"
	KindRef    Kind = "ref"
)

// IsPrimitive reports whether k maps directly onto a target primitive.
func (k Kind) IsPrimitive() bool {
	switch k {
	case KindString, KindNumber, KindInteger, KindBoolean, KindFile:
		return true
	}
	return false
}

// Node is one schema node of the API description's type graph.
type Node struct {
	// ID is the reference path for named definitions. Anonymous nodes leave it
	// empty and are identified structurally (see Identity).
	ID string
	// Name is the raw declared name, may be empty
	Name        string
	Kind        Kind
	Format      string
	Nullable    bool
	Description string
	Deprecated  bool

	// Object
	Properties []Property
	// AdditionalProperties is the value schema of a map, or of the index
	// signature of an object that also has fixed properties.
	AdditionalProperties *Node

	// Array
	Items *Node

	// Composition (allOf). Inherits lists the composed schemas in order.
	Inherits      []*Node
	Discriminator *Discriminator

	// Union (oneOf/anyOf)
	Variants []*Node

	// Enum
	Enum      []any
	EnumNames []string
	EnumBase  Kind

	// Ref is the referenced definition's ID when Kind is KindRef
	Ref string
}

// Property is a named member of an object node
type Property struct {
	Name        string
	Schema      *Node
	Required    bool
	ReadOnly    bool
	Description string
}

// Discriminator carries the type-tag property of a polymorphic schema.
type Discriminator struct {
	PropertyName string
	// Mapping maps tag values to definition IDs
	Mapping map[string]string
}

// IsComposed reports whether the node inherits from other schemas.
func (n *Node) IsComposed() bool {
	return n != nil && len(n.Inherits) > 0
}

// IsDate reports whether the node is a date or date-time formatted string.
func (n *Node) IsDate() bool {
	return n != nil && n.Kind == KindString && (n.Format == "date" || n.Format == "date-time")
}

// Property returns the property with the given name
func (n *Node) Property(name string) (Property, bool) {
	for _, p := range n.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}

// NewRef creates a reference node pointing at the definition with the given ID.
func NewRef(id string) *Node {
	return &Node{Kind: KindRef, Ref: id}
}
