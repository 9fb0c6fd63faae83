package typegen

import (
	"strconv"

	"github.com/blimu-dev/ts-clientgen/pkg/schema"
)

// DeclKind distinguishes object declarations from enums
type DeclKind int

const (
	DeclObject DeclKind = iota
	DeclEnum
)

// Member is a property of an object declaration
type Member struct {
	// Name is the wire name
	Name string
	// Type is the resolved type, carrying the nullable marker when the
	// property is optional or nullable
	Type        string
	Schema      *schema.Node
	Required    bool
	ReadOnly    bool
	Description string
}

// EnumValue is a single enum member
type EnumValue struct {
	Name string
	// Literal is the value as a TypeScript literal
	Literal string
}

// Subtype is a known derived type of a discriminated declaration
type Subtype struct {
	Tag      string
	TypeName string
}

// Declaration is a named target type accumulated during resolution
type Declaration struct {
	Name        string
	Kind        DeclKind
	Style       Style
	NodeID      string
	Node        *schema.Node
	Description string

	Members []Member
	// IndexType is the value type of the index signature, empty when the
	// object is closed
	IndexType string
	// Bases are the inherited declarations in extends order
	Bases []string
	// Discriminator is the tag property name when the node is polymorphic
	Discriminator string
	Subtypes      []Subtype

	EnumValues []EnumValue
	EnumBase   schema.Kind
}

// IsClass reports whether d is emitted as a class
func (d *Declaration) IsClass() bool {
	return d.Kind == DeclObject && d.Style == StyleClass
}

// Member returns the member with the given wire name
func (d *Declaration) Member(name string) (*Member, bool) {
	for i := range d.Members {
		if d.Members[i].Name == name {
			return &d.Members[i], true
		}
	}
	return nil, false
}

// Registry maps schema identities to unique declaration names. It is owned
// by one generation run.
type Registry struct {
	byID   map[string]*Declaration
	byName map[string]*Declaration
	taken  map[string]bool
	order  []*Declaration
}

// NewRegistry creates a registry. Reserved names are never handed out, a
// schema named like one of them receives a numeric suffix.
func NewRegistry(reserved ...string) *Registry {
	r := &Registry{
		byID:   map[string]*Declaration{},
		byName: map[string]*Declaration{},
		taken:  map[string]bool{},
	}
	for _, n := range reserved {
		r.taken[n] = true
	}
	return r
}

// Register records a placeholder declaration for id before its members are
// resolved, so recursive references find the name. The second result is
// false when id was already registered, in which case the existing
// declaration is returned unchanged.
func (r *Registry) Register(id, baseName string, node *schema.Node, kind DeclKind) (*Declaration, bool) {
	if d, ok := r.byID[id]; ok {
		return d, false
	}
	d := &Declaration{
		Name:   r.uniqueName(baseName),
		Kind:   kind,
		NodeID: id,
		Node:   node,
	}
	r.byID[id] = d
	r.byName[d.Name] = d
	r.taken[d.Name] = true
	r.order = append(r.order, d)
	return d, true
}

// Lookup returns the declaration registered for a schema identity
func (r *Registry) Lookup(id string) (*Declaration, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// ByName returns the declaration with the given emitted name
func (r *Registry) ByName(name string) (*Declaration, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Declarations returns the declarations in registration order
func (r *Registry) Declarations() []*Declaration {
	out := make([]*Declaration, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered declarations
func (r *Registry) Len() int {
	return len(r.order)
}

// uniqueName returns base, or base followed by the smallest integer >= 2
// that is still free.
func (r *Registry) uniqueName(base string) string {
	if !r.taken[base] {
		return base
	}
	for i := 2; ; i++ {
		candidate := base + strconv.Itoa(i)
		if !r.taken[candidate] {
			return candidate
		}
	}
}
