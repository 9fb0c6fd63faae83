// Package typegen maps schema nodes onto TypeScript type expressions and
// accumulates the named declarations those expressions refer to.
package typegen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/blimu-dev/ts-clientgen/pkg/schema"
	"github.com/blimu-dev/ts-clientgen/pkg/utils"
)

// NullableMarker is appended to types whose value may be absent
const NullableMarker = " | undefined"

// ReservedNames are global names a declaration must not shadow
var ReservedNames = []string{
	"ApiException", "Array", "Blob", "Date", "Error", "File", "FormData",
	"Map", "Object", "Promise", "Record", "RequestInfo", "RequestInit", "Set",
}

// Resolver turns schema nodes into type expressions. Named objects and enums
// are registered as declarations on first use. A Resolver belongs to a single
// generation run and is not safe for concurrent use.
type Resolver struct {
	graph    *schema.Graph
	registry *Registry
	opts     Options
	// path is the declaration/property chain being resolved, for errors
	path []string
}

// NewResolver creates a resolver over graph with an empty registry
func NewResolver(graph *schema.Graph, opts Options) *Resolver {
	if opts.DateHandling == "" {
		opts.DateHandling = DateHandlingDate
	}
	if graph == nil {
		graph = schema.NewGraph()
	}
	return &Resolver{
		graph:    graph,
		registry: NewRegistry(ReservedNames...),
		opts:     opts,
	}
}

// Registry returns the declarations accumulated so far
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Options returns the resolver options
func (r *Resolver) Options() Options {
	return r.opts
}

// Resolve returns the type expression for node. When nullable is set the
// nullable marker is appended. hint names anonymous objects and enums.
// Resolving the same node twice yields the same expression.
func (r *Resolver) Resolve(node *schema.Node, nullable bool, hint string) (string, error) {
	t, err := r.resolve(node, hint)
	if err != nil {
		return "", err
	}
	if nullable && t != "any" {
		t += NullableMarker
	}
	return t, nil
}

// ResolveAll registers every named definition of the graph.
func (r *Resolver) ResolveAll() error {
	for _, def := range r.graph.Definitions() {
		if _, err := r.resolve(def, ""); err != nil {
			return err
		}
	}
	return nil
}

// Actual follows references to the node they point at
func (r *Resolver) Actual(node *schema.Node) (*schema.Node, error) {
	actual, err := r.graph.Actual(node)
	if err != nil {
		ref := ""
		if node != nil {
			ref = node.Ref
		}
		return nil, &ResolutionError{Ref: ref, Path: strings.Join(r.path, "."), Err: err}
	}
	return actual, nil
}

// StyleOf returns the declaration style configured for a type name
func (r *Resolver) StyleOf(typeName string) Style {
	return r.opts.Styles.StyleOf(BareType(typeName))
}

// HasDeclaration reports whether typeName names a registered declaration
func (r *Resolver) HasDeclaration(typeName string) bool {
	_, ok := r.registry.ByName(BareType(typeName))
	return ok
}

// UsesTypedConstruction reports whether decoded values of typeName have to
// be rebuilt through the declaration's fromJS factory.
func (r *Resolver) UsesTypedConstruction(typeName string) bool {
	d, ok := r.registry.ByName(BareType(typeName))
	return ok && d.Kind == DeclObject && r.StyleOf(typeName) != StyleInterface
}

// BareType strips the nullable marker from a type expression
func BareType(t string) string {
	return strings.TrimSuffix(t, NullableMarker)
}

func (r *Resolver) resolve(node *schema.Node, hint string) (string, error) {
	if node == nil {
		return "any", nil
	}
	actual, err := r.Actual(node)
	if err != nil {
		return "", err
	}

	switch actual.Kind {
	case schema.KindString:
		if actual.IsDate() {
			return r.dateType(), nil
		}
		return "string", nil
	case schema.KindNumber, schema.KindInteger:
		return "number", nil
	case schema.KindBoolean:
		return "boolean", nil
	case schema.KindEnum:
		return r.registerEnum(actual, hint), nil
	case schema.KindArray:
		item, err := r.resolve(actual.Items, hint)
		if err != nil {
			return "", err
		}
		if strings.Contains(item, " ") {
			return "(" + item + ")[]", nil
		}
		return item + "[]", nil
	case schema.KindMap:
		value, err := r.resolve(actual.AdditionalProperties, hint)
		if err != nil {
			return "", err
		}
		return "{ [key: string]: " + value + "; }", nil
	case schema.KindUnion:
		return r.resolveUnion(actual, hint)
	case schema.KindObject:
		return r.registerObject(actual, hint)
	}
	return "any", nil
}

func (r *Resolver) dateType() string {
	switch r.opts.DateHandling {
	case DateHandlingMoment:
		return "moment.Moment"
	case DateHandlingString:
		return "string"
	}
	return "Date"
}

func (r *Resolver) resolveUnion(n *schema.Node, hint string) (string, error) {
	seen := map[string]bool{}
	var parts []string
	for _, v := range n.Variants {
		t, err := r.resolve(v, hint)
		if err != nil {
			return "", err
		}
		if t == "any" {
			return "any", nil
		}
		if !seen[t] {
			seen[t] = true
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return "any", nil
	}
	return strings.Join(parts, " | "), nil
}

func (r *Resolver) baseName(n *schema.Node, hint string) string {
	for _, s := range []string{n.Name, hint} {
		if name := utils.ToTypeName(s); name != "" {
			return name
		}
	}
	return "Anonymous"
}

func (r *Resolver) registerEnum(n *schema.Node, hint string) string {
	d, created := r.registry.Register(schema.Identity(n), r.baseName(n, hint), n, DeclEnum)
	if created {
		d.Description = n.Description
		d.EnumBase = n.EnumBase
		d.EnumValues = enumValues(n)
	}
	return d.Name
}

func (r *Resolver) registerObject(n *schema.Node, hint string) (string, error) {
	d, created := r.registry.Register(schema.Identity(n), r.baseName(n, hint), n, DeclObject)
	if !created {
		return d.Name, nil
	}
	d.Style = r.opts.Styles.StyleOf(d.Name)
	d.Description = n.Description

	r.path = append(r.path, d.Name)
	defer func() { r.path = r.path[:len(r.path)-1] }()

	if err := r.fillObject(d, n); err != nil {
		return "", err
	}
	return d.Name, nil
}

func (r *Resolver) fillObject(d *Declaration, n *schema.Node) error {
	for _, parent := range n.Inherits {
		linked, err := r.linkBase(d, parent)
		if err != nil {
			return err
		}
		if linked {
			continue
		}
		if err := r.flattenInto(d, parent, map[*schema.Node]bool{n: true}); err != nil {
			return err
		}
	}
	if err := r.addMembers(d, n.Properties); err != nil {
		return err
	}
	if n.AdditionalProperties != nil {
		t, err := r.resolve(n.AdditionalProperties, d.Name+"Value")
		if err != nil {
			return err
		}
		d.IndexType = t
	}
	if n.Discriminator != nil {
		d.Discriminator = n.Discriminator.PropertyName
		return r.collectSubtypes(d, n)
	}
	return nil
}

// linkBase adds parent to the extends list of d when the composition
// strategy and both declaration styles allow it.
func (r *Resolver) linkBase(d *Declaration, parent *schema.Node) (bool, error) {
	if r.opts.Composition != CompositionInherit || parent == nil {
		return false, nil
	}
	if parent.Kind != schema.KindRef && parent.ID == "" {
		return false, nil
	}
	actual, err := r.Actual(parent)
	if err != nil {
		return false, err
	}
	if actual.Kind != schema.KindObject {
		return false, nil
	}
	// a class has a single base, the remaining parents are flattened
	if d.Style == StyleClass && len(d.Bases) > 0 {
		return false, nil
	}
	name, err := r.resolve(actual, "")
	if err != nil {
		return false, err
	}
	if name == d.Name {
		return true, nil
	}
	base, _ := r.registry.ByName(name)
	if d.Style == StyleClass && !base.IsClass() {
		return false, nil
	}
	d.Bases = append(d.Bases, name)
	return true, nil
}

func (r *Resolver) flattenInto(d *Declaration, part *schema.Node, visited map[*schema.Node]bool) error {
	actual, err := r.Actual(part)
	if err != nil {
		return err
	}
	if actual == nil || visited[actual] {
		return nil
	}
	visited[actual] = true
	for _, p := range actual.Inherits {
		if err := r.flattenInto(d, p, visited); err != nil {
			return err
		}
	}
	if actual.Discriminator != nil && d.Discriminator == "" {
		d.Discriminator = actual.Discriminator.PropertyName
	}
	if actual.AdditionalProperties != nil && d.IndexType == "" {
		t, err := r.resolve(actual.AdditionalProperties, d.Name+"Value")
		if err != nil {
			return err
		}
		d.IndexType = t
	}
	return r.addMembers(d, actual.Properties)
}

func (r *Resolver) addMembers(d *Declaration, props []schema.Property) error {
	for _, p := range props {
		nullable := !p.Required || (p.Schema != nil && p.Schema.Nullable)
		r.path = append(r.path, p.Name)
		t, err := r.Resolve(p.Schema, nullable, utils.ToTypeName(p.Name))
		r.path = r.path[:len(r.path)-1]
		if err != nil {
			return err
		}
		m := Member{
			Name:        p.Name,
			Type:        t,
			Schema:      p.Schema,
			Required:    p.Required,
			ReadOnly:    p.ReadOnly,
			Description: p.Description,
		}
		if existing, ok := d.Member(p.Name); ok {
			*existing = m
			continue
		}
		d.Members = append(d.Members, m)
	}
	return nil
}

// collectSubtypes resolves the derived types of a discriminated node: the
// explicit mapping first, then every definition inheriting from it.
func (r *Resolver) collectSubtypes(d *Declaration, n *schema.Node) error {
	seen := map[string]bool{}
	add := func(tag string, target *schema.Node) error {
		name, err := r.resolve(target, tag)
		if err != nil {
			return err
		}
		if name == d.Name || seen[name] {
			return nil
		}
		seen[name] = true
		d.Subtypes = append(d.Subtypes, Subtype{Tag: tag, TypeName: name})
		return nil
	}

	tags := make([]string, 0, len(n.Discriminator.Mapping))
	for tag := range n.Discriminator.Mapping {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		if err := add(tag, schema.NewRef(n.Discriminator.Mapping[tag])); err != nil {
			return err
		}
	}

	if n.ID == "" {
		return nil
	}
	for _, def := range r.graph.Definitions() {
		if inheritsFrom(def, n.ID) {
			if err := add(def.Name, def); err != nil {
				return err
			}
		}
	}
	return nil
}

func inheritsFrom(n *schema.Node, id string) bool {
	for _, p := range n.Inherits {
		if p != nil && (p.Ref == id || p.ID == id) {
			return true
		}
	}
	return false
}

func enumValues(n *schema.Node) []EnumValue {
	used := map[string]bool{}
	out := make([]EnumValue, 0, len(n.Enum))
	for i, v := range n.Enum {
		name := ""
		if len(n.EnumNames) == len(n.Enum) {
			name = utils.ToTypeName(n.EnumNames[i])
		}
		if name == "" {
			name = enumMemberName(v)
		}
		base := name
		for j := 2; used[name]; j++ {
			name = base + strconv.Itoa(j)
		}
		used[name] = true
		out = append(out, EnumValue{Name: name, Literal: Literal(v)})
	}
	return out
}

var numberNameReplacer = strings.NewReplacer("-", "Minus", ".", "Point", "+", "")

func enumMemberName(v any) string {
	switch x := v.(type) {
	case nil:
		return "Null"
	case string:
		if name := utils.ToTypeName(x); name != "" {
			return name
		}
		return "Empty"
	}
	return utils.ToTypeName(numberNameReplacer.Replace(fmt.Sprint(v)))
}
