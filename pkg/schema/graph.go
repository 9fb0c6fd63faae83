package schema

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ErrUnresolvedRef is returned when a reference cannot be located in the graph.
var ErrUnresolvedRef = errors.New("unresolved schema reference")

// Graph holds the named definitions of a document. It is built once by the
// loading front end and treated as immutable afterwards.
type Graph struct {
	defs  map[string]*Node
	order []string
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{defs: map[string]*Node{}}
}

// Define registers n under id. The node's ID is set to id and, when the node
// has no declared name, the last path segment becomes its name.
func (g *Graph) Define(id string, n *Node) {
	n.ID = id
	if n.Name == "" {
		n.Name = id[strings.LastIndex(id, "/")+1:]
	}
	if _, ok := g.defs[id]; !ok {
		g.order = append(g.order, id)
	}
	g.defs[id] = n
}

// Lookup returns the definition with the given ID
func (g *Graph) Lookup(id string) (*Node, bool) {
	n, ok := g.defs[id]
	return n, ok
}

// Definitions returns all definitions in definition order.
func (g *Graph) Definitions() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.defs[id])
	}
	return out
}

// Actual follows reference nodes until it reaches a non-reference node.
func (g *Graph) Actual(n *Node) (*Node, error) {
	seen := map[string]bool{}
	for n != nil && n.Kind == KindRef {
		if seen[n.Ref] {
			return nil, fmt.Errorf("%w: reference cycle at %s", ErrUnresolvedRef, n.Ref)
		}
		seen[n.Ref] = true
		target, ok := g.defs[n.Ref]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnresolvedRef, n.Ref)
		}
		n = target
	}
	return n, nil
}

// Identity returns the identity of n: its reference path when it is a named
// definition, otherwise a digest of its structure. Named children contribute
// only their ID to the digest, so the walk terminates on recursive graphs.
func Identity(n *Node) string {
	if n == nil {
		return ""
	}
	if n.ID != "" {
		return n.ID
	}
	if n.Kind == KindRef {
		return n.Ref
	}
	d := xxhash.New()
	writeStructure(d, n, map[*Node]bool{})
	return "anonymous:" + strconv.FormatUint(d.Sum64(), 16)
}

func writeStructure(d *xxhash.Digest, n *Node, visiting map[*Node]bool) {
	if n == nil {
		_, _ = d.WriteString("nil;")
		return
	}
	if n.ID != "" {
		_, _ = d.WriteString("id:" + n.ID + ";")
		return
	}
	if visiting[n] {
		_, _ = d.WriteString("cycle;")
		return
	}
	visiting[n] = true
	defer delete(visiting, n)

	_, _ = d.WriteString(string(n.Kind) + "|" + n.Format + "|" + n.Ref + "|" + n.Name + ";")
	for _, p := range n.Properties {
		_, _ = d.WriteString("p:" + p.Name + ":" + strconv.FormatBool(p.Required) + ";")
		writeStructure(d, p.Schema, visiting)
	}
	if n.AdditionalProperties != nil {
		_, _ = d.WriteString("ap;")
		writeStructure(d, n.AdditionalProperties, visiting)
	}
	if n.Items != nil {
		_, _ = d.WriteString("items;")
		writeStructure(d, n.Items, visiting)
	}
	for _, s := range n.Inherits {
		_, _ = d.WriteString("inherits;")
		writeStructure(d, s, visiting)
	}
	for _, s := range n.Variants {
		_, _ = d.WriteString("variant;")
		writeStructure(d, s, visiting)
	}
	for _, v := range n.Enum {
		_, _ = d.WriteString(fmt.Sprintf("e:%T:%v;", v, v))
	}
	if n.Discriminator != nil {
		_, _ = d.WriteString("disc:" + n.Discriminator.PropertyName + ";")
		keys := make([]string, 0, len(n.Discriminator.Mapping))
		for k := range n.Discriminator.Mapping {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, _ = d.WriteString(k + "=" + n.Discriminator.Mapping[k] + ";")
		}
	}
}
