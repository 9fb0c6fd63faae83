package openapi

import (
	"errors"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/blimu-dev/ts-clientgen/pkg/schema"
)

// ComponentPrefix is the reference path of component schemas
const ComponentPrefix = "#/components/schemas/"

// methods in the order operations of one path are emitted
var methods = []string{"GET", "PUT", "POST", "DELETE", "OPTIONS", "HEAD", "PATCH", "TRACE"}

// enum member name extensions, first match wins
var enumNameExtensions = []string{"x-enumNames", "x-enum-varnames"}

type converter struct {
	graph *schema.Graph
}

// Convert turns a loaded OpenAPI document into a schema document. Component
// schemas become graph definitions keyed by their reference path; operations
// are ordered by path and method.
func Convert(doc *openapi3.T) (*schema.Document, error) {
	if doc == nil {
		return nil, errors.New("nil OpenAPI document")
	}
	c := &converter{graph: schema.NewGraph()}
	out := &schema.Document{Graph: c.graph}
	if doc.Info != nil {
		out.Title = doc.Info.Title
	}

	if doc.Components != nil {
		names := sortedKeys(doc.Components.Schemas)
		// define every component before filling any, so definition order
		// follows the component names
		for _, name := range names {
			if sr := doc.Components.Schemas[name]; sr != nil && (sr.Value != nil || sr.Ref != "") {
				c.graph.Define(ComponentPrefix+name, &schema.Node{})
			}
		}
		for _, name := range names {
			sr := doc.Components.Schemas[name]
			n, ok := c.graph.Lookup(ComponentPrefix + name)
			if !ok {
				continue
			}
			if sr.Ref != "" {
				target := c.ref(sr)
				n.Kind, n.Ref = schema.KindRef, target.Ref
				continue
			}
			c.fill(n, sr.Value)
		}
	}

	if doc.Paths != nil {
		pathMap := doc.Paths.Map()
		for _, path := range sortedKeys(pathMap) {
			item := pathMap[path]
			if item == nil {
				continue
			}
			for _, method := range methods {
				op := item.GetOperation(method)
				if op == nil {
					continue
				}
				out.Operations = append(out.Operations, c.operation(path, method, item, op))
			}
		}
	}
	return out, nil
}

// ref converts a schema reference. Referenced schemas are defined in the
// graph on first use and represented by a reference node.
func (c *converter) ref(sr *openapi3.SchemaRef) *schema.Node {
	if sr == nil {
		return nil
	}
	if sr.Ref != "" {
		id := sr.Ref
		if _, ok := c.graph.Lookup(id); !ok && sr.Value != nil {
			n := &schema.Node{}
			c.graph.Define(id, n)
			c.fill(n, sr.Value)
		}
		return schema.NewRef(id)
	}
	if sr.Value == nil {
		return nil
	}
	n := &schema.Node{}
	c.fill(n, sr.Value)
	return n
}

func (c *converter) refs(srs openapi3.SchemaRefs) []*schema.Node {
	out := make([]*schema.Node, 0, len(srs))
	for _, sr := range srs {
		if n := c.ref(sr); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// fill converts s into n. The ID and Name of n are left untouched.
func (c *converter) fill(n *schema.Node, s *openapi3.Schema) {
	if s == nil {
		n.Kind = schema.KindAny
		return
	}
	n.Description = s.Description
	n.Deprecated = s.Deprecated
	n.Format = s.Format
	n.Nullable = s.Nullable || hasType(s, "null")

	switch typ := primaryType(s); {
	case len(s.Enum) > 0:
		n.Kind = schema.KindEnum
		n.Enum = s.Enum
		n.EnumBase = enumBase(s)
		n.EnumNames = enumNames(s)
	case len(s.OneOf) > 0:
		n.Kind = schema.KindUnion
		n.Variants = c.refs(s.OneOf)
	case len(s.AnyOf) > 0:
		n.Kind = schema.KindUnion
		n.Variants = c.refs(s.AnyOf)
	case len(s.AllOf) == 1 && len(s.Properties) == 0 && s.Discriminator == nil:
		// a lone allOf only wraps its part
		part := c.ref(s.AllOf[0])
		if part == nil {
			n.Kind = schema.KindAny
			return
		}
		id, name, nullable, desc := n.ID, n.Name, n.Nullable, n.Description
		*n = *part
		n.ID, n.Name = id, name
		n.Nullable = n.Nullable || nullable
		if desc != "" {
			n.Description = desc
		}
	case len(s.AllOf) > 0:
		n.Inherits = c.refs(s.AllOf)
		c.fillObject(n, s)
	case typ == openapi3.TypeString:
		n.Kind = schema.KindString
		if s.Format == "binary" {
			n.Kind = schema.KindFile
		}
	case typ == openapi3.TypeInteger:
		n.Kind = schema.KindInteger
	case typ == openapi3.TypeNumber:
		n.Kind = schema.KindNumber
	case typ == openapi3.TypeBoolean:
		n.Kind = schema.KindBoolean
	case typ == openapi3.TypeArray:
		n.Kind = schema.KindArray
		n.Items = c.ref(s.Items)
	case typ == openapi3.TypeObject, len(s.Properties) > 0, s.AdditionalProperties.Schema != nil:
		c.fillObject(n, s)
	default:
		n.Kind = schema.KindAny
	}
}

func (c *converter) fillObject(n *schema.Node, s *openapi3.Schema) {
	n.Kind = schema.KindObject
	required := map[string]bool{}
	for _, r := range s.Required {
		required[r] = true
	}
	// deterministic order
	for _, name := range sortedKeys(s.Properties) {
		pr := s.Properties[name]
		p := schema.Property{Name: name, Schema: c.ref(pr), Required: required[name]}
		if pr != nil && pr.Value != nil {
			p.ReadOnly = pr.Value.ReadOnly
			if pr.Ref == "" {
				p.Description = pr.Value.Description
			}
		}
		n.Properties = append(n.Properties, p)
	}

	if s.AdditionalProperties.Schema != nil {
		n.AdditionalProperties = c.ref(s.AdditionalProperties.Schema)
		if n.AdditionalProperties == nil {
			n.AdditionalProperties = &schema.Node{Kind: schema.KindAny}
		}
	} else if has := s.AdditionalProperties.Has; has != nil && *has && len(n.Properties) == 0 {
		n.AdditionalProperties = &schema.Node{Kind: schema.KindAny}
	}

	if s.Discriminator != nil {
		d := &schema.Discriminator{PropertyName: s.Discriminator.PropertyName, Mapping: map[string]string{}}
		for tag, target := range s.Discriminator.Mapping {
			if !strings.Contains(target, "/") {
				target = ComponentPrefix + target
			}
			d.Mapping[tag] = target
		}
		n.Discriminator = d
	}

	if len(n.Properties) == 0 && len(n.Inherits) == 0 && n.Discriminator == nil {
		switch {
		case n.AdditionalProperties != nil:
			n.Kind = schema.KindMap
		case n.ID == "":
			// an inline object without shape is untyped
			n.Kind = schema.KindAny
		}
	}
}

func (c *converter) operation(path, method string, item *openapi3.PathItem, op *openapi3.Operation) schema.Operation {
	o := schema.Operation{
		OperationID: op.OperationID,
		Method:      method,
		Path:        path,
		Summary:     op.Summary,
		Description: op.Description,
		Deprecated:  op.Deprecated,
	}
	// Copy original tags, defaulting to ["misc"] if no tags
	o.Tags = append([]string(nil), op.Tags...)
	if len(o.Tags) == 0 {
		o.Tags = []string{"misc"}
	}

	for _, p := range mergeParameters(item.Parameters, op.Parameters) {
		loc := schema.Location(p.In)
		switch loc {
		case schema.InPath, schema.InQuery, schema.InHeader:
		default:
			continue
		}
		sr := p.Schema
		if sr == nil {
			for _, ct := range sortedKeys(p.Content) {
				if media := p.Content[ct]; media != nil && media.Schema != nil {
					sr = media.Schema
					break
				}
			}
		}
		o.Parameters = append(o.Parameters, schema.Parameter{
			Name:        p.Name,
			In:          loc,
			Schema:      c.ref(sr),
			Required:    p.Required || loc == schema.InPath,
			Description: p.Description,
		})
	}

	if op.RequestBody != nil && op.RequestBody.Value != nil {
		o.Parameters = append(o.Parameters, c.requestBody(op, op.RequestBody.Value)...)
	}

	if op.Responses != nil {
		for code, rr := range op.Responses.Map() {
			if rr == nil || rr.Value == nil {
				continue
			}
			resp := schema.Response{StatusCode: code, Schema: c.ref(responseSchema(rr.Value.Content))}
			if rr.Value.Description != nil {
				resp.Description = *rr.Value.Description
			}
			o.Responses = append(o.Responses, resp)
		}
		schema.SortResponses(o.Responses)
	}
	return o
}

// mergeParameters returns the path item parameters overridden by the
// operation's parameters with the same name and location.
func mergeParameters(itemParams, opParams openapi3.Parameters) []*openapi3.Parameter {
	var out []*openapi3.Parameter
	index := map[string]int{}
	for _, list := range []openapi3.Parameters{itemParams, opParams} {
		for _, pr := range list {
			if pr == nil || pr.Value == nil {
				continue
			}
			key := pr.Value.In + ":" + pr.Value.Name
			if i, ok := index[key]; ok {
				out[i] = pr.Value
				continue
			}
			index[key] = len(out)
			out = append(out, pr.Value)
		}
	}
	return out
}

// requestBody maps a JSON (or other single-value) body onto one body
// parameter and form bodies onto one form parameter per property.
func (c *converter) requestBody(op *openapi3.Operation, rb *openapi3.RequestBody) []schema.Parameter {
	name := "body"
	if ext, ok := op.Extensions["x-codegen-request-body-name"].(string); ok && ext != "" {
		name = ext
	}

	for _, ct := range []string{"multipart/form-data", "application/x-www-form-urlencoded"} {
		media, ok := rb.Content[ct]
		if !ok || media == nil || media.Schema == nil || media.Schema.Value == nil {
			continue
		}
		if _, hasJSON := jsonMedia(rb.Content); hasJSON {
			break
		}
		s := media.Schema.Value
		required := map[string]bool{}
		for _, r := range s.Required {
			required[r] = true
		}
		var out []schema.Parameter
		for _, prop := range sortedKeys(s.Properties) {
			pr := s.Properties[prop]
			p := schema.Parameter{Name: prop, In: schema.InFormData, Schema: c.ref(pr), Required: required[prop]}
			if pr != nil && pr.Value != nil {
				p.Description = pr.Value.Description
			}
			out = append(out, p)
		}
		return out
	}

	return []schema.Parameter{{
		Name:        name,
		In:          schema.InBody,
		Schema:      c.ref(responseSchema(rb.Content)),
		Required:    rb.Required,
		Description: rb.Description,
	}}
}

// responseSchema picks the schema of a content map: JSON first, then the
// first media type that declares a schema.
func responseSchema(content openapi3.Content) *openapi3.SchemaRef {
	if media, ok := jsonMedia(content); ok {
		return media.Schema
	}
	for _, ct := range sortedKeys(content) {
		if media := content[ct]; media != nil && media.Schema != nil {
			return media.Schema
		}
	}
	return nil
}

func jsonMedia(content openapi3.Content) (*openapi3.MediaType, bool) {
	if media, ok := content["application/json"]; ok && media != nil && media.Schema != nil {
		return media, true
	}
	for _, ct := range sortedKeys(content) {
		if media := content[ct]; strings.Contains(ct, "json") && media != nil && media.Schema != nil {
			return media, true
		}
	}
	return nil, false
}

func primaryType(s *openapi3.Schema) string {
	if s.Type == nil {
		return ""
	}
	for _, t := range *s.Type {
		if t != "null" {
			return t
		}
	}
	return ""
}

func hasType(s *openapi3.Schema, typ string) bool {
	if s.Type == nil {
		return false
	}
	for _, t := range *s.Type {
		if t == typ {
			return true
		}
	}
	return false
}

// enumBase infers the base kind for an enum
func enumBase(s *openapi3.Schema) schema.Kind {
	// Prefer explicit type when present
	switch primaryType(s) {
	case openapi3.TypeString:
		return schema.KindString
	case openapi3.TypeInteger:
		return schema.KindInteger
	case openapi3.TypeNumber:
		return schema.KindNumber
	case openapi3.TypeBoolean:
		return schema.KindBoolean
	}
	// Fallback: inspect first enum value
	switch s.Enum[0].(type) {
	case string:
		return schema.KindString
	case int, int32, int64:
		return schema.KindInteger
	case float32, float64:
		return schema.KindNumber
	case bool:
		return schema.KindBoolean
	}
	return schema.KindAny
}

func enumNames(s *openapi3.Schema) []string {
	for _, key := range enumNameExtensions {
		raw, ok := s.Extensions[key].([]any)
		if !ok || len(raw) != len(s.Enum) {
			continue
		}
		names := make([]string, 0, len(raw))
		for _, v := range raw {
			name, _ := v.(string)
			names = append(names, name)
		}
		return names
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
