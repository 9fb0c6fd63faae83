package typegen

import (
	"fmt"

	"github.com/blimu-dev/ts-clientgen/pkg/schema"
	"github.com/blimu-dev/ts-clientgen/pkg/utils"
)

// Converter emits the statements that turn decoded JSON into typed values
// and typed values back into plain JSON data. The output depends on the
// declaration style of the types involved and on the date handling.
type Converter struct {
	resolver *Resolver
}

// NewConverter creates a converter sharing the resolver's registry
func NewConverter(r *Resolver) *Converter {
	return &Converter{resolver: r}
}

// ToClass emits code assigning to target the typed value rebuilt from the
// decoded JSON value in source.
func (c *Converter) ToClass(node *schema.Node, source, target, hint string) (string, error) {
	w := &utils.CodeWriter{}
	if err := c.toClass(w, node, source, target, hint, 0, map[*Declaration]bool{}); err != nil {
		return "", err
	}
	return w.String(), nil
}

// ToJSON emits code assigning to target the plain JSON data of the typed
// value in source.
func (c *Converter) ToJSON(node *schema.Node, source, target, hint string) (string, error) {
	w := &utils.CodeWriter{}
	if err := c.toJSON(w, node, source, target, hint, 0); err != nil {
		return "", err
	}
	return w.String(), nil
}

// NeedsConversion reports whether values of node differ from their decoded
// JSON form: dates, class-style objects, interface-style objects with such
// members and containers of any of them.
func (c *Converter) NeedsConversion(node *schema.Node, hint string) (bool, error) {
	return c.needsConversion(node, hint, map[*Declaration]bool{})
}

// needsConversion skips interface declarations in stop, the objects whose
// members are already being converted further up.
func (c *Converter) needsConversion(node *schema.Node, hint string, stop map[*Declaration]bool) (bool, error) {
	if node == nil {
		return false, nil
	}
	actual, err := c.resolver.Actual(node)
	if err != nil {
		return false, err
	}
	switch actual.Kind {
	case schema.KindString:
		return c.isConvertedDate(actual), nil
	case schema.KindArray:
		return c.needsConversion(actual.Items, hint, stop)
	case schema.KindMap:
		return c.needsConversion(actual.AdditionalProperties, hint, stop)
	case schema.KindObject:
		d, err := c.declaration(actual, hint)
		if err != nil {
			return false, err
		}
		if d.IsClass() {
			return true, nil
		}
		if stop[d] {
			return false, nil
		}
		stop[d] = true
		defer delete(stop, d)
		for _, m := range c.members(d) {
			need, err := c.needsConversion(m.Schema, utils.ToTypeName(m.Name), stop)
			if err != nil || need {
				return need, err
			}
		}
	}
	return false, nil
}

// needsJSONConversion reports whether typed values of node have to be turned
// back into wire data explicitly. Dates inside interface-style objects are
// left to their own toJSON during serialization.
func (c *Converter) needsJSONConversion(node *schema.Node, hint string) (bool, error) {
	if node == nil {
		return false, nil
	}
	actual, err := c.resolver.Actual(node)
	if err != nil {
		return false, err
	}
	switch actual.Kind {
	case schema.KindString:
		return c.isConvertedDate(actual), nil
	case schema.KindArray:
		return c.needsJSONConversion(actual.Items, hint)
	case schema.KindMap:
		return c.needsJSONConversion(actual.AdditionalProperties, hint)
	case schema.KindObject:
		d, err := c.declaration(actual, hint)
		if err != nil {
			return false, err
		}
		return d.IsClass(), nil
	}
	return false, nil
}

// members returns the members of d including those inherited from its
// bases. A redeclared member replaces the inherited one.
func (c *Converter) members(d *Declaration) []Member {
	var out []Member
	seen := map[*Declaration]bool{}
	var collect func(d *Declaration)
	collect = func(d *Declaration) {
		if seen[d] {
			return
		}
		seen[d] = true
		for _, name := range d.Bases {
			if base, ok := c.resolver.registry.ByName(name); ok {
				collect(base)
			}
		}
	outer:
		for _, m := range d.Members {
			for i := range out {
				if out[i].Name == m.Name {
					out[i] = m
					continue outer
				}
			}
			out = append(out, m)
		}
	}
	collect(d)
	return out
}

func (c *Converter) isConvertedDate(n *schema.Node) bool {
	return n.IsDate() && c.resolver.opts.DateHandling != DateHandlingString
}

func (c *Converter) declaration(n *schema.Node, hint string) (*Declaration, error) {
	name, err := c.resolver.resolve(n, hint)
	if err != nil {
		return nil, err
	}
	d, _ := c.resolver.registry.ByName(name)
	return d, nil
}

func (c *Converter) toClass(w *utils.CodeWriter, node *schema.Node, src, dst, hint string, depth int, visiting map[*Declaration]bool) error {
	if node == nil {
		w.Linef("%s = %s;", dst, src)
		return nil
	}
	actual, err := c.resolver.Actual(node)
	if err != nil {
		return err
	}

	switch actual.Kind {
	case schema.KindString:
		if c.isConvertedDate(actual) {
			w.Linef("%s = %s ? %s : <any>undefined;", dst, src, c.parseDate(src))
			return nil
		}
	case schema.KindEnum:
		name, err := c.resolver.resolve(actual, hint)
		if err != nil {
			return err
		}
		w.Linef("%s = %s as %s;", dst, src, name)
		return nil
	case schema.KindArray:
		need, err := c.needsConversion(actual.Items, hint, visiting)
		if err != nil {
			return err
		}
		if !need {
			break
		}
		item, value := tempName("item", depth), tempName("value", depth)
		w.Linef("if (Array.isArray(%s)) {", src)
		w.Indent()
		w.Linef("%s = [] as any;", dst)
		w.Linef("for (let %s of %s) {", item, src)
		w.Indent()
		w.Linef("let %s: any;", value)
		if err := c.toClass(w, actual.Items, item, value, hint, depth+1, visiting); err != nil {
			return err
		}
		w.Linef("(<any>%s).push(%s);", dst, value)
		w.Close()
		w.Close()
		return nil
	case schema.KindMap:
		need, err := c.needsConversion(actual.AdditionalProperties, hint, visiting)
		if err != nil {
			return err
		}
		if !need {
			break
		}
		key, value := tempName("key", depth), tempName("value", depth)
		w.Linef("if (%s) {", src)
		w.Indent()
		w.Linef("%s = {} as any;", dst)
		w.Linef("for (let %s in %s) {", key, src)
		w.Indent()
		w.Linef("if (%s.hasOwnProperty(%s)) {", src, key)
		w.Indent()
		w.Linef("let %s: any;", value)
		if err := c.toClass(w, actual.AdditionalProperties, src+"["+key+"]", value, hint, depth+1, visiting); err != nil {
			return err
		}
		w.Linef("(<any>%s)[%s] = %s;", dst, key, value)
		w.Close()
		w.Close()
		w.Close()
		return nil
	case schema.KindObject:
		d, err := c.declaration(actual, hint)
		if err != nil {
			return err
		}
		if d.IsClass() {
			w.Linef("%s = %s ? %s.fromJS(%s) : <any>undefined;", dst, src, d.Name, src)
			return nil
		}
		need, err := c.needsConversion(actual, hint, visiting)
		if err != nil {
			return err
		}
		if need {
			if err := c.convertMembers(w, d, src, depth, visiting); err != nil {
				return err
			}
			if dst != src {
				w.Linef("%s = %s;", dst, src)
			}
			return nil
		}
	}
	w.Linef("%s = %s;", dst, src)
	return nil
}

// convertMembers rewrites the members of the interface-style object in src
// that need conversion, keeping the decoded object itself. A declaration
// reached again through its own members is left as decoded.
func (c *Converter) convertMembers(w *utils.CodeWriter, d *Declaration, src string, depth int, visiting map[*Declaration]bool) error {
	visiting[d] = true
	defer delete(visiting, d)

	w.Linef("if (%s) {", src)
	w.Indent()
	for _, m := range c.members(d) {
		hint := utils.ToTypeName(m.Name)
		need, err := c.needsConversion(m.Schema, hint, visiting)
		if err != nil {
			return err
		}
		if !need {
			continue
		}
		actual, err := c.resolver.Actual(m.Schema)
		if err != nil {
			return err
		}
		target := Index(src, m.Name)
		if actual.Kind != schema.KindArray && actual.Kind != schema.KindMap {
			if err := c.toClass(w, m.Schema, target, target, hint, depth+1, visiting); err != nil {
				return err
			}
			continue
		}
		// containers are rebuilt into a temporary first, their loops read target
		converted := tempName("converted", depth)
		w.Linef("if (%s) {", target)
		w.Indent()
		w.Linef("let %s: any = %s;", converted, target)
		if err := c.toClass(w, m.Schema, target, converted, hint, depth+1, visiting); err != nil {
			return err
		}
		w.Linef("%s = %s;", target, converted)
		w.Close()
	}
	w.Close()
	return nil
}

func (c *Converter) toJSON(w *utils.CodeWriter, node *schema.Node, src, dst, hint string, depth int) error {
	if node == nil {
		w.Linef("%s = %s;", dst, src)
		return nil
	}
	actual, err := c.resolver.Actual(node)
	if err != nil {
		return err
	}

	switch actual.Kind {
	case schema.KindString:
		if c.isConvertedDate(actual) {
			w.Linef("%s = %s ? %s : <any>undefined;", dst, src, c.formatDate(src, actual.Format))
			return nil
		}
	case schema.KindArray:
		need, err := c.needsJSONConversion(actual.Items, hint)
		if err != nil {
			return err
		}
		if !need {
			break
		}
		item, value := tempName("item", depth), tempName("value", depth)
		w.Linef("if (Array.isArray(%s)) {", src)
		w.Indent()
		w.Linef("%s = [];", dst)
		w.Linef("for (let %s of %s) {", item, src)
		w.Indent()
		w.Linef("let %s: any;", value)
		if err := c.toJSON(w, actual.Items, item, value, hint, depth+1); err != nil {
			return err
		}
		w.Linef("(<any>%s).push(%s);", dst, value)
		w.Close()
		w.Close()
		return nil
	case schema.KindMap:
		need, err := c.needsJSONConversion(actual.AdditionalProperties, hint)
		if err != nil {
			return err
		}
		if !need {
			break
		}
		key, value := tempName("key", depth), tempName("value", depth)
		w.Linef("if (%s) {", src)
		w.Indent()
		w.Linef("%s = {};", dst)
		w.Linef("for (let %s in %s) {", key, src)
		w.Indent()
		w.Linef("if (%s.hasOwnProperty(%s)) {", src, key)
		w.Indent()
		w.Linef("let %s: any;", value)
		if err := c.toJSON(w, actual.AdditionalProperties, "(<any>"+src+")["+key+"]", value, hint, depth+1); err != nil {
			return err
		}
		w.Linef("(<any>%s)[%s] = %s;", dst, key, value)
		w.Close()
		w.Close()
		w.Close()
		return nil
	case schema.KindObject:
		d, err := c.declaration(actual, hint)
		if err != nil {
			return err
		}
		if d.IsClass() {
			w.Linef("%s = %s ? %s.toJSON() : <any>undefined;", dst, src, src)
			return nil
		}
	}
	w.Linef("%s = %s;", dst, src)
	return nil
}

// parseDate returns the expression decoding the date string in src
func (c *Converter) parseDate(src string) string {
	if c.resolver.opts.DateHandling == DateHandlingMoment {
		return "moment(" + src + ".toString())"
	}
	return "new Date(" + src + ".toString())"
}

// formatDate returns the expression encoding the date value in src
func (c *Converter) formatDate(src, format string) string {
	return FormatDate(c.resolver.opts.DateHandling, src, format)
}

// FormatDate returns the expression encoding the date value in src under
// handling. Plain dates keep only the calendar day.
func FormatDate(handling DateHandling, src, format string) string {
	if format == "date" {
		if handling == DateHandlingMoment {
			return src + ".format('YYYY-MM-DD')"
		}
		return src + ".toISOString().slice(0, 10)"
	}
	return src + ".toISOString()"
}

func tempName(base string, depth int) string {
	if depth == 0 {
		return base
	}
	return fmt.Sprintf("%s%d", base, depth)
}
