package typegen

import (
	"strings"

	"github.com/blimu-dev/ts-clientgen/pkg/utils"
)

// EmitDeclarations renders every declaration accumulated by r. It must run
// after all resolution of the generation run is complete. Declarations are
// emitted in registration order, except that a base class always precedes
// the classes extending it.
func EmitDeclarations(r *Resolver) (string, error) {
	conv := NewConverter(r)
	emitted := map[*Declaration]bool{}
	var blocks []string
	for {
		var pending []*Declaration
		for _, d := range orderDeclarations(r.registry) {
			if !emitted[d] {
				pending = append(pending, d)
			}
		}
		if len(pending) == 0 {
			break
		}
		for _, d := range pending {
			code, err := emitDeclaration(r, conv, d)
			if err != nil {
				return "", err
			}
			emitted[d] = true
			blocks = append(blocks, code)
		}
	}
	return strings.Join(blocks, "\n\n"), nil
}

func orderDeclarations(reg *Registry) []*Declaration {
	decls := reg.Declarations()
	out := make([]*Declaration, 0, len(decls))
	placed := map[*Declaration]bool{}
	var place func(d *Declaration)
	place = func(d *Declaration) {
		if placed[d] {
			return
		}
		placed[d] = true
		if d.IsClass() {
			for _, name := range d.Bases {
				if base, ok := reg.ByName(name); ok {
					place(base)
				}
			}
		}
		out = append(out, d)
	}
	for _, d := range decls {
		place(d)
	}
	return out
}

func emitDeclaration(r *Resolver, conv *Converter, d *Declaration) (string, error) {
	w := &utils.CodeWriter{}
	w.Doc(d.Description)
	switch {
	case d.Kind == DeclEnum:
		emitEnum(w, d)
	case d.IsClass():
		if err := emitClass(w, r, conv, d); err != nil {
			return "", err
		}
	default:
		emitInterface(w, d, d.Name, interfaceBases(r, d))
	}
	return w.String(), nil
}

func emitEnum(w *utils.CodeWriter, d *Declaration) {
	literals := make([]string, 0, len(d.EnumValues))
	enumerable := len(d.EnumValues) > 0
	for _, v := range d.EnumValues {
		literals = append(literals, v.Literal)
		if !isStringOrNumberLiteral(v.Literal) {
			enumerable = false
		}
	}
	if !enumerable {
		t := strings.Join(literals, " | ")
		if t == "" {
			t = "any"
		}
		w.Linef("export type %s = %s;", d.Name, t)
		return
	}
	w.Linef("export enum %s {", d.Name)
	w.Indent()
	for _, v := range d.EnumValues {
		w.Linef("%s = %s,", v.Name, v.Literal)
	}
	w.Close()
}

func isStringOrNumberLiteral(lit string) bool {
	if lit == "" {
		return false
	}
	c := lit[0]
	return c == '"' || c == '-' || (c >= '0' && c <= '9')
}

// interfaceBases returns the extends list of an interface declaration.
// Class bases are referenced through their companion interface.
func interfaceBases(r *Resolver, d *Declaration) []string {
	out := make([]string, 0, len(d.Bases))
	for _, name := range d.Bases {
		if base, ok := r.registry.ByName(name); ok && base.IsClass() {
			name = "I" + name
		}
		out = append(out, name)
	}
	return out
}

func emitInterface(w *utils.CodeWriter, d *Declaration, name string, bases []string) {
	header := "export interface " + name
	if len(bases) > 0 {
		header += " extends " + strings.Join(bases, ", ")
	}
	w.Line(header + " {")
	w.Indent()
	writeMembers(w, d, false)
	w.Close()
}

func writeMembers(w *utils.CodeWriter, d *Declaration, class bool) {
	for _, m := range d.Members {
		w.Doc(m.Description)
		marker := ""
		if !m.Required {
			marker = "?"
		} else if class {
			marker = "!"
		}
		w.Linef("%s%s: %s;", utils.QuotePropertyName(m.Name), marker, m.Type)
	}
	if d.IndexType != "" {
		t := d.IndexType
		if len(d.Members) > 0 || class {
			t = "any"
		}
		w.Linef("[key: string]: %s;", t)
	}
}

func emitClass(w *utils.CodeWriter, r *Resolver, conv *Converter, d *Declaration) error {
	base := ""
	if len(d.Bases) > 0 {
		base = d.Bases[0]
	}
	header := "export class " + d.Name
	if base != "" {
		header += " extends " + base
	}
	w.Line(header + " implements I" + d.Name + " {")
	w.Indent()
	writeMembers(w, d, true)
	if len(d.Members) > 0 || d.IndexType != "" {
		w.Line("")
	}

	w.Linef("constructor(data?: I%s) {", d.Name)
	w.Indent()
	if base != "" {
		w.Line("super(data);")
	}
	w.Line("if (data) {")
	w.Indent()
	w.Line("for (var property in data) {")
	w.Indent()
	w.Line("if (data.hasOwnProperty(property))")
	w.Line("    (<any>this)[property] = (<any>data)[property];")
	w.Close()
	w.Close()
	w.Close()
	w.Line("")

	w.Line("init(_data?: any) {")
	w.Indent()
	if base != "" {
		w.Line("super.init(_data);")
	}
	w.Line("if (_data) {")
	w.Indent()
	if d.IndexType != "" {
		w.Line("for (var property in _data) {")
		w.Indent()
		w.Line("if (_data.hasOwnProperty(property))")
		w.Line("    (<any>this)[property] = _data[property];")
		w.Close()
	}
	for _, m := range d.Members {
		code, err := conv.ToClass(m.Schema, Index("_data", m.Name), Access("this", m.Name), utils.ToTypeName(m.Name))
		if err != nil {
			return err
		}
		w.Block(code)
	}
	w.Close()
	w.Close()
	w.Line("")

	w.Linef("static fromJS(data: any): %s {", d.Name)
	w.Indent()
	w.Line("data = typeof data === 'object' ? data : {};")
	for _, st := range d.Subtypes {
		sub, ok := r.registry.ByName(st.TypeName)
		if !ok || !sub.IsClass() {
			continue
		}
		w.Linef("if (%s === %s) {", Index("data", d.Discriminator), Literal(st.Tag))
		w.Indent()
		w.Linef("let result = new %s();", st.TypeName)
		w.Line("result.init(data);")
		w.Line("return result;")
		w.Close()
	}
	w.Linef("let result = new %s();", d.Name)
	w.Line("result.init(data);")
	w.Line("return result;")
	w.Close()
	w.Line("")

	w.Line("toJSON(data?: any) {")
	w.Indent()
	w.Line("data = typeof data === 'object' ? data : {};")
	if d.IndexType != "" {
		w.Line("for (var property in this) {")
		w.Indent()
		w.Line("if (this.hasOwnProperty(property))")
		w.Line("    data[property] = (<any>this)[property];")
		w.Close()
	}
	for _, m := range d.Members {
		code, err := conv.ToJSON(m.Schema, Access("this", m.Name), Index("data", m.Name), utils.ToTypeName(m.Name))
		if err != nil {
			return err
		}
		w.Block(code)
	}
	if base != "" {
		w.Line("super.toJSON(data);")
	}
	w.Line("return data;")
	w.Close()
	w.Close()
	w.Line("")

	bases := make([]string, 0, len(d.Bases))
	for _, b := range d.Bases {
		bases = append(bases, "I"+b)
	}
	w.Doc(d.Description)
	emitInterface(w, d, "I"+d.Name, bases)
	return nil
}
