package operation

import (
	"sort"
	"strings"

	"github.com/blimu-dev/ts-clientgen/pkg/schema"
	"github.com/blimu-dev/ts-clientgen/pkg/typegen"
	"github.com/blimu-dev/ts-clientgen/pkg/utils"
)

// Options configures a Builder
type Options struct {
	Grouping Grouping
	// MethodNamer, when set, names client methods. An empty result falls
	// back to the grouping's naming.
	MethodNamer func(op schema.Operation) string
}

// Builder types operations against the run's resolver
type Builder struct {
	resolver  *typegen.Resolver
	converter *typegen.Converter
	opts      Options
}

// NewBuilder creates a builder that registers declarations in r
func NewBuilder(r *typegen.Resolver, opts Options) *Builder {
	if opts.Grouping == "" {
		opts.Grouping = GroupByTag
	}
	return &Builder{resolver: r, converter: typegen.NewConverter(r), opts: opts}
}

// BuildAll builds every operation and groups the descriptors into
// controllers sorted by name. Method names are unique per controller.
func (b *Builder) BuildAll(ops []schema.Operation) ([]*Controller, error) {
	byName := map[string]*Controller{}
	var controllers []*Controller
	for _, op := range ops {
		d, err := b.Build(op)
		if err != nil {
			return nil, err
		}
		c, ok := byName[d.Controller]
		if !ok {
			c = &Controller{Name: d.Controller}
			byName[d.Controller] = c
			controllers = append(controllers, c)
		}
		c.Operations = append(c.Operations, d)
	}
	sort.SliceStable(controllers, func(i, j int) bool {
		return controllers[i].Name < controllers[j].Name
	})
	for _, c := range controllers {
		used := map[string]bool{}
		for _, d := range c.Operations {
			d.MethodName = uniqueName(d.MethodName, used)
		}
	}
	return controllers, nil
}

// Build types a single operation
func (b *Builder) Build(op schema.Operation) (*Descriptor, error) {
	label := op.OperationID
	if label == "" {
		label = op.Method + " " + op.Path
	}
	controller, method := Names(op, b.opts.Grouping)
	if b.opts.MethodNamer != nil {
		if name := utils.ToCamelCase(b.opts.MethodNamer(op)); name != "" {
			method = name
		}
	}
	d := &Descriptor{
		OperationID: op.OperationID,
		Method:      strings.ToUpper(op.Method),
		Path:        op.Path,
		Controller:  controller,
		MethodName:  method,
		Summary:     op.Summary,
		Description: op.Description,
		Deprecated:  op.Deprecated,
	}

	used := map[string]bool{}
	for _, p := range op.Parameters {
		param, err := b.parameter(p)
		if err != nil {
			return nil, &Error{Operation: label, Parameter: p.Name, Err: err}
		}
		param.VariableName = uniqueName(param.VariableName, used)
		d.Parameters = append(d.Parameters, param)
	}

	responses := append([]schema.Response(nil), op.Responses...)
	schema.SortResponses(responses)
	var exceptions []string
	for _, resp := range responses {
		rd, err := b.response(resp)
		if err != nil {
			return nil, &Error{Operation: label, Status: resp.StatusCode, Err: err}
		}
		d.Responses = append(d.Responses, rd)
		if !rd.HasType() {
			continue
		}
		if rd.IsSuccess {
			if d.SuccessType == "" {
				d.SuccessType = rd.Type
			}
			continue
		}
		exceptions = append(exceptions, rd.Type)
	}
	if d.SuccessType == "" {
		d.SuccessType = NoValue
	}
	d.ExceptionType = exceptionUnion(exceptions)
	return d, nil
}

func (b *Builder) parameter(p schema.Parameter) (*Parameter, error) {
	t, err := b.resolver.Resolve(p.Schema, !p.Required, utils.ToTypeName(p.Name))
	if err != nil {
		return nil, err
	}
	param := &Parameter{
		Name:         p.Name,
		VariableName: utils.ToVariableName(p.Name),
		In:           p.In,
		Schema:       p.Schema,
		Required:     p.Required,
		Description:  p.Description,
		Type:         t,
	}
	if p.Schema == nil {
		return param, nil
	}
	actual, err := b.resolver.Actual(p.Schema)
	if err != nil {
		return nil, err
	}
	param.IsArray = actual.Kind == schema.KindArray
	param.IsDictionary = actual.Kind == schema.KindMap
	param.IsFile = actual.Kind == schema.KindFile
	dated := actual
	if param.IsArray && actual.Items != nil {
		if dated, err = b.resolver.Actual(actual.Items); err != nil {
			return nil, err
		}
	}
	param.IsDate = dated.IsDate() && b.resolver.Options().DateHandling != typegen.DateHandlingString
	if param.IsDate {
		param.DateFormat = dated.Format
		param.DateHandling = b.resolver.Options().DateHandling
	}
	param.UseTypedConstruction, err = b.typedConstruction(actual, t)
	if err != nil {
		return nil, err
	}
	return param, nil
}

func (b *Builder) response(resp schema.Response) (*Response, error) {
	rd := &Response{
		StatusCode:     resp.StatusCode,
		Schema:         resp.Schema,
		Description:    resp.Description,
		IsSuccess:      schema.IsSuccessStatus(resp.StatusCode),
		ResultVariable: "result" + resp.StatusCode,
		DataVariable:   "resultData" + resp.StatusCode,
	}
	if rd.IsDefault() {
		rd.ResultVariable, rd.DataVariable = "result", "resultData"
	}
	if resp.Schema == nil {
		return rd, nil
	}

	hint := "Exception"
	if rd.IsSuccess {
		hint = "Response"
	}
	t, err := b.resolver.Resolve(resp.Schema, resp.Schema.Nullable, hint)
	if err != nil {
		return nil, err
	}
	rd.Type = t
	actual, err := b.resolver.Actual(resp.Schema)
	if err != nil {
		return nil, err
	}
	if rd.UseTypedConstruction, err = b.typedConstruction(actual, t); err != nil {
		return nil, err
	}
	rd.ConversionCode, err = b.converter.ToClass(resp.Schema, rd.DataVariable, rd.ResultVariable, hint)
	if err != nil {
		return nil, err
	}
	return rd, nil
}

// typedConstruction checks the element type of arrays and maps and the
// type itself otherwise.
func (b *Builder) typedConstruction(actual *schema.Node, t string) (bool, error) {
	var inner *schema.Node
	switch actual.Kind {
	case schema.KindArray:
		inner = actual.Items
	case schema.KindMap:
		inner = actual.AdditionalProperties
	default:
		return b.resolver.UsesTypedConstruction(t), nil
	}
	innerType, err := b.resolver.Resolve(inner, false, "")
	if err != nil {
		return false, err
	}
	return b.resolver.UsesTypedConstruction(innerType), nil
}

func exceptionUnion(types []string) string {
	seen := map[string]bool{PlainTextFallback: true}
	parts := make([]string, 0, len(types)+1)
	for _, t := range types {
		if !seen[t] {
			seen[t] = true
			parts = append(parts, t)
		}
	}
	return strings.Join(append(parts, PlainTextFallback), " | ")
}
