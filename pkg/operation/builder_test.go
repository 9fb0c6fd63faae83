package operation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/ts-clientgen/pkg/openapi"
	"github.com/blimu-dev/ts-clientgen/pkg/schema"
	"github.com/blimu-dev/ts-clientgen/pkg/typegen"
)

const storeAPI = `
openapi: 3.0.3
info:
  title: Store
  version: 1.0.0
paths:
  /pets:
    get:
      operationId: PetsController_list
      tags: [pets]
      parameters:
        - name: tags
          in: query
          schema:
            type: array
            items:
              type: string
      responses:
        '200':
          description: OK
          content:
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Pet'
    post:
      operationId: Pets_create
      tags: [pets]
      requestBody:
        required: true
        content:
          application/json:
            schema:
              $ref: '#/components/schemas/Pet'
      responses:
        '204':
          description: Created
  /pets/{id}:
    get:
      operationId: Pets_get
      tags: [pets]
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: integer
      responses:
        '200':
          description: OK
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
        '404':
          description: Missing
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Problem'
        '500':
          description: Broken
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Problem'
        default:
          description: Anything else
          content:
            application/json:
              schema:
                type: object
                properties:
                  message:
                    type: string
  /stores:
    get:
      operationId: Stores_list
      tags: [stores]
      responses:
        '200':
          description: OK
          content:
            application/json:
              schema:
                type: object
                additionalProperties:
                  $ref: '#/components/schemas/Pet'
components:
  schemas:
    Pet:
      type: object
      required: [id]
      properties:
        id:
          type: integer
        born:
          type: string
          format: date
    Problem:
      type: object
      properties:
        title:
          type: string
`

func build(t *testing.T, styles typegen.StylePolicy, grouping Grouping) map[string]*Descriptor {
	t.Helper()
	doc, err := openapi.LoadData([]byte(storeAPI))
	require.NoError(t, err)
	r := typegen.NewResolver(doc.Graph, typegen.Options{Styles: styles})
	controllers, err := NewBuilder(r, Options{Grouping: grouping}).BuildAll(doc.Operations)
	require.NoError(t, err)

	out := map[string]*Descriptor{}
	for _, c := range controllers {
		for _, d := range c.Operations {
			out[d.OperationID] = d
		}
	}
	return out
}

func TestSuccessAndExceptionTypes(t *testing.T) {
	ops := build(t, typegen.StylePolicy{}, GroupByTag)

	get := ops["Pets_get"]
	assert.Equal(t, "Pet", get.SuccessType)
	assert.Equal(t, "Problem | Exception | string", get.ExceptionType)
	assert.True(t, get.HasSuccessValue())
	require.NotNil(t, get.DefaultResponse())
	assert.Equal(t, "Exception", get.DefaultResponse().Type)
	assert.Len(t, get.StatusResponses(), 3)

	create := ops["Pets_create"]
	assert.Equal(t, NoValue, create.SuccessType)
	assert.Equal(t, PlainTextFallback, create.ExceptionType)
	require.NotNil(t, create.Body())
	assert.Equal(t, "Pet", create.Body().Type)

	list := ops["PetsController_list"]
	assert.Equal(t, "Pet[]", list.SuccessType)
	tags := list.ParametersIn(schema.InQuery)
	require.Len(t, tags, 1)
	assert.Equal(t, "string[] | undefined", tags[0].Type)
	assert.True(t, tags[0].IsArray)

	stores := ops["Stores_list"]
	assert.Equal(t, "{ [key: string]: Pet; }", stores.SuccessType)
}

func TestLowestTypedSuccessWins(t *testing.T) {
	g := schema.NewGraph()
	g.Define("#/components/schemas/A", &schema.Node{Kind: schema.KindObject, Properties: []schema.Property{{Name: "a", Schema: &schema.Node{Kind: schema.KindString}}}})
	g.Define("#/components/schemas/B", &schema.Node{Kind: schema.KindObject, Properties: []schema.Property{{Name: "b", Schema: &schema.Node{Kind: schema.KindString}}}})
	op := schema.Operation{
		OperationID: "pick",
		Method:      "GET",
		Path:        "/pick",
		Responses: []schema.Response{
			{StatusCode: "202", Schema: schema.NewRef("#/components/schemas/B")},
			{StatusCode: "200"},
			{StatusCode: "201", Schema: schema.NewRef("#/components/schemas/A")},
		},
	}
	d, err := NewBuilder(typegen.NewResolver(g, typegen.DefaultOptions()), Options{}).Build(op)
	require.NoError(t, err)
	assert.Equal(t, "A", d.SuccessType)
	assert.Equal(t, "string", d.ExceptionType)

	codes := []string{}
	for _, r := range d.Responses {
		codes = append(codes, r.StatusCode)
	}
	assert.Equal(t, []string{"200", "201", "202"}, codes)
}

func TestUntypedResponses(t *testing.T) {
	b := NewBuilder(typegen.NewResolver(schema.NewGraph(), typegen.DefaultOptions()), Options{})
	tests := []struct {
		name      string
		responses []schema.Response
	}{
		{"untyped 200", []schema.Response{{StatusCode: "200"}}},
		{"no responses", nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			d, err := b.Build(schema.Operation{OperationID: "noop", Method: "GET", Path: "/noop", Responses: test.responses})
			require.NoError(t, err)
			assert.Equal(t, NoValue, d.SuccessType)
			assert.Equal(t, PlainTextFallback, d.ExceptionType)
			assert.False(t, d.HasSuccessValue())
		})
	}
}

func TestUntypedDefaultKeepsFallbackOnly(t *testing.T) {
	g := schema.NewGraph()
	g.Define("#/components/schemas/A", &schema.Node{Kind: schema.KindObject, Properties: []schema.Property{{Name: "a", Schema: &schema.Node{Kind: schema.KindString}}}})
	g.Define("#/components/schemas/B", &schema.Node{Kind: schema.KindObject, Properties: []schema.Property{{Name: "b", Schema: &schema.Node{Kind: schema.KindString}}}})
	op := schema.Operation{
		OperationID: "get",
		Method:      "GET",
		Path:        "/a",
		Responses: []schema.Response{
			{StatusCode: "default"},
			{StatusCode: "404", Schema: schema.NewRef("#/components/schemas/B")},
			{StatusCode: "200", Schema: schema.NewRef("#/components/schemas/A")},
		},
	}
	d, err := NewBuilder(typegen.NewResolver(g, typegen.DefaultOptions()), Options{}).Build(op)
	require.NoError(t, err)
	assert.Equal(t, "A", d.SuccessType)
	assert.Equal(t, "B | string", d.ExceptionType)
	require.NotNil(t, d.DefaultResponse())
	assert.False(t, d.DefaultResponse().HasType())
}

func TestBrokenReferenceNamesOperationAndStatus(t *testing.T) {
	op := schema.Operation{
		OperationID: "getThing",
		Method:      "GET",
		Path:        "/thing",
		Responses: []schema.Response{
			{StatusCode: "200", Schema: &schema.Node{Kind: schema.KindString}},
			{StatusCode: "409", Schema: schema.NewRef("#/components/schemas/Gone")},
		},
	}
	_, err := NewBuilder(typegen.NewResolver(schema.NewGraph(), typegen.DefaultOptions()), Options{}).Build(op)
	require.Error(t, err)

	var opErr *Error
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "getThing", opErr.Operation)
	assert.Equal(t, "409", opErr.Status)
	assert.True(t, errors.Is(err, schema.ErrUnresolvedRef))
	assert.Contains(t, err.Error(), "getThing")
	assert.Contains(t, err.Error(), "409")
}

func TestUseTypedConstruction(t *testing.T) {
	classes := build(t, typegen.StylePolicy{Default: typegen.StyleClass}, GroupByTag)
	interfaces := build(t, typegen.StylePolicy{}, GroupByTag)

	tests := []struct {
		op       string
		status   string
		expected bool
	}{
		{"Pets_get", "200", true},
		{"PetsController_list", "200", true},
		{"Stores_list", "200", true},
	}
	for _, test := range tests {
		for _, r := range classes[test.op].Responses {
			if r.StatusCode == test.status {
				assert.Equal(t, test.expected, r.UseTypedConstruction, "%s %s", test.op, test.status)
			}
		}
		for _, r := range interfaces[test.op].Responses {
			assert.False(t, r.UseTypedConstruction, "interface style never constructs")
		}
	}

	assert.True(t, classes["Pets_create"].Body().UseTypedConstruction)
	assert.False(t, classes["Pets_get"].Parameters[0].UseTypedConstruction, "primitives never construct")
	assert.False(t, interfaces["Pets_create"].Body().UseTypedConstruction)
}

func TestResponseConversionCode(t *testing.T) {
	ops := build(t, typegen.StylePolicy{Default: typegen.StyleClass}, GroupByTag)
	get := ops["Pets_get"]

	byStatus := map[string]*Response{}
	for _, r := range get.Responses {
		byStatus[r.StatusCode] = r
	}
	assert.Equal(t, "result200 = resultData200 ? Pet.fromJS(resultData200) : <any>undefined;", byStatus["200"].ConversionCode)
	assert.Equal(t, "result404 = resultData404 ? Problem.fromJS(resultData404) : <any>undefined;", byStatus["404"].ConversionCode)
	assert.Equal(t, "result = resultData ? Exception.fromJS(resultData) : <any>undefined;", byStatus["default"].ConversionCode)
}

func TestGrouping(t *testing.T) {
	names := func(g Grouping) map[string][2]string {
		out := map[string][2]string{}
		for id, d := range build(t, typegen.StylePolicy{}, g) {
			out[id] = [2]string{d.Controller, d.MethodName}
		}
		return out
	}

	assert.Equal(t, map[string][2]string{
		"PetsController_list": {"Pets", "list"},
		"Pets_create":         {"Pets", "petsCreate"},
		"Pets_get":            {"Pets", "petsGet"},
		"Stores_list":         {"Stores", "storesList"},
	}, names(GroupByTag))

	assert.Equal(t, map[string][2]string{
		"PetsController_list": {"PetsController", "list"},
		"Pets_create":         {"Pets", "create"},
		"Pets_get":            {"Pets", "get"},
		"Stores_list":         {"Stores", "list"},
	}, names(GroupByOperationID))

	single := names(GroupSingle)
	assert.Equal(t, [2]string{"", "list"}, single["PetsController_list"])
	assert.Equal(t, [2]string{"", "storesList"}, single["Stores_list"])
}

func TestMethodNamesAreUniquePerController(t *testing.T) {
	r := typegen.NewResolver(schema.NewGraph(), typegen.DefaultOptions())
	ops := []schema.Operation{
		{Method: "GET", Path: "/a", Tags: []string{"x"}},
		{Method: "GET", Path: "/b", Tags: []string{"x"}},
		{Method: "DELETE", Path: "/b/{id}", Tags: []string{"x"}},
	}
	controllers, err := NewBuilder(r, Options{}).BuildAll(ops)
	require.NoError(t, err)
	require.Len(t, controllers, 1)

	methods := []string{}
	for _, d := range controllers[0].Operations {
		methods = append(methods, d.MethodName)
	}
	assert.Equal(t, []string{"list", "list2", "delete"}, methods)
}

func TestMethodNamer(t *testing.T) {
	r := typegen.NewResolver(schema.NewGraph(), typegen.DefaultOptions())
	namer := func(op schema.Operation) string {
		if op.OperationID == "keep" {
			return ""
		}
		return "fetch_" + op.OperationID
	}
	b := NewBuilder(r, Options{MethodNamer: namer})

	d, err := b.Build(schema.Operation{OperationID: "things", Method: "GET", Path: "/things"})
	require.NoError(t, err)
	assert.Equal(t, "fetchThings", d.MethodName)

	d, err = b.Build(schema.Operation{OperationID: "keep", Method: "GET", Path: "/keep"})
	require.NoError(t, err)
	assert.Equal(t, "keep", d.MethodName)
}

func TestParseGrouping(t *testing.T) {
	g, err := ParseGrouping("")
	require.NoError(t, err)
	assert.Equal(t, GroupByTag, g)
	_, err = ParseGrouping("path")
	assert.Error(t, err)
}
