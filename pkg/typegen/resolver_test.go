package typegen

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blimu-dev/ts-clientgen/pkg/schema"
)

const componentPrefix = "#/components/schemas/"

func str() *schema.Node { return &schema.Node{Kind: schema.KindString} }

func ref(name string) *schema.Node { return schema.NewRef(componentPrefix + name) }

func object(props ...schema.Property) *schema.Node {
	return &schema.Node{Kind: schema.KindObject, Properties: props}
}

func required(name string, n *schema.Node) schema.Property {
	return schema.Property{Name: name, Schema: n, Required: true}
}

func optional(name string, n *schema.Node) schema.Property {
	return schema.Property{Name: name, Schema: n}
}

func petGraph() *schema.Graph {
	g := schema.NewGraph()
	g.Define(componentPrefix+"Owner", object(required("name", str())))
	g.Define(componentPrefix+"Pet", object(
		required("id", &schema.Node{Kind: schema.KindInteger}),
		optional("tag", str()),
		optional("owner", ref("Owner")),
		optional("born", &schema.Node{Kind: schema.KindString, Format: "date-time"}),
	))
	return g
}

func TestResolvePrimitives(t *testing.T) {
	r := NewResolver(schema.NewGraph(), DefaultOptions())
	tests := []struct {
		name     string
		node     *schema.Node
		nullable bool
		expected string
	}{
		{"nil", nil, false, "any"},
		{"string", str(), false, "string"},
		{"integer", &schema.Node{Kind: schema.KindInteger}, false, "number"},
		{"number", &schema.Node{Kind: schema.KindNumber}, true, "number | undefined"},
		{"boolean", &schema.Node{Kind: schema.KindBoolean}, false, "boolean"},
		{"file", &schema.Node{Kind: schema.KindFile}, false, "any"},
		{"any stays any when nullable", &schema.Node{Kind: schema.KindAny}, true, "any"},
		{"date", &schema.Node{Kind: schema.KindString, Format: "date"}, false, "Date"},
		{"array", &schema.Node{Kind: schema.KindArray, Items: str()}, false, "string[]"},
		{"map", &schema.Node{Kind: schema.KindMap, AdditionalProperties: &schema.Node{Kind: schema.KindNumber}}, false, "{ [key: string]: number; }"},
		{"union", &schema.Node{Kind: schema.KindUnion, Variants: []*schema.Node{str(), &schema.Node{Kind: schema.KindNumber}, str()}}, false, "string | number"},
		{"array of union", &schema.Node{Kind: schema.KindArray, Items: &schema.Node{Kind: schema.KindUnion, Variants: []*schema.Node{str(), &schema.Node{Kind: schema.KindBoolean}}}}, false, "(string | boolean)[]"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := r.Resolve(test.node, test.nullable, "Hint")
			require.NoError(t, err)
			assert.Equal(t, test.expected, got)
		})
	}
	assert.Zero(t, r.Registry().Len(), "primitives must not register declarations")
}

func TestResolveDateHandling(t *testing.T) {
	date := &schema.Node{Kind: schema.KindString, Format: "date-time"}
	for handling, expected := range map[DateHandling]string{
		DateHandlingDate:   "Date",
		DateHandlingMoment: "moment.Moment",
		DateHandlingString: "string",
	} {
		r := NewResolver(schema.NewGraph(), Options{DateHandling: handling})
		got, err := r.Resolve(date, false, "")
		require.NoError(t, err)
		assert.Equal(t, expected, got, "date handling %s", handling)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	g := petGraph()
	r := NewResolver(g, DefaultOptions())

	first, err := r.Resolve(ref("Pet"), false, "Ignored")
	require.NoError(t, err)
	count := r.Registry().Len()

	second, err := r.Resolve(ref("Pet"), false, "Other")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, "Pet", first)
	assert.Equal(t, count, r.Registry().Len())

	pet, ok := r.Registry().ByName("Pet")
	require.True(t, ok)
	owner, ok := pet.Member("owner")
	require.True(t, ok)
	assert.Equal(t, "Owner | undefined", owner.Type)
	id, _ := pet.Member("id")
	assert.Equal(t, "number", id.Type)
}

func TestAnonymousObjectsShareDeclaration(t *testing.T) {
	r := NewResolver(schema.NewGraph(), DefaultOptions())
	a, err := r.Resolve(object(required("code", str())), false, "Response")
	require.NoError(t, err)
	b, err := r.Resolve(object(required("code", str())), false, "Other")
	require.NoError(t, err)
	assert.Equal(t, "Response", a)
	assert.Equal(t, a, b)
	assert.Equal(t, 1, r.Registry().Len())

	empty, err := r.Resolve(object(required("x", str())), false, "")
	require.NoError(t, err)
	assert.Equal(t, "Anonymous", empty)
}

func TestSelfReferentialSchema(t *testing.T) {
	g := schema.NewGraph()
	g.Define(componentPrefix+"TreeNode", object(
		required("value", str()),
		optional("children", &schema.Node{Kind: schema.KindArray, Items: ref("TreeNode")}),
		optional("parent", ref("TreeNode")),
	))
	r := NewResolver(g, DefaultOptions())

	name, err := r.Resolve(ref("TreeNode"), false, "")
	require.NoError(t, err)
	assert.Equal(t, "TreeNode", name)
	assert.Equal(t, 1, r.Registry().Len())

	d, _ := r.Registry().ByName("TreeNode")
	children, _ := d.Member("children")
	assert.Equal(t, "TreeNode[] | undefined", children.Type)
}

func TestNameCollisions(t *testing.T) {
	g := schema.NewGraph()
	g.Define(componentPrefix+"Foo", object(required("a", str())))
	g.Define("#/definitions/Foo", object(required("b", str())))
	g.Define("#/components/schemas/Date", object(required("day", str())))
	r := NewResolver(g, DefaultOptions())

	first, err := r.Resolve(ref("Foo"), false, "")
	require.NoError(t, err)
	second, err := r.Resolve(schema.NewRef("#/definitions/Foo"), false, "")
	require.NoError(t, err)
	date, err := r.Resolve(ref("Date"), false, "")
	require.NoError(t, err)

	assert.Equal(t, "Foo", first)
	assert.Equal(t, "Foo2", second)
	assert.Equal(t, "Date2", date, "global names are never shadowed")
}

func TestAnonymousNameCollisions(t *testing.T) {
	r := NewResolver(schema.NewGraph(), DefaultOptions())

	first, err := r.Resolve(object(required("a", str())), false, "Foo")
	require.NoError(t, err)
	second, err := r.Resolve(object(required("b", str())), false, "Foo")
	require.NoError(t, err)
	again, err := r.Resolve(object(required("a", str())), false, "Foo")
	require.NoError(t, err)

	assert.Equal(t, "Foo", first)
	assert.Equal(t, "Foo2", second)
	assert.Equal(t, "Foo", again, "a structurally equal schema keeps its name")
	assert.Equal(t, 2, r.Registry().Len())
}

func TestMutualRecursion(t *testing.T) {
	g := schema.NewGraph()
	g.Define(componentPrefix+"A", object(optional("b", ref("B"))))
	g.Define(componentPrefix+"B", object(optional("a", ref("A"))))
	r := NewResolver(g, DefaultOptions())

	name, err := r.Resolve(ref("A"), false, "")
	require.NoError(t, err)
	assert.Equal(t, "A", name)
	assert.Equal(t, 2, r.Registry().Len())

	a, _ := r.Registry().ByName("A")
	b, _ := r.Registry().ByName("B")
	require.NotNil(t, a)
	require.NotNil(t, b)
	ab, _ := a.Member("b")
	ba, _ := b.Member("a")
	assert.Equal(t, "B | undefined", ab.Type)
	assert.Equal(t, "A | undefined", ba.Type)

	out, err := EmitDeclarations(r)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "export interface A {"))
	assert.Equal(t, 1, strings.Count(out, "export interface B {"))
}

func TestRegistrySuffixes(t *testing.T) {
	reg := NewRegistry()
	names := []string{}
	for _, id := range []string{"a", "b", "c"} {
		d, created := reg.Register(id, "Item", nil, DeclObject)
		require.True(t, created)
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"Item", "Item2", "Item3"}, names)

	d, created := reg.Register("b", "Other", nil, DeclObject)
	assert.False(t, created)
	assert.Equal(t, "Item2", d.Name)
}

func TestUnresolvedReference(t *testing.T) {
	g := schema.NewGraph()
	g.Define(componentPrefix+"Pet", object(optional("owner", ref("Missing"))))
	r := NewResolver(g, DefaultOptions())

	_, err := r.Resolve(ref("Pet"), false, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, schema.ErrUnresolvedRef))

	var resErr *ResolutionError
	require.True(t, errors.As(err, &resErr))
	assert.Equal(t, componentPrefix+"Missing", resErr.Ref)
	assert.Equal(t, "Pet.owner", resErr.Path)
}

func TestStylePolicy(t *testing.T) {
	p := StylePolicy{
		Default: StyleInterface,
		Rules: []StyleRule{
			{Pattern: regexp.MustCompile(`Dto$`), Style: StyleClass},
			{Pattern: regexp.MustCompile(`^Pet`), Style: StyleInterface},
			{Pattern: regexp.MustCompile(`^Pet`), Style: StyleClass},
		},
	}
	assert.Equal(t, StyleClass, p.StyleOf("OrderDto"))
	assert.Equal(t, StyleInterface, p.StyleOf("PetOwner"), "first matching rule wins")
	assert.Equal(t, StyleInterface, p.StyleOf("Order"))
}

func TestUsesTypedConstruction(t *testing.T) {
	g := petGraph()
	g.Define(componentPrefix+"Status", &schema.Node{Kind: schema.KindEnum, EnumBase: schema.KindString, Enum: []any{"a", "b"}})
	r := NewResolver(g, Options{Styles: StylePolicy{
		Default: StyleClass,
		Rules:   []StyleRule{{Pattern: regexp.MustCompile(`^Owner$`), Style: StyleInterface}},
	}})
	require.NoError(t, r.ResolveAll())

	assert.True(t, r.UsesTypedConstruction("Pet"))
	assert.True(t, r.UsesTypedConstruction("Pet | undefined"))
	assert.False(t, r.UsesTypedConstruction("Owner"))
	assert.False(t, r.UsesTypedConstruction("Status"), "enums are never constructed")
	assert.False(t, r.UsesTypedConstruction("Unknown"))
	assert.True(t, r.HasDeclaration("Status"))
}

func polymorphicGraph() *schema.Graph {
	g := schema.NewGraph()
	pet := object(required("petType", str()), optional("name", str()))
	pet.Discriminator = &schema.Discriminator{
		PropertyName: "petType",
		Mapping:      map[string]string{"cat": componentPrefix + "Cat"},
	}
	g.Define(componentPrefix+"Pet", pet)
	g.Define(componentPrefix+"Cat", &schema.Node{
		Kind:       schema.KindObject,
		Inherits:   []*schema.Node{ref("Pet"), object(optional("lives", &schema.Node{Kind: schema.KindInteger}))},
		Properties: []schema.Property{optional("indoor", &schema.Node{Kind: schema.KindBoolean})},
	})
	g.Define(componentPrefix+"Dog", &schema.Node{
		Kind:     schema.KindObject,
		Inherits: []*schema.Node{ref("Pet")},
	})
	return g
}

func TestCompositionInherit(t *testing.T) {
	r := NewResolver(polymorphicGraph(), DefaultOptions())
	_, err := r.Resolve(ref("Cat"), false, "")
	require.NoError(t, err)

	cat, _ := r.Registry().ByName("Cat")
	assert.Equal(t, []string{"Pet"}, cat.Bases)
	names := []string{}
	for _, m := range cat.Members {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"lives", "indoor"}, names, "inline parts are flattened")

	pet, _ := r.Registry().ByName("Pet")
	assert.Equal(t, "petType", pet.Discriminator)
	assert.Equal(t, []Subtype{{Tag: "cat", TypeName: "Cat"}, {Tag: "Dog", TypeName: "Dog"}}, pet.Subtypes)
}

func TestCompositionFlatten(t *testing.T) {
	r := NewResolver(polymorphicGraph(), Options{Composition: CompositionFlatten})
	_, err := r.Resolve(ref("Cat"), false, "")
	require.NoError(t, err)

	cat, _ := r.Registry().ByName("Cat")
	assert.Empty(t, cat.Bases)
	names := []string{}
	for _, m := range cat.Members {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"petType", "name", "lives", "indoor"}, names)
	assert.Equal(t, "petType", cat.Discriminator, "discriminator metadata survives flattening")
}

func TestClassLinksOnlyClassBases(t *testing.T) {
	r := NewResolver(polymorphicGraph(), Options{Styles: StylePolicy{
		Default: StyleInterface,
		Rules:   []StyleRule{{Pattern: regexp.MustCompile(`^Cat$`), Style: StyleClass}},
	}})
	_, err := r.Resolve(ref("Cat"), false, "")
	require.NoError(t, err)

	cat, _ := r.Registry().ByName("Cat")
	assert.Empty(t, cat.Bases, "a class cannot extend an interface-style declaration")
	_, ok := cat.Member("petType")
	assert.True(t, ok)
}

func TestEnumValues(t *testing.T) {
	r := NewResolver(schema.NewGraph(), DefaultOptions())
	name, err := r.Resolve(&schema.Node{
		Kind:      schema.KindEnum,
		EnumBase:  schema.KindInteger,
		Enum:      []any{float64(0), float64(1), float64(-1)},
		EnumNames: []string{"none", "low", "negative"},
	}, false, "priority")
	require.NoError(t, err)
	assert.Equal(t, "Priority", name)

	d, _ := r.Registry().ByName("Priority")
	assert.Equal(t, []EnumValue{{"None", "0"}, {"Low", "1"}, {"Negative", "-1"}}, d.EnumValues)

	name, err = r.Resolve(&schema.Node{Kind: schema.KindEnum, EnumBase: schema.KindString, Enum: []any{"in-progress", "done", ""}}, false, "state")
	require.NoError(t, err)
	d, _ = r.Registry().ByName(name)
	assert.Equal(t, []EnumValue{{"InProgress", `"in-progress"`}, {"Done", `"done"`}, {"Empty", `""`}}, d.EnumValues)
}
