package typegen

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/blimu-dev/ts-clientgen/pkg/utils"
)

// Literal renders v as a TypeScript literal.
func Literal(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return Literal(fmt.Sprint(v))
	}
	return string(b)
}

// Access returns the expression reading property name from obj, using dot
// notation when name is a valid identifier.
func Access(obj, name string) string {
	if utils.QuotePropertyName(name) == name {
		return obj + "." + name
	}
	return obj + "[" + Literal(name) + "]"
}

// Index returns obj["name"], the form used on decoded JSON objects.
func Index(obj, name string) string {
	return obj + "[" + Literal(name) + "]"
}
