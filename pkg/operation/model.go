// Package operation derives per-operation descriptors from the parsed API
// description: typed parameters, typed responses and the success and
// exception types a client method exposes.
package operation

import (
	"github.com/blimu-dev/ts-clientgen/pkg/schema"
	"github.com/blimu-dev/ts-clientgen/pkg/typegen"
)

const (
	// NoValue is the success type of operations without a typed 2xx response
	NoValue = "void"
	// PlainTextFallback is the last member of every exception type. It covers
	// error responses whose body is not a declared schema.
	PlainTextFallback = "string"
)

// Descriptor is the generator-facing view of one operation
type Descriptor struct {
	OperationID string
	// Method is the upper-case HTTP method
	Method      string
	Path        string
	Controller  string
	MethodName  string
	Summary     string
	Description string
	Deprecated  bool
	Parameters  []*Parameter
	// Responses are ordered by status code with "default" last
	Responses []*Response
	// SuccessType is the type of the lowest typed 2xx response, or NoValue
	SuccessType string
	// ExceptionType is the union of typed error responses followed by
	// PlainTextFallback
	ExceptionType string
}

// Parameter is a typed operation parameter
type Parameter struct {
	// Name is the wire name
	Name         string
	VariableName string
	In           schema.Location
	Schema       *schema.Node
	Required     bool
	Description  string
	Type         string
	IsArray      bool
	IsDictionary bool
	IsFile       bool
	// IsDate is set for date values and arrays of dates, unless dates stay
	// strings
	IsDate bool
	// DateFormat is the schema format of the date value, DateHandling its
	// target representation. Both are set only when IsDate is.
	DateFormat   string
	DateHandling typegen.DateHandling
	// UseTypedConstruction is set when the value, or its array items or map
	// values, is a class-style declaration
	UseTypedConstruction bool
}

// Response is a typed entry of the response map
type Response struct {
	StatusCode  string
	Schema      *schema.Node
	Description string
	// Type is empty when the response has no schema
	Type                 string
	IsSuccess            bool
	UseTypedConstruction bool
	// ResultVariable and DataVariable are the names the conversion code
	// reads from and assigns to
	ResultVariable string
	DataVariable   string
	// ConversionCode rebuilds ResultVariable from DataVariable
	ConversionCode string
}

// DateString renders the wire form of the date value expression v
func (p *Parameter) DateString(v string) string {
	return typegen.FormatDate(p.DateHandling, v, p.DateFormat)
}

// HasType reports whether the response carries a schema
func (r *Response) HasType() bool {
	return r.Schema != nil
}

// IsDefault reports whether r is the "default" response
func (r *Response) IsDefault() bool {
	return r.StatusCode == "default"
}

// HasSuccessValue reports whether a successful call resolves to a value
func (d *Descriptor) HasSuccessValue() bool {
	return d.SuccessType != NoValue
}

// DefaultResponse returns the "default" response, if declared
func (d *Descriptor) DefaultResponse() *Response {
	for _, r := range d.Responses {
		if r.IsDefault() {
			return r
		}
	}
	return nil
}

// StatusResponses returns every response except "default"
func (d *Descriptor) StatusResponses() []*Response {
	out := make([]*Response, 0, len(d.Responses))
	for _, r := range d.Responses {
		if !r.IsDefault() {
			out = append(out, r)
		}
	}
	return out
}

// ParametersIn returns the parameters bound at loc, in declaration order
func (d *Descriptor) ParametersIn(loc schema.Location) []*Parameter {
	var out []*Parameter
	for _, p := range d.Parameters {
		if p.In == loc {
			out = append(out, p)
		}
	}
	return out
}

// Body returns the body parameter, if any
func (d *Descriptor) Body() *Parameter {
	if body := d.ParametersIn(schema.InBody); len(body) > 0 {
		return body[0]
	}
	return nil
}

// Controller is a group of operations emitted as one client class
type Controller struct {
	Name       string
	Operations []*Descriptor
}
