package typescript

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/blimu-dev/ts-clientgen/pkg/operation"
	"github.com/blimu-dev/ts-clientgen/pkg/schema"
	"github.com/blimu-dev/ts-clientgen/pkg/typegen"
	"github.com/blimu-dev/ts-clientgen/pkg/utils"
)

// orderPathParams extracts path parameter order as they appear in the path
func orderPathParams(op *operation.Descriptor) []*operation.Parameter {
	params := op.ParametersIn(schema.InPath)
	index := map[string]int{}
	for i, p := range params {
		index[p.Name] = i
	}
	ordered := []*operation.Parameter{}
	seen := map[string]bool{}
	path := op.Path
	for i := 0; i < len(path); i++ {
		if path[i] == '{' {
			j := i + 1
			for j < len(path) && path[j] != '}' {
				j++
			}
			if j < len(path) {
				name := path[i+1 : j]
				if idx, ok := index[name]; ok && !seen[name] {
					seen[name] = true
					ordered = append(ordered, params[idx])
				}
				i = j
				continue
			}
		}
	}
	// parameters missing from the template still become arguments
	for _, p := range params {
		if !seen[p.Name] {
			ordered = append(ordered, p)
		}
	}
	return ordered
}

// methodParameters returns the arguments of a client method: path
// parameters in path order, then the others in declaration order
func methodParameters(op *operation.Descriptor) []*operation.Parameter {
	out := orderPathParams(op)
	for _, p := range op.Parameters {
		if p.In != schema.InPath {
			out = append(out, p)
		}
	}
	return out
}

// buildMethodSignature constructs the TS parameter list. A parameter is
// marked optional only when every parameter after it is optional too.
func buildMethodSignature(op *operation.Descriptor) string {
	params := methodParameters(op)
	parts := make([]string, len(params))
	trailingOptional := true
	for i := len(params) - 1; i >= 0; i-- {
		p := params[i]
		trailingOptional = trailingOptional && !p.Required
		name := p.VariableName
		if trailingOptional {
			name += "?"
		}
		parts[i] = name + ": " + p.Type
	}
	return strings.Join(parts, ", ")
}

// buildDocComment renders the JSDoc of a client method
func buildDocComment(op *operation.Descriptor) string {
	var lines []string
	if op.Summary != "" {
		lines = append(lines, strings.Split(op.Summary, "\n")...)
	}
	if op.Description != "" && op.Description != op.Summary {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, strings.Split(op.Description, "\n")...)
	}
	for _, p := range methodParameters(op) {
		if p.Description == "" && p.Required {
			continue
		}
		line := "@param " + p.VariableName
		if !p.Required {
			line += " (optional)"
		}
		if p.Description != "" {
			line += " " + strings.ReplaceAll(p.Description, "\n", " ")
		}
		lines = append(lines, line)
	}
	if op.HasSuccessValue() {
		for _, r := range op.Responses {
			if r.IsSuccess && r.HasType() && r.Description != "" {
				lines = append(lines, "@return "+strings.ReplaceAll(r.Description, "\n", " "))
				break
			}
		}
	}
	if op.Deprecated {
		lines = append(lines, "@deprecated")
	}
	w := &utils.CodeWriter{}
	w.DocLines(lines)
	return w.String()
}

// buildRequestCode emits the statements that build url_ and options_
func buildRequestCode(op *operation.Descriptor) string {
	w := &utils.CodeWriter{}
	query := op.ParametersIn(schema.InQuery)
	url := op.Path
	if len(query) > 0 {
		url += "?"
	}
	w.Linef("let url_ = this.baseUrl + %s;", typegen.Literal(url))

	for _, p := range orderPathParams(op) {
		w.Linef("if (%s === undefined || %s === null)", p.VariableName, p.VariableName)
		w.Indent()
		w.Linef("throw new Error(%s);", typegen.Literal("The parameter '"+p.VariableName+"' must be defined."))
		w.Dedent()
		w.Linef("url_ = url_.replace(%s, encodeURIComponent(%s));", typegen.Literal("{"+p.Name+"}"), stringValue(p, p.VariableName))
	}

	for _, p := range query {
		writeQueryParameter(w, p)
	}
	if len(query) > 0 {
		w.Line(`url_ = url_.replace(/[?&]$/, "");`)
	}

	body := op.Body()
	form := op.ParametersIn(schema.InFormData)
	switch {
	case body != nil:
		w.Line("")
		w.Linef("const content_ = JSON.stringify(%s);", body.VariableName)
	case len(form) > 0:
		w.Line("")
		w.Line("const content_ = new FormData();")
		for _, p := range form {
			writeFormParameter(w, p)
		}
	}

	w.Line("")
	w.Line("let options_: RequestInit = {")
	w.Indent()
	if body != nil || len(form) > 0 {
		w.Line("body: content_,")
	}
	w.Linef("method: %s,", typegen.Literal(op.Method))
	headers := buildHeaders(op)
	if len(headers) == 0 {
		w.Line("headers: {}")
	} else {
		w.Line("headers: {")
		w.Indent()
		for i, h := range headers {
			if i < len(headers)-1 {
				h += ","
			}
			w.Line(h)
		}
		w.Close()
	}
	w.Dedent()
	w.Line("};")
	return w.String()
}

func writeQueryParameter(w *utils.CodeWriter, p *operation.Parameter) {
	v := p.VariableName
	key := typegen.Literal(p.Name + "=")
	if p.Required {
		w.Linef("if (%s === undefined || %s === null)", v, v)
		w.Indent()
		w.Linef("throw new Error(%s);", typegen.Literal("The parameter '"+v+"' must be defined and cannot be null."))
		w.Dedent()
		w.Line("else")
	} else {
		w.Linef("if (%s !== undefined && %s !== null)", v, v)
	}
	w.Indent()
	switch {
	case p.IsArray:
		w.Linef(`%s.forEach(item => { url_ += %s + encodeURIComponent(%s) + "&"; });`, v, key, itemValue(p, "item"))
	case p.IsDictionary:
		w.Linef(`Object.keys(%s).forEach(key => { url_ += encodeURIComponent(key) + "=" + encodeURIComponent("" + %s[key]) + "&"; });`, v, v)
	default:
		w.Linef(`url_ += %s + encodeURIComponent(%s) + "&";`, key, stringValue(p, v))
	}
	w.Dedent()
}

func writeFormParameter(w *utils.CodeWriter, p *operation.Parameter) {
	v := p.VariableName
	name := typegen.Literal(p.Name)
	if p.Required {
		w.Linef("if (%s === null || %s === undefined)", v, v)
		w.Indent()
		w.Linef("throw new Error(%s);", typegen.Literal("The parameter '"+v+"' cannot be null."))
		w.Dedent()
		w.Line("else")
	} else {
		w.Linef("if (%s !== null && %s !== undefined)", v, v)
	}
	w.Indent()
	if p.IsArray {
		w.Linef("%s.forEach(item_ => content_.append(%s, %s));", v, name, itemValue(p, "item_"))
	} else {
		w.Linef("content_.append(%s, %s);", name, formValue(p, v))
	}
	w.Dedent()
}

// buildHeaders returns the header entries of options_
func buildHeaders(op *operation.Descriptor) []string {
	var headers []string
	for _, p := range op.ParametersIn(schema.InHeader) {
		v := p.VariableName
		value := stringValue(p, v)
		if !p.Required {
			value = fmt.Sprintf(`%s !== undefined && %s !== null ? %s : ""`, v, v, value)
		}
		headers = append(headers, fmt.Sprintf("%s: %s", typegen.Literal(p.Name), value))
	}
	if op.Body() != nil {
		headers = append(headers, `"Content-Type": "application/json"`)
	}
	for _, r := range op.Responses {
		if r.HasType() {
			headers = append(headers, `"Accept": "application/json"`)
			break
		}
	}
	return headers
}

// stringValue renders the string form of a scalar parameter
func stringValue(p *operation.Parameter, v string) string {
	if p.IsDate {
		return p.DateString(v)
	}
	return `"" + ` + v
}

// itemValue renders the string form of an array parameter item
func itemValue(p *operation.Parameter, item string) string {
	if p.IsDate {
		return p.DateString(item)
	}
	if p.IsFile || strings.HasPrefix(p.Type, "any") {
		return item
	}
	return item + ".toString()"
}

func formValue(p *operation.Parameter, v string) string {
	switch {
	case p.IsFile || strings.HasPrefix(p.Type, "any"):
		return v
	case p.IsDate:
		return p.DateString(v)
	}
	return v + ".toString()"
}

// buildResponseCode emits the body of the process method of op
func buildResponseCode(op *operation.Descriptor) string {
	w := &utils.CodeWriter{}
	w.Line("const status = response.status;")
	statuses := op.StatusResponses()
	for i, r := range statuses {
		keyword := "if"
		if i > 0 {
			keyword = "} else if"
		}
		w.Linef("%s (%s) {", keyword, statusCondition(r.StatusCode))
		w.Indent()
		writeResponse(w, r)
		w.Dedent()
	}
	fallback := op.DefaultResponse()
	if len(statuses) > 0 {
		w.Line("} else {")
		w.Indent()
	}
	if fallback != nil {
		writeResponse(w, fallback)
	} else {
		w.Line("return response.text().then((_responseText) => {")
		w.Indent()
		w.Line("return throwException(status, _responseText);")
		w.Dedent()
		w.Line("});")
	}
	if len(statuses) > 0 {
		w.Close()
	}
	return w.String()
}

func writeResponse(w *utils.CodeWriter, r *operation.Response) {
	w.Line("return response.text().then((_responseText) => {")
	w.Indent()
	if r.HasType() {
		w.Linef("let %s: any = null;", r.ResultVariable)
		w.Linef("let %s = _responseText === \"\" ? null : JSON.parse(_responseText, this.jsonParseReviver);", r.DataVariable)
		w.Block(r.ConversionCode)
		if r.IsSuccess {
			w.Linef("return %s;", r.ResultVariable)
		} else {
			w.Linef("return throwException(status, _responseText, %s);", r.ResultVariable)
		}
	} else if r.IsSuccess {
		w.Line("return <any>null;")
	} else {
		w.Line("return throwException(status, _responseText);")
	}
	w.Dedent()
	w.Line("});")
}

// statusCondition renders the test of response.status against a status
// code. Wildcard codes such as 4XX match the whole class.
func statusCondition(code string) string {
	upper := strings.ToUpper(code)
	if len(upper) == 3 && strings.HasSuffix(upper, "XX") {
		if class, err := strconv.Atoi(upper[:1]); err == nil {
			return fmt.Sprintf("status >= %d && status < %d", class*100, class*100+100)
		}
	}
	return "status === " + code
}
