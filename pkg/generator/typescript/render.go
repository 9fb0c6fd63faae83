package typescript

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/blimu-dev/ts-clientgen/pkg/operation"
	"github.com/blimu-dev/ts-clientgen/pkg/schema"
	"github.com/blimu-dev/ts-clientgen/pkg/typegen"
)

// exceptionHelpers are emitted once after the client classes. Typed error
// bodies are thrown as decoded, anything else as an ApiException.
const exceptionHelpers = `export class ApiException extends Error {
    status: number;
    response: string;
    result: any;

    constructor(message: string, status: number, response: string, result: any) {
        super(message);
        this.status = status;
        this.response = response;
        this.result = result;
    }

    protected isApiException = true;

    static isApiException(obj: any): obj is ApiException {
        return obj.isApiException === true;
    }
}

function throwException(status: number, response: string, result?: any): any {
    if (result !== null && result !== undefined)
        throw result;
    throw new ApiException("Unexpected response status " + status, status, response, null);
}`

const momentImport = "import * as moment from 'moment';"

// Result is a rendered output file
type Result struct {
	Code string
	// ClientClasses are the emitted client class names in output order
	ClientClasses []string
	Operations    int
	Declarations  int
}

type clientView struct {
	ClassName string
	BaseURL   string
	Methods   []methodView
}

type methodView struct {
	Name         string
	ProcessName  string
	Doc          string
	Signature    string
	ReturnType   string
	RequestCode  string
	ResponseCode string
}

type fileView struct {
	Title      string
	ModuleName string
	Imports    []string
	Body       string
}

// Render generates the client and type declarations of doc as one file.
// Every declaration referenced by an emitted client is emitted in the same
// run.
func Render(doc *schema.Document, s Settings) (*Result, error) {
	if s.Template != "" && s.Template != TemplateFetch {
		return nil, fmt.Errorf("unsupported template %q", s.Template)
	}

	resolver := typegen.NewResolver(doc.Graph, s.Types)
	builder := operation.NewBuilder(resolver, operation.Options{Grouping: s.Grouping, MethodNamer: s.MethodNamer})
	controllers, err := builder.BuildAll(doc.Operations)
	if err != nil {
		return nil, err
	}
	if s.IncludeUnusedDefinitions {
		if err := resolver.ResolveAll(); err != nil {
			return nil, err
		}
	}
	ext := ParseExtensionCode(s.ExtensionCode, s.ExtendedClasses)

	res := &Result{}
	var sections []string
	if code := strings.TrimSpace(s.CodeBefore); code != "" {
		sections = append(sections, code)
	}
	if s.GenerateClientClasses && len(controllers) > 0 {
		for _, c := range controllers {
			className := s.ClassName(c.Name)
			code, err := renderClient(c, s.classView(className))
			if err != nil {
				return nil, fmt.Errorf("client %s: %w", className, err)
			}
			if extended, ok := ext.Classes[className]; ok {
				code += "\n\n" + extended
			}
			sections = append(sections, code)
			res.ClientClasses = append(res.ClientClasses, className)
			res.Operations += len(c.Operations)
		}
		sections = append(sections, exceptionHelpers)
	}
	if s.GenerateDtoTypes {
		types, err := typegen.EmitDeclarations(resolver)
		if err != nil {
			return nil, err
		}
		if types != "" {
			sections = append(sections, types)
		}
		res.Declarations = resolver.Registry().Len()
	}
	// {clientClasses} is only expanded in code following the declarations
	classes := clientClassesMap(res.ClientClasses)
	if ext.Code != "" {
		sections = append(sections, strings.ReplaceAll(ext.Code, "{clientClasses}", classes))
	}
	if code := strings.TrimSpace(s.CodeAfter); code != "" {
		sections = append(sections, strings.ReplaceAll(code, "{clientClasses}", classes))
	}

	body := strings.Join(sections, "\n\n")

	imports := ext.Imports
	if s.Types.DateHandling == typegen.DateHandlingMoment && !hasImport(imports, "moment") {
		imports = append([]string{momentImport}, imports...)
	}
	code, err := renderTemplate("file.ts.gotmpl", fileView{
		Title:      doc.Title,
		ModuleName: s.ModuleName,
		Imports:    imports,
		Body:       body,
	})
	if err != nil {
		return nil, err
	}
	res.Code = trimTrailingSpace(code)
	return res, nil
}

// classView starts the view of a client class. Extended classes get a Base
// suffix so that the extension class can take the plain name.
func (s Settings) classView(className string) clientView {
	if s.IsExtended(className) {
		className += "Base"
	}
	return clientView{ClassName: className, BaseURL: typegen.Literal(s.DefaultBaseURL)}
}

func renderClient(c *operation.Controller, view clientView) (string, error) {
	for _, op := range c.Operations {
		view.Methods = append(view.Methods, methodView{
			Name:         op.MethodName,
			ProcessName:  "process" + upperFirst(op.MethodName),
			Doc:          buildDocComment(op),
			Signature:    buildMethodSignature(op),
			ReturnType:   op.SuccessType,
			RequestCode:  buildRequestCode(op),
			ResponseCode: buildResponseCode(op),
		})
	}
	code, err := renderTemplate("client.ts.gotmpl", view)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(code), nil
}

// renderTemplate renders an embedded template to a string
func renderTemplate(templateName string, data any) (string, error) {
	tmplContent, err := templatesFS.ReadFile("templates/" + templateName)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", templateName, err)
	}

	tmpl, err := template.New(templateName).Funcs(sprig.TxtFuncMap()).Parse(string(tmplContent))
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", templateName, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}
	return buf.String(), nil
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func hasImport(imports []string, module string) bool {
	for _, imp := range imports {
		if strings.Contains(imp, "'"+module+"'") || strings.Contains(imp, `"`+module+`"`) {
			return true
		}
	}
	return false
}

func trimTrailingSpace(code string) string {
	lines := strings.Split(code, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.Join(lines, "\n")
}
