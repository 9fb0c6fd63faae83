package schema

import (
	"sort"
	"strconv"
	"strings"
)

// Document is the fully parsed input of one generation run.
type Document struct {
	Title      string
	Graph      *Graph
	Operations []Operation
}

// Operation represents a single API operation (endpoint + method)
type Operation struct {
	OperationID string
	Method      string
	Path        string
	// Tags are the operation's original tags, ["misc"] when untagged
	Tags        []string
	Summary     string
	Description string
	Deprecated  bool
	Parameters  []Parameter
	Responses   []Response
}

// Location is where a parameter is bound in the request
type Location string

const (
	InPath     Location = "path"
	InQuery    Location = "query"
	InHeader   Location = "header"
	InBody     Location = "body"
	InFormData Location = "formData"
)

// Parameter represents an operation parameter
type Parameter struct {
	Name        string
	In          Location
	Schema      *Node
	Required    bool
	Description string
}

// Response is one entry of an operation's response map
type Response struct {
	// StatusCode is a three digit code or "default"
	StatusCode  string
	Schema      *Node
	Description string
}

// IsSuccessStatus reports whether code is a 2xx status code.
func IsSuccessStatus(code string) bool {
	return len(code) == 3 && code[0] == '2'
}

// SortResponses orders responses by status code, wildcards after their
// class and "default" last.
func SortResponses(rs []Response) {
	sort.SliceStable(rs, func(i, j int) bool {
		ri, rj := statusRank(rs[i].StatusCode), statusRank(rs[j].StatusCode)
		if ri != rj {
			return ri < rj
		}
		return rs[i].StatusCode < rs[j].StatusCode
	})
}

// statusRank places a wildcard such as 4XX after the concrete codes of its
// class and default after everything else.
func statusRank(code string) int {
	if n, err := strconv.Atoi(code); err == nil {
		return n * 10
	}
	upper := strings.ToUpper(code)
	if len(upper) == 3 && strings.HasSuffix(upper, "XX") {
		if class, err := strconv.Atoi(upper[:1]); err == nil {
			return class*1000 + 999
		}
	}
	return 1 << 30
}
