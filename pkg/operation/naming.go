package operation

import (
	"fmt"
	"strings"

	"github.com/blimu-dev/ts-clientgen/pkg/schema"
	"github.com/blimu-dev/ts-clientgen/pkg/utils"
)

// Grouping selects how operations are distributed over client classes
type Grouping string

const (
	// GroupByTag uses the first tag of each operation as its controller
	GroupByTag Grouping = "tag"
	// GroupByOperationID splits "Controller_method" operation ids
	GroupByOperationID Grouping = "operationId"
	// GroupSingle puts every operation into one client
	GroupSingle Grouping = "single"
)

// ParseGrouping parses a grouping name. Empty means GroupByTag.
func ParseGrouping(s string) (Grouping, error) {
	switch Grouping(s) {
	case "":
		return GroupByTag, nil
	case GroupByTag, GroupByOperationID, GroupSingle:
		return Grouping(s), nil
	}
	return GroupByTag, fmt.Errorf("unknown operation grouping %q", s)
}

// Names returns the controller and method name of op under grouping g.
// An empty controller denotes the unnamed default client.
func Names(op schema.Operation, g Grouping) (controller, method string) {
	switch g {
	case GroupByOperationID:
		if i := strings.Index(op.OperationID, "_"); i > 0 {
			return utils.ToTypeName(op.OperationID[:i]), methodName(op.OperationID[i+1:], op)
		}
		return "", methodName(op.OperationID, op)
	case GroupSingle:
		return "", methodName(parseOperationID(op.OperationID), op)
	}
	tag := "misc"
	if len(op.Tags) > 0 && op.Tags[0] != "" {
		tag = op.Tags[0]
	}
	return utils.ToTypeName(tag), methodName(parseOperationID(op.OperationID), op)
}

func methodName(id string, op schema.Operation) string {
	name := utils.ToCamelCase(id)
	if name == "" {
		return deriveMethodName(op)
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}

// parseOperationID strips any prefix up to and including "Controller_"
func parseOperationID(opID string) string {
	if idx := strings.Index(opID, "Controller_"); idx >= 0 {
		return opID[idx+len("Controller_"):]
	}
	return opID
}

// deriveMethodName creates method names using basic REST-style heuristics
func deriveMethodName(op schema.Operation) string {
	// GET /brands -> list
	// POST /brands -> create
	// GET /brands/{id} -> retrieve
	// PATCH|PUT /brands/{id} -> update
	// DELETE /brands/{id} -> delete
	hasID := strings.Contains(op.Path, "{") && strings.Contains(op.Path, "}")
	switch op.Method {
	case "GET":
		if hasID {
			return "retrieve"
		}
		return "list"
	case "POST":
		return "create"
	case "PUT", "PATCH":
		return "update"
	case "DELETE":
		return "delete"
	}
	return strings.ToLower(op.Method)
}

func uniqueName(name string, used map[string]bool) string {
	base := name
	for i := 2; used[name]; i++ {
		name = fmt.Sprintf("%s%d", base, i)
	}
	used[name] = true
	return name
}
