package audit

import "strings"

// ActionResource holds action and resource derived from an HTTP route.
type ActionResource struct {
	Action   string
	Resource string
}

// ParseRoute maps an HTTP method and route pattern (gin FullPath, e.g. /api/tasks/:id/toggle)
// to an audit action and resource. The resource is the first segment after /api, singularized.
// A literal segment after a path parameter names the action (toggle); otherwise the method does:
// GET item -> get, GET collection -> list, POST -> create, PUT/PATCH -> update, DELETE -> delete.
// Under /api/auth the final segment is the action (login, refresh, ...).
func ParseRoute(method, route string) ActionResource {
	segs := strings.FieldsFunc(route, func(r rune) bool { return r == '/' })
	if len(segs) > 0 && segs[0] == "api" {
		segs = segs[1:]
	}
	if len(segs) == 0 {
		return ActionResource{Action: "unknown", Resource: "unknown"}
	}
	resource := singular(segs[0])
	if resource == "auth" {
		if len(segs) > 1 {
			return ActionResource{Action: segs[len(segs)-1], Resource: "session"}
		}
		return ActionResource{Action: "unknown", Resource: "session"}
	}

	hasParam := false
	for _, s := range segs[1:] {
		if strings.HasPrefix(s, ":") || strings.HasPrefix(s, "*") {
			hasParam = true
			continue
		}
		if hasParam {
			return ActionResource{Action: strings.ToLower(s), Resource: resource}
		}
	}

	var action string
	switch strings.ToUpper(method) {
	case "GET", "HEAD":
		if hasParam {
			action = "get"
		} else {
			action = "list"
		}
	case "POST":
		action = "create"
	case "PUT", "PATCH":
		action = "update"
	case "DELETE":
		action = "delete"
	default:
		action = strings.ToLower(method)
	}
	return ActionResource{Action: action, Resource: resource}
}

func singular(s string) string {
	if strings.HasSuffix(s, "ies") {
		return strings.TrimSuffix(s, "ies") + "y"
	}
	if strings.HasSuffix(s, "s") && !strings.HasSuffix(s, "ss") {
		return strings.TrimSuffix(s, "s")
	}
	return s
}
