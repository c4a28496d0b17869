package site

import (
	"fmt"
	"net/url"
	"strings"
)

// Route names.
const (
	RouteHome       = "home"
	RouteCats       = "cats"
	RouteCatDetails = "cat-details"
)

// Route is one entry of the view table.
type Route struct {
	Name string
	Path string
}

var routes = []Route{
	{Name: RouteHome, Path: "/"},
	{Name: RouteCats, Path: "/cats"},
	{Name: RouteCatDetails, Path: "/cats/{name}"},
}

// Routes returns the view table in registration order.
func Routes() []Route {
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}

// PathFor builds the URL path of a named route. Every {param} in the route
// path must be present in params; values are path-escaped.
func PathFor(name string, params map[string]string) (string, error) {
	for _, r := range routes {
		if r.Name != name {
			continue
		}
		path := r.Path
		for {
			start := strings.IndexByte(path, '{')
			if start < 0 {
				return path, nil
			}
			end := strings.IndexByte(path[start:], '}')
			if end < 0 {
				return "", fmt.Errorf("%w: %s", ErrBadRoute, r.Path)
			}
			key := path[start+1 : start+end]
			val, ok := params[key]
			if !ok || val == "" {
				return "", fmt.Errorf("%w: %s needs %q", ErrMissingParam, name, key)
			}
			path = path[:start] + url.PathEscape(val) + path[start+end+1:]
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRoute, name)
}

// routeFunc is PathFor for templates: {{ route "cat-details" "name" .Name }}.
func routeFunc(name string, kv ...string) (string, error) {
	params := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		params[kv[i]] = kv[i+1]
	}
	return PathFor(name, params)
}
