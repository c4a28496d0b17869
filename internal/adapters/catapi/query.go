package catapi

import (
	"net/url"
	"strconv"
	"strings"
)

// ListMinWeight is the min_weight filter the list view queries with.
const ListMinWeight = 1

// Query holds the filters supported by GET /cats.
type Query struct {
	Name      string
	MinWeight int
	Offset    int
}

// Values encodes q. offset is always present; negative offsets become 0.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Name != "" {
		v.Set("name", q.Name)
	}
	if q.MinWeight > 0 {
		v.Set("min_weight", strconv.Itoa(q.MinWeight))
	}
	v.Set("offset", strconv.Itoa(max(q.Offset, 0)))
	return v
}

// BuildURL returns {base}/cats?{query}.
func BuildURL(base *url.URL, q Query) string {
	u := *base
	u.Path = strings.TrimSuffix(u.Path, "/") + "/cats"
	u.RawPath = ""
	u.RawQuery = q.Values().Encode()
	u.Fragment = ""
	return u.String()
}
