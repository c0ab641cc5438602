package query

import (
	"math"
	"slices"
	"sort"
	"strconv"
	"strings"

	"recipe-organizer/domain"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	MaxSetSize   = 50

	// MaxPage keeps (page-1)*limit inside an int32 offset.
	MaxPage = math.MaxInt32 / MaxLimit
)

var reserved = map[string]bool{
	"select": true,
	"sort":   true,
	"page":   true,
	"limit":  true,
}

// CompileList turns list query parameters into a Query. Keys are either a
// reserved word or field / field[op] from the schema; anything else is an
// INVALID_QUERY error.
func (s Schema) CompileList(params map[string]string) (Query, error) {
	q := Query{}
	q.Page, q.Limit, q.Skip = window(params)

	keys := make([]string, 0, len(params))
	for k := range params {
		if !reserved[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		expr, err := s.compileFilter(key, params[key])
		if err != nil {
			return Query{}, err
		}
		q.Filter = append(q.Filter, expr)
	}

	sortKeys, err := s.compileSort(params["sort"])
	if err != nil {
		return Query{}, err
	}
	q.Sort = sortKeys

	sel, err := s.compileSelect(params["select"])
	if err != nil {
		return Query{}, err
	}
	q.Select = sel

	return q, nil
}

func (s Schema) compileFilter(key, raw string) (Expr, error) {
	name, op, err := splitKey(key)
	if err != nil {
		return nil, err
	}

	field, ok := s.Fields[name]
	if !ok || !field.Filterable {
		return nil, domain.ErrInvalidQuery.WithMessage("Unknown query parameter: %s", name)
	}
	if !field.allows(op) {
		return nil, invalid("operator %q is not supported for %s", op, name)
	}

	switch op {
	case "":
		v, err := field.coerce(name, raw)
		if err != nil {
			return nil, err
		}
		return Equals{Field: name, Value: v}, nil
	case "in":
		parts := strings.Split(raw, ",")
		if len(parts) > MaxSetSize {
			return nil, invalid("%s[in] accepts at most %d values", name, MaxSetSize)
		}
		values := make([]any, 0, len(parts))
		for _, p := range parts {
			if strings.TrimSpace(p) == "" {
				continue
			}
			v, err := field.coerce(name, p)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		if len(values) == 0 {
			return nil, invalid("%s[in] needs at least one value", name)
		}
		return SetMembership{Field: name, Values: values}, nil
	default:
		v, err := field.coerce(name, raw)
		if err != nil {
			return nil, err
		}
		return Range{Field: name, Op: Op(op), Value: v}, nil
	}
}

func splitKey(key string) (string, string, error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		if strings.IndexByte(key, ']') >= 0 {
			return "", "", invalid("malformed key %q", key)
		}
		return key, "", nil
	}
	if open == 0 || !strings.HasSuffix(key, "]") {
		return "", "", invalid("malformed key %q", key)
	}
	op := key[open+1 : len(key)-1]
	if strings.ContainsAny(op, "[]") {
		return "", "", invalid("malformed key %q", key)
	}
	switch op {
	case string(OpGt), string(OpGte), string(OpLt), string(OpLte), "in":
	default:
		return "", "", invalid("unknown operator %q", op)
	}
	return key[:open], op, nil
}

func (s Schema) compileSort(raw string) ([]SortKey, error) {
	var keys []SortKey
	seen := map[string]bool{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		desc := strings.HasPrefix(part, "-")
		name := strings.TrimPrefix(part, "-")
		field, ok := s.Fields[name]
		if !ok || !field.Sortable {
			return nil, invalid("cannot sort by %q", name)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		keys = append(keys, SortKey{Field: name, Desc: desc})
	}
	if len(keys) == 0 {
		return append([]SortKey(nil), s.DefaultSort...), nil
	}
	return keys, nil
}

func (s Schema) compileSelect(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	out := []string{"id"}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" || part == "id" {
			continue
		}
		if !slices.Contains(s.Selectable, part) {
			return nil, invalid("cannot select %q", part)
		}
		if !slices.Contains(out, part) {
			out = append(out, part)
		}
	}
	return out, nil
}

// window reads page and limit leniently: bad values fall back to defaults
// and out of range values are clamped.
func window(params map[string]string) (page, limit, skip int) {
	page, err := strconv.Atoi(strings.TrimSpace(params["page"]))
	if err != nil || page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}

	limit, err = strconv.Atoi(strings.TrimSpace(params["limit"]))
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return page, limit, (page - 1) * limit
}

// Paginate derives next/prev page references from the total match count.
func (q Query) Paginate(total int64) domain.Pagination {
	var p domain.Pagination
	if int64(q.Skip+q.Limit) < total {
		p.Next = &domain.PageRef{Page: q.Page + 1, Limit: q.Limit}
	}
	if q.Skip > 0 {
		p.Prev = &domain.PageRef{Page: q.Page - 1, Limit: q.Limit}
	}
	return p
}
