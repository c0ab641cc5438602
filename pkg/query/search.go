package query

import (
	"strconv"
	"strings"

	"recipe-organizer/domain"
)

var searchKeys = map[string]bool{
	"query":      true,
	"category":   true,
	"cuisine":    true,
	"difficulty": true,
	"maxTime":    true,
	"page":       true,
	"limit":      true,
}

// CompileSearch builds the query behind /recipes/search. At least one of
// query, category, cuisine, difficulty or maxTime must carry a value.
func (s Schema) CompileSearch(params map[string]string) (Query, error) {
	for k := range params {
		if !searchKeys[k] {
			return Query{}, domain.ErrInvalidQuery.WithMessage("Unknown search parameter: %s", k)
		}
	}

	q := Query{Sort: []SortKey{{Field: "createdAt", Desc: true}}}
	q.Page, q.Limit, q.Skip = window(params)

	if terms := strings.TrimSpace(params["query"]); terms != "" {
		if strings.ContainsRune(terms, 0) || len(terms) > maxStringValue {
			return Query{}, invalid("query must be at most %d characters", maxStringValue)
		}
		q.Filter = append(q.Filter, TextMatch{Terms: terms})
	}

	for _, name := range []string{"category", "cuisine", "difficulty"} {
		raw := strings.TrimSpace(params[name])
		if raw == "" {
			continue
		}
		v, err := s.Fields[name].coerce(name, raw)
		if err != nil {
			return Query{}, err
		}
		q.Filter = append(q.Filter, Equals{Field: name, Value: v})
	}

	if raw := strings.TrimSpace(params["maxTime"]); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Query{}, invalid("maxTime must be a non-negative integer")
		}
		q.Filter = append(q.Filter, Range{Field: "totalTime", Op: OpLte, Value: n})
	}

	if len(q.Filter) == 0 {
		return Query{}, domain.ErrEmptySearch
	}
	return q, nil
}
