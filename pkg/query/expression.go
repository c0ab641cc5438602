package query

// Op is a comparison used by Range.
type Op string

const (
	OpGt  Op = "gt"
	OpGte Op = "gte"
	OpLt  Op = "lt"
	OpLte Op = "lte"
)

// Expr is a storage agnostic filter clause. A Query's filters are ANDed.
type Expr interface {
	expr()
}

type (
	Equals struct {
		Field string
		Value any
	}

	Range struct {
		Field string
		Op    Op
		Value any
	}

	SetMembership struct {
		Field  string
		Values []any
	}

	// TextMatch matches Terms against the text search fields of the store.
	TextMatch struct {
		Terms string
	}
)

func (Equals) expr()        {}
func (Range) expr()         {}
func (SetMembership) expr() {}
func (TextMatch) expr()     {}

type SortKey struct {
	Field string
	Desc  bool
}

type Query struct {
	Filter []Expr
	Sort   []SortKey
	Select []string
	Page   int
	Limit  int
	Skip   int
}
