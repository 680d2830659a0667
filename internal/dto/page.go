package dto

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Page struct {
	Limit int
	Skip  int
}

// NewPage clamps limit into [1, MaxLimit] (0 means default) and skip to >= 0.
func NewPage(limit, skip int) Page {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if skip < 0 {
		skip = 0
	}
	return Page{Limit: limit, Skip: skip}
}
