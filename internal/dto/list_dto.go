package dto

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// ListQuery is the skip/limit pair accepted by every list endpoint.
type ListQuery struct {
	Skip  int `form:"skip"  validate:"min=0"`
	Limit int `form:"limit" validate:"omitempty,min=1,max=500"`
}

// Normalize applies the default and the upper bound to Limit.
func (q ListQuery) Normalize() ListQuery {
	if q.Skip < 0 {
		q.Skip = 0
	}
	if q.Limit < 1 {
		q.Limit = DefaultListLimit
	}
	if q.Limit > MaxListLimit {
		q.Limit = MaxListLimit
	}
	return q
}
