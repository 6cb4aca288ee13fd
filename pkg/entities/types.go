package entities

import (
	"github.com/samber/lo"
)

// Ref is an embedded handle to another entity, as the API returns it inside
// association lists.
type Ref struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// RefIDs projects association handles to their IDs, the form partial updates
// expect.
func RefIDs(refs []Ref) []int {
	return lo.Map(refs, func(r Ref, _ int) int { return r.ID })
}

// AppendID adds id to an association ID list, keeping it duplicate free so
// re-running a fixture does not grow the list.
func AppendID(ids []int, id int) []int {
	return lo.Uniq(append(ids, id))
}

// AppendRefID is AppendID over an association handle list.
func AppendRefID(refs []Ref, id int) []int {
	return AppendID(RefIDs(refs), id)
}
