package services

import (
	"github.com/pkg/errors"
)

// Columns a partial update may touch.
var (
	reviewColumns  = []string{"title", "content", "rating", "category_id"}
	profileColumns = []string{"name", "email", "bio"}
)

// changeSet collects column assignments for a partial update.
// Only columns named in the allow-list may be set.
type changeSet struct {
	allowed map[string]struct{}
	values  map[string]interface{}
	order   []string
}

func newChangeSet(columns ...string) *changeSet {
	allowed := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		allowed[c] = struct{}{}
	}
	return &changeSet{allowed: allowed, values: map[string]interface{}{}}
}

func (cs *changeSet) set(column string, value interface{}) error {
	if _, ok := cs.allowed[column]; !ok {
		return errors.Errorf("column %q is not updatable", column)
	}
	if _, seen := cs.values[column]; !seen {
		cs.order = append(cs.order, column)
	}
	cs.values[column] = value
	return nil
}

func (cs *changeSet) empty() bool { return len(cs.values) == 0 }

// assignments returns the map handed to gorm's Updates. updated_at is
// stamped by gorm for models that carry it.
func (cs *changeSet) assignments() map[string]interface{} {
	out := make(map[string]interface{}, len(cs.values))
	for k, v := range cs.values {
		out[k] = v
	}
	return out
}
