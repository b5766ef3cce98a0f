package utils

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ParseOptionalInt parses a non-negative query value. An empty string yields nil.
func ParseOptionalInt(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %q", s)
	}
	if i < 0 {
		return nil, errors.Errorf("negative value %d", i)
	}
	return &i, nil
}

// ParseID parses a positive path identifier.
func ParseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
