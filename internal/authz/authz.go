// Package authz is the single place that decides which parks a caller may
// read or write.
//
// The default policy is AllowAll: any authenticated user reaches every
// park, even though users carry a parkIds list. ParkScoped enforces that
// list and is opt-in.
package authz

import (
	"errors"

	"github.com/crucial707/pwasset/internal/models"
)

// ErrForbidden is returned when a policy denies access to a location.
var ErrForbidden = errors.New("forbidden")

// Policy decides park access for an authenticated user.
type Policy interface {
	// Locations narrows a requested location filter. Empty requested means
	// "all parks". A nil result with nil error means no filter.
	Locations(user *models.User, requested []string) ([]string, error)
	// CanWrite reports whether user may mutate records at location.
	CanWrite(user *models.User, location string) error
}

// AllowAll admits every authenticated caller everywhere.
type AllowAll struct{}

func (AllowAll) Locations(_ *models.User, requested []string) ([]string, error) {
	return requested, nil
}

func (AllowAll) CanWrite(*models.User, string) error { return nil }

// ParkScoped restricts callers to their parkIds.
type ParkScoped struct{}

func (ParkScoped) Locations(user *models.User, requested []string) ([]string, error) {
	allowed := make(map[string]bool, len(user.ParkIDs))
	for _, id := range user.ParkIDs {
		allowed[id] = true
	}
	if len(requested) == 0 {
		out := make([]string, 0, len(user.ParkIDs))
		out = append(out, user.ParkIDs...)
		if len(out) == 0 {
			return nil, ErrForbidden
		}
		return out, nil
	}
	out := make([]string, 0, len(requested))
	for _, loc := range requested {
		if allowed[loc] {
			out = append(out, loc)
		}
	}
	if len(out) == 0 {
		return nil, ErrForbidden
	}
	return out, nil
}

func (ParkScoped) CanWrite(user *models.User, location string) error {
	for _, id := range user.ParkIDs {
		if id == location {
			return nil
		}
	}
	return ErrForbidden
}

// New returns ParkScoped when enforce is set, AllowAll otherwise.
func New(enforce bool) Policy {
	if enforce {
		return ParkScoped{}
	}
	return AllowAll{}
}
