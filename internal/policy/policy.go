// Package policy decides who may change a stored entity. Every mutating service
// path goes through Authorize so the rule lives in one place.
package policy

import (
	"github.com/justsurfingit/job-portal/internal/apperr"
	"github.com/justsurfingit/job-portal/internal/models"
)

// Actor is the authenticated caller.
type Actor struct {
	ID   uint
	Role string
}

func (a Actor) IsAdmin() bool { return a.Role == models.RoleSuperUser }

// CanMutate reports whether actor may change an entity owned by ownerID. A nil
// owner means the entity was created by an admin and only admins may touch it.
func CanMutate(actor Actor, ownerID *uint) bool {
	if actor.IsAdmin() {
		return true
	}
	return ownerID != nil && *ownerID == actor.ID && actor.ID != 0
}

// Authorize returns a forbidden error carrying msg when actor may not mutate.
func Authorize(actor Actor, ownerID *uint, msg string) error {
	if CanMutate(actor, ownerID) {
		return nil
	}
	return apperr.Forbidden(msg)
}

// Owner adapts a non-optional owner id.
func Owner(id uint) *uint { return &id }
