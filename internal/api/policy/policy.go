// Package policy is the single authorization capability consulted by
// every mutating endpoint. Role checks live here rather than being
// re-derived ad hoc in handlers.
package policy

import "reviewhub/internal/api/models"

// Actor is the authenticated identity extracted from the access token.
// A nil *Actor means the request is anonymous.
type Actor struct {
	ID        string
	Username  string
	Role      string
	Superuser bool
}

func (a *Actor) IsAdmin() bool {
	return a != nil && (a.Role == models.RoleAdmin || a.Superuser)
}

func (a *Actor) IsModerator() bool {
	return a != nil && a.Role == models.RoleModerator
}

type Action int

const (
	ActionRead Action = iota
	ActionCreate
	ActionUpdate
	ActionDelete
)

type Kind int

const (
	KindCatalog Kind = iota // categories, genres, titles
	KindReview
	KindComment
	KindAccount
)

// Resource identifies what is being acted on. OwnerID is the author (or
// account owner) where ownership applies, empty otherwise.
type Resource struct {
	Kind    Kind
	OwnerID string
}

// Allow decides whether the actor may perform the action on the
// resource. Unauthenticated actors can only read public resources.
func Allow(actor *Actor, action Action, res Resource) bool {
	switch res.Kind {
	case KindCatalog:
		if action == ActionRead {
			return true
		}
		return actor.IsAdmin()

	case KindReview, KindComment:
		if action == ActionRead {
			return true
		}
		if actor == nil {
			return false
		}
		if action == ActionCreate {
			return true
		}
		// update/delete: author, moderator or admin
		return actor.ID == res.OwnerID || actor.IsModerator() || actor.IsAdmin()

	case KindAccount:
		if actor == nil {
			return false
		}
		if actor.IsAdmin() {
			return true
		}
		// owners may read and update themselves; deletion stays admin-only
		if actor.ID == res.OwnerID {
			return action == ActionRead || action == ActionUpdate
		}
		return false
	}

	return false
}
