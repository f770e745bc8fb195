package policy

import (
	"testing"

	"reviewhub/internal/api/models"

	"github.com/stretchr/testify/assert"
)

var (
	anonymous *Actor
	user      = &Actor{ID: "u1", Username: "alice", Role: models.RoleUser}
	moderator = &Actor{ID: "m1", Username: "mod", Role: models.RoleModerator}
	admin     = &Actor{ID: "a1", Username: "root", Role: models.RoleAdmin}
	superuser = &Actor{ID: "s1", Username: "django", Role: models.RoleUser, Superuser: true}
)

func TestAllow_Catalog(t *testing.T) {
	cases := []struct {
		name   string
		actor  *Actor
		action Action
		want   bool
	}{
		{"anonymous read", anonymous, ActionRead, true},
		{"anonymous create", anonymous, ActionCreate, false},
		{"user create", user, ActionCreate, false},
		{"moderator delete", moderator, ActionDelete, false},
		{"admin create", admin, ActionCreate, true},
		{"admin delete", admin, ActionDelete, true},
		{"superuser create", superuser, ActionCreate, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Allow(tc.actor, tc.action, Resource{Kind: KindCatalog})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAllow_ReviewsAndComments(t *testing.T) {
	for _, kind := range []Kind{KindReview, KindComment} {
		owned := Resource{Kind: kind, OwnerID: user.ID}
		foreign := Resource{Kind: kind, OwnerID: "someone-else"}

		assert.True(t, Allow(anonymous, ActionRead, foreign))
		assert.False(t, Allow(anonymous, ActionCreate, foreign))

		assert.True(t, Allow(user, ActionCreate, foreign))
		assert.True(t, Allow(user, ActionUpdate, owned))
		assert.True(t, Allow(user, ActionDelete, owned))
		assert.False(t, Allow(user, ActionUpdate, foreign))
		assert.False(t, Allow(user, ActionDelete, foreign))

		// moderators and admins act on any author's content
		assert.True(t, Allow(moderator, ActionUpdate, foreign))
		assert.True(t, Allow(moderator, ActionDelete, foreign))
		assert.True(t, Allow(admin, ActionDelete, foreign))
		assert.True(t, Allow(superuser, ActionDelete, foreign))
	}
}

func TestAllow_Accounts(t *testing.T) {
	self := Resource{Kind: KindAccount, OwnerID: user.ID}
	other := Resource{Kind: KindAccount, OwnerID: "someone-else"}

	assert.False(t, Allow(anonymous, ActionRead, other))

	assert.True(t, Allow(user, ActionRead, self))
	assert.True(t, Allow(user, ActionUpdate, self))
	assert.False(t, Allow(user, ActionDelete, self))
	assert.False(t, Allow(user, ActionRead, other))

	// moderators hold no extra account privileges
	assert.False(t, Allow(moderator, ActionRead, other))

	assert.True(t, Allow(admin, ActionCreate, Resource{Kind: KindAccount}))
	assert.True(t, Allow(admin, ActionDelete, other))
	assert.True(t, Allow(superuser, ActionDelete, other))
}

func TestActorHelpers(t *testing.T) {
	assert.False(t, anonymous.IsAdmin())
	assert.False(t, anonymous.IsModerator())
	assert.True(t, admin.IsAdmin())
	assert.True(t, superuser.IsAdmin())
	assert.True(t, moderator.IsModerator())
	assert.False(t, user.IsAdmin())
}
