package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ormeet/ormeet-api/internal/domain"
)

func TestEvaluate(t *testing.T) {
	admin := domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}
	organizer := domain.Actor{UserID: "org-1", Role: domain.RoleOrganizer}
	user := domain.Actor{UserID: "user-1", Role: domain.RoleUser}

	tests := []struct {
		name   string
		actor  domain.Actor
		res    Resource
		action Action
		want   bool
	}{
		{"admin deletes any order", admin, Resource{Kind: KindOrder, OwnerID: "user-1"}, ActionDelete, true},
		{"admin cannot update another user's order", admin, Resource{Kind: KindOrder, OwnerID: "user-1"}, ActionUpdate, false},
		{"owner updates own order", user, Resource{Kind: KindOrder, OwnerID: "user-1"}, ActionUpdate, true},
		{"user cannot delete another user's order", user, Resource{Kind: KindOrder, OwnerID: "user-2"}, ActionDelete, false},
		{"user creates order", user, Resource{Kind: KindOrder}, ActionCreate, true},
		{"user reads event", user, Resource{Kind: KindEvent, OwnerID: "org-1"}, ActionRead, true},
		{"user cannot create event", user, Resource{Kind: KindEvent}, ActionCreate, false},
		{"organizer creates event", organizer, Resource{Kind: KindEvent}, ActionCreate, true},
		{"organizer updates own event", organizer, Resource{Kind: KindEvent, OwnerID: "org-1"}, ActionUpdate, true},
		{"organizer cannot update someone else's event", organizer, Resource{Kind: KindEvent, OwnerID: "org-2"}, ActionUpdate, false},
		{"organizer uses ticket", organizer, Resource{Kind: KindTicket, OwnerID: "user-1"}, ActionUse, true},
		{"user cannot use ticket", user, Resource{Kind: KindTicket, OwnerID: "user-2"}, ActionUse, false},
		{"organizer manages venue", organizer, Resource{Kind: KindVenue}, ActionUpdate, true},
		{"user cannot manage venue", user, Resource{Kind: KindVenue}, ActionCreate, false},
		{"admin cannot update another's organization", admin, Resource{Kind: KindOrganization, OwnerID: "user-1"}, ActionUpdate, false},
		{"org admin member adds member", user, Resource{Kind: KindOrgMember, OwnerID: "user-9", MemberRole: domain.OrgRoleAdmin}, ActionManage, true},
		{"plain member cannot add member", user, Resource{Kind: KindOrgMember, OwnerID: "user-9", MemberRole: domain.OrgRoleMember}, ActionManage, false},
		{"org admin member cannot change roles", user, Resource{Kind: KindOrgMember, OwnerID: "user-9", MemberRole: domain.OrgRoleAdmin}, ActionUpdate, false},
		{"owner creates custom role", user, Resource{Kind: KindOrgRole, OwnerID: "user-1"}, ActionCreate, true},
		{"org admin member invites", user, Resource{Kind: KindOrgInvite, OwnerID: "user-9", MemberRole: domain.OrgRoleAdmin}, ActionCreate, true},
		{"org admin updates organization event", user, Resource{Kind: KindEvent, OwnerID: "user-9", MemberRole: domain.OrgRoleAdmin}, ActionUpdate, true},
		{"org owner creates organization event", user, Resource{Kind: KindEvent, OwnerID: "user-1", MemberRole: domain.OrgRoleOwner}, ActionCreate, true},
		{"org admin deletes organization promotion", user, Resource{Kind: KindPromotion, OwnerID: "user-9", MemberRole: domain.OrgRoleAdmin}, ActionDelete, true},
		{"plain member cannot update organization event", user, Resource{Kind: KindEvent, OwnerID: "user-9", MemberRole: domain.OrgRoleMember}, ActionUpdate, false},
		{"organizer outside organization cannot create its event", organizer, Resource{Kind: KindEvent, OwnerID: "user-9"}, ActionCreate, false},
		{"org admin member cannot list invites", user, Resource{Kind: KindOrgInvite, OwnerID: "user-9", MemberRole: domain.OrgRoleAdmin}, ActionRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.actor, tt.res, tt.action)
			assert.Equal(t, tt.want, got.Allowed)
			if !tt.want {
				assert.NotEmpty(t, got.Reason)
			}
		})
	}
}

func TestEvaluate_Reasons(t *testing.T) {
	user := domain.Actor{UserID: "user-1", Role: domain.RoleUser}

	got := Evaluate(user, Resource{Kind: KindOrder, OwnerID: "user-2"}, ActionUpdate)
	assert.Equal(t, "You do not have permission to update this order", got.Reason)

	got = Evaluate(user, Resource{Kind: KindOrgInvite, OwnerID: "user-2"}, ActionDelete)
	assert.Equal(t, "Only the owner can cancel invites", got.Reason)

	got = Evaluate(user, Resource{Kind: KindOrgRole, OwnerID: "user-2"}, ActionCreate)
	assert.Equal(t, "Only the owner can create roles", got.Reason)
}
