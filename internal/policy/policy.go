// Package policy decides whether an actor may perform an action on a
// resource. Handlers and services call Evaluate instead of comparing roles
// inline.
package policy

import "github.com/ormeet/ormeet-api/internal/domain"

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionManage Action = "manage"
	ActionUse    Action = "use"
)

type Kind string

const (
	KindEvent        Kind = "event"
	KindTicketType   Kind = "ticket_type"
	KindOrder        Kind = "order"
	KindTicket       Kind = "ticket"
	KindAttendance   Kind = "attendance"
	KindPromotion    Kind = "promotion"
	KindReview       Kind = "review"
	KindVenue        Kind = "venue"
	KindOrganization Kind = "organization"
	KindOrgMember    Kind = "organization_member"
	KindOrgInvite    Kind = "organization_invite"
	KindOrgRole      Kind = "organization_role"
	KindUser         Kind = "user"
)

// Resource is what an action targets. OwnerID is empty when the resource
// does not exist yet. MemberRole is the actor's role inside the owning
// organization, if any.
type Resource struct {
	Kind       Kind
	OwnerID    string
	MemberRole domain.OrgRole
}

type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// ownerOnly lists actions reserved to the resource owner, admins included.
var ownerOnly = map[Kind]map[Action]bool{
	KindOrder:        {ActionUpdate: true},
	KindReview:       {ActionUpdate: true},
	KindOrganization: {ActionUpdate: true, ActionDelete: true},
	KindOrgMember:    {ActionUpdate: true},
	KindOrgInvite:    {ActionRead: true, ActionDelete: true},
	KindOrgRole:      {ActionCreate: true, ActionUpdate: true, ActionDelete: true},
}

// organizerKinds are managed by organizers.
var organizerKinds = map[Kind]bool{
	KindEvent:      true,
	KindTicketType: true,
	KindPromotion:  true,
	KindAttendance: true,
	KindVenue:      true,
}

// publicKinds can be read by any authenticated user.
var publicKinds = map[Kind]bool{
	KindEvent:        true,
	KindTicketType:   true,
	KindVenue:        true,
	KindReview:       true,
	KindPromotion:    true,
	KindOrganization: true,
	KindOrgRole:      true,
	KindUser:         true,
}

// selfService are kinds any user may create for themselves.
var selfService = map[Kind]bool{
	KindOrder:        true,
	KindReview:       true,
	KindOrganization: true,
}

func Evaluate(actor domain.Actor, res Resource, action Action) Decision {
	isOwner := res.OwnerID != "" && res.OwnerID == actor.UserID

	if ownerOnly[res.Kind][action] {
		if isOwner {
			return allow()
		}
		return deny(ownerOnlyReason(res.Kind, action))
	}

	if actor.IsAdmin() {
		return allow()
	}

	if res.Kind == KindOrgMember || (res.Kind == KindOrgInvite && action == ActionCreate) {
		if isOwner || res.MemberRole == domain.OrgRoleOwner || res.MemberRole == domain.OrgRoleAdmin {
			return allow()
		}
		return deny("Only owners and admins can manage members")
	}

	if isOwner && (action == ActionRead || action == ActionUpdate || action == ActionDelete) {
		return allow()
	}

	if organizerKinds[res.Kind] && (res.MemberRole == domain.OrgRoleOwner || res.MemberRole == domain.OrgRoleAdmin) {
		return allow()
	}

	if action == ActionRead && publicKinds[res.Kind] {
		return allow()
	}

	if action == ActionCreate && selfService[res.Kind] {
		return allow()
	}

	if actor.Role == domain.RoleOrganizer {
		if organizerKinds[res.Kind] && (res.OwnerID == "" || isOwner || res.Kind == KindVenue || res.Kind == KindAttendance) {
			return allow()
		}
		if res.Kind == KindTicket && action == ActionUse {
			return allow()
		}
	}

	return deny("You do not have permission to " + string(action) + " this " + humanKind(res.Kind))
}

func ownerOnlyReason(kind Kind, action Action) string {
	switch kind {
	case KindOrgMember:
		return "Only the organization owner can update member roles"
	case KindOrgInvite:
		if action == ActionRead {
			return "Only the owner can view pending invites"
		}
		return "Only the owner can cancel invites"
	case KindOrgRole:
		return "Only the owner can " + string(action) + " roles"
	}

	return "You do not have permission to " + string(action) + " this " + humanKind(kind)
}

func humanKind(kind Kind) string {
	switch kind {
	case KindTicketType:
		return "ticket type"
	case KindOrgMember:
		return "member"
	case KindOrgInvite:
		return "invite"
	case KindOrgRole:
		return "role"
	}

	return string(kind)
}
