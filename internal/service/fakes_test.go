package service

import (
	"context"
	"sync"
	"time"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/notify"
	"github.com/ormeet/ormeet-api/internal/repository"
)

var testNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

var (
	admin     = domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}
	organizer = domain.Actor{UserID: "org-1", Role: domain.RoleOrganizer}
	alice     = domain.Actor{UserID: "alice", Role: domain.RoleUser}
	bob       = domain.Actor{UserID: "bob", Role: domain.RoleUser}
)

// Organization team-1 is owned by team-owner, with team-admin as admin and
// team-member as plain member.
var (
	teamAdmin  = domain.Actor{UserID: "team-admin", Role: domain.RoleUser}
	teamMember = domain.Actor{UserID: "team-member", Role: domain.RoleUser}
)

type orgDirectory map[string]domain.Organization

func teams() orgDirectory {
	return orgDirectory{"team-1": {ID: "team-1", Name: "Team", OwnerID: "team-owner"}}
}

func (d orgDirectory) FindByID(_ context.Context, id string) (domain.Organization, error) {
	org, ok := d[id]
	if !ok {
		return domain.Organization{}, repository.ErrOrganizationNotFound
	}
	return org, nil
}

func (d orgDirectory) FindMember(_ context.Context, orgID, userID string) (domain.OrganizationMember, error) {
	roles := map[string]domain.OrgRole{"team-admin": domain.OrgRoleAdmin, "team-member": domain.OrgRoleMember}
	role, ok := roles[userID]
	if _, found := d[orgID]; !found || !ok {
		return domain.OrganizationMember{}, repository.ErrMemberNotFound
	}
	return domain.OrganizationMember{OrganizationID: orgID, UserID: userID, Role: role}, nil
}

type outbox struct {
	mu     sync.Mutex
	emails []notify.Email
	fail   error
}

func (o *outbox) Enqueue(email notify.Email) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.emails = append(o.emails, email)
	return true
}

func (o *outbox) Send(_ context.Context, email notify.Email) error {
	if o.fail != nil {
		return o.fail
	}
	o.Enqueue(email)
	return nil
}

type userTable map[string]domain.User

func (u userTable) FindByID(_ context.Context, id string) (domain.User, error) {
	user, ok := u[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	return user, nil
}

type eventTable map[string]domain.Event

func (e eventTable) FindByID(_ context.Context, id string) (domain.Event, error) {
	event, ok := e[id]
	if !ok {
		return domain.Event{}, repository.ErrEventNotFound
	}
	return event, nil
}

type venueTable map[string]domain.Venue

func (v venueTable) FindByID(_ context.Context, id string) (domain.Venue, error) {
	venue, ok := v[id]
	if !ok {
		return domain.Venue{}, repository.ErrVenueNotFound
	}
	return venue, nil
}

type promotionTable map[string]domain.Promotion

func (p promotionTable) FindByCode(_ context.Context, code string) (domain.Promotion, error) {
	promo, ok := p[code]
	if !ok {
		return domain.Promotion{}, repository.ErrPromotionNotFound
	}
	return promo, nil
}
