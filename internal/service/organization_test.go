package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/notify"
	"github.com/ormeet/ormeet-api/internal/repository"
)

type memOrganizations struct {
	orgs    map[string]domain.Organization
	members map[string]domain.OrganizationMember
	invites map[string]domain.OrganizationInvite
	roles   map[string]domain.CustomRole
}

func newMemOrganizations(orgs ...domain.Organization) *memOrganizations {
	m := &memOrganizations{
		orgs:    make(map[string]domain.Organization),
		members: make(map[string]domain.OrganizationMember),
		invites: make(map[string]domain.OrganizationInvite),
		roles:   make(map[string]domain.CustomRole),
	}
	for _, o := range orgs {
		m.orgs[o.ID] = o
	}
	return m
}

func memberKey(orgID, userID string) string { return orgID + "/" + userID }

func (m *memOrganizations) Create(_ context.Context, org domain.Organization) (domain.Organization, error) {
	org.ID = "org-" + strconv.Itoa(len(m.orgs)+1)
	m.orgs[org.ID] = org
	return org, nil
}

func (m *memOrganizations) FindByID(_ context.Context, id string) (domain.Organization, error) {
	org, ok := m.orgs[id]
	if !ok {
		return domain.Organization{}, repository.ErrOrganizationNotFound
	}
	return org, nil
}

func (m *memOrganizations) FindAll(_ context.Context, ownerID string) ([]domain.Organization, error) {
	var orgs []domain.Organization
	for _, o := range m.orgs {
		if ownerID == "" || o.OwnerID == ownerID {
			orgs = append(orgs, o)
		}
	}
	return orgs, nil
}

func (m *memOrganizations) Update(_ context.Context, org domain.Organization) (domain.Organization, error) {
	m.orgs[org.ID] = org
	return org, nil
}

func (m *memOrganizations) Delete(_ context.Context, id string) error {
	delete(m.orgs, id)
	return nil
}

func (m *memOrganizations) FindMember(_ context.Context, orgID, userID string) (domain.OrganizationMember, error) {
	member, ok := m.members[memberKey(orgID, userID)]
	if !ok {
		return domain.OrganizationMember{}, repository.ErrMemberNotFound
	}
	return member, nil
}

func (m *memOrganizations) FindMembers(_ context.Context, orgID string) ([]domain.OrganizationMember, error) {
	var members []domain.OrganizationMember
	for _, mb := range m.members {
		if mb.OrganizationID == orgID {
			members = append(members, mb)
		}
	}
	return members, nil
}

func (m *memOrganizations) AddMember(_ context.Context, member domain.OrganizationMember) (domain.OrganizationMember, error) {
	key := memberKey(member.OrganizationID, member.UserID)
	if _, ok := m.members[key]; ok {
		return domain.OrganizationMember{}, repository.ErrMemberExists
	}
	m.members[key] = member
	return member, nil
}

func (m *memOrganizations) RemoveMember(_ context.Context, orgID, userID string) error {
	key := memberKey(orgID, userID)
	if _, ok := m.members[key]; !ok {
		return repository.ErrMemberNotFound
	}
	delete(m.members, key)
	return nil
}

func (m *memOrganizations) UpdateMemberRole(_ context.Context, orgID, userID string, role domain.OrgRole) (domain.OrganizationMember, error) {
	key := memberKey(orgID, userID)
	member, ok := m.members[key]
	if !ok {
		return domain.OrganizationMember{}, repository.ErrMemberNotFound
	}
	member.Role = role
	m.members[key] = member
	return member, nil
}

func (m *memOrganizations) CreateInvite(_ context.Context, invite domain.OrganizationInvite) (domain.OrganizationInvite, error) {
	for _, i := range m.invites {
		if i.OrganizationID == invite.OrganizationID && i.Email == invite.Email && i.Status == domain.InvitePending {
			return domain.OrganizationInvite{}, repository.ErrInvitePending
		}
	}
	invite.ID = "invite-" + strconv.Itoa(len(m.invites)+1)
	m.invites[invite.ID] = invite
	return invite, nil
}

func (m *memOrganizations) FindPendingInvites(_ context.Context, orgID string) ([]domain.OrganizationInvite, error) {
	var invites []domain.OrganizationInvite
	for _, i := range m.invites {
		if i.OrganizationID == orgID && i.Status == domain.InvitePending {
			invites = append(invites, i)
		}
	}
	return invites, nil
}

func (m *memOrganizations) FindInviteByCode(_ context.Context, code string) (domain.OrganizationInvite, error) {
	for _, i := range m.invites {
		if i.InviteCode == code {
			return i, nil
		}
	}
	return domain.OrganizationInvite{}, repository.ErrInviteNotFound
}

func (m *memOrganizations) CancelInvite(_ context.Context, orgID, inviteID string) error {
	invite, ok := m.invites[inviteID]
	if !ok || invite.OrganizationID != orgID || invite.Status != domain.InvitePending {
		return repository.ErrInviteNotFound
	}
	invite.Status = domain.InviteCancelled
	m.invites[inviteID] = invite
	return nil
}

func (m *memOrganizations) AcceptInvite(ctx context.Context, inviteID, userID string, at time.Time) (domain.OrganizationMember, error) {
	invite, ok := m.invites[inviteID]
	if !ok || invite.Status != domain.InvitePending {
		return domain.OrganizationMember{}, repository.ErrInviteNotFound
	}
	invite.Status = domain.InviteAccepted
	m.invites[inviteID] = invite

	return m.AddMember(ctx, domain.OrganizationMember{
		OrganizationID: invite.OrganizationID,
		UserID:         userID,
		Role:           invite.Role,
		AddedBy:        invite.InvitedBy,
		AddedAt:        at,
	})
}

func (m *memOrganizations) FindRoles(_ context.Context, orgID string) ([]domain.CustomRole, error) {
	var roles []domain.CustomRole
	for _, r := range m.roles {
		if r.OrganizationID == orgID {
			roles = append(roles, r)
		}
	}
	return roles, nil
}

func (m *memOrganizations) CreateRole(_ context.Context, role domain.CustomRole) (domain.CustomRole, error) {
	for _, r := range m.roles {
		if r.OrganizationID == role.OrganizationID && r.Name == role.Name {
			return domain.CustomRole{}, repository.ErrRoleExists
		}
	}
	role.ID = "role-" + strconv.Itoa(len(m.roles)+1)
	m.roles[role.ID] = role
	return role, nil
}

func (m *memOrganizations) UpdateRole(_ context.Context, role domain.CustomRole) (domain.CustomRole, error) {
	m.roles[role.ID] = role
	return role, nil
}

func (m *memOrganizations) FindRole(_ context.Context, orgID, roleID string) (domain.CustomRole, error) {
	role, ok := m.roles[roleID]
	if !ok || role.OrganizationID != orgID {
		return domain.CustomRole{}, repository.ErrRoleNotFound
	}
	return role, nil
}

func (m *memOrganizations) DeleteRole(_ context.Context, orgID, roleID string) error {
	if _, ok := m.roles[roleID]; !ok {
		return repository.ErrRoleNotFound
	}
	delete(m.roles, roleID)
	return nil
}

type organizationFixture struct {
	svc   *OrganizationService
	repo  *memOrganizations
	mails *outbox
}

// newOrganizationFixture sets up "acme", owned by the organizer, with alice
// as an org admin.
func newOrganizationFixture() organizationFixture {
	repo := newMemOrganizations(domain.Organization{ID: "acme", OwnerID: "org-1", Name: "Acme"})
	repo.members[memberKey("acme", "alice")] = domain.OrganizationMember{OrganizationID: "acme", UserID: "alice", Role: domain.OrgRoleAdmin}

	users := userTable{
		"org-1": {ID: "org-1", Name: "Olivia", Email: "olivia@example.com"},
		"alice": {ID: "alice", Name: "Alice", Email: "alice@example.com"},
		"bob":   {ID: "bob", Name: "Bob", Email: "bob@example.com"},
		"carol": {ID: "carol", Name: "Carol", Email: "Carol@Example.com"},
	}
	mails := &outbox{}
	svc := NewOrganizationService(repo, users, mails, "http://localhost:3000")
	svc.now = fixedClock

	return organizationFixture{svc: svc, repo: repo, mails: mails}
}

func TestOrganizationService_CreateDefaultsOwner(t *testing.T) {
	f := newOrganizationFixture()

	org, err := f.svc.Create(context.Background(), bob, domain.Organization{Name: "Bob's"})
	require.NoError(t, err)
	assert.Equal(t, "bob", org.OwnerID)

	_, err = f.svc.Update(context.Background(), bob, "acme", func(o *domain.Organization) { o.Name = "Mine" })
	assert.ErrorIs(t, err, Forbidden("You do not have permission to update this organization"))
}

func TestOrganizationService_Members(t *testing.T) {
	ctx := context.Background()
	f := newOrganizationFixture()

	_, err := f.svc.AddMember(ctx, bob, "acme", "carol", domain.OrgRoleMember)
	assert.ErrorIs(t, err, Forbidden("Only owners and admins can add members"))

	member, err := f.svc.AddMember(ctx, alice, "acme", "bob", domain.OrgRoleMember)
	require.NoError(t, err)
	assert.Equal(t, "alice", member.AddedBy)
	assert.Equal(t, testNow, member.AddedAt)

	_, err = f.svc.AddMember(ctx, organizer, "acme", "bob", domain.OrgRoleMember)
	assert.ErrorIs(t, err, errMemberExists)

	_, err = f.svc.AddMember(ctx, organizer, "acme", "ghost", domain.OrgRoleMember)
	assert.ErrorIs(t, err, errUserNotFound)

	_, err = f.svc.AddMember(ctx, bob, "acme", "carol", domain.OrgRoleMember)
	assert.ErrorIs(t, err, Forbidden("Only owners and admins can add members"), "plain members cannot add")

	_, err = f.svc.UpdateMemberRole(ctx, alice, "acme", "bob", domain.OrgRoleAdmin)
	assert.ErrorIs(t, err, Forbidden("Only the organization owner can update member roles"))

	_, err = f.svc.UpdateMemberRole(ctx, organizer, "acme", "org-1", domain.OrgRoleMember)
	assert.ErrorIs(t, err, errChangeOwnerRole)

	updated, err := f.svc.UpdateMemberRole(ctx, organizer, "acme", "bob", domain.OrgRoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.OrgRoleAdmin, updated.Role)

	assert.ErrorIs(t, f.svc.RemoveMember(ctx, alice, "acme", "org-1"), errRemoveOwner)
	require.NoError(t, f.svc.RemoveMember(ctx, alice, "acme", "bob"))
	assert.ErrorIs(t, f.svc.RemoveMember(ctx, alice, "acme", "bob"), errMemberNotFound)

	members, err := f.svc.Members(ctx, "acme")
	require.NoError(t, err)
	assert.Len(t, members, 1)

	_, err = f.svc.Members(ctx, "missing")
	assert.ErrorIs(t, err, NotFound("Organization with ID missing not found"))
}

func TestOrganizationService_Invites(t *testing.T) {
	ctx := context.Background()
	f := newOrganizationFixture()

	_, err := f.svc.InviteByEmail(ctx, bob, "acme", "carol@example.com", domain.OrgRoleMember)
	assert.ErrorIs(t, err, Forbidden("Only owners and admins can invite members"))

	res, err := f.svc.InviteByEmail(ctx, alice, "acme", " Carol@Example.com ", domain.OrgRoleMember)
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", res.Email)
	assert.Len(t, res.InviteCode, 8)

	require.Len(t, f.mails.emails, 1)
	sent := f.mails.emails[0]
	assert.Equal(t, "carol@example.com", sent.To)
	assert.Equal(t, "You're invited to join Acme on Ormeet", sent.Subject)
	data := sent.Data.(notify.InviteData)
	assert.Equal(t, "Alice", data.InviterName)
	assert.Equal(t, "http://localhost:3000/invites/accept?code="+res.InviteCode, data.InviteURL)

	_, err = f.svc.InviteByEmail(ctx, organizer, "acme", "carol@example.com", domain.OrgRoleAdmin)
	assert.ErrorIs(t, err, errInvitePending)

	_, err = f.svc.PendingInvites(ctx, alice, "acme")
	assert.ErrorIs(t, err, Forbidden("Only the owner can view pending invites"))
	pending, err := f.svc.PendingInvites(ctx, organizer, "acme")
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	_, err = f.svc.AcceptInvite(ctx, bob, res.InviteCode)
	assert.ErrorIs(t, err, errInviteWrongAccount)

	carol := domain.Actor{UserID: "carol", Role: domain.RoleUser}
	member, err := f.svc.AcceptInvite(ctx, carol, " "+res.InviteCode+" ")
	require.NoError(t, err)
	assert.Equal(t, domain.OrgRoleMember, member.Role)

	_, err = f.svc.AcceptInvite(ctx, carol, res.InviteCode)
	assert.ErrorIs(t, err, errInviteNotFound)
}

func TestOrganizationService_AcceptExpiredInvite(t *testing.T) {
	f := newOrganizationFixture()
	f.repo.invites["i1"] = domain.OrganizationInvite{
		ID: "i1", OrganizationID: "acme", Email: "bob@example.com", InviteCode: "ABCD1234",
		Status: domain.InvitePending, ExpiresAt: testNow.Add(-time.Minute),
	}

	_, err := f.svc.AcceptInvite(context.Background(), bob, "abcd1234")
	assert.ErrorIs(t, err, errInviteExpired)

	assert.ErrorIs(t, f.svc.CancelInvite(context.Background(), alice, "acme", "i1"), Forbidden("Only the owner can cancel invites"))
	require.NoError(t, f.svc.CancelInvite(context.Background(), organizer, "acme", "i1"))
	assert.ErrorIs(t, f.svc.CancelInvite(context.Background(), organizer, "acme", "i1"), errInviteNotFound)
}

func TestOrganizationService_Roles(t *testing.T) {
	ctx := context.Background()
	f := newOrganizationFixture()
	perms := domain.Permissions{"events": {"create": true}}

	_, err := f.svc.CreateRole(ctx, admin, "acme", "Editor", perms)
	assert.ErrorIs(t, err, Forbidden("Only the owner can create roles"))

	role, err := f.svc.CreateRole(ctx, organizer, "acme", " Editor ", perms)
	require.NoError(t, err)
	assert.Equal(t, "Editor", role.Name)

	_, err = f.svc.CreateRole(ctx, organizer, "acme", "Editor", nil)
	assert.ErrorIs(t, err, errRoleExists)

	updated, err := f.svc.UpdateRole(ctx, organizer, "acme", role.ID, "", domain.Permissions{"events": {"delete": true}})
	require.NoError(t, err)
	assert.Equal(t, "Editor", updated.Name)
	assert.True(t, updated.Permissions["events"]["delete"])

	_, err = f.svc.UpdateRole(ctx, organizer, "acme", "missing", "X", nil)
	assert.ErrorIs(t, err, errRoleNotFound)

	require.NoError(t, f.svc.DeleteRole(ctx, organizer, "acme", role.ID))
	roles, err := f.svc.Roles(ctx, "acme")
	require.NoError(t, err)
	assert.Empty(t, roles)
}
