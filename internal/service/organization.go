package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/notify"
	"github.com/ormeet/ormeet-api/internal/policy"
	"github.com/ormeet/ormeet-api/internal/repository"
)

var (
	errUserNotFound       = NotFound("User not found")
	errMemberExists       = BadRequest("User is already a member")
	errRemoveOwner        = BadRequest("Cannot remove the organization owner")
	errMemberNotFound     = NotFound("Member not found in organization")
	errChangeOwnerRole    = BadRequest("Cannot change the owner's role")
	errInvitePending      = BadRequest("An invitation has already been sent to this email")
	errInviteNotFound     = NotFound("Invite not found")
	errInviteExpired      = BadRequest("Invitation has expired")
	errInviteWrongAccount = Forbidden("This invitation was sent to a different email")
	errRoleExists         = BadRequest("A role with this name already exists")
	errRoleNotFound       = NotFound("Role not found")
)

type OrganizationRepository interface {
	Create(ctx context.Context, org domain.Organization) (domain.Organization, error)
	FindByID(ctx context.Context, id string) (domain.Organization, error)
	FindAll(ctx context.Context, ownerID string) ([]domain.Organization, error)
	Update(ctx context.Context, org domain.Organization) (domain.Organization, error)
	Delete(ctx context.Context, id string) error

	FindMember(ctx context.Context, orgID, userID string) (domain.OrganizationMember, error)
	FindMembers(ctx context.Context, orgID string) ([]domain.OrganizationMember, error)
	AddMember(ctx context.Context, m domain.OrganizationMember) (domain.OrganizationMember, error)
	RemoveMember(ctx context.Context, orgID, userID string) error
	UpdateMemberRole(ctx context.Context, orgID, userID string, role domain.OrgRole) (domain.OrganizationMember, error)

	CreateInvite(ctx context.Context, invite domain.OrganizationInvite) (domain.OrganizationInvite, error)
	FindPendingInvites(ctx context.Context, orgID string) ([]domain.OrganizationInvite, error)
	FindInviteByCode(ctx context.Context, code string) (domain.OrganizationInvite, error)
	CancelInvite(ctx context.Context, orgID, inviteID string) error
	AcceptInvite(ctx context.Context, inviteID, userID string, at time.Time) (domain.OrganizationMember, error)

	FindRoles(ctx context.Context, orgID string) ([]domain.CustomRole, error)
	CreateRole(ctx context.Context, role domain.CustomRole) (domain.CustomRole, error)
	UpdateRole(ctx context.Context, role domain.CustomRole) (domain.CustomRole, error)
	FindRole(ctx context.Context, orgID, roleID string) (domain.CustomRole, error)
	DeleteRole(ctx context.Context, orgID, roleID string) error
}

type OrganizationService struct {
	repo        OrganizationRepository
	users       UserRepository
	notifier    Notifier
	frontendURL string
	now         clock
}

func NewOrganizationService(repo OrganizationRepository, users UserRepository, notifier Notifier, frontendURL string) *OrganizationService {
	return &OrganizationService{
		repo:        repo,
		users:       users,
		notifier:    notifier,
		frontendURL: frontendURL,
		now:         time.Now,
	}
}

// InviteResult is returned to the inviter; the code is also emailed.
type InviteResult struct {
	InviteCode string `json:"inviteCode"`
	Email      string `json:"email"`
}

func (s *OrganizationService) Create(ctx context.Context, actor domain.Actor, org domain.Organization) (domain.Organization, error) {
	if org.OwnerID == "" {
		org.OwnerID = actor.UserID
	}

	created, err := s.repo.Create(ctx, org)
	if err != nil {
		return domain.Organization{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *OrganizationService) Get(ctx context.Context, id string) (domain.Organization, error) {
	org, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Organization{}, translate("s.repo.FindByID", err,
			on(repository.ErrOrganizationNotFound, organizationNotFound(id)))
	}

	return org, nil
}

func (s *OrganizationService) List(ctx context.Context) ([]domain.Organization, error) {
	return s.ListByOwner(ctx, "")
}

func (s *OrganizationService) ListByOwner(ctx context.Context, ownerID string) ([]domain.Organization, error) {
	orgs, err := s.repo.FindAll(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return orgs, nil
}

func (s *OrganizationService) Update(ctx context.Context, actor domain.Actor, id string, apply func(*domain.Organization)) (domain.Organization, error) {
	org, err := s.Get(ctx, id)
	if err != nil {
		return domain.Organization{}, err
	}
	if err = authorize(actor, policy.Resource{Kind: policy.KindOrganization, OwnerID: org.OwnerID}, policy.ActionUpdate); err != nil {
		return domain.Organization{}, err
	}

	apply(&org)
	org.ID = id

	updated, err := s.repo.Update(ctx, org)
	if err != nil {
		return domain.Organization{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *OrganizationService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	org, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err = authorize(actor, policy.Resource{Kind: policy.KindOrganization, OwnerID: org.OwnerID}, policy.ActionDelete); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return translate("s.repo.Delete", err,
			on(repository.ErrOrganizationNotFound, organizationNotFound(id)))
	}

	return nil
}

func (s *OrganizationService) Members(ctx context.Context, orgID string) ([]domain.OrganizationMember, error) {
	if _, err := s.Get(ctx, orgID); err != nil {
		return nil, err
	}

	members, err := s.repo.FindMembers(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindMembers -> %w", err)
	}

	return members, nil
}

func (s *OrganizationService) AddMember(ctx context.Context, actor domain.Actor, orgID, userID string, role domain.OrgRole) (domain.OrganizationMember, error) {
	org, err := s.Get(ctx, orgID)
	if err != nil {
		return domain.OrganizationMember{}, err
	}
	if err = s.canManageMembers(ctx, actor, org, "Only owners and admins can add members"); err != nil {
		return domain.OrganizationMember{}, err
	}

	if _, err = s.users.FindByID(ctx, userID); err != nil {
		return domain.OrganizationMember{}, translate("s.users.FindByID", err, on(repository.ErrUserNotFound, errUserNotFound))
	}

	member, err := s.repo.AddMember(ctx, domain.OrganizationMember{
		OrganizationID: orgID,
		UserID:         userID,
		Role:           role,
		AddedBy:        actor.UserID,
		AddedAt:        s.now(),
	})
	if err != nil {
		return domain.OrganizationMember{}, translate("s.repo.AddMember", err, on(repository.ErrMemberExists, errMemberExists))
	}

	return member, nil
}

func (s *OrganizationService) RemoveMember(ctx context.Context, actor domain.Actor, orgID, userID string) error {
	org, err := s.Get(ctx, orgID)
	if err != nil {
		return err
	}
	if err = s.canManageMembers(ctx, actor, org, "Only owners and admins can remove members"); err != nil {
		return err
	}
	if userID == org.OwnerID {
		return errRemoveOwner
	}

	if err = s.repo.RemoveMember(ctx, orgID, userID); err != nil {
		return translate("s.repo.RemoveMember", err, on(repository.ErrMemberNotFound, errMemberNotFound))
	}

	return nil
}

func (s *OrganizationService) UpdateMemberRole(ctx context.Context, actor domain.Actor, orgID, userID string, role domain.OrgRole) (domain.OrganizationMember, error) {
	org, err := s.Get(ctx, orgID)
	if err != nil {
		return domain.OrganizationMember{}, err
	}
	if err = authorize(actor, policy.Resource{Kind: policy.KindOrgMember, OwnerID: org.OwnerID}, policy.ActionUpdate); err != nil {
		return domain.OrganizationMember{}, err
	}
	if userID == org.OwnerID {
		return domain.OrganizationMember{}, errChangeOwnerRole
	}

	member, err := s.repo.UpdateMemberRole(ctx, orgID, userID, role)
	if err != nil {
		return domain.OrganizationMember{}, translate("s.repo.UpdateMemberRole", err, on(repository.ErrMemberNotFound, errMemberNotFound))
	}

	return member, nil
}

// InviteByEmail records a pending invite and emails its code. A failed email
// does not fail the invite.
func (s *OrganizationService) InviteByEmail(ctx context.Context, actor domain.Actor, orgID, email string, role domain.OrgRole) (InviteResult, error) {
	org, err := s.Get(ctx, orgID)
	if err != nil {
		return InviteResult{}, err
	}

	memberRole, err := s.memberRole(ctx, org, actor.UserID)
	if err != nil {
		return InviteResult{}, err
	}
	decision := policy.Evaluate(actor, policy.Resource{Kind: policy.KindOrgInvite, OwnerID: org.OwnerID, MemberRole: memberRole}, policy.ActionCreate)
	if !decision.Allowed {
		return InviteResult{}, Forbidden("Only owners and admins can invite members")
	}

	now := s.now()
	code := strings.ToUpper(strings.Split(uuid.NewString(), "-")[0])

	invite, err := s.repo.CreateInvite(ctx, domain.OrganizationInvite{
		OrganizationID: orgID,
		Email:          strings.ToLower(strings.TrimSpace(email)),
		Role:           role,
		InviteCode:     code,
		Status:         domain.InvitePending,
		InvitedBy:      actor.UserID,
		InvitedAt:      now,
		ExpiresAt:      now.Add(domain.InviteTTL),
	})
	if err != nil {
		return InviteResult{}, translate("s.repo.CreateInvite", err, on(repository.ErrInvitePending, errInvitePending))
	}

	inviterName := "A team member"
	if inviter, err := s.users.FindByID(ctx, actor.UserID); err == nil && inviter.Name != "" {
		inviterName = inviter.Name
	}

	queued := s.notifier.Enqueue(notify.TeamInvite(invite.Email, notify.InviteData{
		InviterName:      inviterName,
		OrganizationName: org.Name,
		RoleName:         string(role),
		InviteCode:       code,
		InviteURL:        s.frontendURL + "/invites/accept?code=" + code,
	}))
	if !queued {
		zap.L().Error("failed to queue invite email", zap.String("organization_id", orgID), zap.String("email", invite.Email))
	}

	return InviteResult{InviteCode: code, Email: invite.Email}, nil
}

func (s *OrganizationService) PendingInvites(ctx context.Context, actor domain.Actor, orgID string) ([]domain.OrganizationInvite, error) {
	org, err := s.Get(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if err = authorize(actor, policy.Resource{Kind: policy.KindOrgInvite, OwnerID: org.OwnerID}, policy.ActionRead); err != nil {
		return nil, err
	}

	invites, err := s.repo.FindPendingInvites(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindPendingInvites -> %w", err)
	}

	return invites, nil
}

func (s *OrganizationService) CancelInvite(ctx context.Context, actor domain.Actor, orgID, inviteID string) error {
	org, err := s.Get(ctx, orgID)
	if err != nil {
		return err
	}
	if err = authorize(actor, policy.Resource{Kind: policy.KindOrgInvite, OwnerID: org.OwnerID}, policy.ActionDelete); err != nil {
		return err
	}

	if err = s.repo.CancelInvite(ctx, orgID, inviteID); err != nil {
		return translate("s.repo.CancelInvite", err, on(repository.ErrInviteNotFound, errInviteNotFound))
	}

	return nil
}

// AcceptInvite makes the caller a member. The caller's email must be the
// invited one.
func (s *OrganizationService) AcceptInvite(ctx context.Context, actor domain.Actor, code string) (domain.OrganizationMember, error) {
	invite, err := s.repo.FindInviteByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return domain.OrganizationMember{}, translate("s.repo.FindInviteByCode", err, on(repository.ErrInviteNotFound, errInviteNotFound))
	}
	if invite.Status != domain.InvitePending {
		return domain.OrganizationMember{}, errInviteNotFound
	}
	if invite.Expired(s.now()) {
		return domain.OrganizationMember{}, errInviteExpired
	}

	user, err := s.users.FindByID(ctx, actor.UserID)
	if err != nil {
		return domain.OrganizationMember{}, translate("s.users.FindByID", err, on(repository.ErrUserNotFound, errUserNotFound))
	}
	if !strings.EqualFold(user.Email, invite.Email) {
		return domain.OrganizationMember{}, errInviteWrongAccount
	}

	member, err := s.repo.AcceptInvite(ctx, invite.ID, user.ID, s.now())
	if err != nil {
		return domain.OrganizationMember{}, translate("s.repo.AcceptInvite", err,
			on(repository.ErrInviteNotFound, errInviteNotFound),
			on(repository.ErrMemberExists, errMemberExists))
	}

	return member, nil
}

func (s *OrganizationService) Roles(ctx context.Context, orgID string) ([]domain.CustomRole, error) {
	if _, err := s.Get(ctx, orgID); err != nil {
		return nil, err
	}

	roles, err := s.repo.FindRoles(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindRoles -> %w", err)
	}

	return roles, nil
}

func (s *OrganizationService) CreateRole(ctx context.Context, actor domain.Actor, orgID, name string, perms domain.Permissions) (domain.CustomRole, error) {
	org, err := s.Get(ctx, orgID)
	if err != nil {
		return domain.CustomRole{}, err
	}
	if err = authorize(actor, policy.Resource{Kind: policy.KindOrgRole, OwnerID: org.OwnerID}, policy.ActionCreate); err != nil {
		return domain.CustomRole{}, err
	}

	role, err := s.repo.CreateRole(ctx, domain.CustomRole{
		OrganizationID: orgID,
		Name:           strings.TrimSpace(name),
		Permissions:    perms,
	})
	if err != nil {
		return domain.CustomRole{}, translate("s.repo.CreateRole", err, on(repository.ErrRoleExists, errRoleExists))
	}

	return role, nil
}

// UpdateRole renames the role and/or replaces its permissions; zero values
// leave the field as is.
func (s *OrganizationService) UpdateRole(ctx context.Context, actor domain.Actor, orgID, roleID, name string, perms domain.Permissions) (domain.CustomRole, error) {
	org, err := s.Get(ctx, orgID)
	if err != nil {
		return domain.CustomRole{}, err
	}
	if err = authorize(actor, policy.Resource{Kind: policy.KindOrgRole, OwnerID: org.OwnerID}, policy.ActionUpdate); err != nil {
		return domain.CustomRole{}, err
	}

	role, err := s.repo.FindRole(ctx, orgID, roleID)
	if err != nil {
		return domain.CustomRole{}, translate("s.repo.FindRole", err, on(repository.ErrRoleNotFound, errRoleNotFound))
	}
	if name = strings.TrimSpace(name); name != "" {
		role.Name = name
	}
	if perms != nil {
		role.Permissions = perms
	}

	updated, err := s.repo.UpdateRole(ctx, role)
	if err != nil {
		return domain.CustomRole{}, translate("s.repo.UpdateRole", err,
			on(repository.ErrRoleExists, errRoleExists),
			on(repository.ErrRoleNotFound, errRoleNotFound))
	}

	return updated, nil
}

func (s *OrganizationService) DeleteRole(ctx context.Context, actor domain.Actor, orgID, roleID string) error {
	org, err := s.Get(ctx, orgID)
	if err != nil {
		return err
	}
	if err = authorize(actor, policy.Resource{Kind: policy.KindOrgRole, OwnerID: org.OwnerID}, policy.ActionDelete); err != nil {
		return err
	}

	if err = s.repo.DeleteRole(ctx, orgID, roleID); err != nil {
		return translate("s.repo.DeleteRole", err, on(repository.ErrRoleNotFound, errRoleNotFound))
	}

	return nil
}

func (s *OrganizationService) canManageMembers(ctx context.Context, actor domain.Actor, org domain.Organization, reason string) error {
	memberRole, err := s.memberRole(ctx, org, actor.UserID)
	if err != nil {
		return err
	}

	decision := policy.Evaluate(actor, policy.Resource{Kind: policy.KindOrgMember, OwnerID: org.OwnerID, MemberRole: memberRole}, policy.ActionCreate)
	if !decision.Allowed {
		return Forbidden(reason)
	}

	return nil
}

func (s *OrganizationService) memberRole(ctx context.Context, org domain.Organization, userID string) (domain.OrgRole, error) {
	return orgMemberRole(ctx, s.repo, org, userID)
}
