package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/repository/dao"
)

var (
	ErrOrganizationNotFound = dao.ErrOrganizationNotFound
	ErrMemberNotFound       = dao.ErrMemberNotFound
	ErrMemberExists         = dao.ErrMemberExists
	ErrInviteNotFound       = dao.ErrInviteNotFound
	ErrInvitePending        = dao.ErrInvitePending
	ErrRoleNotFound         = dao.ErrRoleNotFound
	ErrRoleExists           = dao.ErrRoleExists
)

type OrganizationDAO interface {
	Insert(ctx context.Context, org dao.Organization) (dao.Organization, error)
	FindByID(ctx context.Context, id string) (dao.Organization, error)
	FindAll(ctx context.Context, ownerID string) ([]dao.Organization, error)
	Update(ctx context.Context, org dao.Organization) (dao.Organization, error)
	Delete(ctx context.Context, id string) error

	FindMember(ctx context.Context, orgID, userID string) (dao.OrganizationMember, error)
	FindMembers(ctx context.Context, orgID string) ([]dao.OrganizationMember, error)
	InsertMember(ctx context.Context, member dao.OrganizationMember) (dao.OrganizationMember, error)
	DeleteMember(ctx context.Context, orgID, userID string) error
	UpdateMemberRole(ctx context.Context, orgID, userID, role string) (dao.OrganizationMember, error)

	InsertInvite(ctx context.Context, invite dao.OrganizationInvite) (dao.OrganizationInvite, error)
	FindPendingInvites(ctx context.Context, orgID string) ([]dao.OrganizationInvite, error)
	FindInviteByCode(ctx context.Context, code string) (dao.OrganizationInvite, error)
	CancelInvite(ctx context.Context, orgID, inviteID string) error
	AcceptInvite(ctx context.Context, inviteID, userID string, at time.Time) (dao.OrganizationMember, error)

	FindRoles(ctx context.Context, orgID string) ([]dao.CustomRole, error)
	FindRole(ctx context.Context, orgID, roleID string) (dao.CustomRole, error)
	InsertRole(ctx context.Context, role dao.CustomRole) (dao.CustomRole, error)
	UpdateRole(ctx context.Context, role dao.CustomRole) (dao.CustomRole, error)
	DeleteRole(ctx context.Context, orgID, roleID string) error
}

type OrganizationRepository struct {
	dao OrganizationDAO
}

func NewOrganizationRepository(dao OrganizationDAO) *OrganizationRepository {
	return &OrganizationRepository{
		dao: dao,
	}
}

func (r *OrganizationRepository) Create(ctx context.Context, org domain.Organization) (domain.Organization, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(org))
	if err != nil {
		return domain.Organization{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *OrganizationRepository) FindByID(ctx context.Context, id string) (domain.Organization, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Organization{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *OrganizationRepository) FindAll(ctx context.Context, ownerID string) ([]domain.Organization, error) {
	found, err := r.dao.FindAll(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	orgs := make([]domain.Organization, len(found))
	for i := range found {
		orgs[i] = r.daoToDomain(found[i])
	}

	return orgs, nil
}

func (r *OrganizationRepository) Update(ctx context.Context, org domain.Organization) (domain.Organization, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(org))
	if err != nil {
		return domain.Organization{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *OrganizationRepository) Delete(ctx context.Context, id string) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *OrganizationRepository) FindMember(ctx context.Context, orgID, userID string) (domain.OrganizationMember, error) {
	found, err := r.dao.FindMember(ctx, orgID, userID)
	if err != nil {
		return domain.OrganizationMember{}, fmt.Errorf("r.dao.FindMember -> %w", err)
	}

	return memberDaoToDomain(found), nil
}

func (r *OrganizationRepository) FindMembers(ctx context.Context, orgID string) ([]domain.OrganizationMember, error) {
	found, err := r.dao.FindMembers(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindMembers -> %w", err)
	}

	members := make([]domain.OrganizationMember, len(found))
	for i := range found {
		members[i] = memberDaoToDomain(found[i])
	}

	return members, nil
}

func (r *OrganizationRepository) AddMember(ctx context.Context, m domain.OrganizationMember) (domain.OrganizationMember, error) {
	created, err := r.dao.InsertMember(ctx, dao.OrganizationMember{
		OrganizationID: m.OrganizationID,
		UserID:         m.UserID,
		Role:           string(m.Role),
		AddedBy:        m.AddedBy,
		AddedAt:        m.AddedAt,
	})
	if err != nil {
		return domain.OrganizationMember{}, fmt.Errorf("r.dao.InsertMember -> %w", err)
	}

	return memberDaoToDomain(created), nil
}

func (r *OrganizationRepository) RemoveMember(ctx context.Context, orgID, userID string) error {
	if err := r.dao.DeleteMember(ctx, orgID, userID); err != nil {
		return fmt.Errorf("r.dao.DeleteMember -> %w", err)
	}

	return nil
}

func (r *OrganizationRepository) UpdateMemberRole(ctx context.Context, orgID, userID string, role domain.OrgRole) (domain.OrganizationMember, error) {
	updated, err := r.dao.UpdateMemberRole(ctx, orgID, userID, string(role))
	if err != nil {
		return domain.OrganizationMember{}, fmt.Errorf("r.dao.UpdateMemberRole -> %w", err)
	}

	return memberDaoToDomain(updated), nil
}

func (r *OrganizationRepository) CreateInvite(ctx context.Context, invite domain.OrganizationInvite) (domain.OrganizationInvite, error) {
	created, err := r.dao.InsertInvite(ctx, dao.OrganizationInvite{
		OrganizationID: invite.OrganizationID,
		Email:          invite.Email,
		Role:           string(invite.Role),
		InviteCode:     invite.InviteCode,
		Status:         string(invite.Status),
		InvitedBy:      invite.InvitedBy,
		InvitedAt:      invite.InvitedAt,
		ExpiresAt:      invite.ExpiresAt,
	})
	if err != nil {
		return domain.OrganizationInvite{}, fmt.Errorf("r.dao.InsertInvite -> %w", err)
	}

	return inviteDaoToDomain(created), nil
}

func (r *OrganizationRepository) FindPendingInvites(ctx context.Context, orgID string) ([]domain.OrganizationInvite, error) {
	found, err := r.dao.FindPendingInvites(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindPendingInvites -> %w", err)
	}

	invites := make([]domain.OrganizationInvite, len(found))
	for i := range found {
		invites[i] = inviteDaoToDomain(found[i])
	}

	return invites, nil
}

func (r *OrganizationRepository) FindInviteByCode(ctx context.Context, code string) (domain.OrganizationInvite, error) {
	found, err := r.dao.FindInviteByCode(ctx, code)
	if err != nil {
		return domain.OrganizationInvite{}, fmt.Errorf("r.dao.FindInviteByCode -> %w", err)
	}

	return inviteDaoToDomain(found), nil
}

func (r *OrganizationRepository) CancelInvite(ctx context.Context, orgID, inviteID string) error {
	if err := r.dao.CancelInvite(ctx, orgID, inviteID); err != nil {
		return fmt.Errorf("r.dao.CancelInvite -> %w", err)
	}

	return nil
}

func (r *OrganizationRepository) AcceptInvite(ctx context.Context, inviteID, userID string, at time.Time) (domain.OrganizationMember, error) {
	member, err := r.dao.AcceptInvite(ctx, inviteID, userID, at)
	if err != nil {
		return domain.OrganizationMember{}, fmt.Errorf("r.dao.AcceptInvite -> %w", err)
	}

	return memberDaoToDomain(member), nil
}

func (r *OrganizationRepository) FindRoles(ctx context.Context, orgID string) ([]domain.CustomRole, error) {
	found, err := r.dao.FindRoles(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindRoles -> %w", err)
	}

	roles := make([]domain.CustomRole, len(found))
	for i := range found {
		roles[i] = roleDaoToDomain(found[i])
	}

	return roles, nil
}

func (r *OrganizationRepository) FindRole(ctx context.Context, orgID, roleID string) (domain.CustomRole, error) {
	found, err := r.dao.FindRole(ctx, orgID, roleID)
	if err != nil {
		return domain.CustomRole{}, fmt.Errorf("r.dao.FindRole -> %w", err)
	}

	return roleDaoToDomain(found), nil
}

func (r *OrganizationRepository) CreateRole(ctx context.Context, role domain.CustomRole) (domain.CustomRole, error) {
	created, err := r.dao.InsertRole(ctx, roleDomainToDao(role))
	if err != nil {
		return domain.CustomRole{}, fmt.Errorf("r.dao.InsertRole -> %w", err)
	}

	return roleDaoToDomain(created), nil
}

func (r *OrganizationRepository) UpdateRole(ctx context.Context, role domain.CustomRole) (domain.CustomRole, error) {
	updated, err := r.dao.UpdateRole(ctx, roleDomainToDao(role))
	if err != nil {
		return domain.CustomRole{}, fmt.Errorf("r.dao.UpdateRole -> %w", err)
	}

	return roleDaoToDomain(updated), nil
}

func (r *OrganizationRepository) DeleteRole(ctx context.Context, orgID, roleID string) error {
	if err := r.dao.DeleteRole(ctx, orgID, roleID); err != nil {
		return fmt.Errorf("r.dao.DeleteRole -> %w", err)
	}

	return nil
}

func (r *OrganizationRepository) domainToDao(o domain.Organization) dao.Organization {
	return dao.Organization{
		Model:       dao.Model{ID: o.ID},
		OwnerID:     o.OwnerID,
		Name:        o.Name,
		Description: o.Description,
		Email:       o.Email,
		Phone:       o.Phone,
		Website:     o.Website,
		Address:     o.Address,
		LogoURL:     o.LogoURL,
		Settings:    datatypes.JSONMap(o.Settings),
	}
}

func (r *OrganizationRepository) daoToDomain(o dao.Organization) domain.Organization {
	return domain.Organization{
		ID:          o.ID,
		OwnerID:     o.OwnerID,
		Name:        o.Name,
		Description: o.Description,
		Email:       o.Email,
		Phone:       o.Phone,
		Website:     o.Website,
		Address:     o.Address,
		LogoURL:     o.LogoURL,
		Settings:    o.Settings,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func memberDaoToDomain(m dao.OrganizationMember) domain.OrganizationMember {
	return domain.OrganizationMember{
		OrganizationID: m.OrganizationID,
		UserID:         m.UserID,
		Role:           domain.OrgRole(m.Role),
		AddedBy:        m.AddedBy,
		AddedAt:        m.AddedAt,
	}
}

func inviteDaoToDomain(i dao.OrganizationInvite) domain.OrganizationInvite {
	return domain.OrganizationInvite{
		ID:             i.ID,
		OrganizationID: i.OrganizationID,
		Email:          i.Email,
		Role:           domain.OrgRole(i.Role),
		InviteCode:     i.InviteCode,
		Status:         domain.InviteStatus(i.Status),
		InvitedBy:      i.InvitedBy,
		InvitedAt:      i.InvitedAt,
		ExpiresAt:      i.ExpiresAt,
	}
}

func roleDomainToDao(r domain.CustomRole) dao.CustomRole {
	return dao.CustomRole{
		Model:          dao.Model{ID: r.ID},
		OrganizationID: r.OrganizationID,
		Name:           r.Name,
		NameKey:        strings.ToLower(strings.TrimSpace(r.Name)),
		Permissions:    datatypes.NewJSONType(map[string]map[string]bool(r.Permissions)),
	}
}

func roleDaoToDomain(r dao.CustomRole) domain.CustomRole {
	return domain.CustomRole{
		ID:             r.ID,
		OrganizationID: r.OrganizationID,
		Name:           r.Name,
		Permissions:    domain.Permissions(r.Permissions.Data()),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}
