package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrMemberNotFound       = errors.New("member not found")
	ErrMemberExists         = errors.New("member already exists")
	ErrInviteNotFound       = errors.New("invite not found")
	ErrInvitePending        = errors.New("invite already pending")
	ErrRoleNotFound         = errors.New("role not found")
	ErrRoleExists           = errors.New("role already exists")
)

type Organization struct {
	Model

	OwnerID     string `gorm:"type:uuid;not null;index"`
	Name        string `gorm:"not null"`
	Description string
	Email       string
	Phone       string
	Website     string
	Address     string
	LogoURL     string
	Settings    datatypes.JSONMap
}

type OrganizationMember struct {
	OrganizationID string    `gorm:"type:uuid;primaryKey"`
	UserID         string    `gorm:"type:uuid;primaryKey;index"`
	Role           string    `gorm:"not null"`
	AddedBy        string    `gorm:"type:uuid"`
	AddedAt        time.Time `gorm:"not null"`
}

type OrganizationInvite struct {
	Model

	OrganizationID string    `gorm:"type:uuid;not null;index:idx_org_invites_pending,unique,where:status = 'pending'"`
	Email          string    `gorm:"not null;index:idx_org_invites_pending,unique,where:status = 'pending'"`
	Role           string    `gorm:"not null"`
	InviteCode     string    `gorm:"not null;index"`
	Status         string    `gorm:"type:varchar(16);not null;default:pending"`
	InvitedBy      string    `gorm:"type:uuid"`
	InvitedAt      time.Time `gorm:"not null"`
	ExpiresAt      time.Time `gorm:"not null"`
}

type CustomRole struct {
	Model

	OrganizationID string `gorm:"type:uuid;not null;uniqueIndex:idx_org_roles_name"`
	Name           string `gorm:"not null"`
	NameKey        string `gorm:"not null;uniqueIndex:idx_org_roles_name"`
	Permissions    datatypes.JSONType[map[string]map[string]bool]
}

func (OrganizationMember) TableName() string {
	return "organization_members"
}

func (OrganizationInvite) TableName() string {
	return "organization_invites"
}

func (CustomRole) TableName() string {
	return "organization_roles"
}

type OrganizationDAO struct {
	db *gorm.DB
}

func NewOrganizationDAO(db *gorm.DB) *OrganizationDAO {
	return &OrganizationDAO{
		db: db,
	}
}

// Insert creates org and registers its owner as a member.
func (d *OrganizationDAO) Insert(ctx context.Context, org Organization) (Organization, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&org).Error; err != nil {
			return err
		}

		return tx.Create(&OrganizationMember{
			OrganizationID: org.ID,
			UserID:         org.OwnerID,
			Role:           "owner",
			AddedBy:        org.OwnerID,
			AddedAt:        org.CreatedAt,
		}).Error
	})
	if err != nil {
		return Organization{}, err
	}

	return org, nil
}

func (d *OrganizationDAO) FindByID(ctx context.Context, id string) (Organization, error) {
	var org Organization

	result := d.db.WithContext(ctx).First(&org, "id = ?", id)
	if result.Error != nil {
		return Organization{}, notFound(result.Error, ErrOrganizationNotFound)
	}

	return org, nil
}

func (d *OrganizationDAO) FindAll(ctx context.Context, ownerID string) ([]Organization, error) {
	var orgs []Organization

	query := d.db.WithContext(ctx).Order("created_at DESC")
	if ownerID != "" {
		query = query.Where("owner_id = ?", ownerID)
	}
	if err := query.Find(&orgs).Error; err != nil {
		if invalidUUID(err) {
			return nil, nil
		}
		return nil, err
	}

	return orgs, nil
}

func (d *OrganizationDAO) Update(ctx context.Context, org Organization) (Organization, error) {
	result := d.db.WithContext(ctx).Model(&org).
		Select("Name", "Description", "Email", "Phone", "Website", "Address", "LogoURL", "Settings").
		Updates(&org)
	if result.Error != nil {
		return Organization{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Organization{}, ErrOrganizationNotFound
	}

	return d.FindByID(ctx, org.ID)
}

func (d *OrganizationDAO) Delete(ctx context.Context, id string) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&OrganizationMember{}, &OrganizationInvite{}, &CustomRole{}} {
			if err := tx.Where("organization_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&Organization{}, "id = ?", id)
		if result.Error != nil {
			return notFound(result.Error, ErrOrganizationNotFound)
		}
		if result.RowsAffected == 0 {
			return ErrOrganizationNotFound
		}

		return nil
	})
}

func (d *OrganizationDAO) FindMember(ctx context.Context, orgID, userID string) (OrganizationMember, error) {
	var member OrganizationMember

	result := d.db.WithContext(ctx).First(&member, "organization_id = ? AND user_id = ?", orgID, userID)
	if result.Error != nil {
		return OrganizationMember{}, notFound(result.Error, ErrMemberNotFound)
	}

	return member, nil
}

func (d *OrganizationDAO) FindMembers(ctx context.Context, orgID string) ([]OrganizationMember, error) {
	var members []OrganizationMember

	if err := d.db.WithContext(ctx).Where("organization_id = ?", orgID).Order("added_at").Find(&members).Error; err != nil {
		return nil, err
	}

	return members, nil
}

func (d *OrganizationDAO) InsertMember(ctx context.Context, member OrganizationMember) (OrganizationMember, error) {
	if err := d.db.WithContext(ctx).Create(&member).Error; err != nil {
		if _, ok := uniqueViolation(err); ok {
			return OrganizationMember{}, ErrMemberExists
		}
		return OrganizationMember{}, err
	}

	return member, nil
}

func (d *OrganizationDAO) DeleteMember(ctx context.Context, orgID, userID string) error {
	result := d.db.WithContext(ctx).Delete(&OrganizationMember{}, "organization_id = ? AND user_id = ?", orgID, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}

	return nil
}

func (d *OrganizationDAO) UpdateMemberRole(ctx context.Context, orgID, userID, role string) (OrganizationMember, error) {
	result := d.db.WithContext(ctx).Model(&OrganizationMember{}).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		Update("role", role)
	if result.Error != nil {
		return OrganizationMember{}, result.Error
	}
	if result.RowsAffected == 0 {
		return OrganizationMember{}, ErrMemberNotFound
	}

	return d.FindMember(ctx, orgID, userID)
}

func (d *OrganizationDAO) InsertInvite(ctx context.Context, invite OrganizationInvite) (OrganizationInvite, error) {
	if err := d.db.WithContext(ctx).Create(&invite).Error; err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == "idx_org_invites_pending" {
			return OrganizationInvite{}, ErrInvitePending
		}
		return OrganizationInvite{}, err
	}

	return invite, nil
}

func (d *OrganizationDAO) FindPendingInvites(ctx context.Context, orgID string) ([]OrganizationInvite, error) {
	var invites []OrganizationInvite

	err := d.db.WithContext(ctx).
		Where("organization_id = ? AND status = ?", orgID, "pending").
		Order("invited_at DESC").
		Find(&invites).Error
	if err != nil {
		return nil, err
	}

	return invites, nil
}

func (d *OrganizationDAO) FindInviteByCode(ctx context.Context, code string) (OrganizationInvite, error) {
	var invite OrganizationInvite

	result := d.db.WithContext(ctx).First(&invite, "invite_code = ? AND status = ?", code, "pending")
	if result.Error != nil {
		return OrganizationInvite{}, notFound(result.Error, ErrInviteNotFound)
	}

	return invite, nil
}

func (d *OrganizationDAO) CancelInvite(ctx context.Context, orgID, inviteID string) error {
	result := d.db.WithContext(ctx).Model(&OrganizationInvite{}).
		Where("id = ? AND organization_id = ? AND status = ?", inviteID, orgID, "pending").
		Update("status", "cancelled")
	if result.Error != nil {
		return notFound(result.Error, ErrInviteNotFound)
	}
	if result.RowsAffected == 0 {
		return ErrInviteNotFound
	}

	return nil
}

// AcceptInvite marks the invite accepted and adds userID with the invited role.
func (d *OrganizationDAO) AcceptInvite(ctx context.Context, inviteID, userID string, at time.Time) (OrganizationMember, error) {
	var member OrganizationMember

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var invite OrganizationInvite
		if err := tx.First(&invite, "id = ?", inviteID).Error; err != nil {
			return notFound(err, ErrInviteNotFound)
		}

		result := tx.Model(&OrganizationInvite{}).
			Where("id = ? AND status = ?", inviteID, "pending").
			Update("status", "accepted")
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrInviteNotFound
		}

		member = OrganizationMember{
			OrganizationID: invite.OrganizationID,
			UserID:         userID,
			Role:           invite.Role,
			AddedBy:        invite.InvitedBy,
			AddedAt:        at,
		}
		if err := tx.Create(&member).Error; err != nil {
			if _, ok := uniqueViolation(err); ok {
				return ErrMemberExists
			}
			return err
		}

		return nil
	})
	if err != nil {
		return OrganizationMember{}, err
	}

	return member, nil
}

func (d *OrganizationDAO) FindRoles(ctx context.Context, orgID string) ([]CustomRole, error) {
	var roles []CustomRole

	if err := d.db.WithContext(ctx).Where("organization_id = ?", orgID).Order("name").Find(&roles).Error; err != nil {
		return nil, err
	}

	return roles, nil
}

func (d *OrganizationDAO) FindRole(ctx context.Context, orgID, roleID string) (CustomRole, error) {
	var role CustomRole

	result := d.db.WithContext(ctx).First(&role, "id = ? AND organization_id = ?", roleID, orgID)
	if result.Error != nil {
		return CustomRole{}, notFound(result.Error, ErrRoleNotFound)
	}

	return role, nil
}

func (d *OrganizationDAO) InsertRole(ctx context.Context, role CustomRole) (CustomRole, error) {
	if err := d.db.WithContext(ctx).Create(&role).Error; err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == "idx_org_roles_name" {
			return CustomRole{}, ErrRoleExists
		}
		return CustomRole{}, err
	}

	return role, nil
}

func (d *OrganizationDAO) UpdateRole(ctx context.Context, role CustomRole) (CustomRole, error) {
	result := d.db.WithContext(ctx).Model(&role).
		Where("organization_id = ?", role.OrganizationID).
		Select("Name", "NameKey", "Permissions").
		Updates(&role)
	if result.Error != nil {
		if constraint, ok := uniqueViolation(result.Error); ok && constraint == "idx_org_roles_name" {
			return CustomRole{}, ErrRoleExists
		}
		return CustomRole{}, result.Error
	}
	if result.RowsAffected == 0 {
		return CustomRole{}, ErrRoleNotFound
	}

	return d.FindRole(ctx, role.OrganizationID, role.ID)
}

func (d *OrganizationDAO) DeleteRole(ctx context.Context, orgID, roleID string) error {
	result := d.db.WithContext(ctx).Delete(&CustomRole{}, "id = ? AND organization_id = ?", roleID, orgID)
	if result.Error != nil {
		return notFound(result.Error, ErrRoleNotFound)
	}
	if result.RowsAffected == 0 {
		return ErrRoleNotFound
	}

	return nil
}
