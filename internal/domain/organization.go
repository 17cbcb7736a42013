package domain

import "time"

type OrgRole string

const (
	OrgRoleOwner  OrgRole = "owner"
	OrgRoleAdmin  OrgRole = "admin"
	OrgRoleMember OrgRole = "member"
)

type Organization struct {
	ID          string         `json:"id"`
	OwnerID     string         `json:"ownerId"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	Website     string         `json:"website"`
	Address     string         `json:"address"`
	LogoURL     string         `json:"logoUrl"`
	Settings    map[string]any `json:"settings"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type OrganizationMember struct {
	OrganizationID string    `json:"organizationId"`
	UserID         string    `json:"userId"`
	Role           OrgRole   `json:"role"`
	AddedBy        string    `json:"addedBy"`
	AddedAt        time.Time `json:"addedAt"`
}

type InviteStatus string

const (
	InvitePending   InviteStatus = "pending"
	InviteAccepted  InviteStatus = "accepted"
	InviteCancelled InviteStatus = "cancelled"
)

// InviteTTL is how long an invitation can be accepted.
const InviteTTL = 7 * 24 * time.Hour

type OrganizationInvite struct {
	ID             string       `json:"id"`
	OrganizationID string       `json:"organizationId"`
	Email          string       `json:"email"`
	Role           OrgRole      `json:"role"`
	InviteCode     string       `json:"inviteCode"`
	Status         InviteStatus `json:"status"`
	InvitedBy      string       `json:"invitedBy"`
	InvitedAt      time.Time    `json:"invitedAt"`
	ExpiresAt      time.Time    `json:"expiresAt"`
}

func (i OrganizationInvite) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// Permissions maps resource -> action -> granted.
type Permissions map[string]map[string]bool

type CustomRole struct {
	ID             string      `json:"id"`
	OrganizationID string      `json:"organizationId"`
	Name           string      `json:"name"`
	Permissions    Permissions `json:"permissions"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}
