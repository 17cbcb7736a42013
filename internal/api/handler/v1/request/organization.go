package request

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/ormeet/ormeet-api/internal/domain"
)

// Members can be made admins or plain members; ownership is not granted
// through these requests.
var assignableRoles = []interface{}{string(domain.OrgRoleAdmin), string(domain.OrgRoleMember)}

type OrganizationRequest struct {
	Name        *string        `json:"name"`
	Description *string        `json:"description"`
	Email       *string        `json:"email"`
	Phone       *string        `json:"phone"`
	Website     *string        `json:"website"`
	Address     *string        `json:"address"`
	LogoURL     *string        `json:"logoUrl"`
	OwnerID     *string        `json:"ownerId"`
	Settings    map[string]any `json:"settings"`
}

func (req *OrganizationRequest) rules() []*validation.FieldRules {
	return []*validation.FieldRules{
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.Email, is.Email),
		validation.Field(&req.Website, is.URL),
		validation.Field(&req.LogoURL, is.URL),
		validation.Field(&req.OwnerID, is.UUID),
	}
}

func (req *OrganizationRequest) ValidateCreate() error {
	rules := append(req.rules(), validation.Field(&req.Name, validation.Required, validation.Length(2, 200)))
	return validation.ValidateStruct(req, rules...)
}

func (req *OrganizationRequest) ValidateUpdate() error {
	rules := append(req.rules(), validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(2, 200)))
	return validation.ValidateStruct(req, rules...)
}

// Apply copies the present fields onto o. The owner only changes on create.
func (req *OrganizationRequest) Apply(o *domain.Organization) {
	setIf(&o.Name, req.Name)
	setIf(&o.Description, req.Description)
	setIf(&o.Email, req.Email)
	setIf(&o.Phone, req.Phone)
	setIf(&o.Website, req.Website)
	setIf(&o.Address, req.Address)
	setIf(&o.LogoURL, req.LogoURL)
	if req.Settings != nil {
		o.Settings = req.Settings
	}
}

type MemberRoleRequest struct {
	Role string `json:"role" enums:"admin,member"`
}

func (req *MemberRoleRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Role, validation.Required, validation.In(assignableRoles...)),
	)
}

type InviteMemberRequest struct {
	Email   string `json:"email"`
	Role    string `json:"role" enums:"admin,member"`
	Message string `json:"message"`
}

func (req *InviteMemberRequest) Validate() error {
	req.Role = strings.ToLower(req.Role)

	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Role, validation.Required, validation.In(assignableRoles...)),
		validation.Field(&req.Message, validation.Length(0, 1000)),
	)
}

type AcceptInviteRequest struct {
	InviteCode string `json:"inviteCode"`
}

func (req *AcceptInviteRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.InviteCode, validation.Required),
	)
}

type CustomRoleRequest struct {
	Name        *string            `json:"name"`
	Permissions domain.Permissions `json:"permissions"`
}

func (req *CustomRoleRequest) ValidateCreate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Permissions, validation.Required),
	)
}

func (req *CustomRoleRequest) ValidateUpdate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(1, 100)),
	)
}
