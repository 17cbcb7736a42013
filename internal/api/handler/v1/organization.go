package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ormeet/ormeet-api/internal/api/handler/v1/request"
	"github.com/ormeet/ormeet-api/internal/api/handler/v1/response"
	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/service"
)

type OrganizationService interface {
	Create(ctx context.Context, actor domain.Actor, org domain.Organization) (domain.Organization, error)
	Get(ctx context.Context, id string) (domain.Organization, error)
	List(ctx context.Context) ([]domain.Organization, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Organization, error)
	Update(ctx context.Context, actor domain.Actor, id string, apply func(*domain.Organization)) (domain.Organization, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error

	Members(ctx context.Context, orgID string) ([]domain.OrganizationMember, error)
	AddMember(ctx context.Context, actor domain.Actor, orgID, userID string, role domain.OrgRole) (domain.OrganizationMember, error)
	RemoveMember(ctx context.Context, actor domain.Actor, orgID, userID string) error
	UpdateMemberRole(ctx context.Context, actor domain.Actor, orgID, userID string, role domain.OrgRole) (domain.OrganizationMember, error)

	InviteByEmail(ctx context.Context, actor domain.Actor, orgID, email string, role domain.OrgRole) (service.InviteResult, error)
	PendingInvites(ctx context.Context, actor domain.Actor, orgID string) ([]domain.OrganizationInvite, error)
	CancelInvite(ctx context.Context, actor domain.Actor, orgID, inviteID string) error
	AcceptInvite(ctx context.Context, actor domain.Actor, code string) (domain.OrganizationMember, error)

	Roles(ctx context.Context, orgID string) ([]domain.CustomRole, error)
	CreateRole(ctx context.Context, actor domain.Actor, orgID, name string, perms domain.Permissions) (domain.CustomRole, error)
	UpdateRole(ctx context.Context, actor domain.Actor, orgID, roleID, name string, perms domain.Permissions) (domain.CustomRole, error)
	DeleteRole(ctx context.Context, actor domain.Actor, orgID, roleID string) error
}

type OrganizationHandler struct {
	svc OrganizationService
}

func NewOrganizationHandler(svc OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{
		svc: svc,
	}
}

// HandleCreateOrganization godoc
// @Summary      Create an organization
// @Description  The caller owns the organization unless ownerId is given.
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        request  body      request.OrganizationRequest  true  "request body"
// @Success      201  {object}  domain.Organization
// @Failure      400  {object}  response.Err
// @Router       /organizations [post]
// @Security BearerAuth
func (h *OrganizationHandler) HandleCreateOrganization(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req request.OrganizationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.ValidateCreate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var org domain.Organization
	req.Apply(&org)
	if req.OwnerID != nil {
		org.OwnerID = *req.OwnerID
	}

	created, err := h.svc.Create(ctx.Request.Context(), actor, org)
	if err != nil {
		renderErr(ctx, "v1.HandleCreateOrganization -> h.svc.Create", err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleListOrganizations godoc
// @Summary      List organizations
// @Tags         organizations
// @Produce      json
// @Success      200  {array}  domain.Organization
// @Router       /organizations [get]
// @Security BearerAuth
func (h *OrganizationHandler) HandleListOrganizations(ctx *gin.Context) {
	orgs, err := h.svc.List(ctx.Request.Context())
	if err != nil {
		renderErr(ctx, "v1.HandleListOrganizations -> h.svc.List", err)
		return
	}

	ctx.JSON(http.StatusOK, orgs)
}

// HandleListOwnerOrganizations godoc
// @Summary      List the organizations of an owner
// @Tags         organizations
// @Produce      json
// @Param        ownerId  path  string  true  "owner ID"
// @Success      200  {array}  domain.Organization
// @Router       /organizations/owner/{ownerId} [get]
// @Security BearerAuth
func (h *OrganizationHandler) HandleListOwnerOrganizations(ctx *gin.Context) {
	orgs, err := h.svc.ListByOwner(ctx.Request.Context(), ctx.Param("ownerId"))
	if err != nil {
		renderErr(ctx, "v1.HandleListOwnerOrganizations -> h.svc.ListByOwner", err)
		return
	}

	ctx.JSON(http.StatusOK, orgs)
}

// HandleGetOrganization godoc
// @Summary      Get an organization
// @Tags         organizations
// @Produce      json
// @Param        id   path      string  true  "organization ID"
// @Success      200  {object}  domain.Organization
// @Failure      404  {object}  response.Err
// @Router       /organizations/{id} [get]
// @Security BearerAuth
func (h *OrganizationHandler) HandleGetOrganization(ctx *gin.Context) {
	org, err := h.svc.Get(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		renderErr(ctx, "v1.HandleGetOrganization -> h.svc.Get", err)
		return
	}

	ctx.JSON(http.StatusOK, org)
}

// HandleUpdateOrganization godoc
// @Summary      Update an organization
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "organization ID"
// @Param        request  body      request.OrganizationRequest  true  "fields to change"
// @Success      200  {object}  domain.Organization
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /organizations/{id} [patch]
// @Security BearerAuth
func (h *OrganizationHandler) HandleUpdateOrganization(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req request.OrganizationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.ValidateUpdate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	org, err := h.svc.Update(ctx.Request.Context(), actor, ctx.Param("id"), req.Apply)
	if err != nil {
		renderErr(ctx, "v1.HandleUpdateOrganization -> h.svc.Update", err)
		return
	}

	ctx.JSON(http.StatusOK, org)
}

// HandleDeleteOrganization godoc
// @Summary      Delete an organization
// @Tags         organizations
// @Param        id   path  string  true  "organization ID"
// @Success      204
// @Failure      403  {object}  response.Err
// @Router       /organizations/{id} [delete]
// @Security BearerAuth
func (h *OrganizationHandler) HandleDeleteOrganization(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), actor, ctx.Param("id")); err != nil {
		renderErr(ctx, "v1.HandleDeleteOrganization -> h.svc.Delete", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleListMembers godoc
// @Summary      List the members of an organization
// @Tags         organizations
// @Produce      json
// @Param        id   path  string  true  "organization ID"
// @Success      200  {array}   domain.OrganizationMember
// @Failure      404  {object}  response.Err
// @Router       /organizations/{id}/members [get]
// @Security BearerAuth
func (h *OrganizationHandler) HandleListMembers(ctx *gin.Context) {
	members, err := h.svc.Members(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		renderErr(ctx, "v1.HandleListMembers -> h.svc.Members", err)
		return
	}

	ctx.JSON(http.StatusOK, members)
}

// HandleAddMember godoc
// @Summary      Add a member
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "organization ID"
// @Param        userId   path      string                     true  "user ID"
// @Param        request  body      request.MemberRoleRequest  true  "role"
// @Success      201  {object}  domain.OrganizationMember
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /organizations/{id}/members/{userId} [post]
// @Security BearerAuth
func (h *OrganizationHandler) HandleAddMember(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req request.MemberRoleRequest
	if !bindJSON(ctx, &req) {
		return
	}

	member, err := h.svc.AddMember(ctx.Request.Context(), actor, ctx.Param("id"), ctx.Param("userId"), domain.OrgRole(req.Role))
	if err != nil {
		renderErr(ctx, "v1.HandleAddMember -> h.svc.AddMember", err)
		return
	}

	ctx.JSON(http.StatusCreated, member)
}

// HandleRemoveMember godoc
// @Summary      Remove a member
// @Tags         organizations
// @Param        id      path  string  true  "organization ID"
// @Param        userId  path  string  true  "user ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /organizations/{id}/members/{userId} [delete]
// @Security BearerAuth
func (h *OrganizationHandler) HandleRemoveMember(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	if err := h.svc.RemoveMember(ctx.Request.Context(), actor, ctx.Param("id"), ctx.Param("userId")); err != nil {
		renderErr(ctx, "v1.HandleRemoveMember -> h.svc.RemoveMember", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleUpdateMemberRole godoc
// @Summary      Change the role of a member
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "organization ID"
// @Param        userId   path      string                     true  "user ID"
// @Param        request  body      request.MemberRoleRequest  true  "role"
// @Success      200  {object}  domain.OrganizationMember
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /organizations/{id}/members/{userId}/role [patch]
// @Security BearerAuth
func (h *OrganizationHandler) HandleUpdateMemberRole(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req request.MemberRoleRequest
	if !bindJSON(ctx, &req) {
		return
	}

	member, err := h.svc.UpdateMemberRole(ctx.Request.Context(), actor, ctx.Param("id"), ctx.Param("userId"), domain.OrgRole(req.Role))
	if err != nil {
		renderErr(ctx, "v1.HandleUpdateMemberRole -> h.svc.UpdateMemberRole", err)
		return
	}

	ctx.JSON(http.StatusOK, member)
}

// HandleInviteMember godoc
// @Summary      Invite someone by email
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        id       path      string                       true  "organization ID"
// @Param        request  body      request.InviteMemberRequest  true  "invitation"
// @Success      201  {object}  service.InviteResult
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /organizations/{id}/invite [post]
// @Security BearerAuth
func (h *OrganizationHandler) HandleInviteMember(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req request.InviteMemberRequest
	if !bindJSON(ctx, &req) {
		return
	}

	res, err := h.svc.InviteByEmail(ctx.Request.Context(), actor, ctx.Param("id"), req.Email, domain.OrgRole(req.Role))
	if err != nil {
		renderErr(ctx, "v1.HandleInviteMember -> h.svc.InviteByEmail", err)
		return
	}

	ctx.JSON(http.StatusCreated, res)
}

// HandleListInvites godoc
// @Summary      List pending invitations
// @Tags         organizations
// @Produce      json
// @Param        id   path  string  true  "organization ID"
// @Success      200  {array}   domain.OrganizationInvite
// @Failure      403  {object}  response.Err
// @Router       /organizations/{id}/invites [get]
// @Security BearerAuth
func (h *OrganizationHandler) HandleListInvites(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	invites, err := h.svc.PendingInvites(ctx.Request.Context(), actor, ctx.Param("id"))
	if err != nil {
		renderErr(ctx, "v1.HandleListInvites -> h.svc.PendingInvites", err)
		return
	}

	ctx.JSON(http.StatusOK, invites)
}

// HandleCancelInvite godoc
// @Summary      Cancel a pending invitation
// @Tags         organizations
// @Param        id        path  string  true  "organization ID"
// @Param        inviteId  path  string  true  "invitation ID"
// @Success      204
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /organizations/{id}/invites/{inviteId} [delete]
// @Security BearerAuth
func (h *OrganizationHandler) HandleCancelInvite(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	if err := h.svc.CancelInvite(ctx.Request.Context(), actor, ctx.Param("id"), ctx.Param("inviteId")); err != nil {
		renderErr(ctx, "v1.HandleCancelInvite -> h.svc.CancelInvite", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleAcceptInvite godoc
// @Summary      Accept an invitation
// @Description  The invitation must have been sent to the caller's email.
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        request  body      request.AcceptInviteRequest  true  "invite code"
// @Success      200  {object}  domain.OrganizationMember
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /organizations/invites/accept [post]
// @Security BearerAuth
func (h *OrganizationHandler) HandleAcceptInvite(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req request.AcceptInviteRequest
	if !bindJSON(ctx, &req) {
		return
	}

	member, err := h.svc.AcceptInvite(ctx.Request.Context(), actor, req.InviteCode)
	if err != nil {
		renderErr(ctx, "v1.HandleAcceptInvite -> h.svc.AcceptInvite", err)
		return
	}

	ctx.JSON(http.StatusOK, member)
}

// HandleListRoles godoc
// @Summary      List custom roles
// @Tags         organizations
// @Produce      json
// @Param        id   path  string  true  "organization ID"
// @Success      200  {array}   domain.CustomRole
// @Failure      404  {object}  response.Err
// @Router       /organizations/{id}/roles [get]
// @Security BearerAuth
func (h *OrganizationHandler) HandleListRoles(ctx *gin.Context) {
	roles, err := h.svc.Roles(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		renderErr(ctx, "v1.HandleListRoles -> h.svc.Roles", err)
		return
	}

	ctx.JSON(http.StatusOK, roles)
}

// HandleCreateRole godoc
// @Summary      Create a custom role
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "organization ID"
// @Param        request  body      request.CustomRoleRequest  true  "role"
// @Success      201  {object}  domain.CustomRole
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /organizations/{id}/roles [post]
// @Security BearerAuth
func (h *OrganizationHandler) HandleCreateRole(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req request.CustomRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.ValidateCreate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	role, err := h.svc.CreateRole(ctx.Request.Context(), actor, ctx.Param("id"), *req.Name, req.Permissions)
	if err != nil {
		renderErr(ctx, "v1.HandleCreateRole -> h.svc.CreateRole", err)
		return
	}

	ctx.JSON(http.StatusCreated, role)
}

// HandleUpdateRole godoc
// @Summary      Update a custom role
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "organization ID"
// @Param        roleId   path      string                     true  "role ID"
// @Param        request  body      request.CustomRoleRequest  true  "fields to change"
// @Success      200  {object}  domain.CustomRole
// @Failure      400  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Router       /organizations/{id}/roles/{roleId} [patch]
// @Security BearerAuth
func (h *OrganizationHandler) HandleUpdateRole(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	var req request.CustomRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}
	if err := req.ValidateUpdate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var name string
	if req.Name != nil {
		name = *req.Name
	}

	role, err := h.svc.UpdateRole(ctx.Request.Context(), actor, ctx.Param("id"), ctx.Param("roleId"), name, req.Permissions)
	if err != nil {
		renderErr(ctx, "v1.HandleUpdateRole -> h.svc.UpdateRole", err)
		return
	}

	ctx.JSON(http.StatusOK, role)
}

// HandleDeleteRole godoc
// @Summary      Delete a custom role
// @Tags         organizations
// @Param        id      path  string  true  "organization ID"
// @Param        roleId  path  string  true  "role ID"
// @Success      204
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Router       /organizations/{id}/roles/{roleId} [delete]
// @Security BearerAuth
func (h *OrganizationHandler) HandleDeleteRole(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	if err := h.svc.DeleteRole(ctx.Request.Context(), actor, ctx.Param("id"), ctx.Param("roleId")); err != nil {
		renderErr(ctx, "v1.HandleDeleteRole -> h.svc.DeleteRole", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
