package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/policy"
	"github.com/ormeet/ormeet-api/internal/repository"
)

// OrganizerDirectory resolves the organization behind an event organizer id.
type OrganizerDirectory interface {
	FindByID(ctx context.Context, id string) (domain.Organization, error)
	FindMember(ctx context.Context, orgID, userID string) (domain.OrganizationMember, error)
}

func organizationNotFound(id string) error {
	return notFoundf("Organization with ID %s not found", id)
}

// orgMemberRole is the role of userID inside org, empty if not a member.
func orgMemberRole(ctx context.Context, orgs OrganizerDirectory, org domain.Organization, userID string) (domain.OrgRole, error) {
	if org.OwnerID == userID {
		return domain.OrgRoleOwner, nil
	}

	member, err := orgs.FindMember(ctx, org.ID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrMemberNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("orgs.FindMember -> %w", err)
	}

	return member.Role, nil
}

// organizerResource describes a resource of kind organized by organizerID.
// An organization belongs to its owner and carries the actor's role in it.
// Any other organizer id is a user organizing in their own name.
func organizerResource(ctx context.Context, orgs OrganizerDirectory, actor domain.Actor, kind policy.Kind, organizerID string) (policy.Resource, error) {
	res := policy.Resource{Kind: kind, OwnerID: organizerID}
	if organizerID == "" || organizerID == actor.UserID {
		return res, nil
	}

	org, err := orgs.FindByID(ctx, organizerID)
	if errors.Is(err, repository.ErrOrganizationNotFound) {
		return res, nil
	}
	if err != nil {
		return policy.Resource{}, fmt.Errorf("orgs.FindByID -> %w", err)
	}

	role, err := orgMemberRole(ctx, orgs, org, actor.UserID)
	if err != nil {
		return policy.Resource{}, err
	}
	res.OwnerID, res.MemberRole = org.OwnerID, role

	return res, nil
}

// authorizeOrganizer checks action on a resource of kind organized by
// organizerID.
func authorizeOrganizer(ctx context.Context, orgs OrganizerDirectory, actor domain.Actor, kind policy.Kind, organizerID string, action policy.Action) error {
	res, err := organizerResource(ctx, orgs, actor, kind, organizerID)
	if err != nil {
		return err
	}

	return authorize(actor, res, action)
}
