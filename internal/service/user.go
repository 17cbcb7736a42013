package service

import (
	"context"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/policy"
	"github.com/ormeet/ormeet-api/internal/repository"
)

// MeAlias resolves to the caller's own ID.
const MeAlias = "me"

var ErrUserNotFound = repository.ErrUserNotFound

type UserRepository interface {
	FindByID(ctx context.Context, id string) (domain.User, error)
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetUser(ctx context.Context, actor domain.Actor, id string) (domain.User, error) {
	if id == MeAlias {
		id = actor.UserID
	}
	if err := authorize(actor, policy.Resource{Kind: policy.KindUser, OwnerID: id}, policy.ActionRead); err != nil {
		return domain.User{}, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, translate("s.repo.FindByID", err, on(repository.ErrUserNotFound, notFoundf("User with ID %s not found", id)))
	}

	return user, nil
}
