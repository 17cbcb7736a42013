package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ormeet/ormeet-api/internal/domain"
)

func TestUserService_GetUser(t *testing.T) {
	svc := NewUserService(userTable{
		"alice": {ID: "alice", Name: "Alice"},
		"bob":   {ID: "bob", Name: "Bob"},
	})

	me, err := svc.GetUser(context.Background(), alice, MeAlias)
	require.NoError(t, err)
	assert.Equal(t, "Alice", me.Name)

	other, err := svc.GetUser(context.Background(), alice, "bob")
	require.NoError(t, err)
	assert.Equal(t, "Bob", other.Name)

	_, err = svc.GetUser(context.Background(), domain.Actor{UserID: "ghost", Role: domain.RoleUser}, MeAlias)
	assert.ErrorIs(t, err, NotFound("User with ID ghost not found"))
}
