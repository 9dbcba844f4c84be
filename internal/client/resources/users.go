package resources

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/postdesk/internal/client/models"
	"github.com/dmitrijs2005/postdesk/internal/logging"
)

var ErrSelfDelete = errors.New("Cannot delete yourself")

const (
	usersFallback      = "Failed to load users"
	deleteUserFallback = "Failed to delete user"
)

type UserAPI interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteUser(ctx context.Context, id models.ID) error
}

type UserManager struct {
	*Manager[models.User]
	api  UserAPI
	self func() *models.User
}

// NewUserManager builds the admin user list. self reports the signed-in
// user so it can be protected from deletion.
func NewUserManager(api UserAPI, self func() *models.User, logger logging.Logger) *UserManager {
	return &UserManager{
		Manager: NewManager(Fetcher[models.User](api.ListUsers), usersFallback, logger),
		api:     api,
		self:    self,
	}
}

// Delete removes a user. The caller's own account is refused without
// contacting the server.
func (m *UserManager) Delete(ctx context.Context, id models.ID) error {
	if me := m.self(); me != nil && me.ID != "" && me.ID == id {
		m.fail(ErrSelfDelete, deleteUserFallback)
		return ErrSelfDelete
	}
	return m.Mutate(ctx, deleteUserFallback, func(ctx context.Context) error {
		return m.api.DeleteUser(ctx, id)
	})
}
