package user

import (
	"context"
	"testing"

	"github.com/expensio/expense-backend-go/internal/domain/role"
	"github.com/expensio/expense-backend-go/internal/domain/user"
	"github.com/expensio/expense-backend-go/internal/repository/memory"
	rolesvc "github.com/expensio/expense-backend-go/internal/service/role"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newService() (*Service, *memory.UserRepository) {
	users := memory.NewUserRepository()
	registry := rolesvc.NewRegistryService(
		memory.NewRoleRepository(),
		users,
		memory.NewRuleSetRepository(),
	)
	return NewService(users, registry), users
}

func createUser(t *testing.T, svc *Service, name, email string, roles []string, managerID *string) user.User {
	t.Helper()
	u, err := svc.Create(context.Background(), user.CreateUserRequest{
		Name:      name,
		Email:     email,
		Password:  "s3cret-pass",
		Roles:     roles,
		ManagerID: managerID,
	})
	require.NoError(t, err)
	return u
}

func TestUser_CreateHashesPasswordAndNormalizesRoles(t *testing.T) {
	t.Parallel()
	svc, _ := newService()

	u := createUser(t, svc, "Alice", "Alice@Example.com", []string{"employee", "manager", "EMPLOYEE"}, nil)

	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, []string{role.Employee, role.Manager}, u.Roles)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")))
}

func TestUser_CreateRejectsUnknownRole(t *testing.T) {
	t.Parallel()
	svc, _ := newService()

	_, err := svc.Create(context.Background(), user.CreateUserRequest{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "s3cret-pass",
		Roles:    []string{"WIZARD"},
	})
	assert.ErrorIs(t, err, user.ErrInvalidRole)
}

func TestUser_CreateRejectsDuplicateEmail(t *testing.T) {
	t.Parallel()
	svc, _ := newService()

	createUser(t, svc, "Alice", "alice@example.com", []string{role.Employee}, nil)

	_, err := svc.Create(context.Background(), user.CreateUserRequest{
		Name:     "Other Alice",
		Email:    "ALICE@example.com",
		Password: "s3cret-pass",
		Roles:    []string{role.Employee},
	})
	assert.ErrorIs(t, err, user.ErrEmailExists)
}

func TestUser_CreateRejectsMissingManager(t *testing.T) {
	t.Parallel()
	svc, _ := newService()

	ghost := "nobody"
	_, err := svc.Create(context.Background(), user.CreateUserRequest{
		Name:      "Bob",
		Email:     "bob@example.com",
		Password:  "s3cret-pass",
		Roles:     []string{role.Employee},
		ManagerID: &ghost,
	})
	assert.ErrorIs(t, err, user.ErrManagerNotFound)
}

func TestUser_UpdateManagerAssignment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _ := newService()

	mgr := createUser(t, svc, "Mia", "mia@example.com", []string{role.Manager}, nil)
	emp := createUser(t, svc, "Bob", "bob@example.com", []string{role.Employee}, nil)

	updated, err := svc.Update(ctx, user.UpdateUserRequest{ID: emp.ID, ManagerID: &mgr.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.ManagerID)
	assert.Equal(t, mgr.ID, *updated.ManagerID)

	_, err = svc.Update(ctx, user.UpdateUserRequest{ID: emp.ID, ManagerID: &emp.ID})
	assert.ErrorIs(t, err, user.ErrSelfManagerAssignment)

	updated, err = svc.Update(ctx, user.UpdateUserRequest{ID: emp.ID, ClearManager: true})
	require.NoError(t, err)
	assert.Nil(t, updated.ManagerID)
}

func TestUser_UpdateUnknownUser(t *testing.T) {
	t.Parallel()
	svc, _ := newService()

	_, err := svc.Update(context.Background(), user.UpdateUserRequest{ID: "missing"})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUser_DeleteClearsManagerReferences(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, repo := newService()

	mgr := createUser(t, svc, "Mia", "mia@example.com", []string{role.Manager}, nil)
	emp := createUser(t, svc, "Bob", "bob@example.com", []string{role.Employee}, &mgr.ID)

	require.NoError(t, svc.Delete(ctx, mgr.ID))

	_, err := repo.GetByID(ctx, mgr.ID)
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	got, err := repo.GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ManagerID)
}

func TestUser_DeleteUnknownUser(t *testing.T) {
	t.Parallel()
	svc, _ := newService()

	err := svc.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
