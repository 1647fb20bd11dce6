package auth

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/najma-se/Hospital-Appointment-sys/internal/model"
	"github.com/najma-se/Hospital-Appointment-sys/pkg/auth"
	apperrors "github.com/najma-se/Hospital-Appointment-sys/pkg/errors"
	"github.com/najma-se/Hospital-Appointment-sys/pkg/security"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return apperrors.Conflict("email already registered", nil)
		}
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.NotFound("user", nil)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("user", nil)
}

func newTestService() (*Service, *fakeUserRepo) {
	repo := newFakeUserRepo()
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	hasher := security.NewBcryptHasher(4)
	return NewService(repo, jwtSvc, hasher), repo
}

func TestSignupForcesPatientRole(t *testing.T) {
	svc, _ := newTestService()

	user, err := svc.Signup(context.Background(), &model.SignupRequest{
		FullName: "Amina Yusuf",
		Email:    "amina@example.com",
		Password: "s3cretpass",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RolePatient, user.Role)
	assert.NotEqual(t, "s3cretpass", user.PasswordHash)
	assert.True(t, strings.HasPrefix(user.PasswordHash, "$2"), "hash should be bcrypt")
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	req := &model.SignupRequest{FullName: "Amina Yusuf", Email: "amina@example.com", Password: "s3cretpass"}
	_, err := svc.Signup(ctx, req)
	require.NoError(t, err)

	_, err = svc.Signup(ctx, req)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestRegisterAdmin(t *testing.T) {
	svc, _ := newTestService()

	user, err := svc.RegisterAdmin(context.Background(), &model.RegisterAdminRequest{
		FullName: "Clinic Admin",
		Email:    "admin@example.com",
		Password: "s3cretpass",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, user.Role)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, &model.SignupRequest{
		FullName: "Amina Yusuf",
		Email:    "amina@example.com",
		Password: "s3cretpass",
	})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, "amina@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.True(t, resp.ExpiresAt.After(time.Now()))
	require.NotNil(t, resp.User)
	assert.Equal(t, model.RolePatient, resp.User.Role)
}

func TestLoginBadCredentials(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, &model.SignupRequest{
		FullName: "Amina Yusuf",
		Email:    "amina@example.com",
		Password: "s3cretpass",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "amina@example.com", "wrongpass")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))

	_, err = svc.Login(ctx, "nobody@example.com", "s3cretpass")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}
