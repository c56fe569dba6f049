package auth

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/devconnect-go/apperror"
)

type mockUserStore struct {
	mock.Mock
}

func (m *mockUserStore) CreateUser(ctx context.Context, user *User) (*User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockUserStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *mockUserStore) GetUserByID(ctx context.Context, id int) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func newTestService(store UserStore) (*AuthService, *TokenIssuer) {
	issuer := newTestIssuer(time.Hour)
	return NewAuthService(store, issuer), issuer
}

func TestRegisterHashesPasswordAndDerivesAvatar(t *testing.T) {
	store := new(mockUserStore)
	service, issuer := newTestService(store)

	store.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *User) bool {
		// The plaintext never reaches the store and the email is normalized.
		if u.HashedPassword == "secret123" || u.Email != "jane@example.com" {
			return false
		}
		return bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte("secret123")) == nil
	})).Return(&User{ID: 7}, nil)

	resp, err := service.Register(context.Background(), RegisterRequest{
		Name:     "Jane",
		Email:    "  Jane@Example.COM ",
		Password: "secret123",
	})
	require.NoError(t, err)

	userID, err := issuer.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, 7, userID)
	store.AssertExpectations(t)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := new(mockUserStore)
	service, _ := newTestService(store)

	store.On("CreateUser", mock.Anything, mock.Anything).
		Return(nil, &pgconn.PgError{Code: "23505"})

	_, err := service.Register(context.Background(), RegisterRequest{
		Name:     "Jane",
		Email:    "jane@example.com",
		Password: "secret123",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsConflictError(err))

	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode())
}

func TestLoginSuccess(t *testing.T) {
	store := new(mockUserStore)
	service, issuer := newTestService(store)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	store.On("GetUserByEmail", mock.Anything, "jane@example.com").
		Return(&User{ID: 7, Email: "jane@example.com", HashedPassword: string(hash)}, nil)

	resp, err := service.Login(context.Background(), LoginRequest{
		Email:    "Jane@Example.com",
		Password: "secret123",
	})
	require.NoError(t, err)

	userID, err := issuer.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, 7, userID)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	store := new(mockUserStore)
	service, _ := newTestService(store)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	store.On("GetUserByEmail", mock.Anything, "nobody@example.com").
		Return(nil, pgx.ErrNoRows)
	store.On("GetUserByEmail", mock.Anything, "jane@example.com").
		Return(&User{ID: 7, HashedPassword: string(hash)}, nil)

	_, unknownErr := service.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	_, wrongErr := service.Login(context.Background(), LoginRequest{
		Email:    "jane@example.com",
		Password: "wrong-password",
	})

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)

	// Unknown email and wrong password must yield the same status and the same
	// message, so callers cannot probe which emails exist.
	unknownApp, ok := apperror.FromError(unknownErr)
	require.True(t, ok)
	wrongApp, ok := apperror.FromError(wrongErr)
	require.True(t, ok)

	assert.Equal(t, unknownApp.StatusCode(), wrongApp.StatusCode())
	assert.Equal(t, 400, unknownApp.StatusCode())
	assert.Equal(t, unknownApp.Message, wrongApp.Message)
}

func TestCurrentUserStripsPasswordHash(t *testing.T) {
	store := new(mockUserStore)
	service, _ := newTestService(store)

	store.On("GetUserByID", mock.Anything, 7).
		Return(&User{ID: 7, Name: "Jane", HashedPassword: "$2a$10$something"}, nil)

	user, err := service.CurrentUser(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, user.HashedPassword)
	assert.Equal(t, "Jane", user.Name)
}

func TestCurrentUserDeletedAccount(t *testing.T) {
	store := new(mockUserStore)
	service, _ := newTestService(store)

	store.On("GetUserByID", mock.Anything, 7).Return(nil, pgx.ErrNoRows)

	_, err := service.CurrentUser(context.Background(), 7)
	assert.True(t, apperror.IsNotFound(err))
}
