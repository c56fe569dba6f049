package profile

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/user/devconnect-go/apperror"
)

type mockProfileStore struct {
	mock.Mock
}

func (m *mockProfileStore) GetByUserID(ctx context.Context, userID int) (*Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Profile), args.Error(1)
}

func (m *mockProfileStore) List(ctx context.Context) ([]Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Profile), args.Error(1)
}

func (m *mockProfileStore) Upsert(ctx context.Context, p *Profile) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProfileStore) InsertExperience(ctx context.Context, profileID int, exp *Experience) error {
	return m.Called(ctx, profileID, exp).Error(0)
}

func (m *mockProfileStore) DeleteExperience(ctx context.Context, userID int, entryID string) (int64, error) {
	args := m.Called(ctx, userID, entryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProfileStore) InsertEducation(ctx context.Context, profileID int, edu *Education) error {
	return m.Called(ctx, profileID, edu).Error(0)
}

func (m *mockProfileStore) DeleteEducation(ctx context.Context, userID int, entryID string) (int64, error) {
	args := m.Called(ctx, userID, entryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockProfileStore) DeleteAccount(ctx context.Context, userID int) error {
	return m.Called(ctx, userID).Error(0)
}

func strPtr(s string) *string { return &s }

func TestSplitSkills(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"plain", "Go,SQL,HTML", []string{"Go", "SQL", "HTML"}},
		{"whitespace", " Go , SQL ,HTML ", []string{"Go", "SQL", "HTML"}},
		{"empty segments", "Go,,SQL,", []string{"Go", "SQL"}},
		{"single", "Go", []string{"Go"}},
		{"empty", "", []string{}},
		{"only commas", ",,,", []string{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SplitSkills(tc.raw))
		})
	}
}

func TestGetMyProfileMissing(t *testing.T) {
	store := new(mockProfileStore)
	service := NewProfileService(store, nil)

	store.On("GetByUserID", mock.Anything, 7).Return(nil, pgx.ErrNoRows)

	_, err := service.GetMyProfile(context.Background(), 7)
	require.Error(t, err)

	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode())
}

func TestUpsertCreatesWhenMissing(t *testing.T) {
	store := new(mockProfileStore)
	service := NewProfileService(store, nil)

	store.On("GetByUserID", mock.Anything, 7).Return(nil, pgx.ErrNoRows).Once()
	store.On("Upsert", mock.Anything, mock.MatchedBy(func(p *Profile) bool {
		return p.UserID == 7 &&
			p.Status == "Developer" &&
			assert.ObjectsAreEqual([]string{"Go", "SQL"}, p.Skills)
	})).Return(nil)
	store.On("GetByUserID", mock.Anything, 7).
		Return(&Profile{ID: 1, UserID: 7, Status: "Developer", Skills: []string{"Go", "SQL"}}, nil)

	p, err := service.Upsert(context.Background(), 7, UpsertProfileRequest{
		Status: strPtr("Developer"),
		Skills: strPtr("Go, SQL"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Developer", p.Status)
	store.AssertExpectations(t)
}

func TestUpsertMergesPartialUpdate(t *testing.T) {
	store := new(mockProfileStore)
	service := NewProfileService(store, nil)

	existing := &Profile{
		ID:       1,
		UserID:   7,
		Company:  "Acme",
		Status:   "Developer",
		Skills:   []string{"Go"},
		Social:   SocialLinks{Twitter: "https://twitter.com/jane"},
	}
	store.On("GetByUserID", mock.Anything, 7).Return(existing, nil).Once()
	store.On("Upsert", mock.Anything, mock.MatchedBy(func(p *Profile) bool {
		// Only the location changes; everything else survives untouched.
		return p.Location == "Berlin" &&
			p.Company == "Acme" &&
			p.Status == "Developer" &&
			p.Social.Twitter == "https://twitter.com/jane" &&
			assert.ObjectsAreEqual([]string{"Go"}, p.Skills)
	})).Return(nil)
	store.On("GetByUserID", mock.Anything, 7).Return(existing, nil)

	_, err := service.Upsert(context.Background(), 7, UpsertProfileRequest{
		Location: strPtr("Berlin"),
	})
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestAddExperienceRequiresProfile(t *testing.T) {
	store := new(mockProfileStore)
	service := NewProfileService(store, nil)

	store.On("GetByUserID", mock.Anything, 7).Return(nil, pgx.ErrNoRows)

	_, err := service.AddExperience(context.Background(), 7, AddExperienceRequest{
		Title:   "Engineer",
		Company: "Acme",
		From:    time.Now(),
	})
	require.Error(t, err)

	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode())
	store.AssertNotCalled(t, "InsertExperience", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddExperienceGeneratesID(t *testing.T) {
	store := new(mockProfileStore)
	service := NewProfileService(store, nil)

	p := &Profile{ID: 1, UserID: 7, Skills: []string{}}
	store.On("GetByUserID", mock.Anything, 7).Return(p, nil)
	store.On("InsertExperience", mock.Anything, 1, mock.MatchedBy(func(e *Experience) bool {
		_, err := uuid.Parse(e.ID)
		return err == nil && e.Title == "Engineer" && e.Company == "Acme"
	})).Return(nil)

	_, err := service.AddExperience(context.Background(), 7, AddExperienceRequest{
		Title:   "Engineer",
		Company: "Acme",
		From:    time.Now(),
	})
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestRemoveExperienceUnknownEntry(t *testing.T) {
	store := new(mockProfileStore)
	service := NewProfileService(store, nil)

	entryID := uuid.NewString()
	store.On("DeleteExperience", mock.Anything, 7, entryID).Return(int64(0), nil)

	_, err := service.RemoveExperience(context.Background(), 7, entryID)
	require.Error(t, err)

	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode())
}

func TestRemoveExperienceMalformedID(t *testing.T) {
	store := new(mockProfileStore)
	service := NewProfileService(store, nil)

	_, err := service.RemoveExperience(context.Background(), 7, "not-a-uuid")
	require.Error(t, err)

	appErr, ok := apperror.FromError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode())
	store.AssertNotCalled(t, "DeleteExperience", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveEducation(t *testing.T) {
	store := new(mockProfileStore)
	service := NewProfileService(store, nil)

	entryID := uuid.NewString()
	store.On("DeleteEducation", mock.Anything, 7, entryID).Return(int64(1), nil)
	store.On("GetByUserID", mock.Anything, 7).
		Return(&Profile{ID: 1, UserID: 7, Skills: []string{}}, nil)

	_, err := service.RemoveEducation(context.Background(), 7, entryID)
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestDeleteAccount(t *testing.T) {
	store := new(mockProfileStore)
	service := NewProfileService(store, nil)

	store.On("DeleteAccount", mock.Anything, 7).Return(nil)

	require.NoError(t, service.DeleteAccount(context.Background(), 7))
	store.AssertExpectations(t)
}
