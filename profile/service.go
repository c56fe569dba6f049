package profile

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/user/devconnect-go/apperror"
)

// ProfileService implements the profile aggregate's mutation rules: partial
// upserts, nested-list add/remove by generated id, and the account-deletion
// cascade. It also proxies the GitHub repo listing.
type ProfileService struct {
	store  ProfileStore
	github *GithubClient
}

// NewProfileService creates a new ProfileService.
func NewProfileService(store ProfileStore, github *GithubClient) *ProfileService {
	return &ProfileService{store: store, github: github}
}

// GetMyProfile returns the caller's own profile. A missing profile is a bad
// request: the client is expected to create one first.
func (s *ProfileService) GetMyProfile(ctx context.Context, userID int) (*Profile, error) {
	return s.getForUser(ctx, userID)
}

// GetByUser returns the profile of an arbitrary user for public viewing.
func (s *ProfileService) GetByUser(ctx context.Context, userID int) (*Profile, error) {
	return s.getForUser(ctx, userID)
}

func (s *ProfileService) getForUser(ctx context.Context, userID int) (*Profile, error) {
	p, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewBadRequestError("there is no profile for this user", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get profile", err)
	}
	return p, nil
}

// List returns all profiles with owner name/avatar joined in.
func (s *ProfileService) List(ctx context.Context) ([]Profile, error) {
	profiles, err := s.store.List(ctx)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list profiles", err)
	}
	return profiles, nil
}

// Upsert creates the caller's profile if none exists, otherwise updates it in
// place. Only fields present in the request overwrite stored values; omitted
// fields are left untouched, not cleared.
func (s *ProfileService) Upsert(ctx context.Context, userID int, req UpsertProfileRequest) (*Profile, error) {
	existing, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewDatabaseError("failed to get profile", err)
		}
		existing = &Profile{UserID: userID, Skills: []string{}}
	}

	applyString(&existing.Company, req.Company)
	applyString(&existing.Website, req.Website)
	applyString(&existing.Location, req.Location)
	applyString(&existing.Status, req.Status)
	applyString(&existing.Bio, req.Bio)
	applyString(&existing.GithubUsername, req.GithubUsername)
	applyString(&existing.Social.Youtube, req.Youtube)
	applyString(&existing.Social.Twitter, req.Twitter)
	applyString(&existing.Social.Facebook, req.Facebook)
	applyString(&existing.Social.Linkedin, req.Linkedin)
	applyString(&existing.Social.Instagram, req.Instagram)

	if req.Skills != nil {
		existing.Skills = SplitSkills(*req.Skills)
	}

	if err := s.store.Upsert(ctx, existing); err != nil {
		return nil, apperror.NewDatabaseError("failed to save profile", err)
	}

	// Reload so the response carries the owner join and nested lists.
	return s.getForUser(ctx, userID)
}

// AddExperience prepends a new experience entry with a generated id.
// The profile must already exist; there is no implicit creation.
func (s *ProfileService) AddExperience(ctx context.Context, userID int, req AddExperienceRequest) (*Profile, error) {
	p, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewBadRequestError("create a profile to add experience", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get profile", err)
	}

	exp := &Experience{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	}
	if err := s.store.InsertExperience(ctx, p.ID, exp); err != nil {
		return nil, apperror.NewDatabaseError("failed to add experience", err)
	}

	return s.getForUser(ctx, userID)
}

// RemoveExperience removes the entry with the given id from the caller's own
// profile. An unknown id is a client error, not a no-op.
func (s *ProfileService) RemoveExperience(ctx context.Context, userID int, entryID string) (*Profile, error) {
	if _, err := uuid.Parse(entryID); err != nil {
		return nil, apperror.NewBadRequestError("experience entry not found", nil)
	}

	affected, err := s.store.DeleteExperience(ctx, userID, entryID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to remove experience", err)
	}
	if affected == 0 {
		return nil, apperror.NewBadRequestError("experience entry not found", nil)
	}

	return s.getForUser(ctx, userID)
}

// AddEducation prepends a new education entry with a generated id.
func (s *ProfileService) AddEducation(ctx context.Context, userID int, req AddEducationRequest) (*Profile, error) {
	p, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewBadRequestError("create a profile to add education details", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get profile", err)
	}

	edu := &Education{
		ID:           uuid.NewString(),
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  req.Description,
	}
	if err := s.store.InsertEducation(ctx, p.ID, edu); err != nil {
		return nil, apperror.NewDatabaseError("failed to add education", err)
	}

	return s.getForUser(ctx, userID)
}

// RemoveEducation removes the entry with the given id from the caller's own
// profile.
func (s *ProfileService) RemoveEducation(ctx context.Context, userID int, entryID string) (*Profile, error) {
	if _, err := uuid.Parse(entryID); err != nil {
		return nil, apperror.NewBadRequestError("education entry not found", nil)
	}

	affected, err := s.store.DeleteEducation(ctx, userID, entryID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to remove education", err)
	}
	if affected == 0 {
		return nil, apperror.NewBadRequestError("education entry not found", nil)
	}

	return s.getForUser(ctx, userID)
}

// DeleteAccount removes the caller's posts, profile and user record.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID int) error {
	if err := s.store.DeleteAccount(ctx, userID); err != nil {
		return apperror.NewDatabaseError("failed to delete account", err)
	}
	return nil
}

// GithubRepos returns the five most recently created public repos for a
// GitHub username.
func (s *ProfileService) GithubRepos(ctx context.Context, username string) ([]Repo, error) {
	return s.github.LatestRepos(ctx, username)
}

// SplitSkills turns the comma-delimited skills field into an ordered list of
// trimmed entries, dropping empties.
func SplitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			skills = append(skills, trimmed)
		}
	}
	return skills
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
