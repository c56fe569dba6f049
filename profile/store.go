package profile

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileStore persists profile aggregates and their nested lists.
// Implementations return driver errors unwrapped (pgx.ErrNoRows included);
// the service layer owns error classification.
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID int) (*Profile, error)
	List(ctx context.Context) ([]Profile, error)
	Upsert(ctx context.Context, p *Profile) error
	InsertExperience(ctx context.Context, profileID int, exp *Experience) error
	DeleteExperience(ctx context.Context, userID int, entryID string) (int64, error)
	InsertEducation(ctx context.Context, profileID int, edu *Education) error
	DeleteEducation(ctx context.Context, userID int, entryID string) (int64, error)
	DeleteAccount(ctx context.Context, userID int) error
}

type pgProfileStore struct {
	db *pgxpool.Pool
}

// NewProfileStore creates a PostgreSQL-backed ProfileStore.
func NewProfileStore(db *pgxpool.Pool) ProfileStore {
	return &pgProfileStore{db: db}
}

const profileColumns = `
	p.id, p.user_id, u.name, u.avatar,
	p.company, p.website, p.location, p.status, p.bio, p.githubusername, p.skills,
	p.youtube, p.twitter, p.facebook, p.linkedin, p.instagram, p.updated_at`

func (s *pgProfileStore) GetByUserID(ctx context.Context, userID int) (*Profile, error) {
	query := `SELECT ` + profileColumns + `
	          FROM profiles p
	          JOIN users u ON u.id = p.user_id
	          WHERE p.user_id = $1`

	var p Profile
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.Name, &p.Avatar,
		&p.Company, &p.Website, &p.Location, &p.Status, &p.Bio, &p.GithubUsername, &p.Skills,
		&p.Social.Youtube, &p.Social.Twitter, &p.Social.Facebook, &p.Social.Linkedin, &p.Social.Instagram,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := s.loadLists(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *pgProfileStore) List(ctx context.Context) ([]Profile, error) {
	query := `SELECT ` + profileColumns + `
	          FROM profiles p
	          JOIN users u ON u.id = p.user_id
	          ORDER BY p.id`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []Profile{}
	for rows.Next() {
		var p Profile
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Name, &p.Avatar,
			&p.Company, &p.Website, &p.Location, &p.Status, &p.Bio, &p.GithubUsername, &p.Skills,
			&p.Social.Youtube, &p.Social.Twitter, &p.Social.Facebook, &p.Social.Linkedin, &p.Social.Instagram,
			&p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range profiles {
		if err := s.loadLists(ctx, &profiles[i]); err != nil {
			return nil, err
		}
	}
	return profiles, nil
}

// loadLists fills the experience and education lists, newest-first. Ordering
// is by insertion sequence so two entries added in the same instant still
// keep prepend order.
func (s *pgProfileStore) loadLists(ctx context.Context, p *Profile) error {
	p.Experience = []Experience{}
	p.Education = []Education{}

	expRows, err := s.db.Query(ctx, `
		SELECT id, title, company, location, from_date, to_date, current, description
		FROM experience WHERE profile_id = $1 ORDER BY seq DESC`, p.ID)
	if err != nil {
		return fmt.Errorf("failed to load experience: %w", err)
	}
	defer expRows.Close()
	for expRows.Next() {
		var e Experience
		if err := expRows.Scan(&e.ID, &e.Title, &e.Company, &e.Location, &e.From, &e.To, &e.Current, &e.Description); err != nil {
			return err
		}
		p.Experience = append(p.Experience, e)
	}
	if err := expRows.Err(); err != nil {
		return err
	}

	eduRows, err := s.db.Query(ctx, `
		SELECT id, school, degree, fieldofstudy, from_date, to_date, current, description
		FROM education WHERE profile_id = $1 ORDER BY seq DESC`, p.ID)
	if err != nil {
		return fmt.Errorf("failed to load education: %w", err)
	}
	defer eduRows.Close()
	for eduRows.Next() {
		var e Education
		if err := eduRows.Scan(&e.ID, &e.School, &e.Degree, &e.FieldOfStudy, &e.From, &e.To, &e.Current, &e.Description); err != nil {
			return err
		}
		p.Education = append(p.Education, e)
	}
	return eduRows.Err()
}

func (s *pgProfileStore) Upsert(ctx context.Context, p *Profile) error {
	query := `
		INSERT INTO profiles (user_id, company, website, location, status, bio, githubusername, skills,
		                      youtube, twitter, facebook, linkedin, instagram)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id) DO UPDATE SET
			company = EXCLUDED.company,
			website = EXCLUDED.website,
			location = EXCLUDED.location,
			status = EXCLUDED.status,
			bio = EXCLUDED.bio,
			githubusername = EXCLUDED.githubusername,
			skills = EXCLUDED.skills,
			youtube = EXCLUDED.youtube,
			twitter = EXCLUDED.twitter,
			facebook = EXCLUDED.facebook,
			linkedin = EXCLUDED.linkedin,
			instagram = EXCLUDED.instagram,
			updated_at = now()
		RETURNING id`
	return s.db.QueryRow(ctx, query,
		p.UserID, p.Company, p.Website, p.Location, p.Status, p.Bio, p.GithubUsername, p.Skills,
		p.Social.Youtube, p.Social.Twitter, p.Social.Facebook, p.Social.Linkedin, p.Social.Instagram,
	).Scan(&p.ID)
}

func (s *pgProfileStore) InsertExperience(ctx context.Context, profileID int, exp *Experience) error {
	query := `
		INSERT INTO experience (id, profile_id, title, company, location, from_date, to_date, current, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := s.db.Exec(ctx, query,
		exp.ID, profileID, exp.Title, exp.Company, exp.Location, exp.From, exp.To, exp.Current, exp.Description)
	return err
}

func (s *pgProfileStore) DeleteExperience(ctx context.Context, userID int, entryID string) (int64, error) {
	query := `
		DELETE FROM experience
		WHERE id = $1 AND profile_id = (SELECT id FROM profiles WHERE user_id = $2)`
	tag, err := s.db.Exec(ctx, query, entryID, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *pgProfileStore) InsertEducation(ctx context.Context, profileID int, edu *Education) error {
	query := `
		INSERT INTO education (id, profile_id, school, degree, fieldofstudy, from_date, to_date, current, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := s.db.Exec(ctx, query,
		edu.ID, profileID, edu.School, edu.Degree, edu.FieldOfStudy, edu.From, edu.To, edu.Current, edu.Description)
	return err
}

func (s *pgProfileStore) DeleteEducation(ctx context.Context, userID int, entryID string) (int64, error) {
	query := `
		DELETE FROM education
		WHERE id = $1 AND profile_id = (SELECT id FROM profiles WHERE user_id = $2)`
	tag, err := s.db.Exec(ctx, query, entryID, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteAccount removes the user's posts, profile and identity record in one
// transaction. The explicit deletes keep the cascade policy visible even
// though the foreign keys also cascade.
func (s *pgProfileStore) DeleteAccount(ctx context.Context, userID int) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM posts WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete posts: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return tx.Commit(ctx)
}
