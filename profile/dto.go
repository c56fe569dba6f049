// Data Transfer Objects for the profile module.
package profile

import "time"

// UpsertProfileRequest carries the create-or-update payload. Every field is
// individually optional; a nil pointer means "leave the stored value alone",
// never "clear it". Skills is a comma-delimited string that is split and
// trimmed into an ordered list.
type UpsertProfileRequest struct {
	Company        *string `json:"company,omitempty"`
	Website        *string `json:"website,omitempty"`
	Location       *string `json:"location,omitempty"`
	Status         *string `json:"status,omitempty"`
	Bio            *string `json:"bio,omitempty"`
	GithubUsername *string `json:"githubusername,omitempty"`
	Skills         *string `json:"skills,omitempty" example:"Go,SQL,HTML"`
	Youtube        *string `json:"youtube,omitempty"`
	Twitter        *string `json:"twitter,omitempty"`
	Facebook       *string `json:"facebook,omitempty"`
	Linkedin       *string `json:"linkedin,omitempty"`
	Instagram      *string `json:"instagram,omitempty"`
}

// AddExperienceRequest carries a new experience entry.
type AddExperienceRequest struct {
	Title       string     `json:"title" validate:"required"`
	Company     string     `json:"company" validate:"required"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from" validate:"required"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

// AddEducationRequest carries a new education entry.
type AddEducationRequest struct {
	School       string     `json:"school" validate:"required"`
	Degree       string     `json:"degree" validate:"required"`
	FieldOfStudy string     `json:"fieldofstudy" validate:"required"`
	From         time.Time  `json:"from" validate:"required"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}
