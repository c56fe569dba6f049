// Package profile manages the per-user profile aggregate: scalar fields,
// the social-links sub-object, and the nested experience and education lists
// addressed by generated ids.
package profile

import "time"

// SocialLinks is the nested sub-object of named platform URLs. Every link is
// optional.
type SocialLinks struct {
	Youtube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// Experience is one entry of the profile's experience list. The id is
// generated by the server when the entry is added; entries are kept
// newest-first.
type Experience struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

// Education is one entry of the profile's education list.
type Education struct {
	ID           string     `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

// Profile is the aggregate stored one-to-one with a user. Name and Avatar
// are joined live from the owning user record when the profile is loaded
// (unlike post snapshots, which are frozen at creation).
type Profile struct {
	ID             int          `json:"id"`
	UserID         int          `json:"user_id"`
	Name           string       `json:"name"`
	Avatar         string       `json:"avatar"`
	Company        string       `json:"company,omitempty"`
	Website        string       `json:"website,omitempty"`
	Location       string       `json:"location,omitempty"`
	Status         string       `json:"status"`
	Bio            string       `json:"bio,omitempty"`
	GithubUsername string       `json:"githubusername,omitempty"`
	Skills         []string     `json:"skills"`
	Social         SocialLinks  `json:"social"`
	Experience     []Experience `json:"experience"`
	Education      []Education  `json:"education"`
	UpdatedAt      time.Time    `json:"updated_at"`
}
