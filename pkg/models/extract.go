package models

import (
	"encoding/json"
	"strings"

	"ghscraper/pkg/errors"
)

// rawUser mirrors the profile fields we keep. Pointers distinguish absent
// or null values from zero values.
type rawUser struct {
	Login       *string `json:"login"`
	Name        *string `json:"name"`
	Company     *string `json:"company"`
	Location    *string `json:"location"`
	Email       *string `json:"email"`
	Hireable    *bool   `json:"hireable"`
	Bio         *string `json:"bio"`
	PublicRepos *int    `json:"public_repos"`
	Followers   *int    `json:"followers"`
	Following   *int    `json:"following"`
	CreatedAt   *string `json:"created_at"`
}

type rawLicense struct {
	Key *string `json:"key"`
}

type rawRepository struct {
	FullName        *string     `json:"full_name"`
	CreatedAt       *string     `json:"created_at"`
	StargazersCount *int        `json:"stargazers_count"`
	WatchersCount   *int        `json:"watchers_count"`
	Language        *string     `json:"language"`
	HasProjects     *bool       `json:"has_projects"`
	HasWiki         *bool       `json:"has_wiki"`
	License         *rawLicense `json:"license"`
}

// ExtractUser flattens a raw user profile. login is required; every other
// field falls back to its zero value when absent or null.
func ExtractUser(raw []byte) (UserRecord, error) {
	var u rawUser
	if err := json.Unmarshal(raw, &u); err != nil {
		return UserRecord{}, errors.NewParsingError(err)
	}
	if u.Login == nil {
		return UserRecord{}, errors.NewExtractionError("user", "login")
	}

	return UserRecord{
		Login:       *u.Login,
		Name:        str(u.Name),
		Company:     NormalizeCompany(u.Company),
		Location:    str(u.Location),
		Email:       str(u.Email),
		Hireable:    boolean(u.Hireable),
		Bio:         str(u.Bio),
		PublicRepos: integer(u.PublicRepos),
		Followers:   integer(u.Followers),
		Following:   integer(u.Following),
		CreatedAt:   str(u.CreatedAt),
	}, nil
}

// NormalizeCompany trims whitespace, drops one leading '@' and upper-cases
// the result. nil and empty give "".
func NormalizeCompany(company *string) string {
	if company == nil || *company == "" {
		return ""
	}
	s := strings.TrimSpace(*company)
	s = strings.TrimPrefix(s, "@")
	return strings.ToUpper(s)
}

// ExtractRepository flattens a raw repository owned by owner
func ExtractRepository(owner string, raw []byte) (RepositoryRecord, error) {
	var r rawRepository
	if err := json.Unmarshal(raw, &r); err != nil {
		return RepositoryRecord{}, errors.NewParsingError(err)
	}

	switch {
	case r.FullName == nil:
		return RepositoryRecord{}, errors.NewExtractionError("repository", "full_name")
	case r.CreatedAt == nil:
		return RepositoryRecord{}, errors.NewExtractionError("repository", "created_at")
	case r.StargazersCount == nil:
		return RepositoryRecord{}, errors.NewExtractionError("repository", "stargazers_count")
	case r.WatchersCount == nil:
		return RepositoryRecord{}, errors.NewExtractionError("repository", "watchers_count")
	}

	var license string
	if r.License != nil {
		license = str(r.License.Key)
	}

	return RepositoryRecord{
		Login:           owner,
		FullName:        *r.FullName,
		CreatedAt:       *r.CreatedAt,
		StargazersCount: *r.StargazersCount,
		WatchersCount:   *r.WatchersCount,
		Language:        str(r.Language),
		HasProjects:     boolean(r.HasProjects),
		HasWiki:         boolean(r.HasWiki),
		LicenseName:     license,
	}, nil
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func integer(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func boolean(p *bool) bool {
	if p == nil {
		return false
	}
	return *p
}
