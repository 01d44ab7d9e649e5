package models

import (
	"strconv"
)

// SearchQuery is the user search filter
type SearchQuery struct {
	Location     string
	MinFollowers int
}

// UserRecord is one row of users.csv
type UserRecord struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Email       string `json:"email"`
	Hireable    bool   `json:"hireable"`
	Bio         string `json:"bio"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
	CreatedAt   string `json:"created_at"`
}

// RepositoryRecord is one row of repositories.csv. Login is the owner.
type RepositoryRecord struct {
	Login           string `json:"login"`
	FullName        string `json:"full_name"`
	CreatedAt       string `json:"created_at"`
	StargazersCount int    `json:"stargazers_count"`
	WatchersCount   int    `json:"watchers_count"`
	Language        string `json:"language"`
	HasProjects     bool   `json:"has_projects"`
	HasWiki         bool   `json:"has_wiki"`
	LicenseName     string `json:"license_name"`
}

// Table is a header plus rows of string cells, ready for tabular output
type Table interface {
	Header() []string
	Rows() [][]string
}

// UserHeader is the column order of users.csv
var UserHeader = []string{
	"login", "name", "company", "location", "email", "hireable",
	"bio", "public_repos", "followers", "following", "created_at",
}

// RepositoryHeader is the column order of repositories.csv
var RepositoryHeader = []string{
	"login", "full_name", "created_at", "stargazers_count", "watchers_count",
	"language", "has_projects", "has_wiki", "license_name",
}

// UserTable adapts a slice of users to Table
type UserTable []UserRecord

// Header returns the users.csv columns
func (t UserTable) Header() []string {
	return UserHeader
}

// Rows renders every user in header order
func (t UserTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, u := range t {
		rows = append(rows, u.Row())
	}
	return rows
}

// Row renders the record in UserHeader order
func (u UserRecord) Row() []string {
	return []string{
		u.Login,
		u.Name,
		u.Company,
		u.Location,
		u.Email,
		strconv.FormatBool(u.Hireable),
		u.Bio,
		strconv.Itoa(u.PublicRepos),
		strconv.Itoa(u.Followers),
		strconv.Itoa(u.Following),
		u.CreatedAt,
	}
}

// RepositoryTable adapts a slice of repositories to Table
type RepositoryTable []RepositoryRecord

// Header returns the repositories.csv columns
func (t RepositoryTable) Header() []string {
	return RepositoryHeader
}

// Rows renders every repository in header order
func (t RepositoryTable) Rows() [][]string {
	rows := make([][]string, 0, len(t))
	for _, r := range t {
		rows = append(rows, r.Row())
	}
	return rows
}

// Row renders the record in RepositoryHeader order
func (r RepositoryRecord) Row() []string {
	return []string{
		r.Login,
		r.FullName,
		r.CreatedAt,
		strconv.Itoa(r.StargazersCount),
		strconv.Itoa(r.WatchersCount),
		r.Language,
		strconv.FormatBool(r.HasProjects),
		strconv.FormatBool(r.HasWiki),
		r.LicenseName,
	}
}
