package team

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
)

// DefaultLimit is the page size used when a ListFilter does not set one.
const DefaultLimit = 5

// Team represents a row in the teams table.
type Team struct {
	ID        uuid.UUID
	Image     string // blob name under the teams/ directory
	Name      string
	Role      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListFilter holds the optional name search and pagination for listing teams.
type ListFilter struct {
	Search string // case-insensitive substring of name
	Page   int    // default 1
	Limit  int    // default DefaultLimit
}

// ListResult holds the result of a paginated list query.
type ListResult struct {
	Teams []Team
	Total int
	Page  int
	Limit int
}

// UpdateFields holds the mutable fields of a team. Name and Role are always
// written; Image is only written when non-nil.
type UpdateFields struct {
	Name  string
	Role  string
	Image *string
}

func (f *ListFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	f.Search = strings.TrimSpace(f.Search)
}

func (f ListFilter) offset() int {
	return (f.Page - 1) * f.Limit
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// nameKey is the Unicode case-folded team name stored in name_key. Search
// patterns are folded the same way.
func nameKey(name string) string {
	return cases.Fold().String(name)
}

// containsPattern builds a LIKE pattern matching s anywhere in name_key.
// Used with ESCAPE '\'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(nameKey(s)) + "%"
}
