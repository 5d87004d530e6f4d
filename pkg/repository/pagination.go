package repository

import (
	"math"
	"strings"
)

const (
	DefaultPage          = 1
	DefaultRecordsNumber = 10

	// AllRecords is the page size clients send for "show all".
	AllRecords = math.MaxInt32
)

// Pagination carries the page request shared by list and count queries.
type Pagination struct {
	ID            int64  `json:"id" form:"id"`
	Page          int    `json:"page" form:"page"`
	RecordsNumber int    `json:"recordsNumber" form:"recordsnumber"`
	Filter        string `json:"filter" form:"filter"`
}

// Normalize applies defaults: page 1 and DefaultRecordsNumber for
// non-positive values, and trims the filter.
func (p *Pagination) Normalize() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.RecordsNumber < 1 {
		p.RecordsNumber = DefaultRecordsNumber
	}
	p.Filter = strings.TrimSpace(p.Filter)
}

// Offset returns the number of rows to skip: (page-1) * recordsNumber.
// The product is computed in int64 so "show all" pages never overflow.
func (p Pagination) Offset() int64 {
	page := p.Page
	if page < 1 {
		page = DefaultPage
	}
	return int64(page-1) * int64(p.Limit())
}

// Limit returns the page size.
func (p Pagination) Limit() int64 {
	if p.RecordsNumber < 1 {
		return DefaultRecordsNumber
	}
	return int64(p.RecordsNumber)
}

// HasFilter reports whether a name filter applies.
func (p Pagination) HasFilter() bool {
	return strings.TrimSpace(p.Filter) != ""
}

// LikeEscape is the escape character LikePattern uses; pair it with
// `LIKE ? ESCAPE '!'`.
const LikeEscape = "!"

var likeReplacer = strings.NewReplacer(LikeEscape, LikeEscape+LikeEscape, "%", LikeEscape+"%", "_", LikeEscape+"_")

// LikePattern returns the lower-cased, escaped "contains" pattern for the filter.
func (p Pagination) LikePattern() string {
	filter := strings.ToLower(strings.TrimSpace(p.Filter))
	return "%" + likeReplacer.Replace(filter) + "%"
}

// TotalPages returns how many pages of recordsNumber fit total records.
func TotalPages(total int64, recordsNumber int) int {
	if recordsNumber < 1 || total <= 0 {
		return 0
	}
	return int((total + int64(recordsNumber) - 1) / int64(recordsNumber))
}
