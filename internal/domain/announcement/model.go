package announcement

import (
	"errors"
	"sort"
	"strings"

	"goodlife/internal/domain/calendar"
)

// Max length constants.
const (
	MaxTitleLength   = 200
	MaxContentLength = 5000
)

// Priority ranks an announcement for display.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Domain errors
var (
	ErrEmptyTitle      = errors.New("announcement title cannot be empty")
	ErrTitleTooLong    = errors.New("announcement title cannot exceed 200 characters")
	ErrEmptyContent    = errors.New("announcement content cannot be empty")
	ErrContentTooLong  = errors.New("announcement content cannot exceed 5000 characters")
	ErrInvalidPriority = errors.New("priority must be one of: low, medium, high")
	ErrNotFound        = errors.New("announcement not found")
)

// Announcement is a gym-wide notice. Content supports Markdown formatting.
type Announcement struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Date     string   `json:"date"`
	Priority Priority `json:"priority"`
}

// ApplyDefaults fills an empty date with today and an empty priority with low.
// POST: Date and Priority are non-empty
func (a *Announcement) ApplyDefaults(today string) {
	if strings.TrimSpace(a.Date) == "" {
		a.Date = today
	}
	if a.Priority == "" {
		a.Priority = PriorityLow
	}
}

// Validate checks if the Announcement has valid data.
// PRE: Announcement struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Announcement) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return ErrEmptyTitle
	}
	if len(a.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if strings.TrimSpace(a.Content) == "" {
		return ErrEmptyContent
	}
	if len(a.Content) > MaxContentLength {
		return ErrContentTooLong
	}
	if !calendar.IsDate(a.Date) {
		return calendar.ErrInvalidDate
	}
	switch a.Priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return ErrInvalidPriority
	}
	return nil
}

// NewerThan returns announcements dated after since (YYYY-MM-DD), newest first.
func NewerThan(list []Announcement, since string) []Announcement {
	var out []Announcement
	for _, a := range list {
		if a.Date > since {
			out = append(out, a)
		}
	}
	SortNewestFirst(out)
	return out
}

// SortNewestFirst orders by date descending, stable for equal dates.
func SortNewestFirst(list []Announcement) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date > list[j].Date })
}
