package models

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Student is a row in the students table. PasswordHash only ever holds the
// bcrypt hash, never plaintext.
type Student struct {
	ID               int64
	Name             string
	Username         string
	PasswordHash     string
	Email            string
	Gender           string
	SchoolName       string
	Level            string
	Rank             int64
	CompletedLessons []int64
	AttemptedQuizzes []int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PublicStudent is the representation returned to clients.
type PublicStudent struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Username         string  `json:"username"`
	Email            string  `json:"email"`
	Gender           string  `json:"gender"`
	SchoolName       string  `json:"school_name"`
	Level            string  `json:"level"`
	Rank             int64   `json:"rank"`
	CompletedLessons []int64 `json:"completed_lessons"`
	AttemptedQuizzes []int64 `json:"attempted_quizzes"`
}

// ShortStudent carries the password hash for credential checks. It must never
// be serialized into a response.
type ShortStudent struct {
	ID           int64
	Name         string
	Username     string
	PasswordHash string
	Email        string
}

// Public returns the client-facing view of the student. The progress lists are
// always non-nil so they serialize as JSON arrays, not null.
func (s *Student) Public() PublicStudent {
	completed := s.CompletedLessons
	if completed == nil {
		completed = []int64{}
	}
	attempted := s.AttemptedQuizzes
	if attempted == nil {
		attempted = []int64{}
	}
	return PublicStudent{
		ID:               s.ID,
		Name:             s.Name,
		Username:         s.Username,
		Email:            s.Email,
		Gender:           s.Gender,
		SchoolName:       s.SchoolName,
		Level:            s.Level,
		Rank:             s.Rank,
		CompletedLessons: completed,
		AttemptedQuizzes: attempted,
	}
}

// Short returns the internal credential view.
func (s *Student) Short() ShortStudent {
	return ShortStudent{
		ID:           s.ID,
		Name:         s.Name,
		Username:     s.Username,
		PasswordHash: s.PasswordHash,
		Email:        s.Email,
	}
}

// FirstName returns the capitalized first word of the student's name, used in
// greeting messages.
func (s *Student) FirstName() string {
	first := s.Name
	if i := strings.IndexByte(first, ' '); i >= 0 {
		first = first[:i]
	}
	return TitleName(first)
}

// HasCompletedLesson reports whether lessonID is already in the completed list.
func (s *Student) HasCompletedLesson(lessonID int64) bool {
	for _, id := range s.CompletedLessons {
		if id == lessonID {
			return true
		}
	}
	return false
}

// TitleName normalizes a display name to title case, e.g. "jane doe" -> "Jane Doe".
// A fresh Caser is built per call; cases.Caser carries state and is not safe
// for concurrent use.
func TitleName(name string) string {
	return cases.Title(language.Und).String(strings.ToLower(name))
}
