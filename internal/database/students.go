package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/combact-io/combact/internal/models"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// StudentStore defines the storage operations the API needs.
type StudentStore interface {
	CreateStudent(student *models.Student) (*models.Student, error)
	GetStudentByID(id int64) (*models.Student, error)
	GetStudentByUsername(username string) (*models.Student, error)
	GetStudentByEmail(email string) (*models.Student, error)
	MarkLessonCompleted(studentID, lessonID int64) (*models.Student, error)
}

var _ StudentStore = (*Database)(nil)

const studentColumns = "id, name, username, password, email, gender, school_name, level, rank, completed_lessons, attempted_quizzes, created_at, updated_at"

// CreateStudent inserts a new student record and returns it with the
// datastore-assigned id. Unique-constraint violations on username or email are
// translated to ErrUsernameTaken / ErrEmailTaken; under concurrent
// registration this translation, not the caller's existence check, is the
// authoritative guard.
func (d *Database) CreateStudent(student *models.Student) (*models.Student, error) {
	if student.CompletedLessons == nil {
		student.CompletedLessons = []int64{}
	}
	if student.AttemptedQuizzes == nil {
		student.AttemptedQuizzes = []int64{}
	}

	if d.dbType == "postgres" {
		err := d.db.QueryRow(
			`INSERT INTO students (name, username, password, email, gender, school_name, level, rank, completed_lessons, attempted_quizzes)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			 RETURNING id, created_at, updated_at`,
			student.Name, student.Username, student.PasswordHash, student.Email,
			student.Gender, student.SchoolName, student.Level, student.Rank,
			pq.Array(student.CompletedLessons), pq.Array(student.AttemptedQuizzes),
		).Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt)
		if err != nil {
			return nil, translateUniqueViolation(err)
		}
		return student, nil
	}

	completed, err := json.Marshal(student.CompletedLessons)
	if err != nil {
		return nil, err
	}
	attempted, err := json.Marshal(student.AttemptedQuizzes)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result, err := d.db.Exec(
		`INSERT INTO students (name, username, password, email, gender, school_name, level, rank, completed_lessons, attempted_quizzes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		student.Name, student.Username, student.PasswordHash, student.Email,
		student.Gender, student.SchoolName, student.Level, student.Rank,
		string(completed), string(attempted), now, now,
	)
	if err != nil {
		return nil, translateUniqueViolation(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}
	student.ID = id
	student.CreatedAt = now
	student.UpdatedAt = now
	return student, nil
}

// GetStudentByID retrieves a student by primary key.
func (d *Database) GetStudentByID(id int64) (*models.Student, error) {
	var query string
	if d.dbType == "postgres" {
		query = "SELECT " + studentColumns + " FROM students WHERE id = $1"
	} else {
		query = "SELECT " + studentColumns + " FROM students WHERE id = ?"
	}
	return d.scanStudent(d.db.QueryRow(query, id))
}

// GetStudentByUsername retrieves a student by username. Usernames are stored
// lowercased, so callers pass the lowercased form.
func (d *Database) GetStudentByUsername(username string) (*models.Student, error) {
	var query string
	if d.dbType == "postgres" {
		query = "SELECT " + studentColumns + " FROM students WHERE username = $1"
	} else {
		query = "SELECT " + studentColumns + " FROM students WHERE username = ?"
	}
	return d.scanStudent(d.db.QueryRow(query, username))
}

// GetStudentByEmail retrieves a student by email. Emails are stored
// lowercased, so callers pass the lowercased form.
func (d *Database) GetStudentByEmail(email string) (*models.Student, error) {
	var query string
	if d.dbType == "postgres" {
		query = "SELECT " + studentColumns + " FROM students WHERE email = $1"
	} else {
		query = "SELECT " + studentColumns + " FROM students WHERE email = ?"
	}
	return d.scanStudent(d.db.QueryRow(query, email))
}

// MarkLessonCompleted appends lessonID to the student's completed lessons and
// returns the updated record. ErrLessonAlreadyCompleted is returned when the
// lesson is already present; the list never gains duplicates.
func (d *Database) MarkLessonCompleted(studentID, lessonID int64) (*models.Student, error) {
	if d.dbType == "postgres" {
		// The predicate makes the append atomic; zero rows means the lesson
		// was already there (or the student does not exist).
		result, err := d.db.Exec(
			`UPDATE students
			 SET completed_lessons = array_append(completed_lessons, $1), updated_at = NOW()
			 WHERE id = $2 AND NOT (completed_lessons @> ARRAY[$1]::bigint[])`,
			lessonID, studentID,
		)
		if err != nil {
			return nil, err
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return nil, err
		}
		if rows == 0 {
			if _, err := d.GetStudentByID(studentID); err != nil {
				return nil, err
			}
			return nil, ErrLessonAlreadyCompleted
		}
		return d.GetStudentByID(studentID)
	}

	student, err := d.GetStudentByID(studentID)
	if err != nil {
		return nil, err
	}
	if student.HasCompletedLesson(lessonID) {
		return nil, ErrLessonAlreadyCompleted
	}

	student.CompletedLessons = append(student.CompletedLessons, lessonID)
	completed, err := json.Marshal(student.CompletedLessons)
	if err != nil {
		return nil, err
	}

	student.UpdatedAt = time.Now()
	_, err = d.db.Exec(
		"UPDATE students SET completed_lessons = ?, updated_at = ? WHERE id = ?",
		string(completed), student.UpdatedAt, student.ID,
	)
	if err != nil {
		return nil, err
	}
	return student, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (d *Database) scanStudent(row rowScanner) (*models.Student, error) {
	student := &models.Student{}

	if d.dbType == "postgres" {
		var completed, attempted pq.Int64Array
		err := row.Scan(
			&student.ID, &student.Name, &student.Username, &student.PasswordHash,
			&student.Email, &student.Gender, &student.SchoolName, &student.Level,
			&student.Rank, &completed, &attempted, &student.CreatedAt, &student.UpdatedAt,
		)
		if err == sql.ErrNoRows {
			return nil, ErrStudentNotFound
		}
		if err != nil {
			return nil, err
		}
		student.CompletedLessons = []int64(completed)
		student.AttemptedQuizzes = []int64(attempted)
		return student, nil
	}

	var completed, attempted string
	err := row.Scan(
		&student.ID, &student.Name, &student.Username, &student.PasswordHash,
		&student.Email, &student.Gender, &student.SchoolName, &student.Level,
		&student.Rank, &completed, &attempted, &student.CreatedAt, &student.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrStudentNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(completed), &student.CompletedLessons); err != nil {
		return nil, fmt.Errorf("failed to decode completed_lessons: %w", err)
	}
	if err := json.Unmarshal([]byte(attempted), &student.AttemptedQuizzes); err != nil {
		return nil, fmt.Errorf("failed to decode attempted_quizzes: %w", err)
	}
	return student, nil
}

// translateUniqueViolation maps driver-specific unique-constraint errors onto
// the store's taxonomy.
func translateUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		switch {
		case strings.Contains(pqErr.Constraint, "email"):
			return ErrEmailTaken
		case strings.Contains(pqErr.Constraint, "username"):
			return ErrUsernameTaken
		}
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		switch {
		case strings.Contains(sqliteErr.Error(), "students.email"):
			return ErrEmailTaken
		case strings.Contains(sqliteErr.Error(), "students.username"):
			return ErrUsernameTaken
		}
	}

	return err
}
