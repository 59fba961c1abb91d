package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/combact-io/combact/internal/auth"
	"github.com/combact-io/combact/internal/database"
	"github.com/combact-io/combact/internal/models"
	"github.com/go-chi/chi/v5"
)

// MinPasswordLength is the registration password policy.
const MinPasswordLength = 4

type registerRequest struct {
	Name            string `json:"name"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
	Email           string `json:"email"`
	Gender          string `json:"gender"`
	SchoolName      string `json:"school_name"`
	Level           string `json:"level"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (api *Api) IndexHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Welcome to COMBACT API",
	})
}

func (api *Api) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGenericError(w, http.StatusBadRequest)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Username = strings.TrimSpace(req.Username)
	req.Password = strings.TrimSpace(req.Password)
	req.ConfirmPassword = strings.TrimSpace(req.ConfirmPassword)
	req.Email = strings.TrimSpace(req.Email)
	req.Gender = strings.TrimSpace(req.Gender)
	req.SchoolName = strings.TrimSpace(req.SchoolName)
	req.Level = strings.TrimSpace(req.Level)

	if req.Name == "" || req.Username == "" || req.Password == "" || req.ConfirmPassword == "" ||
		req.Email == "" || req.Gender == "" || req.SchoolName == "" || req.Level == "" {
		writeError(w, "All fields are required.", http.StatusBadRequest)
		return
	}
	if req.Password != req.ConfirmPassword {
		writeError(w, "The password does not match.", http.StatusBadRequest)
		return
	}
	if len(req.Password) < MinPasswordLength {
		writeError(w, "Password must be at least 4 characters long.", http.StatusBadRequest)
		return
	}

	email := strings.ToLower(req.Email)
	username := strings.ToLower(req.Username)

	if _, err := api.Store.GetStudentByEmail(email); err == nil {
		writeError(w, "This email has already been used.", http.StatusBadRequest)
		return
	} else if !errors.Is(err, database.ErrStudentNotFound) {
		writeGenericError(w, http.StatusInternalServerError)
		return
	}

	if _, err := api.Store.GetStudentByUsername(username); err == nil {
		writeError(w, "This username has already been used.", http.StatusBadRequest)
		return
	} else if !errors.Is(err, database.ErrStudentNotFound) {
		writeGenericError(w, http.StatusInternalServerError)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeGenericError(w, http.StatusInternalServerError)
		return
	}

	student := &models.Student{
		Name:             models.TitleName(req.Name),
		Username:         username,
		PasswordHash:     hash,
		Email:            email,
		Gender:           req.Gender,
		SchoolName:       req.SchoolName,
		Level:            req.Level,
		Rank:             0,
		CompletedLessons: []int64{},
		AttemptedQuizzes: []int64{},
	}

	student, err = api.Store.CreateStudent(student)
	if err != nil {
		// The unique constraint is the authoritative guard; the lookups above
		// are racy under concurrent registration.
		switch {
		case errors.Is(err, database.ErrEmailTaken):
			writeError(w, "This email has already been used.", http.StatusBadRequest)
		case errors.Is(err, database.ErrUsernameTaken):
			writeError(w, "This username has already been used.", http.StatusBadRequest)
		default:
			writeGenericError(w, http.StatusInternalServerError)
		}
		return
	}

	token, err := api.Tokens.Encode(student.ID)
	if err != nil {
		writeGenericError(w, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Welcome to COMBACT, " + student.FirstName(),
		"student": student.Public(),
		"token":   token,
		"status":  true,
	})
}

func (api *Api) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGenericError(w, http.StatusBadRequest)
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Password = strings.TrimSpace(req.Password)

	if req.Username == "" || req.Password == "" {
		writeError(w, "All fields are required.", http.StatusBadRequest)
		return
	}

	student, err := api.Store.GetStudentByUsername(strings.ToLower(req.Username))
	if err != nil {
		if errors.Is(err, database.ErrStudentNotFound) {
			writeError(w, "Username does not exist. Please register for an account.", http.StatusUnauthorized)
			return
		}
		writeGenericError(w, http.StatusInternalServerError)
		return
	}

	short := student.Short()
	if !auth.CheckPassword(short.PasswordHash, req.Password) {
		writeError(w, "Incorrect login credentials.", http.StatusUnauthorized)
		return
	}

	token, err := api.Tokens.Encode(student.ID)
	if err != nil {
		writeGenericError(w, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Welcome back to COMBACT, " + student.FirstName(),
		"student": student.Public(),
		"token":   token,
		"status":  true,
	})
}

func (api *Api) GetStudentHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeGenericError(w, http.StatusInternalServerError)
		return
	}

	student, err := api.Store.GetStudentByID(identity.StudentID)
	if err != nil {
		if errors.Is(err, database.ErrStudentNotFound) {
			writeGenericError(w, http.StatusNotFound)
			return
		}
		writeGenericError(w, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Success.",
		"student": student.Public(),
		"token":   identity.Token,
		"status":  true,
	})
}

func (api *Api) MarkLessonHandler(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeGenericError(w, http.StatusInternalServerError)
		return
	}

	lessonID, err := strconv.ParseInt(chi.URLParam(r, "lessonID"), 10, 64)
	if err != nil {
		writeGenericError(w, http.StatusBadRequest)
		return
	}

	student, err := api.Store.MarkLessonCompleted(identity.StudentID, lessonID)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrLessonAlreadyCompleted):
			writeError(w, "Can not perform the action at the moment", http.StatusBadRequest)
		case errors.Is(err, database.ErrStudentNotFound):
			writeGenericError(w, http.StatusNotFound)
		default:
			writeGenericError(w, http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  true,
		"message": "Lesson marked completed",
		"student": student.Public(),
	})
}
