package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/phrazzld/lumen-api/internal/content"
)

// Profile limits.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 64
	MinPasswordLength = 12
	MaxPasswordLength = 72 // bcrypt ignores anything longer
	MinAge            = 5
	MaxAge            = 120
	DefaultLanguage   = "English"
)

// User validation errors
var (
	ErrEmptyUserID         = fmt.Errorf("%w: user ID cannot be empty", ErrValidation)
	ErrEmptyName           = fmt.Errorf("%w: name cannot be empty", ErrValidation)
	ErrInvalidUsername     = fmt.Errorf("%w: username must be 3 to 64 characters", ErrValidation)
	ErrInvalidAge          = fmt.Errorf("%w: age must be between 5 and 120", ErrValidation)
	ErrPasswordTooShort    = fmt.Errorf("%w: password must be at least 12 characters long", ErrValidation)
	ErrPasswordTooLong     = fmt.Errorf("%w: password must be at most 72 characters long", ErrValidation)
	ErrPasswordMismatch    = fmt.Errorf("%w: passwords do not match", ErrValidation)
	ErrEmptyHashedPassword = fmt.Errorf("%w: password cannot be empty", ErrValidation)
)

// User is a registered learner and the profile used to personalise content.
type User struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Username           string    `json:"username"`
	Password           string    `json:"-"` // plaintext, only set during signup
	HashedPassword     string    `json:"-"`
	Age                int       `json:"age"`
	AcademicLevel      string    `json:"academicLevel"`
	Major              string    `json:"major"`
	DyslexiaSupport    bool      `json:"dyslexiaSupport"`
	LanguagePreference string    `json:"languagePreference"`
	LearningStyles     []string  `json:"learningStyles"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewUser creates a User with a fresh ID and timestamps from a signup
// profile. The plaintext password must be hashed by the caller before the
// user is stored.
func NewUser(profile User, password string) (*User, error) {
	now := time.Now().UTC()

	user := profile
	user.ID = uuid.New()
	user.Username = strings.TrimSpace(user.Username)
	user.Password = password
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.LanguagePreference == "" {
		user.LanguagePreference = DefaultLanguage
	}
	if user.LearningStyles == nil {
		user.LearningStyles = []string{}
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return &user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}

	if n := utf8.RuneCountInString(u.Username); n < MinUsernameLength || n > MaxUsernameLength {
		return ErrInvalidUsername
	}

	if u.Age < MinAge || u.Age > MaxAge {
		return ErrInvalidAge
	}

	if u.Password != "" {
		return ValidatePassword(u.Password)
	}

	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}

	return nil
}

// ValidatePassword enforces the password length rules.
func ValidatePassword(password string) error {
	switch {
	case len(password) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(password) > MaxPasswordLength:
		return ErrPasswordTooLong
	default:
		return nil
	}
}

// Preferences is a partial profile update; nil fields are left unchanged.
type Preferences struct {
	Name               *string   `json:"name,omitempty"`
	Age                *int      `json:"age,omitempty"`
	AcademicLevel      *string   `json:"academicLevel,omitempty"`
	Major              *string   `json:"major,omitempty"`
	DyslexiaSupport    *bool     `json:"dyslexiaSupport,omitempty"`
	LanguagePreference *string   `json:"languagePreference,omitempty"`
	LearningStyles     *[]string `json:"learningStyles,omitempty"`
}

// ApplyPreferences updates the profile and validates the result. On error
// the user is left unchanged.
func (u *User) ApplyPreferences(p Preferences) error {
	updated := *u

	if p.Name != nil {
		updated.Name = *p.Name
	}
	if p.Age != nil {
		updated.Age = *p.Age
	}
	if p.AcademicLevel != nil {
		updated.AcademicLevel = *p.AcademicLevel
	}
	if p.Major != nil {
		updated.Major = *p.Major
	}
	if p.DyslexiaSupport != nil {
		updated.DyslexiaSupport = *p.DyslexiaSupport
	}
	if p.LanguagePreference != nil {
		updated.LanguagePreference = *p.LanguagePreference
		if updated.LanguagePreference == "" {
			updated.LanguagePreference = DefaultLanguage
		}
	}
	if p.LearningStyles != nil {
		updated.LearningStyles = append([]string{}, *p.LearningStyles...)
	}

	if err := updated.Validate(); err != nil {
		return err
	}

	updated.UpdatedAt = time.Now().UTC()
	*u = updated

	return nil
}

// LearnerContext returns the user context passed to content workers.
func (u *User) LearnerContext() content.UserContext {
	styles := make([]any, len(u.LearningStyles))
	for i, s := range u.LearningStyles {
		styles[i] = s
	}

	return content.UserContext{
		"name":               u.Name,
		"age":                u.Age,
		"academicLevel":      u.AcademicLevel,
		"major":              u.Major,
		"dyslexiaSupport":    u.DyslexiaSupport,
		"languagePreference": u.LanguagePreference,
		"learningStyles":     styles,
	}
}
