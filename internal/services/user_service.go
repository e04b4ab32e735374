package services

import (
	"context"
	"errors"
	"mime/multipart"
	"regexp"
	"strings"
	"unicode"

	"github.com/justsurfingit/job-portal/internal/apperr"
	"github.com/justsurfingit/job-portal/internal/auth"
	"github.com/justsurfingit/job-portal/internal/database"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/justsurfingit/job-portal/internal/storage"
	"github.com/sirupsen/logrus"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	msgMissingFields   = "Something is missing"
	msgInvalidEmail    = "Invalid email format."
	msgWeakPassword    = "Password must be 8 to 72 characters long and include uppercase, lowercase, number, and special character."
	msgEmailTaken      = "User already exist with this email."
	msgBadCredentials  = "Incorrect email or password."
	msgRoleMismatch    = "Account doesn't exist with current role."
	msgInvalidRole     = "Invalid role."
	msgUserNotFound    = "User not found."
	msgNothingToUpdate = "No fields to update."
)

// NewUser is the input shared by self registration and admin creation.
type NewUser struct {
	Fullname    string
	Email       string
	PhoneNumber string
	Password    string
	Role        string
	Profile     models.ProfileRecords
	Avatar      *multipart.FileHeader
}

// ProfileUpdate holds a partial profile change. Blank strings and nil slices are skipped.
type ProfileUpdate struct {
	Fullname    string
	Email       string
	PhoneNumber string
	Bio         string
	Skills      []string
	Records     models.ProfileRecords
	Resume      *multipart.FileHeader
	Photo       *multipart.FileHeader
}

type UserService struct {
	store  database.Store
	files  storage.Store
	tokens *auth.TokenManager
	log    logrus.FieldLogger
}

func NewUserService(store database.Store, files storage.Store, tokens *auth.TokenManager, log logrus.FieldLogger) *UserService {
	return &UserService{store: store, files: files, tokens: tokens, log: log}
}

// maxPasswordBytes is the most bcrypt will hash.
const maxPasswordBytes = 72

// ValidatePassword enforces 8 to 72 bytes with upper, lower, digit and special characters.
func ValidatePassword(p string) bool {
	if len(p) < 8 || len(p) > maxPasswordBytes {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case !unicode.IsSpace(r):
			special = true
		}
	}
	return upper && lower && digit && special
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func validateNewUser(in *NewUser) error {
	in.Fullname = strings.TrimSpace(in.Fullname)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	if in.Fullname == "" || in.Email == "" || in.PhoneNumber == "" || in.Password == "" || in.Role == "" {
		return apperr.Validation(msgMissingFields)
	}
	if !ValidEmail(in.Email) {
		return apperr.Validation(msgInvalidEmail)
	}
	if !ValidatePassword(in.Password) {
		return apperr.Validation(msgWeakPassword)
	}
	if !models.IsValidRole(in.Role) {
		return apperr.Validation(msgInvalidRole)
	}
	return nil
}

// Register creates a user after validation. Self registration cannot claim superUser.
func (s *UserService) Register(ctx context.Context, in NewUser) (*models.User, error) {
	if in.Role == models.RoleSuperUser {
		return nil, apperr.Validation(msgInvalidRole)
	}
	return s.create(ctx, in)
}

// CreateByAdmin creates an account with a fixed role on behalf of an admin.
func (s *UserService) CreateByAdmin(ctx context.Context, in NewUser, role string) (*models.User, error) {
	in.Role = role
	return s.create(ctx, in)
}

func (s *UserService) create(ctx context.Context, in NewUser) (*models.User, error) {
	if err := validateNewUser(&in); err != nil {
		return nil, err
	}
	if _, err := s.store.GetUserByEmail(ctx, in.Email); err == nil {
		return nil, apperr.Conflict(msgEmailTaken)
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, apperr.Internal("failed to look up user", err)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	u := &models.User{
		Fullname:    in.Fullname,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Password:    hash,
		Role:        in.Role,
	}
	in.Profile.ApplyTo(&u.Profile)
	if in.Avatar != nil {
		url, err := upload(ctx, s.files, in.Avatar, "avatars")
		if err != nil {
			return nil, err
		}
		u.Profile.ProfilePhoto = url
	}

	if err := s.store.CreateUser(ctx, u); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, apperr.Conflict(msgEmailTaken)
		}
		return nil, apperr.Internal("failed to create user", err)
	}
	s.log.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user registered")
	return u, nil
}

// Login verifies credentials and the declared role and returns a signed token.
func (s *UserService) Login(ctx context.Context, email, password, role string) (*models.User, string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" || role == "" {
		return nil, "", apperr.Validation(msgMissingFields)
	}
	if !ValidEmail(email) {
		return nil, "", apperr.Validation(msgInvalidEmail)
	}

	u, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, database.ErrNotFound) {
		return nil, "", apperr.Validation(msgBadCredentials)
	}
	if err != nil {
		return nil, "", apperr.Internal("failed to look up user", err)
	}
	if !auth.CheckPassword(u.Password, password) {
		return nil, "", apperr.Validation(msgBadCredentials)
	}
	if u.Role != role {
		return nil, "", apperr.Validation(msgRoleMismatch)
	}

	token, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, "", apperr.Internal("failed to issue token", err)
	}
	return u, token, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.store.GetUser(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.NotFound(msgUserNotFound)
	}
	if err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}
	return u, nil
}

// UpdateProfile applies every non-blank field and fails when nothing changed.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, in ProfileUpdate) (*models.User, error) {
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	changed := false
	setString := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
			changed = true
		}
	}
	setString(&u.Fullname, in.Fullname)
	setString(&u.PhoneNumber, in.PhoneNumber)
	setString(&u.Profile.Bio, in.Bio)

	if email := strings.TrimSpace(strings.ToLower(in.Email)); email != "" && email != u.Email {
		if !ValidEmail(email) {
			return nil, apperr.Validation(msgInvalidEmail)
		}
		u.Email = email
		changed = true
	}
	if in.Skills != nil {
		u.Profile.Skills = in.Skills
		changed = true
	}
	if in.Records.ApplyTo(&u.Profile) {
		changed = true
	}
	if in.Resume != nil {
		url, err := upload(ctx, s.files, in.Resume, "resumes")
		if err != nil {
			return nil, err
		}
		u.Profile.Resume = url
		u.Profile.ResumeOriginalName = in.Resume.Filename
		changed = true
	}
	if in.Photo != nil {
		url, err := upload(ctx, s.files, in.Photo, "avatars")
		if err != nil {
			return nil, err
		}
		u.Profile.ProfilePhoto = url
		changed = true
	}
	if !changed {
		return nil, apperr.Validation(msgNothingToUpdate)
	}

	if err := s.store.UpdateUser(ctx, u); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, apperr.Conflict(msgEmailTaken)
		}
		return nil, apperr.Internal("failed to update profile", err)
	}
	s.log.WithField("user_id", u.ID).Info("profile updated")
	return u, nil
}

// ListByRole returns all users holding role, newest first.
func (s *UserService) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	users, err := s.store.ListUsersByRole(ctx, role)
	if err != nil {
		return nil, apperr.Internal("failed to list users", err)
	}
	return users, nil
}

// DeleteByRole removes the user only when it holds role, so the recruiter
// endpoint cannot delete students and vice versa.
func (s *UserService) DeleteByRole(ctx context.Context, id uint, role string) error {
	u, err := s.store.GetUser(ctx, id)
	if errors.Is(err, database.ErrNotFound) || (err == nil && u.Role != role) {
		return apperr.NotFound(msgUserNotFound)
	}
	if err != nil {
		return apperr.Internal("failed to load user", err)
	}
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return apperr.Internal("failed to delete user", err)
	}
	s.log.WithFields(logrus.Fields{"user_id": id, "role": role}).Info("user deleted")
	return nil
}

func (s *UserService) CountByRole(ctx context.Context, role string) (int64, error) {
	n, err := s.store.CountUsersByRole(ctx, role)
	if err != nil {
		return 0, apperr.Internal("failed to count users", err)
	}
	return n, nil
}

func upload(ctx context.Context, files storage.Store, fh *multipart.FileHeader, folder string) (string, error) {
	if files == nil {
		return "", apperr.Unavailable("File uploads are not configured.")
	}
	url, err := files.Save(ctx, fh, folder)
	if errors.Is(err, storage.ErrTooLarge) || errors.Is(err, storage.ErrUnsupported) {
		return "", apperr.Validation(err.Error())
	}
	if err != nil {
		return "", apperr.Internal("failed to upload file", err)
	}
	return url, nil
}
