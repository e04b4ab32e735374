package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/justsurfingit/job-portal/internal/apperr"
	"github.com/justsurfingit/job-portal/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStudent(email string) NewUser {
	return NewUser{
		Fullname:    "Sam Student",
		Email:       email,
		PhoneNumber: "5550100",
		Password:    strongPassword,
		Role:        models.RoleStudent,
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		ok       bool
	}{
		{"abc", false},
		{"alllowercase1", false},
		{"NoSpecial1", false},
		{"NOLOWER1!", false},
		{"NoDigits!!", false},
		{"Sh0rt!", false},
		{strongPassword, true},
		{"Aa1!" + strings.Repeat("x", 68), true},
		{"Aa1!" + strings.Repeat("x", 69), false},
		{"Aa1!" + strings.Repeat("x", 80), false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.16s/%d", tt.password, len(tt.password)), func(t *testing.T) {
			assert.Equal(t, tt.ok, ValidatePassword(tt.password))
		})
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user with hashed password", func(t *testing.T) {
		f := newFixture(t)
		in := newStudent("Sam@Uni.edu")
		in.Profile = models.ProfileRecords{Qualifications: []models.Qualification{{Title: "BSc"}}}

		u, err := f.users.Register(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, "sam@uni.edu", u.Email)
		assert.NotEqual(t, strongPassword, u.Password)
		require.Len(t, u.Profile.Qualifications, 1)
		assert.Equal(t, "BSc", u.Profile.Qualifications[0].Title)
	})

	t.Run("duplicate email", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.users.Register(ctx, newStudent("sam@uni.edu"))
		require.NoError(t, err)

		_, err = f.users.Register(ctx, newStudent("sam@uni.edu"))
		assert.True(t, apperr.Is(err, apperr.KindConflict))
		assert.Equal(t, msgEmailTaken, apperr.Message(err))
	})

	t.Run("weak passwords leave the store untouched", func(t *testing.T) {
		f := newFixture(t)
		for _, p := range []string{"abc", "alllowercase1", "NoSpecial1", "Aa1!" + strings.Repeat("x", 80)} {
			in := newStudent("weak@uni.edu")
			in.Password = p
			_, err := f.users.Register(ctx, in)
			assert.True(t, apperr.Is(err, apperr.KindValidation), p)
			assert.Equal(t, 400, apperr.Status(err))
			assert.Equal(t, msgWeakPassword, apperr.Message(err))
		}
		n, err := f.users.CountByRole(ctx, models.RoleStudent)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		f := newFixture(t)

		in := newStudent("not-an-email")
		_, err := f.users.Register(ctx, in)
		assert.Equal(t, msgInvalidEmail, apperr.Message(err))

		in = newStudent("sam@uni.edu")
		in.PhoneNumber = " "
		_, err = f.users.Register(ctx, in)
		assert.Equal(t, msgMissingFields, apperr.Message(err))

		in = newStudent("sam@uni.edu")
		in.Role = models.RoleSuperUser
		_, err = f.users.Register(ctx, in)
		assert.Equal(t, msgInvalidRole, apperr.Message(err))

		in = newStudent("sam@uni.edu")
		in.Role = "janitor"
		_, err = f.users.Register(ctx, in)
		assert.Equal(t, msgInvalidRole, apperr.Message(err))
	})

	t.Run("admin can create superUser", func(t *testing.T) {
		f := newFixture(t)
		u, err := f.users.CreateByAdmin(ctx, newStudent("root@portal.io"), models.RoleSuperUser)
		require.NoError(t, err)
		assert.Equal(t, models.RoleSuperUser, u.Role)
	})

	t.Run("avatar without storage", func(t *testing.T) {
		f := newFixture(t)
		in := newStudent("sam@uni.edu")
		in.Avatar = fileHeader(t, "avatar", "me.png", []byte("png"))
		_, err := f.users.Register(ctx, in)
		assert.True(t, apperr.Is(err, apperr.KindUnavailable))
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	registered, err := f.users.Register(ctx, newStudent("sam@uni.edu"))
	require.NoError(t, err)

	u, token, err := f.users.Login(ctx, "SAM@uni.edu", strongPassword, models.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)
	assert.NotEmpty(t, token)

	id, role, err := f.users.tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
	assert.Equal(t, models.RoleStudent, role)

	tests := []struct {
		name     string
		email    string
		password string
		role     string
		want     string
	}{
		{"wrong password", "sam@uni.edu", "Wr0ng!pass", models.RoleStudent, msgBadCredentials},
		{"unknown email", "nobody@uni.edu", strongPassword, models.RoleStudent, msgBadCredentials},
		{"wrong role", "sam@uni.edu", strongPassword, models.RoleRecruiter, msgRoleMismatch},
		{"missing role", "sam@uni.edu", strongPassword, "", msgMissingFields},
		{"bad email", "sam", strongPassword, models.RoleStudent, msgInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, token, err := f.users.Login(ctx, tt.email, tt.password, tt.role)
			require.Error(t, err)
			assert.Empty(t, token)
			assert.Equal(t, 400, apperr.Status(err))
			assert.Equal(t, tt.want, apperr.Message(err))
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u, err := f.users.Register(ctx, newStudent("sam@uni.edu"))
	require.NoError(t, err)

	_, err = f.users.UpdateProfile(ctx, u.ID, ProfileUpdate{Bio: "  "})
	assert.Equal(t, msgNothingToUpdate, apperr.Message(err))

	updated, err := f.users.UpdateProfile(ctx, u.ID, ProfileUpdate{
		Bio:    "Gopher",
		Skills: []string{"go", "sql"},
		Records: models.ProfileRecords{
			ResearchAreas: []models.ResearchArea{{Field: "Distributed systems"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Gopher", updated.Profile.Bio)
	assert.Equal(t, []string{"go", "sql"}, []string(updated.Profile.Skills))
	assert.Len(t, updated.Profile.ResearchAreas, 1)

	other, err := f.users.Register(ctx, newStudent("other@uni.edu"))
	require.NoError(t, err)
	_, err = f.users.UpdateProfile(ctx, other.ID, ProfileUpdate{Email: "sam@uni.edu"})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = f.users.UpdateProfile(ctx, 999, ProfileUpdate{Bio: "x"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDeleteByRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	student := f.user(t, "sam@uni.edu", models.RoleStudent)

	err := f.users.DeleteByRole(ctx, student.ID, models.RoleRecruiter)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, f.users.DeleteByRole(ctx, student.ID, models.RoleStudent))
	_, err = f.users.Get(ctx, student.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
