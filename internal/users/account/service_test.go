// Copyright (c) 2026 Vizit. All rights reserved.
// Author: dev@vizit.app

package account_test

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vizitapp/vizit/internal/platform/apperr"
	"github.com/vizitapp/vizit/internal/platform/clock"
	"github.com/vizitapp/vizit/internal/platform/sec"
	"github.com/vizitapp/vizit/internal/users/account"
	"github.com/vizitapp/vizit/internal/users/auth"
	"github.com/vizitapp/vizit/pkg/pagination"
	"github.com/vizitapp/vizit/pkg/pointer"
)

// # Test Doubles

// fakeAccountRepository is an in-memory AccountRepository keyed by user ID.
type fakeAccountRepository struct {
	users map[string]*auth.User
}

func newFakeAccountRepository() *fakeAccountRepository {
	return &fakeAccountRepository{users: make(map[string]*auth.User)}
}

func (repo *fakeAccountRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := repo.users[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeAccountRepository) EmailTaken(_ context.Context, email, excludeID string) (bool, error) {
	for _, user := range repo.users {
		if user.Email == email && user.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (repo *fakeAccountRepository) UsernameTaken(_ context.Context, username, excludeID string) (bool, error) {
	for _, user := range repo.users {
		if user.Username == username && user.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (repo *fakeAccountRepository) Update(_ context.Context, user *auth.User) error {
	if _, ok := repo.users[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	repo.users[user.ID] = user
	return nil
}

func (repo *fakeAccountRepository) UpdatePassword(_ context.Context, userID, newHash string, at time.Time) error {
	user, ok := repo.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.PasswordHash = newHash
	user.UpdatedAt = at
	return nil
}

func (repo *fakeAccountRepository) Anonymize(_ context.Context, userID, email, username string, at time.Time) error {
	user, ok := repo.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.Email = email
	user.Username = username
	user.FirstName = ""
	user.LastName = ""
	user.Company = ""
	user.Position = ""
	user.PhoneNumber = ""
	user.IsActive = false
	user.EmailVerificationToken = nil
	user.PasswordResetToken = nil
	user.PasswordResetExpires = nil
	user.UpdatedAt = at
	return nil
}

func (repo *fakeAccountRepository) List(_ context.Context, limit, offset int) ([]*auth.User, int, error) {
	all := make([]*auth.User, 0, len(repo.users))
	for _, user := range repo.users {
		all = append(all, user)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

// # Harness

var testNow = time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)

func newAccountFixture() (*account.Service, *fakeAccountRepository) {
	repo := newFakeAccountRepository()
	service := account.NewService(repo, clock.Func(func() time.Time { return testNow }), bcrypt.MinCost, nil)
	return service, repo
}

func seedAccount(repo *fakeAccountRepository, id, email, username, password string) *auth.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &auth.User{
		ID:           id,
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		FirstName:    "Jane",
		LastName:     "Doe",
		Company:      "Vizit GmbH",
		Position:     "Engineer",
		PhoneNumber:  "+49 151 000",
		Role:         sec.RoleUser,
		IsActive:     true,
		CreatedAt:    testNow.Add(-24 * time.Hour),
		UpdatedAt:    testNow.Add(-24 * time.Hour),
	}
	repo.users[id] = user
	return user
}

// # Profile Management

/*
TestGetProfile verifies profile lookup and the NotFound pass-through.
*/
func TestGetProfile(t *testing.T) {
	service, repo := newAccountFixture()
	seedAccount(repo, "u1", "jane@example.com", "jane", "pw")

	user, err := service.GetProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", user.Email)

	_, err = service.GetProfile(context.Background(), "missing")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

/*
TestUpdateProfile_PartialMerge verifies the pointer semantics: nil fields
stay untouched, provided fields override.
*/
func TestUpdateProfile_PartialMerge(t *testing.T) {
	service, repo := newAccountFixture()
	seedAccount(repo, "u1", "jane@example.com", "jane", "pw")

	updated, err := service.UpdateProfile(context.Background(), "u1", account.UpdateProfileInput{
		FirstName: pointer.To("Janet"),
		Company:   pointer.To(""),
	})

	require.NoError(t, err)
	assert.Equal(t, "Janet", updated.FirstName)
	assert.Equal(t, "", updated.Company)          // explicit clear
	assert.Equal(t, "Doe", updated.LastName)      // untouched
	assert.Equal(t, "Engineer", updated.Position) // untouched
	assert.Equal(t, "jane@example.com", updated.Email)
	assert.True(t, updated.UpdatedAt.Equal(testNow)) // stamped from the injected clock
}

/*
TestUpdateProfile_IdentityChanges covers email and username moves: free
values succeed, values held by ANOTHER account conflict, and re-submitting
one's own current value is a no-op rather than a self-conflict.
*/
func TestUpdateProfile_IdentityChanges(t *testing.T) {
	t.Run("free_values_succeed", func(t *testing.T) {
		service, repo := newAccountFixture()
		seedAccount(repo, "u1", "jane@example.com", "jane", "pw")

		updated, err := service.UpdateProfile(context.Background(), "u1", account.UpdateProfileInput{
			Email:    pointer.To("janet@example.com"),
			Username: pointer.To("janet"),
		})

		require.NoError(t, err)
		assert.Equal(t, "janet@example.com", updated.Email)
		assert.Equal(t, "janet", updated.Username)
	})

	t.Run("email_held_by_other_account", func(t *testing.T) {
		service, repo := newAccountFixture()
		seedAccount(repo, "u1", "jane@example.com", "jane", "pw")
		seedAccount(repo, "u2", "john@example.com", "john", "pw")

		_, err := service.UpdateProfile(context.Background(), "u1", account.UpdateProfileInput{
			Email: pointer.To("john@example.com"),
		})

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "CONFLICT", ae.Code)
	})

	t.Run("username_held_by_other_account", func(t *testing.T) {
		service, repo := newAccountFixture()
		seedAccount(repo, "u1", "jane@example.com", "jane", "pw")
		seedAccount(repo, "u2", "john@example.com", "john", "pw")

		_, err := service.UpdateProfile(context.Background(), "u1", account.UpdateProfileInput{
			Username: pointer.To("john"),
		})

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "CONFLICT", ae.Code)
	})

	t.Run("own_current_value_is_noop", func(t *testing.T) {
		service, repo := newAccountFixture()
		seedAccount(repo, "u1", "jane@example.com", "jane", "pw")

		updated, err := service.UpdateProfile(context.Background(), "u1", account.UpdateProfileInput{
			Email:    pointer.To("jane@example.com"),
			Username: pointer.To("jane"),
		})

		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", updated.Email)
	})
}

// # Password Rotation

/*
TestChangePassword exercises credential rotation: success installs a new
verifiable hash; mismatched confirmation and a wrong current password are
validation errors, and an unknown account is NotFound.
*/
func TestChangePassword(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service, repo := newAccountFixture()
		user := seedAccount(repo, "u1", "jane@example.com", "jane", "old-pass")

		err := service.ChangePassword(context.Background(), "u1", "old-pass", "new-pass-123", "new-pass-123")

		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("new-pass-123")))
		assert.Error(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("old-pass")))
		assert.True(t, user.UpdatedAt.Equal(testNow)) // stamped from the injected clock
	})

	t.Run("confirmation_mismatch", func(t *testing.T) {
		service, repo := newAccountFixture()
		seedAccount(repo, "u1", "jane@example.com", "jane", "old-pass")

		err := service.ChangePassword(context.Background(), "u1", "old-pass", "new-pass-123", "different")

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "VALIDATION_ERROR", ae.Code)
		require.Len(t, ae.Details, 1)
		assert.Equal(t, auth.FieldConfirmPassword, ae.Details[0].Field)
	})

	t.Run("wrong_current_password", func(t *testing.T) {
		service, repo := newAccountFixture()
		user := seedAccount(repo, "u1", "jane@example.com", "jane", "old-pass")

		err := service.ChangePassword(context.Background(), "u1", "not-the-password", "new-pass-123", "new-pass-123")

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "VALIDATION_ERROR", ae.Code)
		require.Len(t, ae.Details, 1)
		assert.Equal(t, auth.FieldCurrentPassword, ae.Details[0].Field)

		// The old password must still work.
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("old-pass")))
	})

	t.Run("unknown_account", func(t *testing.T) {
		service, _ := newAccountFixture()

		err := service.ChangePassword(context.Background(), "missing", "old-pass", "new-pass-123", "new-pass-123")

		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "NOT_FOUND", ae.Code)
	})
}

// # Account Retirement

/*
TestDeleteAccount verifies anonymization in place: timestamped tombstones
replace email and username, PII is wiped, and the account is deactivated
without removing the row.
*/
func TestDeleteAccount(t *testing.T) {
	service, repo := newAccountFixture()
	user := seedAccount(repo, "u1", "jane@example.com", "jane", "pw")
	pendingToken := "pending-reset"
	user.PasswordResetToken = &pendingToken

	err := service.DeleteAccount(context.Background(), "u1")
	require.NoError(t, err)

	stamp := testNow.UnixMilli()
	assert.Equal(t, fmt.Sprintf("deleted_%d@deleted.local", stamp), user.Email)
	assert.Equal(t, fmt.Sprintf("deleted_%d", stamp), user.Username)
	assert.False(t, user.IsActive)
	assert.Empty(t, user.FirstName)
	assert.Empty(t, user.LastName)
	assert.Empty(t, user.Company)
	assert.Empty(t, user.PhoneNumber)
	assert.Nil(t, user.PasswordResetToken)

	// The row survives; only its identity is gone.
	_, err = service.GetProfile(context.Background(), "u1")
	assert.NoError(t, err)
}

/*
TestDeleteAccount_Unknown verifies the NotFound pass-through for a missing
account.
*/
func TestDeleteAccount_Unknown(t *testing.T) {
	service, _ := newAccountFixture()

	err := service.DeleteAccount(context.Background(), "missing")

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

// # Directory Administration

/*
TestListUsers verifies pagination math and that the listing only ever
exposes the sanitized projection.
*/
func TestListUsers(t *testing.T) {
	service, repo := newAccountFixture()
	for i := 0; i < 5; i++ {
		user := seedAccount(repo, fmt.Sprintf("u%d", i), fmt.Sprintf("user%d@example.com", i), fmt.Sprintf("user%d", i), "pw")
		user.CreatedAt = testNow.Add(-time.Duration(i) * time.Hour)
	}

	users, meta, err := service.ListUsers(context.Background(), pagination.Params{Page: 1, Limit: 2})

	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, 5, meta.Total)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, "u0", users[0].ID) // newest first

	// Page past the end is empty, not an error.
	users, meta, err = service.ListUsers(context.Background(), pagination.Params{Page: 4, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.Equal(t, 5, meta.Total)
}
