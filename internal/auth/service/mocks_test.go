package service

import (
	"context"

	"github.com/AlibekovAA/tasktrack/internal/common/jwtverify"
	userdomain "github.com/AlibekovAA/tasktrack/internal/user/domain"
	userrepo "github.com/AlibekovAA/tasktrack/internal/user/repository"
)

type mockUserRepo struct {
	createFunc         func(ctx context.Context, user userdomain.User) error
	findByUsernameFunc func(ctx context.Context, username string) (userdomain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (userdomain.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return userdomain.User{}, userrepo.ErrUserNotFound
}

type mockHasher struct {
	hashFunc   func(password string) (string, error)
	verifyFunc func(hash, password string) (bool, error)
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Verify(hash, password string) (bool, error) {
	if m.verifyFunc != nil {
		return m.verifyFunc(hash, password)
	}
	return hash == "hashed:"+password, nil
}

type mockIDGenerator struct {
	newIDFunc func() (string, error)
}

func (m *mockIDGenerator) NewID() (string, error) {
	if m.newIDFunc != nil {
		return m.newIDFunc()
	}
	return "user-123", nil
}

type mockTokenIssuer struct {
	issueFunc func(claims jwtverify.Claims) (string, error)
}

func (m *mockTokenIssuer) Issue(claims jwtverify.Claims) (string, error) {
	if m.issueFunc != nil {
		return m.issueFunc(claims)
	}
	return "token-for-" + claims.UserID, nil
}
