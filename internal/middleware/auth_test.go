package middleware

import (
	"errors"
	"testing"

	"vocabdeck/internal/i18n"
	"vocabdeck/internal/service"
	"vocabdeck/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v3"
)

func TestAuthMiddleware(t *testing.T) {
	tr := i18n.MustLoad("en")

	tests := []struct {
		name           string
		ctx            *testutil.FakeContext
		setupMock      func(m *testutil.MockUserRepository)
		expectedText   string
		expectNext     bool
		expectAuthDone bool
	}{
		{
			name: "authorized user passes",
			ctx:  testutil.NewTextContext(1, "hello"),
			setupMock: func(m *testutil.MockUserRepository) {
				m.On("EnsureUserExists", int64(1)).Return(nil)
				m.On("IsAuthorized", int64(1)).Return(true, nil)
			},
			expectNext: true,
		},
		{
			name: "command asks for password",
			ctx:  testutil.NewTextContext(2, "/start"),
			setupMock: func(m *testutil.MockUserRepository) {
				m.On("EnsureUserExists", int64(2)).Return(nil)
				m.On("IsAuthorized", int64(2)).Return(false, nil)
			},
			expectedText: "Hi! Send the password to continue.",
		},
		{
			name: "button asks for password",
			ctx:  testutil.NewCallbackContext(3, "menu", ""),
			setupMock: func(m *testutil.MockUserRepository) {
				m.On("EnsureUserExists", int64(3)).Return(nil)
				m.On("IsAuthorized", int64(3)).Return(false, nil)
			},
			expectedText: "Hi! Send the password to continue.",
		},
		{
			name: "wrong password",
			ctx:  testutil.NewTextContext(4, "guess"),
			setupMock: func(m *testutil.MockUserRepository) {
				m.On("EnsureUserExists", int64(4)).Return(nil)
				m.On("IsAuthorized", int64(4)).Return(false, nil)
			},
			expectedText: "Wrong password.",
		},
		{
			name: "right password",
			ctx:  testutil.NewTextContext(5, " secret "),
			setupMock: func(m *testutil.MockUserRepository) {
				m.On("EnsureUserExists", int64(5)).Return(nil)
				m.On("IsAuthorized", int64(5)).Return(false, nil)
				m.On("AuthorizeUser", int64(5)).Return(nil)
			},
			expectAuthDone: true,
		},
		{
			name: "store error",
			ctx:  testutil.NewTextContext(6, "secret"),
			setupMock: func(m *testutil.MockUserRepository) {
				m.On("EnsureUserExists", int64(6)).Return(errors.New("db down"))
			},
			expectedText: "Something went wrong. Try again later.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(testutil.MockUserRepository)
			tt.setupMock(repo)
			auth := service.NewAuthService(repo, "secret")

			var nextCalled, authCalled bool
			next := func(c tele.Context) error {
				nextCalled = true
				return nil
			}
			onAuthorized := func(c tele.Context) error {
				authCalled = true
				return nil
			}

			handler := AuthMiddleware(auth, tr, onAuthorized, testutil.NewTestLogger())(next)
			require.NoError(t, handler(tt.ctx))

			assert.Equal(t, tt.expectNext, nextCalled)
			assert.Equal(t, tt.expectAuthDone, authCalled)
			if tt.expectedText != "" {
				assert.Equal(t, tt.expectedText, tt.ctx.LastText())
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestAuthMiddleware_NoSender(t *testing.T) {
	repo := new(testutil.MockUserRepository)
	auth := service.NewAuthService(repo, "secret")

	called := false
	handler := AuthMiddleware(auth, i18n.MustLoad("en"), nil, testutil.NewTestLogger())(func(c tele.Context) error {
		called = true
		return nil
	})

	require.NoError(t, handler(&testutil.FakeContext{}))
	assert.False(t, called)
	repo.AssertNotCalled(t, "EnsureUserExists", mock.Anything)
}
