//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	"storefront/internal/domain/user"
	reqdto "storefront/internal/handler/dto/request"
	resdto "storefront/internal/handler/dto/response"
	"storefront/internal/pkg/cookie"
	"storefront/tests/common/authtest"
	"storefront/tests/common/dbtest"
	"storefront/tests/common/httptest"
	"storefront/tests/e2e"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	registerURL = "/api/auth/register"
	loginURL    = "/api/auth/login"
	refreshURL  = "/api/auth/refresh"
	logoutURL   = "/api/auth/logout"
	meURL       = "/api/auth/me"
)

type AuthSuite struct {
	e2e.SharedSuite
}

func (s *AuthSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(AuthSuite))
}

func (s *AuthSuite) TestRegister() {
	s.Run("Normal case: new account created", func() {
		t := s.T()

		reqBody := reqdto.RegisterRequest{
			Email:    "fresh@example.com",
			Password: "password123",
			Phone:    "+15550100",
		}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, reqBody, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var res resdto.RegisterResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
		require.NotEmpty(t, res.UserID)

		var role string
		err := s.DB.QueryRow(t.Context(),
			"SELECT role FROM users WHERE id = $1", res.UserID).Scan(&role)
		require.NoError(t, err)
		require.Equal(t, string(user.RoleCustomer), role)
	})

	s.Run("Duplicate email is rejected", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "taken@example.com", string(user.RoleCustomer))

		reqBody := reqdto.RegisterRequest{Email: "taken@example.com", Password: "password123"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, reqBody, "")
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "Email address already in use")
	})

	s.Run("Invalid payloads are rejected", func() {
		t := s.T()

		tests := []struct {
			name string
			body reqdto.RegisterRequest
		}{
			{"malformed email", reqdto.RegisterRequest{Email: "not-an-email", Password: "password123"}},
			{"short password", reqdto.RegisterRequest{Email: "short@example.com", Password: "1234567"}},
		}
		for _, tt := range tests {
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, tt.body, "")
			require.Equal(t, http.StatusBadRequest, w.Code, tt.name)
		}
	})
}

func (s *AuthSuite) TestLogin() {
	s.Run("Normal case: cookies issued and user returned", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "login@example.com", string(user.RoleCustomer))

		reqBody := reqdto.LoginRequest{Email: "login@example.com", Password: "password123"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL, reqBody, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var res resdto.LoginResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
		require.NotNil(t, res.User)
		require.Equal(t, "login@example.com", res.User.Email)
		require.NotContains(t, w.Body.String(), "password")

		access := httptest.ExtractCookie(w, cookie.AccessTokenCookieName)
		refresh := httptest.ExtractCookie(w, cookie.RefreshTokenCookieName)
		require.NotNil(t, access)
		require.NotNil(t, refresh)
		require.NotEmpty(t, access.Value)
		require.NotEmpty(t, refresh.Value)
	})

	s.Run("Bad credentials are rejected", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "victim@example.com", string(user.RoleCustomer))

		tests := []struct {
			name       string
			email      string
			password   string
			expectCode int
		}{
			{"unknown user", "nobody@example.com", "password123", http.StatusUnauthorized},
			{"wrong password", "victim@example.com", "wrongpassword", http.StatusUnauthorized},
			{"empty email", "", "password123", http.StatusBadRequest},
			{"empty password", "victim@example.com", "", http.StatusBadRequest},
		}
		for _, tt := range tests {
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
				reqdto.LoginRequest{Email: tt.email, Password: tt.password}, "")
			require.Equal(t, tt.expectCode, w.Code, tt.name)
		}
	})

	s.Run("Deactivated account cannot log in", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "gone@example.com", string(user.RoleCustomer))
		_, err := s.DB.Exec(t.Context(),
			"UPDATE users SET is_active = FALSE WHERE email = 'gone@example.com'")
		require.NoError(t, err)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			reqdto.LoginRequest{Email: "gone@example.com", Password: "password123"}, "")
		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "inactive")
	})
}

func (s *AuthSuite) TestMe() {
	s.Run("Normal case: current user returned", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.DB, s.Router, "whoami@example.com", string(user.RoleAdmin))

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.Contains(t, w.Body.String(), "whoami@example.com")
		require.Contains(t, w.Body.String(), string(user.RoleAdmin))
		require.NotContains(t, w.Body.String(), "password")
	})

	s.Run("Authentication is required", func() {
		t := s.T()

		for _, token := range []string{"", "invalid-token"} {
			w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
			require.Equal(t, http.StatusUnauthorized, w.Code)
		}
	})
}

func (s *AuthSuite) TestRefresh() {
	s.Run("Normal case: cookies rotated", func() {
		t := s.T()

		dbtest.CreateTestUser(t, s.DB, "rotate@example.com", string(user.RoleCustomer))
		login := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL,
			reqdto.LoginRequest{Email: "rotate@example.com", Password: "password123"}, "")
		require.Equal(t, http.StatusOK, login.Code)
		cookies := httptest.ExtractCookies(login)

		w := httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, refreshURL, nil, cookies, "")
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		access := httptest.ExtractCookie(w, cookie.AccessTokenCookieName)
		refresh := httptest.ExtractCookie(w, cookie.RefreshTokenCookieName)
		require.NotNil(t, access)
		require.NotNil(t, refresh)
		require.NotEmpty(t, access.Value)
		require.NotEmpty(t, refresh.Value)

		// the rotated access token is usable right away
		me := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, access.Value)
		require.Equal(t, http.StatusOK, me.Code)
	})

	s.Run("Missing refresh cookie is rejected", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, refreshURL, nil, "")
		httptest.AssertErrorResponse(t, w, http.StatusUnauthorized, "Refresh token required")
	})

	s.Run("Garbage refresh cookie is rejected", func() {
		t := s.T()

		cookies := []*http.Cookie{{Name: cookie.RefreshTokenCookieName, Value: "not-a-jwt"}}
		w := httptest.PerformRequestWithCookies(t, s.Router, http.MethodPost, refreshURL, nil, cookies, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func (s *AuthSuite) TestLogout() {
	s.Run("Normal case: cookies cleared", func() {
		t := s.T()

		token := authtest.CreateAndLogin(t, s.DB, s.Router, "leaver@example.com", string(user.RoleCustomer))

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, logoutURL, nil, token)
		require.Equal(t, http.StatusNoContent, w.Code)

		access := httptest.ExtractCookie(w, cookie.AccessTokenCookieName)
		require.NotNil(t, access)
		require.Empty(t, access.Value)
	})

	s.Run("Logout requires authentication", func() {
		t := s.T()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, logoutURL, nil, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
