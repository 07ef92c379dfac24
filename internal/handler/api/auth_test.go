//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"storefront/internal/handler/api"
	resdto "storefront/internal/handler/dto/response"
	"storefront/internal/pkg/config"
	"storefront/internal/pkg/jwt"
	"storefront/internal/usecase/commands"
	"storefront/internal/usecase/queries"
	"storefront/tests/common/builder"
	"storefront/tests/common/httptest"
	"storefront/tests/common/testutil"
	commandsmock "storefront/tests/mock/commands"
	queriesmock "storefront/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockAuthCommands
	mockQueries  *queriesmock.MockUserQueries
	handler      *api.AuthHandler
}

func (s *AuthHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockAuthCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockUserQueries(s.mockCtrl)
	jwtService := jwt.NewService("test-secret", 15*time.Minute, 24*time.Hour)
	s.handler = api.NewAuthHandler(s.mockCommands, s.mockQueries, jwtService, config.NewTestConfig().Cookie)

	s.router.POST("/auth/register", s.handler.Register)
	s.router.POST("/auth/login", s.handler.Login)
	s.router.POST("/auth/logout", s.handler.Logout)
	s.router.GET("/auth/me", func(c *gin.Context) {
		// Stand-in for the auth middleware on /auth/me
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			c.Set("user_id", uuid.New())
		}
		s.handler.Me(c)
	})
}

func (s *AuthHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

type testCaseAuth struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

func (s *AuthHandlerTestSuite) TestRegister() {
	url := "/auth/register"

	reqBody := builder.NewAuthBuilder().BuildRegisterDTO()
	newUserID := uuid.New()

	s.Run("success: returns 201 Created with the new user ID", func() {
		s.mockCommands.EXPECT().Register(gomock.Any(), commands.RegisterRequest{
			Email:    reqBody.Email,
			Password: reqBody.Password,
			Phone:    reqBody.Phone,
		}).Return(&commands.RegisterResult{UserID: newUserID}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.RegisterResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(newUserID, response.UserID)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []testCaseAuth{
			{name: "missing field: email (required)", mutate: testutil.Field("email", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: password (required)", mutate: testutil.Field("password", nil), expectCode: http.StatusBadRequest},
			{name: "empty email", mutate: testutil.Field("email", ""), expectCode: http.StatusBadRequest},
			{name: "empty password", mutate: testutil.Field("password", ""), expectCode: http.StatusBadRequest},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "")
			})
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "email already used",
				commandsError:  commands.ErrEmailAlreadyUsed,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "Email address already in use",
			},
			{
				name:           "domain validation error",
				commandsError:  commands.ErrDomainValidation,
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Invalid request data",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Register(gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

func (s *AuthHandlerTestSuite) TestLogin() {
	url := "/auth/login"

	reqBody := builder.NewAuthBuilder().BuildLoginDTO()
	returnUser := builder.NewUserBuilder().BuildReadModel()

	s.Run("success: returns 200 OK for valid credentials", func() {
		s.mockCommands.EXPECT().Login(gomock.Any(), reqBody.Email, reqBody.Password).
			Return(&commands.LoginResult{
				UserID:    returnUser.ID,
				TokenPair: &commands.TokenPair{AccessToken: "test-jwt-token", RefreshToken: "test-refresh-token"},
			}, nil).Times(1)
		s.mockQueries.EXPECT().GetCurrentUser(gomock.Any(), returnUser.ID).
			Return(returnUser, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")

		var response resdto.LoginResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(returnUser.Email, response.User.Email)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []testCaseAuth{
			{name: "invalid email format", mutate: testutil.Field("email", "invalid-email"), expectCode: http.StatusBadRequest},
			{name: "password below minimum length (7 chars)", mutate: testutil.Field("password", strings.Repeat("a", 7)), expectCode: http.StatusBadRequest},
			{name: "missing field: email (required)", mutate: testutil.Field("email", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: password (required)", mutate: testutil.Field("password", nil), expectCode: http.StatusBadRequest},
			{name: "empty email", mutate: testutil.Field("email", ""), expectCode: http.StatusBadRequest},
			{name: "empty password", mutate: testutil.Field("password", ""), expectCode: http.StatusBadRequest},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "")
			})
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "invalid credentials",
				commandsError:  commands.ErrInvalidCredentials,
				expectedStatus: http.StatusUnauthorized,
				expectedMsg:    "Invalid email or password",
			},
			{
				name:           "user not found",
				commandsError:  commands.ErrUserNotFound,
				expectedStatus: http.StatusUnauthorized,
				expectedMsg:    "Invalid email or password",
			},
			{
				name:           "user inactive",
				commandsError:  commands.ErrUserInactive,
				expectedStatus: http.StatusForbidden,
				expectedMsg:    "Account is inactive",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Login(gomock.Any(), reqBody.Email, reqBody.Password).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

func (s *AuthHandlerTestSuite) TestLogout() {
	s.Run("success: returns 204 No Content", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/auth/logout", nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})
}

func (s *AuthHandlerTestSuite) TestMe() {
	url := "/auth/me"
	returnUser := builder.NewUserBuilder().BuildReadModel()

	s.Run("success: returns current user info", func() {
		s.mockQueries.EXPECT().GetCurrentUser(gomock.Any(), gomock.Any()).
			Return(returnUser, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(returnUser.Email, response["email"])
	})

	s.Run("error: returns 401 when user_id missing in context", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "User not authenticated")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			queriesError   error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "user not found",
				queriesError:   queries.ErrUserNotFound,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "User not found",
			},
			{
				name:           "user inactive",
				queriesError:   queries.ErrUserInactive,
				expectedStatus: http.StatusForbidden,
				expectedMsg:    "Account is inactive",
			},
			{
				name:           "internal server error",
				queriesError:   errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockQueries.EXPECT().GetCurrentUser(gomock.Any(), gomock.Any()).
					Return(nil, tc.queriesError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}
