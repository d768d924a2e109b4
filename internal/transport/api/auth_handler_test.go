package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/datalink/internal/domain"
	"github.com/fsdevblog/datalink/internal/logger"
	"github.com/fsdevblog/datalink/internal/service"
	"github.com/fsdevblog/datalink/internal/service/tokens"
	"github.com/fsdevblog/datalink/internal/transport/api/mocks"
	"github.com/fsdevblog/datalink/internal/transport/api/testutils"
)

type AuthHandlerTestSuite struct {
	suite.Suite
	mockUserService *mocks.MockUserServicer
	router          *gin.Engine
	jwtSecret       []byte
}

func (s *AuthHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	defer mockCtrl.Finish()

	s.mockUserService = mocks.NewMockUserServicer(mockCtrl)
	s.jwtSecret = []byte("super secret key")

	router, routerErr := New(RouterArgs{
		Logger:       logger.New(io.Discard),
		UserService:  s.mockUserService,
		JWTSecretKey: s.jwtSecret,
	})
	s.Require().NoError(routerErr)
	s.router = router
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) TestRegister() {
	jwtTokenStr, jwtErr := tokens.GenerateUserJWT(1, time.Hour, s.jwtSecret)
	s.Require().NoError(jwtErr)

	argsOk := service.RegisterUserArgs{Username: "kwame", Email: "kwame@example.com", Password: "password"}
	argsDup := service.RegisterUserArgs{Username: "duplicate", Email: "dup@example.com", Password: "password"}

	s.mockUserService.EXPECT().Register(gomock.Any(), argsOk).Return(&domain.User{}, jwtTokenStr, nil)
	s.mockUserService.EXPECT().Register(gomock.Any(), argsDup).Return(nil, "", domain.ErrDuplicateKey)

	var cases = []struct {
		name        string
		args        *UserRegisterParams
		jwtTokenStr *string
		wantStatus  int
	}{
		{
			name:       "user created",
			args:       &UserRegisterParams{Username: argsOk.Username, Email: argsOk.Email, Password: argsOk.Password},
			wantStatus: http.StatusOK,
		}, {
			name:        "user already logged in",
			args:        &UserRegisterParams{Username: argsOk.Username, Email: argsOk.Email, Password: argsOk.Password},
			wantStatus:  http.StatusUnauthorized,
			jwtTokenStr: &jwtTokenStr,
		}, {
			name:       "duplicate username",
			args:       &UserRegisterParams{Username: argsDup.Username, Email: argsDup.Email, Password: argsDup.Password},
			wantStatus: http.StatusConflict,
		}, {
			name:       "bad request",
			args:       nil,
			wantStatus: http.StatusBadRequest,
		}, {
			name:       "empty username",
			args:       &UserRegisterParams{Username: "", Email: "a@b.com", Password: "password"},
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "bad email",
			args:       &UserRegisterParams{Username: "kwame2", Email: "not-an-email", Password: "password"},
			wantStatus: http.StatusUnprocessableEntity,
		}, {
			name:       "short password",
			args:       &UserRegisterParams{Username: "kwame3", Email: "k3@example.com", Password: "123"},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			var payload []byte
			if t.args != nil {
				payload, _ = json.Marshal(t.args)
			}

			args := testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + RegisterRoute,
				Body:   bytes.NewReader(payload),
			}

			var reqOpts []func(*testutils.RequestOptions)
			if t.jwtTokenStr != nil {
				v := fmt.Sprintf("Bearer %s", *t.jwtTokenStr)
				reqOpts = append(reqOpts, testutils.WithHeader("Authorization", v))
			}

			res, err := testutils.MakeRequest(args, reqOpts...)

			s.Require().NoError(err)
			s.Equal(t.wantStatus, res.StatusCode)
			s.Require().NoError(res.Body.Close())
		})
	}
}

func (s *AuthHandlerTestSuite) TestLogin() {
	s.mockUserService.EXPECT().
		Login(gomock.Any(), "kwame", "password").
		Return(&domain.User{ID: 1, Username: "kwame", Balance: 600}, "token", nil)
	s.mockUserService.EXPECT().
		Login(gomock.Any(), "ghost", "password").
		Return(nil, "", domain.ErrRecordNotFound)
	s.mockUserService.EXPECT().
		Login(gomock.Any(), "kwame", "wrongpass").
		Return(nil, "", domain.ErrPasswordMissMatch)

	cases := []struct {
		name       string
		args       *UserLoginParams
		wantStatus int
	}{
		{
			name:       "ok",
			args:       &UserLoginParams{Username: "kwame", Password: "password"},
			wantStatus: http.StatusOK,
		}, {
			name:       "unknown user",
			args:       &UserLoginParams{Username: "ghost", Password: "password"},
			wantStatus: http.StatusUnauthorized,
		}, {
			name:       "wrong password",
			args:       &UserLoginParams{Username: "kwame", Password: "wrongpass"},
			wantStatus: http.StatusUnauthorized,
		}, {
			name:       "bad request",
			args:       nil,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			var payload []byte
			if t.args != nil {
				payload, _ = json.Marshal(t.args)
			}

			res, err := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + LoginRoute,
				Body:   bytes.NewReader(payload),
			})

			s.Require().NoError(err)
			s.Equal(t.wantStatus, res.StatusCode)
			if t.wantStatus == http.StatusOK {
				s.Contains(res.Header.Get("Authorization"), "Bearer ")
			}
			s.Require().NoError(res.Body.Close())
		})
	}
}
