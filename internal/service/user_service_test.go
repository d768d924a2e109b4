package service

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/datalink/internal/domain"
	domainmocks "github.com/fsdevblog/datalink/internal/domain/mocks"
	"github.com/fsdevblog/datalink/internal/service/psswd"
	"github.com/fsdevblog/datalink/pkg/uow"
	uowmocks "github.com/fsdevblog/datalink/pkg/uow/mocks"
)

type UserServiceTestSuite struct {
	suite.Suite
	mockCtrl     *gomock.Controller
	mockUOW      *uowmocks.MockUOW
	mockTX       *uowmocks.MockTX
	mockUserRepo *domainmocks.MockUserRepository
	hasher       psswd.PasswordHash
	userService  *UserService
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockUserRepo = domainmocks.NewMockUserRepository(s.mockCtrl)
	s.hasher = psswd.PasswordHash("")

	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(domain.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(domain.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		}).AnyTimes()

	userService, servErr := NewUserService(s.mockUOW, s.hasher, []byte("test-secret"))
	s.Require().NoError(servErr)
	s.userService = userService
}

func (s *UserServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *UserServiceTestSuite) TestRegister() {
	args := RegisterUserArgs{
		Username: "kwame",
		Email:    "kwame@example.com",
		Password: "secret123",
	}

	s.mockUserRepo.EXPECT().
		CreateUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u domain.User) (*domain.User, error) {
			s.Equal(args.Username, u.Username)
			s.Equal(args.Email, u.Email)
			// В базу уходит bcrypt хеш, не пароль.
			s.NotEqual(args.Password, u.Password)
			s.True(s.hasher.ComparePassword(args.Password, u.Password))
			created := u
			created.ID = 1
			return &created, nil
		})

	user, token, err := s.userService.Register(context.Background(), args)
	s.Require().NoError(err)
	s.Equal(int64(1), user.ID)
	s.Zero(user.Balance)
	s.NotEmpty(token)
}

func (s *UserServiceTestSuite) TestRegister_Duplicate() {
	s.mockUserRepo.EXPECT().
		CreateUser(gomock.Any(), gomock.Any()).
		Return(nil, domain.ErrDuplicateKey)

	_, _, err := s.userService.Register(context.Background(), RegisterUserArgs{
		Username: "kwame",
		Email:    "kwame@example.com",
		Password: "secret123",
	})
	s.Require().ErrorIs(err, domain.ErrDuplicateKey)
}

func (s *UserServiceTestSuite) TestLogin() {
	hash, hashErr := s.hasher.HashPassword("secret123")
	s.Require().NoError(hashErr)

	s.mockUserRepo.EXPECT().
		FindUserByUsername(gomock.Any(), "kwame").
		Return(&domain.User{ID: 1, Username: "kwame", Password: hash}, nil)

	user, token, err := s.userService.Login(context.Background(), "kwame", "secret123")
	s.Require().NoError(err)
	s.Equal(int64(1), user.ID)
	s.NotEmpty(token)
}

func (s *UserServiceTestSuite) TestLogin_WrongPassword() {
	hash, hashErr := s.hasher.HashPassword("secret123")
	s.Require().NoError(hashErr)

	s.mockUserRepo.EXPECT().
		FindUserByUsername(gomock.Any(), "kwame").
		Return(&domain.User{ID: 1, Username: "kwame", Password: hash}, nil)

	_, _, err := s.userService.Login(context.Background(), "kwame", "wrong")
	s.Require().ErrorIs(err, domain.ErrPasswordMissMatch)
}

func (s *UserServiceTestSuite) TestLogin_UnknownUser() {
	s.mockUserRepo.EXPECT().
		FindUserByUsername(gomock.Any(), "ghost").
		Return(nil, domain.ErrRecordNotFound)

	_, _, err := s.userService.Login(context.Background(), "ghost", "secret123")
	s.Require().ErrorIs(err, domain.ErrRecordNotFound)
}
