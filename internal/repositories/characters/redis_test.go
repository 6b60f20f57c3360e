package characters

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/KirkDiggler/symbaroum-vtt/internal/clock/mocks"
	vtterr "github.com/KirkDiggler/symbaroum-vtt/internal/errors"
	"github.com/KirkDiggler/symbaroum-vtt/internal/testutils"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RedisRepoTestSuite struct {
	suite.Suite
	mockClient   *redis.Client
	mock         redismock.ClientMock
	repo         Repository
	mockCtrl     *gomock.Controller
	timeProvider *mocks.MockTimeProvider
	now          time.Time
}

func (s *RedisRepoTestSuite) SetupTest() {
	s.mockClient, s.mock = redismock.NewClientMock()
	s.mockCtrl = gomock.NewController(s.T())
	s.timeProvider = mocks.NewMockTimeProvider(s.mockCtrl)
	s.repo = NewRedisRepository(&RedisRepoConfig{
		Client:       s.mockClient,
		TimeProvider: s.timeProvider,
	})
	s.now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *RedisRepoTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
	s.NoError(s.mock.ExpectationsWereMet())
}

func TestRedisRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRepoTestSuite))
}

func (s *RedisRepoTestSuite) storedJSON(id, ownerID, campaignID, name string, created, updated time.Time) string {
	char := testutils.CreateTestCharacter(id, ownerID, campaignID, name)
	data := toCharacterData(char)
	data.CreatedAt = created
	data.UpdatedAt = updated
	jsonData, err := json.Marshal(data)
	s.Require().NoError(err)
	return string(jsonData)
}

func (s *RedisRepoTestSuite) TestCreate() {
	ctx := context.Background()
	s.timeProvider.EXPECT().Now().Return(s.now)

	char := testutils.CreateTestCharacter("char-1", "owner-1", "camp-1", "Ylva")
	expected := s.storedJSON("char-1", "owner-1", "camp-1", "Ylva", s.now, s.now)

	s.mock.ExpectSetNX("character:char-1", expected, 0).SetVal(true)
	s.mock.ExpectSAdd("owner:owner-1:characters", "char-1").SetVal(1)
	s.mock.ExpectSAdd("campaign:camp-1:characters", "char-1").SetVal(1)

	err := s.repo.Create(ctx, char)
	s.NoError(err)
	s.Equal(s.now, char.CreatedAt)
}

func (s *RedisRepoTestSuite) TestCreate_AlreadyExists() {
	ctx := context.Background()
	s.timeProvider.EXPECT().Now().Return(s.now)
	char := testutils.CreateTestCharacter("char-1", "owner-1", "camp-1", "Ylva")
	stored := s.storedJSON("char-1", "owner-1", "camp-1", "Ylva", s.now, s.now)

	// the ID is taken, so no index writes follow
	s.mock.ExpectSetNX("character:char-1", stored, 0).SetVal(false)

	err := s.repo.Create(ctx, char)
	s.True(vtterr.IsAlreadyExists(err))
}

func (s *RedisRepoTestSuite) TestCreate_DependencyError() {
	ctx := context.Background()
	s.timeProvider.EXPECT().Now().Return(s.now)
	char := testutils.CreateTestCharacter("char-1", "owner-1", "camp-1", "Ylva")
	stored := s.storedJSON("char-1", "owner-1", "camp-1", "Ylva", s.now, s.now)

	s.mock.ExpectSetNX("character:char-1", stored, 0).SetErr(errors.New("redis error"))

	err := s.repo.Create(ctx, char)
	s.Error(err)
}

func (s *RedisRepoTestSuite) TestCreate_InputValidation() {
	err := s.repo.Create(context.Background(), nil)
	s.True(vtterr.IsInvalidArgument(err))
}

func (s *RedisRepoTestSuite) TestGet() {
	ctx := context.Background()
	stored := s.storedJSON("char-1", "owner-1", "camp-1", "Ylva", s.now, s.now)

	// Happy path
	s.mock.ExpectGet("character:char-1").SetVal(stored)
	char, err := s.repo.Get(ctx, "char-1")
	s.Require().NoError(err)
	s.Equal("Ylva", char.Name)
	s.Len(char.Sheet.Equipment, 3)

	// Not found
	s.mock.ExpectGet("character:missing").RedisNil()
	_, err = s.repo.Get(ctx, "missing")
	s.True(vtterr.IsNotFound(err))

	// Dependency error
	s.mock.ExpectGet("character:char-1").SetErr(errors.New("redis error"))
	_, err = s.repo.Get(ctx, "char-1")
	s.Error(err)
	s.False(vtterr.IsNotFound(err))

	// Corrupt payload
	s.mock.ExpectGet("character:char-1").SetVal("{not json")
	_, err = s.repo.Get(ctx, "char-1")
	s.Error(err)
}

func (s *RedisRepoTestSuite) TestGetByCampaign() {
	ctx := context.Background()
	s.mock.MatchExpectationsInOrder(false)

	s.mock.ExpectSMembers("campaign:camp-1:characters").SetVal([]string{"c1", "c2", "stale"})
	s.mock.ExpectGet("character:c1").SetVal(s.storedJSON("c1", "owner-1", "camp-1", "Ylva", s.now, s.now))
	s.mock.ExpectGet("character:c2").SetVal(s.storedJSON("c2", "owner-2", "camp-1", "Aldo", s.now, s.now))
	s.mock.ExpectGet("character:stale").RedisNil()

	chars, err := s.repo.GetByCampaign(ctx, "camp-1")
	s.Require().NoError(err)
	s.Require().Len(chars, 2)
	s.Equal("Aldo", chars[0].Name)
	s.Equal("Ylva", chars[1].Name)
}

func (s *RedisRepoTestSuite) TestGetByOwner_DependencyError() {
	ctx := context.Background()
	s.mock.ExpectSMembers("owner:owner-1:characters").SetErr(errors.New("redis error"))

	_, err := s.repo.GetByOwner(ctx, "owner-1")
	s.Error(err)
}

func (s *RedisRepoTestSuite) TestUpdate() {
	ctx := context.Background()
	created := s.now.Add(-time.Hour)
	s.timeProvider.EXPECT().Now().Return(s.now)

	s.mock.ExpectGet("character:char-1").SetVal(s.storedJSON("char-1", "owner-1", "camp-1", "Ylva", created, created))

	char := testutils.CreateTestCharacter("char-1", "owner-1", "camp-2", "Ylva")
	s.mock.ExpectSet("character:char-1", s.storedJSON("char-1", "owner-1", "camp-2", "Ylva", created, s.now), 0).SetVal("OK")
	s.mock.ExpectSRem("campaign:camp-1:characters", "char-1").SetVal(1)
	s.mock.ExpectSAdd("campaign:camp-2:characters", "char-1").SetVal(1)

	err := s.repo.Update(ctx, char)
	s.NoError(err)
	s.Equal(created, char.CreatedAt)
	s.Equal(s.now, char.UpdatedAt)
}

func (s *RedisRepoTestSuite) TestUpdate_NotFound() {
	ctx := context.Background()
	s.mock.ExpectGet("character:char-1").RedisNil()

	err := s.repo.Update(ctx, testutils.CreateTestCharacter("char-1", "owner-1", "camp-1", "Ylva"))
	s.True(vtterr.IsNotFound(err))
}

func (s *RedisRepoTestSuite) TestDelete() {
	ctx := context.Background()

	s.mock.ExpectGet("character:char-1").SetVal(s.storedJSON("char-1", "owner-1", "camp-1", "Ylva", s.now, s.now))
	s.mock.ExpectDel("character:char-1").SetVal(1)
	s.mock.ExpectSRem("owner:owner-1:characters", "char-1").SetVal(1)
	s.mock.ExpectSRem("campaign:camp-1:characters", "char-1").SetVal(1)

	s.NoError(s.repo.Delete(ctx, "char-1"))

	s.mock.ExpectGet("character:char-1").RedisNil()
	err := s.repo.Delete(ctx, "char-1")
	s.True(vtterr.IsNotFound(err))
}
