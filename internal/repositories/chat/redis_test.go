package chat

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/KirkDiggler/symbaroum-vtt/internal/clock/mocks"
	"github.com/KirkDiggler/symbaroum-vtt/internal/dice"
	mockdice "github.com/KirkDiggler/symbaroum-vtt/internal/dice/mock"
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
		MaxMessages:  50,
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

func (s *RedisRepoTestSuite) rollMessage() *Message {
	roller := mockdice.NewManualMockRoller()
	roller.SetRolls([]int{4, 6})
	roll := dice.ParseDiceRoll("2d6+1", roller)
	s.Require().NotNil(roll)
	return &Message{
		ID:         "msg-1",
		CampaignID: "camp-1",
		AuthorID:   "user-1",
		Kind:       MessageKindRoll,
		Content:    dice.Format(roll),
		Roll:       roll,
		Total:      &roll.Total,
	}
}

func (s *RedisRepoTestSuite) TestAppend() {
	ctx := context.Background()
	s.timeProvider.EXPECT().Now().Return(s.now)

	msg := s.rollMessage()
	expected := *msg
	expected.CreatedAt = s.now
	jsonData, err := json.Marshal(&expected)
	s.Require().NoError(err)

	s.mock.ExpectRPush("campaign:camp-1:chat", string(jsonData)).SetVal(1)
	s.mock.ExpectLTrim("campaign:camp-1:chat", -50, -1).SetVal("OK")

	s.NoError(s.repo.Append(ctx, msg))
	s.Equal(s.now, msg.CreatedAt)
}

func (s *RedisRepoTestSuite) TestAppend_InputValidation() {
	s.Error(s.repo.Append(context.Background(), &Message{ID: "m"}))
}

func (s *RedisRepoTestSuite) TestList() {
	ctx := context.Background()
	msg := s.rollMessage()
	msg.CreatedAt = s.now
	jsonData, err := json.Marshal(msg)
	s.Require().NoError(err)

	s.mock.ExpectLRange("campaign:camp-1:chat", -20, -1).SetVal([]string{string(jsonData)})

	msgs, err := s.repo.List(ctx, "camp-1", 20)
	s.Require().NoError(err)
	s.Require().Len(msgs, 1)
	s.Equal(11, msgs[0].Roll.Total)
	s.Equal([]int{4, 6}, msgs[0].Roll.Values())
	s.Equal(11, *msgs[0].Total)

	s.mock.ExpectLRange("campaign:camp-1:chat", 0, -1).SetErr(errors.New("redis error"))
	_, err = s.repo.List(ctx, "camp-1", 0)
	s.Error(err)

	s.mock.ExpectLRange("campaign:camp-1:chat", 0, -1).SetVal([]string{"{bad"})
	_, err = s.repo.List(ctx, "camp-1", 0)
	s.Error(err)
}
