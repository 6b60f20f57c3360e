package roll_test

import (
	"context"
	"errors"
	"testing"

	mockdice "github.com/KirkDiggler/symbaroum-vtt/internal/dice/mock"
	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/rulebook/symbaroum/calculators"
	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/shared"
	vtterr "github.com/KirkDiggler/symbaroum-vtt/internal/errors"
	"github.com/KirkDiggler/symbaroum-vtt/internal/events"
	"github.com/KirkDiggler/symbaroum-vtt/internal/repositories/chat"
	mockchat "github.com/KirkDiggler/symbaroum-vtt/internal/repositories/chat/mock"
	"github.com/KirkDiggler/symbaroum-vtt/internal/services/character"
	mockcharacter "github.com/KirkDiggler/symbaroum-vtt/internal/services/character/mock"
	"github.com/KirkDiggler/symbaroum-vtt/internal/services/roll"
	"github.com/KirkDiggler/symbaroum-vtt/internal/sheetstate"
	"github.com/KirkDiggler/symbaroum-vtt/internal/testutils"
	mockuuid "github.com/KirkDiggler/symbaroum-vtt/internal/uuid/mocks"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type RollServiceTestSuite struct {
	suite.Suite
	ctrl             *gomock.Controller
	roller           *mockdice.ManualMockRoller
	chatRepository   *mockchat.MockRepository
	characterService *mockcharacter.MockService
	mockUUID         *mockuuid.MockGenerator
	bus              *events.Bus
	rolls            []*events.RollCompletedEvent
	service          roll.Service
	ctx              context.Context
	author           roll.Author
}

func (s *RollServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.roller = mockdice.NewManualMockRoller()
	s.chatRepository = mockchat.NewMockRepository(s.ctrl)
	s.characterService = mockcharacter.NewMockService(s.ctrl)
	s.mockUUID = mockuuid.NewMockGenerator(s.ctrl)
	s.bus = events.NewBus()
	s.rolls = nil
	s.ctx = context.Background()
	s.author = roll.Author{CampaignID: "camp-1", UserID: "user-1", Name: "Ylva"}

	s.bus.Subscribe(events.EventTypeRollCompleted, &events.ListenerFunc{
		ListenerID: "test",
		Fn: func(event events.Event) error {
			s.rolls = append(s.rolls, event.(*events.RollCompletedEvent))
			return nil
		},
	})

	s.service = roll.NewService(&roll.ServiceConfig{
		Roller:           s.roller,
		ChatRepository:   s.chatRepository,
		CharacterService: s.characterService,
		UUIDGenerator:    s.mockUUID,
		EventBus:         s.bus,
	})
}

func (s *RollServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestRollServiceSuite(t *testing.T) {
	suite.Run(t, new(RollServiceTestSuite))
}

func (s *RollServiceTestSuite) testSheet() *character.Sheet {
	char := testutils.CreateTestCharacter("char-1", "owner-1", "camp-1", "Ylva")
	return &character.Sheet{
		Character: char,
		Derived:   calculators.NewSymbaroumCalculator().Calculate(char.Sheet),
	}
}

func (s *RollServiceTestSuite) TestRollFormula_PostsAndEmits() {
	s.roller.SetRolls([]int{17, 4})
	s.mockUUID.EXPECT().New().Return("msg-1")
	s.chatRepository.EXPECT().Append(s.ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, msg *chat.Message) error {
			s.Equal("msg-1", msg.ID)
			s.Equal("camp-1", msg.CampaignID)
			s.Equal(chat.MessageKindRoll, msg.Kind)
			s.Equal("Sneak: 2d20kl1+3: [~~17~~ 4] +3 = **7**", msg.Content)
			s.Equal(7, *msg.Total)
			s.Empty(s.rolls, "event must follow the chat write")
			return nil
		})

	result, err := s.service.RollFormula(s.ctx, &roll.RollFormulaInput{
		Author:  s.author,
		Formula: "2d20KL1 + 3",
		Label:   "Sneak",
	})
	s.Require().NoError(err)
	s.Equal(7, result.Roll.Total)
	s.Equal([]int{17, 4}, result.Roll.Values())

	s.Require().Len(s.rolls, 1)
	s.Equal(events.RollKindFormula, s.rolls[0].Kind)
	s.Equal("msg-1", s.rolls[0].MessageID)
	s.Equal(7, s.rolls[0].Total)
}

func (s *RollServiceTestSuite) TestRollFormula_MalformedPersistsNothing() {
	_, err := s.service.RollFormula(s.ctx, &roll.RollFormulaInput{
		Author:  s.author,
		Formula: "2d",
	})
	s.True(vtterr.IsValidation(err))
	s.Empty(s.rolls)
	s.Equal(0, s.roller.Remaining())
}

func (s *RollServiceTestSuite) TestRollFormula_ChatFailureEmitsNothing() {
	s.roller.SetRolls([]int{5})
	s.mockUUID.EXPECT().New().Return("msg-1")
	s.chatRepository.EXPECT().Append(s.ctx, gomock.Any()).Return(errors.New("redis down"))

	_, err := s.service.RollFormula(s.ctx, &roll.RollFormulaInput{Author: s.author, Formula: "1d20"})
	s.Error(err)
	s.Empty(s.rolls)
}

func (s *RollServiceTestSuite) TestRollFormula_RequiresAuthor() {
	_, err := s.service.RollFormula(s.ctx, &roll.RollFormulaInput{Formula: "1d20"})
	s.True(vtterr.IsInvalidArgument(err))

	_, err = s.service.RollFormula(s.ctx, nil)
	s.True(vtterr.IsInvalidArgument(err))
}

func (s *RollServiceTestSuite) TestAttributeTest_UsesCharacterEffectiveAttribute() {
	s.roller.SetRolls([]int{16, 12})
	s.characterService.EXPECT().Get(s.ctx, "char-1").Return(s.testSheet(), nil)
	s.mockUUID.EXPECT().New().Return("msg-1")
	s.chatRepository.EXPECT().Append(s.ctx, gomock.Any()).Return(nil)

	result, err := s.service.AttributeTest(s.ctx, &roll.AttributeTestInput{
		Author:        roll.Author{UserID: "user-1"},
		CharacterID:   "char-1",
		Attribute:     shared.AttributeQuick,
		Modifier:      -1,
		WithAdvantage: true,
	})
	s.Require().NoError(err)
	s.Equal(12, result.Test.Target)
	s.Equal(12, result.Test.TotalRoll)
	s.True(result.Test.Success)
	s.Equal("camp-1", result.Message.CampaignID)
	s.Equal("Ylva", result.Message.AuthorName)
	s.Equal("char-1", result.Message.CharacterID)
	s.Contains(result.Message.Content, "Quick (target 12)")

	s.Require().Len(s.rolls, 1)
	s.Equal(events.RollKindAttributeTest, s.rolls[0].Kind)
}

func (s *RollServiceTestSuite) TestAttributeTest_DirectValue() {
	s.roller.SetRolls([]int{20})
	s.mockUUID.EXPECT().New().Return("msg-1")
	s.chatRepository.EXPECT().Append(s.ctx, gomock.Any()).Return(nil)

	result, err := s.service.AttributeTest(s.ctx, &roll.AttributeTestInput{
		Author:         s.author,
		AttributeValue: 3,
		Modifier:       -5,
	})
	s.Require().NoError(err)
	s.Equal(1, result.Test.Target)
	s.False(result.Test.Success)
	s.True(result.Test.Fumble)
}

func (s *RollServiceTestSuite) TestAttributeTest_UnknownAttribute() {
	_, err := s.service.AttributeTest(s.ctx, &roll.AttributeTestInput{
		Author:      s.author,
		CharacterID: "char-1",
		Attribute:   "luck",
	})
	s.True(vtterr.IsValidation(err))
}

func (s *RollServiceTestSuite) TestAttributeTest_MissingCharacter() {
	s.characterService.EXPECT().Get(s.ctx, "missing").Return(nil, vtterr.NotFound("character not found"))

	_, err := s.service.AttributeTest(s.ctx, &roll.AttributeTestInput{
		Author:      s.author,
		CharacterID: "missing",
		Attribute:   shared.AttributeQuick,
	})
	s.True(vtterr.IsNotFound(err))
	s.Empty(s.rolls)
}

func (s *RollServiceTestSuite) TestDamage_UsesTargetArmorAndApplies() {
	// 1d8 damage rolls 7, chain mail 1d6 rolls 2
	s.roller.SetRolls([]int{7, 2})
	target := s.testSheet()
	s.characterService.EXPECT().Get(s.ctx, "char-1").Return(target, nil)
	s.mockUUID.EXPECT().New().Return("msg-1")
	s.chatRepository.EXPECT().Append(s.ctx, gomock.Any()).Return(nil)

	updated := s.testSheet()
	updated.Character.Sheet.Toughness = 10
	s.characterService.EXPECT().
		UpdateSheet(s.ctx, "char-1", sheetstate.TakeDamage{Amount: 5}).
		Return(updated, nil)

	result, err := s.service.Damage(s.ctx, &roll.DamageInput{
		Author:        roll.Author{UserID: "gm"},
		TargetID:      "char-1",
		DamageFormula: "1d8",
		Apply:         true,
	})
	s.Require().NoError(err)
	s.Equal(2, result.Damage.Absorbed)
	s.Equal(5, result.Damage.Dealt)
	s.False(result.Damage.Painful)
	s.Equal(10, result.Target.Character.Sheet.Toughness)
	s.Contains(result.Message.Content, "Ylva takes Damage")

	s.Require().Len(s.rolls, 1)
	s.Equal(events.RollKindDamage, s.rolls[0].Kind)
	s.Equal(5, s.rolls[0].Total)
}

func (s *RollServiceTestSuite) TestDamage_ApplyNeedsTarget() {
	_, err := s.service.Damage(s.ctx, &roll.DamageInput{Author: s.author, DamageFormula: "1d8", Apply: true})
	s.True(vtterr.IsValidation(err))
}

func (s *RollServiceTestSuite) TestDamage_MalformedFormula() {
	_, err := s.service.Damage(s.ctx, &roll.DamageInput{Author: s.author, DamageFormula: "d"})
	s.True(vtterr.IsValidation(err))
	s.Empty(s.rolls)
}

func (s *RollServiceTestSuite) TestHistory() {
	msgs := []*chat.Message{{ID: "m1"}}
	s.chatRepository.EXPECT().List(s.ctx, "camp-1", 20).Return(msgs, nil)

	got, err := s.service.History(s.ctx, "camp-1", 20)
	s.Require().NoError(err)
	s.Equal(msgs, got)

	_, err = s.service.History(s.ctx, "", 20)
	s.True(vtterr.IsInvalidArgument(err))
}
