package discord

import (
	"errors"
	"testing"

	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/character"
	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/shared"
	vtterr "github.com/KirkDiggler/symbaroum-vtt/internal/errors"
	"github.com/KirkDiggler/symbaroum-vtt/internal/repositories/chat"
	characterService "github.com/KirkDiggler/symbaroum-vtt/internal/services/character"
	mockcharacter "github.com/KirkDiggler/symbaroum-vtt/internal/services/character/mock"
	rollService "github.com/KirkDiggler/symbaroum-vtt/internal/services/roll"
	mockroll "github.com/KirkDiggler/symbaroum-vtt/internal/services/roll/mock"
	"github.com/KirkDiggler/symbaroum-vtt/internal/testutils"
	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type fakeResponder struct {
	responses []*discordgo.InteractionResponse
	err       error
}

func (f *fakeResponder) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	f.responses = append(f.responses, resp)
	return f.err
}

type fakeRegistrar struct {
	created []string
	failOn  string
}

func (f *fakeRegistrar) ApplicationCommandCreate(_ string, _ string, cmd *discordgo.ApplicationCommand, _ ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error) {
	if cmd.Name == f.failOn {
		return nil, errors.New("discord said no")
	}
	f.created = append(f.created, cmd.Name)
	return cmd, nil
}

type HandlerTestSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	characters *mockcharacter.MockService
	rolls      *mockroll.MockService
	responder  *fakeResponder
	handler    *Handler
}

func (s *HandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.characters = mockcharacter.NewMockService(s.ctrl)
	s.rolls = mockroll.NewMockService(s.ctrl)
	s.responder = &fakeResponder{}
	s.handler = &Handler{characters: s.characters, rolls: s.rolls}
}

func (s *HandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func command(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:      discordgo.InteractionApplicationCommand,
		ChannelID: "chan-1",
		Member: &discordgo.Member{
			Nick: "Ylva",
			User: &discordgo.User{ID: "user-1", Username: "ylva"},
		},
		Data: discordgo.ApplicationCommandInteractionData{Name: name, Options: opts},
	}}
}

func stringOpt(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionString, Value: value}
}

func intOpt(name string, value int) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionInteger, Value: float64(value)}
}

func boolOpt(name string, value bool) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: discordgo.ApplicationCommandOptionBoolean, Value: value}
}

func (s *HandlerTestSuite) lastResponse() *discordgo.InteractionResponseData {
	s.Require().NotEmpty(s.responder.responses)
	resp := s.responder.responses[len(s.responder.responses)-1]
	s.Equal(discordgo.InteractionResponseChannelMessageWithSource, resp.Type)
	return resp.Data
}

func (s *HandlerTestSuite) sheet(id, name string) *characterService.Sheet {
	return &characterService.Sheet{
		Character: testutils.CreateTestCharacter(id, "user-1", "chan-1", name),
		Derived:   &character.DerivedStats{MaxToughness: 16, Defense: 11},
	}
}

func (s *HandlerTestSuite) TestRoll() {
	s.rolls.EXPECT().
		RollFormula(gomock.Any(), &rollService.RollFormulaInput{
			Author:  rollService.Author{CampaignID: "chan-1", UserID: "user-1", Name: "Ylva"},
			Formula: "2d20kl1+3",
			Label:   "sneak",
		}).
		Return(&rollService.RollFormulaResult{
			Message: &chat.Message{Content: "sneak: 2d20kl1+3: [~~17~~ 4] +3 = **7**"},
		}, nil)

	s.handler.handle(s.responder, command("roll", stringOpt("formula", "2d20kl1+3"), stringOpt("label", "sneak")))

	data := s.lastResponse()
	s.Equal("sneak: 2d20kl1+3: [~~17~~ 4] +3 = **7**", data.Content)
	s.Zero(data.Flags)
}

func (s *HandlerTestSuite) TestRoll_MalformedFormulaIsEphemeral() {
	s.rolls.EXPECT().
		RollFormula(gomock.Any(), gomock.Any()).
		Return(nil, vtterr.Validationf("malformed dice formula %q", "2d"))

	s.handler.handle(s.responder, command("roll", stringOpt("formula", "2d")))

	data := s.lastResponse()
	s.Contains(data.Content, "malformed dice formula")
	s.Equal(discordgo.MessageFlagsEphemeral, data.Flags)
}

func (s *HandlerTestSuite) TestRoll_InternalErrorIsMasked() {
	s.rolls.EXPECT().
		RollFormula(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("redis: connection refused"))

	s.handler.handle(s.responder, command("roll", stringOpt("formula", "1d20")))

	data := s.lastResponse()
	s.NotContains(data.Content, "redis")
	s.Equal(discordgo.MessageFlagsEphemeral, data.Flags)
}

func (s *HandlerTestSuite) TestCheck_ByName() {
	s.characters.EXPECT().
		ListByCampaign(gomock.Any(), "chan-1").
		Return([]*characterService.Sheet{s.sheet("char-1", "Ylva"), s.sheet("char-2", "Brand")}, nil)
	s.rolls.EXPECT().
		AttributeTest(gomock.Any(), &rollService.AttributeTestInput{
			Author:           rollService.Author{CampaignID: "chan-1", UserID: "user-1", Name: "Ylva"},
			CharacterID:      "char-2",
			Attribute:        shared.AttributeVigilant,
			Modifier:         -2,
			WithDisadvantage: true,
		}).
		Return(&rollService.AttributeTestResult{
			Message: &chat.Message{Content: "Vigilant test: rolled 12 vs 5, failure"},
		}, nil)

	s.handler.handle(s.responder, command("check",
		stringOpt("character", "brand"),
		stringOpt("attribute", "vigilant"),
		intOpt("modifier", -2),
		boolOpt("disadvantage", true),
	))

	s.Equal("**Brand** Vigilant test: rolled 12 vs 5, failure", s.lastResponse().Content)
}

func (s *HandlerTestSuite) TestCheck_UnknownCharacter() {
	s.characters.EXPECT().
		ListByCampaign(gomock.Any(), "chan-1").
		Return([]*characterService.Sheet{s.sheet("char-1", "Ylva")}, nil)

	s.handler.handle(s.responder, command("check", stringOpt("character", "Brand"), stringOpt("attribute", "quick")))

	data := s.lastResponse()
	s.Contains(data.Content, `no character named "Brand"`)
	s.Equal(discordgo.MessageFlagsEphemeral, data.Flags)
}

func (s *HandlerTestSuite) TestCheck_AmbiguousName() {
	s.characters.EXPECT().
		ListByCampaign(gomock.Any(), "chan-1").
		Return([]*characterService.Sheet{s.sheet("char-1", "Ylva"), s.sheet("char-2", "ylva")}, nil)

	s.handler.handle(s.responder, command("check", stringOpt("character", "YLVA"), stringOpt("attribute", "quick")))

	s.Contains(s.lastResponse().Content, "use the character ID")
}

func (s *HandlerTestSuite) TestCharacters() {
	s.characters.EXPECT().
		ListByCampaign(gomock.Any(), "chan-1").
		Return([]*characterService.Sheet{s.sheet("char-1", "Ylva")}, nil)

	s.handler.handle(s.responder, command("characters"))

	data := s.lastResponse()
	s.Contains(data.Content, "**Ylva** (player) toughness 15/16, defense 11")
	s.Equal(discordgo.MessageFlagsEphemeral, data.Flags)
}

func (s *HandlerTestSuite) TestCharacters_Empty() {
	s.characters.EXPECT().ListByCampaign(gomock.Any(), "chan-1").Return(nil, nil)

	s.handler.handle(s.responder, command("characters"))

	s.Equal("No characters in this campaign yet.", s.lastResponse().Content)
}

func (s *HandlerTestSuite) TestIgnoresOtherInteractions() {
	i := command("roll")
	i.Type = discordgo.InteractionMessageComponent

	s.handler.handle(s.responder, i)
	s.handler.handle(s.responder, command("unknown"))

	s.Empty(s.responder.responses)
}

func (s *HandlerTestSuite) TestInteractionAuthor_DirectMessage() {
	i := command("roll")
	i.Member = nil
	i.User = &discordgo.User{ID: "user-2", Username: "brand", GlobalName: "Brand"}

	s.Equal(rollService.Author{CampaignID: "chan-1", UserID: "user-2", Name: "Brand"}, interactionAuthor(i))
}

func (s *HandlerTestSuite) TestRegisterCommands() {
	reg := &fakeRegistrar{}
	s.Require().NoError(registerCommands(reg, "app-1", "guild-1"))
	s.Equal([]string{"roll", "check", "characters"}, reg.created)

	reg = &fakeRegistrar{failOn: "check"}
	err := registerCommands(reg, "app-1", "guild-1")
	s.Require().Error(err)
	s.Contains(err.Error(), "check")
}

func (s *HandlerTestSuite) TestCommands_AttributeChoices() {
	check := Commands()[1]
	s.Len(check.Options[1].Choices, len(shared.Attributes))
}
