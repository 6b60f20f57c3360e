package discord

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/shared"
	vtterr "github.com/KirkDiggler/symbaroum-vtt/internal/errors"
	"github.com/KirkDiggler/symbaroum-vtt/internal/services"
	characterService "github.com/KirkDiggler/symbaroum-vtt/internal/services/character"
	rollService "github.com/KirkDiggler/symbaroum-vtt/internal/services/roll"
	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/cases"
)

const commandTimeout = 5 * time.Second

// responder is the part of *discordgo.Session the handler answers through
type responder interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
}

// commandRegistrar is the part of *discordgo.Session used to register commands
type commandRegistrar interface {
	ApplicationCommandCreate(appID string, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
}

// Handler handles Discord slash commands. The channel a command is used in
// is the campaign it belongs to.
type Handler struct {
	characters characterService.Service
	rolls      rollService.Service
}

// HandlerConfig holds configuration for the Discord handler
type HandlerConfig struct {
	ServiceProvider *services.Provider
}

// NewHandler creates a new Discord handler
func NewHandler(cfg *HandlerConfig) *Handler {
	if cfg.ServiceProvider == nil {
		panic("service provider is required")
	}
	return &Handler{
		characters: cfg.ServiceProvider.CharacterService,
		rolls:      cfg.ServiceProvider.RollService,
	}
}

// Commands returns the slash commands this handler serves
func Commands() []*discordgo.ApplicationCommand {
	attributeChoices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(shared.Attributes))
	for _, attr := range shared.Attributes {
		attributeChoices = append(attributeChoices, &discordgo.ApplicationCommandOptionChoice{
			Name:  attr.Display(),
			Value: string(attr),
		})
	}

	return []*discordgo.ApplicationCommand{
		{
			Name:        "roll",
			Description: "Roll dice, e.g. 2d20kl1+3",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "formula",
					Description: "Dice formula",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "label",
					Description: "What the roll is for (optional)",
				},
			},
		},
		{
			Name:        "check",
			Description: "Roll an attribute test for a character",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "character",
					Description: "Character name or ID",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "attribute",
					Description: "Attribute to test",
					Required:    true,
					Choices:     attributeChoices,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "modifier",
					Description: "Modifier added to the target",
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "advantage",
					Description: "Roll two dice and keep the lowest",
				},
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "disadvantage",
					Description: "Roll two dice and keep the highest",
				},
			},
		},
		{
			Name:        "characters",
			Description: "List the characters in this channel's campaign",
		},
	}
}

// RegisterCommands registers all slash commands
func (h *Handler) RegisterCommands(s *discordgo.Session, guildID string) error {
	return registerCommands(s, s.State.User.ID, guildID)
}

func registerCommands(r commandRegistrar, appID, guildID string) error {
	for _, cmd := range Commands() {
		if _, err := r.ApplicationCommandCreate(appID, guildID, cmd); err != nil {
			return fmt.Errorf("failed to create command %s: %w", cmd.Name, err)
		}
		log.Printf("Registered command: %s", cmd.Name)
	}
	return nil
}

// HandleInteraction handles all Discord interactions
func (h *Handler) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	h.handle(s, i)
}

func (h *Handler) handle(r responder, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	data := i.ApplicationCommandData()
	var (
		content   string
		ephemeral bool
		err       error
	)
	switch data.Name {
	case "roll":
		content, err = h.handleRoll(ctx, i, optionMap(data.Options))
	case "check":
		content, err = h.handleCheck(ctx, i, optionMap(data.Options))
	case "characters":
		content, err = h.handleCharacters(ctx, i)
		ephemeral = true
	default:
		return
	}

	if err != nil {
		content, ephemeral = errorContent(err), true
		if vtterr.GetCode(err) == vtterr.CodeUnknown || vtterr.GetCode(err) == vtterr.CodeInternal {
			log.Printf("Discord: /%s failed: %v", data.Name, err)
		}
	}

	respData := &discordgo.InteractionResponseData{Content: content}
	if ephemeral {
		respData.Flags = discordgo.MessageFlagsEphemeral
	}
	if rerr := r.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: respData,
	}); rerr != nil {
		log.Printf("Error responding to /%s command: %v", data.Name, rerr)
	}
}

func (h *Handler) handleRoll(ctx context.Context, i *discordgo.InteractionCreate, opts options) (string, error) {
	result, err := h.rolls.RollFormula(ctx, &rollService.RollFormulaInput{
		Author:  interactionAuthor(i),
		Formula: opts.String("formula"),
		Label:   opts.String("label"),
	})
	if err != nil {
		return "", err
	}
	return result.Message.Content, nil
}

func (h *Handler) handleCheck(ctx context.Context, i *discordgo.InteractionCreate, opts options) (string, error) {
	author := interactionAuthor(i)

	sheet, err := h.findCharacter(ctx, author.CampaignID, opts.String("character"))
	if err != nil {
		return "", err
	}

	result, err := h.rolls.AttributeTest(ctx, &rollService.AttributeTestInput{
		Author:           author,
		CharacterID:      sheet.Character.ID,
		Attribute:        shared.Attribute(opts.String("attribute")),
		Modifier:         opts.Int("modifier"),
		WithAdvantage:    opts.Bool("advantage"),
		WithDisadvantage: opts.Bool("disadvantage"),
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("**%s** %s", sheet.Character.Name, result.Message.Content), nil
}

func (h *Handler) handleCharacters(ctx context.Context, i *discordgo.InteractionCreate) (string, error) {
	sheets, err := h.characters.ListByCampaign(ctx, i.ChannelID)
	if err != nil {
		return "", err
	}
	if len(sheets) == 0 {
		return "No characters in this campaign yet.", nil
	}

	var b strings.Builder
	for _, sheet := range sheets {
		fmt.Fprintf(&b, "• **%s** (%s) toughness %d/%d, defense %d\n",
			sheet.Character.Name, sheet.Character.Kind,
			sheet.Character.Sheet.Toughness, sheet.Derived.MaxToughness, sheet.Derived.Defense)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// findCharacter resolves a character by ID or case-insensitive name within a campaign
func (h *Handler) findCharacter(ctx context.Context, campaignID, ref string) (*characterService.Sheet, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, vtterr.Validation("character is required")
	}

	sheets, err := h.characters.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	fold := cases.Fold()
	want := fold.String(ref)

	var matches []*characterService.Sheet
	for _, sheet := range sheets {
		if sheet.Character.ID == ref {
			return sheet, nil
		}
		if fold.String(sheet.Character.Name) == want {
			matches = append(matches, sheet)
		}
	}

	switch len(matches) {
	case 0:
		return nil, vtterr.NotFoundf("no character named %q in this campaign", ref)
	case 1:
		return matches[0], nil
	default:
		return nil, vtterr.Validationf("%d characters are named %q, use the character ID", len(matches), ref)
	}
}

func errorContent(err error) string {
	switch vtterr.GetCode(err) {
	case vtterr.CodeValidation, vtterr.CodeInvalidArgument, vtterr.CodeNotFound:
		return "❌ " + err.Error()
	default:
		return "❌ Something went wrong, please try again."
	}
}
