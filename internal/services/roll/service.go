package roll

//go:generate mockgen -destination=mock/mock_service.go -package=mockroll -source=service.go

import (
	"context"
	"log"
	"strings"

	"github.com/KirkDiggler/symbaroum-vtt/internal/dice"
	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/rulebook/symbaroum/checks"
	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/shared"
	vtterr "github.com/KirkDiggler/symbaroum-vtt/internal/errors"
	"github.com/KirkDiggler/symbaroum-vtt/internal/events"
	"github.com/KirkDiggler/symbaroum-vtt/internal/repositories/chat"
	"github.com/KirkDiggler/symbaroum-vtt/internal/services/character"
	"github.com/KirkDiggler/symbaroum-vtt/internal/sheetstate"
	"github.com/KirkDiggler/symbaroum-vtt/internal/uuid"
)

// Service rolls dice on behalf of players, writes the results to the
// campaign chat and announces them on the event bus
type Service interface {
	// RollFormula rolls a free-form dice formula
	RollFormula(ctx context.Context, input *RollFormulaInput) (*RollFormulaResult, error)

	// AttributeTest rolls a d20 under an attribute, optionally read from a character
	AttributeTest(ctx context.Context, input *AttributeTestInput) (*AttributeTestResult, error)

	// Damage rolls damage against protection, optionally applying it to a character
	Damage(ctx context.Context, input *DamageInput) (*DamageResult, error)

	// History returns the newest chat messages of a campaign
	History(ctx context.Context, campaignID string, limit int) ([]*chat.Message, error)
}

// Author identifies who rolled and where the result is posted
type Author struct {
	CampaignID string `json:"campaign_id"`
	UserID     string `json:"user_id"`
	Name       string `json:"name,omitempty"`
}

// RollFormulaInput contains data for a formula roll
type RollFormulaInput struct {
	Author
	Formula     string `json:"formula"`
	Label       string `json:"label,omitempty"`
	CharacterID string `json:"character_id,omitempty"`
}

// RollFormulaResult is a posted formula roll
type RollFormulaResult struct {
	Roll    *dice.DiceRoll `json:"roll"`
	Message *chat.Message  `json:"message"`
}

// AttributeTestInput contains data for an attribute test. With a CharacterID
// the effective attribute is read from that character's derived stats;
// otherwise AttributeValue is used as given.
type AttributeTestInput struct {
	Author
	CharacterID      string           `json:"character_id,omitempty"`
	Attribute        shared.Attribute `json:"attribute,omitempty"`
	AttributeValue   int              `json:"attribute_value,omitempty"`
	Modifier         int              `json:"modifier"`
	WithAdvantage    bool             `json:"with_advantage"`
	WithDisadvantage bool             `json:"with_disadvantage"`
}

// AttributeTestResult is a posted attribute test
type AttributeTestResult struct {
	Test    *checks.AttributeTestResult `json:"test"`
	Message *chat.Message               `json:"message"`
}

// DamageInput contains data for a damage roll. With a TargetID the
// target's equipped armor and pain threshold are used unless
// ProtectionFormula overrides the armor.
type DamageInput struct {
	Author
	TargetID          string `json:"target_id,omitempty"`
	DamageFormula     string `json:"damage_formula"`
	ProtectionFormula string `json:"protection_formula,omitempty"`
	ProtectionPenalty int    `json:"protection_penalty,omitempty"`
	// Apply subtracts dealt damage from the target's toughness
	Apply bool `json:"apply,omitempty"`
}

// DamageResult is a posted damage roll
type DamageResult struct {
	Damage  *checks.DamageResult `json:"damage"`
	Message *chat.Message        `json:"message"`
	Target  *character.Sheet     `json:"target,omitempty"`
}

type service struct {
	roller           dice.Roller
	chatRepository   chat.Repository
	characterService character.Service
	uuidGenerator    uuid.Generator
	bus              *events.Bus
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Roller           dice.Roller       // Optional, defaults to dice.NewRandomRoller
	ChatRepository   chat.Repository   // Required
	CharacterService character.Service // Required
	UUIDGenerator    uuid.Generator    // Optional, will use default if nil
	EventBus         *events.Bus       // Optional, no events when nil
}

// NewService creates a new roll service
func NewService(cfg *ServiceConfig) Service {
	if cfg.ChatRepository == nil {
		panic("chat repository is required")
	}
	if cfg.CharacterService == nil {
		panic("character service is required")
	}

	svc := &service{
		roller:           cfg.Roller,
		chatRepository:   cfg.ChatRepository,
		characterService: cfg.CharacterService,
		uuidGenerator:    cfg.UUIDGenerator,
		bus:              cfg.EventBus,
	}
	if svc.roller == nil {
		svc.roller = dice.NewRandomRoller()
	}
	if svc.uuidGenerator == nil {
		svc.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}
	return svc
}

// RollFormula rolls a formula and posts it. A malformed formula is a
// validation error and nothing is written.
func (s *service) RollFormula(ctx context.Context, input *RollFormulaInput) (*RollFormulaResult, error) {
	if input == nil {
		return nil, vtterr.InvalidArgument("input cannot be nil")
	}
	if err := validateAuthor(&input.Author); err != nil {
		return nil, err
	}

	result, err := dice.Roll(input.Formula, s.roller)
	if err != nil {
		return nil, err
	}

	content := dice.Format(result)
	if label := strings.TrimSpace(input.Label); label != "" {
		content = label + ": " + content
	}

	msg, err := s.post(ctx, &input.Author, input.CharacterID, chat.MessageKindRoll, content, result, result.Total)
	if err != nil {
		return nil, err
	}

	return &RollFormulaResult{Roll: result, Message: msg}, nil
}

// AttributeTest rolls a test and posts it
func (s *service) AttributeTest(ctx context.Context, input *AttributeTestInput) (*AttributeTestResult, error) {
	if input == nil {
		return nil, vtterr.InvalidArgument("input cannot be nil")
	}

	testInput := &checks.AttributeTestInput{
		AttributeValue:   input.AttributeValue,
		Modifier:         input.Modifier,
		WithAdvantage:    input.WithAdvantage,
		WithDisadvantage: input.WithDisadvantage,
	}

	author := input.Author
	if input.CharacterID != "" {
		if !input.Attribute.Valid() {
			return nil, vtterr.Validationf("unknown attribute %q", input.Attribute)
		}
		sheet, err := s.characterService.Get(ctx, input.CharacterID)
		if err != nil {
			return nil, err
		}
		if author.CampaignID == "" {
			author.CampaignID = sheet.Character.CampaignID
		}
		if author.Name == "" {
			author.Name = sheet.Character.Name
		}
		testInput.AttributeValue = sheet.Derived.Attribute(input.Attribute)
		testInput.Label = input.Attribute.Display()
	} else if input.Attribute != shared.AttributeNone {
		if !input.Attribute.Valid() {
			return nil, vtterr.Validationf("unknown attribute %q", input.Attribute)
		}
		testInput.Label = input.Attribute.Display()
	}

	if err := validateAuthor(&author); err != nil {
		return nil, err
	}

	test, err := checks.RollAttributeTest(testInput, s.roller)
	if err != nil {
		return nil, vtterr.Wrap(err, "failed to roll attribute test")
	}

	content := checks.FormatAttributeTest(test)
	msg, err := s.post(ctx, &author, input.CharacterID, chat.MessageKindAttributeTest, content, test.Roll, test.TotalRoll)
	if err != nil {
		return nil, err
	}

	return &AttributeTestResult{Test: test, Message: msg}, nil
}

// Damage rolls damage and protection, posts it, and optionally lowers the
// target's toughness by the damage dealt
func (s *service) Damage(ctx context.Context, input *DamageInput) (*DamageResult, error) {
	if input == nil {
		return nil, vtterr.InvalidArgument("input cannot be nil")
	}
	if input.Apply && input.TargetID == "" {
		return nil, vtterr.Validation("a target is required to apply damage")
	}

	damageInput := &checks.DamageInput{
		DamageFormula:     input.DamageFormula,
		ProtectionFormula: input.ProtectionFormula,
		ProtectionPenalty: input.ProtectionPenalty,
	}

	author := input.Author
	var target *character.Sheet
	if input.TargetID != "" {
		sheet, err := s.characterService.Get(ctx, input.TargetID)
		if err != nil {
			return nil, err
		}
		target = sheet
		if author.CampaignID == "" {
			author.CampaignID = sheet.Character.CampaignID
		}
		if damageInput.ProtectionFormula == "" {
			damageInput.ProtectionFormula = armorProtection(sheet)
		}
		damageInput.PainThreshold = sheet.Derived.PainThreshold
	}

	if err := validateAuthor(&author); err != nil {
		return nil, err
	}

	resolved, err := checks.ResolveDamage(damageInput, s.roller)
	if err != nil {
		return nil, err
	}

	content := checks.FormatDamage(resolved)
	if target != nil {
		content = target.Character.Name + " takes " + content
	}

	msg, err := s.post(ctx, &author, input.TargetID, chat.MessageKindDamage, content, resolved.Damage, resolved.Dealt)
	if err != nil {
		return nil, err
	}

	result := &DamageResult{Damage: resolved, Message: msg, Target: target}
	if input.Apply && resolved.Dealt > 0 {
		updated, err := s.characterService.UpdateSheet(ctx, input.TargetID,
			sheetstate.TakeDamage{Amount: resolved.Dealt})
		if err != nil {
			return nil, vtterr.Wrap(err, "failed to apply damage")
		}
		result.Target = updated
	}

	return result, nil
}

// History returns recent chat messages
func (s *service) History(ctx context.Context, campaignID string, limit int) ([]*chat.Message, error) {
	if campaignID == "" {
		return nil, vtterr.InvalidArgument("campaign ID is required")
	}
	return s.chatRepository.List(ctx, campaignID, limit)
}

// post appends the chat message first; the event only fires once the
// message is stored
func (s *service) post(ctx context.Context, author *Author, characterID string, kind chat.MessageKind, content string, roll *dice.DiceRoll, total int) (*chat.Message, error) {
	msg := &chat.Message{
		ID:          s.uuidGenerator.New(),
		CampaignID:  author.CampaignID,
		AuthorID:    author.UserID,
		AuthorName:  author.Name,
		CharacterID: characterID,
		Kind:        kind,
		Content:     content,
		Roll:        roll,
		Total:       &total,
	}

	if err := s.chatRepository.Append(ctx, msg); err != nil {
		return nil, vtterr.Wrap(err, "failed to post roll to chat")
	}

	if s.bus != nil {
		event := events.NewRollCompletedEvent(msg.CampaignID, rollKind(kind))
		event.MessageID = msg.ID
		event.AuthorID = msg.AuthorID
		event.AuthorName = msg.AuthorName
		event.CharacterID = characterID
		event.Content = content
		event.Total = total
		if err := s.bus.Emit(event); err != nil {
			log.Printf("Roll: event for message %s failed: %v", msg.ID, err)
		}
	}

	return msg, nil
}

func validateAuthor(author *Author) error {
	switch {
	case author.CampaignID == "":
		return vtterr.InvalidArgument("campaign ID is required")
	case author.UserID == "":
		return vtterr.InvalidArgument("user ID is required")
	}
	return nil
}

// armorProtection returns the protection formula of the first equipped armor
func armorProtection(sheet *character.Sheet) string {
	if sheet.Character.Sheet == nil {
		return ""
	}
	for _, item := range sheet.Character.Sheet.Equipment {
		if item.Equipped && item.Kind == shared.ItemKindArmor && item.Protection != "" {
			return item.Protection
		}
	}
	return ""
}

func rollKind(kind chat.MessageKind) events.RollKind {
	switch kind {
	case chat.MessageKindAttributeTest:
		return events.RollKindAttributeTest
	case chat.MessageKindDamage:
		return events.RollKindDamage
	default:
		return events.RollKindFormula
	}
}
