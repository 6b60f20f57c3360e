package characters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/KirkDiggler/symbaroum-vtt/internal/clock"
	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/character"
	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/shared"
	vtterr "github.com/KirkDiggler/symbaroum-vtt/internal/errors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// CharacterData represents the serialized form of a character in Redis
type CharacterData struct {
	ID         string               `json:"id"`
	OwnerID    string               `json:"owner_id"`
	CampaignID string               `json:"campaign_id"`
	Name       string               `json:"name"`
	Kind       shared.CharacterKind `json:"kind"`
	Sheet      *character.SheetData `json:"sheet"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

// redisRepo implements the Repository interface using Redis
type redisRepo struct {
	client redis.UniversalClient
	clock  clock.TimeProvider
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client       redis.UniversalClient
	TimeProvider clock.TimeProvider
}

// NewRedis creates a new Redis-backed character repository
func NewRedis(client redis.UniversalClient) Repository {
	return NewRedisRepository(&RedisRepoConfig{Client: client})
}

// NewRedisRepository creates a new Redis-backed character repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil {
		panic("RedisRepoConfig cannot be nil")
	}
	if cfg.Client == nil {
		panic("Redis client cannot be nil")
	}
	if cfg.TimeProvider == nil {
		cfg.TimeProvider = clock.System()
	}

	return &redisRepo{
		client: cfg.Client,
		clock:  cfg.TimeProvider,
	}
}

func (r *redisRepo) key(id string) string {
	return fmt.Sprintf("character:%s", id)
}

func (r *redisRepo) ownerCharactersKey(ownerID string) string {
	return fmt.Sprintf("owner:%s:characters", ownerID)
}

func (r *redisRepo) campaignCharactersKey(campaignID string) string {
	return fmt.Sprintf("campaign:%s:characters", campaignID)
}

// Create stores a new character
func (r *redisRepo) Create(ctx context.Context, char *character.Character) error {
	if err := validateForWrite(char); err != nil {
		return err
	}

	data := toCharacterData(char)
	data.CreatedAt = r.clock.Now()
	data.UpdatedAt = data.CreatedAt

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal character: %w", err)
	}

	// SETNX claims the ID; indexes are only written by the winner
	created, err := r.client.SetNX(ctx, r.key(char.ID), string(jsonData), 0).Result()
	if err != nil {
		return fmt.Errorf("failed to create character: %w", err)
	}
	if !created {
		return vtterr.AlreadyExistsf("character with ID '%s' already exists", char.ID).
			WithMeta("character_id", char.ID)
	}

	pipe := r.client.Pipeline()
	pipe.SAdd(ctx, r.ownerCharactersKey(char.OwnerID), char.ID)
	pipe.SAdd(ctx, r.campaignCharactersKey(char.CampaignID), char.ID)
	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to index character: %w", err)
	}

	char.CreatedAt = data.CreatedAt
	char.UpdatedAt = data.UpdatedAt
	return nil
}

// Get retrieves a character by ID
func (r *redisRepo) Get(ctx context.Context, id string) (*character.Character, error) {
	if id == "" {
		return nil, vtterr.InvalidArgument("character ID is required")
	}

	data, err := r.getData(ctx, id)
	if err != nil {
		return nil, err
	}
	return fromCharacterData(data), nil
}

// GetByOwner retrieves all characters for a specific owner
func (r *redisRepo) GetByOwner(ctx context.Context, ownerID string) ([]*character.Character, error) {
	if ownerID == "" {
		return nil, vtterr.InvalidArgument("owner ID is required")
	}
	return r.getIndexed(ctx, r.ownerCharactersKey(ownerID))
}

// GetByCampaign retrieves all characters in a campaign
func (r *redisRepo) GetByCampaign(ctx context.Context, campaignID string) ([]*character.Character, error) {
	if campaignID == "" {
		return nil, vtterr.InvalidArgument("campaign ID is required")
	}
	return r.getIndexed(ctx, r.campaignCharactersKey(campaignID))
}

// Update updates an existing character
func (r *redisRepo) Update(ctx context.Context, char *character.Character) error {
	if err := validateForWrite(char); err != nil {
		return err
	}

	existing, err := r.getData(ctx, char.ID)
	if err != nil {
		return err
	}

	data := toCharacterData(char)
	data.CreatedAt = existing.CreatedAt
	data.UpdatedAt = r.clock.Now()

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal character: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(char.ID), string(jsonData), 0)
	if existing.OwnerID != char.OwnerID {
		pipe.SRem(ctx, r.ownerCharactersKey(existing.OwnerID), char.ID)
		pipe.SAdd(ctx, r.ownerCharactersKey(char.OwnerID), char.ID)
	}
	if existing.CampaignID != char.CampaignID {
		pipe.SRem(ctx, r.campaignCharactersKey(existing.CampaignID), char.ID)
		pipe.SAdd(ctx, r.campaignCharactersKey(char.CampaignID), char.ID)
	}
	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to update character: %w", err)
	}

	char.CreatedAt = data.CreatedAt
	char.UpdatedAt = data.UpdatedAt
	return nil
}

// Delete removes a character
func (r *redisRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return vtterr.InvalidArgument("character ID is required")
	}

	existing, err := r.getData(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.key(id))
	pipe.SRem(ctx, r.ownerCharactersKey(existing.OwnerID), id)
	pipe.SRem(ctx, r.campaignCharactersKey(existing.CampaignID), id)
	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}
	return nil
}

func (r *redisRepo) getData(ctx context.Context, id string) (*CharacterData, error) {
	jsonData, err := r.client.Get(ctx, r.key(id)).Result()
	if err == redis.Nil {
		return nil, vtterr.NotFoundf("character with ID '%s' not found", id).
			WithMeta("character_id", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get character: %w", err)
	}

	var data CharacterData
	if err := json.Unmarshal([]byte(jsonData), &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal character: %w", err)
	}
	return &data, nil
}

// getIndexed loads every character in an index set concurrently. IDs left
// behind in the set after a partial delete are skipped.
func (r *redisRepo) getIndexed(ctx context.Context, indexKey string) ([]*character.Character, error) {
	ids, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list character IDs: %w", err)
	}

	loaded := make([]*character.Character, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			char, err := r.Get(gctx, id)
			if vtterr.IsNotFound(err) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to get character %s: %w", id, err)
			}
			loaded[i] = char
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]*character.Character, 0, len(loaded))
	for _, char := range loaded {
		if char != nil {
			result = append(result, char)
		}
	}
	sortCharacters(result)
	return result, nil
}

func toCharacterData(char *character.Character) *CharacterData {
	return &CharacterData{
		ID:         char.ID,
		OwnerID:    char.OwnerID,
		CampaignID: char.CampaignID,
		Name:       char.Name,
		Kind:       char.Kind,
		Sheet:      char.Sheet,
		CreatedAt:  char.CreatedAt,
		UpdatedAt:  char.UpdatedAt,
	}
}

func fromCharacterData(data *CharacterData) *character.Character {
	sheet := data.Sheet
	if sheet == nil {
		sheet = character.NewDefaultSheet()
	}
	return &character.Character{
		ID:         data.ID,
		OwnerID:    data.OwnerID,
		CampaignID: data.CampaignID,
		Name:       data.Name,
		Kind:       data.Kind,
		Sheet:      sheet,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}
