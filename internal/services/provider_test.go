package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	mockdice "github.com/KirkDiggler/symbaroum-vtt/internal/dice/mock"
	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/shared"
	"github.com/KirkDiggler/symbaroum-vtt/internal/domain/character"
	"github.com/KirkDiggler/symbaroum-vtt/internal/relay"
	mockrelay "github.com/KirkDiggler/symbaroum-vtt/internal/relay/mock"
	"github.com/KirkDiggler/symbaroum-vtt/internal/repositories/characters"
	"github.com/KirkDiggler/symbaroum-vtt/internal/services"
	characterService "github.com/KirkDiggler/symbaroum-vtt/internal/services/character"
	rollService "github.com/KirkDiggler/symbaroum-vtt/internal/services/roll"
	"github.com/KirkDiggler/symbaroum-vtt/internal/sheetstate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestProvider_EndToEndWithInMemoryDefaults(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	out := mockrelay.NewMockRelay(ctrl)
	roller := mockdice.NewManualMockRoller()

	provider := services.NewProvider(&services.ProviderConfig{
		Relay:  out,
		Roller: roller,
	})

	sheet, err := provider.CharacterService.Create(ctx, &characterService.CreateInput{
		OwnerID:    "user-1",
		CampaignID: "camp-1",
		Name:       "Ylva",
	})
	require.NoError(t, err)

	sheet, err = provider.CharacterService.UpdateSheet(ctx, sheet.Character.ID,
		sheetstate.SetAttribute{Attribute: shared.AttributeVigilant, Value: 14})
	require.NoError(t, err)
	assert.Equal(t, 14, sheet.Derived.Attribute(shared.AttributeVigilant))

	out.EXPECT().Post(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, post *relay.Post) error {
			assert.Equal(t, "camp-1", post.CampaignID)
			assert.Equal(t, "Ylva", post.Username)
			return nil
		})

	roller.SetRolls([]int{9})
	result, err := provider.RollService.AttributeTest(ctx, &rollService.AttributeTestInput{
		Author:      rollService.Author{UserID: "user-1"},
		CharacterID: sheet.Character.ID,
		Attribute:   shared.AttributeVigilant,
	})
	require.NoError(t, err)
	assert.True(t, result.Test.Success)

	provider.RollRelay.Wait()

	history, err := provider.RollService.History(ctx, "camp-1", 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, result.Message.ID, history[0].ID)
}

// slowRepository widens the gap between load and save the way a network
// round trip would
type slowRepository struct {
	characters.Repository
}

func (r *slowRepository) Get(ctx context.Context, id string) (*character.Character, error) {
	time.Sleep(5 * time.Millisecond)
	return r.Repository.Get(ctx, id)
}

func TestProvider_ConcurrentDamageAllLands(t *testing.T) {
	ctx := context.Background()
	roller := mockdice.NewManualMockRoller()

	provider := services.NewProvider(&services.ProviderConfig{
		CharacterRepository: &slowRepository{Repository: characters.NewInMemoryRepository()},
		Roller:              roller,
	})

	sheet, err := provider.CharacterService.Create(ctx, &characterService.CreateInput{
		OwnerID:    "gm",
		CampaignID: "camp-1",
		Name:       "Brand",
	})
	require.NoError(t, err)
	require.Equal(t, 10, sheet.Character.Sheet.Toughness)

	const hits = 8
	roller.SetRolls([]int{1, 1, 1, 1, 1, 1, 1, 1})

	var wg sync.WaitGroup
	errs := make(chan error, hits)
	for i := 0; i < hits; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := provider.RollService.Damage(ctx, &rollService.DamageInput{
				Author:        rollService.Author{UserID: "gm"},
				TargetID:      sheet.Character.ID,
				DamageFormula: "1d6",
				Apply:         true,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	provider.RollRelay.Wait()

	after, err := provider.CharacterService.Get(ctx, sheet.Character.ID)
	require.NoError(t, err)
	assert.Equal(t, 10-hits, after.Character.Sheet.Toughness)
}
