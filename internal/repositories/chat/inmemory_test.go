package chat

import (
	"context"
	"fmt"
	"testing"

	vtterr "github.com/KirkDiggler/symbaroum-vtt/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textMessage(id, campaignID string) *Message {
	return &Message{ID: id, CampaignID: campaignID, AuthorID: "user-1", Kind: MessageKindText, Content: id}
}

func TestInMemoryRepository_AppendAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository(3)

	for i := 1; i <= 5; i++ {
		require.NoError(t, repo.Append(ctx, textMessage(fmt.Sprintf("m%d", i), "camp-1")))
	}
	require.NoError(t, repo.Append(ctx, textMessage("other", "camp-2")))

	all, err := repo.List(ctx, "camp-1", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "m3", all[0].ID)
	assert.Equal(t, "m5", all[2].ID)
	assert.False(t, all[0].CreatedAt.IsZero())

	newest, err := repo.List(ctx, "camp-1", 2)
	require.NoError(t, err)
	require.Len(t, newest, 2)
	assert.Equal(t, "m4", newest[0].ID)

	empty, err := repo.List(ctx, "camp-9", 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestInMemoryRepository_Validation(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository(0)

	assert.True(t, vtterr.IsInvalidArgument(repo.Append(ctx, nil)))
	assert.True(t, vtterr.IsInvalidArgument(repo.Append(ctx, &Message{CampaignID: "c", Kind: MessageKindText})))
	assert.True(t, vtterr.IsInvalidArgument(repo.Append(ctx, &Message{ID: "m", Kind: MessageKindText})))
	assert.True(t, vtterr.IsInvalidArgument(repo.Append(ctx, &Message{ID: "m", CampaignID: "c"})))

	_, err := repo.List(ctx, "", 1)
	assert.True(t, vtterr.IsInvalidArgument(err))
}

func TestInMemoryRepository_ListReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository(10)
	require.NoError(t, repo.Append(ctx, textMessage("m1", "camp-1")))

	got, err := repo.List(ctx, "camp-1", 0)
	require.NoError(t, err)
	got[0].Content = "changed"

	again, err := repo.List(ctx, "camp-1", 0)
	require.NoError(t, err)
	assert.Equal(t, "m1", again[0].Content)
}
