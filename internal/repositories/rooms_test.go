package repositories_test

import (
	"context"
	"io"
	"testing"

	"github.com/myrjola/lastalibi/internal/models"
	"github.com/myrjola/lastalibi/internal/repositories"
	"github.com/myrjola/lastalibi/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func newRoomRepo(t *testing.T) *repositories.RoomRepository {
	t.Helper()
	return repositories.NewRoomRepository(newTestDB(t), testhelpers.NewLogger(io.Discard))
}

func TestRoomCreateAndGet(t *testing.T) {
	repo := newRoomRepo(t)
	ctx := context.Background()

	room, err := repo.Create(ctx, "host-1", models.DifficultyMedium)
	require.NoError(t, err)
	require.Len(t, room.Code, 4)
	require.Equal(t, models.RoomStatusWaiting, room.Status)

	got, err := repo.Get(ctx, room.Code)
	require.NoError(t, err)
	require.Equal(t, room, got)

	_, err = repo.Get(ctx, "0000000")
	require.ErrorIs(t, err, repositories.ErrRoomNotFound)
}

func TestRoomJoinSeatsInOrder(t *testing.T) {
	repo := newRoomRepo(t)
	ctx := context.Background()

	room, err := repo.Create(ctx, "host-1", models.DifficultyEasy)
	require.NoError(t, err)

	host, err := repo.Join(ctx, room.Code, "Alice", "detective")
	require.NoError(t, err)
	require.Equal(t, 1, host.PlayerNumber)

	guest, err := repo.Join(ctx, room.Code, "Bob", "drifter")
	require.NoError(t, err)
	require.Equal(t, 2, guest.PlayerNumber)

	_, err = repo.Join(ctx, room.Code, "Carol", "witness")
	require.ErrorIs(t, err, repositories.ErrRoomFull)

	players, err := repo.Players(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, players, 2)
	require.Equal(t, "Alice", players[0].Name)
	require.Equal(t, "Bob", players[1].Name)
}

func TestRoomStartRejectsJoinsAndRestarts(t *testing.T) {
	repo := newRoomRepo(t)
	ctx := context.Background()

	room, err := repo.Create(ctx, "host-1", models.DifficultyEasy)
	require.NoError(t, err)

	require.NoError(t, repo.Start(ctx, room.ID, "game-1"))

	got, err := repo.Get(ctx, room.Code)
	require.NoError(t, err)
	require.Equal(t, models.RoomStatusPlaying, got.Status)
	require.Equal(t, "game-1", got.GameID)

	// A started room takes no more players and cannot start twice.
	_, err = repo.Join(ctx, room.Code, "Carol", "witness")
	require.ErrorIs(t, err, repositories.ErrRoomNotFound)
	require.ErrorIs(t, repo.Start(ctx, room.ID, "game-2"), repositories.ErrRoomNotFound)
}

func TestRoomFinish(t *testing.T) {
	repo := newRoomRepo(t)
	ctx := context.Background()

	room, err := repo.Create(ctx, "host-1", models.DifficultyEasy)
	require.NoError(t, err)
	require.NoError(t, repo.Start(ctx, room.ID, "game-1"))
	require.NoError(t, repo.Finish(ctx, room.ID))

	got, err := repo.Get(ctx, room.Code)
	require.NoError(t, err)
	require.Equal(t, models.RoomStatusFinished, got.Status)
}
