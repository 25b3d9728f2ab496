package repositories

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/myrjola/lastalibi/internal/errors"
	"github.com/myrjola/lastalibi/internal/models"
	"github.com/myrjola/lastalibi/internal/random"
	"github.com/myrjola/lastalibi/internal/sqlite"
)

var (
	ErrRoomNotFound = errors.NewSentinel("room not found")
	// ErrRoomFull means both seats of the room are already taken.
	ErrRoomFull = errors.NewSentinel("room is full")
)

const (
	roomCodeLength uint = 4
	// codeAttempts bounds retries when a generated room code collides with a
	// live room.
	codeAttempts = 5
)

type RoomRepository struct {
	db     *sqlite.Database
	logger *slog.Logger
}

func NewRoomRepository(db *sqlite.Database, logger *slog.Logger) *RoomRepository {
	return &RoomRepository{
		db:     db,
		logger: logger.With("source", "RoomRepository"),
	}
}

// Create opens a new room in the waiting state with a fresh 4-digit code.
func (r *RoomRepository) Create(
	ctx context.Context,
	hostID string,
	difficulty models.Difficulty,
) (models.Room, error) {
	stmt := `INSERT INTO rooms (code, host_id, difficulty, status) VALUES (?, ?, ?, ?)`

	var lastErr error
	for attempt := 0; attempt < codeAttempts; attempt++ {
		code, err := random.Digits(roomCodeLength)
		if err != nil {
			return models.Room{}, errors.Wrap(err, "generate room code")
		}

		result, err := r.db.ReadWrite.ExecContext(ctx, stmt, code, hostID, difficulty, models.RoomStatusWaiting)
		if err != nil {
			// Most likely a code collision on the UNIQUE constraint; draw again.
			lastErr = err
			continue
		}
		id, err := result.LastInsertId()
		if err != nil {
			return models.Room{}, errors.Wrap(err, "room insert id")
		}
		return models.Room{
			ID:         id,
			Code:       code,
			HostID:     hostID,
			Difficulty: difficulty,
			Status:     models.RoomStatusWaiting,
			GameID:     "",
		}, nil
	}
	return models.Room{}, errors.Wrap(lastErr, "create room")
}

// Get looks up a room by its code.
func (r *RoomRepository) Get(ctx context.Context, code string) (models.Room, error) {
	stmt := `SELECT id, code, host_id, difficulty, status, game_id FROM rooms WHERE code = ?`

	var room models.Room
	if err := r.db.ReadOnly.GetContext(ctx, &room, stmt, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Room{}, errors.Wrap(ErrRoomNotFound, "get room", slog.String("code", code))
		}
		return models.Room{}, errors.Wrap(err, "get room", slog.String("code", code))
	}
	return room, nil
}

// Join seats a player in a waiting room. The first free seat is taken; seat 1
// belongs to the host.
func (r *RoomRepository) Join(
	ctx context.Context,
	code string,
	name string,
	avatar string,
) (models.RoomPlayer, error) {
	room, err := r.Get(ctx, code)
	if err != nil {
		return models.RoomPlayer{}, err
	}
	if room.Status != models.RoomStatusWaiting {
		return models.RoomPlayer{}, errors.Wrap(ErrRoomNotFound, "room not waiting",
			slog.String("code", code), slog.String("status", string(room.Status)))
	}

	stmt := `SELECT COUNT(*) FROM room_players WHERE room_id = ?`
	var seated int
	if err = r.db.ReadOnly.GetContext(ctx, &seated, stmt, room.ID); err != nil {
		return models.RoomPlayer{}, errors.Wrap(err, "count room players")
	}
	if seated >= 2 {
		return models.RoomPlayer{}, errors.Wrap(ErrRoomFull, "join room", slog.String("code", code))
	}

	seat := seated + 1
	stmt = `INSERT INTO room_players (room_id, player_number, name, avatar) VALUES (?, ?, ?, ?)`
	result, err := r.db.ReadWrite.ExecContext(ctx, stmt, room.ID, seat, name, avatar)
	if err != nil {
		return models.RoomPlayer{}, errors.Wrap(err, "insert room player")
	}
	id, err := result.LastInsertId()
	if err != nil {
		return models.RoomPlayer{}, errors.Wrap(err, "room player insert id")
	}
	return models.RoomPlayer{
		ID:           id,
		RoomID:       room.ID,
		PlayerNumber: seat,
		Name:         name,
		Avatar:       avatar,
	}, nil
}

// Players lists the seated players of a room in seat order.
func (r *RoomRepository) Players(ctx context.Context, roomID int64) ([]models.RoomPlayer, error) {
	stmt := `SELECT id, room_id, player_number, name, avatar
	FROM room_players
	WHERE room_id = ?
	ORDER BY player_number`

	var players []models.RoomPlayer
	if err := r.db.ReadOnly.SelectContext(ctx, &players, stmt, roomID); err != nil {
		return nil, errors.Wrap(err, "list room players")
	}
	return players, nil
}

// Start moves a room to the playing state and attaches the game session.
func (r *RoomRepository) Start(ctx context.Context, roomID int64, gameID string) error {
	stmt := `UPDATE rooms SET status = ?, game_id = ? WHERE id = ? AND status = ?`
	result, err := r.db.ReadWrite.ExecContext(ctx, stmt,
		models.RoomStatusPlaying, gameID, roomID, models.RoomStatusWaiting)
	if err != nil {
		return errors.Wrap(err, "start room")
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "start room rows affected")
	}
	if updated == 0 {
		return errors.Wrap(ErrRoomNotFound, "start room", slog.Int64("room_id", roomID))
	}
	return nil
}

// Finish marks a room's game as over.
func (r *RoomRepository) Finish(ctx context.Context, roomID int64) error {
	stmt := `UPDATE rooms SET status = ? WHERE id = ?`
	if _, err := r.db.ReadWrite.ExecContext(ctx, stmt, models.RoomStatusFinished, roomID); err != nil {
		return errors.Wrap(err, "finish room")
	}
	return nil
}
