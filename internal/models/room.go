package models

// RoomStatus tracks the lobby lifecycle of a networked game.
type RoomStatus string

const (
	RoomStatusWaiting  RoomStatus = "waiting"
	RoomStatusPlaying  RoomStatus = "playing"
	RoomStatusFinished RoomStatus = "finished"
)

// Room is the row-store stub for networked play. There is no realtime
// transport behind it; two browsers poll the same game session.
type Room struct {
	ID         int64      `db:"id"`
	Code       string     `db:"code"`
	HostID     string     `db:"host_id"`
	Difficulty Difficulty `db:"difficulty"`
	Status     RoomStatus `db:"status"`
	GameID     string     `db:"game_id"`
}

// RoomPlayer is one seat taken in a room.
type RoomPlayer struct {
	ID           int64  `db:"id"            json:"-"`
	RoomID       int64  `db:"room_id"       json:"-"`
	PlayerNumber int    `db:"player_number" json:"playerNumber"`
	Name         string `db:"name"          json:"name"`
	Avatar       string `db:"avatar"        json:"avatar"`
}
