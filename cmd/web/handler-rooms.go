package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/myrjola/lastalibi/internal/contexthelpers"
	"github.com/myrjola/lastalibi/internal/errors"
	"github.com/myrjola/lastalibi/internal/models"
	"github.com/myrjola/lastalibi/internal/repositories"
	"github.com/skip2/go-qrcode"
)

type roomCreateRequest struct {
	Difficulty models.Difficulty `json:"difficulty"`
	HostName   string            `json:"hostName"`
	HostAvatar string            `json:"hostAvatar"`
}

type roomResponse struct {
	Code    string              `json:"code"`
	Status  models.RoomStatus   `json:"status"`
	Players []models.RoomPlayer `json:"players"`
}

func (app *application) apiRoomCreate(w http.ResponseWriter, r *http.Request) {
	var req roomCreateRequest
	if err := readJSON(r, &req); err != nil {
		app.writeJSON(w, r, http.StatusBadRequest, jsonError{Error: "Invalid request body"})
		return
	}
	if !req.Difficulty.Valid() || req.HostName == "" {
		app.writeJSON(w, r, http.StatusBadRequest, jsonError{Error: "Missing required parameters"})
		return
	}

	hostID := contexthelpers.PlayerID(r.Context())
	room, err := app.rooms.Create(r.Context(), hostID, req.Difficulty)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	// The host takes seat 1 immediately.
	if _, err = app.rooms.Join(r.Context(), room.Code, req.HostName, req.HostAvatar); err != nil {
		app.serverError(w, r, err)
		return
	}

	players, err := app.rooms.Players(r.Context(), room.ID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusCreated, roomResponse{
		Code:    room.Code,
		Status:  room.Status,
		Players: players,
	})
}

type roomJoinRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

func (app *application) apiRoomJoin(w http.ResponseWriter, r *http.Request) {
	var req roomJoinRequest
	if err := readJSON(r, &req); err != nil {
		app.writeJSON(w, r, http.StatusBadRequest, jsonError{Error: "Invalid request body"})
		return
	}
	if req.Name == "" {
		app.writeJSON(w, r, http.StatusBadRequest, jsonError{Error: "Missing required parameters"})
		return
	}

	code := r.PathValue("code")
	if _, err := app.rooms.Join(r.Context(), code, req.Name, req.Avatar); err != nil {
		switch {
		case errors.Is(err, repositories.ErrRoomNotFound):
			app.writeJSON(w, r, http.StatusNotFound, jsonError{Error: "Room not found"})
		case errors.Is(err, repositories.ErrRoomFull):
			app.writeJSON(w, r, http.StatusConflict, jsonError{Error: "Room is full"})
		default:
			app.serverError(w, r, err)
		}
		return
	}

	room, err := app.rooms.Get(r.Context(), code)
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	players, err := app.rooms.Players(r.Context(), room.ID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	app.writeJSON(w, r, http.StatusOK, roomResponse{
		Code:    room.Code,
		Status:  room.Status,
		Players: players,
	})
}

const roomQRSize = 256

// apiRoomQR renders the join link for a room as a PNG so the second player can
// scan it from the host's screen.
func (app *application) apiRoomQR(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if _, err := app.rooms.Get(r.Context(), code); err != nil {
		if errors.Is(err, repositories.ErrRoomNotFound) {
			app.notFound(w, r)
			return
		}
		app.serverError(w, r, err)
		return
	}

	joinURL := fmt.Sprintf("http://%s/rooms/%s", r.Host, code)
	png, err := qrcode.Encode(joinURL, qrcode.Medium, roomQRSize)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err = w.Write(png); err != nil {
		app.logger.LogAttrs(r.Context(), slog.LevelError, "write qr png", errors.SlogError(err))
	}
}
