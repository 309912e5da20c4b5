package db

import (
	"fmt"
	"time"
)

type GameRecord struct {
	ID        string
	RoomCode  string
	HostID    string
	GameType  string
	StartedAt *time.Time
	EndedAt   *time.Time
	CreatedAt time.Time
}

func (d *DB) CreateGame(roomCode, hostID, gameType string) (string, error) {
	var id string
	err := d.conn.QueryRow(`
		INSERT INTO games (room_code, host_id, game_type, started_at)
		VALUES ($1, $2, $3, now())
		RETURNING id
	`, roomCode, hostID, gameType).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("creating game: %w", err)
	}
	return id, nil
}

func (d *DB) EndGame(gameID string) error {
	_, err := d.conn.Exec(`
		UPDATE games SET ended_at = now() WHERE id = $1
	`, gameID)
	if err != nil {
		return fmt.Errorf("ending game: %w", err)
	}
	return nil
}

func (d *DB) AddGameResult(gameID, playerID, name string, finalScore, rank int) error {
	_, err := d.conn.Exec(`
		INSERT INTO game_results (game_id, player_id, player_name, final_score, rank)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (game_id, player_id) DO UPDATE SET final_score = $4, rank = $5
	`, gameID, playerID, name, finalScore, rank)
	if err != nil {
		return fmt.Errorf("adding game result: %w", err)
	}
	return nil
}
