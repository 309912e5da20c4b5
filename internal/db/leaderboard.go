package db

import "fmt"

type LeaderboardRow struct {
	PlayerID   string `json:"player_id"`
	Name       string `json:"name"`
	GamesWon   int    `json:"games_won"`
	TotalScore int    `json:"total_score"`
}

// Leaderboard ranks players across all recorded games by wins, then
// total score.
func (d *DB) Leaderboard(limit int) ([]LeaderboardRow, error) {
	rows, err := d.conn.Query(`
		SELECT player_id,
		       max(player_name) AS name,
		       count(*) FILTER (WHERE rank = 1) AS games_won,
		       coalesce(sum(final_score), 0) AS total_score
		FROM game_results
		GROUP BY player_id
		ORDER BY games_won DESC, total_score DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying leaderboard: %w", err)
	}
	defer rows.Close()

	var out []LeaderboardRow
	for rows.Next() {
		var r LeaderboardRow
		if err := rows.Scan(&r.PlayerID, &r.Name, &r.GamesWon, &r.TotalScore); err != nil {
			return nil, fmt.Errorf("scanning leaderboard row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
