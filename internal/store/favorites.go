package store

import (
	"fmt"

	"github.com/matheus3301/msgr/internal/api"
)

// ReplaceFavorites swaps the cached favorites of owner for favs in one
// transaction. Order is preserved.
func (db *DB) ReplaceFavorites(owner string, favs []api.Favorite) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM favorites WHERE owner = ?`, owner); err != nil {
		return fmt.Errorf("clear favorites: %w", err)
	}
	stmt, err := tx.Prepare(`
		INSERT INTO favorites (owner, position, type, text, file_url, voice_url, timestamp, sender)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, f := range favs {
		if _, err := stmt.Exec(owner, i, string(f.Type), f.Text, f.FileURL, f.VoiceURL, f.Timestamp, f.From); err != nil {
			return fmt.Errorf("insert favorite %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// ListFavorites returns the cached favorites of owner in display order.
func (db *DB) ListFavorites(owner string) ([]api.Favorite, error) {
	rows, err := db.Query(`
		SELECT type, text, file_url, voice_url, timestamp, sender
		FROM favorites
		WHERE owner = ?
		ORDER BY position ASC`, owner)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var favs []api.Favorite
	for rows.Next() {
		var f api.Favorite
		var typ string
		if err := rows.Scan(&typ, &f.Text, &f.FileURL, &f.VoiceURL, &f.Timestamp, &f.From); err != nil {
			return nil, err
		}
		f.Type = api.FavoriteType(typ)
		favs = append(favs, f)
	}
	return favs, rows.Err()
}
