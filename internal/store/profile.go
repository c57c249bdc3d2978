package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/matheus3301/msgr/internal/api"
)

// SaveProfile caches the last fetched profile of its owner.
func (db *DB) SaveProfile(u *api.User) error {
	_, err := db.Exec(`
		INSERT INTO profile (owner, nick, avatar, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(owner) DO UPDATE SET
			nick = excluded.nick,
			avatar = excluded.avatar,
			updated_at = excluded.updated_at`,
		u.UserID, u.Nick, u.Avatar, time.Now().UnixMilli())
	return err
}

// GetProfile returns the cached profile, or nil if none was saved.
func (db *DB) GetProfile(owner string) (*api.User, error) {
	u := api.User{UserID: owner}
	err := db.QueryRow(`SELECT nick, avatar FROM profile WHERE owner = ?`, owner).Scan(&u.Nick, &u.Avatar)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// DeleteOwner drops everything cached for owner.
func (db *DB) DeleteOwner(owner string) error {
	for _, table := range []string{"favorites", "profile", "chats"} {
		if _, err := db.Exec(`DELETE FROM `+table+` WHERE owner = ?`, owner); err != nil {
			return err
		}
	}
	return nil
}
