package store

import (
	"time"
)

// Chat is a conversation partner the user added from search.
type Chat struct {
	Nick        string
	UnreadCount int
	AddedAt     int64
}

// AddChat records nick in owner's chat list. Adding an existing nick is a
// no-op and reports false.
func (db *DB) AddChat(owner, nick string) (bool, error) {
	res, err := db.Exec(`
		INSERT INTO chats (owner, nick, added_at) VALUES (?, ?, ?)
		ON CONFLICT(owner, nick) DO NOTHING`,
		owner, nick, time.Now().UnixMilli())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// SetUnread stores unread counts for owner's chats. Nicks not yet in the
// list are added; chats missing from counts are reset to zero.
func (db *DB) SetUnread(owner string, counts map[string]int) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE chats SET unread_count = 0 WHERE owner = ?`, owner); err != nil {
		return err
	}
	now := time.Now().UnixMilli()
	for nick, n := range counts {
		if _, err := tx.Exec(`
			INSERT INTO chats (owner, nick, unread_count, added_at) VALUES (?, ?, ?, ?)
			ON CONFLICT(owner, nick) DO UPDATE SET unread_count = excluded.unread_count`,
			owner, nick, n, now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListChats returns owner's chats in the order they were added.
func (db *DB) ListChats(owner string) ([]Chat, error) {
	rows, err := db.Query(`
		SELECT nick, unread_count, added_at
		FROM chats
		WHERE owner = ?
		ORDER BY added_at ASC, rowid ASC`, owner)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var chats []Chat
	for rows.Next() {
		var c Chat
		if err := rows.Scan(&c.Nick, &c.UnreadCount, &c.AddedAt); err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}
