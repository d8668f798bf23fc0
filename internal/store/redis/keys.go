package redis

import "fmt"

const (
	// KeyPrefixBookmark is the prefix for bookmark keys
	KeyPrefixBookmark = "bookmarks:bookmark:"
	// KeyAllBookmarks is the key for the set of all bookmark IDs
	KeyAllBookmarks = "bookmarks:all"
	// KeySnapshot holds the last persisted collection, as written to the file
	KeySnapshot = "bookmarks:snapshot"
)

// BookmarkKey returns the Redis key for a bookmark
func BookmarkKey(id string) string {
	return KeyPrefixBookmark + id
}

// AllBookmarksKey returns the Redis key for the set of all bookmarks
func AllBookmarksKey() string {
	return KeyAllBookmarks
}

// SnapshotKey returns the Redis key for the full collection snapshot
func SnapshotKey() string {
	return KeySnapshot
}

// ExtractBookmarkID extracts the bookmark ID from a Redis key
func ExtractBookmarkID(key string) (string, error) {
	if len(key) <= len(KeyPrefixBookmark) || key[:len(KeyPrefixBookmark)] != KeyPrefixBookmark {
		return "", fmt.Errorf("invalid bookmark key: %s", key)
	}
	return key[len(KeyPrefixBookmark):], nil
}
