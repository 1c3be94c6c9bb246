// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Account operations
	OpSignup     Op = "create account"
	OpLogin      Op = "log in"
	OpLogout     Op = "log out"
	OpUserDelete Op = "delete account"

	// Catalog operations
	OpSearch Op = "search songs"

	// Playlist operations
	OpPlaylistCreate  Op = "create playlist"
	OpPlaylistRename  Op = "rename playlist"
	OpPlaylistDelete  Op = "delete playlist"
	OpPlaylistAddSong Op = "add song to playlist"
	OpPlaylistRemove  Op = "remove song from playlist"
	OpPlaylistList    Op = "load playlists"

	// History operations
	OpHistoryLoad Op = "load recently played"

	// Playback operations
	OpPlaybackStart Op = "start playback"
	OpPlaybackSeek  Op = "seek"

	// Initialization
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
