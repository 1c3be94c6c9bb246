//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpSearch,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpSearch,
			err:      errors.New("connection refused"),
			expected: "Failed to search songs: connection refused",
		},
		{
			name:     "account operation",
			op:       OpSignup,
			err:      errors.New("username already taken"),
			expected: "Failed to create account: username already taken",
		},
		{
			name:     "playlist operation",
			op:       OpPlaylistCreate,
			err:      errors.New("not logged in"),
			expected: "Failed to create playlist: not logged in",
		},
		{
			name:     "playback operation",
			op:       OpPlaybackStart,
			err:      errors.New("no audio device"),
			expected: "Failed to start playback: no audio device",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpPlaylistDelete,
			context:  "Road Trip",
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with context",
			op:       OpPlaylistDelete,
			context:  "Road Trip",
			err:      errors.New("playlist not found or access denied"),
			expected: "Failed to delete playlist 'Road Trip': playlist not found or access denied",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpPlaylistDelete,
			context:  "",
			err:      errors.New("playlist not found or access denied"),
			expected: "Failed to delete playlist: playlist not found or access denied",
		},
		{
			name:     "add song with playlist context",
			op:       OpPlaylistAddSong,
			context:  "Favorites",
			err:      errors.New("store closed"),
			expected: "Failed to add song to playlist 'Favorites': store closed",
		},
		{
			name:     "login with username context",
			op:       OpLogin,
			context:  "alice",
			err:      errors.New("invalid credentials"),
			expected: "Failed to log in 'alice': invalid credentials",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

func TestOpConstants(t *testing.T) {
	// Verify that Op constants are non-empty and produce valid messages
	ops := []Op{
		OpSignup, OpLogin, OpLogout, OpUserDelete,
		OpSearch,
		OpPlaylistCreate, OpPlaylistRename, OpPlaylistDelete,
		OpPlaylistAddSong, OpPlaylistRemove, OpPlaylistList,
		OpHistoryLoad,
		OpPlaybackStart, OpPlaybackSeek,
		OpInitialize,
	}

	testErr := errors.New("test error")

	for _, op := range ops {
		t.Run(string(op), func(t *testing.T) {
			if op == "" {
				t.Error("Op constant should not be empty")
			}

			result := Format(op, testErr)
			expected := "Failed to " + string(op) + ": test error"
			if result != expected {
				t.Errorf("Format = %q, want %q", result, expected)
			}
		})
	}
}
