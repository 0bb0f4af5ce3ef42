// Package common contains shared constants, sentinel errors and small
// secure-memory helpers used across gophjournal components.
package common

import "os"

// File permissions for journal files and the directories holding them.
// Journals contain only ciphertext, but the owner-only mode keeps the
// entry dates private as well.
const (
	FileMode os.FileMode = 0o600
	DirMode  os.FileMode = 0o700
)

// DateLayout is the canonical journal date layout (YYYY-MM-DD).
const DateLayout = "2006-01-02"
