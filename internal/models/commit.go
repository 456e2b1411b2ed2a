package models

import "time"

// FileChange is a path reported by a diff against the index or HEAD.
type FileChange struct {
	Path    string
	Deleted bool
}

// UntrackedFile is a file unknown to the index, with its modification time.
type UntrackedFile struct {
	Path    string
	ModTime time.Time
}
