package models

import "time"

// File is the metadata record of one stored file. The bytes themselves live
// on disk at Path; the row is the discoverability index over the tree.
type File struct {
	ID          string
	PersonID    string
	FolderID    string
	Name        string
	Path        string
	Size        int64
	ContentType string
	CreatedOn   time.Time
}
