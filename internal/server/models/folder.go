package models

import "time"

// Folder is one directory in a person's tree. Path always equals the parent
// directory's path plus the separator and Name, and mirrors the physical
// directory on disk. ParentID is nil for the owner's root folder.
type Folder struct {
	ID        string
	PersonID  string
	Name      string
	Path      string
	ParentID  *string
	CreatedOn time.Time
}

// IsRoot reports whether the folder is the owner's root.
func (f *Folder) IsRoot() bool {
	return f.ParentID == nil
}
