package models

import "time"

// DocumentNode is one addressable unit of statutory text (a pasal, ayat,
// bab heading, etc.). Its content_text is canonical and must only be
// mutated through revision application.
type DocumentNode struct {
	ID          int64     `json:"id" db:"id"`
	WorkID      int64     `json:"work_id" db:"work_id"`
	NodeType    string    `json:"node_type" db:"node_type"`
	Number      *string   `json:"number" db:"number"`
	ContentText string    `json:"content_text" db:"content_text"`
	RevisionID  *int64    `json:"revision_id" db:"revision_id"` // NULL until first correction
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Work is a single piece of legislation, identified by regulation type,
// number, and year. Slug is the public URL segment (e.g. "uu-13-2003").
type Work struct {
	ID          int64  `json:"id" db:"id"`
	RegTypeCode string `json:"reg_type_code" db:"reg_type_code"`
	Number      string `json:"number" db:"number"`
	Year        int    `json:"year" db:"year"`
	Slug        string `json:"slug" db:"slug"`
	Title       string `json:"title" db:"title"`
}

// Path returns the public reader path for this work.
func (w *Work) Path() string {
	return "/peraturan/" + w.RegTypeCode + "/" + w.Slug
}
