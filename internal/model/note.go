package model

import "github.com/google/uuid"

// Note is a single free-form bubble attached to a day.
type Note struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Color Color  `json:"color"`
}

// NewNote creates a note with a fresh id and the default color.
func NewNote(text string) Note {
	return Note{
		ID:    uuid.New().String(),
		Text:  text,
		Color: ColorGray,
	}
}
