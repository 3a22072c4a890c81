package dto

type SummarizeRequest struct {
	NoteId  string `json:"note_id" validate:"required,uuid"`
	Content string `json:"content"`
}

// SummarizeNoteRequest is the body of POST /ai/summarize/:id; content defaults to the stored note content.
type SummarizeNoteRequest struct {
	Content string `json:"content"`
}

type TranscribeRequest struct {
	Audio    []byte
	Filename string
	MimeType string
	Title    string // when set, a note is created from the transcript
}

type TranscribeResponse struct {
	Text     string        `json:"text"`
	Note     *NoteResponse `json:"note,omitempty"`
	AudioKey string        `json:"audio_key,omitempty"`
}
