package transcription

// Request asks a backend to transcribe one normalized WAV file.
type Request struct {
	AudioPath string `json:"audio_path"`
	// Language hints the spoken language; empty lets the model detect it.
	Language string `json:"language,omitempty"`
	// Model overrides the backend's configured model.
	Model string `json:"model,omitempty"`
}

// Transcript is what a backend heard. Text is empty for silence.
type Transcript struct {
	Text     string    `json:"text"`
	Language string    `json:"language,omitempty"`
	Segments []Segment `json:"segments,omitempty"`
	// Duration is in seconds, taken from the last segment when the backend
	// does not report it.
	Duration float64 `json:"duration,omitempty"`
}

// Segment is a time-aligned slice of a transcript, in seconds.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// FillDuration sets Duration from the last segment when it is unset.
func (t *Transcript) FillDuration() {
	if t.Duration == 0 && len(t.Segments) > 0 {
		t.Duration = t.Segments[len(t.Segments)-1].End
	}
}
