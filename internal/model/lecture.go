package model

// LectureType tags what a lecture contains.
type LectureType string

const (
	LectureTypeVideo      LectureType = "video"
	LectureTypeQuiz       LectureType = "quiz"
	LectureTypeReading    LectureType = "reading"
	LectureTypeAssignment LectureType = "assignment"
)

// Valid reports whether t is one of the known lecture types.
func (t LectureType) Valid() bool {
	switch t {
	case LectureTypeVideo, LectureTypeQuiz, LectureTypeReading, LectureTypeAssignment:
		return true
	}
	return false
}

// Lecture is an ordered child of a Draft.
type Lecture struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description,omitempty"`
	Type            LectureType `json:"type"`
	DurationMinutes int         `json:"duration_minutes"`
	IsFreePreview   bool        `json:"is_free_preview"`
	VideoID         string      `json:"video_id,omitempty"`
	Resources       []Resource  `json:"resources,omitempty"`
	OrderNumber     int         `json:"order_number"`
}

// Resource is an uploaded file attached to a draft or to one lecture.
type Resource struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
	ContentType string `json:"content_type,omitempty"`
	IsPublic    bool   `json:"is_public"`
}

// VideoStatus is the processing state reported by the video provider.
type VideoStatus string

const (
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusReady      VideoStatus = "ready"
	VideoStatusError      VideoStatus = "error"
)

// Video is a processed (or processing) upload.
type Video struct {
	ID         string      `json:"id"`
	ProviderID string      `json:"provider_id"`
	Filename   string      `json:"filename,omitempty"`
	Duration   float64     `json:"duration"` // seconds
	StreamURL  string      `json:"stream_url,omitempty"`
	Status     VideoStatus `json:"status"`
	Error      string      `json:"error,omitempty"`
}
