package models

// ExtractRequest is the incoming extraction request body.
type ExtractRequest struct {
	URL string `json:"url"`
}

// ExtractionResponse is the API shape of an extraction record.
type ExtractionResponse struct {
	ID       string      `json:"id"`
	VideoID  string      `json:"video_id"`
	URL      string      `json:"url"`
	EmbedURL string      `json:"embed_url"`
	Status   Status      `json:"status"`
	Plan     WorkoutPlan `json:"plan"`
	Warning  string      `json:"warning,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// NewExtractionResponse creates a response from an extraction record.
func NewExtractionResponse(e *Extraction) *ExtractionResponse {
	resp := &ExtractionResponse{
		ID:       e.ID,
		VideoID:  e.VideoID,
		URL:      e.URL,
		EmbedURL: e.EmbedURL(),
		Status:   e.Status,
		Plan:     e.Plan,
		Error:    e.Error,
	}
	if resp.Plan == nil {
		resp.Plan = WorkoutPlan{}
	}
	if e.IsCompleted() && len(e.Plan) == 0 {
		resp.Warning = "Could not extract a workout plan from this video."
	}
	return resp
}
