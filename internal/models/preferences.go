package models

// ViewPreferences is what a reviewer's previous visits left behind.
type ViewPreferences struct {
	Region           Region `json:"region,omitempty"`
	Status           Tab    `json:"status,omitempty"`
	LastSubmissionID int64  `json:"last_submission_id,omitempty"`
	// DetectedRegion is the region of the last work log opened.
	DetectedRegion Region `json:"detected_region,omitempty"`
	// LastDetectedRegion is the detected region the dashboard last acted on.
	LastDetectedRegion Region `json:"last_detected_region,omitempty"`
}

// ViewDecision is the resolved dashboard view for a request.
type ViewDecision struct {
	Region   Region `json:"region"`
	Status   Tab    `json:"status"`
	Redirect bool   `json:"redirect"`
}
