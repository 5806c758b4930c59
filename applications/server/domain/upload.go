package domain

const UploadSucceededMessage = "Images uploaded successfully"

type UploadRequest struct {
	Plan      Part
	Elevation Part
}

type UploadResponse struct {
	Message      string `json:"message"`
	JobID        string `json:"jobId"`
	PlanURL      string `json:"planUrl"`
	ElevationURL string `json:"elevationUrl"`
}
