package models

// ErrorBody is the JSON shape of every API error
type ErrorBody struct {
	Error string `json:"error"`
}

// DeleteResponse is returned by a successful delete
type DeleteResponse struct {
	Success      bool   `json:"success"`
	DeletedCount *int64 `json:"deletedCount,omitempty"`
	Message      string `json:"message,omitempty"`
}
