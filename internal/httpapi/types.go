package httpapi

import (
	"github.com/fyrsmithlabs/sweepd/internal/store"
)

// CreateUserRequest is the request body for POST /api/users.
type CreateUserRequest struct {
	Username string `json:"username"`
}

// CreateUserResponse is the response body for POST /api/users.
type CreateUserResponse struct {
	UserID      int32              `json:"user_id"`
	Username    string             `json:"username"`
	Preferences *store.Preferences `json:"preferences"`
}

// UpdatePreferencesRequest is the request body for
// PUT /api/users/:id/preferences. Absent fields keep their prior value.
type UpdatePreferencesRequest struct {
	LanguageFilter           *bool   `json:"language_filter"`
	SexualContentFilter      *bool   `json:"sexual_content_filter"`
	ViolenceFilter           *bool   `json:"violence_filter"`
	LanguageSensitivity      *string `json:"language_sensitivity"`
	SexualContentSensitivity *string `json:"sexual_content_sensitivity"`
	ViolenceSensitivity      *string `json:"violence_sensitivity"`
}

// UpdatePreferencesResponse is the response body for
// PUT /api/users/:id/preferences.
type UpdatePreferencesResponse struct {
	Message     string             `json:"message"`
	Preferences *store.Preferences `json:"preferences"`
}

// AnalyzeRequest is the request body for POST /api/analyze. Pointer fields
// distinguish absent keys from zero values; both are required.
type AnalyzeRequest struct {
	UserID *int32  `json:"user_id"`
	Text   *string `json:"text"`
}

// AnalyzeResponse is the response body for POST /api/analyze: the chosen
// action, echoed alongside the analyzed text and user.
type AnalyzeResponse struct {
	Action string `json:"action"`
	Text   string `json:"text"`
	UserID int32  `json:"user_id"`
}

// EventRequest is the request body for POST /event. UserID is accepted as a
// JSON number or numeric string; Confidence is an optional 0.0-1.0 weight,
// currently a pass-through reserved for future use.
type EventRequest struct {
	UserID     any      `json:"user_id"`
	Text       *string  `json:"text"`
	Confidence *float64 `json:"confidence"`
}

// HealthResponse is the response body for GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

// ErrorResponse is the error body shape for non-decision endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}
