package auth

import "github.com/casetrackapp/backend/internal/models"

// Session is the payload of a successful auth operation.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// Result is the uniform success/failure envelope returned by the auth service
// for business outcomes. Expected rejections (bad credentials, revoked token)
// travel inside it; infrastructure faults are returned as real errors instead.
type Result struct {
	IsValid bool
	Message string
	Data    *Session

	// Err carries the rejection sentinel for errors.Is at the transport
	// boundary. Nil when IsValid is true.
	Err error
}

func ok(data *Session) *Result {
	return &Result{IsValid: true, Data: data}
}

func reject(err error) *Result {
	return &Result{IsValid: false, Message: err.Error(), Err: err}
}
