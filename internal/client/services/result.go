package services

import "github.com/dmitrijs2005/bikebed/internal/client/models"

// Result is what every AuthService operation returns. Failures never
// surface as Go errors: Error holds the message to show and Err the cause
// for errors.Is.
type Result struct {
	Success bool
	Error   string
	Session *models.Session
	Err     error
}

func succeeded(s *models.Session) Result {
	return Result{Success: true, Session: s}
}

func failed(err error) Result {
	return Result{Error: err.Error(), Err: err}
}
