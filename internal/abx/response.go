package abx

import "time"

// Response is the listener's answer to one trial.
type Response struct {
	Choice  Side          `json:"choice"`
	Correct bool          `json:"correct"`
	Clicks  int           `json:"clicks"`
	Elapsed time.Duration `json:"elapsed"`
}

// Result pairs a presented trial with its response.
type Result struct {
	Trial
	Response
}

// NewResponse scores choice against the trial's hidden reference.
func NewResponse(t Trial, choice Side, clicks int, elapsed time.Duration) Response {
	return Response{
		Choice:  choice,
		Correct: choice == t.RefSide(),
		Clicks:  clicks,
		Elapsed: elapsed,
	}
}

// Participant describes the listener of a session.
type Participant struct {
	FirstName       string `json:"first_name"`
	SecondName      string `json:"second_name"`
	DateOfBirth     string `json:"date_birth"`
	Gender          string `json:"gender"`
	HearingImpaired bool   `json:"hearing_impaired"`
	SessionID       string `json:"session_id"`
}
