package tui

import "errors"

var (
	// ErrAborted signals the respondent aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoDriver is returned when the renderer has no prompt driver.
	ErrNoDriver = errors.New("tui: prompt driver is nil")
	// ErrAnswerRequired is reported to the respondent when a required
	// question is left blank.
	ErrAnswerRequired = errors.New("an answer is required")
)
