package domain

import "errors"

var (
	ErrQuestionNotFound    = errors.New("question not found")
	ErrInvalidQuestionID   = errors.New("invalid question id")
	ErrVotingClosed        = errors.New("voting closed for this question")
	ErrNoChoiceSelected    = errors.New("no valid choice selected")
	ErrChoiceMismatch      = errors.New("choice does not belong to question")
	ErrDidNotVote          = errors.New("user did not vote on this question")
	ErrNoQuestionText      = errors.New("question text is required")
	ErrQuestionTextTooLong = errors.New("question text too long")
	ErrNotEnoughChoices    = errors.New("at least two choices are required")
	ErrAuthRequired        = errors.New("authentication required")
	ErrInvalidCredentials  = errors.New("invalid username or password")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrUserNotFound        = errors.New("user not found")
)
