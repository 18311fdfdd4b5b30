package ai

import "errors"

var (
	// ErrInvalidConfig indicates an incomplete or out of range Config.
	ErrInvalidConfig = errors.New("ai config")

	// ErrNoRanking is returned when the ranking service produced no usable identifiers.
	ErrNoRanking = errors.New("no usable ranking")

	// ErrMalformedResponse is returned when the service response does not match the expected shape.
	ErrMalformedResponse = errors.New("malformed ranking response")

	// ErrRankingFailed wraps transport and service errors from the ranking call.
	ErrRankingFailed = errors.New("ranking call failed")
)
