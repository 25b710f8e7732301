package domain

import "errors"

var (
	ErrMovieNotFound  = errors.New("movie not found")
	ErrInvalidMovie   = errors.New("invalid movie")
	ErrInvalidRequest = errors.New("invalid request")
)
