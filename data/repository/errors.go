package repository

import "errors"

var (
	ErrNotFound      = errors.New("error entry not found")
	ErrAlreadyExists = errors.New("error entry already exists")
)
