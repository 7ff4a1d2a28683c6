package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound          = errors.New("entity not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrCommanderNotFound = errors.New("commander not found in card pool")
	ErrCommanderNotLegal = errors.New("card cannot be used as a commander")
	ErrNoEligibleCards   = errors.New("card pool has no cards eligible for this commander")
	ErrJobExpired        = errors.New("job expired or unknown")
)
