package domain

import "time"

// IssuedToken describes a signed bearer token handed to a client.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}
