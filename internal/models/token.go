package models

import (
	"time"
)

type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// Token pair returned to the user on successful login
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}
