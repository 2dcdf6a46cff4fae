package entities

import "time"

type Mobile struct {
	CountryCode string
	Number      string
}

// Agent is a field agent that receives distributed list records.
type Agent struct {
	ID           string
	Name         string
	Email        string
	Mobile       Mobile
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
