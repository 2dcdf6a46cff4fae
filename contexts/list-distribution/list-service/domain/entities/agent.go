package entities

type Mobile struct {
	CountryCode string
	Number      string
}

// AgentRef is the read-only view of an agent that distribution and
// reporting work with.
type AgentRef struct {
	ID     string
	Name   string
	Email  string
	Mobile Mobile
	Active bool
}
