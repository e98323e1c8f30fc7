package users

import "strings"

// Person holds the fields used to derive a display name.
type Person struct {
	FirstName string
	LastName  string
	Username  string
}

// NameSource returns a candidate display name, or "" to defer to the next source.
type NameSource func(p Person) string

// NameChain resolves a display name by asking each source in order.
type NameChain []NameSource

// DefaultNameChain prefers the full name and falls back to the login identifier.
var DefaultNameChain = NameChain{FullName, LoginIdentifier}

// Resolve returns the first non-empty candidate.
func (c NameChain) Resolve(p Person) string {
	for _, source := range c {
		if name := source(p); name != "" {
			return name
		}
	}
	return ""
}

// FullName is "first last" with surrounding whitespace removed.
func FullName(p Person) string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// LoginIdentifier is the username.
func LoginIdentifier(p Person) string {
	return p.Username
}

// DisplayName is a convenience for DefaultNameChain.Resolve.
func DisplayName(firstName, lastName, username string) string {
	return DefaultNameChain.Resolve(Person{FirstName: firstName, LastName: lastName, Username: username})
}
