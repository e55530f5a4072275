// Package entity contains the core business objects of the storefront client,
// each representing a concept owned by the remote store and mirrored locally.
package entity

import "time"

// Identity is the signed-in customer as reported by the store.
type Identity struct {
	ID        string    // The store's identifier for the customer.
	Email     string    // The customer's email, also the login identifier.
	Name      string    // Display name; optional on some accounts.
	CreatedAt time.Time // When the account was created.
}

// DisplayName returns the name when present, otherwise the email.
func (i *Identity) DisplayName() string {
	if i == nil {
		return ""
	}
	if i.Name != "" {
		return i.Name
	}

	return i.Email
}

// AuthResult is what a sign-in, sign-up or refresh exchange yields.
type AuthResult struct {
	Identity    *Identity // May be nil on refresh if the store omits the user.
	AccessToken string    // Opaque bearer token to persist.
}
