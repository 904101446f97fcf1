package credentials

import (
	"errors"
	"strings"
)

const (
	defaultServiceNameConstant = "coursectl"
	usernameKeyConstant        = "admin-username"
	passwordKeyConstant        = "admin-password"

	incompleteCredentialsMessageConstant = "admin credentials incomplete: both username and password are required"
)

// ErrIncompleteCredentials is returned when only one half of a credential
// pair is available.
var ErrIncompleteCredentials = errors.New(incompleteCredentialsMessageConstant)

// Credentials carries the administrator's username and password.
type Credentials struct {
	Username string
	Password string
}

// IsComplete reports whether both halves of the pair are present.
func (credentials Credentials) IsComplete() bool {
	return len(credentials.Username) > 0 && len(credentials.Password) > 0
}

// Resolver resolves admin credentials from explicit configuration first and
// the secret store second.
type Resolver struct {
	store       Store
	serviceName string
}

// NewResolver constructs a Resolver over the given store. A nil store
// defaults to the operating system keyring.
func NewResolver(store Store) *Resolver {
	if store == nil {
		store = NewKeyringStore()
	}
	return &Resolver{
		store:       store,
		serviceName: defaultServiceNameConstant,
	}
}

// Resolve returns the configured credentials when complete, otherwise the
// stored pair. A pair with exactly one half present is rejected so a stale
// stored password is never combined with a configured username.
func (resolver *Resolver) Resolve(configuredUsername string, configuredPassword string) (Credentials, error) {
	configured := Credentials{
		Username: strings.TrimSpace(configuredUsername),
		Password: configuredPassword,
	}
	if configured.IsComplete() {
		return configured, nil
	}
	if len(configured.Username) > 0 || len(configured.Password) > 0 {
		return Credentials{}, ErrIncompleteCredentials
	}

	storedUsername, usernameError := resolver.store.Get(resolver.serviceName, usernameKeyConstant)
	if usernameError != nil {
		return Credentials{}, usernameError
	}
	storedPassword, passwordError := resolver.store.Get(resolver.serviceName, passwordKeyConstant)
	if passwordError != nil {
		return Credentials{}, passwordError
	}

	stored := Credentials{Username: storedUsername, Password: storedPassword}
	if !stored.IsComplete() {
		return Credentials{}, ErrIncompleteCredentials
	}
	return stored, nil
}

// Save persists a complete credential pair in the store.
func (resolver *Resolver) Save(credentials Credentials) error {
	if !credentials.IsComplete() {
		return ErrIncompleteCredentials
	}
	if saveError := resolver.store.Set(resolver.serviceName, usernameKeyConstant, credentials.Username); saveError != nil {
		return saveError
	}
	return resolver.store.Set(resolver.serviceName, passwordKeyConstant, credentials.Password)
}

// Forget removes any stored credential pair.
func (resolver *Resolver) Forget() error {
	if deleteError := resolver.store.Delete(resolver.serviceName, usernameKeyConstant); deleteError != nil {
		return deleteError
	}
	return resolver.store.Delete(resolver.serviceName, passwordKeyConstant)
}

// StoredUsername returns the stored username, if any, without exposing the
// password.
func (resolver *Resolver) StoredUsername() (string, error) {
	return resolver.store.Get(resolver.serviceName, usernameKeyConstant)
}
