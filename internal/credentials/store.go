package credentials

import (
	"errors"
	"fmt"
	"sync"

	keyringlib "github.com/zalando/go-keyring"
)

const keyringReadFailureTemplateConstant = "reading secret from OS keyring: %w"

// ErrCredentialsNotFound is returned when no stored secret exists for a key.
var ErrCredentialsNotFound = errors.New("credentials not found in keyring")

// Store abstracts the secret storage backing credential persistence.
type Store interface {
	Get(serviceName string, key string) (string, error)
	Set(serviceName string, key string, secret string) error
	Delete(serviceName string, key string) error
}

// KeyringStore persists secrets in the operating system keyring.
type KeyringStore struct{}

// NewKeyringStore constructs a KeyringStore.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

// Get retrieves a stored secret, mapping the library's not-found error to
// ErrCredentialsNotFound.
func (store *KeyringStore) Get(serviceName string, key string) (string, error) {
	secret, readError := keyringlib.Get(serviceName, key)
	if readError != nil {
		if errors.Is(readError, keyringlib.ErrNotFound) {
			return "", ErrCredentialsNotFound
		}
		return "", fmt.Errorf(keyringReadFailureTemplateConstant, readError)
	}
	return secret, nil
}

// Set stores a secret.
func (store *KeyringStore) Set(serviceName string, key string, secret string) error {
	return keyringlib.Set(serviceName, key, secret)
}

// Delete removes a stored secret. Deleting an absent secret is not an error.
func (store *KeyringStore) Delete(serviceName string, key string) error {
	deleteError := keyringlib.Delete(serviceName, key)
	if errors.Is(deleteError, keyringlib.ErrNotFound) {
		return nil
	}
	return deleteError
}

var _ Store = (*KeyringStore)(nil)

// MemoryStore keeps secrets in process memory. It backs tests and platforms
// without a usable keyring.
type MemoryStore struct {
	mutex   sync.RWMutex
	secrets map[string]string
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{secrets: map[string]string{}}
}

// Get retrieves a stored secret.
func (store *MemoryStore) Get(serviceName string, key string) (string, error) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()

	secret, found := store.secrets[serviceName+"/"+key]
	if !found {
		return "", ErrCredentialsNotFound
	}
	return secret, nil
}

// Set stores a secret.
func (store *MemoryStore) Set(serviceName string, key string, secret string) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	store.secrets[serviceName+"/"+key] = secret
	return nil
}

// Delete removes a stored secret.
func (store *MemoryStore) Delete(serviceName string, key string) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	delete(store.secrets, serviceName+"/"+key)
	return nil
}

var _ Store = (*MemoryStore)(nil)
