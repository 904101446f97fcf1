// Package credentials stores and resolves the platform administrator's
// credentials, preferring explicit configuration and falling back to the
// operating system keyring.
package credentials
