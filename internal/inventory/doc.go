// Package inventory lists the platform's organizations, an organization's
// repositories, and the instance-wide template repositories.
package inventory
