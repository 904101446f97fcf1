// Package reconcile implements the convergence engine that drives platform
// state toward the roster-derived desired state.
//
// It exposes Service for programmatic use plus CommandBuilder types wiring
// the create-organization, create-repositories, add-students, and
// reset-password Cobra commands. Every corrective operation is idempotent:
// creation treats "already exists" as a verification entry point, and
// membership additions and removals succeed whether or not the edge existed.
package reconcile
