// Package commits resolves commit authorship to roster identities and flags
// repositories without any genuine student activity.
//
// Classification follows a precedence chain: synthetic template commits
// authored under the organization name are ignored, linked platform logins
// are checked against the admin set, alias-mapped emails resolve unlinked
// authors, known admin emails are ignored, and everything else counts as
// non-admin activity from an unknown author.
package commits
