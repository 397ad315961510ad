// Package blocklists stores the names, email domains and passwords that may
// not be used for new accounts.
package blocklists

import "context"

type Repository interface {
	// NameBlocked reports whether any blocked name occurs in name, ignoring
	// case.
	NameBlocked(ctx context.Context, name string) (bool, error)
	EmailDomainBlocked(ctx context.Context, domain string) (bool, error)
	PasswordBlocked(ctx context.Context, password string) (bool, error)

	AddName(ctx context.Context, name string) error
	AddEmailDomain(ctx context.Context, domain string) error
	AddPassword(ctx context.Context, password string) error
}
