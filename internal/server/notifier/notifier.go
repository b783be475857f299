// Package notifier delivers verification codes out-of-band. Delivery failure
// never rolls back code issuance; the code stays valid so a resend is always
// possible.
package notifier

import "context"

type Notifier interface {
	Send(ctx context.Context, email, code string) error
}
