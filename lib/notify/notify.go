package notify

import "context"

// Subject is the subject line of every report email.
const Subject = "cd-dot-cz-price-search results"

// Sink delivers a rendered report to whoever should receive it.
type Sink interface {
	Send(ctx context.Context, report string) error
}
