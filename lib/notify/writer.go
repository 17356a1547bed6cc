package notify

import (
	"context"
	"fmt"
	"io"
)

// WriterSink prints the email it would have sent, used for dry runs.
type WriterSink struct {
	W    io.Writer
	From string
	To   string
}

func (s WriterSink) Send(ctx context.Context, report string) error {
	_, err := fmt.Fprintf(s.W, "From: %s\nTo: %s\nSubject: %s\n\n%s", s.From, s.To, Subject, report)
	return err
}
