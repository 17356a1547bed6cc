package pricesearch

import (
	"cdpricesearch/lib/notify"
	"context"
	"io"
	"os"
)

// DryRunOutput receives the email of a dry run.
var DryRunOutput io.Writer = os.Stderr

// NewSink prints the email on a dry run, otherwise it picks the smtp relay
// when one is configured and SES when not.
func NewSink(ctx context.Context, config Config) (notify.Sink, error) {
	if config.DryRun {
		return notify.WriterSink{W: DryRunOutput, From: config.EmailFrom, To: config.EmailTo}, nil
	}
	if config.Smtp.Server != "" {
		smtp := config.Smtp
		if smtp.Port == 0 {
			smtp.Port = 587
		}
		return notify.SmtpSink{Config: smtp, From: config.EmailFrom, To: config.EmailTo}, nil
	}
	return notify.NewSESSink(ctx, config.AwsRegion, config.EmailFrom, config.EmailTo)
}
