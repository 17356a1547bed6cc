package notify

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/pkg/errors"
)

// SESAPI is the part of the SES client the sink uses.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESSink mails the report through Amazon SES.
type SESSink struct {
	Client SESAPI
	From   string
	To     string
}

// NewSESSink loads the default AWS credential chain for `region`.
func NewSESSink(ctx context.Context, region, from, to string) (SESSink, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return SESSink{}, errors.Wrapf(err, "cannot load aws config for region %s", region)
	}
	return SESSink{
		Client: ses.NewFromConfig(cfg),
		From:   from,
		To:     to,
	}, nil
}

func (s SESSink) input(report string) *ses.SendEmailInput {
	return &ses.SendEmailInput{
		Source: aws.String(s.From),
		Destination: &types.Destination{
			ToAddresses: []string{s.To},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(Subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(report)},
			},
		},
	}
}

func (s SESSink) Send(ctx context.Context, report string) error {
	_, err := s.Client.SendEmail(ctx, s.input(report))
	if err != nil {
		return errors.Wrapf(err, "cannot send report email to %s via SES", s.To)
	}
	return nil
}
