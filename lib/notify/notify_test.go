package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.inputs = append(f.inputs, params)
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("0100-msg")}, nil
}

const testReport = "date,origin,destination,price\r\n11.03.2020,A,B,39\r\n"

func TestSESSink(t *testing.T) {
	client := &fakeSES{}
	sink := SESSink{Client: client, From: "bot@example.com", To: "me@example.com"}

	err := sink.Send(context.Background(), testReport)
	require.NoError(t, err)

	require.Len(t, client.inputs, 1)
	input := client.inputs[0]
	require.Equal(t, "bot@example.com", aws.ToString(input.Source))
	require.Equal(t, []string{"me@example.com"}, input.Destination.ToAddresses)
	require.Equal(t, Subject, aws.ToString(input.Message.Subject.Data))
	require.Equal(t, testReport, aws.ToString(input.Message.Body.Text.Data))
	require.Nil(t, input.Message.Body.Html)
}

func TestSESSinkError(t *testing.T) {
	cause := errors.New("MessageRejected: Email address is not verified")
	sink := SESSink{Client: &fakeSES{err: cause}, From: "bot@example.com", To: "me@example.com"}

	err := sink.Send(context.Background(), testReport)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "me@example.com")
}

func TestSmtpMessage(t *testing.T) {
	sink := SmtpSink{
		Config: SmtpConfig{Server: "smtp.example.com", Port: 587},
		From:   "Price Search <bot@example.com>",
		To:     "me@example.com",
	}
	mail := sink.message(testReport)
	require.Equal(t, "Price Search <bot@example.com>", mail.From)
	require.Equal(t, []string{"me@example.com"}, mail.To)
	require.Equal(t, Subject, mail.Subject)
	require.Equal(t, testReport, string(mail.Text))

	raw, err := mail.Bytes()
	require.NoError(t, err)
	require.Contains(t, string(raw), "Subject: "+Subject)
}

func TestSmtpSinkUnreachable(t *testing.T) {
	sink := SmtpSink{
		// port 1 on loopback refuses connections
		Config: SmtpConfig{Server: "127.0.0.1", Port: 1},
		From:   "bot@example.com",
		To:     "me@example.com",
	}
	err := sink.Send(context.Background(), testReport)
	require.Error(t, err)
	require.Contains(t, err.Error(), "127.0.0.1:1")
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := WriterSink{W: &buf, From: "bot@example.com", To: "me@example.com"}

	require.NoError(t, sink.Send(context.Background(), testReport))
	require.Equal(t,
		"From: bot@example.com\nTo: me@example.com\nSubject: "+Subject+"\n\n"+testReport,
		buf.String(),
	)
}
