package main

import (
	"cdpricesearch/lib/notify"
	"cdpricesearch/services/pricesearch"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const scheduledEvent = `{
	"AWS_REGION": "eu-central-1",
	"EMAIL_FROM": "bot@example.com",
	"EMAIL_TO": "me@example.com",
	"JOURNEY_ORIGIN": "Praha",
	"VIA": "Pardubice",
	"JOURNEY_DESTINATION": "Ostrava",
	"DATES_TO_QUERY": 2
}`

type staticSearcher string

func (s staticSearcher) Search(ctx context.Context, payload string) (string, error) {
	return string(s), nil
}

type failingSink struct{}

func (failingSink) Send(ctx context.Context, report string) error {
	return errors.New("mailbox unavailable")
}

func decodeEvent(t testing.TB) Event {
	var event Event
	err := json.Unmarshal([]byte(scheduledEvent), &event)
	require.NoError(t, err)
	return event
}

func TestEventConfig(t *testing.T) {
	config := decodeEvent(t).Config()
	require.Equal(t, pricesearch.Config{
		AwsRegion:          "eu-central-1",
		EmailFrom:          "bot@example.com",
		EmailTo:            "me@example.com",
		JourneyOrigin:      "Praha",
		Via:                "Pardubice",
		JourneyDestination: "Ostrava",
		DatesToQuery:       2,
	}, config)
	require.NoError(t, config.Validate())
}

func TestHandleDelivered(t *testing.T) {
	var sent strings.Builder
	h := Handler{
		Searcher: staticSearcher(`{"price":255900,"name":"x"}`),
		NewSink: func(ctx context.Context, config pricesearch.Config) (notify.Sink, error) {
			return notify.WriterSink{W: &sent, From: config.EmailFrom, To: config.EmailTo}, nil
		},
	}

	res, err := h.Handle(context.Background(), decodeEvent(t))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, 4, res.Rows.Len())
	require.Contains(t, sent.String(), "Praha,Ostrava,100")

	var body string
	require.NoError(t, json.Unmarshal([]byte(res.Body), &body))
	require.Equal(t, res.Report, body)
}

func TestHandleDeliveryFailureKeepsReport(t *testing.T) {
	h := Handler{
		Searcher: staticSearcher(`{"price":255900,"name":"x"}`),
		NewSink: func(ctx context.Context, config pricesearch.Config) (notify.Sink, error) {
			return failingSink{}, nil
		},
	}

	res, err := h.Handle(context.Background(), decodeEvent(t))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadGateway, res.StatusCode)
	require.Contains(t, res.Report, "Ostrava,Praha,100")
}

func TestHandleInvalidEvent(t *testing.T) {
	event := decodeEvent(t)
	event.EmailTo = ""

	h := Handler{
		Searcher: staticSearcher(""),
		NewSink: func(ctx context.Context, config pricesearch.Config) (notify.Sink, error) {
			t.Fatal("sink must not be built for an invalid event")
			return nil, nil
		},
	}
	res, err := h.Handle(context.Background(), event)
	require.ErrorIs(t, err, pricesearch.ErrInvalidConfig)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestPragueZoneWithoutZoneinfo(t *testing.T) {
	t.Setenv("ZONEINFO", t.TempDir())
	loc, err := time.LoadLocation("Europe/Prague")
	require.NoError(t, err)
	require.Equal(t, "Europe/Prague", loc.String())
}
