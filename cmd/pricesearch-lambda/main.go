package main

import (
	"cdpricesearch/lib/notify"
	"cdpricesearch/lib/platforms/cd"
	"cdpricesearch/lib/telemetry"
	"cdpricesearch/services/pricesearch"
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/aws/aws-lambda-go/lambda"
)

// Event is the invocation payload, keys match the scheduled rule's input.
type Event struct {
	AwsRegion          string `json:"AWS_REGION"`
	EmailFrom          string `json:"EMAIL_FROM"`
	EmailTo            string `json:"EMAIL_TO"`
	JourneyOrigin      string `json:"JOURNEY_ORIGIN"`
	Via                string `json:"VIA"`
	JourneyDestination string `json:"JOURNEY_DESTINATION"`
	DatesToQuery       int    `json:"DATES_TO_QUERY"`
}

func (e Event) Config() pricesearch.Config {
	return pricesearch.Config{
		AwsRegion:          e.AwsRegion,
		EmailFrom:          e.EmailFrom,
		EmailTo:            e.EmailTo,
		JourneyOrigin:      e.JourneyOrigin,
		Via:                e.Via,
		JourneyDestination: e.JourneyDestination,
		DatesToQuery:       e.DatesToQuery,
	}
}

type Handler struct {
	Telemetry telemetry.Telemetry
	Searcher  pricesearch.Searcher
	// builds the sink for an invocation, defaults to pricesearch.NewSink
	NewSink func(ctx context.Context, config pricesearch.Config) (notify.Sink, error)
}

// Handle returns an error only when nothing could be computed. a failed
// delivery is reported through the status code so the report in the
// body isn't discarded by the lambda runtime.
func (h Handler) Handle(ctx context.Context, event Event) (pricesearch.Response, error) {
	defer func() {
		err := h.Telemetry.ForceFlush(ctx)
		if err != nil {
			slog.Warn("failed to flush telemetry", "err", err)
		}
	}()

	config := event.Config()
	err := config.Validate()
	if err != nil {
		slog.ErrorContext(ctx, "invalid event", "err", err)
		return pricesearch.Response{StatusCode: http.StatusBadRequest}, err
	}

	newSink := h.NewSink
	if newSink == nil {
		newSink = pricesearch.NewSink
	}
	sink, err := newSink(ctx, config)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create notification sink", "err", err)
		return pricesearch.Response{}, err
	}

	service := pricesearch.NewService(pricesearch.Options{
		Searcher: h.Searcher,
		Sink:     sink,
	})
	res, err := service.Invoke(ctx, config)
	if err != nil {
		slog.ErrorContext(ctx, "invocation failed", "status", res.StatusCode, "err", err)
		if res.Rows.Len() == 0 {
			return res, err
		}
	}
	return res, nil
}

func main() {
	telemetry.InitSlog(os.Getenv("PRICESEARCH_VERBOSE") != "", telemetry.LogFormatJson)

	tel, err := telemetry.SetupFromEnv(context.Background(), "pricesearch-lambda")
	if err != nil {
		slog.Error("failed to setup telemetry", "err", err.Error())
		os.Exit(1)
	}

	// lambda's own deadline is the outer bound, this keeps one hung
	// request from eating all of it
	client, err := cd.NewClient(cd.ClientOptions{Timeout: 30 * time.Second})
	if err != nil {
		slog.Error("failed to create cd client", "err", err.Error())
		os.Exit(1)
	}

	h := Handler{Telemetry: tel, Searcher: client}
	lambda.Start(h.Handle)
}
