package pricesearch

import (
	"cdpricesearch/lib/notify"
	"cdpricesearch/lib/platforms/cd"
	"cdpricesearch/lib/report"
	"cdpricesearch/lib/timezone"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

var tracer = otel.Tracer("cdpricesearch.services.pricesearch")
var meter = otel.Meter("cdpricesearch.services.pricesearch")

const (
	outcomeOk          = "ok"
	outcomeNoFare      = "no_fare"
	outcomeSearchError = "search_error"
)

// Searcher returns the result page for a journey search payload.
type Searcher interface {
	Search(ctx context.Context, payload string) (string, error)
}

type Journey struct {
	Origin      string
	Via         string
	Destination string
}

type Options struct {
	Searcher Searcher
	Sink     notify.Sink
	// defaults to timezone.Today
	Today func() time.Time
}

type Service struct {
	searcher Searcher
	sink     notify.Sink
	today    func() time.Time
	queries  metric.Int64Counter
}

func NewService(opts Options) Service {
	today := opts.Today
	if today == nil {
		today = timezone.Today
	}
	queries, err := meter.Int64Counter(
		"fare_queries",
		metric.WithDescription("fare searches made, by outcome"),
	)
	if err != nil {
		slog.Warn("failed to create fare_queries counter", "err", err)
	}
	return Service{
		searcher: opts.Searcher,
		sink:     opts.Sink,
		today:    today,
		queries:  queries,
	}
}

func (s Service) count(ctx context.Context, outcome string) {
	if s.queries == nil {
		return
	}
	s.queries.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// query looks up the lowest fare for one direction, a failed search or a
// page without fares both come back as the error price.
func (s Service) query(ctx context.Context, q cd.Query) report.Price {
	ctx, span := tracer.Start(ctx, "query")
	defer span.End()

	date := timezone.FormatDate(q.Date)
	span.SetAttributes(
		attribute.String("date", date),
		attribute.String("origin", q.Origin),
		attribute.String("destination", q.Destination),
	)

	body, err := s.searcher.Search(ctx, cd.BuildPayload(q))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		slog.WarnContext(
			ctx, "fare search failed",
			"date", date,
			"origin", q.Origin,
			"destination", q.Destination,
			"err", err,
		)
		s.count(ctx, outcomeSearchError)
		return report.ErrorPrice()
	}

	price, ok := cd.ExtractLowestPrice(body)
	if !ok {
		slog.WarnContext(
			ctx, "no fare found",
			"date", date,
			"origin", q.Origin,
			"destination", q.Destination,
		)
		s.count(ctx, outcomeNoFare)
		return report.ErrorPrice()
	}

	slog.InfoContext(
		ctx, "fare found",
		"date", date,
		"origin", q.Origin,
		"destination", q.Destination,
		"price", price,
	)
	s.count(ctx, outcomeOk)
	return report.NewPrice(price)
}

// Run queries both directions of the journey for `dateCount` days starting
// today, one query at a time. the report has a row for every query made.
func (s Service) Run(ctx context.Context, journey Journey, dateCount int) report.Report {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	var out report.Report
	for _, date := range timezone.DateRange(dateCount, s.today()) {
		directions := [][2]string{
			{journey.Origin, journey.Destination},
			{journey.Destination, journey.Origin},
		}
		for _, d := range directions {
			q := cd.Query{
				Date:        date,
				Origin:      d[0],
				Destination: d[1],
				Via:         journey.Via,
			}
			out.Append(q.Date, q.Origin, q.Destination, s.query(ctx, q))
		}
	}
	return out
}

type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
	// the rendered report, Body carries it json encoded
	Report string        `json:"-"`
	Rows   report.Report `json:"-"`
}

func newResponse(status int, rows report.Report) Response {
	rendered := rows.Render()
	// marshalling a string cannot fail
	body, _ := json.Marshal(rendered)
	return Response{StatusCode: status, Body: string(body), Report: rendered, Rows: rows}
}

// Invoke validates the config, builds the report and delivers it. when
// delivery fails the response still carries the report next to the error.
func (s Service) Invoke(ctx context.Context, config Config) (Response, error) {
	ctx, span := tracer.Start(ctx, "Invoke")
	defer span.End()

	err := config.Validate()
	if err != nil {
		span.SetStatus(codes.Error, "invalid config")
		return Response{StatusCode: http.StatusBadRequest}, err
	}

	slog.InfoContext(
		ctx, "searching fares",
		"origin", config.JourneyOrigin,
		"via", config.Via,
		"destination", config.JourneyDestination,
		"dates", config.DatesToQuery,
	)
	rows := s.Run(ctx, config.Journey(), config.DatesToQuery)
	rendered := rows.Render()

	err = s.sink.Send(ctx, rendered)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to deliver report")
		return newResponse(http.StatusBadGateway, rows), fmt.Errorf("deliver report: %w", err)
	}

	slog.InfoContext(ctx, "report delivered", "to", config.EmailTo)
	return newResponse(http.StatusOK, rows), nil
}
