package cd

import (
	"cdpricesearch/lib/restyutil"
	"cdpricesearch/lib/telemetry"
	"context"
	"fmt"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/titanous/json5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/net/publicsuffix"
)

const DefaultBaseUrl = "https://www.cd.cz"

const (
	searchPath  = "/de/spojeni-a-jizdenka/"
	resultsPath = searchPath + "spojeni-tam/"
)

const (
	OpStartSearch  = "start-search"
	OpParseGuid    = "parse-guid"
	OpFetchResults = "fetch-results"
)

// SearchError is a failed fare search, Op is the step of the exchange that failed.
type SearchError struct {
	Op  string
	Err error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("cd search: %s: %s", e.Op, e.Err.Error())
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

type ClientOptions struct {
	// defaults to DefaultBaseUrl
	BaseUrl string
	// zero keeps the http client's default (no timeout)
	Timeout time.Duration
}

type Client struct {
	BaseUrl *url.URL
	opts    ClientOptions
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}
	return &Client{BaseUrl: baseUrl, opts: opts}, nil
}

// Session is one cookie context with the booking site, the guid handed
// out by a journey search is only valid together with its cookies.
type Session struct {
	http *resty.Client
}

func (c *Client) NewSession() (*Session, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetBaseURL(c.BaseUrl.String())
	client.SetCookieJar(jar)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(c.BaseUrl.Hostname()))
	if c.opts.Timeout > 0 {
		client.SetTimeout(c.opts.Timeout)
	}

	telemetry.InstrumentResty(client, "platforms/cd/http")
	restyutil.InstrumentClient(client, "cd", restyInstrumentOutput)

	return &Session{http: client}, nil
}

func checkResponse(res *resty.Response) error {
	if !res.IsSuccess() {
		return fmt.Errorf("unexpected status %s for %s", res.Status(), res.Request.URL)
	}
	return nil
}

var pythonConstants = map[string]string{
	"True":  "true",
	"False": "false",
	"None":  "null",
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// normalizeConstants rewrites the bare python constants True, False and
// None outside of string literals into their json5 spelling.
func normalizeConstants(body []byte) []byte {
	out := make([]byte, 0, len(body))
	var quote byte
	for i := 0; i < len(body); i++ {
		b := body[i]
		if quote != 0 {
			out = append(out, b)
			switch {
			case b == '\\' && i+1 < len(body):
				i++
				out = append(out, body[i])
			case b == quote:
				quote = 0
			}
			continue
		}
		if b == '"' || b == '\'' {
			quote = b
			out = append(out, b)
			continue
		}
		if !isIdentByte(b) {
			out = append(out, b)
			continue
		}

		end := i
		for end < len(body) && isIdentByte(body[end]) {
			end++
		}
		word := string(body[i:end])
		if replaced, ok := pythonConstants[word]; ok {
			word = replaced
		}
		out = append(out, word...)
		i = end - 1
	}
	return out
}

// parseGuid reads the guid out of the journey search response. the body
// is a loose object literal (single quotes, unquoted keys, python
// constants) which json5 accepts once the constants are respelled.
func parseGuid(body []byte) (string, error) {
	var parsed map[string]any
	err := json5.Unmarshal(normalizeConstants(body), &parsed)
	if err != nil {
		return "", fmt.Errorf("malformed journey search response: %w", err)
	}

	switch guid := parsed["guid"].(type) {
	case string:
		if guid == "" {
			return "", fmt.Errorf("empty guid in journey search response")
		}
		return guid, nil
	case float64:
		return strconv.FormatFloat(guid, 'f', -1, 64), nil
	case nil:
		return "", fmt.Errorf("no guid in journey search response")
	default:
		return "", fmt.Errorf("unexpected guid type %T in journey search response", guid)
	}
}

// StartSearch submits the journey search form and returns the guid of
// the server side result set.
func (s *Session) StartSearch(ctx context.Context, payload string) (string, error) {
	ctx, span := tracer.Start(ctx, "session:StartSearch")
	defer span.End()

	res, err := s.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8").
		SetBody(payload).
		Post(searchPath)
	if err == nil {
		err = checkResponse(res)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to post journey search")
		return "", &SearchError{Op: OpStartSearch, Err: err}
	}

	guid, err := parseGuid(res.Body())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read guid")
		return "", &SearchError{Op: OpParseGuid, Err: err}
	}
	span.SetAttributes(attribute.String("guid", guid))
	return guid, nil
}

// FetchResults loads the result page of a search started in the same session.
func (s *Session) FetchResults(ctx context.Context, guid string) (string, error) {
	ctx, span := tracer.Start(ctx, "session:FetchResults")
	defer span.End()

	res, err := s.http.R().
		SetContext(ctx).
		Post(resultsPath + url.PathEscape(guid))
	if err == nil {
		err = checkResponse(res)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch results")
		return "", &SearchError{Op: OpFetchResults, Err: err}
	}
	return res.String(), nil
}

// Search runs the whole exchange for one payload in a fresh session and
// returns the result page. all errors are *SearchError.
func (c *Client) Search(ctx context.Context, payload string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:Search")
	defer span.End()

	session, err := c.NewSession()
	if err != nil {
		span.SetStatus(codes.Error, "failed to create session")
		return "", &SearchError{Op: OpStartSearch, Err: err}
	}
	guid, err := session.StartSearch(ctx, payload)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	body, err := session.FetchResults(ctx, guid)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return body, nil
}
