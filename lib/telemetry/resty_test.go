package telemetry

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestTruncateBody(t *testing.T) {
	require.Equal(t, "short", truncateBody("short"))

	long := strings.Repeat("x", maxBodyAttribute+10)
	truncated := truncateBody(long)
	require.True(t, strings.HasSuffix(truncated, "...(truncated)"))
	require.Len(t, truncated, maxBodyAttribute+len("...(truncated)"))
}

func TestRequestBodyAttribute(t *testing.T) {
	req, err := http.NewRequest(http.MethodPost, "http://localhost/", strings.NewReader("a=1"))
	require.NoError(t, err)
	require.Equal(t, "a=1", requestBodyAttribute(req).Value.AsString())

	req.GetBody = func() (io.ReadCloser, error) { return nil, nil }
	require.Equal(t, "", requestBodyAttribute(req).Value.AsString())

	req.GetBody = nil
	require.Equal(t, "", requestBodyAttribute(req).Value.AsString())
}

func TestInstrumentRestyBodylessPost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := resty.New()
	InstrumentResty(client, "test")

	res, err := client.R().Post(server.URL + "/results")
	require.NoError(t, err)
	require.Equal(t, "ok", res.String())
}
