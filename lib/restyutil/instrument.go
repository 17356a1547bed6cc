package restyutil

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/go-resty/resty/v2"
)

type InstrumentOutput interface {
	Write(id string, contents string)
}

type instrumentCtx struct {
	output    InstrumentOutput
	prefix    string
	idcounter *uint64
}

// InstrumentClient dumps every completed request/response pair of the
// client to `output`, files are named <prefix>-<unix millis>-<n>.txt.
// `output` can be nil, then this is a no-op.
func InstrumentClient(client *resty.Client, prefix string, output InstrumentOutput) {
	if output == nil {
		return
	}
	var idcounter uint64
	i := instrumentCtx{output: output, prefix: prefix, idcounter: &idcounter}
	client.OnAfterResponse(i.onAfterResponse)
}

func (i instrumentCtx) nextId() string {
	n := atomic.AddUint64(i.idcounter, 1)
	return fmt.Sprintf("%s-%d-%d.txt", i.prefix, time.Now().UnixMilli(), n)
}

func (i instrumentCtx) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	id := i.nextId()
	i.output.Write(id, formatHttpMessage(res))
	slog.DebugContext(
		res.Request.Context(), "dumped http exchange",
		"method", res.Request.Method,
		"url", res.Request.URL,
		"file", id,
	)
	return nil
}
