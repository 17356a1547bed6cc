package cd

import (
	"cdpricesearch/lib/restyutil"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("cdpricesearch.lib.platforms.cd")
var restyInstrumentOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput makes every session created afterwards dump
// its raw http exchanges to `out`.
func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}
