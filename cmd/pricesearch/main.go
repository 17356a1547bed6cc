package main

import (
	"cdpricesearch/cmd/pricesearch/commands"
	"cdpricesearch/lib/osutil"
)

func main() {
	commands.ExecuteContext(osutil.SignalContext())
}
