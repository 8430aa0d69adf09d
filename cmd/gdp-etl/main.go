package main

import (
	"context"

	"gdp-etl/cmd/gdp-etl/commands"
	"gdp-etl/lib/osutil"
)

func main() {
	ctx, stop := osutil.SignalContext(context.Background())
	defer stop()
	commands.ExecuteContext(ctx)
}
