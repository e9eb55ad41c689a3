// main is the entry point for the rankeval CLI.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/huangsam/rankeval/cmd"
	"github.com/huangsam/rankeval/internal/contract"
	"github.com/huangsam/rankeval/internal/iocache"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	cmd.SetStoreManager(iocache.Manager)
	err := cmd.Execute(ctx)

	stop()
	iocache.CloseStores()
	if profErr := cmd.StopProfiling(); profErr != nil {
		contract.LogWarn("Failed to stop profiling", profErr)
	}
	if err != nil {
		contract.LogFatal("Error starting CLI", err)
	}
}
