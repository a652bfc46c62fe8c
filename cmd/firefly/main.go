// Package main provides the firefly command.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/leapstack-labs/firefly/internal/cli"

	_ "github.com/leapstack-labs/firefly/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/firefly/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/firefly/pkg/adapters/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
