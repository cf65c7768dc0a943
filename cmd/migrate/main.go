// Command migrate applies, rolls back or reports the database schema.
//
//	migrate up
//	migrate down [version]
//	migrate status
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/geocoder89/recipehub/internal/config"
	"github.com/geocoder89/recipehub/internal/db"
	"github.com/geocoder89/recipehub/internal/observability"
)

func main() {
	cfg := config.Load()
	log := observability.NewLogger(cfg.Env)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: migrate up | down [version] | status")
		os.Exit(2)
	}

	ctx := context.Background()

	var err error
	switch os.Args[1] {
	case "up":
		err = db.Migrate(ctx, cfg.DBURL, log)
	case "down":
		var target int64
		if len(os.Args) > 2 {
			target, err = strconv.ParseInt(os.Args[2], 10, 64)
			if err != nil {
				fmt.Fprintf(os.Stderr, "invalid version %q\n", os.Args[2])
				os.Exit(2)
			}
		}
		err = db.Rollback(ctx, cfg.DBURL, target, log)
	case "status":
		err = db.MigrationStatus(ctx, cfg.DBURL)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		os.Exit(2)
	}

	if err != nil {
		log.Error("migrate failed", "cmd", os.Args[1], "err", err)
		os.Exit(1)
	}
}
