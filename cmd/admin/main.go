// Command admin is the operator tool for data the site itself cannot edit:
// groups, and removal of users and posts.
package main

import (
	"context"
	"fmt"
	"os"
	"yatube/internal/config"
	"yatube/internal/db"
	"yatube/internal/logging"
	"yatube/internal/store"

	"github.com/joho/godotenv"
)

const usage = `usage: admin <command> [flags]

commands:
  create-group -title T -slug S [-description D]
  list-groups
  delete-group -slug S
  delete-user  -username U
  delete-post  -id N
`

func main() {
	_ = godotenv.Load()
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Log.WithError(err).Fatal("Failed to load configuration")
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat)

	gdb, err := db.Open(cfg)
	if err != nil {
		logging.Log.WithError(err).Fatal("Failed to connect to database")
	}
	if err := db.Migrate(gdb); err != nil {
		logging.Log.WithError(err).Fatal("Failed to migrate database")
	}

	if err := run(context.Background(), store.New(gdb), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
