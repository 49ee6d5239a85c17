// Command seed fills the configured database with demo data.
package main

import (
	"context"
	"flag"
	"yatube/internal/config"
	"yatube/internal/db"
	"yatube/internal/logging"
	"yatube/internal/seed"
	"yatube/internal/store"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	defaults := seed.DefaultOptions()
	users := flag.Int("users", defaults.Users, "Number of users to create")
	groups := flag.Int("groups", defaults.Groups, "Number of groups to create")
	posts := flag.Int("posts", defaults.Posts, "Number of posts to create")
	comments := flag.Int("comments", defaults.Comments, "Maximum comments per post")
	days := flag.Int("days", defaults.MaxDays, "Spread post dates over this many days")
	randSeed := flag.Int64("seed", 0, "Faker seed, 0 for random")
	flag.Parse()

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

	res, err := seed.NewSeeder(store.New(gdb), *randSeed).Run(context.Background(), seed.Options{
		Users:    *users,
		Groups:   *groups,
		Posts:    *posts,
		Comments: *comments,
		MaxDays:  *days,
	})
	if err != nil {
		logging.Log.WithError(err).Fatal("Seeding failed")
	}

	logging.Log.WithFields(logrus.Fields{
		"users":    res.Users,
		"groups":   res.Groups,
		"posts":    res.Posts,
		"comments": res.Comments,
		"follows":  res.Follows,
	}).Infof("Seeding done, every user's password is %q", seed.DemoPassword)
}
