package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"employercheck/internal/app"
	"employercheck/internal/cache"
	"employercheck/internal/config"
	"employercheck/internal/repository"
	"employercheck/internal/service"
)

var rulesetsFlags struct {
	file      string
	mongoURI  string
	mongoDB   string
	redisAddr string
	dryRun    bool
}

var rulesetsCmd = &cobra.Command{
	Use:   "rulesets",
	Short: "Validate a ruleset file and upsert every ruleset in it",
	RunE:  runRulesets,
}

func init() {
	f := rulesetsCmd.Flags()
	f.StringVarP(&rulesetsFlags.file, "file", "f", "", "Ruleset YAML file (required)")
	f.StringVar(&rulesetsFlags.mongoURI, "mongo-uri", envOr("MONGO_URI", "mongodb://localhost:27017"), "MongoDB URI")
	f.StringVar(&rulesetsFlags.mongoDB, "db", envOr("MONGO_DB", "employercheck"), "MongoDB database")
	f.StringVar(&rulesetsFlags.redisAddr, "redis-addr", os.Getenv("REDIS_ADDR"), "Redis address; cached rulesets are dropped when set")
	f.BoolVar(&rulesetsFlags.dryRun, "dry-run", false, "Validate only")

	_ = rulesetsCmd.MarkFlagRequired("file")
}

func runRulesets(cmd *cobra.Command, _ []string) error {
	sets, err := loadRulesets(rulesetsFlags.file)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	codes := make([]string, 0, len(sets))
	for code := range sets {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	if rulesetsFlags.dryRun {
		for _, code := range codes {
			fmt.Fprintf(out, "%s  %-8s  %d branches\n", code, sets[code].Completeness, len(sets[code].Branches))
		}
		fmt.Fprintf(out, "%d rulesets valid\n", len(codes))
		return nil
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	cfg := &config.Config{MongoURI: rulesetsFlags.mongoURI, MongoDB: rulesetsFlags.mongoDB, RedisAddr: rulesetsFlags.redisAddr}
	client, err := app.ConnectMongo(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())

	var rulesetCache cache.RulesetCache
	if cfg.RedisAddr != "" {
		rdb, err := app.ConnectRedis(ctx, cfg)
		if err != nil {
			return err
		}
		defer rdb.Close()
		rulesetCache = cache.NewRulesetCache(rdb, time.Minute)
	}

	svc := service.NewRulesetService(repository.NewRulesetRepo(client.Database(cfg.MongoDB)), rulesetCache)
	for _, code := range codes {
		if err := svc.Put(ctx, sets[code]); err != nil {
			return err
		}
		fmt.Fprintf(out, "stored %s\n", code)
	}
	fmt.Fprintf(out, "%d rulesets stored\n", len(codes))
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
