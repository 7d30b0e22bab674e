package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/virp/go-shortener/internal/app/config"
	"github.com/virp/go-shortener/internal/app/storage"
)

type app struct {
	v   *viper.Viper
	cfg config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "shortener",
		Short:         "Short link service",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			if err := config.LoadDotEnv(envFile); err != nil {
				log.Printf("warning: %v", err)
			}

			cfg, err := config.Load(a.v)
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			a.cfg = cfg

			return nil
		},
	}

	root.PersistentFlags().String("env-file", ".env", "dotenv file to load before reading the environment")
	if err := config.RegisterFlags(a.v, root.PersistentFlags()); err != nil {
		log.Fatalf("flags: %v", err)
	}

	root.AddCommand(
		newServeCmd(a),
		newCreateCmd(a),
		newListCmd(a),
		newResolveCmd(a),
	)

	return root
}

func (a *app) openStore(ctx context.Context) (*storage.LinkStore, error) {
	b, err := a.openBackend(ctx)
	if err != nil {
		return nil, err
	}

	return storage.NewLinkStore(b), nil
}

func (a *app) openBackend(ctx context.Context) (storage.Backend, error) {
	switch a.cfg.Backend {
	case config.BackendMemory:
		return storage.NewMemoryBackend(), nil
	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     a.cfg.RedisAddr,
			Password: a.cfg.RedisPassword,
			DB:       a.cfg.RedisDB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}

		return storage.NewRedisBackend(rdb, storage.WithRedisKey(a.cfg.RedisKey)), nil
	case config.BackendPostgres:
		return storage.NewPostgresBackend(ctx, a.cfg.DatabaseDSN)
	default:
		return storage.NewFileBackend(a.cfg.File)
	}
}
