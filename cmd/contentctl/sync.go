package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"promptlab-content-service/internal/app/service"
	"promptlab-content-service/internal/bootstrap"
	"promptlab-content-service/internal/domain"
	"promptlab-content-service/internal/infra/postgres"
	"promptlab-content-service/internal/infra/source/registry"
	"promptlab-content-service/internal/job"
	"promptlab-content-service/pkg/locker"
)

var errSyncInProgress = errors.New("another sync holds the lock; retry later or pass --force")

var syncCmd = &cobra.Command{
	Use:   "sync [source]",
	Short: "Copy upstream CMS content into the mirror",
	Long: `Copy published content from every configured upstream CMS, or only the
named one, into the PostgreSQL mirror.

The sync takes the same lock as the API scheduler so the two never overlap.

Examples:
  contentctl sync                # Sync every upstream
  contentctl sync sanity         # Sync one upstream
  contentctl sync --force        # Skip the lock`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Show mirrored item counts per upstream",
	Args:  cobra.NoArgs,
	RunE:  runSources,
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the shared candidate cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached listing candidate set",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

func init() {
	rootCmd.AddCommand(syncCmd, sourcesCmd, cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)

	syncCmd.Flags().Bool("force", false, "run without taking the sync lock")
}

// cacheInvalidator clears a shared cache after the mirror changes.
type cacheInvalidator struct {
	cache domain.Cache
}

func (c cacheInvalidator) Invalidate(ctx context.Context) error {
	return c.cache.Clear(ctx)
}

// sharedInvalidator returns an invalidator for the Redis candidate cache.
// Memory caches live in the API process and cannot be reached from here.
func sharedInvalidator(client *redis.Client) (service.Invalidator, error) {
	if client == nil || cfg.Cache.Backend != bootstrap.CacheRedis {
		return nil, nil
	}

	cache, err := bootstrap.Cache(cfg.Cache, client, log.Named("cache"))
	if err != nil || cache == nil {
		return nil, err
	}

	return cacheInvalidator{cache: cache}, nil
}

func runSync(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Sync.Timeout)
	defer cancel()

	db, err := openMirror(ctx)
	if err != nil {
		return err
	}
	defer closeMirror(db)

	redisClient, err := bootstrap.Redis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	invalidator, err := sharedInvalidator(redisClient)
	if err != nil {
		return err
	}

	upstreams := registry.NewUpstreams(cfg.CMS, log.Named("cms"))
	svc := service.NewSyncService(postgres.NewRepository(db), upstreams, invalidator, log.Logger)

	var results []service.SyncResult
	run := func(ctx context.Context) error {
		if len(args) == 0 {
			results = svc.SyncAll(ctx)

			return nil
		}

		// A failed source still yields a result; it is reported below.
		result, err := svc.SyncSource(ctx, args[0])
		if result == nil {
			return err
		}
		results = []service.SyncResult{*result}

		return nil
	}

	if force {
		log.Warn("running sync without lock")
		err = run(ctx)
	} else {
		var ran bool
		ran, err = locker.WithLock(ctx, bootstrap.Locker(redisClient, log.Logger), job.SyncLockKey, cfg.Sync.Timeout, run)
		if err == nil && !ran {
			return errSyncInProgress
		}
	}
	if errors.Is(err, service.ErrUnknownSource) {
		return fmt.Errorf("%w (configured: %v)", err, svc.SourceNames())
	}
	if err != nil {
		return err
	}

	failed, err := writeSyncResults(cmd.OutOrStdout(), results)
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d sources failed to sync", failed, len(results))
	}

	log.Debug("sync finished", zap.Int("sources", len(results)))

	return nil
}

func runSources(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	db, err := openMirror(ctx)
	if err != nil {
		return err
	}
	defer closeMirror(db)

	svc := service.NewSyncService(postgres.NewRepository(db), registry.NewUpstreams(cfg.CMS, log.Named("cms")), nil, log.Logger)

	names := svc.SourceNames()
	counts := make([]sourceCount, len(names))
	for i, name := range names {
		count, err := svc.MirroredCount(ctx, name)
		counts[i] = sourceCount{Source: name, Count: count, Err: err}
	}

	return writeSourceCounts(cmd.OutOrStdout(), counts)
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	redisClient, err := bootstrap.Redis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	invalidator, err := sharedInvalidator(redisClient)
	if err != nil {
		return err
	}
	if invalidator == nil {
		return errors.New("no shared cache configured (cache.backend must be redis)")
	}

	if err := invalidator.Invalidate(ctx); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "candidate cache cleared")

	return nil
}
