package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	storage "github.com/temifoden/alx-backend-storage"
	"github.com/temifoden/alx-backend-storage/internal/metrics"
)

// session is an open cache plus the metrics registry it reports to.
type session struct {
	cache    *storage.Cache
	registry *prometheus.Registry
}

// openSession builds a Config from the environment, applies the flags
// in opts on top and opens the cache.
func openSession(ctx context.Context, cmd *cobra.Command, opts *RootOptions) (*session, error) {
	cfg, err := storage.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	if opts.Backend != "" {
		cfg.Driver = opts.Backend
	}
	if opts.RedisAddr != "" {
		cfg.RedisAddr = opts.RedisAddr
	}
	if opts.DSN != "" {
		cfg.PostgresDSN = opts.DSN
	}
	if opts.SQLitePath != "" {
		cfg.SQLitePath = opts.SQLitePath
	}
	if opts.KeyPrefix != "" {
		cfg.KeyPrefix = opts.KeyPrefix
	}
	if opts.keyFunc != nil {
		cfg.KeyFunc = opts.keyFunc
	}
	if opts.Verbose {
		h := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})
		cfg.Logger = storage.NewSlogLogger(slog.New(h))
	}

	s := &session{}
	if opts.Metrics {
		s.registry = prometheus.NewRegistry()
		prom, err := metrics.NewPrometheus(s.registry, "storage")
		if err != nil {
			return nil, err
		}
		cfg.Metrics = prom
	}

	s.cache, err = storage.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// close dumps the metrics registry, if any, to stderr and closes the cache.
func (s *session) close(cmd *cobra.Command) error {
	var errs []error
	if s.registry != nil {
		errs = append(errs, writeMetrics(cmd, s.registry))
	}
	errs = append(errs, s.cache.Close())
	return errors.Join(errs...)
}

func writeMetrics(cmd *cobra.Command, reg prometheus.Gatherer) error {
	mfs, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	enc := expfmt.NewEncoder(cmd.ErrOrStderr(), expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}

// withCache opens a session, runs fn and closes the session.
func withCache(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, c *storage.Cache) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := openSession(ctx, cmd, opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.close(cmd); err == nil {
			err = cerr
		}
	}()
	return fn(ctx, s.cache)
}
