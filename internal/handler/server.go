package handler

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/faizanTadvi/SIHP1/internal/log"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Serve runs an HTTP server on l until ctx is cancelled, then drains it.
func Serve(ctx context.Context, l net.Listener, h http.Handler) error {
	log := log.FromContextOrDiscard(ctx).WithGroup("server").With("addr", l.Addr().String())
	srv := &http.Server{Handler: h, ReadHeaderTimeout: 10 * time.Second}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("server starting")
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		log.Info("server shutting down")
		shCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shCtx)
	})
	return group.Wait()
}
