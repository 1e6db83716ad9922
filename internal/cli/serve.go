package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rebeliceyang/lazyjson/internal/preview"
	"github.com/rebeliceyang/lazyjson/internal/web"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func (c *CLI) newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve the tree to a browser",
		Long:  `Serve the document over HTTP. Every browser tab gets its own copy; edits are never written back to the file.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg.Web.Addr
			}
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), firstArg(args), ln)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: web.addr from config)")
	return cmd
}

// runServe serves on ln until ctx is cancelled
func (c *CLI) runServe(ctx context.Context, file string, ln net.Listener) error {
	logger := loggerFromContext(ctx)

	src, err := c.readSource(file, c.yaml)
	if err != nil {
		_ = ln.Close()
		return err
	}
	// fail before listening if the input is bad
	if _, err := src.parse(); err != nil {
		_ = ln.Close()
		return err
	}

	opts := []web.Option{
		web.WithLogger(logger),
		web.WithTitle(src.name),
		web.WithPulse(c.cfg.Copy.Pulse()),
		web.WithStartCollapsed(c.cfg.Tree.StartCollapsed),
	}
	if c.cfg.Preview.Enabled {
		opts = append(opts, web.WithPreviewer(preview.NewFetcher(
			preview.WithMaxBody(c.cfg.Preview.MaxBodyBytes),
			preview.WithUserAgent(c.cfg.Preview.UserAgent),
		)))
	}
	handler := web.NewServer(src.parse, opts...)

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("serving", "url", "http://"+ln.Addr().String(), "source", src.name)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		handler.CloseSessions()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("server stopped")
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
