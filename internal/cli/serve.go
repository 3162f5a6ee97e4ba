package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chordial/chordial/pkg/cache"
	"github.com/chordial/chordial/pkg/config"
	"github.com/chordial/chordial/pkg/graph"
	"github.com/chordial/chordial/pkg/store"
)

// serveShutdownTimeout bounds graceful shutdown on interrupt.
const serveShutdownTimeout = 5 * time.Second

// serveOptions holds the backend selection flags for the serve command.
type serveOptions struct {
	addr          string
	mongoURI      string
	mongoDB       string
	redisAddr     string
	redisPassword string
	noCache       bool
}

// serveCommand creates the serve command for hosting interactive diagrams.
func (c *CLI) serveCommand() *cobra.Command {
	var o serveOptions
	style := &styleFlags{}

	cmd := &cobra.Command{
		Use:   "serve [dataset.json]",
		Short: "Serve an interactive chord diagram over HTTP",
		Long: `Serve an interactive chord diagram over HTTP.

The server renders the dataset on demand and exposes a small API around
it: hover hit-testing with tooltips, live configuration updates, and
named snapshots that can be saved, listed, and loaded back.

Routes:
  GET  /                   interactive viewer page
  GET  /diagram.svg        current diagram as SVG
  GET  /diagram.png        current diagram as PNG
  POST /hit                hit-test a pointer position
  GET  /config             current configuration
  PUT  /config             update configuration (partial JSON)
  GET  /diagrams           list saved diagrams
  POST /diagrams           save the current diagram
  GET  /diagrams/{id}      fetch a saved diagram
  POST /diagrams/{id}/load make a saved diagram current
  DEL  /diagrams/{id}      delete a saved diagram

Saved diagrams live in memory by default; pass --mongo-uri to persist
them. The render cache is file-based by default; pass --redis-addr to
share it between processes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := style.resolve(cmd)
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), args[0], cfg, o)
		},
	}

	cmd.Flags().StringVar(&o.addr, "addr", ":8423", "listen address")
	cmd.Flags().StringVar(&o.mongoURI, "mongo-uri", "", "MongoDB connection URI for saved diagrams (default: in-memory)")
	cmd.Flags().StringVar(&o.mongoDB, "mongo-db", appName, "MongoDB database name")
	cmd.Flags().StringVar(&o.redisAddr, "redis-addr", "", "Redis address for the render cache (default: file cache)")
	cmd.Flags().StringVar(&o.redisPassword, "redis-password", "", "Redis password")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable the render cache")
	style.register(cmd)

	return cmd
}

// runServe wires the backends and runs the HTTP server until ctx is
// cancelled or the listener fails.
func (c *CLI) runServe(ctx context.Context, input string, cfg config.Config, o serveOptions) error {
	d, err := graph.ReadDatasetFile(input)
	if err != nil {
		return fmt.Errorf("load dataset %s: %w", input, err)
	}
	if err := d.Validate(); err != nil {
		return err
	}

	ch, cacheDesc, err := newServeCache(o)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}

	st, storeDesc, err := newServeStore(ctx, o)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}

	srv := newServer(d, cfg, ch, st, c.Logger)
	defer srv.Close()

	httpSrv := &http.Server{
		Addr:              o.addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	printSuccess("Serving chord diagram")
	printKeyValue("Address", serveURL(o.addr))
	printKeyValue("Dataset", input)
	printKeyValue("Store", storeDesc)
	printKeyValue("Cache", cacheDesc)
	printNewline()
	printNextStep("Open", serveURL(o.addr))

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdownTimeout)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// newServeCache picks the render cache backend from the flags:
// Redis when requested, otherwise the shared file cache, with the
// null cache as the explicit opt-out.
func newServeCache(o serveOptions) (cache.Cache, string, error) {
	switch {
	case o.noCache:
		return cache.NewNullCache(), "disabled", nil
	case o.redisAddr != "":
		ch, err := cache.NewRedisCache(o.redisAddr, o.redisPassword, 0)
		if err != nil {
			return nil, "", err
		}
		return ch, "redis " + o.redisAddr, nil
	default:
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), "disabled", nil
		}
		ch, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, "", err
		}
		return ch, "file " + dir, nil
	}
}

// newServeStore picks the diagram store backend from the flags.
func newServeStore(ctx context.Context, o serveOptions) (store.Store, string, error) {
	if o.mongoURI != "" {
		st, err := store.NewMongoStore(ctx, o.mongoURI, o.mongoDB)
		if err != nil {
			return nil, "", err
		}
		return st, "mongodb " + o.mongoDB, nil
	}
	return store.NewMemStore(), "memory", nil
}

// serveURL turns a listen address into something clickable.
func serveURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
