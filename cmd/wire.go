package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/signlang-ai/signstream/clients"
	cfg "github.com/signlang-ai/signstream/config"
	"github.com/signlang-ai/signstream/orchestrator"
	"github.com/signlang-ai/signstream/speech"
	"github.com/signlang-ai/signstream/store"
)

// wiring holds the collaborators built from config for one session run.
type wiring struct {
	session *orchestrator.Session
	sinks   []orchestrator.Sink
	metrics *orchestrator.Metrics
	closers []func()
}

func (w *wiring) close() {
	for i := len(w.closers) - 1; i >= 0; i-- {
		w.closers[i]()
	}
}

func wire(ctx context.Context, c *cfg.Root, speak bool) (*wiring, error) {
	w := &wiring{}
	reg := prometheus.NewRegistry()
	w.metrics = orchestrator.NewMetrics(reg)
	if c.Metrics.Addr != "" {
		srv := &http.Server{Addr: c.Metrics.Addr, Handler: orchestrator.Handler(reg), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("metrics server")
			}
		}()
		log.WithField("addr", c.Metrics.Addr).Info("serving metrics")
		w.closers = append(w.closers, func() {
			sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		})
	}

	opts := []orchestrator.Option{
		orchestrator.WithDisplay(orchestrator.NewLogDisplay(log.WithField("component", "display"))),
		orchestrator.WithMetrics(w.metrics),
	}
	if speak {
		engine, err := speech.New(speech.Options{
			Engine:  c.Speech.Engine,
			Command: c.Speech.Command,
			Voice:   c.Speech.Voice,
			Rate:    c.Speech.Rate,
			URL:     c.Services.Speech.URL,
		}, clients.NewHTTPTimeout(c.Services.Speech.Timeout))
		if err != nil {
			log.WithError(err).Warn("speech disabled")
		} else if engine != nil {
			q := speech.NewQueue(engine, c.Speech.Queue, log.WithField("component", "speech"))
			go q.Start(context.WithoutCancel(ctx))
			opts = append(opts, orchestrator.WithSpeaker(q))
			w.closers = append(w.closers, func() {
				// drop pending speech after an interrupted session
				if ctx.Err() != nil {
					q.Abort()
				} else {
					q.Close()
				}
				q.Wait()
			})
		}
	}
	w.session = orchestrator.NewSession(opts...)

	if c.Paths.Outputs != "" {
		w.sinks = append(w.sinks, orchestrator.FileSink{Root: c.Paths.Outputs})
	}
	if c.Services.SignData.URL != "" {
		w.sinks = append(w.sinks, orchestrator.NewHTTPSink(clients.NewHTTPTimeout(c.Services.SignData.Timeout), c.Services.SignData.URL))
	}
	if c.Store.PostgresURL != "" {
		pg, err := openStore(ctx, c)
		if err != nil {
			w.close()
			return nil, err
		}
		w.sinks = append(w.sinks, pg)
		w.closers = append(w.closers, func() { _ = pg.Close(context.Background()) })
	}
	return w, nil
}

func openStore(ctx context.Context, c *cfg.Root) (*store.Postgres, error) {
	pg, err := store.Open(ctx, c.Store.PostgresURL)
	if err != nil {
		return nil, err
	}
	if err := pg.Migrate(ctx); err != nil {
		_ = pg.Close(ctx)
		return nil, err
	}
	return pg, nil
}

func (w *wiring) pipeline(c *cfg.Root, extra ...orchestrator.PipelineOption) *orchestrator.Pipeline {
	opts := []orchestrator.PipelineOption{
		orchestrator.WithSinks(w.sinks...),
		orchestrator.WithUser(orchestrator.User{Name: c.User.Name, ID: c.User.ID}),
		orchestrator.WithLogger(log.StandardLogger()),
	}
	return orchestrator.NewPipeline(w.session, append(opts, extra...)...)
}
