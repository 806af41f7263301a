package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/micro"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/flarexio/docsift"
	"github.com/flarexio/docsift/entity"
	"github.com/flarexio/docsift/llm/openai"
	"github.com/flarexio/docsift/nlp"
	"github.com/flarexio/docsift/nlp/corenlp"
	"github.com/flarexio/docsift/nlp/generative"

	mcpE "github.com/flarexio/docsift/mcp"
	httpT "github.com/flarexio/docsift/transport/http"
	natsT "github.com/flarexio/docsift/transport/nats"
)

func main() {
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:  "entityd",
		Usage: "Named entity extraction service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Usage: "Path to the service configuration",
			},
			&cli.StringFlag{
				Name:    "http-addr",
				Usage:   "HTTP server address",
				Value:   ":8000",
				Sources: cli.EnvVars("HTTP_ADDR"),
			},
			&cli.StringFlag{
				Name:    "nats",
				Usage:   "NATS server URL, leave empty to disable the NATS transport",
				Sources: cli.EnvVars("NATS_URL"),
			},
			&cli.StringFlag{
				Name:  "nats-creds",
				Usage: "NATS user credentials file",
			},
		},
		Action: run,
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		log.Fatal(err.Error())
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		path = filepath.Join(homeDir, ".flarex", "docsift")
	}

	log, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer log.Sync()

	zap.ReplaceGlobals(log)

	cfg, err := docsift.LoadConfig(path)
	if err != nil {
		return err
	}

	pipeline, err := newPipeline(cfg)
	if err != nil {
		return err
	}

	log.Info("nlp pipeline ready",
		zap.String("provider", string(cfg.NLP.Provider)),
	)

	svc := entity.NewService(pipeline)
	defer svc.Close()

	svc = entity.LoggingMiddleware(log)(svc)
	svc = entity.InstrumentingMiddleware()(svc)

	endpoints := entity.EndpointSet{
		ExtractEntities: entity.ExtractEntitiesEndpoint(svc),
	}

	// Add NATS Transport
	if natsURL := cmd.String("nats"); natsURL != "" {
		opts := []nats.Option{
			nats.Name("docsift entity service"),
		}

		if creds := cmd.String("nats-creds"); creds != "" {
			opts = append(opts, nats.UserCredentials(creds))
		}

		nc, err := nats.Connect(natsURL, opts...)
		if err != nil {
			return err
		}
		defer nc.Drain()

		srv, err := micro.AddService(nc, micro.Config{
			Name:    "docsift-entity",
			Version: "1.0.0",
		})

		if err != nil {
			return err
		}
		defer srv.Stop()

		root := srv.AddGroup(natsT.EntityGroup)
		natsT.AddEntityEndpoints(root, endpoints)
	}

	// Add HTTP Transport
	{
		r := httpT.NewRouter(cfg.CORS)
		httpT.AddEntityRouters(r, endpoints)

		tools := []mcpE.Tool{
			mcpE.ExtractEntitiesTool(endpoints.ExtractEntities),
		}

		httpT.AddStreamableRouters(r,
			mcpE.MakeEndpoints("docsift-entity", mcpE.EntityInstructions, tools...),
		)

		httpAddr := cmd.String("http-addr")
		go func() {
			if err := r.Run(httpAddr); err != nil {
				log.Error("http server stopped", zap.Error(err))
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sign := <-quit

	log.Info("graceful shutdown", zap.String("signal", sign.String()))
	return nil
}

func newPipeline(cfg docsift.Config) (nlp.Pipeline, error) {
	switch cfg.NLP.Provider {
	case docsift.NLPProviderCoreNLP:
		client, err := corenlp.NewClient(cfg.NLP)
		if err != nil {
			return nil, err
		}

		return client, nil

	case docsift.NLPProviderOpenAI:
		client := openai.NewClient(cfg.LLM)
		return generative.NewPipeline(client), nil

	default:
		return nil, fmt.Errorf("%w: %s", docsift.ErrUnsupportedProvider, cfg.NLP.Provider)
	}
}
