package main

import (
	"context"
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
	"github.com/flarexio/docsift/llm/openai"
	"github.com/flarexio/docsift/pdftext"
	"github.com/flarexio/docsift/persistence/chromem"
	"github.com/flarexio/docsift/retrieval"

	mcpE "github.com/flarexio/docsift/mcp"
	httpT "github.com/flarexio/docsift/transport/http"
	natsT "github.com/flarexio/docsift/transport/nats"
)

func main() {
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:  "retrievald",
		Usage: "PDF retrieval service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Usage: "Path to the service configuration and vectors",
			},
			&cli.StringFlag{
				Name:    "http-addr",
				Usage:   "HTTP server address",
				Value:   ":8001",
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

	client := openai.NewClient(cfg.LLM)

	vector, err := chromem.NewChromemVectorDB(cfg.Vector, client.Embed)
	if err != nil {
		return err
	}

	svc, err := retrieval.NewService(cfg.Vector, vector, client, pdftext.NewExtractor())
	if err != nil {
		return err
	}
	defer svc.Close()

	svc = retrieval.LoggingMiddleware(log)(svc)
	svc = retrieval.InstrumentingMiddleware()(svc)

	endpoints := retrieval.EndpointSet{
		AddDocuments: retrieval.AddDocumentsEndpoint(svc),
		Query:        retrieval.QueryEndpoint(svc),
	}

	// Add NATS Transport
	if natsURL := cmd.String("nats"); natsURL != "" {
		opts := []nats.Option{
			nats.Name("docsift retrieval service"),
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
			Name:    "docsift-retrieval",
			Version: "1.0.0",
		})

		if err != nil {
			return err
		}
		defer srv.Stop()

		root := srv.AddGroup(natsT.RetrievalGroup)
		natsT.AddRetrievalEndpoints(root, endpoints)
	}

	// Add HTTP Transport
	{
		r := httpT.NewRouter(cfg.CORS)
		httpT.AddRetrievalRouters(r, endpoints)

		tools := []mcpE.Tool{
			mcpE.QueryDocumentsTool(endpoints.Query),
		}

		httpT.AddStreamableRouters(r,
			mcpE.MakeEndpoints("docsift-retrieval", mcpE.RetrievalInstructions, tools...),
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
