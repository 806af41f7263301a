package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/urfave/cli/v3"

	"github.com/flarexio/docsift"
	"github.com/flarexio/docsift/entity"
	"github.com/flarexio/docsift/retrieval"

	natsT "github.com/flarexio/docsift/transport/nats"
)

func main() {
	_ = godotenv.Load()

	cmd := &cli.Command{
		Name:  "docsift",
		Usage: "Client for the docsift services over NATS",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "nats",
				Usage:   "NATS server URL",
				Value:   nats.DefaultURL,
				Sources: cli.EnvVars("NATS_URL"),
			},
			&cli.StringFlag{
				Name:  "nats-creds",
				Usage: "NATS user credentials file",
			},
			&cli.StringFlag{
				Name:  "out",
				Usage: "Directory the CSV results are written to",
				Value: ".",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "extract",
				Usage:     "Extract named entities into entities.csv",
				ArgsUsage: "[text], reads stdin when omitted",
				Action:    extract,
			},
			{
				Name:      "add",
				Usage:     "Add PDF files to the document collection",
				ArgsUsage: "<file.pdf>...",
				Action:    add,
			},
			{
				Name:      "query",
				Usage:     "Query the document collection into query_results.csv",
				ArgsUsage: "[text], reads stdin when omitted",
				Action:    query,
			},
		},
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		log.Fatal(err.Error())
	}
}

func connect(cmd *cli.Command) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("docsift client"),
	}

	if creds := cmd.String("nats-creds"); creds != "" {
		opts = append(opts, nats.UserCredentials(creds))
	}

	return nats.Connect(cmd.String("nats"), opts...)
}

func inputText(cmd *cli.Command) (string, error) {
	if cmd.Args().Present() {
		return strings.Join(cmd.Args().Slice(), " "), nil
	}

	bs, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}

	return string(bs), nil
}

func writeCSVFile(cmd *cli.Command, file docsift.CSVFile) error {
	name, err := file.WriteFile(cmd.String("out"))
	if err != nil {
		return err
	}

	fmt.Printf("%d rows written to %s\n", len(file.Table.Rows), name)
	return nil
}

func extract(ctx context.Context, cmd *cli.Command) error {
	text, err := inputText(cmd)
	if err != nil {
		return err
	}

	nc, err := connect(cmd)
	if err != nil {
		return err
	}
	defer nc.Close()

	endpoints := natsT.MakeEntityEndpoints(nc, natsT.EntityGroup)
	svc := entity.ProxyMiddleware(endpoints)(nil)

	entities, err := svc.ExtractEntities(ctx, text)
	if err != nil {
		return err
	}

	return writeCSVFile(cmd, entity.NewCSVFile(entities))
}

func add(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Args().Present() {
		return errors.New("at least one PDF file is required")
	}

	files := make([]retrieval.File, 0, cmd.Args().Len())
	for _, name := range cmd.Args().Slice() {
		content, err := os.ReadFile(name)
		if err != nil {
			return err
		}

		files = append(files, retrieval.File{
			Name:    filepath.Base(name),
			Content: content,
		})
	}

	nc, err := connect(cmd)
	if err != nil {
		return err
	}
	defer nc.Close()

	endpoints := natsT.MakeRetrievalEndpoints(nc, natsT.RetrievalGroup)
	svc := retrieval.ProxyMiddleware(endpoints)(nil)

	added, err := svc.AddDocuments(ctx, files)
	if err != nil {
		return err
	}

	fmt.Println(retrieval.NewAddDocumentsResponse(added).Message)
	return nil
}

func query(ctx context.Context, cmd *cli.Command) error {
	text, err := inputText(cmd)
	if err != nil {
		return err
	}

	nc, err := connect(cmd)
	if err != nil {
		return err
	}
	defer nc.Close()

	endpoints := natsT.MakeRetrievalEndpoints(nc, natsT.RetrievalGroup)
	svc := retrieval.ProxyMiddleware(endpoints)(nil)

	results, err := svc.Query(ctx, text)
	if err != nil {
		return err
	}

	return writeCSVFile(cmd, retrieval.NewCSVFile(results))
}
