package cli

import (
	"context"
	"encoding/json"
	"os"

	"cloud.google.com/go/storage"
	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/mnemon/pkg/cli/config"
	"github.com/secmon-lab/mnemon/pkg/usecase"
	"github.com/secmon-lab/mnemon/pkg/utils/logging"
	"github.com/secmon-lab/mnemon/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdExport() *cli.Command {
	var output string
	var gcsBucket string
	var gcsObject string
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output file path (- for stdout)",
			Value:       "-",
			Sources:     cli.EnvVars("MNEMON_EXPORT_OUTPUT"),
			Destination: &output,
		},
		&cli.StringFlag{
			Name:        "gcs-bucket",
			Usage:       "GCS bucket to upload the snapshot to (overrides --output)",
			Sources:     cli.EnvVars("MNEMON_EXPORT_GCS_BUCKET"),
			Destination: &gcsBucket,
		},
		&cli.StringFlag{
			Name:        "gcs-object",
			Usage:       "GCS object name of the snapshot",
			Value:       "mnemon-graph.json",
			Sources:     cli.EnvVars("MNEMON_EXPORT_GCS_OBJECT"),
			Destination: &gcsObject,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "export",
		Aliases: []string{"e"},
		Usage:   "Export the memory graph snapshot as JSON",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			uc := usecase.New(repo)

			graph, err := uc.GraphData(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to build graph snapshot")
			}

			data, err := json.MarshalIndent(graph, "", "  ")
			if err != nil {
				return goerr.Wrap(err, "failed to marshal graph snapshot")
			}

			dest, err := writeSnapshot(ctx, data, output, gcsBucket, gcsObject)
			if err != nil {
				return err
			}

			if dest != "" {
				color.New(color.FgGreen, color.Bold).Println("✓ Graph snapshot exported")
				color.New(color.FgCyan).Printf("  nodes: %d\n", len(graph.Nodes))
				color.New(color.FgCyan).Printf("  edges: %d\n", len(graph.Edges))
				color.New(color.FgCyan).Printf("  destination: %s\n", dest)
			}

			return nil
		},
	}
}

// writeSnapshot writes the snapshot to GCS, a file or stdout. The returned
// destination is empty when writing to stdout so the summary does not mix
// into the payload.
func writeSnapshot(ctx context.Context, data []byte, output, gcsBucket, gcsObject string) (string, error) {
	if gcsBucket != "" {
		client, err := storage.NewClient(ctx)
		if err != nil {
			return "", goerr.Wrap(err, "failed to create GCS client")
		}
		defer safe.Close(ctx, client)

		w := client.Bucket(gcsBucket).Object(gcsObject).NewWriter(ctx)
		w.ContentType = "application/json"
		if _, err := w.Write(data); err != nil {
			_ = w.Close()
			return "", goerr.Wrap(err, "failed to upload graph snapshot",
				goerr.V("bucket", gcsBucket),
				goerr.V("object", gcsObject),
			)
		}
		if err := w.Close(); err != nil {
			return "", goerr.Wrap(err, "failed to finalize graph snapshot upload",
				goerr.V("bucket", gcsBucket),
				goerr.V("object", gcsObject),
			)
		}

		return "gs://" + gcsBucket + "/" + gcsObject, nil
	}

	if output == "-" || output == "" {
		safe.Write(ctx, os.Stdout, data)
		return "", nil
	}

	if err := os.WriteFile(output, data, 0600); err != nil {
		return "", goerr.Wrap(err, "failed to write graph snapshot", goerr.V("path", output))
	}

	return output, nil
}
