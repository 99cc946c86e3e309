package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/ironsheep/sprite-export/internal/export"
	"github.com/ironsheep/sprite-export/internal/imaging"
	"github.com/ironsheep/sprite-export/internal/manifest"
	"github.com/ironsheep/sprite-export/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const description = `Export sprite regions of texture atlases as standalone PNG files.

Without a command the MCP server runs on stdin/stdout.

Environment variables:
  SPRITE_EXPORT_LOG_LEVEL=debug    Enable debug logging`

type cli struct {
	Version kong.VersionFlag `short:"v" help:"Print version information and quit."`

	Serve  serveCmd  `cmd:"" default:"1" help:"Run the MCP server on stdin/stdout."`
	Export exportCmd `cmd:"" help:"Export the regions listed in a YAML manifest."`
}

type serveCmd struct{}

func (c *serveCmd) Run(exporter *export.Exporter) error {
	srv := server.New(server.WithExporter(exporter), server.WithVersion(Version))
	return srv.Run()
}

type exportCmd struct {
	Manifest string `arg:"" type:"existingfile" help:"Path to the batch manifest."`
	Workers  int    `short:"w" help:"Override the manifest's worker count."`
}

func (c *exportCmd) Run(exporter *export.Exporter) error {
	m, err := manifest.Load(c.Manifest)
	if err != nil {
		return err
	}
	if c.Workers > 0 {
		m.Workers = c.Workers
	}

	jobs, err := m.Jobs(imaging.NewImageCache())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Finished jobs are reported even when the run was interrupted.
	out, err := exporter.RunBatch(ctx, jobs, m.Workers)
	failed := report(os.Stdout, out)
	if err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d export(s) failed", failed)
	}
	return nil
}

// report prints one summary line per job plus a line per failed sprite, and
// returns the number of failures. A job-level error counts as one failure.
func report(w io.Writer, out []export.BatchResult) int {
	failed := 0
	for _, b := range out {
		if b.Err != nil {
			failed++
			fmt.Fprintf(w, "%s: %v\n", b.SourceID, b.Err)
			if len(b.Results) == 0 {
				continue
			}
		}
		summary := b.Summary()
		failed += summary.Failed
		fmt.Fprintf(w, "%s: %s\n", b.SourceID, summary)
		for _, r := range b.Results {
			if !r.OK() {
				fmt.Fprintf(w, "  %s: %s\n", r.Name, r.Reason())
			}
		}
	}
	return failed
}

func main() {
	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	debug := os.Getenv("SPRITE_EXPORT_LOG_LEVEL") == "debug"
	if debug {
		log.Printf("sprite-export v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	var c cli
	ctx := kong.Parse(&c,
		kong.Name("sprite-export"),
		kong.Description(description),
		kong.UsageOnError(),
		kong.Vars{"version": fmt.Sprintf("sprite-export %s\n  Build time: %s\n  Git commit: %s", Version, BuildTime, GitCommit)},
		kong.Bind(export.New(export.WithDebug(debug))),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
