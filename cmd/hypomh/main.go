// Command hypomh drives the HYPOMH I/O workflow over WIN waveform files:
// binding channel-table metadata and rewriting WIN files under a chosen
// boundary policy. It has no subcommand that emits seis/init/structure
// files.
//
// ref: _examples/sixy6e-go-gsf/cmd/main.go (urfave/cli/v2 command/flag
// layout, bounded pond pool for per-file work).
package main

import (
	"context"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/go-hypomh/win"
	"github.com/go-hypomh/win/chtable"
)

func boundaryFromFlag(s string) (win.BoundaryPolicy, error) {
	switch s {
	case "cut", "":
		return win.BoundaryCut, nil
	case "pad":
		return win.BoundaryPad, nil
	case "zero-pad":
		return win.BoundaryZeroPad, nil
	default:
		return 0, errors.Errorf("unknown boundary policy %q (want cut|pad|zero-pad)", s)
	}
}

func bindAction(cCtx *cli.Context) error {
	tablePath := cCtx.String("table")
	f, err := os.Open(tablePath)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()
	entries, err := chtable.Read(f)
	if err != nil {
		return errors.WithStack(err)
	}

	ws, err := win.Read(cCtx.Context, cCtx.Args().Slice())
	if err != nil {
		return errors.WithStack(err)
	}
	chtable.Bind(ws, entries)

	out := cCtx.String("out")
	if out == "" {
		return errors.Errorf("-out is required")
	}
	boundary, err := boundaryFromFlag(cCtx.String("boundary"))
	if err != nil {
		return err
	}
	return errors.WithStack(ws.Write(out, boundary))
}

func convertAction(cCtx *cli.Context) error {
	boundary, err := boundaryFromFlag(cCtx.String("boundary"))
	if err != nil {
		return err
	}
	ws, err := win.Read(cCtx.Context, cCtx.Args().Slice())
	if err != nil {
		return errors.WithStack(err)
	}
	out := cCtx.String("out")
	if out == "" {
		return errors.Errorf("-out is required")
	}
	return errors.WithStack(ws.Write(out, boundary))
}

func main() {
	app := &cli.App{
		Name:  "hypomh",
		Usage: "bind channel-table metadata onto WIN waveforms and prepare HYPOMH inputs",
		Commands: []*cli.Command{
			{
				Name:  "bind",
				Usage: "bind a channel table onto one or more WIN files and rewrite them",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "table", Usage: "path to the channel-table file", Required: true},
					&cli.StringFlag{Name: "out", Usage: "output WIN path"},
					&cli.StringFlag{Name: "boundary", Usage: "boundary policy: cut|pad|zero-pad", Value: "cut"},
				},
				Action: bindAction,
			},
			{
				Name:  "convert",
				Usage: "merge one or more WIN files and rewrite under a chosen boundary policy",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Usage: "output WIN path"},
					&cli.StringFlag{Name: "boundary", Usage: "boundary policy: cut|pad|zero-pad", Value: "cut"},
				},
				Action: convertAction,
			},
		},
	}

	ctx := context.Background()
	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
