package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"clz-go/internal/fn"
	"clz-go/pkg/appdir"
	"clz-go/pkg/color"
	"clz-go/pkg/ops"
	"clz-go/pkg/store"
	"clz-go/pkg/strbuf"
)

var evalCommand = &cli.Command{
	Name:      "eval",
	Usage:     "apply a JSON list of operations to a buffer and print the result",
	UsageText: `strbuf eval --init "aXbXcX" --ops '[{"op":"replace_all","s":"X","t":"YZ"}]'`,
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "init", Aliases: []string{"i"}, Usage: "Initial content"},
		&cli.IntFlag{Name: "min-capacity", Aliases: []string{"m"}, Usage: "Minimum initial capacity"},
		&cli.StringFlag{Name: "ops", Aliases: []string{"o"}, Usage: "Operations as a JSON object or array"},
		&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Read operations from `PATH` (- for stdin)"},
		&cli.StringFlag{Name: "load", Usage: "Start from the snapshot `NAME` instead of --init"},
		&cli.StringFlag{Name: "save", Usage: "Store the result as snapshot `NAME`"},
		&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Print the state after every operation"},
	},
	Action: evalCmd,
}

func readOps(c *cli.Context) ([]ops.Op, error) {
	var data []byte
	switch {
	case c.IsSet("ops") && c.IsSet("file"):
		return nil, errors.New("use either --ops or --file")
	case c.IsSet("ops"):
		data = []byte(c.String("ops"))
	case c.String("file") == "-":
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}
		data = b
	case c.IsSet("file"):
		b, err := os.ReadFile(c.String("file"))
		if err != nil {
			return nil, err
		}
		data = b
	default:
		return nil, nil
	}
	return ops.Parse(data)
}

func evalCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	list, err := readOps(c)
	if err != nil {
		return err
	}

	var st *store.Store
	if c.IsSet("load") || c.IsSet("save") {
		st, err = store.Open(appdir.Path(cfg.StorePath), cfg.CompressSnapshots)
		if err != nil {
			return err
		}
		defer st.Close()
	}

	var b *strbuf.Buffer
	if c.IsSet("load") {
		b, err = st.Load(c.String("load"), bufferOptions(cfg)...)
	} else {
		b, err = strbuf.NewSize(max(c.Int("min-capacity"), len(c.String("init"))+1), bufferOptions(cfg)...)
		if err == nil {
			err = b.AppendString(c.String("init"))
		}
	}
	if err != nil {
		return err
	}
	defer b.Release()

	p := color.Painter{On: cfg.Color && color.Enabled(os.Stdout)}
	results, runErr := ops.ApplyAll(b, list)
	if c.Bool("verbose") {
		for _, r := range results {
			status := fn.T(r.OK, p.Wrap(color.Green, "ok"), p.Wrap(color.Red, r.Error))
			fmt.Printf("%-16s %q len=%d cap=%d %s\n", r.Op, r.Content, r.Length, r.Capacity, status)
		}
	}
	fmt.Printf("%s\n", p.Wrap(color.BoldGreen, b.String()))
	fmt.Printf("%s\n", p.Wrap(color.Cyan, fmt.Sprintf("length=%d capacity=%d", b.Len(), b.Cap())))
	if runErr != nil {
		return runErr
	}

	if c.IsSet("save") {
		if err := st.Save(c.String("save"), b); err != nil {
			return err
		}
		fmt.Printf("saved as %s\n", p.Wrap(color.Yellow, c.String("save")))
	}
	return nil
}
