package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"clz-go/pkg/appdir"
	"clz-go/pkg/color"
	"clz-go/pkg/json"
	"clz-go/pkg/log"
)

var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimeSpec accepts a duration back from now ("1h", "30m") or an absolute timestamp.
func parseTimeSpec(spec string) (time.Time, error) {
	if d, err := time.ParseDuration(spec); err == nil {
		return time.Now().Add(-d), nil
	}
	for _, layout := range timeFormats {
		if ts, err := time.Parse(layout, spec); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time specification: '%s'. Use relative duration (e.g., '1h', '30m') or absolute format (e.g., '2023-10-27T15:04:05Z')", spec)
}

var logsCommand = &cli.Command{
	Name:      "logs",
	Usage:     "read entries from the server log database",
	UsageText: "strbuf logs [--last -n N | --since -s SPEC | --between -s SPEC -e SPEC] [--pretty]",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "dbfile", Aliases: []string{"f"}, Usage: "Log database `PATH` (default: log_db from config)"},
		&cli.BoolFlag{Name: "pretty", Aliases: []string{"p"}, Usage: "Human readable output instead of raw JSON"},
		&cli.BoolFlag{Name: "last", Usage: "Mode: the most recent N entries (default)"},
		&cli.BoolFlag{Name: "since", Usage: "Mode: entries since --start"},
		&cli.BoolFlag{Name: "between", Usage: "Mode: entries between --start and --end"},
		&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 20, Usage: "Entries for --last"},
		&cli.StringFlag{Name: "start", Aliases: []string{"s"}, Usage: "Start time `SPEC`"},
		&cli.StringFlag{Name: "end", Aliases: []string{"e"}, Usage: "End time `SPEC`"},
		&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: log.DefaultLimit, Usage: "Maximum entries for --since/--between"},
	},
	Action: logsCmd,
}

func logsCmd(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	isLast, isSince, isBetween := c.Bool("last"), c.Bool("since"), c.Bool("between")
	modes := 0
	for _, on := range []bool{isLast, isSince, isBetween} {
		if on {
			modes++
		}
	}
	if modes > 1 {
		return cli.Exit("Error: Only one mode flag (--last, --since, --between) can be specified at a time.", 1)
	}
	if modes == 0 {
		isLast = true
	}

	dbFile := cfg.LogDB
	if c.IsSet("dbfile") {
		dbFile = c.String("dbfile")
	}
	if _, err := os.Stat(appdir.Path(dbFile)); err != nil {
		return cli.Exit(fmt.Sprintf("Error: Database file not found at '%s'", appdir.Path(dbFile)), 1)
	}
	log.SetOutput(io.Discard, zerolog.Disabled)
	if err := log.Init(dbFile, zerolog.Disabled); err != nil {
		return cli.Exit(fmt.Sprintf("Error opening log database: %v", err), 1)
	}
	defer log.Close()

	var results []log.LogEntry
	switch {
	case isLast:
		if c.Int("count") <= 0 {
			return cli.Exit("Error: --count (-n) must be a positive number.", 1)
		}
		results, err = log.GetLastNLogs(c.Int("count"))
	case isSince:
		if !c.IsSet("start") {
			return cli.Exit("Error: --start (-s) flag is required for --since mode.", 1)
		}
		start, perr := parseTimeSpec(c.String("start"))
		if perr != nil {
			return cli.Exit(perr.Error(), 1)
		}
		results, err = log.GetLogsSince(start, c.Int("limit"))
	case isBetween:
		if !c.IsSet("start") || !c.IsSet("end") {
			return cli.Exit("Error: --start (-s) and --end (-e) are required for --between mode.", 1)
		}
		start, perr := parseTimeSpec(c.String("start"))
		if perr != nil {
			return cli.Exit(perr.Error(), 1)
		}
		end, perr := parseTimeSpec(c.String("end"))
		if perr != nil {
			return cli.Exit(perr.Error(), 1)
		}
		results, err = log.GetLogsBetween(start, end, c.Int("limit"))
	}
	if err != nil {
		if errors.Is(err, log.ErrNotInitialized) {
			return cli.Exit("Internal Error: Logger DB handle became unavailable.", 2)
		}
		return cli.Exit(fmt.Sprintf("Error retrieving logs: %v", err), 1)
	}
	if len(results) == 0 {
		fmt.Fprintln(os.Stderr, "No log entries found matching the criteria.")
		return nil
	}

	p := color.Painter{On: cfg.Color && color.Enabled(os.Stdout)}
	for _, entry := range results {
		if c.Bool("pretty") {
			fmt.Println(prettyLine(p, entry))
		} else {
			fmt.Println(strings.TrimSpace(entry.LogData))
		}
	}
	return nil
}

var levelColors = map[string]string{
	"debug": color.Blue,
	"info":  color.Green,
	"warn":  color.Yellow,
	"error": color.Red,
	"fatal": color.BoldRed,
}

// prettyLine renders "time LEVEL message key=value ...".
func prettyLine(p color.Painter, entry log.LogEntry) string {
	obj, err := json.Parse(entry.LogData)
	if err != nil {
		return strings.TrimSpace(entry.LogData)
	}
	level, _ := obj["level"].(string)
	msg, _ := obj["message"].(string)
	ts, _ := obj["time"].(string)

	keys := make([]string, 0, len(obj))
	for k := range obj {
		switch k {
		case "level", "message", "time":
		default:
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s %s", ts, p.Wrap(levelColors[level], fmt.Sprintf("%-5s", strings.ToUpper(level))), msg)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", p.Wrap(color.Cyan, k), obj[k])
	}
	return sb.String()
}
