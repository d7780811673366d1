package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"promptlab-content-service/internal/app/service"
	"promptlab-content-service/internal/domain"
)

var (
	okLabel   = color.New(color.FgGreen).SprintFunc()
	failLabel = color.New(color.FgRed).SprintFunc()
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
	table.Header(header)

	return table
}

// writeSyncResults renders one row per source and returns the number of
// failed sources.
func writeSyncResults(w io.Writer, results []service.SyncResult) (int, error) {
	table := newTable(w, "source", "status", "articles", "tools", "total", "duration", "error")

	failed := 0
	for _, r := range results {
		status, errMsg := okLabel("ok"), ""
		if r.Error != nil {
			failed++
			status, errMsg = failLabel("failed"), r.Error.Error()
		}

		row := []string{
			r.Source,
			status,
			strconv.Itoa(r.Collections[domain.CollectionArticles]),
			strconv.Itoa(r.Collections[domain.CollectionTools]),
			strconv.Itoa(r.Count),
			r.Duration.Round(time.Millisecond).String(),
			errMsg,
		}
		if err := table.Append(row); err != nil {
			return failed, fmt.Errorf("rendering sync results: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return failed, fmt.Errorf("rendering sync results: %w", err)
	}

	return failed, nil
}

type sourceCount struct {
	Source string
	Count  int64
	Err    error
}

func writeSourceCounts(w io.Writer, counts []sourceCount) error {
	table := newTable(w, "source", "mirrored")

	for _, c := range counts {
		mirrored := strconv.FormatInt(c.Count, 10)
		if c.Err != nil {
			mirrored = failLabel(c.Err.Error())
		}
		if err := table.Append([]string{c.Source, mirrored}); err != nil {
			return fmt.Errorf("rendering sources: %w", err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering sources: %w", err)
	}

	return nil
}
