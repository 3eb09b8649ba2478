package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-json"

	"quizform/internal/archive"
)

// runSubmissions builds the handler for the submissions command.
func runSubmissions(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}

		fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		fs.SetOutput(stderr)
		archivePath := fs.String("archive", "", "DuckDB file with archived submissions")
		limit := fs.Int("limit", 20, "Maximum number of submissions to list")
		asJSON := fs.Bool("json", false, "Print one payload per line as JSON")
		if code, ok := parseFlags(cmd, fs, args, stdout, stderr); !ok {
			return code
		}
		if *archivePath == "" {
			fmt.Fprintln(stderr, "Missing --archive")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

		ctx := context.Background()
		store, err := openArchive(ctx, *archivePath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to open archive: %v\n", err)
			return ExitError
		}
		defer store.Close()

		records, err := store.List(ctx, *limit)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to list submissions: %v\n", err)
			return ExitError
		}
		if *asJSON {
			encoder := json.NewEncoder(stdout)
			for _, record := range records {
				if err := encoder.Encode(record.Payload); err != nil {
					fmt.Fprintf(stderr, "Failed to encode submission: %v\n", err)
					return ExitError
				}
			}
			return ExitOK
		}
		if len(records) == 0 {
			fmt.Fprintln(stdout, "No submissions")
			return ExitOK
		}
		fmt.Fprintln(stdout, submissionsTable(records))
		return ExitOK
	}
}

// submissionsTable renders records as a bordered table.
func submissionsTable(records []archive.Record) string {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		user := "-"
		if record.UserID != nil {
			user = strconv.FormatInt(*record.UserID, 10)
		}
		fields := 0
		for _, answers := range record.Payload.Answers {
			fields += len(answers)
		}
		rows = append(rows, []string{
			record.ID,
			record.SubmittedAt,
			record.Delivery,
			user,
			strconv.Itoa(len(record.Payload.Answers)),
			strconv.Itoa(fields),
		})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "SUBMITTED", "DELIVERY", "USER", "QUESTIONS", "FIELDS").
		Rows(rows...).
		String()
}
