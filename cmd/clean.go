package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhubert/recall/internal/logger"
)

var skipConfirm bool

// Swapped in tests so they never touch real log files.
var (
	findLogs  = logger.LogFiles
	clearLogs = logger.ClearLogs
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the session database and all log files",
	Long: `Deletes the session database and removes recall's log files.
It will prompt for confirmation before proceeding unless the --yes flag is used.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return runCleanWithReader(os.Stdin, cmd.OutOrStdout(), cfg.GetDatabasePath())
}

// runCleanWithReader allows injecting a reader for testing
func runCleanWithReader(input io.Reader, out io.Writer, databasePath string) error {
	dbFiles := databaseFiles(databasePath)
	logFiles, err := findLogs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error finding log files: %v\n", err)
	}

	if len(dbFiles) == 0 && len(logFiles) == 0 {
		fmt.Fprintln(out, "Nothing to clean.")
		return nil
	}

	fmt.Fprintln(out, "This will clean:")
	if len(dbFiles) > 0 {
		fmt.Fprintf(out, "  - Session database %s\n", databasePath)
	}
	if len(logFiles) > 0 {
		fmt.Fprintf(out, "  - %d log file(s) in /tmp\n", len(logFiles))
	}

	// Confirm unless --yes flag is set
	if !skipConfirm {
		if !confirm(input, out, "Continue?") {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	removed := 0
	for _, path := range dbFiles {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("error removing %s: %w", path, err)
		}
		removed++
	}

	logsCleared, err := clearLogs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error clearing logs: %v\n", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Cleaned:")
	if removed > 0 {
		fmt.Fprintf(out, "  - %d database file(s) removed\n", removed)
	}
	if logsCleared > 0 {
		fmt.Fprintf(out, "  - %d log file(s) removed\n", logsCleared)
	}
	return nil
}

// databaseFiles returns the database and its SQLite sidecar files that exist.
func databaseFiles(path string) []string {
	if path == "" {
		return nil
	}
	var files []string
	for _, p := range []string{path, path + "-wal", path + "-shm", path + "-journal"} {
		if _, err := os.Stat(p); err == nil {
			files = append(files, p)
		}
	}
	return files
}

// confirm prompts the user for y/n confirmation
func confirm(input io.Reader, out io.Writer, prompt string) bool {
	reader := bufio.NewReader(input)
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
