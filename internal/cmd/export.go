package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"taskboard/internal/export"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export visible tasks to JSON, CSV, or PDF",
	Long:  `Export writes a report of every visible task, incomplete first, to stdout or a file.`,
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "output format: json, csv or pdf")
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close()

	data, err := export.NewExporter(database).Export(exportFormat)
	if err != nil {
		return err
	}

	if exportOut == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(exportOut, data, 0o644)
}
