package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"catalogpress/internal/editstore"
)

const (
	ansiReset  = "\x1b[0m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
	ansiBlue   = "\x1b[34m"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func colorizeStatus(status editstore.Status, colorize bool) string {
	if !colorize {
		return string(status)
	}
	var color string
	switch status {
	case editstore.StatusPending:
		color = ansiYellow
	case editstore.StatusApproved:
		color = ansiBlue
	case editstore.StatusDeployed:
		color = ansiGreen
	case editstore.StatusRejected:
		color = ansiRed
	}
	if color == "" {
		return string(status)
	}
	return color + string(status) + ansiReset
}
