package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/memo-analyzer/internal/content"
	"github.com/jonathan/memo-analyzer/internal/rendering"
	"github.com/jonathan/memo-analyzer/internal/types"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize FILE|-",
	Short: "Convert raw analysis text into content blocks",
	Long: `Reads analysis text from FILE (or stdin with "-") and prints the normalized
content blocks as JSON, or rendered as HTML or plain text.`,
	Args: cobra.ExactArgs(1),
	RunE: runNormalizeCmd,
}

var normalizeFormat string

func init() {
	normalizeCmd.Flags().StringVar(&normalizeFormat, "format", formatJSON, "Output format: json, html, text")
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalizeCmd(cmd *cobra.Command, args []string) error {
	raw, err := readInput(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}
	return writeNormalized(cmd.OutOrStdout(), normalizeFormat, raw)
}

func readInput(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(io.LimitReader(stdin, types.MaxNormalizeBytes+1))
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if len(data) > types.MaxNormalizeBytes {
		return "", fmt.Errorf("input exceeds %d bytes", types.MaxNormalizeBytes)
	}
	return string(data), nil
}

func writeNormalized(w io.Writer, format, raw string) error {
	blocks := content.Normalize(raw)

	switch format {
	case formatJSON:
		return writeJSON(w, types.NormalizeResponse{Blocks: blocks})
	case string(rendering.FormatHTML):
		html, err := rendering.HTMLBlocks(blocks)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, html)
		return err
	case string(rendering.FormatText):
		_, err := io.WriteString(w, rendering.PlainTextBlocks(blocks))
		return err
	default:
		return fmt.Errorf("unknown normalize format %q (expected json, html or text)", format)
	}
}
