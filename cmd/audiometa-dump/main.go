// Command audiometa-dump parses a single audio file and prints its
// metadata, either as a short human-readable summary or as JSON. It is a
// single root cobra command with flags bound to package-level vars in
// init, and a RunE that wraps errors with context before returning them.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/audiometa-go/audiometa"
)

var (
	includeBinary  bool
	maxBinaryBytes int64
	asJSON         bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "audiometa-dump <path>",
	Short:   "Parse an audio file and print its metadata",
	Version: versionString(),
	Args:    cobra.ExactArgs(1),
	RunE:    run,
}

func versionString() string {
	info := audiometa.GetVersionInfo()
	return fmt.Sprintf("%s (commit %s, built %s, %s)", info.Version, info.GitCommit, info.BuildTime, info.GoVersion)
}

func init() {
	rootCmd.Flags().BoolVar(&includeBinary, "include-binary", false, "embed binary tag payloads (cover art, etc.) instead of digests only")
	rootCmd.Flags().Int64Var(&maxBinaryBytes, "max-binary-bytes", 8*1024*1024, "ceiling below which a binary tag payload is eligible for embedding")
	rootCmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON instead of a short summary")
}

func run(cmd *cobra.Command, args []string) error {
	path := args[0]

	opts := []audiometa.Option{
		audiometa.WithIncludeBinaryData(includeBinary),
		audiometa.WithMaxBinaryTagBytes(maxBinaryBytes),
	}

	m, err := audiometa.ParseFile(context.Background(), path, opts...)
	if err != nil {
		return errors.Wrapf(err, "parse %s", path)
	}

	w := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(m)
	}

	fmt.Fprintf(w, "format:     %s\n", m.Format)
	if m.CoreInfo.Length != nil {
		fmt.Fprintf(w, "length:     %.2fs\n", *m.CoreInfo.Length)
	}
	if m.CoreInfo.Bitrate != nil {
		fmt.Fprintf(w, "bitrate:    %d bps\n", *m.CoreInfo.Bitrate)
	}
	if m.CoreInfo.SampleRate != nil {
		fmt.Fprintf(w, "sampleRate: %d Hz\n", *m.CoreInfo.SampleRate)
	}
	if m.CoreInfo.Channels != nil {
		fmt.Fprintf(w, "channels:   %d\n", *m.CoreInfo.Channels)
	}
	fmt.Fprintf(w, "tags:       %d\n", len(m.Tags))
	for key, v := range m.Tags {
		if v.Kind == audiometa.TagText {
			fmt.Fprintf(w, "  %s = %v\n", key, v.Text)
		}
	}
	for _, warn := range m.Diagnostics.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}

	return nil
}
