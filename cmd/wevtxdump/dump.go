package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wevtlib/wevtx/pkg/types"
	"github.com/wevtlib/wevtx/pkg/wevt"
)

var dumpDiagnose bool

func init() {
	cmd := newDumpCmd()
	cmd.Flags().BoolVar(&dumpDiagnose, "diagnose", false, "Report dangling cross-references")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump <resource-file>",
		Short: "Human-readable dump of a WEVT resource's descriptor tables",
		Long: `The dump command decodes a WEVT resource and prints its provider GUID
and event count, plus its dangling cross-references when --diagnose is set.

Example:
  wevtxdump dump provider.wevt.bin
  wevtxdump dump provider.wevt.bin --diagnose --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args)
		},
	}
}

func runDump(args []string) error {
	path := args[0]
	printVerbose("opening %s\n", path)

	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	store, err := wevt.Decode(buf, types.DecodeOptions{CollectDiagnostics: dumpDiagnose})
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	if jsonOut {
		return printSummaryJSON(store)
	}
	printSummaryText(store)
	return nil
}

type summary struct {
	ProviderGUID string               `json:"provider_guid"`
	EventCount   int                  `json:"event_count"`
	Dangling     []types.DanglingRef  `json:"dangling,omitempty"`
}

func printSummaryJSON(store *wevt.Store) error {
	s := summary{
		ProviderGUID: store.GUID().String(),
		EventCount:   len(store.Events()),
		Dangling:     store.Dangling(),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

func printSummaryText(store *wevt.Store) {
	fmt.Printf("provider %s: %d events\n", store.GUID(), len(store.Events()))
	for _, d := range store.Dangling() {
		fmt.Println("  " + d.String())
	}
}
