package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/wevtlib/wevtx/pkg/types"
	"github.com/wevtlib/wevtx/pkg/wevt"
)

var (
	renderValuesFile string
	renderVersion    uint8
	renderIndent     bool
)

func init() {
	cmd := newRenderCmd()
	cmd.Flags().StringVar(&renderValuesFile, "values", "", "JSON file with the substitution value array")
	cmd.Flags().Uint8Var(&renderVersion, "version", 0, "Event version to render")
	cmd.Flags().BoolVar(&renderIndent, "indent", false, "Pretty-print with newlines and tabs between sibling elements")
	rootCmd.AddCommand(cmd)
}

func newRenderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render <resource-file> <event-id>",
		Short: "Render one event's Binary-XML template as XML",
		Long: `The render command resolves an event by identifier, decodes its template's
Binary-XML body, and renders it against a caller-supplied value array.

Example:
  wevtxdump render provider.wevt.bin 4624 --values values.json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(args)
		},
	}
}

// jsonValue mirrors types.Value for JSON (un)marshaling: Kind is a small
// integer tag and Raw is base64-encoded little-endian bytes via encoding/json's
// default []byte handling.
type jsonValue struct {
	Kind byte   `json:"kind"`
	Raw  []byte `json:"raw"`
}

func runRender(args []string) error {
	path, idArg := args[0], args[1]
	var eventID uint32
	if _, err := fmt.Sscanf(idArg, "%d", &eventID); err != nil {
		return fmt.Errorf("parse event id %q: %w", idArg, err)
	}

	buf, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	store, err := wevt.Decode(buf, types.DecodeOptions{})
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	ev, ok := store.Event(eventID, renderVersion)
	if !ok {
		return fmt.Errorf("event %d version %d not found", eventID, renderVersion)
	}

	var values []types.Value
	if renderValuesFile != "" {
		vbuf, err := os.ReadFile(renderValuesFile)
		if err != nil {
			return fmt.Errorf("read %s: %w", renderValuesFile, err)
		}
		var jvs []jsonValue
		if err := json.Unmarshal(vbuf, &jvs); err != nil {
			return fmt.Errorf("parse %s: %w", renderValuesFile, err)
		}
		for _, jv := range jvs {
			values = append(values, types.Value{Kind: types.ValueKind(jv.Kind), Raw: jv.Raw})
		}
	}

	out, err := store.Render(ev, values, types.RenderOptions{Indent: renderIndent})
	if err != nil {
		return fmt.Errorf("render event %d: %w", eventID, err)
	}
	fmt.Println(out)
	return nil
}
