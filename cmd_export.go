package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"cap-customizer/preset"
)

// exportDoc is the portable form of the store. Caps are a list so the
// insertion order survives every format.
type exportDoc struct {
	SelectedID string       `json:"selectedCapId" yaml:"selectedCapId" toml:"selectedCapId"`
	Volume     *float64     `json:"volume,omitempty" yaml:"volume,omitempty" toml:"volume,omitempty"`
	Caps       []preset.Cap `json:"caps" yaml:"caps" toml:"caps"`
}

const (
	formatJSON = "json"
	formatYAML = "yaml"
	formatTOML = "toml"
)

var (
	exportFormat string
	importFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the caps, selection and volume as JSON, YAML or TOML",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Add every cap from an exported file and restore its selection",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", formatJSON, "output format: json, yaml or toml")
	importCmd.Flags().StringVarP(&importFormat, "format", "f", "", "input format (default from the file extension)")
	rootCmd.AddCommand(exportCmd, importCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	pm, backend, err := openManager(cmd.Context())
	if err != nil {
		return err
	}
	defer backend.Close()

	vol := preset.LoadVolume(cmd.Context(), backend)
	st := pm.Get()
	doc := exportDoc{SelectedID: st.SelectedID, Volume: &vol, Caps: st.All()}

	out, err := encodeDoc(doc, exportFormat)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	format := importFormat
	if format == "" {
		format = formatFromPath(args[0])
	}
	doc, err := decodeDoc(data, format)
	if err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}
	if len(doc.Caps) == 0 {
		return fmt.Errorf("%s holds no caps", args[0])
	}

	pm, backend, err := openManager(cmd.Context())
	if err != nil {
		return err
	}
	defer backend.Close()

	ctx := cmd.Context()
	if err := pm.Import(ctx, doc.Caps, doc.SelectedID); err != nil {
		return fmt.Errorf("import %s: %w", args[0], err)
	}
	if doc.Volume != nil {
		if _, err := preset.SaveVolume(ctx, backend, *doc.Volume); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d caps\n", len(doc.Caps))
	return nil
}

func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML
	case ".toml":
		return formatTOML
	default:
		return formatJSON
	}
}

func encodeDoc(doc exportDoc, format string) ([]byte, error) {
	switch format {
	case formatJSON:
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	case formatYAML:
		return yaml.Marshal(doc)
	case formatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func decodeDoc(data []byte, format string) (exportDoc, error) {
	var doc exportDoc
	var err error
	switch format {
	case formatJSON:
		err = json.Unmarshal(data, &doc)
	case formatYAML:
		err = yaml.Unmarshal(data, &doc)
	case formatTOML:
		_, err = toml.Decode(string(data), &doc)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	return doc, err
}
