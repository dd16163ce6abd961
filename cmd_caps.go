package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cap-customizer/preset"
)

type capOptions struct {
	id          string
	name        string
	letter      string
	color       string
	letterColor string
	playlist    string
}

var capFlags capOptions

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List caps in insertion order",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var selectedCmd = &cobra.Command{
	Use:   "selected",
	Short: "Show the selected cap",
	Args:  cobra.NoArgs,
	RunE:  runSelected,
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a cap and select it",
	Example: `  capctl add --name QA --letter Q --color "#000000" --letter-color "#ffffff"`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

var updateCmd = &cobra.Command{
	Use:   "update [id]",
	Short: "Change fields of an existing cap",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdate,
}

var removeCmd = &cobra.Command{
	Use:   "remove [id]",
	Short: "Remove a cap (the last cap cannot be removed)",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

var selectCmd = &cobra.Command{
	Use:   "select [id]",
	Short: "Select a cap",
	Args:  cobra.ExactArgs(1),
	RunE:  runSelect,
}

var volumeCmd = &cobra.Command{
	Use:   "volume [value]",
	Short: "Show or set the music volume (0 to 1)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runVolume,
}

func init() {
	for _, c := range []*cobra.Command{addCmd, updateCmd} {
		c.Flags().StringVar(&capFlags.name, "name", "", "display name")
		c.Flags().StringVar(&capFlags.letter, "letter", "", "single front letter")
		c.Flags().StringVar(&capFlags.color, "color", "", "cap colour as hex")
		c.Flags().StringVar(&capFlags.letterColor, "letter-color", "", "letter colour as hex or name")
		c.Flags().StringVar(&capFlags.playlist, "playlist", "", "playlist key (lofi, techno)")
	}
	addCmd.Flags().StringVar(&capFlags.id, "id", "", "cap id (generated when empty)")

	rootCmd.AddCommand(listCmd, selectedCmd, addCmd, updateCmd, removeCmd, selectCmd, volumeCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	pm, backend, err := openManager(cmd.Context())
	if err != nil {
		return err
	}
	defer backend.Close()

	sel := pm.Selected()
	for _, c := range pm.All() {
		fmt.Fprintln(cmd.OutOrStdout(), renderCap(c, c.ID == sel.ID))
	}
	return nil
}

func runSelected(cmd *cobra.Command, args []string) error {
	pm, backend, err := openManager(cmd.Context())
	if err != nil {
		return err
	}
	defer backend.Close()

	fmt.Fprintln(cmd.OutOrStdout(), renderCap(pm.Selected(), true))
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	pm, backend, err := openManager(cmd.Context())
	if err != nil {
		return err
	}
	defer backend.Close()

	c := preset.Cap{
		ID:          capFlags.id,
		Name:        capFlags.name,
		Letter:      capFlags.letter,
		Color:       orDefault(capFlags.color, "#000000"),
		LetterColor: orDefault(capFlags.letterColor, "#ffffff"),
		Playlist:    orDefault(capFlags.playlist, preset.DefaultPlaylist),
	}
	added, err := pm.Add(cmd.Context(), c)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderCap(added, true))
	return nil
}

func runUpdate(cmd *cobra.Command, args []string) error {
	pm, backend, err := openManager(cmd.Context())
	if err != nil {
		return err
	}
	defer backend.Close()

	c, ok := pm.Get().Lookup(args[0])
	if !ok {
		return fmt.Errorf("%w: %s", preset.ErrNotFound, args[0])
	}
	flags := cmd.Flags()
	if flags.Changed("name") {
		c.Name = capFlags.name
	}
	if flags.Changed("letter") {
		c.Letter = capFlags.letter
	}
	if flags.Changed("color") {
		c.Color = capFlags.color
	}
	if flags.Changed("letter-color") {
		c.LetterColor = capFlags.letterColor
	}
	if flags.Changed("playlist") {
		c.Playlist = capFlags.playlist
	}
	updated, err := pm.Update(cmd.Context(), c)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderCap(updated, pm.Selected().ID == updated.ID))
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	pm, backend, err := openManager(cmd.Context())
	if err != nil {
		return err
	}
	defer backend.Close()

	if err := pm.Remove(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
	return nil
}

func runSelect(cmd *cobra.Command, args []string) error {
	pm, backend, err := openManager(cmd.Context())
	if err != nil {
		return err
	}
	defer backend.Close()

	if err := pm.Select(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderCap(pm.Selected(), true))
	return nil
}

func runVolume(cmd *cobra.Command, args []string) error {
	backend, err := openBackend(cmd.Context(), cfg.Store)
	if err != nil {
		return err
	}
	defer backend.Close()

	if len(args) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), formatVolume(preset.LoadVolume(cmd.Context(), backend)))
		return nil
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("volume %q is not a number", args[0])
	}
	stored, err := preset.SaveVolume(cmd.Context(), backend, v)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), formatVolume(stored))
	return nil
}

func formatVolume(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
