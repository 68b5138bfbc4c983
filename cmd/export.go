package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/bgraf/trackmap/config"
	"github.com/bgraf/trackmap/filesystem"
	"github.com/bgraf/trackmap/loader"
	"github.com/bgraf/trackmap/render"
	"github.com/bgraf/trackmap/res"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Load all datasets once and write a self-contained map page.",
	RunE:  runExportCmd,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringP("output", "o", "", "Output directory (default trackmap-export)")
	if err := viper.BindPFlag(config.KeyExportDirectory, exportCmd.Flags().Lookup("output")); err != nil {
		panic(err)
	}

	exportCmd.Flags().StringP("title", "t", "Track map", "Page title")
	exportCmd.Flags().BoolP("select", "s", false, "Choose the exported datasets interactively")
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	datasets, err := config.Datasets()
	if err != nil {
		return err
	}

	if selectDatasets, _ := cmd.Flags().GetBool("select"); selectDatasets {
		datasets, err = askDatasets(datasets)
		if err != nil {
			return err
		}
	}

	title, err := cmd.Flags().GetString("title")
	if err != nil {
		return err
	}

	session := loader.NewSession()
	defer session.Close()

	for _, result := range session.Loader.Run(context.Background(), datasets) {
		if result.Failed() {
			fmt.Printf("Skipping '%s': %s\n", result.Dataset.Name, result.Err)
		}
	}
	session.Loader.Fit()

	templates, err := render.ReadTemplates()
	if err != nil {
		return err
	}

	snapshot := session.Scene.Snapshot()

	var buf bytes.Buffer
	err = render.WritePage(&buf, templates, render.Page{
		Title:       title,
		StaticBase:  "static",
		Options:     render.MapOptionsFromConfig(false),
		Snapshot:    &snapshot,
		GeneratedAt: time.Now(),
	})
	if err != nil {
		return err
	}

	exportDirectory := filesystem.Abs(config.ExportDirectory())
	if err := filesystem.CreateDirectoryIfNotExists(exportDirectory); err != nil {
		return fmt.Errorf("could not create export directory: %w", err)
	}

	if err := filesystem.InstallFS(res.Static, "static", filepath.Join(exportDirectory, "static")); err != nil {
		return fmt.Errorf("could not install static files: %w", err)
	}

	pageFile := filepath.Join(exportDirectory, "index.html")
	if err := os.WriteFile(pageFile, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("could not write map file: %w", err)
	}

	log.Info("exported map", "file", pageFile, "tracks", len(snapshot.Layers))

	return nil
}

func askDatasets(datasets []config.Dataset) ([]config.Dataset, error) {
	names := make([]string, len(datasets))
	for i, ds := range datasets {
		names[i] = ds.Name
	}

	var chosen []string
	prompt := &survey.MultiSelect{
		Message: "Datasets to export:",
		Options: names,
		Default: names,
	}

	if err := survey.AskOne(prompt, &chosen, survey.WithValidator(survey.MinItems(1))); err != nil {
		return nil, err
	}

	selected := make(map[string]bool, len(chosen))
	for _, name := range chosen {
		selected[name] = true
	}

	var filtered []config.Dataset
	for _, ds := range datasets {
		if selected[ds.Name] {
			filtered = append(filtered, ds)
		}
	}

	return filtered, nil
}
