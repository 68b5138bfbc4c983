package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/bgraf/trackmap/config"
	"github.com/bgraf/trackmap/data/gpx"
	"github.com/bgraf/trackmap/data/normalize"
	"github.com/bgraf/trackmap/geotrack"
	"github.com/bgraf/trackmap/loader"
	"github.com/bgraf/trackmap/registry"
	"github.com/spf13/cobra"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect [FILE...]",
	Short: "Print load state and track metadata of the configured datasets or of local files.",
	RunE:  runInspectCmd,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolP("tracks", "T", false, "List every track")
}

func runInspectCmd(cmd *cobra.Command, args []string) error {
	listTracks, err := cmd.Flags().GetBool("tracks")
	if err != nil {
		return err
	}

	if len(args) > 0 {
		for _, file := range args {
			if err := inspectFile(file, listTracks); err != nil {
				fmt.Printf("%s: %s\n", file, err)
			}
		}
		return nil
	}

	datasets, err := config.Datasets()
	if err != nil {
		return err
	}

	session := loader.NewSession()
	defer session.Close()

	session.Loader.Run(context.Background(), datasets)

	for _, view := range session.Registry.Datasets() {
		printDataset(view, listTracks)
	}

	if region := session.Registry.Bounds(); region.IsSome() {
		corners := region.Get().Corners()
		fmt.Printf("Bounds: %s .. %s\n", geotrack.FormatPoint(corners[0]), geotrack.FormatPoint(corners[1]))
	}

	return nil
}

func printDataset(view registry.DatasetView, listTracks bool) {
	fmt.Printf("%s [%s] %s\n", view.Name, view.State, view.SourceURL)
	if view.Reason != "" {
		fmt.Printf("  reason: %s\n", view.Reason)
	}
	fmt.Printf("  tracks: %d\n", len(view.Tracks))

	if listTracks {
		for _, tv := range view.Tracks {
			printTrackInfo(tv.Info)
		}
	}
}

func printTrackInfo(info geotrack.TrackInfo) {
	fmt.Printf("  - %s (%.2f km)\n", info.Label, info.LengthKm)
	fmt.Printf("      start: %s %s\n", info.StartTime, info.StartCoordText)
	fmt.Printf("      end:   %s %s\n", info.EndTime, info.EndCoordText)
}

// inspectFile reads a local file. GPX files are only scanned for their first
// and last trackpoint unless tracks are listed.
func inspectFile(file string, listTracks bool) error {
	format, err := normalize.FormatFromURL(file)
	if err != nil {
		return err
	}

	if format == normalize.FormatGPX && !listTracks {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()

		first, last, err := gpx.ReadEndpoints(f)
		if err != nil {
			return err
		}

		fmt.Printf("%s\n  start: %s\n  end:   %s\n", file, describePoint(first), describePoint(last))
		return nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	tracks, report, err := normalize.Decode(format, normalize.LabelFromURL(file), data)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n  records: %d, skipped: %d, tracks: %d\n", file, report.Records, len(report.Skipped), len(tracks))
	for _, skipped := range report.Skipped {
		fmt.Printf("  skipped %s\n", skipped)
	}
	if listTracks {
		for _, t := range tracks {
			printTrackInfo(t.Info(file))
		}
	}

	return nil
}

func describePoint(p gpx.TrackPoint) string {
	if !p.HasTime() {
		return geotrack.FormatPoint(p.Point)
	}
	return fmt.Sprintf("%s %s", p.Time.UTC().Format("2006-01-02 15:04:05"), geotrack.FormatPoint(p.Point))
}
