package cmd

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dupesweep/dupesweep/pkg/linkmap"
	"github.com/dupesweep/dupesweep/pkg/logger"
	"github.com/dupesweep/dupesweep/pkg/paths"
)

var linksCmd = &cobra.Command{
	Use:   "links [PATH]",
	Short: "Report existing hardlink groups under a path",
	Long: `This command walks a path and reports groups of paths that already share an
inode, along with the space those links save. Nothing is modified.`,

	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initCore()

		log := logger.GetLogger("links")

		root := args[0]

		files, totalSize := paths.InFolder(root, true, false)
		log.Infof("Retrieved %d files (%s) from: %q", len(files), humanize.IBytes(totalSize), root)

		lm := linkmap.New()
		for _, f := range files {
			lm.Add(f.Path)
		}

		groups := lm.Groups()

		var saved uint64
		for _, g := range groups {
			log.Info("-----")
			log.Infof("Inode %s: %d paths, %s each", g.ID, len(g.Paths), humanize.IBytes(uint64(g.Size)))
			for _, p := range g.Paths {
				log.Infof("  %s", p)
			}

			if g.TotalLinks > uint64(len(g.Paths)) {
				log.Debugf("Inode %s has %d links outside this tree", g.ID, g.TotalLinks-uint64(len(g.Paths)))
			}

			saved += uint64(g.Size) * uint64(len(g.Paths)-1)
		}

		log.Info("-----")
		log.WithField("saved_space", humanize.IBytes(saved)).
			Infof("Found %d hardlink groups across %d distinct files", len(groups), lm.Length())
	},
}

func init() {
	rootCmd.AddCommand(linksCmd)
}
