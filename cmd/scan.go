package cmd

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dupesweep/dupesweep/pkg/config"
	"github.com/dupesweep/dupesweep/pkg/filter"
	"github.com/dupesweep/dupesweep/pkg/fsid"
	"github.com/dupesweep/dupesweep/pkg/logger"
	"github.com/dupesweep/dupesweep/pkg/notification"
	"github.com/dupesweep/dupesweep/pkg/scanner"
)

var (
	scanNoIgnoreSmall bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [PATH...]",
	Short: "Scan paths and merge duplicate files into hardlinks",
	Long: `This command scans the given paths, finds files with identical content and
replaces duplicates with hardlinks to a single physical copy. Duplicates are
found within each path as well as across all given paths.`,

	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		start := time.Now()

		initCore()

		log := logger.GetLogger("scan")

		noti := notification.NewDiscordSender(log, config.Config.Notifications)

		dryRun := flagDryRun || config.Config.Scanner.DryRun

		s := scanner.New()
		s.Settings.IgnoreSmall = config.Config.Scanner.IgnoreSmall && !scanNoIgnoreSmall
		s.Settings.DryRun = dryRun

		fileFilter, err := filter.New(config.Config.Filter)
		if err != nil {
			log.WithError(err).Fatal("Failed compiling file filter")
		}
		s.SetFilter(fileFilter)

		events := &scanEvents{log: log}
		collector := &fieldCollector{noti: noti}
		s.SetListener(scanner.Multi(events, collector))

		if dryRun {
			log.Warn("Dry-run enabled, no filesystem changes will be made...")
		}

		for _, path := range args {
			if err := s.Enqueue(path); err != nil {
				log.WithError(err).Fatalf("Failed resolving path: %q", path)
			}
		}

		if err := s.Flush(); err != nil {
			log.WithError(err).Fatal("Failed scanning")
		}

		stats := s.Stats()

		log.Info("-----")
		log.WithField("reclaimed_space", humanize.IBytes(collector.reclaimed)).
			Infof("Scanned %d files (%d skipped): %d duplicates found, %d existing hardlinks, %d merges",
				stats.Added, stats.Skipped, stats.Dupes, collector.merges, stats.Hardlinks)

		if !noti.CanSend() {
			log.Debug("Notifications disabled, skipping...")
			return
		}

		sendErr := noti.Send(
			"Scan",
			fmt.Sprintf("Merged **%d** duplicate paths | Total reclaimed **%s**",
				collector.merges, humanize.IBytes(collector.reclaimed)),
			time.Since(start),
			collector.fields,
			dryRun,
		)
		if sendErr != nil {
			log.WithError(sendErr).Error("Failed sending notification")
		}
	},
}

// scanEvents logs scanner progress.
type scanEvents struct {
	log *logrus.Entry
}

func (e *scanEvents) FileScanned(path string, _ scanner.Stats) {
	e.log.Tracef("Scanned: %q", path)
}

func (e *scanEvents) ScanComplete(stats scanner.Stats, elapsed time.Duration) {
	e.log.Infof("Scan complete in %s: %d added / %d skipped / %d dupes / %d hardlinks",
		elapsed.Truncate(time.Millisecond), stats.Added, stats.Skipped, stats.Dupes, stats.Hardlinks)
}

func (e *scanEvents) Hardlinked(dst, src string) {
	e.log.Infof("Hardlinked: %q -> %q", dst, src)
}

func (e *scanEvents) DuplicateFound(dst, src string) {
	e.log.Warnf("Would hardlink: %q -> %q", dst, src)
}

// fieldCollector turns merge events into notification fields and tallies
// reclaimed bytes.
type fieldCollector struct {
	noti      notification.Sender
	fields    []notification.Field
	reclaimed uint64
	merges    uint64
}

func (c *fieldCollector) FileScanned(string, scanner.Stats)         {}
func (c *fieldCollector) ScanComplete(scanner.Stats, time.Duration) {}

func (c *fieldCollector) Hardlinked(dst, src string) {
	c.record(notification.ActionHardlink, dst, src)
}

func (c *fieldCollector) DuplicateFound(dst, src string) {
	c.record(notification.ActionDuplicate, dst, src)
}

func (c *fieldCollector) record(action notification.Action, dst, src string) {
	// dst already links to src here, so either path reports the size.
	var size int64
	if _, info, err := fsid.Stat(src); err == nil {
		size = info.Size
	}

	c.merges++
	c.reclaimed += uint64(size)
	c.fields = append(c.fields, c.noti.BuildField(action, notification.BuildOptions{
		Dupe:   dst,
		Source: src,
		Size:   size,
	}))
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().BoolVar(&scanNoIgnoreSmall, "no-ignore-small", false, "Also dedupe files smaller than a filesystem block")
}
