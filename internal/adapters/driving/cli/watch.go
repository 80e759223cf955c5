package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/logger"
)

// watchDebounce coalesces rapid events for the same file. Editors commonly
// fire several writes per save.
const watchDebounce = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and re-index changed files",
	Long: `Watches the given directory for file changes and re-ingests modified
documentation automatically. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	root := args[0]
	if err := addWatchDirs(watcher, root); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (press Ctrl+C to stop)\n", root)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(watchDebounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			cmd.Println("Stopped.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) {
				// New subdirectories join the watch set.
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addWatchDirs(watcher, event.Name); err != nil {
						logger.Warn("Watching %s: %v", event.Name, err)
					}
					continue
				}
			}
			if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) {
				if _, ok := normalisers[strings.ToLower(filepath.Ext(event.Name))]; ok {
					pending[event.Name] = time.Now()
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)

		case <-ticker.C:
			now := time.Now()
			var changed bool
			for path, seen := range pending {
				if now.Sub(seen) < watchDebounce {
					continue
				}
				delete(pending, path)

				result, err := ingestFile(ctx, path)
				if err != nil {
					logger.Warn("Re-ingesting %s: %v", path, err)
					continue
				}
				if result != nil && !result.Unchanged {
					cmd.Printf("  re-indexed %s (%d chunks)\n", path, result.ChunkCount)
					changed = true
				}
			}
			if changed {
				if err := ingestService.Reload(ctx); err != nil {
					logger.Warn("Rebuilding index: %v", err)
				}
			}
		}
	}
}

// addWatchDirs registers root and all its subdirectories.
func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
