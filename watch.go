package acep

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDelay is how long Watch waits for a burst of changes to
// settle before converting.
const DefaultWatchDelay = 2 * time.Second

var imageExts = map[string]struct{}{
	".bmp":  {},
	".gif":  {},
	".jpeg": {},
	".jpg":  {},
	".png":  {},
	".tif":  {},
	".tiff": {},
	".webp": {},
}

// IsImage reports whether file has the extension of a decodable image and
// isn't hidden.
func IsImage(file string) bool {
	base := filepath.Base(file)
	if strings.HasPrefix(base, ".") {
		return false
	}
	_, ok := imageExts[strings.ToLower(filepath.Ext(base))]
	return ok
}

// ListImages returns the images found directly inside each of dirs, in
// directory order and then by name.
func ListImages(dirs []string) ([]string, error) {
	var files []string
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			// Ignore anything that isn't a normal file
			if !e.Type().IsRegular() || !IsImage(e.Name()) {
				continue
			}
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// Watch converts every image in dirs and then again each time images are
// added or changed, until ctx is done. A batch that fails is logged and
// watching continues.
func (c *Converter) Watch(ctx context.Context, dirs []string, opts Options, delay time.Duration) error {
	out, err := filepath.Abs(opts.Output)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		// Previews written there would be picked up as new sources
		if abs == out {
			return fmt.Errorf("cannot watch the output directory %s", dir)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return err
		}
	}

	c.convertDirs(ctx, dirs, opts)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !IsImage(event.Name) || event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			c.logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("change detected")
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(delay)
			fire = timer.C

		case <-fire:
			timer, fire = nil, nil
			c.convertDirs(ctx, dirs, opts)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Error().Err(err).Msg("watch error")
		}
	}
}

func (c *Converter) convertDirs(ctx context.Context, dirs []string, opts Options) {
	sources, err := ListImages(dirs)
	if err != nil {
		c.logger.Error().Err(err).Msg("listing images")
		return
	}

	report, err := c.Convert(ctx, sources, opts)
	if err != nil {
		c.logger.Error().Err(err).Msg("conversion failed")
		return
	}

	c.logger.Info().Int("written", len(report.Written)).Int("skipped", len(report.Skipped)).Msg("batch complete")
}
