package config

import (
	"context"
	"os"
	"time"
)

// WatchFile polls path for modification-time changes and calls onChange on
// every change. It does not perform an initial load; callers load once
// before starting the watch. Transient stat or load errors are skipped so
// a half-written file never kills the loop.
func WatchFile(ctx context.Context, path string, interval time.Duration, onChange func()) error {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	lastMod := info.ModTime()

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				info, err := os.Stat(path)
				if err != nil {
					continue // transient errors
				}
				if !info.ModTime().After(lastMod) {
					continue
				}
				lastMod = info.ModTime()
				if onChange != nil {
					onChange()
				}
			}
		}
	}()

	return nil
}

// WatchHours reloads hours.yaml on change and hands the parsed config to
// onUpdate. It performs an initial load before entering the watch loop.
func WatchHours(ctx context.Context, path string, interval time.Duration, onUpdate func(*HoursConfig)) error {
	cfg, err := LoadHoursConfig(path)
	if err != nil {
		return err
	}
	if onUpdate != nil {
		onUpdate(cfg)
	}

	return WatchFile(ctx, path, interval, func() {
		cfg, err := LoadHoursConfig(path)
		if err != nil {
			return
		}
		if onUpdate != nil {
			onUpdate(cfg)
		}
	})
}

// WatchMenu reloads menu.yaml on change and hands the parsed config to
// onUpdate. It performs an initial load before entering the watch loop.
func WatchMenu(ctx context.Context, path string, interval time.Duration, onUpdate func(*MenuConfig)) error {
	cfg, err := LoadMenuConfig(path)
	if err != nil {
		return err
	}
	if onUpdate != nil {
		onUpdate(cfg)
	}

	return WatchFile(ctx, path, interval, func() {
		cfg, err := LoadMenuConfig(path)
		if err != nil {
			return
		}
		if onUpdate != nil {
			onUpdate(cfg)
		}
	})
}
