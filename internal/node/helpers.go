package node

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Klingon-tech/solforge/config"
	klog "github.com/Klingon-tech/solforge/internal/log"
)

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// openJournal opens the request journal, or a no-op one when disabled.
// Missing parent directories are created.
func openJournal(cfg config.JournalConfig) (journal, error) {
	if !cfg.Enabled {
		return klog.NopJournal{}, nil
	}

	path := expandHome(cfg.File)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating journal dir: %w", err)
		}
	}

	j, err := klog.NewFileJournal(path)
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}
	klog.Journal.Debug().Str("file", path).Msg("Request journal opened")
	return j, nil
}
