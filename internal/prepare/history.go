package prepare

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/programme-lv/templategen/internal/xdgdirs"
)

// HistoryFileName lives in the XDG state directory.
const HistoryFileName = "history.jsonl"

// HistoryRecord is one prepare run, appended as a JSON line so earlier
// runs stay intact.
type HistoryRecord struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	URL         string    `json:"url"`
	Directories []string  `json:"directories"`
}

func newHistoryRecord(url string, directories []string) HistoryRecord {
	return HistoryRecord{
		ID:          uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		URL:         url,
		Directories: directories,
	}
}

func appendHistory(dirs *xdgdirs.Dirs, rec HistoryRecord) error {
	if err := dirs.EnsureDir(dirs.StateDir()); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode history record: %w", err)
	}
	path := filepath.Join(dirs.StateDir(), HistoryFileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append history record: %w", err)
	}
	return nil
}
