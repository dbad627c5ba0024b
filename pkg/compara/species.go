package compara

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/yumyai/pangene/logger"
	"go.uber.org/zap"
)

// ReadSpeciesList loads the selected species file: one identifier per line,
// reference species first. Blank lines and # comments are ignored.
// Duplicates are dropped with a warning, keeping the first occurrence.
func ReadSpeciesList(path string) ([]string, error) {

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open species list: %w", err)
	}
	defer f.Close()

	var ids []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if seen[line] {
			logger.Warn("Duplicate species in list, keeping first occurrence",
				zap.String("species", line))
			continue
		}
		seen[line] = true
		ids = append(ids, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read species list: %w", err)
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("species list %s has no entries", path)
	}

	return ids, nil
}
