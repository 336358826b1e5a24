package calendar

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strconv"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed holidays
var embeddedHolidays embed.FS

// EmbeddedData returns the bundled holiday dataset rooted at <country>/<year>.json
func EmbeddedData() fs.FS {
	sub, err := fs.Sub(embeddedHolidays, "holidays")
	if err != nil {
		// only fails for an invalid path literal
		panic(err)
	}
	return sub
}

// FileLoader implements Loader over a file tree laid out as <country>/<year>.<ext>
// where ext is json, yaml or yml
type FileLoader struct {
	fsys   fs.FS
	logger *zap.Logger
}

// NewFileLoader creates a loader reading from fsys
func NewFileLoader(fsys fs.FS, logger *zap.Logger) *FileLoader {
	return &FileLoader{
		fsys:   fsys,
		logger: logger,
	}
}

// NewDirLoader creates a loader reading from a directory on disk
func NewDirLoader(dir string, logger *zap.Logger) *FileLoader {
	return NewFileLoader(os.DirFS(dir), logger)
}

// Load reads and parses the calendar file for the country and year
func (fl *FileLoader) Load(ctx context.Context, country string, year int) (*HolidayCalendar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	country = NormalizeCountry(country)
	base := path.Join(country, strconv.Itoa(year))

	for _, ext := range []string{".json", ".yaml", ".yml"} {
		name := base + ext
		data, err := fs.ReadFile(fl.fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read calendar file %s: %w", name, err)
		}

		cal, err := parseCalendar(data, ext)
		if err != nil {
			return nil, fmt.Errorf("failed to parse calendar file %s: %w", name, err)
		}

		// File contents win only for the holiday list; the key identifies the calendar
		cal.Country = country
		if cal.Year == 0 {
			cal.Year = year
		}
		sortHolidays(cal.Holidays)

		fl.logger.Debug("Calendar file loaded",
			zap.String("file", name),
			zap.Int("holidays", len(cal.Holidays)))

		return cal, nil
	}

	return nil, fmt.Errorf("%w: %s %d", ErrNotFound, country, year)
}

func parseCalendar(data []byte, ext string) (*HolidayCalendar, error) {
	var cal HolidayCalendar
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &cal); err != nil {
			return nil, err
		}
	default:
		if err := yaml.Unmarshal(data, &cal); err != nil {
			return nil, err
		}
	}
	return &cal, nil
}
