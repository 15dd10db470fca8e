package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/five82/shelfwatch/internal/catalog"
)

// ErrCorrupt reports persisted state that exists but cannot be decoded.
// Callers must fail rather than start over with an empty state.
var ErrCorrupt = errors.New("state corrupted")

// Backend loads and saves the full State. Implementations return an empty
// State when nothing has been saved yet.
type Backend interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, s *State) error
	Close() error
}

// Driver identifies a Backend implementation.
type Driver string

const (
	DriverFile     Driver = "file"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverRedis    Driver = "redis"
	DriverS3       Driver = "s3"
)

// Options selects and configures a Backend.
type Options struct {
	Driver Driver

	// file and sqlite
	Path string

	// postgres
	DSN string

	// redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisKey      string

	// s3
	S3 S3Options
}

// Open constructs the Backend selected by opts.Driver (default file).
func Open(ctx context.Context, opts Options) (Backend, error) {
	driver := Driver(strings.ToLower(strings.TrimSpace(string(opts.Driver))))
	if driver == "" {
		driver = DriverFile
	}
	switch driver {
	case DriverFile:
		return NewFile(opts.Path)
	case DriverSQLite:
		return OpenSQLite(ctx, opts.Path)
	case DriverPostgres:
		return OpenPostgres(ctx, opts.DSN)
	case DriverRedis:
		return OpenRedis(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.RedisKey)
	case DriverS3:
		return OpenS3(ctx, opts.S3)
	default:
		return nil, fmt.Errorf("unknown state driver %q", opts.Driver)
	}
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrCorrupt, fmt.Sprintf(format, args...))
}

// decodeRow validates one stored row.
func decodeRow(catalogNumber, status string, changedAt, checkedAt time.Time) (Entry, error) {
	if strings.TrimSpace(catalogNumber) == "" {
		return Entry{}, corrupt("empty catalog number")
	}
	parsed, err := catalog.ParseStatus(status)
	if err != nil {
		return Entry{}, corrupt("%s: %v", catalogNumber, err)
	}
	return Entry{Status: parsed, ChangedAt: changedAt, CheckedAt: checkedAt}, nil
}
