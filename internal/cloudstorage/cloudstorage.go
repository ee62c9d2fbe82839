package cloudstorage

import (
	"context"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/polarisfn/Polaris_Go/internal/domain"
	"github.com/polarisfn/Polaris_Go/internal/event"
	"github.com/polarisfn/Polaris_Go/internal/logger"
)

const (
	// MaxSettingsSize is the byte cap for uploaded client settings blobs.
	MaxSettingsSize = 400000

	// SettingsFilename is the only user file the storage accepts.
	SettingsFilename = "ClientSettings.Sav"

	digestCacheSize = 256
	digestCacheTTL  = 10 * time.Minute
)

// FileEntry describes a stored file in listing responses.
type FileEntry struct {
	UniqueFilename string                 `json:"uniqueFilename"`
	Filename       string                 `json:"filename"`
	Hash           string                 `json:"hash"`
	Hash256        string                 `json:"hash256"`
	Length         int64                  `json:"length"`
	ContentType    string                 `json:"contentType"`
	Uploaded       string                 `json:"uploaded"`
	StorageType    string                 `json:"storageType"`
	StorageIDs     map[string]interface{} `json:"storageIds"`
	AccountID      string                 `json:"accountId,omitempty"`
	DoNotCache     bool                   `json:"doNotCache"`
}

// Service exposes the system hotfix files and per-account client settings.
type Service interface {
	ListSystemFiles(ctx context.Context) ([]FileEntry, error)
	ReadSystemFile(ctx context.Context, filename string) ([]byte, error)
	ListUserFiles(ctx context.Context, accountID string) ([]FileEntry, error)
	ReadUserFile(ctx context.Context, accountID, filename string) ([]byte, error)
	WriteUserFile(ctx context.Context, accountID, filename string, data []byte) error
}

type fileDigest struct {
	sha1Hex   string
	sha256Hex string
}

type service struct {
	systemDir   string
	settingsDir string
	bus         event.Bus
	digests     *expirable.LRU[string, fileDigest]
}

// NewService creates the storage service. systemDir holds the read-only
// hotfix .ini files; settingsDir receives per-account settings blobs and
// is created on demand.
func NewService(systemDir, settingsDir string, bus event.Bus) Service {
	return &service{
		systemDir:   systemDir,
		settingsDir: settingsDir,
		bus:         bus,
		digests:     expirable.NewLRU[string, fileDigest](digestCacheSize, nil, digestCacheTTL),
	}
}

// ListSystemFiles returns one entry per .ini file in the system directory,
// sorted by filename for stable listings.
func (s *service) ListSystemFiles(ctx context.Context) ([]FileEntry, error) {
	entries, err := os.ReadDir(s.systemDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []FileEntry{}, nil
		}
		return nil, fmt.Errorf("failed to read system storage dir: %w", err)
	}

	files := make([]FileEntry, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".ini") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", e.Name(), err)
		}
		digest, err := s.digest(filepath.Join(s.systemDir, e.Name()), info)
		if err != nil {
			return nil, err
		}
		files = append(files, FileEntry{
			UniqueFilename: e.Name(),
			Filename:       e.Name(),
			Hash:           digest.sha1Hex,
			Hash256:        digest.sha256Hex,
			Length:         info.Size(),
			ContentType:    "application/octet-stream",
			Uploaded:       info.ModTime().UTC().Format(time.RFC3339),
			StorageType:    "S3",
			StorageIDs:     map[string]interface{}{},
			DoNotCache:     true,
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Filename < files[j].Filename })
	return files, nil
}

// ReadSystemFile returns the contents of a system file by name.
func (s *service) ReadSystemFile(ctx context.Context, filename string) ([]byte, error) {
	path, err := s.resolve(s.systemDir, filename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, filename)
		}
		return nil, fmt.Errorf("failed to read system file: %w", err)
	}
	return data, nil
}

// ListUserFiles returns the settings entry for the account, or an empty
// list when nothing has been uploaded yet.
func (s *service) ListUserFiles(ctx context.Context, accountID string) ([]FileEntry, error) {
	path, err := s.userPath(accountID)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []FileEntry{}, nil
		}
		return nil, fmt.Errorf("failed to stat user settings: %w", err)
	}

	digest, err := s.digest(path, info)
	if err != nil {
		return nil, err
	}
	return []FileEntry{{
		UniqueFilename: SettingsFilename,
		Filename:       SettingsFilename,
		Hash:           digest.sha1Hex,
		Hash256:        digest.sha256Hex,
		Length:         info.Size(),
		ContentType:    "application/octet-stream",
		Uploaded:       info.ModTime().UTC().Format(time.RFC3339),
		StorageType:    "S3",
		StorageIDs:     map[string]interface{}{},
		AccountID:      accountID,
		DoNotCache:     true,
	}}, nil
}

// ReadUserFile returns the stored settings blob for the account.
func (s *service) ReadUserFile(ctx context.Context, accountID, filename string) ([]byte, error) {
	if filename != SettingsFilename {
		return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, filename)
	}
	path, err := s.userPath(accountID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, filename)
		}
		return nil, fmt.Errorf("failed to read user settings: %w", err)
	}
	return data, nil
}

// WriteUserFile stores the settings blob, enforcing the size cap before
// touching disk.
func (s *service) WriteUserFile(ctx context.Context, accountID, filename string, data []byte) error {
	if filename != SettingsFilename {
		return fmt.Errorf("%w: unsupported filename %q", domain.ErrInvalidInput, filename)
	}
	if len(data) > MaxSettingsSize {
		return fmt.Errorf("%w: %d bytes exceeds cap of %d", domain.ErrSettingsTooLarge, len(data), MaxSettingsSize)
	}

	path, err := s.userPath(accountID)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write user settings: %w", err)
	}

	s.publishUploaded(ctx, accountID, len(data))
	return nil
}

// digest returns the file's SHA-1 and SHA-256 hex digests, memoized by
// (path, mtime, size) so unchanged files are not re-hashed per listing.
func (s *service) digest(path string, info os.FileInfo) (fileDigest, error) {
	key := fmt.Sprintf("%s|%d|%d", path, info.ModTime().UnixNano(), info.Size())
	if cached, ok := s.digests.Get(key); ok {
		return cached, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fileDigest{}, fmt.Errorf("failed to hash %s: %w", filepath.Base(path), err)
	}
	h1 := sha1.Sum(data)
	h256 := sha256.Sum256(data)
	d := fileDigest{
		sha1Hex:   hex.EncodeToString(h1[:]),
		sha256Hex: hex.EncodeToString(h256[:]),
	}
	s.digests.Add(key, d)
	return d, nil
}

// userPath maps an account to its settings file, rejecting IDs that would
// escape the settings directory.
func (s *service) userPath(accountID string) (string, error) {
	if accountID == "" {
		return "", fmt.Errorf("%w: empty account id", domain.ErrInvalidInput)
	}
	return s.resolve(s.settingsDir, accountID+".Sav")
}

// resolve joins name onto dir and verifies the result stays inside dir.
func (s *service) resolve(dir, name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: invalid filename %q", domain.ErrInvalidInput, name)
	}
	path := filepath.Join(dir, name)
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve storage dir: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	if !strings.HasPrefix(absPath, absDir+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: invalid filename %q", domain.ErrInvalidInput, name)
	}
	return path, nil
}

func (s *service) publishUploaded(ctx context.Context, accountID string, size int) {
	if s.bus == nil {
		return
	}
	evt := event.Event{
		Version: "1.0",
		Type:    event.Type(domain.EventTypeSettingsUploaded),
		Payload: map[string]interface{}{
			"account_id": accountID,
			"size":       size,
		},
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn("Event publish failed", "type", evt.Type, "error", err)
	}
}
