package service

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/lshigami/proctorexam/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const snapshotDir = "violation_snaps"

// ScreenshotStore persists violation screenshots under the public static tree.
type ScreenshotStore interface {
	// Save writes data and returns the public path it is served under.
	Save(ctx context.Context, owner uint, data []byte, mimeType string) (string, error)
	// Remove deletes a file previously returned by Save.
	Remove(ctx context.Context, publicPath string) error
}

type screenshotStore struct {
	fs           afero.Fs
	root         string
	publicPrefix string
}

func NewScreenshotStore(fs afero.Fs, cfg *config.Config) ScreenshotStore {
	return &screenshotStore{
		fs:           fs,
		root:         cfg.Server.StaticDir,
		publicPrefix: strings.TrimRight(cfg.Server.StaticPrefix, "/"),
	}
}

func (s *screenshotStore) Save(ctx context.Context, owner uint, data []byte, mimeType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := filepath.Join(s.root, snapshotDir)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create screenshot dir: %v", ErrStorage, err)
	}

	name := fmt.Sprintf("%d_%s%s", owner, strings.ReplaceAll(uuid.NewString(), "-", ""), imageExtension(mimeType))
	if err := afero.WriteFile(s.fs, filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("%w: write screenshot: %v", ErrStorage, err)
	}

	publicPath := path.Join(s.publicPrefix, snapshotDir, name)
	log.Debug().Uint("userID", owner).Str("path", publicPath).Int("bytes", len(data)).Msg("Screenshot saved")
	return publicPath, nil
}

func (s *screenshotStore) Remove(_ context.Context, publicPath string) error {
	rel := strings.TrimPrefix(publicPath, s.publicPrefix+"/")
	if rel == publicPath || !strings.HasPrefix(rel, snapshotDir+"/") || strings.Contains(rel, "..") {
		return fmt.Errorf("%w: %s is not a screenshot path", ErrInvalidInput, publicPath)
	}
	err := s.fs.Remove(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: remove screenshot: %v", ErrStorage, err)
	}
	return nil
}
