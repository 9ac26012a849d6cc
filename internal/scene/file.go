package scene

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

func (s *Store) SaveToFile(path string) error {
	data, err := s.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	if err := writeFileAtomic(path, data, 0644); err != nil {
		s.log.Warn("scene save failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("save scene %s: %w", path, err)
	}
	s.log.Debug("scene saved", zap.String("path", path), zap.Int("entities", len(s.entities)))
	return nil
}

// LoadFromFile reads and validates path before replacing the store contents,
// so a failed load leaves the current scene as it was.
func (s *Store) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Warn("scene load failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("read scene %s: %w", path, err)
	}
	if err := s.Decode(data); err != nil {
		s.log.Warn("scene load failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("load scene %s: %w", path, err)
	}
	s.log.Debug("scene loaded", zap.String("path", path), zap.Int("entities", len(s.entities)))
	return nil
}

// writeFileAtomic writes into a temp file beside path and renames it over the
// target, so readers never see a partially written scene.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".scene-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	success := false
	defer func() {
		if !success {
			os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	success = true
	return nil
}
