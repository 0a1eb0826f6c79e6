// Package rag is a stubbed index/assess service with minimal logic. The
// interface is stable; the internals can later be swapped for a real vector
// index without touching the callers.
package rag

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ManifestName is the listing artifact written by BuildIndex. It lives inside
// the user's directory and counts as a regular file afterwards.
const ManifestName = "rag_manifest.txt"

// UserDirFunc resolves a user id to its storage directory, creating it when
// absent. The document store provides the implementation.
type UserDirFunc func(userID int64) (string, error)

// Service grades text against a user's uploaded files. No embedding, no
// retrieval: the grade is a length/file-count heuristic.
type Service struct {
	userDir UserDirFunc
}

func New(userDir UserDirFunc) *Service {
	return &Service{userDir: userDir}
}

func (s *Service) listFiles(userID int64) ([]string, error) {
	dir, err := s.userDir(userID)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read user dir: %w", err)
	}
	names := []string{}
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// BuildIndex writes a filename manifest into the user's directory and returns
// the number of files it covers.
func (s *Service) BuildIndex(userID int64) (int, error) {
	names, err := s.listFiles(userID)
	if err != nil {
		return 0, err
	}
	dir, err := s.userDir(userID)
	if err != nil {
		return 0, err
	}
	manifest := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(manifest, []byte(strings.Join(names, "\n")), 0o644); err != nil {
		return 0, fmt.Errorf("write manifest: %w", err)
	}
	return len(names), nil
}

// Assess produces a 1..10 grade from the text length and the user's file
// count, plus a fixed explanation naming the heuristic.
func (s *Service) Assess(userID int64, text string) (float64, string, error) {
	names, err := s.listFiles(userID)
	if err != nil {
		return 0, "", err
	}
	base := clamp(float64(len(strings.TrimSpace(text)))/200.0*10, 1.0, 10.0)
	bonus := float64(len(names)) * 0.5
	if bonus > 3.0 {
		bonus = 3.0
	}
	grade := clamp(base+bonus-1.5, 1.0, 10.0)
	explanation := fmt.Sprintf(
		"Heuristic grade based on text length and %d uploaded files. "+
			"Replace with real similarity search against your vector index.", len(names))
	return grade, explanation, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
