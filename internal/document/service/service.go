package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/docugrade/docugrade/internal/document/repository"
	"github.com/docugrade/docugrade/internal/models"
	"github.com/docugrade/docugrade/internal/storage"
	"github.com/docugrade/docugrade/pkg/logger"
)

var (
	// ErrInvalidFilename rejects a single upload item, never the whole batch.
	ErrInvalidFilename = errors.New("invalid filename")
	// ErrNotFound mirrors the repository outcome: nonexistent and not-owned
	// document ids look the same to the caller.
	ErrNotFound = repository.ErrNotFound
	// ErrAccessDenied means a stored path resolved outside the owner's
	// directory. The record exists and belongs to the caller, so this is the
	// one failure allowed to be distinguishable from not-found.
	ErrAccessDenied = errors.New("access denied")
	// ErrMissingOnDisk means the path is confined but the bytes are gone.
	ErrMissingOnDisk = errors.New("file missing on disk")
)

// Upload is one incoming file of an upload batch.
type Upload struct {
	Filename string
	Data     []byte
}

// Summary is one row of a file listing.
type Summary struct {
	ID        int64  `json:"id"`
	Filename  string `json:"filename"`
	Path      string `json:"path"`
	CreatedAt string `json:"created_at"`
}

// Service owns the per-user file tree under root and the document metadata
// rows behind it. It is the only component that computes user directories, and
// it never trusts a stored path at read time.
type Service struct {
	repo   repository.Repository
	root   string
	mirror *storage.Mirror
}

// New creates the store. mirror may be nil, in which case uploads are only
// written to the local tree.
func New(repo repository.Repository, root string, mirror *storage.Mirror) *Service {
	return &Service{repo: repo, root: root, mirror: mirror}
}

// UserDir maps a user id to its dedicated directory, creating it (and any
// missing parents) on first use. Idempotent and safe under concurrent calls.
func (s *Service) UserDir(userID int64) (string, error) {
	dir := filepath.Join(s.root, strconv.FormatInt(userID, 10))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure user dir: %w", err)
	}
	return dir, nil
}

// SaveAll writes each upload into the user's directory and records one
// metadata row per accepted file, committed together at the end. An empty
// filename rejects that item only. Disk writes and the metadata commit are two
// independent effects: when the commit fails, the files already written stay
// on disk and the error is surfaced as-is.
func (s *Service) SaveAll(ctx context.Context, userID int64, uploads []Upload) (saved []string, rejected int, err error) {
	dir, err := s.UserDir(userID)
	if err != nil {
		return nil, 0, err
	}
	saved = []string{}
	docs := make([]*models.Document, 0, len(uploads))
	for _, up := range uploads {
		if up.Filename == "" {
			rejected++
			continue
		}
		// the filename is used verbatim as a path component; confinement is
		// enforced at download time, not here
		dest := filepath.Join(dir, up.Filename)
		if err := os.WriteFile(dest, up.Data, 0o644); err != nil {
			return saved, rejected, fmt.Errorf("write %s: %w", up.Filename, err)
		}
		docs = append(docs, &models.Document{UserID: userID, Filename: up.Filename, Path: dest})
		saved = append(saved, up.Filename)

		if s.mirror != nil {
			key := fmt.Sprintf("%d/%s", userID, up.Filename)
			mctx, cancel := context.WithTimeout(ctx, 10*time.Second)
			if merr := s.mirror.Put(mctx, key, bytes.NewReader(up.Data), int64(len(up.Data)), "application/octet-stream"); merr != nil {
				logger.Warnf("mirror upload failed for %s: %v", key, merr)
			}
			cancel()
		}
	}
	if err := s.repo.InsertBatch(ctx, docs); err != nil {
		// files written above stay on disk; there is no cross-rollback
		return saved, rejected, err
	}
	return saved, rejected, nil
}

// List returns the user's documents, newest first, with ISO-8601 timestamps.
func (s *Service) List(ctx context.Context, userID int64) ([]Summary, error) {
	docs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(docs))
	for _, d := range docs {
		out = append(out, Summary{
			ID:        d.ID,
			Filename:  d.Filename,
			Path:      d.Path,
			CreatedAt: d.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

// Open looks up the document scoped to its owner, re-derives the owner's
// directory and verifies the stored path is confined to it before touching the
// file. The stored path is treated as adversarial input: symlinks and relative
// segments are resolved first, and escape is ErrAccessDenied even though the
// record itself was found. A confined path with no file behind it is
// ErrMissingOnDisk. On success the caller owns the returned *os.File.
func (s *Service) Open(ctx context.Context, userID, docID int64) (*models.Document, *os.File, error) {
	doc, err := s.repo.GetByID(ctx, userID, docID)
	if err != nil {
		return nil, nil, err
	}
	dir, err := s.UserDir(userID)
	if err != nil {
		return nil, nil, err
	}
	resolved, confined := resolveWithin(dir, doc.Path)
	if !confined {
		return nil, nil, ErrAccessDenied
	}
	f, err := os.Open(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrMissingOnDisk
		}
		return nil, nil, fmt.Errorf("open %s: %w", doc.Filename, err)
	}
	return doc, f, nil
}

// resolveWithin resolves candidate (symlinks included, when it exists) and
// reports whether the result stays inside root. root must exist.
func resolveWithin(root, candidate string) (string, bool) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}
	rootResolved, err := filepath.EvalSymlinks(rootAbs)
	if err != nil {
		return "", false
	}
	abs, err := filepath.Abs(candidate)
	if err != nil {
		return "", false
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", false
		}
		// file absent: resolve the parent instead, so a confined-but-missing
		// file is distinguishable from an escape
		if parent, perr := filepath.EvalSymlinks(filepath.Dir(abs)); perr == nil {
			resolved = filepath.Join(parent, filepath.Base(abs))
		} else {
			resolved = filepath.Clean(abs)
		}
	}
	return resolved, isWithin(rootResolved, resolved)
}

func isWithin(root, candidate string) bool {
	root = filepath.Clean(root)
	candidate = filepath.Clean(candidate)
	if root == candidate {
		return true
	}
	sep := string(filepath.Separator)
	if !strings.HasSuffix(root, sep) {
		root += sep
	}
	return strings.HasPrefix(candidate, root)
}
