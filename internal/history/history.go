// Package history keeps a bounded, append-only snapshot log per document.
//
// All records live in one JSON index per workspace; snapshot payloads are
// stored under a per-document directory whose name is a stable hash of
// the document path. The index is loaded fresh at the start of every
// operation and atomically rewritten at the end, so there is no in-memory
// state to diverge from disk between calls.
package history

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/pedroaldea/md-editor/internal/apperr"
	"github.com/pedroaldea/md-editor/internal/editor"
	"github.com/pedroaldea/md-editor/internal/oplog"
	"github.com/pedroaldea/md-editor/pkg/fs"
)

// Record is one snapshot of a document. Immutable once created; deleted
// only by retention pruning.
type Record struct {
	ID              string `json:"id"`
	CreatedAtMillis int64  `json:"createdAtMs"`
	Reason          string `json:"reason"`
	SizeBytes       uint64 `json:"sizeBytes"`
	FilePath        string `json:"filePath"`
	ContentHash     uint64 `json:"contentHash"`
}

// index maps document path to its chronological record sequence.
type index struct {
	Files map[string][]Record `json:"files"`
}

const (
	// MaxRecordsPerDocument caps each document's history; pruning removes
	// oldest records first.
	MaxRecordsPerDocument = 50

	// AutosaveCoalesceWindow suppresses a new autosave snapshot while the
	// previous autosave record is younger than this.
	AutosaveCoalesceWindow = 60 * time.Second

	// ReasonAutosave marks snapshots created by the editor's autosave
	// timer; only these coalesce.
	ReasonAutosave = "autosave"

	snapshotExt = ".mdsnap"

	// Waiting longer than this for the index lock means another writer is
	// stuck; we proceed unlocked rather than block the caller.
	lockTimeout = 2 * time.Second
)

// Store is the per-workspace snapshot store.
//
// Index mutations take a best-effort advisory flock, serializing
// cooperating writers on the same host. A writer that skips the lock (or
// hits the lock timeout) falls back to the unguarded read-modify-write,
// where the last index write wins; orphaned payload files survive on
// disk. Acceptable for a single-user editor.
type Store struct {
	fs     fs.FS
	writer *fs.AtomicWriter
	locker *fs.Locker
	paths  editor.Paths
	log    *oplog.Logger
	now    func() time.Time
}

// NewStore creates a snapshot store over the given layout. logger may be
// nil.
func NewStore(fsys fs.FS, paths editor.Paths, logger *oplog.Logger) *Store {
	if fsys == nil {
		panic("fs is nil")
	}

	return &Store{
		fs:     fsys,
		writer: fs.NewAtomicWriter(fsys),
		locker: fs.NewLocker(fsys),
		paths:  paths,
		log:    logger,
		now:    time.Now,
	}
}

// CreateSnapshot records content as a new snapshot of docPath, unless the
// dedup or autosave-coalescing rules decide the most recent record
// already covers it, in which case that record is returned unchanged.
//
// Consecutive records for a document never share a content hash. When the
// sequence exceeds [MaxRecordsPerDocument], the oldest excess records are
// dropped and their payload files deleted.
func (s *Store) CreateSnapshot(docPath, content, reason string) (Record, error) {
	if docPath == "" {
		return Record{}, apperr.New(apperr.Io, "snapshot path is empty")
	}

	if err := s.fs.MkdirAll(s.paths.HistoryDir(), 0o755); err != nil {
		return Record{}, apperr.FromOS(err)
	}

	if lock, err := s.locker.LockWithTimeout(s.paths.HistoryLockPath(), lockTimeout); err == nil {
		defer lock.Close()
	}

	idx, err := s.loadIndex()
	if err != nil {
		return Record{}, err
	}

	records := idx.Files[docPath]
	contentHash := hashString(content)
	nowMillis := s.now().UnixMilli()

	if len(records) > 0 {
		last := records[len(records)-1]

		if last.ContentHash == contentHash {
			return last, nil
		}

		if reason == ReasonAutosave && last.Reason == ReasonAutosave &&
			nowMillis-last.CreatedAtMillis < AutosaveCoalesceWindow.Milliseconds() {
			return last, nil
		}
	}

	id := fmt.Sprintf("%d-%x", nowMillis, hashString(fmt.Sprintf("%s:%d", docPath, nowMillis)))
	payloadPath := filepath.Join(s.snapshotDir(docPath), id+snapshotExt)

	err = s.writer.Write(payloadPath, []byte(content))
	if err != nil {
		return Record{}, apperr.FromOS(err)
	}

	record := Record{
		ID:              id,
		CreatedAtMillis: nowMillis,
		Reason:          reason,
		SizeBytes:       uint64(len(content)),
		FilePath:        payloadPath,
		ContentHash:     contentHash,
	}

	records = append(records, record)

	if len(records) > MaxRecordsPerDocument {
		overflow := len(records) - MaxRecordsPerDocument
		for _, stale := range records[:overflow] {
			_ = s.fs.Remove(stale.FilePath)
		}

		records = slices.Clone(records[overflow:])
	}

	idx.Files[docPath] = records

	err = s.saveIndex(idx)
	if err != nil {
		return Record{}, err
	}

	s.log.Logf("create_snapshot", "%s (%s)", docPath, reason)

	return record, nil
}

// ListSnapshots returns docPath's records sorted newest-first. A document
// with no history yields an empty slice, not an error.
func (s *Store) ListSnapshots(docPath string) ([]Record, error) {
	idx, err := s.loadIndex()
	if err != nil {
		return nil, err
	}

	records := slices.Clone(idx.Files[docPath])

	slices.SortStableFunc(records, func(a, b Record) int {
		switch {
		case a.CreatedAtMillis > b.CreatedAtMillis:
			return -1
		case a.CreatedAtMillis < b.CreatedAtMillis:
			return 1
		default:
			return 0
		}
	})

	if records == nil {
		records = []Record{}
	}

	return records, nil
}

// LoadSnapshot returns the content of one snapshot.
//
// Fails with FileNotFound if the document has no history, no record
// matches id, or the record's payload file is missing from disk —
// index/storage divergence is surfaced, not repaired. The returned
// modification time is the live document's current one if it still
// exists, else the snapshot's creation time.
func (s *Store) LoadSnapshot(docPath, id string) (editor.Document, error) {
	idx, err := s.loadIndex()
	if err != nil {
		return editor.Document{}, err
	}

	records, ok := idx.Files[docPath]
	if !ok {
		return editor.Document{}, apperr.New(apperr.FileNotFound, "no snapshots available for this document")
	}

	var record *Record

	for i := range records {
		if records[i].ID == id {
			record = &records[i]
			break
		}
	}

	if record == nil {
		return editor.Document{}, apperr.Newf(apperr.FileNotFound, "snapshot %s not found", id)
	}

	exists, err := s.fs.Exists(record.FilePath)
	if err != nil {
		return editor.Document{}, apperr.FromOS(err)
	}

	if !exists {
		return editor.Document{}, apperr.New(apperr.FileNotFound, "snapshot file is missing on disk")
	}

	content, err := editor.ReadTextFile(s.fs, record.FilePath)
	if err != nil {
		return editor.Document{}, err
	}

	mtime := record.CreatedAtMillis

	if live, err := s.fs.Exists(docPath); err == nil && live {
		liveMtime, err := editor.ModTimeMillis(s.fs, docPath)
		if err != nil {
			return editor.Document{}, err
		}

		mtime = liveMtime
	}

	return editor.Document{Path: docPath, Content: content, MtimeMillis: mtime}, nil
}

// snapshotDir maps a document path to its payload directory. The mapping
// must be stable across runs and versions so old snapshots stay findable,
// hence an explicit FNV-1a key rather than any runtime-seeded hash.
func (s *Store) snapshotDir(docPath string) string {
	return filepath.Join(s.paths.HistoryDir(), strconv.FormatUint(hashString(docPath), 16))
}

func (s *Store) loadIndex() (index, error) {
	idx := index{Files: map[string][]Record{}}

	exists, err := s.fs.Exists(s.paths.HistoryIndexPath())
	if err != nil {
		return index{}, apperr.FromOS(err)
	}

	if !exists {
		return idx, nil
	}

	raw, err := editor.ReadTextFile(s.fs, s.paths.HistoryIndexPath())
	if err != nil {
		return index{}, err
	}

	err = json.Unmarshal([]byte(raw), &idx)
	if err != nil {
		return index{}, apperr.Wrap(apperr.Io, "history index is corrupt", err)
	}

	if idx.Files == nil {
		idx.Files = map[string][]Record{}
	}

	return idx, nil
}

func (s *Store) saveIndex(idx index) error {
	serialized, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return apperr.Wrap(apperr.Io, "cannot serialize history index", err)
	}

	err = s.writer.Write(s.paths.HistoryIndexPath(), serialized)
	if err != nil {
		return apperr.FromOS(err)
	}

	return nil
}

// hashString is the store's content/path fingerprint: fast and stable,
// not a cryptographic integrity proof.
func hashString(value string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(value))

	return h.Sum64()
}
