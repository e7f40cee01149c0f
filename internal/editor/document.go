package editor

import (
	"time"

	"github.com/pedroaldea/md-editor/internal/apperr"
)

// Document is an opened document: its content plus the modification time
// the caller must hand back on the next conflict-checked save.
type Document struct {
	Path        string
	Content     string
	MtimeMillis int64
}

// SaveResult reports a completed save.
type SaveResult struct {
	Path          string
	MtimeMillis   int64
	SavedAtMillis int64
}

// Open reads the document at path as UTF-8 text.
func (e *Editor) Open(path string) (Document, error) {
	exists, err := e.fs.Exists(path)
	if err != nil {
		return Document{}, apperr.FromOS(err)
	}

	if !exists {
		e.log.Log("open_document_failed", "file not found")
		return Document{}, apperr.New(apperr.FileNotFound, "document does not exist")
	}

	content, err := ReadTextFile(e.fs, path)
	if err != nil {
		return Document{}, err
	}

	mtime, err := ModTimeMillis(e.fs, path)
	if err != nil {
		return Document{}, err
	}

	e.log.Log("open_document", path)

	return Document{Path: path, Content: content, MtimeMillis: mtime}, nil
}

// Save overwrites an existing document, optionally guarded by optimistic
// concurrency.
//
// If expectedMtimeMillis is non-nil it must exactly equal the file's
// current modification time; a mismatch fails with Conflict and performs
// no write. The caller must have obtained the expected value from a prior
// Open or Save of the same path. Two edits inside the filesystem's
// timestamp granularity are not distinguished.
//
// Saving a path that no longer exists fails with FileNotFound; use
// [Editor.SaveAs] to create files.
func (e *Editor) Save(path, content string, expectedMtimeMillis *int64) (SaveResult, error) {
	exists, err := e.fs.Exists(path)
	if err != nil {
		return SaveResult{}, apperr.FromOS(err)
	}

	if !exists {
		e.log.Log("save_document_failed", "file not found")
		return SaveResult{}, apperr.New(apperr.FileNotFound, "cannot save because file no longer exists")
	}

	if expectedMtimeMillis != nil {
		current, err := ModTimeMillis(e.fs, path)
		if err != nil {
			return SaveResult{}, err
		}

		if current != *expectedMtimeMillis {
			e.log.Log("save_document_failed", "mtime conflict")
			return SaveResult{}, apperr.New(apperr.Conflict,
				"file changed on disk. Reopen or Save As to avoid overwriting")
		}
	}

	result, err := e.writeDocument(path, content)
	if err != nil {
		return SaveResult{}, err
	}

	e.log.Log("save_document", path)

	return result, nil
}

// SaveAs writes content to path unconditionally, creating the file and
// any missing parent directories.
func (e *Editor) SaveAs(path, content string) (SaveResult, error) {
	result, err := e.writeDocument(path, content)
	if err != nil {
		return SaveResult{}, err
	}

	e.log.Log("save_as_document", path)

	return result, nil
}

func (e *Editor) writeDocument(path, content string) (SaveResult, error) {
	err := e.writer.Write(path, []byte(content))
	if err != nil {
		return SaveResult{}, apperr.FromOS(err)
	}

	mtime, err := ModTimeMillis(e.fs, path)
	if err != nil {
		return SaveResult{}, err
	}

	return SaveResult{
		Path:          path,
		MtimeMillis:   mtime,
		SavedAtMillis: time.Now().UnixMilli(),
	}, nil
}
