package editor

import (
	"path/filepath"
	"strings"

	"github.com/pedroaldea/md-editor/internal/apperr"
)

// LoadRecoveryDraft returns the crash-recovery draft, if one exists.
// A missing or empty draft file yields ("", false, nil).
func (e *Editor) LoadRecoveryDraft() (string, bool, error) {
	path := e.paths.RecoveryDraftPath()

	exists, err := e.fs.Exists(path)
	if err != nil {
		return "", false, apperr.FromOS(err)
	}

	if !exists {
		return "", false, nil
	}

	content, err := ReadTextFile(e.fs, path)
	if err != nil {
		return "", false, err
	}

	e.log.Log("load_recovery_draft", path)

	if content == "" {
		return "", false, nil
	}

	return content, true, nil
}

// StoreRecoveryDraft persists content as the crash-recovery draft.
// Blank content (empty or whitespace-only) clears any existing draft
// instead of writing one.
func (e *Editor) StoreRecoveryDraft(content string) error {
	path := e.paths.RecoveryDraftPath()

	if strings.TrimSpace(content) == "" {
		exists, err := e.fs.Exists(path)
		if err != nil {
			return apperr.FromOS(err)
		}

		if exists {
			if err := e.fs.Remove(path); err != nil {
				return apperr.FromOS(err)
			}
		}

		e.log.Log("store_recovery_draft", "clear")

		return nil
	}

	// The draft is whole-file scratch state with no temp-name contract of
	// its own, so it takes the plain atomic-replace path rather than
	// [fs.AtomicWriter].
	if err := e.fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperr.FromOS(err)
	}

	if err := e.fs.WriteFileAtomic(path, []byte(content)); err != nil {
		return apperr.FromOS(err)
	}

	e.log.Log("store_recovery_draft", "write")

	return nil
}
