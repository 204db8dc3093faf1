/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package storage persists screenplay documents on disk and maintains a
// derived per-directory SQLite index. The document file is the canonical
// store; everything under .swr/ can be rebuilt from it.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"screenwright/internal/script"
)

const (
	// DocumentExt is the native file extension.
	DocumentExt = ".screenplay"

	// IndexDirName stores per-directory ephemeral data (index, backups)
	// alongside the documents it is derived from.
	IndexDirName   = ".swr"
	BackupsDirName = "backups"
)

// State is the editor state held inside the document envelope. The element
// sequence and the title-page metadata serialize side by side.
type State struct {
	ScriptElements []script.Element `json:"scriptElements"`
	script.Metadata
}

// Document is the on-disk envelope. ID is assigned on first save and stays
// stable across saves so external tooling can track a document through
// renames.
type Document struct {
	ID    string `json:"id,omitempty"`
	State State  `json:"state"`
}

// DocumentHandle tracks a document loaded from or saved to disk.
type DocumentHandle struct {
	Path     string
	Document Document
}

// Script converts the stored state back into the conversion model.
func (d Document) Script() script.Script {
	return script.Script{Elements: d.State.ScriptElements, Meta: d.State.Metadata}
}

// FromScript wraps a script in a fresh envelope.
func FromScript(s script.Script) Document {
	return Document{State: State{ScriptElements: s.Elements, Metadata: s.Meta}}
}

// Open loads a document from path. If the file cannot be read or parsed it
// falls back to the latest timestamped backup next to it.
func Open(path string) (*DocumentHandle, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		doc, berr := openFromLatestBackup(path)
		if berr != nil {
			return nil, fmt.Errorf("open document: %w; backup attempt: %v", err, berr)
		}
		return &DocumentHandle{Path: path, Document: *doc}, nil
	}
	doc, err := decodeDocument(b)
	if err != nil {
		bdoc, berr := openFromLatestBackup(path)
		if berr != nil {
			return nil, fmt.Errorf("parse document: %w; backup attempt: %v", err, berr)
		}
		return &DocumentHandle{Path: path, Document: *bdoc}, nil
	}
	return &DocumentHandle{Path: path, Document: *doc}, nil
}

// decodeDocument validates the envelope against the embedded schema before
// unmarshalling, then coerces unknown element types to action.
func decodeDocument(data []byte) (*Document, error) {
	if err := ValidateEnvelope(data); err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	for i, el := range doc.State.ScriptElements {
		doc.State.ScriptElements[i], _ = script.Coerce(el)
	}
	return &doc, nil
}

// Save writes the document with transactional semantics: the previous file is
// copied to a timestamped backup, the new content goes to a temp file in the
// same directory, is fsynced, and renamed over the target.
func Save(dh *DocumentHandle) error {
	if dh == nil {
		return errors.New("nil DocumentHandle")
	}
	if strings.TrimSpace(dh.Path) == "" {
		return errors.New("invalid DocumentHandle: missing path")
	}
	if dh.Document.ID == "" {
		dh.Document.ID = uuid.NewString()
	}
	data, err := json.MarshalIndent(dh.Document, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(dh.Path)
	bdir := filepath.Join(dir, IndexDirName, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return fmt.Errorf("ensure backups dir: %w", err)
	}

	if _, statErr := os.Stat(dh.Path); statErr == nil {
		stamp := time.Now().Format("20060102-150405")
		bname := fmt.Sprintf("%s.%s.bak", filepath.Base(dh.Path), stamp)
		if cerr := copyFile(dh.Path, filepath.Join(bdir, bname)); cerr != nil {
			return fmt.Errorf("backup current document: %w", cerr)
		}
	}

	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(dh.Path), os.Getpid(), rand.Int()))
	if werr := writeFileSync(temp, data); werr != nil {
		return fmt.Errorf("write temp document: %w", werr)
	}
	// On Windows, replace by removing destination first if needed
	if _, err := os.Stat(dh.Path); err == nil {
		_ = os.Remove(dh.Path)
	}
	if rerr := os.Rename(temp, dh.Path); rerr != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace document: %w", rerr)
	}
	return nil
}

// writeFileSync writes data to a file and flushes it to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	return nil
}

// copyFile copies a file from src to dst, overwriting dst if it exists.
func copyFile(src, dst string) (err error) {
	sf, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sf.Close(); err == nil {
			err = cerr
		}
	}()
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	df, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := df.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := io.Copy(df, sf); err != nil {
		return err
	}
	if err := df.Sync(); err != nil {
		return err
	}
	return nil
}

// openFromLatestBackup tries the newest timestamped backup of the document.
func openFromLatestBackup(path string) (*Document, error) {
	bdir := filepath.Join(filepath.Dir(path), IndexDirName, BackupsDirName)
	ents, err := os.ReadDir(bdir)
	if err != nil {
		return nil, fmt.Errorf("read backups dir: %w", err)
	}
	base := filepath.Base(path)
	var candidates []string
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, base+".") && strings.HasSuffix(name, ".bak") {
			candidates = append(candidates, filepath.Join(bdir, name))
		}
	}
	if len(candidates) == 0 {
		return nil, errors.New("no backups found")
	}
	sort.Strings(candidates) // timestamp in name yields lexicographic order
	latest := candidates[len(candidates)-1]
	b, err := os.ReadFile(latest)
	if err != nil {
		return nil, fmt.Errorf("read latest backup: %w", err)
	}
	doc, err := decodeDocument(b)
	if err != nil {
		return nil, fmt.Errorf("parse latest backup: %w", err)
	}
	return doc, nil
}
