// Package userlist keeps the flat record of usernames that have
// authenticated from this installation. The file is append-only; every
// successful login adds a row, duplicates included.
package userlist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"
)

type File struct {
	mu   sync.Mutex
	path string
}

func New(path string) *File { return &File{path: path} }

func (f *File) Append(username string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open user list: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	w := csv.NewWriter(file)
	if err := w.Write([]string{username}); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// List returns the recorded usernames in file order. A missing file is an
// empty list, not an error.
func (f *File) List() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open user list: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read user list: %w", err)
	}

	usernames := make([]string, 0, len(records))
	for _, record := range records {
		if len(record) == 0 {
			continue
		}
		if name := strings.TrimSpace(record[0]); name != "" {
			usernames = append(usernames, name)
		}
	}
	return usernames, nil
}

func (f *File) Contains(username string) (bool, error) {
	usernames, err := f.List()
	if err != nil {
		return false, err
	}
	for _, name := range usernames {
		if name == strings.TrimSpace(username) {
			return true, nil
		}
	}
	return false, nil
}
