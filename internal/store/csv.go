package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mbaumer/contactd/internal/contact"
)

var snapshotHeader = []string{"id", "name", "email", "phone"}

// readSnapshot loads contacts from a CSV file. The file is expected to
// start with the id,name,email,phone header row. A missing file yields an
// empty slice.
func readSnapshot(path string) ([]contact.Contact, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = len(snapshotHeader)

	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	var contacts []contact.Contact
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		contacts = append(contacts, contact.Contact{
			ID:    row[0],
			Name:  row[1],
			Email: row[2],
			Phone: row[3],
		})
	}
	return contacts, nil
}

// writeSnapshot rewrites the CSV file with the full contact list. The file
// is written to a temporary sibling first and renamed into place so a
// crash mid-write cannot truncate the snapshot.
func writeSnapshot(path string, contacts []contact.Contact) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	writer := csv.NewWriter(tmp)
	if err := writer.Write(snapshotHeader); err != nil {
		tmp.Close()
		return err
	}
	for _, c := range contacts {
		if err := writer.Write([]string{c.ID, c.Name, c.Email, c.Phone}); err != nil {
			tmp.Close()
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
