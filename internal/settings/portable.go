package settings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/btcsuite/btcutil/base58"

	"github.com/inovacc/gistvault/internal/encoding"
	"github.com/inovacc/gistvault/internal/model"
	"github.com/inovacc/gistvault/internal/securestore"
)

// ExportFile is the default name of an exported settings file.
const ExportFile = "gist-settings.json"

var sealedAAD = []byte("gistvault-export")

// Portable returns the pointers that export writes.
func (s *Service) Portable() (model.Portable, error) {
	var (
		p   model.Portable
		err error
	)

	if p.GistID, err = s.LastDocumentID(); err != nil {
		return p, err
	}

	if p.SettingsGistID, err = s.SettingsID(); err != nil {
		return p, err
	}

	return p, nil
}

// Export writes the pointers as indented JSON. Credentials are never part
// of an export.
func (s *Service) Export(w io.Writer) error {
	p, err := s.Portable()
	if err != nil {
		return err
	}

	b, err := encoding.ToJSONIndent(p)
	if err != nil {
		return fmt.Errorf("failed to encode export: %w", err)
	}

	if _, err := w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	return nil
}

// Import reads an exported file and restores every non-empty pointer in it.
func (s *Service) Import(r io.Reader) (model.Portable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return model.Portable{}, fmt.Errorf("failed to read import: %w", err)
	}

	return s.restore(data, "import")
}

// ExportSealed writes the export encrypted with passphrase and armored in
// base58 so it can be pasted anywhere.
func (s *Service) ExportSealed(w io.Writer, passphrase string) error {
	var buf bytes.Buffer
	if err := s.Export(&buf); err != nil {
		return err
	}

	blob, err := securestore.Encrypt(buf.Bytes(), passphrase, sealedAAD)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, base58.Encode(blob)); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	return nil
}

// ImportSealed reverses ExportSealed. A wrong passphrase returns
// securestore.ErrDecrypt.
func (s *Service) ImportSealed(r io.Reader, passphrase string) (model.Portable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return model.Portable{}, fmt.Errorf("failed to read import: %w", err)
	}

	blob := base58.Decode(string(bytes.TrimSpace(data)))
	if len(blob) == 0 {
		return model.Portable{}, &ParseError{Source: "sealed import", Err: errors.New("not base58 data")}
	}

	plain, err := securestore.Decrypt(blob, passphrase, sealedAAD)
	if err != nil {
		return model.Portable{}, err
	}

	return s.restore(plain, "sealed import")
}

func (s *Service) restore(data []byte, source string) (model.Portable, error) {
	var p model.Portable
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Portable{}, &ParseError{Source: source, Err: err}
	}

	if p.GistID != "" {
		if err := s.SetLastDocumentID(p.GistID); err != nil {
			return p, err
		}
	}

	if p.SettingsGistID != "" {
		if err := s.SetSettingsID(p.SettingsGistID); err != nil {
			return p, err
		}
	}

	return p, nil
}
