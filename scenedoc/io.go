package scenedoc

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatOf picks the encoding from a file extension.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	}
	return FormatJSON, false
}

func Decode(r io.Reader, format Format) (*Document, error) {
	var d Document
	var err error
	switch format {
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&d)
	default:
		err = json.NewDecoder(r).Decode(&d)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to decode scene document")
	}
	return &d, nil
}

func (d *Document) Encode(w io.Writer, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(d); err != nil {
			return errors.Wrapf(err, "Failed to encode yaml")
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrapf(enc.Encode(d), "Failed to encode json")
	}
}

func Load(path string) (*Document, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, errors.Errorf("%q is not a json or yaml scene document", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open %q", path)
	}
	defer f.Close()
	d, err := Decode(f, format)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to load %q", path)
	}
	return d, nil
}

func (d *Document) Save(path string) error {
	format, ok := FormatOf(path)
	if !ok {
		return errors.Errorf("%q is not a json or yaml scene document", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0777); err != nil {
		return errors.Wrapf(err, "Failed to create directory for %q", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "Failed to create %q", path)
	}
	defer f.Close()
	if err := d.Encode(f, format); err != nil {
		return err
	}
	return f.Close()
}
