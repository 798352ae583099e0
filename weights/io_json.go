package weights

import (
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"
)

// File is the JSON form of a raw weight list.
type File struct {
	Weights []float64 `json:"weights"`
}

// LoadJSON reads a raw weight list. The count is checked by Pack.
func LoadJSON(r io.Reader) ([]float64, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(err, "decode weights")
	}
	return f.Weights, nil
}

// LoadFile reads, packs and unpacks a JSON weight file.
func LoadFile(path string) (*Table, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open weights")
	}
	defer fh.Close()
	raw, err := LoadJSON(fh)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	t, err := FromRaw(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return t, nil
}

// SaveJSON writes a raw weight list.
func SaveJSON(w io.Writer, raw []float64) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(File{Weights: raw}), "encode weights")
}
