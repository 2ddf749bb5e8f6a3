package sink

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/teranos/paddock/errors"
	"github.com/teranos/paddock/recordset"
)

// CSV writes each table to <dir>/<name>.csv with a header row and no index
// column. Files are written to a temporary name and renamed into place.
type CSV struct {
	dir   string
	comma rune
}

// NewCSV creates a CSV sink rooted at dir. The directory is created on first write.
func NewCSV(dir string) *CSV {
	return &CSV{dir: dir, comma: ','}
}

// WithDelimiter sets a single-character field delimiter.
func (c *CSV) WithDelimiter(delim string) (*CSV, error) {
	runes := []rune(delim)
	if len(runes) != 1 {
		return nil, errors.New("csv delimiter must be a single character")
	}
	out := *c
	out.comma = runes[0]
	return &out, nil
}

func (c *CSV) Target(name string) string {
	return filepath.Join(c.dir, name+".csv")
}

func (c *CSV) Write(ctx context.Context, name string, table *recordset.Set) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return errors.Wrapf(err, "create output directory %s", c.dir)
	}

	tmp, err := os.CreateTemp(c.dir, "."+name+"-*.tmp")
	if err != nil {
		return errors.Wrap(err, "failed to create CSV file")
	}
	defer os.Remove(tmp.Name())

	if err := c.encode(tmp, table); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "write %s", name)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", tmp.Name())
	}
	if err := os.Rename(tmp.Name(), c.Target(name)); err != nil {
		return errors.Wrapf(err, "move %s into place", name)
	}
	return nil
}

func (c *CSV) encode(f *os.File, table *recordset.Set) error {
	w := csv.NewWriter(f)
	w.Comma = c.comma

	columns := table.Columns()
	if err := w.Write(columns); err != nil {
		return errors.Wrap(err, "failed to write headers")
	}

	record := make([]string, len(columns))
	for _, row := range table.Rows() {
		for i, col := range columns {
			record[i] = recordset.Format(row[col])
		}
		if err := w.Write(record); err != nil {
			return errors.Wrap(err, "failed to write row")
		}
	}

	w.Flush()
	return w.Error()
}
