package vfs

import (
	"github.com/pkg/errors"
)

func DirectoryGetFile(d Directory, name string) (File, error) {
	if f, err := d.GetElement(name); err != nil {
		return nil, errors.Wrapf(err, "Cannot open file '%s'", name)
	} else if f.IsDirectory() {
		return nil, errors.Errorf("File '%s' is directory, not a file!", name)
	} else {
		return f.(File), nil
	}
}
