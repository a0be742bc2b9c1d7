package acep

import (
	"bufio"
	"image"
	"image/png"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	acepimage "github.com/bodgit/acep/image"
	"github.com/bodgit/acep/index"
)

func readEntries(dir string) ([]index.Entry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name()
	}

	return index.ParseAll(names), nil
}

// writeFile writes to a hidden temporary file alongside file and only
// renames it into place once it is completely written and closed, so file
// is either the old content or the new, never part of it.
func writeFile(file string, write func(io.Writer) error) (err error) {
	f, err := ioutil.TempFile(filepath.Dir(file), ".acep-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	w := bufio.NewWriter(f)
	if err = write(w); err != nil {
		return err
	}
	if err = w.Flush(); err != nil {
		return err
	}
	if err = f.Chmod(0644); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}

	return os.Rename(f.Name(), file)
}

func writePayload(b []byte) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := w.Write(b)
		return err
	}
}

func writePreview(b []byte) func(io.Writer) error {
	return func(w io.Writer) error {
		m, err := acepimage.Unpack(b, acepimage.Width, acepimage.Height)
		if err != nil {
			return err
		}
		return png.Encode(w, m)
	}
}

// ReadFramebuffer decodes the framebuffer stored in file.
func ReadFramebuffer(file string) (*image.Paletted, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := acepimage.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, err
	}

	return m.(*image.Paletted), nil
}

// WritePNG writes m to file as a PNG image.
func WritePNG(file string, m image.Image) error {
	return writeFile(file, func(w io.Writer) error {
		return png.Encode(w, m)
	})
}
