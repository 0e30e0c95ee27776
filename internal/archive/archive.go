// Package archive packs and unpacks gzip-compressed tarballs.
package archive

import (
	"archive/tar"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/sideko-inc/sideko/pkg/constants"
	"github.com/sideko-inc/sideko/pkg/errors"
)

// TarGz writes the contents of srcDir to a new gzip tarball at dest. Entry
// names are relative to srcDir, so srcDir itself is not part of the archive.
func TarGz(srcDir, dest string) error {
	info, err := os.Stat(srcDir)
	if err != nil {
		return errors.WrapIO("stat", srcDir, err)
	}
	if !info.IsDir() {
		return errors.NewValidationError("path", srcDir, "not a directory")
	}

	f, err := os.Create(dest)
	if err != nil {
		return errors.WrapIO("create", dest, err)
	}
	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	walkErr := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil || rel == "." {
			return err
		}
		return addEntry(tw, path, filepath.ToSlash(rel), d)
	})

	// tar footer, then gzip trailer, then the file
	closeErrs := []error{
		wrapClose("close tar", dest, tw.Close),
		wrapClose("close gzip", dest, gz.Close),
		wrapClose("close", dest, f.Close),
	}
	if walkErr != nil {
		_ = os.Remove(dest)
		return errors.WrapIO("archive", srcDir, walkErr)
	}
	for _, e := range closeErrs {
		if e != nil {
			_ = os.Remove(dest)
			return e
		}
	}
	return nil
}

func wrapClose(op, path string, fn func() error) error {
	if err := fn(); err != nil {
		return errors.WrapIO(op, path, err)
	}
	return nil
}

func addEntry(tw *tar.Writer, path, name string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}

	var link string
	if info.Mode()&fs.ModeSymlink != 0 {
		if link, err = os.Readlink(path); err != nil {
			return err
		}
	}
	hdr, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return err
	}
	hdr.Name = name
	if info.IsDir() {
		hdr.Name += "/"
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return nil
	}

	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = io.Copy(tw, src)
	return err
}

// ExtractTarGz unpacks a gzip tarball read from r into destDir. Entries that
// would land outside destDir are rejected.
func ExtractTarGz(r io.Reader, destDir string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return errors.NewParseError("tar.gz", destDir, "invalid gzip stream", err)
	}
	defer gz.Close()

	root, err := filepath.Abs(destDir)
	if err != nil {
		return errors.WrapIO("resolve", destDir, err)
	}
	if err := os.MkdirAll(root, constants.DirPermissions); err != nil {
		return errors.WrapIO("mkdir", root, err)
	}

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.NewParseError("tar.gz", destDir, "invalid tar stream", err)
		}

		target, err := entryPath(root, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, constants.DirPermissions); err != nil {
				return errors.WrapIO("mkdir", target, err)
			}
		case tar.TypeReg:
			if err := writeFile(target, tr, hdr.FileInfo().Mode().Perm()); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if _, err := entryPath(root, filepath.Join(filepath.Dir(hdr.Name), hdr.Linkname)); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(target), constants.DirPermissions); err != nil {
				return errors.WrapIO("mkdir", filepath.Dir(target), err)
			}
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return errors.WrapIO("symlink", target, err)
			}
		}
	}
}

func entryPath(root, name string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(name))
	if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return "", errors.NewValidationError("entry", name, "archive entry escapes destination")
	}
	return target, nil
}

func writeFile(path string, r io.Reader, perm fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("mkdir", filepath.Dir(path), err)
	}
	if perm == 0 {
		perm = constants.FilePermissions
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return errors.WrapIO("write", path, err)
	}
	if err := f.Close(); err != nil {
		return errors.WrapIO("close", path, err)
	}
	return nil
}
