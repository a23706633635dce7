package fsutil

import (
	"errors"
	"fmt"
	"io"
	"os"
)

func copyToFile(destFilename string, perm os.FileMode, reader io.Reader,
	length uint64) error {
	tmpFilename := destFilename + "~"
	destFile, err := os.OpenFile(tmpFilename,
		os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	defer os.Remove(tmpFilename)
	defer destFile.Close()
	if err := copyToWriter(destFile, tmpFilename, reader, length); err != nil {
		return err
	}
	if err := destFile.Close(); err != nil {
		return err
	}
	return os.Rename(tmpFilename, destFilename)
}

func copyToWriter(writer io.Writer, filename string, reader io.Reader,
	length uint64) error {
	if length < 1 {
		if _, err := io.Copy(writer, reader); err != nil {
			return fmt.Errorf("error copying: %s", err)
		}
	} else {
		length := int64(length)
		if nCopied, err := io.CopyN(writer, reader, length); err != nil {
			return fmt.Errorf("error copying: %s", err)
		} else if nCopied != length {
			return fmt.Errorf("expected length: %d, got: %d for: %s",
				length, nCopied, filename)
		}
	}
	return nil
}

func copyFile(destFilename, sourceFilename string, mode os.FileMode,
	verify bool) (uint64, error) {
	sourceFile, err := os.Open(sourceFilename)
	if err != nil {
		return 0, errors.New(sourceFilename + ": " + err.Error())
	}
	defer sourceFile.Close()
	fi, err := sourceFile.Stat()
	if err != nil {
		return 0, errors.New(sourceFilename + ": " + err.Error())
	}
	if !fi.Mode().IsRegular() {
		return 0, errors.New(sourceFilename + ": not a regular file")
	}
	if mode == 0 {
		mode = fi.Mode().Perm()
	}
	sourceLength := uint64(fi.Size())
	if err := CopyToFile(destFilename, mode, sourceFile, 0); err != nil {
		return 0, err
	}
	if !verify {
		return sourceLength, nil
	}
	return verifyLength(destFilename, sourceLength)
}

func verifyLength(destFilename string, sourceLength uint64) (uint64, error) {
	if fi, err := os.Stat(destFilename); err != nil {
		return 0, err
	} else if destLength := uint64(fi.Size()); destLength != sourceLength {
		return destLength, fmt.Errorf("%w: %s: source: %d, copy: %d",
			ErrorLengthMismatch, destFilename, sourceLength, destLength)
	}
	return sourceLength, nil
}

func verifyLengthOf(destFilename, sourceFilename string) (uint64, error) {
	fi, err := os.Stat(sourceFilename)
	if err != nil {
		return 0, err
	}
	return verifyLength(destFilename, uint64(fi.Size()))
}
