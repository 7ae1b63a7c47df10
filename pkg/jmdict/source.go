package jmdict

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

type gzipSource struct {
	io.Reader
	gz   *gzip.Reader
	file *os.File
}

func (s *gzipSource) Close() error {
	gzErr := s.gz.Close()
	if err := s.file.Close(); err != nil {
		return err
	}
	return gzErr
}

type fileSource struct {
	io.Reader
	file *os.File
}

func (s *fileSource) Close() error {
	return s.file.Close()
}

// Open opens a lexicon file for streaming, transparently decompressing
// when the path ends in .gz.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("jmdict: open %s: %w", path, err)
	}

	br := bufio.NewReaderSize(f, 1<<20)
	if !strings.HasSuffix(path, ".gz") {
		return &fileSource{Reader: br, file: f}, nil
	}

	gz, err := gzip.NewReader(br)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("jmdict: gzip %s: %w", path, err)
	}
	return &gzipSource{Reader: gz, gz: gz, file: f}, nil
}
