package adaptors

import (
	"bufio"
	"context"
	"os"

	"seo_crawler/internal/domain/models"
	"seo_crawler/internal/pkg/errors"
)

// URLFile reads candidate URLs from a text file, one per line.
type URLFile struct {
	Path string
}

func (f URLFile) URLs(_ context.Context) (models.URLSet, error) {
	return ReadURLFile(f.Path)
}

// ReadURLFile returns the trimmed, non-blank, distinct lines of path.
func ReadURLFile(path string) (models.URLSet, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, `failed to open url file`)
	}
	defer file.Close()

	urls := models.URLSet{}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		urls.Add(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, `failed to read url file`)
	}

	return urls, nil
}
