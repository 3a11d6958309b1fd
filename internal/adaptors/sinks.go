package adaptors

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"

	domain "seo_crawler/internal/domain/adaptors"
	"seo_crawler/internal/domain/models"
	"seo_crawler/internal/pkg/errors"
)

// TSVHeader is the first line of every url-pair output file.
const TSVHeader = "source_url\tparsed_url\n"

// TSVSink appends one "source<TAB>final" line per result.
type TSVSink struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
}

// NewTSVSink writes the header to w and returns the sink.
func NewTSVSink(w io.Writer) (*TSVSink, error) {
	if _, err := io.WriteString(w, TSVHeader); err != nil {
		return nil, errors.Wrap(err, `failed to write output header`)
	}
	s := &TSVSink{w: w}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	return s, nil
}

// CreateTSVFile truncates path and starts a url-pair file there.
func CreateTSVFile(path string) (*TSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, `failed to create output file`)
	}
	s, err := NewTSVSink(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

func (s *TSVSink) Write(result *models.CrawlResult) error {
	// tabs or newlines inside a url would break the row format
	row := clean(result.SourceURL) + "\t" + clean(result.FinalURL) + "\n"

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.w, row); err != nil {
		return errors.Wrap(err, `failed to write output row`)
	}
	return nil
}

func (s *TSVSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

var rowReplacer = strings.NewReplacer("\t", "%09", "\r", "%0D", "\n", "%0A")

func clean(field string) string {
	return rowReplacer.Replace(field)
}

// JSONLinesSink appends one JSON encoded CrawlResult per line.
type JSONLinesSink struct {
	mu     sync.Mutex
	enc    *json.Encoder
	closer io.Closer
}

func NewJSONLinesSink(w io.Writer) *JSONLinesSink {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	s := &JSONLinesSink{enc: enc}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	return s
}

func CreateJSONLinesFile(path string) (*JSONLinesSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, `failed to create records file`)
	}
	return NewJSONLinesSink(f), nil
}

func (s *JSONLinesSink) Write(result *models.CrawlResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(result); err != nil {
		return errors.Wrap(err, `failed to write record`)
	}
	return nil
}

func (s *JSONLinesSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// MultiSink writes every result to each sink in order, stopping at the first
// error.
type MultiSink []domain.Sink

func (m MultiSink) Write(result *models.CrawlResult) error {
	for _, s := range m {
		if err := s.Write(result); err != nil {
			return err
		}
	}
	return nil
}

// MemorySink keeps results in completion order.
type MemorySink struct {
	mu      sync.Mutex
	results []*models.CrawlResult
}

func (m *MemorySink) Write(result *models.CrawlResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, result)
	return nil
}

func (m *MemorySink) Results() []*models.CrawlResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.CrawlResult, len(m.results))
	copy(out, m.results)
	return out
}
