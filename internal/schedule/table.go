package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Source opens the raw JSON of a table.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	// String identifies the source in logs and saved state.
	String() string
}

// HTTPSource reads a table from a URL.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build table request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("table request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("table request returned status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func (s HTTPSource) String() string { return s.URL }

// FileSource reads a table from disk.
type FileSource struct {
	Path string
}

func (s FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}
	return f, nil
}

func (s FileSource) String() string { return s.Path }

// Table reads a JSON array of 366 objects mapping prayer keys to "HH:MM".
// Its times are local standard time; the controller adds daylight saving.
type Table struct {
	Source Source
}

func (t *Table) IsDaylightSaved() bool { return false }

func (t *Table) Calendar(ctx context.Context) (Timings, error) {
	r, err := t.Source.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var rows []map[string]string
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: decode table: %v", ErrMalformedTimings, err)
	}

	out := make(Timings, len(rows))
	for i, row := range rows {
		day, err := parseDay(row)
		if err != nil {
			return nil, fmt.Errorf("day %d: %w", i+1, err)
		}
		out[i] = day
	}
	if err := Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *Table) State() any {
	return struct {
		Source string `json:"source"`
		From   string `json:"from"`
	}{"table", t.Source.String()}
}
