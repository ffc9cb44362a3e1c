// Package seed bulk-loads the article catalog from a JSON array, read either
// from a local file or from an object in the MinIO bucket.
package seed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/supermercado/api-supermercado/internal/articulo"
	"github.com/supermercado/api-supermercado/internal/articulo/service"
	"github.com/supermercado/api-supermercado/internal/config"
	"github.com/supermercado/api-supermercado/pkg/logger"
)

var ErrNoSource = errors.New("seed: neither SEED_FILE nor SEED_OBJECT is set")

// ObjectSource is satisfied by *storage.MinIOStorage.
type ObjectSource interface {
	DownloadFile(ctx context.Context, key string) (io.ReadCloser, error)
}

// Parse decodes a JSON array of articles. Each element follows the same
// rules as a create request body.
func Parse(r io.Reader) ([]*articulo.Articulo, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("seed: read: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("seed: empty input")
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("seed: expected a JSON array of articles: %w", err)
	}
	items := make([]*articulo.Articulo, 0, len(raw))
	for i, msg := range raw {
		var a articulo.Articulo
		if err := json.Unmarshal(msg, &a); err != nil {
			return nil, fmt.Errorf("seed: element %d: %w", i, err)
		}
		items = append(items, &a)
	}
	return items, nil
}

// Open returns the configured catalog source. A local file wins over an
// object key when both are set.
func Open(ctx context.Context, cfg config.SeedConfig, objects ObjectSource) (io.ReadCloser, string, error) {
	switch {
	case cfg.File != "":
		f, err := os.Open(cfg.File)
		if err != nil {
			return nil, "", fmt.Errorf("seed: %w", err)
		}
		return f, cfg.File, nil
	case cfg.Object != "":
		if objects == nil {
			return nil, "", fmt.Errorf("seed: SEED_OBJECT=%s requires MinIO to be configured", cfg.Object)
		}
		rc, err := objects.DownloadFile(ctx, cfg.Object)
		if err != nil {
			return nil, "", fmt.Errorf("seed: %w", err)
		}
		return rc, "minio:" + cfg.Object, nil
	default:
		return nil, "", ErrNoSource
	}
}

// Run reads the configured source and imports every article into svc.
// Nothing is written when the source fails to parse.
func Run(ctx context.Context, svc service.Service, cfg config.SeedConfig, objects ObjectSource) (int, error) {
	rc, name, err := Open(ctx, cfg, objects)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	items, err := Parse(rc)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	logger.Infof("seed: %d articles read from %s (drop=%v)", len(items), name, cfg.Drop)
	if len(items) == 0 && !cfg.Drop {
		return 0, nil
	}
	n, err := svc.Import(ctx, items, cfg.Drop)
	if err != nil {
		return n, fmt.Errorf("seed: import: %w", err)
	}
	return n, nil
}
