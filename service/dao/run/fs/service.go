package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"
	"github.com/viant/flow/runtime/execution"
	"github.com/viant/flow/service/dao"
	"github.com/viant/flow/service/dao/criteria"
)

// Service implements filesystem-backed storage of completed run records.
// Records are stored as one JSON document per run; the afs abstraction
// allows the base location to point at local disk, memory or cloud storage.
type Service struct {
	baseURL string
	fs      afs.Service
	mu      sync.RWMutex
}

var _ dao.Service[string, execution.Process] = (*Service)(nil)

// Save persists a run record
func (s *Service) Save(ctx context.Context, process *execution.Process) error {
	if process == nil {
		return dao.ErrNilEntity
	}
	if process.ID == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(process)
	if err != nil {
		return fmt.Errorf("failed to marshal run %s: %w", process.ID, err)
	}
	location := s.runLocation(process.ID)
	if err = s.fs.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save run to %s: %w", location, err)
	}
	return nil
}

// Load retrieves a run record
func (s *Service) Load(ctx context.Context, id string) (*execution.Process, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	location := s.runLocation(id)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to check run %s: %w", id, err)
	}
	if !exists {
		return nil, dao.ErrNotFound
	}
	data, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read run %s: %w", id, err)
	}
	process := &execution.Process{}
	if err = json.Unmarshal(data, process); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run %s: %w", id, err)
	}
	return process, nil
}

// Delete removes a run record
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	location := s.runLocation(id)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return fmt.Errorf("failed to check run %s: %w", id, err)
	}
	if !exists {
		return dao.ErrNotFound
	}
	if err = s.fs.Delete(ctx, location); err != nil {
		return fmt.Errorf("failed to delete run %s: %w", id, err)
	}
	return nil
}

// List returns all stored run records matching the supplied parameters
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*execution.Process, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, err := s.fs.List(ctx, s.baseURL, option.NewRecursive(true))
	if err != nil {
		return nil, fmt.Errorf("failed to list runs at %s: %w", s.baseURL, err)
	}

	var processes []*execution.Process
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			log.Printf("error reading run file %s: %v", object.URL(), err)
			continue
		}
		process := &execution.Process{}
		if err = json.Unmarshal(data, process); err != nil {
			log.Printf("error unmarshaling run from %s: %v", object.URL(), err)
			continue
		}
		if !criteria.FilterByState(process.GetState(), parameters) {
			continue
		}
		processes = append(processes, process)
	}
	return processes, nil
}

// runLocation returns the storage location for a run record
func (s *Service) runLocation(id string) string {
	return path.Join(s.baseURL, fmt.Sprintf("%s.json", id))
}

// New creates a filesystem run storage service rooted at baseURL.
func New(baseURL string) (*Service, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}
	fs := afs.New()
	ctx := context.Background()
	exists, _ := fs.Exists(ctx, baseURL)
	if !exists {
		if err := fs.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create base location: %w", err)
		}
	}
	baseURL = url.Normalize(baseURL, file.Scheme)
	return &Service{
		baseURL: baseURL,
		fs:      fs,
	}, nil
}
