// Package meta loads definition documents from arbitrary storage locations.
package meta

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// Service resolves and loads metadata documents. Relative URLs are joined
// with the configured base location; absolute URLs are used as is. Loaded
// content has ${env.KEY} expressions expanded before decoding.
type Service struct {
	fs        afs.Service
	baseURL   string
	fsOptions []storage.Option
}

// Load downloads the document at URL and decodes it into target,
// which is either a *yaml.Node or any yaml-unmarshalable value.
func (s *Service) Load(ctx context.Context, URL string, target interface{}) error {
	location := s.resolve(URL)
	data, err := s.fs.DownloadWithURL(ctx, location, s.fsOptions...)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", location, err)
	}
	expanded := expandEnvExpr(string(data))
	if err = yaml.Unmarshal([]byte(expanded), target); err != nil {
		return fmt.Errorf("failed to decode %s: %w", location, err)
	}
	return nil
}

// Exists checks whether a document is present at URL.
func (s *Service) Exists(ctx context.Context, URL string) (bool, error) {
	return s.fs.Exists(ctx, s.resolve(URL), s.fsOptions...)
}

func (s *Service) resolve(URL string) string {
	if s.baseURL == "" || !url.IsRelative(URL) {
		return URL
	}
	return url.Join(s.baseURL, URL)
}

// New creates a metadata service backed by the supplied afs service.
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	return &Service{fs: fs, baseURL: baseURL, fsOptions: options}
}
