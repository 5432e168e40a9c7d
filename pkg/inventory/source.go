package inventory

import (
	"context"
	"os"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/ansync/internal/transport"
	"github.com/agentstation/ansync/pkg/ans"
	"github.com/agentstation/ansync/pkg/errors"
	"github.com/agentstation/ansync/pkg/logging"
)

// Source supplies the desired registry content of a chain.
type Source interface {
	Desired(ctx context.Context) (*ans.Data, error)
}

// PathSource reads a chain's inventory from a file or a directory.
type PathSource struct {
	Path    string // inventory file, or directory searched with LoadChain
	ChainID string
}

// NewPathSource returns a Source reading chainID's inventory from path.
func NewPathSource(path, chainID string) *PathSource {
	return &PathSource{Path: path, ChainID: chainID}
}

// Desired implements Source.
func (s *PathSource) Desired(ctx context.Context) (*ans.Data, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(s.Path)
	if err != nil {
		return nil, errors.WrapIO("stat", s.Path, err)
	}
	if info.IsDir() {
		return LoadChain(s.Path, s.ChainID)
	}

	d, err := Load(s.Path)
	if err != nil {
		return nil, err
	}
	return withChainID(d, s.ChainID, s.Path)
}

// RemoteSource fetches the scraper output files published under BaseURL,
// for example a raw git hosting URL of the scraper's out/ directory.
type RemoteSource struct {
	BaseURL string
	ChainID string
	Client  *transport.Client
}

// NewRemoteSource returns a Source fetching chainID's inventory from baseURL.
func NewRemoteSource(client *transport.Client, baseURL, chainID string) *RemoteSource {
	if client == nil {
		client = transport.New()
	}
	return &RemoteSource{BaseURL: strings.TrimRight(baseURL, "/"), ChainID: chainID, Client: client}
}

// Desired implements Source. The files are fetched concurrently. A file
// that is not published leaves its sections out of Data.Supplied, so they
// are not reconciled.
func (s *RemoteSource) Desired(ctx context.Context) (*ans.Data, error) {
	var (
		mu   sync.Mutex
		docs = make(map[string]scrapeDoc, len(ScrapeFiles))
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range ScrapeFiles {
		g.Go(func() error {
			url := s.BaseURL + "/" + name
			var doc scrapeDoc
			if err := s.Client.GetJSON(ctx, url, &doc); err != nil {
				if errors.IsNotFound(err) {
					logging.Ctx(ctx).Warn().Str("url", url).Msg("Scrape file not published, its sections are skipped")
					return nil
				}
				return errors.WrapResource("fetch", "inventory", url, err)
			}
			mu.Lock()
			docs[name] = doc
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scrapeData(docs, s.ChainID)
}
