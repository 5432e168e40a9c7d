// Package lcd reads an ANS host contract through a Cosmos SDK LCD (REST)
// endpoint using CosmWasm smart queries.
//
// The registry is read-only: Submit fails with errors.ErrReadOnly. Signed
// transactions are produced by an external signer from the messages written
// by registry.Exporter.
package lcd

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/ansync/internal/transport"
	"github.com/agentstation/ansync/pkg/ans"
	"github.com/agentstation/ansync/pkg/errors"
	"github.com/agentstation/ansync/pkg/logging"
	"github.com/agentstation/ansync/pkg/registry"
)

// Registry is a read-only registry.Registry backed by an LCD endpoint.
type Registry struct {
	client   *transport.Client
	baseURL  string
	contract string
	chainID  string
	pageSize int
}

// Option configures a Registry.
type Option func(*Registry)

// WithClient sets the transport client used for queries.
func WithClient(c *transport.Client) Option {
	return func(r *Registry) {
		if c != nil {
			r.client = c
		}
	}
}

// WithPageSize sets the page size requested from the contract.
func WithPageSize(n int) Option {
	return func(r *Registry) {
		r.pageSize = registry.PageLimit(n)
	}
}

// New returns a Registry querying the ANS host at contract through lcdURL.
func New(chainID, lcdURL, contract string, opts ...Option) *Registry {
	r := &Registry{
		client:   transport.New(),
		baseURL:  strings.TrimRight(lcdURL, "/"),
		contract: contract,
		chainID:  chainID,
		pageSize: registry.PageLimit(0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ registry.Registry = (*Registry)(nil)

// Submit implements registry.Submitter. The LCD registry cannot sign
// transactions.
func (r *Registry) Submit(context.Context, registry.ExecuteMsg) error {
	return fmt.Errorf("lcd registry %s on %s: %w", r.contract, r.chainID, errors.ErrReadOnly)
}

// Snapshot implements registry.Reader. Sections are read concurrently.
func (r *Registry) Snapshot(ctx context.Context) (*ans.Data, error) {
	ctx = logging.WithChain(ctx, r.chainID)

	var (
		assets    []registry.Pair[string, ans.AssetInfo]
		contracts []registry.Pair[ans.ContractEntry, string]
		channels  []registry.Pair[ans.ChannelEntry, string]
		dexes     []string
		pools     map[ans.PoolAddress]poolRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		assets, err = registry.Collect(registry.Pages(gctx, r.pageSize,
			list[string, string, ans.AssetInfo](r, "asset_list", "assets"), pairKey[string, ans.AssetInfo]))
		return wrapSection(ans.SectionAssets, err)
	})
	g.Go(func() (err error) {
		contracts, err = registry.Collect(registry.Pages(gctx, r.pageSize,
			list[ans.ContractEntry, ans.ContractEntry, string](r, "contract_list", "contracts"), pairKey[ans.ContractEntry, string]))
		return wrapSection(ans.SectionContracts, err)
	})
	g.Go(func() (err error) {
		channels, err = registry.Collect(registry.Pages(gctx, r.pageSize,
			list[ans.ChannelEntry, ans.ChannelEntry, string](r, "channel_list", "channels"), pairKey[ans.ChannelEntry, string]))
		return wrapSection(ans.SectionChannels, err)
	})
	g.Go(func() (err error) {
		dexes, err = r.registeredDexes(gctx)
		return wrapSection(ans.SectionDexes, err)
	})
	g.Go(func() (err error) {
		pools, err = r.pools(gctx)
		return wrapSection(ans.SectionPools, err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := ans.NewData(r.chainID)
	for _, p := range assets {
		d.Assets[p.Key] = p.Value
	}
	for _, p := range contracts {
		d.Contracts[p.Key] = p.Value
	}
	for _, p := range channels {
		d.Channels[p.Key] = p.Value
	}
	for _, name := range dexes {
		d.Dexes[name] = struct{}{}
	}
	for addr, rec := range pools {
		d.Pools[addr] = rec.meta
		d.PoolIDs[addr] = rec.id
	}

	logging.Ctx(ctx).Debug().
		Int("assets", len(d.Assets)).
		Int("contracts", len(d.Contracts)).
		Int("channels", len(d.Channels)).
		Int("dexes", len(d.Dexes)).
		Int("pools", len(d.Pools)).
		Msg("Read registry snapshot")
	return d, nil
}

func wrapSection(s ans.Section, err error) error {
	if err == nil {
		return nil
	}
	return errors.WrapResource("query", "registry section", s.String(), err)
}

func pairKey[K, V any](p registry.Pair[K, V]) K {
	return p.Key
}

// listQuery is the argument of the paginated ANS host list queries.
type listQuery[C any] struct {
	StartAfter *C `json:"start_after,omitempty"`
	Limit      int `json:"limit"`
}

// list returns a page function for a list query answering
// {field: [[key, value], ...]}.
func list[C comparable, K, V any](r *Registry, query, field string) registry.PageFunc[C, registry.Pair[K, V]] {
	return func(ctx context.Context, after *C, limit int) ([]registry.Pair[K, V], error) {
		var resp map[string][]registry.Pair[K, V]
		msg := map[string]listQuery[C]{query: {StartAfter: after, Limit: limit}}
		if err := r.query(ctx, msg, &resp); err != nil {
			return nil, err
		}
		return resp[field], nil
	}
}

func (r *Registry) registeredDexes(ctx context.Context) ([]string, error) {
	var resp struct {
		Dexes []string `json:"dexes"`
	}
	if err := r.query(ctx, map[string]struct{}{"registered_dexes": {}}, &resp); err != nil {
		return nil, err
	}
	return resp.Dexes, nil
}

// query runs a smart query against the ANS host and decodes its data.
func (r *Registry) query(ctx context.Context, msg, target any) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return errors.WrapParse("json", "query", err)
	}
	endpoint := fmt.Sprintf("%s/cosmwasm/wasm/v1/contract/%s/smart/%s",
		r.baseURL, r.contract, url.PathEscape(base64.StdEncoding.EncodeToString(raw)))

	var resp struct {
		Data json.RawMessage `json:"data"`
	}
	if err := r.client.GetJSON(ctx, endpoint, &resp); err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Data, target); err != nil {
		return errors.WrapParse("json", endpoint, err)
	}
	return nil
}
