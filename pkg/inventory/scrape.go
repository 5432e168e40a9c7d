package inventory

import (
	"encoding/json"
	"fmt"
	"io/fs"

	"github.com/agentstation/ansync/pkg/ans"
	"github.com/agentstation/ansync/pkg/errors"
)

// Scraper output files. Each maps chain name to network id to a list of
// [key, value] pairs.
const (
	scrapeAssetsFile    = "assets.json"
	scrapeContractsFile = "contracts.json"
	scrapePoolsFile     = "pools.json"
)

// ScrapeFiles lists the scraper output files in load order.
var ScrapeFiles = []string{scrapeAssetsFile, scrapeContractsFile, scrapePoolsFile}

type scrapeDoc map[string]map[string][][2]json.RawMessage

// entries returns the pairs for chainID from whichever chain lists it.
func (d scrapeDoc) entries(chainID string) ([][2]json.RawMessage, bool) {
	for _, networks := range d {
		if pairs, ok := networks[chainID]; ok {
			return pairs, true
		}
	}
	return nil, false
}

// LoadScrapeFS reads the scraper output layout from fsys. A file that is
// missing, or that has no entries for chainID, leaves its sections out of
// Data.Supplied. The layout never carries channels.
func LoadScrapeFS(fsys fs.FS, chainID string) (*ans.Data, error) {
	docs := make(map[string]scrapeDoc, len(ScrapeFiles))
	for _, name := range ScrapeFiles {
		raw, err := fs.ReadFile(fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, errors.WrapIO("read", name, err)
		}
		doc, err := parseScrape(raw, name)
		if err != nil {
			return nil, err
		}
		docs[name] = doc
	}
	return scrapeData(docs, chainID)
}

// parseScrape decodes one scraper output file.
func parseScrape(raw []byte, name string) (scrapeDoc, error) {
	var doc scrapeDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errors.WrapParse("json", name, err)
	}
	return doc, nil
}

// scrapeData converts decoded scraper files, keyed by file name, into an
// inventory for chainID. Only the sections found for chainID are supplied.
func scrapeData(docs map[string]scrapeDoc, chainID string) (*ans.Data, error) {
	f := &File{ChainID: chainID}
	supplied := []ans.Section{}

	if pairs, ok := docs[scrapeAssetsFile].entries(chainID); ok {
		supplied = append(supplied, ans.SectionAssets)
		for i, pair := range pairs {
			var e AssetEntry
			if err := decodePair(pair, &e.Name, &e.Info); err != nil {
				return nil, pairError(scrapeAssetsFile, i, err)
			}
			f.Assets = append(f.Assets, e)
		}
	}

	if pairs, ok := docs[scrapeContractsFile].entries(chainID); ok {
		supplied = append(supplied, ans.SectionContracts)
		for i, pair := range pairs {
			var key ans.ContractEntry
			var addr string
			if err := decodePair(pair, &key, &addr); err != nil {
				return nil, pairError(scrapeContractsFile, i, err)
			}
			f.Contracts = append(f.Contracts, ContractEntry{Protocol: key.Protocol, Contract: key.Contract, Address: addr})
		}
	}

	if pairs, ok := docs[scrapePoolsFile].entries(chainID); ok {
		supplied = append(supplied, ans.SectionDexes, ans.SectionPools)
		dexes := make(map[string]struct{})
		for i, pair := range pairs {
			var e PoolEntry
			if err := decodePair(pair, &e.Address, &e.Metadata); err != nil {
				return nil, pairError(scrapePoolsFile, i, err)
			}
			f.Pools = append(f.Pools, e)

			// The scraper does not list dexes separately; every dex with a
			// pool is registered.
			if _, seen := dexes[e.Metadata.Dex]; !seen && e.Metadata.Dex != "" {
				dexes[e.Metadata.Dex] = struct{}{}
				f.Dexes = append(f.Dexes, e.Metadata.Dex)
			}
		}
	}

	if len(supplied) == 0 {
		return nil, errors.NewNotFoundError("inventory", chainID)
	}
	d, err := f.Data()
	if err != nil {
		return nil, err
	}
	d.Supplied = supplied
	return d, nil
}

func decodePair(pair [2]json.RawMessage, key, value any) error {
	if err := json.Unmarshal(pair[0], key); err != nil {
		return err
	}
	return json.Unmarshal(pair[1], value)
}

func pairError(file string, i int, err error) error {
	return errors.WrapParse("json", file, fmt.Errorf("entry %d: %w", i, err))
}
