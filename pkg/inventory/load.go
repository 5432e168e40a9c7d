package inventory

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/ansync/pkg/ans"
	"github.com/agentstation/ansync/pkg/constants"
	"github.com/agentstation/ansync/pkg/errors"
)

// chainFileExts are tried in order when looking up a chain's inventory.
var chainFileExts = []string{".yaml", ".yml", ".json"}

// Parse decodes an inventory document. name is only used in errors and to
// pick the reported format.
func Parse(data []byte, name string) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.WrapParse(formatOf(name), name, err)
	}
	return &f, nil
}

// Load reads one inventory file from disk.
func Load(filename string) (*ans.Data, error) {
	return LoadFS(os.DirFS(filepath.Dir(filename)), filepath.Base(filename))
}

// LoadFS reads one inventory file from fsys.
func LoadFS(fsys fs.FS, name string) (*ans.Data, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errors.WrapIO("read", name, err)
	}
	f, err := Parse(raw, name)
	if err != nil {
		return nil, err
	}
	d, err := f.Data()
	if err != nil {
		return nil, errors.WrapResource("load", "inventory", name, err)
	}
	return d, nil
}

// LoadChain reads the inventory of chainID from dir. It looks for
// <chainID>.yaml, .yml and .json, then falls back to the scraper output
// layout (assets.json, contracts.json, pools.json keyed by chain).
func LoadChain(dir, chainID string) (*ans.Data, error) {
	return LoadChainFS(os.DirFS(dir), chainID)
}

// LoadChainFS is LoadChain over an fs.FS.
func LoadChainFS(fsys fs.FS, chainID string) (*ans.Data, error) {
	for _, ext := range chainFileExts {
		name := chainID + ext
		if _, err := fs.Stat(fsys, name); err == nil {
			d, err := LoadFS(fsys, name)
			if err != nil {
				return nil, err
			}
			return withChainID(d, chainID, name)
		}
	}

	for _, name := range ScrapeFiles {
		if _, err := fs.Stat(fsys, name); err == nil {
			return LoadScrapeFS(fsys, chainID)
		}
	}

	return nil, errors.NewNotFoundError("inventory", chainID)
}

// withChainID fills in a missing chain id and rejects a mismatching one.
func withChainID(d *ans.Data, chainID, name string) (*ans.Data, error) {
	switch d.ChainID {
	case "":
		d.ChainID = chainID
	case chainID:
	default:
		return nil, errors.NewValidationError("chain_id", d.ChainID, "inventory "+name+" belongs to another chain")
	}
	return d, nil
}

// Save writes registry data as a YAML inventory file, creating parent
// directories as needed.
func Save(filename string, d *ans.Data) error {
	data, err := yaml.Marshal(FromData(d))
	if err != nil {
		return errors.WrapParse("yaml", filename, err)
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}

	// Write to a temp file and rename so readers never see a partial file.
	tmp := filename + ".tmp"
	if err := os.WriteFile(tmp, data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", tmp, err)
	}
	if err := os.Rename(tmp, filename); err != nil {
		return errors.WrapIO("write", filename, err)
	}
	return nil
}

func formatOf(name string) string {
	if strings.EqualFold(path.Ext(name), ".json") {
		return "json"
	}
	return "yaml"
}
