// Package config resolves network settings from the Viper configuration.
//
// Networks are declared under the networks key, one entry per chain id:
//
//	networks:
//	  juno-1:
//	    lcd_url: https://lcd-juno.example.com
//	    ans_host: juno1...
//	    lcd_auth: header:x-api-key
//	    api_key_env: JUNO_LCD_API_KEY
//	    inventory: ./out
//	    chunk_sizes:
//	      pools: 10
//	secrets:
//	  juno_lcd_api_key: ...
package config

import (
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/agentstation/ansync/internal/transport"
	"github.com/agentstation/ansync/pkg/errors"
	"github.com/agentstation/ansync/pkg/registry"
)

// Network is the configuration of one chain.
type Network struct {
	ChainID    string              `mapstructure:"chain_id"`
	LCDURL     string              `mapstructure:"lcd_url"`
	ANSHost    string              `mapstructure:"ans_host"`
	LCDAuth    string              `mapstructure:"lcd_auth"`
	APIKeyEnv  string              `mapstructure:"api_key_env"`
	Inventory  string              `mapstructure:"inventory"`
	State      string              `mapstructure:"state"`
	PageSize   int                 `mapstructure:"page_size"`
	ChunkSizes registry.ChunkSizes `mapstructure:"chunk_sizes"`
}

// Networks returns every configured network keyed by chain id.
func Networks(v *viper.Viper) (map[string]Network, error) {
	raw := make(map[string]Network)
	if err := v.UnmarshalKey("networks", &raw); err != nil {
		return nil, errors.NewConfigError("networks", "invalid network configuration", err)
	}

	out := make(map[string]Network, len(raw))
	for key, n := range raw {
		if n.ChainID == "" {
			n.ChainID = key
		}
		out[n.ChainID] = n
	}
	return out, nil
}

// NetworkIDs returns the configured chain ids in sorted order.
func NetworkIDs(v *viper.Viper) ([]string, error) {
	networks, err := Networks(v)
	if err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(networks)), nil
}

// LookupNetwork returns the configuration of chainID. A chain that is not
// configured yields a Network carrying only its chain id, so a run can be
// driven entirely by flags.
func LookupNetwork(v *viper.Viper, chainID string) (*Network, error) {
	if chainID == "" {
		return nil, errors.NewValidationError("network", chainID, "network is required")
	}
	networks, err := Networks(v)
	if err != nil {
		return nil, err
	}
	n, ok := networks[chainID]
	if !ok {
		// Viper lowercases map keys.
		n, ok = networks[strings.ToLower(chainID)]
	}
	if !ok {
		return &Network{ChainID: chainID}, nil
	}
	n.ChainID = chainID
	return &n, nil
}

// APIKey resolves the LCD API key from the environment variable named by
// APIKeyEnv.
func (n *Network) APIKey() string {
	if n.APIKeyEnv == "" {
		return ""
	}
	return lookupSecret(n.APIKeyEnv)
}

// lookupSecret reads name from the environment, then from the secrets key
// of the global config, so keys can also live in a git-ignored config file.
func lookupSecret(name string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return viper.GetString("secrets." + strings.ToLower(name))
}

// Transport builds the HTTP client used for the network's LCD endpoint.
func (n *Network) Transport() (*transport.Client, error) {
	auth, err := transport.ParseAuthenticator(n.LCDAuth)
	if err != nil {
		return nil, errors.NewConfigError(n.ChainID, "invalid lcd_auth", err)
	}
	return transport.New(transport.WithAuth(auth, n.APIKey())), nil
}

// ValidateRemote checks the settings needed to read the ANS host.
func (n *Network) ValidateRemote() error {
	if n.LCDURL == "" {
		return errors.NewConfigError(n.ChainID, "lcd_url is not set", nil)
	}
	if n.ANSHost == "" {
		return errors.NewConfigError(n.ChainID, "ans_host is not set", nil)
	}
	return nil
}
