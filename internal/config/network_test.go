package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ansync/pkg/ans"
	"github.com/agentstation/ansync/pkg/errors"
)

const sample = `
networks:
  juno-1:
    lcd_url: https://lcd.juno.example
    ans_host: juno1ans
    lcd_auth: header:x-api-key
    api_key_env: TEST_JUNO_LCD_KEY
    chunk_sizes:
      pools: 10
  pisco:
    chain_id: pisco-1
    lcd_url: https://lcd.pisco.example
`

func load(t *testing.T, doc string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(doc)))
	return v
}

func TestNetworks(t *testing.T) {
	v := load(t, sample)

	ids, err := NetworkIDs(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"juno-1", "pisco-1"}, ids)

	n, err := LookupNetwork(v, "juno-1")
	require.NoError(t, err)
	assert.Equal(t, "https://lcd.juno.example", n.LCDURL)
	assert.Equal(t, "juno1ans", n.ANSHost)
	assert.Equal(t, 10, n.ChunkSizes.For(ans.SectionPools))
	assert.Equal(t, 25, n.ChunkSizes.For(ans.SectionAssets))
	assert.NoError(t, n.ValidateRemote())
}

func TestLookupUnknownNetwork(t *testing.T) {
	n, err := LookupNetwork(load(t, sample), "osmosis-1")
	require.NoError(t, err)
	assert.Equal(t, "osmosis-1", n.ChainID)
	assert.Error(t, n.ValidateRemote())

	_, err = LookupNetwork(load(t, sample), "")
	assert.True(t, errors.IsValidationError(err))
}

func TestAPIKeyFromEnv(t *testing.T) {
	t.Setenv("TEST_JUNO_LCD_KEY", "secret")
	n, err := LookupNetwork(load(t, sample), "juno-1")
	require.NoError(t, err)
	assert.Equal(t, "secret", n.APIKey())

	client, err := n.Transport()
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestTransportBadAuth(t *testing.T) {
	n := &Network{ChainID: "juno-1", LCDAuth: "kerberos"}
	_, err := n.Transport()
	assert.True(t, errors.IsValidationError(err))
}

func TestAPIKeyFromSecrets(t *testing.T) {
	viper.Set("secrets.test_osmosis_lcd_key", "from-config")
	t.Cleanup(func() { viper.Set("secrets.test_osmosis_lcd_key", nil) })

	n := &Network{ChainID: "osmosis-1", APIKeyEnv: "TEST_OSMOSIS_LCD_KEY"}
	assert.Equal(t, "from-config", n.APIKey())

	t.Setenv("TEST_OSMOSIS_LCD_KEY", "from-env")
	assert.Equal(t, "from-env", n.APIKey())
}
