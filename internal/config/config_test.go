package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleXML = `<API REQUEST_DUMP="true">
	<CONTEXT>
		<HOST>127.0.0.1</HOST>
		<PORT>9090</PORT>
	</CONTEXT>
	<AUTHENTICATION>
		<ENABLE_TOKEN_AUTH>true</ENABLE_TOKEN_AUTH>
		<USERNAME>sensei</USERNAME>
	</AUTHENTICATION>
	<PAGINATION>
		<PAGE_SIZE>25</PAGE_SIZE>
	</PAGINATION>
	<DB>
		<DRIVER>postgres</DRIVER>
		<HOST>db</HOST>
		<NAMES VOCAB="vocab"/>
		<USERNAME>app</USERNAME>
		<PASSWORD TYPE="plain">secret</PASSWORD>
	</DB>
	<RATE_LIMIT>
		<RPS>5</RPS>
	</RATE_LIMIT>
</API>`

func TestParse(t *testing.T) {
	c, err := Parse(strings.NewReader(sampleXML))
	require.NoError(t, err)

	assert.True(t, c.RequestDump)
	assert.Equal(t, "127.0.0.1:9090", c.Addr())
	assert.True(t, c.Authentication.EnableTokenAuth)
	assert.Equal(t, "sensei", c.Authentication.Username)
	assert.Equal(t, 25, c.Pagination.PageSize)
	assert.Equal(t, 20, c.Pagination.TestPageSize)
	assert.Equal(t, "postgres", c.DB.Driver)
	assert.Equal(t, 5432, c.DB.Port)
	assert.Equal(t, "vocab", c.DB.Names.Vocab)
	assert.Equal(t, "secret", c.DB.Password.Value)
	assert.Equal(t, 6, c.RateLimit.Burst)
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("VOCAB_DB_PASSWORD", "from-env")
	t.Setenv("VOCAB_PORT", "7000")

	c, err := Parse(strings.NewReader(sampleXML))
	require.NoError(t, err)

	assert.Equal(t, "from-env", c.DB.Password.Value)
	assert.Equal(t, 7000, c.Context.Port)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse(strings.NewReader("<API>"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.Equal(t, "data/vocab.db", c.DB.Path)
	assert.Equal(t, 50, c.Pagination.PageSize)
	assert.Equal(t, 8080, c.Context.Port)
	assert.Zero(t, c.RateLimit.RPS)
}
