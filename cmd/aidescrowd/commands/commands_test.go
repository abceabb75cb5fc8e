package commands

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abcicli "github.com/tendermint/tendermint/abci/client"
	abci "github.com/tendermint/tendermint/abci/types"

	"github.com/iov-one/aidchain/crypto/bech32"
	"github.com/iov-one/aidchain/errors"
)

// run executes the root command with given arguments against home.
func run(t *testing.T, home string, args ...string) (string, error) {
	t.Helper()
	return runWithInput(t, home, "", args...)
}

func runWithInput(t *testing.T, home, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--home", home}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, home string, args ...string) string {
	t.Helper()
	out, err := run(t, home, args...)
	require.NoError(t, err, "%v: %s", args, out)
	return out
}

// field returns the value of a "name: value" output line.
func field(t *testing.T, out, name string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, name+":") {
			return strings.TrimSpace(strings.TrimPrefix(line, name+":"))
		}
	}
	t.Fatalf("no %q in output %q", name, out)
	return ""
}

type queryOutput struct {
	Height  int64 `json:"height"`
	Results []struct {
		Key   string          `json:"key"`
		Value json.RawMessage `json:"value"`
	} `json:"results"`
}

func query(t *testing.T, home string, args ...string) queryOutput {
	t.Helper()
	out := mustRun(t, home, append([]string{"query"}, args...)...)
	var q queryOutput
	require.NoError(t, json.Unmarshal([]byte(out), &q), out)
	return q
}

type blockOutput struct {
	Height  int64  `json:"height"`
	Hash    string `json:"hash"`
	Results []struct {
		Code uint32 `json:"Code"`
		Log  string `json:"Log"`
	} `json:"results"`
}

func TestKeys(t *testing.T) {
	home := t.TempDir()

	created := mustRun(t, home, "keys", "new", "alice")
	shown := mustRun(t, home, "keys", "show", "alice")
	assert.Equal(t, created, shown)

	b32 := field(t, shown, "bech32")
	hrp, raw, err := bech32.Decode(b32)
	require.NoError(t, err)
	assert.Equal(t, AddressHRP, hrp)
	assert.Equal(t, field(t, shown, "address"), strings.ToUpper(hex.EncodeToString(raw)))

	_, err = run(t, home, "keys", "new", "alice")
	assert.True(t, errors.ErrDuplicate.Is(err), "got %+v", err)

	_, err = run(t, home, "keys", "show", "bob")
	assert.True(t, errors.ErrNotFound.Is(err), "got %+v", err)
}

func TestInitRefusesOverwrite(t *testing.T) {
	home := t.TempDir()
	mustRun(t, home, "init", "--chain-id", "aid-test")

	_, err := run(t, home, "init", "--chain-id", "aid-test")
	assert.True(t, errors.ErrDuplicate.Is(err), "got %+v", err)

	mustRun(t, home, "init", "--chain-id", "aid-other", "--force")
	conf, err := LoadConfig(Home(home).ConfigFile())
	require.NoError(t, err)
	assert.Equal(t, "aid-other", conf.ChainID)
}

func TestEscrowFlow(t *testing.T) {
	home := t.TempDir()
	mustRun(t, home, "init", "--chain-id", "aid-test", "--mint", "1000 AID")
	mustRun(t, home, "keys", "new", "bob")

	// Blocks are produced at increasing times after genesis.
	at := time.Now().Add(time.Minute)
	tx := func(key string, args ...string) blockOutput {
		t.Helper()
		at = at.Add(time.Minute)
		all := append([]string{"tx"}, args...)
		all = append(all, "--key", key, "--time", at.UTC().Format(time.RFC3339))
		out := mustRun(t, home, all...)
		var b blockOutput
		require.NoError(t, json.Unmarshal([]byte(out), &b), out)
		require.Len(t, b.Results, 1)
		assert.Equal(t, uint32(0), b.Results[0].Code, b.Results[0].Log)
		return b
	}

	first := tx("admin", "fund", "500 AID")
	assert.Equal(t, int64(1), first.Height)
	assert.NotEmpty(t, first.Hash)

	tx("admin", "create", "1", "bob", "200 AID", "--expires", "48h")
	tx("bob", "claim", "1")
	last := tx("admin", "disburse", "1")
	assert.Equal(t, int64(4), last.Height)

	pkgs := query(t, home, "/aidescrow/packages", "1")
	assert.Equal(t, int64(4), pkgs.Height)
	require.Len(t, pkgs.Results, 1)
	var pkg struct {
		State  string
		Amount struct {
			Ticker string
			Amount string
		}
	}
	require.NoError(t, json.Unmarshal(pkgs.Results[0].Value, &pkg))
	assert.Equal(t, "disbursed", pkg.State)
	assert.Equal(t, "AID", pkg.Amount.Ticker)
	assert.Equal(t, "200", pkg.Amount.Amount)

	wallets := query(t, home, "/cash/wallets", "bob", "AID")
	require.Len(t, wallets.Results, 1)
	assert.Contains(t, string(wallets.Results[0].Value), `"200"`)

	events := query(t, home, "/events")
	assert.Len(t, events.Results, 4)

	// The recipient cannot disburse, the failure is reported as an error
	// and does not change the state.
	_, err := run(t, home, "tx", "disburse", "1", "--key", "bob")
	assert.True(t, errors.ErrState.Is(err), "got %+v", err)
	assert.Len(t, query(t, home, "/events").Results, 4)
}

func TestTxPrintAndServe(t *testing.T) {
	home := t.TempDir()
	mustRun(t, home, "init", "--chain-id", "aid-test", "--mint", "1000 AID")

	fund := strings.TrimSpace(mustRun(t, home, "tx", "fund", "300 AID", "--print", "--seq", "0"))
	create := strings.TrimSpace(mustRun(t, home, "tx", "create", "7", "admin", "100 AID", "--print", "--seq", "1"))
	assert.NotEmpty(t, fund)
	assert.NotEmpty(t, create)

	// Nothing was executed by printing.
	assert.Empty(t, query(t, home, "/events").Results)

	input := fund + "\n\n" + create + "\n"
	out, err := runWithInput(t, home, input, "serve", "--block-size", "10")
	require.NoError(t, err, out)

	dec := json.NewDecoder(strings.NewReader(out))
	var blocks []blockOutput
	for dec.More() {
		var b blockOutput
		require.NoError(t, dec.Decode(&b))
		blocks = append(blocks, b)
	}
	require.Len(t, blocks, 2)
	for i, b := range blocks {
		assert.Equal(t, int64(i+1), b.Height)
		require.Len(t, b.Results, 1)
		assert.Equal(t, uint32(0), b.Results[0].Code, b.Results[0].Log)
	}

	pkgs := query(t, home, "/aidescrow/packages")
	assert.Len(t, pkgs.Results, 1)
}

func TestServeRejectsGarbage(t *testing.T) {
	home := t.TempDir()
	mustRun(t, home, "init", "--chain-id", "aid-test")

	_, err := runWithInput(t, home, "not hex\n", "serve")
	assert.True(t, errors.ErrInput.Is(err), "got %+v", err)
}

func TestVersion(t *testing.T) {
	out := mustRun(t, t.TempDir(), "version")
	assert.Contains(t, out, "Version:")
}

func TestStartServesABCI(t *testing.T) {
	home := t.TempDir()
	mustRun(t, home, "init", "--chain-id", "aid-test")

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cmd := NewRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--home", home, "start", "--bind", "tcp://" + addr})
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}, 5*time.Second, 20*time.Millisecond)

	client := abcicli.NewSocketClient("tcp://"+addr, true)
	require.NoError(t, client.Start())
	info, err := client.InfoSync(abci.RequestInfo{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), info.LastBlockHeight)
	assert.NotEmpty(t, info.Version)
	require.NoError(t, client.Stop())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("start did not return after cancel")
	}
}
