package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/capbac/go-capbac/internal/config"
	"github.com/capbac/go-capbac/principal"
	"github.com/capbac/go-capbac/principal/secp256k1/signer"
	"github.com/capbac/go-capbac/principal/secp256k1/verifier"
	"github.com/capbac/go-capbac/testing/fixtures"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

const now = int64(1700000000)

func testApp(t *testing.T, dir string, key principal.Signer) (*app, *bytes.Buffer) {
	t.Helper()
	keyFile := filepath.Join(dir, filepath.Base(t.Name())+".key")
	require.NoError(t, os.WriteFile(keyFile, []byte(signer.Format(key)), 0o600))

	logger, _ := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	out := &bytes.Buffer{}
	return &app{
		cfg: &config.Config{
			StateDir:       filepath.Join(dir, "state"),
			KeyFile:        keyFile,
			LogLevel:       "debug",
			LogFormat:      "text",
			StateCacheSize: 8,
			MetricsEnabled: true,
		},
		log:   logger,
		out:   out,
		clock: func() time.Time { return time.Unix(now, 0) },
	}, out
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestKeygen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "new.key")
	out := &bytes.Buffer{}

	require.NoError(t, RunKeygen(out, path, false))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	s, err := signer.Parse(string(bytes.TrimSpace(b)))
	require.NoError(t, err)
	require.Contains(t, out.String(), verifier.Format(s.Verifier()))
	require.Contains(t, out.String(), s.DID().String())

	require.Error(t, RunKeygen(out, path, false))
	require.NoError(t, RunKeygen(out, path, true))
}

func TestLedgerCommands(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	bob := verifier.Format(fixtures.Bob.Verifier())

	root := writeFile(t, dir, "root.json", `{
		"ID": "1111111111111111",
		"DE": "coap://sensor.local/time",
		"AR": [{"AC": "GET", "RE": "time", "DD": 2}],
		"NB": "1699999000",
		"NA": "1700009000"
	}`)
	child := writeFile(t, dir, "child.json", `{
		"ID": "2222222222222222",
		"SU": "`+bob+`",
		"DE": "coap://sensor.local/time",
		"AR": [{"AC": "GET", "RE": "time", "DD": 1}],
		"NB": "1699999000",
		"NA": "1700005000",
		"IC": "1111111111111111"
	}`)
	request := writeFile(t, dir, "access.json", `{
		"DE": "coap://sensor.local/time",
		"AC": "GET",
		"RE": "time",
		"IC": "2222222222222222"
	}`)
	revoke := writeFile(t, dir, "revoke.json", `{
		"ID": "2222222222222222",
		"DE": "coap://sensor.local/time",
		"RT": "ALL",
		"IC": "1111111111111111"
	}`)

	run := func(key principal.Signer, fn func(a *app) error) (string, error) {
		a, out := testApp(t, dir, key)
		defer a.Shutdown(ctx)
		err := fn(a)
		return out.String(), err
	}

	out, err := run(fixtures.Alice, func(a *app) error { return RunIssue(ctx, a, root, true) })
	require.NoError(t, err)
	require.Contains(t, out, "issued 1111111111111111")

	out, err = run(fixtures.Alice, func(a *app) error { return RunIssue(ctx, a, child, false) })
	require.NoError(t, err)
	require.Contains(t, out, "issued 2222222222222222")

	_, err = run(fixtures.Mallory, func(a *app) error { return RunIssue(ctx, a, child, false) })
	require.Error(t, err)

	out, err = run(fixtures.Alice, func(a *app) error { return RunList(ctx, a, fixtures.Device) })
	require.NoError(t, err)
	require.Contains(t, out, "1111111111111111")
	require.Contains(t, out, "2222222222222222")

	out, err = run(fixtures.Bob, func(a *app) error { return RunValidate(ctx, a, request) })
	require.NoError(t, err)
	require.Contains(t, out, "access granted")

	_, err = run(fixtures.Mallory, func(a *app) error { return RunValidate(ctx, a, request) })
	require.ErrorContains(t, err, "access denied")

	out, err = run(fixtures.Alice, func(a *app) error { return RunRevoke(ctx, a, revoke) })
	require.NoError(t, err)
	require.Contains(t, out, "revoked 2222222222222222")

	out, err = run(fixtures.Alice, func(a *app) error { return RunList(ctx, a, fixtures.Device) })
	require.NoError(t, err)
	require.NotContains(t, out, "2222222222222222")

	out, err = run(fixtures.Alice, func(a *app) error { return RunSign(ctx, a, child) })
	require.NoError(t, err)
	require.Contains(t, out, `"SI":"`)
}
