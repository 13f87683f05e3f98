package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fundPage = `<html><head><title>Diversified Growth</title></head><body>
<table>
<tr><th>Date</th><th>Buy</th><th>Sell</th><th>NAV</th></tr>
<tr><td>01/02</td><td>$1.10</td><td>$1.05</td><td>$1.08</td></tr>
<tr><td>31/01</td><td>$1.00</td><td>$0.95</td><td>$0.98</td></tr>
</table></body></html>`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("NTFY_URL", "")
	t.Setenv("WEBHOOK_URL", "")

	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", t.TempDir()}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func writePage(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExtractCmd(t *testing.T) {
	out, err := execute(t, "extract", writePage(t, fundPage))
	require.NoError(t, err)

	assert.Contains(t, out, "Page: Diversified Growth")
	assert.Contains(t, out, "Tables found: 1")
	assert.Contains(t, out, "Schema: daily_price")
	assert.Contains(t, out, "VG Fund 01/02: $1.10/$1.05 UP +10.0%")
	assert.Contains(t, out, "*Price Change:* $+0.1000 (+10.00%) 📈 UP")
}

func TestExtractCmd_JSON(t *testing.T) {
	out, err := execute(t, "--json", "extract", writePage(t, fundPage))
	require.NoError(t, err)

	var res map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "alert", res["status"])
	assert.Equal(t, "daily_price", res["schema"])
	assert.Equal(t, "VG Fund 01/02: $1.10/$1.05 UP +10.0%", res["terse"])
}

func TestExtractCmd_NoTable(t *testing.T) {
	out, err := execute(t, "extract", writePage(t, "<html><body>Loading</body></html>"))
	require.NoError(t, err)
	assert.Contains(t, out, "No price table found")
}

func TestExtractCmd_MissingFile(t *testing.T) {
	_, err := execute(t, "extract", filepath.Join(t.TempDir(), "nope.html"))
	assert.Error(t, err)
}

func TestRunCmd_NoFunds(t *testing.T) {
	out, err := execute(t, "run", "--funds", filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Contains(t, out, "No funds configured")
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "vgnotify v"+Version))
}

func TestQuickstartCmd(t *testing.T) {
	out, err := execute(t, "quickstart")
	require.NoError(t, err)
	assert.Contains(t, out, "Step 1: Create the configuration")
	assert.Contains(t, out, "vgnotify notify test")
}

func TestConfigShow_RedactsWebhook(t *testing.T) {
	t.Setenv("WEBHOOK_URL", "https://hooks.example.com/services/T0001/B0002/topsecretvalue")

	cmd := NewRootCmd()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", t.TempDir(), "config", "show"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, stdout.String(), "https://hooks.example.com/services/")
	assert.NotContains(t, stdout.String(), "topsecretvalue")
}

func TestOutput_Colors(t *testing.T) {
	var buf bytes.Buffer
	o := &Output{writer: &buf, colorEnabled: true}
	o.Success("ok %d", 1)
	assert.Equal(t, "\x1b[32mok 1\x1b[0m\n", buf.String())
	assert.Equal(t, "\x1b[1mtitle\x1b[22m", o.BoldText("title"))

	buf.Reset()
	plain := &Output{writer: &buf}
	plain.Error("failed")
	assert.Equal(t, "failed\n", buf.String())
	assert.Equal(t, "name", plain.Cyan("name"))
}
