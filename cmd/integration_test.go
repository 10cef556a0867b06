package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/KaramelBytes/sales-analyzer/internal/ai"
	cfgpkg "github.com/KaramelBytes/sales-analyzer/internal/config"
)

type cannedCompleter map[string]string

func (c cannedCompleter) Complete(_ context.Context, system, _ string, _ ai.CompletionOptions) (string, error) {
	for k, v := range c {
		if strings.Contains(system, k) {
			return v, nil
		}
	}
	return "", nil
}

// runCmd executes the root command with args in an isolated HOME and returns stdout.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	// Reset sticky flags that persist Changed state across invocations
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	cfg = nil
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("OPENROUTER_API_KEY", "test-key")
	t.Setenv("OPENAI_API_KEY", "")

	orig := newCompleter
	newCompleter = func(*cfgpkg.Global, *zap.Logger) (ai.Completer, error) {
		return cannedCompleter{
			"sales analyst":      "Steady growth with a June spike.",
			"forecasting expert": "<SALES_PREDICTIONS>18000,18500,19000</SALES_PREDICTIONS>",
			"anomaly detection":  "June is an outlier.",
		}, nil
	}
	t.Cleanup(func() { newCompleter = orig })
	return home
}

func writeSalesCSV(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "sales.csv")
	body := "Date,Sales\n2023-01,15000.50\n2023-02,16000.00\n2023-03,15500.25\n2023-04,17000.00\n2023-05,16500.75\n2023-06,90000.00\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestCLI_RunAll(t *testing.T) {
	home := isolate(t)
	csvPath := writeSalesCSV(t, home)
	chartPath := filepath.Join(home, "out", "chart.png")

	out, err := runCmd(t, "--csv", csvPath, "--chart-out", chartPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Example 1: Load Sales Data")
	assert.Contains(t, out, "Total records loaded: 6")
	assert.Contains(t, out, "Sales Trends Analysis:\nSteady growth with a June spike.")
	assert.Contains(t, out, "saved as '"+chartPath+"'")
	assert.Contains(t, out, "Sales Anomalies Detection Report:\nJune is an outlier.")
	assert.FileExists(t, chartPath)
}

func TestCLI_SingleRoutine(t *testing.T) {
	home := isolate(t)
	csvPath := writeSalesCSV(t, home)

	out, err := runCmd(t, "load", "--csv", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded Sales Data (First 5 records):")
	assert.NotContains(t, out, "Example 1")
	assert.NotContains(t, out, "Sales Trends Analysis")
}

func TestCLI_MissingCSVContinues(t *testing.T) {
	home := isolate(t)
	chartPath := filepath.Join(home, "chart.png")

	out, err := runCmd(t, "--csv", filepath.Join(home, "absent.csv"), "--chart-out", chartPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Example 4: Detect Sales Anomalies")
	assert.Contains(t, out, "✗ Error: sales.csv file not found in the application directory.")
	assert.NoFileExists(t, chartPath)
}

func TestCLI_MalformedCSVFails(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("Date,Sales\n2023-01,n/a\n"), 0o644))

	_, err := runCmd(t, "trends", "--csv", path)
	require.Error(t, err)
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	home := isolate(t)
	cfgPath := filepath.Join(home, "cfg.yaml")

	out, err := runCmd(t, "--config", cfgPath, "config", "set", "provider", "ollama")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved config")

	_, err = runCmd(t, "--config", cfgPath, "config", "set", "api_key", "sk-abcdefxyz")
	require.NoError(t, err)

	cfg = nil
	cfgFile = cfgPath
	loadConfig()
	require.NotNil(t, cfg)
	var buf bytes.Buffer
	printConfig(&buf, cfg)
	assert.Contains(t, buf.String(), "provider: ollama")
	assert.Contains(t, buf.String(), "api_key: sk-****xyz")
	assert.Contains(t, buf.String(), "ollama_host: http://127.0.0.1:11434")

	_, err = runCmd(t, "--config", cfgPath, "config", "set", "provider", "bedrock")
	assert.Error(t, err)
}

func TestCLI_ProviderFlagSelectsMatchingKey(t *testing.T) {
	home := isolate(t)
	csvPath := writeSalesCSV(t, home)
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	t.Setenv("OPENAI_API_KEY", "oa-key")

	var gotProvider, gotKey string
	newCompleter = func(c *cfgpkg.Global, _ *zap.Logger) (ai.Completer, error) {
		gotProvider = ai.NormalizeProvider(c.Provider)
		gotKey = c.ResolvedAPIKey()
		return cannedCompleter{}, nil
	}

	_, err := runCmd(t, "--provider", "openai", "--csv", csvPath, "load")
	require.NoError(t, err)
	assert.Equal(t, ai.ProviderOpenAI, gotProvider)
	assert.Equal(t, "oa-key", gotKey)

	_, err = runCmd(t, "--csv", csvPath, "load")
	require.NoError(t, err)
	assert.Equal(t, ai.ProviderOpenRouter, gotProvider)
	assert.Equal(t, "or-key", gotKey)
}

func TestBuildRuntimeUsesProviderKey(t *testing.T) {
	isolate(t)
	t.Setenv("OPENROUTER_API_KEY", "or-key")
	t.Setenv("OPENAI_API_KEY", "")

	// OpenAI selected with only the OpenRouter key present must not borrow it.
	c := &cfgpkg.Global{Provider: "OpenAI"}
	assert.Empty(t, c.ResolvedAPIKey())
	_, name, err := buildRuntime(c)
	require.NoError(t, err)
	assert.Equal(t, ai.ProviderOpenAI, name)
}
