package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/dotcommander/districtkpi/internal/config"
	"github.com/dotcommander/districtkpi/internal/cue"
	"github.com/dotcommander/districtkpi/internal/period"
	"github.com/dotcommander/districtkpi/internal/types"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const deliveryPeriod = `period: "2025-09"
delivery:
  east:    {onTimeRate: 94, successRate: 93}
  gaoxin:  {onTimeRate: 96, successRate: 93}
  west:    {onTimeRate: 95, successRate: 93}
  renhe:   {onTimeRate: 93, successRate: 93}
  miyi:    {onTimeRate: 97, successRate: 93}
  yanbian: {onTimeRate: 95, successRate: 93}
`

const outagePeriod = `{"period": "2025-10", "outage": {
  "east": {"outageRate": 3.0, "interruptions": 0},
  "gaoxin": {"outageRate": 3.75, "interruptions": 1},
  "west": {"outageRate": 4.5, "interruptions": 2},
  "renhe": {"outageRate": 3.5, "interruptions": 3},
  "miyi": {"outageRate": 4.0, "interruptions": 0},
  "yanbian": {"outageRate": 3.25, "interruptions": 1}
}}`

// resetFlags restores every flag of c and its subcommands to its default.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// setupCmdTest runs the test in a fresh working directory with clean flag
// and viper state.
func setupCmdTest(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))

	clean := func() {
		viper.Reset()
		resetFlags(rootCmd)
		bindRootFlags()
		bindBatchFlags()
		bindServeFlags()
		configFile = ""
		followSymlinks = false
		inputOut, inputScore, inputLabel, inputModules = "", false, "", ""
		paramsWrite = ""
	}
	clean()
	t.Cleanup(func() {
		_ = os.Chdir(wd)
		clean()
	})
	return dir
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunScore_Console(t *testing.T) {
	dir := setupCmdTest(t)
	path := writeFile(t, filepath.Join(dir, "sep.period.yaml"), deliveryPeriod)

	var out bytes.Buffer
	require.NoError(t, runScore(&out, path))

	got := out.String()
	assert.Contains(t, got, "集客业务交付管理")
	assert.Contains(t, got, "全市总分：3.28/4分")
	assert.NotContains(t, got, "专线退服管控")
}

func TestRunScore_JSONAndConfigOverride(t *testing.T) {
	dir := setupCmdTest(t)
	path := writeFile(t, filepath.Join(dir, "sep.period.yaml"), deliveryPeriod)
	writeFile(t, filepath.Join(dir, ".districtkpirc.yaml"), `format: json
parameters:
  delivery:
    onTime: {baseline: 90, challenge: 94}
`)

	var out bytes.Buffer
	require.NoError(t, runScore(&out, path))

	var doc struct {
		Reports []struct {
			Source string `json:"source"`
			Result struct {
				Delivery struct {
					Rows []struct {
						OnTimeScore float64 `json:"onTimeScore"`
					} `json:"rows"`
				} `json:"delivery"`
			} `json:"result"`
		} `json:"reports"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc), out.String())
	require.Len(t, doc.Reports, 1)
	assert.Equal(t, path, doc.Reports[0].Source)
	assert.Equal(t, 2.0, doc.Reports[0].Result.Delivery.Rows[0].OnTimeScore)
}

func TestRunScore_ModuleFilter(t *testing.T) {
	dir := setupCmdTest(t)
	path := writeFile(t, filepath.Join(dir, "sep.period.yaml"), deliveryPeriod)

	var out bytes.Buffer
	err := runScore(&out, path, types.ModuleOutage)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no outage section")

	out.Reset()
	viper.Set("lang", "en")
	require.NoError(t, runScore(&out, path, types.ModuleDelivery))
	assert.Contains(t, out.String(), "City total: 3.28/4")
}

func TestRunScore_InvalidPeriod(t *testing.T) {
	dir := setupCmdTest(t)
	bad := strings.Replace(deliveryPeriod, "onTimeRate: 94", "onTimeRate: 140", 1)
	path := writeFile(t, filepath.Join(dir, "bad.period.yaml"), bad)

	err := runScore(&bytes.Buffer{}, path)
	require.Error(t, err)
	var verrs cue.ValidationErrors
	assert.True(t, errors.As(err, &verrs))

	var stderr bytes.Buffer
	printError(&stderr, err)
	lines := strings.Split(strings.TrimSpace(stderr.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, "Error: "+path+": validation failed", lines[0])
	assert.Contains(t, lines[1], "delivery.east.onTimeRate")
}

func TestRunScore_InvalidConfig(t *testing.T) {
	dir := setupCmdTest(t)
	path := writeFile(t, filepath.Join(dir, "sep.period.yaml"), deliveryPeriod)
	viper.Set("rounding", "sometimes")

	err := runScore(&bytes.Buffer{}, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error loading configuration")
}

func TestRunScore_RejectsDirectory(t *testing.T) {
	dir := setupCmdTest(t)
	err := runScore(&bytes.Buffer{}, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is a directory")
}

func TestPrintError_Plain(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, errors.New("boom"))
	assert.Equal(t, "Error: boom\n", buf.String())
}

func TestRunBatch(t *testing.T) {
	dir := setupCmdTest(t)
	writeFile(t, filepath.Join(dir, "2025", "09.period.yaml"), deliveryPeriod)
	writeFile(t, filepath.Join(dir, "2025", "10.period.json"), outagePeriod)
	writeFile(t, filepath.Join(dir, "2025", "11.period.yaml"), "delivery:\n  east: {onTimeRate: 95, successRate: 93}\n")
	viper.Set("format", "json")

	var out bytes.Buffer
	err := runBatch(context.Background(), &out, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3 period files could not be scored")

	var doc struct {
		Reports []struct {
			Source string `json:"source"`
			Period string `json:"period"`
		} `json:"reports"`
		Failures []struct {
			Source string `json:"source"`
		} `json:"failures"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc), out.String())
	require.Len(t, doc.Reports, 2)
	assert.Equal(t, "2025/09.period.yaml", doc.Reports[0].Source)
	assert.Equal(t, "2025-09", doc.Reports[0].Period)
	assert.Equal(t, "2025/10.period.json", doc.Reports[1].Source)
	require.Len(t, doc.Failures, 1)
	assert.Equal(t, "2025/11.period.yaml", doc.Failures[0].Source)
}

func TestRunBatch_PatternsAndConcurrency(t *testing.T) {
	dir := setupCmdTest(t)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		writeFile(t, filepath.Join(dir, "q3", name+".yaml"), deliveryPeriod)
	}
	viper.Set("concurrency", 2)
	viper.Set("quiet", true)

	var out bytes.Buffer
	require.NoError(t, runBatch(context.Background(), &out, []string{"q3/*.yaml"}))

	got := out.String()
	assert.Contains(t, got, "5/5 scored")
	assert.Less(t, strings.Index(got, "q3/a.yaml"), strings.Index(got, "q3/e.yaml"))
}

func TestRunBatch_NoFiles(t *testing.T) {
	setupCmdTest(t)
	err := runBatch(context.Background(), &bytes.Buffer{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no period files found")
}

func TestRunParams(t *testing.T) {
	setupCmdTest(t)

	var out bytes.Buffer
	require.NoError(t, runParams(&out))
	assert.Contains(t, out.String(), "rounding: step")
	assert.Contains(t, out.String(), "factors: [1, 0.8, 0.6, 0]")

	viper.Set("format", "json")
	out.Reset()
	require.NoError(t, runParams(&out))
	var doc map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "step", doc["rounding"])
}

func TestRunParams_Write(t *testing.T) {
	dir := setupCmdTest(t)
	paramsWrite = filepath.Join(dir, "starter.yaml")

	var out bytes.Buffer
	require.NoError(t, runParams(&out))
	assert.Contains(t, out.String(), "Wrote ")

	// The written file loads back as an equivalent config.
	viper.Reset()
	cfg, err := config.LoadConfig(paramsWrite)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Parameters.Delivery, cfg.Parameters.Delivery)
}

func TestParseModules(t *testing.T) {
	mods, err := parseModules("delivery, outage")
	require.NoError(t, err)
	assert.Equal(t, []types.Module{types.ModuleDelivery, types.ModuleOutage}, mods)

	mods, err = parseModules("")
	require.NoError(t, err)
	assert.Empty(t, mods)

	_, err = parseModules("delivery,billing")
	assert.Error(t, err)
}

func TestRunInput(t *testing.T) {
	dir := setupCmdTest(t)
	inputModules = "delivery"
	inputOut = filepath.Join(dir, "oct.period.yaml")
	inputScore = true
	viper.Set("format", "json")

	answers := []string{"2025-10"}
	for i := 0; i < types.DistrictCount; i++ {
		answers = append(answers, "95", "93")
	}
	in := iotest.OneByteReader(strings.NewReader(strings.Join(answers, "\n") + "\n"))

	var out bytes.Buffer
	require.NoError(t, runInput(in, &out))
	assert.Contains(t, out.String(), `"period": "2025-10"`)

	p, err := period.Load(inputOut)
	require.NoError(t, err)
	assert.Equal(t, "2025-10", p.Label)
	assert.Equal(t, period.DeliveryRecord{OnTimeRate: 95, SuccessRate: 93}, p.Delivery[types.Renhe])
}

func TestExecute_Version(t *testing.T) {
	setupCmdTest(t)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "districtkpi dev\n", out.String())
}

func TestExecute_ErrorExits(t *testing.T) {
	setupCmdTest(t)
	var stderr bytes.Buffer
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"score", "missing.period.yaml"})

	code := 0
	originalExitFunc := exitFunc
	exitFunc = func(c int) { code = c }
	t.Cleanup(func() {
		exitFunc = originalExitFunc
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	_ = rootCmd.Execute()
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Error: file not found")
}

func TestExecute_ModuleCommandFlags(t *testing.T) {
	dir := setupCmdTest(t)
	path := writeFile(t, filepath.Join(dir, "sep.period.yaml"), deliveryPeriod)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"delivery", path, "-f", "markdown", "--lang", "en"})
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "## Delivery timeliness and success")
	assert.Contains(t, out.String(), "| East")
}
