// Package support holds the godog step definitions for the CLI suite.
package support

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cucumber/godog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/seung-gu/factset-data-collector/cmd/chartocr/cmd"
	"github.com/seung-gu/factset-data-collector/internal/ocr"
	"github.com/seung-gu/factset-data-collector/internal/testutil"
)

// TestContext carries scenario state: the fixture directory, the last
// command's output and error.
type TestContext struct {
	workDir    string
	lastOutput string
	lastErr    error
}

// NewTestContext creates a scenario context with a fresh working directory.
func NewTestContext() (*TestContext, error) {
	dir, err := os.MkdirTemp("", "chartocr-cli-*")
	if err != nil {
		return nil, fmt.Errorf("creating work dir: %w", err)
	}
	return &TestContext{workDir: dir}, nil
}

// Cleanup removes the scenario working directory.
func (tc *TestContext) Cleanup() error {
	return os.RemoveAll(tc.workDir)
}

// RegisterSteps wires the step definitions into the scenario.
func (tc *TestContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a chart snapshot "([^"]*)" with bars:$`, tc.aChartSnapshotWithBars)
	sc.Step(`^an empty chart directory$`, tc.anEmptyChartDirectory)
	sc.Step(`^I run chartocr with "([^"]*)"$`, tc.iRunChartocrWith)
	sc.Step(`^the command succeeds$`, tc.theCommandSucceeds)
	sc.Step(`^the command fails$`, tc.theCommandFails)
	sc.Step(`^the output contains "([^"]*)"$`, tc.theOutputContains)
	sc.Step(`^the output has (\d+) lines$`, tc.theOutputHasLines)
	sc.Step(`^the file "([^"]*)" exists$`, tc.theFileExists)
}

func (tc *TestContext) aChartSnapshotWithBars(filename string, table *godog.Table) error {
	var bars []testutil.ChartBar
	for i, row := range table.Rows {
		if i == 0 {
			continue // header
		}
		if len(row.Cells) != 3 {
			return fmt.Errorf("expected 3 cells (quarter, eps, fill), got %d", len(row.Cells))
		}
		eps, err := strconv.ParseFloat(row.Cells[1].Value, 64)
		if err != nil {
			return fmt.Errorf("bad eps %q: %w", row.Cells[1].Value, err)
		}
		bars = append(bars, testutil.ChartBar{
			Quarter: row.Cells[0].Value,
			EPS:     eps,
			Solid:   row.Cells[2].Value == "solid",
		})
	}

	img, boxes := testutil.GenerateChartImage(testutil.DefaultChartConfig(bars))
	imagePath := filepath.Join(tc.workDir, filename)
	if err := savePNG(img, imagePath); err != nil {
		return err
	}
	return saveSidecar(boxes, imagePath)
}

func (tc *TestContext) anEmptyChartDirectory() error {
	// A directory with a non-image file only.
	return os.WriteFile(filepath.Join(tc.workDir, "README.txt"), []byte("no charts here"), 0o600)
}

// iRunChartocrWith executes the root command in-process. The placeholder
// {dir} expands to the scenario working directory.
func (tc *TestContext) iRunChartocrWith(argLine string) error {
	argLine = strings.ReplaceAll(argLine, "{dir}", tc.workDir)
	args := strings.Fields(argLine)

	root := cmd.GetRootCommand()
	resetFlags(root)

	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)

	tc.lastErr = root.Execute()
	tc.lastOutput = buf.String()
	return nil
}

func (tc *TestContext) theCommandSucceeds() error {
	if tc.lastErr != nil {
		return fmt.Errorf("command failed: %v\noutput:\n%s", tc.lastErr, tc.lastOutput)
	}
	return nil
}

func (tc *TestContext) theCommandFails() error {
	if tc.lastErr == nil {
		return fmt.Errorf("expected failure, command succeeded with output:\n%s", tc.lastOutput)
	}
	return nil
}

func (tc *TestContext) theOutputContains(want string) error {
	want = strings.ReplaceAll(want, "{dir}", tc.workDir)
	if !strings.Contains(tc.lastOutput, want) {
		return fmt.Errorf("output does not contain %q:\n%s", want, tc.lastOutput)
	}
	return nil
}

func (tc *TestContext) theOutputHasLines(count int) error {
	lines := strings.Split(strings.TrimSpace(tc.lastOutput), "\n")
	if len(lines) != count {
		return fmt.Errorf("expected %d lines, got %d:\n%s", count, len(lines), tc.lastOutput)
	}
	return nil
}

func (tc *TestContext) theFileExists(name string) error {
	path := filepath.Join(tc.workDir, name)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("expected file %s: %w", path, err)
	}
	return nil
}

func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func savePNG(img image.Image, path string) error {
	f, err := os.Create(path) //nolint:gosec // G304: test-controlled path
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return png.Encode(f, img)
}

func saveSidecar(boxes []ocr.TextBox, imagePath string) error {
	data, err := json.Marshal(boxes)
	if err != nil {
		return err
	}
	return os.WriteFile(ocr.SidecarPath(imagePath), data, 0o600)
}
