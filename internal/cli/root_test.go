package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const handURL = "https://www.bridgebase.com/tools/handviewer.html?lin=pn%7CA%7C"

// isolate points every per-user dir at a temp dir and runs from a fresh cwd.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_RUNTIME_DIR", filepath.Join(home, "runtime"))
	t.Setenv("HOME", home)
	t.Setenv("APPDATA", filepath.Join(home, "appdata"))

	work := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(work))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return work
}

func execute(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunDefaultFileEndToEnd(t *testing.T) {
	work := isolate(t)

	code, stdout, stderr := execute(handURL)
	require.Equal(t, 0, code, stderr)

	data, err := os.ReadFile(filepath.Join(work, "hands.lin"))
	require.NoError(t, err)
	assert.Equal(t, "pn|A|", string(data))
	assert.Equal(t, "Successfully created hands.lin\nTotal file size: 5 bytes\n", stdout)
	assert.Empty(t, stderr)
}

func TestRunAppendsToExistingFile(t *testing.T) {
	work := isolate(t)

	code, _, _ := execute(handURL, "deals")
	require.Equal(t, 0, code)

	code, stdout, _ := execute("https://www.bridgebase.com/tools/handviewer.html?lin=md%7C1%7C", "deals")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Successfully appended hand to deals.lin")
	assert.Contains(t, stdout, "Total file size: 11 bytes")

	data, err := os.ReadFile(filepath.Join(work, "deals.lin"))
	require.NoError(t, err)
	assert.Equal(t, "pn|A|\nmd|1|", string(data))
}

func TestRunOverwrite(t *testing.T) {
	work := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(work, "deals.txt"), []byte("stale"), 0o644))

	code, stdout, _ := execute("--overwrite", handURL, "deals.txt")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Successfully overwrote deals.txt")

	data, err := os.ReadFile(filepath.Join(work, "deals.txt"))
	require.NoError(t, err)
	assert.Equal(t, "pn|A|", string(data))
}

func TestRunMissingArgument(t *testing.T) {
	isolate(t)

	code, stdout, stderr := execute()
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout, "Usage:")
	assert.True(t, strings.HasSuffix(stdout, "Error: No URL provided\n"))
	assert.Empty(t, stderr)
}

func TestRunFailures(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"invalid host", []string{"https://example.com/?lin=x"}, "Error: URL must be from bridgebase.com\n"},
		{"missing lin", []string{"https://www.bridgebase.com/tools/handviewer.html"}, "Error: URL must contain 'lin' parameter\n"},
		{"too many args", []string{handURL, "a", "b"}, "Error: accepts at most 2 arg(s), received 3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			work := isolate(t)

			code, stdout, stderr := execute(tt.args...)
			assert.Equal(t, 1, code)
			assert.Empty(t, stdout)
			assert.Equal(t, tt.want, stderr)
			assert.NoFileExists(t, filepath.Join(work, "hands.lin"))
		})
	}
}

func TestRunFilesystemError(t *testing.T) {
	isolate(t)

	code, _, stderr := execute(handURL, filepath.Join("no", "such", "dir", "deals"))
	assert.Equal(t, 1, code)
	assert.True(t, strings.HasPrefix(stderr, "Error: filesystem error"), stderr)
}

func TestRunClipboard(t *testing.T) {
	work := isolate(t)

	orig := readClipboardURL
	readClipboardURL = func() (string, error) { return handURL, nil }
	t.Cleanup(func() { readClipboardURL = orig })

	code, stdout, _ := execute("--clipboard", "club")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "URL from clipboard: "+handURL)
	assert.FileExists(t, filepath.Join(work, "club.lin"))
}

func TestRunClipboardError(t *testing.T) {
	isolate(t)

	orig := readClipboardURL
	readClipboardURL = func() (string, error) { return "", errors.New("clipboard does not contain a valid URL") }
	t.Cleanup(func() { readClipboardURL = orig })

	code, _, stderr := execute("--clipboard")
	assert.Equal(t, 1, code)
	assert.Equal(t, "Error: clipboard does not contain a valid URL\n", stderr)
}

func TestHistoryRecordsConversions(t *testing.T) {
	isolate(t)

	code, stdout, _ := execute("history")
	require.Equal(t, 0, code)
	assert.Equal(t, "No conversions recorded yet.\n", stdout)

	code, _, _ = execute(handURL, "deals")
	require.Equal(t, 0, code)
	code, _, _ = execute("--no-history", handURL, "skipped")
	require.Equal(t, 0, code)

	code, stdout, _ = execute("history")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "deals.lin")
	assert.Contains(t, stdout, "append")
	assert.NotContains(t, stdout, "skipped.lin")

	code, stdout, _ = execute("history", "--clear")
	require.Equal(t, 0, code)
	assert.Equal(t, "Removed 1 entries.\n", stdout)
}

func TestHistoryDisabledBySettings(t *testing.T) {
	isolate(t)
	cfgDir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "bbo2lin")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "settings.json"),
		[]byte(`{"general":{"record_history":false,"lock_writes":false}}`), 0o644))

	code, _, _ := execute(handURL)
	require.Equal(t, 0, code)

	code, stdout, _ := execute("history")
	require.Equal(t, 0, code)
	assert.Equal(t, "No conversions recorded yet.\n", stdout)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "01234567", shortID("0123456789abcdef"))
	assert.Equal(t, "abc", shortID("abc"))
}

func TestRunKeepsLiteralPercent(t *testing.T) {
	work := isolate(t)

	code, _, stderr := execute("https://www.bridgebase.com/tools/hand%viewer.html?lin=an%7C50%25+or+100%+sure%7C")
	require.Equal(t, 0, code, stderr)

	data, err := os.ReadFile(filepath.Join(work, "hands.lin"))
	require.NoError(t, err)
	assert.Equal(t, "an|50% or 100% sure|", string(data))
}

const clubPBN = `[Board "1"]
[Dealer "N"]
[Vulnerable "All"]
[Deal "N:AKQ2.J54.T98.765 J76.AKQ.765.AKQ2 T98.T98.AKQJ.J98 543.7632.432.T43"]
[Board "2"]
[Deal "E:AKQ2.J54.T98.765 J76.AKQ.765.AKQ2 T98.T98.AKQJ.J98 543.7632.432.T43"]
`

func TestPBNCommand(t *testing.T) {
	work := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(work, "club.pbn"), []byte(clubPBN), 0o644))

	code, stdout, stderr := execute("pbn", "club.pbn", "club")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Converted 2 boards from club.pbn\n")
	assert.Contains(t, stdout, "Successfully created club.lin\n")

	data, err := os.ReadFile(filepath.Join(work, "club.lin"))
	require.NoError(t, err)
	lines := strings.Split(string(data), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "qx|o1|md|3ST98HT98DAKQJCJ98,S543H7632D432CT43,SAKQ2HJ54DT98C765,SJ76HAKQD765CAKQ2|sv|b|ah|Board 1|pg||", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "qx|o2|md|4"), lines[1])

	code, stdout, _ = execute("pbn", "club.pbn", "club")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "Successfully appended boards to club.lin\n")

	code, stdout, _ = execute("history")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "club.lin")
}

func TestPBNCommandFailures(t *testing.T) {
	work := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(work, "empty.pbn"), []byte("[Event \"x\"]\n"), 0o644))

	code, _, stderr := execute("pbn", "empty.pbn")
	assert.Equal(t, 1, code)
	assert.Equal(t, "Error: no deals found in PBN input\n", stderr)
	assert.NoFileExists(t, filepath.Join(work, "hands.lin"))

	code, _, stderr = execute("pbn", "missing.pbn")
	assert.Equal(t, 1, code)
	assert.True(t, strings.HasPrefix(stderr, "Error: open missing.pbn"), stderr)

	code, _, _ = execute("pbn")
	assert.Equal(t, 1, code)
}
