package main

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngrash/go-nepcal/bstable"
	"github.com/ngrash/go-nepcal/nepcal"
)

// run executes bsconv with args and returns what it wrote to stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runWithClient(t, nil, args...)
}

// runWithClient is run with downloads served by httpClient.
func runWithClient(t *testing.T, httpClient *http.Client, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd(&stdout, &stderr, httpClient)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestConvert(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"to-nepali", "2024-04-13"}, "2081-01-01\n"},
		{[]string{"to-nepali", "1943/4/14"}, "2000-01-01\n"},
		{[]string{"to-gregorian", "2081-01-01"}, "2024-04-13\n"},
		{[]string{"to-gregorian", "2082/6/15"}, "2025-10-01\n"},
		{[]string{"valid", "2081-01-31"}, "true\n"},
		{[]string{"valid", "2081-01-32"}, "false\n"},
		{[]string{"valid", "2091-01-01"}, "false\n"},
		{[]string{"valid", "yesterday"}, "false\n"},
		{[]string{"leap", "2081"}, "true\n"},
		{[]string{"leap", "2080"}, "false\n"},
		{[]string{"month-length", "2081", "4"}, "32\n"},
	}
	for _, c := range cases {
		t.Run(strings.Join(c.args, " "), func(t *testing.T) {
			stdout, _, err := run(t, c.args...)
			require.NoError(t, err)
			assert.Equal(t, c.want, stdout)
		})
	}
}

func TestConvert_Errors(t *testing.T) {
	cases := []struct {
		args    []string
		wantErr error
	}{
		{[]string{"to-gregorian", "2091-01-01"}, nepcal.ErrOutOfRange},
		{[]string{"to-gregorian", "2081-01-32"}, nepcal.ErrOutOfRange},
		{[]string{"to-nepali", "1900-01-01"}, nepcal.ErrOutOfRange},
		{[]string{"to-nepali", "2023-02-29"}, nepcal.ErrMalformedInput},
		{[]string{"to-gregorian", "2081-01"}, nepcal.ErrMalformedInput},
		{[]string{"leap", "twenty"}, nepcal.ErrMalformedInput},
		{[]string{"month-length", "2081", "13"}, nepcal.ErrOutOfRange},
	}
	for _, c := range cases {
		t.Run(strings.Join(c.args, " "), func(t *testing.T) {
			stdout, stderr, err := run(t, c.args...)
			assert.ErrorIs(t, err, c.wantErr)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, "command failed")
		})
	}
}

func TestConvert_WrongArgCount(t *testing.T) {
	_, stderr, err := run(t, "month-length", "2081")
	assert.Error(t, err)
	assert.Contains(t, stderr, "accepts 2 arg(s), received 1")
	assert.Contains(t, stderr, "Usage: bsconv month-length YEAR MONTH")

	_, stderr, err = run(t, "leap", "--bogus", "2081")
	assert.Error(t, err)
	assert.Contains(t, stderr, "unknown flag: --bogus")
}

const smallData = `Start	2000	2430829
End	2001
Year	2000	30 32 31 32 31 30 30 30 29 30 29 31
Year	2001	31 31 32 31 31 31 30 29 30 29 30 30
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDataFlag(t *testing.T) {
	path := writeTemp(t, "small.bsdata", smallData)

	stdout, _, err := run(t, "--data", path, "to-gregorian", "2001-12-30")
	require.NoError(t, err)
	assert.Equal(t, "1945-04-12\n", stdout)

	_, _, err = run(t, "--data", path, "to-gregorian", "2002-01-01")
	assert.ErrorIs(t, err, nepcal.ErrOutOfRange)
}

func TestDataEnv(t *testing.T) {
	t.Setenv("BSCONV_DATA", writeTemp(t, "small.bsdata", smallData))
	stdout, _, err := run(t, "leap", "2081")
	require.NoError(t, err)
	assert.Equal(t, "false\n", stdout)

	t.Setenv("BSCONV_DATA", filepath.Join(t.TempDir(), "missing.bsdata"))
	_, _, err = run(t, "leap", "2081")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDataInvalid(t *testing.T) {
	path := writeTemp(t, "bad.bsdata", "Start 2000 2430829\nEnd 2001\n")
	_, _, err := run(t, "--data", path, "leap", "2000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid year 2000: missing")
}

func TestLogging(t *testing.T) {
	_, stderr, err := run(t, "--log-level", "debug", "--log-format", "json", "to-nepali", "2024-04-13")
	require.NoError(t, err)
	assert.Contains(t, stderr, `"msg":"converted"`)
	assert.Contains(t, stderr, `"nepali":"2081-01-01"`)

	_, stderr, err = run(t, "to-nepali", "2024-04-13")
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestLogging_Invalid(t *testing.T) {
	t.Setenv("BSCONV_LOG_LEVEL", "loud")
	_, stderr, err := run(t, "leap", "2081")
	require.Error(t, err)
	assert.Contains(t, stderr, "invalid log level")

	t.Setenv("BSCONV_LOG_LEVEL", "info")
	_, _, err = run(t, "--log-format", "xml", "leap", "2081")
	assert.ErrorContains(t, err, `invalid log format "xml"`)
}

func TestConfigFile(t *testing.T) {
	cfgPath := writeTemp(t, "bsconv.yaml", "log-level: debug\nlog-format: json\n")
	_, stderr, err := run(t, "--config", cfgPath, "to-gregorian", "2081-01-01")
	require.NoError(t, err)
	assert.Contains(t, stderr, `"gregorian":"2024-04-13"`)

	// Flags take precedence over the config file.
	_, stderr, err = run(t, "--config", cfgPath, "--log-level", "error", "to-gregorian", "2081-01-01")
	require.NoError(t, err)
	assert.Empty(t, stderr)

	_, _, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "leap", "2081")
	assert.ErrorContains(t, err, "read config")
}

// roundTripperFunc is a function that implements the http.RoundTripper interface.
type roundTripperFunc func(*http.Request) (*http.Response, error)

func (fn roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return fn(req)
}

const testURL = "https://calendar.example/bs/calendar.bsdata"

func dataClient(t *testing.T) *http.Client {
	t.Helper()
	data, err := os.ReadFile("../../bstable/calendar.bsdata")
	require.NoError(t, err)

	return &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, testURL, req.URL.String())
		if req.Header.Get("If-None-Match") == "v1" {
			return &http.Response{
				StatusCode: http.StatusNotModified,
				Body:       io.NopCloser(strings.NewReader("")),
			}, nil
		}
		resp := &http.Response{
			StatusCode: http.StatusOK,
			Status:     "200 OK",
			Header:     make(http.Header),
			Body:       io.NopCloser(bytes.NewReader(data)),
		}
		resp.Header.Set("etag", "v1")
		return resp, nil
	})}
}

func TestFetch(t *testing.T) {
	t.Parallel()
	client := dataClient(t)

	out := filepath.Join(t.TempDir(), "calendar.bsdata")
	stdout, _, err := runWithClient(t, client, "fetch", "--data-url", testURL, "--out", out)
	require.NoError(t, err)
	assert.Equal(t, "2000-2090 v1\n", stdout)

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	table, err := bstable.Load(f)
	require.NoError(t, err)
	assert.Equal(t, bstable.Default().File(), table.File())

	// The saved file can be used as data.
	stdout, _, err = run(t, "--data", out, "to-nepali", "2024-04-13")
	require.NoError(t, err)
	assert.Equal(t, "2081-01-01\n", stdout)

	stdout, _, err = runWithClient(t, client, "fetch", "--data-url", testURL, "--etag", "v1")
	require.NoError(t, err)
	assert.Equal(t, "not modified v1\n", stdout)
}

func TestFetch_ClientPerCommand(t *testing.T) {
	t.Parallel()
	failing := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusInternalServerError,
			Status:     "500 Internal Server Error",
			Body:       io.NopCloser(strings.NewReader("")),
		}, nil
	})}

	t.Run("serving", func(t *testing.T) {
		t.Parallel()
		stdout, _, err := runWithClient(t, dataClient(t), "fetch", "--data-url", testURL)
		require.NoError(t, err)
		assert.Equal(t, "2000-2090 v1\n", stdout)
	})
	t.Run("failing", func(t *testing.T) {
		t.Parallel()
		stdout, _, err := runWithClient(t, failing, "fetch", "--data-url", testURL)
		assert.ErrorContains(t, err, "unexpected status: 500 Internal Server Error")
		assert.Empty(t, stdout)
	})
}

func TestFetch_NoURL(t *testing.T) {
	_, _, err := run(t, "fetch")
	assert.ErrorIs(t, err, errNoDataURL)
}
