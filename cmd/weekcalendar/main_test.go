package main

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tartampluch/go-weekcalendar/internal/config"
	"github.com/tartampluch/go-weekcalendar/internal/engine"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    options
		wantErr string
	}{
		{
			name: "Config only",
			args: []string{"calendar.yaml"},
			want: options{configPath: "calendar.yaml", port: config.DefaultPort},
		},
		{
			name: "All flags",
			args: []string{"-year", "2020", "-output", "out.odt", "-ics", "-lang", "en", "-debug", "calendar.yaml"},
			want: options{configPath: "calendar.yaml", year: 2020, output: "out.odt", ics: true, lang: "en", debug: true, port: config.DefaultPort},
		},
		{
			name: "Serve",
			args: []string{"-serve", "-port", "8080", "calendar.yaml"},
			want: options{configPath: "calendar.yaml", serve: true, port: "8080"},
		},
		{
			name: "Version needs no config",
			args: []string{"-version"},
			want: options{version: true, port: config.DefaultPort},
		},
		{name: "Missing config", args: nil, wantErr: config.ErrArgsConfig},
		{name: "Two configs", args: []string{"a.yaml", "b.yaml"}, wantErr: config.ErrArgsConfig},
		{name: "Port not a number", args: []string{"-serve", "-port", "http", "c.yaml"}, wantErr: config.ErrPortNumber},
		{name: "Port out of range", args: []string{"-serve", "-port", "70000", "c.yaml"}, wantErr: config.ErrPortRange},
		{name: "Unknown flag", args: []string{"-nope", "c.yaml"}, wantErr: "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			got, err := parseArgs("weekcalendar", tt.args, &stderr)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseArgs_Help(t *testing.T) {
	var stderr bytes.Buffer
	_, err := parseArgs("weekcalendar", []string{"-h"}, &stderr)
	assert.True(t, errors.Is(err, flag.ErrHelp))
	assert.Contains(t, stderr.String(), "Usage: weekcalendar")
}

func TestRequest_ServeForcesICS(t *testing.T) {
	assert.False(t, options{}.request().ICS)
	assert.True(t, options{ics: true}.request().ICS)
	assert.True(t, options{serve: true}.request().ICS)
}

func TestICSPath(t *testing.T) {
	assert.Equal(t, "calendar-2016.ics", icsPath("calendar-2016.odt"))
	assert.Equal(t, filepath.Join("out", "cal.ics"), icsPath(filepath.Join("out", "cal.odt")))
	assert.Equal(t, "noext.ics", icsPath("noext"))
}

func TestGenerate_WritesFiles(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "calendar.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("year: 2016\nbirthdays:\n  1991-01-11: [Remco]\n"), 0o600))
	output := filepath.Join(dir, "calendar-2016.odt")

	opts := options{configPath: cfgPath, output: output, ics: true}
	require.NoError(t, generate(context.Background(), engine.NewGenerator(), opts))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, config.ODFFileMimetype, zr.File[0].Name)

	rc, err := zr.File[0].Open()
	require.NoError(t, err)
	mt, err := io.ReadAll(rc)
	require.NoError(t, err)
	_ = rc.Close()
	assert.Equal(t, config.ODFMimeType, string(mt))

	ics, err := os.ReadFile(filepath.Join(dir, "calendar-2016.ics"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(ics), "BEGIN:VCALENDAR"))
}

func TestGenerate_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "calendar.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("birthdays:\n  1991-01-11: []\n"), 0o600))

	err := generate(context.Background(), engine.NewGenerator(), options{configPath: cfgPath, output: filepath.Join(dir, "x.odt")})
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "x.odt"))
	assert.True(t, os.IsNotExist(statErr), "no output is written on error")
}

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	printVersion(&buf)
	assert.Contains(t, buf.String(), config.AppName)
	assert.Contains(t, buf.String(), config.Version)
}
