// Package web includes the static web page of the monitoring server.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// DevModeEnv names the environment variable that makes the server read the
// page from the source tree instead of the binary.
const DevModeEnv = "NOCSIM_MONITOR_DEV"

//go:embed dist/*
var staticAssets embed.FS

// GetAssets returns the files of the web page.
func GetAssets() http.FileSystem {
	if isDevelopmentMode() {
		dir := sourceDistDir()
		fmt.Fprintf(os.Stderr, "Serving monitor pages from %s\n", dir)

		return http.Dir(dir)
	}

	dist, err := fs.Sub(staticAssets, "dist")
	if err != nil {
		panic(err)
	}

	return http.FS(dist)
}

func sourceDistDir() string {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		panic("cannot locate the web package source")
	}

	return filepath.Join(filepath.Dir(file), "dist")
}

func isDevelopmentMode() bool {
	v, ok := os.LookupEnv(DevModeEnv)
	if !ok {
		return false
	}

	v = strings.ToLower(v)

	return v == "true" || v == "1"
}
