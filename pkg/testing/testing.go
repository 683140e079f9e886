// Package testing moves the working directory of a test binary to the
// module root, so relative paths such as .env and logs/ resolve the same
// way they do for the server. Import it for its side effect:
//
//	import _ "liyu1981.xyz/container-monitor-service/pkg/testing"
package testing

import (
	"os"
	"path/filepath"
	"runtime"
)

func moduleRoot(start string) (string, bool) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func init() {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		panic("pkg/testing: cannot locate source file")
	}
	root, found := moduleRoot(filepath.Dir(filename))
	if !found {
		panic("pkg/testing: go.mod not found above " + filename)
	}
	if err := os.Chdir(root); err != nil {
		panic(err)
	}
}
