package main

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

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func testLogger() (*statusLogger, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return newStatusLogger(&out, &errOut), &out, &errOut
}

func relPaths(files []FileEntry) []string {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Rel
	}
	return paths
}

func TestShouldIncludeFile(t *testing.T) {
	t.Parallel()
	cases := []struct {
		rel  string
		want bool
	}{
		{"platformio.ini", true},
		{"src/main.cpp", true},
		{"src/MAIN.CPP", true},
		{"include/sensors/CCS811Sensor.h", true},
		{"src/app.ino", true},
		{"src/notes.txt", true},
		{"src/board.cfg", true},
		{"src/wifi.conf", true},
		{"src/data.yml", true},
		{"src/Makefile", true},
		{"src/LICENSE", true},
		{"src/CMakeLists.txt", true},
		{"src/.gitignore", true},
		{"src/build.c", true},
		{"src/.hidden/inner.c", true},
		{"src/.hidden.cpp", false},
		{"src/.clang-format", false},
		{"src/image.png", false},
		{"src/noext", false},
		{"src/build/ignored.cpp", false},
		{"include/node_modules/pkg.h", false},
		{"src/deep/.git/config.ini", false},
		{"src/.pio/libdeps/x.h", false},
		{"src/.vscode/settings.json", false},
		{"src/__pycache__/x.txt", false},
		{"src/dist/out.c", false},
		{"src/CMakeFiles/x.c", false},
		{"src/.pytest_cache/README.md", false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.rel, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, shouldIncludeFile(tc.rel))
		})
	}
}

func TestScanProjectScenario(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "platformio.ini", "[env:esp32]\n")
	writeFile(t, dir, "include/foo.h", "#pragma once\n")
	writeFile(t, dir, "src/foo.cpp", "int main() {}\n")
	writeFile(t, dir, "src/build/ignored.cpp", "nope\n")
	writeFile(t, dir, ".git/config", "[core]\n")
	writeFile(t, dir, "README.md", "outside the scan set\n")

	log, _, errOut := testLogger()
	files, err := scanProject(dir, scanOptions{}, log)
	require.NoError(t, err)
	assert.Empty(t, errOut.String())

	assert.ElementsMatch(t, []string{"platformio.ini", "include/foo.h", "src/foo.cpp"}, relPaths(files))
	for _, f := range files {
		assert.True(t, strings.HasPrefix(f.Path, dir), f.Path)
	}
}

func TestScanProjectRecordsSizes(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "src/a.c", "12345")
	writeFile(t, dir, "src/empty.h", "")

	log, _, _ := testLogger()
	files, err := scanProject(dir, scanOptions{}, log)
	require.NoError(t, err)
	require.Len(t, files, 2)

	sizes := map[string]int64{}
	for _, f := range files {
		sizes[f.Rel] = f.Size
	}
	assert.Equal(t, int64(5), sizes["src/a.c"])
	assert.Equal(t, int64(0), sizes["src/empty.h"])
}

func TestScanProjectMissingIncludeWarnsOnce(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "src/main.cpp", "void setup() {}\n")

	log, _, errOut := testLogger()
	files, err := scanProject(dir, scanOptions{}, log)
	require.NoError(t, err)

	assert.Equal(t, []string{"src/main.cpp"}, relPaths(files))
	assert.Equal(t, 1, strings.Count(errOut.String(), "Directory 'include' not found in project root"))
	assert.NotContains(t, errOut.String(), "'src'")
}

func TestScanProjectRootMissing(t *testing.T) {
	t.Parallel()
	log, _, _ := testLogger()
	_, err := scanProject(filepath.Join(t.TempDir(), "nope"), scanOptions{}, log)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf), "want NotFoundError, got %v", err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestScanProjectRootIsFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "file.txt", "x")

	log, _, _ := testLogger()
	_, err := scanProject(filepath.Join(dir, "file.txt"), scanOptions{}, log)

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf), "want NotFoundError, got %v", err)
}

func TestScanProjectSkipDirsAtAnyDepth(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "src/keep.cpp", "")
	writeFile(t, dir, "src/a/b/node_modules/x.cpp", "")
	writeFile(t, dir, "include/x/.git/HEAD.h", "")
	writeFile(t, dir, "include/x/.pio/y.h", "")
	writeFile(t, dir, "src/lib/build/out.c", "")

	log, _, _ := testLogger()
	files, err := scanProject(dir, scanOptions{}, log)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/keep.cpp"}, relPaths(files))
}

func TestScanProjectSymlinkLoop(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "src/a.c", "int a;\n")
	if err := os.Symlink(filepath.Join(dir, "src"), filepath.Join(dir, "src", "loop")); err != nil {
		t.Skip("symlinks not supported")
	}

	log, _, errOut := testLogger()
	files, err := scanProject(dir, scanOptions{}, log)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/a.c"}, relPaths(files))
	assert.Contains(t, errOut.String(), "already visited")
}

func TestScanProjectFollowsFileSymlinks(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, "shared/common.h", "#define X 1\n")
	writeFile(t, dir, "src/main.cpp", "")
	if err := os.Symlink(filepath.Join(dir, "shared", "common.h"), filepath.Join(dir, "src", "common.h")); err != nil {
		t.Skip("symlinks not supported")
	}

	log, _, _ := testLogger()
	files, err := scanProject(dir, scanOptions{}, log)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"src/main.cpp", "src/common.h"}, relPaths(files))
}

func TestScanProjectGitignore(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeFile(t, dir, ".gitignore", "generated.cpp\n")
	writeFile(t, dir, "src/main.cpp", "")
	writeFile(t, dir, "src/generated.cpp", "")

	log, _, _ := testLogger()

	files, err := scanProject(dir, scanOptions{}, log)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"src/main.cpp", "src/generated.cpp"}, relPaths(files))

	files, err = scanProject(dir, scanOptions{UseGitignore: true}, log)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/main.cpp"}, relPaths(files))
}
