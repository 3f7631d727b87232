package main

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	reportWidth     = 80
	timestampFormat = "2006-01-02 15:04:05"
	emptyFileMarker = "🗂️  [EMPTY FILE]"
)

var sizePrinter = message.NewPrinter(language.English)

// formatThousands renders n with thousands separators, e.g. 12,345.
func formatThousands(n int64) string {
	return sizePrinter.Sprintf("%d", n)
}

// treeGlyphs are the connectors used to draw the project structure.
type treeGlyphs struct {
	folder string
	branch string
	last   string
	pipe   string
}

var (
	unicodeGlyphs = treeGlyphs{folder: "📁 ", branch: "├── ", last: "└── ", pipe: "│   "}
	asciiGlyphs   = treeGlyphs{folder: "", branch: "|-- ", last: "`-- ", pipe: "|   "}
)

// buildTree draws the included files grouped by parent directory. Root level
// files come first, then one branch per directory in path order.
func buildTree(rootName string, files []FileEntry, g treeGlyphs) string {
	dirs := make(map[string][]string)
	for _, f := range files {
		dir := path.Dir(f.Rel)
		dirs[dir] = append(dirs[dir], path.Base(f.Rel))
	}

	dirNames := make([]string, 0, len(dirs))
	for dir := range dirs {
		dirNames = append(dirNames, dir)
	}
	sort.Slice(dirNames, func(i, j int) bool {
		if dirNames[i] == "." || dirNames[j] == "." {
			return dirNames[i] == "." && dirNames[j] != "."
		}
		return dirNames[i] < dirNames[j]
	})

	var builder strings.Builder
	builder.WriteString(g.folder + rootName + "/")
	for _, dir := range dirNames {
		names := dirs[dir]
		sort.Strings(names)
		if dir == "." {
			for _, name := range names {
				builder.WriteString("\n" + g.branch + name)
			}
			continue
		}
		builder.WriteString("\n" + g.branch + g.folder + dir + "/")
		for i, name := range names {
			connector := g.branch
			if i == len(names)-1 {
				connector = g.last
			}
			builder.WriteString("\n" + g.pipe + connector + name)
		}
	}
	return builder.String()
}

// reportOptions carries everything about a run that shows up in the report
// besides the files themselves.
type reportOptions struct {
	Title       string
	AbsRoot     string
	Generated   time.Time
	GitRevision string
	ShowTokens  bool
}

// loadContents reads every non-empty file once, in order.
func loadContents(files []FileEntry) {
	for i := range files {
		if files[i].Size == 0 || files[i].Loaded {
			continue
		}
		files[i].Content = readFileSafely(files[i].Path)
		files[i].Loaded = true
	}
}

func fileContent(f FileEntry) string {
	if f.Loaded {
		return f.Content
	}
	return readFileSafely(f.Path)
}

func rule(ch string) string {
	return strings.Repeat(ch, reportWidth) + "\n"
}

// renderReport builds the complete report text. files must already be sorted
// with sortEntries; the same slice feeds the tree and the content blocks.
func renderReport(files []FileEntry, opts reportOptions) string {
	var b strings.Builder
	generated := opts.Generated.Format(timestampFormat)
	total := len(files)

	b.WriteString(rule("="))
	b.WriteString(opts.Title + " - CONCATENATED FILES\n")
	b.WriteString(rule("="))
	b.WriteString(fmt.Sprintf("Generated: %s\n", generated))
	b.WriteString(fmt.Sprintf("Project Root: %s\n", opts.AbsRoot))
	if opts.GitRevision != "" {
		b.WriteString(fmt.Sprintf("Git Revision: %s\n", opts.GitRevision))
	}
	b.WriteString(fmt.Sprintf("Total Files: %d\n", total))
	b.WriteString(rule("="))
	b.WriteString("\n")

	b.WriteString("📋 PROJECT STRUCTURE\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	b.WriteString(buildTree(filepath.Base(opts.AbsRoot), files, unicodeGlyphs))
	b.WriteString("\n\n")

	current := Category(-1)
	for i, f := range files {
		category := categoryOf(f.Path)
		if category != current {
			current = category
			b.WriteString(rule("="))
			b.WriteString(fmt.Sprintf("📂 %s FILES\n", strings.ToUpper(category.String())))
			b.WriteString(rule("="))
			b.WriteString("\n")
		}

		writeFileHeader(&b, i+1, total, f, opts.ShowTokens)

		if f.Size == 0 {
			b.WriteString(emptyFileMarker + "\n\n")
		} else {
			content := fileContent(f)
			b.WriteString(content)
			if !strings.HasSuffix(content, "\n") {
				b.WriteString("\n")
			}
		}
		b.WriteString("\n" + rule("─") + "\n")
	}

	b.WriteString(rule("="))
	b.WriteString("END OF CONCATENATED PROJECT FILES\n")
	b.WriteString(rule("="))
	b.WriteString(fmt.Sprintf("Total files processed: %d\n", total))
	if opts.ShowTokens {
		b.WriteString(fmt.Sprintf("Total tokens: %s\n", formatThousands(int64(summarize(files).TotalTokens))))
	}
	b.WriteString(fmt.Sprintf("Generated: %s\n", generated))

	return b.String()
}

func writeFileHeader(b *strings.Builder, index, total int, f FileEntry, showTokens bool) {
	b.WriteString("┌" + strings.Repeat("─", reportWidth-2) + "┐\n")
	b.WriteString(fmt.Sprintf("│ 📄 FILE %3d/%d: %-65s │\n", index, total, f.Rel))
	b.WriteString(fmt.Sprintf("│ 📁 Path: %-66s │\n", filepath.Dir(f.Path)))
	b.WriteString(fmt.Sprintf("│ 📊 Size: %s bytes%-50s │\n", formatThousands(f.Size), ""))
	if showTokens {
		b.WriteString(fmt.Sprintf("│ 🔢 Tokens: %s%-54s │\n", formatThousands(int64(f.TokenCount)), ""))
	}
	b.WriteString("└" + strings.Repeat("─", reportWidth-2) + "┘\n\n")
}

// writeReport replaces the file at outPath with text. The data goes to a
// temporary file in the same directory first, so a failed run never leaves a
// half-written report behind. A symlinked outPath is written through to its
// target, and an existing report keeps its permission bits.
func writeReport(outPath, text string) error {
	target, mode, err := reportTarget(outPath)
	if err != nil {
		return err
	}

	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temporary file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	// CreateTemp always uses 0600.
	if err := os.Chmod(tmpName, mode); err != nil {
		cleanup()
		return fmt.Errorf("setting permissions on %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		cleanup()
		return fmt.Errorf("replacing %s: %w", target, err)
	}
	return nil
}

// reportTarget resolves the file writeReport should replace and the mode the
// new file gets. Fresh reports get 0644, the mode os.Create yields under the
// usual 022 umask.
func reportTarget(outPath string) (string, os.FileMode, error) {
	target := outPath
	if li, err := os.Lstat(outPath); err == nil && li.Mode()&os.ModeSymlink != 0 {
		resolved, err := filepath.EvalSymlinks(outPath)
		if err != nil {
			return "", 0, fmt.Errorf("resolving %s: %w", outPath, err)
		}
		target = resolved
	}

	fi, err := os.Stat(target)
	switch {
	case err == nil && !fi.Mode().IsRegular():
		return "", 0, fmt.Errorf("%s is not a regular file", target)
	case err == nil:
		return target, fi.Mode().Perm(), nil
	case errors.Is(err, os.ErrNotExist):
		return target, 0o644, nil
	default:
		return "", 0, fmt.Errorf("checking %s: %w", target, err)
	}
}
