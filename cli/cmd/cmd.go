package cmd

import (
	"context"
	"io"
	"iter"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	sourceFilesKey struct{}

	// SourceFiles is the ordered, deduplicated set of prelude scripts.
	SourceFiles interface {
		IsZero() bool
		// All yields each source name with a reader over its content. A file
		// is open only while its reader is being yielded.
		All() iter.Seq2[string, io.Reader]
	}

	sourceFiles struct {
		paths    []string
		hasStdin bool
	}
)

// IsZero reports whether there are no source files.
func (s *sourceFiles) IsZero() bool { return len(s.paths) == 0 && !s.hasStdin }

// All implements [SourceFiles]. Stdin, if present, is yielded last with the
// name "-". Files that can no longer be opened are skipped.
func (s *sourceFiles) All() iter.Seq2[string, io.Reader] {
	return func(yield func(string, io.Reader) bool) {
		for _, path := range s.paths {
			file, err := os.Open(path)
			if err != nil {
				continue
			}

			more := yield(path, file)
			file.Close()

			if !more {
				return
			}
		}

		if s.hasStdin {
			yield(stdinSource, os.Stdin)
		}
	}
}

// fileKey uniquely identifies a file by its device and inode numbers, which
// catches duplicates reached through symlinks or relative paths.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// WithSourceFiles returns a new context.Context holding the prelude scripts
// named by sources.
//
// Duplicates are removed by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" collapse into a single stdin source, placed
// after every regular file.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(ctx, sourceFilesKey{}, buildSourceFiles(sources))
}

func buildSourceFiles(sources []string) SourceFiles {
	if len(sources) == 0 {
		return nil
	}

	var srcs sourceFiles

	seen := make(map[fileKey]struct{})

	stdinKey, stdinOK := fileKey{}, false
	if info, err := os.Stdin.Stat(); err == nil {
		stdinKey, stdinOK = makeFileKey(info)
	}

	for _, src := range sources {
		if src == stdinSource {
			srcs.hasStdin = true

			continue
		}

		path, key, ok := resolveUnique(src, seen)
		if !ok {
			continue
		}

		// Stdin named as a file (e.g. /dev/stdin) is read last as "-".
		if stdinOK && key == stdinKey {
			srcs.hasStdin = true

			continue
		}

		srcs.paths = append(srcs.paths, path)
	}

	if srcs.IsZero() {
		return nil
	}

	return &srcs
}

// resolveUnique resolves path to its canonical location and reports whether
// it names a file not yet in seen.
func resolveUnique(path string, seen map[fileKey]struct{}) (string, fileKey, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fileKey{}, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return "", fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", fileKey{}, false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return "", fileKey{}, false
	}

	if _, exists := seen[key]; exists {
		return "", fileKey{}, false
	}

	seen[key] = struct{}{}

	return resolved, key, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// sourceFilesFrom retrieves the sources stored in ctx by WithSourceFiles.
func sourceFilesFrom(ctx context.Context) SourceFiles {
	r, _ := ctx.Value(sourceFilesKey{}).(SourceFiles)

	return r
}
