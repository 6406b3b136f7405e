// Package scanner walks the content tree and reads every regular file
// into memory. Reads run in parallel; results come back sorted by
// path, the deterministic total order the duplicate fold depends on.
package scanner

import (
	"context"
	"os"
	"runtime"
	"sort"

	"github.com/karrick/godirwalk"
	"golang.org/x/sync/errgroup"

	"github.com/mmspanish/healer/pkg/errors"
)

// FileRecord is one source file's path and full contents.
type FileRecord struct {
	Path    string
	Content string
}

// Scan walks root (following symlinks), collects regular files, and
// reads them concurrently. The returned slice is sorted by path.
func Scan(ctx context.Context, root string) ([]FileRecord, error) {
	var paths []string
	err := godirwalk.Walk(root, &godirwalk.Options{
		FollowSymbolicLinks: true,
		Unsorted:            true,
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsRegular() {
				paths = append(paths, path)
			}
			return nil
		},
	})
	if err != nil {
		return nil, errors.WrapIO("walk", root, err)
	}
	sort.Strings(paths)

	records := make([]FileRecord, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := os.ReadFile(path)
			if err != nil {
				return errors.WrapIO("read", path, err)
			}
			records[i] = FileRecord{Path: path, Content: string(content)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}
