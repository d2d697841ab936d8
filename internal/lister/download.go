package lister

import (
	"path/filepath"
	"strings"

	fsutil "github.com/kk-code-lab/rclaunch/internal/fs"
	"github.com/kk-code-lab/rclaunch/internal/metadata"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DownloadMetadataLister lists partial downloads from the .met records in
// its root. Entries resolve to the partial file next to each record.
type DownloadMetadataLister struct {
	base
}

func NewDownloadMetadata(cfg Config) *DownloadMetadataLister {
	if cfg.Root != "" {
		cfg.Root = filepath.Clean(cfg.Root)
	}
	return &DownloadMetadataLister{base: newBase(cfg)}
}

func (l *DownloadMetadataLister) Kind() Kind { return KindDownloadMetadata }

func (l *DownloadMetadataLister) ListDir(string) []DirEntry {
	children, err := fsutil.ReadDir(l.root)
	if err != nil {
		logrus.WithFields(logrus.Fields{"dir": l.root}).WithError(err).Debug("download directory scan failed")
		return nil
	}

	var records []string
	for _, child := range children {
		if child.IsRegular() && hasMetExtension(child.Name) {
			records = append(records, child.Name)
		}
	}

	// One slot per record keeps the merge free of locking.
	decoded := make([]*DirEntry, len(records))
	var g errgroup.Group
	g.SetLimit(scanWorkers(len(records)))
	for i, name := range records {
		g.Go(func() error {
			decoded[i] = l.decode(name)
			return nil
		})
	}
	_ = g.Wait()

	entries := make([]DirEntry, 0, len(decoded))
	for _, e := range decoded {
		if e != nil {
			entries = append(entries, *e)
		}
	}

	l.collation.Sort(entries)
	return entries
}

func (l *DownloadMetadataLister) decode(recordName string) *DirEntry {
	rec, err := metadata.DecodeFile(filepath.Join(l.root, recordName))
	if err != nil {
		logrus.WithFields(logrus.Fields{"record": recordName}).WithError(err).Debug("record skipped")
		return nil
	}
	if rec.FileName == "" {
		return nil
	}
	rule := l.rules.match(rec.FileName)
	if rule == nil {
		return nil
	}
	return &DirEntry{
		DisplayName: l.rules.displayName(rec.FileName),
		SourceToken: recordName[:len(recordName)-len(metadata.Extension)],
		Association: rule,
	}
}

func hasMetExtension(name string) bool {
	return len(name) > len(metadata.Extension) &&
		strings.EqualFold(name[len(name)-len(metadata.Extension):], metadata.Extension)
}

func (l *DownloadMetadataLister) Back(p string) (string, bool) { return flatBack(p) }

func (l *DownloadMetadataLister) Descend(p, name string) (string, bool) { return flatDescend(p, name) }

func (l *DownloadMetadataLister) ActualFile(_ string, entry DirEntry) string {
	return filepath.Join(l.root, entry.SourceToken)
}
