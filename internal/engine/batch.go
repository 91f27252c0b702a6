package engine

import (
	"bytes"
	"context"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/phyten/lintlight/internal/detect"
	"github.com/phyten/lintlight/internal/document"
	"github.com/phyten/lintlight/internal/progress"
	"github.com/phyten/lintlight/internal/rules"
)

type fileJob struct {
	idx  int
	path string
}

type fileOutcome struct {
	res     *FileResult
	skipped bool
	errs    []FileError
}

// RunFiles はファイル・ディレクトリを展開し、ワーカープールで各ファイルに
// Run を適用します。読み込めないファイルは BatchResult.Errors に集約され、
// バイナリや MaxFileBytes を超えるファイルは Skipped として数えます。
func RunFiles(ctx context.Context, table *rules.Table, opts Options) (*BatchResult, error) {
	start := time.Now()
	files, errs := collectFiles(opts)

	workers := opts.Jobs
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > 64 {
		workers = 64
	}

	outcomes := make([]fileOutcome, len(files))
	tracker := progress.NewTracker(len(files), opts.Observer)
	jobs := make(chan fileJob)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				o := scanFile(ctx, table, j.path, opts.MaxFileBytes)
				outcomes[j.idx] = o
				found := 0
				if o.res != nil {
					found = len(o.res.Findings)
				}
				tracker.Step(found)
			}
		}()
	}
	go func() {
		defer close(jobs)
		for i, p := range files {
			select {
			case <-ctx.Done():
				return
			case jobs <- fileJob{idx: i, path: p}:
			}
		}
	}()
	wg.Wait()
	tracker.Finish()

	res := &BatchResult{Files: []FileResult{}}
	for _, o := range outcomes {
		errs = append(errs, o.errs...)
		switch {
		case o.skipped:
			res.Skipped++
		case o.res != nil:
			res.Scanned++
			if len(o.res.Findings) > 0 {
				res.Files = append(res.Files, *o.res)
				res.Total += len(o.res.Findings)
			}
		}
	}
	sort.SliceStable(errs, func(i, j int) bool {
		if errs[i].File == errs[j].File {
			return errs[i].Stage < errs[j].Stage
		}
		return errs[i].File < errs[j].File
	})
	res.Errors = errs
	res.ErrorCount = len(errs)
	res.ElapsedMS = msSince(start)
	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

func scanFile(ctx context.Context, table *rules.Table, path string, maxBytes int) fileOutcome {
	if ctx.Err() != nil {
		return fileOutcome{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fileOutcome{errs: []FileError{newFileError(path, "read", err)}}
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return fileOutcome{skipped: true}
	}
	if maxBytes > 0 && len(data) > maxBytes {
		return fileOutcome{skipped: true}
	}
	text := string(data)
	if !utf8.Valid(data) {
		text = strings.ToValidUTF8(text, "�")
	}
	lang := detect.FromPathAndContent(path, data).Name
	fr, err := ScanText(ctx, table, path, lang, text)
	if err != nil {
		return fileOutcome{errs: []FileError{newFileError(path, "scan", err)}}
	}
	var errs []FileError
	for _, re := range fr.Errors {
		errs = append(errs, FileError{File: path, Stage: "rule " + re.Rule, Message: re.Message})
	}
	return fileOutcome{res: fr, errs: errs}
}

// ScanText runs the table over one in-memory document and flattens the
// result for batch reporting.
func ScanText(ctx context.Context, table *rules.Table, name, lang, text string) (*FileResult, error) {
	snap := document.NewSnapshot(name, lang, 1, text)
	res, err := Run(ctx, snap, table)
	if err != nil {
		return nil, err
	}
	return &FileResult{File: name, Language: lang, Findings: res.Findings, Summaries: res.Summaries, Errors: res.Errors}, nil
}

func newFileError(file, stage string, err error) FileError {
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		msg = "unknown error"
	}
	return FileError{File: file, Stage: stage, Message: msg}
}
