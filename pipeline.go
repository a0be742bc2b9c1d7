package acep

import (
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"io/ioutil"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	acepimage "github.com/bodgit/acep/image"
	"github.com/bodgit/acep/index"
	"github.com/rs/zerolog"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Report describes the outcome of a batch.
type Report struct {
	// Written lists the entries written, in the order they were written.
	Written []index.Assignment
	// Skipped lists the sources left out of the batch.
	Skipped []Skipped
}

// Skipped is a source that could not be converted.
type Skipped struct {
	Source string
	Err    error
}

type job struct {
	pos    int
	source string
}

type converted struct {
	source   string
	basename string
	sha1     string
	payload  []byte
	err      error
}

// Basename returns the name an output entry is given for source, which is
// its filename without the final extension.
func Basename(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func findSources(ctx context.Context, sources []string) (<-chan job, <-chan error, error) {
	out := make(chan job)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for i, source := range sources {
			select {
			case out <- job{pos: i, source: source}:
			case <-ctx.Done():
				errc <- errors.New("conversion cancelled")
				return
			}
		}
	}()
	return out, errc, nil
}

func decodeFile(file string) (image.Image, string, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	h := sha1.New()
	r := io.TeeReader(f, h)
	m, _, err := image.Decode(r)
	if err != nil {
		return nil, "", err
	}
	// Hash whatever the decoder didn't need as well
	if _, err := io.Copy(ioutil.Discard, r); err != nil {
		return nil, "", err
	}

	return m, fmt.Sprintf("%X", h.Sum(nil)), nil
}

func (c *Converter) convertFile(source string) converted {
	result := converted{
		source:   source,
		basename: Basename(source),
	}

	m, sha, err := decodeFile(source)
	if err != nil {
		result.err = err
		return result
	}
	result.sha1 = sha

	if err := acepimage.Validate(m.Bounds()); err != nil {
		result.err = err
		return result
	}

	if c.logger.GetLevel() <= zerolog.DebugLevel {
		c.logger.Debug().Str("source", source).Strs("dominant", dominantColors(m, 5)).Msg("decoded image")
	}

	result.payload, result.err = acepimage.EncodeBytes(m)

	return result
}

func (c *Converter) imageWorker(ctx context.Context, in <-chan job, results []converted) (<-chan error, error) {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for j := range in {
			// Each job owns its own slot so no locking is needed
			results[j.pos] = c.convertFile(j.source)
			if ctx.Err() != nil {
				errc <- ctx.Err()
				return
			}
		}
	}()
	return errc, nil
}

// Every stage reports at most one error on a buffered channel and then
// closes it, so draining them in turn never blocks a stage.
func waitForPipeline(errs ...<-chan error) error {
	var first error
	for _, errc := range errs {
		for err := range errc {
			if err != nil && first == nil {
				first = err
			}
		}
	}
	return first
}

func (c *Converter) skip(report *Report, source string, err error) {
	c.logger.Warn().Str("source", source).Err(err).Msg("skipping image")
	report.Skipped = append(report.Skipped, Skipped{Source: source, Err: err})
}

// Convert dithers every image in sources and writes them to the output
// directory. Images that are missing, cannot be decoded or are not exactly
// the size of the display are skipped and listed in the report; they never
// use up an index. Any other error aborts the batch.
//
// Images already present in the output directory are rewritten under their
// existing index, the rest are appended. Nothing is written if the batch
// would need an index beyond index.MaxIndex.
func (c *Converter) Convert(ctx context.Context, sources []string, opts Options) (*Report, error) {
	report := new(Report)

	var existing []string
	for _, source := range sources {
		if _, err := os.Stat(source); err != nil {
			c.skip(report, source, err)
			continue
		}
		if err := index.CheckBasename(Basename(source)); err != nil {
			c.skip(report, source, err)
			continue
		}
		existing = append(existing, source)
	}

	basenames := make([]string, len(existing))
	for i, source := range existing {
		basenames[i] = Basename(source)
	}
	if err := index.CheckDuplicates(basenames); err != nil {
		return report, err
	}

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	results := make([]converted, len(existing))

	var errcList []<-chan error

	jobs, errc, err := findSources(ctx, existing)
	if err != nil {
		return report, err
	}
	errcList = append(errcList, errc)

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		errc, err := c.imageWorker(ctx, jobs, results)
		if err != nil {
			return report, err
		}
		errcList = append(errcList, errc)
	}

	if err := waitForPipeline(errcList...); err != nil {
		return report, err
	}

	var batch []converted
	for _, r := range results {
		if r.err != nil {
			c.skip(report, r.source, r.err)
			continue
		}
		batch = append(batch, r)
	}

	// Shuffle only what survived, so skipped images don't affect the order
	if opts.Random {
		seed := opts.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rnd := rand.New(rand.NewSource(seed))
		rnd.Shuffle(len(batch), func(i, j int) {
			batch[i], batch[j] = batch[j], batch[i]
		})
	}

	return report, c.write(opts, batch, report)
}

func (c *Converter) write(opts Options, batch []converted, report *Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := readEntries(opts.Output)
	if err != nil {
		return err
	}

	candidates := make([]string, len(batch))
	for i, r := range batch {
		candidates[i] = r.basename
	}

	assignments, err := index.Reconcile(entries, candidates)
	if err != nil {
		return err
	}

	dir, err := filepath.Abs(opts.Output)
	if err != nil {
		return err
	}

	for i, a := range assignments {
		r := batch[i]

		output := filepath.Join(opts.Output, a.Filename(index.Ext))
		if err := writeFile(output, writePayload(r.payload)); err != nil {
			return err
		}

		if opts.Preview {
			if err := writeFile(filepath.Join(opts.Output, a.Filename(index.PreviewExt)), writePreview(r.payload)); err != nil {
				return err
			}
		}

		report.Written = append(report.Written, a)
		c.logger.Info().Int("index", a.Index).Str("basename", a.Basename).Str("output", output).Bool("existing", a.Existing).Msg("wrote image")

		if c.catalog != nil {
			if err := c.catalog.Record(Record{
				Directory: dir,
				Index:     a.Index,
				Basename:  a.Basename,
				Source:    r.source,
				SHA1:      r.sha1,
				Time:      time.Now(),
			}); err != nil {
				return err
			}
		}
	}

	return nil
}
