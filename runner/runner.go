// Copyright 2025 Tamás Gulácsi
//
//
//    Licensed under the Apache License, Version 2.0 (the "License");
//    you may not use this file except in compliance with the License.
//    You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
//    Unless required by applicable law or agreed to in writing, software
//    distributed under the License is distributed on an "AS IS" BASIS,
//    WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//    See the License for the specific language governing permissions and
//    limitations under the License.

package runner

import (
	"context"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/renameio/v2"
	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/UNO-SOFT/fieldcatalog/distribution"
	"github.com/UNO-SOFT/fieldcatalog/genclient"
	"github.com/UNO-SOFT/fieldcatalog/generator"
	"github.com/UNO-SOFT/fieldcatalog/meta"
	"github.com/UNO-SOFT/fieldcatalog/xsd"
)

// Lane is one unit of generator work: an XSD paired with its meta file.
type Lane struct {
	Name     string
	XSDPath  string
	MetaPath string
}

// FullName is the lane name qualified by its parent directory, used to
// disambiguate same-named lanes in different directories.
func (l Lane) FullName() string {
	return filepath.Base(filepath.Dir(l.XSDPath)) + "/" + l.Name
}

// LaneResult is the outcome of running one lane.
type LaneResult struct {
	LaneName          string
	TotalGenerated    int
	TotalSubmitted    int
	TotalObservations int
	Errors            []string
}

// Success reports whether the lane generated at least one document and
// raised no errors.
func (r LaneResult) Success() bool { return len(r.Errors) == 0 && r.TotalGenerated > 0 }

// RunResult aggregates every lane's outcome.
type RunResult struct {
	LanesRun                   int
	LanesSucceeded             int
	TotalXMLsGenerated         int
	TotalObservationsSubmitted int
	LaneResults                []LaneResult
}

// Success reports whether every discovered lane succeeded.
func (r RunResult) Success() bool { return r.LanesRun > 0 && r.LanesSucceeded == r.LanesRun }

// Options configures a Runner.
type Options struct {
	LanesDir         string
	APIURL           string
	Count            int
	DryRun           bool
	OutputDir        string
	Gzip             bool
	FillRateOverride *float64
	Seed             *int64
	Verbose          bool
	// Concurrency bounds how many lanes run at once. <= 0 selects 4.
	Concurrency int
	Log         func(keyvals ...any) error
}

// Runner discovers and runs test lanes.
type Runner struct {
	opts   Options
	client *genclient.Client
}

// New builds a Runner. Unless opts.DryRun is set, a genclient.Client is
// constructed here from opts.APIURL.
func New(opts Options) *Runner {
	if opts.Count <= 0 {
		opts.Count = 10
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	r := &Runner{opts: opts}
	if !opts.DryRun {
		r.client = genclient.New(opts.APIURL, genclient.Options{Log: opts.Log})
	}
	return r
}

// DiscoverLanes walks LanesDir for *.xsd files with a sibling
// "<name>.meta.yaml", sorted by FullName.
func (r *Runner) DiscoverLanes() ([]Lane, error) {
	var lanes []Lane
	err := filepath.WalkDir(r.opts.LanesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".xsd") {
			return nil
		}
		metaPath := strings.TrimSuffix(path, ".xsd") + ".meta.yaml"
		if _, statErr := os.Stat(metaPath); statErr != nil {
			return nil
		}
		lanes = append(lanes, Lane{
			Name:     strings.TrimSuffix(filepath.Base(path), ".xsd"),
			XSDPath:  path,
			MetaPath: metaPath,
		})
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "runner: discover lanes under %s", r.opts.LanesDir)
	}
	sort.Slice(lanes, func(i, j int) bool { return lanes[i].FullName() < lanes[j].FullName() })
	return lanes, nil
}

// RunAll discovers and runs every lane under LanesDir.
func (r *Runner) RunAll(ctx context.Context) (RunResult, error) {
	lanes, err := r.DiscoverLanes()
	if err != nil {
		return RunResult{}, err
	}
	if len(lanes) == 0 {
		return RunResult{}, errors.New("runner: no test lanes found")
	}
	return r.runLanes(ctx, lanes), nil
}

// RunSelected discovers all lanes, then runs only those matching one of
// names (substring match on FullName, or exact match on Name).
func (r *Runner) RunSelected(ctx context.Context, names []string) (RunResult, error) {
	all, err := r.DiscoverLanes()
	if err != nil {
		return RunResult{}, err
	}

	var selected []Lane
	seen := make(map[string]bool)
	for _, name := range names {
		for _, lane := range all {
			if !strings.Contains(lane.FullName(), name) && lane.Name != name {
				continue
			}
			if seen[lane.FullName()] {
				continue
			}
			seen[lane.FullName()] = true
			selected = append(selected, lane)
		}
	}
	if len(selected) == 0 {
		return RunResult{}, errors.New("runner: no matching test lanes found")
	}
	return r.runLanes(ctx, selected), nil
}

// runLanes runs lanes concurrently, bounded by opts.Concurrency, and
// collects per-lane results in discovery order.
func (r *Runner) runLanes(ctx context.Context, lanes []Lane) RunResult {
	if r.client != nil && !r.client.HealthCheck(ctx) {
		r.log("msg", "catalog API may not be reachable", "url", r.opts.APIURL)
	}

	results := make([]LaneResult, len(lanes))
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(r.opts.Concurrency)

	var mu sync.Mutex
	for i, lane := range lanes {
		i, lane := i, lane
		grp.Go(func() error {
			result := r.runLane(gctx, lane)
			mu.Lock()
			results[i] = result
			mu.Unlock()
			return nil
		})
	}
	_ = grp.Wait()

	out := RunResult{LanesRun: len(lanes), LaneResults: results}
	for _, res := range results {
		if res.Success() {
			out.LanesSucceeded++
		}
		out.TotalXMLsGenerated += res.TotalGenerated
		out.TotalObservationsSubmitted += res.TotalObservations
	}
	return out
}

func (r *Runner) runLane(ctx context.Context, lane Lane) LaneResult {
	result := LaneResult{LaneName: lane.FullName()}

	metaCfg, err := meta.Load(lane.MetaPath)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("load meta: %v", err))
		return result
	}

	if r.client != nil {
		if err := r.client.EnsureContextExists(ctx, metaCfg.Context); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("ensure context: %v", err))
			return result
		}
		r.logVerbose("msg", "context ready", "contextId", metaCfg.Context.ContextID)
	}

	schema, err := xsd.ParseFile(lane.XSDPath)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("parse XSD: %v", err))
		return result
	}

	dist := distribution.FromMetaConfig(metaCfg.Generation, r.opts.Seed)
	if r.opts.FillRateOverride != nil {
		dist.OptionalFieldFillRate = *r.opts.FillRateOverride
	}
	gen := generator.New(schema, metaCfg, &dist, r.opts.Seed)

	// Validate against the source XSD itself, not the simplified model.
	validator, err := generator.NewSchemaValidator(lane.XSDPath)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("load validator schema: %v", err))
		return result
	}

	baseMetadata := firstValues(metaCfg.Context.RequiredMetadata)

	for i := 0; i < r.opts.Count; i++ {
		xmlString, err := gen.GenerateString()
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("generate %d: %v", i+1, err))
			continue
		}
		result.TotalGenerated++

		if errs, verr := validator.Validate(xmlString); verr != nil || len(errs) > 0 {
			if verr != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("validate %d: %v", i+1, verr))
			} else {
				result.Errors = append(result.Errors, fmt.Sprintf("XML %d failed validation: %s", i+1, errs[0]))
			}
			continue
		}

		if r.opts.OutputDir != "" {
			if err := r.saveXML(lane, i, xmlString); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("save %d: %v", i+1, err))
			}
		}

		if r.client != nil {
			metadata := randomMetadata(baseMetadata, metaCfg.Context.OptionalMetadata)
			submission := r.client.SubmitXmlObservations(ctx, metaCfg.Context.ContextID, xmlString, metadata)
			if submission.Success {
				result.TotalSubmitted++
				result.TotalObservations += submission.ObservationCount
			} else {
				result.Errors = append(result.Errors, fmt.Sprintf("submit %d: %s", i+1, submission.ErrorMessage))
			}
		} else {
			result.TotalSubmitted++
		}
	}

	r.log("msg", "lane complete", "lane", lane.FullName(), "generated", result.TotalGenerated, "submitted", result.TotalSubmitted)
	return result
}

// saveXML writes one generated document under OutputDir/<lane
// full name>/<lane>_NNNN.xml(.gz), atomically via renameio, following the
// same atomic-write discipline as meta.WriteTemplate.
func (r *Runner) saveXML(lane Lane, index int, xmlString string) error {
	dir := filepath.Join(r.opts.OutputDir, lane.FullName())
	name := fmt.Sprintf("%s_%04d.xml", lane.Name, index+1)
	if r.opts.Gzip {
		name += ".gz"
	}
	path := filepath.Join(dir, name)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "runner: create output dir %s", dir)
	}

	if !r.opts.Gzip {
		return renameio.WriteFile(path, []byte(xmlString), 0o644)
	}

	var buf strings.Builder
	gw := gzip.NewWriter(&buf)
	if _, err := gw.Write([]byte(xmlString)); err != nil {
		return errors.Wrap(err, "runner: gzip generated XML")
	}
	if err := gw.Close(); err != nil {
		return errors.Wrap(err, "runner: gzip generated XML")
	}
	return renameio.WriteFile(path, []byte(buf.String()), 0o644)
}

func (r *Runner) log(keyvals ...any) {
	if r.opts.Log != nil {
		_ = r.opts.Log(keyvals...)
	}
}

func (r *Runner) logVerbose(keyvals ...any) {
	if r.opts.Verbose {
		r.log(keyvals...)
	}
}

func firstValues(m map[string][]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, values := range m {
		if len(values) > 0 {
			out[k] = values[0]
		}
	}
	return out
}

func randomMetadata(base map[string]string, optional map[string][]string) map[string]string {
	metadata := make(map[string]string, len(base)+len(optional))
	for k, v := range base {
		metadata[k] = v
	}
	for k, values := range optional {
		if len(values) > 0 {
			metadata[k] = values[rand.IntN(len(values))]
		}
	}
	return metadata
}
