package perform

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"github.com/etnz/perform/date"
	"golang.org/x/sync/errgroup"
)

// Pipeline glues resolution, valuation, tracking and comparison together
// over one market snapshot and one valuation window.
//
// Entities are valued independently, so the pipeline fans out one task per
// entity and joins; results are assembled in entity order afterwards, so
// the outcome is deterministic regardless of execution order.
type Pipeline struct {
	Resolver *Resolver
	Market   *MarketData
	// Start is the investment date: benchmark weights are priced here,
	// and the valuation schedule covers the months from Start to End.
	Start date.Date
	End   date.Date
	// Benchmarks are valued through the identical pipeline; their names
	// become the alpha columns of the comparison.
	Benchmarks []BenchmarkSpec
	// Workers bounds the fan-out width; 0 means GOMAXPROCS.
	Workers int
}

// Outcome is everything one run produces: per-entity series and metrics,
// the aligned comparison rows, and the gap report. Entities that failed
// with a ConfigurationError appear in Failed and nowhere else; they never
// abort the rest of the batch.
type Outcome struct {
	Valuations map[string][]Valuation
	Series     []*Series // successful entities, sorted by name
	Metrics    map[string]Metrics
	Rows       []ComparisonRow
	Benchmarks []string // benchmark names in effect, sorted
	Report     *Report
	Failed     map[string]error
}

// SeriesOf returns the series of the entity, nil when the entity failed or
// is unknown.
func (o *Outcome) SeriesOf(entity string) *Series {
	for _, s := range o.Series {
		if s.entity == entity {
			return s
		}
	}
	return nil
}

// job is one entity's unit of work.
type job struct {
	entity   string
	holdings []Holding
	bench    *BenchmarkSpec
}

// result is what one worker hands back to the join.
type result struct {
	entity     string
	valuations []Valuation
	series     *Series
	report     *EntityReport
	err        error
}

// Run values every portfolio and benchmark on the monthly schedule and
// compares the outcomes.
//
// The returned error reports only run-wide failures (broken pipeline
// configuration, cancellation); per-entity ConfigurationErrors land in
// Outcome.Failed with partial results still produced for everyone else.
func (p *Pipeline) Run(ctx context.Context, portfolios []Portfolio) (*Outcome, error) {
	if p.Resolver == nil || p.Market == nil {
		return nil, fmt.Errorf("pipeline needs a resolver and market data")
	}
	schedule := date.Schedule(p.Start, p.End)
	if len(schedule) == 0 {
		return nil, fmt.Errorf("empty valuation schedule: start %s is after end %s", p.Start, p.End)
	}

	// One job per entity. A name declared twice, as two portfolios or as
	// a portfolio and a benchmark, is ambiguous: entities are never
	// merged implicitly, so the name fails entirely and no instance runs.
	count := make(map[string]int)
	for _, pf := range portfolios {
		count[pf.Entity]++
	}
	for _, b := range p.Benchmarks {
		count[b.Name]++
	}
	dupes := make(map[string]error)
	for entity, n := range count {
		if n > 1 {
			dupes[entity] = configErrf(entity, "entity declared %d times in input", n)
		}
	}

	var jobs []job
	for _, pf := range portfolios {
		if count[pf.Entity] > 1 {
			continue
		}
		jobs = append(jobs, job{entity: pf.Entity, holdings: pf.Holdings})
	}
	benchmarks := make([]string, 0, len(p.Benchmarks))
	for i := range p.Benchmarks {
		b := p.Benchmarks[i]
		if count[b.Name] > 1 {
			continue
		}
		benchmarks = append(benchmarks, b.Name)
		jobs = append(jobs, job{entity: b.Name, bench: &b})
	}
	sort.Strings(benchmarks)

	// Fan out one task per entity. Workers share nothing mutable: each
	// builds its own valuations, series and entity report.
	results := make([]result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	if p.Workers > 0 {
		g.SetLimit(p.Workers)
	} else {
		g.SetLimit(runtime.GOMAXPROCS(0))
	}
	for i, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = p.runEntity(j, schedule)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Join: assemble deterministically, in entity order.
	sort.Slice(results, func(i, j int) bool { return results[i].entity < results[j].entity })

	out := &Outcome{
		Valuations: make(map[string][]Valuation),
		Metrics:    make(map[string]Metrics),
		Benchmarks: benchmarks,
		Report:     NewReport(),
		Failed:     dupes,
	}
	for entity, err := range dupes {
		out.Report.Entity(entity).Err = err.Error()
	}
	var benchSeries []*Series
	for _, r := range results {
		out.Report.Merge(r.report)
		if r.err != nil {
			out.Failed[r.entity] = r.err
			continue
		}
		out.Valuations[r.entity] = r.valuations
		out.Series = append(out.Series, r.series)
	}
	for _, b := range benchmarks {
		if s := out.SeriesOf(b); s != nil {
			benchSeries = append(benchSeries, s)
		}
	}
	for _, s := range out.Series {
		out.Metrics[s.entity] = Summarize(s, benchSeries)
	}

	rows, err := Compare(out.Series, benchmarks)
	if err != nil {
		return nil, fmt.Errorf("comparison failed: %w", err)
	}
	out.Rows = rows
	return out, nil
}

// runEntity is one worker's whole job: derive holdings (for benchmarks),
// validate, valuate on every scheduled date, track.
func (p *Pipeline) runEntity(j job, schedule []date.Date) result {
	rep := NewEntityReport(j.entity)
	res := result{entity: j.entity, report: rep}

	pf := Portfolio{Entity: j.entity, Holdings: j.holdings}
	if j.bench != nil {
		var err error
		pf, err = BenchmarkPortfolio(*j.bench, p.Start, p.Resolver, p.Market, rep)
		if err != nil {
			rep.Err = err.Error()
			res.err = err
			return res
		}
		if len(pf.Holdings) == 0 {
			err := configErrf(j.entity, "no constituent could be priced at %s", p.Start)
			rep.Err = err.Error()
			res.err = err
			return res
		}
	}
	if err := ValidatePortfolio(pf); err != nil {
		rep.Err = err.Error()
		res.err = err
		return res
	}

	for _, on := range schedule {
		v := Valuate(pf.Entity, pf.Holdings, on, p.Resolver, p.Market, rep)
		if v.Coverage() == 0 {
			// Zero coverage is not a zero value: nothing could be
			// priced, so the month has no valuation and stays missing.
			rep.MissingMonths = append(rep.MissingMonths, date.MonthOf(on))
			continue
		}
		res.valuations = append(res.valuations, v)
	}

	series, err := Track(j.entity, res.valuations)
	if err != nil {
		rep.Err = err.Error()
		res.err = err
		return res
	}
	res.series = series
	return res
}
