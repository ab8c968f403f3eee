package format

import (
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/retailgrid/agentsearch/internal/domain/activity"
)

// analyzeActivities classifies the activity trace array and aggregates it into
// an Analysis. Trace entries missing fields are kept with whatever they carry;
// entries that are not objects are skipped. now is used as the queryTime
// fallback for sub-queries whose upstream entry carried no timestamp.
func analyzeActivities(trace gjson.Result, now time.Time, costPerMillion float64) activity.Analysis {
	var (
		records    []activity.Record
		subQueries []activity.SubQuery

		planningOps, searchOps, documents int
		planningIn, planningOut           int
		searchIn, searchOut               int
		totalElapsedMs                    int
	)

	trace.ForEach(func(_, entry gjson.Result) bool {
		if !entry.IsObject() {
			return true
		}

		kind := activity.KindOf(entry.Get("type").String())
		rec := activity.NewRecord(entry.Get("id").String(), kind, recordFields(entry))
		records = append(records, rec)

		if elapsed, ok := rec.ElapsedMs(); ok {
			totalElapsedMs += elapsed
		}

		in, _ := rec.InputTokens()
		out, _ := rec.OutputTokens()

		switch kind {
		case activity.KindPlanning:
			planningOps++
			planningIn += in
			planningOut += out
		case activity.KindSearch:
			searchOps++
			searchIn += in
			searchOut += out

			count, _ := rec.ResultCount()
			documents += count

			if query, ok := rec.Query(); ok && query != "" {
				subQueries = append(subQueries, subQueryOf(&rec, query, now))
			}
		default:
			searchIn += in
			searchOut += out
		}
		return true
	})

	return activity.NewAnalysis(
		records,
		subQueries,
		activity.NewStats(planningOps, searchOps, documents),
		activity.NewTokenUsage(planningIn, planningOut, costPerMillion),
		activity.NewTokenUsage(searchIn, searchOut, costPerMillion),
		totalElapsedMs,
	)
}

// recordFields reads the optional attributes of one trace entry. Token counts
// arrive either flat (inputTokens/outputTokens) or nested under query_plan.
func recordFields(entry gjson.Result) activity.RecordFields {
	var f activity.RecordFields

	if v := entry.Get("query.search"); v.Type == gjson.String {
		f.Query = strPtr(v.String())
	} else if v := entry.Get("query"); v.Type == gjson.String {
		f.Query = strPtr(v.String())
	}
	if v := entry.Get("query.filter"); v.Type == gjson.String {
		f.Filter = strPtr(v.String())
	}
	if v := entry.Get("count"); v.Type == gjson.Number {
		f.ResultCount = intPtr(int(v.Int()))
	}
	if v := entry.Get("elapsedMilliseconds"); v.Type == gjson.Number {
		f.ElapsedMs = intPtr(int(v.Int()))
	}
	if v := entry.Get("queryTime"); v.Type == gjson.String {
		if ts, err := time.Parse(time.RFC3339, v.String()); err == nil {
			f.QueryTime = &ts
		}
	}

	f.InputTokens = tokenCount(entry, "inputTokens")
	f.OutputTokens = tokenCount(entry, "outputTokens")
	return f
}

// tokenCount probes the flat and the nested token count locations.
func tokenCount(entry gjson.Result, field string) *int {
	if v := entry.Get(field); v.Type == gjson.Number {
		return intPtr(int(v.Int()))
	}
	if v := entry.Get("query_plan." + field); v.Type == gjson.Number {
		return intPtr(int(v.Int()))
	}
	return nil
}

func subQueryOf(rec *activity.Record, query string, now time.Time) activity.SubQuery {
	queryTime, ok := rec.QueryTime()
	if !ok {
		queryTime = now
	}
	count, _ := rec.ResultCount()
	elapsed, _ := rec.ElapsedMs()

	return activity.NewSubQuery(rec.ID(), query, purposeOf(query), queryTime, count, elapsed)
}

// purposeOf tags a sub-query with a human-readable purpose guessed from its
// wording. First matching rule wins.
func purposeOf(query string) string {
	q := strings.ToLower(query)
	switch {
	case containsAny(q, "price", "cost", "under", "budget", "cheap"):
		return "price constraint"
	case strings.Contains(q, "color"):
		return "color match"
	case containsAny(q, "size", "fit"):
		return "size match"
	case containsAny(q, "material", "fabric"):
		return "material match"
	}
	return "product lookup"
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
