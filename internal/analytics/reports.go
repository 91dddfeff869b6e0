package analytics

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/billcal/internal/models"
	"github.com/mmynk/billcal/internal/recommend"
)

// Row is one report row as Matomo returns it.
type Row map[string]any

// Overview is the combined payload of /api/matomo.
type Overview struct {
	Summary   Row   `json:"summary"`
	Countries []Row `json:"countries"`
	Pages     []Row `json:"pages"`
}

// VisitsSummary returns the most recent non-empty day of visit metrics, or
// an empty row when the window has no visits.
func (c *Client) VisitsSummary(ctx context.Context, q Query) (Row, error) {
	body, err := c.call(ctx, MethodVisitsSummary, q)
	if err != nil {
		return nil, err
	}
	return latest(body)
}

// Countries returns the visitor country rows of every period in the window.
func (c *Client) Countries(ctx context.Context, q Query) ([]Row, error) {
	body, err := c.call(ctx, MethodCountries, q)
	if err != nil {
		return nil, err
	}
	return flatten(body)
}

// PageURLs returns the page rows of every period in the window.
func (c *Client) PageURLs(ctx context.Context, q Query) ([]Row, error) {
	body, err := c.call(ctx, MethodPageURLs, q)
	if err != nil {
		return nil, err
	}
	return flatten(body)
}

// PageViews returns the page rows as typed page views. Rows without a
// string label are skipped.
func (c *Client) PageViews(ctx context.Context, q Query) ([]models.PageView, error) {
	rows, err := c.PageURLs(ctx, q)
	if err != nil {
		return nil, err
	}
	return PageViewsFromRows(rows), nil
}

// Overview fetches the summary, country and page reports concurrently.
// The first failure cancels the other calls.
func (c *Client) Overview(ctx context.Context, q Query) (*Overview, error) {
	ov := &Overview{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, err := c.VisitsSummary(ctx, q)
		ov.Summary = summary
		return err
	})
	g.Go(func() error {
		countries, err := c.Countries(ctx, q)
		ov.Countries = countries
		return err
	})
	g.Go(func() error {
		pages, err := c.PageURLs(ctx, q)
		ov.Pages = pages
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ov, nil
}

// PageViewsFromRows converts Actions.getPageUrls rows.
func PageViewsFromRows(rows []Row) []models.PageView {
	pages := make([]models.PageView, 0, len(rows))
	for _, r := range rows {
		label, ok := r["label"].(string)
		if !ok {
			continue
		}
		pages = append(pages, models.PageView{
			Label:     label,
			Hits:      number(r["nb_hits"]),
			TimeSpent: number(r["sum_time_spent"]),
			ExitRate:  recommend.ParseExitRate(fmt.Sprint(r["exit_rate"])),
		})
	}
	return pages
}

// flatten accepts either a row array or an object keyed by date whose values
// are row arrays or single rows, and returns every non-empty row in date order.
func flatten(body []byte) ([]Row, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return []Row{}, nil
	}

	if body[0] == '[' {
		var rows []Row
		if err := json.Unmarshal(body, &rows); err != nil {
			return nil, fmt.Errorf("failed to decode report rows: %w", err)
		}
		return nonEmpty(rows), nil
	}

	periods, single, err := decodePeriods(body)
	if err != nil {
		return nil, err
	}
	if single != nil {
		return nonEmpty([]Row{single}), nil
	}

	out := []Row{}
	for _, p := range periods {
		out = append(out, nonEmpty(p.rows)...)
	}
	return out, nil
}

// latest returns the last non-empty period of a date-keyed report.
func latest(body []byte) (Row, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] == '[' {
		rows, err := flatten(body)
		if err != nil || len(rows) == 0 {
			return Row{}, err
		}
		return rows[len(rows)-1], nil
	}

	periods, single, err := decodePeriods(body)
	if err != nil {
		return nil, err
	}
	if single != nil {
		return single, nil
	}
	for i := len(periods) - 1; i >= 0; i-- {
		if rows := nonEmpty(periods[i].rows); len(rows) > 0 {
			return rows[0], nil
		}
	}
	return Row{}, nil
}

type period struct {
	key  string
	rows []Row
}

// decodePeriods splits a JSON object into date-keyed periods sorted by key.
// An object whose values are not all rows or row arrays is itself a single
// row and is returned as such.
func decodePeriods(body []byte) ([]period, Row, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, nil, fmt.Errorf("failed to decode report: %w", err)
	}

	periods := make([]period, 0, len(raw))
	for key, value := range raw {
		value = bytes.TrimSpace(value)
		if len(value) == 0 {
			continue
		}
		switch value[0] {
		case '[':
			var rows []Row
			if err := json.Unmarshal(value, &rows); err != nil {
				return nil, nil, fmt.Errorf("failed to decode report period %s: %w", key, err)
			}
			periods = append(periods, period{key: key, rows: rows})
		case '{':
			var row Row
			if err := json.Unmarshal(value, &row); err != nil {
				return nil, nil, fmt.Errorf("failed to decode report period %s: %w", key, err)
			}
			periods = append(periods, period{key: key, rows: []Row{row}})
		default:
			var row Row
			if err := json.Unmarshal(body, &row); err != nil {
				return nil, nil, fmt.Errorf("failed to decode report row: %w", err)
			}
			return nil, row, nil
		}
	}

	// Matomo keys periods as YYYY-MM-DD (or ranges starting with one),
	// which sort chronologically as strings.
	sort.Slice(periods, func(i, j int) bool { return periods[i].key < periods[j].key })
	return periods, nil, nil
}

func nonEmpty(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if len(r) > 0 {
			out = append(out, r)
		}
	}
	return out
}

// number reads a JSON number that Matomo sometimes sends as a string.
func number(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case json.Number:
		f, _ := n.Float64()
		return f
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
