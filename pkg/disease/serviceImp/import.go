package serviceImp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"farmhub/entities"
	"farmhub/pkg/apierr"
	"farmhub/pkg/disease/service"
)

type fetchFunc func(ctx context.Context, u string, maxBytes int64) ([]byte, error)

const maxRedirects = 5

// httpFetcher gets pages with a client that re-checks every redirect hop
// against allowed.
func httpFetcher(allowed func(host string) bool) fetchFunc {
	client := &http.Client{
		Timeout: 20 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("%w: too many redirects", apierr.ErrBadRequest)
			}
			if !allowed(req.URL.Hostname()) {
				return fmt.Errorf("%w: redirect to %s not allowed", apierr.ErrBadRequest, req.URL.Hostname())
			}
			return nil
		},
	}
	return func(ctx context.Context, u string, maxBytes int64) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %s: status %d", u, resp.StatusCode)
		}
		if resp.ContentLength > maxBytes {
			return nil, fmt.Errorf("page too large")
		}
		if ct := strings.ToLower(resp.Header.Get("Content-Type")); ct != "" && !strings.Contains(ct, "text/html") {
			return nil, fmt.Errorf("unsupported content-type: %s", ct)
		}
		return io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	}
}

func (s *Svc) allowed(host string) bool { return s.allow[strings.ToLower(host)] }

// ImportURL scrapes every HTML table on an allow-listed page whose header
// has a disease column and upserts one disease per row.
func (s *Svc) ImportURL(ctx context.Context, rawURL string) (*service.ImportResult, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("%w: bad url", apierr.ErrBadRequest)
	}
	if !s.allowed(u.Hostname()) {
		return nil, fmt.Errorf("%w: domain not allowed", apierr.ErrBadRequest)
	}
	body, err := s.fetch(ctx, u.String(), s.maxBytes)
	if err != nil {
		return nil, err
	}
	rows, err := parseDiseaseTables(body)
	if err != nil {
		return nil, err
	}
	res := &service.ImportResult{SourceURL: u.String(), Names: []string{}}
	for _, d := range rows {
		d.SourceURL = u.String()
		saved, created, err := s.Upsert(ctx, d)
		if err != nil {
			return nil, err
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
		res.Names = append(res.Names, saved.Name)
	}
	return res, nil
}

func normHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "", "_", "", "-", "", "(s)", "s").Replace(s)
	return s
}

var headerAliases = map[string]string{
	"disease":            "name",
	"diseasename":        "name",
	"name":               "name",
	"scientificname":     "scientific_name",
	"pathogen":           "scientific_name",
	"causalagent":        "scientific_name",
	"crops":              "crops",
	"crop":               "crops",
	"host":               "crops",
	"hosts":              "crops",
	"affectedcrops":      "crops",
	"symptoms":           "symptoms",
	"symptom":            "symptoms",
	"signs":              "symptoms",
	"treatment":          "treatments",
	"treatments":         "treatments",
	"control":            "treatments",
	"management":         "treatments",
	"prevention":         "prevention",
	"preventivemeasures": "prevention",
}

// splitList breaks a cell on semicolons, bullets and line breaks.
func splitList(s string) []string {
	f := func(r rune) bool { return r == ';' || r == '\n' || r == '•' || r == '|' }
	out := []string{}
	for _, p := range strings.FieldsFunc(s, f) {
		if p = strings.Join(strings.Fields(p), " "); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitCrops(s string) []string {
	out := []string{}
	for _, p := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' || r == '\n' }) {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDiseaseTables(body []byte) ([]entities.Disease, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	var out []entities.Disease
	doc.Find("table").Each(func(_ int, tbl *goquery.Selection) {
		cols := map[int]string{}
		tbl.Find("tr").First().Find("th,td").Each(func(i int, cell *goquery.Selection) {
			if k, ok := headerAliases[normHeader(cell.Text())]; ok {
				cols[i] = k
			}
		})
		hasName := false
		for _, k := range cols {
			hasName = hasName || k == "name"
		}
		if !hasName {
			return
		}
		tbl.Find("tr").Slice(1, goquery.ToEnd).Each(func(_ int, tr *goquery.Selection) {
			var d entities.Disease
			tr.Find("td,th").Each(func(i int, cell *goquery.Selection) {
				txt := cellText(cell)
				switch cols[i] {
				case "name":
					d.Name = strings.Join(strings.Fields(txt), " ")
				case "scientific_name":
					d.ScientificName = strings.Join(strings.Fields(txt), " ")
				case "crops":
					d.AffectedCrops = splitCrops(txt)
				case "symptoms":
					d.Symptoms = splitList(txt)
				case "treatments":
					d.Treatments = splitList(txt)
				case "prevention":
					d.PreventiveMeasures = splitList(txt)
				}
			})
			if d.Name != "" && len(d.Symptoms) > 0 {
				out = append(out, d)
			}
		})
	})
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no disease table found", apierr.ErrBadRequest)
	}
	return out, nil
}

// cellText keeps <br> and list items as line breaks.
func cellText(cell *goquery.Selection) string {
	cell.Find("br").ReplaceWithHtml("\n")
	cell.Find("li").Each(func(_ int, li *goquery.Selection) {
		li.AppendHtml("\n")
	})
	return cell.Text()
}
