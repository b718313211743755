package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"fusiondex/pkg/apperr"
	"fusiondex/pkg/models"
	"fusiondex/pkg/utils"
)

// Fusiondex scrapes species pages served at {BaseURL}/{id}/.
type Fusiondex struct {
	BaseURL string
	Client  *http.Client
	Limiter *rate.Limiter
}

func NewFusiondex(cfg utils.ScraperConfig) *Fusiondex {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	return &Fusiondex{
		BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
		Limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

func (s *Fusiondex) Name() string { return "fusiondex" }

func (s *Fusiondex) Fetch(ctx context.Context, id int) (models.Species, error) {
	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx); err != nil {
			return models.Species{}, err
		}
	}

	url := fmt.Sprintf("%s/%d/", s.BaseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.Species{}, fmt.Errorf("fusiondex: build request: %w", err)
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return models.Species{}, fmt.Errorf("fusiondex: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return models.Species{}, apperr.NotFoundf("fusiondex: no page for %d", id)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return models.Species{}, fmt.Errorf("fusiondex: status %d: %s", resp.StatusCode, string(body))
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return models.Species{}, fmt.Errorf("fusiondex: parse html: %w", err)
	}
	sp, err := ParsePage(doc)
	if err != nil {
		return models.Species{}, fmt.Errorf("fusiondex %d: %w", id, err)
	}
	if sp.ID == 0 {
		sp.ID = id
	}
	return sp, nil
}

// ParsePage extracts a species from the main dex entry article of a page.
func ParsePage(doc *html.Node) (models.Species, error) {
	article := findFirst(doc, func(n *html.Node) bool {
		return isElement(n, "article") && hasClass(n, "dex-entry") && hasClass(n, "sprite-variant-main")
	})
	if article == nil {
		return models.Species{}, apperr.NotFoundf("no dex entry article")
	}

	var sp models.Species

	if header := findFirst(article, elementNamed("header")); header != nil {
		if h2 := findFirst(header, elementNamed("h2")); h2 != nil {
			name := textOf(h2)
			if dexID := findFirst(h2, withClass("dex-id")); dexID != nil {
				idText := textOf(dexID)
				sp.ID, _ = strconv.Atoi(strings.TrimSpace(strings.ReplaceAll(idText, "#", "")))
				name = strings.Replace(name, idText, "", 1)
			}
			sp.FullName = strings.TrimSpace(name)
		}
	}

	if types := findFirst(article, func(n *html.Node) bool { return isElement(n, "section") && hasClass(n, "types") }); types != nil {
		for _, t := range findAll(types, withClass("type")) {
			for _, span := range findAll(t, func(n *html.Node) bool {
				return isElement(n, "span") && strings.HasPrefix(attr(n, "class"), "type-")
			}) {
				sp.Types = append(sp.Types, strings.TrimSpace(textOf(span)))
			}
		}
	}

	stats := map[string]*int{
		"base_hp":     &sp.HP,
		"base_atk":    &sp.Attack,
		"base_def":    &sp.Defense,
		"base_sp_atk": &sp.SpecialAttack,
		"base_sp_def": &sp.SpecialDefense,
		"base_spd":    &sp.Speed,
		"total":       &sp.Total,
	}
	forEachTerm(article, "stats", func(class, value string) {
		if dst, ok := stats[class]; ok {
			*dst, _ = strconv.Atoi(value)
		}
	})

	data := map[string]*string{
		"height":   &sp.Height,
		"weight":   &sp.Weight,
		"category": &sp.Category,
	}
	forEachTerm(article, "data", func(class, value string) {
		if dst, ok := data[class]; ok {
			*dst = value
		}
	})
	return sp, nil
}

// forEachTerm walks the dt elements of dl.{list} and pairs each with the
// next following dd sharing its class.
func forEachTerm(root *html.Node, list string, fn func(class, value string)) {
	dl := findFirst(root, func(n *html.Node) bool { return isElement(n, "dl") && hasClass(n, list) })
	if dl == nil {
		return
	}
	for _, dt := range findAll(dl, elementNamed("dt")) {
		class := attr(dt, "class")
		if class == "" {
			continue
		}
		for sib := dt.NextSibling; sib != nil; sib = sib.NextSibling {
			if isElement(sib, "dd") && attr(sib, "class") == class {
				fn(class, strings.TrimSpace(textOf(sib)))
				break
			}
		}
	}
}
