package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	// ErrNothingToDistill is returned when a page has no readable text.
	ErrNothingToDistill = errors.New("page has no readable text")
	// ErrFetchFailed wraps transport and HTTP status failures.
	ErrFetchFailed = errors.New("fetch failed")
)

const (
	maxPageBytes   = 2 << 20
	summaryRatio   = 0.2
	maxSummaryLen  = 12
	minWordLen     = 3
	userAgentValue = "distillr-dev/1.0"
)

// Summary is an extractive digest of a page.
type Summary struct {
	Text string
	// Percent is len(Text) relative to the page text, as a whole number.
	Percent string
}

// Summarizer downloads a page and keeps its most representative sentences.
type Summarizer struct {
	client *http.Client
}

func NewSummarizer(timeout time.Duration) *Summarizer {
	return &Summarizer{client: &http.Client{Timeout: timeout}}
}

// NormalizeURL adds an https scheme to bare hosts and rejects anything that
// is not http(s) with a host.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("missing host")
	}
	return u.String(), nil
}

// Summarize fetches rawURL and distills it.
func (s *Summarizer) Summarize(ctx context.Context, rawURL string) (*Summary, error) {
	text, err := s.fetchText(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	return Distill(text)
}

func (s *Summarizer) fetchText(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", userAgentValue)
	req.Header.Set("Accept", "text/html,text/plain;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d", ErrFetchFailed, resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxPageBytes)

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType == "text/plain" {
		b, err := io.ReadAll(body)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrFetchFailed, err)
		}
		return collapseSpace(string(b)), nil
	}

	return ExtractText(body)
}

// skipped holds elements whose text never belongs to the article.
var skipped = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Noscript: true, atom.Template: true,
	atom.Nav: true, atom.Header: true, atom.Footer: true, atom.Aside: true,
	atom.Form: true, atom.Button: true, atom.Svg: true,
}

var blocks = map[atom.Atom]bool{
	atom.P: true, atom.Li: true, atom.Blockquote: true, atom.Pre: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
}

// ExtractText returns the readable text of an HTML document: paragraphs,
// list items, quotes and headings, one block per line. When the document
// has none of those, all visible body text is returned.
func ExtractText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var out []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skipped[n.DataAtom] {
				return
			}
			if blocks[n.DataAtom] {
				if t := collapseSpace(textOf(n)); t != "" {
					out = append(out, t)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if len(out) == 0 {
		return collapseSpace(textOf(doc)), nil
	}
	return strings.Join(out, "\n"), nil
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && skipped[n.DataAtom] {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Distill keeps the highest scoring sentences of text in their original
// order. A sentence scores the mean document frequency of its words.
func Distill(text string) (*Summary, error) {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil, ErrNothingToDistill
	}

	freq := map[string]int{}
	sentWords := make([][]string, len(sentences))
	for i, s := range sentences {
		sentWords[i] = words(s)
		for _, w := range sentWords[i] {
			freq[w]++
		}
	}

	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, len(sentences))
	for i, ws := range sentWords {
		total := 0
		for _, w := range ws {
			total += freq[w]
		}
		score := 0.0
		if len(ws) > 0 {
			score = float64(total) / float64(len(ws))
		}
		ranked[i] = scored{idx: i, score: score}
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].score > ranked[b].score })

	keep := int(math.Ceil(float64(len(sentences)) * summaryRatio))
	keep = min(max(keep, 1), maxSummaryLen)

	chosen := make([]int, 0, keep)
	for _, r := range ranked[:keep] {
		chosen = append(chosen, r.idx)
	}
	sort.Ints(chosen)

	parts := make([]string, len(chosen))
	for i, idx := range chosen {
		parts[i] = sentences[idx]
	}
	summary := strings.Join(parts, " ")

	original := len(collapseSpace(text))
	percent := int(math.Round(float64(len(summary)) * 100 / float64(original)))
	percent = min(max(percent, 1), 100)

	return &Summary{Text: summary, Percent: strconv.Itoa(percent)}, nil
}

func splitSentences(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = collapseSpace(line)
		start := 0
		for i, r := range line {
			if r != '.' && r != '!' && r != '?' {
				continue
			}
			next := i + 1
			if next < len(line) && line[next] != ' ' {
				continue
			}
			if s := strings.TrimSpace(line[start:next]); s != "" {
				out = append(out, s)
			}
			start = next
		}
		if s := strings.TrimSpace(line[start:]); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func words(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) > minWordLen {
			out = append(out, f)
		}
	}
	return out
}
