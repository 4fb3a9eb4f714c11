package collector

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	"FundAdvisor/internal/model"
)

// Eastmoney endpoints.
const (
	eastmoneyKLineURL  = "https://push2his.eastmoney.com/api/qt/stock/kline/get"
	eastmoneySearchURL = "https://search-api-web.eastmoney.com/search/jsonp"
	eastmoneyIndexURL  = "https://push2.eastmoney.com/api/qt/ulist.np/get"

	// 上证指数、深证成指、创业板指
	indexSecIDs = "1.000001,0.399001,0.399006"
)

const (
	httpTimeout       = 10 * time.Second
	maxRetries        = 3
	retryDelay        = 500 * time.Millisecond
	retryDelay429     = 5 * time.Second
	requestGap        = 200 * time.Millisecond
	requestJitterMS   = 150
	browserUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	eastmoneyReferer  = "https://quote.eastmoney.com/"
)

// EastmoneyFetcher implements Fetcher against the Eastmoney public APIs,
// with request pacing and bounded retry to stay under their rate limits.
type EastmoneyFetcher struct {
	Client *http.Client

	lastReqMu   sync.Mutex
	lastReqTime time.Time
}

// NewEastmoneyFetcher creates a fetcher with optional proxy support.
func NewEastmoneyFetcher(proxyURL string) *EastmoneyFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &EastmoneyFetcher{
		Client: &http.Client{
			Timeout:   httpTimeout,
			Transport: transport,
		},
	}
}

func (f *EastmoneyFetcher) Name() string { return "eastmoney" }

// FetchDailyBars returns up to `days` daily bars for one fund, time-ascending.
func (f *EastmoneyFetcher) FetchDailyBars(ctx context.Context, code string, days int) ([]model.OHLCV, error) {
	endpoint := fmt.Sprintf("%s?secid=%s&klt=101&fqt=1&lmt=%d&end=20500101&fields1=f1,f3&fields2=f51,f52,f53,f54,f55,f56",
		eastmoneyKLineURL, secID(code), days)
	body, err := f.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch klines %s: %w", code, err)
	}

	klines := gjson.GetBytes(body, "data.klines")
	if !klines.Exists() {
		return nil, fmt.Errorf("fetch klines %s: unexpected response shape", code)
	}

	var bars []model.OHLCV
	for _, k := range klines.Array() {
		// "2024-01-02,1.234,1.250,1.260,1.230,123456"
		fields := strings.Split(k.String(), ",")
		if len(fields) < 6 {
			continue
		}
		day, err := time.Parse("2006-01-02", fields[0])
		if err != nil {
			continue
		}
		open, _ := strconv.ParseFloat(fields[1], 64)
		cls, _ := strconv.ParseFloat(fields[2], 64)
		high, _ := strconv.ParseFloat(fields[3], 64)
		low, _ := strconv.ParseFloat(fields[4], 64)
		vol, _ := strconv.ParseFloat(fields[5], 64)
		bars = append(bars, model.OHLCV{Time: day, Open: open, High: high, Low: low, Close: cls, Volume: vol})
	}
	return bars, nil
}

// FetchNewsTitles searches recent news titles for a sector keyword.
func (f *EastmoneyFetcher) FetchNewsTitles(ctx context.Context, keyword string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	param := fmt.Sprintf(`{"uid":"","keyword":%q,"type":["cmsArticleWebOld"],"client":"web","clientVersion":"curr","clientType":"web","param":{"cmsArticleWebOld":{"searchScope":"default","sort":"default","pageIndex":1,"pageSize":%d}}}`,
		keyword, limit)
	endpoint := fmt.Sprintf("%s?cb=cb&param=%s", eastmoneySearchURL, url.QueryEscape(param))
	body, err := f.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch news %q: %w", keyword, err)
	}

	payload := stripJSONP(string(body))
	var titles []string
	for _, t := range gjson.Get(payload, "result.cmsArticleWebOld.#.title").Array() {
		title := stripEmphasis(t.String())
		if title != "" {
			titles = append(titles, title)
		}
	}
	return titles, nil
}

// FetchIndexSnapshot returns a one-line summary of the major indices,
// used as market context for the sentiment advisor.
func (f *EastmoneyFetcher) FetchIndexSnapshot(ctx context.Context) (string, error) {
	endpoint := fmt.Sprintf("%s?secids=%s&fields=f2,f3,f12,f14&fltt=2", eastmoneyIndexURL, indexSecIDs)
	body, err := f.get(ctx, endpoint)
	if err != nil {
		return "", fmt.Errorf("fetch index snapshot: %w", err)
	}

	var parts []string
	for _, item := range gjson.GetBytes(body, "data.diff").Array() {
		name := item.Get("f14").String()
		if name == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s %.2f (%+.2f%%)",
			name, item.Get("f2").Float(), item.Get("f3").Float()))
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("fetch index snapshot: empty response")
	}
	return strings.Join(parts, " | "), nil
}

// get issues a paced GET with bounded retry; 429 gets a longer backoff.
func (f *EastmoneyFetcher) get(ctx context.Context, endpoint string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := retryDelay
			if err, ok := lastErr.(*statusError); ok && err.code == http.StatusTooManyRequests {
				backoff = retryDelay429
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
		if err := f.pace(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", browserUserAgent)
		req.Header.Set("Referer", eastmoneyReferer)
		req.Header.Set("Accept", "application/json, text/plain, */*")

		resp, err := f.Client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = &statusError{code: resp.StatusCode}
			continue
		}
		return body, nil
	}
	return nil, lastErr
}

// pace enforces a minimum gap plus jitter between outbound requests.
func (f *EastmoneyFetcher) pace(ctx context.Context) error {
	f.lastReqMu.Lock()
	elapsed := time.Since(f.lastReqTime)
	f.lastReqMu.Unlock()

	d := requestGap - elapsed + time.Duration(rand.Intn(requestJitterMS+1))*time.Millisecond
	if d > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
		}
	}
	f.lastReqMu.Lock()
	f.lastReqTime = time.Now()
	f.lastReqMu.Unlock()
	return nil
}

type statusError struct{ code int }

func (e *statusError) Error() string { return fmt.Sprintf("http %d", e.code) }

// secID maps a fund code to Eastmoney's market-prefixed id.
func secID(code string) string {
	if strings.HasPrefix(code, "5") || strings.HasPrefix(code, "6") || strings.HasPrefix(code, "9") {
		return "1." + code // Shanghai
	}
	return "0." + code // Shenzhen
}

// stripJSONP unwraps a "cb({...})" response into its JSON payload.
func stripJSONP(s string) string {
	start := strings.Index(s, "(")
	end := strings.LastIndex(s, ")")
	if start < 0 || end <= start {
		return s
	}
	return s[start+1 : end]
}

// stripEmphasis removes the <em> highlight tags the search API injects.
func stripEmphasis(s string) string {
	s = strings.ReplaceAll(s, "<em>", "")
	s = strings.ReplaceAll(s, "</em>", "")
	return strings.TrimSpace(s)
}
