package netsuite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dghubble/oauth1"

	"github.com/pragadastech/wms-ai-py2/config"
	"github.com/pragadastech/wms-ai-py2/utils"
)

const pageSize = 1000

// RecordSet maps the upstream record id to its raw payload, accumulated
// across all pages of one fetch. Ids never repeat across pages; if one does,
// the later page wins.
type RecordSet map[string]json.RawMessage

type pageSummary struct {
	TotalPages   int `json:"total_pages"`
	TotalRecords int `json:"total_records"`
}

// PageResponse is one restlet page. Summary is only populated on page 1.
type PageResponse struct {
	Summary *pageSummary               `json:"summary"`
	Data    map[string]json.RawMessage `json:"data"`
}

// Client talks to the NetSuite restlet with OAuth1-signed requests.
type Client struct {
	baseURL  string
	scriptID string
	deployID string
	http     *http.Client
	limiter  <-chan time.Time
}

func NewClient() (*Client, error) {
	cfg := config.GetNetSuiteConfig()
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("netsuite base url is empty")
	}
	if cfg.ConsumerKey == "" || cfg.ConsumerSecret == "" || cfg.TokenID == "" || cfg.TokenSecret == "" {
		return nil, errors.New("netsuite oauth credentials are incomplete")
	}

	oauthConfig := oauth1.Config{
		ConsumerKey:    cfg.ConsumerKey,
		ConsumerSecret: cfg.ConsumerSecret,
		Realm:          cfg.AccountID,
		Signer:         &oauth1.HMAC256Signer{ConsumerSecret: cfg.ConsumerSecret},
	}
	token := oauth1.NewToken(cfg.TokenID, cfg.TokenSecret)
	httpClient := oauthConfig.Client(oauth1.NoContext, token)
	httpClient.Timeout = 60 * time.Second

	rateLimitPerMin := int64(utils.IntFromEnv("NETSUITE_RATE_LIMIT_PER_MIN", 60))
	if rateLimitPerMin <= 0 {
		rateLimitPerMin = 60
	}
	interval := time.Minute / time.Duration(rateLimitPerMin)

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		scriptID: cfg.ScriptID,
		deployID: cfg.DeployID,
		http:     httpClient,
		limiter:  time.Tick(interval),
	}, nil
}

func (c *Client) endpoint(action string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("script", c.scriptID)
	params.Set("deploy", c.deployID)
	params.Set("action", action)
	return c.baseURL + "?" + params.Encode()
}

// FetchPage requests one page of the given action's record set.
func (c *Client) FetchPage(ctx context.Context, action string, pageNumber int) (PageResponse, error) {
	<-c.limiter

	params := url.Values{}
	params.Set("page_size", strconv.Itoa(pageSize))
	params.Set("page_number", strconv.Itoa(pageNumber))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(action, params), nil)
	if err != nil {
		return PageResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return PageResponse{}, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return PageResponse{}, NewUpstreamError(resp.StatusCode,
			fmt.Sprintf("netsuite api error on %s page %d: %s", action, pageNumber, strings.TrimSpace(string(body))))
	}

	var parsed PageResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return PageResponse{}, fmt.Errorf("decode %s page %d: %w", action, pageNumber, err)
	}
	return parsed, nil
}

// UpdateBinCountRecords relays one bin-count payload and returns the raw
// acknowledgment object.
func (c *Client) UpdateBinCountRecords(ctx context.Context, payload interface{}) (json.RawMessage, error) {
	<-c.limiter

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint("update_bin_count_records", nil), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, NewUpstreamError(resp.StatusCode,
			fmt.Sprintf("netsuite bin count update failed: %s", strings.TrimSpace(string(respBody))))
	}

	if len(respBody) == 0 || !json.Valid(respBody) {
		ack, _ := json.Marshal(map[string]string{"raw": string(respBody)})
		return ack, nil
	}
	return respBody, nil
}
