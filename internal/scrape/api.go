package scrape

import (
	"context"
	"encoding/json"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/forumsent/forumsent/internal/config"
	"github.com/forumsent/forumsent/internal/text"
	"github.com/forumsent/forumsent/internal/types"
)

// sectionIDRe matches the numeric section segment of a thread URL, e.g.
// ".../stocks-topic-12345.html".
var sectionIDRe = regexp.MustCompile(`-([0-9]+)(?:\.html)?`)

// ParseSectionID extracts the numeric section identifier the message feed
// needs from a thread URL.
func ParseSectionID(rawURL string) (int, error) {
	m := sectionIDRe.FindStringSubmatch(rawURL)
	if m == nil {
		return 0, &types.InputError{URL: rawURL, Err: types.ErrNoSectionID}
	}
	return strconv.Atoi(m[1])
}

// apiEnvelope is the feed response shape: {data:{list:[...]}}.
type apiEnvelope struct {
	Data struct {
		List []apiMessage `json:"list"`
	} `json:"data"`
}

// apiMessage is one raw feed message. Field names follow the upstream API.
type apiMessage struct {
	Heading    string  `json:"heading"`
	Message    string  `json:"message"`
	URLThread  string  `json:"urlThread"`
	MsgID      flexStr `json:"msg_id"`
	NickName   string  `json:"user_nick_name"`
	UIDNick    string  `json:"uidNickname"`
	EntDate    string  `json:"ent_date"`
	RepostDate string  `json:"repost_date"`
}

// flexStr decodes a JSON value that the feed serves as either a string or
// a number.
type flexStr string

func (f *flexStr) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*f = flexStr(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexStr(n.String())
	return nil
}

// APIBackend pages through the structured message feed directly, bypassing
// HTML parsing entirely.
type APIBackend struct {
	http   *resty.Client
	cfg    *config.APIConfig
	logger *slog.Logger
}

// NewAPIBackend creates the message-feed backend.
func NewAPIBackend(cfg *config.Config, logger *slog.Logger) *APIBackend {
	client := resty.New()
	client.SetBaseURL(cfg.API.BaseURL)
	client.SetTimeout(cfg.Scrape.RequestTimeout)
	if len(cfg.Scrape.UserAgents) > 0 {
		client.SetHeader("User-Agent", cfg.Scrape.UserAgents[0])
	}

	return &APIBackend{
		http:   client,
		cfg:    &cfg.API,
		logger: logger.With("component", "api_backend"),
	}
}

func (b *APIBackend) Type() string { return config.BackendAPI }

// Close releases the HTTP client.
func (b *APIBackend) Close() error {
	b.http.GetClient().CloseIdleConnections()
	return nil
}

// Scrape pages through the feed with an offset/limit scheme. Pagination
// ends on an empty batch or a batch shorter than the requested limit; an
// optional max-messages cap stops early and returns exactly that many.
func (b *APIBackend) Scrape(ctx context.Context, startURL string) ([]types.Post, error) {
	sectionID, err := ParseSectionID(startURL)
	if err != nil {
		return nil, err
	}

	var posts []types.Post
	offset := 0

	for {
		var envelope apiEnvelope
		resp, err := b.http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"section":        "topic",
				"sectionId":      strconv.Itoa(sectionID),
				"limitStart":     strconv.Itoa(offset),
				"limitCount":     strconv.Itoa(b.cfg.LimitCount),
				"msgIdReference": "",
			}).
			SetResult(&envelope).
			Get("")
		if err != nil {
			return posts, &types.FetchError{URL: startURL, Err: err, Retryable: true}
		}
		if resp.IsError() {
			return posts, &types.FetchError{
				URL:        startURL,
				StatusCode: resp.StatusCode(),
				Err:        types.ErrEmptyResponse,
				Retryable:  resp.StatusCode() >= 500,
			}
		}

		batch := envelope.Data.List
		if len(batch) == 0 {
			break
		}
		b.logger.Debug("batch fetched", "section_id", sectionID, "offset", offset, "size", len(batch))

		for _, msg := range batch {
			post, ok := messageToPost(msg, startURL)
			if !ok {
				continue
			}
			posts = append(posts, post)
			if b.cfg.MaxMessages > 0 && len(posts) >= b.cfg.MaxMessages {
				return posts, nil
			}
		}

		offset += b.cfg.LimitCount
		if len(batch) < b.cfg.LimitCount {
			break
		}
	}

	return posts, nil
}

// messageToPost maps one feed message to a Post, dropping messages with
// neither heading nor body.
func messageToPost(msg apiMessage, sourceURL string) (types.Post, bool) {
	heading := text.Clean(msg.Heading)
	body := text.Clean(msg.Message)
	if heading == "" && body == "" {
		return types.Post{}, false
	}

	pageURL := msg.URLThread
	if pageURL == "" {
		pageURL = sourceURL
	}
	author := msg.NickName
	if author == "" {
		author = msg.UIDNick
	}
	postedAt := msg.EntDate
	if postedAt == "" {
		postedAt = msg.RepostDate
	}

	return types.Post{
		SourceURL: sourceURL,
		PageURL:   pageURL,
		PostID:    string(msg.MsgID),
		Author:    author,
		PostedAt:  postedAt,
		Heading:   heading,
		Text:      body,
	}, true
}
