package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"ytworkout/errors"
)

// Caption track discovery goes through the Innertube ANDROID /player
// endpoint; track content is served as timedtext XML from the track's
// baseUrl.

const (
	defaultBaseURL   = "https://www.youtube.com"
	playerPath       = "/youtubei/v1/player"
	ytAndroidVersion = "20.10.38"
	ytAndroidUA      = "com.google.android.youtube/" + ytAndroidVersion + " (Linux; U; Android 11) gzip"

	maxPlayerBody    = 3 * 1024 * 1024
	maxTimedtextBody = 512 * 1024
)

// CaptionTrack is one language/version of a video's caption data.
type CaptionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

// IsGenerated reports whether the track is auto-generated speech
// recognition rather than manually authored captions.
func (t CaptionTrack) IsGenerated() bool { return t.Kind == "asr" }

// Segment is one timed line of caption text.
type Segment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Transcript is an ordered sequence of segments from a single track.
type Transcript struct {
	Language  string    `json:"language"`
	Generated bool      `json:"generated"`
	Segments  []Segment `json:"segments"`
}

// JoinText concatenates all segment texts with single-space separators.
func (t *Transcript) JoinText() string {
	parts := make([]string, 0, len(t.Segments))
	for _, seg := range t.Segments {
		if seg.Text != "" {
			parts = append(parts, seg.Text)
		}
	}
	return strings.Join(parts, " ")
}

type Config struct {
	// BaseURL overrides the YouTube origin, for tests.
	BaseURL string
	// Language is the preferred caption track language code.
	Language string
	Timeout  time.Duration
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	language   string
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		language:   cfg.Language,
	}
}

// --- Innertube /player request and response shapes ---

type innertubeReq struct {
	VideoID        string       `json:"videoId"`
	Context        innertubeCtx `json:"context"`
	RacyCheckOk    bool         `json:"racyCheckOk"`
	ContentCheckOk bool         `json:"contentCheckOk"`
}

type innertubeCtx struct {
	Client innertubeClient `json:"client"`
}

type innertubeClient struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	AndroidSdkVersion int    `json:"androidSdkVersion,omitempty"`
	Hl                string `json:"hl,omitempty"`
	Gl                string `json:"gl,omitempty"`
}

type playerResp struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []CaptionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

// ListTracks lists all available caption tracks for a video.
func (c *Client) ListTracks(ctx context.Context, videoID string) ([]CaptionTrack, error) {
	const op = "youtube.ListTracks"

	reqBody, err := json.Marshal(innertubeReq{
		VideoID: videoID,
		Context: innertubeCtx{
			Client: innertubeClient{
				ClientName:        "ANDROID",
				ClientVersion:     ytAndroidVersion,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to encode player request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+playerPath+"?prettyPrint=false", bytes.NewReader(reqBody))
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to build player request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", ytAndroidUA)
	req.Header.Set("X-Youtube-Client-Name", "3")
	req.Header.Set("X-Youtube-Client-Version", ytAndroidVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NoTranscript(op, err, "Error getting transcript")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NoTranscript(op,
			fmt.Errorf("player endpoint returned HTTP %d", resp.StatusCode),
			"Error getting transcript")
	}

	var player playerResp
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPlayerBody)).Decode(&player); err != nil {
		return nil, errors.NoTranscript(op, err, "Error getting transcript")
	}

	if player.Captions == nil {
		reason := "captions unavailable"
		if player.PlayabilityStatus != nil && player.PlayabilityStatus.Reason != "" {
			reason = player.PlayabilityStatus.Reason
		}
		return nil, errors.NoTranscript(op, fmt.Errorf("%s", reason),
			"No transcript available for this video.")
	}

	tracks := player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return nil, errors.NoTranscript(op, nil, "No transcript available for this video.")
	}
	return tracks, nil
}

// selectTrack picks the track to fetch. English-language tracks win over
// any other language, with manual captions preferred over auto-generated
// ones. When no preferred-language track exists the tie-break is the
// lowest language code in lexicographic order, so selection does not
// depend on provider enumeration order.
func selectTrack(tracks []CaptionTrack, language string) CaptionTrack {
	matches := func(code string) bool {
		return code == language || strings.HasPrefix(code, language+"-")
	}

	for _, t := range tracks {
		if matches(t.LanguageCode) && !t.IsGenerated() {
			return t
		}
	}
	for _, t := range tracks {
		if matches(t.LanguageCode) {
			return t
		}
	}

	sorted := make([]CaptionTrack, len(tracks))
	copy(sorted, tracks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LanguageCode < sorted[j].LanguageCode
	})
	return sorted[0]
}

// --- timedtext XML shapes ---

type timedText struct {
	Lines []timedTextLine `xml:"text"`
}

type timedTextLine struct {
	Start    float64 `xml:"start,attr"`
	Duration float64 `xml:"dur,attr"`
	Text     string  `xml:",chardata"`
}

// FetchTrack downloads and parses one caption track.
func (c *Client) FetchTrack(ctx context.Context, track CaptionTrack) (*Transcript, error) {
	const op = "youtube.FetchTrack"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, track.BaseURL, nil)
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to build timedtext request")
	}
	req.Header.Set("User-Agent", ytAndroidUA)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NoTranscript(op, err, "Error getting transcript")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NoTranscript(op,
			fmt.Errorf("timedtext returned HTTP %d", resp.StatusCode),
			"Error getting transcript")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTimedtextBody))
	if err != nil {
		return nil, errors.NoTranscript(op, err, "Error getting transcript")
	}

	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, errors.NoTranscript(op, err, "Error getting transcript")
	}

	segments := make([]Segment, 0, len(tt.Lines))
	for _, line := range tt.Lines {
		text := strings.TrimSpace(html.UnescapeString(line.Text))
		if text == "" {
			continue
		}
		segments = append(segments, Segment{
			Text:     text,
			Start:    line.Start,
			Duration: line.Duration,
		})
	}

	return &Transcript{
		Language:  track.LanguageCode,
		Generated: track.IsGenerated(),
		Segments:  segments,
	}, nil
}

// FetchTranscript lists the video's caption tracks, selects one, and
// fetches it.
func (c *Client) FetchTranscript(ctx context.Context, videoID string) (*Transcript, error) {
	tracks, err := c.ListTracks(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return c.FetchTrack(ctx, selectTrack(tracks, c.language))
}
