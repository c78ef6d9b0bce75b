package streamz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/streamz-cli/streamz/constant"
	"github.com/streamz-cli/streamz/log"
	"github.com/streamz-cli/streamz/network"
	"github.com/streamz-cli/streamz/util"
)

// Content types accepted by GetStream.
const (
	TypeMovies   = "movies"
	TypeEpisodes = "episodes"
)

// deliveryFormat is the adaptive-streaming variant the resolver selects.
const deliveryFormat = "dash"

// widevineKey is the DRM system key under which the license endpoint is nested.
const widevineKey = "com.widevine.alpha"

// Stream resolves playable content into a ResolvedStream through the
// stream-token, player-config and heartbeat exchange. It guarantees token
// freshness itself by calling Login on its Auth before every resolution;
// callers never need to pre-validate.
//
// No step is retried here: each resolution is a strictly sequential chain
// and transient-failure policy belongs to the caller.
type Stream struct {
	auth      *Auth
	endpoints Endpoints
	client    *http.Client
}

// NewStream initialises a resolver bound to the given session manager.
func NewStream(auth *Auth) *Stream {
	return &Stream{
		auth:      auth,
		endpoints: auth.endpoints,
		client:    network.Client,
	}
}

// videoInfo is the player-config response shape, reduced to the fields the
// resolver consumes.
type videoInfo struct {
	Video struct {
		Duration float64 `json:"duration"`
		Metadata struct {
			Title   string `json:"title"`
			Program *struct {
				ID    string `json:"id"`
				Title string `json:"title"`
			} `json:"program"`
		} `json:"metadata"`
		Streams   []streamVariant `json:"streams"`
		Subtitles []struct {
			URL string `json:"url"`
		} `json:"subtitles"`
	} `json:"video"`
	Heartbeat struct {
		Token         string  `json:"token"`
		CorrelationID string  `json:"correlationId"`
		Expiry        float64 `json:"expiry"`
	} `json:"heartbeat"`
}

// streamVariant is one delivery-format encoding offered for a title.
type streamVariant struct {
	Type string `json:"type"`
	URL  string `json:"url"`
	DRM  map[string]struct {
		LicenseURL string `json:"licenseUrl"`
	} `json:"drm"`
}

// GetStream resolves the given content into a playable stream descriptor.
// streamType must be TypeMovies or TypeEpisodes.
func (s *Stream) GetStream(streamType, streamID string) (*ResolvedStream, error) {
	if streamType != TypeMovies && streamType != TypeEpisodes {
		return nil, fmt.Errorf("unknown stream type %q", streamType)
	}

	tokens, err := s.auth.Login(false)
	if err != nil {
		return nil, err
	}

	playerToken, err := s.streamToken(streamType, streamID, tokens)
	if err != nil {
		return nil, err
	}

	info, err := s.videoInfo(streamType, streamID, playerToken)
	if err != nil {
		return nil, err
	}

	variant, err := extractStream(deliveryFormat, info)
	if err != nil {
		return nil, err
	}

	// The heartbeat starts the server-side play session; a failed heartbeat
	// fails the whole resolution.
	if err := s.sendHeartbeat(info.Heartbeat.Token, info.Heartbeat.CorrelationID); err != nil {
		return nil, err
	}

	resolved := &ResolvedStream{
		Title:      info.Video.Metadata.Title,
		Duration:   info.Video.Duration,
		URL:        variant.URL,
		LicenseURL: variant.DRM[widevineKey].LicenseURL,
		Subtitles:  extractSubtitles(info),
	}

	if streamType == TypeEpisodes {
		if program := info.Video.Metadata.Program; program != nil {
			resolved.Program = program.Title
			resolved.ProgramID = program.ID
		}
	}

	return resolved, nil
}

// streamToken requests the short-lived player token scoped to this resolution.
func (s *Stream) streamToken(streamType, streamID string, tokens *AccountStorage) (string, error) {
	var endpoint string
	switch streamType {
	case TypeMovies:
		endpoint = s.endpoints.API + "/streamz/play/movie/" + streamID
	case TypeEpisodes:
		endpoint = s.endpoints.API + "/streamz/play/episode/" + streamID
	}

	log.Debugf("getting stream token from %s", endpoint)

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+tokens.JWTToken)
	if tokens.Profile != "" {
		req.Header.Set("x-dpg-profile", tokens.Profile)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusOK {
		log.Debugf("stream token request returned status %d", resp.StatusCode)
		return "", ErrStreamUnavailable
	}

	var body struct {
		PlayerToken string `json:"playerToken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	if body.PlayerToken == "" {
		return "", ErrStreamUnavailable
	}

	return body.PlayerToken, nil
}

// videoInfo fetches the player configuration using the player token as a
// bearer credential.
func (s *Stream) videoInfo(streamType, streamID, playerToken string) (*videoInfo, error) {
	endpoint := fmt.Sprintf("%s/config/%s/%s?startPosition=0.0&autoPlay=true", s.endpoints.Player, streamType, streamID)
	log.Debugf("getting video info from %s", endpoint)

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", constant.APIKey)
	req.Header.Set("Popcorn-SDK-Version", constant.PopcornSDKVersion)
	req.Header.Set("User-Agent", constant.PlayerUserAgent)
	req.Header.Set("Authorization", "Bearer "+playerToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode == http.StatusForbidden {
		var body struct {
			Type string `json:"type"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, ErrStreamUnavailable
		}
		if body.Type == "videoPlaybackGeoblocked" {
			return nil, ErrStreamGeoblocked
		}
		return nil, ErrStreamUnavailable
	}

	if resp.StatusCode != http.StatusOK {
		log.Debugf("video info request returned status %d", resp.StatusCode)
		return nil, ErrStreamUnavailable
	}

	info := &videoInfo{}
	if err := json.NewDecoder(resp.Body).Decode(info); err != nil {
		return nil, err
	}

	return info, nil
}

// sendHeartbeat notifies the service that playback is about to start.
func (s *Stream) sendHeartbeat(token, correlationID string) error {
	endpoint := s.endpoints.Player + "/config/heartbeat"
	log.Debugf("sending heartbeat to %s", endpoint)

	payload, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPut, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", constant.APIKey)
	req.Header.Set("x-dpg-correlation-id", correlationID)
	req.Header.Set("Popcorn-SDK-Version", constant.PopcornSDKVersion)
	req.Header.Set("User-Agent", constant.PlayerUserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode != http.StatusNoContent {
		log.Debugf("heartbeat returned status %d", resp.StatusCode)
		return ErrStreamUnavailable
	}

	return nil
}

// extractStream returns the variant matching the requested delivery format.
func extractStream(format string, info *videoInfo) (*streamVariant, error) {
	for i := range info.Video.Streams {
		if info.Video.Streams[i].Type == format {
			return &info.Video.Streams[i], nil
		}
	}
	return nil, ErrNoPlayableStream
}

// extractSubtitles collects the subtitle tracks, named after the program and
// title so external players can label them.
func extractSubtitles(info *videoInfo) []Subtitle {
	var subtitles []Subtitle
	for idx, subtitle := range info.Video.Subtitles {
		name := fmt.Sprintf("%s_%d", info.Video.Metadata.Title, idx)
		if program := info.Video.Metadata.Program; program != nil {
			name = fmt.Sprintf("%s - %s", program.Title, name)
		}
		subtitles = append(subtitles, Subtitle{Name: name, URL: subtitle.URL})
	}
	return subtitles
}
