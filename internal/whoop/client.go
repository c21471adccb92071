package whoop

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
)

const BaseURL = "https://api.prod.whoop.com/developer/v1"

// Records per page. Max allowed by WHOOP.
const pageLimit = 25

// Client is a WHOOP API client
type Client struct {
	httpClient  *http.Client
	rateLimiter *RateLimiter
}

// NewClient creates a new WHOOP API client
func NewClient(tokenSource oauth2.TokenSource) *Client {
	return &Client{
		httpClient:  oauth2.NewClient(context.Background(), tokenSource),
		rateLimiter: NewRateLimiter(),
	}
}

// GetProfile fetches the authenticated user's basic profile
func (c *Client) GetProfile(ctx context.Context) (*Profile, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.get(ctx, "/user/profile/basic", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}

	return &profile, nil
}

// GetAllWorkouts fetches all workouts started after 'start'.
// It handles pagination automatically and respects rate limits.
func (c *Client) GetAllWorkouts(ctx context.Context, start time.Time, onProgress func(fetched int)) ([]Workout, error) {
	var all []Workout
	nextToken := ""

	for {
		page, token, err := c.getWorkoutsPage(ctx, start, nextToken)
		if err != nil {
			return all, err
		}

		all = append(all, page...)

		if onProgress != nil {
			onProgress(len(all))
		}

		if token == "" {
			break
		}
		nextToken = token
	}

	return all, nil
}

// GetAllRecoveries fetches all recovery records created after 'start'
func (c *Client) GetAllRecoveries(ctx context.Context, start time.Time) ([]Recovery, error) {
	var all []Recovery
	nextToken := ""

	for {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return all, err
		}

		resp, err := c.get(ctx, "/recovery", pageParams(start, nextToken))
		if err != nil {
			return all, err
		}

		var body recoveriesResponse
		err = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		if err != nil {
			return all, fmt.Errorf("decoding recoveries: %w", err)
		}

		all = append(all, body.Records...)

		if body.NextToken == "" {
			break
		}
		nextToken = body.NextToken
	}

	return all, nil
}

// GetAllSleeps fetches all sleep records started after 'start'
func (c *Client) GetAllSleeps(ctx context.Context, start time.Time) ([]Sleep, error) {
	var all []Sleep
	nextToken := ""

	for {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return all, err
		}

		resp, err := c.get(ctx, "/activity/sleep", pageParams(start, nextToken))
		if err != nil {
			return all, err
		}

		var body sleepsResponse
		err = json.NewDecoder(resp.Body).Decode(&body)
		resp.Body.Close()
		if err != nil {
			return all, fmt.Errorf("decoding sleeps: %w", err)
		}

		all = append(all, body.Records...)

		if body.NextToken == "" {
			break
		}
		nextToken = body.NextToken
	}

	return all, nil
}

// RateLimitStatus returns the current rate limit status
func (c *Client) RateLimitStatus() (minuteRemaining, dailyRemaining int) {
	return c.rateLimiter.Status()
}

func (c *Client) getWorkoutsPage(ctx context.Context, start time.Time, nextToken string) ([]Workout, string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, "", err
	}

	resp, err := c.get(ctx, "/activity/workout", pageParams(start, nextToken))
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	var body workoutsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, "", fmt.Errorf("decoding workouts: %w", err)
	}

	return body.Records, body.NextToken, nil
}

func pageParams(start time.Time, nextToken string) url.Values {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(pageLimit))
	if !start.IsZero() {
		params.Set("start", start.UTC().Format(time.RFC3339))
	}
	if nextToken != "" {
		params.Set("nextToken", nextToken)
	}
	return params
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	reqURL := BaseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	// Update rate limiter from response headers
	c.rateLimiter.UpdateFromHeaders(resp.Header)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	return resp, nil
}
