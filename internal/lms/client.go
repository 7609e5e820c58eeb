package lms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client is the HTTP implementation of Service.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.client = hc
	}
}

// WithToken sets the bearer token attached to every request. The session
// provider owns the token; the client only forwards it.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// NewClient creates an HTTP client for the learning service.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("lms base URL is required")
	}
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) GetCourse(ctx context.Context, courseID string) (Course, error) {
	body, err := c.do(ctx, http.MethodGet, "/v1/courses/"+url.PathEscape(courseID), nil)
	if err != nil {
		return Course{}, err
	}

	if err := ValidateCoursePayload(body); err != nil {
		return Course{}, err
	}

	var course Course
	if err := json.Unmarshal(body, &course); err != nil {
		return Course{}, fmt.Errorf("decoding course: %w: %w", ErrNotFound, err)
	}
	return course, nil
}

func (c *Client) GetEnrollment(ctx context.Context, courseID, learnerID string) (Enrollment, error) {
	path := fmt.Sprintf("/v1/courses/%s/enrollment?learner_id=%s",
		url.PathEscape(courseID), url.QueryEscape(learnerID))
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		// The service reports "not enrolled" as a 404 on this endpoint.
		if errors.Is(err, ErrNotFound) {
			return Enrollment{}, fmt.Errorf("learner %s in course %s: %w", learnerID, courseID, ErrNotEnrolled)
		}
		return Enrollment{}, err
	}

	var enr Enrollment
	if err := json.Unmarshal(body, &enr); err != nil {
		return Enrollment{}, fmt.Errorf("decoding enrollment: %w", err)
	}
	return enr, nil
}

func (c *Client) GetProfile(ctx context.Context, learnerID string) (Profile, error) {
	body, err := c.do(ctx, http.MethodGet, "/v1/learners/"+url.PathEscape(learnerID)+"/profile", nil)
	if err != nil {
		return Profile{}, err
	}

	var p Profile
	if err := json.Unmarshal(body, &p); err != nil {
		return Profile{}, fmt.Errorf("decoding profile: %w", err)
	}
	return p, nil
}

func (c *Client) PostLessonProgress(ctx context.Context, courseID, lessonID string, completed bool) (ProgressResult, error) {
	path := fmt.Sprintf("/v1/courses/%s/lessons/%s/progress",
		url.PathEscape(courseID), url.PathEscape(lessonID))
	body, err := c.do(ctx, http.MethodPost, path, map[string]any{
		"completed": completed,
	})
	if err != nil {
		return ProgressResult{}, err
	}

	var res ProgressResult
	if err := json.Unmarshal(body, &res); err != nil {
		return ProgressResult{}, fmt.Errorf("decoding progress result: %w", err)
	}
	return res, nil
}

func (c *Client) StartQuizAttempt(ctx context.Context, quizID string) (Attempt, error) {
	body, err := c.do(ctx, http.MethodPost, "/v1/quizzes/"+url.PathEscape(quizID)+"/attempts", nil)
	if err != nil {
		return Attempt{}, err
	}

	var att Attempt
	if err := json.Unmarshal(body, &att); err != nil {
		return Attempt{}, fmt.Errorf("decoding attempt: %w", err)
	}
	return att, nil
}

func (c *Client) SubmitQuizAttempt(ctx context.Context, attemptID string, answers []QuizAnswer) (GradeResult, error) {
	body, err := c.do(ctx, http.MethodPost, "/v1/attempts/"+url.PathEscape(attemptID)+"/submit", map[string]any{
		"answers": answers,
	})
	if err != nil {
		return GradeResult{}, err
	}

	var res GradeResult
	if err := json.Unmarshal(body, &res); err != nil {
		return GradeResult{}, fmt.Errorf("decoding grade result: %w", err)
	}
	return res, nil
}

func (c *Client) GetRewardsByIDs(ctx context.Context, ids []string) ([]Reward, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	body, err := c.do(ctx, http.MethodGet, "/v1/rewards?ids="+url.QueryEscape(strings.Join(ids, ",")), nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Rewards []Reward `json:"rewards"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding rewards: %w", err)
	}
	return result.Rewards, nil
}

// do issues one request and maps transport and status failures onto the
// package error taxonomy.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrRemoteUnavailable, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %w", ErrRemoteUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s %s: %w", method, path, ErrNotFound)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: %s %s: status %d: %s", ErrRemoteUnavailable, method, path, resp.StatusCode, string(body))
	case resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated:
		return nil, fmt.Errorf("lms API error %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
