package chronos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/odpf/chronosctl/core/job"
	internalErrors "github.com/odpf/chronosctl/internal/errors"
)

const (
	jobsURL       = "scheduler/jobs"
	iso8601URL    = "scheduler/iso8601"
	jobURL        = "scheduler/job/%s"
	killTasksURL  = "scheduler/task/kill/%s"
	contentTypeJS = "application/json"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type chronosRequest struct {
	path   string
	method string
	param  string
	body   []byte
}

// Client talks to the Chronos REST API. Every failure is returned as a
// scheduler call failure wrapping the underlying cause.
type Client struct {
	client   HTTPClient
	host     string
	user     string
	password string
}

func NewClient(httpClient HTTPClient, host, user, password string) *Client {
	return &Client{
		client:   httpClient,
		host:     host,
		user:     user,
		password: password,
	}
}

// List returns every job known to the scheduler, enabled or not
func (c *Client) List(ctx context.Context) (job.Records, error) {
	body, err := c.invoke(ctx, chronosRequest{path: jobsURL, method: http.MethodGet})
	if err != nil {
		return nil, internalErrors.SchedulerCallFailure(job.EntityScheduler, "unable to list jobs", err)
	}
	var records job.Records
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, internalErrors.SchedulerCallFailure(job.EntityScheduler, "unable to list jobs",
			errors.Wrapf(err, "json error: %s", string(body)))
	}
	return records, nil
}

// Add submits a job. Submitting a name that exists replaces that job.
func (c *Client) Add(ctx context.Context, spec *job.CompleteJobSpec) error {
	payload, err := json.Marshal(spec)
	if err != nil {
		return internalErrors.InternalError(job.EntityScheduler, "unable to encode job "+spec.Name, err)
	}
	if _, err := c.invoke(ctx, chronosRequest{path: iso8601URL, method: http.MethodPost, body: payload}); err != nil {
		return internalErrors.SchedulerCallFailure(job.EntityScheduler, "unable to add job "+spec.Name, err)
	}
	return nil
}

// Disable re-submits the job as the scheduler knows it with its disabled
// flag set. Fields this client does not model are kept as they are.
func (c *Client) Disable(ctx context.Context, name string) error {
	body, err := c.invoke(ctx, chronosRequest{path: jobsURL, method: http.MethodGet})
	if err != nil {
		return internalErrors.SchedulerCallFailure(job.EntityScheduler, "unable to disable job "+name, err)
	}
	var jobs []map[string]interface{}
	if err := json.Unmarshal(body, &jobs); err != nil {
		return internalErrors.SchedulerCallFailure(job.EntityScheduler, "unable to disable job "+name,
			errors.Wrapf(err, "json error: %s", string(body)))
	}

	for _, raw := range jobs {
		if raw["name"] != name {
			continue
		}
		raw["disabled"] = true
		payload, err := json.Marshal(raw)
		if err != nil {
			return internalErrors.InternalError(job.EntityScheduler, "unable to encode job "+name, err)
		}
		if _, err := c.invoke(ctx, chronosRequest{path: iso8601URL, method: http.MethodPut, body: payload}); err != nil {
			return internalErrors.SchedulerCallFailure(job.EntityScheduler, "unable to disable job "+name, err)
		}
		return nil
	}
	return internalErrors.NotFound(job.EntityScheduler, fmt.Sprintf("job %s is not known to the scheduler", name))
}

func (c *Client) KillTasks(ctx context.Context, name string) error {
	if _, err := c.invoke(ctx, chronosRequest{path: killTasksURL, method: http.MethodDelete, param: name}); err != nil {
		return internalErrors.SchedulerCallFailure(job.EntityScheduler, "unable to kill tasks of job "+name, err)
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, name string) error {
	if _, err := c.invoke(ctx, chronosRequest{path: jobURL, method: http.MethodDelete, param: name}); err != nil {
		return internalErrors.SchedulerCallFailure(job.EntityScheduler, "unable to delete job "+name, err)
	}
	return nil
}

func (c *Client) invoke(ctx context.Context, r chronosRequest) ([]byte, error) {
	endpoint := c.buildEndPoint(r.path, r.param)
	request, err := http.NewRequestWithContext(ctx, r.method, endpoint, bytes.NewBuffer(r.body))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build http request for %s", endpoint)
	}
	request.Header.Set("Content-Type", contentTypeJS)
	if c.user != "" || c.password != "" {
		request.SetBasicAuth(c.user, c.password)
	}

	resp, err := c.client.Do(request)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to call chronos %s", endpoint)
	}
	var body []byte
	if resp.Body != nil {
		body, err = io.ReadAll(resp.Body)
		resp.Body.Close()
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read chronos response")
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, errors.Errorf("status code received %d on calling %s: %s", resp.StatusCode, endpoint, strings.TrimSpace(string(body)))
	}
	return body, nil
}

func (c *Client) buildEndPoint(path, param string) string {
	base := c.host
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	base = strings.TrimRight(base, "/")
	if param != "" {
		path = fmt.Sprintf(path, url.PathEscape(param))
	}
	return base + "/" + path
}
