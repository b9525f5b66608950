package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client issues the backend's /api operations and normalizes every failure
// into a *Error. It never panics past its own boundary and callers never see
// a raw transport error.
type Client struct {
	endpoint string
	client   *http.Client
}

// NewClient creates a backend client. endpoint is the API base, e.g.
// "http://localhost:5000/api". requestTimeout bounds every call that has no
// explicit per-call deadline.
func NewClient(endpoint string, requestTimeout time.Duration) *Client {
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: requestTimeout},
	}
}

// ListPrinters fetches the available printers. An empty list is a valid
// outcome, distinct from any error.
func (c *Client) ListPrinters(ctx context.Context) ([]PrinterDescriptor, error) {
	var out struct {
		Success  bool                `json:"success"`
		Printers []PrinterDescriptor `json:"printers"`
		Error    string              `json:"error"`
	}
	if err := c.get(ctx, "listPrinters", "/printers", &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, rejected("listPrinters", out.Error)
	}
	if out.Printers == nil {
		out.Printers = []PrinterDescriptor{}
	}
	return out.Printers, nil
}

// PrinterStatus fetches the printer status snapshot. On any failure it
// returns StatusUnknown alongside the error so the caller always has a
// displayable value and stale state never survives a failed fetch.
func (c *Client) PrinterStatus(ctx context.Context) (Status, error) {
	var out struct {
		Success bool   `json:"success"`
		Status  string `json:"status"`
		Error   string `json:"error"`
	}
	if err := c.get(ctx, "printerStatus", "/printer/status", &out); err != nil {
		return StatusUnknown, err
	}
	if !out.Success {
		return StatusUnknown, rejected("printerStatus", out.Error)
	}
	return ParseStatus(out.Status), nil
}

// ListFiles fetches the uploaded files in server order
func (c *Client) ListFiles(ctx context.Context) ([]FileEntry, error) {
	var out struct {
		Success bool        `json:"success"`
		Files   []FileEntry `json:"files"`
		Error   string      `json:"error"`
	}
	if err := c.get(ctx, "listFiles", "/files", &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, rejected("listFiles", out.Error)
	}
	if out.Files == nil {
		out.Files = []FileEntry{}
	}
	return out.Files, nil
}

// UploadFile uploads a single file as multipart field "file". Batch uploads
// are one call per file, sequenced by the caller.
func (c *Client) UploadFile(ctx context.Context, filename string, r io.Reader) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return &Error{Kind: KindTransport, Op: "uploadFile", Err: err}
	}
	if _, err := io.Copy(fw, r); err != nil {
		return &Error{Kind: KindTransport, Op: "uploadFile", Err: err}
	}
	if err := mw.Close(); err != nil {
		return &Error{Kind: KindTransport, Op: "uploadFile", Err: err}
	}

	var out struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := c.do(ctx, "uploadFile", http.MethodPost, "/upload", &body, mw.FormDataContentType(), &out); err != nil {
		return err
	}
	if !out.Success {
		return rejected("uploadFile", out.Error)
	}
	return nil
}

// DeleteFile removes a file by name. The filename is percent-encoded into
// the path.
func (c *Client) DeleteFile(ctx context.Context, filename string) error {
	var out struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	path := "/files/" + url.PathEscape(filename)
	if err := c.do(ctx, "deleteFile", http.MethodDelete, path, nil, "", &out); err != nil {
		return err
	}
	if !out.Success {
		return rejected("deleteFile", out.Error)
	}
	return nil
}

// PrintRequest describes a print submission
type PrintRequest struct {
	Filename  string
	Printer   string
	Copies    int
	PageRange string
}

// SubmitPrintJob submits a print job and returns the backend-assigned job
// id. Copies below 1 default to 1; an empty page range is sent as null,
// meaning no restriction.
func (c *Client) SubmitPrintJob(ctx context.Context, req PrintRequest) (int, error) {
	copies := req.Copies
	if copies < 1 {
		copies = 1
	}
	var pageRange *string
	if req.PageRange != "" {
		pageRange = &req.PageRange
	}

	payload, err := json.Marshal(map[string]interface{}{
		"filename":   req.Filename,
		"printer":    req.Printer,
		"copies":     copies,
		"page_range": pageRange,
	})
	if err != nil {
		return 0, &Error{Kind: KindDecode, Op: "submitPrintJob", Err: err}
	}

	var out struct {
		Success bool `json:"success"`
		Job     struct {
			JobID int `json:"job_id"`
		} `json:"job"`
		Error string `json:"error"`
	}
	if err := c.do(ctx, "submitPrintJob", http.MethodPost, "/print", bytes.NewReader(payload), "application/json", &out); err != nil {
		return 0, err
	}
	if !out.Success {
		return 0, rejected("submitPrintJob", out.Error)
	}
	return out.Job.JobID, nil
}

// ListJobs fetches the spooler's job queue. The call is abandoned with a
// timeout error if no response arrives within timeout.
func (c *Client) ListJobs(ctx context.Context, timeout time.Duration) ([]PrintJob, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var out struct {
		Success bool       `json:"success"`
		Jobs    []PrintJob `json:"cups_jobs"`
		Error   string     `json:"error"`
	}
	if err := c.get(ctx, "listJobs", "/jobs", &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, rejected("listJobs", out.Error)
	}
	if out.Jobs == nil {
		out.Jobs = []PrintJob{}
	}
	return out.Jobs, nil
}

// CancelJob asks the backend to cancel a job
func (c *Client) CancelJob(ctx context.Context, jobID int) error {
	var out struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	path := fmt.Sprintf("/jobs/%d/cancel", jobID)
	if err := c.do(ctx, "cancelJob", http.MethodPost, path, nil, "", &out); err != nil {
		return err
	}
	if !out.Success {
		return rejected("cancelJob", out.Error)
	}
	return nil
}

func (c *Client) get(ctx context.Context, op, path string, out interface{}) error {
	return c.do(ctx, op, http.MethodGet, path, nil, "", out)
}

// do runs one HTTP exchange and decodes the JSON envelope. The backend
// returns its envelope on error statuses too, so the body is decoded
// regardless of the status code.
func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, body)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return &Error{Kind: KindTimeout, Op: op, Err: err}
		}
		return &Error{Kind: KindTransport, Op: op, Err: err}
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if isTimeout(ctx, err) {
			return &Error{Kind: KindTimeout, Op: op, Err: err}
		}
		return &Error{Kind: KindDecode, Op: op, Err: fmt.Errorf("status %d: %w", resp.StatusCode, err)}
	}
	return nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}

func rejected(op, msg string) *Error {
	if msg == "" {
		msg = "request rejected by backend"
	}
	return &Error{Kind: KindRejected, Op: op, Message: msg}
}
