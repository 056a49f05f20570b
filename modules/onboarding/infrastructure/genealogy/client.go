package genealogy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Client is the HTTP client for the genealogy backend. Transport concerns
// (auth headers, interceptors) belong to the host deployment; the client
// only knows paths and shapes.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Branches(ctx context.Context) ([]Branch, error) {
	var out []Branch
	if err := c.getJSON(ctx, "/api/branches", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateHead(ctx context.Context, branchID, headName string) (HeadRecord, error) {
	var out HeadRecord
	req := createHeadRequest{Branch: branchID, HeadName: headName}
	if err := c.sendJSON(ctx, http.MethodPost, "/api/family/create/", req, &out); err != nil {
		return HeadRecord{}, err
	}
	return out, nil
}

func (c *Client) UpdateHead(ctx context.Context, headUUID uuid.UUID, branchID, headName string) error {
	req := createHeadRequest{Branch: branchID, HeadName: headName}
	path := fmt.Sprintf("/api/family/%s/update/", headUUID)
	return c.sendJSON(ctx, http.MethodPatch, path, req, nil)
}

func (c *Client) SearchHeads(ctx context.Context, branchID, query string) ([]HeadRecord, error) {
	var out []HeadRecord
	q := url.Values{}
	q.Set("branch_id", branchID)
	q.Set("search", query)
	if err := c.getJSON(ctx, "/api/family/search/", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateMember(ctx context.Context, p MemberPayload) (int, error) {
	var out idResponse
	if err := c.sendMultipart(ctx, http.MethodPost, "/api/members/", p, &out); err != nil {
		return 0, err
	}
	return out.Data.ID, nil
}

func (c *Client) UpdateMember(ctx context.Context, memberID int, p MemberPayload) error {
	path := fmt.Sprintf("/api/members/%d/", memberID)
	return c.sendMultipart(ctx, http.MethodPatch, path, p, nil)
}

func (c *Client) SearchMembersMini(ctx context.Context, gender, query string) ([]MiniMember, error) {
	var out []MiniMember
	q := url.Values{}
	q.Set("gender", gender)
	q.Set("search", query)
	if err := c.getJSON(ctx, "/api/members/mini/", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateContact(ctx context.Context, p ContactPayload) (int, error) {
	var out idResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/api/contacts/", p, &out); err != nil {
		return 0, err
	}
	return out.Data.ID, nil
}

func (c *Client) UpdateContact(ctx context.Context, contactID int, p ContactPayload) error {
	path := fmt.Sprintf("/api/contacts/%d/", contactID)
	return c.sendJSON(ctx, http.MethodPatch, path, p, nil)
}

func (c *Client) CreateEmployment(ctx context.Context, p EmploymentPayload) (int, error) {
	var out idResponse
	if err := c.sendJSON(ctx, http.MethodPost, "/api/employments/", p, &out); err != nil {
		return 0, err
	}
	return out.Data.ID, nil
}

func (c *Client) UpdateEmployment(ctx context.Context, employmentID int, p EmploymentPayload) error {
	path := fmt.Sprintf("/api/employments/%d/", employmentID)
	return c.sendJSON(ctx, http.MethodPatch, path, p, nil)
}

func (c *Client) MemberPreview(ctx context.Context, headUUID uuid.UUID, memberID int) (MemberPreview, error) {
	var out MemberPreview
	path := fmt.Sprintf("/api/family/%s/member/%d/", headUUID, memberID)
	if err := c.getJSON(ctx, path, nil, &out); err != nil {
		return MemberPreview{}, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	return c.do(req, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "encode payload")
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) sendMultipart(ctx context.Context, method, path string, p MemberPayload, out any) error {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	fields := map[string]string{
		"name":               p.Name,
		"is_deceased":        p.IsDeceased,
		"gender":             p.Gender,
		"date_of_birth":      p.DateOfBirth,
		"head_uuid":          p.HeadUUID.String(),
		"marital_status":     p.MaritalStatus,
		"number_of_children": strconv.Itoa(p.NumberOfChildren),
	}
	optional := map[string]string{
		"date_of_death":       p.DateOfDeath,
		"spouse_name":         p.SpouseName,
		"wedding_anniversary": p.WeddingAnniversary,
		"father_name":         p.FatherName,
		"mother_name":         p.MotherName,
		"children":            p.ChildrenJSON,
	}
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			return errors.Wrap(err, "write multipart field")
		}
	}
	for key, value := range optional {
		if value == "" {
			continue
		}
		if err := w.WriteField(key, value); err != nil {
			return errors.Wrap(err, "write multipart field")
		}
	}
	if err := writeAttachment(w, "personal_photo", p.PersonalPhoto); err != nil {
		return err
	}
	if err := writeAttachment(w, "family_photo", p.FamilyPhoto); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return errors.Wrap(err, "finalize multipart body")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.do(req, out)
}

func writeAttachment(w *multipart.Writer, field string, a *Attachment) error {
	if a == nil {
		return nil
	}
	part, err := w.CreateFormFile(field, a.Filename)
	if err != nil {
		return errors.Wrap(err, "create attachment part")
	}
	if _, err := part.Write(a.Content); err != nil {
		return errors.Wrap(err, "write attachment")
	}
	return nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "genealogy api")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			Status:  resp.StatusCode,
			Message: ExtractMessage(body, resp.StatusCode),
		}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}
