package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"user-console/internal/model"
	"user-console/prometheus"
)

// UsersClient talks to the remote users REST API. All side effects are
// confined to network I/O; the record store is mutated by the caller
// and only after an operation here reports success.
type UsersClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewUsersClient creates a client for the given base URL.
func NewUsersClient(baseURL string, timeout time.Duration) *UsersClient {
	return &UsersClient{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// apiAddress and apiCompany mirror the nested shape the remote uses on
// reads. Created records are echoed back flat, so apiUser carries both
// forms and flatten() prefers the nested one when present.
type apiAddress struct {
	Street string `json:"street"`
	City   string `json:"city"`
}

type apiCompany struct {
	Name string `json:"name"`
}

type apiUser struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone"`
	Website     string      `json:"website"`
	Street      string      `json:"street"`
	City        string      `json:"city"`
	CompanyName string      `json:"companyName"`
	Address     *apiAddress `json:"address,omitempty"`
	Company     *apiCompany `json:"company,omitempty"`
}

func (u apiUser) flatten() model.User {
	out := model.User{
		ID:          u.ID,
		Name:        u.Name,
		Username:    u.Username,
		Email:       u.Email,
		Phone:       u.Phone,
		Website:     u.Website,
		Street:      u.Street,
		City:        u.City,
		CompanyName: u.CompanyName,
	}
	if u.Address != nil {
		out.Street = u.Address.Street
		out.City = u.Address.City
	}
	if u.Company != nil {
		out.CompanyName = u.Company.Name
	}
	return out
}

// createPayload is the flat body POSTed on create; the draft carries no
// ID because identifiers are assigned by the remote.
type createPayload struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Website     string `json:"website"`
	CompanyName string `json:"companyName"`
	Phone       string `json:"phone"`
	Street      string `json:"street"`
	City        string `json:"city"`
	Username    string `json:"username"`
}

// FetchAll retrieves the full user list.
func (c *UsersClient) FetchAll(ctx context.Context) ([]model.User, error) {
	start := time.Now()
	resp, err := c.do(ctx, http.MethodGet, "/users", nil)
	if err != nil {
		prometheus.ObserveRemoteRequest("fetch_all", "network_error", time.Since(start))
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	var wire []apiUser
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		prometheus.ObserveRemoteRequest("fetch_all", "decode_error", time.Since(start))
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	users := make([]model.User, 0, len(wire))
	for _, w := range wire {
		users = append(users, w.flatten())
	}
	prometheus.ObserveRemoteRequest("fetch_all", "success", time.Since(start))
	return users, nil
}

// FetchOne retrieves a single user by ID. A non-success status is
// reported as ErrNotFound.
func (c *UsersClient) FetchOne(ctx context.Context, id int) (*model.User, error) {
	start := time.Now()
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil)
	if err != nil {
		prometheus.ObserveRemoteRequest("fetch_one", "network_error", time.Since(start))
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		prometheus.ObserveRemoteRequest("fetch_one", "not_found", time.Since(start))
		return nil, fmt.Errorf("%w: id %d status %d", ErrNotFound, id, resp.StatusCode)
	}

	var wire apiUser
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		prometheus.ObserveRemoteRequest("fetch_one", "decode_error", time.Since(start))
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	user := wire.flatten()
	prometheus.ObserveRemoteRequest("fetch_one", "success", time.Since(start))
	return &user, nil
}

// Create submits a draft and returns the resulting record with the
// remote-assigned ID. Any status other than 201 rejects the create.
func (c *UsersClient) Create(ctx context.Context, d model.Draft) (*model.User, error) {
	payload := createPayload{
		Name:        d.Name,
		Email:       d.Email,
		Website:     d.Website,
		CompanyName: d.CompanyName,
		Phone:       d.Phone,
		Street:      d.Street,
		City:        d.City,
		Username:    d.Username,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	start := time.Now()
	resp, err := c.do(ctx, http.MethodPost, "/users", bytes.NewReader(body))
	if err != nil {
		prometheus.ObserveRemoteRequest("create", "network_error", time.Since(start))
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		prometheus.ObserveRemoteRequest("create", "rejected", time.Since(start))
		return nil, fmt.Errorf("%w: status %d", ErrCreateRejected, resp.StatusCode)
	}

	var wire apiUser
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		prometheus.ObserveRemoteRequest("create", "decode_error", time.Since(start))
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	user := wire.flatten()
	prometheus.ObserveRemoteRequest("create", "success", time.Since(start))
	return &user, nil
}

// Update PUTs the full user object for the given ID.
func (c *UsersClient) Update(ctx context.Context, id int, u model.User) error {
	body, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}

	start := time.Now()
	resp, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), bytes.NewReader(body))
	if err != nil {
		prometheus.ObserveRemoteRequest("update", "network_error", time.Since(start))
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		prometheus.ObserveRemoteRequest("update", "rejected", time.Since(start))
		return fmt.Errorf("%w: id %d status %d", ErrUpdate, id, resp.StatusCode)
	}

	prometheus.ObserveRemoteRequest("update", "success", time.Since(start))
	return nil
}

// Delete removes the user with the given ID on the remote.
func (c *UsersClient) Delete(ctx context.Context, id int) error {
	start := time.Now()
	resp, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil)
	if err != nil {
		prometheus.ObserveRemoteRequest("delete", "network_error", time.Since(start))
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		prometheus.ObserveRemoteRequest("delete", "rejected", time.Since(start))
		return fmt.Errorf("%w: id %d status %d", ErrDelete, id, resp.StatusCode)
	}

	prometheus.ObserveRemoteRequest("delete", "success", time.Since(start))
	return nil
}

func (c *UsersClient) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}
	return c.HTTPClient.Do(req)
}
