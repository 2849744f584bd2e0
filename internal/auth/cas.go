// Package auth validates login tickets against the campus CAS service.
package auth

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrTicketInvalid is returned when CAS rejects the ticket.
var ErrTicketInvalid = errors.New("invalid CAS ticket")

// CASClient talks to a CAS 2.0 serviceValidate endpoint.
type CASClient struct {
	ServerURL string // base URL, e.g. https://cas.sfu.ca/cas
	Client    *http.Client
}

func NewCASClient(serverURL string) *CASClient {
	return &CASClient{
		ServerURL: strings.TrimRight(serverURL, "/"),
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// serviceResponse mirrors the CAS 2.0 validation XML. Success is
// indicated by the absence of an authenticationFailure node and a
// non-empty user field.
type serviceResponse struct {
	XMLName xml.Name     `xml:"serviceResponse"`
	Success *authSuccess `xml:"authenticationSuccess"`
	Failure *authFailure `xml:"authenticationFailure"`
}

type authSuccess struct {
	User string `xml:"user"`
}

type authFailure struct {
	Code    string `xml:"code,attr"`
	Message string `xml:",chardata"`
}

// ValidateTicket exchanges a service ticket for the campus computing
// ID it was issued to. ErrTicketInvalid means CAS rejected the ticket;
// any other error is a transport or protocol failure.
func (c *CASClient) ValidateTicket(ctx context.Context, ticket, serviceURL string) (string, error) {
	q := url.Values{}
	q.Set("ticket", ticket)
	q.Set("service", serviceURL)
	validateURL := c.ServerURL + "/serviceValidate?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, validateURL, nil)
	if err != nil {
		return "", fmt.Errorf("build CAS request: %w", err)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("contact CAS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("CAS returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("read CAS response: %w", err)
	}

	var sr serviceResponse
	if err := xml.Unmarshal(body, &sr); err != nil {
		return "", fmt.Errorf("parse CAS response: %w", err)
	}

	if sr.Failure != nil {
		return "", fmt.Errorf("%s: %w", strings.TrimSpace(sr.Failure.Code), ErrTicketInvalid)
	}
	if sr.Success == nil || strings.TrimSpace(sr.Success.User) == "" {
		return "", ErrTicketInvalid
	}
	return strings.TrimSpace(sr.Success.User), nil
}
