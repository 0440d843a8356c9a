package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/time/rate"

	"kvadrat-crm/inventory/internal/constants"
)

// SheetsAPI is the minimal surface of the spreadsheet backend the services
// need: ranged reads, single-range writes and sheet discovery.
type SheetsAPI interface {
	ReadRange(ctx context.Context, spreadsheetID, a1Range string) ([][]string, error)
	WriteRange(ctx context.Context, spreadsheetID, a1Range string, values [][]string) error
	ListSheetNames(ctx context.Context, spreadsheetID string) ([]string, error)
}

// GoogleSheetsProvider implements SheetsAPI against the Google Sheets v4
// values endpoints. All calls go through a shared rate limiter so that grid
// reloads and status writes never trip the per-minute quota together.
type GoogleSheetsProvider struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
	token   string
}

// NewGoogleSheetsProvider reads SHEETS_API_TOKEN from the environment. The
// quota is 60 read/write calls per minute per user, kept one call per second
// with a small burst.
func NewGoogleSheetsProvider() *GoogleSheetsProvider {
	return &GoogleSheetsProvider{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
		baseURL: "https://sheets.googleapis.com/v4/spreadsheets",
		token:   os.Getenv("SHEETS_API_TOKEN"),
	}
}

// NewGoogleSheetsProviderWithBase is used by tests to point the provider at
// a local server.
func NewGoogleSheetsProviderWithBase(baseURL, token string) *GoogleSheetsProvider {
	p := NewGoogleSheetsProvider()
	p.baseURL = baseURL
	p.token = token
	return p
}

type valueRange struct {
	Range  string          `json:"range,omitempty"`
	Values [][]interface{} `json:"values"`
}

// ReadRange returns the cell values of an A1 range as strings. Trailing
// empty rows and cells are absent from the response, callers index through
// common.CellAt.
func (p *GoogleSheetsProvider) ReadRange(ctx context.Context, spreadsheetID, a1Range string) ([][]string, error) {
	u := fmt.Sprintf("%s/%s/values/%s", p.baseURL, spreadsheetID, url.PathEscape(a1Range))

	body, err := p.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	var vr valueRange
	if err := json.Unmarshal(body, &vr); err != nil {
		return nil, fmt.Errorf("failed to decode values response: %w", err)
	}

	rows := make([][]string, len(vr.Values))
	for i, row := range vr.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprint(v)
		}
		rows[i] = cells
	}
	return rows, nil
}

// WriteRange overwrites an A1 range with the given values. Used for
// single-cell status updates, so values is almost always 1x1.
func (p *GoogleSheetsProvider) WriteRange(ctx context.Context, spreadsheetID, a1Range string, values [][]string) error {
	vr := valueRange{Range: a1Range, Values: make([][]interface{}, len(values))}
	for i, row := range values {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		vr.Values[i] = cells
	}
	payload, err := json.Marshal(vr)
	if err != nil {
		return fmt.Errorf("failed to marshal values payload: %w", err)
	}

	u := fmt.Sprintf("%s/%s/values/%s?valueInputOption=USER_ENTERED", p.baseURL, spreadsheetID, url.PathEscape(a1Range))
	_, err = p.do(ctx, http.MethodPut, u, payload)
	return err
}

type spreadsheetMeta struct {
	Sheets []struct {
		Properties struct {
			Title string `json:"title"`
		} `json:"properties"`
	} `json:"sheets"`
}

// ListSheetNames returns the sheet titles of a spreadsheet in tab order.
func (p *GoogleSheetsProvider) ListSheetNames(ctx context.Context, spreadsheetID string) ([]string, error) {
	u := fmt.Sprintf("%s/%s?fields=sheets.properties.title", p.baseURL, spreadsheetID)

	body, err := p.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	var meta spreadsheetMeta
	if err := json.Unmarshal(body, &meta); err != nil {
		return nil, fmt.Errorf("failed to decode spreadsheet metadata: %w", err)
	}

	names := make([]string, 0, len(meta.Sheets))
	for _, s := range meta.Sheets {
		names = append(names, s.Properties.Title)
	}
	return names, nil
}

func (p *GoogleSheetsProvider) do(ctx context.Context, method, u string, payload []byte) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if err := p.handleHTTPError(resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}

func (p *GoogleSheetsProvider) handleHTTPError(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	switch status {
	case http.StatusBadRequest:
		return &ProviderError{
			Code:    constants.ErrCodeRangeMalformed,
			Message: constants.GetErrorMessage(constants.ErrCodeRangeMalformed),
			Details: string(body),
		}
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ProviderError{
			Code:    constants.ErrCodeInvalidToken,
			Message: constants.GetErrorMessage(constants.ErrCodeInvalidToken),
			Details: string(body),
		}
	case http.StatusNotFound:
		return &ProviderError{
			Code:    constants.ErrCodeSpreadsheetMissing,
			Message: constants.GetErrorMessage(constants.ErrCodeSpreadsheetMissing),
			Details: string(body),
		}
	case http.StatusTooManyRequests:
		return &ProviderError{
			Code:    constants.ErrCodeRateLimited,
			Message: constants.GetErrorMessage(constants.ErrCodeRateLimited),
			Details: string(body),
		}
	default:
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: fmt.Sprintf("HTTP %d: %s", status, string(body)),
			Details: string(body),
		}
	}
}

// ProviderError is a typed error from the spreadsheet backend
type ProviderError struct {
	Code    string
	Message string
	Details string
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
