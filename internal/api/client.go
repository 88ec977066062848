package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const defaultBaseURL = "https://api.aladhan.com/v1"

const instrumentationName = "github.com/smokyabdulrahman/masjidi/internal/api"

// Client communicates with the Al Adhan prayer times API.
type Client struct {
	httpClient *http.Client
	// BaseURL is the API base URL. Defaults to the Al Adhan API.
	// Exported for testing with httptest.
	BaseURL string
	// TracerProvider records request spans. Nil uses the global provider.
	TracerProvider trace.TracerProvider
}

// NewClient creates a new API client with sensible defaults.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		BaseURL: defaultBaseURL,
	}
}

// CalendarOptions selects the location and calculation parameters of a
// calendar request. City and Country are used when both are set; otherwise
// the coordinates are. Method and School below zero let the API decide.
type CalendarOptions struct {
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
	City      string  `json:"city,omitempty"`
	Country   string  `json:"country,omitempty"`
	Method    int     `json:"method"`
	School    int     `json:"school"`
	Shafaq    string  `json:"shafaq,omitempty"`
	Timezone  string  `json:"timezone,omitempty"`
	// Tune holds minute corrections in TuneOrder.
	Tune []int `json:"tune,omitempty"`
}

// TuneOrder is the order the API expects tune values in.
var TuneOrder = []string{
	"Imsak", "Fajr", "Sunrise", "Dhuhr", "Asr", "Maghrib", "Sunset", "Isha", "Midnight",
}

// ByCity reports whether the options select a city rather than coordinates.
func (o CalendarOptions) ByCity() bool {
	return o.City != "" && o.Country != ""
}

func (o CalendarOptions) params() url.Values {
	params := url.Values{}
	if o.ByCity() {
		params.Set("city", o.City)
		params.Set("country", o.Country)
	} else {
		params.Set("latitude", fmt.Sprintf("%f", o.Latitude))
		params.Set("longitude", fmt.Sprintf("%f", o.Longitude))
	}
	if o.Method >= 0 {
		params.Set("method", strconv.Itoa(o.Method))
	}
	if o.School >= 0 {
		params.Set("school", strconv.Itoa(o.School))
	}
	if o.Shafaq != "" {
		params.Set("shafaq", o.Shafaq)
	}
	if o.Timezone != "" {
		params.Set("timezonestring", o.Timezone)
	}
	if len(o.Tune) > 0 {
		tune := make([]string, len(TuneOrder))
		for i := range tune {
			v := 0
			if i < len(o.Tune) {
				v = o.Tune[i]
			}
			tune[i] = strconv.Itoa(v)
		}
		params.Set("tune", strings.Join(tune, ","))
	}
	return params
}

// FetchAnnualCalendar fetches the prayer times of every day of year.
func (c *Client) FetchAnnualCalendar(ctx context.Context, year int, opts CalendarOptions) (*AnnualResponse, error) {
	path := "calendar"
	if opts.ByCity() {
		path = "calendarByCity"
	}
	endpoint := fmt.Sprintf("%s/%s/%d", c.BaseURL, path, year)

	var resp AnnualResponse
	if err := c.get(ctx, endpoint, opts.params(), &resp); err != nil {
		return nil, err
	}
	if resp.Code != 200 {
		return nil, fmt.Errorf("API error: code=%d status=%s", resp.Code, resp.Status)
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) (err error) {
	tp := c.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	ctx, span := tp.Tracer(instrumentationName).Start(ctx, "aladhan.get",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", endpoint)),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("build API request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode API response: %w", err)
	}
	return nil
}
