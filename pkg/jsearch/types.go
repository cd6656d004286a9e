package jsearch

import (
	"fmt"
	"net/http"
	"time"
)

// Config defines JSearch (RapidAPI) client settings
type Config struct {
	APIKey     string
	Host       string // RapidAPI host header, default jsearch.p.rapidapi.com
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration // applied when HTTPClient is nil
}

// Client queries the JSearch job search API
type Client struct {
	apiKey     string
	host       string
	baseURL    string
	httpClient *http.Client
}

// SearchParams describe a job search request
type SearchParams struct {
	Query    string
	Country  string
	Page     int
	NumPages int
	Fields   []string
}

// StatusError is returned for any non-2xx API response
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("jsearch: API error (%d): %s", e.StatusCode, e.Body)
}

type searchResponse struct {
	Status    string    `json:"status"`
	RequestID string    `json:"request_id"`
	Data      []Posting `json:"data"`
}

// Posting is one job posting as returned by JSearch
type Posting struct {
	JobID                  string `json:"job_id"`
	JobTitle               string `json:"job_title"`
	EmployerName           string `json:"employer_name"`
	JobDescription         string `json:"job_description"`
	JobCity                string `json:"job_city"`
	JobCountry             string `json:"job_country"`
	JobApplyLink           string `json:"job_apply_link"`
	JobPostedAtDatetimeUTC string `json:"job_posted_at_datetime_utc"`
}
