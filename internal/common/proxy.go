package common

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	OK                     int = 200
	BAD_REQUEST            int = 400
	UNAUTHORIZED           int = 401
	FORBIDDEN              int = 403
	DATA_NOT_FOUND         int = 404
	METHOD_NOT_ALLOWED     int = 405
	UNSUPPORTED_MEDIA_TYPE int = 415
	RATE_LIMIT_EXCEEDED    int = 429
	INTERNAL_SERVER_ERROR  int = 500
	BAD_GATEWAY            int = 502
	SERVICE_UNAVAILABLE    int = 503
	GATEWAY_TIMEOUT        int = 504
)

var messages = map[int]string{
	OK:                     "OK",
	BAD_REQUEST:            "Bad request",
	UNAUTHORIZED:           "Unauthorized",
	FORBIDDEN:              "Forbidden",
	DATA_NOT_FOUND:         "Data not found",
	METHOD_NOT_ALLOWED:     "Method not allowed",
	UNSUPPORTED_MEDIA_TYPE: "Unsupported media type",
	RATE_LIMIT_EXCEEDED:    "Rate limit exceeded",
	INTERNAL_SERVER_ERROR:  "Internal server error",
	BAD_GATEWAY:            "Bad gateway",
	SERVICE_UNAVAILABLE:    "Service unavailable",
	GATEWAY_TIMEOUT:        "Gateway timeout",
}

// What came back from a request: the status code, the body and,
// for rate limited responses, the delay the server asked us to wait
type Reply struct {
	Status     int
	Body       []byte
	RetryAfter time.Duration
}

type Proxy struct {
	header map[string]string
	client http.Client
}

func NewProxy(header map[string]string, timeout time.Duration) Proxy {
	return Proxy{header, http.Client{Timeout: timeout}}
}

// Make a GET request to the provided url with the provided query parameters.
// Transport failures come back as errors; any understood status code is
// returned in the reply for the caller to decide on
func (proxy *Proxy) Get(ctx context.Context, rawurl string, params url.Values) (Reply, error) {

	// Create the request and add the header
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return Reply{}, fmt.Errorf("could not create request for url %s: %w", rawurl, err)
	}
	if params != nil {
		request.URL.RawQuery = params.Encode()
	}
	for key, value := range proxy.header {
		request.Header.Set(key, value)
	}

	// Perform the request
	res, err := proxy.client.Do(request)
	if err != nil {
		return Reply{}, fmt.Errorf("could not perform request to %s: %w", rawurl, err)
	}
	defer res.Body.Close()

	// Check if the status of the request is understood
	message, ok := messages[res.StatusCode]
	if !ok {
		return Reply{}, fmt.Errorf("status code of request (%d) is not understood", res.StatusCode)
	}
	log.Debug().Msg(fmt.Sprintf("%d %s", res.StatusCode, message))

	reply := Reply{Status: res.StatusCode}
	if res.StatusCode == RATE_LIMIT_EXCEEDED {
		reply.RetryAfter = parseRetryAfter(res.Header.Get("Retry-After"))
	}

	// Read the response
	stream, err := io.ReadAll(res.Body)
	if err != nil {
		return Reply{}, fmt.Errorf("could not extract the response for url %s: %w", rawurl, err)
	}
	reply.Body = stream

	return reply, nil
}

func parseRetryAfter(value string) time.Duration {
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}
