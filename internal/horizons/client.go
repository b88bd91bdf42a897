// Package horizons retrieves minor-planet state vectors from the JPL
// Horizons text API.
package horizons

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"time"

	"github.com/orbitlab/minorbit/internal/vec"
)

const (
	// DefaultEndpoint is the public Horizons API.
	DefaultEndpoint = "https://ssd.jpl.nasa.gov/api/horizons.api"

	// DefaultCenter is the Sun, matching the heliocentric frame of the
	// VSOP87 ephemeris. Use 500@0 for solar-system-barycenter inputs.
	DefaultCenter = "500@10"

	// DefaultConcurrency bounds simultaneous requests against the remote
	// service during batch fetches.
	DefaultConcurrency = 4

	// DefaultTimeout applies per request.
	DefaultTimeout = 30 * time.Second
)

// Status taxonomy of the remote service.
var (
	ErrBadRequest       = errors.New("horizons: bad request")
	ErrMethodNotAllowed = errors.New("horizons: method not allowed")
	ErrInternal         = errors.New("horizons: internal server error")
	ErrUnavailable      = errors.New("horizons: service unavailable")

	// ErrNoStateVector indicates a 200 response without the expected
	// position/velocity lines.
	ErrNoStateVector = errors.New("horizons: response contains no state vector")
)

// StatusError carries a non-success HTTP status not covered by the named
// taxonomy entries.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("horizons: unexpected status %d", e.Code)
}

// StateVector is a position/velocity pair in km and km/s.
type StateVector struct {
	Pos vec.Vec3
	Vel vec.Vec3
}

// Client queries the Horizons vector API. The zero value is not usable; use
// NewClient.
type Client struct {
	endpoint    string
	center      string
	concurrency int
	httpClient  *http.Client

	// Progress, when set, is called after each completed designation in a
	// batch fetch.
	Progress func(done, total int)
}

func NewClient(endpoint, center string, timeout time.Duration, concurrency int) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if center == "" {
		center = DefaultCenter
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Client{
		endpoint:    endpoint,
		center:      center,
		concurrency: concurrency,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// StateVector fetches one designation's state at the given epoch. The query
// spans a single day with a larger step so the table holds exactly the
// bracketing epochs.
func (c *Client) StateVector(ctx context.Context, designation string, epoch time.Time) (StateVector, error) {
	q := url.Values{}
	q.Set("format", "text")
	q.Set("EPHEM_TYPE", "VECTORS")
	q.Set("OBJ_DATA", "NO")
	q.Set("VEC_TABLE", "2")
	q.Set("CENTER", quote(c.center))
	q.Set("COMMAND", quote("DES="+designation))
	q.Set("START_TIME", quote(epoch.UTC().Format("2006-01-02")))
	q.Set("STOP_TIME", quote(epoch.UTC().AddDate(0, 0, 1).Format("2006-01-02")))
	q.Set("STEP_SIZE", quote("3d"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return StateVector{}, fmt.Errorf("horizons: building request for %s: %w", designation, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return StateVector{}, fmt.Errorf("horizons: fetching %s: %w", designation, err)
	}
	defer resp.Body.Close()

	if err := statusToError(resp.StatusCode); err != nil {
		return StateVector{}, fmt.Errorf("%w (designation %s)", err, designation)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return StateVector{}, fmt.Errorf("horizons: reading response for %s: %w", designation, err)
	}

	sv, err := parseVectorTable(string(body))
	if err != nil {
		return StateVector{}, fmt.Errorf("%w (designation %s)", err, designation)
	}
	return sv, nil
}

func quote(s string) string { return "'" + s + "'" }

func statusToError(code int) error {
	switch code {
	case http.StatusOK:
		return nil
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusMethodNotAllowed:
		return ErrMethodNotAllowed
	case http.StatusInternalServerError:
		return ErrInternal
	case http.StatusServiceUnavailable:
		return ErrUnavailable
	default:
		return &StatusError{Code: code}
	}
}

var (
	positionRe = regexp.MustCompile(`X\s*=\s*([-+]?[\d.E+-]+)\s*Y\s*=\s*([-+]?[\d.E+-]+)\s*Z\s*=\s*([-+]?[\d.E+-]+)`)
	velocityRe = regexp.MustCompile(`VX\s*=\s*([-+]?[\d.E+-]+)\s*VY\s*=\s*([-+]?[\d.E+-]+)\s*VZ\s*=\s*([-+]?[\d.E+-]+)`)
)

// parseVectorTable extracts the state vector from a Horizons text response.
// The table holds two epochs (start and stop of the one-day span); the
// second match is the one on the requested side of the bracket.
func parseVectorTable(text string) (StateVector, error) {
	posMatches := positionRe.FindAllStringSubmatch(text, -1)
	velMatches := velocityRe.FindAllStringSubmatch(text, -1)

	if len(posMatches) < 2 || len(velMatches) < 2 {
		return StateVector{}, ErrNoStateVector
	}

	pos, err := parseTriple(posMatches[1])
	if err != nil {
		return StateVector{}, fmt.Errorf("%w: %v", ErrNoStateVector, err)
	}
	vel, err := parseTriple(velMatches[1])
	if err != nil {
		return StateVector{}, fmt.Errorf("%w: %v", ErrNoStateVector, err)
	}
	return StateVector{Pos: pos, Vel: vel}, nil
}

func parseTriple(match []string) (vec.Vec3, error) {
	var out [3]float64
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(match[i+1], 64)
		if err != nil {
			return vec.Vec3{}, err
		}
		out[i] = f
	}
	return vec.Vec3{X: out[0], Y: out[1], Z: out[2]}, nil
}
