package client

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/synergy-au/sep2go/internal/sep2err"
	"github.com/synergy-au/sep2go/resource"
	"github.com/synergy-au/sep2go/response"
)

const contentType = "application/sep+xml"

// each outbound call is tagged with a random correlation ID so its
// request/response log pair can be matched across concurrent polls.

// Get retrieves the resource at path and deserializes it into R
// (IEEE 2030.5 §4.D). A 200 response decodes the body (lossy UTF-8) into R; a
// 404 yields the literal error "404 Not Found"; any other status yields
// "Unexpected HTTP response".
func Get[R resource.SEResource](ctx context.Context, c *Client, path string) (R, error) {
	var zero R
	cid := uuid.NewString()
	c.log.Infof("[%s] GET %s from %s", cid, zero.SEName(), c.url(path))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return zero, sep2err.Wrap(sep2err.Transport, "building GET request", err)
	}
	req.Header.Set("Accept", contentType)

	c.log.Debugf("[%s] outgoing request: %s %s", cid, req.Method, req.URL)
	res, err := c.http.Do(req)
	if err != nil {
		return zero, sep2err.Wrap(sep2err.Transport, "performing GET", err)
	}
	defer res.Body.Close()
	c.log.Debugf("[%s] incoming response: %d", cid, res.StatusCode)

	switch res.StatusCode {
	case http.StatusOK:
		// fall through to decode below
	case http.StatusNotFound:
		return zero, sep2err.New(sep2err.Protocol, "404 Not Found")
	default:
		return zero, sep2err.New(sep2err.Protocol, "Unexpected HTTP response")
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return zero, sep2err.Wrap(sep2err.Transport, "reading GET body", err)
	}
	xml := toUTF8Lossy(body)
	out, err := resource.Deserialize[R](xml)
	if err != nil {
		return zero, sep2err.Wrap(sep2err.Decode, "decoding "+zero.SEName(), err)
	}
	return out, nil
}

// Put creates or replaces the resource at path with r (IEEE 2030.5 §4.D).
func Put[R resource.SEResource](ctx context.Context, c *Client, path string, r R) (response.SepResponse, error) {
	return c.putPost(ctx, http.MethodPut, path, r)
}

// Post updates the resource at path with r (IEEE 2030.5 §4.D).
func Post[R resource.SEResource](ctx context.Context, c *Client, path string, r R) (response.SepResponse, error) {
	return c.putPost(ctx, http.MethodPost, path, r)
}

func (c *Client) putPost(ctx context.Context, method, path string, r resource.SEResource) (response.SepResponse, error) {
	cid := uuid.NewString()
	c.log.Infof("[%s] %s %s to %s", cid, method, r.SEName(), c.url(path))

	body, err := resource.Serialize(r)
	if err != nil {
		return response.SepResponse{}, sep2err.Wrap(sep2err.Protocol, "serializing "+r.SEName(), err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), strings.NewReader(body))
	if err != nil {
		return response.SepResponse{}, sep2err.Wrap(sep2err.Transport, "building "+method+" request", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Content-Length", strconv.Itoa(len(body)))
	req.ContentLength = int64(len(body))

	c.log.Debugf("[%s] outgoing request: %s %s", cid, req.Method, req.URL)
	res, err := c.http.Do(req)
	if err != nil {
		return response.SepResponse{}, sep2err.Wrap(sep2err.Transport, "performing "+method, err)
	}
	defer res.Body.Close()
	c.log.Debugf("[%s] incoming response: %d", cid, res.StatusCode)

	switch res.StatusCode {
	case http.StatusCreated:
		loc := res.Header.Get("Location")
		if loc == "" {
			return response.SepResponse{}, sep2err.New(sep2err.Protocol, "201 Created - Missing Location Header")
		}
		return response.Created(loc), nil
	case http.StatusNoContent:
		return response.NoContent(), nil
	case http.StatusBadRequest:
		return response.SepResponse{}, sep2err.New(sep2err.Protocol, "400 Bad Request")
	case http.StatusNotFound:
		return response.SepResponse{}, sep2err.New(sep2err.Protocol, "404 Not Found")
	default:
		return response.SepResponse{}, sep2err.New(sep2err.Protocol, "Unexpected HTTP response")
	}
}

// Delete removes the resource at path with an empty body (IEEE 2030.5 §4.D).
// Success is a 204; 400 and 404 yield the literal errors "400 Bad
// Request"/"404 Not Found"; any other status yields "Unexpected HTTP
// response".
func (c *Client) Delete(ctx context.Context, path string) error {
	cid := uuid.NewString()
	c.log.Infof("[%s] DELETE at %s", cid, c.url(path))

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.url(path), nil)
	if err != nil {
		return sep2err.Wrap(sep2err.Transport, "building DELETE request", err)
	}

	c.log.Debugf("[%s] outgoing request: %s %s", cid, req.Method, req.URL)
	res, err := c.http.Do(req)
	if err != nil {
		return sep2err.Wrap(sep2err.Transport, "performing DELETE", err)
	}
	defer res.Body.Close()
	c.log.Debugf("[%s] incoming response: %d", cid, res.StatusCode)

	switch res.StatusCode {
	case http.StatusNoContent:
		return nil
	case http.StatusBadRequest:
		return sep2err.New(sep2err.Protocol, "400 Bad Request")
	case http.StatusNotFound:
		return sep2err.New(sep2err.Protocol, "404 Not Found")
	default:
		return sep2err.New(sep2err.Protocol, "Unexpected HTTP response")
	}
}

// toUTF8Lossy mirrors Rust's String::from_utf8_lossy: invalid byte
// sequences become the Unicode replacement character rather than an
// error, since IEEE 2030.5 §4.D requires lossy decoding on GET.
func toUTF8Lossy(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
