package builtin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/jonwraymond/toolcall/call"
	"github.com/valyala/fasthttp"
)

// DefaultMaxRedirects bounds redirect chains followed by a Browser.
const DefaultMaxRedirects = 8

// Errors returned by Browser.
var (
	// ErrHTTPStatus indicates a response status of 400 or above.
	ErrHTTPStatus = errors.New("unexpected http status")

	// ErrSizeMismatch indicates a download whose size differs from the
	// expected content length.
	ErrSizeMismatch = errors.New("size mismatch")
)

// Browser reads, inspects and downloads http(s) and file URIs.
type Browser struct {
	client       *fasthttp.Client
	maxRedirects int
}

// NewBrowser creates a browser using client. A nil client uses a default
// fasthttp client.
func NewBrowser(client *fasthttp.Client) *Browser {
	if client == nil {
		client = &fasthttp.Client{
			Name:         "toolcall",
			ReadTimeout:  time.Minute,
			WriteTimeout: time.Minute,
		}
	}
	return &Browser{client: client, maxRedirects: DefaultMaxRedirects}
}

func parseURI(uri string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", call.ErrInvalidArgument, err)
	}
	switch u.Scheme {
	case "file", "http", "https":
		return u, nil
	default:
		return nil, fmt.Errorf("%w: unsupported uri scheme %q", call.ErrInvalidArgument, u.Scheme)
	}
}

func (b *Browser) do(ctx context.Context, req *fasthttp.Request, resp *fasthttp.Response) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		return b.client.DoDeadline(req, resp, deadline)
	}
	return b.client.DoRedirects(req, resp, b.maxRedirects)
}

func (b *Browser) get(ctx context.Context, uri string, resp *fasthttp.Response) error {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(uri)
	if err := b.do(ctx, req, resp); err != nil {
		return err
	}
	if code := resp.StatusCode(); code >= 400 {
		return fmt.Errorf("%w: GET %s: %d", ErrHTTPStatus, uri, code)
	}
	return nil
}

// Read returns the content at uri.
func (b *Browser) Read(ctx context.Context, uri string) (string, error) {
	u, err := parseURI(uri)
	if err != nil {
		return "", err
	}
	if u.Scheme == "file" {
		data, err := os.ReadFile(u.Path)
		if err != nil {
			return "", fsError(err)
		}
		return string(data), nil
	}
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)
	if err := b.get(ctx, u.String(), resp); err != nil {
		return "", err
	}
	return string(resp.Body()), nil
}

// Headers returns the response headers of uri with lower-case keys and the
// status code under ":status". File URIs report status, last-modified and
// content-length of the file.
func (b *Browser) Headers(ctx context.Context, uri string) (map[string][]string, error) {
	u, err := parseURI(uri)
	if err != nil {
		return nil, err
	}
	u.Fragment = ""
	if u.Scheme == "file" {
		info, err := os.Stat(u.Path)
		if errors.Is(err, fs.ErrNotExist) {
			return map[string][]string{":status": {"404"}, "content-length": {"-1"}}, nil
		}
		if err != nil {
			return nil, fsError(err)
		}
		status, size := "200", strconv.FormatInt(info.Size(), 10)
		if !info.Mode().IsRegular() {
			status, size = "404", "-1"
		}
		return map[string][]string{
			":status":        {status},
			"last-modified":  {info.ModTime().UTC().Format(time.RFC3339)},
			"content-length": {size},
		}, nil
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)
	req.SetRequestURI(u.String())
	req.Header.SetMethod(fasthttp.MethodHead)
	resp.SkipBody = true
	if err := b.do(ctx, req, resp); err != nil {
		return nil, err
	}

	headers := map[string][]string{":status": {strconv.Itoa(resp.StatusCode())}}
	resp.Header.VisitAll(func(key, value []byte) {
		k := strings.ToLower(string(key))
		headers[k] = append(headers[k], string(value))
	})
	return headers, nil
}

// Copy stores the content at uri in target. An existing target is kept
// as is. The target is written to a temporary sibling first and renamed
// once complete.
func (b *Browser) Copy(ctx context.Context, uri, target string) error {
	if strings.TrimSpace(target) == "" {
		return fmt.Errorf("%w: blank target", call.ErrInvalidArgument)
	}
	if _, err := os.Stat(target); err == nil {
		return nil
	}
	u, err := parseURI(uri)
	if err != nil {
		return err
	}
	u.Fragment = ""

	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fsError(err)
	}
	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return fsError(err)
	}
	defer os.Remove(tmp.Name())

	if err := b.fetch(ctx, u, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fsError(err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fsError(err)
	}
	return nil
}

func (b *Browser) fetch(ctx context.Context, u *url.URL, w io.Writer) error {
	if u.Scheme == "file" {
		src, err := os.Open(u.Path)
		if err != nil {
			return fsError(err)
		}
		defer src.Close()
		if _, err := io.Copy(w, src); err != nil {
			return fsError(err)
		}
		return nil
	}
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)
	if err := b.get(ctx, u.String(), resp); err != nil {
		return err
	}
	return resp.BodyWriteTo(w)
}

// Download copies uri to target and verifies its size. The expected size
// is taken from a "content-length=N" element in the URI fragment, for
// example "https://host/file.zip#content-length=1024". When present, the
// advertised remote size is checked before the transfer and the stored
// file after it; a mismatching file is removed.
func (b *Browser) Download(ctx context.Context, uri, target string) error {
	u, err := parseURI(uri)
	if err != nil {
		return err
	}
	fragment, err := parseFragment(u.Fragment)
	if err != nil {
		return err
	}
	expected := firstInt(fragment, "content-length")
	if expected >= 0 {
		headers, err := b.Headers(ctx, uri)
		if err != nil {
			return err
		}
		if actual := firstInt(headers, "content-length"); actual != expected {
			return sizeMismatch("remote size of "+uri, expected, actual)
		}
	}
	if err := b.Copy(ctx, uri, target); err != nil {
		return err
	}
	if expected < 0 {
		return nil
	}
	info, err := os.Stat(target)
	if err != nil {
		return fsError(err)
	}
	if info.Size() != expected {
		os.Remove(target)
		return sizeMismatch("downloaded file "+target, expected, info.Size())
	}
	return nil
}

func sizeMismatch(subject string, expected, actual int64) error {
	return fmt.Errorf("%w: %s: expected %d, actual %d", ErrSizeMismatch, subject, expected, actual)
}

// parseFragment splits "k=v&k=v" into a multi-map.
func parseFragment(fragment string) (map[string][]string, error) {
	out := map[string][]string{}
	if strings.TrimSpace(fragment) == "" {
		return out, nil
	}
	for _, element := range strings.Split(fragment, "&") {
		key, value, ok := strings.Cut(element, "=")
		if !ok {
			return nil, fmt.Errorf("%w: fragment element %q", call.ErrInvalidArgument, element)
		}
		out[key] = append(out[key], value)
	}
	return out, nil
}

func firstInt(m map[string][]string, key string) int64 {
	values := m[key]
	if len(values) == 0 {
		return -1
	}
	n, err := strconv.ParseInt(strings.TrimSpace(values[0]), 10, 64)
	if err != nil {
		return -1
	}
	return n
}

// ReadTool is the body of the "read <uri>" tool. Content with trailing
// white space is printed verbatim, other content gets a final newline.
func (b *Browser) ReadTool(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	if len(argv) == 0 {
		fmt.Fprintln(stderr, "Usage: read <uri>")
		return 1
	}
	raw, err := b.Read(ctx, argv[0])
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if text := strings.TrimRight(raw, " \t\r\n"); text == raw {
		fmt.Fprintln(stdout, text)
	} else {
		fmt.Fprint(stdout, raw)
	}
	return 0
}

// HeadTool is the body of the "head <uri>" tool. It prints one
// "key -> value ++ value" line per header in key order.
func (b *Browser) HeadTool(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	if len(argv) == 0 {
		fmt.Fprintln(stderr, "Usage: head <uri>")
		return 1
	}
	headers, err := b.Headers(ctx, argv[0])
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(stdout, "%s -> %s\n", k, strings.Join(headers[k], " ++ "))
	}
	return 0
}

// DownloadTool is the body of the "download <uri> <target>" tool.
func (b *Browser) DownloadTool(ctx context.Context, argv []string, _, stderr io.Writer) int {
	if len(argv) < 2 {
		fmt.Fprintln(stderr, "Usage: download <uri> <target>")
		return 1
	}
	if err := b.Download(ctx, argv[0], argv[1]); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
