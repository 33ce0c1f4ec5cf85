package chromakey

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	"image/png"
	"io"
	"net"
	"net/http"
	"net/url"
	"syscall"
	"time"
)

// ErrSourceImage marks failures caused by the source image: a bad URL, an unreachable or
// non-public host, a non-200 response, an oversized body or an undecodable format
var ErrSourceImage = errors.New("source image unavailable")

const (
	// maxImageBytes limits the size of downloaded source images
	maxImageBytes = 10 << 20 // 10MB
	// maxImagePixels limits the decoded size of source images
	maxImagePixels = 4096 * 4096
	maxRedirects   = 5
)

// errBlockedAddress is returned when a fetch would reach a non-public address
var errBlockedAddress = errors.New("address is not public")

// Processor downloads images and removes their background
type Processor struct {
	client    *http.Client
	maxBytes  int64
	maxPixels int64
}

// NewProcessor creates a processor using the given HTTP client.
// A nil client gets a client with a 15 second timeout that only connects to public addresses.
func NewProcessor(client *http.Client) *Processor {
	if client == nil {
		client = newPublicClient()
	}
	return &Processor{
		client:    client,
		maxBytes:  maxImageBytes,
		maxPixels: maxImagePixels,
	}
}

// newPublicClient returns a client whose connections, redirects included, are checked by dialPublic
func newPublicClient() *http.Client {
	dialer := &net.Dialer{Timeout: 10 * time.Second, Control: dialPublic}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext

	return &http.Client{
		Timeout:   15 * time.Second,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			if req.URL.Scheme != "http" && req.URL.Scheme != "https" {
				return fmt.Errorf("redirect to unsupported scheme %q", req.URL.Scheme)
			}
			return nil
		},
	}
}

// dialPublic runs after name resolution, so it sees the IP actually being dialed
func dialPublic(network, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil || !isPublicIP(ip) {
		return fmt.Errorf("%w: %s", errBlockedAddress, host)
	}
	return nil
}

// sharedAddressSpace is the carrier-grade NAT range 100.64.0.0/10
var sharedAddressSpace = &net.IPNet{IP: net.IPv4(100, 64, 0, 0), Mask: net.CIDRMask(10, 32)}

func isPublicIP(ip net.IP) bool {
	return !ip.IsLoopback() &&
		!ip.IsPrivate() &&
		!ip.IsLinkLocalUnicast() &&
		!ip.IsLinkLocalMulticast() &&
		!ip.IsInterfaceLocalMulticast() &&
		!ip.IsMulticast() &&
		!ip.IsUnspecified() &&
		!sharedAddressSpace.Contains(ip)
}

// RemoveBackground downloads the image at imageURL, applies the chroma key and returns PNG bytes
func (p *Processor) RemoveBackground(ctx context.Context, imageURL string, key color.RGBA, threshold float64) ([]byte, error) {
	img, err := p.fetch(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	result := Apply(img, key, threshold)

	var buf bytes.Buffer
	if err := png.Encode(&buf, result); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// fetch downloads and decodes an image
func (p *Processor) fetch(ctx context.Context, imageURL string) (image.Image, error) {
	u, err := url.Parse(imageURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid image url %q", ErrSourceImage, imageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to download image: %v", ErrSourceImage, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: failed to download image: status %d", ErrSourceImage, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, p.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(data)) > p.maxBytes {
		return nil, fmt.Errorf("%w: image is larger than %d bytes", ErrSourceImage, p.maxBytes)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image: %v", ErrSourceImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > p.maxPixels {
		return nil, fmt.Errorf("%w: image of %dx%d exceeds %d pixels", ErrSourceImage, cfg.Width, cfg.Height, p.maxPixels)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image: %v", ErrSourceImage, err)
	}
	return img, nil
}
