// Package network serves the co-occurrence network of corpus terms. The
// network itself is a pre-built minivan bundle; this package only validates
// it and builds the embed URL of the hosted viewer.
package network

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
)

// ErrInvalidBundle is returned when the bundle file is not a JSON object.
var ErrInvalidBundle = errors.New("network: bundle is not a JSON object")

const (
	// DefaultViewerURL is the hosted minivan embed page.
	DefaultViewerURL = "https://medialab.github.io/minivan/#/embeded-network"
	// DefaultBundleURL is the published bundle of the project.
	DefaultBundleURL = "https://raw.githubusercontent.com/yuliianikolaenko/shaping-ai-dashboard/main/network/SHAPING-AI-NETWORK-BUNDLE.json"

	Title       = "Terms Network"
	Description = "The network represents the links (co-occurrence in the text) between the terms extracted from all corpora. " +
		"The node's colors are allocated by the Louvain Method of community detection."
)

// View holds the viewer camera and sizing options.
type View struct {
	Color  string
	Size   string
	Ratio  float64
	X      float64
	Y      float64
	Width  int
	Height int
}

// DefaultView frames the whole network.
func DefaultView() View {
	return View{
		Color:  "cluster_label",
		Size:   "weight",
		Ratio:  1.3436928,
		X:      0.5308020842190102,
		Y:      0.3783239544591892,
		Width:  800,
		Height: 500,
	}
}

// EmbedURL builds the viewer URL that displays bundleURL with the given view.
// The viewer reads its parameters from the URL fragment, so they are
// appended to viewerURL verbatim.
func EmbedURL(viewerURL, bundleURL string, v View) string {
	q := url.Values{}
	q.Set("bundle", bundleURL)
	q.Set("color", v.Color)
	q.Set("lockNavigation", "true")
	q.Set("name", "")
	q.Set("ratio", strconv.FormatFloat(v.Ratio, 'f', -1, 64))
	q.Set("showLink", "true")
	q.Set("size", v.Size)
	q.Set("x", strconv.FormatFloat(v.X, 'f', -1, 64))
	q.Set("y", strconv.FormatFloat(v.Y, 'f', -1, 64))
	return viewerURL + "?" + q.Encode()
}

// Bundle is a validated network bundle. Raw is served unchanged.
type Bundle struct {
	Raw   json.RawMessage
	Nodes int
	Edges int
}

// LoadBundle reads a bundle file and checks that it is a JSON object.
// Node and edge counts are taken from top-level "nodes" and "edges" arrays
// when present.
func LoadBundle(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}
	return ParseBundle(data)
}

// ParseBundle validates an in-memory bundle.
func ParseBundle(data []byte) (*Bundle, error) {
	var shape struct {
		Nodes []json.RawMessage `json:"nodes"`
		Edges []json.RawMessage `json:"edges"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	return &Bundle{
		Raw:   json.RawMessage(data),
		Nodes: len(shape.Nodes),
		Edges: len(shape.Edges),
	}, nil
}
