package server

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/pipeline"
)

// requestOptions starts from the configured defaults and applies the
// query parameters. Runtime fields are never taken from the request.
func (s *Server) requestOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.cfg.Defaults
	opts.Formats = nil
	opts.Logger = nil
	opts.Orderer = nil

	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *string
	}{
		{"viz_type", &opts.VizType},
		{"ordering", &opts.Ordering},
		{"objective", &opts.Objective},
		{"style", &opts.Style},
		{"font_family", &opts.FontFamily},
		{"font_color", &opts.FontColor},
	} {
		if v := q.Get(p.name); v != "" {
			*p.dst = v
		}
	}

	for _, p := range []struct {
		name string
		dst  *float64
	}{
		{"width", &opts.Width},
		{"height", &opts.Height},
		{"node_width", &opts.NodeWidth},
		{"node_separation", &opts.NodeSeparation},
		{"border", &opts.Border},
		{"font_size", &opts.FontSize},
	} {
		v, ok, err := floatParam(q, p.name)
		if err != nil {
			return opts, err
		}
		if ok {
			*p.dst = v
		}
	}

	if q.Has("exact_depth") {
		depth, err := intParam(q, "exact_depth")
		if err != nil {
			return opts, err
		}
		opts.ExactDepth = min(depth, s.cfg.MaxExactDepth)
	}
	opts.HideValues = opts.HideValues || boolParam(q, "hide_values")
	opts.Interactive = opts.Interactive || boolParam(q, "interactive")
	opts.Detailed = opts.Detailed || boolParam(q, "detailed")
	opts.Refresh = boolParam(q, "refresh")
	return opts, nil
}

func floatParam(q url.Values, name string) (float64, bool, error) {
	s := q.Get(name)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, errors.New(errors.ErrCodeInvalidInput, "%s: invalid number %q", name, s)
	}
	return v, true, nil
}

func intParam(q url.Values, name string) (int, error) {
	s := q.Get(name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s: invalid integer %q", name, s)
	}
	return v, nil
}

func boolParam(q url.Values, name string) bool {
	v, err := strconv.ParseBool(q.Get(name))
	return err == nil && v
}
