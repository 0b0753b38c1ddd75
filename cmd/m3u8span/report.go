package main

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"github.com/mogiioin/hls-m3u8span/m3u8"
)

// report is the outcome of decoding one playlist file.
type report struct {
	File     string          `json:"file" yaml:"file"`
	Status   int             `json:"status" yaml:"status"`
	Error    string          `json:"error,omitempty" yaml:"error,omitempty"`
	Playlist *playlistReport `json:"playlist,omitempty" yaml:"playlist,omitempty"`
	Events   *eventsReport   `json:"events,omitempty" yaml:"events,omitempty"`
	Encoded  string          `json:"encoded,omitempty" yaml:"encoded,omitempty"`
}

type playlistReport struct {
	TargetDuration float64         `json:"target_duration" yaml:"target_duration"`
	MediaSequence  int64           `json:"media_sequence" yaml:"media_sequence"`
	Closed         bool            `json:"closed" yaml:"closed"`
	Version        uint8           `json:"version" yaml:"version"`
	VersionReason  string          `json:"version_reason" yaml:"version_reason"`
	SegmentCount   int             `json:"segment_count" yaml:"segment_count"`
	VariantCount   int             `json:"variant_count" yaml:"variant_count"`
	Truncated      bool            `json:"truncated" yaml:"truncated"`
	Segments       []segmentReport `json:"segments,omitempty" yaml:"segments,omitempty"`
	Variants       []variantReport `json:"variants,omitempty" yaml:"variants,omitempty"`

	targetDuration m3u8.Micros // for text output, not serialized
}

type segmentReport struct {
	Duration float64 `json:"duration" yaml:"duration"`
	URI      string  `json:"uri" yaml:"uri"`

	duration m3u8.Micros
}

type variantReport struct {
	Bandwidth int64  `json:"bandwidth" yaml:"bandwidth"`
	URI       string `json:"uri" yaml:"uri"`
}

type eventsReport struct {
	Total     int           `json:"total" yaml:"total"`
	Written   int           `json:"written" yaml:"written"`
	Truncated bool          `json:"truncated" yaml:"truncated"`
	Events    []eventReport `json:"list,omitempty" yaml:"list,omitempty"`
}

type eventReport struct {
	Line   int    `json:"line" yaml:"line"`
	Kind   string `json:"kind" yaml:"kind"`
	A      string `json:"a,omitempty" yaml:"a,omitempty"`
	B      string `json:"b,omitempty" yaml:"b,omitempty"`
	ValueA int64  `json:"value_a,omitempty" yaml:"value_a,omitempty"`
}

// inspect reads and decodes one file. Failures are recorded in the report.
func inspect(name string, opts options, base *url.URL) *report {
	r := &report{File: name}
	data, err := os.ReadFile(name)
	if err != nil {
		r.fail(err)
		return r
	}
	if opts.events {
		err = r.decodeEvents(data, opts.maxEvents)
	} else {
		err = r.decodePlaylist(data, opts, base)
	}
	if err != nil {
		r.fail(err)
	}
	return r
}

func (r *report) fail(err error) {
	r.Status = m3u8.StatusCode(err)
	r.Error = err.Error()
	slog.Warn("failed to decode playlist", "file", r.File, "status", r.Status, "error", err)
}

func (r *report) decodePlaylist(data []byte, opts options, base *url.URL) error {
	p, err := m3u8.Decode(data, opts.segments, opts.variants, opts.strict)
	if err != nil {
		return err
	}
	ver, reason := p.CalcMinVersion()
	pr := &playlistReport{
		TargetDuration: p.TargetDuration.Seconds(),
		MediaSequence:  p.SeqNo,
		Closed:         p.Closed,
		Version:        ver,
		VersionReason:  reason,
		SegmentCount:   p.SegmentCount,
		VariantCount:   p.VariantCount,
		Truncated:      p.Truncated(),
		targetDuration: p.TargetDuration,
	}
	for _, seg := range p.Segments {
		pr.Segments = append(pr.Segments, segmentReport{
			Duration: seg.Duration.Seconds(),
			URI:      r.uri(data, seg.URI, base),
			duration: seg.Duration,
		})
	}
	for _, vnt := range p.Variants {
		pr.Variants = append(pr.Variants, variantReport{
			Bandwidth: vnt.Bandwidth,
			URI:       r.uri(data, vnt.URI, base),
		})
	}
	if pr.Truncated {
		slog.Warn("playlist truncated", "file", r.File,
			"segments", p.SegmentCount, "stored_segments", len(p.Segments),
			"variants", p.VariantCount, "stored_variants", len(p.Variants))
	}
	slog.Debug("decoded playlist", "file", r.File, "segments", p.SegmentCount, "variants", p.VariantCount)
	r.Playlist = pr
	if opts.encode {
		r.Encoded = p.Encode(data).String()
	}
	return nil
}

// uri returns the text of s, resolved against base when one is given.
func (r *report) uri(data []byte, s m3u8.Span, base *url.URL) string {
	if base == nil {
		return s.String(data)
	}
	u, err := s.Resolve(data, base)
	if err != nil {
		slog.Warn("cannot resolve uri", "file", r.File, "uri", s.String(data), "error", err)
		return s.String(data)
	}
	return u.String()
}

func (r *report) decodeEvents(data []byte, limit int) error {
	var (
		events []m3u8.Event
		res    m3u8.EventsResult
		err    error
	)
	if limit == 0 {
		if events, err = m3u8.Events(data); err != nil {
			return err
		}
		res = m3u8.EventsResult{Total: len(events), Written: len(events)}
	} else {
		events = make([]m3u8.Event, limit)
		if res, err = m3u8.DecodeEvents(data, events); err != nil {
			return err
		}
		events = events[:res.Written]
	}
	er := &eventsReport{Total: res.Total, Written: res.Written, Truncated: res.Truncated}
	for _, ev := range events {
		er.Events = append(er.Events, eventReport{
			Line:   ev.Line,
			Kind:   ev.Kind.String(),
			A:      ev.A.String(data),
			B:      ev.B.String(data),
			ValueA: ev.ValueA,
		})
	}
	if res.Truncated {
		slog.Warn("events truncated", "file", r.File, "total", res.Total, "stored", res.Written)
	}
	slog.Debug("decoded events", "file", r.File, "total", res.Total)
	r.Events = er
	return nil
}

func (r *report) String() string {
	if r.Error != "" {
		return fmt.Sprintf("%s: status %d: %s", r.File, r.Status, r.Error)
	}
	return fmt.Sprintf("%s: ok", r.File)
}
