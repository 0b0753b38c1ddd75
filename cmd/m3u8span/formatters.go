package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Formatter renders the reports of one run.
type Formatter interface {
	Format(reports []*report) ([]byte, error)
}

func newFormatter(format string) (Formatter, error) {
	switch strings.ToLower(format) {
	case "text", "":
		return &TextFormatter{}, nil
	case "json":
		return &JSONFormatter{}, nil
	case "yaml", "yml":
		return &YAMLFormatter{}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// JSONFormatter formats output as indented JSON
type JSONFormatter struct{}

func (f *JSONFormatter) Format(reports []*report) ([]byte, error) {
	out, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// YAMLFormatter formats output as YAML
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(reports []*report) ([]byte, error) {
	return yaml.Marshal(reports)
}

// TextFormatter formats output for a terminal
type TextFormatter struct{}

func (f *TextFormatter) Format(reports []*report) ([]byte, error) {
	var buf bytes.Buffer
	for _, r := range reports {
		fmt.Fprintln(&buf, r)
		if p := r.Playlist; p != nil {
			fmt.Fprintf(&buf, "  target duration %s, media sequence %d, closed %t, version %d\n",
				p.targetDuration.Duration(), p.MediaSequence, p.Closed, p.Version)
			fmt.Fprintf(&buf, "  segments %d/%d, variants %d/%d\n",
				len(p.Segments), p.SegmentCount, len(p.Variants), p.VariantCount)
			for _, seg := range p.Segments {
				fmt.Fprintf(&buf, "    %s %s\n", seg.duration.Duration(), seg.URI)
			}
			for _, vnt := range p.Variants {
				fmt.Fprintf(&buf, "    %d %s\n", vnt.Bandwidth, vnt.URI)
			}
		}
		if e := r.Events; e != nil {
			fmt.Fprintf(&buf, "  events %d/%d\n", e.Written, e.Total)
			for _, ev := range e.Events {
				fmt.Fprintf(&buf, "    %d %s %q", ev.Line, ev.Kind, ev.A)
				if ev.B != "" {
					fmt.Fprintf(&buf, " %q", ev.B)
				}
				if ev.ValueA != 0 {
					fmt.Fprintf(&buf, " %d", ev.ValueA)
				}
				buf.WriteByte('\n')
			}
		}
		if r.Encoded != "" {
			buf.WriteString(r.Encoded)
		}
	}
	return buf.Bytes(), nil
}
