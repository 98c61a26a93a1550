// SPDX-License-Identifier: MPL-2.0

// Package report renders a resolved config.Record for humans (Text) and for
// tools (TOML).
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
	"mvdan.cc/sh/v3/syntax"

	"github.com/jobrun/jobrun/internal/config"
)

const keyWidth = 16

// Text writes the option listing: one "key : value" line per setting.
// Styling follows the color capabilities of w.
func Text(w io.Writer, rec config.Record) error {
	r := lipgloss.NewRenderer(w)
	title := r.NewStyle().Bold(true).Foreground(ColorPrimary)
	key := r.NewStyle().Width(keyWidth).Foreground(ColorMuted)

	partition := rec.Partition
	if partition == "" {
		partition = "default"
	}

	rows := [][2]string{
		{"user", rec.User},
		{"uid", strconv.Itoa(rec.UID)},
		{"cwd", rec.WorkingDir},
		{"nprocs", strconv.Itoa(rec.ProcessCount)},
		{"cpus/proc", strconv.Itoa(rec.CPUsPerProcess)},
		{"nodes", strconv.Itoa(rec.NodeCount)},
		{"total cpus", strconv.Itoa(rec.TotalCPUs())},
		{"partition", partition},
		{"job name", rec.JobName},
		{"distribution", rec.Distribution.String()},
		{"output", Stream(rec.Stdout)},
		{"error", Stream(rec.Stderr)},
		{"input", Stream(rec.Stdin)},
		{"core format", rec.CoreFormat},
		{"verbose", strconv.Itoa(rec.Verbosity)},
		{"debug", strconv.Itoa(rec.DebugLevel)},
		{"immediate", strconv.FormatBool(rec.Immediate)},
		{"label output", strconv.FormatBool(rec.LabelOutput)},
		{"mode", mode(rec)},
		{"overcommit", strconv.FormatBool(rec.Overcommit)},
		{"no-allocate", strconv.FormatBool(rec.NoAllocate)},
		{"constraints", Constraints(rec)},
		{"remote command", Command(rec.RemoteCommand)},
	}

	var sb strings.Builder
	sb.WriteString(title.Render(fmt.Sprintf("defined options for program %q", rec.ProgramName)))
	sb.WriteString("\n")
	for _, row := range rows {
		sb.WriteString(key.Render(row[0]))
		sb.WriteString(": ")
		sb.WriteString(row[1])
		sb.WriteString("\n")
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// TOML writes rec as a TOML document.
func TOML(w io.Writer, rec config.Record) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("encode options: %w", err)
	}
	return nil
}

// DecodeTOML reads a record written by TOML.
func DecodeTOML(r io.Reader) (config.Record, error) {
	var rec config.Record
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&rec); err != nil {
		return config.Record{}, fmt.Errorf("decode options: %w", err)
	}
	return rec, nil
}

// Stream describes one stream redirection, e.g. "per-task-file (out.%)".
func Stream(spec config.IOSpec) string {
	m := spec.Mode()
	if !m.UsesFile() {
		return m.String()
	}
	return fmt.Sprintf("%s (%s)", m, spec)
}

// Constraints lists the constraint fields that are set, space separated.
func Constraints(rec config.Record) string {
	var parts []string
	if rec.MinCPUsPerNode > 0 {
		parts = append(parts, fmt.Sprintf("mincpus=%d", rec.MinCPUsPerNode))
	}
	if rec.MinRealMemoryMB > 0 {
		parts = append(parts, fmt.Sprintf("mem=%dM", rec.MinRealMemoryMB))
	}
	if rec.MinTmpDiskMB > 0 {
		parts = append(parts, fmt.Sprintf("tmp=%dM", rec.MinTmpDiskMB))
	}
	if rec.Contiguous {
		parts = append(parts, "contiguous")
	}
	if rec.NodeList != "" {
		parts = append(parts, "nodelist="+rec.NodeList)
	}
	if rec.Constraints != "" {
		parts = append(parts, "constraints="+quote(rec.Constraints))
	}
	return strings.Join(parts, " ")
}

// Command renders argv as a shell command line.
func Command(argv []string) string {
	quoted := make([]string, 0, len(argv))
	for _, arg := range argv {
		quoted = append(quoted, quote(arg))
	}
	return strings.Join(quoted, " ")
}

func quote(s string) string {
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		return strconv.Quote(s)
	}
	return q
}

func mode(rec config.Record) string {
	if rec.Mode == config.RunModeAttach {
		return fmt.Sprintf("%s (job %s)", rec.Mode, rec.AttachJobID)
	}
	return rec.Mode.String()
}
