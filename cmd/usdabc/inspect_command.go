package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"usdabc/internal/archive"
	"usdabc/internal/convert"
	"usdabc/internal/geom"
	"usdabc/internal/preflight"
	"usdabc/internal/scene"
)

type archiveView struct {
	ID            string       `json:"archive_id"`
	Writer        string       `json:"writer"`
	Source        string       `json:"source,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	SchemaVersion int          `json:"schema_version"`
	Objects       []objectView `json:"objects"`
}

type objectView struct {
	Path       string         `json:"path"`
	Schema     string         `json:"schema"`
	SourceType string         `json:"source_type,omitempty"`
	Basis      string         `json:"basis,omitempty"`
	Properties []propertyView `json:"properties,omitempty"`
}

type propertyView struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Scope   string `json:"scope"`
	Static  bool   `json:"static"`
	Samples int    `json:"samples"`
}

type curvesView struct {
	Path                 string          `json:"path"`
	Time                 string          `json:"time"`
	VertexCounts         []int32         `json:"vertex_counts"`
	Points               int             `json:"points"`
	Widths               int             `json:"widths"`
	WidthsInterpolation  string          `json:"widths_interpolation"`
	Normals              int             `json:"normals"`
	NormalsInterpolation string          `json:"normals_interpolation"`
	Issues               []convert.Issue `json:"issues,omitempty"`
}

func newInspectCommand() *cobra.Command {
	var primFlag string
	var timeFlag string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:         "inspect <archive>",
		Short:       "List archive objects, or evaluate one curves object at a time",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := preflight.Err(preflight.ForRead(nil, args[0], "")); err != nil {
				return err
			}
			reader, err := archive.Open(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer reader.Close()

			if strings.TrimSpace(primFlag) != "" {
				tc, err := scene.ParseTimeCode(strings.TrimSpace(timeFlag))
				if err != nil {
					return fmt.Errorf("--time: %w", err)
				}
				obj, err := reader.Object(cmd.Context(), primFlag)
				if err != nil {
					return err
				}
				batch, issues, err := convert.ReadCurves(obj, tc)
				if err != nil {
					return err
				}
				view := newCurvesView(obj.Path, tc, batch, issues)
				if jsonOutput {
					return writeJSON(cmd, view)
				}
				renderCurves(cmd.OutOrStdout(), view)
				return nil
			}

			infos, err := reader.Objects(cmd.Context())
			if err != nil {
				return err
			}
			view := newArchiveView(reader.Info(), infos)
			if jsonOutput {
				return writeJSON(cmd, view)
			}
			renderArchive(cmd.OutOrStdout(), view)
			return nil
		},
	}

	cmd.Flags().StringVar(&primFlag, "prim", "", "Curves object path to evaluate")
	cmd.Flags().StringVar(&timeFlag, "time", "earliest", "Query time for --prim: earliest, default, or a number")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON instead of tables")
	return cmd
}

func newArchiveView(info archive.Info, infos []archive.ObjectInfo) archiveView {
	view := archiveView{
		ID:            info.ID.String(),
		Writer:        info.Writer,
		Source:        info.Source,
		CreatedAt:     info.CreatedAt,
		SchemaVersion: info.SchemaVersion,
		Objects:       make([]objectView, 0, len(infos)),
	}
	for _, oi := range infos {
		obj := objectView{Path: oi.Path, Schema: string(oi.Schema), SourceType: oi.SourceType, Basis: oi.Basis}
		for _, p := range oi.Properties {
			obj.Properties = append(obj.Properties, propertyView{
				Name:    p.Name,
				Type:    string(p.Type),
				Scope:   p.Scope,
				Static:  p.Static,
				Samples: p.NumSamples,
			})
		}
		view.Objects = append(view.Objects, obj)
	}
	return view
}

func newCurvesView(path string, tc scene.TimeCode, batch geom.CurveBatch, issues []convert.Issue) curvesView {
	return curvesView{
		Path:                 path,
		Time:                 tc.String(),
		VertexCounts:         batch.VertexCounts,
		Points:               len(batch.Points),
		Widths:               len(batch.Widths),
		WidthsInterpolation:  string(batch.WidthsInterpolation),
		Normals:              len(batch.Normals),
		NormalsInterpolation: string(batch.NormalsInterpolation),
		Issues:               issues,
	}
}

func renderArchive(out io.Writer, view archiveView) {
	fmt.Fprintf(out, "Archive %s (writer %s, schema v%d, created %s)\n",
		view.ID, view.Writer, view.SchemaVersion, view.CreatedAt.Local().Format(time.DateTime))
	if view.Source != "" {
		fmt.Fprintf(out, "Source: %s\n", view.Source)
	}
	rows := make([][]string, 0, len(view.Objects))
	for _, obj := range view.Objects {
		if len(obj.Properties) == 0 {
			rows = append(rows, []string{obj.Path, obj.Schema, obj.Basis, "", "", "", ""})
			continue
		}
		for i, p := range obj.Properties {
			samples := strconv.Itoa(p.Samples)
			if p.Static {
				samples = "static"
			}
			if i == 0 {
				rows = append(rows, []string{obj.Path, obj.Schema, obj.Basis, p.Name, p.Type, p.Scope, samples})
			} else {
				rows = append(rows, []string{"", "", "", p.Name, p.Type, p.Scope, samples})
			}
		}
	}
	fmt.Fprintln(out, renderTable(
		"",
		[]string{"Object", "Schema", "Basis", "Property", "Type", "Scope", "Samples"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	))
}

func renderCurves(out io.Writer, view curvesView) {
	counts := make([]string, len(view.VertexCounts))
	for i, c := range view.VertexCounts {
		counts[i] = strconv.Itoa(int(c))
	}
	rows := [][]string{
		{"curveVertexCounts", "[" + strings.Join(counts, ", ") + "]", ""},
		{"points", strconv.Itoa(view.Points), "vertex"},
		{"tangents", strconv.Itoa(view.Points), "vertex"},
		{"widths", strconv.Itoa(view.Widths), view.WidthsInterpolation},
		{"normals", strconv.Itoa(view.Normals), view.NormalsInterpolation},
	}
	fmt.Fprintln(out, renderTable(
		fmt.Sprintf("%s @ %s", view.Path, view.Time),
		[]string{"Attribute", "Values", "Interpolation"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft},
	))
	for _, issue := range view.Issues {
		fmt.Fprintf(out, "%s %s: %s\n", issue.Severity, issue.Attribute, issue.Message)
	}
}
