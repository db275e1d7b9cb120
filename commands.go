package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot"

	"github.com/ByLCY/scalebar/dimension"
	"github.com/ByLCY/scalebar/overlay"
	canvasrenderer "github.com/ByLCY/scalebar/renderer/canvas"
	"github.com/ByLCY/scalebar/scalebar"
)

type resolveOptions struct {
	dx         float64
	units      string
	dimension  string
	lengthPx   float64
	fixed      bool
	fixedValue float64
	fixedUnits string
	asJSON     bool
}

var resolveOpts resolveOptions

// resolution 是 resolve 子命令的输出。
type resolution struct {
	scalebar.Resolved
	Text string `json:"text"`
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "按标定求比例尺的长度与数值",
	RunE: func(cmd *cobra.Command, args []string) error {
		resolveOpts.fixed = cmd.Flags().Changed("fixed-value")
		res, err := resolve(resolveOpts)
		if err != nil {
			return err
		}
		return printResolution(cmd.OutOrStdout(), res, resolveOpts.asJSON)
	},
}

func resolve(o resolveOptions) (resolution, error) {
	dim, err := dimension.Lookup(o.dimension)
	if err != nil {
		return resolution{}, err
	}
	if !dim.IsValidUnit(o.units) {
		return resolution{}, fmt.Errorf("%w: %s 不属于 %s", dimension.ErrUnknownUnit, o.units, o.dimension)
	}

	var r scalebar.Resolved
	if o.fixed {
		unit := o.fixedUnits
		if unit == "" {
			unit = o.units
		}
		px, err := scalebar.ExactLength(o.fixedValue, unit, o.dx, dim, o.units)
		if err != nil {
			return resolution{}, err
		}
		r = scalebar.Resolved{LengthPx: px, Value: o.fixedValue, Unit: unit}
	} else {
		if r, err = scalebar.BestLength(o.lengthPx, o.dx, dim, o.units); err != nil {
			return resolution{}, err
		}
	}

	display, err := dim.Display(r.Unit)
	if err != nil {
		return resolution{}, err
	}
	return resolution{Resolved: r, Text: dim.FormatLabel(r.Value, display)}, nil
}

func printResolution(w io.Writer, res resolution, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		return enc.Encode(res)
	}
	_, err := fmt.Fprintf(w, "%s\t%s px\n", res.Text, dimension.FormatValue(res.LengthPx))
	return err
}

var unitsDimension string

var unitsCmd = &cobra.Command{
	Use:   "units",
	Short: "列出物理量族中的单位",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listUnits(cmd.OutOrStdout(), unitsDimension)
	},
}

func listUnits(w io.Writer, family string) error {
	if family == "" {
		for _, name := range dimension.Families() {
			fmt.Fprintln(w, name)
		}
		return nil
	}
	dim, err := dimension.Lookup(family)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "unit\tfactor\tdisplay\n")
	for _, u := range dim.Units() {
		factor, _ := dim.Factor(u)
		display, _ := dim.Display(u)
		fmt.Fprintf(tw, "%s\t%g\t%s\n", u, factor, display)
	}
	return tw.Flush()
}

type plotOptions struct {
	output        string
	dx, dy        float64
	units         string
	dimension     string
	xmax, ymax    float64
	width, height float64
	dual          bool
	label         string
	location      string
	title         string
}

var plotOpts plotOptions

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "输出带比例尺的空白 gonum/plot 图，用于预览参数",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := loadDefaults()
		if err != nil {
			return err
		}
		format, err := canvasrenderer.FormatFromPath(plotOpts.output)
		if err != nil {
			return err
		}
		p, err := newPlot(plotOpts, defaults)
		if err != nil {
			return err
		}
		r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{Format: format})
		out, err := r.RenderPlot(p, plotOpts.width, plotOpts.height)
		if err != nil {
			return fmt.Errorf("渲染失败: %w", err)
		}
		if err := writeOutput(plotOpts.output, out); err != nil {
			return err
		}
		log.WithField("file", plotOpts.output).Info("已生成预览图")
		return nil
	},
}

func newPlot(o plotOptions, defaults scalebar.Defaults) (*plot.Plot, error) {
	opts := []scalebar.Option{
		scalebar.WithDefaults(defaults),
		scalebar.WithDimension(o.dimension),
		scalebar.WithUnits(o.units),
	}
	if o.label != "" {
		opts = append(opts, scalebar.WithLabel(o.label))
	}
	if o.location != "" {
		opts = append(opts, scalebar.WithLocation(o.location))
	}

	p := plot.New()
	p.Title.Text = o.title
	p.X.Min, p.X.Max = 0, o.xmax
	p.Y.Min, p.Y.Max = 0, o.ymax

	if o.dual {
		db, err := scalebar.NewDual(o.dx, o.dy, opts...)
		if err != nil {
			return nil, err
		}
		p.Add(overlay.NewDual(db))
		return p, nil
	}
	sb, err := scalebar.New(o.dx, opts...)
	if err != nil {
		return nil, err
	}
	p.Add(overlay.New(sb))
	return p, nil
}

func init() {
	f := resolveCmd.Flags()
	f.Float64Var(&resolveOpts.dx, "dx", 1, "每像素对应的数值")
	f.StringVar(&resolveOpts.units, "units", "m", "dx 的单位")
	f.StringVar(&resolveOpts.dimension, "dimension", dimension.FamilySILength, "物理量族")
	f.Float64Var(&resolveOpts.lengthPx, "length-px", 100, "期望长度（像素）")
	f.Float64Var(&resolveOpts.fixedValue, "fixed-value", 0, "固定数值，设置后不再自动取整")
	f.StringVar(&resolveOpts.fixedUnits, "fixed-units", "", "固定数值的单位，默认与 --units 相同")
	f.BoolVar(&resolveOpts.asJSON, "json", false, "以 JSON 输出")

	unitsCmd.Flags().StringVar(&unitsDimension, "dimension", "", "物理量族，为空时列出全部族名")

	f = plotCmd.Flags()
	f.StringVar(&plotOpts.output, "out", "output/plot.svg", "输出路径，扩展名决定格式")
	f.Float64Var(&plotOpts.dx, "dx", 1, "x 方向每像素对应的数值")
	f.Float64Var(&plotOpts.dy, "dy", 1, "y 方向每像素对应的数值（--dual）")
	f.StringVar(&plotOpts.units, "units", "m", "dx 的单位")
	f.StringVar(&plotOpts.dimension, "dimension", dimension.FamilySILength, "物理量族")
	f.Float64Var(&plotOpts.xmax, "xmax", 512, "x 轴范围（像素）")
	f.Float64Var(&plotOpts.ymax, "ymax", 512, "y 轴范围（像素）")
	f.Float64Var(&plotOpts.width, "width", 120, "图宽（mm）")
	f.Float64Var(&plotOpts.height, "height", 120, "图高（mm）")
	f.BoolVar(&plotOpts.dual, "dual", false, "绘制双向比例尺")
	f.StringVar(&plotOpts.label, "label", "", "说明文字")
	f.StringVar(&plotOpts.location, "location", "", "比例尺位置，例如 \"lower right\"")
	f.StringVar(&plotOpts.title, "title", "", "图标题")
}
