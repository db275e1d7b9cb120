package layout

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ByLCY/scalebar/binding"
	"github.com/ByLCY/scalebar/dsl"
	"github.com/ByLCY/scalebar/scalebar"
)

const (
	defaultFigureWidth  = 160.0
	defaultFigureHeight = 120.0
	defaultAxesMargin   = 10.0
	axesFrameWidth      = 0.2
)

// Build 根据 DSL AST 生成坐标区与比例尺的布局结果。
// 写在 axes 段落内的比例尺属于该坐标区；写在 figure 顶层的比例尺属于第一个坐标区。
func Build(doc *dsl.Document, data any, opts BuildOptions) (*Result, error) {
	if doc == nil || doc.Body == nil {
		return nil, fmt.Errorf("文档为空")
	}
	if opts.Measurer == nil {
		return nil, fmt.Errorf("layout: 缺少文本测量后端 Measurer")
	}
	defaults := scalebar.NewDefaults()
	if opts.Defaults != nil {
		if err := opts.Defaults.Validate(); err != nil {
			return nil, fmt.Errorf("比例尺默认值无效: %w", err)
		}
		defaults = *opts.Defaults
	}

	res := &Result{
		Width:  defaultFigureWidth,
		Height: defaultFigureHeight,
		Meta:   DocumentMeta{Title: doc.Name},
	}
	for _, a := range doc.Body.Assignments() {
		var err error
		switch a.Key {
		case "width":
			res.Width, err = mmValue(a, 0)
		case "height":
			res.Height, err = mmValue(a, 0)
		default:
			log.WithField("key", a.Key).Warn("忽略未知的 figure 属性")
		}
		if err != nil {
			return nil, err
		}
	}
	if res.Width <= 0 || res.Height <= 0 {
		return nil, fmt.Errorf("图的尺寸必须为正数：%gx%gmm", res.Width, res.Height)
	}
	for _, sec := range doc.Body.Sections("meta") {
		collectMeta(sec, data, &res.Meta)
	}

	axesSections := doc.Body.Sections("axes")
	if len(axesSections) == 0 {
		return nil, fmt.Errorf("文档中缺少 axes 段落")
	}

	ctx := &buildContext{res: res, data: data, opts: opts, defaults: defaults}
	for i, sec := range axesSections {
		box, err := buildAxes(sec, res.Width, res.Height)
		if err != nil {
			return nil, err
		}
		res.Axes = append(res.Axes, box)

		bars := sec.Block.Sections("")
		if i == 0 {
			bars = append(doc.Body.Sections("scalebar"), append(doc.Body.Sections("dual-scalebar"), bars...)...)
		}
		for _, bar := range bars {
			switch bar.Kind {
			case "scalebar":
				err = ctx.addScaleBar(bar, box)
			case "dual-scalebar":
				err = ctx.addDualScaleBar(bar, box)
			default:
				log.WithField("section", bar.Kind).Warn("忽略未知的 axes 子段落")
			}
			if err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}

type buildContext struct {
	res      *Result
	data     any
	opts     BuildOptions
	defaults scalebar.Defaults
}

func (c *buildContext) addScaleBar(sec *dsl.Section, box AxesBox) error {
	var dx float64
	axis := &axisSpec{}
	opts := []scalebar.Option{scalebar.WithDefaults(c.defaults)}
	for _, a := range sec.Block.Assignments() {
		if a.Key == "dx" {
			v, err := numberValue(a)
			if err != nil {
				return err
			}
			dx = v
			continue
		}
		if ok, err := axis.apply(a, c.data); ok || err != nil {
			if err != nil {
				return err
			}
			continue
		}
		opt, ok, err := styleOption(a, c.data, false)
		if err != nil {
			return err
		}
		if !ok {
			log.WithFields(log.Fields{"key": a.Key, "pos": a.Pos.String()}).Warn("忽略未知的 scalebar 属性")
			continue
		}
		opts = append(opts, opt)
	}
	opts = append(opts, axis.options()...)

	sb, err := scalebar.New(dx, opts...)
	if err != nil {
		return fmt.Errorf("%s: scalebar 配置无效: %w", sec.Pos, err)
	}
	info, ok, err := sb.Compute(box.Area.View())
	if err != nil {
		return fmt.Errorf("%s: 比例尺计算失败: %w", sec.Pos, err)
	}
	if !ok {
		log.WithField("axes", box.Name).Debug("标定为 0 或坐标范围为空，跳过比例尺")
		return nil
	}
	if info.AspectMismatch {
		log.WithFields(log.Fields{"axes": box.Name, "rotation": sb.Settings().Rotation}).
			Warn("坐标区纵横比不一致；请设置 aspect: equal 或使用 horizontal-only / vertical-only")
	}
	group, err := ComposeScaleBar(info, sb.Settings(), box.Area, c.opts.Measurer)
	if err != nil {
		return err
	}
	c.append(group)

	if c.opts.Debug.Bars {
		perUnit := box.Area.MMPerUnitX()
		if info.Vertical {
			perUnit = box.Area.MMPerUnitY()
		}
		c.res.Bars = append(c.res.Bars, barDebug(box.Name, "scalebar", info, perUnit))
	}
	return nil
}

func (c *buildContext) addDualScaleBar(sec *dsl.Section, box AxesBox) error {
	var dx, dy float64
	shared := &axisSpec{}
	opts := []scalebar.Option{scalebar.WithDefaults(c.defaults)}
	for _, a := range sec.Block.Assignments() {
		switch a.Key {
		case "dx", "dy":
			v, err := numberValue(a)
			if err != nil {
				return err
			}
			if a.Key == "dx" {
				dx = v
			} else {
				dy = v
			}
			continue
		case "units", "labels":
			// 数组形式按 [x, y] 分别设置
			if a.Value.Array != nil {
				vals := stringValues(a.Value)
				if len(vals) != 2 {
					return fmt.Errorf("%s: %s 需要两个取值", a.Pos, a.Key)
				}
				for i, axis := range []scalebar.Axis{scalebar.AxisX, scalebar.AxisY} {
					opt := scalebar.WithUnits(vals[i])
					if a.Key == "labels" {
						opt = scalebar.WithLabel(binding.Interpolate(vals[i], c.data))
					}
					opts = append(opts, scalebar.ForAxis(axis, opt))
				}
				continue
			}
		}
		if ok, err := shared.apply(a, c.data); ok || err != nil {
			if err != nil {
				return err
			}
			continue
		}
		opt, ok, err := styleOption(a, c.data, true)
		if err != nil {
			return err
		}
		if !ok {
			log.WithFields(log.Fields{"key": a.Key, "pos": a.Pos.String()}).Warn("忽略未知的 dual-scalebar 属性")
			continue
		}
		opts = append(opts, opt)
	}
	opts = append(opts, shared.options()...)

	for _, sub := range sec.Block.Sections("") {
		var axis scalebar.Axis
		switch sub.Kind {
		case "x":
			axis = scalebar.AxisX
		case "y":
			axis = scalebar.AxisY
		default:
			log.WithField("section", sub.Kind).Warn("忽略未知的 dual-scalebar 子段落")
			continue
		}
		spec := &axisSpec{}
		for _, a := range sub.Block.Assignments() {
			ok, err := spec.apply(a, c.data)
			if err != nil {
				return err
			}
			if !ok {
				log.WithFields(log.Fields{"key": a.Key, "axis": sub.Kind}).Warn("忽略未知的坐标轴属性")
			}
		}
		opts = append(opts, scalebar.ForAxis(axis, spec.options()...))
	}

	db, err := scalebar.NewDual(dx, dy, opts...)
	if err != nil {
		return fmt.Errorf("%s: dual-scalebar 配置无效: %w", sec.Pos, err)
	}
	info, ok, err := db.Compute(box.Area.View())
	if err != nil {
		return fmt.Errorf("%s: 比例尺计算失败: %w", sec.Pos, err)
	}
	if !ok {
		log.WithField("axes", box.Name).Debug("标定为 0 或坐标范围为空，跳过双向比例尺")
		return nil
	}
	group, err := ComposeDualScaleBar(info, db.Settings(), box.Area, c.opts.Measurer)
	if err != nil {
		return err
	}
	c.append(group)

	if c.opts.Debug.Bars {
		c.res.Bars = append(c.res.Bars,
			barDebug(box.Name, "dual-scalebar/x", info.X, box.Area.MMPerUnitX()),
			barDebug(box.Name, "dual-scalebar/y", info.Y, box.Area.MMPerUnitY()))
	}
	return nil
}

func (c *buildContext) append(g Group) {
	c.res.Rects = append(c.res.Rects, g.Rects()...)
	c.res.Texts = append(c.res.Texts, g.Texts...)
}

func barDebug(axes, kind string, info scalebar.Info, mmPerUnit float64) BarDebug {
	return BarDebug{
		Axes:      axes,
		Kind:      kind,
		LengthPx:  info.LengthPx,
		LengthMM:  info.LengthPx * mmPerUnit,
		Value:     info.Value,
		Units:     info.Units,
		ScaleText: info.ScaleText,
		Label:     info.Label,
	}
}

// axisSpec 收集一根尺的按轴属性；fixed-value 与 fixed-units 可分开书写，最后合并。
type axisSpec struct {
	opts       []scalebar.Option
	fixedValue *float64
	fixedUnits string
}

func (s *axisSpec) apply(a *dsl.Assignment, data any) (bool, error) {
	raw := a.Value.Raw()
	switch a.Key {
	case "units":
		s.opts = append(s.opts, scalebar.WithUnits(raw))
	case "dimension":
		s.opts = append(s.opts, scalebar.WithDimension(raw))
	case "label":
		label := binding.Interpolate(raw, data)
		if binding.HasPlaceholders(label) {
			log.WithFields(log.Fields{"label": label, "pos": a.Pos.String()}).Warn("说明文字中存在未解析的占位符")
		}
		s.opts = append(s.opts, scalebar.WithLabel(label))
	case "length-fraction":
		v, err := numberValue(a)
		if err != nil {
			return true, err
		}
		s.opts = append(s.opts, scalebar.WithLengthFraction(v))
	case "fixed-value":
		v, err := numberValue(a)
		if err != nil {
			return true, err
		}
		s.fixedValue = &v
	case "fixed-units":
		s.fixedUnits = raw
	case "scale-loc":
		s.opts = append(s.opts, scalebar.WithScaleLoc(raw))
	case "label-loc":
		s.opts = append(s.opts, scalebar.WithLabelLoc(raw))
	default:
		return false, nil
	}
	return true, nil
}

func (s *axisSpec) options() []scalebar.Option {
	opts := s.opts
	if s.fixedValue != nil {
		opts = append(opts, scalebar.WithFixedValue(*s.fixedValue, s.fixedUnits))
	} else if s.fixedUnits != "" {
		log.WithField("fixed-units", s.fixedUnits).Warn("fixed-units 需要与 fixed-value 一起使用，已忽略")
	}
	return opts
}

// styleOption 把外观属性转换为比例尺选项。dual 为 true 时接受 arrangement，拒绝 rotation。
func styleOption(a *dsl.Assignment, data any, dual bool) (scalebar.Option, bool, error) {
	raw := a.Value.Raw()
	number := func(fn func(float64) scalebar.Option) (scalebar.Option, bool, error) {
		v, err := numberValue(a)
		if err != nil {
			return nil, true, err
		}
		return fn(v), true, nil
	}
	points := func(fn func(float64) scalebar.Option) (scalebar.Option, bool, error) {
		v, err := ptValue(a)
		if err != nil {
			return nil, true, err
		}
		return fn(v), true, nil
	}

	switch a.Key {
	case "width-fraction":
		return number(scalebar.WithWidthFraction)
	case "height-fraction":
		return number(scalebar.WithHeightFraction)
	case "location":
		return scalebar.WithLocation(raw), true, nil
	case "loc":
		return scalebar.WithLoc(raw), true, nil
	case "pad":
		return number(scalebar.WithPad)
	case "border-pad":
		return number(scalebar.WithBorderPad)
	case "sep":
		return points(scalebar.WithSep)
	case "font-size":
		return points(scalebar.WithFontSize)
	case "box-alpha":
		return number(scalebar.WithBoxAlpha)
	case "color":
		return scalebar.WithColor(raw), true, nil
	case "box-color":
		return scalebar.WithBoxColor(raw), true, nil
	case "frameon":
		on, err := boolValue(a)
		if err != nil {
			return nil, true, err
		}
		return scalebar.WithFrameOn(on), true, nil
	case "bbox-to-anchor":
		vals := stringValues(a.Value)
		if len(vals) != 2 {
			return nil, true, fmt.Errorf("%s: bbox-to-anchor 需要 [x, y]", a.Pos)
		}
		x, errX := strconv.ParseFloat(vals[0], 64)
		y, errY := strconv.ParseFloat(vals[1], 64)
		if errX != nil || errY != nil {
			return nil, true, fmt.Errorf("%s: bbox-to-anchor 必须为数字", a.Pos)
		}
		return scalebar.WithBBoxToAnchor(x, y), true, nil
	case "scale-format":
		return scalebar.WithScaleFormatter(binding.ScaleFormatter(raw, data)), true, nil
	case "rotation":
		if dual {
			return nil, true, fmt.Errorf("%s: dual-scalebar 不支持 rotation", a.Pos)
		}
		return scalebar.WithRotation(raw), true, nil
	case "arrangement":
		if !dual {
			return nil, true, fmt.Errorf("%s: arrangement 仅用于 dual-scalebar", a.Pos)
		}
		return scalebar.WithArrangement(raw), true, nil
	}
	return nil, false, nil
}

func buildAxes(sec *dsl.Section, figW, figH float64) (AxesBox, error) {
	black := Color{}
	box := AxesBox{Name: sec.Name, FrameColor: black, FrameWidth: axesFrameWidth}
	margin := [4]float64{defaultAxesMargin, defaultAxesMargin, defaultAxesMargin, defaultAxesMargin}
	var hasX, hasY bool
	aspect := "auto"

	for _, a := range sec.Block.Assignments() {
		var err error
		switch a.Key {
		case "xlim":
			box.Area.XLim, err = limits(a)
			hasX = true
		case "ylim":
			box.Area.YLim, err = limits(a)
			hasY = true
		case "margin":
			margin, err = margins(a, figW, figH)
		case "background":
			var c Color
			if c, err = ParseColor(a.Value.Raw()); err == nil {
				box.Background = &c
			}
		case "frame":
			if a.Value.Raw() == "none" {
				box.FrameWidth = 0
				continue
			}
			box.FrameColor, err = ParseColor(a.Value.Raw())
		case "frame-width":
			box.FrameWidth, err = mmValue(a, 0)
		case "aspect":
			aspect = strings.ToLower(a.Value.Raw())
			if aspect != "auto" && aspect != "equal" {
				err = fmt.Errorf("%s: aspect 只能为 auto 或 equal", a.Pos)
			}
		default:
			log.WithField("key", a.Key).Warn("忽略未知的 axes 属性")
		}
		if err != nil {
			return AxesBox{}, err
		}
	}
	if !hasX || !hasY {
		return AxesBox{}, fmt.Errorf("%s: axes 缺少 xlim 或 ylim", sec.Pos)
	}

	area := &box.Area
	area.X, area.Y = margin[3], margin[0]
	area.Width = figW - margin[1] - margin[3]
	area.Height = figH - margin[0] - margin[2]
	if area.Width <= 0 || area.Height <= 0 {
		return AxesBox{}, fmt.Errorf("%s: 边距过大，坐标区没有剩余空间", sec.Pos)
	}

	if aspect == "equal" {
		dataW := math.Abs(area.XLim[1] - area.XLim[0])
		dataH := math.Abs(area.YLim[1] - area.YLim[0])
		if dataW > 0 && dataH > 0 {
			ratio := dataW / dataH
			if area.Width/area.Height > ratio {
				w := area.Height * ratio
				area.X += (area.Width - w) / 2
				area.Width = w
			} else {
				h := area.Width / ratio
				area.Y += (area.Height - h) / 2
				area.Height = h
			}
		}
	}
	return box, nil
}

func collectMeta(sec *dsl.Section, data any, meta *DocumentMeta) {
	for _, a := range sec.Block.Assignments() {
		switch a.Key {
		case "title":
			meta.Title = binding.Interpolate(a.Value.Raw(), data)
		case "author":
			meta.Author = binding.Interpolate(a.Value.Raw(), data)
		case "subject":
			meta.Subject = binding.Interpolate(a.Value.Raw(), data)
		case "creator":
			meta.Creator = a.Value.Raw()
		case "keywords":
			meta.Keywords = stringValues(a.Value)
		}
	}
}

func limits(a *dsl.Assignment) ([2]float64, error) {
	vals := stringValues(a.Value)
	if len(vals) != 2 {
		return [2]float64{}, fmt.Errorf("%s: %s 需要 [起点, 终点]", a.Pos, a.Key)
	}
	var out [2]float64
	for i, v := range vals {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return [2]float64{}, fmt.Errorf("%s: %s 必须为数字: %w", a.Pos, a.Key, err)
		}
		out[i] = f
	}
	return out, nil
}

// margins 解析 margin，支持单个长度或 [上, 右, 下, 左]。
func margins(a *dsl.Assignment, figW, figH float64) ([4]float64, error) {
	vals := stringValues(a.Value)
	var out [4]float64
	switch len(vals) {
	case 1:
		l, err := ParseLength(vals[0])
		if err != nil {
			return out, fmt.Errorf("%s: %w", a.Pos, err)
		}
		h, errH := l.Resolve(figW)
		v, errV := l.Resolve(figH)
		if errH != nil || errV != nil {
			return out, fmt.Errorf("%s: margin 单位无效", a.Pos)
		}
		return [4]float64{v, h, v, h}, nil
	case 4:
		for i, s := range vals {
			l, err := ParseLength(s)
			if err != nil {
				return out, fmt.Errorf("%s: %w", a.Pos, err)
			}
			ref := figH
			if i%2 == 1 {
				ref = figW
			}
			if out[i], err = l.Resolve(ref); err != nil {
				return out, fmt.Errorf("%s: %w", a.Pos, err)
			}
		}
		return out, nil
	}
	return out, fmt.Errorf("%s: margin 需要 1 个或 4 个取值", a.Pos)
}

func numberValue(a *dsl.Assignment) (float64, error) {
	f, err := strconv.ParseFloat(a.Value.Raw(), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %s 必须为数字，实际 %q", a.Pos, a.Key, a.Value.Raw())
	}
	return f, nil
}

func boolValue(a *dsl.Assignment) (bool, error) {
	switch strings.ToLower(a.Value.Raw()) {
	case "true", "yes", "on":
		return true, nil
	case "false", "no", "off":
		return false, nil
	}
	return false, fmt.Errorf("%s: %s 必须为 true 或 false", a.Pos, a.Key)
}

// ptValue 解析以 pt 为默认单位的长度（字号、间距）。
func ptValue(a *dsl.Assignment) (float64, error) {
	l, err := ParseLength(a.Value.Raw())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", a.Pos, err)
	}
	if l.Unit == "" {
		return l.Value, nil
	}
	v, err := l.To("pt")
	if err != nil {
		return 0, fmt.Errorf("%s: %w", a.Pos, err)
	}
	return v, nil
}

// mmValue 解析以 mm 为默认单位的长度，百分比相对 reference。
func mmValue(a *dsl.Assignment, reference float64) (float64, error) {
	l, err := ParseLength(a.Value.Raw())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", a.Pos, err)
	}
	v, err := l.Resolve(reference)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", a.Pos, err)
	}
	return v, nil
}

func stringValues(val *dsl.Value) []string {
	if val == nil {
		return nil
	}
	if val.Array != nil {
		out := make([]string, 0, len(val.Array.Values))
		for _, item := range val.Array.Values {
			if s := item.Raw(); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := val.Raw(); s != "" {
		return []string{s}
	}
	return nil
}
