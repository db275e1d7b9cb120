package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ByLCY/scalebar/config"
	"github.com/ByLCY/scalebar/dsl"
	"github.com/ByLCY/scalebar/layout"
	"github.com/ByLCY/scalebar/renderer"
	canvasrenderer "github.com/ByLCY/scalebar/renderer/canvas"
	"github.com/ByLCY/scalebar/scalebar"
)

// Version 由构建参数注入，例如 -ldflags "-X main.Version=1.0.0"。
var Version = "dev"

var (
	verbose  bool
	rcFile   string
	settings = config.New()
)

var rootCmd = &cobra.Command{
	Use:   "scalebar",
	Short: "为图像与图表生成带标定的比例尺",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "打印版本号",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "scalebar %s\n", Version)
	},
}

type renderOptions struct {
	input, output, debug, data, font string
}

var renderOpts renderOptions

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "根据图描述文件输出 PDF、SVG 或 PNG",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := loadDefaults()
		if err != nil {
			return err
		}
		var data any
		if renderOpts.data != "" {
			if err := json.Unmarshal([]byte(renderOpts.data), &data); err != nil {
				return fmt.Errorf("解析 data JSON 失败: %w", err)
			}
		}
		format, err := canvasrenderer.FormatFromPath(renderOpts.output)
		if err != nil {
			return err
		}
		r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
			BaseDir: filepath.Dir(renderOpts.input),
			Format:  format,
			Font:    renderOpts.font,
		})
		if err := run(renderOpts, data, defaults, r); err != nil {
			return err
		}
		log.WithField("file", renderOpts.output).Info("已生成比例尺图")
		return nil
	},
}

func init() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "输出调试日志")
	rootCmd.PersistentFlags().StringVar(&rcFile, "rc", "", "比例尺默认值文件（TOML/YAML/JSON）")
	rootCmd.PersistentFlags().Float64("font-size", scalebar.NewDefaults().FontSize, "默认字号（pt）")
	rootCmd.PersistentFlags().String("color", scalebar.NewDefaults().Color, "默认前景色")
	settings.BindPFlag(config.Key("font_size"), rootCmd.PersistentFlags().Lookup("font-size"))
	settings.BindPFlag(config.Key("color"), rootCmd.PersistentFlags().Lookup("color"))

	renderCmd.Flags().StringVar(&renderOpts.input, "in", "examples/micrograph.sbar", "图描述文件路径")
	renderCmd.Flags().StringVar(&renderOpts.output, "out", "output/micrograph.pdf", "输出路径，扩展名决定格式")
	renderCmd.Flags().StringVar(&renderOpts.debug, "debug", "", "布局调试 JSON 输出路径")
	renderCmd.Flags().StringVar(&renderOpts.data, "data", "", "绑定到说明文字的 JSON 数据")
	renderCmd.Flags().StringVar(&renderOpts.font, "font", "", "字体：embed:<名称> 或字体文件路径")

	rootCmd.AddCommand(versionCmd, renderCmd, resolveCmd, unitsCmd, plotCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("执行失败: %v", err)
	}
}

func loadDefaults() (scalebar.Defaults, error) {
	return loadDefaultsFrom(settings, rcFile)
}

func loadDefaultsFrom(v *viper.Viper, path string) (scalebar.Defaults, error) {
	d, err := config.LoadWith(v, path)
	if err != nil {
		return scalebar.Defaults{}, err
	}
	log.WithFields(log.Fields{"rc": path, "font_size": d.FontSize}).Debug("已加载比例尺默认值")
	return d, nil
}

// run 串联解析、布局与渲染。
func run(opts renderOptions, data any, defaults scalebar.Defaults, r renderer.TextRenderer) error {
	if r == nil {
		return fmt.Errorf("renderer 不能为空")
	}
	file, err := os.Open(opts.input)
	if err != nil {
		return fmt.Errorf("无法打开图描述文件 %s: %w", opts.input, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return fmt.Errorf("解析 DSL 失败: %w", err)
	}

	result, err := layout.Build(doc, data, layout.BuildOptions{
		Measurer: r,
		Defaults: &defaults,
		Debug:    layout.DebugOptions{Bars: opts.debug != ""},
	})
	if err != nil {
		return fmt.Errorf("布局计算失败: %w", err)
	}

	if opts.debug != "" {
		if err := writeDebug(result, opts.debug); err != nil {
			return err
		}
	}

	out, err := r.Render(result)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	return writeOutput(opts.output, out)
}

func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入输出文件失败: %w", err)
	}
	return nil
}

func writeDebug(result *layout.Result, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(result, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
