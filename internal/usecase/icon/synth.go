// Package icon は文字1つを描いたプレースホルダーアイコンの生成機能を提供します
package icon

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/math/fixed"

	"ImageSweep/internal/domain/model"
	"ImageSweep/internal/infrastructure/imaging"
	"ImageSweep/internal/infrastructure/logging"
)

// 既定値
const (
	DefaultGlyph     = "A"
	DefaultFontPath  = "/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf"
	DefaultFontScale = 0.6
	DefaultQuality   = 95
)

// DefaultSizes は PWA 用アイコンの既定サイズです
var DefaultSizes = []int{192, 512}

// Options はアイコンの描画設定です
type Options struct {
	// Glyph は描画する文字です
	Glyph string
	// FontPath は優先して使う TrueType フォントのパスです。読めない場合は内蔵フォントを使います
	FontPath string
	// FontScale は一辺に対するフォントサイズの比率です
	FontScale float64
	// Background は背景色です
	Background color.Color
	// Foreground は文字色です
	Foreground color.Color
	// LogoPath が指定されていれば、文字の代わりにロゴ画像を縮小して中央に配置します
	LogoPath string
	// Quality は JPEG/WebP で出力する場合の品質です
	Quality int
}

// DefaultOptions は白背景に黒の "A" を描く設定を返します
func DefaultOptions() Options {
	return Options{
		Glyph:      DefaultGlyph,
		FontPath:   DefaultFontPath,
		FontScale:  DefaultFontScale,
		Background: color.White,
		Foreground: color.Black,
		Quality:    DefaultQuality,
	}
}

// Synthesizer はアイコン画像を生成します
type Synthesizer struct {
	opts   Options
	logger logging.Logger
	out    io.Writer
	font   *truetype.Font
}

// NewSynthesizer は新しい Synthesizer を作成します。out には生成したパスが1行ずつ出力されます
func NewSynthesizer(opts Options, logger logging.Logger, out io.Writer) *Synthesizer {
	if out == nil {
		out = os.Stdout
	}
	if opts.Glyph == "" {
		opts.Glyph = DefaultGlyph
	}
	if opts.FontScale <= 0 {
		opts.FontScale = DefaultFontScale
	}
	if opts.Background == nil {
		opts.Background = color.White
	}
	if opts.Foreground == nil {
		opts.Foreground = color.Black
	}
	return &Synthesizer{opts: opts, logger: logger, out: out}
}

// DefaultSpecs は dir 配下に pwa-<n>x<n>.png を出力する指定を sizes 分作成します
func DefaultSpecs(dir string, sizes []int) []model.IconSpec {
	specs := make([]model.IconSpec, 0, len(sizes))
	for _, size := range sizes {
		specs = append(specs, model.IconSpec{
			Size:       size,
			OutputPath: filepath.Join(dir, fmt.Sprintf("pwa-%dx%d.png", size, size)),
		})
	}
	return specs
}

// Generate はアイコンを描画し、拡張子から判定したフォーマットで書き出します
func (s *Synthesizer) Generate(spec model.IconSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	format, err := imaging.ForPath(spec.OutputPath)
	if err != nil {
		return err
	}

	img, err := s.Render(spec.Size)
	if err != nil {
		return err
	}

	if err := imaging.EncodeFile(spec.OutputPath, img, format, s.opts.Quality); err != nil {
		return fmt.Errorf("write icon %s: %w", spec.OutputPath, err)
	}

	fmt.Fprintf(s.out, "Generated %s\n", spec.OutputPath)
	return nil
}

// Render は size×size の画像を描画します
func (s *Synthesizer) Render(size int) (*image.RGBA, error) {
	if size <= 0 {
		return nil, fmt.Errorf("icon size must be positive, got %d", size)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(s.opts.Background), image.Point{}, draw.Src)

	if s.opts.LogoPath != "" {
		if err := s.drawLogo(canvas); err != nil {
			return nil, err
		}
		return canvas, nil
	}

	if err := s.drawGlyph(canvas); err != nil {
		return nil, err
	}
	return canvas, nil
}

// drawGlyph は文字のインク領域の中心がキャンバスの中心に来るように描画します
func (s *Synthesizer) drawGlyph(canvas *image.RGBA) error {
	f, err := s.loadFont()
	if err != nil {
		return err
	}

	size := canvas.Bounds().Dx()
	fontSize := int(float64(size) * s.opts.FontScale)
	if fontSize < 1 {
		fontSize = 1
	}

	face := truetype.NewFace(f, &truetype.Options{
		Size:    float64(fontSize),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	defer face.Close()

	bounds, _ := font.BoundString(face, s.opts.Glyph)
	if bounds.Empty() {
		s.logger.Log(logging.LevelWarn, fmt.Sprintf("文字 %q に描画できる形状がありません", s.opts.Glyph), nil)
		return nil
	}

	center := fixed.I(size) / 2
	dotX := center - (bounds.Min.X+bounds.Max.X)/2
	dotY := center - (bounds.Min.Y+bounds.Max.Y)/2

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(s.opts.Foreground),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(dotX.Round()), Y: fixed.I(dotY.Round())},
	}
	d.DrawString(s.opts.Glyph)
	return nil
}

// loadFont は優先フォントを読み込みます。失敗した場合は内蔵の Go Bold を使います
func (s *Synthesizer) loadFont() (*truetype.Font, error) {
	if s.font != nil {
		return s.font, nil
	}

	if s.opts.FontPath != "" {
		f, err := parseFontFile(s.opts.FontPath)
		if err == nil {
			s.font = f
			return f, nil
		}
		s.logger.Log(logging.LevelDebug, fmt.Sprintf("フォントを読み込めないため内蔵フォントを使用: %s", s.opts.FontPath), err)
	}

	f, err := truetype.Parse(gobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse built-in font: %w", err)
	}
	s.font = f
	return f, nil
}

func parseFontFile(path string) (*truetype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return truetype.Parse(data)
}

// drawLogo はロゴ画像を縦横比を保って縮小し、中央に重ねます
func (s *Synthesizer) drawLogo(canvas *image.RGBA) error {
	logo, err := imaging.DecodeFile(s.opts.LogoPath)
	if err != nil {
		return fmt.Errorf("load logo %s: %w", s.opts.LogoPath, err)
	}

	size := canvas.Bounds().Dx()
	lb := logo.Bounds()
	w, h := size, size
	if lb.Dx() > lb.Dy() {
		h = max(1, size*lb.Dy()/lb.Dx())
	} else if lb.Dy() > lb.Dx() {
		w = max(1, size*lb.Dx()/lb.Dy())
	}

	x0 := (size - w) / 2
	y0 := (size - h) / 2
	dst := image.Rect(x0, y0, x0+w, y0+h)
	draw.CatmullRom.Scale(canvas, dst, logo, lb, draw.Over, nil)
	return nil
}
