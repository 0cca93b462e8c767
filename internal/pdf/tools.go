package pdf

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"pdftools-backend/internal/apperr"
	"pdftools-backend/internal/config"
	"pdftools-backend/internal/storage"
)

// Toolchain 封装 qpdf 和 ghostscript 的调用约定。
// 页抽取/组装交给 qpdf，图像重压缩交给 ghostscript。
type Toolchain struct {
	qpdf   string
	gs     string
	runner *Runner
}

func NewToolchain(cfg config.PDFConfig) *Toolchain {
	return &Toolchain{
		qpdf:   cfg.QpdfBin,
		gs:     cfg.GsBin,
		runner: NewRunner(cfg.ToolTimeout),
	}
}

func (t *Toolchain) PageCount(ctx context.Context, path string) (int, error) {
	res, err := t.runner.Run(ctx, t.qpdf, "--show-npages", path)
	if err != nil {
		return 0, err
	}
	pages, err := strconv.Atoi(strings.TrimSpace(string(res.Stdout)))
	if err != nil {
		return 0, apperr.Internalf("failed to parse qpdf page count output %q", strings.TrimSpace(string(res.Stdout)))
	}
	return pages, nil
}

// AssemblePages 按解析好的页序拼出一个中间文档:
// qpdf --empty --pages <file> <page> ... -- <out>
func (t *Toolchain) AssemblePages(ctx context.Context, scratch *storage.Scratch, pages []ResolvedPage) (string, error) {
	out := scratch.FilePath("assembled")

	args := []string{"--empty", "--pages"}
	for _, p := range pages {
		args = append(args, p.Path, strconv.Itoa(p.Page))
	}
	args = append(args, "--", out)

	if _, err := t.runner.Run(ctx, t.qpdf, args...); err != nil {
		return "", err
	}
	return out, nil
}

// Compress 把输入文档串成一个输出并按质量参数重压缩图像
func (t *Toolchain) Compress(ctx context.Context, scratch *storage.Scratch, inputs []string, quality int) (string, error) {
	out := scratch.FilePath("out")
	dpi, jpegq := qualityParams(quality)

	args := []string{
		"-q",
		"-dNOPAUSE",
		"-dBATCH",
		"-sDEVICE=pdfwrite",
		"-dCompatibilityLevel=1.4",
		"-dDetectDuplicateImages=true",
		"-dCompressFonts=true",
		"-dSubsetFonts=true",
		"-dDownsampleColorImages=true",
		"-dDownsampleGrayImages=true",
		"-dDownsampleMonoImages=true",
		"-dColorImageDownsampleType=/Bicubic",
		"-dGrayImageDownsampleType=/Bicubic",
		fmt.Sprintf("-dColorImageResolution=%d", dpi),
		fmt.Sprintf("-dGrayImageResolution=%d", dpi),
		"-dMonoImageResolution=600",
		fmt.Sprintf("-dJPEGQ=%d", jpegq),
		"-sOutputFile=" + out,
	}
	args = append(args, inputs...)

	if _, err := t.runner.Run(ctx, t.gs, args...); err != nil {
		return "", err
	}
	return out, nil
}

func (t *Toolchain) Linearize(ctx context.Context, scratch *storage.Scratch, input string) (string, error) {
	out := scratch.FilePath("linearized")
	if _, err := t.runner.Run(ctx, t.qpdf, "--linearize", input, out); err != nil {
		return "", err
	}
	return out, nil
}

// qualityParams 把 10–100 的质量滑块连续映射到 gs 的图像分辨率和 JPEG 质量
func qualityParams(quality int) (dpi, jpegq int) {
	q := float64(quality)
	if q < 10 {
		q = 10
	}
	if q > 100 {
		q = 100
	}
	t := (q - 10) / 90
	dpi = int(math.Round(72 + t*(300-72)))
	jpegq = int(math.Round(20 + t*(95-20)))
	return dpi, jpegq
}
