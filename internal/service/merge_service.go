package service

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"os"
	"strconv"
	"strings"

	"pdftools-backend/internal/apperr"
	"pdftools-backend/internal/config"
	"pdftools-backend/internal/model"
	"pdftools-backend/internal/pdf"
	"pdftools-backend/internal/storage"
	"pdftools-backend/internal/utils"
	"pdftools-backend/pkg/logger"
)

const defaultQuality = 80

type PDFService struct {
	cfg   *config.Config
	tools *pdf.Toolchain
}

func NewPDFService(cfg *config.Config) *PDFService {
	return &PDFService{
		cfg:   cfg,
		tools: pdf.NewToolchain(cfg.PDF),
	}
}

// CountPages 接收单文件上传并返回页数
func (s *PDFService) CountPages(ctx context.Context, reader *multipart.Reader) (int, error) {
	scratch, err := storage.NewScratch()
	if err != nil {
		return 0, apperr.Internalize(err)
	}
	defer scratch.Cleanup()

	path, err := s.readSingleFile(reader, scratch)
	if err != nil {
		return 0, err
	}
	return s.tools.PageCount(ctx, path)
}

// Merge 执行完整流水线：接收 → 校验 → (可选)组页 → 重压缩 → (可选)线性化。
// 任何校验错误都在第一次调用外部工具之前返回；任何一步失败整体失败，不重试。
func (s *PDFService) Merge(ctx context.Context, reader *multipart.Reader) ([]byte, error) {
	scratch, err := storage.NewScratch()
	if err != nil {
		return nil, apperr.Internalize(err)
	}
	defer scratch.Cleanup()

	form, err := s.readMergeForm(reader, scratch)
	if err != nil {
		return nil, err
	}

	if len(form.legacyPaths) == 0 && len(form.docPaths) == 0 {
		return nil, apperr.BadRequestf("No PDF files uploaded")
	}

	opts, err := form.options()
	if err != nil {
		return nil, err
	}

	var inputs []string
	if opts.Layout != nil {
		resolved, err := pdf.ResolveLayout(ctx, s.tools, form.docPaths, opts.Layout)
		if err != nil {
			return nil, err
		}
		assembled, err := s.tools.AssemblePages(ctx, scratch, resolved)
		if err != nil {
			return nil, err
		}
		inputs = []string{assembled}
	} else {
		// 旧式模式：按提交顺序整文档拼接。file_<id> 上传必须配布局计划。
		if len(form.legacyPaths) == 0 {
			return nil, apperr.BadRequestf("file_<id> uploads require a layout")
		}
		inputs = form.legacyPaths
	}

	out, err := s.tools.Compress(ctx, scratch, inputs, opts.Quality)
	if err != nil {
		return nil, err
	}

	if opts.Linearize {
		out, err = s.tools.Linearize(ctx, scratch, out)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, apperr.Internalf("failed to read merged output: %v", err)
	}

	logger.Infof("merged %d document(s), quality=%d, linearize=%v, %d bytes out",
		len(form.legacyPaths)+len(form.docPaths), opts.Quality, opts.Linearize, len(data))
	return data, nil
}

// options 在所有字段读完后统一求值
func (f *mergeForm) options() (*model.MergeOptions, error) {
	opts := &model.MergeOptions{Quality: defaultQuality}

	if f.quality != "" {
		q, err := strconv.Atoi(strings.TrimSpace(f.quality))
		if err != nil {
			return nil, apperr.BadRequestf("Invalid quality")
		}
		opts.Quality = q
	}
	if opts.Quality < 10 || opts.Quality > 100 {
		return nil, apperr.BadRequestf("Quality must be between 10 and 100")
	}

	opts.Linearize = utils.ParseBoolLoose(f.linearize)

	if f.hasLayout {
		var layout []model.PageRef
		if err := json.Unmarshal([]byte(f.layoutJSON), &layout); err != nil {
			return nil, apperr.BadRequestf("Invalid layout")
		}
		if len(layout) == 0 {
			return nil, apperr.BadRequestf("Layout is empty")
		}
		opts.Layout = layout
	}

	return opts, nil
}
