package pdf

import (
	"context"

	"pdftools-backend/internal/apperr"
	"pdftools-backend/internal/model"
)

// ResolvedPage 是布局解析结果中的一页：源文件路径 + 该文件内的页码
type ResolvedPage struct {
	Path string
	Page int
}

type PageCounter interface {
	PageCount(ctx context.Context, path string) (int, error)
}

// ResolveLayout 把布局计划校验并展开成扁平页序。
// 每个文档的页数在一次请求内最多统计一次。
func ResolveLayout(ctx context.Context, counter PageCounter, docs map[string]string, plan []model.PageRef) ([]ResolvedPage, error) {
	if len(docs) == 0 {
		return nil, apperr.BadRequestf("Layout provided but no file_* parts found")
	}
	if len(plan) == 0 {
		return nil, apperr.BadRequestf("Layout is empty")
	}

	counts := make(map[string]int, len(docs))
	resolved := make([]ResolvedPage, 0, len(plan))
	for _, ref := range plan {
		path, ok := docs[ref.Doc]
		if !ok {
			return nil, apperr.BadRequestf("Layout references unknown doc id: %s", ref.Doc)
		}
		pages, counted := counts[ref.Doc]
		if !counted {
			var err error
			pages, err = counter.PageCount(ctx, path)
			if err != nil {
				return nil, err
			}
			counts[ref.Doc] = pages
		}
		if ref.Page < 1 || ref.Page > pages {
			return nil, apperr.BadRequestf("Invalid page %d for doc %s (max %d)", ref.Page, ref.Doc, pages)
		}
		resolved = append(resolved, ResolvedPage{Path: path, Page: ref.Page})
	}
	return resolved, nil
}
